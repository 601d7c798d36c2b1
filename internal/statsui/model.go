// Package statsui provides the Bubble Tea stats interface.
package statsui

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/recite/internal/model"
	"github.com/verte-zerg/recite/internal/stats"
	"github.com/verte-zerg/recite/internal/textcmp"
)

const (
	tabOverview = iota
	tabCharTable
)

const recentAttempts = 10

var (
	activeNavStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F0F0F0")).
			Bold(true).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#C89A3A"))
	inactiveNavStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#B0B0B0")).
				Padding(0, 1).
				Border(lipgloss.RoundedBorder(), true).
				BorderForeground(lipgloss.Color("#4A4A4A"))
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	cardStyle   = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#4A4A4A"))
	cardTitleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	cardValueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	tableMutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#B8B8B8"))
)

// Model implements the Bubble Tea stats UI.
type Model struct {
	src   stats.AttemptSource
	cfg   model.StatsConfig
	label string

	report stats.Report
	errMsg string

	tabs      []string
	activeTab int
	overview  viewport.Model
	charTable table.Model

	width  int
	height int
}

// NewModel constructs a stats UI model. label names the current filter
// and is shown in the header.
func NewModel(src stats.AttemptSource, cfg model.StatsConfig, label string) *Model {
	m := &Model{
		src:       src,
		cfg:       cfg,
		label:     label,
		tabs:      []string{"Overview", "Characters"},
		overview:  viewport.New(0, 0),
		charTable: buildCharTable(nil, 0, 1),
	}
	m.refreshReport()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateLayout()
		m.renderOverview()
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.String() == "q" {
			return m, tea.Quit
		}
		switch msg.String() {
		case "left", "h":
			m.moveTab(-1)
			return m, tea.ClearScreen
		case "right", "l", "tab":
			m.moveTab(1)
			return m, tea.ClearScreen
		case "=":
			m.cfg.CurveWindow = nextCurveWindow(m.cfg.CurveWindow)
			m.refreshReport()
			return m, nil
		case "-":
			m.cfg.CurveWindow = prevCurveWindow(m.cfg.CurveWindow)
			m.refreshReport()
			return m, nil
		case "g", "home":
			if m.activeTab == tabCharTable {
				m.charTable.GotoTop()
			} else {
				m.overview.GotoTop()
			}
			return m, nil
		case "G", "end":
			if m.activeTab == tabCharTable {
				m.charTable.GotoBottom()
			} else {
				m.overview.GotoBottom()
			}
			return m, nil
		}
		var cmd tea.Cmd
		if m.activeTab == tabCharTable {
			m.charTable, cmd = m.charTable.Update(msg)
		} else {
			m.overview, cmd = m.overview.Update(msg)
		}
		return m, cmd
	}
	return m, nil
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	headerHeight, bodyHeight, footerHeight := m.layoutHeights()
	header := fitLines(m.renderHeader(), m.width, headerHeight)
	body := fitLines(m.renderBody(), m.width, bodyHeight)
	footer := fitLines(m.renderFooter(), m.width, footerHeight)
	return strings.Join([]string{header, body, footer}, "\n")
}

func (m *Model) layoutHeights() (headerHeight, bodyHeight, footerHeight int) {
	tabsHeight := max(1, lipgloss.Height(activeNavStyle.Render("X")))
	headerHeight = tabsHeight + 1
	footerHeight = 1
	if m.errMsg != "" {
		footerHeight++
	}
	bodyHeight = max(1, m.height-headerHeight-footerHeight)
	return headerHeight, bodyHeight, footerHeight
}

func (m *Model) updateLayout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	_, bodyHeight, _ := m.layoutHeights()
	m.overview.Width = m.width
	m.overview.Height = bodyHeight
	m.charTable.SetWidth(m.width)
	m.charTable.SetHeight(max(1, bodyHeight-1))
}

func (m *Model) moveTab(delta int) {
	count := len(m.tabs)
	m.activeTab = (m.activeTab + delta + count) % count
	if m.activeTab == tabCharTable {
		m.charTable.Focus()
	} else {
		m.charTable.Blur()
	}
}

func (m *Model) refreshReport() {
	report, err := stats.BuildReport(context.Background(), m.src, m.cfg)
	if err != nil {
		m.errMsg = err.Error()
		m.overview.SetContent("Failed to load stats.")
		return
	}
	m.errMsg = ""
	m.report = report
	_, bodyHeight, _ := m.layoutHeights()
	m.charTable.SetRows(buildCharRows(report.CharAggsWindow))
	m.charTable.SetHeight(max(1, bodyHeight-1))
	m.renderOverview()
}

func (m *Model) renderOverview() {
	if m.errMsg != "" {
		return
	}
	width := m.width
	if width <= 0 {
		width = 80
	}
	m.overview.SetContent(renderOverview(m.report, width))
}

func (m *Model) renderTabs() string {
	parts := make([]string, 0, len(m.tabs))
	for i, tab := range m.tabs {
		if i == m.activeTab {
			parts = append(parts, activeNavStyle.Render(tab))
		} else {
			parts = append(parts, inactiveNavStyle.Render(tab))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m *Model) renderHeader() string {
	return m.renderTabs() + "\n" + headerStyle.Render(m.renderFilterSummary())
}

func (m *Model) renderFilterSummary() string {
	text := m.label
	if text == "" {
		text = "all texts"
	}
	since := "any"
	if m.cfg.Since != nil {
		since = m.cfg.Since.Format("2006-01-02")
	}
	last := "all"
	if m.cfg.Last > 0 {
		last = fmt.Sprintf("%d", m.cfg.Last)
	}
	return fmt.Sprintf("Filter: %s  since=%s  last=%s  window=%d", text, since, last, m.cfg.CurveWindow)
}

func (m *Model) renderFooter() string {
	help := headerStyle.Render("Nav: left/right  Scroll: up/down/pgup/pgdn  Window: -/=  Quit: q")
	if m.errMsg != "" {
		return help + "\n" + errorStyle.Render(m.errMsg)
	}
	return help
}

func (m *Model) renderBody() string {
	if m.activeTab == tabCharTable {
		switch {
		case len(m.report.Attempts) == 0:
			return "No attempts found."
		case len(m.report.CharAggsWindow) == 0:
			return "No character stats found."
		default:
			return tableMutedStyle.Render(m.charTable.View())
		}
	}
	return m.overview.View()
}

func renderOverview(report stats.Report, width int) string {
	if len(report.Attempts) == 0 {
		return "No attempts found."
	}
	sections := []string{renderSummaryCards(report.Attempts, width)}

	var curve bytes.Buffer
	if err := stats.RenderCurve(&curve, report.Attempts, report.CurveWindow); err != nil {
		sections = append(sections, fmt.Sprintf("Failed to render curve: %v", err))
	} else {
		sections = append(sections, strings.TrimRight(curve.String(), "\n"))
	}
	if len(report.WeakChars) > 0 {
		weak := make([]string, len(report.WeakChars))
		for i, ch := range report.WeakChars {
			weak[i] = textcmp.FormatForDisplay(ch)
		}
		sections = append(sections, "Weak characters: "+strings.Join(weak, " "))
	}
	sections = append(sections, renderRecent(report.Attempts))
	return strings.Join(sections, "\n\n")
}

func renderSummaryCards(attempts []model.AttemptAggregate, width int) string {
	var totalAcc, bestAcc float64
	perfect := 0
	for _, a := range attempts {
		acc := stats.Accuracy(a.Summary)
		totalAcc += acc
		bestAcc = max(bestAcc, acc)
		if a.Perfect {
			perfect++
		}
	}
	count := float64(len(attempts))
	cards := []string{
		metricCard("Attempts", fmt.Sprintf("%d", len(attempts))),
		metricCard("Perfect", fmt.Sprintf("%d", perfect)),
		metricCard("Avg Acc", fmt.Sprintf("%.1f%%", (totalAcc/count)*100)),
		metricCard("Best Acc", fmt.Sprintf("%.1f%%", bestAcc*100)),
	}
	if width < 60 {
		return strings.Join(cards, "\n")
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cards...)
}

func metricCard(label, value string) string {
	content := fmt.Sprintf("%s\n%s", cardTitleStyle.Render(label), cardValueStyle.Render(value))
	return cardStyle.Render(content)
}

func renderRecent(attempts []model.AttemptAggregate) string {
	start := max(0, len(attempts)-recentAttempts)
	lines := []string{"Recent attempts"}
	for i := len(attempts) - 1; i >= start; i-- {
		a := attempts[i]
		mark := ""
		if a.Perfect {
			mark = "  perfect"
		}
		lines = append(lines, fmt.Sprintf("%s  %-4s  %6.2f%%  %5.1fs%s",
			a.EndedAt.Local().Format("2006-01-02 15:04"),
			a.Mode,
			stats.Accuracy(a.Summary)*100,
			float64(a.DurationMs)/1000,
			mark,
		))
	}
	return strings.Join(lines, "\n")
}

func charColumns() []table.Column {
	return []table.Column{
		{Title: "Char", Width: 5},
		{Title: "Accuracy", Width: 9},
		{Title: "Matches", Width: 8},
		{Title: "Mismatches", Width: 10},
		{Title: "Missing", Width: 8},
	}
}

func buildCharRows(aggs []model.CharAggregate) []table.Row {
	sorted := stats.Weakest(aggs)
	rows := make([]table.Row, 0, len(sorted))
	for _, agg := range sorted {
		rows = append(rows, table.Row{
			textcmp.FormatForDisplay(agg.Char),
			fmt.Sprintf("%.2f%%", stats.CharAccuracy(agg)*100),
			fmt.Sprintf("%d", agg.Matches),
			fmt.Sprintf("%d", agg.Mismatches),
			fmt.Sprintf("%d", agg.Missing),
		})
	}
	return rows
}

func buildCharTable(aggs []model.CharAggregate, width, height int) table.Model {
	t := table.New(
		table.WithColumns(charColumns()),
		table.WithRows(buildCharRows(aggs)),
		table.WithHeight(max(1, height-1)),
	)
	t.SetWidth(width)
	t.SetStyles(charTableStyles())
	return t
}

func charTableStyles() table.Styles {
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("#4A4A4A")).
		Foreground(lipgloss.Color("#C0C0C0")).
		Bold(true).
		Padding(0, 1).
		PaddingLeft(0)
	styles.Cell = styles.Cell.
		Padding(0, 1).
		PaddingLeft(0)
	styles.Selected = styles.Cell.
		Foreground(lipgloss.Color("#F0F0F0")).
		Bold(true)
	return styles
}

func nextCurveWindow(n int) int {
	if n < 5 {
		return 5
	}
	return (n/5 + 1) * 5
}

func prevCurveWindow(n int) int {
	if n <= 5 {
		return 1
	}
	if n%5 == 0 {
		return n - 5
	}
	return (n / 5) * 5
}

func padLine(line string, width int) string {
	lineWidth := lipgloss.Width(line)
	if lineWidth < width {
		return line + strings.Repeat(" ", width-lineWidth)
	}
	return line
}

func fitLines(s string, width, height int) string {
	if width <= 0 || height <= 0 {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = padLine(line, width)
	}
	if len(lines) > height {
		lines = lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, strings.Repeat(" ", width))
	}
	return strings.Join(lines, "\n")
}
