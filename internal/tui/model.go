// Package tui provides the Bubble Tea practice interface.
package tui

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/recite/internal/model"
	statsPkg "github.com/verte-zerg/recite/internal/stats"
	"github.com/verte-zerg/recite/internal/textcmp"
)

// AttemptRecorder persists finished attempts.
type AttemptRecorder interface {
	InsertAttempt(ctx context.Context, attempt model.Attempt, chars []model.CharStats) (int64, error)
}

// Model implements the Bubble Tea practice UI.
type Model struct {
	config   model.Config
	recorder AttemptRecorder
	text     model.Text
	input    textarea.Model
	now      func() time.Time

	width  int
	height int

	started   bool
	startedAt time.Time
	recorded  bool
	// recordedAs is the normalized attempt saved last; edits that normalize
	// to the same text do not count as a new attempt.
	recordedAs string

	full *textcmp.FullResult
}

var (
	correctStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0"))
	incorrectStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	successStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#52C41A")).Bold(true)
	errorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F")).Bold(true)
	hintStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	titleStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)
	footerStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	resultStyle    = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#4A4A4A"))
)

// NewModel constructs a practice TUI model for a single text.
func NewModel(cfg model.Config, recorder AttemptRecorder, text model.Text) *Model {
	input := textarea.New()
	input.Placeholder = "Type the text from memory..."
	input.ShowLineNumbers = false
	input.CharLimit = 0
	input.Focus()
	return &Model{
		config:   cfg,
		recorder: recorder,
		text:     text,
		input:    input,
		now:      time.Now,
	}
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return textarea.Blink
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.SetWidth(max(1, contentWidth(m.width)))
		m.input.SetHeight(max(3, m.height/3))
		return m, nil
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyTab:
			m.toggleMode()
			return m, nil
		case tea.KeyCtrlP:
			m.config.IgnorePunctuation = !m.config.IgnorePunctuation
			m.full = nil
			return m, nil
		case tea.KeyCtrlR:
			m.reset()
			return m, nil
		case tea.KeyCtrlS:
			m.submit()
			return m, nil
		}
	}

	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.input.Value() != before {
		m.onInputChanged()
	}
	return m, cmd
}

// View implements tea.Model.
func (m *Model) View() string {
	width := contentWidth(m.width)
	sections := []string{
		titleStyle.Render(m.text.Title),
		m.input.View(),
		resultStyle.Width(max(1, width-2)).Render(m.renderResult(width - 4)),
		m.renderFooter(),
	}
	content := lipgloss.JoinVertical(lipgloss.Left, sections...)
	if m.width == 0 || m.height == 0 {
		return content
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
}

func contentWidth(total int) int {
	if total <= 0 {
		return 60
	}
	return max(1, int(float64(total)*0.70))
}

func (m *Model) toggleMode() {
	if m.config.Mode == textcmp.ModeChar {
		m.config.Mode = textcmp.ModeFull
	} else {
		m.config.Mode = textcmp.ModeChar
	}
	m.full = nil
}

func (m *Model) reset() {
	m.input.Reset()
	m.started = false
	m.startedAt = time.Time{}
	m.recorded = false
	m.recordedAs = ""
	m.full = nil
}

func (m *Model) onInputChanged() {
	if !m.started {
		m.started = true
		m.startedAt = m.now()
	}
	m.full = nil
	if m.recorded && textcmp.Normalize(m.input.Value(), m.recordOptions()) != m.recordedAs {
		m.recorded = false
	}
	if m.config.Mode != textcmp.ModeChar {
		return
	}
	prefix := textcmp.CheckPrefix(m.text.Content, m.input.Value(), m.config.Options())
	if prefix.Correct && prefix.Typed == prefix.Total && prefix.Total > 0 {
		m.record()
	}
}

// submit compares the whole attempt. In full mode the verdict is shown
// until the input changes again.
func (m *Model) submit() {
	attempt := m.input.Value()
	if strings.TrimSpace(attempt) == "" {
		return
	}
	if m.config.Mode == textcmp.ModeFull {
		full := textcmp.CompareFull(m.text.Content, attempt, m.config.Options())
		m.full = &full
	}
	m.record()
}

func (m *Model) record() {
	if m.recorded || m.recorder == nil {
		return
	}
	attemptText := m.input.Value()
	opts := m.config.Options()
	chars := textcmp.CompareChars(m.text.Content, attemptText, opts)
	result := textcmp.Compare(m.text.Content, attemptText, m.config.Mode, opts)
	startedAt := m.startedAt
	endedAt := m.now()
	if startedAt.IsZero() {
		startedAt = endedAt
	}
	attempt := model.Attempt{
		TextID:            m.text.ID,
		Mode:              m.config.Mode,
		IgnorePunctuation: m.config.IgnorePunctuation,
		StartedAt:         startedAt,
		EndedAt:           endedAt,
		Summary:           chars.Summary,
		Perfect:           result.Perfect(),
	}
	if _, err := m.recorder.InsertAttempt(context.Background(), attempt, statsPkg.CollectCharStats(chars.Items)); err != nil {
		logErrf("failed to save attempt: %v\n", err)
		return
	}
	m.recorded = true
	m.recordedAs = textcmp.Normalize(attemptText, m.recordOptions())
}

func (m *Model) recordOptions() textcmp.Options {
	opts := m.config.Options()
	opts.CollapseWhitespace = false
	return opts
}

func (m *Model) renderResult(width int) string {
	attempt := m.input.Value()
	opts := m.config.Options()
	if m.config.Mode == textcmp.ModeFull {
		if m.full == nil {
			return hintStyle.Render("No result yet. Press ctrl+s to compare.")
		}
		return renderFull(*m.full)
	}

	prefix := textcmp.CheckPrefix(m.text.Content, attempt, opts)
	if prefix.Empty() {
		return hintStyle.Render("Start typing; the text is checked as you go.")
	}
	lines := make([]string, 0, 3)
	for i, msg := range prefix.Messages() {
		switch {
		case i > 0:
			lines = append(lines, hintStyle.Render(msg))
		case prefix.Correct:
			lines = append(lines, successStyle.Render(msg))
		default:
			lines = append(lines, errorStyle.Render(msg))
		}
	}
	chars := textcmp.CompareChars(m.text.Content, attempt, opts)
	lines = append(lines, wrapStyledRunes(buildStyledRunes(chars.Items), width))
	return strings.Join(lines, "\n")
}

func renderFull(res textcmp.FullResult) string {
	lines := make([]string, 0, 4+len(res.Differences))
	if res.IsPerfect {
		lines = append(lines, successStyle.Render("Perfect"))
	} else {
		lines = append(lines, errorStyle.Render("Still differs"))
	}
	lines = append(lines,
		"Reference: "+orEmpty(res.ReferenceNormalized),
		"Attempt:   "+orEmpty(res.AttemptNormalized),
	)
	for _, diff := range res.Differences {
		lines = append(lines, "- "+diff)
	}
	return strings.Join(lines, "\n")
}

func orEmpty(s string) string {
	if s == "" {
		return hintStyle.Render("(empty)")
	}
	return s
}

func (m *Model) renderFooter() string {
	punct := "off"
	if m.config.IgnorePunctuation {
		punct = "on"
	}
	segments := []string{
		fmt.Sprintf("Mode %s", m.config.Mode),
		fmt.Sprintf("Ignore punct %s", punct),
		"tab mode · ctrl+p punct · ctrl+s compare · ctrl+r reset · esc quit",
	}
	return footerStyle.Render(strings.Join(segments, "  "))
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
