package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/verte-zerg/recite/internal/model"
	"github.com/verte-zerg/recite/internal/stats"
	"github.com/verte-zerg/recite/internal/textcmp"
)

const (
	defaultTermWidth = 80
	checkCharColumn  = 6
)

type checkStyles struct {
	ok   lipgloss.Style
	bad  lipgloss.Style
	hint lipgloss.Style
}

func newCheckStyles(color bool) checkStyles {
	if !color {
		plain := lipgloss.NewStyle()
		return checkStyles{ok: plain, bad: plain, hint: plain}
	}
	return checkStyles{
		ok:   lipgloss.NewStyle().Foreground(lipgloss.Color("#52C41A")).Bold(true),
		bad:  lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F")).Bold(true),
		hint: lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C")),
	}
}

func newCheckCmd() *cobra.Command {
	var (
		flags       practiceFlags
		attemptFile string
		record      bool
	)
	cmd := &cobra.Command{
		Use:   "check <id|title>",
		Short: "Compare an attempt (from --attempt-file or stdin) against a saved text",
		Long: "Compare an attempt against a saved text without the TUI.\n" +
			"Exits with status 1 when the attempt is not a perfect match.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolvePracticeConfig(cmd, &flags)
			if err != nil {
				return err
			}
			startedAt := time.Now()
			attempt, err := readInput(attemptFile, cmd.InOrStdin())
			if err != nil {
				return err
			}

			st, closeStore, err := openStore()
			if err != nil {
				return err
			}
			defer closeStore()

			ctx := context.Background()
			text, err := findText(ctx, st, args[0])
			if err != nil {
				return err
			}

			opts := cfg.Options()
			result := textcmp.Compare(text.Content, attempt, cfg.Mode, opts)
			out := cmd.OutOrStdout()
			isTTY := isTerminalWriter(out)
			styles := newCheckStyles(isTTY)
			width := defaultTermWidth
			if isTTY {
				width = terminalWidth(out)
			}
			if err := renderCheck(out, result, styles, width); err != nil {
				return err
			}

			if record {
				chars := textcmp.CompareChars(text.Content, attempt, opts)
				entry := model.Attempt{
					TextID:            text.ID,
					Mode:              cfg.Mode,
					IgnorePunctuation: cfg.IgnorePunctuation,
					StartedAt:         startedAt,
					EndedAt:           time.Now(),
					Summary:           chars.Summary,
					Perfect:           result.Perfect(),
				}
				if _, err := st.InsertAttempt(ctx, entry, stats.CollectCharStats(chars.Items)); err != nil {
					return fmt.Errorf("failed to save attempt: %w", err)
				}
			}

			if !result.Perfect() {
				return errNotPerfect
			}
			return nil
		},
	}
	addPracticeFlags(cmd, &flags)
	cmd.Flags().StringVar(&attemptFile, "attempt-file", "", "read the attempt from file (default stdin)")
	cmd.Flags().BoolVar(&record, "record", false, "save the attempt to stats")
	return cmd
}

func renderCheck(w io.Writer, result textcmp.Result, styles checkStyles, width int) error {
	switch result.Mode {
	case textcmp.ModeFull:
		return renderCheckFull(w, *result.Full, styles)
	default:
		return renderCheckChars(w, *result.Char, styles, width)
	}
}

func renderCheckFull(w io.Writer, res textcmp.FullResult, styles checkStyles) error {
	lines := []string{}
	if res.IsPerfect {
		lines = append(lines, styles.ok.Render("Perfect"))
	} else {
		lines = append(lines, styles.bad.Render("Differs"))
	}
	lines = append(lines, res.Differences...)
	_, err := fmt.Fprintln(w, strings.Join(lines, "\n"))
	return err
}

func renderCheckChars(w io.Writer, res textcmp.CharResult, styles checkStyles, width int) error {
	sum := res.Summary
	verdict := styles.ok.Render("Perfect")
	if sum.Mismatches+sum.Missing+sum.Extra > 0 {
		verdict = styles.bad.Render("Differs")
	}
	header := fmt.Sprintf("%s  accuracy %.2f%%  match %d  wrong %d  missing %d  extra %d",
		verdict, sum.Accuracy()*100, sum.Matches, sum.Mismatches, sum.Missing, sum.Extra)
	if _, err := fmt.Fprintln(w, header); err != nil {
		return err
	}

	cells := make([]string, 0, len(res.Items))
	for _, item := range res.Items {
		if item.Status == textcmp.StatusMatch {
			continue
		}
		cells = append(cells, formatCheckItem(item, styles))
	}
	if len(cells) == 0 {
		return nil
	}
	return writeColumns(w, cells, width)
}

func formatCheckItem(item textcmp.Item, styles checkStyles) string {
	ref := textcmp.FormatForDisplay(item.Reference)
	got := textcmp.FormatForDisplay(item.Attempt)
	label := fmt.Sprintf("#%d", item.Index)
	label = runewidth.FillRight(label, checkCharColumn)
	switch item.Status {
	case textcmp.StatusMismatch:
		return label + styles.bad.Render(ref+" → "+got)
	case textcmp.StatusMissing:
		return label + styles.bad.Render(ref) + styles.hint.Render(" missing")
	case textcmp.StatusExtra:
		return label + styles.hint.Render("extra ") + styles.bad.Render(got)
	default:
		return label + ref
	}
}

// writeColumns lays cells out in as many fixed-width columns as fit.
func writeColumns(w io.Writer, cells []string, width int) error {
	cellWidth := 0
	for _, c := range cells {
		cellWidth = max(cellWidth, lipgloss.Width(c))
	}
	cellWidth += 2
	cols := max(1, width/cellWidth)
	var b strings.Builder
	for i, c := range cells {
		b.WriteString(c)
		if (i+1)%cols == 0 || i == len(cells)-1 {
			b.WriteByte('\n')
			continue
		}
		b.WriteString(strings.Repeat(" ", cellWidth-lipgloss.Width(c)))
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func isTerminalWriter(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}

func terminalWidth(w io.Writer) int {
	f, ok := w.(*os.File)
	if !ok {
		return defaultTermWidth
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil || width <= 0 {
		return defaultTermWidth
	}
	return width
}

func stdinIsTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}
