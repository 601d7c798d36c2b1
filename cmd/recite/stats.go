package main

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/recite/internal/config"
	"github.com/verte-zerg/recite/internal/model"
	"github.com/verte-zerg/recite/internal/stats"
	"github.com/verte-zerg/recite/internal/statsui"
)

type statsFlags struct {
	text        string
	since       string
	last        int
	curveWindow int
	weakTop     int
	tui         bool
}

func newStatsCmd() *cobra.Command {
	var flags statsFlags
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show practice statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			applyIntConfig(cmd, "curve-window", &flags.curveWindow, fileCfg.Stats.CurveWindow)
			applyIntConfig(cmd, "weak-top", &flags.weakTop, fileCfg.Stats.WeakTop)

			statsCfg, err := buildStatsConfig(flags)
			if err != nil {
				return err
			}

			st, closeStore, err := openStore()
			if err != nil {
				return err
			}
			defer closeStore()

			ctx := context.Background()
			label := ""
			if flags.text != "" {
				text, err := findText(ctx, st, flags.text)
				if err != nil {
					return err
				}
				statsCfg.TextID = text.ID
				label = text.Title
			}

			if flags.tui {
				program := tea.NewProgram(statsui.NewModel(st, statsCfg, label), tea.WithAltScreen())
				if _, err := program.Run(); err != nil {
					return fmt.Errorf("failed to run stats UI: %w", err)
				}
				return nil
			}

			if label != "" {
				if _, err := fmt.Fprintf(cmd.OutOrStdout(), "Text: %s\n", label); err != nil {
					return err
				}
			}

			report, err := stats.BuildReport(ctx, st, statsCfg)
			if err != nil {
				return fmt.Errorf("failed to build stats: %w", err)
			}
			return report.Render(cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVar(&flags.text, "text", "", "only attempts for this text (id or title)")
	cmd.Flags().StringVar(&flags.since, "since", "", "only attempts on or after this date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&flags.last, "last", 0, "only the most recent N attempts")
	cmd.Flags().IntVar(&flags.curveWindow, "curve-window", defaultCurveWindow, "moving average window")
	cmd.Flags().BoolVar(&flags.tui, "tui", false, "browse stats interactively")
	cmd.Flags().IntVar(&flags.weakTop, "weak-top", defaultWeakTop, "number of weak characters to list (must be > 0)")
	return cmd
}

func buildStatsConfig(flags statsFlags) (model.StatsConfig, error) {
	if flags.last < 0 {
		return model.StatsConfig{}, fmt.Errorf("--last must be >= 0")
	}
	if flags.curveWindow <= 0 {
		return model.StatsConfig{}, fmt.Errorf("--curve-window must be > 0")
	}
	if flags.weakTop <= 0 {
		return model.StatsConfig{}, fmt.Errorf("--weak-top must be > 0")
	}
	cfg := model.StatsConfig{
		Last:        flags.last,
		CurveWindow: flags.curveWindow,
		WeakTop:     flags.weakTop,
	}
	if flags.since != "" {
		since, err := time.ParseInLocation("2006-01-02", flags.since, time.Local)
		if err != nil {
			return model.StatsConfig{}, fmt.Errorf("invalid --since value (want YYYY-MM-DD): %w", err)
		}
		cfg.Since = &since
	}
	return cfg, nil
}
