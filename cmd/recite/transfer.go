package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/verte-zerg/recite/internal/store"
	"github.com/verte-zerg/recite/internal/transfer"
)

func newExportCmd() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write all texts to a JSON file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) (err error) {
			st, closeStore, err := openStore()
			if err != nil {
				return err
			}
			defer closeStore()

			texts, err := st.ListTexts(context.Background(), store.OrderTitle)
			if err != nil {
				return fmt.Errorf("failed to list texts: %w", err)
			}
			if len(texts) == 0 {
				return transfer.ErrNothingToExport
			}

			now := time.Now()
			if out == "-" {
				return transfer.Export(cmd.OutOrStdout(), texts, now)
			}
			if out == "" {
				out = transfer.DefaultExportName(now)
			}
			f, err := os.Create(out)
			if err != nil {
				return fmt.Errorf("failed to create %s: %w", out, err)
			}
			defer func() {
				if cerr := f.Close(); cerr != nil && err == nil {
					err = fmt.Errorf("failed to close %s: %w", out, cerr)
				}
			}()
			if err := transfer.Export(f, texts, now); err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Exported %d texts to %s\n", len(texts), out)
			return err
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default recite-texts-<timestamp>.json, \"-\" for stdout)")
	return cmd
}

func newImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Merge texts from a JSON export",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("failed to open %s: %w", args[0], err)
			}
			defer func() {
				if cerr := f.Close(); cerr != nil {
					// Best-effort close; import already finished.
					_ = cerr
				}
			}()

			env, err := transfer.Decode(f)
			if err != nil {
				if errors.Is(err, transfer.ErrInvalidFormat) {
					return err
				}
				return fmt.Errorf("failed to read %s: %w", args[0], err)
			}

			st, closeStore, err := openStore()
			if err != nil {
				return err
			}
			defer closeStore()

			ctx := context.Background()
			existing, err := st.ListTexts(ctx, store.OrderUpdated)
			if err != nil {
				return fmt.Errorf("failed to list texts: %w", err)
			}
			merged := transfer.Merge(existing, env.Items)
			changed := transfer.Changed(existing, merged)
			if err := st.UpsertTexts(ctx, changed); err != nil {
				return fmt.Errorf("failed to save imported texts: %w", err)
			}
			skipped := len(env.Items) - countValid(env)
			if skipped > 0 {
				logErrf("Skipped %d items without id or title\n", skipped)
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Imported %d texts (%d new or updated, %d total)\n",
				countValid(env), len(changed), len(merged))
			return err
		},
	}
}

func countValid(env transfer.Envelope) int {
	n := 0
	for _, t := range env.Items {
		if t.ID != "" && t.Title != "" {
			n++
		}
	}
	return n
}
