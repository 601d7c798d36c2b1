package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/recite/internal/model"
	"github.com/verte-zerg/recite/internal/store"
)

const listTitleWidth = 32

func newAddCmd() *cobra.Command {
	var (
		title string
		file  string
	)
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Save a new text (content from --file or stdin)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if file == "" && stdinIsTerminal() {
				logErrln("Reading content from stdin; finish with Ctrl-D.")
			}
			content, err := readInput(file, cmd.InOrStdin())
			if err != nil {
				return err
			}
			st, closeStore, err := openStore()
			if err != nil {
				return err
			}
			defer closeStore()

			text, err := st.CreateText(context.Background(), title, content)
			if err != nil {
				return fmt.Errorf("failed to add text: %w", err)
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Added %s  %s\n", shortID(text.ID), text.Title)
			return err
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "title of the text")
	cmd.Flags().StringVar(&file, "file", "", "read content from file (default stdin)")
	return cmd
}

func newEditCmd() *cobra.Command {
	var (
		title string
		file  string
	)
	cmd := &cobra.Command{
		Use:   "edit <id|title>",
		Short: "Change the title and/or content of a text",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("title") && !cmd.Flags().Changed("file") {
				return fmt.Errorf("nothing to change: pass --title and/or --file")
			}
			st, closeStore, err := openStore()
			if err != nil {
				return err
			}
			defer closeStore()

			ctx := context.Background()
			current, err := findText(ctx, st, args[0])
			if err != nil {
				return err
			}
			newTitle := current.Title
			if cmd.Flags().Changed("title") {
				newTitle = title
			}
			newContent := current.Content
			if cmd.Flags().Changed("file") {
				newContent, err = readInput(file, cmd.InOrStdin())
				if err != nil {
					return err
				}
			}
			updated, err := st.UpdateText(ctx, current.ID, newTitle, newContent)
			if err != nil {
				return fmt.Errorf("failed to update text: %w", err)
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Updated %s  %s\n", shortID(updated.ID), updated.Title)
			return err
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "new title")
	cmd.Flags().StringVar(&file, "file", "", "read new content from file (\"-\" for stdin)")
	return cmd
}

func newRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id|title>",
		Aliases: []string{"delete"},
		Short:   "Delete a text and its attempts",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
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
			if err := st.DeleteText(ctx, text.ID); err != nil {
				return fmt.Errorf("failed to delete text: %w", err)
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s  %s\n", shortID(text.ID), text.Title)
			return err
		},
	}
}

func newListCmd() *cobra.Command {
	var byTitle bool
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List saved texts",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			st, closeStore, err := openStore()
			if err != nil {
				return err
			}
			defer closeStore()

			order := store.OrderUpdated
			if byTitle {
				order = store.OrderTitle
			}
			texts, err := st.ListTexts(context.Background(), order)
			if err != nil {
				return fmt.Errorf("failed to list texts: %w", err)
			}
			return renderTextList(cmd.OutOrStdout(), texts)
		},
	}
	cmd.Flags().BoolVar(&byTitle, "by-title", false, "sort by title instead of last update")
	return cmd
}

func renderTextList(w io.Writer, texts []model.Text) error {
	if len(texts) == 0 {
		_, err := fmt.Fprintln(w, "No texts saved yet.")
		return err
	}
	for _, t := range texts {
		title := runewidth.Truncate(t.Title, listTitleWidth, "…")
		line := fmt.Sprintf("%s  %s  %6d chars  %s",
			shortID(t.ID),
			runewidth.FillRight(title, listTitleWidth),
			len([]rune(t.Content)),
			t.LastModified().Local().Format("2006-01-02 15:04"),
		)
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

func newShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id|title>",
		Short: "Print a saved text",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, closeStore, err := openStore()
			if err != nil {
				return err
			}
			defer closeStore()

			text, err := findText(context.Background(), st, args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if _, err := fmt.Fprintf(out, "# %s\n\n", text.Title); err != nil {
				return err
			}
			_, err = fmt.Fprintln(out, strings.TrimRight(text.Content, "\n"))
			return err
		},
	}
}
