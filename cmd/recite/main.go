// Package main provides the CLI entrypoint for recite.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/recite/internal/config"
	"github.com/verte-zerg/recite/internal/model"
	"github.com/verte-zerg/recite/internal/store"
	"github.com/verte-zerg/recite/internal/textcmp"
	"github.com/verte-zerg/recite/internal/tui"
)

const (
	defaultMode        = "char"
	defaultCurveWindow = 10
	defaultWeakTop     = 8
)

// errNotPerfect makes check exit non-zero without printing an error.
var errNotPerfect = errors.New("attempt differs from reference")

type practiceFlags struct {
	mode        string
	ignorePunct bool
	compose     bool
}

var (
	practiceOpts practiceFlags
	practiceText string
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, errNotPerfect) {
			logErrf("Error: %v\n", err)
		}
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "recite",
		Short:         "Memorize texts by typing them from memory",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE:          runPracticeCmd,
	}

	rootCmd.Flags().StringVar(&practiceText, "text", "", "id or title of the text to practice")
	addPracticeFlags(rootCmd, &practiceOpts)

	rootCmd.AddCommand(newAddCmd())
	rootCmd.AddCommand(newEditCmd())
	rootCmd.AddCommand(newRemoveCmd())
	rootCmd.AddCommand(newListCmd())
	rootCmd.AddCommand(newShowCmd())
	rootCmd.AddCommand(newCheckCmd())
	rootCmd.AddCommand(newExportCmd())
	rootCmd.AddCommand(newImportCmd())
	rootCmd.AddCommand(newStatsCmd())
	rootCmd.AddCommand(newConfigCmd())

	return rootCmd
}

func addPracticeFlags(cmd *cobra.Command, flags *practiceFlags) {
	cmd.Flags().StringVar(&flags.mode, "mode", defaultMode, "comparison mode: char or full")
	cmd.Flags().BoolVar(&flags.ignorePunct, "ignore-punct", false, "ignore punctuation when comparing")
	cmd.Flags().BoolVar(&flags.compose, "compose", false, "apply Unicode NFC before comparing")
}

// resolvePracticeConfig merges the config file into flags the user did not set.
func resolvePracticeConfig(cmd *cobra.Command, flags *practiceFlags) (model.Config, error) {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return model.Config{}, fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "mode", &flags.mode, fileCfg.Practice.Mode)
	applyBoolConfig(cmd, "ignore-punct", &flags.ignorePunct, fileCfg.Practice.IgnorePunctuation)
	applyBoolConfig(cmd, "compose", &flags.compose, fileCfg.Practice.Compose)

	mode, err := textcmp.ParseMode(flags.mode)
	if err != nil {
		return model.Config{}, fmt.Errorf("invalid --mode value: %w", err)
	}
	return model.Config{
		Mode:              mode,
		IgnorePunctuation: flags.ignorePunct,
		Compose:           flags.compose,
	}, nil
}

func runPracticeCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := resolvePracticeConfig(cmd, &practiceOpts)
	if err != nil {
		return err
	}

	st, closeStore, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore()

	ctx := context.Background()
	text, err := selectPracticeText(ctx, st, practiceText)
	if err != nil {
		return err
	}

	m := tui.NewModel(cfg, st, text)
	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

// selectPracticeText resolves --text, or the only stored text when there is one.
func selectPracticeText(ctx context.Context, st *store.Store, ref string) (model.Text, error) {
	if ref != "" {
		return findText(ctx, st, ref)
	}
	texts, err := st.ListTexts(ctx, store.OrderTitle)
	if err != nil {
		return model.Text{}, fmt.Errorf("failed to list texts: %w", err)
	}
	switch len(texts) {
	case 0:
		return model.Text{}, fmt.Errorf("no texts saved yet; add one with: recite add --title <title> --file <path>")
	case 1:
		return texts[0], nil
	}
	lines := []string{"several texts saved; choose one with --text <id|title>:"}
	for _, t := range texts {
		lines = append(lines, fmt.Sprintf("  %s  %s", shortID(t.ID), t.Title))
	}
	return model.Text{}, fmt.Errorf("%s", strings.Join(lines, "\n"))
}

func findText(ctx context.Context, st *store.Store, ref string) (model.Text, error) {
	text, err := st.FindText(ctx, ref)
	if errors.Is(err, store.ErrNotFound) {
		text, err = findByIDPrefix(ctx, st, ref)
	}
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return model.Text{}, fmt.Errorf("text %q not found (see: recite list)", ref)
		}
		return model.Text{}, fmt.Errorf("failed to load text: %w", err)
	}
	return text, nil
}

// findByIDPrefix accepts the short ids printed by list.
func findByIDPrefix(ctx context.Context, st *store.Store, prefix string) (model.Text, error) {
	if len(prefix) < 4 {
		return model.Text{}, store.ErrNotFound
	}
	texts, err := st.ListTexts(ctx, store.OrderUpdated)
	if err != nil {
		return model.Text{}, err
	}
	var found []model.Text
	for _, t := range texts {
		if strings.HasPrefix(t.ID, prefix) {
			found = append(found, t)
		}
	}
	switch len(found) {
	case 0:
		return model.Text{}, store.ErrNotFound
	case 1:
		return found[0], nil
	default:
		return model.Text{}, fmt.Errorf("id prefix %q is ambiguous", prefix)
	}
}

func openStore() (*store.Store, func(), error) {
	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open db: %w", err)
	}
	closeFn := func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}
	return st, closeFn, nil
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# recite configuration
# Uncomment a value to enable it. CLI flags override config values.

[practice]
# mode = %q           # Comparison mode: "char" (live) or "full"
# ignore-punct = false   # Ignore punctuation when comparing
# compose = false        # Apply Unicode NFC before comparing

[stats]
# curve-window = %d      # Moving average window
# weak-top = %d           # Number of weak characters to list
`,
		defaultMode,
		defaultCurveWindow,
		defaultWeakTop,
	)
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyBoolConfig(cmd *cobra.Command, name string, target, value *bool) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

// readInput reads a file, or stdin when path is empty or "-".
func readInput(path string, stdin io.Reader) (string, error) {
	if path == "" || path == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	return string(data), nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}

func logErrln(args ...any) {
	if _, err := fmt.Fprintln(os.Stderr, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
