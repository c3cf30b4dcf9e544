// Package main provides the CLI entrypoint for clipper.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/verte-zerg/clipper/internal/clipboard"
	"github.com/verte-zerg/clipper/internal/config"
	"github.com/verte-zerg/clipper/internal/engine"
	"github.com/verte-zerg/clipper/internal/layout"
	"github.com/verte-zerg/clipper/internal/logging"
	"github.com/verte-zerg/clipper/internal/model"
	"github.com/verte-zerg/clipper/internal/report"
	"github.com/verte-zerg/clipper/internal/store"
	"github.com/verte-zerg/clipper/internal/tui"
)

const (
	defaultThreshold = layout.DefaultThreshold
	defaultPreview   = report.DefaultPreview
	defaultLogFormat = "text"
)

var version = "dev"

var (
	rootInteractive bool
	rootDryRun      bool
	rootVerbose     bool
	rootThreshold   float64
	rootPreview     int
	rootLogFormat   string

	convertTo string
	undoClear bool
)

// newClipboard is replaced in tests.
var newClipboard = func() engine.Clipboard {
	return clipboard.System{}
}

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		logErrln(errorMessage(err))
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "clipper",
		Short:         "Fix text typed in the wrong keyboard layout",
		Long:          "Reads the clipboard, converts text typed in the wrong Russian/English keyboard layout and writes it back.",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE:          runProcessCmd,
	}

	rootCmd.Flags().BoolVarP(&rootInteractive, "interactive", "i", false, "confirm before replacing the clipboard")
	rootCmd.Flags().BoolVarP(&rootDryRun, "dry-run", "n", false, "show the proposed conversion without changing the clipboard")
	rootCmd.PersistentFlags().BoolVarP(&rootVerbose, "verbose", "v", false, "log detection details")
	rootCmd.PersistentFlags().Float64Var(&rootThreshold, "threshold", defaultThreshold, "minimum confidence to convert (0-1)")
	rootCmd.PersistentFlags().IntVar(&rootPreview, "preview", defaultPreview, "characters of text shown in status lines")
	rootCmd.PersistentFlags().StringVar(&rootLogFormat, "log-format", defaultLogFormat, "log format (text, json)")

	rootCmd.AddCommand(newUndoCmd())
	rootCmd.AddCommand(newDetectCmd())
	rootCmd.AddCommand(newConvertCmd())
	rootCmd.AddCommand(newConfigCmd())

	return rootCmd
}

func runProcessCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	eng, closeFn, err := openEngine(cmd, cfg)
	if err != nil {
		return err
	}
	defer closeFn()

	ctx := cmd.Context()
	switch {
	case cfg.DryRun:
		err = eng.DryRun(ctx)
	case cfg.Interactive:
		err = eng.ProcessInteractive(ctx)
	default:
		err = eng.Process(ctx)
	}
	return err
}

func newUndoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "undo",
		Short: "Restore the clipboard from before the last conversion",
		Args:  cobra.NoArgs,
		RunE:  runUndoCmd,
	}
	cmd.Flags().BoolVar(&undoClear, "clear", false, "forget the saved clipboard value instead of restoring it")
	return cmd
}

func runUndoCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	eng, closeFn, err := openEngine(cmd, cfg)
	if err != nil {
		return err
	}
	defer closeFn()

	if undoClear {
		return eng.ClearUndo(cmd.Context())
	}
	return eng.Undo(cmd.Context())
}

func newDetectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "detect [text...]",
		Short: "Show layout detection scores for text (args or stdin)",
		RunE:  runDetectCmd,
	}
}

func runDetectCmd(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	text, err := readText(cmd.InOrStdin(), args)
	if err != nil {
		return err
	}
	converter := layout.NewConverter(cfg.Threshold)
	out := cmd.OutOrStdout()
	if _, err := fmt.Fprintf(out, "%s: %s\n\n", converter.Name(), converter.Description()); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return report.Render(out, converter.Analyze(text))
}

func newConvertCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "convert [text...]",
		Short: "Convert text (args or stdin) and print the result",
		RunE:  runConvertCmd,
	}
	cmd.Flags().StringVar(&convertTo, "to", "", "force the target layout (ru, en)")
	return cmd
}

func runConvertCmd(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	text, err := readText(cmd.InOrStdin(), args)
	if err != nil {
		return err
	}

	converter := layout.NewConverter(cfg.Threshold)
	result := converter.Process(text)
	if convertTo != "" {
		dir, err := forcedDirection(convertTo)
		if err != nil {
			return err
		}
		result = converter.Convert(text, dir)
	}
	if _, err := fmt.Fprintln(cmd.OutOrStdout(), result); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func forcedDirection(to string) (layout.Direction, error) {
	lang, err := layout.ParseLang(to)
	if err != nil {
		return layout.Direction{}, fmt.Errorf("invalid --to value: %w", err)
	}
	if lang == layout.English {
		return layout.RuToEn, nil
	}
	return layout.EnToRu, nil
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

func loadConfig(cmd *cobra.Command) (model.Config, error) {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return model.Config{}, fmt.Errorf("failed to load config: %w", err)
	}
	applyFloatConfig(cmd, "threshold", &rootThreshold, fileCfg.Layout.Threshold)
	applyIntConfig(cmd, "preview", &rootPreview, fileCfg.Output.Preview)
	applyBoolConfig(cmd, "interactive", &rootInteractive, fileCfg.Output.Interactive)
	applyStringConfig(cmd, "log-format", &rootLogFormat, fileCfg.Output.LogFormat)

	cfg := model.Config{
		Threshold:   rootThreshold,
		Preview:     rootPreview,
		Interactive: rootInteractive,
		DryRun:      rootDryRun,
		Verbose:     rootVerbose,
		LogFormat:   rootLogFormat,
	}
	if err := validateConfig(cfg); err != nil {
		return model.Config{}, err
	}
	return cfg, nil
}

func openEngine(cmd *cobra.Command, cfg model.Config) (*engine.Engine, func(), error) {
	format, err := logging.ParseFormat(cfg.LogFormat)
	if err != nil {
		return nil, nil, err
	}
	logger := logging.New(cmd.ErrOrStderr(), logging.Options{
		Verbose:   cfg.Verbose,
		Format:    format,
		Component: "engine",
	})

	storePath := config.DefaultDBPath()
	st, err := store.Open(storePath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open db: %w", err)
	}
	closeFn := func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}

	eng := engine.New(newClipboard(), st, engine.Options{
		Out:       cmd.OutOrStdout(),
		Err:       cmd.ErrOrStderr(),
		Logger:    logger,
		Confirmer: tui.NewPrompter(cmd.InOrStdin(), cmd.OutOrStdout()),
		Preview:   cfg.Preview,
	})
	eng.Register(layout.NewConverter(cfg.Threshold))
	logger.Debug("engine ready", "processors", eng.Processors(), "threshold", cfg.Threshold, "db", storePath)
	return eng, closeFn, nil
}

// errorMessage turns an error into the line printed before exiting.
func errorMessage(err error) string {
	switch {
	case errors.Is(err, engine.ErrEmptyClipboard):
		return "Clipboard is empty or contains only whitespace."
	case errors.Is(err, engine.ErrNothingToUndo):
		return "No previous clipboard content to restore."
	case errors.Is(err, clipboard.ErrUnavailable):
		return "Clipboard error: " + err.Error()
	default:
		return "Error: " + err.Error()
	}
}

func readText(in io.Reader, args []string) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}
	data, err := io.ReadAll(in)
	if err != nil {
		return "", fmt.Errorf("failed to read stdin: %w", err)
	}
	return strings.TrimRight(string(data), "\r\n"), nil
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

func applyFloatConfig(cmd *cobra.Command, name string, target, value *float64) {
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

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# clipper configuration
# Uncomment a value to enable it. CLI flags override config values.

[layout]
# threshold = %.2f        # Minimum confidence to convert (0-1)

[output]
# preview = %d            # Characters of text shown in status lines
# interactive = false     # Confirm before replacing the clipboard
# log-format = %q     # Log format (text, json)
`,
		defaultThreshold,
		defaultPreview,
		defaultLogFormat,
	)
}

func validateConfig(cfg model.Config) error {
	if cfg.Threshold < 0 || cfg.Threshold > 1 {
		return fmt.Errorf("--threshold must be between 0 and 1")
	}
	if cfg.Preview <= 0 {
		return fmt.Errorf("--preview must be > 0")
	}
	if _, err := logging.ParseFormat(cfg.LogFormat); err != nil {
		return fmt.Errorf("invalid --log-format: %w", err)
	}
	return nil
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
