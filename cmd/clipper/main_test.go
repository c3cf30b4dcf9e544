package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/clipper/internal/clipboard"
	"github.com/verte-zerg/clipper/internal/config"
	"github.com/verte-zerg/clipper/internal/engine"
	"github.com/verte-zerg/clipper/internal/model"
)

type result struct {
	stdout string
	stderr string
	err    error
}

func runCLI(t *testing.T, stdin string, args ...string) result {
	t.Helper()
	var stdout, stderr bytes.Buffer
	root := newRootCmd()
	root.SetArgs(args)
	root.SetIn(strings.NewReader(stdin))
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	err := root.Execute()
	return result{stdout: stdout.String(), stderr: stderr.String(), err: err}
}

// setupEnv isolates config and data directories and installs an in-memory
// clipboard holding text.
func setupEnv(t *testing.T, text string) *clipboard.Memory {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_DATA_HOME", t.TempDir())
	cb := clipboard.NewMemory(text)
	prev := newClipboard
	newClipboard = func() engine.Clipboard { return cb }
	t.Cleanup(func() { newClipboard = prev })
	return cb
}

func writeConfig(t *testing.T, body string) {
	t.Helper()
	path := config.DefaultConfigPath()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
}

func TestValidateConfig(t *testing.T) {
	valid := model.Config{Threshold: 0.3, Preview: 10, LogFormat: "text"}
	require.NoError(t, validateConfig(valid))

	cases := []struct {
		name   string
		mutate func(*model.Config)
		want   string
	}{
		{"negative threshold", func(c *model.Config) { c.Threshold = -0.1 }, "--threshold must be between 0 and 1"},
		{"threshold above one", func(c *model.Config) { c.Threshold = 1.5 }, "--threshold must be between 0 and 1"},
		{"zero preview", func(c *model.Config) { c.Preview = 0 }, "--preview must be > 0"},
		{"bad log format", func(c *model.Config) { c.LogFormat = "xml" }, "invalid --log-format"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := valid
			tc.mutate(&cfg)
			err := validateConfig(cfg)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}

	for _, threshold := range []float64{0, 1} {
		cfg := valid
		cfg.Threshold = threshold
		assert.NoError(t, validateConfig(cfg))
	}
}

func TestReadText(t *testing.T) {
	text, err := readText(strings.NewReader("ignored"), []string{"ghbdtn", "vbh"})
	require.NoError(t, err)
	assert.Equal(t, "ghbdtn vbh", text)

	text, err = readText(strings.NewReader("руддщ\r\n"), nil)
	require.NoError(t, err)
	assert.Equal(t, "руддщ", text)
}

func TestConvertCmd(t *testing.T) {
	setupEnv(t, "")

	res := runCLI(t, "", "convert", "ghbdtn", "vbh")
	require.NoError(t, res.err)
	assert.Equal(t, "привет мир\n", res.stdout)

	res = runCLI(t, "руддщ\n", "convert")
	require.NoError(t, res.err)
	assert.Equal(t, "hello\n", res.stdout)

	res = runCLI(t, "", "convert", "hello world")
	require.NoError(t, res.err)
	assert.Equal(t, "hello world\n", res.stdout)
}

func TestConvertCmdForcedDirection(t *testing.T) {
	setupEnv(t, "")

	res := runCLI(t, "", "convert", "--to", "ru", "hello")
	require.NoError(t, res.err)
	assert.Equal(t, "руддщ\n", res.stdout)

	res = runCLI(t, "", "convert", "--to", "en", "привет")
	require.NoError(t, res.err)
	assert.Equal(t, "ghbdtn\n", res.stdout)

	res = runCLI(t, "", "convert", "--to", "de", "hello")
	require.Error(t, res.err)
	assert.Contains(t, res.err.Error(), "invalid --to value")
}

func TestDetectCmd(t *testing.T) {
	setupEnv(t, "")

	res := runCLI(t, "", "detect", "руддщ")
	require.NoError(t, res.err)
	lines := strings.Split(strings.TrimRight(res.stdout, "\n"), "\n")
	require.Greater(t, len(lines), 3)
	assert.Equal(t, "Layout Converter: Converts text between Russian and English keyboard layouts", lines[0])
	assert.Empty(t, lines[1])
	assert.True(t, strings.HasPrefix(lines[2], "Metric"))
	assert.Contains(t, res.stdout, "needs conversion     yes")
	assert.Contains(t, res.stdout, "threshold         0.3000")
}

func TestConfigFileOverridesDefaults(t *testing.T) {
	setupEnv(t, "")
	writeConfig(t, "[layout]\nthreshold = 0.95\n")

	res := runCLI(t, "", "detect", "a")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "threshold         0.9500")

	res = runCLI(t, "", "detect", "--threshold", "0.5", "a")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "threshold         0.5000")
}

func TestConfigFileValidation(t *testing.T) {
	setupEnv(t, "")

	writeConfig(t, "[layout]\nthreshold = 2.0\n")
	res := runCLI(t, "", "detect", "a")
	require.Error(t, res.err)
	assert.Contains(t, res.err.Error(), "--threshold must be between 0 and 1")

	writeConfig(t, "[layout]\nthreshhold = 0.5\n")
	res = runCLI(t, "", "detect", "a")
	require.Error(t, res.err)
	assert.Contains(t, res.err.Error(), "failed to load config")
}

func TestDefaultConfigTemplateLoads(t *testing.T) {
	setupEnv(t, "")
	writeConfig(t, defaultConfigTemplate())

	cfg, err := config.LoadConfig(config.DefaultConfigPath())
	require.NoError(t, err)
	assert.Nil(t, cfg.Layout.Threshold)
	assert.Nil(t, cfg.Output.Preview)

	uncommented := strings.NewReplacer("# threshold", "threshold", "# preview", "preview", "# log-format", "log-format").Replace(defaultConfigTemplate())
	writeConfig(t, uncommented)
	cfg, err = config.LoadConfig(config.DefaultConfigPath())
	require.NoError(t, err)
	require.NotNil(t, cfg.Layout.Threshold)
	assert.InDelta(t, 0.3, *cfg.Layout.Threshold, 1e-9)
	require.NotNil(t, cfg.Output.Preview)
	assert.Equal(t, 10, *cfg.Output.Preview)
	require.NotNil(t, cfg.Output.LogFormat)
	assert.Equal(t, "text", *cfg.Output.LogFormat)
}

func TestRootProcessAndUndo(t *testing.T) {
	cb := setupEnv(t, "руддщ")

	res := runCLI(t, "")
	require.NoError(t, res.err)
	assert.Equal(t, "hello", cb.Text())
	assert.Contains(t, res.stderr, "done: \"руддщ\" --> \"hello\"")

	res = runCLI(t, "", "undo")
	require.NoError(t, res.err)
	assert.Equal(t, "руддщ", cb.Text())
	assert.Contains(t, res.stderr, "restored: \"руддщ\" (saved ")
}

func TestRootDryRun(t *testing.T) {
	cb := setupEnv(t, "ghbdtn")

	res := runCLI(t, "", "--dry-run")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "=== PROPOSAL ===\nProcessor: Layout Converter\nProposed changes:\nпривет\n")
	assert.Equal(t, "ghbdtn", cb.Text())
	assert.Zero(t, cb.Writes())
}

func TestRootInteractive(t *testing.T) {
	cb := setupEnv(t, "ghbdtn")

	res := runCLI(t, "n\n", "-i")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "Proposed conversion: \"ghbdtn\" --> \"привет\"\n")
	assert.Contains(t, res.stdout, "Proceed with conversion? [y/N]: ")
	assert.Contains(t, res.stderr, "Conversion cancelled.")
	assert.Equal(t, "ghbdtn", cb.Text())

	res = runCLI(t, "yes\n", "-i")
	require.NoError(t, res.err)
	assert.Equal(t, "привет", cb.Text())
}

func TestRootInteractiveFromConfig(t *testing.T) {
	cb := setupEnv(t, "ghbdtn")
	writeConfig(t, "[output]\ninteractive = true\n")

	res := runCLI(t, "")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "Proceed with conversion? [y/N]: ")
	assert.Equal(t, "ghbdtn", cb.Text())
}

func TestRootNoNeedToConvert(t *testing.T) {
	cb := setupEnv(t, "hello world")

	res := runCLI(t, "")
	require.NoError(t, res.err)
	assert.Contains(t, res.stderr, "no need to convert: \"hello worl\"")
	assert.Zero(t, cb.Writes())

	res = runCLI(t, "", "--preview", "5")
	require.NoError(t, res.err)
	assert.Contains(t, res.stderr, "no need to convert: \"hello\"")
}

func TestRootEmptyClipboard(t *testing.T) {
	setupEnv(t, "   ")

	res := runCLI(t, "")
	assert.ErrorIs(t, res.err, engine.ErrEmptyClipboard)
	assert.Equal(t, "Clipboard is empty or contains only whitespace.", errorMessage(res.err))
	assert.NotContains(t, res.stderr, "Error:")
}

func TestRootClipboardError(t *testing.T) {
	cb := setupEnv(t, "руддщ")
	cb.ReadErr = errors.New("no display")

	res := runCLI(t, "")
	require.Error(t, res.err)
	assert.ErrorIs(t, res.err, clipboard.ErrUnavailable)
	assert.True(t, strings.HasPrefix(errorMessage(res.err), "Clipboard error: "))
	assert.Contains(t, errorMessage(res.err), "no display")
	assert.Empty(t, res.stderr)
}

func TestErrorMessage(t *testing.T) {
	assert.Equal(t, "Clipboard is empty or contains only whitespace.", errorMessage(engine.ErrEmptyClipboard))
	assert.Equal(t, "No previous clipboard content to restore.", errorMessage(engine.ErrNothingToUndo))
	assert.Equal(t, "Error: --preview must be > 0", errorMessage(errors.New("--preview must be > 0")))
}

func TestUndoClear(t *testing.T) {
	cb := setupEnv(t, "ghbdtn")

	require.NoError(t, runCLI(t, "").err)
	require.Equal(t, "привет", cb.Text())

	res := runCLI(t, "", "undo", "--clear")
	require.NoError(t, res.err)
	assert.Contains(t, res.stderr, "undo state cleared")
	assert.Equal(t, "привет", cb.Text())

	res = runCLI(t, "", "undo")
	assert.ErrorIs(t, res.err, engine.ErrNothingToUndo)
}

func TestUndoNothingSaved(t *testing.T) {
	setupEnv(t, "hello")

	res := runCLI(t, "", "undo")
	assert.ErrorIs(t, res.err, engine.ErrNothingToUndo)
}

func TestVerboseLogsDetection(t *testing.T) {
	setupEnv(t, "руддщ")

	res := runCLI(t, "", "-v", "--log-format", "json")
	require.NoError(t, res.err)
	assert.Contains(t, res.stderr, `"msg":"layout detection"`)
	assert.Contains(t, res.stderr, `"component":"engine"`)
}
