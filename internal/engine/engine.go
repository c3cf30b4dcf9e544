package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/verte-zerg/clipper/internal/layout"
	"github.com/verte-zerg/clipper/internal/logging"
	"github.com/verte-zerg/clipper/internal/model"
	"github.com/verte-zerg/clipper/internal/report"
)

// Errors reported by the engine.
var (
	ErrEmptyClipboard = errors.New("clipboard is empty or contains only whitespace")
	ErrNothingToUndo  = errors.New("no previous clipboard content to restore")
	ErrNoProcessor    = errors.New("no processors registered")
)

const confirmQuestion = "Proceed with conversion?"

// Clipboard reads and writes clipboard text.
type Clipboard interface {
	ReadAll() (string, error)
	WriteAll(text string) error
}

// UndoStore keeps the clipboard value replaced by the last conversion.
type UndoStore interface {
	Save(ctx context.Context, text string) error
	Load(ctx context.Context) (model.UndoEntry, bool, error)
	Clear(ctx context.Context) error
}

// Confirmer asks the user a yes/no question.
type Confirmer interface {
	Confirm(ctx context.Context, question string) (bool, error)
}

// Options configures an Engine. Nil writers discard output.
type Options struct {
	// Out receives proposals and dry-run output.
	Out io.Writer
	// Err receives status lines.
	Err io.Writer
	// Logger receives diagnostics.
	Logger *slog.Logger
	// Confirmer answers interactive prompts.
	Confirmer Confirmer
	// Preview is the width of text previews in status lines.
	Preview int
	// Now returns the current time.
	Now func() time.Time
}

// Engine runs processors over clipboard content.
type Engine struct {
	clipboard  Clipboard
	undo       UndoStore
	processors []Processor
	confirmer  Confirmer
	out        io.Writer
	errOut     io.Writer
	logger     *slog.Logger
	preview    int
	now        func() time.Time

	mu sync.Mutex
}

// New returns an engine over the given clipboard and undo store.
func New(cb Clipboard, undo UndoStore, opts Options) *Engine {
	e := &Engine{
		clipboard: cb,
		undo:      undo,
		confirmer: opts.Confirmer,
		out:       opts.Out,
		errOut:    opts.Err,
		logger:    opts.Logger,
		preview:   opts.Preview,
		now:       opts.Now,
	}
	if e.out == nil {
		e.out = io.Discard
	}
	if e.errOut == nil {
		e.errOut = io.Discard
	}
	if e.logger == nil {
		e.logger = logging.Discard()
	}
	if e.preview <= 0 {
		e.preview = report.DefaultPreview
	}
	if e.now == nil {
		e.now = time.Now
	}
	return e
}

// Register appends a processor. The first registered processor is the
// fallback when none reports it can process the text.
func (e *Engine) Register(p Processor) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.processors = append(e.processors, p)
}

// Processors returns the names of registered processors in order.
func (e *Engine) Processors() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	names := make([]string, 0, len(e.processors))
	for _, p := range e.processors {
		names = append(names, p.Name())
	}
	return names
}

// Process converts the clipboard in place.
func (e *Engine) Process(ctx context.Context) error {
	return e.process(ctx, false)
}

// ProcessInteractive converts the clipboard after the user confirms.
func (e *Engine) ProcessInteractive(ctx context.Context) error {
	return e.process(ctx, true)
}

func (e *Engine) process(ctx context.Context, interactive bool) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	text, err := e.clipboard.ReadAll()
	if err != nil {
		return err
	}
	if strings.TrimSpace(text) == "" {
		return ErrEmptyClipboard
	}

	p := e.findProcessor(text)
	if p == nil {
		p = e.defaultProcessor()
	}
	if p == nil {
		return ErrNoProcessor
	}
	e.logDetection(p, text)

	processed := p.Process(text)
	if processed == text {
		e.status("no need to convert: %q\n", e.truncate(text))
		return nil
	}

	if interactive {
		if err := e.printf("Proposed conversion: %q --> %q\n", e.truncate(text), e.truncate(processed)); err != nil {
			return err
		}
		ok, err := e.confirm(ctx)
		if err != nil {
			return err
		}
		if !ok {
			e.status("Conversion cancelled.\n")
			return nil
		}
	}

	if err := e.undo.Save(ctx, text); err != nil {
		e.status("Warning: could not save undo state: %v\n", err)
		e.logger.Warn("undo save failed", "error", err)
	}
	if err := e.clipboard.WriteAll(processed); err != nil {
		return err
	}
	e.status("done: %q --> %q\n", e.truncate(text), e.truncate(processed))
	return nil
}

// DryRun prints the clipboard and the proposed result without writing.
func (e *Engine) DryRun(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	text, err := e.clipboard.ReadAll()
	if err != nil {
		return err
	}
	lines := []string{"=== CLIPBOARD CONTENT ==="}
	if strings.TrimSpace(text) == "" {
		lines = append(lines, "(empty or whitespace only)")
		return e.printLines(lines)
	}
	lines = append(lines, text, "", "=== PROPOSAL ===")

	p := e.findProcessor(text)
	if p == nil {
		p = e.defaultProcessor()
	}
	if p == nil {
		lines = append(lines, "No processor available for this text.")
		return e.printLines(lines)
	}
	e.logDetection(p, text)

	processed := p.Process(text)
	if processed == text {
		lines = append(lines, "No changes needed.")
	} else {
		lines = append(lines, "Processor: "+p.Name(), "Proposed changes:", processed)
	}
	return e.printLines(lines)
}

// Undo restores the clipboard value saved before the last conversion.
func (e *Engine) Undo(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	entry, ok, err := e.undo.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load undo state: %w", err)
	}
	if !ok {
		return ErrNothingToUndo
	}
	if err := e.clipboard.WriteAll(entry.Text); err != nil {
		return err
	}
	e.status("restored: %q (saved %s)\n", e.truncate(entry.Text), humanize.RelTime(entry.SavedAt, e.now(), "ago", "from now"))
	return nil
}

// ClearUndo forgets the saved clipboard value.
func (e *Engine) ClearUndo(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.undo.Clear(ctx); err != nil {
		return fmt.Errorf("failed to clear undo state: %w", err)
	}
	e.status("undo state cleared\n")
	return nil
}

func (e *Engine) findProcessor(text string) Processor {
	for _, p := range e.processors {
		if p.CanProcess(text) {
			return p
		}
	}
	return nil
}

func (e *Engine) defaultProcessor() Processor {
	if len(e.processors) == 0 {
		return nil
	}
	return e.processors[0]
}

func (e *Engine) confirm(ctx context.Context) (bool, error) {
	if e.confirmer == nil {
		return false, fmt.Errorf("interactive mode needs a prompt")
	}
	ok, err := e.confirmer.Confirm(ctx, confirmQuestion)
	if err != nil {
		return false, fmt.Errorf("failed to confirm conversion: %w", err)
	}
	return ok, nil
}

// analyzer is implemented by processors that can explain their decision.
type analyzer interface {
	Analyze(text string) layout.Analysis
}

func (e *Engine) logDetection(p Processor, text string) {
	a, ok := p.(analyzer)
	if !ok {
		return
	}
	if !e.logger.Enabled(context.Background(), slog.LevelDebug) {
		return
	}
	analysis := a.Analyze(text)
	e.logger.Debug("layout detection",
		"processor", p.Name(),
		"apparent", analysis.Apparent.String(),
		"intended", analysis.Intended.String(),
		"confidence", analysis.Confidence,
		"needs_conversion", analysis.NeedsConversion,
	)
}

func (e *Engine) truncate(text string) string {
	return report.Preview(text, e.preview)
}

func (e *Engine) printf(format string, args ...any) error {
	if _, err := fmt.Fprintf(e.out, format, args...); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (e *Engine) printLines(lines []string) error {
	for _, line := range lines {
		if _, err := fmt.Fprintln(e.out, line); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func (e *Engine) status(format string, args ...any) {
	if _, err := fmt.Fprintf(e.errOut, format, args...); err != nil {
		// Best-effort status output.
		_ = err
	}
}
