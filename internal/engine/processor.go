// Package engine orchestrates clipboard processing: it reads the clipboard,
// runs the first applicable processor, keeps the previous value for undo and
// writes the result back.
package engine

// Processor transforms clipboard text.
type Processor interface {
	// Name identifies the processor in user-facing output.
	Name() string
	// CanProcess reports whether Process would change text.
	CanProcess(text string) bool
	// Process returns the transformed text, or text itself when there is
	// nothing to do.
	Process(text string) string
}
