// Package clipboard reads and writes the system clipboard.
package clipboard

import (
	"errors"
	"fmt"
	"sync"

	"github.com/atotto/clipboard"
)

// ErrUnavailable wraps every failure to access a clipboard.
var ErrUnavailable = errors.New("clipboard unavailable")

// System is the operating system clipboard.
type System struct{}

// ReadAll returns the clipboard text.
func (System) ReadAll() (string, error) {
	if clipboard.Unsupported {
		return "", fmt.Errorf("failed to read from clipboard: %w: no clipboard utility found", ErrUnavailable)
	}
	text, err := clipboard.ReadAll()
	if err != nil {
		return "", fmt.Errorf("failed to read from clipboard: %w: %v", ErrUnavailable, err)
	}
	return text, nil
}

// WriteAll replaces the clipboard text.
func (System) WriteAll(text string) error {
	if clipboard.Unsupported {
		return fmt.Errorf("failed to write to clipboard: %w: no clipboard utility found", ErrUnavailable)
	}
	if err := clipboard.WriteAll(text); err != nil {
		return fmt.Errorf("failed to write to clipboard: %w: %v", ErrUnavailable, err)
	}
	return nil
}

// Memory is an in-process clipboard.
type Memory struct {
	mu       sync.Mutex
	text     string
	writes   int
	ReadErr  error
	WriteErr error
}

// NewMemory returns a Memory clipboard holding text.
func NewMemory(text string) *Memory {
	return &Memory{text: text}
}

// ReadAll returns the held text.
func (m *Memory) ReadAll() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ReadErr != nil {
		return "", fmt.Errorf("failed to read from clipboard: %w: %v", ErrUnavailable, m.ReadErr)
	}
	return m.text, nil
}

// WriteAll replaces the held text.
func (m *Memory) WriteAll(text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.WriteErr != nil {
		return fmt.Errorf("failed to write to clipboard: %w: %v", ErrUnavailable, m.WriteErr)
	}
	m.text = text
	m.writes++
	return nil
}

// Text returns the held text without error injection.
func (m *Memory) Text() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.text
}

// Writes returns how many successful writes happened.
func (m *Memory) Writes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writes
}
