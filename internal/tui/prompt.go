package tui

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"
)

// Prompter asks yes/no questions on a terminal, or line by line when the
// input is not a terminal.
type Prompter struct {
	in  io.Reader
	out io.Writer
}

// NewPrompter returns a prompter reading answers from in.
func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{in: in, out: out}
}

// Confirm asks question and reports whether the user agreed. End of input
// counts as no.
func (p *Prompter) Confirm(ctx context.Context, question string) (bool, error) {
	if isTerminal(p.in) {
		return p.confirmTUI(ctx, question)
	}
	return p.confirmLine(question)
}

func (p *Prompter) confirmTUI(ctx context.Context, question string) (bool, error) {
	m := newConfirmModel(question)
	program := tea.NewProgram(m, tea.WithInput(p.in), tea.WithOutput(p.out), tea.WithContext(ctx))
	final, err := program.Run()
	if err != nil {
		return false, fmt.Errorf("failed to run prompt: %w", err)
	}
	fm, ok := final.(*confirmModel)
	if !ok {
		return false, nil
	}
	return fm.accepted, nil
}

func (p *Prompter) confirmLine(question string) (bool, error) {
	if _, err := fmt.Fprintf(p.out, "%s [y/N]: ", question); err != nil {
		return false, fmt.Errorf("failed to write prompt: %w", err)
	}
	reader := bufio.NewReader(p.in)
	line, err := reader.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, fmt.Errorf("failed to read answer: %w", err)
	}
	if errors.Is(err, io.EOF) && line == "" {
		if _, werr := fmt.Fprintln(p.out); werr != nil {
			// Best-effort newline after an unanswered prompt.
			_ = werr
		}
		return false, nil
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

func isTerminal(r io.Reader) bool {
	file, ok := r.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(file.Fd()))
}
