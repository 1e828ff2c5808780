package wizard

import (
	"errors"
	"io"

	"github.com/peterh/liner"
)

// ErrCancelled is returned when the user declines a prompt or aborts input.
var ErrCancelled = errors.New("user cancelled")

// Prompter reads answers from the user.
type Prompter interface {
	Ask(question string) (string, error)
	AskPassword(question string) (string, error)
}

// LinePrompter prompts on the terminal with line editing.
type LinePrompter struct {
	line *liner.State
}

// NewLinePrompter takes over the terminal until Close is called.
func NewLinePrompter() *LinePrompter {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)
	return &LinePrompter{line: line}
}

func (p *LinePrompter) Ask(question string) (string, error) {
	answer, err := p.line.Prompt(question)
	return answer, promptError(err)
}

func (p *LinePrompter) AskPassword(question string) (string, error) {
	answer, err := p.line.PasswordPrompt(question)
	return answer, promptError(err)
}

// Close restores the terminal.
func (p *LinePrompter) Close() error {
	return p.line.Close()
}

func promptError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, liner.ErrPromptAborted), errors.Is(err, io.EOF):
		return ErrCancelled
	default:
		return err
	}
}
