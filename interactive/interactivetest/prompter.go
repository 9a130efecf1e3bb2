// Package interactivetest provides scripted prompts for testing command trees.
package interactivetest

import (
	"errors"
	"fmt"
	"strconv"
	"sync"

	"github.com/near/near-cli-go/interactive"
)

// ErrScriptExhausted is returned when a prompt is asked after all answers were used.
var ErrScriptExhausted = errors.New("interactivetest: no scripted answer left")

// Prompt is a record of one prompt shown to the user.
type Prompt struct {
	// Kind is one of "input", "select", "confirm" or "password".
	Kind    string
	Message string
	Options []string
}

// Prompter is an interactive.Prompter answering from a script. Select answers are option
// messages or indices. Input answers rejected by the validator consume the next answer, like a
// user retyping.
type Prompter struct {
	mu      sync.Mutex
	answers []string
	prompts []Prompt
}

// NewPrompter creates a prompter answering with the given answers in order.
func NewPrompter(answers ...string) *Prompter {
	return &Prompter{answers: answers}
}

// Prompts returns the prompts shown so far.
func (p *Prompter) Prompts() []Prompt {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]Prompt{}, p.prompts...)
}

// Remaining returns the number of unused answers.
func (p *Prompter) Remaining() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.answers)
}

func (p *Prompter) next(pr Prompt) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.prompts = append(p.prompts, pr)
	if len(p.answers) == 0 {
		return "", fmt.Errorf("%w: %w (prompt: %s)", interactive.ErrInput, ErrScriptExhausted, pr.Message)
	}
	answer := p.answers[0]
	p.answers = p.answers[1:]
	return answer, nil
}

// Input implements interactive.Prompter.
func (p *Prompter) Input(message string, validate func(string) error) (string, error) {
	for {
		answer, err := p.next(Prompt{Kind: "input", Message: message})
		if err != nil {
			return "", err
		}
		if validate == nil || validate(answer) == nil {
			return answer, nil
		}
	}
}

// Select implements interactive.Prompter.
func (p *Prompter) Select(message string, options []string) (int, error) {
	answer, err := p.next(Prompt{Kind: "select", Message: message, Options: options})
	if err != nil {
		return 0, err
	}
	for idx, o := range options {
		if o == answer {
			return idx, nil
		}
	}
	if idx, err := strconv.Atoi(answer); err == nil {
		return idx, nil
	}
	return 0, fmt.Errorf("interactivetest: '%s' is not an option of '%s'", answer, message)
}

// Confirm implements interactive.Prompter.
func (p *Prompter) Confirm(message string, def bool) (bool, error) {
	answer, err := p.next(Prompt{Kind: "confirm", Message: message})
	if err != nil {
		return false, err
	}
	if answer == "" {
		return def, nil
	}
	return strconv.ParseBool(answer)
}

// Password implements interactive.Prompter.
func (p *Prompter) Password(message string) (string, error) {
	return p.next(Prompt{Kind: "password", Message: message})
}
