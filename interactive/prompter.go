package interactive

import (
	"errors"
	"fmt"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
)

// ErrInput is returned when reading user input fails. Interrupts keep terminal.InterruptErr in
// the error chain.
var ErrInput = errors.New("failed to read user input")

// Prompter asks the user for input.
type Prompter interface {
	// Input asks for a line of text. The validator, when not nil, is consulted before the
	// answer is accepted; invalid answers are asked for again.
	Input(message string, validate func(string) error) (string, error)

	// Select asks the user to pick one of the options and returns its index.
	Select(message string, options []string) (int, error)

	// Confirm asks a yes/no question.
	Confirm(message string, def bool) (bool, error)

	// Password asks for a secret that is not echoed.
	Password(message string) (string, error)
}

func inputError(err error) error {
	return fmt.Errorf("%w: %w", ErrInput, err)
}

// IsInterrupt returns true iff the error was caused by the user interrupting a prompt.
func IsInterrupt(err error) bool {
	return errors.Is(err, terminal.InterruptErr)
}

// SurveyPrompter is a Prompter asking on the terminal.
type SurveyPrompter struct {
	opts []survey.AskOpt
}

// NewSurveyPrompter creates a new terminal prompter.
func NewSurveyPrompter(opts ...survey.AskOpt) *SurveyPrompter {
	return &SurveyPrompter{opts: opts}
}

func (sp *SurveyPrompter) askOne(p survey.Prompt, response interface{}, opts ...survey.AskOpt) error {
	if err := survey.AskOne(p, response, append(append([]survey.AskOpt{}, sp.opts...), opts...)...); err != nil {
		return inputError(err)
	}
	return nil
}

// Input implements Prompter.
func (sp *SurveyPrompter) Input(message string, validate func(string) error) (string, error) {
	var opts []survey.AskOpt
	if validate != nil {
		opts = append(opts, survey.WithValidator(func(ans interface{}) error {
			s, _ := ans.(string)
			return validate(s)
		}))
	}

	var answer string
	if err := sp.askOne(&survey.Input{Message: message}, &answer, opts...); err != nil {
		return "", err
	}
	return answer, nil
}

// Select implements Prompter.
func (sp *SurveyPrompter) Select(message string, options []string) (int, error) {
	var idx int
	if err := sp.askOne(&survey.Select{Message: message, Options: options}, &idx); err != nil {
		return 0, err
	}
	return idx, nil
}

// Confirm implements Prompter.
func (sp *SurveyPrompter) Confirm(message string, def bool) (bool, error) {
	var answer bool
	if err := sp.askOne(&survey.Confirm{Message: message, Default: def}, &answer); err != nil {
		return false, err
	}
	return answer, nil
}

// Password implements Prompter.
func (sp *SurveyPrompter) Password(message string) (string, error) {
	var answer string
	if err := sp.askOne(&survey.Password{Message: message}, &answer); err != nil {
		return "", err
	}
	return answer, nil
}
