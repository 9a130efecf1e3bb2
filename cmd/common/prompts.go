package common

import (
	"errors"
	"fmt"

	"github.com/near/near-cli-go/interactive"
)

const (
	// PromptPassphrase is the standard passphrase prompt.
	PromptPassphrase = "Passphrase:"
	// PromptCreatePassphrase is the standard create a new passphrase prompt.
	PromptCreatePassphrase = "Choose a new passphrase:"
	// PromptRepeatPassphrase is the standard repeat a new passphrase prompt.
	PromptRepeatPassphrase = "Repeat passphrase:"
)

// ErrAborted is returned when the user rejects a confirmation.
var ErrAborted = errors.New("aborted")

// Confirm asks the user for confirmation and returns an error when rejected.
func Confirm(p interactive.Prompter, msg, abortMsg string) error {
	proceed, err := p.Confirm(msg, false)
	if err != nil {
		return err
	}
	if !proceed {
		return fmt.Errorf("%w: %s", ErrAborted, abortMsg)
	}
	return nil
}

// ConfirmText asks the user to type the given text to confirm an irreversible action.
func ConfirmText(p interactive.Prompter, text string) error {
	answer, err := p.Input(fmt.Sprintf("Enter '%s' (without quotes) to confirm:", text), nil)
	if err != nil {
		return err
	}
	if answer != text {
		return ErrAborted
	}
	return nil
}

// AskNewPassphrase asks the user to create a new passphrase, repeating until both entries match.
func AskNewPassphrase(p interactive.Prompter) (string, error) {
	for {
		passphrase, err := p.Password(PromptCreatePassphrase)
		if err != nil {
			return "", err
		}
		repeated, err := p.Password(PromptRepeatPassphrase)
		if err != nil {
			return "", err
		}
		if passphrase == repeated {
			return passphrase, nil
		}
		fmt.Println("Passphrases do not match.")
	}
}
