// Package commands implements the command tree of the CLI.
package commands

import (
	"github.com/near/near-cli-go/interactive"
)

var (
	topLevel = &interactive.Menu[struct{}]{
		Title: "Choose your action",
		Choices: []interactive.Choice[struct{}]{
			{Tag: "add", Message: "Add access key", New: group(addMenu)},
			{Tag: "delete", Message: "Delete access key, account", New: group(deleteMenu)},
			{Tag: "transfer", Message: "Transfer tokens", New: group(transfer)},
			{Tag: "call", Message: "Execute function (contract method)", New: group(call)},
			{Tag: "login", Message: "Login with wallet authorization", New: group(loginMode)},
			{Tag: "view", Message: "View account, contract code, transaction, block", New: group(viewMenu)},
			{Tag: "utils", Message: "Helpers", New: group(utilsMenu)},
		},
	}

	addMenu = &interactive.Menu[struct{}]{
		Title: "Select an action that you want to add to the action",
		Choices: []interactive.Choice[struct{}]{
			{Tag: "access-key", Message: "Add an access key to an account", New: group(addAccessKey)},
		},
	}

	deleteMenu = &interactive.Menu[struct{}]{
		Title: "Select an action that you want to delete",
		Choices: []interactive.Choice[struct{}]{
			{Tag: "access-key", Message: "Delete an access key from an account", New: group(deleteAccessKey)},
			{Tag: "account", Message: "Delete an account", New: group(deleteAccount)},
		},
	}
)

func group[C any](m *interactive.Menu[C]) func() interactive.Node[C] {
	return func() interactive.Node[C] {
		return m.Switch()
	}
}

// New creates an unresolved command tree.
func New() interactive.Node[struct{}] {
	return topLevel.Switch()
}
