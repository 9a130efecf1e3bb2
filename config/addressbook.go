package config

import (
	"fmt"

	"github.com/near/near-cli-go/types"
)

// AddressBook contains the configuration of the address book.
type AddressBook struct {
	// All is a map of all configured entries in the address book.
	All map[string]*AddressBookEntry `mapstructure:",remain"`
}

// Validate performs config validation.
func (ab *AddressBook) Validate() error {
	// Make sure all entries are valid.
	for name, a := range ab.All {
		if err := ValidateIdentifier(name); err != nil {
			return fmt.Errorf("malformed entry name '%s': %w", name, err)
		}

		if err := a.Validate(); err != nil {
			return fmt.Errorf("entry '%s': %w", name, err)
		}
	}

	return nil
}

// Remove removes the given address book entry.
func (ab *AddressBook) Remove(name string) error {
	if _, exists := ab.All[name]; !exists {
		return fmt.Errorf("entry named '%s' does not exist in the address book", name)
	}

	delete(ab.All, name)

	return nil
}

// Rename renames an existing address book entry.
func (ab *AddressBook) Rename(old, new string) error {
	cfg, exists := ab.All[old]
	if !exists {
		return fmt.Errorf("entry named '%s' does not exist", old)
	}

	if _, exists = ab.All[new]; exists {
		return fmt.Errorf("entry named '%s' already exists", new)
	}

	if err := ValidateIdentifier(new); err != nil {
		return fmt.Errorf("malformed new entry name '%s': %w", new, err)
	}

	ab.All[new] = cfg
	delete(ab.All, old)

	return nil
}

// Add adds a new address book entry.
func (ab *AddressBook) Add(name string, accountID string) error {
	if _, exists := ab.All[name]; exists {
		return fmt.Errorf("entry named '%s' already exists in the address book", name)
	}

	if err := ValidateIdentifier(name); err != nil {
		return fmt.Errorf("malformed entry name '%s': %w", name, err)
	}

	id, err := types.ParseAccountID(accountID)
	if err != nil {
		return err
	}

	if ab.All == nil {
		ab.All = make(map[string]*AddressBookEntry)
	}
	ab.All[name] = &AddressBookEntry{
		AccountID: id.String(),
	}

	return nil
}

// Resolve returns the account ID stored under the given name. Anything that is not an entry
// name is returned unchanged.
func (ab *AddressBook) Resolve(nameOrID string) string {
	if entry, exists := ab.All[nameOrID]; exists {
		return entry.AccountID
	}
	return nameOrID
}

// AddressBookEntry is a configuration object for a single entry in the address book.
type AddressBookEntry struct {
	Description string `mapstructure:"description"`
	AccountID   string `mapstructure:"account_id"`
}

// Validate performs config validation.
func (a *AddressBookEntry) Validate() error {
	if _, err := types.ParseAccountID(a.AccountID); err != nil {
		return fmt.Errorf("malformed account ID '%s': %w", a.AccountID, err)
	}
	return nil
}

// GetAccountID returns the parsed account ID.
func (a *AddressBookEntry) GetAccountID() types.AccountID {
	return types.AccountID(a.AccountID)
}
