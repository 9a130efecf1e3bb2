package types

import (
	"fmt"
	"regexp"
)

const (
	// MinAccountIDLength is the minimum length of an account identifier.
	MinAccountIDLength = 2
	// MaxAccountIDLength is the maximum length of an account identifier.
	MaxAccountIDLength = 64
)

var validAccountID = regexp.MustCompile(`^(([a-z\d]+[\-_])*[a-z\d]+\.)*([a-z\d]+[\-_])*[a-z\d]+$`)

// AccountID is a human-readable account identifier (e.g. alice.testnet).
type AccountID string

// ParseAccountID parses and validates an account identifier.
func ParseAccountID(s string) (AccountID, error) {
	id := AccountID(s)
	if err := id.Validate(); err != nil {
		return "", err
	}
	return id, nil
}

// Validate makes sure the account identifier is well-formed.
func (id AccountID) Validate() error {
	switch {
	case len(id) < MinAccountIDLength:
		return fmt.Errorf("account ID '%s' is too short (min %d characters)", id, MinAccountIDLength)
	case len(id) > MaxAccountIDLength:
		return fmt.Errorf("account ID '%s' is too long (max %d characters)", id, MaxAccountIDLength)
	case !validAccountID.MatchString(string(id)):
		return fmt.Errorf("account ID '%s' must consist of lower-case letters, digits and the separators '.', '-' and '_'", id)
	default:
		return nil
	}
}

// IsImplicit returns true iff the account identifier is an implicit (hex public key) account.
func (id AccountID) IsImplicit() bool {
	if len(id) != 64 {
		return false
	}
	for _, c := range id {
		if !('0' <= c && c <= '9' || 'a' <= c && c <= 'f') {
			return false
		}
	}
	return true
}

// String returns the account identifier.
func (id AccountID) String() string {
	return string(id)
}

// MarshalText encodes the account identifier.
func (id AccountID) MarshalText() ([]byte, error) {
	return []byte(id), nil
}

// UnmarshalText decodes and validates a text-encoded account identifier.
func (id *AccountID) UnmarshalText(text []byte) error {
	parsed, err := ParseAccountID(string(text))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}
