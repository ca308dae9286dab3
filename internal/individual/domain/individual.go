package domain

import (
	"errors"
	"strings"
	"time"
)

// Individual is an identity-independent person record. Login settings live on
// the Credentials row, not here.
type Individual struct {
	ID        string
	FirstName string
	LastName  string
	Grade     string
	Special   bool
	CreatedAt time.Time
}

// Validate validates the individual for persistence. Returns an error describing the first validation failure.
func (i *Individual) Validate() error {
	if strings.TrimSpace(i.FirstName) == "" {
		return errors.New("first name is required")
	}
	if strings.TrimSpace(i.LastName) == "" {
		return errors.New("last name is required")
	}
	return nil
}

// DisplayName returns "First Last" with empty parts collapsed.
func (i *Individual) DisplayName() string {
	return strings.TrimSpace(strings.TrimSpace(i.FirstName) + " " + strings.TrimSpace(i.LastName))
}
