package domain

import (
	"strings"
	"time"
)

// Channel is a 2FA delivery channel. Only email is implemented.
type Channel string

const ChannelEmail Channel = "email"

// Credentials is the authentication record for one individual. At most one
// row exists per individual; email is unique case-insensitively.
// PasswordHash is empty until a password is set; IsActive transitions to true
// exactly once, when the first password is set, and never back.
type Credentials struct {
	ID             string
	IndividualID   string
	Email          string
	PasswordHash   string // empty while inactive
	IsActive       bool
	TwoFAEnabled   bool
	TwoFAPreferred Channel
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// LoginRecord is the credentials row joined with the individual's display
// fields, as needed by the login flow.
type LoginRecord struct {
	Credentials
	FirstName string
	LastName  string
}

// DisplayName returns "First Last" with empty parts collapsed.
func (r *LoginRecord) DisplayName() string {
	return strings.TrimSpace(strings.TrimSpace(r.FirstName) + " " + strings.TrimSpace(r.LastName))
}

// NormalizeEmail trims and lower-cases an email for lookup and storage.
func NormalizeEmail(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}
