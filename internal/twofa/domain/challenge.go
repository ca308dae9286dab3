package domain

import "time"

// Challenge is the live 2FA code issuance for one credentials row (stored in
// the twofactor_challenge table, keyed by credentials id). Only the bcrypt
// hash of the code is persisted, never the plaintext.
type Challenge struct {
	CredentialsID string
	CodeHash      string
	Channel       string
	Attempts      int
	ExpiresAt     time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
