package domain

import "time"

// Entry is one append-only audit record of a security-relevant action.
type Entry struct {
	ID        string
	Actor     string
	Action    string
	Resource  string
	IP        string
	Metadata  string
	CreatedAt time.Time
}

// Actions recorded by the auth subsystem.
const (
	ActionLogin          = "auth.login"
	ActionLoginFailed    = "auth.login.failed"
	ActionTwoFAIssued    = "auth.2fa.issued"
	ActionTwoFAVerified  = "auth.2fa.verified"
	ActionPasswordReset  = "auth.password.reset_requested"
	ActionPasswordSet    = "auth.password.set"
	ActionInvite         = "auth.invite"
	ActionAdminBootstrap = "auth.admin.bootstrap"
)
