// Package service orchestrates the credential lifecycle: password login with
// email 2FA, the set-password token flow, invitations, and first-admin
// bootstrap. Handlers translate its sentinel errors into HTTP responses.
package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"kidsmin-portal/backend/internal/audit"
	auditdomain "kidsmin-portal/backend/internal/audit/domain"
	credsdomain "kidsmin-portal/backend/internal/credentials/domain"
	credsrepo "kidsmin-portal/backend/internal/credentials/repository"
	inddomain "kidsmin-portal/backend/internal/individual/domain"
	"kidsmin-portal/backend/internal/mailer"
	roledomain "kidsmin-portal/backend/internal/role/domain"
	rolerepo "kidsmin-portal/backend/internal/role/repository"
	"kidsmin-portal/backend/internal/security"
	"kidsmin-portal/backend/internal/twofa"
)

var (
	// ErrInvalidCredentials covers unknown email, inactive account and wrong
	// password alike, so login responses never distinguish them.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrInvalidOrExpiredToken is returned for a bad set-password token, and
	// also when the token verifies but its credentials row no longer exists.
	ErrInvalidOrExpiredToken = errors.New("invalid or expired token")
	// ErrWeakPassword is returned when a candidate password fails the policy.
	ErrWeakPassword = errors.New("password does not meet policy")
	// ErrAdminExists is returned when bootstrap runs after an admin was created.
	ErrAdminExists = errors.New("admin already exists")
	// ErrDuplicateEmail is returned when an invite or bootstrap email is taken.
	ErrDuplicateEmail = errors.New("email already in use")
	// ErrIndividualNotFound is returned when an invite targets an unknown individual.
	ErrIndividualNotFound = errors.New("individual not found")
)

// CredentialsStore is the slice of the credentials repository the service uses.
type CredentialsStore interface {
	GetByEmail(ctx context.Context, email string) (*credsdomain.Credentials, error)
	GetLoginByEmail(ctx context.Context, email string) (*credsdomain.LoginRecord, error)
	GetByIndividual(ctx context.Context, individualID string) (*credsdomain.Credentials, error)
	Create(ctx context.Context, c *credsdomain.Credentials) error
	UpdateEmail(ctx context.Context, id, email string) error
	ActivateWithPassword(ctx context.Context, id, passwordHash string) error
}

// RoleStore is the slice of the role repository the service uses.
type RoleStore interface {
	ActiveRolesForIndividual(ctx context.Context, individualID string) ([]roledomain.AssignmentView, error)
	AdminExists(ctx context.Context) (bool, error)
}

// IndividualStore is the slice of the individual repository the service uses.
type IndividualStore interface {
	GetByID(ctx context.Context, id string) (*inddomain.Individual, error)
}

// TwoFactor issues and verifies one-time login codes.
type TwoFactor interface {
	IssueEmailChallenge(ctx context.Context, credentialsID, email, displayName string) (*twofa.IssueResult, error)
	VerifyChallenge(ctx context.Context, credentialsID, code string) error
}

// BootstrapStore performs the first-admin composite write in one transaction.
// The credentials row it returns is inactive; the admin activates it through
// the emailed set-password link.
type BootstrapStore interface {
	CreateFirstAdmin(ctx context.Context, firstName, lastName, email string) (*credsdomain.Credentials, error)
}

// LoginResult is the outcome of a successful password check: either a session
// (Token plus Roles) or a pending 2FA challenge (TwoFARequired with the
// delivery details).
type LoginResult struct {
	Token         string
	Roles         []roledomain.AssignmentView
	TwoFARequired bool
	Method        string
	TTLMinutes    int
	EmailMasked   string
}

// Service is the auth orchestrator.
type Service struct {
	creds       CredentialsStore
	roles       RoleStore
	individuals IndividualStore
	twoFactor   TwoFactor
	bootstrap   BootstrapStore
	tokens      *security.TokenProvider
	hasher      *security.Hasher
	mail        mailer.Mailer
	audit       audit.AuditLogger
	logger      *zap.Logger
	twoFAForced bool
}

// NewService wires the auth orchestrator.
func NewService(
	creds CredentialsStore,
	roles RoleStore,
	individuals IndividualStore,
	twoFactor TwoFactor,
	bootstrap BootstrapStore,
	tokens *security.TokenProvider,
	hasher *security.Hasher,
	mail mailer.Mailer,
	auditLog audit.AuditLogger,
	logger *zap.Logger,
	twoFAForced bool,
) *Service {
	return &Service{
		creds:       creds,
		roles:       roles,
		individuals: individuals,
		twoFactor:   twoFactor,
		bootstrap:   bootstrap,
		tokens:      tokens,
		hasher:      hasher,
		mail:        mail,
		audit:       auditLog,
		logger:      logger,
		twoFAForced: twoFAForced,
	}
}

// Login checks the password for email. A 2FA challenge is issued instead of a
// session when the global policy forces 2FA or the account has it enabled; the
// session is only minted after VerifyTwoFactor. All failure modes collapse
// into ErrInvalidCredentials.
func (s *Service) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	email = credsdomain.NormalizeEmail(email)

	rec, err := s.creds.GetLoginByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("lookup credentials: %w", err)
	}
	if rec == nil || !rec.IsActive || rec.PasswordHash == "" {
		s.audit.Record(ctx, "unknown", auditdomain.ActionLoginFailed, email)
		return nil, ErrInvalidCredentials
	}
	if err := s.hasher.Compare(rec.PasswordHash, []byte(password)); err != nil {
		s.audit.Record(ctx, rec.IndividualID, auditdomain.ActionLoginFailed, rec.ID)
		return nil, ErrInvalidCredentials
	}

	if s.twoFAForced || rec.TwoFAEnabled {
		issued, err := s.twoFactor.IssueEmailChallenge(ctx, rec.ID, rec.Email, rec.DisplayName())
		if err != nil {
			return nil, fmt.Errorf("issue 2fa challenge: %w", err)
		}
		s.audit.Record(ctx, rec.IndividualID, auditdomain.ActionTwoFAIssued, rec.ID)
		return &LoginResult{
			TwoFARequired: true,
			Method:        issued.Channel,
			TTLMinutes:    issued.TTLMinutes,
			EmailMasked:   MaskEmail(rec.Email),
		}, nil
	}

	return s.startSession(ctx, rec, auditdomain.ActionLogin)
}

// VerifyTwoFactor checks the submitted code for email's live challenge and, on
// success, mints the session. An unknown email reports twofa.ErrBadCode so the
// endpoint does not reveal which addresses have accounts.
func (s *Service) VerifyTwoFactor(ctx context.Context, email, code string) (*LoginResult, error) {
	email = credsdomain.NormalizeEmail(email)

	rec, err := s.creds.GetLoginByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("lookup credentials: %w", err)
	}
	if rec == nil {
		return nil, twofa.ErrBadCode
	}

	if err := s.twoFactor.VerifyChallenge(ctx, rec.ID, code); err != nil {
		return nil, err
	}

	return s.startSession(ctx, rec, auditdomain.ActionTwoFAVerified)
}

func (s *Service) startSession(ctx context.Context, rec *credsdomain.LoginRecord, action string) (*LoginResult, error) {
	token, _, err := s.tokens.IssueSession(rec.IndividualID)
	if err != nil {
		return nil, fmt.Errorf("issue session: %w", err)
	}
	roles, err := s.roles.ActiveRolesForIndividual(ctx, rec.IndividualID)
	if err != nil {
		return nil, fmt.Errorf("load roles: %w", err)
	}
	s.audit.Record(ctx, rec.IndividualID, action, rec.ID)
	return &LoginResult{Token: token, Roles: roles}, nil
}

// RequestPasswordReset emails a set-password link to email if an account
// exists. An unknown email succeeds silently so the endpoint cannot be used to
// enumerate accounts. The mail send is the only durable effect, so its failure
// is returned.
func (s *Service) RequestPasswordReset(ctx context.Context, email string) error {
	email = credsdomain.NormalizeEmail(email)

	cred, err := s.creds.GetByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("lookup credentials: %w", err)
	}
	if cred == nil {
		return nil
	}

	if err := s.sendSetPasswordMail(ctx, cred.ID, cred.Email, "Reset your KidsMin Portal password"); err != nil {
		return fmt.Errorf("send reset mail: %w", err)
	}
	s.audit.Record(ctx, cred.IndividualID, auditdomain.ActionPasswordReset, cred.ID)
	return nil
}

// SetPassword redeems a set-password token: it validates the candidate against
// the password policy, stores its hash and activates the account. The policy
// check runs before token verification so a weak password fails fast. A token
// whose credentials row is gone reports ErrInvalidOrExpiredToken, same as a
// bad token.
func (s *Service) SetPassword(ctx context.Context, token, password string) error {
	if err := security.ValidatePassword(password); err != nil {
		return fmt.Errorf("%w: %v", ErrWeakPassword, err)
	}
	credentialsID, err := s.tokens.VerifySetPassword(token)
	if err != nil {
		return ErrInvalidOrExpiredToken
	}

	hash, err := s.hasher.Hash([]byte(password))
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.creds.ActivateWithPassword(ctx, credentialsID, hash); err != nil {
		if isMissingRow(err) {
			return ErrInvalidOrExpiredToken
		}
		return fmt.Errorf("activate credentials: %w", err)
	}
	s.audit.Record(ctx, credentialsID, auditdomain.ActionPasswordSet, credentialsID)
	return nil
}

// Invite attaches email to an existing individual and sends a set-password
// link. An individual with credentials gets its email replaced; one without
// gets a fresh inactive row. The invite mail is sent after the durable write
// and its failure is logged, not returned; the link can be re-sent.
func (s *Service) Invite(ctx context.Context, individualID, email string) error {
	email = credsdomain.NormalizeEmail(email)

	ind, err := s.individuals.GetByID(ctx, individualID)
	if err != nil {
		return fmt.Errorf("lookup individual: %w", err)
	}
	if ind == nil {
		return ErrIndividualNotFound
	}

	cred, err := s.creds.GetByIndividual(ctx, individualID)
	if err != nil {
		return fmt.Errorf("lookup credentials: %w", err)
	}
	if cred == nil {
		cred = &credsdomain.Credentials{IndividualID: individualID, Email: email}
		if err := s.creds.Create(ctx, cred); err != nil {
			return mapConstraintError(err)
		}
	} else if cred.Email != email {
		if err := s.creds.UpdateEmail(ctx, cred.ID, email); err != nil {
			return mapConstraintError(err)
		}
	}

	if err := s.sendSetPasswordMail(ctx, cred.ID, email, "You're invited to the KidsMin Portal"); err != nil {
		s.logger.Warn("invite mail failed", zap.String("credentials_id", cred.ID), zap.Error(err))
	}
	s.audit.Record(ctx, individualID, auditdomain.ActionInvite, cred.ID)
	return nil
}

// BootstrapFirstAdmin creates the first admin account: an individual, its
// inactive credentials, the national entity if absent, and the single ADMIN
// assignment, all in one transaction. If two bootstraps race, the loser fails
// on the unique admin index and reports ErrAdminExists. The set-password mail
// goes out after commit; a send failure is logged, not returned, since the
// account exists and a password reset can re-deliver the link.
func (s *Service) BootstrapFirstAdmin(ctx context.Context, firstName, lastName, email string) error {
	if strings.TrimSpace(firstName) == "" || strings.TrimSpace(lastName) == "" {
		return errors.New("first and last name are required")
	}
	email = credsdomain.NormalizeEmail(email)

	exists, err := s.roles.AdminExists(ctx)
	if err != nil {
		return fmt.Errorf("check admin: %w", err)
	}
	if exists {
		return ErrAdminExists
	}

	cred, err := s.bootstrap.CreateFirstAdmin(ctx, strings.TrimSpace(firstName), strings.TrimSpace(lastName), email)
	if err != nil {
		if errors.Is(err, rolerepo.ErrAdminRoleTaken) {
			return ErrAdminExists
		}
		return mapConstraintError(err)
	}

	if err := s.sendSetPasswordMail(ctx, cred.ID, email, "Set up your KidsMin Portal admin account"); err != nil {
		s.logger.Warn("bootstrap mail failed", zap.String("credentials_id", cred.ID), zap.Error(err))
	}
	s.audit.Record(ctx, cred.IndividualID, auditdomain.ActionAdminBootstrap, cred.ID)
	return nil
}

// AdminExists reports whether an active ADMIN assignment exists.
func (s *Service) AdminExists(ctx context.Context) (bool, error) {
	return s.roles.AdminExists(ctx)
}

func (s *Service) sendSetPasswordMail(ctx context.Context, credentialsID, email, subject string) error {
	token, err := s.tokens.IssueSetPassword(credentialsID)
	if err != nil {
		return fmt.Errorf("issue set-password token: %w", err)
	}
	link := s.tokens.BuildSetPasswordURL(token)
	text := "Use the link below to set your password. It expires in 24 hours.\n\n" + link + "\n"
	html := `<p>Use the link below to set your password. It expires in 24 hours.</p><p><a href="` + link + `">Set your password</a></p>`
	return s.mail.Send(ctx, email, subject, text, html)
}

func mapConstraintError(err error) error {
	switch {
	case errors.Is(err, credsrepo.ErrDuplicateEmail):
		return ErrDuplicateEmail
	case errors.Is(err, credsrepo.ErrIndividualNotFound):
		return ErrIndividualNotFound
	default:
		return err
	}
}

// isMissingRow reports whether a credentials update matched no row, which the
// store signals with sql.ErrNoRows.
func isMissingRow(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

// MaskEmail hides most of an email's local part for 2FA prompts. Locals of one
// or two characters become the first character plus a single star; longer ones
// keep the first and last characters with one star per hidden character.
// Counting is per rune so non-ASCII locals mask cleanly.
func MaskEmail(email string) string {
	at := strings.IndexByte(email, '@')
	if at <= 0 {
		return email
	}
	local, domain := []rune(email[:at]), email[at:]
	if len(local) <= 2 {
		return string(local[0]) + "*" + domain
	}
	return string(local[0]) + strings.Repeat("*", len(local)-2) + string(local[len(local)-1]) + domain
}
