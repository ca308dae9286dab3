package twofa

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"kidsmin-portal/backend/internal/devcode"
	"kidsmin-portal/backend/internal/mailer"
	"kidsmin-portal/backend/internal/security"
	"kidsmin-portal/backend/internal/twofa/domain"
	"kidsmin-portal/backend/internal/twofa/repository"
)

// ChannelEmail is the only delivery channel currently supported.
const ChannelEmail = "email"

var (
	// ErrNoChallenge means no challenge exists for the credentials.
	ErrNoChallenge = errors.New("no active challenge")
	// ErrChallengeExpired means the challenge expired or ran out of attempts.
	ErrChallengeExpired = errors.New("challenge expired")
	// ErrBadCode means the submitted code does not match the live challenge.
	ErrBadCode = errors.New("invalid code")
)

// IssueResult describes a freshly issued challenge for the login response.
type IssueResult struct {
	Channel    string
	TTLMinutes int
}

// Service issues and verifies email one-time codes.
type Service struct {
	repo        repository.Repository
	hasher      *security.Hasher
	mail        mailer.Mailer
	devCodes    devcode.Store
	logger      *zap.Logger
	codeLength  int
	ttl         time.Duration
	maxAttempts int
	nowF        func() time.Time
}

// NewService builds a 2FA service. devCodes may be nil when the dev code
// endpoint is disabled.
func NewService(repo repository.Repository, hasher *security.Hasher, mail mailer.Mailer, devCodes devcode.Store, logger *zap.Logger, codeLength int, ttl time.Duration, maxAttempts int) *Service {
	if codeLength <= 0 {
		codeLength = DefaultCodeLength
	}
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	if maxAttempts < 0 {
		maxAttempts = 0
	}
	return &Service{
		repo:        repo,
		hasher:      hasher,
		mail:        mail,
		devCodes:    devCodes,
		logger:      logger,
		codeLength:  codeLength,
		ttl:         ttl,
		maxAttempts: maxAttempts,
		nowF:        func() time.Time { return time.Now().UTC() },
	}
}

// IssueEmailChallenge generates a fresh code, stores its bcrypt hash (replacing
// any prior challenge for the same credentials) and mails the plaintext. A
// mail delivery failure after the durable write is logged, not returned; the
// caller still gets a valid challenge and the user can retry login to reissue.
func (s *Service) IssueEmailChallenge(ctx context.Context, credentialsID, email, displayName string) (*IssueResult, error) {
	code, err := GenerateCode(s.codeLength)
	if err != nil {
		return nil, fmt.Errorf("generate code: %w", err)
	}

	hash, err := s.hasher.Hash([]byte(code))
	if err != nil {
		return nil, fmt.Errorf("hash code: %w", err)
	}

	expiresAt := s.nowF().Add(s.ttl)
	challenge := &domain.Challenge{
		CredentialsID: credentialsID,
		CodeHash:      hash,
		Channel:       ChannelEmail,
		ExpiresAt:     expiresAt,
	}
	if err := s.repo.Upsert(ctx, challenge); err != nil {
		return nil, fmt.Errorf("store challenge: %w", err)
	}

	if s.devCodes != nil {
		// The dev store is keyed by normalized email, matching the query
		// parameter on the dev endpoint.
		s.devCodes.Put(ctx, strings.ToLower(strings.TrimSpace(email)), code, expiresAt)
	}

	ttlMinutes := int(s.ttl / time.Minute)
	if err := s.mail.SendTwoFactorCode(ctx, email, displayName, code, ttlMinutes); err != nil {
		s.logger.Warn("2fa code email failed", zap.String("credentials_id", credentialsID), zap.Error(err))
	}

	return &IssueResult{Channel: ChannelEmail, TTLMinutes: ttlMinutes}, nil
}

// VerifyChallenge checks code against the live challenge for the credentials.
// On success the challenge is deleted, making codes strictly one-time. A
// challenge past its expiry or over the attempt cap reports ErrChallengeExpired;
// a wrong code bumps the attempt counter and reports ErrBadCode.
func (s *Service) VerifyChallenge(ctx context.Context, credentialsID, code string) error {
	challenge, err := s.repo.Get(ctx, credentialsID)
	if err != nil {
		return fmt.Errorf("load challenge: %w", err)
	}
	if challenge == nil {
		return ErrNoChallenge
	}
	if s.nowF().After(challenge.ExpiresAt) || (s.maxAttempts > 0 && challenge.Attempts >= s.maxAttempts) {
		return ErrChallengeExpired
	}
	if err := s.hasher.Compare(challenge.CodeHash, []byte(code)); err != nil {
		if incErr := s.repo.IncrementAttempts(ctx, credentialsID); incErr != nil {
			s.logger.Warn("increment 2fa attempts failed", zap.String("credentials_id", credentialsID), zap.Error(incErr))
		}
		return ErrBadCode
	}
	if err := s.repo.Delete(ctx, credentialsID); err != nil {
		return fmt.Errorf("consume challenge: %w", err)
	}
	return nil
}
