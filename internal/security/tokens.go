package security

import (
	"errors"
	"net/url"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken is returned when a token is malformed, expired, carries the
// wrong type discriminator, or fails signature verification.
var ErrInvalidToken = errors.New("invalid token")

// setPasswordType is the typ claim marking a set-password token. Session tokens
// carry no typ claim; the two kinds must never verify interchangeably.
const setPasswordType = "setpwd"

type sessionClaims struct {
	jwt.RegisteredClaims
	Type string `json:"typ,omitempty"`
}

type setPasswordClaims struct {
	jwt.RegisteredClaims
	Type          string `json:"typ"`
	CredentialsID string `json:"cid"`
}

// TokenProvider issues and validates HS256 session and set-password tokens
// signed with a shared secret. It is stateless; there is no revocation list,
// so a compromised secret requires rotation.
type TokenProvider struct {
	secret      []byte
	sessionTTL  time.Duration
	setPwTTL    time.Duration
	frontendURL string
}

// NewTokenProvider returns a TokenProvider signing with secret. frontendURL is
// the portal base used by BuildSetPasswordURL.
func NewTokenProvider(secret []byte, sessionTTL, setPasswordTTL time.Duration, frontendURL string) *TokenProvider {
	return &TokenProvider{
		secret:      secret,
		sessionTTL:  sessionTTL,
		setPwTTL:    setPasswordTTL,
		frontendURL: frontendURL,
	}
}

// IssueSession issues a session token for the given individual. Returns the
// token string and its expiration time.
func (p *TokenProvider) IssueSession(individualID string) (string, time.Time, error) {
	now := time.Now().UTC()
	expiresAt := now.Add(p.sessionTTL)
	claims := sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   individualID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(p.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return token, expiresAt, nil
}

// VerifySession parses and validates a session token (signature, expiry) and
// returns the subject individual id. A set-password token is rejected here:
// its typ discriminator does not match a session token.
func (p *TokenProvider) VerifySession(tokenString string) (string, error) {
	var claims sessionClaims
	if err := p.parse(tokenString, &claims); err != nil {
		return "", ErrInvalidToken
	}
	if claims.Type != "" || claims.Subject == "" {
		return "", ErrInvalidToken
	}
	return claims.Subject, nil
}

// IssueSetPassword issues a set-password token bound to the given credentials id.
func (p *TokenProvider) IssueSetPassword(credentialsID string) (string, error) {
	now := time.Now().UTC()
	claims := setPasswordClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(p.setPwTTL)),
		},
		Type:          setPasswordType,
		CredentialsID: credentialsID,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(p.secret)
}

// VerifySetPassword parses and validates a set-password token and returns the
// bound credentials id. The typ discriminator and cid are checked explicitly;
// a session token never passes.
func (p *TokenProvider) VerifySetPassword(tokenString string) (string, error) {
	var claims setPasswordClaims
	if err := p.parse(tokenString, &claims); err != nil {
		return "", ErrInvalidToken
	}
	if claims.Type != setPasswordType || claims.CredentialsID == "" {
		return "", ErrInvalidToken
	}
	return claims.CredentialsID, nil
}

// BuildSetPasswordURL returns the absolute set-password link for the given token.
func (p *TokenProvider) BuildSetPasswordURL(token string) string {
	return p.frontendURL + "/set-password?token=" + url.QueryEscape(token)
}

func (p *TokenProvider) parse(tokenString string, claims jwt.Claims) error {
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return p.secret, nil
	})
	if err != nil || !token.Valid {
		return ErrInvalidToken
	}
	return nil
}
