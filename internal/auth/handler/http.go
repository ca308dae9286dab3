// Package handler exposes the auth service over JSON HTTP. Response bodies and
// status codes are part of the portal frontend contract; change them together.
package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"kidsmin-portal/backend/internal/auth/service"
	"kidsmin-portal/backend/internal/twofa"
)

// AuthService is what the handler needs from the auth orchestrator.
type AuthService interface {
	Login(ctx context.Context, email, password string) (*service.LoginResult, error)
	VerifyTwoFactor(ctx context.Context, email, code string) (*service.LoginResult, error)
	RequestPasswordReset(ctx context.Context, email string) error
	SetPassword(ctx context.Context, token, password string) error
	Invite(ctx context.Context, individualID, email string) error
	BootstrapFirstAdmin(ctx context.Context, firstName, lastName, email string) error
	AdminExists(ctx context.Context) (bool, error)
}

// AuthHandler serves the /api/auth endpoints.
type AuthHandler struct {
	svc    AuthService
	logger *zap.Logger
}

// NewAuthHandler builds the handler over svc.
func NewAuthHandler(svc AuthService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{svc: svc, logger: logger}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type verifyRequest struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

type requestResetRequest struct {
	Email string `json:"email"`
}

type setPasswordRequest struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

type inviteRequest struct {
	IndividualID string `json:"individualId"`
	Email        string `json:"email"`
}

type createAdminRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Email == "" || req.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email and password are required"})
		return
	}

	result, err := h.svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
			return
		}
		h.serverError(c, "login failed", err)
		return
	}

	if result.TwoFARequired {
		c.JSON(http.StatusOK, gin.H{
			"status":      "2FA_REQUIRED",
			"method":      result.Method,
			"ttlMinutes":  result.TTLMinutes,
			"emailMasked": result.EmailMasked,
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": result.Token, "roles": result.Roles})
}

// VerifyTwoFactor handles POST /api/auth/2fa/verify.
func (h *AuthHandler) VerifyTwoFactor(c *gin.Context) {
	var req verifyRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Email == "" || req.Code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email and code are required"})
		return
	}

	result, err := h.svc.VerifyTwoFactor(c.Request.Context(), req.Email, req.Code)
	if err != nil {
		switch {
		case errors.Is(err, twofa.ErrNoChallenge):
			c.JSON(http.StatusBadRequest, gin.H{"error": "No active challenge"})
		case errors.Is(err, twofa.ErrChallengeExpired):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Code expired"})
		case errors.Is(err, twofa.ErrBadCode):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid code"})
		default:
			h.serverError(c, "2fa verify failed", err)
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": result.Token, "roles": result.Roles})
}

// RequestReset handles POST /api/auth/request-reset. The response is identical
// for known and unknown emails.
func (h *AuthHandler) RequestReset(c *gin.Context) {
	var req requestResetRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing email."})
		return
	}

	if err := h.svc.RequestPasswordReset(c.Request.Context(), req.Email); err != nil {
		h.serverError(c, "request reset failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// SetPassword handles POST /api/auth/set-password.
func (h *AuthHandler) SetPassword(c *gin.Context) {
	var req setPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Token == "" || req.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing token or password."})
		return
	}

	if err := h.svc.SetPassword(c.Request.Context(), req.Token, req.Password); err != nil {
		switch {
		case errors.Is(err, service.ErrWeakPassword):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Password must be 12+ chars with upper, lower, number, and symbol."})
		case errors.Is(err, service.ErrInvalidOrExpiredToken):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid or expired token"})
		default:
			h.serverError(c, "set password failed", err)
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// Invite handles POST /api/auth/invite. Requires an authenticated session.
func (h *AuthHandler) Invite(c *gin.Context) {
	var req inviteRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.IndividualID == "" || req.Email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing individualId or email."})
		return
	}

	if err := h.svc.Invite(c.Request.Context(), req.IndividualID, req.Email); err != nil {
		switch {
		case errors.Is(err, service.ErrIndividualNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Individual not found."})
		case errors.Is(err, service.ErrDuplicateEmail):
			c.JSON(http.StatusConflict, gin.H{"error": "Email already in use."})
		default:
			h.serverError(c, "invite failed", err)
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// CreateAdmin handles POST /api/auth/create-admin, the one-time first-admin
// bootstrap. Open by design: it only works while no admin exists.
func (h *AuthHandler) CreateAdmin(c *gin.Context) {
	var req createAdminRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.FirstName == "" || req.LastName == "" || req.Email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing firstName, lastName, or email."})
		return
	}

	if err := h.svc.BootstrapFirstAdmin(c.Request.Context(), req.FirstName, req.LastName, req.Email); err != nil {
		switch {
		case errors.Is(err, service.ErrAdminExists):
			c.JSON(http.StatusForbidden, gin.H{"error": "Admin already exists."})
		case errors.Is(err, service.ErrDuplicateEmail):
			c.JSON(http.StatusConflict, gin.H{"error": "Email already in use."})
		default:
			h.serverError(c, "create admin failed", err)
		}
		return
	}
	c.JSON(http.StatusCreated, gin.H{"ok": true})
}

// AdminExists handles GET /api/system/admin-exists, used by the frontend to
// decide whether to show the bootstrap screen.
func (h *AuthHandler) AdminExists(c *gin.Context) {
	exists, err := h.svc.AdminExists(c.Request.Context())
	if err != nil {
		h.serverError(c, "admin exists check failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"exists": exists})
}

func (h *AuthHandler) serverError(c *gin.Context, msg string, err error) {
	h.logger.Error(msg, zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
}
