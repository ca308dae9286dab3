package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"kidsmin-portal/backend/internal/auth/service"
	roledomain "kidsmin-portal/backend/internal/role/domain"
	"kidsmin-portal/backend/internal/twofa"
)

type stubService struct {
	loginResult  *service.LoginResult
	loginErr     error
	verifyResult *service.LoginResult
	verifyErr    error
	resetErr     error
	setPwErr     error
	inviteErr    error
	createErr    error
	adminExists  bool
}

func (s *stubService) Login(ctx context.Context, email, password string) (*service.LoginResult, error) {
	return s.loginResult, s.loginErr
}

func (s *stubService) VerifyTwoFactor(ctx context.Context, email, code string) (*service.LoginResult, error) {
	return s.verifyResult, s.verifyErr
}

func (s *stubService) RequestPasswordReset(ctx context.Context, email string) error {
	return s.resetErr
}

func (s *stubService) SetPassword(ctx context.Context, token, password string) error {
	return s.setPwErr
}

func (s *stubService) Invite(ctx context.Context, individualID, email string) error {
	return s.inviteErr
}

func (s *stubService) BootstrapFirstAdmin(ctx context.Context, firstName, lastName, email string) error {
	return s.createErr
}

func (s *stubService) AdminExists(ctx context.Context) (bool, error) {
	return s.adminExists, nil
}

func setupRouter(svc *stubService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewAuthHandler(svc, zap.NewNop())
	router := gin.New()
	router.POST("/api/auth/login", h.Login)
	router.POST("/api/auth/2fa/verify", h.VerifyTwoFactor)
	router.POST("/api/auth/request-reset", h.RequestReset)
	router.POST("/api/auth/set-password", h.SetPassword)
	router.POST("/api/auth/invite", h.Invite)
	router.POST("/api/auth/create-admin", h.CreateAdmin)
	router.GET("/api/system/admin-exists", h.AdminExists)
	return router
}

func doJSON(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestLoginHandler(t *testing.T) {
	t.Run("missing fields", func(t *testing.T) {
		router := setupRouter(&stubService{})
		w := doJSON(router, http.MethodPost, "/api/auth/login", `{"email":"jo@example.org"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.JSONEq(t, `{"error":"Email and password are required"}`, w.Body.String())
	})

	t.Run("invalid credentials", func(t *testing.T) {
		router := setupRouter(&stubService{loginErr: service.ErrInvalidCredentials})
		w := doJSON(router, http.MethodPost, "/api/auth/login", `{"email":"jo@example.org","password":"pw"}`)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.JSONEq(t, `{"error":"Invalid credentials"}`, w.Body.String())
	})

	t.Run("2fa required", func(t *testing.T) {
		router := setupRouter(&stubService{loginResult: &service.LoginResult{
			TwoFARequired: true, Method: "email", TTLMinutes: 5, EmailMasked: "j*****e@example.org",
		}})
		w := doJSON(router, http.MethodPost, "/api/auth/login", `{"email":"jo@example.org","password":"pw"}`)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"status":"2FA_REQUIRED","method":"email","ttlMinutes":5,"emailMasked":"j*****e@example.org"}`, w.Body.String())
	})

	t.Run("session", func(t *testing.T) {
		router := setupRouter(&stubService{loginResult: &service.LoginResult{
			Token: "jwt", Roles: []roledomain.AssignmentView{},
		}})
		w := doJSON(router, http.MethodPost, "/api/auth/login", `{"email":"jo@example.org","password":"pw"}`)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"token":"jwt","roles":[]}`, w.Body.String())
	})

	t.Run("server error", func(t *testing.T) {
		router := setupRouter(&stubService{loginErr: assert.AnError})
		w := doJSON(router, http.MethodPost, "/api/auth/login", `{"email":"jo@example.org","password":"pw"}`)
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.JSONEq(t, `{"error":"Server error"}`, w.Body.String())
	})
}

func TestVerifyTwoFactorHandler(t *testing.T) {
	t.Run("missing fields", func(t *testing.T) {
		router := setupRouter(&stubService{})
		w := doJSON(router, http.MethodPost, "/api/auth/2fa/verify", `{"email":"jo@example.org"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.JSONEq(t, `{"error":"Email and code are required"}`, w.Body.String())
	})

	cases := []struct {
		name    string
		err     error
		message string
	}{
		{"no challenge", twofa.ErrNoChallenge, "No active challenge"},
		{"expired", twofa.ErrChallengeExpired, "Code expired"},
		{"bad code", twofa.ErrBadCode, "Invalid code"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			router := setupRouter(&stubService{verifyErr: tc.err})
			w := doJSON(router, http.MethodPost, "/api/auth/2fa/verify", `{"email":"jo@example.org","code":"123456"}`)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.JSONEq(t, `{"error":"`+tc.message+`"}`, w.Body.String())
		})
	}

	t.Run("success", func(t *testing.T) {
		router := setupRouter(&stubService{verifyResult: &service.LoginResult{
			Token: "jwt", Roles: []roledomain.AssignmentView{},
		}})
		w := doJSON(router, http.MethodPost, "/api/auth/2fa/verify", `{"email":"jo@example.org","code":"123456"}`)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"token":"jwt","roles":[]}`, w.Body.String())
	})
}

func TestRequestResetHandler(t *testing.T) {
	t.Run("missing email", func(t *testing.T) {
		router := setupRouter(&stubService{})
		w := doJSON(router, http.MethodPost, "/api/auth/request-reset", `{}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.JSONEq(t, `{"error":"Missing email."}`, w.Body.String())
	})

	t.Run("ok", func(t *testing.T) {
		router := setupRouter(&stubService{})
		w := doJSON(router, http.MethodPost, "/api/auth/request-reset", `{"email":"jo@example.org"}`)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"ok":true}`, w.Body.String())
	})

	t.Run("mail failure is a server error", func(t *testing.T) {
		router := setupRouter(&stubService{resetErr: assert.AnError})
		w := doJSON(router, http.MethodPost, "/api/auth/request-reset", `{"email":"jo@example.org"}`)
		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}

func TestSetPasswordHandler(t *testing.T) {
	t.Run("missing fields", func(t *testing.T) {
		router := setupRouter(&stubService{})
		w := doJSON(router, http.MethodPost, "/api/auth/set-password", `{"token":"t"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.JSONEq(t, `{"error":"Missing token or password."}`, w.Body.String())
	})

	t.Run("weak password", func(t *testing.T) {
		router := setupRouter(&stubService{setPwErr: service.ErrWeakPassword})
		w := doJSON(router, http.MethodPost, "/api/auth/set-password", `{"token":"t","password":"weak"}`)
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.JSONEq(t, `{"error":"Password must be 12+ chars with upper, lower, number, and symbol."}`, w.Body.String())
	})

	t.Run("invalid token", func(t *testing.T) {
		router := setupRouter(&stubService{setPwErr: service.ErrInvalidOrExpiredToken})
		w := doJSON(router, http.MethodPost, "/api/auth/set-password", `{"token":"t","password":"Str0ng&Secure!"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.JSONEq(t, `{"error":"Invalid or expired token"}`, w.Body.String())
	})

	t.Run("ok", func(t *testing.T) {
		router := setupRouter(&stubService{})
		w := doJSON(router, http.MethodPost, "/api/auth/set-password", `{"token":"t","password":"Str0ng&Secure!"}`)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"ok":true}`, w.Body.String())
	})
}

func TestInviteHandler(t *testing.T) {
	t.Run("missing fields", func(t *testing.T) {
		router := setupRouter(&stubService{})
		w := doJSON(router, http.MethodPost, "/api/auth/invite", `{"email":"jo@example.org"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.JSONEq(t, `{"error":"Missing individualId or email."}`, w.Body.String())
	})

	t.Run("unknown individual", func(t *testing.T) {
		router := setupRouter(&stubService{inviteErr: service.ErrIndividualNotFound})
		w := doJSON(router, http.MethodPost, "/api/auth/invite", `{"individualId":"ind-1","email":"jo@example.org"}`)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("duplicate email", func(t *testing.T) {
		router := setupRouter(&stubService{inviteErr: service.ErrDuplicateEmail})
		w := doJSON(router, http.MethodPost, "/api/auth/invite", `{"individualId":"ind-1","email":"jo@example.org"}`)
		assert.Equal(t, http.StatusConflict, w.Code)
		assert.JSONEq(t, `{"error":"Email already in use."}`, w.Body.String())
	})

	t.Run("ok", func(t *testing.T) {
		router := setupRouter(&stubService{})
		w := doJSON(router, http.MethodPost, "/api/auth/invite", `{"individualId":"ind-1","email":"jo@example.org"}`)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"ok":true}`, w.Body.String())
	})
}

func TestCreateAdminHandler(t *testing.T) {
	t.Run("missing fields", func(t *testing.T) {
		router := setupRouter(&stubService{})
		w := doJSON(router, http.MethodPost, "/api/auth/create-admin", `{"firstName":"Ada"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.JSONEq(t, `{"error":"Missing firstName, lastName, or email."}`, w.Body.String())
	})

	t.Run("admin exists", func(t *testing.T) {
		router := setupRouter(&stubService{createErr: service.ErrAdminExists})
		w := doJSON(router, http.MethodPost, "/api/auth/create-admin", `{"firstName":"Ada","lastName":"Admin","email":"ada@example.org"}`)
		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.JSONEq(t, `{"error":"Admin already exists."}`, w.Body.String())
	})

	t.Run("duplicate email", func(t *testing.T) {
		router := setupRouter(&stubService{createErr: service.ErrDuplicateEmail})
		w := doJSON(router, http.MethodPost, "/api/auth/create-admin", `{"firstName":"Ada","lastName":"Admin","email":"ada@example.org"}`)
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("created", func(t *testing.T) {
		router := setupRouter(&stubService{})
		w := doJSON(router, http.MethodPost, "/api/auth/create-admin", `{"firstName":"Ada","lastName":"Admin","email":"ada@example.org"}`)
		assert.Equal(t, http.StatusCreated, w.Code)
		assert.JSONEq(t, `{"ok":true}`, w.Body.String())
	})
}

func TestAdminExistsHandler(t *testing.T) {
	router := setupRouter(&stubService{adminExists: true})
	w := doJSON(router, http.MethodGet, "/api/system/admin-exists", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"exists":true}`, w.Body.String())
}
