package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	credsdomain "kidsmin-portal/backend/internal/credentials/domain"
	"kidsmin-portal/backend/internal/devcode"
)

// DevCodeHandler serves GET /dev/twofa/code, returning the latest plaintext
// 2FA code for an email. Only mounted when dev 2FA mode is enabled; config
// refuses that mode in production.
type DevCodeHandler struct {
	codes devcode.Store
}

// NewDevCodeHandler builds the dev code handler over the shared store.
func NewDevCodeHandler(codes devcode.Store) *DevCodeHandler {
	return &DevCodeHandler{codes: codes}
}

// Code handles GET /dev/twofa/code?email=...
func (h *DevCodeHandler) Code(c *gin.Context) {
	email := credsdomain.NormalizeEmail(c.Query("email"))
	if email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing email."})
		return
	}
	code, ok := h.codes.Get(c.Request.Context(), email)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "No code for that email."})
		return
	}
	c.JSON(http.StatusOK, gin.H{"email": email, "code": code})
}
