package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"kidsmin-portal/backend/internal/security"
)

// IndividualIDKey is the gin context key carrying the authenticated
// individual's id after RequireAuth.
const IndividualIDKey = "individualID"

// RequireAuth rejects requests without a valid Bearer session token and stores
// the subject individual id on the context.
func RequireAuth(tokens *security.TokenProvider) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing token"})
			return
		}
		individualID, err := tokens.VerifySession(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}
		c.Set(IndividualIDKey, individualID)
		c.Next()
	}
}
