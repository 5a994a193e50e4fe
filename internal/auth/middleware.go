package auth

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

const (
	// AccountIDKey is the gin context key holding the authenticated public id
	AccountIDKey = "account_id"
	// legacyTokenHeader is accepted alongside Authorization for older clients
	legacyTokenHeader = "X-Access-Token"
)

// TokenVerifier verifies a session token at a point in time
type TokenVerifier interface {
	Verify(token string, now time.Time) (string, error)
}

// Middleware rejects requests without a valid session token and stores the
// token subject under AccountIDKey. Every token failure produces the same
// 401 response.
func Middleware(tokens TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c.Request)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authorization failed"})
			return
		}

		accountID, err := tokens.Verify(token, time.Now())
		if err != nil {
			slog.Warn("Rejected session token",
				"error", err.Error(),
				"request_id", c.GetString("request_id"),
				"path", c.Request.URL.Path,
			)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authorization failed"})
			return
		}

		c.Set(AccountIDKey, accountID)
		c.Next()
	}
}

// GetAccountID is a helper to extract the authenticated public id from context
func GetAccountID(c *gin.Context) (string, bool) {
	value, exists := c.Get(AccountIDKey)
	if !exists {
		return "", false
	}
	accountID, ok := value.(string)
	return accountID, ok && accountID != ""
}

func bearerToken(r *http.Request) string {
	if header := r.Header.Get("Authorization"); header != "" {
		scheme, token, found := strings.Cut(header, " ")
		if found && strings.EqualFold(scheme, "Bearer") {
			return strings.TrimSpace(token)
		}
		return ""
	}
	return strings.TrimSpace(r.Header.Get(legacyTokenHeader))
}
