package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockTokenVerifier struct {
	verifyFunc func(token string, now time.Time) (string, error)
}

func (m *mockTokenVerifier) Verify(token string, now time.Time) (string, error) {
	if m.verifyFunc != nil {
		return m.verifyFunc(token, now)
	}
	return "", ErrTokenInvalid
}

func newProtectedRouter(tokens TokenVerifier) *gin.Engine {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(Middleware(tokens))
	r.GET("/me", func(c *gin.Context) {
		accountID, ok := GetAccountID(c)
		if !ok {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.JSON(http.StatusOK, gin.H{"account_id": accountID})
	})
	return r
}

func TestMiddleware_ValidBearerToken(t *testing.T) {
	issuer := newTestIssuer(t, "k")
	token, err := issuer.Issue("u1", time.Now(), time.Hour)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()

	newProtectedRouter(issuer).ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "u1", body["account_id"])
}

func TestMiddleware_LegacyHeader(t *testing.T) {
	var seen string
	tokens := &mockTokenVerifier{verifyFunc: func(token string, _ time.Time) (string, error) {
		seen = token
		return "u2", nil
	}}

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("X-Access-Token", "legacy-token")
	w := httptest.NewRecorder()

	newProtectedRouter(tokens).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "legacy-token", seen)
}

func TestMiddleware_Rejections(t *testing.T) {
	tests := []struct {
		name   string
		header string
		value  string
		err    error
	}{
		{name: "no token", header: "", value: ""},
		{name: "wrong scheme", header: "Authorization", value: "Basic dXNlcjpwdw=="},
		{name: "expired", header: "Authorization", value: "Bearer stale", err: ErrTokenExpired},
		{name: "invalid", header: "Authorization", value: "Bearer forged", err: ErrTokenInvalid},
	}

	var bodies []string
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens := &mockTokenVerifier{verifyFunc: func(string, time.Time) (string, error) {
				return "", tt.err
			}}

			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set(tt.header, tt.value)
			}
			w := httptest.NewRecorder()

			newProtectedRouter(tokens).ServeHTTP(w, req)

			assert.Equal(t, http.StatusUnauthorized, w.Code)
			bodies = append(bodies, w.Body.String())
		})
	}

	// Clients cannot tell an expired token from a forged one.
	for _, body := range bodies {
		assert.JSONEq(t, `{"error":"authorization failed"}`, body)
	}
}

func TestGetAccountID_Missing(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	_, ok := GetAccountID(c)
	assert.False(t, ok)

	c.Set(AccountIDKey, 42)
	_, ok = GetAccountID(c)
	assert.False(t, ok)
}
