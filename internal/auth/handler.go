package auth

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// LoginRequest is the request payload for POST /users/login
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse is returned after a successful login
type LoginResponse struct {
	PublicID string `json:"public_id"`
	Token    string `json:"token"`
}

// Handler handles login requests
type Handler struct {
	verifier *Verifier
	issuer   *Issuer
	ttl      time.Duration
	now      func() time.Time
}

// NewHandler creates a login handler issuing tokens valid for ttl
func NewHandler(verifier *Verifier, issuer *Issuer, ttl time.Duration) *Handler {
	return &Handler{
		verifier: verifier,
		issuer:   issuer,
		ttl:      ttl,
		now:      time.Now,
	}
}

// Login handles POST /users/login
// @Summary Log in with email and password
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Credentials"
// @Success 200 {object} LoginResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /users/login [post]
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	account, err := h.verifier.Verify(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, ErrMissingCredentials):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, ErrInvalidCredentials):
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		default:
			slog.Error("Login failed", "error", err, "request_id", c.GetString("request_id"))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to log in"})
		}
		return
	}

	token, err := h.issuer.Issue(account.PublicID, h.now(), h.ttl)
	if err != nil {
		slog.Error("Failed to issue token", "account_id", account.PublicID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to log in"})
		return
	}

	slog.Info("Login succeeded", "account_id", account.PublicID)

	c.JSON(http.StatusOK, LoginResponse{
		PublicID: account.PublicID,
		Token:    token,
	})
}
