package users

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"

	"sima/internal/auth"
)

// Handler handles HTTP requests for user accounts
type Handler struct {
	service Service
}

// NewHandler creates a new users handler
func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// Register handles POST /users
func (h *Handler) Register(c *gin.Context) {
	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	u, err := h.service.Register(c.Request.Context(), req)
	if err != nil {
		h.writeError(c, err, "failed to create user")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":   "New user created",
		"public_id": u.PublicID,
	})
}

// List handles GET /users
func (h *Handler) List(c *gin.Context) {
	all, err := h.service.List(c.Request.Context())
	if err != nil {
		h.writeError(c, err, "failed to list users")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"users": lo.Map(all, func(u User, _ int) UserResponse { return ToResponse(u) }),
	})
}

// Get handles GET /users/:public_id
func (h *Handler) Get(c *gin.Context) {
	u, err := h.service.Get(c.Request.Context(), c.Param("public_id"))
	if err != nil {
		h.writeError(c, err, "failed to get user")
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": ToResponse(*u)})
}

// Update handles PUT /users/:public_id
func (h *Handler) Update(c *gin.Context) {
	actorID, ok := auth.GetAccountID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authorization failed"})
		return
	}

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	u, err := h.service.Update(c.Request.Context(), actorID, c.Param("public_id"), req)
	if err != nil {
		h.writeError(c, err, "failed to update user")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "User updated",
		"user":    ToResponse(*u),
	})
}

// Delete handles DELETE /users/:public_id
func (h *Handler) Delete(c *gin.Context) {
	actorID, ok := auth.GetAccountID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authorization failed"})
		return
	}

	if err := h.service.Delete(c.Request.Context(), actorID, c.Param("public_id")); err != nil {
		h.writeError(c, err, "failed to delete user")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "The user has been deleted"})
}

func (h *Handler) writeError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, ErrEmailExists):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, ErrInvalidDateOfBirth), errors.Is(err, auth.ErrPasswordTooLong):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		slog.Error(fallback, "error", err, "request_id", c.GetString("request_id"))
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
	}
}
