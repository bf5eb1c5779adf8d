package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/ErlanBelekov/magic-auth/internal/domain"
	"github.com/gin-gonic/gin"
)

// authUsecaser is the subset of AuthUsecase the handler needs.
// Defined here (point of use) so tests can inject a fake.
type authUsecaser interface {
	SendMagicCode(ctx context.Context, email string) error
	RedeemCode(ctx context.Context, code int) (string, *domain.User, error)
	CurrentUser(ctx context.Context, userID string) (*domain.User, error)
}

type AuthHandler struct {
	authUsecase authUsecaser
	logger      *slog.Logger
}

func NewAuthHandler(authUsecase authUsecaser, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		authUsecase: authUsecase,
		logger:      logger.With("component", "auth_handler"),
	}
}

type sendMagicLinkRequest struct {
	Email string `json:"email"`
}

type userResponse struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

func toUserResponse(u *domain.User) userResponse {
	return userResponse{
		ID:       u.ID,
		Email:    u.Email,
		Username: u.Username,
		Role:     u.Role,
	}
}

// POST /api/auth/send_magic_link
// Always answers {ok:true} for a well-formed email, whether or not an
// account exists and whether or not delivery succeeds.
func (h *AuthHandler) SendMagicLink(c *gin.Context) {
	var req sendMagicLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Email) == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":             errInvalidEmail,
			"error_description": errInvalidEmailDesc,
		})
		return
	}

	if err := h.authUsecase.SendMagicCode(c.Request.Context(), req.Email); err != nil {
		h.logger.ErrorContext(c.Request.Context(), "send magic code", "error", err)
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// GET /api/auth/token?code=<6-digit code>
func (h *AuthHandler) Token(c *gin.Context) {
	code, err := strconv.Atoi(c.Query("code"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":             errInvalidCode,
			"error_description": errInvalidCodeDesc,
		})
		return
	}

	token, user, err := h.authUsecase.RedeemCode(c.Request.Context(), code)
	if err != nil {
		if errors.Is(err, domain.ErrCodeInvalid) {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":             errInvalidCode,
				"error_description": errInvalidCodeDesc,
			})
			return
		}
		h.logger.ErrorContext(c.Request.Context(), "redeem code", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"ok":    true,
		"token": token,
		"user":  toUserResponse(user),
	})
}

// GET /api/auth/user
// Runs behind middleware.Auth, which puts the verified token subject into
// the context as "userID".
func (h *AuthHandler) User(c *gin.Context) {
	userID := c.GetString("userID")

	user, err := h.authUsecase.CurrentUser(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": errInvalidToken})
			return
		}
		h.logger.ErrorContext(c.Request.Context(), "current user", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true, "user": toUserResponse(user)})
}
