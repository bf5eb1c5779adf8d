package usecase

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"strings"
	"time"

	"github.com/ErlanBelekov/magic-auth/internal/domain"
	"github.com/ErlanBelekov/magic-auth/internal/email"
	"github.com/ErlanBelekov/magic-auth/internal/metrics"
	"github.com/ErlanBelekov/magic-auth/internal/repository"
	"github.com/golang-jwt/jwt/v5"
)

const (
	defaultCodeTTL  = 15 * time.Minute
	defaultTokenTTL = 7 * 24 * time.Hour

	// Codes are 6-digit integers in [100000, 999999].
	codeMin  = 100000
	codeSpan = 900000

	sendTimeout = 30 * time.Second
)

type AuthUsecase struct {
	users    repository.UserRepository
	codes    repository.CodeRepository
	email    email.Sender
	jwtKey   []byte
	codeTTL  time.Duration
	tokenTTL time.Duration
	logger   *slog.Logger
}

func NewAuthUsecase(users repository.UserRepository, codes repository.CodeRepository, emailSender email.Sender, jwtKey []byte, logger *slog.Logger) *AuthUsecase {
	return &AuthUsecase{
		users:    users,
		codes:    codes,
		email:    emailSender,
		jwtKey:   jwtKey,
		codeTTL:  defaultCodeTTL,
		tokenTTL: defaultTokenTTL,
		logger:   logger.With("component", "auth_usecase"),
	}
}

// SendMagicCode generates a one-time login code, stores it, and emails it.
// The email is dispatched in the background; delivery failures are logged
// and never surfaced to the caller.
func (u *AuthUsecase) SendMagicCode(ctx context.Context, emailAddr string) error {
	var userID string
	user, err := u.users.FindByEmail(ctx, emailAddr)
	switch {
	case err == nil:
		userID = user.ID
	case !errors.Is(err, domain.ErrUserNotFound):
		return fmt.Errorf("find user: %w", err)
	}

	code, err := randomCode()
	if err != nil {
		return fmt.Errorf("generate code: %w", err)
	}

	c := &domain.Code{
		Code:      code,
		Email:     emailAddr,
		UserID:    userID,
		ExpiresAt: time.Now().Add(u.codeTTL),
	}
	if err := u.codes.Create(ctx, c); err != nil {
		return fmt.Errorf("store code: %w", err)
	}
	metrics.CodesIssuedTotal.Inc()

	sendCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), sendTimeout)
	go func() {
		defer cancel()
		subject := "Your login code"
		text := fmt.Sprintf("Enter this code: %d", code)
		html := fmt.Sprintf("<p>Enter this code: <b>%d</b></p>", code)
		if err := u.email.Send(sendCtx, emailAddr, subject, text, html); err != nil {
			u.logger.ErrorContext(sendCtx, "send login code email", "error", err)
			metrics.EmailsSentTotal.WithLabelValues("error").Inc()
			return
		}
		metrics.EmailsSentTotal.WithLabelValues("ok").Inc()
	}()

	return nil
}

// RedeemCode atomically claims an unexpired code and exchanges it for a
// signed JWT. When the code was issued for an email with no account, the
// user is created on the spot with the email's local part as username.
func (u *AuthUsecase) RedeemCode(ctx context.Context, code int) (string, *domain.User, error) {
	c, err := u.codes.Claim(ctx, code, time.Now())
	if err != nil {
		if errors.Is(err, domain.ErrCodeInvalid) {
			metrics.CodesRedeemedTotal.WithLabelValues("invalid").Inc()
			return "", nil, domain.ErrCodeInvalid
		}
		return "", nil, fmt.Errorf("claim code: %w", err)
	}

	var user *domain.User
	if c.UserID != "" {
		user, err = u.users.FindByID(ctx, c.UserID)
		if err != nil {
			if errors.Is(err, domain.ErrUserNotFound) {
				metrics.CodesRedeemedTotal.WithLabelValues("invalid").Inc()
				return "", nil, domain.ErrCodeInvalid
			}
			return "", nil, fmt.Errorf("find user: %w", err)
		}
	} else {
		user, err = u.users.Create(ctx, c.Email, usernameFromEmail(c.Email))
		if err != nil {
			return "", nil, fmt.Errorf("create user: %w", err)
		}
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"sub": user.ID,
		"iat": now.Unix(),
		"exp": now.Add(u.tokenTTL).Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString(u.jwtKey)
	if err != nil {
		return "", nil, fmt.Errorf("sign jwt: %w", err)
	}

	metrics.CodesRedeemedTotal.WithLabelValues("ok").Inc()
	return signed, user, nil
}

// CurrentUser resolves the user behind a verified token subject.
func (u *AuthUsecase) CurrentUser(ctx context.Context, userID string) (*domain.User, error) {
	user, err := u.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return user, nil
}

func randomCode() (int, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(codeSpan))
	if err != nil {
		return 0, err
	}
	return codeMin + int(n.Int64()), nil
}

func usernameFromEmail(email string) string {
	if i := strings.Index(email, "@"); i >= 0 {
		return email[:i]
	}
	return email
}
