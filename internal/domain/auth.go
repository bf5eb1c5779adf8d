package domain

import (
	"errors"
	"time"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrCodeInvalid  = errors.New("code is invalid or expired")
	ErrTokenInvalid = errors.New("token is invalid or expired")
)

// DefaultRole is assigned to users created during code redemption.
const DefaultRole = "member"

type User struct {
	ID       string
	Email    string
	Username string
	Role     string
}

// Code is a one-time numeric login credential emailed to a user.
// UserID is empty when the email was unknown at issuance time; redemption
// creates the user just in time in that case.
type Code struct {
	ID        string
	Code      int
	Email     string
	UserID    string
	ExpiresAt time.Time
}
