package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrNotAuthenticated indicates that the caller has no live session.
	ErrNotAuthenticated = errors.New("not authenticated")
	// ErrForbidden indicates that the caller's role may not perform the operation.
	ErrForbidden = errors.New("forbidden")
	// ErrExpiredSession indicates that the session has expired.
	ErrExpiredSession = errors.New("expired session")
	// ErrSessionNotFound indicates that the session is not found.
	ErrSessionNotFound = errors.New("session not found")
)

// Session holds per-login state of a caller.
type Session struct {
	ID         uuid.UUID `json:"id"`
	Username   string    `json:"username"`
	Role       Role      `json:"role"`
	CustomerID string    `json:"customer_id,omitempty"`
	UserAgent  string    `json:"user_agent"`
	ClientIP   string    `json:"client_ip"`
	ExpiresAt  time.Time `json:"expires_at"`
	CreatedAt  time.Time `json:"created_at"`
}

// CreateSessionParams holds data needed for Session creation.
type CreateSessionParams struct {
	Username   string
	Role       Role
	CustomerID string
	UserAgent  string
	ClientIP   string
}
