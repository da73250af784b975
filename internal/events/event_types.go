package events

import (
	"time"

	"github.com/spec-kit/auth-gateway/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventUserRegistered EventType = "user_registered"
	EventUserLoggedIn   EventType = "user_logged_in"
	EventTokenRevoked   EventType = "token_revoked"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	SubjectID string      `json:"subject_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// UserRegisteredPayload payload.
type UserRegisteredPayload struct {
	Email       string      `json:"email"`
	PhoneNumber string      `json:"phone_number"`
	Role        domain.Role `json:"role"`
}

// TokenRevokedPayload payload. The token itself is never carried in events.
type TokenRevokedPayload struct {
	Reason    string    `json:"reason"`
	ExpiresAt time.Time `json:"expires_at"`
}
