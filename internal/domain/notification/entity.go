package notification

import (
	"encoding/json"
	"fmt"
	"time"
)

// Job types carried on the email queue.
const (
	JobWelcome       = "send_welcome_with_reset_link"
	JobPasswordReset = "send_password_reset"
)

// LinkEmail is the payload of both job types: who to write to and the
// set-password link they should follow.
type LinkEmail struct {
	UserID    int64     `json:"user_id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	ResetLink string    `json:"reset_link"`
	ExpiresAt time.Time `json:"expires_at"`
}

func DecodeLinkEmail(raw json.RawMessage) (LinkEmail, error) {
	var p LinkEmail
	if err := json.Unmarshal(raw, &p); err != nil {
		return LinkEmail{}, fmt.Errorf("decode link email payload: %w", err)
	}
	if p.Email == "" {
		return LinkEmail{}, fmt.Errorf("link email payload has no recipient")
	}
	return p, nil
}
