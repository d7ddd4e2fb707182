package model

import "time"

// ResetMail is the payload handed to mail delivery, inline or through the queue.
type ResetMail struct {
	To        string    `json:"to"`
	Username  string    `json:"username"`
	Code      string    `json:"code"`
	ExpiresAt time.Time `json:"expires_at"`
}
