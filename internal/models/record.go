package models

import "time"

// ClientRecord is one piece of user data as stored: Data is ciphertext, never plaintext.
// Records are append-only; UpdatedAt equals CreatedAt.
type ClientRecord struct {
	ID        int       `json:"id"`
	UserID    int       `json:"user_id"`
	Data      []byte    `json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
