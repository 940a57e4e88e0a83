package models

import "time"

const (
	RoleClient = "client"
	RoleAdmin  = "admin"
)

// User is an account. PasswordHash holds bcrypt output and is never serialized.
type User struct {
	ID           int       `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash []byte    `json:"-"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}
