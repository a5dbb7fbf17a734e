package domain

import "time"

type User struct {
	ID           string
	Email        string // unique, compared as stored
	PasswordHash string // argon2id PHC string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Identity is what a verified session token says about its bearer.
type Identity struct {
	UserID string
	Email  string
}
