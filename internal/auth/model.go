package auth

import "github.com/uptrace/bun"

// User is a credential record. Email is the identity; exactly one record
// per email. Password holds the bcrypt hash, never the plaintext.
type User struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	ID       int64  `bun:"id,pk,autoincrement" json:"id"`
	Email    string `bun:"email,unique,notnull" json:"email"`
	Password string `bun:"password,notnull" json:"-"`
	Name     string `bun:"name" json:"name,omitempty"`
}

// LoginRequest is the request body for login
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// SessionResponse reports the authenticated identity.
type SessionResponse struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
}
