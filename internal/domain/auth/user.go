package auth

import "time"

// User represents an account reconciled from a Google identity.
type User struct {
	ID          string    `json:"id"`        // locally generated UUID, primary key
	GoogleID    string    `json:"google_id"` // stable subject issued by Google, unique
	Email       string    `json:"email"`
	Name        string    `json:"name"`
	Picture     string    `json:"picture"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	LastLoginAt time.Time `json:"last_login_at"`
}
