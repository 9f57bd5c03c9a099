package models

// User represents an account in the system.
// Profile holds the progression state; User only holds credentials.
type User struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"` // Never serialize password hash
}
