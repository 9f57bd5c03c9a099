package models

import "time"

// Profile represents a user's progression ledger state
type Profile struct {
	ID           string     `json:"id"`
	FullName     string     `json:"fullName"`
	Institution  string     `json:"institution"`
	Role         string     `json:"role"`
	XP           int        `json:"xp"`
	Level        int        `json:"level"`
	Streak       int        `json:"streak"`
	LastActivity *time.Time `json:"lastActivity,omitempty"`
}
