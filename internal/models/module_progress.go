package models

import "time"

// ModuleProgress represents one user's progress on one module
type ModuleProgress struct {
	UserID     string    `json:"userId"`
	ModuleID   string    `json:"moduleId"`
	Completed  bool      `json:"completed"`
	Progress   int       `json:"progress"` // 0-100
	LastScore  *int      `json:"lastScore,omitempty"`
	LastOpened time.Time `json:"lastOpened"`
}

// RecentModule is a module joined with the user's progress on it,
// ordered by last_opened for the dashboard "continue" card
type RecentModule struct {
	Title    string `json:"title"`
	Slug     string `json:"slug"`
	Progress int    `json:"progress"`
}
