package models

// KeyTerm represents a flashcard term/definition pair,
// optionally linked to a module
type KeyTerm struct {
	ID         string `json:"id"`
	ModuleID   string `json:"moduleId,omitempty"`
	Term       string `json:"term"`
	Definition string `json:"definition"`
}
