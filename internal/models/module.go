package models

// Module represents a content unit in the learning catalog
type Module struct {
	ID               string `json:"id"`
	Title            string `json:"title"`
	Slug             string `json:"slug"`
	Description      string `json:"description"`
	Content          string `json:"content,omitempty"`
	Domain           string `json:"domain,omitempty"` // optional grouping label
	Difficulty       int    `json:"difficulty"`
	EstimatedMinutes int    `json:"estimatedMinutes"`
}
