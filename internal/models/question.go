package models

// Option labels for question answers
const (
	OptionA = "a"
	OptionB = "b"
	OptionC = "c"
	OptionD = "d"
)

// ValidOption reports whether label is one of the four answer labels
func ValidOption(label string) bool {
	return label == OptionA || label == OptionB || label == OptionC || label == OptionD
}

// Question represents a quiz question belonging to one topic
type Question struct {
	ID            string `json:"id"`
	Topic         string `json:"topic"`
	Question      string `json:"question"`
	OptionA       string `json:"optionA"`
	OptionB       string `json:"optionB"`
	OptionC       string `json:"optionC"`
	OptionD       string `json:"optionD"`
	CorrectAnswer string `json:"-"` // never serialized to clients
	Explanation   string `json:"-"`
	Difficulty    int    `json:"difficulty"`
}
