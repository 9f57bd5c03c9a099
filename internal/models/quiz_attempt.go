package models

// QuizAttempt is an append-only record of one answered question
type QuizAttempt struct {
	ID             int    `json:"id"`
	UserID         string `json:"userId"`
	QuestionID     string `json:"questionId"`
	SelectedOption string `json:"selectedOption"`
	IsCorrect      bool   `json:"isCorrect"`
}
