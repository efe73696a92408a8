package reflection

import "time"

// QuestionsPerDay is the fixed size of a daily question set.
const QuestionsPerDay = 5

// Reflection is one calendar day's set of question/response pairs.
// Created once on first submit and immutable afterwards.
type Reflection struct {
	ID            string    `json:"id"`
	OwnerID       string    `json:"ownerId"`
	Date          string    `json:"date"` // calendar day, YYYY-MM-DD
	QuestionSet   []string  `json:"questionSet"`
	Responses     []string  `json:"responses"`
	AnsweredCount int       `json:"answeredCount"`
	CreatedAt     time.Time `json:"createdAt"`
}

// DateFormat is the canonical calendar-day encoding used for Reflection.Date.
const DateFormat = "2006-01-02"
