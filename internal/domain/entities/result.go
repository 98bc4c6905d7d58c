package entities

import "time"

// QuizResult is the persisted outcome of a naturally completed session.
// It is created once, at completion; timeouts and manual exits never
// produce one.
type QuizResult struct {
	UserID     int64
	Username   string // Telegram username without "@", empty when absent
	Nickname   string // forum nickname, empty when the user declined
	Score      int
	Total      int
	Percentage string // two decimals, e.g. "66.67"
	TimeSpent  time.Duration
	StartedAt  time.Time
	FinishedAt time.Time
	Answers    []AnswerRecord
}
