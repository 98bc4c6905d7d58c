package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/dmzaytsev/forum-quiz-bot/internal/dateutil"
	"github.com/dmzaytsev/forum-quiz-bot/internal/domain/entities"
)

// storedResult is the on-disk attempt shape, one entry per completed quiz.
type storedResult struct {
	Username          string                  `json:"username"`
	ForumNickname     string                  `json:"forumNickname"`
	Date              string                  `json:"date"`
	Score             int                     `json:"score"`
	TotalQuestions    int                     `json:"totalQuestions"`
	PercentageCorrect string                  `json:"percentageCorrect"`
	TimeSpent         string                  `json:"timeSpent"`
	StartTime         string                  `json:"startTime"`
	EndTime           string                  `json:"endTime"`
	Answers           []entities.AnswerRecord `json:"answers"`
}

// ResultStore keeps the per-user attempt history in a JSON file and mirrors
// every saved attempt into the CSV export.
type ResultStore struct {
	mu      sync.Mutex
	path    string
	csvPath string
}

func NewResultStore(path, csvPath string) *ResultStore {
	return &ResultStore{path: path, csvPath: csvPath}
}

// Save appends the attempt to the user's history and the CSV export.
func (s *ResultStore) Save(_ context.Context, res *entities.QuizResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	results, err := s.load()
	if err != nil {
		return err
	}

	key := strconv.FormatInt(res.UserID, 10)
	results[key] = append(results[key], storedResult{
		Username:          displayUsername(res.Username),
		ForumNickname:     res.Nickname,
		Date:              dateutil.FormatDate(res.FinishedAt),
		Score:             res.Score,
		TotalQuestions:    res.Total,
		PercentageCorrect: res.Percentage,
		TimeSpent:         dateutil.FormatDuration(res.TimeSpent),
		StartTime:         dateutil.FormatDateTime(res.StartedAt),
		EndTime:           dateutil.FormatDateTime(res.FinishedAt),
		Answers:           res.Answers,
	})

	if err := s.store(results); err != nil {
		return err
	}
	return AppendResultCSV(s.csvPath, res)
}

// HasCompleted reports whether the user already has a stored attempt.
func (s *ResultStore) HasCompleted(_ context.Context, userID int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	results, err := s.load()
	if err != nil {
		return false, err
	}
	return len(results[strconv.FormatInt(userID, 10)]) > 0, nil
}

// ListByUser returns the user's attempts in save order.
func (s *ResultStore) ListByUser(_ context.Context, userID int64) ([]*entities.QuizResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	results, err := s.load()
	if err != nil {
		return nil, err
	}

	stored := results[strconv.FormatInt(userID, 10)]
	out := make([]*entities.QuizResult, 0, len(stored))
	for _, sr := range stored {
		finished, _ := time.Parse("02/01/2006 15:04:05", sr.EndTime)
		out = append(out, &entities.QuizResult{
			UserID:     userID,
			Username:   sr.Username,
			Nickname:   sr.ForumNickname,
			Score:      sr.Score,
			Total:      sr.TotalQuestions,
			Percentage: sr.PercentageCorrect,
			FinishedAt: finished,
			Answers:    sr.Answers,
		})
	}
	return out, nil
}

func (s *ResultStore) load() (map[string][]storedResult, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return make(map[string][]storedResult), nil
		}
		return nil, fmt.Errorf("read results: %w", err)
	}

	results := make(map[string][]storedResult)
	if err := json.Unmarshal(data, &results); err != nil {
		return nil, fmt.Errorf("decode results: %w", err)
	}
	return results, nil
}

func (s *ResultStore) store(results map[string][]storedResult) error {
	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return fmt.Errorf("encode results: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create results dir: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("write results: %w", err)
	}
	return nil
}

// displayUsername renders a Telegram username for storage.
func displayUsername(username string) string {
	if username == "" {
		return "No username"
	}
	return "@" + username
}
