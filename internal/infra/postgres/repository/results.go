package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/dmzaytsev/forum-quiz-bot/internal/domain/entities"
	"github.com/dmzaytsev/forum-quiz-bot/internal/infra/postgres"
	"github.com/dmzaytsev/forum-quiz-bot/internal/storage"
)

// ResultRepository stores completed attempts in PostgreSQL. It mirrors each
// saved attempt into the CSV export so the administrative download keeps
// working regardless of the selected store.
type ResultRepository struct {
	db      postgres.DBTX
	csvPath string
}

func NewResultRepository(db postgres.DBTX, csvPath string) *ResultRepository {
	return &ResultRepository{db: db, csvPath: csvPath}
}

// Save inserts one attempt row and appends the CSV export row.
func (r *ResultRepository) Save(ctx context.Context, res *entities.QuizResult) error {
	answers, err := json.Marshal(res.Answers)
	if err != nil {
		return fmt.Errorf("encode answers: %w", err)
	}

	query := `
		INSERT INTO quiz_results (
			user_id, username, forum_nickname, score, total_questions,
			percentage, time_spent, started_at, finished_at, answers
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err = r.db.Exec(
		ctx,
		query,
		res.UserID,
		res.Username,
		res.Nickname,
		res.Score,
		res.Total,
		res.Percentage,
		res.TimeSpent,
		res.StartedAt,
		res.FinishedAt,
		answers,
	)
	if err != nil {
		return fmt.Errorf("insert quiz result: %w", err)
	}

	return storage.AppendResultCSV(r.csvPath, res)
}

// HasCompleted reports whether the user already has a stored attempt.
func (r *ResultRepository) HasCompleted(ctx context.Context, userID int64) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM quiz_results WHERE user_id = $1)`

	var exists bool
	if err := r.db.QueryRow(ctx, query, userID).Scan(&exists); err != nil {
		return false, fmt.Errorf("check quiz result: %w", err)
	}
	return exists, nil
}

// ListByUser returns the user's attempts in completion order.
func (r *ResultRepository) ListByUser(ctx context.Context, userID int64) ([]*entities.QuizResult, error) {
	query := `
		SELECT user_id, username, forum_nickname, score, total_questions,
		       percentage, time_spent, started_at, finished_at, answers
		FROM quiz_results
		WHERE user_id = $1
		ORDER BY finished_at
	`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list quiz results: %w", err)
	}
	defer rows.Close()

	var results []*entities.QuizResult
	for rows.Next() {
		var (
			res     entities.QuizResult
			answers []byte
		)
		err := rows.Scan(
			&res.UserID,
			&res.Username,
			&res.Nickname,
			&res.Score,
			&res.Total,
			&res.Percentage,
			&res.TimeSpent,
			&res.StartedAt,
			&res.FinishedAt,
			&answers,
		)
		if err != nil {
			return nil, fmt.Errorf("scan quiz result: %w", err)
		}
		if err := json.Unmarshal(answers, &res.Answers); err != nil {
			return nil, fmt.Errorf("decode answers: %w", err)
		}
		results = append(results, &res)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate quiz results: %w", err)
	}
	return results, nil
}
