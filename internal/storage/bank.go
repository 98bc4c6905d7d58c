package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmzaytsev/forum-quiz-bot/internal/domain/entities"
)

// BankLoader reads the quiz bank from a JSON file. Validation is
// fail-closed: one malformed question invalidates the whole load.
type BankLoader struct {
	path string
}

func NewBankLoader(path string) *BankLoader {
	return &BankLoader{path: path}
}

// rawQuestion is the on-disk question shape before shape validation.
type rawQuestion struct {
	Question          string          `json:"question"`
	Image             string          `json:"image"`
	AnswerType        string          `json:"answerType"`
	Answers           []string        `json:"answers"`
	Correct           json.RawMessage `json:"correct"`
	AllAnswersCorrect bool            `json:"allAnswersCorrect"`
}

// Load reads and validates the bank.
func (l *BankLoader) Load(_ context.Context) ([]entities.Question, error) {
	data, err := os.ReadFile(l.path)
	if err != nil {
		return nil, fmt.Errorf("read quiz bank: %w", err)
	}

	var raw []rawQuestion
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode quiz bank: %w", err)
	}

	questions := make([]entities.Question, 0, len(raw))
	for i, rq := range raw {
		q, err := buildQuestion(rq)
		if err != nil {
			return nil, fmt.Errorf("question %d: %w", i+1, err)
		}
		questions = append(questions, q)
	}
	return questions, nil
}

func buildQuestion(rq rawQuestion) (entities.Question, error) {
	var q entities.Question
	if rq.Question == "" {
		return q, fmt.Errorf("missing question text")
	}
	if len(rq.Correct) == 0 {
		return q, fmt.Errorf("missing correct answer")
	}

	body, err := buildBody(rq)
	if err != nil {
		return q, err
	}

	return entities.Question{
		Text:              rq.Question,
		Image:             rq.Image,
		AllAnswersCorrect: rq.AllAnswersCorrect,
		Body:              body,
	}, nil
}

func buildBody(rq rawQuestion) (entities.QuestionBody, error) {
	switch entities.AnswerKind(rq.AnswerType) {
	case entities.AnswerSingle:
		if len(rq.Answers) == 0 {
			return nil, fmt.Errorf("single question requires answers")
		}
		var correct int
		if err := json.Unmarshal(rq.Correct, &correct); err != nil {
			return nil, fmt.Errorf("single question requires a numeric correct index: %w", err)
		}
		if correct < 0 || correct >= len(rq.Answers) {
			return nil, fmt.Errorf("correct index %d out of range", correct)
		}
		return entities.SingleChoice{Options: rq.Answers, Correct: correct}, nil

	case entities.AnswerMultiple:
		if len(rq.Answers) == 0 {
			return nil, fmt.Errorf("multiple question requires answers")
		}
		var correct []int
		if err := json.Unmarshal(rq.Correct, &correct); err != nil {
			return nil, fmt.Errorf("multiple question requires an index array: %w", err)
		}
		if len(correct) == 0 {
			return nil, fmt.Errorf("multiple question requires at least one correct index")
		}
		seen := make(map[int]struct{}, len(correct))
		for _, idx := range correct {
			if idx < 0 || idx >= len(rq.Answers) {
				return nil, fmt.Errorf("correct index %d out of range", idx)
			}
			if _, ok := seen[idx]; ok {
				return nil, fmt.Errorf("duplicate correct index %d", idx)
			}
			seen[idx] = struct{}{}
		}
		return entities.MultipleChoice{Options: rq.Answers, Correct: correct}, nil

	case entities.AnswerText:
		var correct string
		if err := json.Unmarshal(rq.Correct, &correct); err != nil {
			return nil, fmt.Errorf("text question requires a string answer: %w", err)
		}
		if correct == "" {
			return nil, fmt.Errorf("text question requires a non-empty answer")
		}
		return entities.TextAnswer{Correct: correct}, nil

	default:
		return nil, fmt.Errorf("unknown answer type %q", rq.AnswerType)
	}
}
