package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/dmzaytsev/forum-quiz-bot/internal/domain/entities"
)

func writeBank(t *testing.T, content string) *BankLoader {
	t.Helper()
	path := filepath.Join(t.TempDir(), "quiz.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return NewBankLoader(path)
}

func TestBankLoadValid(t *testing.T) {
	loader := writeBank(t, `[
		{"question": "one", "answerType": "single", "answers": ["a", "b"], "correct": 1},
		{"question": "many", "answerType": "multiple", "answers": ["a", "b", "c"], "correct": [0, 2]},
		{"question": "free", "answerType": "text", "correct": "Paris", "allAnswersCorrect": false},
		{"question": "any", "answerType": "single", "answers": ["a"], "correct": 0, "allAnswersCorrect": true}
	]`)

	questions, err := loader.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(questions) != 4 {
		t.Fatalf("loaded %d questions, want 4", len(questions))
	}

	single, ok := questions[0].Body.(entities.SingleChoice)
	if !ok || single.Correct != 1 {
		t.Errorf("question 1 body = %+v", questions[0].Body)
	}

	multiple, ok := questions[1].Body.(entities.MultipleChoice)
	if !ok || len(multiple.Correct) != 2 {
		t.Errorf("question 2 body = %+v", questions[1].Body)
	}

	text, ok := questions[2].Body.(entities.TextAnswer)
	if !ok || text.Correct != "Paris" {
		t.Errorf("question 3 body = %+v", questions[2].Body)
	}

	if !questions[3].AllAnswersCorrect {
		t.Error("allAnswersCorrect flag lost")
	}
}

func TestBankLoadFailsClosed(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{
			"index out of range",
			`[{"question": "q", "answerType": "single", "answers": ["a", "b"], "correct": 2}]`,
		},
		{
			"negative index",
			`[{"question": "q", "answerType": "single", "answers": ["a", "b"], "correct": -1}]`,
		},
		{
			"duplicate multiple index",
			`[{"question": "q", "answerType": "multiple", "answers": ["a", "b"], "correct": [0, 0]}]`,
		},
		{
			"empty multiple set",
			`[{"question": "q", "answerType": "multiple", "answers": ["a", "b"], "correct": []}]`,
		},
		{
			"empty text answer",
			`[{"question": "q", "answerType": "text", "correct": ""}]`,
		},
		{
			"unknown answer type",
			`[{"question": "q", "answerType": "pictures", "answers": ["a"], "correct": 0}]`,
		},
		{
			"missing question text",
			`[{"answerType": "single", "answers": ["a"], "correct": 0}]`,
		},
		{
			"missing correct field",
			`[{"question": "q", "answerType": "single", "answers": ["a"]}]`,
		},
		{
			"type mismatch",
			`[{"question": "q", "answerType": "single", "answers": ["a", "b"], "correct": [0]}]`,
		},
		{
			"one bad question spoils the bank",
			`[
				{"question": "ok", "answerType": "single", "answers": ["a"], "correct": 0},
				{"question": "bad", "answerType": "single", "answers": ["a"], "correct": 7}
			]`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loader := writeBank(t, tt.content)
			if _, err := loader.Load(context.Background()); err == nil {
				t.Error("invalid bank loaded without error")
			}
		})
	}
}

func TestBankLoadMissingFile(t *testing.T) {
	loader := NewBankLoader(filepath.Join(t.TempDir(), "absent.json"))
	if _, err := loader.Load(context.Background()); err == nil {
		t.Error("missing file loaded without error")
	}
}
