package quiz

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/dmzaytsev/forum-quiz-bot/internal/domain/entities"
)

// EvaluateSelection decides correctness of a confirmed option selection
// against the prepared correctness descriptor.
func EvaluateSelection(q entities.Question, prep entities.PreparedAnswers, sel entities.Selection) bool {
	if q.AllAnswersCorrect {
		return true
	}

	switch q.Body.(type) {
	case entities.SingleChoice:
		return sel.Kind == entities.SelectionSingle && sel.Index == prep.Correct

	case entities.MultipleChoice:
		if sel.Kind != entities.SelectionMultiple || len(sel.Indices) != len(prep.CorrectSet) {
			return false
		}
		for _, idx := range prep.CorrectSet {
			if _, ok := sel.Indices[idx]; !ok {
				return false
			}
		}
		return true

	default:
		return false
	}
}

// EvaluateText decides correctness of a free-text submission. Matching is
// case-insensitive and ignores all whitespace.
func EvaluateText(q entities.Question, submitted string) bool {
	if q.AllAnswersCorrect {
		return true
	}
	body, ok := q.Body.(entities.TextAnswer)
	if !ok {
		return false
	}
	return NormalizeAnswer(submitted) == NormalizeAnswer(body.Correct)
}

// NormalizeAnswer lower-cases a text answer and strips all whitespace.
func NormalizeAnswer(s string) string {
	s = strings.ToLower(s)
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}

// Percentage renders score/total as a percentage with two decimals,
// "0" when the total is zero.
func Percentage(score, total int) string {
	if total <= 0 {
		return "0"
	}
	return strconv.FormatFloat(float64(score)/float64(total)*100, 'f', 2, 64)
}
