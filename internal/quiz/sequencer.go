package quiz

import (
	"math/rand"

	"github.com/dmzaytsev/forum-quiz-bot/internal/domain/entities"
)

// Sequence returns the per-session question order: the bank as-is, or a
// uniformly shuffled copy when randomize is set. The bank slice is never
// modified.
func Sequence(bank []entities.Question, randomize bool, rng *rand.Rand) []entities.Question {
	out := make([]entities.Question, len(bank))
	copy(out, bank)
	if !randomize {
		return out
	}
	rng.Shuffle(len(out), func(i, j int) {
		out[i], out[j] = out[j], out[i]
	})
	return out
}
