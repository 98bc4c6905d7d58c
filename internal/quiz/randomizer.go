package quiz

import (
	"math/rand"

	"github.com/dmzaytsev/forum-quiz-bot/internal/domain/entities"
)

// PrepareAnswers produces the presentation order for a question's options
// and remaps the correctness descriptor into that order. Whatever the
// shuffle outcome, the set of option strings marked correct is the same
// before and after; only positions change. Text questions have no options
// and pass through empty.
func PrepareAnswers(q entities.Question, randomize bool, rng *rand.Rand) entities.PreparedAnswers {
	switch body := q.Body.(type) {
	case entities.SingleChoice:
		options, positions := shuffleOptions(body.Options, randomize, rng)
		return entities.PreparedAnswers{
			Options: options,
			Correct: positions[body.Correct],
		}

	case entities.MultipleChoice:
		options, positions := shuffleOptions(body.Options, randomize, rng)
		correct := make([]int, len(body.Correct))
		for i, idx := range body.Correct {
			correct[i] = positions[idx]
		}
		return entities.PreparedAnswers{
			Options:    options,
			CorrectSet: correct,
		}

	default:
		return entities.PreparedAnswers{}
	}
}

// shuffleOptions returns a (possibly shuffled) copy of the options and, for
// every original index, its position inside the copy.
func shuffleOptions(options []string, randomize bool, rng *rand.Rand) ([]string, []int) {
	order := make([]int, len(options))
	for i := range order {
		order[i] = i
	}
	if randomize {
		rng.Shuffle(len(order), func(i, j int) {
			order[i], order[j] = order[j], order[i]
		})
	}

	out := make([]string, len(options))
	positions := make([]int, len(options))
	for pos, orig := range order {
		out[pos] = options[orig]
		positions[orig] = pos
	}
	return out, positions
}
