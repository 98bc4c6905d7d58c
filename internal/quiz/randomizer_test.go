package quiz

import (
	"math/rand"
	"testing"

	"github.com/dmzaytsev/forum-quiz-bot/internal/domain/entities"
)

func TestPrepareAnswersSingleKeepsCorrectString(t *testing.T) {
	q := entities.Question{
		Text: "q",
		Body: entities.SingleChoice{Options: []string{"a", "b", "c", "d"}, Correct: 2},
	}

	for seed := int64(0); seed < 50; seed++ {
		rng := rand.New(rand.NewSource(seed))
		prep := PrepareAnswers(q, true, rng)

		if len(prep.Options) != 4 {
			t.Fatalf("seed %d: got %d options, want 4", seed, len(prep.Options))
		}
		if got := prep.Options[prep.Correct]; got != "c" {
			t.Errorf("seed %d: correct option is %q, want %q", seed, got, "c")
		}
	}
}

func TestPrepareAnswersMultipleKeepsCorrectSet(t *testing.T) {
	q := entities.Question{
		Text: "q",
		Body: entities.MultipleChoice{Options: []string{"a", "b", "c", "d"}, Correct: []int{0, 3}},
	}

	for seed := int64(0); seed < 50; seed++ {
		rng := rand.New(rand.NewSource(seed))
		prep := PrepareAnswers(q, true, rng)

		if len(prep.CorrectSet) != 2 {
			t.Fatalf("seed %d: got %d correct indices, want 2", seed, len(prep.CorrectSet))
		}
		got := map[string]bool{}
		for _, i := range prep.CorrectSet {
			got[prep.Options[i]] = true
		}
		if !got["a"] || !got["d"] {
			t.Errorf("seed %d: correct set is %v, want {a, d}", seed, got)
		}
	}
}

func TestPrepareAnswersWithoutRandomization(t *testing.T) {
	q := entities.Question{
		Text: "q",
		Body: entities.SingleChoice{Options: []string{"a", "b", "c"}, Correct: 1},
	}
	prep := PrepareAnswers(q, false, rand.New(rand.NewSource(1)))

	for i, want := range []string{"a", "b", "c"} {
		if prep.Options[i] != want {
			t.Errorf("option %d = %q, want %q", i, prep.Options[i], want)
		}
	}
	if prep.Correct != 1 {
		t.Errorf("Correct = %d, want 1", prep.Correct)
	}
}

func TestPrepareAnswersTextIsEmpty(t *testing.T) {
	q := entities.Question{Text: "q", Body: entities.TextAnswer{Correct: "x"}}
	prep := PrepareAnswers(q, true, rand.New(rand.NewSource(1)))
	if len(prep.Options) != 0 {
		t.Errorf("text question produced %d options", len(prep.Options))
	}
}

func TestSequenceCopiesBank(t *testing.T) {
	bank := []entities.Question{
		{Text: "1", Body: entities.TextAnswer{Correct: "a"}},
		{Text: "2", Body: entities.TextAnswer{Correct: "b"}},
		{Text: "3", Body: entities.TextAnswer{Correct: "c"}},
	}

	out := Sequence(bank, false, rand.New(rand.NewSource(1)))
	for i := range bank {
		if out[i].Text != bank[i].Text {
			t.Fatalf("order changed without randomization: %q at %d", out[i].Text, i)
		}
	}

	out[0].Text = "mutated"
	if bank[0].Text != "1" {
		t.Error("sequencing did not copy the bank")
	}
}

func TestSequenceShuffleIsPermutation(t *testing.T) {
	bank := []entities.Question{
		{Text: "1", Body: entities.TextAnswer{Correct: "a"}},
		{Text: "2", Body: entities.TextAnswer{Correct: "b"}},
		{Text: "3", Body: entities.TextAnswer{Correct: "c"}},
		{Text: "4", Body: entities.TextAnswer{Correct: "d"}},
	}

	orders := map[string]bool{}
	for seed := int64(0); seed < 20; seed++ {
		out := Sequence(bank, true, rand.New(rand.NewSource(seed)))
		if len(out) != len(bank) {
			t.Fatalf("seed %d: got %d questions, want %d", seed, len(out), len(bank))
		}
		seen := map[string]bool{}
		order := ""
		for _, q := range out {
			seen[q.Text] = true
			order += q.Text
		}
		orders[order] = true
		for _, q := range bank {
			if !seen[q.Text] {
				t.Errorf("seed %d: question %q missing after shuffle", seed, q.Text)
			}
		}
	}
	if len(orders) < 2 {
		t.Error("20 seeds produced a single ordering")
	}
}

func TestSequenceShuffleUniform(t *testing.T) {
	bank := []entities.Question{
		{Text: "1", Body: entities.TextAnswer{Correct: "a"}},
		{Text: "2", Body: entities.TextAnswer{Correct: "b"}},
		{Text: "3", Body: entities.TextAnswer{Correct: "c"}},
	}

	rng := rand.New(rand.NewSource(7))
	const trials = 6000
	counts := make(map[string]int, 6)
	for i := 0; i < trials; i++ {
		out := Sequence(bank, true, rng)
		counts[out[0].Text+out[1].Text+out[2].Text]++
	}

	if len(counts) != 6 {
		t.Fatalf("saw %d orderings, want all 6", len(counts))
	}
	want := trials / 6
	for order, n := range counts {
		if n < want*8/10 || n > want*12/10 {
			t.Errorf("ordering %s occurred %d times, want about %d", order, n, want)
		}
	}
}
