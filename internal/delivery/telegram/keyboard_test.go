package telegram

import (
	"strings"
	"testing"

	"github.com/dmzaytsev/forum-quiz-bot/internal/domain/entities"
	"github.com/dmzaytsev/forum-quiz-bot/internal/quiz"
)

func testLayout() keyboardLayout {
	return keyboardLayout{maxButtonsPerRow: 3, maxButtonWidth: 20}
}

func TestBuildAdaptiveKeyboardRowBreaks(t *testing.T) {
	l := testLayout()

	kb := l.buildAdaptiveKeyboard([]string{"a", "b", "c", "d"})
	if len(kb.Keyboard) != 2 {
		t.Fatalf("4 short items produced %d rows, want 2", len(kb.Keyboard))
	}
	if len(kb.Keyboard[0]) != 3 || len(kb.Keyboard[1]) != 1 {
		t.Errorf("row sizes = %d, %d", len(kb.Keyboard[0]), len(kb.Keyboard[1]))
	}

	// A wide label forces its own row.
	wide := strings.Repeat("щ", 25)
	kb = l.buildAdaptiveKeyboard([]string{"a", wide, "b"})
	if len(kb.Keyboard) != 3 {
		t.Fatalf("wide label layout has %d rows, want 3", len(kb.Keyboard))
	}
	if kb.Keyboard[1][0].Text != wide {
		t.Errorf("wide label not isolated: %q", kb.Keyboard[1][0].Text)
	}
}

func TestMainMenuKeyboardQuizButton(t *testing.T) {
	l := testLayout()

	kb := l.mainMenuKeyboard([]string{"About"}, true)
	last := kb.Keyboard[len(kb.Keyboard)-1]
	if len(last) != 1 || last[0].Text != btnQuiz {
		t.Errorf("quiz row = %+v", last)
	}

	kb = l.mainMenuKeyboard([]string{"About"}, false)
	for _, row := range kb.Keyboard {
		for _, b := range row {
			if b.Text == btnQuiz {
				t.Error("quiz button present while disabled")
			}
		}
	}
}

func TestFormatAnswerLabel(t *testing.T) {
	l := testLayout()

	if got := l.formatAnswerLabel("short", false); got != "short" {
		t.Errorf("plain label = %q", got)
	}
	if got := l.formatAnswerLabel("short", true); got != "✅ short" {
		t.Errorf("selected label = %q", got)
	}

	long := strings.Repeat("ю", 30)
	got := l.formatAnswerLabel(long, false)
	if runes := []rune(got); len(runes) != 20 || !strings.HasSuffix(got, "...") {
		t.Errorf("truncated label = %q (%d runes)", got, len(runes))
	}
}

func TestFormatAnswerLabelTinyWidth(t *testing.T) {
	l := keyboardLayout{maxButtonsPerRow: 3, maxButtonWidth: 2}

	if got := l.formatAnswerLabel("abcdef", false); got != "ab" {
		t.Errorf("width-2 label = %q, want %q", got, "ab")
	}
	if got := l.formatAnswerLabel("abcdef", true); len([]rune(got)) != 2 {
		t.Errorf("width-2 selected label = %q", got)
	}

	l.maxButtonWidth = 0
	if got := l.formatAnswerLabel("abc", false); got != "" {
		t.Errorf("width-0 label = %q, want empty", got)
	}
}

func TestQuestionKeyboardRows(t *testing.T) {
	l := testLayout()

	sel := entities.NewSelection(entities.AnswerSingle)
	sel.ToggleSingle(1)
	view := quiz.QuestionView{
		Kind:      entities.AnswerSingle,
		Options:   []string{"a", "b"},
		Selection: sel,
	}

	kb := l.questionKeyboard(42, view)
	// Options row, submit row, exit row.
	if len(kb.InlineKeyboard) != 3 {
		t.Fatalf("choice keyboard has %d rows, want 3", len(kb.InlineKeyboard))
	}
	if kb.InlineKeyboard[0][1].Text != "✅ b" {
		t.Errorf("selected option label = %q", kb.InlineKeyboard[0][1].Text)
	}
	if kb.InlineKeyboard[1][0].Text != btnSubmit {
		t.Errorf("submit row = %+v", kb.InlineKeyboard[1])
	}
	if kb.InlineKeyboard[2][0].Text != btnExitQuiz {
		t.Errorf("exit row = %+v", kb.InlineKeyboard[2])
	}
}

func TestQuestionKeyboardTextQuestion(t *testing.T) {
	l := testLayout()

	view := quiz.QuestionView{Kind: entities.AnswerText}
	kb := l.questionKeyboard(42, view)
	// Only the exit row: text questions have no options to toggle.
	if len(kb.InlineKeyboard) != 1 {
		t.Fatalf("text keyboard has %d rows, want 1", len(kb.InlineKeyboard))
	}
	if kb.InlineKeyboard[0][0].Text != btnExitQuiz {
		t.Errorf("exit row = %+v", kb.InlineKeyboard[0])
	}
}
