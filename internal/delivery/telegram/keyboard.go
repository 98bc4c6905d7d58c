package telegram

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/dmzaytsev/forum-quiz-bot/internal/quiz"
)

// keyboardLayout caps button rows by count and label width.
type keyboardLayout struct {
	maxButtonsPerRow int
	maxButtonWidth   int
}

// buildAdaptiveKeyboard lays out reply buttons into rows, starting a new
// row for wide labels or when the row is full.
func (l keyboardLayout) buildAdaptiveKeyboard(items []string, extraRows ...[]tgbotapi.KeyboardButton) tgbotapi.ReplyKeyboardMarkup {
	var (
		rows [][]tgbotapi.KeyboardButton
		row  []tgbotapi.KeyboardButton
	)

	for _, item := range items {
		if len([]rune(item)) > l.maxButtonWidth || len(row) >= l.maxButtonsPerRow {
			if len(row) > 0 {
				rows = append(rows, row)
				row = nil
			}
		}
		row = append(row, tgbotapi.NewKeyboardButton(item))
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}

	rows = append(rows, extraRows...)

	kb := tgbotapi.NewReplyKeyboard(rows...)
	kb.ResizeKeyboard = true
	kb.OneTimeKeyboard = false
	return kb
}

// mainMenuKeyboard builds the top-level menu, with the quiz entry button
// when it is enabled.
func (l keyboardLayout) mainMenuKeyboard(titles []string, quizButton bool) tgbotapi.ReplyKeyboardMarkup {
	var extra [][]tgbotapi.KeyboardButton
	if quizButton {
		extra = append(extra, tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(btnQuiz)))
	}
	return l.buildAdaptiveKeyboard(titles, extra...)
}

// subMenuKeyboard builds a section's sub-item menu with a back button.
func (l keyboardLayout) subMenuKeyboard(titles []string) tgbotapi.ReplyKeyboardMarkup {
	back := tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(btnBack))
	return l.buildAdaptiveKeyboard(titles, back)
}

// backKeyboard is the single-button keyboard under a content reply.
func backKeyboard() tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(btnBack)),
	)
	kb.ResizeKeyboard = true
	kb.OneTimeKeyboard = false
	return kb
}

// consentKeyboard asks whether the user has a forum nickname.
func consentKeyboard(userID int64) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(btnYes, buildConsentCallback(consentYes, userID)),
			tgbotapi.NewInlineKeyboardButtonData(btnNo, buildConsentCallback(consentNo, userID)),
		),
	)
}

// formatAnswerLabel marks selected options and truncates wide labels.
func (l keyboardLayout) formatAnswerLabel(answer string, selected bool) string {
	label := answer
	if selected {
		label = "✅ " + answer
	}
	runes := []rune(label)
	if len(runes) <= l.maxButtonWidth {
		return label
	}
	// No room for an ellipsis at tiny configured widths; hard-cut instead.
	if l.maxButtonWidth < 4 {
		cut := l.maxButtonWidth
		if cut < 0 {
			cut = 0
		}
		return string(runes[:cut])
	}
	return string(runes[:l.maxButtonWidth-3]) + "..."
}

// questionKeyboard builds the inline keyboard for a question: option
// toggles laid out adaptively, then the submit row for choice questions,
// then the exit row.
func (l keyboardLayout) questionKeyboard(userID int64, view quiz.QuestionView) tgbotapi.InlineKeyboardMarkup {
	var (
		rows [][]tgbotapi.InlineKeyboardButton
		row  []tgbotapi.InlineKeyboardButton
	)

	for i, option := range view.Options {
		label := l.formatAnswerLabel(option, view.Selection.Contains(i))
		if len([]rune(label)) > l.maxButtonWidth || len(row) >= l.maxButtonsPerRow {
			if len(row) > 0 {
				rows = append(rows, row)
				row = nil
			}
		}
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(label, buildToggleCallback(userID, i)))
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}

	if len(view.Options) > 0 {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(btnSubmit, buildSubmitCallback(userID)),
		))
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData(btnExitQuiz, buildExitCallback(userID)),
	))

	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}
