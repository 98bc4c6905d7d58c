// messages.go contains message templates and formatting functions for Telegram.

package telegram

import (
	"fmt"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/dmzaytsev/forum-quiz-bot/internal/dateutil"
	"github.com/dmzaytsev/forum-quiz-bot/internal/domain/entities"
	"github.com/dmzaytsev/forum-quiz-bot/internal/quiz"
)

// Reserved menu phrases.
const (
	btnQuiz     = "🎲 Викторина 🎲"
	btnResults  = "📊 Мои результаты"
	btnExitQuiz = "Выйти из викторины"
	btnBack     = "Назад"
	btnSubmit   = "Подтвердить выбор"
	btnYes      = "Да"
	btnNo       = "Нет"
)

// Message templates.
const (
	msgEmptyMenu        = "Ошибка: конфигурация пуста или некорректна."
	msgUseStart         = "Для начала работы с ботом, используйте команду /start"
	msgChooseOption     = "Выберите опцию:"
	msgChooseSubOption  = "Выберите подопцию:"
	msgAlreadyTaken     = "Вы уже прошли викторину."
	msgBankUnavailable  = "Ошибка: вопросы не загружены."
	msgConsentQuestion  = "Есть ли у вас ник на форуме?"
	msgAskNickname      = "Пожалуйста, введите ваш ник на форуме:"
	msgSelectOne        = "Выберите один вариант перед подтверждением."
	msgSelectAtLeastOne = "Выберите хотя бы один вариант перед подтверждением."
	msgCorrect          = "Правильно! 👋"
	msgImageUnavailable = "⚠️ Изображение для вопроса недоступно"
	msgMenuFallback     = "Не удалось отобразить меню. Отправьте /start вручную."
	msgNoResults        = "У вас пока нет результатов викторины. Пройдите викторину, чтобы увидеть свои результаты!"
	msgExportDenied     = "⛔ У вас нет прав для скачивания результатов."
	msgExportMissing    = "⚠️ Файл результатов не найден."
	msgExportFailed     = "❌ Ошибка при отправке файла."
	msgExportCaption    = "📊 Результаты викторины. Для возврата — команда /start"
	msgReturnHint       = "Для возврата в меню выполните команду /start"
)

func formatWelcome(name string) string {
	return fmt.Sprintf("Добро пожаловать, %s! Используйте кнопки меню для навигации. Выберите опцию для продолжения.", name)
}

func formatNotStarted(start string) string {
	return fmt.Sprintf("Викторина ещё не началась. Начало: %s.", start)
}

func formatEnded(end string) string {
	return fmt.Sprintf("Викторина уже закончилась. Конец: %s.", end)
}

func formatStarted(limit time.Duration) string {
	return fmt.Sprintf("Викторина началась! У вас есть %s на прохождение.", dateutil.FormatDuration(limit))
}

func formatIncorrect(correct string) string {
	return fmt.Sprintf("Неправильно ❌. Правильный ответ: %s", correct)
}

// formatQuestion renders the question header with per-kind instructions.
func formatQuestion(view quiz.QuestionView) string {
	var instructions string
	switch view.Kind {
	case entities.AnswerSingle:
		instructions = "\nВыберите <b>ОДИН</b> вариант и нажмите \"Подтвердить выбор\"."
	case entities.AnswerMultiple:
		instructions = "\nВыберите <b>ОДИН или НЕСКОЛЬКО</b> вариантов и нажмите \"Подтвердить выбор\"."
	case entities.AnswerText:
		instructions = "\nВведите ответ текстом."
	}
	return fmt.Sprintf("Вопрос %d/%d:\n%s%s", view.Number, view.Total, view.Text, instructions)
}

// formatTermination renders the cause-specific final message.
func formatTermination(outcome quiz.Outcome, sum quiz.Summary) string {
	var msg string
	switch outcome {
	case quiz.OutcomeExit:
		msg = "Вы вышли из викторины."
	case quiz.OutcomeTimeout:
		msg = fmt.Sprintf("Время вышло.\nВаш результат: %d из %d (%s%%)", sum.Score, sum.Total, sum.Percentage)
	default:
		msg = fmt.Sprintf("Викторина завершена! 🎉\nВаш результат: %d из %d (%s%%)", sum.Score, sum.Total, sum.Percentage)
	}
	return msg + "\n" + msgReturnHint
}

// formatHistory renders the user's attempt list.
func formatHistory(results []*entities.QuizResult) string {
	var sb strings.Builder
	sb.WriteString("Ваши результаты викторины:\n\n")
	for i, res := range results {
		fmt.Fprintf(&sb, "Попытка %d (%s):\n", i+1, dateutil.FormatDate(res.FinishedAt))
		fmt.Fprintf(&sb, "Пользователь: %s\n", res.Username)
		fmt.Fprintf(&sb, "Счёт: %d из %d\n\n", res.Score, res.Total)
	}
	return sb.String()
}

// newHTMLMessage creates a message with HTML parse mode.
func newHTMLMessage(chatID int64, text string) tgbotapi.MessageConfig {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	return msg
}
