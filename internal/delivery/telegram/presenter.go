package telegram

import (
	"context"
	"os"
	"path/filepath"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/dmzaytsev/forum-quiz-bot/internal/config"
	"github.com/dmzaytsev/forum-quiz-bot/internal/domain/entities"
	"github.com/dmzaytsev/forum-quiz-bot/internal/quiz"
)

const (
	menuRetryAttempts = 3
	menuRetryDelay    = 2 * time.Second
)

// Presenter renders the engine's outbound effects through the Telegram API.
// All delivery failures are logged and swallowed; the engine never stalls
// on transport errors.
type Presenter struct {
	bot        *tgbotapi.BotAPI
	logger     *zap.Logger
	layout     keyboardLayout
	imagesDir  string
	menu       *entities.Menu
	quizButton bool
}

func NewPresenter(
	bot *tgbotapi.BotAPI,
	logger *zap.Logger,
	cfg *config.Config,
	menu *entities.Menu,
) *Presenter {
	return &Presenter{
		bot:    bot,
		logger: logger,
		layout: keyboardLayout{
			maxButtonsPerRow: cfg.UI.MaxButtonsPerRow,
			maxButtonWidth:   cfg.UI.MaxButtonWidth,
		},
		imagesDir:  cfg.Quiz.ImagesDir,
		menu:       menu,
		quizButton: cfg.Quiz.QuizButton,
	}
}

func (p *Presenter) AskNicknameConsent(_ context.Context, userID int64) {
	msg := tgbotapi.NewMessage(userID, msgConsentQuestion)
	msg.ReplyMarkup = consentKeyboard(userID)
	p.send(msg)
}

func (p *Presenter) AskNickname(_ context.Context, userID int64) {
	p.send(tgbotapi.NewMessage(userID, msgAskNickname))
}

func (p *Presenter) AnnounceStart(_ context.Context, userID int64, limit time.Duration) {
	msg := tgbotapi.NewMessage(userID, formatStarted(limit))
	msg.ReplyMarkup = tgbotapi.NewRemoveKeyboard(true)
	p.send(msg)
}

func (p *Presenter) ShowQuestion(_ context.Context, userID int64, view quiz.QuestionView) (int, error) {
	if view.Image != "" {
		p.sendQuestionImage(userID, view.Image)
	}

	msg := newHTMLMessage(userID, formatQuestion(view))
	msg.DisableWebPagePreview = true
	msg.ReplyMarkup = p.layout.questionKeyboard(userID, view)

	sent, err := p.bot.Send(msg)
	if err != nil {
		return 0, err
	}
	return sent.MessageID, nil
}

// sendQuestionImage attaches the question's image, degrading to a text
// warning when the file is unavailable.
func (p *Presenter) sendQuestionImage(userID int64, image string) {
	path := filepath.Join(p.imagesDir, image)
	if _, err := os.Stat(path); err != nil {
		p.logger.Warn("question image unavailable",
			zap.String("path", path),
			zap.Error(err),
		)
		p.send(tgbotapi.NewMessage(userID, msgImageUnavailable))
		return
	}
	p.send(tgbotapi.NewPhoto(userID, tgbotapi.FilePath(path)))
}

func (p *Presenter) RefreshSelection(_ context.Context, userID int64, messageID int, view quiz.QuestionView) int {
	kb := p.layout.questionKeyboard(userID, view)

	if messageID != 0 {
		edit := tgbotapi.NewEditMessageReplyMarkup(userID, messageID, kb)
		if _, err := p.bot.Send(edit); err == nil {
			return messageID
		} else {
			p.logger.Warn("edit keyboard failed",
				zap.Int64("user_id", userID),
				zap.Int("message_id", messageID),
				zap.Error(err),
			)
		}
	}

	// Fall back to a fresh message carrying the keyboard.
	msg := newHTMLMessage(userID, formatQuestion(view))
	msg.DisableWebPagePreview = true
	msg.ReplyMarkup = kb
	sent, err := p.bot.Send(msg)
	if err != nil {
		p.logger.Error("resend question keyboard",
			zap.Int64("user_id", userID),
			zap.Error(err),
		)
		return messageID
	}
	return sent.MessageID
}

func (p *Presenter) PromptSelection(_ context.Context, userID int64, kind entities.AnswerKind) {
	text := msgSelectOne
	if kind == entities.AnswerMultiple {
		text = msgSelectAtLeastOne
	}
	p.send(tgbotapi.NewMessage(userID, text))
}

func (p *Presenter) AnswerFeedback(_ context.Context, userID int64, correct bool, correctRendering string) {
	if correct {
		p.send(tgbotapi.NewMessage(userID, msgCorrect))
		return
	}
	p.send(tgbotapi.NewMessage(userID, formatIncorrect(correctRendering)))
}

func (p *Presenter) StripControls(_ context.Context, userID int64, messageID int) {
	edit := tgbotapi.NewEditMessageReplyMarkup(userID, messageID, tgbotapi.InlineKeyboardMarkup{
		InlineKeyboard: [][]tgbotapi.InlineKeyboardButton{},
	})
	if _, err := p.bot.Send(edit); err != nil {
		// Best-effort: the message may already lack a keyboard.
		p.logger.Debug("strip controls failed",
			zap.Int64("user_id", userID),
			zap.Int("message_id", messageID),
			zap.Error(err),
		)
	}
}

func (p *Presenter) AnnounceTermination(_ context.Context, userID int64, outcome quiz.Outcome, sum quiz.Summary) {
	p.send(tgbotapi.NewMessage(userID, formatTermination(outcome, sum)))
}

// ReturnToMenu re-renders the main menu with bounded retries, then falls
// back to a plain hint message.
func (p *Presenter) ReturnToMenu(_ context.Context, userID int64) {
	msg := tgbotapi.NewMessage(userID, msgChooseOption)
	msg.ReplyMarkup = p.layout.mainMenuKeyboard(p.menu.SectionTitles(), p.quizButton)

	for attempt := 1; attempt <= menuRetryAttempts; attempt++ {
		if _, err := p.bot.Send(msg); err == nil {
			return
		} else {
			p.logger.Warn("menu render failed",
				zap.Int64("user_id", userID),
				zap.Int("attempt", attempt),
				zap.Error(err),
			)
		}
		if attempt < menuRetryAttempts {
			time.Sleep(menuRetryDelay)
		}
	}

	p.send(tgbotapi.NewMessage(userID, msgMenuFallback))
}

func (p *Presenter) send(c tgbotapi.Chattable) {
	if _, err := p.bot.Send(c); err != nil {
		p.logger.Error("failed to send telegram message",
			zap.Error(err),
		)
	}
}
