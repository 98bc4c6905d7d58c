package telegram

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/dmzaytsev/forum-quiz-bot/internal/config"
	"github.com/dmzaytsev/forum-quiz-bot/internal/dateutil"
	"github.com/dmzaytsev/forum-quiz-bot/internal/domain/entities"
	"github.com/dmzaytsev/forum-quiz-bot/internal/quiz"
)

// Handler drives the update loop and routes messages and callbacks between
// the menu navigation and the quiz engine.
type Handler struct {
	bot    *tgbotapi.BotAPI
	logger *zap.Logger
	engine *quiz.Engine
	cfg    *config.Config
	menu   *entities.Menu
	layout keyboardLayout
}

func NewHandler(
	bot *tgbotapi.BotAPI,
	logger *zap.Logger,
	engine *quiz.Engine,
	cfg *config.Config,
	menu *entities.Menu,
) *Handler {
	return &Handler{
		bot:    bot,
		logger: logger,
		engine: engine,
		cfg:    cfg,
		menu:   menu,
		layout: keyboardLayout{
			maxButtonsPerRow: cfg.UI.MaxButtonsPerRow,
			maxButtonWidth:   cfg.UI.MaxButtonWidth,
		},
	}
}

func (h *Handler) Run(ctx context.Context) error {
	h.logger.Info("telegram handler started")
	defer h.logger.Info("telegram handler stopped")

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := h.bot.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case update := <-updates:
			h.handleUpdate(ctx, update)
		}
	}
}

func (h *Handler) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	if update.CallbackQuery != nil {
		h.logger.Debug("callback received",
			zap.Int64("user_id", update.CallbackQuery.From.ID),
			zap.String("data", update.CallbackQuery.Data),
		)
		h.handleCallback(ctx, update.CallbackQuery)
		return
	}

	if update.Message == nil {
		h.logger.Debug("update without message and callback")
		return
	}

	h.logger.Debug("update received",
		zap.Int64("chat_id", update.Message.Chat.ID),
		zap.String("text", update.Message.Text),
	)

	if update.Message.IsCommand() {
		h.handleCommand(ctx, update.Message)
		return
	}

	h.handleText(ctx, update.Message)
}

func (h *Handler) handleCommand(ctx context.Context, msg *tgbotapi.Message) {
	switch msg.Command() {
	case "start":
		h.sendMainMenu(msg.Chat.ID, formatWelcome(displayName(msg.From)))
	case "download":
		h.handleDownload(ctx, msg)
	default:
		h.send(tgbotapi.NewMessage(msg.Chat.ID, msgUseStart))
	}
}

func (h *Handler) handleText(ctx context.Context, msg *tgbotapi.Message) {
	userID := msg.From.ID
	chatID := msg.Chat.ID
	text := msg.Text

	switch text {
	case btnQuiz:
		if h.cfg.Quiz.QuizButton {
			h.handleStartRequest(ctx, userID, msg.From.UserName, chatID)
			return
		}

	case btnResults:
		h.handleHistory(ctx, userID, chatID)
		return

	case btnExitQuiz:
		if h.engine.HandleEvent(ctx, userID, quiz.Event{Kind: quiz.EventExit}) {
			return
		}
	}

	// Free text is a nickname or a text answer while a session is live.
	if h.engine.HandleEvent(ctx, userID, quiz.Event{Kind: quiz.EventText, Text: text}) {
		return
	}

	h.handleMenuNavigation(chatID, text)
}

// handleStartRequest maps start rejections to their user-facing messages.
func (h *Handler) handleStartRequest(ctx context.Context, userID int64, username string, chatID int64) {
	err := h.engine.Start(ctx, userID, username)
	if err == nil {
		return
	}

	var text string
	switch {
	case errors.Is(err, quiz.ErrQuizNotStarted):
		text = formatNotStarted(h.cfg.Quiz.StartDate)
	case errors.Is(err, quiz.ErrQuizEnded):
		text = formatEnded(h.cfg.Quiz.EndDate)
	case errors.Is(err, quiz.ErrAlreadyTaken):
		text = msgAlreadyTaken
	default:
		text = msgBankUnavailable
	}

	h.sendMainMenu(chatID, text)
}

func (h *Handler) handleHistory(ctx context.Context, userID, chatID int64) {
	results, err := h.engine.History(ctx, userID)
	if err != nil {
		h.logger.Error("load history",
			zap.Int64("user_id", userID),
			zap.Error(err),
		)
	}

	if len(results) == 0 {
		h.sendMainMenu(chatID, msgNoResults)
		return
	}
	h.sendMainMenu(chatID, formatHistory(results))
}

func (h *Handler) handleMenuNavigation(chatID int64, text string) {
	titles := h.menu.SectionTitles()
	if len(titles) == 0 {
		h.send(tgbotapi.NewMessage(chatID, msgEmptyMenu))
		return
	}

	if section, ok := h.menu.Section(text); ok {
		itemTitles := make([]string, 0, len(section.Items))
		for _, item := range section.Items {
			itemTitles = append(itemTitles, item.Title)
		}
		msg := tgbotapi.NewMessage(chatID, msgChooseSubOption)
		msg.ReplyMarkup = h.layout.subMenuKeyboard(itemTitles)
		h.send(msg)
		return
	}

	if text == btnBack {
		h.sendMainMenu(chatID, msgChooseOption)
		return
	}

	if content, ok := h.menu.Content(text); ok {
		msg := tgbotapi.NewMessage(chatID, content)
		msg.ReplyMarkup = backKeyboard()
		h.send(msg)
		return
	}

	h.send(tgbotapi.NewMessage(chatID, msgUseStart))
}

func (h *Handler) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	cd := decodeCallback(cb.Data)

	if cd.Action == actionQuiz {
		ev, uid, ok := decodeQuizEvent(cd)
		// Drop tokens replayed from another user's keyboard.
		if ok && uid == cb.From.ID {
			h.engine.HandleEvent(ctx, cb.From.ID, ev)
		}
	}

	// Remove the user's "clock".
	answer := tgbotapi.NewCallback(cb.ID, "")
	if _, err := h.bot.Request(answer); err != nil {
		h.logger.Warn("callback answer error", zap.Error(err))
	}
}

// handleDownload streams the CSV export to an allowed user.
func (h *Handler) handleDownload(_ context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID

	if !h.cfg.IsAdmin(msg.From.ID) {
		h.send(tgbotapi.NewMessage(chatID, msgExportDenied))
		return
	}

	path := h.cfg.Quiz.ResultsCSVPath
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			h.send(tgbotapi.NewMessage(chatID, msgExportMissing))
			return
		}
		h.logger.Error("open results export",
			zap.String("path", path),
			zap.Error(err),
		)
		h.send(tgbotapi.NewMessage(chatID, msgExportFailed))
		return
	}
	defer f.Close()

	doc := tgbotapi.NewDocument(chatID, tgbotapi.FileReader{
		Name:   fmt.Sprintf("Quiz_Results_%s.csv", dateutil.FormatDate(time.Now())),
		Reader: f,
	})
	doc.Caption = msgExportCaption

	if _, err := h.bot.Send(doc); err != nil {
		h.logger.Error("send results export", zap.Error(err))
		h.send(tgbotapi.NewMessage(chatID, msgExportFailed))
	}
}

func (h *Handler) sendMainMenu(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = h.layout.mainMenuKeyboard(h.menu.SectionTitles(), h.cfg.Quiz.QuizButton)
	h.send(msg)
}

func (h *Handler) send(c tgbotapi.Chattable) {
	if _, err := h.bot.Send(c); err != nil {
		h.logger.Error("failed to send telegram message",
			zap.Error(err),
		)
	}
}

func displayName(u *tgbotapi.User) string {
	if u.FirstName != "" {
		return u.FirstName
	}
	if u.UserName != "" {
		return u.UserName
	}
	return "Пользователь"
}
