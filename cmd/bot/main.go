package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/dmzaytsev/forum-quiz-bot/internal/config"
	"github.com/dmzaytsev/forum-quiz-bot/internal/delivery/telegram"
	"github.com/dmzaytsev/forum-quiz-bot/internal/domain/entities"
	"github.com/dmzaytsev/forum-quiz-bot/internal/infra/postgres"
	"github.com/dmzaytsev/forum-quiz-bot/internal/infra/postgres/repository"
	"github.com/dmzaytsev/forum-quiz-bot/internal/logger"
	"github.com/dmzaytsev/forum-quiz-bot/internal/quiz"
	"github.com/dmzaytsev/forum-quiz-bot/internal/storage"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	zl, err := logger.New(cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer zl.Sync()

	bot, err := tgbotapi.NewBotAPI(cfg.TelegramAPIToken)
	if err != nil {
		zl.Fatal("create bot api", zap.Error(err))
	}

	commands := []tgbotapi.BotCommand{
		{
			Command:     "start",
			Description: "Открыть меню",
		},
		{
			Command:     "download",
			Description: "Скачать результаты викторины (для администраторов)",
		},
	}
	if _, err := bot.Request(tgbotapi.NewSetMyCommands(commands...)); err != nil {
		zl.Warn("failed to set bot commands", zap.Error(err))
	}

	zl.Info("authorized on telegram", zap.String("account", bot.Self.UserName))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	menu, err := storage.LoadNavigation(cfg.Quiz.NavigationPath)
	if err != nil {
		// Fail closed to an empty menu; the bot still answers with a hint.
		zl.Error("load navigation", zap.Error(err))
		menu = &entities.Menu{}
	}

	windowStart, windowEnd, err := cfg.Quiz.Window()
	if err != nil {
		zl.Fatal("parse quiz window", zap.Error(err))
	}

	// A configured database replaces the JSON history; the CSV export is
	// written either way.
	var results quiz.ResultStore
	if cfg.DB.URL != "" {
		pool, err := postgres.NewPool(ctx, cfg.DB.URL, postgres.PoolConfig{
			MaxConns:        int32(cfg.DB.MaxConnections),
			MaxConnLifetime: cfg.DB.MaxConnLifetime,
		})
		if err != nil {
			zl.Fatal("connect postgres", zap.Error(err))
		}
		defer pool.Close()
		results = repository.NewResultRepository(pool, cfg.Quiz.ResultsCSVPath)
	} else {
		results = storage.NewResultStore(cfg.Quiz.ResultsJSONPath, cfg.Quiz.ResultsCSVPath)
	}

	presenter := telegram.NewPresenter(bot, zl, cfg, menu)

	engine := quiz.NewEngine(
		quiz.Config{
			WindowStart:        windowStart,
			WindowEnd:          windowEnd,
			TimeLimit:          cfg.Quiz.TimeLimit,
			RandomizeQuestions: cfg.Quiz.RandomizeQuestions,
			RandomizeAnswers:   cfg.Quiz.RandomizeAnswers,
		},
		quiz.NewRegistry(),
		storage.NewBankLoader(cfg.Quiz.BankPath),
		results,
		presenter,
		zl,
	)

	handler := telegram.NewHandler(bot, zl, engine, cfg, menu)
	if err := handler.Run(ctx); err != nil && ctx.Err() == nil {
		zl.Fatal("handler stopped", zap.Error(err))
	}

	zl.Info("shutdown signal received")
}
