package config

import (
	"errors"
	"testing"
	"time"
)

func TestLoadRequiresToken(t *testing.T) {
	t.Setenv("TELEGRAM_API_TOKEN", "")
	if _, err := Load(); !errors.Is(err, ErrMissingEnvironmentVariables) {
		t.Errorf("err = %v, want ErrMissingEnvironmentVariables", err)
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("TELEGRAM_API_TOKEN", "123:abc")
	t.Setenv("DATABASE_URL", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.TelegramAPIToken != "123:abc" {
		t.Errorf("token = %q", cfg.TelegramAPIToken)
	}
	if cfg.Quiz.BankPath != "data/quiz.json" {
		t.Errorf("bank path = %q", cfg.Quiz.BankPath)
	}
	if cfg.Quiz.TimeLimit != 10*time.Minute {
		t.Errorf("time limit = %v", cfg.Quiz.TimeLimit)
	}
	if cfg.UI.MaxButtonsPerRow != 3 || cfg.UI.MaxButtonWidth != 20 {
		t.Errorf("ui = %+v", cfg.UI)
	}
	if cfg.DB.URL != "" {
		t.Errorf("database url defaulted to %q", cfg.DB.URL)
	}

	start, end, err := cfg.Quiz.Window()
	if err != nil {
		t.Fatalf("Window: %v", err)
	}
	if !end.After(start) {
		t.Errorf("window end %v not after start %v", end, start)
	}
}

func TestIsAdmin(t *testing.T) {
	cfg := &Config{AdminIDs: []int64{1, 2}}
	if !cfg.IsAdmin(2) {
		t.Error("configured admin rejected")
	}
	if cfg.IsAdmin(3) {
		t.Error("stranger accepted as admin")
	}
}
