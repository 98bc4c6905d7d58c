package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/dmzaytsev/forum-quiz-bot/internal/dateutil"
)

var ErrMissingEnvironmentVariables = errors.New("missing required environment variables")

// Config holds application configuration loaded from files and environment variables.
type Config struct {
	Env              string  `mapstructure:"env"`       // current application environment (local, dev, prod etc)
	TelegramAPIToken string  `mapstructure:"-"`         // Telegram API token loaded from environment
	AdminIDs         []int64 `mapstructure:"admin_ids"` // users allowed to download the results export
	Quiz             Quiz    `mapstructure:"quiz"`
	UI               UI      `mapstructure:"ui"`
	DB               DB      `mapstructure:"database"`
}

// Quiz contains quiz-related configuration parameters.
type Quiz struct {
	BankPath           string        `mapstructure:"bank_path"`           // path to JSON file with questions
	ImagesDir          string        `mapstructure:"images_dir"`          // directory with question images
	NavigationPath     string        `mapstructure:"navigation_path"`     // path to JSON menu tree
	ResultsJSONPath    string        `mapstructure:"results_json_path"`   // per-user attempt history
	ResultsCSVPath     string        `mapstructure:"results_csv_path"`    // tabular export
	StartDate          string        `mapstructure:"start_date"`          // first quiz day, DD.MM.YYYY
	EndDate            string        `mapstructure:"end_date"`            // last quiz day, DD.MM.YYYY
	TimeLimit          time.Duration `mapstructure:"time_limit"`          // per-session deadline
	RandomizeQuestions bool          `mapstructure:"randomize_questions"` // shuffle question order per session
	RandomizeAnswers   bool          `mapstructure:"randomize_answers"`   // shuffle option order per question
	QuizButton         bool          `mapstructure:"quiz_button"`         // show the quiz entry button in the menu
}

// Window returns the configured quiz window as [start of first day, end of last day].
func (q Quiz) Window() (time.Time, time.Time, error) {
	start, err := dateutil.ParseDay(q.StartDate)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("quiz start date: %w", err)
	}
	end, err := dateutil.ParseDayEnd(q.EndDate)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("quiz end date: %w", err)
	}
	return start, end, nil
}

// UI contains keyboard layout parameters.
type UI struct {
	MaxButtonsPerRow int `mapstructure:"max_buttons_per_row"`
	MaxButtonWidth   int `mapstructure:"max_button_width"`
}

// DB contains database-related configuration parameters.
type DB struct {
	URL             string        `mapstructure:"-"`                 // connection string loaded from environment, optional
	MaxConnections  int           `mapstructure:"max_connections"`   // maximum number of open connections in the pool
	MaxConnLifetime time.Duration `mapstructure:"max_conn_lifetime"` // maximum lifetime of a single connection
}

// Load reads configuration from config files and environment variables.
func Load() (*Config, error) {
	// Initialize Viper instance and base config options.
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")

	// Set default values for configuration keys.
	v.SetDefault("env", "local")
	v.SetDefault("quiz.bank_path", "data/quiz.json")
	v.SetDefault("quiz.images_dir", "data/images")
	v.SetDefault("quiz.navigation_path", "data/navigation.json")
	v.SetDefault("quiz.results_json_path", "data/results.json")
	v.SetDefault("quiz.results_csv_path", "data/results.csv")
	v.SetDefault("quiz.start_date", "04.05.2025")
	v.SetDefault("quiz.end_date", "13.07.2025")
	v.SetDefault("quiz.time_limit", "10m")
	v.SetDefault("quiz.randomize_questions", true)
	v.SetDefault("quiz.randomize_answers", true)
	v.SetDefault("quiz.quiz_button", true)
	v.SetDefault("ui.max_buttons_per_row", 3)
	v.SetDefault("ui.max_button_width", 20)
	v.SetDefault("database.max_connections", 20)
	v.SetDefault("database.max_conn_lifetime", "30s")

	// Configure environment variable handling and key mapping.
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_")) // map nested keys to ENV style names
	v.AutomaticEnv()

	// Bind explicit environment variables to configuration keys.
	_ = v.BindEnv("telegram_api_token", "TELEGRAM_API_TOKEN")
	_ = v.BindEnv("database_url", "DATABASE_URL")
	_ = v.BindEnv("admin_ids", "ADMIN_IDS")
	_ = v.BindEnv("env", "APP_ENV")

	// Try to read configuration file if present.
	if err := v.ReadInConfig(); err != nil {
		var fileLookupErr viper.ConfigFileNotFoundError
		if !errors.As(err, &fileLookupErr) {
			return nil, fmt.Errorf("error loading config file: %w", err)
		}
	}

	// Unmarshal configuration into strongly typed struct.
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}

	// Load sensitive values from environment variables.
	cfg.TelegramAPIToken = v.GetString("telegram_api_token")
	if cfg.TelegramAPIToken == "" {
		return nil, ErrMissingEnvironmentVariables
	}

	// Optional: a configured database replaces the JSON result history.
	cfg.DB.URL = v.GetString("database_url")

	if _, _, err := cfg.Quiz.Window(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// IsAdmin reports whether the user may download the results export.
func (c *Config) IsAdmin(userID int64) bool {
	for _, id := range c.AdminIDs {
		if id == userID {
			return true
		}
	}
	return false
}
