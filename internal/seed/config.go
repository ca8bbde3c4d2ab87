// Package seed loads a YAML quiz bank and publishes it through the HTTP API.
package seed

import (
	"time"

	"github.com/okian/linguist/pkg/logger"
)

// Config holds configuration for one seeding run.
type Config struct {
	BaseURL  string        // Base URL of the service
	Token    string        // Bearer token of an admin or project manager
	BankFile string        // YAML quiz bank
	Workers  int           // Quizzes published concurrently
	Timeout  time.Duration // HTTP request timeout
	Verbose  bool
	Logger   logger.Logger // defaults to the global logger
}

// Bank is the on-disk quiz bank.
type Bank struct {
	Quizzes []BankQuiz `koanf:"quizzes"`
}

// BankQuiz is one quiz with its questions in publishing order.
type BankQuiz struct {
	Title            string         `koanf:"title"`
	Description      string         `koanf:"description"`
	SourceLanguage   string         `koanf:"source_language"`
	TargetLanguage   string         `koanf:"target_language"`
	PassingScore     int            `koanf:"passing_score"`
	TimeLimitMinutes int            `koanf:"time_limit_minutes"`
	Active           *bool          `koanf:"active"`
	Questions        []BankQuestion `koanf:"questions"`
}

// BankQuestion is one question of a BankQuiz.
type BankQuestion struct {
	Type          string   `koanf:"type"`
	Text          string   `koanf:"text"`
	Options       []string `koanf:"options"`
	CorrectAnswer string   `koanf:"correct_answer"`
	Points        float64  `koanf:"points"`
	Explanation   string   `koanf:"explanation"`
}

// Stats summarizes a seeding run.
type Stats struct {
	QuizzesCreated   int
	QuestionsCreated int
	QuizzesFailed    int
	QuizIDs          []string
	StartTime        time.Time
	EndTime          time.Time
	Duration         time.Duration
}
