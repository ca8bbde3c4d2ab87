package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/okian/linguist/internal/adapters/http/api"
	"github.com/okian/linguist/internal/domain/model"
	"github.com/okian/linguist/internal/seed"
	"github.com/okian/linguist/pkg/logger"
)

// Default configuration constants.
const (
	defaultWorkers  = 4
	defaultTimeout  = 30 * time.Second
	defaultTokenTTL = 15 * time.Minute
	defaultRunLimit = 5 * time.Minute
)

func main() {
	var (
		baseURL   = flag.String("url", "http://localhost:9080", "Base URL of the service")
		bankFile  = flag.String("bank", "deploy/quiz-bank.yaml", "YAML quiz bank to publish")
		token     = flag.String("token", "", "Bearer token of an admin or project manager")
		jwtSecret = flag.String("jwt-secret", os.Getenv("LINGUIST_JWT_SECRET"), "Mint an admin token with this secret when -token is empty")
		email     = flag.String("email", "seed@linguist.local", "Email placed in a minted token")
		workers   = flag.Int("workers", defaultWorkers, "Quizzes published concurrently")
		timeout   = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		verbose   = flag.Bool("verbose", false, "Log every published quiz")
	)
	flag.Parse()

	if err := logger.Init(logger.WithFormat("text")); err != nil {
		_, _ = os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	log := logger.Get()

	ctx, cancel := context.WithTimeout(context.Background(), defaultRunLimit)
	defer cancel()

	bearer := *token
	if bearer == "" {
		if *jwtSecret == "" {
			log.Error(ctx, "either -token or -jwt-secret is required")
			os.Exit(2)
		}
		var err error
		bearer, err = api.NewAuthenticator(*jwtSecret).SignToken(
			model.User{Email: *email, FullName: "Quiz seeder", Role: model.RoleAdmin}, defaultTokenTTL)
		if err != nil {
			log.Error(ctx, "failed to mint token", logger.Error(err))
			os.Exit(1)
		}
	}

	stats, err := seed.Run(ctx, seed.Config{
		BaseURL:  *baseURL,
		Token:    bearer,
		BankFile: *bankFile,
		Workers:  *workers,
		Timeout:  *timeout,
		Verbose:  *verbose,
		Logger:   log.Named("seed"),
	})
	log.Info(ctx, "seeding finished",
		logger.Int("quizzes_created", stats.QuizzesCreated),
		logger.Int("questions_created", stats.QuestionsCreated),
		logger.Int("quizzes_failed", stats.QuizzesFailed),
		logger.Duration("duration", stats.Duration))
	if err != nil {
		log.Error(ctx, "seeding failed", logger.Error(err))
		os.Exit(1)
	}
}
