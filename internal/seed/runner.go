package seed

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/okian/linguist/internal/domain/model"
	"github.com/okian/linguist/pkg/logger"
)

// Run publishes every quiz in the bank and returns the run statistics.
// Questions keep the order they have in the bank.
func Run(ctx context.Context, cfg Config) (Stats, error) {
	stats := Stats{StartTime: time.Now()}
	log := cfg.Logger
	if log == nil {
		log = logger.Get().Named("seed")
	}

	bank, err := LoadBank(cfg.BankFile)
	if err != nil {
		return stats, err
	}

	c := newClient(cfg.BaseURL, cfg.Token, cfg.Timeout)
	ids := make([]string, len(bank.Quizzes))

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	if cfg.Workers > 0 {
		g.SetLimit(cfg.Workers)
	}
	for i, bq := range bank.Quizzes {
		g.Go(func() error {
			id, questions, err := publish(gctx, c, bq)
			mu.Lock()
			defer mu.Unlock()
			stats.QuestionsCreated += questions
			if err != nil {
				stats.QuizzesFailed++
				log.Error(gctx, "quiz not published", logger.String("title", bq.Title), logger.Error(err))
				return nil
			}
			stats.QuizzesCreated++
			ids[i] = id
			if cfg.Verbose {
				log.Info(gctx, "quiz published",
					logger.String("title", bq.Title),
					logger.String("quiz_id", id),
					logger.Int("questions", questions))
			}
			return nil
		})
	}
	_ = g.Wait()

	for _, id := range ids {
		if id != "" {
			stats.QuizIDs = append(stats.QuizIDs, id)
		}
	}
	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)

	if stats.QuizzesFailed > 0 {
		return stats, fmt.Errorf("%w: %d of %d quizzes failed", ErrSeed, stats.QuizzesFailed, len(bank.Quizzes))
	}
	if err := ctx.Err(); err != nil {
		return stats, err
	}
	return stats, nil
}

// publish creates one quiz and then its questions, returning the quiz id
// and how many questions were accepted.
func publish(ctx context.Context, c *client, bq BankQuiz) (string, int, error) {
	active := true
	if bq.Active != nil {
		active = *bq.Active
	}
	var q model.Quiz
	err := c.post(ctx, "/quizzes", model.Quiz{
		Title:            bq.Title,
		Description:      bq.Description,
		SourceLanguage:   bq.SourceLanguage,
		TargetLanguage:   bq.TargetLanguage,
		PassingScore:     bq.PassingScore,
		TimeLimitMinutes: bq.TimeLimitMinutes,
		Active:           active,
	}, &q)
	if err != nil {
		return "", 0, err
	}

	for i, item := range bq.Questions {
		err := c.post(ctx, "/quizzes/"+q.ID+"/questions", model.Question{
			Order:         i + 1,
			QuestionType:  model.QuestionType(item.Type),
			QuestionText:  item.Text,
			Options:       item.Options,
			CorrectAnswer: item.CorrectAnswer,
			Points:        item.Points,
			Explanation:   item.Explanation,
		}, nil)
		if err != nil {
			return q.ID, i, fmt.Errorf("question %d: %w", i+1, err)
		}
	}
	return q.ID, len(bq.Questions), nil
}
