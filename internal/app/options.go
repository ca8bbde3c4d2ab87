package service

import (
	"time"

	"github.com/okian/linguist/internal/adapters/cache"
	"github.com/okian/linguist/internal/adapters/notify"
	"github.com/okian/linguist/internal/adapters/repository"
	"github.com/okian/linguist/internal/domain/quality"
	"github.com/okian/linguist/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithWorkerCount sets the number of worker goroutines.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the job queue capacity.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithDedupeSize sets the size of the idempotency cache.
func WithDedupeSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.dedupeSize = size
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithStore sets the document store backend. The service owns and closes it.
func WithStore(store repository.DocumentStore) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithDefaultSettings sets the fallback quality settings.
func WithDefaultSettings(qs quality.Settings) Option {
	return func(s *Service) {
		s.defaults = qs.WithDefaults()
	}
}

// WithSettingsCache wraps the settings store, e.g. with a Redis cache.
func WithSettingsCache(wrap func(inner cache.SettingsStore) cache.SettingsStore) Option {
	return func(s *Service) {
		s.wrapSettings = wrap
	}
}

// WithNotifier sets the notification backend.
func WithNotifier(n notify.Notifier) Option {
	return func(s *Service) {
		if n != nil {
			s.notifier = n
		}
	}
}

// WithReviewers sets who is told about disputes.
func WithReviewers(emails []string) Option {
	return func(s *Service) {
		s.reviewers = append([]string(nil), emails...)
	}
}

// WithMaxRankingLimit caps ranking page size.
func WithMaxRankingLimit(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxRankingLimit = n
		}
	}
}

// WithClock overrides time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}
