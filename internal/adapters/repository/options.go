package repository

import "time"

// Option applies a configuration option to the PostgresStore.
type Option func(*PostgresStore)

// WithMaxOpenConns caps the connection pool.
func WithMaxOpenConns(n int) Option {
	return func(s *PostgresStore) {
		if n > 0 {
			s.maxOpen = n
		}
	}
}

// WithMaxIdleConns sets the idle pool size.
func WithMaxIdleConns(n int) Option {
	return func(s *PostgresStore) {
		if n >= 0 {
			s.maxIdle = n
		}
	}
}

// WithConnMaxLifetime recycles connections after d.
func WithConnMaxLifetime(d time.Duration) Option {
	return func(s *PostgresStore) {
		if d > 0 {
			s.connLifetime = d
		}
	}
}
