package api

import "github.com/okian/linguist/pkg/logger"

// Option configures a Server.
type Option func(*Server)

// WithJWTSecret sets the HS256 secret used to verify bearer tokens.
func WithJWTSecret(secret string) Option {
	return func(s *Server) {
		if secret != "" {
			s.auth = NewAuthenticator(secret)
		}
	}
}

// WithAuthenticator sets a prepared authenticator.
func WithAuthenticator(a *Authenticator) Option {
	return func(s *Server) {
		if a != nil {
			s.auth = a
		}
	}
}

// WithMaxBodyBytes caps request body size.
func WithMaxBodyBytes(n int64) Option {
	return func(s *Server) {
		if n > 0 {
			s.maxBodyBytes = n
		}
	}
}

// WithLogger sets the server logger.
func WithLogger(l logger.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}
