// Package auth simulates sign-in and sign-up. There is no credential store:
// any well-formed submission is accepted after a short delay.
package auth

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"
)

var (
	ErrMissingFields    = errors.New("Please fill in all fields")
	ErrPasswordMismatch = errors.New("Passwords do not match")
	ErrPasswordTooShort = errors.New("Password must be at least 6 characters")
)

// MinPasswordLength is the shortest password accepted at sign-up.
const MinPasswordLength = 6

// DefaultDelay is the simulated round trip of a sign-in request.
const DefaultDelay = 1500 * time.Millisecond

// SignInRequest is the sign-in form.
type SignInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignUpRequest is the sign-up form.
type SignUpRequest struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

// Navigation tells the client where to go once a request completes.
type Navigation struct {
	To      string `json:"to"`
	Replace bool   `json:"replace"`
}

// Service runs the simulated auth flow.
type Service struct {
	delay time.Duration
	log   *slog.Logger
}

// NewService creates a Service. A zero delay completes immediately.
func NewService(delay time.Duration, log *slog.Logger) *Service {
	return &Service{delay: delay, log: log}
}

// Validate checks the sign-in form.
func (r SignInRequest) Validate() error {
	if strings.TrimSpace(r.Email) == "" || r.Password == "" {
		return ErrMissingFields
	}
	return nil
}

// Validate checks the sign-up form.
func (r SignUpRequest) Validate() error {
	if strings.TrimSpace(r.Name) == "" || strings.TrimSpace(r.Email) == "" ||
		r.Password == "" || r.ConfirmPassword == "" {
		return ErrMissingFields
	}
	if r.Password != r.ConfirmPassword {
		return ErrPasswordMismatch
	}
	if len(r.Password) < MinPasswordLength {
		return ErrPasswordTooShort
	}
	return nil
}

// SignIn validates req, waits out the simulated delay and returns the
// navigation to the home screen. If ctx ends first, no navigation is
// returned.
func (s *Service) SignIn(ctx context.Context, req SignInRequest) (*Navigation, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if err := s.wait(ctx); err != nil {
		s.log.Info("sign-in abandoned", "email", req.Email, "error", err)
		return nil, err
	}
	return &Navigation{To: "/", Replace: true}, nil
}

// SignUp validates req, waits out the simulated delay and returns the
// navigation to the home screen.
func (s *Service) SignUp(ctx context.Context, req SignUpRequest) (*Navigation, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if err := s.wait(ctx); err != nil {
		s.log.Info("sign-up abandoned", "email", req.Email, "error", err)
		return nil, err
	}
	return &Navigation{To: "/", Replace: true}, nil
}

func (s *Service) wait(ctx context.Context) error {
	if s.delay <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(s.delay)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
