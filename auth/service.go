// Package auth is the identity service: sign-up, sign-in, session tokens,
// password changes and role lookups.
package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"jbovertime/metrics"
	"jbovertime/models"
	"jbovertime/overtime"
	"jbovertime/ratelimit"
	"jbovertime/store"
)

const (
	MinPasswordLength = 6
	// MaxPasswordLength is bcrypt's input limit, in bytes.
	MaxPasswordLength = 72

	actionSignIn = "signin"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrWeakPassword       = errors.New("password too short")
	ErrPasswordTooLong    = errors.New("password too long")
	ErrTooManyAttempts    = errors.New("too many attempts")
)

// RateLimitedError is returned by SignIn when the caller must wait.
type RateLimitedError struct {
	RetryAfter time.Duration
}

func (e *RateLimitedError) Error() string {
	return fmt.Sprintf("too many attempts, retry in %s", e.RetryAfter.Round(time.Second))
}

func (e *RateLimitedError) Unwrap() error {
	return ErrTooManyAttempts
}

// UserStore is the persistence the identity service needs.
type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error
	HasRole(ctx context.Context, id uuid.UUID, role models.Role) (bool, error)
}

type SignUpInput struct {
	Email    string
	FullName string
	Password string
}

// Session is the result of a successful sign-in.
type Session struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      *models.User `json:"user"`
}

type Service struct {
	users   UserStore
	tokens  *Tokens
	limiter *ratelimit.Limiter
	durable ratelimit.Store
	log     zerolog.Logger
}

// NewService wires the identity service. durable may be nil, in which case
// only the in-memory limiter guards sign-in.
func NewService(users UserStore, tokens *Tokens, limiter *ratelimit.Limiter, durable ratelimit.Store, log zerolog.Logger) *Service {
	if limiter == nil {
		limiter = ratelimit.New(ratelimit.Options{})
	}
	return &Service{users: users, tokens: tokens, limiter: limiter, durable: durable, log: log}
}

func (s *Service) Tokens() *Tokens {
	return s.tokens
}

// SignUp creates an employee profile.
func (s *Service) SignUp(ctx context.Context, in SignUpInput) (*models.User, error) {
	email := store.NormalizeEmail(overtime.SanitizeString(in.Email))
	fullName := overtime.SanitizeString(in.FullName)
	if email == "" {
		return nil, ErrInvalidCredentials
	}
	if err := checkPassword(in.Password); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{
		Email:        email,
		FullName:     fullName,
		PasswordHash: string(hash),
		Role:         models.RoleEmployee,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	s.log.Info().Str("user_id", user.ID.String()).Msg("user signed up")
	return user, nil
}

// SignIn checks the credentials and issues a session token. Attempts are
// throttled per normalized e-mail; a successful sign-in clears the
// in-memory counter.
func (s *Service) SignIn(ctx context.Context, email, password string) (*Session, error) {
	key := store.NormalizeEmail(email)
	if key == "" || password == "" {
		metrics.SignInAttemptsTotal.WithLabelValues("invalid_credentials").Inc()
		return nil, ErrInvalidCredentials
	}

	if err := s.throttle(ctx, key); err != nil {
		metrics.SignInAttemptsTotal.WithLabelValues("rate_limited").Inc()
		return nil, err
	}

	user, err := s.users.FindByEmail(ctx, key)
	if errors.Is(err, store.ErrNotFound) {
		metrics.SignInAttemptsTotal.WithLabelValues("invalid_credentials").Inc()
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		metrics.SignInAttemptsTotal.WithLabelValues("error").Inc()
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		metrics.SignInAttemptsTotal.WithLabelValues("invalid_credentials").Inc()
		return nil, ErrInvalidCredentials
	}

	s.limiter.Reset(key)
	if s.durable != nil {
		if err := s.durable.Reset(ctx, key, actionSignIn); err != nil {
			s.log.Warn().Err(err).Msg("durable rate limit reset failed")
		}
	}

	token, expiresAt, err := s.tokens.Generate(user)
	if err != nil {
		metrics.SignInAttemptsTotal.WithLabelValues("error").Inc()
		return nil, err
	}

	metrics.SignInAttemptsTotal.WithLabelValues("success").Inc()
	return &Session{Token: token, ExpiresAt: expiresAt, User: user}, nil
}

func (s *Service) throttle(ctx context.Context, key string) error {
	if !s.limiter.Allow(key) {
		return &RateLimitedError{RetryAfter: s.limiter.RetryAfter(key)}
	}
	if s.durable == nil {
		return nil
	}

	d, err := s.durable.Hit(ctx, key, actionSignIn)
	if err != nil {
		// the in-memory guard still applies
		s.log.Warn().Err(err).Msg("durable rate limit unavailable")
		return nil
	}
	if !d.Allowed {
		return &RateLimitedError{RetryAfter: d.RetryAfter}
	}
	return nil
}

// Authenticate resolves a session token into the current profile.
func (s *Service) Authenticate(ctx context.Context, token string) (*models.User, error) {
	claims, err := s.tokens.Validate(token)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	user, err := s.users.FindByID(ctx, claims.UserID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	return user, err
}

func (s *Service) HasRole(ctx context.Context, userID uuid.UUID, role models.Role) (bool, error) {
	return s.users.HasRole(ctx, userID, role)
}

// ChangePassword verifies the current password before storing a new one.
func (s *Service) ChangePassword(ctx context.Context, user *models.User, current, next string) error {
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(current)) != nil {
		return ErrInvalidCredentials
	}
	if err := checkPassword(next); err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(next), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.users.UpdatePassword(ctx, user.ID, string(hash)); err != nil {
		return err
	}

	user.PasswordHash = string(hash)
	user.MustChangePassword = false
	return nil
}

func checkPassword(password string) error {
	if len(password) < MinPasswordLength {
		return ErrWeakPassword
	}
	if len(password) > MaxPasswordLength {
		return ErrPasswordTooLong
	}
	return nil
}
