package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/99minutos/auth-api/internal/pkg/metrics"
	"github.com/99minutos/auth-api/internal/core/domain"
	"github.com/99minutos/auth-api/internal/core/ports"
)

const (
	DefaultSessionTTL    = 10 * time.Minute
	DefaultResetTokenTTL = time.Hour

	releaseTimeout = 2 * time.Second
)

// Config tunes AuthService. Zero durations fall back to the defaults; a nil
// Ledger leaves reset tokens reusable until they expire.
type Config struct {
	SessionTTL    time.Duration
	ResetTokenTTL time.Duration
	Ledger        ports.ResetTokenLedger
}

// AuthService implements signup, signin, token validation and password reset.
type AuthService struct {
	repo       ports.AuthRepository
	hasher     ports.PasswordHasher
	tokens     ports.TokenIssuer
	ledger     ports.ResetTokenLedger
	validate   *inputValidator
	sessionTTL time.Duration
	resetTTL   time.Duration
	logger     zerolog.Logger
}

func NewAuthService(repo ports.AuthRepository, hasher ports.PasswordHasher, tokens ports.TokenIssuer, cfg Config, logger zerolog.Logger) *AuthService {
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = DefaultSessionTTL
	}
	if cfg.ResetTokenTTL <= 0 {
		cfg.ResetTokenTTL = DefaultResetTokenTTL
	}
	return &AuthService{
		repo:       repo,
		hasher:     hasher,
		tokens:     tokens,
		ledger:     cfg.Ledger,
		validate:   newInputValidator(),
		sessionTTL: cfg.SessionTTL,
		resetTTL:   cfg.ResetTokenTTL,
		logger:     logger,
	}
}

// Signup registers a new user and returns a session token for it.
func (s *AuthService) Signup(ctx context.Context, in ports.SignupInput) (token string, err error) {
	defer func() { record(metrics.OpSignup, err) }()

	in.Name = strings.TrimSpace(in.Name)
	in.Email = normalizeEmail(in.Email)
	if err := s.validate.check(in); err != nil {
		return "", err
	}

	// Fast path only: the unique index on email is what actually prevents
	// two concurrent signups from both succeeding.
	if _, err := s.repo.FindByEmail(ctx, in.Email); err == nil {
		return "", domain.ErrUserExists
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		s.logger.Error().Err(err).Msg("signup: lookup failed")
		return "", err
	}

	hash, err := s.hash(in.Password)
	if err != nil {
		s.logger.Error().Err(err).Msg("signup: hash failed")
		return "", err
	}

	now := time.Now().UTC()
	user, err := s.repo.Create(ctx, &domain.User{
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		if !errors.Is(err, domain.ErrUserExists) {
			s.logger.Error().Err(err).Msg("signup: insert failed")
		}
		return "", err
	}

	token, err = s.issue(user.ID, domain.PurposeSession, s.sessionTTL)
	if err != nil {
		return "", err
	}

	s.logger.Info().Str("user_id", user.ID).Msg("user signed up")
	return token, nil
}

// Signin checks credentials and returns a fresh session token. An unknown
// email and a wrong password both yield domain.ErrInvalidCredentials.
func (s *AuthService) Signin(ctx context.Context, in ports.SigninInput) (token string, err error) {
	defer func() { record(metrics.OpSignin, err) }()

	in.Email = normalizeEmail(in.Email)
	if err := s.validate.check(in); err != nil {
		return "", err
	}

	user, err := s.repo.FindByEmail(ctx, in.Email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return "", domain.ErrInvalidCredentials
		}
		s.logger.Error().Err(err).Msg("signin: lookup failed")
		return "", err
	}

	ok, err := s.verify(in.Password, user.PasswordHash)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", user.ID).Msg("signin: stored hash unusable")
		return "", err
	}
	if !ok {
		return "", domain.ErrInvalidCredentials
	}

	token, err = s.issue(user.ID, domain.PurposeSession, s.sessionTTL)
	if err != nil {
		return "", err
	}

	s.logger.Debug().Str("user_id", user.ID).Msg("user signed in")
	return token, nil
}

// ValidateToken verifies token and returns the user id it was issued for.
func (s *AuthService) ValidateToken(_ context.Context, token string) (userID string, err error) {
	defer func() { record(metrics.OpValidate, err) }()

	claims, err := s.tokens.Verify(token, domain.PurposeSession)
	if err != nil {
		return "", err
	}
	return claims.UserID, nil
}

// ForgotPassword issues a reset token for the account behind email. The token
// is handed back to the caller; delivering it to the account owner is left to
// whoever calls this.
func (s *AuthService) ForgotPassword(ctx context.Context, in ports.ForgotPasswordInput) (token string, err error) {
	defer func() { record(metrics.OpForgotPassword, err) }()

	in.Email = normalizeEmail(in.Email)
	if err := s.validate.check(in); err != nil {
		return "", err
	}

	user, err := s.repo.FindByEmail(ctx, in.Email)
	if err != nil {
		if !errors.Is(err, domain.ErrUserNotFound) {
			s.logger.Error().Err(err).Msg("forgot password: lookup failed")
		}
		return "", err
	}

	token, err = s.issue(user.ID, domain.PurposeReset, s.resetTTL)
	if err != nil {
		return "", err
	}

	s.logger.Info().Str("user_id", user.ID).Dur("ttl", s.resetTTL).Msg("reset token issued")
	return token, nil
}

// ResetPassword replaces the password of the user a reset token was issued for.
func (s *AuthService) ResetPassword(ctx context.Context, in ports.ResetPasswordInput) (err error) {
	defer func() { record(metrics.OpResetPassword, err) }()

	in.Token = strings.TrimSpace(in.Token)
	if err := s.validate.check(in); err != nil {
		return err
	}

	claims, err := s.tokens.Verify(in.Token, domain.PurposeReset)
	if err != nil {
		return err
	}

	user, err := s.repo.FindByID(ctx, claims.UserID)
	if err != nil {
		if !errors.Is(err, domain.ErrUserNotFound) {
			s.logger.Error().Err(err).Msg("reset password: lookup failed")
		}
		return err
	}

	claimed := false
	if s.ledger != nil {
		first, lerr := s.ledger.Consume(ctx, claims.TokenID, time.Until(claims.ExpiresAt))
		switch {
		case lerr != nil:
			s.logger.Warn().Err(lerr).Str("user_id", user.ID).Msg("reset ledger unavailable, accepting token")
		case !first:
			return fmt.Errorf("%w: already used", domain.ErrInvalidToken)
		default:
			claimed = true
		}
	}
	// A reset that fails past this point leaves the password untouched, so the
	// token goes back to the ledger for a retry.
	defer func() {
		if err != nil && claimed {
			s.release(claims.TokenID, user.ID)
		}
	}()

	hash, err := s.hash(in.NewPassword)
	if err != nil {
		s.logger.Error().Err(err).Msg("reset password: hash failed")
		return err
	}

	if err := s.repo.UpdatePasswordHash(ctx, user.ID, hash); err != nil {
		if !errors.Is(err, domain.ErrUserNotFound) {
			s.logger.Error().Err(err).Str("user_id", user.ID).Msg("reset password: update failed")
		}
		return err
	}

	s.logger.Info().Str("user_id", user.ID).Msg("password reset")
	return nil
}

// release runs detached from the request context so a cancelled request still
// hands the token back.
func (s *AuthService) release(tokenID, userID string) {
	ctx, cancel := context.WithTimeout(context.Background(), releaseTimeout)
	defer cancel()
	if err := s.ledger.Release(ctx, tokenID); err != nil {
		s.logger.Warn().Err(err).Str("user_id", userID).Msg("reset ledger: release failed, token stays spent")
	}
}

func (s *AuthService) issue(userID string, purpose domain.TokenPurpose, ttl time.Duration) (string, error) {
	token, err := s.tokens.Issue(userID, purpose, ttl)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", userID).Msg("token signing failed")
		return "", err
	}
	metrics.TokensIssuedTotal.WithLabelValues(string(purpose)).Inc()
	return token, nil
}

func (s *AuthService) hash(plain string) (string, error) {
	start := time.Now()
	defer func() { metrics.PasswordHashDuration.WithLabelValues("hash").Observe(time.Since(start).Seconds()) }()
	return s.hasher.Hash(plain)
}

func (s *AuthService) verify(plain, hashed string) (bool, error) {
	start := time.Now()
	defer func() { metrics.PasswordHashDuration.WithLabelValues("verify").Observe(time.Since(start).Seconds()) }()
	return s.hasher.Verify(plain, hashed)
}

// normalizeEmail makes email lookups case-insensitive.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func record(op string, err error) {
	result := metrics.ResultSuccess
	switch {
	case err == nil:
	case domain.IsClientError(err):
		result = metrics.ResultRejected
	default:
		result = metrics.ResultError
	}
	metrics.OperationsTotal.WithLabelValues(op, result).Inc()
}
