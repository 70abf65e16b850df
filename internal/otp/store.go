package otp

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/angelmondragon/labstock-backend/pkg/config"
	pkgerrors "github.com/angelmondragon/labstock-backend/pkg/errors"
	redisclient "github.com/angelmondragon/labstock-backend/pkg/redis"
	"github.com/angelmondragon/labstock-backend/pkg/security"
)

// Purpose scopes a code so a signup code cannot authorize a password reset.
type Purpose string

const (
	PurposeSignup Purpose = "signup"
	PurposeReset  Purpose = "reset"
)

// maxAttempts wrong guesses burn the pending code.
const maxAttempts = 5

var (
	ErrCodeNotFound = pkgerrors.New(pkgerrors.CodeValidation, "OTP expired or not found")
	ErrInvalidCode  = pkgerrors.New(pkgerrors.CodeValidation, "Invalid OTP")
)

type keyValueStore interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	GetDel(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
	IncrWithTTL(ctx context.Context, key string, ttl time.Duration) (int64, error)
	OTPKey(purpose, mail string) string
	VerifiedMailKey(purpose, mail string) string
	OTPAttemptsKey(purpose, mail string) string
}

// Store keeps pending codes and verified-mail markers in redis with TTLs.
type Store struct {
	kv     keyValueStore
	cfg    config.OTPConfig
	digits int
}

// NewStore builds a Store over the redis client.
func NewStore(kv keyValueStore, cfg config.OTPConfig) (*Store, error) {
	if kv == nil {
		return nil, fmt.Errorf("otp key value store required")
	}
	if cfg.TTL <= 0 {
		return nil, fmt.Errorf("otp ttl must be positive")
	}
	if cfg.VerifiedTTL <= 0 {
		return nil, fmt.Errorf("otp verified ttl must be positive")
	}
	digits := cfg.Digits
	if digits <= 0 {
		digits = 6
	}
	return &Store{kv: kv, cfg: cfg, digits: digits}, nil
}

// TTL is how long an issued code stays valid.
func (s *Store) TTL() time.Duration {
	return s.cfg.TTL
}

// Issue stores a fresh code for mail, replacing any pending one.
func (s *Store) Issue(ctx context.Context, purpose Purpose, mail string) (string, error) {
	code, err := security.GenerateOTP(s.digits)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generate otp")
	}
	p := string(purpose)
	if err := s.kv.Set(ctx, s.kv.OTPKey(p, mail), code, s.cfg.TTL); err != nil {
		return "", dependency(err, "store otp")
	}
	if err := s.kv.Del(ctx, s.kv.OTPAttemptsKey(p, mail)); err != nil {
		return "", dependency(err, "reset otp attempts")
	}
	return code, nil
}

// Verify checks code against the pending one. On success the code is
// removed and a verified marker is stored for VerifiedTTL.
func (s *Store) Verify(ctx context.Context, purpose Purpose, mail, code string) error {
	p := string(purpose)
	codeKey := s.kv.OTPKey(p, mail)
	attemptsKey := s.kv.OTPAttemptsKey(p, mail)

	stored, err := s.kv.Get(ctx, codeKey)
	if err != nil {
		if errors.Is(err, redisclient.Nil) {
			return ErrCodeNotFound
		}
		return dependency(err, "load otp")
	}

	if !security.EqualCodes(stored, code) {
		attempts, err := s.kv.IncrWithTTL(ctx, attemptsKey, s.cfg.TTL)
		if err != nil {
			return dependency(err, "count otp attempts")
		}
		if attempts >= maxAttempts {
			if err := s.kv.Del(ctx, codeKey, attemptsKey); err != nil {
				return dependency(err, "drop otp")
			}
		}
		return ErrInvalidCode
	}

	if err := s.kv.Del(ctx, codeKey, attemptsKey); err != nil {
		return dependency(err, "clear otp")
	}
	if err := s.kv.Set(ctx, s.kv.VerifiedMailKey(p, mail), "1", s.cfg.VerifiedTTL); err != nil {
		return dependency(err, "mark mail verified")
	}
	return nil
}

// IsVerified reports whether mail holds an unexpired verified marker.
func (s *Store) IsVerified(ctx context.Context, purpose Purpose, mail string) (bool, error) {
	if _, err := s.kv.Get(ctx, s.kv.VerifiedMailKey(string(purpose), mail)); err != nil {
		if errors.Is(err, redisclient.Nil) {
			return false, nil
		}
		return false, dependency(err, "load verified marker")
	}
	return true, nil
}

// ConsumeVerified atomically removes the verified marker and reports whether it existed.
func (s *Store) ConsumeVerified(ctx context.Context, purpose Purpose, mail string) (bool, error) {
	if _, err := s.kv.GetDel(ctx, s.kv.VerifiedMailKey(string(purpose), mail)); err != nil {
		if errors.Is(err, redisclient.Nil) {
			return false, nil
		}
		return false, dependency(err, "consume verified marker")
	}
	return true, nil
}

func dependency(err error, msg string) error {
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, msg)
}
