package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"github.com/swiftcart/authgate/internal/captcha"
	"github.com/swiftcart/authgate/internal/config"
	"github.com/swiftcart/authgate/internal/identity"
	"github.com/swiftcart/authgate/internal/notification"
	"github.com/swiftcart/authgate/internal/otp"
)

// Service implements the two-step login: password check issuing a one-time
// code, then code verification issuing the bearer token.
type Service struct {
	cfg      config.Config
	ids      *identity.Service
	repo     identity.Repository
	pending  otp.Store
	verifier captcha.Verifier
	notifier notification.Notifier
}

// NewService wires the authentication service.
func NewService(cfg config.Config, ids *identity.Service, repo identity.Repository, pending otp.Store, verifier captcha.Verifier, notifier notification.Notifier) *Service {
	return &Service{cfg: cfg, ids: ids, repo: repo, pending: pending, verifier: verifier, notifier: notifier}
}

// StartInput carries a login request.
type StartInput struct {
	Email          string
	Password       string
	ChallengeToken string
}

// StartResult names the user a verification may finalize. No token yet.
type StartResult struct {
	UserID string
}

// StartLogin verifies the challenge token and password, creates a pending
// login attempt and delivers its code. Replaces any earlier pending attempt
// for the same user.
func (s *Service) StartLogin(ctx context.Context, in StartInput) (StartResult, error) {
	if err := s.verifier.Verify(ctx, in.ChallengeToken); err != nil {
		if errors.Is(err, captcha.ErrRejected) {
			return StartResult{}, challengeRejected()
		}
		return StartResult{}, err
	}

	user, err := s.ids.CheckPassword(ctx, in.Email, in.Password)
	if err != nil {
		switch {
		case errors.Is(err, identity.ErrInvalidCredentials):
			return StartResult{}, invalidCredentials()
		case errors.Is(err, identity.ErrLocked):
			return StartResult{}, accountLocked()
		default:
			return StartResult{}, err
		}
	}

	code, err := otp.GenerateCode()
	if err != nil {
		return StartResult{}, err
	}

	attempt := otp.PendingLogin{
		UserID:    user.ID,
		Email:     user.Email,
		Code:      code,
		ExpiresAt: time.Now().UTC().Add(s.cfg.OTPTTL),
	}
	if err := s.pending.Put(ctx, attempt); err != nil {
		return StartResult{}, fmt.Errorf("store pending login: %w", err)
	}

	if s.notifier != nil {
		_ = s.notifier.Send(ctx, notification.Message{
			Kind:        notification.KindOTPCode,
			ToAddress:   user.Email,
			DisplayName: user.Name,
			Subject:     "Your login code",
			BodyText:    fmt.Sprintf("Your one-time login code is %s. It expires in %s.", code, s.cfg.OTPTTL),
		})
	}

	return StartResult{UserID: user.ID}, nil
}

// VerifyResult is the complete session triple issued on success.
type VerifyResult struct {
	Token  string
	UserID string
	Role   string
}

// VerifyOTP checks the code against the pending attempt and issues the bearer
// token. The pending attempt is consumed on success and on attempt exhaustion.
func (s *Service) VerifyOTP(ctx context.Context, userID, code string) (VerifyResult, error) {
	attempt, err := s.pending.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, otp.ErrNotFound) {
			return VerifyResult{}, otpExpired()
		}
		return VerifyResult{}, err
	}

	if time.Now().UTC().After(attempt.ExpiresAt) {
		_ = s.pending.Delete(ctx, userID)
		return VerifyResult{}, otpExpired()
	}

	attempts, err := s.pending.IncrementAttempts(ctx, userID)
	if err != nil {
		if errors.Is(err, otp.ErrNotFound) {
			return VerifyResult{}, otpExpired()
		}
		return VerifyResult{}, err
	}
	if attempts > s.cfg.OTPMaxAttempts {
		_ = s.pending.Delete(ctx, userID)
		exhausted := otpExpired()
		exhausted.Err = otp.ErrTooManyAttempts
		return VerifyResult{}, exhausted
	}

	if subtle.ConstantTimeCompare([]byte(attempt.Code), []byte(code)) != 1 {
		return VerifyResult{}, otpInvalid()
	}

	if err := s.pending.Delete(ctx, userID); err != nil {
		return VerifyResult{}, err
	}

	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return VerifyResult{}, err
	}

	if !user.EmailVerified {
		if err := s.repo.MarkEmailVerified(ctx, user.ID); err != nil {
			return VerifyResult{}, err
		}
	}

	token, err := s.issueToken(user)
	if err != nil {
		return VerifyResult{}, err
	}

	return VerifyResult{Token: token, UserID: user.ID, Role: user.Role}, nil
}

func (s *Service) issueToken(user identity.User) (string, error) {
	now := time.Now()
	claims := map[string]any{
		"sub":  user.ID,
		"role": user.Role,
		"iat":  now.Unix(),
		"exp":  now.Add(s.cfg.AccessTokenTTL).Unix(),
	}
	return SignHS256(claims, []byte(s.cfg.JWTSecret))
}
