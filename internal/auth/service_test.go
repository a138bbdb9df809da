package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/swiftcart/authgate/internal/captcha"
	"github.com/swiftcart/authgate/internal/config"
	"github.com/swiftcart/authgate/internal/identity"
	"github.com/swiftcart/authgate/internal/otp"
	"github.com/swiftcart/authgate/pkg/authapi"
)

func newTestService(t *testing.T) (*Service, *identity.Service, otp.Store) {
	t.Helper()
	cfg := config.Config{
		JWTSecret:      "test-secret",
		AccessTokenTTL: 15 * time.Minute,
		OTPTTL:         5 * time.Minute,
		OTPMaxAttempts: 3,
	}
	repo := identity.NewMemoryRepository()
	ids := identity.NewService(repo, 5, 15*time.Minute)
	pending := otp.NewMemoryStore()
	svc := NewService(cfg, ids, repo, pending, captcha.Static{}, nil)
	return svc, ids, pending
}

func registerUser(t *testing.T, ids *identity.Service) identity.User {
	t.Helper()
	user, err := ids.Register(context.Background(), identity.Credentials{
		Email:    "a@b.com",
		Password: "password1",
		Name:     "Ada",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	return user
}

func TestStartLoginIssuesPendingAttempt(t *testing.T) {
	svc, ids, pending := newTestService(t)
	user := registerUser(t, ids)
	ctx := context.Background()

	res, err := svc.StartLogin(ctx, StartInput{Email: "a@b.com", Password: "password1", ChallengeToken: "tok"})
	if err != nil {
		t.Fatalf("start login: %v", err)
	}
	if res.UserID != user.ID {
		t.Fatalf("expected user %s, got %s", user.ID, res.UserID)
	}

	attempt, err := pending.Get(ctx, user.ID)
	if err != nil {
		t.Fatalf("pending attempt missing: %v", err)
	}
	if len(attempt.Code) != otp.CodeLength {
		t.Fatalf("unexpected code %q", attempt.Code)
	}
}

func TestStartLoginRejectsMissingChallenge(t *testing.T) {
	svc, ids, _ := newTestService(t)
	registerUser(t, ids)

	_, err := svc.StartLogin(context.Background(), StartInput{Email: "a@b.com", Password: "password1"})
	var authErr *Error
	if !errors.As(err, &authErr) || authErr.Code != authapi.CodeChallengeRejected {
		t.Fatalf("expected challenge_rejected, got %v", err)
	}
}

func TestStartLoginWrongPassword(t *testing.T) {
	svc, ids, _ := newTestService(t)
	registerUser(t, ids)

	_, err := svc.StartLogin(context.Background(), StartInput{Email: "a@b.com", Password: "wrong-one", ChallengeToken: "tok"})
	var authErr *Error
	if !errors.As(err, &authErr) || authErr.Code != authapi.CodeInvalidCredentials {
		t.Fatalf("expected invalid_credentials, got %v", err)
	}
}

func TestVerifyOTPSuccessIssuesCompleteTriple(t *testing.T) {
	svc, ids, pending := newTestService(t)
	user := registerUser(t, ids)
	ctx := context.Background()

	if _, err := svc.StartLogin(ctx, StartInput{Email: "a@b.com", Password: "password1", ChallengeToken: "tok"}); err != nil {
		t.Fatalf("start login: %v", err)
	}
	attempt, err := pending.Get(ctx, user.ID)
	if err != nil {
		t.Fatalf("pending: %v", err)
	}

	res, err := svc.VerifyOTP(ctx, user.ID, attempt.Code)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if res.Token == "" || res.UserID != user.ID || res.Role != identity.RoleCustomer {
		t.Fatalf("incomplete verify result: %+v", res)
	}

	claims, err := ParseAndVerifyHS256(res.Token, []byte("test-secret"))
	if err != nil {
		t.Fatalf("issued token does not verify: %v", err)
	}
	if claims["sub"] != user.ID || claims["role"] != identity.RoleCustomer {
		t.Fatalf("unexpected claims: %v", claims)
	}

	// First successful verification marks the email verified.
	verified, err := svc.repo.FindByID(ctx, user.ID)
	if err != nil {
		t.Fatalf("find user: %v", err)
	}
	if !verified.EmailVerified {
		t.Fatalf("expected email_verified after first OTP success")
	}

	// The pending attempt is consumed: a second verify is expired.
	_, err = svc.VerifyOTP(ctx, user.ID, attempt.Code)
	var authErr *Error
	if !errors.As(err, &authErr) || authErr.Code != authapi.CodeOTPExpired {
		t.Fatalf("expected otp_expired on reuse, got %v", err)
	}
}

func TestVerifyOTPWrongCodeIsRetryable(t *testing.T) {
	svc, ids, pending := newTestService(t)
	user := registerUser(t, ids)
	ctx := context.Background()

	if _, err := svc.StartLogin(ctx, StartInput{Email: "a@b.com", Password: "password1", ChallengeToken: "tok"}); err != nil {
		t.Fatalf("start login: %v", err)
	}
	attempt, _ := pending.Get(ctx, user.ID)

	wrong := "000000"
	if wrong == attempt.Code {
		wrong = "000001"
	}

	_, err := svc.VerifyOTP(ctx, user.ID, wrong)
	var authErr *Error
	if !errors.As(err, &authErr) || authErr.Code != authapi.CodeOTPInvalid {
		t.Fatalf("expected otp_invalid, got %v", err)
	}

	// The pending attempt survives a wrong code, so the right one still works.
	if _, err := svc.VerifyOTP(ctx, user.ID, attempt.Code); err != nil {
		t.Fatalf("verify after retry: %v", err)
	}
}

func TestVerifyOTPAttemptBudget(t *testing.T) {
	svc, ids, pending := newTestService(t)
	user := registerUser(t, ids)
	ctx := context.Background()

	if _, err := svc.StartLogin(ctx, StartInput{Email: "a@b.com", Password: "password1", ChallengeToken: "tok"}); err != nil {
		t.Fatalf("start login: %v", err)
	}
	attempt, _ := pending.Get(ctx, user.ID)
	wrong := "000000"
	if wrong == attempt.Code {
		wrong = "000001"
	}

	var lastErr error
	for i := 0; i < 4; i++ {
		_, lastErr = svc.VerifyOTP(ctx, user.ID, wrong)
	}
	var authErr *Error
	if !errors.As(lastErr, &authErr) || authErr.Code != authapi.CodeOTPExpired {
		t.Fatalf("expected otp_expired after exhausting attempts, got %v", lastErr)
	}
	if !errors.Is(lastErr, otp.ErrTooManyAttempts) {
		t.Fatalf("exhaustion should wrap otp.ErrTooManyAttempts, got %v", lastErr)
	}

	// Exhaustion consumed the attempt entirely.
	if _, err := svc.VerifyOTP(ctx, user.ID, attempt.Code); err == nil {
		t.Fatalf("expected the pending attempt to be consumed")
	}
}

func TestVerifyOTPNoPendingAttempt(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.VerifyOTP(context.Background(), "missing-user", "123456")
	var authErr *Error
	if !errors.As(err, &authErr) || authErr.Code != authapi.CodeOTPExpired {
		t.Fatalf("expected otp_expired, got %v", err)
	}
}
