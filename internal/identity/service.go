package identity

import (
	"context"
	"errors"
	"regexp"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrInvalidCredentials covers both unknown email and wrong password so the
	// response does not leak which accounts exist.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrLocked indicates the account is temporarily locked after repeated failures.
	ErrLocked = errors.New("account temporarily locked")
)

var emailShape = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// Service manages account lifecycle and password checks.
type Service struct {
	repo          Repository
	lockThreshold int
	lockPeriod    time.Duration
}

// NewService creates a new identity service. lockThreshold failed password
// checks in a row lock the account for lockPeriod.
func NewService(repo Repository, lockThreshold int, lockPeriod time.Duration) *Service {
	if lockThreshold <= 0 {
		lockThreshold = 5
	}
	return &Service{repo: repo, lockThreshold: lockThreshold, lockPeriod: lockPeriod}
}

// Register creates a customer account with a hashed password. The email stays
// unverified until the first OTP verification completes.
func (s *Service) Register(ctx context.Context, creds Credentials) (User, error) {
	if !emailShape.MatchString(creds.Email) {
		return User{}, errors.New("email is malformed")
	}
	if len(creds.Password) < 8 {
		return User{}, errors.New("password must be at least 8 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(creds.Password), bcrypt.DefaultCost)
	if err != nil {
		return User{}, err
	}

	user := User{
		ID:           uuid.New().String(),
		Email:        creds.Email,
		Name:         creds.Name,
		Role:         RoleCustomer,
		Storefront:   creds.Storefront,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return User{}, err
	}

	return user, nil
}

// CheckPassword verifies the password for the account, enforcing the lockout
// policy. It never issues any credential; a successful check only names the
// user whose OTP verification may proceed.
func (s *Service) CheckPassword(ctx context.Context, email, password string) (User, error) {
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return User{}, ErrInvalidCredentials
		}
		return User{}, err
	}

	now := time.Now().UTC()
	if user.LockedUntil.After(now) {
		return User{}, ErrLocked
	}

	if err := bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(password)); err != nil {
		failed := user.FailedLogins + 1
		lockedUntil := user.LockedUntil
		if failed >= s.lockThreshold {
			failed = 0
			lockedUntil = now.Add(s.lockPeriod)
		}
		if uerr := s.repo.UpdateLoginState(ctx, user.ID, failed, lockedUntil); uerr != nil {
			return User{}, uerr
		}
		if lockedUntil.After(now) {
			return User{}, ErrLocked
		}
		return User{}, ErrInvalidCredentials
	}

	if user.FailedLogins != 0 {
		if err := s.repo.UpdateLoginState(ctx, user.ID, 0, time.Time{}); err != nil {
			return User{}, err
		}
		user.FailedLogins = 0
	}

	return user, nil
}
