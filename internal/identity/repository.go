package identity

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound indicates no user matches the lookup key.
var ErrNotFound = errors.New("user not found")

// Repository persists users.
type Repository interface {
	Create(ctx context.Context, user User) error
	FindByEmail(ctx context.Context, email string) (User, error)
	FindByID(ctx context.Context, id string) (User, error)
	UpdateLoginState(ctx context.Context, id string, failedLogins int, lockedUntil time.Time) error
	MarkEmailVerified(ctx context.Context, id string) error
}

// PostgresRepository implements Repository using PostgreSQL.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository builds a Postgres-backed identity repository.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts a new user.
func (r *PostgresRepository) Create(ctx context.Context, user User) error {
	userID, err := uuid.Parse(user.ID)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx, `INSERT INTO users (id, email, name, role, storefront, password_hash, email_verified, failed_logins, locked_until, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		userID, user.Email, user.Name, user.Role, user.Storefront, user.PasswordHash,
		user.EmailVerified, user.FailedLogins, user.LockedUntil.UTC(), user.CreatedAt.UTC())
	return err
}

// FindByEmail fetches a user by email address.
func (r *PostgresRepository) FindByEmail(ctx context.Context, email string) (User, error) {
	row := r.db.QueryRow(ctx, `SELECT id, email, name, role, storefront, password_hash, email_verified, failed_logins, locked_until, created_at
        FROM users WHERE email = $1`, email)
	return scanUser(row)
}

// FindByID fetches a user by identifier.
func (r *PostgresRepository) FindByID(ctx context.Context, id string) (User, error) {
	userID, err := uuid.Parse(id)
	if err != nil {
		return User{}, ErrNotFound
	}
	row := r.db.QueryRow(ctx, `SELECT id, email, name, role, storefront, password_hash, email_verified, failed_logins, locked_until, created_at
        FROM users WHERE id = $1`, userID)
	return scanUser(row)
}

// UpdateLoginState stores the failed-attempt counter and lockout deadline.
func (r *PostgresRepository) UpdateLoginState(ctx context.Context, id string, failedLogins int, lockedUntil time.Time) error {
	userID, err := uuid.Parse(id)
	if err != nil {
		return ErrNotFound
	}
	cmd, err := r.db.Exec(ctx, `UPDATE users SET failed_logins = $1, locked_until = $2 WHERE id = $3`,
		failedLogins, lockedUntil.UTC(), userID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// MarkEmailVerified flags the account as having completed OTP verification once.
func (r *PostgresRepository) MarkEmailVerified(ctx context.Context, id string) error {
	userID, err := uuid.Parse(id)
	if err != nil {
		return ErrNotFound
	}
	cmd, err := r.db.Exec(ctx, `UPDATE users SET email_verified = TRUE WHERE id = $1`, userID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanUser(row pgx.Row) (User, error) {
	var (
		id          uuid.UUID
		lockedUntil time.Time
		createdAt   time.Time
		user        User
	)
	err := row.Scan(&id, &user.Email, &user.Name, &user.Role, &user.Storefront, &user.PasswordHash,
		&user.EmailVerified, &user.FailedLogins, &lockedUntil, &createdAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return User{}, ErrNotFound
		}
		return User{}, err
	}
	user.ID = id.String()
	user.LockedUntil = lockedUntil.UTC()
	user.CreatedAt = createdAt.UTC()
	return user, nil
}
