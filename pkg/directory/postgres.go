package directory

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"

	"github.com/dmitrymomot/tenantauth/pkg/appname"
)

// Schema creates the table the PostgresStore operates on. Callers run it (or
// an equivalent migration) before first use; the store itself never touches
// the schema.
const Schema = `
CREATE TABLE IF NOT EXISTS directory_users (
	id            UUID PRIMARY KEY,
	application   TEXT NOT NULL DEFAULT '',
	username      TEXT NOT NULL,
	email         TEXT NOT NULL DEFAULT '',
	password_hash BYTEA NOT NULL,
	created_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
	UNIQUE (application, username)
);`

// PostgresStore is an application-scoped directory backed by PostgreSQL.
// Rows are partitioned by the application column; every query filters on the
// application name read from the request context.
type PostgresStore struct {
	pool       *pgxpool.Pool
	bcryptCost int
}

// PostgresOption configures a PostgresStore.
type PostgresOption func(*PostgresStore)

// WithPostgresBcryptCost overrides the bcrypt cost for password hashing.
func WithPostgresBcryptCost(cost int) PostgresOption {
	return func(s *PostgresStore) {
		if cost >= bcrypt.MinCost && cost <= bcrypt.MaxCost {
			s.bcryptCost = cost
		}
	}
}

// NewPostgresStore creates a directory over the given connection pool.
func NewPostgresStore(pool *pgxpool.Pool, opts ...PostgresOption) *PostgresStore {
	s := &PostgresStore{
		pool:       pool,
		bcryptCost: bcrypt.DefaultCost,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ApplicationName reads the current application from the request context.
func (s *PostgresStore) ApplicationName(ctx context.Context) string {
	return appname.Current(ctx)
}

func (s *PostgresStore) ValidateCredentials(ctx context.Context, username, password string) (bool, error) {
	var hash []byte
	err := s.pool.QueryRow(ctx,
		`SELECT password_hash FROM directory_users WHERE application = $1 AND username = $2`,
		s.ApplicationName(ctx), username,
	).Scan(&hash)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("validate credentials: %w", err)
	}

	return bcrypt.CompareHashAndPassword(hash, []byte(password)) == nil, nil
}

func (s *PostgresStore) GetUser(ctx context.Context, username string) (*User, error) {
	var user User
	err := s.pool.QueryRow(ctx,
		`SELECT id, username, email, application, created_at
		 FROM directory_users WHERE application = $1 AND username = $2`,
		s.ApplicationName(ctx), username,
	).Scan(&user.ID, &user.Username, &user.Email, &user.Application, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	return &user, nil
}

func (s *PostgresStore) ChangePassword(ctx context.Context, username, oldPassword, newPassword string) error {
	app := s.ApplicationName(ctx)

	var hash []byte
	err := s.pool.QueryRow(ctx,
		`SELECT password_hash FROM directory_users WHERE application = $1 AND username = $2`,
		app, username,
	).Scan(&hash)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrUserNotFound
		}
		return fmt.Errorf("change password: %w", err)
	}

	if bcrypt.CompareHashAndPassword(hash, []byte(oldPassword)) != nil {
		return ErrInvalidCredentials
	}

	newHash, err := bcrypt.GenerateFromPassword([]byte(newPassword), s.bcryptCost)
	if err != nil {
		return err
	}

	_, err = s.pool.Exec(ctx,
		`UPDATE directory_users SET password_hash = $3 WHERE application = $1 AND username = $2`,
		app, username, newHash,
	)
	if err != nil {
		return fmt.Errorf("change password: %w", err)
	}
	return nil
}

func (s *PostgresStore) Register(ctx context.Context, username, email, password string) (*User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return nil, err
	}

	user := User{
		ID:          uuid.New(),
		Username:    username,
		Email:       email,
		Application: s.ApplicationName(ctx),
		CreatedAt:   time.Now(),
	}

	tag, err := s.pool.Exec(ctx,
		`INSERT INTO directory_users (id, application, username, email, password_hash, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (application, username) DO NOTHING`,
		user.ID, user.Application, user.Username, user.Email, hash, user.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("register user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, ErrUserExists
	}

	return &user, nil
}
