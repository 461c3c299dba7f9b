package userinfra

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/youssef9656/server/pkg/iam/user"
	"github.com/youssef9656/server/pkg/kernel"
)

type PostgresUserRepository struct {
	db *sqlx.DB
}

func NewPostgresUserRepository(db *sqlx.DB) *PostgresUserRepository {
	return &PostgresUserRepository{db: db}
}

const userColumns = `id, email, password_hash, role, session_token, session_created_at, created_at`

func (r *PostgresUserRepository) Create(ctx context.Context, u *user.User) error {
	query := `
		INSERT INTO users (` + userColumns + `)
		VALUES (:id, :email, :password_hash, :role, :session_token, :session_created_at, :created_at)
	`
	if _, err := r.db.NamedExecContext(ctx, query, u); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return user.ErrEmailInUse().WithDetail("email", u.Email)
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (r *PostgresUserRepository) FindByEmail(ctx context.Context, email kernel.Email) (*user.User, error) {
	return r.findOne(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, string(email))
}

func (r *PostgresUserRepository) FindByID(ctx context.Context, id kernel.UserID) (*user.User, error) {
	return r.findOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, string(id))
}

func (r *PostgresUserRepository) findOne(ctx context.Context, query string, arg any) (*user.User, error) {
	var u user.User
	if err := r.db.GetContext(ctx, &u, query, arg); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, user.ErrUserNotFound()
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &u, nil
}

func (r *PostgresUserRepository) SetSession(ctx context.Context, id kernel.UserID, token string, at time.Time) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE users SET session_token = $1, session_created_at = $2 WHERE id = $3`,
		token, at, string(id))
	if err != nil {
		return fmt.Errorf("failed to store session: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return user.ErrUserNotFound()
	}
	return nil
}

func (r *PostgresUserRepository) ClearSession(ctx context.Context, email kernel.Email) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE users SET session_token = NULL, session_created_at = NULL WHERE email = $1`,
		string(email))
	if err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}
