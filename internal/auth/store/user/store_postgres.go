package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"wardstock/internal/auth/models"
	"wardstock/internal/platform/tracing"
	"wardstock/pkg/domain"
	"wardstock/pkg/platform/sentinel"
)

// PostgresStore reads staff accounts from the users table.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) FindByID(ctx context.Context, id domain.UserID) (_ *models.User, err error) {
	ctx, end := tracing.StartDBSpan(ctx, "users", tracing.DBOperationQuery)
	defer func() { end(err) }()

	var u models.User
	err = s.db.QueryRowContext(ctx,
		`SELECT user_id, name, role, password FROM users WHERE user_id = $1`, string(id),
	).Scan(&u.ID, &u.Name, &u.Role, &u.Password)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("user %s: %w", id, sentinel.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	return &u, nil
}

// Save upserts a user. Used to seed demo accounts.
func (s *PostgresStore) Save(ctx context.Context, user *models.User) (err error) {
	ctx, end := tracing.StartDBSpan(ctx, "users", tracing.DBOperationInsert)
	defer func() { end(err) }()

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO users (user_id, name, role, password)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id) DO UPDATE SET
			name = EXCLUDED.name,
			role = EXCLUDED.role,
			password = EXCLUDED.password
	`, string(user.ID), user.Name, user.Role, user.Password)
	if err != nil {
		return fmt.Errorf("save user: %w", err)
	}
	return nil
}
