package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"wardstock/internal/logs/models"
	"wardstock/internal/platform/postgres"
	"wardstock/internal/platform/tracing"
	"wardstock/pkg/domain"
	"wardstock/pkg/platform/sentinel"
)

const selectView = `
SELECT l.log_id, l.user_id, l.item_id, l.action, l.details, l.timestamp, u.name, i.item_name
FROM logs l
LEFT JOIN users u ON l.user_id = u.user_id
LEFT JOIN inventory i ON l.item_id = i.item_id`

// PostgresStore persists entries in the logs table.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Insert(ctx context.Context, entry *models.Entry) (err error) {
	ctx, end := tracing.StartDBSpan(ctx, "logs", tracing.DBOperationInsert)
	defer func() { end(err) }()

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO logs (log_id, user_id, item_id, action, details, timestamp)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		string(entry.ID), string(entry.UserID), string(entry.ItemID), entry.Action, entry.Details, entry.Timestamp)
	if postgres.IsUniqueViolation(err) {
		return fmt.Errorf("log %s: %w", entry.ID, sentinel.ErrAlreadyUsed)
	}
	if err != nil {
		return fmt.Errorf("insert log: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, id domain.LogID) (_ *models.Entry, err error) {
	ctx, end := tracing.StartDBSpan(ctx, "logs", tracing.DBOperationQuery)
	defer func() { end(err) }()

	var (
		e       models.Entry
		details sql.NullString
	)
	err = s.db.QueryRowContext(ctx,
		`SELECT log_id, user_id, item_id, action, details, timestamp FROM logs WHERE log_id = $1`, string(id),
	).Scan(&e.ID, &e.UserID, &e.ItemID, &e.Action, &details, &e.Timestamp)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("log %s: %w", id, sentinel.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("find log: %w", err)
	}
	if details.Valid {
		e.Details = &details.String
	}
	return &e, nil
}

// Update applies patch with COALESCE so nil fields keep their stored value.
func (s *PostgresStore) Update(ctx context.Context, id domain.LogID, patch models.Patch) (err error) {
	ctx, end := tracing.StartDBSpan(ctx, "logs", tracing.DBOperationUpdate)
	defer func() { end(err) }()

	var itemID *string
	if patch.ItemID != nil {
		v := string(*patch.ItemID)
		itemID = &v
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE logs
		 SET item_id = COALESCE($1, item_id),
		     action = COALESCE($2, action),
		     details = COALESCE($3, details)
		 WHERE log_id = $4`,
		itemID, patch.Action, patch.Details, string(id))
	if err != nil {
		return fmt.Errorf("update log: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update log: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("log %s: %w", id, sentinel.ErrNotFound)
	}
	return nil
}

func (s *PostgresStore) FindView(ctx context.Context, id domain.LogID) (_ *models.EntryView, err error) {
	ctx, end := tracing.StartDBSpan(ctx, "logs", tracing.DBOperationQuery)
	defer func() { end(err) }()

	v, err := scanView(s.db.QueryRowContext(ctx, selectView+` WHERE l.log_id = $1`, string(id)))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("log %s: %w", id, sentinel.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("find log view: %w", err)
	}
	return v, nil
}

func (s *PostgresStore) List(ctx context.Context) (_ []*models.EntryView, err error) {
	ctx, end := tracing.StartDBSpan(ctx, "logs", tracing.DBOperationQuery)
	defer func() { end(err) }()

	rows, err := s.db.QueryContext(ctx, selectView+` ORDER BY l.timestamp DESC, l.log_id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list logs: %w", err)
	}
	defer rows.Close()

	out := make([]*models.EntryView, 0)
	for rows.Next() {
		v, scanErr := scanView(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("scan log: %w", scanErr)
		}
		out = append(out, v)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate logs: %w", err)
	}
	return out, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanView(row rowScanner) (*models.EntryView, error) {
	var (
		v                           models.EntryView
		details, userName, itemName sql.NullString
	)
	if err := row.Scan(&v.LogID, &v.UserID, &v.ItemID, &v.Action, &details, &v.Timestamp, &userName, &itemName); err != nil {
		return nil, err
	}
	v.Details = nullable(details)
	v.UserName = nullable(userName)
	v.ItemName = nullable(itemName)
	return &v, nil
}

func nullable(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}
