package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"wardstock/internal/inventory/models"
	"wardstock/internal/platform/postgres"
	"wardstock/internal/platform/tracing"
	"wardstock/pkg/domain"
	"wardstock/pkg/platform/sentinel"
)

// PostgresStore persists items in the inventory table.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) List(ctx context.Context) (_ []*models.Item, err error) {
	ctx, end := tracing.StartDBSpan(ctx, "inventory", tracing.DBOperationQuery)
	defer func() { end(err) }()

	rows, err := s.db.QueryContext(ctx,
		`SELECT item_id, item_name, quantity FROM inventory ORDER BY item_name, item_id`)
	if err != nil {
		return nil, fmt.Errorf("list inventory: %w", err)
	}
	defer rows.Close()

	items := make([]*models.Item, 0)
	for rows.Next() {
		var it models.Item
		if err = rows.Scan(&it.ID, &it.Name, &it.Quantity); err != nil {
			return nil, fmt.Errorf("scan inventory: %w", err)
		}
		items = append(items, &it)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate inventory: %w", err)
	}
	return items, nil
}

func (s *PostgresStore) FindByID(ctx context.Context, id domain.ItemID) (_ *models.Item, err error) {
	ctx, end := tracing.StartDBSpan(ctx, "inventory", tracing.DBOperationQuery)
	defer func() { end(err) }()

	row := s.db.QueryRowContext(ctx,
		`SELECT item_id, item_name, quantity FROM inventory WHERE item_id = $1`, string(id))
	return scanItem(row, id)
}

func (s *PostgresStore) Create(ctx context.Context, item *models.Item) (err error) {
	ctx, end := tracing.StartDBSpan(ctx, "inventory", tracing.DBOperationInsert)
	defer func() { end(err) }()

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO inventory (item_id, item_name, quantity) VALUES ($1, $2, $3)`,
		string(item.ID), item.Name, item.Quantity)
	if postgres.IsUniqueViolation(err) {
		return fmt.Errorf("item %s: %w", item.ID, sentinel.ErrAlreadyUsed)
	}
	if err != nil {
		return fmt.Errorf("insert item: %w", err)
	}
	return nil
}

func (s *PostgresStore) UpdateQuantity(ctx context.Context, id domain.ItemID, quantity int) (_ *models.Item, err error) {
	ctx, end := tracing.StartDBSpan(ctx, "inventory", tracing.DBOperationUpdate)
	defer func() { end(err) }()

	row := s.db.QueryRowContext(ctx,
		`UPDATE inventory SET quantity = $1 WHERE item_id = $2
		 RETURNING item_id, item_name, quantity`, quantity, string(id))
	return scanItem(row, id)
}

func (s *PostgresStore) Update(ctx context.Context, id domain.ItemID, name string, quantity int) (_ *models.Item, err error) {
	ctx, end := tracing.StartDBSpan(ctx, "inventory", tracing.DBOperationUpdate)
	defer func() { end(err) }()

	row := s.db.QueryRowContext(ctx,
		`UPDATE inventory SET item_name = $1, quantity = $2 WHERE item_id = $3
		 RETURNING item_id, item_name, quantity`, name, quantity, string(id))
	return scanItem(row, id)
}

func (s *PostgresStore) Delete(ctx context.Context, id domain.ItemID) (_ *models.Item, err error) {
	ctx, end := tracing.StartDBSpan(ctx, "inventory", tracing.DBOperationDelete)
	defer func() { end(err) }()

	row := s.db.QueryRowContext(ctx,
		`DELETE FROM inventory WHERE item_id = $1 RETURNING item_id, item_name, quantity`, string(id))
	return scanItem(row, id)
}

func scanItem(row *sql.Row, id domain.ItemID) (*models.Item, error) {
	var it models.Item
	err := row.Scan(&it.ID, &it.Name, &it.Quantity)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("item %s: %w", id, sentinel.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("item %s: %w", id, err)
	}
	return &it, nil
}
