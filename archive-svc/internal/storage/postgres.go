package storage

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/lib/pq"

	"foodfleet/archive-svc/internal/domain"
	"foodfleet/pkg/events"
)

var ErrOrderNotFound = errors.New("archived order not found")

//go:embed migrations/*.sql
var migrationsFS embed.FS

type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Migrate applies the embedded schema migrations.
func (s *PostgresStore) Migrate() error {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("failed to load migrations: %w", err)
	}
	driver, err := postgres.WithInstance(s.db, &postgres.Config{MigrationsTable: "archive_schema_migrations"})
	if err != nil {
		return fmt.Errorf("failed to create migration driver: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", src, "postgres", driver)
	if err != nil {
		return fmt.Errorf("failed to create migrator: %w", err)
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

// SaveOrder inserts the order and its lines in one transaction. It reports
// false without error when the order was already archived.
func (s *PostgresStore) SaveOrder(ctx context.Context, o domain.ArchivedOrder) (bool, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		INSERT INTO archived_orders (
			id, restaurants, subtotal, delivery_fee, tax, total,
			full_name, address, city, postal_code, country, payment_method,
			stage, stage_rank, estimated_delivery, placed_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		ON CONFLICT (id) DO NOTHING
	`, o.ID, pq.Array(o.Restaurants), o.Totals.Subtotal, o.Totals.DeliveryFee, o.Totals.Tax, o.Totals.Total,
		o.Delivery.FullName, o.Delivery.Address, o.Delivery.City, o.Delivery.PostalCode, o.Delivery.Country,
		o.Delivery.PaymentMethod, o.Stage, domain.StageRank(o.Stage), o.EstimatedDelivery, o.PlacedAt, o.UpdatedAt)
	if err != nil {
		return false, fmt.Errorf("insert order: %w", err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return false, err
	} else if n == 0 {
		return false, nil
	}

	for i, l := range o.Lines {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO archived_order_lines (order_id, position, item_id, restaurant_id, name, quantity, unit_price)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`, o.ID, i, l.ItemID, l.RestaurantID, l.Name, l.Quantity, l.UnitPrice); err != nil {
			return false, fmt.Errorf("insert line %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return false, err
	}
	return true, nil
}

// AdvanceStage moves the order forward to stage. Stale or duplicate updates,
// and updates for unknown orders, report false.
func (s *PostgresStore) AdvanceStage(ctx context.Context, orderID, stage string, at time.Time) (bool, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE archived_orders
		SET stage = $2,
			stage_rank = $3,
			updated_at = $4,
			delivered_at = CASE WHEN $5::boolean THEN $4 ELSE delivered_at END
		WHERE id = $1 AND stage_rank < $3
	`, orderID, stage, domain.StageRank(stage), at, stage == domain.StageDelivered)
	if err != nil {
		return false, fmt.Errorf("update stage: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

const orderColumns = `id, restaurants, subtotal, delivery_fee, tax, total,
	full_name, address, city, postal_code, country, payment_method,
	stage, estimated_delivery, placed_at, delivered_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(row rowScanner) (domain.ArchivedOrder, error) {
	var (
		o           domain.ArchivedOrder
		deliveredAt sql.NullTime
	)
	err := row.Scan(&o.ID, pq.Array(&o.Restaurants),
		&o.Totals.Subtotal, &o.Totals.DeliveryFee, &o.Totals.Tax, &o.Totals.Total,
		&o.Delivery.FullName, &o.Delivery.Address, &o.Delivery.City, &o.Delivery.PostalCode,
		&o.Delivery.Country, &o.Delivery.PaymentMethod,
		&o.Stage, &o.EstimatedDelivery, &o.PlacedAt, &deliveredAt, &o.UpdatedAt)
	if err != nil {
		return domain.ArchivedOrder{}, err
	}
	if deliveredAt.Valid {
		t := deliveredAt.Time
		o.DeliveredAt = &t
	}
	return o, nil
}

// ListOrders returns the most recently placed orders without their lines.
func (s *PostgresStore) ListOrders(ctx context.Context, limit int) ([]domain.ArchivedOrder, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+orderColumns+` FROM archived_orders ORDER BY placed_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := []domain.ArchivedOrder{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

func (s *PostgresStore) GetOrder(ctx context.Context, orderID string) (domain.ArchivedOrder, error) {
	o, err := scanOrder(s.db.QueryRowContext(ctx,
		`SELECT `+orderColumns+` FROM archived_orders WHERE id = $1`, orderID))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ArchivedOrder{}, ErrOrderNotFound
	}
	if err != nil {
		return domain.ArchivedOrder{}, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT item_id, restaurant_id, name, quantity, unit_price
		FROM archived_order_lines
		WHERE order_id = $1
		ORDER BY position
	`, orderID)
	if err != nil {
		return domain.ArchivedOrder{}, err
	}
	defer rows.Close()

	for rows.Next() {
		var l events.Line
		if err := rows.Scan(&l.ItemID, &l.RestaurantID, &l.Name, &l.Quantity, &l.UnitPrice); err != nil {
			return domain.ArchivedOrder{}, err
		}
		o.Lines = append(o.Lines, l)
	}
	return o, rows.Err()
}
