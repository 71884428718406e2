package order

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"
)

const uniqueViolation = "23505"

var (
	ErrNotFound = errors.New("order not found")
	// ErrTokenTaken means another order already holds the token.
	ErrTokenTaken = errors.New("order token already taken")
)

type Repository interface {
	// Create stores the order and its items atomically.
	Create(ctx context.Context, o *Order) error
	GetByToken(ctx context.Context, token string) (*Order, error)
}

type PGRepo struct{ db *pgxpool.Pool }

func NewPGRepo(db *pgxpool.Pool) *PGRepo { return &PGRepo{db: db} }

func isUniqueViolation(err error, constraint string) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	return pgErr.Code == uniqueViolation && (constraint == "" || pgErr.ConstraintName == constraint)
}

func (r *PGRepo) Create(ctx context.Context, o *Order) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return errors.Wrap(err, "begin")
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `
    INSERT INTO orders (id, token, pickup_point, created_at)
    VALUES ($1,$2,$3,$4)
  `, o.ID, o.Token, o.PickupPoint, o.CreatedAt); err != nil {
		if isUniqueViolation(err, "orders_token_key") {
			return ErrTokenTaken
		}
		return errors.Wrap(err, "insert order")
	}

	for i, it := range o.Items {
		if _, err := tx.Exec(ctx, `
      INSERT INTO order_items (id, order_id, position, product_id, qty, price)
      VALUES ($1,$2,$3,$4,$5,$6)
    `, it.ID, o.ID, i, it.ProductID, it.Qty, it.Price); err != nil {
			return errors.Wrap(err, "insert order item")
		}
	}
	return errors.Wrap(tx.Commit(ctx), "commit")
}

func (r *PGRepo) GetByToken(ctx context.Context, token string) (*Order, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var o Order
	if err := r.db.QueryRow(ctx, `
    SELECT id::text, token, pickup_point, created_at
    FROM orders WHERE token=$1
  `, token).Scan(&o.ID, &o.Token, &o.PickupPoint, &o.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, errors.Wrap(err, "get order")
	}
	items, err := r.getItems(ctx, o.ID)
	if err != nil {
		return nil, err
	}
	o.Items = items
	return &o, nil
}

func (r *PGRepo) getItems(ctx context.Context, orderID string) ([]Item, error) {
	rows, err := r.db.Query(ctx, `
    SELECT id::text, order_id::text, product_id, qty, price
    FROM order_items
    WHERE order_id = $1
    ORDER BY position
  `, orderID)
	if err != nil {
		return nil, errors.Wrap(err, "list order items")
	}
	defer rows.Close()

	items := []Item{}
	for rows.Next() {
		var it Item
		if err := rows.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.Qty, &it.Price); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}
