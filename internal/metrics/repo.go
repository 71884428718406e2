package metrics

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"
)

// MaxWindow caps how many samples one read may return.
const MaxWindow = 52

// Repository is the append-only metrics feed.
type Repository interface {
	Append(ctx context.Context, s *Sample) error
	// Recent returns the latest n samples, oldest first.
	Recent(ctx context.Context, n int) ([]Sample, error)
}

type PGRepo struct{ db *pgxpool.Pool }

func NewPGRepo(db *pgxpool.Pool) *PGRepo { return &PGRepo{db: db} }

func (r *PGRepo) Append(ctx context.Context, s *Sample) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	err := r.db.QueryRow(ctx, `
		INSERT INTO metric_samples (period, series, created_at)
		VALUES ($1, $2, NOW())
		RETURNING id, created_at
	`, s.Period, s.Series).Scan(&s.ID, &s.CreatedAt)
	return errors.Wrap(err, "append metric sample")
}

func (r *PGRepo) Recent(ctx context.Context, n int) ([]Sample, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if n <= 0 || n > MaxWindow {
		n = MaxWindow
	}
	rows, err := r.db.Query(ctx, `
		SELECT id, period, series, created_at FROM (
			SELECT id, period, series, created_at
			FROM metric_samples
			ORDER BY created_at DESC, id DESC
			LIMIT $1
		) latest
		ORDER BY created_at ASC, id ASC
	`, n)
	if err != nil {
		return nil, errors.Wrap(err, "recent metric samples")
	}
	defer rows.Close()

	out := []Sample{}
	for rows.Next() {
		var s Sample
		if err := rows.Scan(&s.ID, &s.Period, &s.Series, &s.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
