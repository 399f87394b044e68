package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pick-your-pour/signup-service/internal/domain"
)

// VisitorEventRepository persists append-only UI interaction records.
type VisitorEventRepository interface {
	Create(ctx context.Context, event *domain.VisitorEvent) error
}

type visitorEventRepository struct {
	pool *pgxpool.Pool
}

// NewVisitorEventRepository returns a Postgres-backed implementation.
func NewVisitorEventRepository(pool *pgxpool.Pool) VisitorEventRepository {
	return &visitorEventRepository{pool: pool}
}

func (r *visitorEventRepository) Create(ctx context.Context, event *domain.VisitorEvent) error {
	const query = `
        INSERT INTO visitor_events (event_type, page, element, ip_address)
        VALUES ($1, $2, $3, $4)
        RETURNING id, created_at`

	return r.pool.QueryRow(ctx, query,
		event.EventType,
		event.Page,
		event.Element,
		event.IPAddress,
	).Scan(&event.ID, &event.CreatedAt)
}
