package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"

	"github.com/store-it/rental-service/internal/models"
)

// MovementRepository is append-only: movements form the audit trail for
// area changes and are never updated or deleted.
type MovementRepository interface {
	Create(ctx context.Context, m *models.Movement) error
	ListBySpaceID(ctx context.Context, spaceID uuid.UUID) ([]*models.Movement, error)
	ListByProductID(ctx context.Context, productID uuid.UUID) ([]*models.Movement, error)
}

type movementRepo struct {
	db DB
}

func NewMovementRepository(db DB) MovementRepository {
	return &movementRepo{db: db}
}

func baseSelectMovement() string {
	return `
        SELECT id, product_id, space_id, staff_id, kind, occurred_at, note
        FROM movements
    `
}

func scanMovement(row pgx.Row) (*models.Movement, error) {
	var m models.Movement
	err := row.Scan(
		&m.ID,
		&m.ProductID,
		&m.SpaceID,
		&m.StaffID,
		&m.Kind,
		&m.OccurredAt,
		&m.Note,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &m, nil
}

func (r *movementRepo) Create(ctx context.Context, m *models.Movement) error {
	_, err := r.db.Exec(ctx, `
        INSERT INTO movements (
            id, product_id, space_id, staff_id, kind, occurred_at, note
        ) VALUES ($1,$2,$3,$4,$5,$6,$7)
    `,
		m.ID,
		m.ProductID,
		m.SpaceID,
		m.StaffID,
		m.Kind,
		m.OccurredAt,
		m.Note,
	)
	return err
}

func (r *movementRepo) ListBySpaceID(ctx context.Context, spaceID uuid.UUID) ([]*models.Movement, error) {
	return r.list(ctx, baseSelectMovement()+" WHERE space_id=$1 ORDER BY occurred_at", spaceID)
}

func (r *movementRepo) ListByProductID(ctx context.Context, productID uuid.UUID) ([]*models.Movement, error) {
	return r.list(ctx, baseSelectMovement()+" WHERE product_id=$1 ORDER BY occurred_at", productID)
}

func (r *movementRepo) list(ctx context.Context, sql string, args ...any) ([]*models.Movement, error) {
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.Movement
	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}
