package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"

	"github.com/store-it/rental-service/internal/models"
)

/* ------------------------------------------------------------------
   Public interface
------------------------------------------------------------------ */

type WarehouseRepository interface {
	Create(ctx context.Context, w *models.Warehouse) error

	GetByID(ctx context.Context, id uuid.UUID) (*models.Warehouse, error)
	ListAll(ctx context.Context) ([]*models.Warehouse, error)

	Update(ctx context.Context, w *models.Warehouse) error
	UpdateIfVersion(ctx context.Context, w *models.Warehouse, expected int64) (pgconn.CommandTag, error)
	UpdateWithRetry(ctx context.Context, id uuid.UUID, mutate func(*models.Warehouse) error) error
	Delete(ctx context.Context, id uuid.UUID) error
}

/* ------------------------------------------------------------------
   Implementation
------------------------------------------------------------------ */

type warehouseRepo struct {
	*BaseVersionedRepo[*models.Warehouse]
	db DB
}

func NewWarehouseRepository(db DB) WarehouseRepository {
	r := &warehouseRepo{db: db}
	selectStmt := baseSelectWarehouse() + " WHERE id=$1"
	r.BaseVersionedRepo = NewBaseRepo(db, selectStmt, scanWarehouse)
	return r
}

func baseSelectWarehouse() string {
	return `
        SELECT
            id, address, phone, total_area, height, status,
            created_at, updated_at, row_version
        FROM warehouses
    `
}

func scanWarehouse(row pgx.Row) (*models.Warehouse, error) {
	var w models.Warehouse
	var totalArea float64
	err := row.Scan(
		&w.ID,
		&w.Address,
		&w.Phone,
		&totalArea,
		&w.Height,
		&w.Status,
		&w.CreatedAt,
		&w.UpdatedAt,
		&w.RowVersion,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	w.TotalArea = models.SquareMeters(totalArea)
	return &w, nil
}

func (r *warehouseRepo) Create(ctx context.Context, w *models.Warehouse) error {
	_, err := r.db.Exec(ctx, `
        INSERT INTO warehouses (
            id, address, phone, total_area, height, status,
            created_at, updated_at, row_version
        ) VALUES ($1,$2,$3,$4,$5,$6, NOW(), NOW(), 1)
    `,
		w.ID,
		w.Address,
		w.Phone,
		w.TotalArea.Value(),
		w.Height,
		w.Status,
	)
	return err
}

func (r *warehouseRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Warehouse, error) {
	return r.BaseVersionedRepo.GetByIDString(ctx, id.String())
}

func (r *warehouseRepo) ListAll(ctx context.Context) ([]*models.Warehouse, error) {
	rows, err := r.db.Query(ctx, baseSelectWarehouse()+" ORDER BY created_at")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.Warehouse
	for rows.Next() {
		w, err := scanWarehouse(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, w)
	}
	return out, rows.Err()
}

func (r *warehouseRepo) Update(ctx context.Context, w *models.Warehouse) error {
	_, err := r.update(ctx, w, false, 0)
	return err
}

func (r *warehouseRepo) UpdateIfVersion(ctx context.Context, w *models.Warehouse, expected int64) (pgconn.CommandTag, error) {
	return r.update(ctx, w, true, expected)
}

func (r *warehouseRepo) UpdateWithRetry(ctx context.Context, id uuid.UUID, mutate func(*models.Warehouse) error) error {
	return r.BaseVersionedRepo.UpdateWithRetry(ctx, id.String(), mutate, r.UpdateIfVersion)
}

func (r *warehouseRepo) update(ctx context.Context, w *models.Warehouse, check bool, expected int64) (pgconn.CommandTag, error) {
	sql := `
        UPDATE warehouses SET
            address=$1, phone=$2, total_area=$3, height=$4, status=$5,
            updated_at=NOW()
    `
	args := []any{
		w.Address, w.Phone, w.TotalArea.Value(), w.Height, w.Status,
	}
	if check {
		sql += `, row_version=row_version+1 WHERE id=$6 AND row_version=$7`
		args = append(args, w.ID, expected)
	} else {
		sql += ` WHERE id=$6`
		args = append(args, w.ID)
	}

	return r.db.Exec(ctx, sql, args...)
}

func (r *warehouseRepo) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.Exec(ctx, `DELETE FROM warehouses WHERE id=$1`, id)
	return err
}
