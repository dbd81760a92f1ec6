package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"

	"github.com/store-it/rental-service/internal/models"
	"github.com/store-it/rental-service/internal/utils"
)

/* ------------------------------------------------------------------
   Public interface
------------------------------------------------------------------ */

type SpaceRepository interface {
	Create(ctx context.Context, s *models.Space) error

	GetByID(ctx context.Context, id uuid.UUID) (*models.Space, error)
	ListByWarehouseID(ctx context.Context, warehouseID uuid.UUID) ([]*models.Space, error)
	ListFreeByWarehouseID(ctx context.Context, warehouseID uuid.UUID) ([]*models.Space, error)

	Update(ctx context.Context, s *models.Space) error
	UpdateIfVersion(ctx context.Context, s *models.Space, expected int64) (pgconn.CommandTag, error)
	UpdateWithRetry(ctx context.Context, id uuid.UUID, mutate func(*models.Space) error) error

	// AttachContractAtomic reserves a FREE space for a freshly created
	// contract. A space that is no longer FREE fails with ErrStateConflict.
	AttachContractAtomic(ctx context.Context, spaceID, contractID uuid.UUID, expectedVersion int64) (*models.Space, error)

	// ReleaseContractAtomic puts the space back to FREE and drops the
	// contract reference. Releasing an already-free space is a no-op,
	// which keeps cancellation and the expiry sweep re-entrant.
	ReleaseContractAtomic(ctx context.Context, spaceID uuid.UUID) (*models.Space, error)

	// SetStatusAtomic stores a freshly derived status.
	SetStatusAtomic(ctx context.Context, spaceID uuid.UUID, status models.SpaceStatus, expectedVersion int64) (*models.Space, error)
}

/* ------------------------------------------------------------------
   Implementation
------------------------------------------------------------------ */

type spaceRepo struct {
	*BaseVersionedRepo[*models.Space]
	db DB
}

func NewSpaceRepository(db DB) SpaceRepository {
	r := &spaceRepo{db: db}
	selectStmt := baseSelectSpace() + " WHERE id=$1"
	r.BaseVersionedRepo = NewBaseRepo(db, selectStmt, scanSpace)
	return r
}

func baseSelectSpace() string {
	return `
        SELECT
            id, warehouse_id, contract_id, total_area, available_area,
            height, status, created_at, updated_at, row_version
        FROM spaces
    `
}

func scanSpace(row pgx.Row) (*models.Space, error) {
	var s models.Space
	var totalArea, availableArea float64
	err := row.Scan(
		&s.ID,
		&s.WarehouseID,
		&s.ContractID,
		&totalArea,
		&availableArea,
		&s.Height,
		&s.Status,
		&s.CreatedAt,
		&s.UpdatedAt,
		&s.RowVersion,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	s.TotalArea = models.SquareMeters(totalArea)
	s.AvailableArea = models.SquareMeters(availableArea)
	return &s, nil
}

func (r *spaceRepo) Create(ctx context.Context, s *models.Space) error {
	_, err := r.db.Exec(ctx, `
        INSERT INTO spaces (
            id, warehouse_id, contract_id, total_area, available_area,
            height, status, created_at, updated_at, row_version
        ) VALUES ($1,$2,$3,$4,$5,$6,$7, NOW(), NOW(), 1)
    `,
		s.ID,
		s.WarehouseID,
		s.ContractID,
		s.TotalArea.Value(),
		s.AvailableArea.Value(),
		s.Height,
		s.Status,
	)
	return err
}

func (r *spaceRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Space, error) {
	return r.BaseVersionedRepo.GetByIDString(ctx, id.String())
}

func (r *spaceRepo) ListByWarehouseID(ctx context.Context, warehouseID uuid.UUID) ([]*models.Space, error) {
	return r.list(ctx, baseSelectSpace()+" WHERE warehouse_id=$1 ORDER BY created_at", warehouseID)
}

func (r *spaceRepo) ListFreeByWarehouseID(ctx context.Context, warehouseID uuid.UUID) ([]*models.Space, error) {
	return r.list(ctx,
		baseSelectSpace()+" WHERE warehouse_id=$1 AND status=$2 ORDER BY created_at",
		warehouseID, models.SpaceStatusFree)
}

func (r *spaceRepo) list(ctx context.Context, sql string, args ...any) ([]*models.Space, error) {
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.Space
	for rows.Next() {
		s, err := scanSpace(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *spaceRepo) Update(ctx context.Context, s *models.Space) error {
	_, err := r.update(ctx, s, false, 0)
	return err
}

func (r *spaceRepo) UpdateIfVersion(ctx context.Context, s *models.Space, expected int64) (pgconn.CommandTag, error) {
	return r.update(ctx, s, true, expected)
}

func (r *spaceRepo) UpdateWithRetry(ctx context.Context, id uuid.UUID, mutate func(*models.Space) error) error {
	return r.BaseVersionedRepo.UpdateWithRetry(ctx, id.String(), mutate, r.UpdateIfVersion)
}

func (r *spaceRepo) update(ctx context.Context, s *models.Space, check bool, expected int64) (pgconn.CommandTag, error) {
	sql := `
        UPDATE spaces SET
            contract_id=$1, total_area=$2, available_area=$3, height=$4,
            status=$5, updated_at=NOW()
    `
	args := []any{
		s.ContractID, s.TotalArea.Value(), s.AvailableArea.Value(), s.Height, s.Status,
	}
	if check {
		sql += `, row_version=row_version+1 WHERE id=$6 AND row_version=$7`
		args = append(args, s.ID, expected)
	} else {
		sql += ` WHERE id=$6`
		args = append(args, s.ID)
	}

	return r.db.Exec(ctx, sql, args...)
}

func (r *spaceRepo) AttachContractAtomic(
	ctx context.Context,
	spaceID, contractID uuid.UUID,
	expectedVersion int64,
) (*models.Space, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			tx.Rollback(ctx)
		} else {
			tx.Commit(ctx)
		}
	}()

	row := tx.QueryRow(ctx, baseSelectSpace()+" WHERE id=$1 FOR UPDATE", spaceID)
	s, err := scanSpace(row)
	if err != nil {
		return nil, err
	}
	if s == nil {
		err = pgx.ErrNoRows
		return nil, err
	}
	if s.Status != models.SpaceStatusFree {
		err = utils.ErrStateConflict
		return s, err
	}
	if s.RowVersion != expectedVersion {
		err = utils.ErrRowVersionConflict
		return s, err
	}

	_, err = tx.Exec(ctx, `
        UPDATE spaces
        SET contract_id=$1, status=$2, row_version=row_version+1, updated_at=NOW()
        WHERE id=$3
    `, contractID, models.SpaceStatusLeasedAvailable, spaceID)
	if err != nil {
		return nil, err
	}
	newRow := tx.QueryRow(ctx, baseSelectSpace()+" WHERE id=$1", spaceID)
	var updated *models.Space
	updated, err = scanSpace(newRow)
	return updated, err
}

func (r *spaceRepo) ReleaseContractAtomic(ctx context.Context, spaceID uuid.UUID) (*models.Space, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			tx.Rollback(ctx)
		} else {
			tx.Commit(ctx)
		}
	}()

	row := tx.QueryRow(ctx, baseSelectSpace()+" WHERE id=$1 FOR UPDATE", spaceID)
	s, err := scanSpace(row)
	if err != nil || s == nil {
		return nil, err
	}
	if s.Status == models.SpaceStatusFree && s.ContractID == nil {
		return s, nil // already released
	}

	_, err = tx.Exec(ctx, `
        UPDATE spaces
        SET contract_id=NULL, status=$1, row_version=row_version+1, updated_at=NOW()
        WHERE id=$2
    `, models.SpaceStatusFree, spaceID)
	if err != nil {
		return nil, err
	}
	newRow := tx.QueryRow(ctx, baseSelectSpace()+" WHERE id=$1", spaceID)
	var updated *models.Space
	updated, err = scanSpace(newRow)
	return updated, err
}

func (r *spaceRepo) SetStatusAtomic(
	ctx context.Context,
	spaceID uuid.UUID,
	status models.SpaceStatus,
	expectedVersion int64,
) (*models.Space, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			tx.Rollback(ctx)
		} else {
			tx.Commit(ctx)
		}
	}()

	row := tx.QueryRow(ctx, baseSelectSpace()+" WHERE id=$1 FOR UPDATE", spaceID)
	s, err := scanSpace(row)
	if err != nil {
		return nil, err
	}
	if s == nil {
		err = pgx.ErrNoRows
		return nil, err
	}
	if s.RowVersion != expectedVersion {
		err = utils.ErrRowVersionConflict
		return s, err
	}

	_, err = tx.Exec(ctx, `
        UPDATE spaces
        SET status=$1, row_version=row_version+1, updated_at=NOW()
        WHERE id=$2
    `, status, spaceID)
	if err != nil {
		return nil, err
	}
	newRow := tx.QueryRow(ctx, baseSelectSpace()+" WHERE id=$1", spaceID)
	var updated *models.Space
	updated, err = scanSpace(newRow)
	return updated, err
}
