package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"

	"github.com/store-it/rental-service/internal/models"
	"github.com/store-it/rental-service/internal/utils"
)

type ProductRepository interface {
	Create(ctx context.Context, p *models.Product) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error)

	// ListActiveBySpaceID returns the products currently consuming area
	// in the space (IN_WAREHOUSE only).
	ListActiveBySpaceID(ctx context.Context, spaceID uuid.UUID) ([]*models.Product, error)
	ListByClientID(ctx context.Context, clientID uuid.UUID) ([]*models.Product, error)

	// RetireAtomic flips an IN_WAREHOUSE product to RETIRED. A product
	// already retired fails with ErrStateConflict.
	RetireAtomic(ctx context.Context, productID uuid.UUID, expectedVersion int64) (*models.Product, error)
}

type productRepo struct {
	db DB
}

func NewProductRepository(db DB) ProductRepository {
	return &productRepo{db: db}
}

func baseSelectProduct() string {
	return `
        SELECT
            id, name, description, footprint, height, fragile,
            status, client_id, space_id,
            created_at, updated_at, row_version
        FROM products
    `
}

func scanProduct(row pgx.Row) (*models.Product, error) {
	var p models.Product
	var footprint float64
	err := row.Scan(
		&p.ID,
		&p.Name,
		&p.Description,
		&footprint,
		&p.Height,
		&p.Fragile,
		&p.Status,
		&p.ClientID,
		&p.SpaceID,
		&p.CreatedAt,
		&p.UpdatedAt,
		&p.RowVersion,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	p.Footprint = models.SquareMeters(footprint)
	return &p, nil
}

func (r *productRepo) Create(ctx context.Context, p *models.Product) error {
	_, err := r.db.Exec(ctx, `
        INSERT INTO products (
            id, name, description, footprint, height, fragile,
            status, client_id, space_id,
            created_at, updated_at, row_version
        ) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9, NOW(), NOW(), 1)
    `,
		p.ID,
		p.Name,
		p.Description,
		p.Footprint.Value(),
		p.Height,
		p.Fragile,
		p.Status,
		p.ClientID,
		p.SpaceID,
	)
	return err
}

func (r *productRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	row := r.db.QueryRow(ctx, baseSelectProduct()+" WHERE id=$1", id)
	return scanProduct(row)
}

func (r *productRepo) ListActiveBySpaceID(ctx context.Context, spaceID uuid.UUID) ([]*models.Product, error) {
	return r.list(ctx,
		baseSelectProduct()+" WHERE space_id=$1 AND status=$2 ORDER BY created_at",
		spaceID, models.ProductStatusInWarehouse)
}

func (r *productRepo) ListByClientID(ctx context.Context, clientID uuid.UUID) ([]*models.Product, error) {
	return r.list(ctx, baseSelectProduct()+" WHERE client_id=$1 ORDER BY created_at", clientID)
}

func (r *productRepo) list(ctx context.Context, sql string, args ...any) ([]*models.Product, error) {
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *productRepo) RetireAtomic(ctx context.Context, productID uuid.UUID, expectedVersion int64) (*models.Product, error) {
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

	row := tx.QueryRow(ctx, baseSelectProduct()+" WHERE id=$1 FOR UPDATE", productID)
	p, err := scanProduct(row)
	if err != nil {
		return nil, err
	}
	if p == nil {
		err = pgx.ErrNoRows
		return nil, err
	}
	if p.Status != models.ProductStatusInWarehouse {
		err = utils.ErrStateConflict
		return p, err
	}
	if p.RowVersion != expectedVersion {
		err = utils.ErrRowVersionConflict
		return p, err
	}

	_, err = tx.Exec(ctx, `
        UPDATE products
        SET status=$1, row_version=row_version+1, updated_at=NOW()
        WHERE id=$2
    `, models.ProductStatusRetired, productID)
	if err != nil {
		return nil, err
	}
	newRow := tx.QueryRow(ctx, baseSelectProduct()+" WHERE id=$1", productID)
	var updated *models.Product
	updated, err = scanProduct(newRow)
	return updated, err
}
