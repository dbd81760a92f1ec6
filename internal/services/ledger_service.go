package services

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/store-it/rental-service/internal/models"
	"github.com/store-it/rental-service/internal/repositories"
	"github.com/store-it/rental-service/internal/utils"
)

// SpaceUsage is a read-only snapshot of one space's occupancy.
type SpaceUsage struct {
	SpaceID       uuid.UUID           `json:"space_id"`
	Status        models.SpaceStatus  `json:"status"`
	TotalArea     models.AreaQuantity `json:"total_area"`
	AvailableArea models.AreaQuantity `json:"available_area"`
	Occupied      models.AreaQuantity `json:"occupied"`
	Remaining     models.AreaQuantity `json:"remaining"`
}

// WarehouseUsage is a read-only snapshot of a whole facility.
type WarehouseUsage struct {
	WarehouseID uuid.UUID              `json:"warehouse_id"`
	Status      models.WarehouseStatus `json:"status"`
	TotalArea   models.AreaQuantity    `json:"total_area"`
	Occupied    models.AreaQuantity    `json:"occupied"`
	Available   models.AreaQuantity    `json:"available"`
	IsFull      bool                   `json:"is_full"`
	IsEmpty     bool                   `json:"is_empty"`
}

// LedgerService owns the occupancy bookkeeping across warehouse, space
// and product. Reads are side-effect free; stored statuses only change
// through the explicit Recompute methods, which mutating operations
// call after they commit.
type LedgerService struct {
	warehouseRepo repositories.WarehouseRepository
	spaceRepo     repositories.SpaceRepository
	productRepo   repositories.ProductRepository
}

func NewLedgerService(
	warehouseRepo repositories.WarehouseRepository,
	spaceRepo repositories.SpaceRepository,
	productRepo repositories.ProductRepository,
) *LedgerService {
	return &LedgerService{
		warehouseRepo: warehouseRepo,
		spaceRepo:     spaceRepo,
		productRepo:   productRepo,
	}
}

// Occupy is the capacity gate for a prospective check-in: the space
// must be under a live contract and have enough remaining area for the
// footprint. It never mutates; the allocator persists the product and
// then recomputes the stored status. Height is a static fit constraint
// checked when spaces are created or edited, not here.
func (s *LedgerService) Occupy(ctx context.Context, space *models.Space, products []*models.Product, footprint models.AreaQuantity) error {
	if space.ContractID == nil {
		return utils.ErrSpaceNotLeased
	}
	if space.Remaining(products).Less(footprint) {
		return utils.ErrInsufficientArea
	}
	return nil
}

// SpaceUsage reports current occupancy without touching stored state.
func (s *LedgerService) SpaceUsage(ctx context.Context, spaceID uuid.UUID) (*SpaceUsage, error) {
	space, err := s.spaceRepo.GetByID(ctx, spaceID)
	if err != nil {
		return nil, err
	}
	if space == nil {
		return nil, utils.ErrNotFound
	}
	products, err := s.productRepo.ListActiveBySpaceID(ctx, spaceID)
	if err != nil {
		return nil, err
	}
	return &SpaceUsage{
		SpaceID:       space.ID,
		Status:        space.Status,
		TotalArea:     space.TotalArea,
		AvailableArea: space.AvailableArea,
		Occupied:      space.Occupied(products),
		Remaining:     space.Remaining(products),
	}, nil
}

// WarehouseUsage aggregates the facility-level picture.
func (s *LedgerService) WarehouseUsage(ctx context.Context, warehouseID uuid.UUID) (*WarehouseUsage, error) {
	wh, err := s.warehouseRepo.GetByID(ctx, warehouseID)
	if err != nil {
		return nil, err
	}
	if wh == nil {
		return nil, utils.ErrNotFound
	}
	spaces, err := s.spaceRepo.ListByWarehouseID(ctx, warehouseID)
	if err != nil {
		return nil, err
	}
	return &WarehouseUsage{
		WarehouseID: wh.ID,
		Status:      wh.Status,
		TotalArea:   wh.TotalArea,
		Occupied:    wh.Occupied(spaces),
		Available:   wh.Available(spaces),
		IsFull:      wh.IsFull(spaces),
		IsEmpty:     wh.IsEmpty(spaces),
	}, nil
}

// RecomputeSpaceStatus re-derives a space's stored status from its
// contract reference and live occupancy. Concurrent recomputes can
// race on the row version; losing simply means the winner already
// stored a fresher derivation, so conflicts retry against the latest
// row.
func (s *LedgerService) RecomputeSpaceStatus(ctx context.Context, spaceID uuid.UUID) (*models.Space, error) {
	for {
		space, err := s.spaceRepo.GetByID(ctx, spaceID)
		if err != nil {
			return nil, err
		}
		if space == nil {
			return nil, utils.ErrNotFound
		}
		products, err := s.productRepo.ListActiveBySpaceID(ctx, spaceID)
		if err != nil {
			return nil, err
		}
		derived := space.DeriveStatus(products)
		if derived == space.Status {
			return space, nil
		}
		updated, err := s.spaceRepo.SetStatusAtomic(ctx, spaceID, derived, space.RowVersion)
		if err == nil {
			return updated, nil
		}
		if !errors.Is(err, utils.ErrRowVersionConflict) {
			return nil, err
		}
	}
}

// RecomputeWarehouseStatus re-derives the facility status: INACTIVE is
// administrative and sticky, otherwise OCCUPIED when the leased spaces
// consume the whole area and ACTIVE when they do not.
func (s *LedgerService) RecomputeWarehouseStatus(ctx context.Context, warehouseID uuid.UUID) (*models.Warehouse, error) {
	spaces, err := s.spaceRepo.ListByWarehouseID(ctx, warehouseID)
	if err != nil {
		return nil, err
	}

	var out *models.Warehouse
	err = s.warehouseRepo.UpdateWithRetry(ctx, warehouseID, func(w *models.Warehouse) error {
		if w.Status != models.WarehouseStatusInactive {
			if w.IsFull(spaces) {
				w.Status = models.WarehouseStatusOccupied
			} else {
				w.Status = models.WarehouseStatusActive
			}
		}
		out = w
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Release puts a space back to FREE, dropping its contract reference.
// Releasing a space that is already FREE is absorbed: cancellation and
// the expiry sweep may both reach for the same release.
func (s *LedgerService) Release(ctx context.Context, spaceID uuid.UUID) (*models.Space, error) {
	space, err := s.spaceRepo.ReleaseContractAtomic(ctx, spaceID)
	if err != nil {
		return nil, err
	}
	if space == nil {
		return nil, utils.ErrNotFound
	}
	if _, err := s.RecomputeWarehouseStatus(ctx, space.WarehouseID); err != nil {
		utils.Logger.WithError(err).Warnf("Failed to recompute warehouse status after releasing space %s", spaceID)
	}
	return space, nil
}
