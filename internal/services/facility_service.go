package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/store-it/rental-service/internal/models"
	"github.com/store-it/rental-service/internal/repositories"
	"github.com/store-it/rental-service/internal/utils"
)

// CreateWarehouseParams describes a new facility.
type CreateWarehouseParams struct {
	Address   string
	Phone     string
	TotalArea models.AreaQuantity
	Height    float64
}

// CreateSpaceParams carves a new leasable space out of a warehouse.
type CreateSpaceParams struct {
	WarehouseID   uuid.UUID
	TotalArea     models.AreaQuantity
	AvailableArea models.AreaQuantity
	Height        float64
}

// EditSpaceParams holds the administratively editable fields. Nil
// fields are left untouched.
type EditSpaceParams struct {
	AvailableArea *models.AreaQuantity
	Height        *float64
}

// EditWarehouseParams holds the facility fields an admin may change.
// Nil fields are left untouched.
type EditWarehouseParams struct {
	Address *string
	Phone   *string
	Height  *float64
	Status  *models.WarehouseStatus
}

// FacilityService handles the administrative side of the ledger:
// creating warehouses and spaces and editing their declared capacity.
// Height and area are static fit constraints checked here, once, so
// the check-in path never has to revisit them.
type FacilityService struct {
	warehouseRepo repositories.WarehouseRepository
	spaceRepo     repositories.SpaceRepository
	productRepo   repositories.ProductRepository
	now           func() time.Time
}

func NewFacilityService(
	warehouseRepo repositories.WarehouseRepository,
	spaceRepo repositories.SpaceRepository,
	productRepo repositories.ProductRepository,
) *FacilityService {
	return &FacilityService{
		warehouseRepo: warehouseRepo,
		spaceRepo:     spaceRepo,
		productRepo:   productRepo,
		now:           time.Now,
	}
}

func (s *FacilityService) CreateWarehouse(ctx context.Context, params CreateWarehouseParams) (*models.Warehouse, error) {
	now := s.now()
	w := &models.Warehouse{
		ID:        uuid.New(),
		Address:   params.Address,
		Phone:     params.Phone,
		TotalArea: params.TotalArea,
		Height:    params.Height,
		Status:    models.WarehouseStatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
	w.RowVersion = 1
	if err := s.warehouseRepo.Create(ctx, w); err != nil {
		return nil, err
	}
	return w, nil
}

// EditWarehouse updates a facility's details. Lowering the ceiling is
// rejected while any existing space is declared taller than the new
// limit.
func (s *FacilityService) EditWarehouse(ctx context.Context, warehouseID uuid.UUID, params EditWarehouseParams) (*models.Warehouse, error) {
	warehouse, err := s.warehouseRepo.GetByID(ctx, warehouseID)
	if err != nil {
		return nil, err
	}
	if warehouse == nil {
		return nil, utils.ErrNotFound
	}

	if params.Height != nil {
		spaces, err := s.spaceRepo.ListByWarehouseID(ctx, warehouseID)
		if err != nil {
			return nil, err
		}
		for _, sp := range spaces {
			if sp.Height > *params.Height {
				return nil, utils.ErrHeightExceedsLimit
			}
		}
	}

	err = s.warehouseRepo.UpdateWithRetry(ctx, warehouseID, func(w *models.Warehouse) error {
		if params.Address != nil {
			w.Address = *params.Address
		}
		if params.Phone != nil {
			w.Phone = *params.Phone
		}
		if params.Height != nil {
			w.Height = *params.Height
		}
		if params.Status != nil {
			w.Status = *params.Status
		}
		w.UpdatedAt = s.now()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.warehouseRepo.GetByID(ctx, warehouseID)
}

func (s *FacilityService) GetWarehouse(ctx context.Context, id uuid.UUID) (*models.Warehouse, error) {
	w, err := s.warehouseRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if w == nil {
		return nil, utils.ErrNotFound
	}
	return w, nil
}

func (s *FacilityService) ListWarehouses(ctx context.Context) ([]*models.Warehouse, error) {
	return s.warehouseRepo.ListAll(ctx)
}

// CreateSpace validates the static fit constraints: the space must fit
// under the warehouse's height limit and its declared available area
// must fit inside the area not yet committed to other spaces.
func (s *FacilityService) CreateSpace(ctx context.Context, params CreateSpaceParams) (*models.Space, error) {
	warehouse, err := s.warehouseRepo.GetByID(ctx, params.WarehouseID)
	if err != nil {
		return nil, err
	}
	if warehouse == nil {
		return nil, utils.ErrNotFound
	}
	if params.Height > warehouse.Height {
		return nil, utils.ErrHeightExceedsLimit
	}

	siblings, err := s.spaceRepo.ListByWarehouseID(ctx, params.WarehouseID)
	if err != nil {
		return nil, err
	}
	var committed models.AreaQuantity
	for _, sib := range siblings {
		committed = committed.Add(sib.AvailableArea)
	}
	if warehouse.TotalArea.Less(committed.Add(params.AvailableArea)) {
		return nil, utils.ErrAreaExceedsWarehouse
	}

	now := s.now()
	space := &models.Space{
		ID:            uuid.New(),
		WarehouseID:   params.WarehouseID,
		TotalArea:     params.TotalArea,
		AvailableArea: params.AvailableArea,
		Height:        params.Height,
		Status:        models.SpaceStatusFree,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	space.RowVersion = 1
	if err := s.spaceRepo.Create(ctx, space); err != nil {
		return nil, err
	}
	return space, nil
}

func (s *FacilityService) GetSpace(ctx context.Context, id uuid.UUID) (*models.Space, error) {
	space, err := s.spaceRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if space == nil {
		return nil, utils.ErrNotFound
	}
	return space, nil
}

func (s *FacilityService) ListSpaces(ctx context.Context, warehouseID uuid.UUID) ([]*models.Space, error) {
	return s.spaceRepo.ListByWarehouseID(ctx, warehouseID)
}

func (s *FacilityService) ListFreeSpaces(ctx context.Context, warehouseID uuid.UUID) ([]*models.Space, error) {
	return s.spaceRepo.ListFreeByWarehouseID(ctx, warehouseID)
}

// EditSpace adjusts declared capacity. A leased space cannot be
// reshaped under a live contract, and the available area can never be
// pushed below what products already occupy.
func (s *FacilityService) EditSpace(ctx context.Context, spaceID uuid.UUID, params EditSpaceParams) (*models.Space, error) {
	space, err := s.spaceRepo.GetByID(ctx, spaceID)
	if err != nil {
		return nil, err
	}
	if space == nil {
		return nil, utils.ErrNotFound
	}
	if space.ContractID != nil {
		return nil, utils.ErrSpaceInUse
	}

	warehouse, err := s.warehouseRepo.GetByID(ctx, space.WarehouseID)
	if err != nil {
		return nil, err
	}
	if warehouse == nil {
		return nil, utils.ErrNotFound
	}
	if params.Height != nil && *params.Height > warehouse.Height {
		return nil, utils.ErrHeightExceedsLimit
	}

	if params.AvailableArea != nil {
		products, err := s.productRepo.ListActiveBySpaceID(ctx, spaceID)
		if err != nil {
			return nil, err
		}
		if params.AvailableArea.Less(space.Occupied(products)) {
			return nil, utils.ErrAreaBelowOccupied
		}

		siblings, err := s.spaceRepo.ListByWarehouseID(ctx, space.WarehouseID)
		if err != nil {
			return nil, err
		}
		var committed models.AreaQuantity
		for _, sib := range siblings {
			if sib.ID != spaceID {
				committed = committed.Add(sib.AvailableArea)
			}
		}
		if warehouse.TotalArea.Less(committed.Add(*params.AvailableArea)) {
			return nil, utils.ErrAreaExceedsWarehouse
		}
	}

	err = s.spaceRepo.UpdateWithRetry(ctx, spaceID, func(sp *models.Space) error {
		if sp.ContractID != nil {
			return utils.ErrSpaceInUse
		}
		if params.AvailableArea != nil {
			sp.AvailableArea = *params.AvailableArea
		}
		if params.Height != nil {
			sp.Height = *params.Height
		}
		sp.UpdatedAt = s.now()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.spaceRepo.GetByID(ctx, spaceID)
}
