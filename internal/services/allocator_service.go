package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/store-it/rental-service/internal/models"
	"github.com/store-it/rental-service/internal/repositories"
	"github.com/store-it/rental-service/internal/utils"
)

// CheckInParams describes a product arriving at a space.
type CheckInParams struct {
	SpaceID  uuid.UUID
	ClientID uuid.UUID
	StaffID  uuid.UUID

	Name        string
	Description string
	Footprint   models.AreaQuantity
	Height      float64
	Fragile     bool
	Note        string
}

// AllocatorService moves products in and out of spaces. Every mutation
// goes through the ledger's capacity gate first and ends with a status
// recompute; movements are the immutable audit trail of both.
type AllocatorService struct {
	ledger       *LedgerService
	spaceRepo    repositories.SpaceRepository
	productRepo  repositories.ProductRepository
	movementRepo repositories.MovementRepository
	contractRepo repositories.ContractRepository
	clientRepo   repositories.ClientRepository
	staffRepo    repositories.StaffRepository
	notifier     Notifier
	now          func() time.Time
}

func NewAllocatorService(
	ledger *LedgerService,
	spaceRepo repositories.SpaceRepository,
	productRepo repositories.ProductRepository,
	movementRepo repositories.MovementRepository,
	contractRepo repositories.ContractRepository,
	clientRepo repositories.ClientRepository,
	staffRepo repositories.StaffRepository,
	notifier Notifier,
) *AllocatorService {
	return &AllocatorService{
		ledger:       ledger,
		spaceRepo:    spaceRepo,
		productRepo:  productRepo,
		movementRepo: movementRepo,
		contractRepo: contractRepo,
		clientRepo:   clientRepo,
		staffRepo:    staffRepo,
		notifier:     notifier,
		now:          time.Now,
	}
}

// CheckIn stores a product in a space after passing the capacity gate.
// The client must hold the live contract on the space; signatures gate
// activation, not storage, so products may arrive while the contract
// is still awaiting them.
func (s *AllocatorService) CheckIn(ctx context.Context, params CheckInParams) (*models.Product, error) {
	space, err := s.spaceRepo.GetByID(ctx, params.SpaceID)
	if err != nil {
		return nil, err
	}
	if space == nil {
		return nil, utils.ErrNotFound
	}
	if err := s.checkStaff(ctx, params.StaffID); err != nil {
		return nil, err
	}

	contract, err := s.contractRepo.FindLiveBySpaceAndClient(ctx, params.SpaceID, params.ClientID)
	if err != nil {
		return nil, err
	}
	if contract == nil {
		return nil, utils.ErrClientNotBound
	}

	products, err := s.productRepo.ListActiveBySpaceID(ctx, params.SpaceID)
	if err != nil {
		return nil, err
	}
	if err := s.ledger.Occupy(ctx, space, products, params.Footprint); err != nil {
		return nil, err
	}

	now := s.now()
	product := &models.Product{
		ID:          uuid.New(),
		Name:        params.Name,
		Description: params.Description,
		Footprint:   params.Footprint,
		Height:      params.Height,
		Fragile:     params.Fragile,
		Status:      models.ProductStatusInWarehouse,
		ClientID:    params.ClientID,
		SpaceID:     params.SpaceID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, err
	}

	s.recordMovement(ctx, product, params.StaffID, models.MovementCheckIn, params.Note)

	if _, err := s.ledger.RecomputeSpaceStatus(ctx, params.SpaceID); err != nil {
		utils.Logger.WithError(err).Warnf("Failed to recompute space %s status after check-in", params.SpaceID)
	}

	s.notifyMovement(ctx, product, "checked in")
	return product, nil
}

// CheckOut retires a product and frees its footprint. The historical
// movements stay; only the product's status flips.
func (s *AllocatorService) CheckOut(ctx context.Context, productID, spaceID, staffID uuid.UUID, note string) (*models.Product, error) {
	product, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, utils.ErrNotFound
	}
	if product.SpaceID != spaceID || product.Status != models.ProductStatusInWarehouse {
		return nil, utils.ErrProductNotInSpace
	}
	if err := s.checkStaff(ctx, staffID); err != nil {
		return nil, err
	}

	retired, err := s.productRepo.RetireAtomic(ctx, productID, product.RowVersion)
	if err != nil {
		return nil, err
	}

	s.recordMovement(ctx, retired, staffID, models.MovementCheckOut, note)

	if _, err := s.ledger.RecomputeSpaceStatus(ctx, spaceID); err != nil {
		utils.Logger.WithError(err).Warnf("Failed to recompute space %s status after check-out", spaceID)
	}

	s.notifyMovement(ctx, retired, "checked out")
	return retired, nil
}

func (s *AllocatorService) ListBySpace(ctx context.Context, spaceID uuid.UUID) ([]*models.Product, error) {
	return s.productRepo.ListActiveBySpaceID(ctx, spaceID)
}

func (s *AllocatorService) ListByClient(ctx context.Context, clientID uuid.UUID) ([]*models.Product, error) {
	return s.productRepo.ListByClientID(ctx, clientID)
}

func (s *AllocatorService) MovementsBySpace(ctx context.Context, spaceID uuid.UUID) ([]*models.Movement, error) {
	return s.movementRepo.ListBySpaceID(ctx, spaceID)
}

func (s *AllocatorService) MovementsByProduct(ctx context.Context, productID uuid.UUID) ([]*models.Movement, error) {
	return s.movementRepo.ListByProductID(ctx, productID)
}

// checkStaff verifies the staff member handling the movement exists and
// holds an active account; movements reference them by id.
func (s *AllocatorService) checkStaff(ctx context.Context, staffID uuid.UUID) error {
	staff, err := s.staffRepo.GetByID(ctx, staffID)
	if err != nil {
		return err
	}
	if staff == nil {
		return utils.ErrNotFound
	}
	if !staff.AccountActive() {
		return utils.ErrAccountNotActive
	}
	return nil
}

// recordMovement appends the audit row. The product mutation has
// already committed, so a failure here is logged rather than unwound.
func (s *AllocatorService) recordMovement(ctx context.Context, p *models.Product, staffID uuid.UUID, kind models.MovementKind, note string) {
	m := &models.Movement{
		ID:         uuid.New(),
		ProductID:  p.ID,
		SpaceID:    p.SpaceID,
		StaffID:    staffID,
		Kind:       kind,
		OccurredAt: s.now(),
		Note:       note,
	}
	if err := s.movementRepo.Create(ctx, m); err != nil {
		utils.Logger.WithError(err).Errorf("Failed to record %s movement for product %s", kind, p.ID)
	}
}

func (s *AllocatorService) notifyMovement(ctx context.Context, p *models.Product, verb string) {
	client, err := s.clientRepo.GetByID(ctx, p.ClientID)
	if err != nil || client == nil {
		utils.Logger.WithError(err).Warnf("Failed to fetch client %s for movement notification", p.ClientID)
		return
	}
	subject := fmt.Sprintf("Product %s %s", p.Name, verb)
	body := fmt.Sprintf(
		"Hi %s,\n\nYour product %q (%s) was %s at space %s.\n\n- Store-It",
		client.Name, p.Name, p.Footprint, verb, p.SpaceID,
	)
	_ = s.notifier.Notify(client.Name, client.Email, subject, body, nil)
}
