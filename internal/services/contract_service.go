package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/store-it/rental-service/internal/constants"
	"github.com/store-it/rental-service/internal/models"
	"github.com/store-it/rental-service/internal/repositories"
	"github.com/store-it/rental-service/internal/utils"
)

// CreateContractParams carries the terms of a new lease.
type CreateContractParams struct {
	ClientID uuid.UUID
	AgentID  uuid.UUID
	SpaceID  uuid.UUID

	StartDate      time.Time
	EndDate        time.Time
	Value          float64
	Description    string
	BillingDetails []models.BillingDetail
}

// EditContractParams holds the terms that may still change before
// either party signs. Nil fields are left untouched.
type EditContractParams struct {
	StartDate      *time.Time
	EndDate        *time.Time
	Value          *float64
	Description    *string
	BillingDetails []models.BillingDetail
}

// ContractService drives the contract lifecycle. Every transition is a
// compare-and-swap on the contract's state and row version; two racing
// transitions can never both apply, the loser observes the stale state
// and gets ErrInvalidTransition.
type ContractService struct {
	contractRepo  repositories.ContractRepository
	spaceRepo     repositories.SpaceRepository
	warehouseRepo repositories.WarehouseRepository
	productRepo   repositories.ProductRepository
	clientRepo    repositories.ClientRepository
	agentRepo     repositories.AgentRepository
	ledger        *LedgerService
	renderer      DocumentRenderer
	notifier      Notifier
	now           func() time.Time
}

func NewContractService(
	contractRepo repositories.ContractRepository,
	spaceRepo repositories.SpaceRepository,
	warehouseRepo repositories.WarehouseRepository,
	productRepo repositories.ProductRepository,
	clientRepo repositories.ClientRepository,
	agentRepo repositories.AgentRepository,
	ledger *LedgerService,
	renderer DocumentRenderer,
	notifier Notifier,
) *ContractService {
	return &ContractService{
		contractRepo:  contractRepo,
		spaceRepo:     spaceRepo,
		warehouseRepo: warehouseRepo,
		productRepo:   productRepo,
		clientRepo:    clientRepo,
		agentRepo:     agentRepo,
		ledger:        ledger,
		renderer:      renderer,
		notifier:      notifier,
		now:           time.Now,
	}
}

// Create opens a contract in PENDING_VERIFICATION and reserves the
// space for it. The space must be FREE, the facility ACTIVE and both
// parties' accounts active. Reserving does not yet consume warehouse
// area in the commercial sense; that happens at activation.
func (s *ContractService) Create(ctx context.Context, params CreateContractParams) (*models.Contract, error) {
	space, err := s.spaceRepo.GetByID(ctx, params.SpaceID)
	if err != nil {
		return nil, err
	}
	if space == nil {
		return nil, utils.ErrNotFound
	}
	if space.Status != models.SpaceStatusFree {
		return nil, utils.ErrSpaceNotFree
	}

	warehouse, err := s.warehouseRepo.GetByID(ctx, space.WarehouseID)
	if err != nil {
		return nil, err
	}
	if warehouse == nil {
		return nil, utils.ErrNotFound
	}
	if warehouse.Status != models.WarehouseStatusActive {
		return nil, utils.ErrWarehouseNotActive
	}

	client, err := s.clientRepo.GetByID(ctx, params.ClientID)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, utils.ErrNotFound
	}
	if !client.AccountActive() {
		return nil, utils.ErrAccountNotActive
	}
	agent, err := s.agentRepo.GetByID(ctx, params.AgentID)
	if err != nil {
		return nil, err
	}
	if agent == nil {
		return nil, utils.ErrNotFound
	}
	if !agent.AccountActive() {
		return nil, utils.ErrAccountNotActive
	}

	now := s.now()
	contract := &models.Contract{
		ID:             uuid.New(),
		ClientID:       params.ClientID,
		AgentID:        params.AgentID,
		SpaceID:        params.SpaceID,
		StartDate:      params.StartDate,
		EndDate:        params.EndDate,
		Value:          params.Value,
		Description:    params.Description,
		State:          models.ContractStatePendingVerification,
		BillingDetails: params.BillingDetails,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	contract.RowVersion = 1
	if err := s.contractRepo.Create(ctx, contract); err != nil {
		return nil, err
	}

	if err := s.attachSpace(ctx, space, contract.ID); err != nil {
		// Someone grabbed the space between our read and the attach.
		// The freshly inserted contract must not stay live.
		if _, cErr := s.contractRepo.CancelAtomic(ctx, contract.ID,
			[]models.ContractState{models.ContractStatePendingVerification},
			contract.RowVersion); cErr != nil {
			utils.Logger.WithError(cErr).Errorf("Failed to void contract %s after losing space %s", contract.ID, space.ID)
		}
		return nil, err
	}

	if _, err := s.ledger.RecomputeWarehouseStatus(ctx, space.WarehouseID); err != nil {
		utils.Logger.WithError(err).Warnf("Failed to recompute warehouse %s status after contract create", space.WarehouseID)
	}

	s.notifyParties(ctx, contract, "New storage contract",
		fmt.Sprintf("Contract %s was created and awaits the client's signature. Unsigned contracts are cancelled %s after their start date.",
			contract.ID, constants.ClientSignatureGracePeriod))
	return contract, nil
}

func (s *ContractService) attachSpace(ctx context.Context, space *models.Space, contractID uuid.UUID) error {
	for {
		_, err := s.spaceRepo.AttachContractAtomic(ctx, space.ID, contractID, space.RowVersion)
		if err == nil {
			return nil
		}
		if errors.Is(err, utils.ErrStateConflict) {
			return utils.ErrSpaceNotFree
		}
		if !errors.Is(err, utils.ErrRowVersionConflict) {
			return err
		}
		space, err = s.spaceRepo.GetByID(ctx, space.ID)
		if err != nil {
			return err
		}
		if space == nil {
			return utils.ErrNotFound
		}
		if space.Status != models.SpaceStatusFree {
			return utils.ErrSpaceNotFree
		}
	}
}

// ClientSign moves PENDING_VERIFICATION to VERIFIED_BY_CLIENT, storing
// the signature image and timestamp.
func (s *ContractService) ClientSign(ctx context.Context, contractID uuid.UUID, signature []byte) (*models.Contract, error) {
	signedAt := s.now()
	contract, err := s.transitionWithRetry(ctx, contractID, func(c *models.Contract) (*models.Contract, error) {
		return s.contractRepo.SignByClientAtomic(ctx, c.ID, signature, signedAt, c.RowVersion)
	})
	if err != nil {
		return nil, err
	}

	s.notifyWithDocument(ctx, contract, "Contract signed by client",
		fmt.Sprintf("The client signed contract %s; it now awaits the agent's signature.", contract.ID))
	return contract, nil
}

// AgentSign moves VERIFIED_BY_CLIENT to ACTIVE. Signing out of order
// (before the client) fails with ErrInvalidTransition; the dual gate
// is strict.
func (s *ContractService) AgentSign(ctx context.Context, contractID uuid.UUID, signature []byte) (*models.Contract, error) {
	contract, err := s.transitionWithRetry(ctx, contractID, func(c *models.Contract) (*models.Contract, error) {
		return s.contractRepo.SignByAgentAtomic(ctx, c.ID, signature, c.RowVersion)
	})
	if err != nil {
		return nil, err
	}

	s.notifyWithDocument(ctx, contract, "Contract active",
		fmt.Sprintf("Contract %s is fully signed and now active.", contract.ID))
	return contract, nil
}

// Edit updates the terms of a contract that nobody has signed yet. A
// space that already holds products also blocks edits.
func (s *ContractService) Edit(ctx context.Context, contractID uuid.UUID, params EditContractParams) (*models.Contract, error) {
	contract, err := s.contractRepo.GetByID(ctx, contractID)
	if err != nil {
		return nil, err
	}
	if contract == nil {
		return nil, utils.ErrNotFound
	}
	if contract.State != models.ContractStatePendingVerification {
		return nil, utils.ErrInvalidTransition
	}
	products, err := s.productRepo.ListActiveBySpaceID(ctx, contract.SpaceID)
	if err != nil {
		return nil, err
	}
	if len(products) > 0 {
		return nil, utils.ErrSpaceInUse
	}

	if params.StartDate != nil {
		contract.StartDate = *params.StartDate
	}
	if params.EndDate != nil {
		contract.EndDate = *params.EndDate
	}
	if params.Value != nil {
		contract.Value = *params.Value
	}
	if params.Description != nil {
		contract.Description = *params.Description
	}
	if params.BillingDetails != nil {
		contract.BillingDetails = params.BillingDetails
	}

	updated, err := s.contractRepo.UpdateTermsAtomic(ctx, contract, contract.RowVersion)
	if err != nil {
		if errors.Is(err, utils.ErrStateConflict) || errors.Is(err, utils.ErrRowVersionConflict) {
			return nil, utils.ErrInvalidTransition
		}
		return nil, err
	}

	if client, err := s.clientRepo.GetByID(ctx, updated.ClientID); err == nil && client != nil {
		_ = s.notifier.Notify(client.Name, client.Email, "Contract terms updated",
			fmt.Sprintf("The terms of contract %s were updated before signing. Please review them.", updated.ID), nil)
	}
	return updated, nil
}

// Cancel terminates a contract from any non-terminal state and puts
// its space back to FREE. Cancelling an ACTIVE contract additionally
// sends the client a debt notice for the outstanding value.
func (s *ContractService) Cancel(ctx context.Context, contractID uuid.UUID) (*models.Contract, error) {
	var wasActive bool
	contract, err := s.transitionWithRetry(ctx, contractID, func(c *models.Contract) (*models.Contract, error) {
		wasActive = c.State == models.ContractStateActive
		return s.contractRepo.CancelAtomic(ctx, c.ID, []models.ContractState{
			models.ContractStatePendingVerification,
			models.ContractStateVerifiedByClient,
			models.ContractStateActive,
		}, c.RowVersion)
	})
	if err != nil {
		return nil, err
	}

	if _, err := s.ledger.Release(ctx, contract.SpaceID); err != nil {
		utils.Logger.WithError(err).Errorf("Failed to release space %s after cancelling contract %s", contract.SpaceID, contract.ID)
	}

	s.notifyParties(ctx, contract, "Contract cancelled",
		fmt.Sprintf("Contract %s has been cancelled.", contract.ID))
	if wasActive {
		s.sendDebtNotice(ctx, contract)
	}
	return contract, nil
}

func (s *ContractService) Get(ctx context.Context, contractID uuid.UUID) (*models.Contract, error) {
	c, err := s.contractRepo.GetByID(ctx, contractID)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, utils.ErrNotFound
	}
	return c, nil
}

func (s *ContractService) ListByClient(ctx context.Context, clientID uuid.UUID, f repositories.ContractFilter) ([]*models.Contract, error) {
	clampFilter(&f)
	return s.contractRepo.ListByClientID(ctx, clientID, f)
}

func (s *ContractService) ListByAgent(ctx context.Context, agentID uuid.UUID, f repositories.ContractFilter) ([]*models.Contract, error) {
	clampFilter(&f)
	return s.contractRepo.ListByAgentID(ctx, agentID, f)
}

// ListSpacesByClient returns the spaces the client currently holds
// through a live contract.
func (s *ContractService) ListSpacesByClient(ctx context.Context, clientID uuid.UUID) ([]*models.Space, error) {
	contracts, err := s.contractRepo.ListByClientID(ctx, clientID, repositories.ContractFilter{Limit: constants.MaxPageSize})
	if err != nil {
		return nil, err
	}

	var out []*models.Space
	seen := make(map[uuid.UUID]bool)
	for _, contract := range contracts {
		if contract.State == models.ContractStateCancelled || contract.State == models.ContractStateFinished {
			continue
		}
		if seen[contract.SpaceID] {
			continue
		}
		seen[contract.SpaceID] = true
		space, err := s.spaceRepo.GetByID(ctx, contract.SpaceID)
		if err != nil {
			return nil, err
		}
		if space != nil {
			out = append(out, space)
		}
	}
	return out, nil
}

func clampFilter(f *repositories.ContractFilter) {
	if f.Limit <= 0 {
		f.Limit = constants.DefaultPageSize
	}
	if f.Limit > constants.MaxPageSize {
		f.Limit = constants.MaxPageSize
	}
}

// transitionWithRetry binds an attempt to the state it observed at
// entry. A wrong state is final: the event is not legal from where the
// contract actually is. A bare row-version conflict (a concurrent edit
// that left the state alone) retries; a conflict that reveals a state
// change fails, so two racing transitions can never both apply.
func (s *ContractService) transitionWithRetry(
	ctx context.Context,
	contractID uuid.UUID,
	apply func(c *models.Contract) (*models.Contract, error),
) (*models.Contract, error) {
	contract, err := s.contractRepo.GetByID(ctx, contractID)
	if err != nil {
		return nil, err
	}
	if contract == nil {
		return nil, utils.ErrNotFound
	}
	observed := contract.State

	for {
		updated, err := apply(contract)
		if err == nil {
			return updated, nil
		}
		if errors.Is(err, utils.ErrStateConflict) {
			return nil, utils.ErrInvalidTransition
		}
		if !errors.Is(err, utils.ErrRowVersionConflict) {
			return nil, err
		}

		contract, err = s.contractRepo.GetByID(ctx, contractID)
		if err != nil {
			return nil, err
		}
		if contract == nil {
			return nil, utils.ErrNotFound
		}
		if contract.State != observed {
			return nil, utils.ErrInvalidTransition
		}
	}
}

func (s *ContractService) notifyWithDocument(ctx context.Context, contract *models.Contract, subject, body string) {
	client, agent, ok := s.parties(ctx, contract)
	if !ok {
		return
	}
	var attachment *Attachment
	doc, err := s.renderer.RenderContractDocument(contract, client, agent)
	if err != nil {
		utils.Logger.WithError(err).Errorf("Failed to render document for contract %s", contract.ID)
	} else {
		attachment = &Attachment{
			Filename:    fmt.Sprintf("contract-%s.txt", contract.ID),
			ContentType: "text/plain",
			Data:        doc,
		}
	}
	_ = s.notifier.Notify(client.Name, client.Email, subject, body, attachment)
	_ = s.notifier.Notify(agent.Name, agent.Email, subject, body, attachment)
}

func (s *ContractService) notifyParties(ctx context.Context, contract *models.Contract, subject, body string) {
	client, agent, ok := s.parties(ctx, contract)
	if !ok {
		return
	}
	_ = s.notifier.Notify(client.Name, client.Email, subject, body, nil)
	_ = s.notifier.Notify(agent.Name, agent.Email, subject, body, nil)
}

func (s *ContractService) sendDebtNotice(ctx context.Context, contract *models.Contract) {
	client, err := s.clientRepo.GetByID(ctx, contract.ClientID)
	if err != nil || client == nil {
		utils.Logger.WithError(err).Warnf("Failed to fetch client %s for debt notice", contract.ClientID)
		return
	}
	var attachment *Attachment
	notice, err := s.renderer.RenderDebtNotice(contract, client)
	if err != nil {
		utils.Logger.WithError(err).Errorf("Failed to render debt notice for contract %s", contract.ID)
	} else {
		attachment = &Attachment{
			Filename:    fmt.Sprintf("debt-notice-%s.txt", contract.ID),
			ContentType: "text/plain",
			Data:        notice,
		}
	}
	_ = s.notifier.Notify(client.Name, client.Email, "Outstanding balance on cancelled contract",
		fmt.Sprintf("Contract %s was cancelled while active; the attached notice details the outstanding amount.", contract.ID),
		attachment)
}

func (s *ContractService) parties(ctx context.Context, contract *models.Contract) (*models.Client, *models.SalesAgent, bool) {
	client, err := s.clientRepo.GetByID(ctx, contract.ClientID)
	if err != nil || client == nil {
		utils.Logger.WithError(err).Warnf("Failed to fetch client %s for notification", contract.ClientID)
		return nil, nil, false
	}
	agent, err := s.agentRepo.GetByID(ctx, contract.AgentID)
	if err != nil || agent == nil {
		utils.Logger.WithError(err).Warnf("Failed to fetch agent %s for notification", contract.AgentID)
		return nil, nil, false
	}
	return client, agent, true
}
