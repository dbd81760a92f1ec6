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

// SweeperService cancels contracts the client never signed. It runs on
// a timer but SweepOnce takes the wall clock as an argument so the
// policy is testable at any instant.
type SweeperService struct {
	contractRepo repositories.ContractRepository
	ledger       *LedgerService
	clientRepo   repositories.ClientRepository
	agentRepo    repositories.AgentRepository
	notifier     Notifier
	grace        time.Duration
}

func NewSweeperService(
	contractRepo repositories.ContractRepository,
	ledger *LedgerService,
	clientRepo repositories.ClientRepository,
	agentRepo repositories.AgentRepository,
	notifier Notifier,
) *SweeperService {
	return &SweeperService{
		contractRepo: contractRepo,
		ledger:       ledger,
		clientRepo:   clientRepo,
		agentRepo:    agentRepo,
		notifier:     notifier,
		grace:        constants.ClientSignatureGracePeriod,
	}
}

// SweepOnce cancels every contract still awaiting the client signature
// whose grace period has elapsed at now, releasing each contract's
// space. It returns the ids it cancelled. A contract a concurrent user
// action already moved out of PENDING_VERIFICATION is skipped without
// error, so running the sweep twice is a no-op the second time.
func (s *SweeperService) SweepOnce(ctx context.Context, now time.Time) ([]uuid.UUID, error) {
	cutoff := now.Add(-s.grace)
	candidates, err := s.contractRepo.FindPendingOlderThan(ctx, cutoff)
	if err != nil {
		return nil, err
	}

	var cancelled []uuid.UUID
	for _, contract := range candidates {
		ok, err := s.sweepOne(ctx, contract)
		if err != nil {
			utils.Logger.WithError(err).Errorf("Sweep failed for contract %s", contract.ID)
			continue
		}
		if ok {
			cancelled = append(cancelled, contract.ID)
		}
	}

	if len(cancelled) > 0 {
		utils.Logger.Infof("Expiry sweep cancelled %d unsigned contract(s)", len(cancelled))
	}
	return cancelled, nil
}

// sweepOne attempts the expiry transition for a single candidate.
// Returns false when a concurrent transition beat the sweep to it.
func (s *SweeperService) sweepOne(ctx context.Context, contract *models.Contract) (bool, error) {
	_, err := s.contractRepo.CancelAtomic(ctx, contract.ID,
		[]models.ContractState{models.ContractStatePendingVerification},
		contract.RowVersion)
	if err != nil {
		if errors.Is(err, utils.ErrStateConflict) || errors.Is(err, utils.ErrRowVersionConflict) {
			return false, nil
		}
		return false, err
	}

	if _, err := s.ledger.Release(ctx, contract.SpaceID); err != nil {
		utils.Logger.WithError(err).Errorf("Failed to release space %s for swept contract %s", contract.SpaceID, contract.ID)
	}

	s.notifyExpiry(ctx, contract)
	return true, nil
}

func (s *SweeperService) notifyExpiry(ctx context.Context, contract *models.Contract) {
	subject := "Contract cancelled: signature deadline passed"
	body := fmt.Sprintf(
		"Contract %s was cancelled because the client signature was not provided within %s of the start date.",
		contract.ID, s.grace,
	)
	if client, err := s.clientRepo.GetByID(ctx, contract.ClientID); err == nil && client != nil {
		_ = s.notifier.Notify(client.Name, client.Email, subject, body, nil)
	} else {
		utils.Logger.WithError(err).Warnf("Failed to fetch client %s for expiry notification", contract.ClientID)
	}
	if agent, err := s.agentRepo.GetByID(ctx, contract.AgentID); err == nil && agent != nil {
		_ = s.notifier.Notify(agent.Name, agent.Email, subject, body, nil)
	} else {
		utils.Logger.WithError(err).Warnf("Failed to fetch agent %s for expiry notification", contract.AgentID)
	}
}
