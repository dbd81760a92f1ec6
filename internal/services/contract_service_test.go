package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/store-it/rental-service/internal/models"
	"github.com/store-it/rental-service/internal/utils"
)

func TestContractHappyPath(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	space := f.addSpace(100)
	start := time.Now()

	contract, err := f.contracts.Create(ctx, CreateContractParams{
		ClientID:  f.client.ID,
		AgentID:   f.agent.ID,
		SpaceID:   space.ID,
		StartDate: start,
		EndDate:   start.AddDate(1, 0, 0),
		Value:     1200,
		BillingDetails: []models.BillingDetail{
			{Description: "monthly rent", Amount: 100},
		},
	})
	require.NoError(t, err)
	require.Equal(t, models.ContractStatePendingVerification, contract.State)

	// The space is reserved immediately.
	leased, err := f.spaceRepo.GetByID(ctx, space.ID)
	require.NoError(t, err)
	require.Equal(t, models.SpaceStatusLeasedAvailable, leased.Status)
	require.NotNil(t, leased.ContractID)
	require.Equal(t, contract.ID, *leased.ContractID)

	contract, err = f.contracts.ClientSign(ctx, contract.ID, []byte("client-sig"))
	require.NoError(t, err)
	require.Equal(t, models.ContractStateVerifiedByClient, contract.State)
	require.NotNil(t, contract.ClientSignedAt)

	contract, err = f.contracts.AgentSign(ctx, contract.ID, []byte("agent-sig"))
	require.NoError(t, err)
	require.Equal(t, models.ContractStateActive, contract.State)

	// Both parties were notified at each step.
	require.NotEmpty(t, f.notifier.sentTo(f.client.Email))
	require.NotEmpty(t, f.notifier.sentTo(f.agent.Email))
}

func TestCreateRejectsNonFreeSpace(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	space := f.addSpace(100)
	_, err := f.leaseSpace(ctx, space, time.Now())
	require.NoError(t, err)

	_, err = f.contracts.Create(ctx, CreateContractParams{
		ClientID:  f.client.ID,
		AgentID:   f.agent.ID,
		SpaceID:   space.ID,
		StartDate: time.Now(),
		EndDate:   time.Now().AddDate(1, 0, 0),
	})
	require.ErrorIs(t, err, utils.ErrSpaceNotFree)
}

func TestCreateRejectsInactiveParties(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	space := f.addSpace(100)

	require.NoError(t, f.clientRepo.SetStatus(ctx, f.client.ID, models.AccountStatusInactive))
	_, err := f.contracts.Create(ctx, CreateContractParams{
		ClientID:  f.client.ID,
		AgentID:   f.agent.ID,
		SpaceID:   space.ID,
		StartDate: time.Now(),
		EndDate:   time.Now().AddDate(1, 0, 0),
	})
	require.ErrorIs(t, err, utils.ErrAccountNotActive)

	require.NoError(t, f.clientRepo.SetStatus(ctx, f.client.ID, models.AccountStatusActive))
	require.NoError(t, f.agentRepo.SetStatus(ctx, f.agent.ID, models.AccountStatusDeleted))
	_, err = f.contracts.Create(ctx, CreateContractParams{
		ClientID:  f.client.ID,
		AgentID:   f.agent.ID,
		SpaceID:   space.ID,
		StartDate: time.Now(),
		EndDate:   time.Now().AddDate(1, 0, 0),
	})
	require.ErrorIs(t, err, utils.ErrAccountNotActive)
}

func TestCreateRejectsInactiveWarehouse(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	space := f.addSpace(100)

	err := f.warehouseRepo.UpdateWithRetry(ctx, f.warehouse.ID, func(w *models.Warehouse) error {
		w.Status = models.WarehouseStatusInactive
		return nil
	})
	require.NoError(t, err)

	_, err = f.contracts.Create(ctx, CreateContractParams{
		ClientID:  f.client.ID,
		AgentID:   f.agent.ID,
		SpaceID:   space.ID,
		StartDate: time.Now(),
		EndDate:   time.Now().AddDate(1, 0, 0),
	})
	require.ErrorIs(t, err, utils.ErrWarehouseNotActive)
}

// Every lifecycle event fired from a state that does not allow it must
// come back as ErrInvalidTransition with the contract unchanged.
func TestTransitionTotality(t *testing.T) {
	ctx := context.Background()

	type event struct {
		name  string
		apply func(f *fixture, id uuid.UUID) error
	}
	events := []event{
		{"ClientSign", func(f *fixture, id uuid.UUID) error {
			_, err := f.contracts.ClientSign(ctx, id, []byte("sig"))
			return err
		}},
		{"AgentSign", func(f *fixture, id uuid.UUID) error {
			_, err := f.contracts.AgentSign(ctx, id, []byte("sig"))
			return err
		}},
		{"Cancel", func(f *fixture, id uuid.UUID) error {
			_, err := f.contracts.Cancel(ctx, id)
			return err
		}},
	}

	// allowed[state] lists the events legal from that state.
	allowed := map[models.ContractState]map[string]bool{
		models.ContractStatePendingVerification: {"ClientSign": true, "Cancel": true},
		models.ContractStateVerifiedByClient:    {"AgentSign": true, "Cancel": true},
		models.ContractStateActive:              {"Cancel": true},
		models.ContractStateCancelled:           {},
	}

	reach := map[models.ContractState]func(f *fixture, id uuid.UUID){
		models.ContractStatePendingVerification: func(f *fixture, id uuid.UUID) {},
		models.ContractStateVerifiedByClient: func(f *fixture, id uuid.UUID) {
			_, err := f.contracts.ClientSign(ctx, id, []byte("sig"))
			require.NoError(t, err)
		},
		models.ContractStateActive: func(f *fixture, id uuid.UUID) {
			_, err := f.contracts.ClientSign(ctx, id, []byte("sig"))
			require.NoError(t, err)
			_, err = f.contracts.AgentSign(ctx, id, []byte("sig"))
			require.NoError(t, err)
		},
		models.ContractStateCancelled: func(f *fixture, id uuid.UUID) {
			_, err := f.contracts.Cancel(ctx, id)
			require.NoError(t, err)
		},
	}

	for state, setup := range reach {
		for _, ev := range events {
			f := newFixture()
			space := f.addSpace(100)
			contract, err := f.contracts.Create(ctx, CreateContractParams{
				ClientID:  f.client.ID,
				AgentID:   f.agent.ID,
				SpaceID:   space.ID,
				StartDate: time.Now(),
				EndDate:   time.Now().AddDate(1, 0, 0),
			})
			require.NoError(t, err)
			setup(f, contract.ID)

			before, err := f.contractRepo.GetByID(ctx, contract.ID)
			require.NoError(t, err)
			require.Equal(t, state, before.State)

			err = ev.apply(f, contract.ID)
			if allowed[state][ev.name] {
				require.NoError(t, err, "%s from %s", ev.name, state)
				continue
			}
			require.ErrorIs(t, err, utils.ErrInvalidTransition, "%s from %s", ev.name, state)

			after, err := f.contractRepo.GetByID(ctx, contract.ID)
			require.NoError(t, err)
			require.Equal(t, before.State, after.State)
			require.Equal(t, before.RowVersion, after.RowVersion)
		}
	}
}

// Cancelling from either PENDING_VERIFICATION or ACTIVE always leaves
// the space FREE with nothing attributable to the contract.
func TestCancelReleasesSpace(t *testing.T) {
	ctx := context.Background()

	t.Run("from pending", func(t *testing.T) {
		f := newFixture()
		space := f.addSpace(100)
		contract, err := f.contracts.Create(ctx, CreateContractParams{
			ClientID:  f.client.ID,
			AgentID:   f.agent.ID,
			SpaceID:   space.ID,
			StartDate: time.Now(),
			EndDate:   time.Now().AddDate(1, 0, 0),
		})
		require.NoError(t, err)

		cancelled, err := f.contracts.Cancel(ctx, contract.ID)
		require.NoError(t, err)
		require.Equal(t, models.ContractStateCancelled, cancelled.State)

		freed, err := f.spaceRepo.GetByID(ctx, space.ID)
		require.NoError(t, err)
		require.Equal(t, models.SpaceStatusFree, freed.Status)
		require.Nil(t, freed.ContractID)
	})

	t.Run("from active sends debt notice", func(t *testing.T) {
		f := newFixture()
		space := f.addSpace(100)
		contract, err := f.leaseSpace(ctx, space, time.Now())
		require.NoError(t, err)

		_, err = f.contracts.Cancel(ctx, contract.ID)
		require.NoError(t, err)

		freed, err := f.spaceRepo.GetByID(ctx, space.ID)
		require.NoError(t, err)
		require.Equal(t, models.SpaceStatusFree, freed.Status)

		var debtNotices int
		for _, m := range f.notifier.sentTo(f.client.Email) {
			if m.Attachment != nil && m.Subject == "Outstanding balance on cancelled contract" {
				debtNotices++
			}
		}
		require.Equal(t, 1, debtNotices)
	})
}

func TestEditGuards(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	space := f.addSpace(100)
	start := time.Now()

	contract, err := f.contracts.Create(ctx, CreateContractParams{
		ClientID:  f.client.ID,
		AgentID:   f.agent.ID,
		SpaceID:   space.ID,
		StartDate: start,
		EndDate:   start.AddDate(1, 0, 0),
		Value:     1000,
	})
	require.NoError(t, err)

	// Unsigned and pending: edit goes through.
	newValue := 1500.0
	edited, err := f.contracts.Edit(ctx, contract.ID, EditContractParams{Value: &newValue})
	require.NoError(t, err)
	require.Equal(t, 1500.0, edited.Value)

	// After the client signs, terms are frozen.
	_, err = f.contracts.ClientSign(ctx, contract.ID, []byte("sig"))
	require.NoError(t, err)
	_, err = f.contracts.Edit(ctx, contract.ID, EditContractParams{Value: &newValue})
	require.ErrorIs(t, err, utils.ErrInvalidTransition)
}

// Concurrent Cancel and AgentSign from VERIFIED_BY_CLIENT: exactly one
// applies; the loser gets ErrInvalidTransition.
func TestCancelAgentSignRace(t *testing.T) {
	ctx := context.Background()

	for i := 0; i < 25; i++ {
		f := newFixture()
		space := f.addSpace(100)
		contract, err := f.contracts.Create(ctx, CreateContractParams{
			ClientID:  f.client.ID,
			AgentID:   f.agent.ID,
			SpaceID:   space.ID,
			StartDate: time.Now(),
			EndDate:   time.Now().AddDate(1, 0, 0),
		})
		require.NoError(t, err)
		_, err = f.contracts.ClientSign(ctx, contract.ID, []byte("sig"))
		require.NoError(t, err)

		var wg sync.WaitGroup
		var cancelErr, signErr error
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, cancelErr = f.contracts.Cancel(ctx, contract.ID)
		}()
		go func() {
			defer wg.Done()
			_, signErr = f.contracts.AgentSign(ctx, contract.ID, []byte("sig"))
		}()
		wg.Wait()

		final, err := f.contractRepo.GetByID(ctx, contract.ID)
		require.NoError(t, err)

		switch {
		case cancelErr == nil && signErr != nil:
			// Cancel won the race.
			require.ErrorIs(t, signErr, utils.ErrInvalidTransition)
			require.Equal(t, models.ContractStateCancelled, final.State)
		case signErr == nil && cancelErr != nil:
			// AgentSign won; the cancel observed VERIFIED_BY_CLIENT but
			// lost the swap.
			require.ErrorIs(t, cancelErr, utils.ErrInvalidTransition)
			require.Equal(t, models.ContractStateActive, final.State)
		case signErr == nil && cancelErr == nil:
			// Not a race: the cancel only started after activation and
			// legally cancelled the ACTIVE contract.
			require.Equal(t, models.ContractStateCancelled, final.State)
		default:
			t.Fatalf("both transitions failed: cancelErr=%v signErr=%v", cancelErr, signErr)
		}

		freed, err := f.spaceRepo.GetByID(ctx, space.ID)
		require.NoError(t, err)
		if final.State == models.ContractStateCancelled {
			require.Equal(t, models.SpaceStatusFree, freed.Status)
		} else {
			require.Equal(t, models.SpaceStatusLeasedAvailable, freed.Status)
		}
	}
}
