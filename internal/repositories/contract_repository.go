package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"

	"github.com/store-it/rental-service/internal/models"
	"github.com/store-it/rental-service/internal/utils"
)

// ContractFilter narrows the per-client / per-agent listings.
type ContractFilter struct {
	StartDate *time.Time
	State     *models.ContractState
	Limit     int
	Offset    int
}

type ContractRepository interface {
	Create(ctx context.Context, c *models.Contract) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Contract, error)

	// FindLiveBySpaceAndClient looks up the non-terminal contract that
	// binds the client to the space; check-ins require one.
	FindLiveBySpaceAndClient(ctx context.Context, spaceID, clientID uuid.UUID) (*models.Contract, error)

	ListByClientID(ctx context.Context, clientID uuid.UUID, f ContractFilter) ([]*models.Contract, error)
	ListByAgentID(ctx context.Context, agentID uuid.UUID, f ContractFilter) ([]*models.Contract, error)

	// FindPendingOlderThan selects the expiry-sweep candidates: still
	// PENDING_VERIFICATION, unsigned by the client, started before cutoff.
	FindPendingOlderThan(ctx context.Context, cutoff time.Time) ([]*models.Contract, error)

	SignByClientAtomic(ctx context.Context, id uuid.UUID, signature []byte, signedAt time.Time, expectedVersion int64) (*models.Contract, error)
	SignByAgentAtomic(ctx context.Context, id uuid.UUID, signature []byte, expectedVersion int64) (*models.Contract, error)
	CancelAtomic(ctx context.Context, id uuid.UUID, from []models.ContractState, expectedVersion int64) (*models.Contract, error)
	UpdateTermsAtomic(ctx context.Context, c *models.Contract, expectedVersion int64) (*models.Contract, error)
}

type contractRepo struct {
	db DB
}

func NewContractRepository(db DB) ContractRepository {
	return &contractRepo{db: db}
}

func baseSelectContract() string {
	return `
        SELECT
            id, client_id, agent_id, space_id,
            start_date, end_date, value, description, state,
            client_signature, client_signed_at, agent_signature,
            billing_details, created_at, updated_at, row_version
        FROM contracts
    `
}

func scanContract(row pgx.Row) (*models.Contract, error) {
	var c models.Contract
	var billing []byte
	err := row.Scan(
		&c.ID,
		&c.ClientID,
		&c.AgentID,
		&c.SpaceID,
		&c.StartDate,
		&c.EndDate,
		&c.Value,
		&c.Description,
		&c.State,
		&c.ClientSignature,
		&c.ClientSignedAt,
		&c.AgentSignature,
		&billing,
		&c.CreatedAt,
		&c.UpdatedAt,
		&c.RowVersion,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	if len(billing) > 0 {
		if err := json.Unmarshal(billing, &c.BillingDetails); err != nil {
			return nil, fmt.Errorf("decode billing details for contract %s: %w", c.ID, err)
		}
	}
	return &c, nil
}

func (r *contractRepo) Create(ctx context.Context, c *models.Contract) error {
	billing, err := json.Marshal(c.BillingDetails)
	if err != nil {
		return fmt.Errorf("encode billing details: %w", err)
	}
	_, err = r.db.Exec(ctx, `
        INSERT INTO contracts (
            id, client_id, agent_id, space_id,
            start_date, end_date, value, description, state,
            billing_details, created_at, updated_at, row_version
        ) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10, NOW(), NOW(), 1)
    `,
		c.ID,
		c.ClientID,
		c.AgentID,
		c.SpaceID,
		c.StartDate,
		c.EndDate,
		c.Value,
		c.Description,
		c.State,
		billing,
	)
	return err
}

func (r *contractRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Contract, error) {
	row := r.db.QueryRow(ctx, baseSelectContract()+" WHERE id=$1", id)
	return scanContract(row)
}

func (r *contractRepo) FindLiveBySpaceAndClient(ctx context.Context, spaceID, clientID uuid.UUID) (*models.Contract, error) {
	row := r.db.QueryRow(ctx,
		baseSelectContract()+` WHERE space_id=$1 AND client_id=$2 AND state = ANY($3) LIMIT 1`,
		spaceID, clientID,
		[]models.ContractState{
			models.ContractStatePendingVerification,
			models.ContractStateVerifiedByClient,
			models.ContractStateActive,
		})
	return scanContract(row)
}

func (r *contractRepo) ListByClientID(ctx context.Context, clientID uuid.UUID, f ContractFilter) ([]*models.Contract, error) {
	return r.listByParty(ctx, "client_id", clientID, f)
}

func (r *contractRepo) ListByAgentID(ctx context.Context, agentID uuid.UUID, f ContractFilter) ([]*models.Contract, error) {
	return r.listByParty(ctx, "agent_id", agentID, f)
}

func (r *contractRepo) listByParty(ctx context.Context, column string, partyID uuid.UUID, f ContractFilter) ([]*models.Contract, error) {
	sql := baseSelectContract() + fmt.Sprintf(" WHERE %s=$1", column)
	args := []any{partyID}

	if f.StartDate != nil {
		args = append(args, *f.StartDate)
		sql += fmt.Sprintf(" AND start_date::date = $%d::date", len(args))
	}
	if f.State != nil {
		args = append(args, *f.State)
		sql += fmt.Sprintf(" AND state = $%d", len(args))
	}
	sql += " ORDER BY created_at DESC"
	if f.Limit > 0 {
		args = append(args, f.Limit)
		sql += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if f.Offset > 0 {
		args = append(args, f.Offset)
		sql += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	return r.list(ctx, sql, args...)
}

func (r *contractRepo) FindPendingOlderThan(ctx context.Context, cutoff time.Time) ([]*models.Contract, error) {
	return r.list(ctx,
		baseSelectContract()+`
        WHERE state=$1 AND client_signature IS NULL AND start_date < $2
        ORDER BY start_date`,
		models.ContractStatePendingVerification, cutoff)
}

func (r *contractRepo) list(ctx context.Context, sql string, args ...any) ([]*models.Contract, error) {
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.Contract
	for rows.Next() {
		c, err := scanContract(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

/* ------------------------------------------------------------------
   State transitions

   Every transition runs in one transaction: SELECT ... FOR UPDATE,
   check the expected state and row version, then write. A contract
   observed in the wrong state fails with ErrStateConflict and the
   caller gets the latest row to decide what to do.
------------------------------------------------------------------ */

func (r *contractRepo) SignByClientAtomic(
	ctx context.Context,
	id uuid.UUID,
	signature []byte,
	signedAt time.Time,
	expectedVersion int64,
) (*models.Contract, error) {
	return r.transition(ctx, id,
		[]models.ContractState{models.ContractStatePendingVerification},
		expectedVersion,
		`client_signature=$1, client_signed_at=$2, state=$3`,
		signature, signedAt, models.ContractStateVerifiedByClient,
	)
}

func (r *contractRepo) SignByAgentAtomic(
	ctx context.Context,
	id uuid.UUID,
	signature []byte,
	expectedVersion int64,
) (*models.Contract, error) {
	return r.transition(ctx, id,
		[]models.ContractState{models.ContractStateVerifiedByClient},
		expectedVersion,
		`agent_signature=$1, state=$2`,
		signature, models.ContractStateActive,
	)
}

func (r *contractRepo) CancelAtomic(
	ctx context.Context,
	id uuid.UUID,
	from []models.ContractState,
	expectedVersion int64,
) (*models.Contract, error) {
	return r.transition(ctx, id, from, expectedVersion,
		`state=$1`, models.ContractStateCancelled,
	)
}

func (r *contractRepo) UpdateTermsAtomic(ctx context.Context, c *models.Contract, expectedVersion int64) (*models.Contract, error) {
	billing, err := json.Marshal(c.BillingDetails)
	if err != nil {
		return nil, fmt.Errorf("encode billing details: %w", err)
	}
	return r.transition(ctx, c.ID,
		[]models.ContractState{models.ContractStatePendingVerification},
		expectedVersion,
		`start_date=$1, end_date=$2, value=$3, description=$4, billing_details=$5`,
		c.StartDate, c.EndDate, c.Value, c.Description, billing,
	)
}

func (r *contractRepo) transition(
	ctx context.Context,
	id uuid.UUID,
	allowed []models.ContractState,
	expectedVersion int64,
	setClause string,
	setArgs ...any,
) (*models.Contract, error) {
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

	row := tx.QueryRow(ctx, baseSelectContract()+" WHERE id=$1 FOR UPDATE", id)
	c, err := scanContract(row)
	if err != nil {
		return nil, err
	}
	if c == nil {
		err = pgx.ErrNoRows
		return nil, err
	}
	if !stateAllowed(c.State, allowed) {
		err = utils.ErrStateConflict
		return c, err
	}
	if c.RowVersion != expectedVersion {
		err = utils.ErrRowVersionConflict
		return c, err
	}

	sql := fmt.Sprintf(
		"UPDATE contracts SET %s, row_version=row_version+1, updated_at=NOW() WHERE id=$%d",
		setClause, len(setArgs)+1,
	)
	_, err = tx.Exec(ctx, sql, append(setArgs, id)...)
	if err != nil {
		return nil, err
	}
	newRow := tx.QueryRow(ctx, baseSelectContract()+" WHERE id=$1", id)
	var updated *models.Contract
	updated, err = scanContract(newRow)
	return updated, err
}

func stateAllowed(s models.ContractState, allowed []models.ContractState) bool {
	for _, a := range allowed {
		if s == a {
			return true
		}
	}
	return false
}
