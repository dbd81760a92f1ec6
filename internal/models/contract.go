package models

import (
	"time"

	"github.com/google/uuid"
)

type ContractState string

const (
	ContractStatePendingVerification ContractState = "PENDING_VERIFICATION"
	ContractStateVerifiedByClient    ContractState = "VERIFIED_BY_CLIENT"
	ContractStateActive              ContractState = "ACTIVE"
	ContractStateCancelled           ContractState = "CANCELLED"
	ContractStateFinished            ContractState = "FINISHED"
)

// BillingDetail is a line item captured on the contract. The service
// stores them verbatim; pricing computation lives elsewhere.
type BillingDetail struct {
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
}

// Contract binds one client, one sales agent and exactly one space.
// State only moves through the transitions the service exposes; every
// write is gated on the expected state and row version.
type Contract struct {
	Versioned

	ID       uuid.UUID `json:"id"`
	ClientID uuid.UUID `json:"client_id"`
	AgentID  uuid.UUID `json:"agent_id"`
	SpaceID  uuid.UUID `json:"space_id"`

	StartDate   time.Time `json:"start_date"`
	EndDate     time.Time `json:"end_date"`
	Value       float64   `json:"value"`
	Description string    `json:"description,omitempty"`

	State ContractState `json:"state"`

	ClientSignature []byte     `json:"-"`
	ClientSignedAt  *time.Time `json:"client_signed_at,omitempty"`
	AgentSignature  []byte     `json:"-"`

	BillingDetails []BillingDetail `json:"billing_details,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (c *Contract) GetID() string {
	return c.ID.String()
}
