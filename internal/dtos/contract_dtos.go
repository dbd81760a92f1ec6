package dtos

import (
	"time"

	"github.com/google/uuid"
)

type BillingDetailDTO struct {
	Description string  `json:"description" validate:"required,max=255"`
	Amount      float64 `json:"amount" validate:"required"`
}

// CreateContractRequest opens a lease on a free space.
type CreateContractRequest struct {
	ClientID uuid.UUID `json:"client_id" validate:"required"`
	AgentID  uuid.UUID `json:"agent_id" validate:"required"`
	SpaceID  uuid.UUID `json:"space_id" validate:"required"`

	StartDate time.Time `json:"start_date" validate:"required"`
	EndDate   time.Time `json:"end_date" validate:"required,gtfield=StartDate"`
	Value     float64   `json:"value" validate:"gte=0"`

	Description    string             `json:"description" validate:"omitempty,max=2000"`
	BillingDetails []BillingDetailDTO `json:"billing_details" validate:"omitempty,dive"`
}

// SignContractRequest carries a signature image, base64 encoded.
type SignContractRequest struct {
	Signature string `json:"signature" validate:"required,base64"`
}

// EditContractRequest changes terms before either party has signed;
// omitted fields keep their current value.
type EditContractRequest struct {
	StartDate      *time.Time         `json:"start_date"`
	EndDate        *time.Time         `json:"end_date"`
	Value          *float64           `json:"value" validate:"omitempty,gte=0"`
	Description    *string            `json:"description" validate:"omitempty,max=2000"`
	BillingDetails []BillingDetailDTO `json:"billing_details" validate:"omitempty,dive"`
}
