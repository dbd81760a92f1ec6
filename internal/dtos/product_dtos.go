package dtos

import "github.com/google/uuid"

// CheckInRequest stores a product in a space. The client must hold the
// active contract on the space.
type CheckInRequest struct {
	ClientID uuid.UUID `json:"client_id" validate:"required"`
	StaffID  uuid.UUID `json:"staff_id" validate:"required"`

	Name        string  `json:"name" validate:"required,max=255"`
	Description string  `json:"description" validate:"omitempty,max=2000"`
	Footprint   float64 `json:"footprint" validate:"required,gt=0"`
	Height      float64 `json:"height" validate:"omitempty,gt=0"`
	Fragile     bool    `json:"fragile"`
	Note        string  `json:"note" validate:"omitempty,max=500"`
}

// CheckOutRequest retires a product from a space.
type CheckOutRequest struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	StaffID   uuid.UUID `json:"staff_id" validate:"required"`
	Note      string    `json:"note" validate:"omitempty,max=500"`
}
