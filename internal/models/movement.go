package models

import (
	"time"

	"github.com/google/uuid"
)

type MovementKind string

const (
	MovementCheckIn  MovementKind = "CHECK_IN"
	MovementCheckOut MovementKind = "CHECK_OUT"
)

// Movement is the immutable audit record of a product entering or
// leaving a space. Rows are only ever inserted.
type Movement struct {
	ID         uuid.UUID    `json:"id"`
	ProductID  uuid.UUID    `json:"product_id"`
	SpaceID    uuid.UUID    `json:"space_id"`
	StaffID    uuid.UUID    `json:"staff_id"`
	Kind       MovementKind `json:"kind"`
	OccurredAt time.Time    `json:"occurred_at"`
	Note       string       `json:"note,omitempty"`
}
