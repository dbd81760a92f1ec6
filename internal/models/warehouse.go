package models

import (
	"time"

	"github.com/google/uuid"
)

type WarehouseStatus string

const (
	WarehouseStatusActive   WarehouseStatus = "ACTIVE"
	WarehouseStatusOccupied WarehouseStatus = "OCCUPIED"
	WarehouseStatusInactive WarehouseStatus = "INACTIVE"
)

// Warehouse is a physical facility subdivided into leasable spaces.
// Occupancy figures are derived from the spaces carved out of it; the
// stored Status only changes through an explicit recompute after a
// mutating operation, never from a read.
type Warehouse struct {
	Versioned

	ID        uuid.UUID       `json:"id"`
	Address   string          `json:"address"`
	Phone     string          `json:"phone"`
	TotalArea AreaQuantity    `json:"total_area"`
	Height    float64         `json:"height"`
	Status    WarehouseStatus `json:"status"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (w *Warehouse) GetID() string {
	return w.ID.String()
}

// Occupied sums the declared available area of the non-free spaces in w.
func (w *Warehouse) Occupied(spaces []*Space) AreaQuantity {
	var sum AreaQuantity
	for _, s := range spaces {
		if s.Status != SpaceStatusFree {
			sum = sum.Add(s.AvailableArea)
		}
	}
	return sum
}

// Available is the area not yet committed to leased spaces.
func (w *Warehouse) Available(spaces []*Space) AreaQuantity {
	return w.TotalArea.Sub(w.Occupied(spaces))
}

// IsFull reports whether the leased spaces consume the whole facility.
// Pure query; status flips happen in the ledger's recompute step.
func (w *Warehouse) IsFull(spaces []*Space) bool {
	return w.TotalArea.LessEq(w.Occupied(spaces))
}

func (w *Warehouse) IsEmpty(spaces []*Space) bool {
	return w.Occupied(spaces).IsZero()
}
