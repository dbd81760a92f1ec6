package models

import (
	"time"

	"github.com/google/uuid"
)

type SpaceStatus string

const (
	SpaceStatusFree            SpaceStatus = "FREE"
	SpaceStatusLeasedAvailable SpaceStatus = "LEASED_AVAILABLE"
	SpaceStatusLeasedFull      SpaceStatus = "LEASED_FULL"
)

// Space is a leasable subdivision of a Warehouse. AvailableArea is the
// administratively declared capacity and may differ from TotalArea.
// ContractID points at the live contract holding the space, if any;
// while one exists the status is a pure function of occupancy.
type Space struct {
	Versioned

	ID          uuid.UUID  `json:"id"`
	WarehouseID uuid.UUID  `json:"warehouse_id"`
	ContractID  *uuid.UUID `json:"contract_id,omitempty"`

	TotalArea     AreaQuantity `json:"total_area"`
	AvailableArea AreaQuantity `json:"available_area"`
	Height        float64      `json:"height"`
	Status        SpaceStatus  `json:"status"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (s *Space) GetID() string {
	return s.ID.String()
}

// Occupied sums the footprints of the products currently stored in s.
// Retired products no longer consume area.
func (s *Space) Occupied(products []*Product) AreaQuantity {
	var sum AreaQuantity
	for _, p := range products {
		if p.Status == ProductStatusInWarehouse {
			sum = sum.Add(p.Footprint)
		}
	}
	return sum
}

// Remaining is the capacity left for further check-ins.
func (s *Space) Remaining(products []*Product) AreaQuantity {
	return s.AvailableArea.Sub(s.Occupied(products))
}

func (s *Space) IsFull(products []*Product) bool {
	return s.AvailableArea.LessEq(s.Occupied(products))
}

// DeriveStatus computes the status the space should hold given its
// current occupancy: FREE with no contract, otherwise LEASED_FULL or
// LEASED_AVAILABLE depending on remaining capacity.
func (s *Space) DeriveStatus(products []*Product) SpaceStatus {
	if s.ContractID == nil {
		return SpaceStatusFree
	}
	if s.IsFull(products) {
		return SpaceStatusLeasedFull
	}
	return SpaceStatusLeasedAvailable
}
