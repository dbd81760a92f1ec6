package models

import (
	"time"

	"github.com/google/uuid"
)

type ProductStatus string

const (
	ProductStatusInWarehouse ProductStatus = "IN_WAREHOUSE"
	ProductStatusRetired     ProductStatus = "RETIRED"
)

type Product struct {
	Versioned

	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`

	Footprint AreaQuantity `json:"footprint"`
	Height    float64      `json:"height"`
	Fragile   bool         `json:"fragile"`

	Status   ProductStatus `json:"status"`
	ClientID uuid.UUID     `json:"client_id"`
	SpaceID  uuid.UUID     `json:"space_id"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (p *Product) GetID() string {
	return p.ID.String()
}
