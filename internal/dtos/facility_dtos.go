package dtos

// CreateWarehouseRequest registers a new facility.
type CreateWarehouseRequest struct {
	Address   string  `json:"address" validate:"required"`
	Phone     string  `json:"phone" validate:"omitempty,e164"`
	TotalArea float64 `json:"total_area" validate:"required,gt=0"`
	Height    float64 `json:"height" validate:"required,gt=0"`
}

// EditWarehouseRequest updates facility details; omitted fields keep
// their current value. OCCUPIED is derived, so status only toggles
// between ACTIVE and INACTIVE here.
type EditWarehouseRequest struct {
	Address *string  `json:"address" validate:"omitempty,min=1"`
	Phone   *string  `json:"phone" validate:"omitempty,e164"`
	Height  *float64 `json:"height" validate:"omitempty,gt=0"`
	Status  *string  `json:"status" validate:"omitempty,oneof=ACTIVE INACTIVE"`
}

// CreateSpaceRequest carves a space out of a warehouse.
type CreateSpaceRequest struct {
	TotalArea     float64 `json:"total_area" validate:"required,gt=0"`
	AvailableArea float64 `json:"available_area" validate:"required,gt=0"`
	Height        float64 `json:"height" validate:"required,gt=0"`
}

// EditSpaceRequest adjusts declared capacity; omitted fields keep
// their current value.
type EditSpaceRequest struct {
	AvailableArea *float64 `json:"available_area" validate:"omitempty,gt=0"`
	Height        *float64 `json:"height" validate:"omitempty,gt=0"`
}
