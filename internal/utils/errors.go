package utils

import (
	"errors"
)

/*
   Sentinel errors for the rental-service domain logic.
   Controllers can do: if errors.Is(err, ErrXYZ) { ... }
*/
var (
	// Capacity failures
	ErrInsufficientArea     = errors.New("insufficient_area")
	ErrAreaBelowOccupied    = errors.New("area_below_occupied")
	ErrAreaExceedsWarehouse = errors.New("area_exceeds_warehouse")
	ErrHeightExceedsLimit   = errors.New("height_exceeds_warehouse")

	// Contract lifecycle failures
	ErrInvalidTransition = errors.New("invalid_transition")

	// Cross-entity guard failures
	ErrNotFound           = errors.New("not_found")
	ErrSpaceNotFree       = errors.New("space_not_free")
	ErrClientNotBound     = errors.New("client_not_bound_to_space")
	ErrSpaceNotLeased     = errors.New("space_not_leased")
	ErrSpaceInUse         = errors.New("space_in_use")
	ErrWarehouseNotActive = errors.New("warehouse_not_active")
	ErrAccountNotActive   = errors.New("account_not_active")
	ErrProductNotInSpace  = errors.New("product_not_in_space")

	// Concurrency conflicts
	ErrRowVersionConflict = errors.New("row_version_conflict")
	ErrStateConflict      = errors.New("state_conflict")
)
