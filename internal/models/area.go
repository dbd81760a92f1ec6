package models

import "fmt"

// AreaQuantity is a non-negative area magnitude in square meters.
// Arithmetic stays inside the type so callers never mix units or
// drive an occupancy figure below zero.
type AreaQuantity float64

// SquareMeters builds an AreaQuantity from a raw magnitude.
// Negative inputs are treated as zero.
func SquareMeters(v float64) AreaQuantity {
	if v < 0 {
		return 0
	}
	return AreaQuantity(v)
}

func (a AreaQuantity) Add(b AreaQuantity) AreaQuantity {
	return a + b
}

// Sub clamps at zero: releasing more area than is held leaves zero,
// never a negative occupancy.
func (a AreaQuantity) Sub(b AreaQuantity) AreaQuantity {
	if b >= a {
		return 0
	}
	return a - b
}

func (a AreaQuantity) Less(b AreaQuantity) bool { return a < b }

func (a AreaQuantity) LessEq(b AreaQuantity) bool { return a <= b }

func (a AreaQuantity) IsZero() bool { return a == 0 }

// Value returns the magnitude in square meters.
func (a AreaQuantity) Value() float64 { return float64(a) }

func (a AreaQuantity) String() string {
	return fmt.Sprintf("%.2f m²", float64(a))
}
