package models

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func carvedSpace(available float64, status SpaceStatus) *Space {
	return &Space{AvailableArea: SquareMeters(available), Status: status}
}

func TestWarehouseOccupiedCountsLeasedSpacesOnly(t *testing.T) {
	w := &Warehouse{TotalArea: SquareMeters(1000)}
	spaces := []*Space{
		carvedSpace(400, SpaceStatusLeasedAvailable),
		carvedSpace(200, SpaceStatusLeasedFull),
		carvedSpace(300, SpaceStatusFree),
	}
	require.Equal(t, SquareMeters(600), w.Occupied(spaces))
	require.Equal(t, SquareMeters(400), w.Available(spaces))
	require.False(t, w.IsFull(spaces))
	require.False(t, w.IsEmpty(spaces))
}

func TestWarehouseIsFullAtExactCommitment(t *testing.T) {
	w := &Warehouse{TotalArea: SquareMeters(1000)}
	spaces := []*Space{
		carvedSpace(600, SpaceStatusLeasedAvailable),
		carvedSpace(400, SpaceStatusLeasedFull),
	}
	require.True(t, w.IsFull(spaces))
	require.Equal(t, SquareMeters(0), w.Available(spaces))
}

func TestWarehouseIsEmptyWithOnlyFreeSpaces(t *testing.T) {
	w := &Warehouse{TotalArea: SquareMeters(1000)}
	require.True(t, w.IsEmpty(nil))
	require.True(t, w.IsEmpty([]*Space{carvedSpace(500, SpaceStatusFree)}))
}
