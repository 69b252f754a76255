package valuation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSweep(t *testing.T) {
	flows := flowsOf(42)
	discountAxis := []float64{0.08, 0.10, 0.12}
	growthAxis := []float64{0.02, 0.03}

	grid, err := Sweep(flows, discountAxis, growthAxis, 0, 10)
	require.NoError(t, err)

	assert.Equal(t, discountAxis, grid.DiscountAxis)
	assert.Equal(t, growthAxis, grid.GrowthAxis)
	require.Len(t, grid.Cells, len(discountAxis))

	for i, row := range grid.Cells {
		require.Len(t, row, len(growthAxis))
		for j, cell := range row {
			require.True(t, cell.Valid, "cell [%d][%d]", i, j)

			d, err := Discount(flows, discountAxis[i], growthAxis[j])
			require.NoError(t, err)
			want, err := Aggregate(d, 0, 10)
			require.NoError(t, err)
			assert.InDelta(t, want.ImpliedPerShare, cell.ImpliedPerShare, 1e-9)
		}
	}

	// Center cell matches the standalone single-pair pipeline.
	assert.InDelta(t, 60.0, grid.Cells[1][1].ImpliedPerShare, 1e-6)
}

func TestSweepInvalidCellsDoNotAbort(t *testing.T) {
	flows := flowsOf(42)
	discountAxis := []float64{0.02, 0.10}
	growthAxis := []float64{0.03, 0.10}

	grid, err := Sweep(flows, discountAxis, growthAxis, 0, 10)
	require.NoError(t, err)

	// Row 0 (rate 0.02) never exceeds either growth value.
	assert.False(t, grid.Cells[0][0].Valid)
	assert.False(t, grid.Cells[0][1].Valid)
	assert.Zero(t, grid.Cells[0][0].ImpliedPerShare)

	// Rate 0.10 clears growth 0.03 but equals growth 0.10.
	assert.True(t, grid.Cells[1][0].Valid)
	assert.False(t, grid.Cells[1][1].Valid)
}

func TestSweepAxisOrderPreserved(t *testing.T) {
	// Axes are used as given, unsorted; grid values must line up positionally.
	flows := flowsOf(42)
	discountAxis := []float64{0.12, 0.08}
	growthAxis := []float64{0.03, 0.01}

	grid, err := Sweep(flows, discountAxis, growthAxis, 0, 10)
	require.NoError(t, err)

	assert.Equal(t, []float64{0.12, 0.08}, grid.DiscountAxis)
	assert.Equal(t, []float64{0.03, 0.01}, grid.GrowthAxis)

	// Lower discount rate yields a higher implied value.
	assert.Greater(t, grid.Cells[1][0].ImpliedPerShare, grid.Cells[0][0].ImpliedPerShare)
}

func TestSweepStructuralErrors(t *testing.T) {
	flows := flowsOf(42)

	tests := []struct {
		name    string
		run     func() error
		wantErr error
	}{
		{
			name: "no flows",
			run: func() error {
				_, err := Sweep(nil, []float64{0.1}, []float64{0.03}, 0, 10)
				return err
			},
			wantErr: ErrInvalidSchedule,
		},
		{
			name: "zero shares",
			run: func() error {
				_, err := Sweep(flows, []float64{0.1}, []float64{0.03}, 0, 0)
				return err
			},
			wantErr: ErrInvalidShareCount,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.run(), tt.wantErr)
		})
	}

	_, err := Sweep(flows, nil, []float64{0.03}, 0, 10)
	assert.Error(t, err)
	_, err = Sweep(flows, []float64{0.1}, nil, 0, 10)
	assert.Error(t, err)
}

func TestRateRange(t *testing.T) {
	assert.Nil(t, RateRange(0.08, 0.12, 0))
	assert.Equal(t, []float64{0.08}, RateRange(0.08, 0.12, 1))

	r := RateRange(0.08, 0.12, 5)
	require.Len(t, r, 5)
	assert.InDelta(t, 0.08, r[0], 1e-12)
	assert.InDelta(t, 0.10, r[2], 1e-12)
	assert.InDelta(t, 0.12, r[4], 1e-12)
}
