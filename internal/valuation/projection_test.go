package valuation

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobmcallan/intrinsic/internal/models"
)

func TestProject(t *testing.T) {
	tests := []struct {
		name        string
		baseRevenue float64
		schedule    Schedule
		wantRevenue []float64
		wantFCF     []float64
	}{
		{
			name:        "single period",
			baseRevenue: 100,
			schedule:    Schedule{{Growth: 0.20, Margin: 0.35}},
			wantRevenue: []float64{120},
			wantFCF:     []float64{42},
		},
		{
			name:        "decelerating ramp",
			baseRevenue: 60.92,
			schedule:    SteppedSchedule([]float64{0.25, 0.20, 0.15, 0.10}, 0.35),
			wantRevenue: []float64{76.15, 91.38, 105.087, 115.5957},
			wantFCF:     []float64{26.6525, 31.983, 36.78045, 40.458495},
		},
		{
			name:        "negative growth shrinks revenue",
			baseRevenue: 200,
			schedule:    Schedule{{Growth: -0.50, Margin: 0.10}},
			wantRevenue: []float64{100},
			wantFCF:     []float64{10},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			periods, err := Project(tt.baseRevenue, tt.schedule)
			require.NoError(t, err)
			require.Len(t, periods, len(tt.wantRevenue))

			for i, p := range periods {
				assert.Equal(t, i+1, p.Period)
				assert.InDelta(t, tt.wantRevenue[i], p.Revenue, 1e-9)
				assert.InDelta(t, tt.wantFCF[i], p.FreeCashFlow, 1e-9)
			}
		})
	}
}

func TestProjectGeometricCompounding(t *testing.T) {
	// Constant growth g over n periods must land exactly on R*(1+g)^n.
	const (
		base   = 100.0
		growth = 0.07
		years  = 10
	)

	periods, err := Project(base, ConstantSchedule(growth, 0.30, years))
	require.NoError(t, err)

	final := periods[len(periods)-1]
	assert.InDelta(t, base*math.Pow(1+growth, years), final.Revenue, 1e-9)
}

func TestProjectInvalidSchedule(t *testing.T) {
	tests := []struct {
		name     string
		schedule Schedule
	}{
		{name: "empty schedule", schedule: nil},
		{name: "growth at -100%", schedule: Schedule{{Growth: -1.0, Margin: 0.35}}},
		{name: "growth below -100%", schedule: Schedule{{Growth: 0.20, Margin: 0.35}, {Growth: -1.5, Margin: 0.35}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			periods, err := Project(100, tt.schedule)
			assert.Nil(t, periods)
			assert.ErrorIs(t, err, ErrInvalidSchedule)
		})
	}
}

func TestProjectReturnsFreshSlices(t *testing.T) {
	schedule := ConstantSchedule(0.10, 0.35, 3)

	first, err := Project(100, schedule)
	require.NoError(t, err)
	second, err := Project(100, schedule)
	require.NoError(t, err)

	first[0].Revenue = -1
	assert.NotEqual(t, first[0].Revenue, second[0].Revenue)
}

func TestScheduleConstructors(t *testing.T) {
	assert.Nil(t, ConstantSchedule(0.1, 0.3, 0))
	assert.Nil(t, SteppedSchedule(nil, 0.3))

	s := ConstantSchedule(0.1, 0.3, 4)
	assert.Equal(t, 4, s.Horizon())
	for _, step := range s {
		assert.Equal(t, models.GrowthStep{Growth: 0.1, Margin: 0.3}, step)
	}

	ramp := SteppedSchedule([]float64{0.70, 0.60, 0.50}, 0.7)
	assert.Equal(t, 3, ramp.Horizon())
	assert.Equal(t, 0.60, ramp[1].Growth)
	assert.Equal(t, 0.7, ramp[1].Margin)
}
