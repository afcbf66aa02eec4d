package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"adframes/internal/domain"
)

func TestDerive_StaticTiersDecrease(t *testing.T) {
	d := NewDeriver(0)
	for _, rate := range []float64{0.01, 1, 999.99, 60000, 1e9} {
		tiers, modes, err := d.Derive(rate, domain.CategoryStatic)
		require.NoError(t, err)
		assert.Less(t, tiers.FourteenDay, rate)
		assert.Less(t, tiers.Weekly, tiers.FourteenDay)
		assert.Greater(t, tiers.Weekly, 0.0)
		assert.Zero(t, tiers.Daily)
		assert.Zero(t, tiers.Spot)
		assert.Equal(t, []domain.ContractingMode{domain.ContractMonthly, domain.ContractFourteenDay, domain.ContractWeekly}, modes)
	}
}

func TestDerive_Digital(t *testing.T) {
	tiers, modes, err := NewDeriver(144).Derive(60000, domain.CategoryDigital)
	require.NoError(t, err)

	assert.Equal(t, 60000.0, tiers.Monthly)
	assert.InDelta(t, 16800, tiers.Weekly, 1e-6)
	assert.InDelta(t, 2400, tiers.Daily, 1e-6)
	assert.InDelta(t, 2400.0/144, tiers.Spot, 1e-9)
	assert.Greater(t, tiers.Monthly, tiers.Weekly)
	assert.Greater(t, tiers.Weekly, tiers.Daily)
	assert.Greater(t, tiers.Daily, tiers.Spot)
	assert.Greater(t, tiers.Spot, 0.0)
	assert.Zero(t, tiers.FourteenDay)
	assert.Equal(t, []domain.ContractingMode{domain.ContractMonthly, domain.ContractWeekly, domain.ContractDaily, domain.ContractSpot}, modes)
}

func TestDerive_SlotsPerDayConfigurable(t *testing.T) {
	tiers, _, err := NewDeriver(10).Derive(3000, domain.CategoryDigital)
	require.NoError(t, err)
	assert.InDelta(t, tiers.Daily/10, tiers.Spot, 1e-9)
}

func TestDerive_NonPositiveRate(t *testing.T) {
	d := NewDeriver(0)
	for _, rate := range []float64{0, -1} {
		_, _, err := d.Derive(rate, domain.CategoryStatic)
		assert.ErrorIs(t, err, ErrNonPositiveRate)
	}
}

func TestDerive_UnknownCategory(t *testing.T) {
	_, _, err := NewDeriver(0).Derive(100, domain.FrameCategory("mural"))
	assert.Error(t, err)
}

func TestModes_ReturnsCopy(t *testing.T) {
	m := Modes(domain.CategoryStatic)
	m[0] = "changed"
	assert.Equal(t, domain.ContractMonthly, Modes(domain.CategoryStatic)[0])
}
