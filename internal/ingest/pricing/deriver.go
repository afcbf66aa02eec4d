// Package pricing derives the dependent price tiers of a frame from its
// published monthly rate.
package pricing

import (
	"errors"

	"adframes/internal/domain"
)

// DefaultSlotsPerDay is the number of spot slots a digital frame sells per day.
const DefaultSlotsPerDay = 144

const (
	daysPerMonth      = 30.0
	fourteenDayFactor = 1.10
	weeklyFactor      = 1.20
)

var ErrNonPositiveRate = errors.New("published rate must be positive")

var (
	staticModes  = []domain.ContractingMode{domain.ContractMonthly, domain.ContractFourteenDay, domain.ContractWeekly}
	digitalModes = []domain.ContractingMode{domain.ContractMonthly, domain.ContractWeekly, domain.ContractDaily, domain.ContractSpot}
)

// Deriver computes price tiers for a category.
type Deriver struct {
	SlotsPerDay int
}

// NewDeriver returns a Deriver, falling back to DefaultSlotsPerDay when
// slotsPerDay is not positive.
func NewDeriver(slotsPerDay int) *Deriver {
	if slotsPerDay <= 0 {
		slotsPerDay = DefaultSlotsPerDay
	}
	return &Deriver{SlotsPerDay: slotsPerDay}
}

// Derive returns the full tier set and contracting modes for the category.
func (d *Deriver) Derive(monthly float64, category domain.FrameCategory) (domain.PriceTiers, []domain.ContractingMode, error) {
	if monthly <= 0 {
		return domain.PriceTiers{}, nil, ErrNonPositiveRate
	}
	tiers := domain.PriceTiers{
		Monthly: monthly,
		Weekly:  Weekly(monthly),
	}
	switch category {
	case domain.CategoryStatic:
		tiers.FourteenDay = FourteenDay(monthly)
		return tiers, Modes(category), nil
	case domain.CategoryDigital:
		tiers.Daily = tiers.Weekly / 7
		tiers.Spot = tiers.Daily / float64(d.slotsPerDay())
		return tiers, Modes(category), nil
	default:
		return domain.PriceTiers{}, nil, errors.New("unknown category " + string(category))
	}
}

func (d *Deriver) slotsPerDay() int {
	if d.SlotsPerDay <= 0 {
		return DefaultSlotsPerDay
	}
	return d.SlotsPerDay
}

// FourteenDay converts a monthly rate to the fourteen-day tier.
func FourteenDay(monthly float64) float64 {
	return monthly / daysPerMonth * 14 * fourteenDayFactor
}

// Weekly converts a monthly rate to the weekly tier.
func Weekly(monthly float64) float64 {
	return monthly / daysPerMonth * 7 * weeklyFactor
}

// Modes lists the contracting modes sold for a category.
func Modes(category domain.FrameCategory) []domain.ContractingMode {
	var src []domain.ContractingMode
	switch category {
	case domain.CategoryStatic:
		src = staticModes
	case domain.CategoryDigital:
		src = digitalModes
	}
	return append([]domain.ContractingMode(nil), src...)
}
