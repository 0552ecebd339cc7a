package pricing

import "mareblu/internal/domain/shared/money"

// discountTiers maps minimum occupancy to the discount applied to the base
// price. A fully occupied stay pays full price; the emptier the apartments,
// the deeper the discount. Evaluated top-down, first match wins.
var discountTiers = []struct {
	MinOccupancy float64
	Percent      float64
}{
	{100, 0},
	{75, 12.5},
	{50, 27.5},
	{25, 37.5},
	{0, 40},
}

// OccupancyDiscount is the derived discount for one quote. It is computed
// fresh every time and never stored.
type OccupancyDiscount struct {
	OccupancyPercent float64
	DiscountPercent  float64
	Amount           money.Money
	DiscountedPrice  money.Money
}

// OccupancyPercent returns how full the selected apartments are, clamped to
// [0, 100]. A zero total capacity counts as empty.
func OccupancyPercent(guests, totalCapacity int) float64 {
	if totalCapacity <= 0 {
		return 0
	}
	pct := float64(guests) / float64(totalCapacity) * 100
	if pct > 100 {
		return 100
	}
	if pct < 0 {
		return 0
	}
	return pct
}

// DiscountPercentFor selects the tier for the given occupancy percentage.
func DiscountPercentFor(occupancyPct float64) float64 {
	for _, tier := range discountTiers {
		if occupancyPct >= tier.MinOccupancy {
			return tier.Percent
		}
	}
	return 0
}

// ComputeDiscount applies the occupancy tier for the group to one base price.
// Pure and deterministic: identical inputs always yield identical outputs.
func ComputeDiscount(guests, totalCapacity int, base money.Money) OccupancyDiscount {
	occupancy := OccupancyPercent(guests, totalCapacity)
	pct := DiscountPercentFor(occupancy)
	amount := base.Percent(pct)
	discounted, _ := base.Sub(amount)
	return OccupancyDiscount{
		OccupancyPercent: occupancy,
		DiscountPercent:  pct,
		Amount:           amount,
		DiscountedPrice:  discounted,
	}
}
