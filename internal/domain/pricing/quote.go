package pricing

import (
	"fmt"
	"sort"
	"strings"

	"mareblu/internal/domain/catalog"
	"mareblu/internal/domain/shared/money"
	"mareblu/internal/domain/shared/stayperiod"
)

// DepositPercent is the fixed share of the subtotal due on confirmation.
const DepositPercent = 30.0

// QuoteLine is one apartment's contribution to the quote.
type QuoteLine struct {
	ApartmentID catalog.ApartmentID
	Name        string
	Base        money.Money
	Discount    money.Money
	Discounted  money.Money
}

// Quote is the terminal output of the pricing pipeline. Built fresh per
// invocation; it has no lifecycle beyond the single calculation.
type Quote struct {
	Period           stayperiod.Period
	Nights           int
	Adults           int
	Children         int
	OccupancyPercent float64
	DiscountPercent  float64
	Lines            []QuoteLine
	Extras           ExtrasBreakdown
	Subtotal         money.Money
	Deposit          money.Money
	Balance          money.Money
}

// AggregateQuote combines the per-apartment discounted prices with the extras
// into subtotal, deposit and balance. Lines are ordered by apartment ID so the
// output is deterministic regardless of input order.
func AggregateQuote(period stayperiod.Period, adults, children int, occupancy OccupancyDiscount, lines []QuoteLine, extras ExtrasBreakdown) Quote {
	ordered := append([]QuoteLine(nil), lines...)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].ApartmentID < ordered[j].ApartmentID })

	subtotal := money.EUR(0)
	for _, line := range ordered {
		subtotal, _ = subtotal.Add(line.Discounted)
	}
	subtotal, _ = subtotal.Add(extras.Total())
	deposit := subtotal.Percent(DepositPercent)
	balance, _ := subtotal.Sub(deposit)

	return Quote{
		Period:           period,
		Nights:           period.Nights(),
		Adults:           adults,
		Children:         children,
		OccupancyPercent: occupancy.OccupancyPercent,
		DiscountPercent:  occupancy.DiscountPercent,
		Lines:            ordered,
		Extras:           extras,
		Subtotal:         subtotal,
		Deposit:          deposit,
		Balance:          balance,
	}
}

// Render produces the plain-text summary used to prefill the outbound
// message. Field order and number formatting are fixed: the same quote must
// always render to the same bytes.
func (q Quote) Render() string {
	var b strings.Builder
	b.WriteString("Villa MareBlu quote request\n")
	fmt.Fprintf(&b, "Check-in:  %s\n", q.Period.CheckIn.Format("2006-01-02"))
	fmt.Fprintf(&b, "Check-out: %s\n", q.Period.CheckOut.Format("2006-01-02"))
	fmt.Fprintf(&b, "Nights:    %d\n", q.Nights)
	fmt.Fprintf(&b, "Guests:    %d adults, %d children\n", q.Adults, q.Children)
	b.WriteString("\nApartments:\n")
	for _, line := range q.Lines {
		fmt.Fprintf(&b, "  - %s: base %s, discount %s%% (-%s), %s\n",
			line.Name, line.Base, formatPercent(q.DiscountPercent), line.Discount, line.Discounted)
	}
	b.WriteString("\nExtras:\n")
	fmt.Fprintf(&b, "  Linen:       %s\n", orZero(q.Extras.Linen))
	fmt.Fprintf(&b, "  Pets:        %s\n", orZero(q.Extras.Pets))
	fmt.Fprintf(&b, "  Cleaning:    %s\n", orZero(q.Extras.Cleaning))
	fmt.Fprintf(&b, "  Tourist tax: %s\n", orZero(q.Extras.TouristTax))
	b.WriteString("\n")
	fmt.Fprintf(&b, "Subtotal: %s\n", q.Subtotal)
	fmt.Fprintf(&b, "Deposit (%s%%): %s\n", formatPercent(DepositPercent), q.Deposit)
	fmt.Fprintf(&b, "Balance:  %s\n", q.Balance)
	return b.String()
}

func orZero(m money.Money) money.Money {
	if m.Currency == "" {
		return money.EUR(0)
	}
	return m
}

// formatPercent trims trailing zeros so whole tiers render as "30" and the
// half-point ones as "27.5".
func formatPercent(pct float64) string {
	s := fmt.Sprintf("%.1f", pct)
	s = strings.TrimSuffix(s, ".0")
	return s
}
