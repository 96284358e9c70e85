package billing

import (
	"time"

	"rentledger/pkg/quarter"

	"github.com/shopspring/decimal"
)

var oneHundred = decimal.NewFromInt(100)

// Totals carries the VAT share and the VAT-inclusive total of a record.
type Totals struct {
	TotalIVA     decimal.Decimal
	TotalInvoice decimal.Decimal
}

// Rounded returns the totals rounded to euro cents, the precision they are
// stored and invoiced at.
func (t Totals) Rounded() Totals {
	return Totals{
		TotalIVA:     t.TotalIVA.Round(2),
		TotalInvoice: t.TotalInvoice.Round(2),
	}
}

// Nights returns the whole-day span of a stay: the civil-date difference
// between check-in and check-out in the Europe/Madrid calendar, so a
// same-day stay counts zero nights and adjacent days count one. Anchoring
// to a fixed calendar keeps the count stable across DST transitions.
// Callers must ensure checkOut is after checkIn; negative spans are not
// sanitized here.
func Nights(checkIn, checkOut time.Time) int {
	return int(civilDate(checkOut).Sub(civilDate(checkIn)).Hours() / 24)
}

// civilDate maps an instant to its Madrid calendar day, re-anchored at UTC
// midnight so date subtraction is an exact multiple of 24h.
func civilDate(t time.Time) time.Time {
	y, m, d := t.In(quarter.Location()).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ExpenseTotals applies a VAT percentage to a base amount.
func ExpenseTotals(amount, ivaPct decimal.Decimal) Totals {
	totalIVA := amount.Mul(ivaPct).Div(oneHundred)
	return Totals{
		TotalIVA:     totalIVA,
		TotalInvoice: amount.Add(totalIVA),
	}
}

// IncomeTotals prices a stay. The base is pricePerNight * people * nights;
// the discount comes off the base and VAT applies to the discounted
// amount, never to the pre-discount base.
func IncomeTotals(pricePerNight decimal.Decimal, people, nights int, discountPct, ivaPct decimal.Decimal) Totals {
	base := pricePerNight.
		Mul(decimal.NewFromInt(int64(people))).
		Mul(decimal.NewFromInt(int64(nights)))
	discounted := base.Mul(oneHundred.Sub(discountPct)).Div(oneHundred)
	totalIVA := discounted.Mul(ivaPct).Div(oneHundred)

	return Totals{
		TotalIVA:     totalIVA,
		TotalInvoice: discounted.Add(totalIVA),
	}
}
