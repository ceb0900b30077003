// Package ledger derives the financial values of a booking: balance, driver
// amount-payable and fuel-basis amounts. All functions are pure; missing numbers
// count as zero.
package ledger

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/ukydev/fleet-booking/internal/models"
)

// ErrFuelBasisIncomplete is returned when a fuel-basis entry has no rate or no
// derivable quantity.
var ErrFuelBasisIncomplete = errors.New("fuel-basis payment needs a fuel rate and either a fuel quantity or distance and mileage")

const finalPaymentMarker = "final payment"

func dec(f float64) decimal.Decimal { return decimal.NewFromFloat(f) }

func out(d decimal.Decimal) float64 { return d.Round(2).InexactFloat64() }

// Round2 rounds to 2 decimal places, half away from zero.
func Round2(f float64) float64 { return out(dec(f)) }

// Balance recomputes the booking balance for a partial update. total and advance
// are the values present in the update (nil when absent); the stored booking
// supplies whichever side is missing. It reports false when neither side is set,
// meaning the balance must be left untouched.
func Balance(total, advance *float64, current models.Booking) (float64, bool) {
	if total == nil && advance == nil {
		return current.Balance, false
	}
	t := current.TotalAmount
	if total != nil {
		t = *total
	}
	a := current.AdvanceReceived
	if advance != nil {
		a = *advance
	}
	return out(dec(t).Sub(dec(a))), true
}

// SumExpenses returns the total of the booking expenses.
func SumExpenses(expenses []models.Expense) float64 {
	sum := decimal.Zero
	for _, e := range expenses {
		sum = sum.Add(dec(e.Amount))
	}
	return out(sum)
}

// SumPayments returns the total collected against the booking.
func SumPayments(payments []models.Payment) float64 {
	sum := decimal.Zero
	for _, p := range payments {
		sum = sum.Add(dec(p.Amount))
	}
	return out(sum)
}

// OilAmount sums the driver payments attached to bookingID, skipping entries whose
// description mentions a final payment.
func OilAmount(bookingID string, payments []models.DriverPayment) float64 {
	sum := decimal.Zero
	for _, p := range payments {
		if p.BookingID != bookingID {
			continue
		}
		if strings.Contains(strings.ToLower(p.Description), finalPaymentMarker) {
			continue
		}
		sum = sum.Add(dec(p.Amount))
	}
	return out(sum)
}

// Payable is the amount still owed to the driver for one booking, before any
// settlement amount is applied.
//
// With no oil payments the driver is owed the booking expenses, reduced to zero
// when on-duty payments match them exactly and to the remainder when they cover
// part of them. With oil payments the driver is owed the oil amount plus whatever
// part of the expenses on-duty payments left uncovered.
func Payable(baseExpenses, onDutyPaid, oilAmount float64) float64 {
	base, paid, oil := dec(baseExpenses), dec(onDutyPaid), dec(oilAmount)

	if oil.IsZero() {
		switch {
		case paid.Equal(base):
			return 0
		case paid.IsPositive() && paid.LessThan(base):
			return out(base.Sub(paid))
		default:
			return out(base)
		}
	}

	switch {
	case paid.IsZero():
		return out(base.Add(oil))
	case paid.LessThan(base):
		return out(oil.Add(base.Sub(paid)))
	default:
		return out(oil)
	}
}

// DisplayPayable applies a settlement: with a non-zero finalPaid the result is
// finalPaid minus payable and may be negative; otherwise payable floored at zero.
func DisplayPayable(payable float64, finalPaid *float64) float64 {
	if finalPaid != nil && *finalPaid != 0 {
		return out(dec(*finalPaid).Sub(dec(payable)))
	}
	if payable < 0 {
		return 0
	}
	return Round2(payable)
}

// AmountPayable computes the displayed driver amount-payable for a booking from its
// expenses, its on-duty payments and the driver payments recorded against it.
func AmountPayable(b models.Booking, driverPayments []models.DriverPayment) float64 {
	base := SumExpenses(b.Expenses)
	paid := SumPayments(b.Payments)
	oil := OilAmount(b.ID.Hex(), driverPayments)
	return DisplayPayable(Payable(base, paid, oil), b.FinalPaid)
}
