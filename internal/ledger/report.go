package ledger

import (
	"github.com/shopspring/decimal"
	"github.com/ukydev/fleet-booking/internal/models"
)

// ReportRow builds the driver statement line of a booking.
func ReportRow(b models.Booking, driverPayments []models.DriverPayment) models.DriverReportRow {
	base := SumExpenses(b.Expenses)
	paid := SumPayments(b.Payments)
	oil := OilAmount(b.ID.Hex(), driverPayments)

	advanceToDriver := dec(b.AdvanceReceived).Add(dec(paid))
	received := advanceToDriver
	if b.FinalPaid != nil && *b.FinalPaid != 0 {
		received = received.Add(dec(*b.FinalPaid))
	}

	return models.DriverReportRow{
		BookingID:       b.ID.Hex(),
		BookingDate:     b.StartDate,
		CustomerName:    b.CustomerName,
		Route:           b.PickupLocation + " / " + b.DropLocation,
		BookingAmount:   Round2(b.TotalAmount),
		AdvanceToDriver: out(advanceToDriver),
		DriverExpenses:  out(dec(base).Add(dec(oil))),
		OnDutyPaid:      paid,
		DriverReceived:  out(received),
		AmountPayable:   DisplayPayable(Payable(base, paid, oil), b.FinalPaid),
		FinalPaid:       b.FinalPaid,
	}
}

// BuildReport assembles a driver statement from the driver's bookings and payments.
func BuildReport(q models.ReportQuery, bookings []models.Booking, driverPayments []models.DriverPayment) models.DriverReport {
	report := models.DriverReport{
		DriverID: q.DriverID,
		From:     q.From,
		To:       q.To,
		Rows:     make([]models.DriverReportRow, 0, len(bookings)),
	}
	payable, received := decimal.Zero, decimal.Zero
	for _, b := range bookings {
		row := ReportRow(b, driverPayments)
		report.Rows = append(report.Rows, row)
		payable = payable.Add(dec(row.AmountPayable))
		received = received.Add(dec(row.DriverReceived))
	}
	report.Trips = len(report.Rows)
	report.TotalPayable = out(payable)
	report.TotalReceived = out(received)
	return report
}
