package service

import (
	"context"
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"
	"github.com/ukydev/fleet-booking/internal/ledger"
	"github.com/ukydev/fleet-booking/internal/models"
)

const paymentTypePaid = "paid"

// SettleResult reports the outcome of settling a booking with its driver.
type SettleResult struct {
	Booking       *models.Booking `json:"booking"`
	Updated       int64           `json:"updated"`
	AmountPayable float64         `json:"amountPayable"`
}

// AddDriverPayment records a payment to the booking's driver. Fuel-basis amounts
// are derived from the fuel fields.
func (s *BookingService) AddDriverPayment(ctx context.Context, bookingID string, req models.DriverPaymentRequest) (*models.DriverPayment, error) {
	if err := Validate(req); err != nil {
		return nil, err
	}
	booking, err := s.bookings.FindBookingByID(ctx, bookingID, models.RecordScope{})
	if err != nil {
		return nil, err
	}

	payment := models.DriverPayment{
		BookingID: bookingID,
		DriverID:  booking.DriverID,
		Type:      paymentTypePaid,
		Date:      s.now(),
	}
	if err := s.applyDriverPayment(&payment, req); err != nil {
		return nil, err
	}

	created, err := s.driverPayments.InsertDriverPayment(ctx, payment)
	if err != nil {
		return nil, fmt.Errorf("insert driver payment: %w", err)
	}
	log.WithFields(log.Fields{
		"booking_id": bookingID,
		"driver_id":  created.DriverID,
		"mode":       created.Mode,
		"amount":     created.Amount,
	}).Info("Driver payment recorded")
	return created, nil
}

// ListDriverPayments returns the driver payments of a booking.
func (s *BookingService) ListDriverPayments(ctx context.Context, bookingID string) ([]models.DriverPayment, error) {
	if _, err := s.bookings.FindBookingByID(ctx, bookingID, models.RecordScope{}); err != nil {
		return nil, err
	}
	return s.driverPayments.FindDriverPaymentsByBooking(ctx, bookingID)
}

// UpdateDriverPayment replaces the editable fields of a driver payment.
// Settled payments stay editable.
func (s *BookingService) UpdateDriverPayment(ctx context.Context, bookingID, id string, req models.DriverPaymentRequest) (*models.DriverPayment, error) {
	if err := Validate(req); err != nil {
		return nil, err
	}
	payment, err := s.driverPayments.FindDriverPaymentByID(ctx, bookingID, id)
	if err != nil {
		return nil, err
	}
	if err := s.applyDriverPayment(payment, req); err != nil {
		return nil, err
	}
	if err := s.driverPayments.ReplaceDriverPayment(ctx, *payment); err != nil {
		return nil, err
	}
	return payment, nil
}

// DeleteDriverPayment removes a driver payment of a booking.
func (s *BookingService) DeleteDriverPayment(ctx context.Context, bookingID, id string) error {
	return s.driverPayments.DeleteDriverPayment(ctx, bookingID, id)
}

// DriverPayments returns every payment made to a driver.
func (s *BookingService) DriverPayments(ctx context.Context, driverID string) ([]models.DriverPayment, error) {
	if driverID == "" {
		return nil, invalid("driver id is required")
	}
	return s.driverPayments.FindDriverPaymentsByDriver(ctx, driverID)
}

// Settle marks every driver payment of a booking settled or unsettled and, when
// given, records the final amount paid to the driver.
func (s *BookingService) Settle(ctx context.Context, bookingID string, req models.SettleRequest) (*SettleResult, error) {
	if err := Validate(req); err != nil {
		return nil, err
	}
	booking, err := s.bookings.FindBookingByID(ctx, bookingID, models.RecordScope{})
	if err != nil {
		return nil, err
	}

	now := s.now()
	updated, err := s.driverPayments.SettleDriverPayments(ctx, bookingID, req.Settled, now)
	if err != nil {
		return nil, fmt.Errorf("settle driver payments: %w", err)
	}

	if req.FinalPaid != nil {
		finalPaid := ledger.Round2(*req.FinalPaid)
		booking, err = s.bookings.UpdateBooking(ctx, bookingID, models.BookingUpdate{FinalPaid: &finalPaid}, nil)
		if err != nil {
			return nil, err
		}
	}

	payments, err := s.driverPayments.FindDriverPaymentsByBooking(ctx, bookingID)
	if err != nil {
		return nil, fmt.Errorf("load driver payments: %w", err)
	}
	log.WithFields(log.Fields{
		"booking_id": bookingID,
		"settled":    req.Settled,
		"updated":    updated,
	}).Info("Driver payments settled")

	return &SettleResult{
		Booking:       booking,
		Updated:       updated,
		AmountPayable: ledger.AmountPayable(*booking, payments),
	}, nil
}

// DriverReport builds a driver statement over a date range.
func (s *BookingService) DriverReport(ctx context.Context, q models.ReportQuery) (*models.DriverReport, error) {
	if err := Validate(q); err != nil {
		return nil, err
	}
	bookings, err := s.bookings.FindBookingsByDriver(ctx, q.DriverID, q.From, q.To)
	if err != nil {
		return nil, fmt.Errorf("find driver bookings: %w", err)
	}
	ids := make([]string, 0, len(bookings))
	for _, b := range bookings {
		ids = append(ids, b.ID.Hex())
	}
	payments, err := s.driverPayments.FindDriverPaymentsByBooking(ctx, ids...)
	if err != nil {
		return nil, fmt.Errorf("find driver payments: %w", err)
	}
	report := ledger.BuildReport(q, bookings, payments)
	return &report, nil
}

func (s *BookingService) applyDriverPayment(p *models.DriverPayment, req models.DriverPaymentRequest) error {
	if err := ledger.ApplyPayment(p, req); err != nil {
		if errors.Is(err, ledger.ErrFuelBasisIncomplete) {
			return fmt.Errorf("%w: %w", ErrInvalidInput, err)
		}
		return err
	}
	if req.Date != nil {
		p.Date = *req.Date
	}
	if req.Settled != nil && *req.Settled != p.Settled {
		p.Settled = *req.Settled
		if p.Settled {
			at := s.now()
			p.SettledAt = &at
		} else {
			p.SettledAt = nil
		}
	}
	return nil
}
