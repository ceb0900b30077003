package service

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/ukydev/fleet-booking/internal/db"
	"github.com/ukydev/fleet-booking/internal/events"
	"github.com/ukydev/fleet-booking/internal/ledger"
	"github.com/ukydev/fleet-booking/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// BookingService implements booking CRUD, its sub-resources and driver
// settlement.
type BookingService struct {
	bookings       db.BookingCollection
	driverPayments db.DriverPaymentCollection
	publisher      events.Publisher
	now            func() time.Time
}

// NewBookingService creates a booking service. A nil publisher discards events.
func NewBookingService(bookings db.BookingCollection, driverPayments db.DriverPaymentCollection, publisher events.Publisher) *BookingService {
	if publisher == nil {
		publisher = events.Nop{}
	}
	return &BookingService{
		bookings:       bookings,
		driverPayments: driverPayments,
		publisher:      publisher,
		now:            time.Now,
	}
}

// Create stores a new booking in the booked state with its balance derived.
func (s *BookingService) Create(ctx context.Context, claims *models.Claims, req models.CreateBookingRequest) (*models.Booking, error) {
	if err := Validate(req); err != nil {
		return nil, err
	}
	if req.EndDate.Before(req.StartDate) {
		return nil, invalid("endDate is before startDate")
	}

	now := s.now()
	balance, _ := ledger.Balance(&req.TotalAmount, &req.AdvanceReceived, models.Booking{})
	booking := models.Booking{
		CustomerName:      req.CustomerName,
		CustomerPhone:     req.CustomerPhone,
		BookingSource:     req.BookingSource,
		CompanyID:         req.CompanyID,
		CustomerID:        req.CustomerID,
		DriverID:          req.DriverID,
		VehicleID:         req.VehicleID,
		VehicleCategoryID: req.VehicleCategoryID,
		PickupLocation:    req.PickupLocation,
		DropLocation:      req.DropLocation,
		JourneyType:       req.JourneyType,
		CityOfWork:        req.CityOfWork,
		StartDate:         req.StartDate,
		EndDate:           req.EndDate,
		TariffRate:        req.TariffRate,
		TotalAmount:       req.TotalAmount,
		AdvanceReceived:   req.AdvanceReceived,
		AdvanceReason:     req.AdvanceReason,
		Balance:           balance,
		Status:            models.StatusBooked,
		StatusHistory: []models.StatusChange{
			{Status: models.StatusBooked, Timestamp: now, ChangedBy: actor(claims)},
		},
		Expenses:  []models.Expense{},
		Payments:  []models.Payment{},
		DutySlips: []models.DutySlip{},
		CreatedAt: now,
		UpdatedAt: now,
	}

	created, err := s.bookings.InsertBooking(ctx, booking)
	if err != nil {
		return nil, fmt.Errorf("insert booking: %w", err)
	}
	log.WithFields(log.Fields{
		"booking_id": created.ID.Hex(),
		"source":     created.BookingSource,
		"driver_id":  created.DriverID,
	}).Info("Booking created")
	return created, nil
}

// List returns one page of bookings visible to the caller. A driver or customer
// without a linked record gets an empty page.
func (s *BookingService) List(ctx context.Context, claims *models.Claims, q models.BookingQuery) (*models.BookingList, error) {
	q.Normalize()
	if err := Validate(q); err != nil {
		return nil, err
	}
	if !q.Scope(claims) {
		return &models.BookingList{Bookings: []models.Booking{}, Total: 0}, nil
	}
	bookings, total, err := s.bookings.FindBookings(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("find bookings: %w", err)
	}
	return &models.BookingList{Bookings: bookings, Total: total}, nil
}

// Get returns one booking if the caller may see it.
func (s *BookingService) Get(ctx context.Context, claims *models.Claims, id string) (*models.Booking, error) {
	scope, ok := models.ScopeOf(claims)
	if !ok {
		return nil, fmt.Errorf("booking %w", db.ErrNotFound)
	}
	return s.bookings.FindBookingByID(ctx, id, scope)
}

// Update applies a partial update. When the total or the advance changes the
// balance is recomputed from the stored value of the other side; a status in the
// update is also appended to the history.
func (s *BookingService) Update(ctx context.Context, claims *models.Claims, id string, update models.BookingUpdate) (*models.Booking, error) {
	if err := Validate(update); err != nil {
		return nil, err
	}
	update.Balance = nil

	if update.TotalAmount != nil || update.AdvanceReceived != nil {
		current, err := s.bookings.FindBookingByID(ctx, id, models.RecordScope{})
		if err != nil {
			return nil, err
		}
		if balance, ok := ledger.Balance(update.TotalAmount, update.AdvanceReceived, *current); ok {
			update.Balance = &balance
		}
	}

	var change *models.StatusChange
	if update.Status != nil {
		change = &models.StatusChange{Status: *update.Status, Timestamp: s.now(), ChangedBy: actor(claims)}
	}

	updated, err := s.bookings.UpdateBooking(ctx, id, update, change)
	if err != nil {
		return nil, err
	}
	if change != nil {
		s.publishStatus(ctx, updated, *change)
	}
	return updated, nil
}

// Delete removes a booking and its driver payments.
func (s *BookingService) Delete(ctx context.Context, id string) error {
	if err := s.bookings.DeleteBooking(ctx, id); err != nil {
		return err
	}
	payments, err := s.driverPayments.FindDriverPaymentsByBooking(ctx, id)
	if err != nil {
		log.WithError(err).WithField("booking_id", id).Warn("Failed to load driver payments of deleted booking")
		return nil
	}
	for _, p := range payments {
		if err := s.driverPayments.DeleteDriverPayment(ctx, id, p.ID.Hex()); err != nil {
			log.WithError(err).WithField("payment_id", p.ID.Hex()).Warn("Failed to delete driver payment")
		}
	}
	return nil
}

// SetStatus moves a booking to a new status and records who did it. Drivers may
// only change their own bookings.
func (s *BookingService) SetStatus(ctx context.Context, claims *models.Claims, id string, req models.StatusRequest) (*models.Booking, error) {
	if err := Validate(req); err != nil {
		return nil, err
	}
	scope, ok := models.ScopeOf(claims)
	if !ok {
		return nil, fmt.Errorf("booking %w", db.ErrNotFound)
	}
	change := models.StatusChange{Status: req.Status, Timestamp: s.now(), ChangedBy: actor(claims)}
	updated, err := s.bookings.SetStatus(ctx, id, scope, change)
	if err != nil {
		return nil, err
	}
	log.WithFields(log.Fields{"booking_id": id, "status": req.Status, "changed_by": change.ChangedBy}).Info("Booking status changed")
	s.publishStatus(ctx, updated, change)
	return updated, nil
}

// publishStatus sends a status event; failures are logged only.
func (s *BookingService) publishStatus(ctx context.Context, b *models.Booking, change models.StatusChange) {
	err := s.publisher.PublishStatus(ctx, events.StatusChanged{
		BookingID: b.ID.Hex(),
		DriverID:  b.DriverID,
		Status:    change.Status,
		ChangedBy: change.ChangedBy,
		Timestamp: change.Timestamp,
	})
	if err != nil {
		log.WithError(err).WithField("booking_id", b.ID.Hex()).Warn("Failed to publish status event")
	}
}

// AddExpense records an expense against a booking.
func (s *BookingService) AddExpense(ctx context.Context, id string, req models.ExpenseRequest) (*models.Booking, error) {
	if err := Validate(req); err != nil {
		return nil, err
	}
	return s.bookings.AddExpense(ctx, id, expenseFrom(primitive.NewObjectID(), req))
}

// UpdateExpense replaces one expense of a booking.
func (s *BookingService) UpdateExpense(ctx context.Context, id, expenseID string, req models.ExpenseRequest) (*models.Booking, error) {
	if err := Validate(req); err != nil {
		return nil, err
	}
	return s.bookings.UpdateExpense(ctx, id, expenseID, expenseFrom(primitive.NilObjectID, req))
}

// DeleteExpense removes one expense of a booking.
func (s *BookingService) DeleteExpense(ctx context.Context, id, expenseID string) (*models.Booking, error) {
	return s.bookings.DeleteExpense(ctx, id, expenseID)
}

func expenseFrom(id primitive.ObjectID, req models.ExpenseRequest) models.Expense {
	return models.Expense{
		ID:          id,
		Type:        req.Type,
		Amount:      ledger.Round2(req.Amount),
		Description: req.Description,
		Receipt:     req.Receipt,
	}
}

// AddPayment records money collected against a booking.
func (s *BookingService) AddPayment(ctx context.Context, id string, req models.PaymentRequest) (*models.Booking, error) {
	if err := Validate(req); err != nil {
		return nil, err
	}
	return s.bookings.AddPayment(ctx, id, s.paymentFrom(primitive.NewObjectID(), req))
}

// ListPayments returns the payments of a booking visible to the caller.
func (s *BookingService) ListPayments(ctx context.Context, claims *models.Claims, id string) ([]models.Payment, error) {
	b, err := s.Get(ctx, claims, id)
	if err != nil {
		return nil, err
	}
	if b.Payments == nil {
		return []models.Payment{}, nil
	}
	return b.Payments, nil
}

// UpdatePayment replaces one payment of a booking.
func (s *BookingService) UpdatePayment(ctx context.Context, id, paymentID string, req models.PaymentRequest) (*models.Booking, error) {
	if err := Validate(req); err != nil {
		return nil, err
	}
	return s.bookings.UpdatePayment(ctx, id, paymentID, s.paymentFrom(primitive.NilObjectID, req))
}

// DeletePayment removes one payment of a booking.
func (s *BookingService) DeletePayment(ctx context.Context, id, paymentID string) (*models.Booking, error) {
	return s.bookings.DeletePayment(ctx, id, paymentID)
}

func (s *BookingService) paymentFrom(id primitive.ObjectID, req models.PaymentRequest) models.Payment {
	paidOn := req.PaidOn
	if paidOn.IsZero() {
		paidOn = s.now()
	}
	return models.Payment{
		ID:          id,
		Amount:      ledger.Round2(req.Amount),
		Comments:    req.Comments,
		CollectedBy: req.CollectedBy,
		PaidOn:      paidOn,
	}
}

// AddDutySlips attaches stored duty slip files to a booking.
func (s *BookingService) AddDutySlips(ctx context.Context, claims *models.Claims, id string, paths []string) (*models.Booking, error) {
	if len(paths) == 0 {
		return nil, invalid("no files uploaded")
	}
	now := s.now()
	slips := make([]models.DutySlip, 0, len(paths))
	for _, p := range paths {
		slips = append(slips, models.DutySlip{
			Path:        p,
			UploadedBy:  actor(claims),
			UploadedAt:  now,
			Description: "Duty slip uploaded at " + now.UTC().Format(time.RFC3339),
		})
	}
	return s.bookings.AddDutySlips(ctx, id, slips)
}

// RemoveDutySlip detaches the duty slip stored at path.
func (s *BookingService) RemoveDutySlip(ctx context.Context, id, path string) (*models.Booking, error) {
	if path == "" {
		return nil, invalid("path is required")
	}
	return s.bookings.RemoveDutySlip(ctx, id, path)
}
