// Package dbmock provides testify mocks of the db collection interfaces.
package dbmock

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/ukydev/fleet-booking/internal/models"
)

func booking(args mock.Arguments) (*models.Booking, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Booking), args.Error(1)
}

// BookingCollection is a mock implementation of db.BookingCollection
type BookingCollection struct {
	mock.Mock
}

func (m *BookingCollection) InsertBooking(ctx context.Context, b models.Booking) (*models.Booking, error) {
	return booking(m.Called(ctx, b))
}

func (m *BookingCollection) FindBookings(ctx context.Context, q models.BookingQuery) ([]models.Booking, int64, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]models.Booking), args.Get(1).(int64), args.Error(2)
}

func (m *BookingCollection) FindBookingByID(ctx context.Context, id string, scope models.RecordScope) (*models.Booking, error) {
	return booking(m.Called(ctx, id, scope))
}

func (m *BookingCollection) FindBookingsByDriver(ctx context.Context, driverID string, from, to time.Time) ([]models.Booking, error) {
	args := m.Called(ctx, driverID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Booking), args.Error(1)
}

func (m *BookingCollection) UpdateBooking(ctx context.Context, id string, update models.BookingUpdate, change *models.StatusChange) (*models.Booking, error) {
	return booking(m.Called(ctx, id, update, change))
}

func (m *BookingCollection) SetStatus(ctx context.Context, id string, scope models.RecordScope, change models.StatusChange) (*models.Booking, error) {
	return booking(m.Called(ctx, id, scope, change))
}

func (m *BookingCollection) DeleteBooking(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *BookingCollection) AddExpense(ctx context.Context, id string, e models.Expense) (*models.Booking, error) {
	return booking(m.Called(ctx, id, e))
}

func (m *BookingCollection) UpdateExpense(ctx context.Context, id, expenseID string, e models.Expense) (*models.Booking, error) {
	return booking(m.Called(ctx, id, expenseID, e))
}

func (m *BookingCollection) DeleteExpense(ctx context.Context, id, expenseID string) (*models.Booking, error) {
	return booking(m.Called(ctx, id, expenseID))
}

func (m *BookingCollection) AddPayment(ctx context.Context, id string, p models.Payment) (*models.Booking, error) {
	return booking(m.Called(ctx, id, p))
}

func (m *BookingCollection) UpdatePayment(ctx context.Context, id, paymentID string, p models.Payment) (*models.Booking, error) {
	return booking(m.Called(ctx, id, paymentID, p))
}

func (m *BookingCollection) DeletePayment(ctx context.Context, id, paymentID string) (*models.Booking, error) {
	return booking(m.Called(ctx, id, paymentID))
}

func (m *BookingCollection) AddDutySlips(ctx context.Context, id string, slips []models.DutySlip) (*models.Booking, error) {
	return booking(m.Called(ctx, id, slips))
}

func (m *BookingCollection) RemoveDutySlip(ctx context.Context, id, path string) (*models.Booking, error) {
	return booking(m.Called(ctx, id, path))
}

// DriverPaymentCollection is a mock implementation of db.DriverPaymentCollection
type DriverPaymentCollection struct {
	mock.Mock
}

func (m *DriverPaymentCollection) InsertDriverPayment(ctx context.Context, p models.DriverPayment) (*models.DriverPayment, error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.DriverPayment), args.Error(1)
}

func (m *DriverPaymentCollection) FindDriverPaymentByID(ctx context.Context, bookingID, id string) (*models.DriverPayment, error) {
	args := m.Called(ctx, bookingID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.DriverPayment), args.Error(1)
}

func (m *DriverPaymentCollection) FindDriverPaymentsByBooking(ctx context.Context, bookingIDs ...string) ([]models.DriverPayment, error) {
	args := m.Called(ctx, bookingIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.DriverPayment), args.Error(1)
}

func (m *DriverPaymentCollection) FindDriverPaymentsByDriver(ctx context.Context, driverID string) ([]models.DriverPayment, error) {
	args := m.Called(ctx, driverID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.DriverPayment), args.Error(1)
}

func (m *DriverPaymentCollection) ReplaceDriverPayment(ctx context.Context, p models.DriverPayment) error {
	return m.Called(ctx, p).Error(0)
}

func (m *DriverPaymentCollection) DeleteDriverPayment(ctx context.Context, bookingID, id string) error {
	return m.Called(ctx, bookingID, id).Error(0)
}

func (m *DriverPaymentCollection) SettleDriverPayments(ctx context.Context, bookingID string, settled bool, at time.Time) (int64, error) {
	args := m.Called(ctx, bookingID, settled, at)
	return args.Get(0).(int64), args.Error(1)
}

// UserCollection is a mock implementation of db.UserCollection
type UserCollection struct {
	mock.Mock
}

func (m *UserCollection) InsertUser(ctx context.Context, user models.User) (*models.User, error) {
	args := m.Called(ctx, user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *UserCollection) FindUserByID(ctx context.Context, id string) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *UserCollection) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *UserCollection) FindUsers(ctx context.Context) ([]models.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.User), args.Error(1)
}

func (m *UserCollection) UpdateUser(ctx context.Context, id string, user models.User) error {
	return m.Called(ctx, id, user).Error(0)
}

func (m *UserCollection) LinkUser(ctx context.Context, id, driverID, customerID string) error {
	return m.Called(ctx, id, driverID, customerID).Error(0)
}

func (m *UserCollection) DeleteUser(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *UserCollection) UpdateLastLogin(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

// Directory is a mock implementation of db.DirectoryCollection
type Directory[T any] struct {
	mock.Mock
}

func (m *Directory[T]) Insert(ctx context.Context, doc T) (*T, error) {
	args := m.Called(ctx, doc)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*T), args.Error(1)
}

func (m *Directory[T]) List(ctx context.Context) ([]T, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]T), args.Error(1)
}

func (m *Directory[T]) FindByID(ctx context.Context, id string) (*T, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*T), args.Error(1)
}

func (m *Directory[T]) Update(ctx context.Context, id string, doc T) (*T, error) {
	args := m.Called(ctx, id, doc)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*T), args.Error(1)
}

func (m *Directory[T]) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *Directory[T]) IDByPhones(ctx context.Context, phones []string) (string, error) {
	args := m.Called(ctx, phones)
	return args.String(0), args.Error(1)
}
