package db

import (
	"context"
	"time"

	"github.com/ukydev/fleet-booking/internal/models"
)

// BookingCollection defines the interface for booking data operations.
// Single-record reads and writes that return the booking return the stored
// document after the change.
type BookingCollection interface {
	InsertBooking(ctx context.Context, booking models.Booking) (*models.Booking, error)
	FindBookings(ctx context.Context, q models.BookingQuery) ([]models.Booking, int64, error)
	FindBookingByID(ctx context.Context, id string, scope models.RecordScope) (*models.Booking, error)
	FindBookingsByDriver(ctx context.Context, driverID string, from, to time.Time) ([]models.Booking, error)
	UpdateBooking(ctx context.Context, id string, update models.BookingUpdate, change *models.StatusChange) (*models.Booking, error)
	SetStatus(ctx context.Context, id string, scope models.RecordScope, change models.StatusChange) (*models.Booking, error)
	DeleteBooking(ctx context.Context, id string) error

	AddExpense(ctx context.Context, id string, expense models.Expense) (*models.Booking, error)
	UpdateExpense(ctx context.Context, id, expenseID string, expense models.Expense) (*models.Booking, error)
	DeleteExpense(ctx context.Context, id, expenseID string) (*models.Booking, error)

	AddPayment(ctx context.Context, id string, payment models.Payment) (*models.Booking, error)
	UpdatePayment(ctx context.Context, id, paymentID string, payment models.Payment) (*models.Booking, error)
	DeletePayment(ctx context.Context, id, paymentID string) (*models.Booking, error)

	AddDutySlips(ctx context.Context, id string, slips []models.DutySlip) (*models.Booking, error)
	RemoveDutySlip(ctx context.Context, id, path string) (*models.Booking, error)
}

// DriverPaymentCollection defines the interface for driver payment operations.
type DriverPaymentCollection interface {
	InsertDriverPayment(ctx context.Context, payment models.DriverPayment) (*models.DriverPayment, error)
	FindDriverPaymentByID(ctx context.Context, bookingID, id string) (*models.DriverPayment, error)
	FindDriverPaymentsByBooking(ctx context.Context, bookingIDs ...string) ([]models.DriverPayment, error)
	FindDriverPaymentsByDriver(ctx context.Context, driverID string) ([]models.DriverPayment, error)
	ReplaceDriverPayment(ctx context.Context, payment models.DriverPayment) error
	DeleteDriverPayment(ctx context.Context, bookingID, id string) error
	SettleDriverPayments(ctx context.Context, bookingID string, settled bool, at time.Time) (int64, error)
}

// UserCollection defines the interface for user database operations.
type UserCollection interface {
	InsertUser(ctx context.Context, user models.User) (*models.User, error)
	FindUserByID(ctx context.Context, id string) (*models.User, error)
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
	FindUsers(ctx context.Context) ([]models.User, error)
	UpdateUser(ctx context.Context, id string, user models.User) error
	LinkUser(ctx context.Context, id, driverID, customerID string) error
	DeleteUser(ctx context.Context, id string) error
	UpdateLastLogin(ctx context.Context, id string) error
}

// DirectoryCollection defines CRUD for the reference records bookings point at
// (drivers, customers, vehicles, companies).
type DirectoryCollection[T any] interface {
	Insert(ctx context.Context, doc T) (*T, error)
	List(ctx context.Context) ([]T, error)
	FindByID(ctx context.Context, id string) (*T, error)
	Update(ctx context.Context, id string, doc T) (*T, error)
	Delete(ctx context.Context, id string) error
	IDByPhones(ctx context.Context, phones []string) (string, error)
}
