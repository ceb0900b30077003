package models

import (
	"time"
)

const (
	DefaultPageLimit = 10
	MaxPageLimit     = 100
)

// BookingQuery is the typed filter for listing bookings.
type BookingQuery struct {
	Page      int           `validate:"gte=1"`
	Limit     int           `validate:"gte=1,lte=100"`
	Status    BookingStatus `validate:"omitempty,oneof=booked ongoing completed canceled"`
	Source    string        `validate:"omitempty,oneof=company travel-agency individual"`
	StartDate *time.Time
	EndDate   *time.Time
	DriverID  string
	// CustomerID is only ever set by role scoping.
	CustomerID string
}

// Normalize fills paging defaults.
func (q *BookingQuery) Normalize() {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 {
		q.Limit = DefaultPageLimit
	}
	if q.Limit > MaxPageLimit {
		q.Limit = MaxPageLimit
	}
}

// Skip returns the number of documents to skip for the current page.
func (q BookingQuery) Skip() int64 {
	return int64((q.Page - 1) * q.Limit)
}

// RecordScope limits record access for driver and customer callers. Empty fields
// do not restrict.
type RecordScope struct {
	DriverID   string
	CustomerID string
}

// ScopeOf returns the scope of the caller. It returns false when the caller is a
// driver or customer without a linked record.
func ScopeOf(claims *Claims) (RecordScope, bool) {
	if claims == nil {
		return RecordScope{}, true
	}
	switch claims.Role {
	case RoleDriver:
		return RecordScope{DriverID: claims.DriverID}, claims.DriverID != ""
	case RoleCustomer:
		return RecordScope{CustomerID: claims.CustomerID}, claims.CustomerID != ""
	}
	return RecordScope{}, true
}

// Scope restricts the query to the caller's own records, overriding any driverId
// filter a driver supplied. It returns false when the caller is a driver or
// customer without a linked record, in which case the result set is empty.
func (q *BookingQuery) Scope(claims *Claims) bool {
	scope, ok := ScopeOf(claims)
	if !ok {
		return false
	}
	if scope.DriverID != "" {
		q.DriverID = scope.DriverID
	}
	if scope.CustomerID != "" {
		q.CustomerID = scope.CustomerID
	}
	return true
}

// ReportQuery selects bookings of one driver over a date range.
type ReportQuery struct {
	DriverID string    `validate:"required"`
	From     time.Time `validate:"required"`
	To       time.Time `validate:"required,gtefield=From"`
}
