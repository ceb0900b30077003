package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PaymentMode is how a driver payment amount is determined.
type PaymentMode string

const (
	ModePerTrip   PaymentMode = "per-trip"
	ModeDaily     PaymentMode = "daily"
	ModeFuelBasis PaymentMode = "fuel-basis"
)

// DriverPayment is money paid to a driver for a booking.
type DriverPayment struct {
	ID             primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	BookingID      string             `json:"bookingId" bson:"booking_id"`
	DriverID       string             `json:"driverId" bson:"driver_id"`
	Mode           PaymentMode        `json:"mode" bson:"mode"`
	Type           string             `json:"type" bson:"type"` // "paid"
	Amount         float64            `json:"amount" bson:"amount"`
	FuelQuantity   *float64           `json:"fuelQuantity,omitempty" bson:"fuel_quantity,omitempty"`
	FuelRate       *float64           `json:"fuelRate,omitempty" bson:"fuel_rate,omitempty"`
	DistanceKm     *float64           `json:"distanceKm,omitempty" bson:"distance_km,omitempty"`
	Mileage        *float64           `json:"mileage,omitempty" bson:"mileage,omitempty"`
	ComputedAmount *float64           `json:"computedAmount,omitempty" bson:"computed_amount,omitempty"`
	Description    string             `json:"description,omitempty" bson:"description,omitempty"`
	Date           time.Time          `json:"date" bson:"date"`
	Settled        bool               `json:"settled" bson:"settled"`
	SettledAt      *time.Time         `json:"settledAt,omitempty" bson:"settled_at,omitempty"`
	CreatedAt      time.Time          `json:"createdAt" bson:"created_at"`
	UpdatedAt      time.Time          `json:"updatedAt" bson:"updated_at"`
}

// DriverPaymentRequest is the body for adding or updating a driver payment.
// Amount is ignored for fuel-basis entries; it is derived from the fuel fields.
type DriverPaymentRequest struct {
	Mode         PaymentMode `json:"mode" validate:"required,oneof=per-trip daily fuel-basis"`
	Amount       float64     `json:"amount" validate:"gte=0"`
	FuelQuantity *float64    `json:"fuelQuantity,omitempty" validate:"omitempty,gt=0"`
	FuelRate     *float64    `json:"fuelRate,omitempty" validate:"omitempty,gt=0"`
	DistanceKm   *float64    `json:"distanceKm,omitempty" validate:"omitempty,gt=0"`
	Mileage      *float64    `json:"mileage,omitempty" validate:"omitempty,gt=0"`
	Description  string      `json:"description,omitempty"`
	Date         *time.Time  `json:"date,omitempty"`
	Settled      *bool       `json:"settled,omitempty"`
}

// SettleRequest marks the driver payments of a booking settled or unsettled and
// optionally records the final settlement amount.
type SettleRequest struct {
	Settled   bool     `json:"settled"`
	FinalPaid *float64 `json:"finalPaid,omitempty" validate:"omitempty,gte=0"`
}

// DriverReportRow is the per-booking line of a driver statement.
type DriverReportRow struct {
	BookingID       string    `json:"bookingId"`
	BookingDate     time.Time `json:"bookingDate"`
	CustomerName    string    `json:"customerName"`
	Route           string    `json:"route"`
	BookingAmount   float64   `json:"bookingAmount"`
	AdvanceToDriver float64   `json:"advanceToDriver"`
	DriverExpenses  float64   `json:"driverExpenses"`
	OnDutyPaid      float64   `json:"onDutyPaid"`
	DriverReceived  float64   `json:"driverReceived"`
	AmountPayable   float64   `json:"amountPayable"`
	FinalPaid       *float64  `json:"finalPaid,omitempty"`
}

// DriverReport is a driver statement over a date range.
type DriverReport struct {
	DriverID      string            `json:"driverId"`
	From          time.Time         `json:"from"`
	To            time.Time         `json:"to"`
	Trips         int               `json:"trips"`
	Rows          []DriverReportRow `json:"rows"`
	TotalPayable  float64           `json:"totalPayable"`
	TotalReceived float64           `json:"totalReceived"`
}
