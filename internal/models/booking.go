package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// BookingStatus is the lifecycle state of a booking.
type BookingStatus string

const (
	StatusBooked    BookingStatus = "booked"
	StatusOngoing   BookingStatus = "ongoing"
	StatusCompleted BookingStatus = "completed"
	StatusCanceled  BookingStatus = "canceled"
)

// IsValidStatus checks if a booking status is one of the known states.
func IsValidStatus(s BookingStatus) bool {
	switch s {
	case StatusBooked, StatusOngoing, StatusCompleted, StatusCanceled:
		return true
	default:
		return false
	}
}

// Booking represents a single vehicle trip/engagement.
type Booking struct {
	ID                primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	CustomerName      string             `json:"customerName" bson:"customer_name"`
	CustomerPhone     string             `json:"customerPhone" bson:"customer_phone"`
	BookingSource     string             `json:"bookingSource" bson:"booking_source"` // "company", "travel-agency", "individual"
	CompanyID         string             `json:"companyId,omitempty" bson:"company_id,omitempty"`
	CustomerID        string             `json:"customerId,omitempty" bson:"customer_id,omitempty"`
	DriverID          string             `json:"driverId,omitempty" bson:"driver_id,omitempty"`
	VehicleID         string             `json:"vehicleId,omitempty" bson:"vehicle_id,omitempty"`
	VehicleCategoryID string             `json:"vehicleCategoryId,omitempty" bson:"vehicle_category_id,omitempty"`
	PickupLocation    string             `json:"pickupLocation" bson:"pickup_location"`
	DropLocation      string             `json:"dropLocation" bson:"drop_location"`
	JourneyType       string             `json:"journeyType" bson:"journey_type"`
	CityOfWork        string             `json:"cityOfWork,omitempty" bson:"city_of_work,omitempty"`
	StartDate         time.Time          `json:"startDate" bson:"start_date"`
	EndDate           time.Time          `json:"endDate" bson:"end_date"`
	TariffRate        float64            `json:"tariffRate" bson:"tariff_rate"`
	TotalAmount       float64            `json:"totalAmount" bson:"total_amount"`
	AdvanceReceived   float64            `json:"advanceReceived" bson:"advance_received"`
	AdvanceReason     string             `json:"advanceReason,omitempty" bson:"advance_reason,omitempty"`
	Balance           float64            `json:"balance" bson:"balance"`
	Status            BookingStatus      `json:"status" bson:"status"`
	StatusHistory     []StatusChange     `json:"statusHistory" bson:"status_history"`
	Expenses          []Expense          `json:"expenses" bson:"expenses"`
	Payments          []Payment          `json:"payments" bson:"payments"`
	DutySlips         []DutySlip         `json:"dutySlips" bson:"duty_slips"`
	Billed            bool               `json:"billed" bson:"billed"`

	// Paper duty slip handed in by the driver, and forwarded to the client company.
	DutySlipSubmitted          bool `json:"dutySlipSubmitted" bson:"duty_slip_submitted"`
	DutySlipSubmittedToCompany bool `json:"dutySlipSubmittedToCompany" bson:"duty_slip_submitted_to_company"`

	FinalPaid *float64  `json:"finalPaid,omitempty" bson:"final_paid,omitempty"`
	CreatedAt time.Time `json:"createdAt" bson:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updated_at"`
}

// StatusChange is one entry of the append-only status history.
type StatusChange struct {
	Status    BookingStatus `json:"status" bson:"status"`
	Timestamp time.Time     `json:"timestamp" bson:"timestamp"`
	ChangedBy string        `json:"changedBy" bson:"changed_by"`
}

// Expense is a cost incurred on the trip.
type Expense struct {
	ID          primitive.ObjectID `json:"id" bson:"_id"`
	Type        string             `json:"type" bson:"type" validate:"required"` // "fuel", "toll", "parking", "food", "other"
	Amount      float64            `json:"amount" bson:"amount" validate:"gte=0"`
	Description string             `json:"description,omitempty" bson:"description,omitempty"`
	Receipt     string             `json:"receipt,omitempty" bson:"receipt,omitempty"`
}

// Payment is money collected against the booking.
type Payment struct {
	ID          primitive.ObjectID `json:"id" bson:"_id"`
	Amount      float64            `json:"amount" bson:"amount" validate:"gt=0"`
	Comments    string             `json:"comments,omitempty" bson:"comments,omitempty"`
	CollectedBy string             `json:"collectedBy,omitempty" bson:"collected_by,omitempty"`
	PaidOn      time.Time          `json:"paidOn" bson:"paid_on"`
}

// DutySlip references an uploaded duty slip file.
type DutySlip struct {
	Path        string    `json:"path" bson:"path"`
	UploadedBy  string    `json:"uploadedBy" bson:"uploaded_by"`
	UploadedAt  time.Time `json:"uploadedAt" bson:"uploaded_at"`
	Description string    `json:"description,omitempty" bson:"description,omitempty"`
}

// CreateBookingRequest is the payload accepted when creating a booking.
type CreateBookingRequest struct {
	CustomerName      string    `json:"customerName" validate:"required"`
	CustomerPhone     string    `json:"customerPhone" validate:"required,min=10"`
	BookingSource     string    `json:"bookingSource" validate:"required,oneof=company travel-agency individual"`
	CompanyID         string    `json:"companyId,omitempty"`
	CustomerID        string    `json:"customerId,omitempty"`
	DriverID          string    `json:"driverId,omitempty"`
	VehicleID         string    `json:"vehicleId,omitempty"`
	VehicleCategoryID string    `json:"vehicleCategoryId,omitempty"`
	PickupLocation    string    `json:"pickupLocation" validate:"required"`
	DropLocation      string    `json:"dropLocation" validate:"required"`
	JourneyType       string    `json:"journeyType" validate:"required,oneof=outstation-one-way outstation local-outstation local transfer"`
	CityOfWork        string    `json:"cityOfWork,omitempty"`
	StartDate         time.Time `json:"startDate" validate:"required"`
	EndDate           time.Time `json:"endDate" validate:"required"`
	TariffRate        float64   `json:"tariffRate" validate:"gte=0"`
	TotalAmount       float64   `json:"totalAmount" validate:"gte=0"`
	AdvanceReceived   float64   `json:"advanceReceived" validate:"gte=0"`
	AdvanceReason     string    `json:"advanceReason,omitempty"`
}

// BookingUpdate is a partial update; nil fields are left untouched.
type BookingUpdate struct {
	CustomerName      *string        `json:"customerName,omitempty" bson:"customer_name,omitempty"`
	CustomerPhone     *string        `json:"customerPhone,omitempty" bson:"customer_phone,omitempty"`
	BookingSource     *string        `json:"bookingSource,omitempty" bson:"booking_source,omitempty" validate:"omitempty,oneof=company travel-agency individual"`
	CompanyID         *string        `json:"companyId,omitempty" bson:"company_id,omitempty"`
	CustomerID        *string        `json:"customerId,omitempty" bson:"customer_id,omitempty"`
	DriverID          *string        `json:"driverId,omitempty" bson:"driver_id,omitempty"`
	VehicleID         *string        `json:"vehicleId,omitempty" bson:"vehicle_id,omitempty"`
	VehicleCategoryID *string        `json:"vehicleCategoryId,omitempty" bson:"vehicle_category_id,omitempty"`
	PickupLocation    *string        `json:"pickupLocation,omitempty" bson:"pickup_location,omitempty"`
	DropLocation      *string        `json:"dropLocation,omitempty" bson:"drop_location,omitempty"`
	JourneyType       *string        `json:"journeyType,omitempty" bson:"journey_type,omitempty" validate:"omitempty,oneof=outstation-one-way outstation local-outstation local transfer"`
	CityOfWork        *string        `json:"cityOfWork,omitempty" bson:"city_of_work,omitempty"`
	StartDate         *time.Time     `json:"startDate,omitempty" bson:"start_date,omitempty"`
	EndDate           *time.Time     `json:"endDate,omitempty" bson:"end_date,omitempty"`
	TariffRate        *float64       `json:"tariffRate,omitempty" bson:"tariff_rate,omitempty" validate:"omitempty,gte=0"`
	TotalAmount       *float64       `json:"totalAmount,omitempty" bson:"total_amount,omitempty" validate:"omitempty,gte=0"`
	AdvanceReceived   *float64       `json:"advanceReceived,omitempty" bson:"advance_received,omitempty" validate:"omitempty,gte=0"`
	AdvanceReason     *string        `json:"advanceReason,omitempty" bson:"advance_reason,omitempty"`
	Status            *BookingStatus `json:"status,omitempty" bson:"status,omitempty" validate:"omitempty,oneof=booked ongoing completed canceled"`
	Billed            *bool          `json:"billed,omitempty" bson:"billed,omitempty"`

	DutySlipSubmitted          *bool `json:"dutySlipSubmitted,omitempty" bson:"duty_slip_submitted,omitempty"`
	DutySlipSubmittedToCompany *bool `json:"dutySlipSubmittedToCompany,omitempty" bson:"duty_slip_submitted_to_company,omitempty"`

	FinalPaid *float64 `json:"finalPaid,omitempty" bson:"final_paid,omitempty"`

	// Balance is derived; it is never read from the request body.
	Balance *float64 `json:"-" bson:"balance,omitempty"`
}

// StatusRequest is the body of a status change.
type StatusRequest struct {
	Status BookingStatus `json:"status" validate:"required,oneof=booked ongoing completed canceled"`
}

// ExpenseRequest is the body for adding or updating an expense.
type ExpenseRequest struct {
	Type        string  `json:"type" validate:"required"`
	Amount      float64 `json:"amount" validate:"gte=0"`
	Description string  `json:"description,omitempty"`
	Receipt     string  `json:"receipt,omitempty"`
}

// PaymentRequest is the body for adding or updating a booking payment.
type PaymentRequest struct {
	Amount      float64   `json:"amount" validate:"gt=0"`
	Comments    string    `json:"comments,omitempty"`
	CollectedBy string    `json:"collectedBy,omitempty"`
	PaidOn      time.Time `json:"paidOn"`
}

// BookingList is the paginated result of a booking query.
type BookingList struct {
	Bookings []Booking `json:"bookings"`
	Total    int64     `json:"total"`
}
