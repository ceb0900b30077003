package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Driver is a driver record. Users with the driver role are linked to one by phone.
type Driver struct {
	ID            primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Name          string             `json:"name" bson:"name" validate:"required"`
	Phone         string             `json:"phone" bson:"phone" validate:"required"`
	LicenseNumber string             `json:"licenseNumber,omitempty" bson:"license_number,omitempty"`
	Address       string             `json:"address,omitempty" bson:"address,omitempty"`
	Status        string             `json:"status" bson:"status"` // "active" or "inactive"
	CreatedAt     time.Time          `json:"createdAt" bson:"created_at"`
	UpdatedAt     time.Time          `json:"updatedAt" bson:"updated_at"`
}

// Customer is a customer record. Users with the customer role are linked to one by phone.
type Customer struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Name      string             `json:"name" bson:"name" validate:"required"`
	Phone     string             `json:"phone" bson:"phone" validate:"required"`
	Email     string             `json:"email,omitempty" bson:"email,omitempty" validate:"omitempty,email"`
	Address   string             `json:"address,omitempty" bson:"address,omitempty"`
	CompanyID string             `json:"companyId,omitempty" bson:"company_id,omitempty"`
	CreatedAt time.Time          `json:"createdAt" bson:"created_at"`
	UpdatedAt time.Time          `json:"updatedAt" bson:"updated_at"`
}

// Company is a corporate client or travel agency.
type Company struct {
	ID            primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Name          string             `json:"name" bson:"name" validate:"required"`
	ContactPerson string             `json:"contactPerson,omitempty" bson:"contact_person,omitempty"`
	Phone         string             `json:"phone,omitempty" bson:"phone,omitempty"`
	Email         string             `json:"email,omitempty" bson:"email,omitempty" validate:"omitempty,email"`
	Address       string             `json:"address,omitempty" bson:"address,omitempty"`
	CreatedAt     time.Time          `json:"createdAt" bson:"created_at"`
	UpdatedAt     time.Time          `json:"updatedAt" bson:"updated_at"`
}
