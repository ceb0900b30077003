package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
	"time"
)

// Vehicle represents a fleet vehicle.
type Vehicle struct {
	ID                 primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	RegistrationNumber string             `bson:"registration_number" json:"registrationNumber" validate:"required"`
	CategoryID         string             `bson:"category_id,omitempty" json:"categoryId,omitempty"`
	Make               string             `bson:"make" json:"make"`
	Model              string             `bson:"model" json:"model"`
	Year               int                `bson:"year,omitempty" json:"year,omitempty"`
	FuelType           string             `bson:"fuel_type,omitempty" json:"fuelType,omitempty"` // "diesel", "petrol", "cng", "ev"
	Mileage            float64            `bson:"mileage,omitempty" json:"mileage,omitempty"`    // km per litre
	Status             string             `bson:"status" json:"status"`                          // "active" or "inactive"
	CreatedAt          time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt          time.Time          `bson:"updated_at" json:"updatedAt"`
}
