package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Role represents user roles in the system
type Role string

const (
	RoleAdmin      Role = "admin"
	RoleDispatcher Role = "dispatcher"
	RoleDriver     Role = "driver"
	RoleCustomer   Role = "customer"
	RoleAccountant Role = "accountant"
)

// User represents a user in the system
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Email        string             `bson:"email" json:"email"`
	PasswordHash string             `bson:"password_hash" json:"-"`
	Name         string             `bson:"name" json:"name"`
	Phone        string             `bson:"phone" json:"phone"`
	Role         Role               `bson:"role" json:"role"`
	DriverID     string             `bson:"driver_id,omitempty" json:"driverId,omitempty"`
	CustomerID   string             `bson:"customer_id,omitempty" json:"customerId,omitempty"`
	LastLogin    *time.Time         `bson:"last_login,omitempty" json:"lastLogin,omitempty"`
	CreatedAt    time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updated_at" json:"updatedAt"`
}

// LoginRequest represents a login request
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RegisterRequest represents a user registration request
type RegisterRequest struct {
	Email      string `json:"email" validate:"required,email"`
	Password   string `json:"password" validate:"required,min=8"`
	Name       string `json:"name" validate:"required"`
	Phone      string `json:"phone"`
	Role       Role   `json:"role" validate:"required,oneof=admin dispatcher driver customer accountant"`
	DriverID   string `json:"driverId,omitempty"`
	CustomerID string `json:"customerId,omitempty"`
}

// UserUpdate carries the fields an admin may change on a user.
type UserUpdate struct {
	Name       *string `json:"name,omitempty"`
	Phone      *string `json:"phone,omitempty"`
	Role       *Role   `json:"role,omitempty" validate:"omitempty,oneof=admin dispatcher driver customer accountant"`
	Password   *string `json:"password,omitempty" validate:"omitempty,min=8"`
	DriverID   *string `json:"driverId,omitempty"`
	CustomerID *string `json:"customerId,omitempty"`
}

// LoginResponse represents a successful login response
type LoginResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// Claims represents JWT claims
type Claims struct {
	UserID     string `json:"id"`
	Role       Role   `json:"role"`
	DriverID   string `json:"driverId,omitempty"`
	CustomerID string `json:"customerId,omitempty"`
	Exp        int64  `json:"exp"`
}

// IsValidRole checks if a role is valid
func IsValidRole(role Role) bool {
	switch role {
	case RoleAdmin, RoleDispatcher, RoleDriver, RoleCustomer, RoleAccountant:
		return true
	default:
		return false
	}
}

// Scoped reports whether the role only sees records linked to its own entity.
func (r Role) Scoped() bool {
	return r == RoleDriver || r == RoleCustomer
}
