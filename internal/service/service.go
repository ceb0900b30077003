// Package service holds the booking and account operations behind the HTTP
// handlers: request validation, role scoping, ledger derivations and the
// persistence calls that follow from them.
package service

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/ukydev/fleet-booking/internal/models"
)

// ErrInvalidInput marks a request that failed validation.
var ErrInvalidInput = errors.New("invalid input")

// systemActor is recorded in the status history when no user is known.
const systemActor = "System"

// Validate runs struct validation and wraps failures in ErrInvalidInput.
func Validate(v any) error {
	if err := models.Validate(v); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("%w: %s failed on %s", ErrInvalidInput, fe.Field(), fe.Tag())
		}
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return nil
}

func invalid(msg string) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, msg)
}

func actor(claims *models.Claims) string {
	if claims == nil || claims.UserID == "" {
		return systemActor
	}
	return claims.UserID
}
