package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/sirupsen/logrus"
	"github.com/ukydev/fleet-booking/internal/db"
	"github.com/ukydev/fleet-booking/internal/models"
)

// PhoneVariants returns the forms a phone number is looked up under: the trimmed
// input, its digits only, and its digits with a leading '+'. Empty and duplicate
// forms are dropped. No country-code handling is done, so "9876543210" and
// "+919876543210" never match each other.
func PhoneVariants(phone string) []string {
	trimmed := strings.TrimSpace(phone)
	digits := strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) {
			return r
		}
		return -1
	}, trimmed)

	candidates := []string{trimmed, digits}
	if digits != "" {
		candidates = append(candidates, "+"+digits)
	}

	seen := make(map[string]struct{}, len(candidates))
	variants := make([]string, 0, len(candidates))
	for _, c := range candidates {
		if c == "" {
			continue
		}
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		variants = append(variants, c)
	}
	return variants
}

// PhoneLookup finds the ID of a directory record by phone.
type PhoneLookup interface {
	IDByPhones(ctx context.Context, phones []string) (string, error)
}

// UserLinker persists the links found for a user.
type UserLinker interface {
	LinkUser(ctx context.Context, id, driverID, customerID string) error
}

// Linker attaches driver and customer users to their directory records by phone.
type Linker struct {
	Drivers   PhoneLookup
	Customers PhoneLookup
	Users     UserLinker
}

// Sync links user to a driver or customer record when its role needs one and it
// has none yet. It writes at most once, and only when a link was found. The user
// is updated in place; the return value reports whether anything was stored.
func (l *Linker) Sync(ctx context.Context, user *models.User) (bool, error) {
	dirty := false
	var variants []string
	phones := func() []string {
		if variants == nil {
			variants = PhoneVariants(user.Phone)
		}
		return variants
	}

	if user.Role == models.RoleDriver && user.DriverID == "" && user.Phone != "" {
		id, err := lookup(ctx, l.Drivers, phones())
		if err != nil {
			return false, fmt.Errorf("link driver: %w", err)
		}
		if id != "" {
			user.DriverID = id
			dirty = true
		}
	}
	if user.Role == models.RoleCustomer && user.CustomerID == "" && user.Phone != "" {
		id, err := lookup(ctx, l.Customers, phones())
		if err != nil {
			return false, fmt.Errorf("link customer: %w", err)
		}
		if id != "" {
			user.CustomerID = id
			dirty = true
		}
	}

	if !dirty {
		return false, nil
	}
	if err := l.Users.LinkUser(ctx, user.ID.Hex(), user.DriverID, user.CustomerID); err != nil {
		return false, fmt.Errorf("save user links: %w", err)
	}
	logrus.WithFields(logrus.Fields{
		"user_id":     user.ID.Hex(),
		"driver_id":   user.DriverID,
		"customer_id": user.CustomerID,
	}).Info("Linked user by phone")
	return true, nil
}

func lookup(ctx context.Context, dir PhoneLookup, phones []string) (string, error) {
	if dir == nil || len(phones) == 0 {
		return "", nil
	}
	id, err := dir.IDByPhones(ctx, phones)
	if errors.Is(err, db.ErrNotFound) {
		return "", nil
	}
	return id, err
}
