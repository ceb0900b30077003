package service

import (
	"context"
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"
	"github.com/ukydev/fleet-booking/internal/auth"
	"github.com/ukydev/fleet-booking/internal/db"
	"github.com/ukydev/fleet-booking/internal/models"
)

// AccountService implements registration, login and user administration.
type AccountService struct {
	users       db.UserCollection
	auth        *auth.Service
	linker      *auth.Linker
	adminSignup bool
}

// NewAccountService creates an account service. A nil linker disables phone
// linking at login.
func NewAccountService(users db.UserCollection, authService *auth.Service, linker *auth.Linker) *AccountService {
	return &AccountService{users: users, auth: authService, linker: linker}
}

// AllowAdminSignup lets Register create admin accounts.
func (s *AccountService) AllowAdminSignup(allow bool) {
	s.adminSignup = allow
}

// Register creates a user. A taken email fails with auth.ErrEmailInUse. Admin
// accounts are refused unless AllowAdminSignup is set.
func (s *AccountService) Register(ctx context.Context, req models.RegisterRequest) (*models.User, error) {
	req.Email = auth.NormalizeEmail(req.Email)
	if err := Validate(req); err != nil {
		return nil, err
	}
	if req.Role == models.RoleAdmin && !s.adminSignup {
		return nil, invalid("admin accounts cannot self-register")
	}

	if _, err := s.users.FindUserByEmail(ctx, req.Email); err == nil {
		return nil, auth.ErrEmailInUse
	} else if !errors.Is(err, db.ErrNotFound) {
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	hash, err := s.auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}
	user, err := s.users.InsertUser(ctx, models.User{
		Email:        req.Email,
		PasswordHash: hash,
		Name:         req.Name,
		Phone:        req.Phone,
		Role:         req.Role,
		DriverID:     req.DriverID,
		CustomerID:   req.CustomerID,
	})
	if errors.Is(err, db.ErrDuplicate) {
		return nil, auth.ErrEmailInUse
	}
	if err != nil {
		return nil, fmt.Errorf("insert user: %w", err)
	}
	log.WithFields(log.Fields{"user_id": user.ID.Hex(), "role": user.Role}).Info("User registered")
	return user, nil
}

// Login checks credentials, links driver and customer users to their records
// and issues a token carrying those links.
func (s *AccountService) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	req.Email = auth.NormalizeEmail(req.Email)
	if err := Validate(req); err != nil {
		return nil, err
	}

	user, err := s.users.FindUserByEmail(ctx, req.Email)
	if errors.Is(err, db.ErrNotFound) {
		return nil, auth.ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	if !s.auth.CheckPassword(req.Password, user.PasswordHash) {
		return nil, auth.ErrInvalidCredentials
	}

	if s.linker != nil {
		if _, err := s.linker.Sync(ctx, user); err != nil {
			log.WithError(err).WithField("user_id", user.ID.Hex()).Warn("Failed to link user by phone")
		}
	}

	token, err := s.auth.GenerateToken(user)
	if err != nil {
		return nil, fmt.Errorf("generate token: %w", err)
	}
	// Last login is written on every login, apart from the link sync above.
	if err := s.users.UpdateLastLogin(ctx, user.ID.Hex()); err != nil {
		log.WithError(err).WithField("user_id", user.ID.Hex()).Warn("Failed to update last login")
	}
	return &models.LoginResponse{Token: token, User: *user}, nil
}

// Profile returns the user behind claims.
func (s *AccountService) Profile(ctx context.Context, claims *models.Claims) (*models.User, error) {
	return s.users.FindUserByID(ctx, claims.UserID)
}

// UpdateProfile lets a user change their own name, phone and password.
func (s *AccountService) UpdateProfile(ctx context.Context, claims *models.Claims, update models.UserUpdate) (*models.User, error) {
	update.Role, update.DriverID, update.CustomerID = nil, nil, nil
	return s.UpdateUser(ctx, claims.UserID, update)
}

// Users returns every user.
func (s *AccountService) Users(ctx context.Context) ([]models.User, error) {
	return s.users.FindUsers(ctx)
}

// UpdateUser applies an admin update to a user.
func (s *AccountService) UpdateUser(ctx context.Context, id string, update models.UserUpdate) (*models.User, error) {
	if err := Validate(update); err != nil {
		return nil, err
	}
	user, err := s.users.FindUserByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if update.Name != nil {
		user.Name = *update.Name
	}
	if update.Phone != nil {
		user.Phone = *update.Phone
	}
	if update.Role != nil {
		user.Role = *update.Role
	}
	if update.DriverID != nil {
		user.DriverID = *update.DriverID
	}
	if update.CustomerID != nil {
		user.CustomerID = *update.CustomerID
	}
	if update.Password != nil {
		hash, err := s.auth.HashPassword(*update.Password)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hash
	}

	if err := s.users.UpdateUser(ctx, id, *user); err != nil {
		return nil, err
	}
	return user, nil
}

// DeleteUser removes a user.
func (s *AccountService) DeleteUser(ctx context.Context, id string) error {
	return s.users.DeleteUser(ctx, id)
}

// EnsureAdmin creates an admin account with the given credentials unless a user
// with that email already exists.
func (s *AccountService) EnsureAdmin(ctx context.Context, email, password string) error {
	if email == "" || password == "" {
		return nil
	}
	_, err := s.Register(ctx, models.RegisterRequest{
		Email:    email,
		Password: password,
		Name:     "Administrator",
		Role:     models.RoleAdmin,
	})
	if errors.Is(err, auth.ErrEmailInUse) {
		return nil
	}
	return err
}
