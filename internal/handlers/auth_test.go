package handlers

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/ukydev/fleet-booking/internal/db"
	"github.com/ukydev/fleet-booking/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestAuthHandler_Login(t *testing.T) {
	t.Run("successful login", func(t *testing.T) {
		f := newRouterFixture(t)
		hash, err := f.auth.HashPassword("password123")
		require.NoError(t, err)
		user := &models.User{
			ID:           primitive.NewObjectID(),
			Email:        "admin@fleet.in",
			PasswordHash: hash,
			Name:         "Admin",
			Role:         models.RoleAdmin,
		}
		f.users.On("FindUserByEmail", mock.Anything, "admin@fleet.in").Return(user, nil)
		f.users.On("UpdateLastLogin", mock.Anything, user.ID.Hex()).Return(nil)

		w := f.do("POST", "/api/auth/login", "", models.LoginRequest{Email: "Admin@Fleet.in", Password: "password123"})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		resp := decodeBody[models.LoginResponse](t, w)
		assert.NotEmpty(t, resp.Token)
		assert.Equal(t, "admin@fleet.in", resp.User.Email)
		assert.NotContains(t, w.Body.String(), hash)

		claims, err := f.auth.ValidateToken(resp.Token)
		require.NoError(t, err)
		assert.Equal(t, models.RoleAdmin, claims.Role)
		f.users.AssertExpectations(t)
	})

	t.Run("invalid credentials", func(t *testing.T) {
		f := newRouterFixture(t)
		f.users.On("FindUserByEmail", mock.Anything, "nobody@fleet.in").Return(nil, fmt.Errorf("user %w", db.ErrNotFound))

		w := f.do("POST", "/api/auth/login", "", models.LoginRequest{Email: "nobody@fleet.in", Password: "password123"})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.JSONEq(t, `{"error":"Invalid credentials"}`, w.Body.String())
	})

	t.Run("wrong password", func(t *testing.T) {
		f := newRouterFixture(t)
		hash, err := f.auth.HashPassword("password123")
		require.NoError(t, err)
		f.users.On("FindUserByEmail", mock.Anything, "admin@fleet.in").
			Return(&models.User{ID: primitive.NewObjectID(), Email: "admin@fleet.in", PasswordHash: hash, Role: models.RoleAdmin}, nil)

		w := f.do("POST", "/api/auth/login", "", models.LoginRequest{Email: "admin@fleet.in", Password: "wrong-password"})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		f.users.AssertNotCalled(t, "UpdateLastLogin", mock.Anything, mock.Anything)
	})

	t.Run("invalid JSON", func(t *testing.T) {
		f := newRouterFixture(t)
		w := f.do("POST", "/api/auth/login", "", "{invalid json")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestAuthHandler_Register(t *testing.T) {
	req := models.RegisterRequest{
		Email:    "driver@fleet.in",
		Password: "password123",
		Name:     "Ravi",
		Phone:    "9876543210",
		Role:     models.RoleDriver,
	}

	t.Run("created", func(t *testing.T) {
		f := newRouterFixture(t)
		f.users.On("FindUserByEmail", mock.Anything, "driver@fleet.in").Return(nil, fmt.Errorf("user %w", db.ErrNotFound))
		f.users.On("InsertUser", mock.Anything, mock.AnythingOfType("models.User")).
			Return(&models.User{ID: primitive.NewObjectID(), Email: "driver@fleet.in", Role: models.RoleDriver}, nil)

		w := f.do("POST", "/api/auth/register", "", req)
		assert.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		assert.Equal(t, "driver@fleet.in", decodeBody[models.User](t, w).Email)
	})

	t.Run("email in use", func(t *testing.T) {
		f := newRouterFixture(t)
		f.users.On("FindUserByEmail", mock.Anything, "driver@fleet.in").
			Return(&models.User{ID: primitive.NewObjectID(), Email: "driver@fleet.in"}, nil)

		w := f.do("POST", "/api/auth/register", "", req)
		assert.Equal(t, http.StatusConflict, w.Code)
		assert.JSONEq(t, `{"error":"Email in use"}`, w.Body.String())
	})

	t.Run("admin self-registration", func(t *testing.T) {
		f := newRouterFixture(t)
		admin := req
		admin.Role = models.RoleAdmin

		w := f.do("POST", "/api/auth/register", "", admin)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		f.users.AssertNotCalled(t, "InsertUser", mock.Anything, mock.Anything)
	})

	t.Run("invalid role", func(t *testing.T) {
		f := newRouterFixture(t)
		bad := req
		bad.Role = "superuser"

		w := f.do("POST", "/api/auth/register", "", bad)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestAuthHandler_Profile(t *testing.T) {
	f := newRouterFixture(t)
	user := &models.User{ID: primitive.NewObjectID(), Email: "dispatch@fleet.in", Role: models.RoleDispatcher}
	token, err := f.auth.GenerateToken(user)
	require.NoError(t, err)
	f.users.On("FindUserByID", mock.Anything, user.ID.Hex()).Return(user, nil)

	w := f.do("GET", "/api/auth/profile", token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "dispatch@fleet.in", decodeBody[models.User](t, w).Email)
}

func TestAuthHandler_DeleteUser(t *testing.T) {
	f := newRouterFixture(t)
	f.users.On("DeleteUser", mock.Anything, "u1").Return(nil)
	f.users.On("DeleteUser", mock.Anything, "missing").Return(fmt.Errorf("user %w", db.ErrNotFound))
	token := f.token(t, models.RoleAdmin, "")

	w := f.do("DELETE", "/api/users/u1", token, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = f.do("DELETE", "/api/users/missing", token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
