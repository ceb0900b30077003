package handlers

import (
	"net/http"

	"github.com/ukydev/fleet-booking/internal/auth"
	"github.com/ukydev/fleet-booking/internal/db"
	"github.com/ukydev/fleet-booking/internal/middleware"
	"github.com/ukydev/fleet-booking/internal/models"
	"github.com/ukydev/fleet-booking/internal/service"
)

// RouterConfig carries everything the HTTP surface is built from.
type RouterConfig struct {
	Auth      *auth.Service
	Accounts  *service.AccountService
	Bookings  *service.BookingService
	Drivers   db.DirectoryCollection[models.Driver]
	Customers db.DirectoryCollection[models.Customer]
	Vehicles  db.DirectoryCollection[models.Vehicle]
	Companies db.DirectoryCollection[models.Company]
	DB        Pinger

	UploadDir       string
	AllowedOrigins  []string
	RateLimitMax    int
	RateLimitWindow int
}

var (
	staff       = []models.Role{models.RoleAdmin, models.RoleDispatcher}
	bookingView = []models.Role{models.RoleAdmin, models.RoleDispatcher, models.RoleDriver, models.RoleCustomer}
	statusRoles = []models.Role{models.RoleAdmin, models.RoleDispatcher, models.RoleDriver}
	finance     = []models.Role{models.RoleAdmin, models.RoleAccountant, models.RoleDispatcher}
	paymentView = []models.Role{models.RoleAdmin, models.RoleAccountant, models.RoleDispatcher, models.RoleCustomer}
	adminOnly   = []models.Role{models.RoleAdmin}
	anyRole     = []models.Role{models.RoleAdmin, models.RoleDispatcher, models.RoleDriver, models.RoleCustomer, models.RoleAccountant}
)

// NewRouter builds the complete HTTP handler: routes, role checks and the
// middleware chain.
func NewRouter(cfg RouterConfig) http.Handler {
	mux := http.NewServeMux()
	handle := func(pattern string, roles []models.Role, h http.HandlerFunc) {
		mux.Handle(pattern, middleware.RequireRoles(roles...)(h))
	}

	authHandler := NewAuthHandler(cfg.Accounts)
	mux.HandleFunc("POST /api/auth/register", authHandler.Register)
	mux.HandleFunc("POST /api/auth/login", authHandler.Login)
	handle("GET /api/auth/profile", anyRole, authHandler.GetProfile)
	handle("PUT /api/auth/profile", anyRole, authHandler.UpdateProfile)
	handle("GET /api/users", adminOnly, authHandler.ListUsers)
	handle("PUT /api/users/{id}", adminOnly, authHandler.UpdateUser)
	handle("DELETE /api/users/{id}", adminOnly, authHandler.DeleteUser)

	b := NewBookingHandler(cfg.Bookings, cfg.UploadDir)
	handle("POST /api/bookings", staff, b.Create)
	handle("GET /api/bookings", bookingView, b.List)
	handle("GET /api/bookings/{id}", bookingView, b.Get)
	handle("PUT /api/bookings/{id}", staff, b.Update)
	handle("DELETE /api/bookings/{id}", staff, b.Delete)
	handle("PUT /api/bookings/{id}/status", statusRoles, b.SetStatus)

	handle("POST /api/bookings/{id}/expenses", staff, b.AddExpense)
	handle("PUT /api/bookings/{id}/expenses/{expenseId}", staff, b.UpdateExpense)
	handle("DELETE /api/bookings/{id}/expenses/{expenseId}", staff, b.DeleteExpense)

	handle("POST /api/bookings/{id}/duty-slips", staff, b.UploadDutySlips)
	handle("PUT /api/bookings/{id}/remove-duty-slip", staff, b.RemoveDutySlip)

	handle("POST /api/bookings/{id}/payments", finance, b.AddPayment)
	handle("GET /api/bookings/{id}/payments", paymentView, b.ListPayments)
	handle("PUT /api/bookings/{id}/payments/{paymentId}", finance, b.UpdatePayment)
	handle("DELETE /api/bookings/{id}/payments/{paymentId}", finance, b.DeletePayment)

	handle("POST /api/bookings/{id}/driver-payments", finance, b.AddDriverPayment)
	handle("GET /api/bookings/{id}/driver-payments", finance, b.ListDriverPayments)
	handle("PUT /api/bookings/{id}/driver-payments/{paymentId}", finance, b.UpdateDriverPayment)
	handle("DELETE /api/bookings/{id}/driver-payments/{paymentId}", finance, b.DeleteDriverPayment)
	handle("PUT /api/bookings/{id}/settle", finance, b.Settle)
	handle("GET /api/drivers/{id}/payments", finance, b.DriverPayments)
	handle("GET /api/reports/drivers/{driverId}", finance, b.DriverReport)

	registerDirectory(mux, "/api/drivers", NewDirectoryHandler(cfg.Drivers))
	registerDirectory(mux, "/api/customers", NewDirectoryHandler(cfg.Customers))
	registerDirectory(mux, "/api/vehicles", NewDirectoryHandler(cfg.Vehicles))
	registerDirectory(mux, "/api/companies", NewDirectoryHandler(cfg.Companies))

	mux.HandleFunc("GET /health", Health(cfg.DB))
	mux.Handle("GET /uploads/", http.StripPrefix("/uploads/", http.FileServer(http.Dir(cfg.UploadDir))))

	var h http.Handler = mux
	h = middleware.NewAuthMiddleware(cfg.Auth).Authenticate(h)
	if cfg.RateLimitMax > 0 {
		h = middleware.NewRateLimitMiddleware().RateLimit(cfg.RateLimitMax, cfg.RateLimitWindow)(h)
	}
	h = middleware.CORS(cfg.AllowedOrigins)(h)
	return middleware.RequestLogger(h)
}

var directoryReaders = []models.Role{models.RoleAdmin, models.RoleDispatcher, models.RoleAccountant}

func registerDirectory[T any](mux *http.ServeMux, base string, h *DirectoryHandler[T]) {
	guard := func(roles []models.Role, fn http.HandlerFunc) http.Handler {
		return middleware.RequireRoles(roles...)(fn)
	}
	mux.Handle("POST "+base, guard(staff, h.Create))
	mux.Handle("GET "+base, guard(directoryReaders, h.List))
	mux.Handle("GET "+base+"/{id}", guard(directoryReaders, h.Get))
	mux.Handle("PUT "+base+"/{id}", guard(staff, h.Update))
	mux.Handle("DELETE "+base+"/{id}", guard(staff, h.Delete))
}
