package handlers

import (
	"bytes"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/ukydev/fleet-booking/internal/db"
	"github.com/ukydev/fleet-booking/internal/models"
	"github.com/ukydev/fleet-booking/internal/service"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestBookingHandler_Create(t *testing.T) {
	f := newRouterFixture(t)
	token := f.token(t, models.RoleDispatcher, "")
	start := time.Date(2024, 6, 1, 6, 0, 0, 0, time.UTC)

	t.Run("created", func(t *testing.T) {
		f.bookings.On("InsertBooking", mock.Anything, mock.MatchedBy(func(b models.Booking) bool {
			return b.CustomerName == "Asha Rao" && b.Balance == 7500 && b.Status == models.StatusBooked
		})).Return(&models.Booking{ID: primitive.NewObjectID(), CustomerName: "Asha Rao", Balance: 7500}, nil).Once()

		w := f.do("POST", "/api/bookings", token, models.CreateBookingRequest{
			CustomerName:    "Asha Rao",
			CustomerPhone:   "9876543210",
			BookingSource:   "individual",
			PickupLocation:  "Pune",
			DropLocation:    "Mumbai",
			JourneyType:     "outstation",
			StartDate:       start,
			EndDate:         start.Add(24 * time.Hour),
			TotalAmount:     10000,
			AdvanceReceived: 2500,
		})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		assert.Equal(t, 7500.0, decodeBody[models.Booking](t, w).Balance)
	})

	t.Run("missing required fields", func(t *testing.T) {
		w := f.do("POST", "/api/bookings", token, map[string]any{"customerName": "Asha Rao"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "invalid input")
	})

	t.Run("invalid JSON", func(t *testing.T) {
		w := f.do("POST", "/api/bookings", token, "{")
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.JSONEq(t, `{"error":"Invalid JSON"}`, w.Body.String())
	})
}

func TestBookingHandler_List(t *testing.T) {
	t.Run("parses filters and scopes drivers", func(t *testing.T) {
		f := newRouterFixture(t)
		wantStart := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
		wantEnd := time.Date(2024, 6, 30, 23, 59, 59, 999999999, time.UTC)

		f.bookings.On("FindBookings", mock.Anything, mock.MatchedBy(func(q models.BookingQuery) bool {
			return q.Page == 2 && q.Limit == 5 &&
				q.Status == models.StatusCompleted &&
				q.DriverID == "drv-1" &&
				q.StartDate != nil && q.StartDate.Equal(wantStart) &&
				q.EndDate != nil && q.EndDate.Equal(wantEnd)
		})).Return([]models.Booking{{ID: primitive.NewObjectID(), DriverID: "drv-1"}}, int64(6), nil)

		path := "/api/bookings?page=2&limit=5&status=completed&startDate=2024-06-01&endDate=2024-06-30&driverId=someone-else"
		w := f.do("GET", path, f.token(t, models.RoleDriver, "drv-1"), nil)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		list := decodeBody[models.BookingList](t, w)
		assert.Equal(t, int64(6), list.Total)
		assert.Len(t, list.Bookings, 1)
		f.bookings.AssertExpectations(t)
	})

	t.Run("unlinked customer sees nothing", func(t *testing.T) {
		f := newRouterFixture(t)
		w := f.do("GET", "/api/bookings", f.token(t, models.RoleCustomer, ""), nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, int64(0), decodeBody[models.BookingList](t, w).Total)
		f.bookings.AssertNotCalled(t, "FindBookings", mock.Anything, mock.Anything)
	})

	t.Run("bad parameters", func(t *testing.T) {
		f := newRouterFixture(t)
		token := f.token(t, models.RoleAdmin, "")
		for _, q := range []string{"page=x", "limit=1.5", "startDate=yesterday", "endDate=06/30/2024", "status=lost", "source=bus"} {
			w := f.do("GET", "/api/bookings?"+q, token, nil)
			assert.Equal(t, http.StatusBadRequest, w.Code, q)
		}
	})
}

func TestBookingHandler_Get(t *testing.T) {
	f := newRouterFixture(t)
	f.bookings.On("FindBookingByID", mock.Anything, "b1", models.RecordScope{CustomerID: "cus-1"}).
		Return(nil, fmt.Errorf("booking %w", db.ErrNotFound))

	w := f.do("GET", "/api/bookings/b1", f.token(t, models.RoleCustomer, "cus-1"), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestBookingHandler_InvalidID(t *testing.T) {
	f := newRouterFixture(t)
	f.bookings.On("DeleteBooking", mock.Anything, "nope").Return(db.ErrInvalidID)

	w := f.do("DELETE", "/api/bookings/nope", f.token(t, models.RoleAdmin, ""), nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBookingHandler_SetStatus(t *testing.T) {
	f := newRouterFixture(t)
	id := primitive.NewObjectID()
	f.bookings.On("SetStatus", mock.Anything, id.Hex(), models.RecordScope{DriverID: "drv-1"}, mock.MatchedBy(func(c models.StatusChange) bool {
		return c.Status == models.StatusOngoing && c.ChangedBy != ""
	})).Return(&models.Booking{ID: id, Status: models.StatusOngoing}, nil)

	token := f.token(t, models.RoleDriver, "drv-1")
	w := f.do("PUT", "/api/bookings/"+id.Hex()+"/status", token, models.StatusRequest{Status: models.StatusOngoing})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, models.StatusOngoing, decodeBody[models.Booking](t, w).Status)

	w = f.do("PUT", "/api/bookings/"+id.Hex()+"/status", token, map[string]string{"status": "flying"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBookingHandler_Expenses(t *testing.T) {
	f := newRouterFixture(t)
	token := f.token(t, models.RoleDispatcher, "")
	f.bookings.On("AddExpense", mock.Anything, "b1", mock.MatchedBy(func(e models.Expense) bool {
		return e.Type == "toll" && e.Amount == 120.56 && !e.ID.IsZero()
	})).Return(&models.Booking{}, nil)
	f.bookings.On("DeleteExpense", mock.Anything, "b1", "e1").Return(nil, fmt.Errorf("expense %w", db.ErrNotFound))

	w := f.do("POST", "/api/bookings/b1/expenses", token, models.ExpenseRequest{Type: "toll", Amount: 120.555})
	assert.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = f.do("DELETE", "/api/bookings/b1/expenses/e1", token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestBookingHandler_Payments(t *testing.T) {
	f := newRouterFixture(t)
	paidOn := time.Date(2024, 6, 2, 0, 0, 0, 0, time.UTC)
	payment := models.Payment{ID: primitive.NewObjectID(), Amount: 500, PaidOn: paidOn}

	f.bookings.On("AddPayment", mock.Anything, "b1", mock.MatchedBy(func(p models.Payment) bool {
		return p.Amount == 500 && p.PaidOn.Equal(paidOn)
	})).Return(&models.Booking{Payments: []models.Payment{payment}}, nil)
	f.bookings.On("FindBookingByID", mock.Anything, "b1", models.RecordScope{CustomerID: "cus-1"}).
		Return(&models.Booking{Payments: []models.Payment{payment}}, nil)

	w := f.do("POST", "/api/bookings/b1/payments", f.token(t, models.RoleAccountant, ""),
		models.PaymentRequest{Amount: 500, PaidOn: paidOn})
	assert.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = f.do("POST", "/api/bookings/b1/payments", f.token(t, models.RoleAccountant, ""), models.PaymentRequest{Amount: 0})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = f.do("GET", "/api/bookings/b1/payments", f.token(t, models.RoleCustomer, "cus-1"), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decodeBody[[]models.Payment](t, w), 1)
}

func multipartSlips(t *testing.T, field string, names ...string) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	for _, name := range names {
		part, err := mw.CreateFormFile(field, name)
		require.NoError(t, err)
		_, err = part.Write([]byte("scan of " + name))
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return body, mw.FormDataContentType()
}

func TestBookingHandler_UploadDutySlips(t *testing.T) {
	f := newRouterFixture(t)
	token := f.token(t, models.RoleDispatcher, "")

	var stored []models.DutySlip
	f.bookings.On("AddDutySlips", mock.Anything, "b1", mock.MatchedBy(func(slips []models.DutySlip) bool {
		stored = slips
		return len(slips) == 2
	})).Return(&models.Booking{}, nil)

	body, contentType := multipartSlips(t, DutySlipField, "front.JPG", "back.pdf")
	req := httptest.NewRequest("POST", "/api/bookings/b1/duty-slips", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	f.handler.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	require.Len(t, stored, 2)
	assert.True(t, strings.HasSuffix(stored[0].Path, ".jpg"))
	assert.True(t, strings.HasSuffix(stored[1].Path, ".pdf"))
	for _, slip := range stored {
		require.True(t, strings.HasPrefix(slip.Path, "/uploads/"))
		data, err := os.ReadFile(filepath.Join(f.uploadDir, strings.TrimPrefix(slip.Path, "/uploads/")))
		require.NoError(t, err)
		assert.Contains(t, string(data), "scan of ")
		assert.True(t, strings.HasPrefix(slip.Description, "Duty slip uploaded at "))
	}

	t.Run("no files", func(t *testing.T) {
		body, contentType := multipartSlips(t, "other")
		req := httptest.NewRequest("POST", "/api/bookings/b1/duty-slips", body)
		req.Header.Set("Content-Type", contentType)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		f.handler.ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestBookingHandler_UploadDutySlips_UnknownBooking(t *testing.T) {
	f := newRouterFixture(t)
	token := f.token(t, models.RoleDispatcher, "")
	f.bookings.On("AddDutySlips", mock.Anything, "gone", mock.Anything).Return(nil, fmt.Errorf("booking %w", db.ErrNotFound))

	body, contentType := multipartSlips(t, DutySlipField, "front.jpg")
	req := httptest.NewRequest("POST", "/api/bookings/gone/duty-slips", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	f.handler.ServeHTTP(w, req)
	require.Equal(t, http.StatusNotFound, w.Code, w.Body.String())

	entries, err := os.ReadDir(f.uploadDir)
	require.NoError(t, err)
	assert.Empty(t, entries, "stored files are removed when the booking update fails")
}

func TestBookingHandler_RemoveDutySlip(t *testing.T) {
	f := newRouterFixture(t)
	token := f.token(t, models.RoleAdmin, "")
	f.bookings.On("RemoveDutySlip", mock.Anything, "b1", "/uploads/a.jpg").Return(&models.Booking{DutySlips: []models.DutySlip{}}, nil)

	w := f.do("PUT", "/api/bookings/b1/remove-duty-slip", token, map[string]string{"path": "/uploads/a.jpg"})
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = f.do("PUT", "/api/bookings/b1/remove-duty-slip", token, map[string]string{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBookingHandler_DriverPayments(t *testing.T) {
	f := newRouterFixture(t)
	token := f.token(t, models.RoleAccountant, "")
	bookingID := primitive.NewObjectID()

	f.bookings.On("FindBookingByID", mock.Anything, bookingID.Hex(), models.RecordScope{}).
		Return(&models.Booking{ID: bookingID, DriverID: "drv-1"}, nil)
	f.payments.On("InsertDriverPayment", mock.Anything, mock.MatchedBy(func(p models.DriverPayment) bool {
		return p.Mode == models.ModeFuelBasis && p.Amount == 900 && p.DriverID == "drv-1"
	})).Return(&models.DriverPayment{ID: primitive.NewObjectID(), Amount: 900, Mode: models.ModeFuelBasis}, nil)

	w := f.do("POST", "/api/bookings/"+bookingID.Hex()+"/driver-payments", token, map[string]any{
		"mode":       "fuel-basis",
		"distanceKm": 100,
		"mileage":    10,
		"fuelRate":   90,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, 900.0, decodeBody[models.DriverPayment](t, w).Amount)

	w = f.do("POST", "/api/bookings/"+bookingID.Hex()+"/driver-payments", token, map[string]any{
		"mode":     "fuel-basis",
		"fuelRate": 90,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBookingHandler_Settle(t *testing.T) {
	f := newRouterFixture(t)
	id := primitive.NewObjectID()
	booking := &models.Booking{ID: id, Expenses: []models.Expense{{Type: "toll", Amount: 500}}}

	f.bookings.On("FindBookingByID", mock.Anything, id.Hex(), models.RecordScope{}).Return(booking, nil)
	f.payments.On("SettleDriverPayments", mock.Anything, id.Hex(), true, mock.Anything).Return(int64(1), nil)
	f.payments.On("FindDriverPaymentsByBooking", mock.Anything, []string{id.Hex()}).
		Return([]models.DriverPayment{{BookingID: id.Hex(), Amount: 300}}, nil)

	w := f.do("PUT", "/api/bookings/"+id.Hex()+"/settle", f.token(t, models.RoleAccountant, ""), models.SettleRequest{Settled: true})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	res := decodeBody[service.SettleResult](t, w)
	assert.Equal(t, int64(1), res.Updated)
	assert.Equal(t, 800.0, res.AmountPayable)
}

func TestBookingHandler_DriverReport(t *testing.T) {
	f := newRouterFixture(t)
	token := f.token(t, models.RoleAdmin, "")
	from := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 6, 30, 23, 59, 59, 999999999, time.UTC)

	f.bookings.On("FindBookingsByDriver", mock.Anything, "drv-1",
		mock.MatchedBy(from.Equal), mock.MatchedBy(to.Equal)).Return([]models.Booking{}, nil)
	f.payments.On("FindDriverPaymentsByBooking", mock.Anything, mock.Anything).Return([]models.DriverPayment{}, nil)

	w := f.do("GET", "/api/reports/drivers/drv-1?from=2024-06-01&to=2024-06-30", token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	report := decodeBody[models.DriverReport](t, w)
	assert.Equal(t, "drv-1", report.DriverID)
	assert.Equal(t, 0, report.Trips)

	tests := []struct {
		name  string
		query string
	}{
		{"missing to", "from=2024-06-01"},
		{"bad from", "from=June&to=2024-06-30"},
		{"to before from", "from=2024-06-30&to=2024-06-01"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := f.do("GET", "/api/reports/drivers/drv-1?"+tt.query, token, nil)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}
