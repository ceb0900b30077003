package handlers

import (
	"net/http"

	"github.com/ukydev/fleet-booking/internal/models"
	"github.com/ukydev/fleet-booking/internal/service"
)

// BookingHandler serves bookings and everything recorded against them.
type BookingHandler struct {
	bookings *service.BookingService
	files    FileStore
}

// NewBookingHandler creates a booking handler storing duty slips in uploadDir.
func NewBookingHandler(bookings *service.BookingService, uploadDir string) *BookingHandler {
	return &BookingHandler{bookings: bookings, files: FileStore{Dir: uploadDir}}
}

// Create handles POST /api/bookings
func (h *BookingHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateBookingRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	b, err := h.bookings.Create(r.Context(), claimsFrom(r), req)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, b)
}

// List handles GET /api/bookings
func (h *BookingHandler) List(w http.ResponseWriter, r *http.Request) {
	q, ok := bookingQuery(w, r)
	if !ok {
		return
	}
	list, err := h.bookings.List(r.Context(), claimsFrom(r), q)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func bookingQuery(w http.ResponseWriter, r *http.Request) (models.BookingQuery, bool) {
	v := r.URL.Query()
	q := models.BookingQuery{
		Status:   models.BookingStatus(v.Get("status")),
		Source:   v.Get("source"),
		DriverID: v.Get("driverId"),
	}

	var err error
	if q.Page, err = parseInt(v.Get("page")); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid page")
		return q, false
	}
	if q.Limit, err = parseInt(v.Get("limit")); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid limit")
		return q, false
	}
	if s := v.Get("startDate"); s != "" {
		t, err := parseTime(s, false)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid startDate")
			return q, false
		}
		q.StartDate = &t
	}
	if s := v.Get("endDate"); s != "" {
		t, err := parseTime(s, true)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid endDate")
			return q, false
		}
		q.EndDate = &t
	}
	return q, true
}

// Get handles GET /api/bookings/{id}
func (h *BookingHandler) Get(w http.ResponseWriter, r *http.Request) {
	b, err := h.bookings.Get(r.Context(), claimsFrom(r), r.PathValue("id"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}

// Update handles PUT /api/bookings/{id}
func (h *BookingHandler) Update(w http.ResponseWriter, r *http.Request) {
	var update models.BookingUpdate
	if !decodeJSON(w, r, &update) {
		return
	}
	b, err := h.bookings.Update(r.Context(), claimsFrom(r), r.PathValue("id"), update)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}

// Delete handles DELETE /api/bookings/{id}
func (h *BookingHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.bookings.Delete(r.Context(), r.PathValue("id")); err != nil {
		handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SetStatus handles PUT /api/bookings/{id}/status
func (h *BookingHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	var req models.StatusRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	b, err := h.bookings.SetStatus(r.Context(), claimsFrom(r), r.PathValue("id"), req)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}

// AddExpense handles POST /api/bookings/{id}/expenses
func (h *BookingHandler) AddExpense(w http.ResponseWriter, r *http.Request) {
	var req models.ExpenseRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	b, err := h.bookings.AddExpense(r.Context(), r.PathValue("id"), req)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, b)
}

// UpdateExpense handles PUT /api/bookings/{id}/expenses/{expenseId}
func (h *BookingHandler) UpdateExpense(w http.ResponseWriter, r *http.Request) {
	var req models.ExpenseRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	b, err := h.bookings.UpdateExpense(r.Context(), r.PathValue("id"), r.PathValue("expenseId"), req)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}

// DeleteExpense handles DELETE /api/bookings/{id}/expenses/{expenseId}
func (h *BookingHandler) DeleteExpense(w http.ResponseWriter, r *http.Request) {
	b, err := h.bookings.DeleteExpense(r.Context(), r.PathValue("id"), r.PathValue("expenseId"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}

// AddPayment handles POST /api/bookings/{id}/payments
func (h *BookingHandler) AddPayment(w http.ResponseWriter, r *http.Request) {
	var req models.PaymentRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	b, err := h.bookings.AddPayment(r.Context(), r.PathValue("id"), req)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, b)
}

// ListPayments handles GET /api/bookings/{id}/payments
func (h *BookingHandler) ListPayments(w http.ResponseWriter, r *http.Request) {
	payments, err := h.bookings.ListPayments(r.Context(), claimsFrom(r), r.PathValue("id"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, payments)
}

// UpdatePayment handles PUT /api/bookings/{id}/payments/{paymentId}
func (h *BookingHandler) UpdatePayment(w http.ResponseWriter, r *http.Request) {
	var req models.PaymentRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	b, err := h.bookings.UpdatePayment(r.Context(), r.PathValue("id"), r.PathValue("paymentId"), req)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}

// DeletePayment handles DELETE /api/bookings/{id}/payments/{paymentId}
func (h *BookingHandler) DeletePayment(w http.ResponseWriter, r *http.Request) {
	b, err := h.bookings.DeletePayment(r.Context(), r.PathValue("id"), r.PathValue("paymentId"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}

// UploadDutySlips handles POST /api/bookings/{id}/duty-slips
func (h *BookingHandler) UploadDutySlips(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}
	defer r.MultipartForm.RemoveAll()

	files := r.MultipartForm.File[DutySlipField]
	if len(files) == 0 {
		writeError(w, http.StatusBadRequest, "No files uploaded")
		return
	}
	paths, err := h.files.Save(files)
	if err != nil {
		handleError(w, r, err)
		return
	}

	b, err := h.bookings.AddDutySlips(r.Context(), claimsFrom(r), r.PathValue("id"), paths)
	if err != nil {
		h.files.Remove(paths)
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, b)
}

type removeDutySlipRequest struct {
	Path string `json:"path"`
}

// RemoveDutySlip handles PUT /api/bookings/{id}/remove-duty-slip
func (h *BookingHandler) RemoveDutySlip(w http.ResponseWriter, r *http.Request) {
	var req removeDutySlipRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	b, err := h.bookings.RemoveDutySlip(r.Context(), r.PathValue("id"), req.Path)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}
