package handlers

import (
	"net/http"

	"github.com/ukydev/fleet-booking/internal/models"
)

// AddDriverPayment handles POST /api/bookings/{id}/driver-payments
func (h *BookingHandler) AddDriverPayment(w http.ResponseWriter, r *http.Request) {
	var req models.DriverPaymentRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	p, err := h.bookings.AddDriverPayment(r.Context(), r.PathValue("id"), req)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

// ListDriverPayments handles GET /api/bookings/{id}/driver-payments
func (h *BookingHandler) ListDriverPayments(w http.ResponseWriter, r *http.Request) {
	payments, err := h.bookings.ListDriverPayments(r.Context(), r.PathValue("id"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, payments)
}

// UpdateDriverPayment handles PUT /api/bookings/{id}/driver-payments/{paymentId}
func (h *BookingHandler) UpdateDriverPayment(w http.ResponseWriter, r *http.Request) {
	var req models.DriverPaymentRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	p, err := h.bookings.UpdateDriverPayment(r.Context(), r.PathValue("id"), r.PathValue("paymentId"), req)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// DeleteDriverPayment handles DELETE /api/bookings/{id}/driver-payments/{paymentId}
func (h *BookingHandler) DeleteDriverPayment(w http.ResponseWriter, r *http.Request) {
	if err := h.bookings.DeleteDriverPayment(r.Context(), r.PathValue("id"), r.PathValue("paymentId")); err != nil {
		handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Settle handles PUT /api/bookings/{id}/settle
func (h *BookingHandler) Settle(w http.ResponseWriter, r *http.Request) {
	var req models.SettleRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	res, err := h.bookings.Settle(r.Context(), r.PathValue("id"), req)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// DriverPayments handles GET /api/drivers/{id}/payments
func (h *BookingHandler) DriverPayments(w http.ResponseWriter, r *http.Request) {
	payments, err := h.bookings.DriverPayments(r.Context(), r.PathValue("id"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, payments)
}

// DriverReport handles GET /api/reports/drivers/{driverId}?from=&to=
func (h *BookingHandler) DriverReport(w http.ResponseWriter, r *http.Request) {
	q := models.ReportQuery{DriverID: r.PathValue("driverId")}
	from, to := r.URL.Query().Get("from"), r.URL.Query().Get("to")
	if from == "" || to == "" {
		writeError(w, http.StatusBadRequest, "from and to are required")
		return
	}

	var err error
	if q.From, err = parseTime(from, false); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid from")
		return
	}
	if q.To, err = parseTime(to, true); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid to")
		return
	}

	report, err := h.bookings.DriverReport(r.Context(), q)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}
