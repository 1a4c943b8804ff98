package controller

import (
	"context"
	"log"
	"net/http"
	"strings"

	"quote-configurator/app/middleware"
	"quote-configurator/models"
	"quote-configurator/service"
)

const bookingsPrefix = "/admin/bookings/"

// BookingController handles the admin side of booking requests
type BookingController struct {
	bookings *service.BookingService
}

// NewBookingController creates a new BookingController
func NewBookingController(bookings *service.BookingService) *BookingController {
	return &BookingController{bookings: bookings}
}

// ListBookings handles GET /admin/bookings?status=pending
// Example response:
// {
//   "bookings": [
//     {"id": "0f8c...", "status": "pending", "startDate": "2024-06-07", "endDate": "2024-06-10", ...}
//   ]
// }
func (c *BookingController) ListBookings(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, "ListBookings")
		return
	}

	status := strings.TrimSpace(r.URL.Query().Get("status"))
	bookings, err := c.bookings.List(r.Context(), status)
	if err != nil {
		writeServiceError(w, r, "ListBookings", err)
		return
	}
	log.Printf("✅ ListBookings: %d bookings (status=%q)", len(bookings), status)
	middleware.WriteJSON(w, http.StatusOK, models.BookingListResponse{Bookings: bookings})
}

// GetBooking handles GET /admin/bookings/{id}
func (c *BookingController) GetBooking(w http.ResponseWriter, r *http.Request) {
	parts := pathParts(r, bookingsPrefix)
	if len(parts) != 1 {
		middleware.WriteAPIError(w, r, http.StatusNotFound, "not_found", "Not found", "")
		return
	}

	record, err := c.bookings.Get(r.Context(), parts[0])
	if err != nil {
		writeServiceError(w, r, "GetBooking", err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, record)
}

// ConfirmBooking handles POST /admin/bookings/{id}/confirm
func (c *BookingController) ConfirmBooking(w http.ResponseWriter, r *http.Request) {
	c.decide(w, r, "ConfirmBooking", c.bookings.Confirm)
}

// RejectBooking handles POST /admin/bookings/{id}/reject
func (c *BookingController) RejectBooking(w http.ResponseWriter, r *http.Request) {
	c.decide(w, r, "RejectBooking", c.bookings.Reject)
}

func (c *BookingController) decide(w http.ResponseWriter, r *http.Request, op string,
	fn func(ctx context.Context, id string) (*models.BookingRecord, error)) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, op)
		return
	}
	parts := pathParts(r, bookingsPrefix)
	if len(parts) != 2 {
		middleware.WriteAPIError(w, r, http.StatusNotFound, "not_found", "Not found", "")
		return
	}

	record, err := fn(r.Context(), parts[0])
	if err != nil {
		writeServiceError(w, r, op, err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, record)
}
