package controller

import (
	"net/http"

	"quote-configurator/app/middleware"
	"quote-configurator/models"
	"quote-configurator/service"
)

// ContactController handles the plain contact form
type ContactController struct {
	bookings *service.BookingService
}

// NewContactController creates a new ContactController
func NewContactController(bookings *service.BookingService) *ContactController {
	return &ContactController{bookings: bookings}
}

type contactResponse struct {
	ID string `json:"id"`
}

// SubmitMessage handles POST /api/contact
// Example request:
// {
//   "name": "Anna",
//   "email": "anna@example.com",
//   "message": "We need a new shop before the autumn season."
// }
func (c *ContactController) SubmitMessage(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, "SubmitMessage")
		return
	}

	var msg models.ContactMessage
	if err := middleware.ParseJSONRequest(w, r, &msg); err != nil {
		badRequest(w, r, "SubmitMessage", err)
		return
	}

	id, err := c.bookings.SubmitContactMessage(r.Context(), msg)
	if err != nil {
		writeServiceError(w, r, "SubmitMessage", err)
		return
	}
	middleware.WriteJSON(w, http.StatusCreated, contactResponse{ID: id})
}
