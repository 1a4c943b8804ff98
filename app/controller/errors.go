package controller

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"quote-configurator/app/middleware"
	"quote-configurator/booking"
	"quote-configurator/catalog"
	"quote-configurator/repository"
	"quote-configurator/service"
)

// writeServiceError maps service and workflow errors to status codes
func writeServiceError(w http.ResponseWriter, r *http.Request, op string, err error) {
	var validation *booking.ValidationError
	var submission *booking.SubmissionError

	switch {
	case errors.As(err, &validation):
		log.Printf("❌ %s: validation failed: %v", op, err)
		middleware.WriteValidationError(w, r, validation.Fields)
	case errors.As(err, &submission):
		log.Printf("❌ %s: %v", op, err)
		middleware.WriteAPIError(w, r, http.StatusBadGateway, "submission_failed",
			"We could not send your booking. Please try again.", "")
	case errors.Is(err, catalog.ErrUnknownProjectType), errors.Is(err, catalog.ErrProjectTypeDisabled):
		log.Printf("❌ %s: %v", op, err)
		middleware.WriteAPIError(w, r, http.StatusBadRequest, "invalid_project_type", "Unknown or unavailable project type", err.Error())
	case errors.Is(err, service.ErrInvalidStatusFilter):
		log.Printf("❌ %s: %v", op, err)
		middleware.WriteAPIError(w, r, http.StatusBadRequest, "invalid_status", "Status must be pending, confirmed or rejected", "")
	case errors.Is(err, service.ErrTooManySessions):
		log.Printf("⚠️ %s: %v", op, err)
		middleware.WriteAPIError(w, r, http.StatusServiceUnavailable, "too_many_sessions", "Too many active sessions. Please try again later.", "")
	case errors.Is(err, service.ErrSessionNotFound):
		middleware.WriteAPIError(w, r, http.StatusNotFound, "session_not_found", "Session not found or expired", "")
	case errors.Is(err, repository.ErrBookingNotFound):
		middleware.WriteAPIError(w, r, http.StatusNotFound, "booking_not_found", "Booking not found", "")
	case errors.Is(err, booking.ErrDateUnavailable):
		middleware.WriteAPIError(w, r, http.StatusConflict, "date_unavailable", "The chosen start date is not available", err.Error())
	case errors.Is(err, booking.ErrInvalidTransition),
		errors.Is(err, booking.ErrClosed),
		errors.Is(err, booking.ErrAvailabilityNotLoaded),
		errors.Is(err, booking.ErrNoStartDate),
		errors.Is(err, service.ErrNoCheckout),
		errors.Is(err, service.ErrInvalidStatusTransition):
		log.Printf("⚠️ %s: %v", op, err)
		middleware.WriteAPIError(w, r, http.StatusConflict, "invalid_state", "This action is not possible right now", err.Error())
	default:
		log.Printf("❌ %s: %v", op, err)
		middleware.WriteAPIError(w, r, http.StatusInternalServerError, "internal_error", "An internal error occurred", "")
	}
}

func badRequest(w http.ResponseWriter, r *http.Request, op string, err error) {
	log.Printf("❌ %s: %v", op, err)
	middleware.WriteAPIError(w, r, http.StatusBadRequest, "invalid_request", "Invalid request body", err.Error())
}

func methodNotAllowed(w http.ResponseWriter, r *http.Request, op string) {
	log.Printf("❌ %s: Method not allowed: %s", op, r.Method)
	middleware.WriteAPIError(w, r, http.StatusMethodNotAllowed, "method_not_allowed", "Method not allowed", "")
}

// pathParts splits the path below prefix, e.g. "/api/sessions/abc/toggle" -> ["abc", "toggle"]
func pathParts(r *http.Request, prefix string) []string {
	rest := strings.Trim(strings.TrimPrefix(r.URL.Path, prefix), "/")
	if rest == "" {
		return nil
	}
	return strings.Split(rest, "/")
}
