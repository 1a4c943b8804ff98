package controller

import (
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"

	"quote-configurator/app/middleware"
	"quote-configurator/models"
	"quote-configurator/service"
)

const sessionsPrefix = "/api/sessions/"

// SessionController handles the configurator session and checkout endpoints
type SessionController struct {
	sessions *service.SessionService
}

// NewSessionController creates a new SessionController
func NewSessionController(sessions *service.SessionService) *SessionController {
	return &SessionController{sessions: sessions}
}

type createSessionRequest struct {
	ProjectType string `json:"projectType"`
}

type toggleRequest struct {
	ItemID    string `json:"itemId"`
	Confirmed bool   `json:"confirmed"`
}

type quantityRequest struct {
	ItemID   string `json:"itemId"`
	Quantity int    `json:"quantity"`
}

type startDateRequest struct {
	StartDate string `json:"startDate"`
}

func sessionID(r *http.Request) string {
	parts := pathParts(r, sessionsPrefix)
	if len(parts) == 0 {
		return ""
	}
	return parts[0]
}

// Create handles POST /api/sessions
// Example request: {"projectType": "website"}. An empty body picks the first enabled project type.
func (c *SessionController) Create(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, "CreateSession")
		return
	}

	var req createSessionRequest
	if err := middleware.ParseJSONRequest(w, r, &req); err != nil && !errors.Is(err, io.EOF) {
		badRequest(w, r, "CreateSession", err)
		return
	}

	view, err := c.sessions.Create(req.ProjectType)
	if err != nil {
		writeServiceError(w, r, "CreateSession", err)
		return
	}
	middleware.WriteJSON(w, http.StatusCreated, view)
}

// Get handles GET /api/sessions/{id}
func (c *SessionController) Get(w http.ResponseWriter, r *http.Request) {
	view, err := c.sessions.Get(sessionID(r))
	if err != nil {
		writeServiceError(w, r, "GetSession", err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, view)
}

// Toggle handles POST /api/sessions/{id}/toggle
// Example request: {"itemId": "cms", "confirmed": false}
// The response carries the session and the toggle outcome; "needs_confirmation" means nothing changed
// and the call should be repeated with "confirmed": true once the user agrees.
func (c *SessionController) Toggle(w http.ResponseWriter, r *http.Request) {
	var req toggleRequest
	if err := middleware.ParseJSONRequest(w, r, &req); err != nil {
		badRequest(w, r, "Toggle", err)
		return
	}
	if req.ItemID == "" {
		middleware.WriteValidationError(w, r, map[string]string{"itemId": "is required"})
		return
	}

	view, err := c.sessions.Toggle(sessionID(r), req.ItemID, req.Confirmed)
	if err != nil {
		writeServiceError(w, r, "Toggle", err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, view)
}

// SetQuantity handles POST /api/sessions/{id}/quantity
func (c *SessionController) SetQuantity(w http.ResponseWriter, r *http.Request) {
	var req quantityRequest
	if err := middleware.ParseJSONRequest(w, r, &req); err != nil {
		badRequest(w, r, "SetQuantity", err)
		return
	}
	if req.ItemID == "" {
		middleware.WriteValidationError(w, r, map[string]string{"itemId": "is required"})
		return
	}

	view, err := c.sessions.SetQuantity(sessionID(r), req.ItemID, req.Quantity)
	if err != nil {
		writeServiceError(w, r, "SetQuantity", err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, view)
}

// ChangeProjectType handles POST /api/sessions/{id}/project-type
func (c *SessionController) ChangeProjectType(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if err := middleware.ParseJSONRequest(w, r, &req); err != nil {
		badRequest(w, r, "ChangeProjectType", err)
		return
	}

	view, err := c.sessions.ChangeProjectType(sessionID(r), req.ProjectType)
	if err != nil {
		writeServiceError(w, r, "ChangeProjectType", err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, view)
}

// StartCheckout handles POST /api/sessions/{id}/checkout
func (c *SessionController) StartCheckout(w http.ResponseWriter, r *http.Request) {
	view, err := c.sessions.StartCheckout(sessionID(r))
	if err != nil {
		writeServiceError(w, r, "StartCheckout", err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, view)
}

// SetContact handles POST /api/sessions/{id}/contact
// Example request: {"name": "Anna", "email": "anna@example.com", "phone": "+48 600 000 000"}
func (c *SessionController) SetContact(w http.ResponseWriter, r *http.Request) {
	var req models.ContactInfo
	if err := middleware.ParseJSONRequest(w, r, &req); err != nil {
		badRequest(w, r, "SetContact", err)
		return
	}

	view, err := c.sessions.SetContact(sessionID(r), req)
	if err != nil {
		writeServiceError(w, r, "SetContact", err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, view)
}

// Back handles POST /api/sessions/{id}/back
func (c *SessionController) Back(w http.ResponseWriter, r *http.Request) {
	view, err := c.sessions.Back(sessionID(r))
	if err != nil {
		writeServiceError(w, r, "Back", err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, view)
}

// Availability handles GET /api/sessions/{id}/availability
func (c *SessionController) Availability(w http.ResponseWriter, r *http.Request) {
	resp, err := c.sessions.Availability(r.Context(), sessionID(r))
	if err != nil {
		writeServiceError(w, r, "Availability", err)
		return
	}
	log.Printf("📅 Availability: session=%s days=%d starts=%d degraded=%t",
		sessionID(r), resp.RequiredWorkDays, len(resp.ValidStarts), resp.Degraded)
	middleware.WriteJSON(w, http.StatusOK, resp)
}

// SelectStart handles POST /api/sessions/{id}/start-date
// Example request: {"startDate": "2024-06-07"}
func (c *SessionController) SelectStart(w http.ResponseWriter, r *http.Request) {
	var req startDateRequest
	if err := middleware.ParseJSONRequest(w, r, &req); err != nil {
		badRequest(w, r, "SelectStart", err)
		return
	}

	view, err := c.sessions.SelectStart(sessionID(r), req.StartDate)
	if err != nil {
		writeServiceError(w, r, "SelectStart", err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, view)
}

// Submit handles POST /api/sessions/{id}/submit
func (c *SessionController) Submit(w http.ResponseWriter, r *http.Request) {
	view, err := c.sessions.Submit(r.Context(), sessionID(r))
	if err != nil {
		writeServiceError(w, r, "Submit", err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, view)
}

// Close handles POST /api/sessions/{id}/close
func (c *SessionController) Close(w http.ResponseWriter, r *http.Request) {
	view, err := c.sessions.Close(sessionID(r))
	if err != nil {
		writeServiceError(w, r, "Close", err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, view)
}

// QuotePDF handles GET /api/sessions/{id}/quote.pdf
func (c *SessionController) QuotePDF(w http.ResponseWriter, r *http.Request) {
	id := sessionID(r)
	pdf, err := c.sessions.QuotePDF(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, "QuotePDF", err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="quote-%s.pdf"`, id))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(pdf); err != nil {
		log.Printf("❌ QuotePDF: failed to write response: %v", err)
	}
}
