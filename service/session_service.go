package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"quote-configurator/booking"
	"quote-configurator/catalog"
	"quote-configurator/models"
	"quote-configurator/pricing"
	"quote-configurator/selection"

	"github.com/google/uuid"
)

var (
	// ErrSessionNotFound is returned for unknown or expired session ids
	ErrSessionNotFound = errors.New("session not found")
	// ErrNoCheckout is returned for checkout operations before checkout started
	ErrNoCheckout = errors.New("no checkout in progress")
	// ErrTooManySessions is returned by Create when the live session limit is reached
	ErrTooManySessions = errors.New("too many active sessions")
)

// DefaultMaxSessions caps live sessions held in memory
const DefaultMaxSessions = 10000

// SessionView is the client-facing state of a configurator session
type SessionView struct {
	ID          string                  `json:"id"`
	ProjectType string                  `json:"projectType"`
	Items       []selection.ItemState   `json:"items"`
	Quote       models.Quote            `json:"quote"`
	Checkout    *models.CheckoutView    `json:"checkout,omitempty"`
	Toggle      *selection.ToggleResult `json:"toggle,omitempty"` // Result of the last toggle call
}

type session struct {
	mu        sync.Mutex
	id        string
	engine    *selection.Engine
	checkout  *booking.Workflow
	touchedAt time.Time
}

// SessionService keeps configurator sessions in memory. Every session is serialized by its own lock.
type SessionService struct {
	mu       sync.Mutex
	sessions map[string]*session

	catalog   *catalog.Catalog
	pricing   *pricing.Engine
	deps      booking.Deps
	documents *QuoteDocumentService
	ttl       time.Duration
	max       int
	now       func() time.Time
}

// NewSessionService creates a new SessionService. deps are shared by every checkout.
func NewSessionService(c *catalog.Catalog, engine *pricing.Engine, deps booking.Deps, documents *QuoteDocumentService, ttl time.Duration) *SessionService {
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	return &SessionService{
		sessions:  make(map[string]*session),
		catalog:   c,
		pricing:   engine,
		deps:      deps,
		documents: documents,
		ttl:       ttl,
		max:       DefaultMaxSessions,
		now:       time.Now,
	}
}

// SetMaxSessions changes the live session limit. n < 1 restores the default.
func (s *SessionService) SetMaxSessions(n int) {
	if n < 1 {
		n = DefaultMaxSessions
	}
	s.mu.Lock()
	s.max = n
	s.mu.Unlock()
}

// Create starts a session. An empty project type picks the first enabled one.
func (s *SessionService) Create(projectType string) (*SessionView, error) {
	if projectType == "" {
		for _, pt := range s.catalog.Data().ProjectTypes {
			if !pt.Disabled {
				projectType = pt.ID
				break
			}
		}
	}
	engine, err := selection.New(s.catalog, projectType)
	if err != nil {
		return nil, err
	}

	sess := &session{id: uuid.NewString(), engine: engine, touchedAt: s.now()}

	s.mu.Lock()
	s.sweepLocked()
	if len(s.sessions) >= s.max {
		s.mu.Unlock()
		log.Printf("⚠️ Create: session limit %d reached", s.max)
		return nil, ErrTooManySessions
	}
	s.sessions[sess.id] = sess
	count := len(s.sessions)
	s.mu.Unlock()

	log.Printf("📥 Create: session=%s type=%s active=%d", sess.id, projectType, count)
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return s.view(sess), nil
}

func (s *SessionService) sweepLocked() {
	now := s.now()
	for id, sess := range s.sessions {
		if now.Sub(sess.touchedAt) > s.ttl {
			delete(s.sessions, id)
		}
	}
}

// with runs fn under the session lock
func (s *SessionService) with(id string, fn func(sess *session) error) (*SessionView, error) {
	s.mu.Lock()
	sess, ok := s.sessions[id]
	if ok && s.now().Sub(sess.touchedAt) > s.ttl {
		delete(s.sessions, id)
		ok = false
	}
	s.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	sess.touchedAt = s.now()
	if err := fn(sess); err != nil {
		return nil, err
	}
	return s.view(sess), nil
}

func (s *SessionService) view(sess *session) *SessionView {
	v := &SessionView{
		ID:          sess.id,
		ProjectType: sess.engine.ProjectType(),
		Items:       sess.engine.Items(),
		Quote:       s.pricing.CalculateQuote(sess.engine.Snapshot()),
	}
	if sess.checkout != nil {
		cv := sess.checkout.View()
		v.Checkout = &cv
	}
	return v
}

// discardCheckout drops a checkout whose quote no longer matches the selection
func discardCheckout(sess *session) {
	if sess.checkout != nil {
		log.Printf("⚠️ discardCheckout: session=%s selection changed, checkout reset", sess.id)
		sess.checkout = nil
	}
}

// Get returns the session state
func (s *SessionService) Get(id string) (*SessionView, error) {
	return s.with(id, func(*session) error { return nil })
}

// Toggle flips an item and reports the typed outcome
func (s *SessionService) Toggle(id, itemID string, confirmed bool) (*SessionView, error) {
	var result selection.ToggleResult
	view, err := s.with(id, func(sess *session) error {
		result = sess.engine.Toggle(itemID, confirmed)
		if result.Outcome == selection.Applied {
			discardCheckout(sess)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	view.Toggle = &result
	return view, nil
}

// SetQuantity stores a clamped quantity for a selected item
func (s *SessionService) SetQuantity(id, itemID string, n int) (*SessionView, error) {
	return s.with(id, func(sess *session) error {
		before := sess.engine.Quantity(itemID)
		if stored := sess.engine.SetQuantity(itemID, n); stored != 0 && stored != before {
			discardCheckout(sess)
		}
		return nil
	})
}

// ChangeProjectType resets the selection for another project type
func (s *SessionService) ChangeProjectType(id, projectType string) (*SessionView, error) {
	return s.with(id, func(sess *session) error {
		if err := sess.engine.ChangeProjectType(projectType); err != nil {
			return err
		}
		discardCheckout(sess)
		return nil
	})
}

// StartCheckout snapshots the current quote into a new checkout in the summary step.
// A finished but not yet closed checkout is kept.
func (s *SessionService) StartCheckout(id string) (*SessionView, error) {
	return s.with(id, func(sess *session) error {
		if sess.checkout != nil && sess.checkout.State() == booking.StateSuccess && !sess.checkout.Closed() {
			return fmt.Errorf("%w: booking already submitted", booking.ErrInvalidTransition)
		}
		quote := s.pricing.CalculateQuote(sess.engine.Snapshot())
		sess.checkout = booking.NewWorkflow(quote, s.deps)
		return nil
	})
}

func (s *SessionService) withCheckout(id string, fn func(w *booking.Workflow) error) (*SessionView, error) {
	return s.with(id, func(sess *session) error {
		if sess.checkout == nil {
			return ErrNoCheckout
		}
		return fn(sess.checkout)
	})
}

// SetContact validates the contact step and moves to the calendar
func (s *SessionService) SetContact(id string, contact models.ContactInfo) (*SessionView, error) {
	return s.withCheckout(id, func(w *booking.Workflow) error { return w.SetContact(contact) })
}

// Back returns from the calendar to the summary
func (s *SessionService) Back(id string) (*SessionView, error) {
	return s.withCheckout(id, func(w *booking.Workflow) error { return w.Back() })
}

// Availability loads valid start dates for the checkout
func (s *SessionService) Availability(ctx context.Context, id string) (*models.AvailabilityResponse, error) {
	var resp models.AvailabilityResponse
	_, err := s.withCheckout(id, func(w *booking.Workflow) error {
		var err error
		resp, err = w.LoadAvailability(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// SelectStart chooses a start date from the loaded availability
func (s *SessionService) SelectStart(id, day string) (*SessionView, error) {
	return s.withCheckout(id, func(w *booking.Workflow) error { return w.SelectStart(day) })
}

// Submit sends the booking. On a sink failure only the error is returned; the workflow keeps the
// inline error and the next Get shows it.
func (s *SessionService) Submit(ctx context.Context, id string) (*SessionView, error) {
	return s.withCheckout(id, func(w *booking.Workflow) error {
		_, err := w.Submit(ctx)
		return err
	})
}

// Close ends the checkout
func (s *SessionService) Close(id string) (*SessionView, error) {
	return s.withCheckout(id, func(w *booking.Workflow) error { return w.Close() })
}

// QuotePDF renders the current quote, with contact and dates once the checkout has them
func (s *SessionService) QuotePDF(ctx context.Context, id string) ([]byte, error) {
	var doc QuoteDocument
	_, err := s.with(id, func(sess *session) error {
		doc = QuoteDocument{
			Reference: shortRef(sess.id),
			Quote:     s.pricing.CalculateQuote(sess.engine.Snapshot()),
			IssuedAt:  s.now(),
		}
		if sess.checkout != nil {
			v := sess.checkout.View()
			doc.Quote = sess.checkout.Quote()
			if v.Contact.Name != "" {
				contact := v.Contact
				doc.Contact = &contact
			}
			doc.StartDate, doc.EndDate = v.StartDate, v.EndDate
			if v.Booking != nil {
				doc.Reference = shortRef(v.Booking.ID)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	// Rendering runs outside the session lock
	return s.documents.GeneratePDF(ctx, doc)
}

func shortRef(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// Count returns the number of live sessions
func (s *SessionService) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}
