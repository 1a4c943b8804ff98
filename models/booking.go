package models

// BookingStatus is the lifecycle of a booking record
type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingRejected  BookingStatus = "rejected"
)

// ContactInfo is collected in the summary step
type ContactInfo struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone,omitempty"`
	Notes string `json:"notes,omitempty"`
}

// BookingSubmission is what the workflow hands to the booking sink
type BookingSubmission struct {
	Contact   ContactInfo `json:"contact"`
	Quote     Quote       `json:"quote"`
	StartDate string      `json:"startDate"` // YYYY-MM-DD
	EndDate   string      `json:"endDate"`   // YYYY-MM-DD
}

// BookingRecord is the stored booking (CRM record)
type BookingRecord struct {
	ID        string        `json:"id"`
	Status    BookingStatus `json:"status"`
	Contact   ContactInfo   `json:"contact"`
	Quote     Quote         `json:"quote"`
	StartDate string        `json:"startDate"`
	EndDate   string        `json:"endDate"`
	CreatedAt string        `json:"createdAt"`
	UpdatedAt string        `json:"updatedAt"`
}

// BookingListResponse represents the response for listing bookings
type BookingListResponse struct {
	Bookings []BookingRecord `json:"bookings"`
}

// ContactMessage is a plain lead message from the contact form
// Example: {"name": "Anna", "email": "anna@example.com", "message": "We need a new shop..."}
type ContactMessage struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone,omitempty"`
	Message string `json:"message"`
}

// CheckoutView is the client-facing state of a booking workflow
type CheckoutView struct {
	State            string         `json:"state"` // summary, calendar or success
	Closed           bool           `json:"closed"`
	Contact          ContactInfo    `json:"contact"`
	RequiredWorkDays int            `json:"requiredWorkDays"`
	StartDate        string         `json:"startDate,omitempty"`
	EndDate          string         `json:"endDate,omitempty"`
	LastError        string         `json:"lastError,omitempty"` // Inline error of the last failed submission
	Booking          *BookingRecord `json:"booking,omitempty"`
}
