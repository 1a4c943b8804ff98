package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"quote-configurator/db"
	"quote-configurator/models"
)

// BookingRepository handles database operations for bookings and contact messages
type BookingRepository struct{}

// NewBookingRepository creates a new BookingRepository
func NewBookingRepository() *BookingRepository {
	return &BookingRepository{}
}

// Ensure BookingRepository implements the repository interfaces
var (
	_ BookingRepositoryInterface        = (*BookingRepository)(nil)
	_ ContactMessageRepositoryInterface = (*BookingRepository)(nil)
)

const bookingColumns = `id, status, contact_name, contact_email, contact_phone, notes, quote,
	to_char(start_date, 'YYYY-MM-DD'), to_char(end_date, 'YYYY-MM-DD'), created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBooking(row rowScanner) (*models.BookingRecord, error) {
	var b models.BookingRecord
	var status string
	var phone, notes sql.NullString
	var quoteJSON []byte
	var createdAt, updatedAt time.Time

	err := row.Scan(
		&b.ID,
		&status,
		&b.Contact.Name,
		&b.Contact.Email,
		&phone,
		&notes,
		&quoteJSON,
		&b.StartDate,
		&b.EndDate,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(quoteJSON, &b.Quote); err != nil {
		return nil, fmt.Errorf("failed to decode quote snapshot: %w", err)
	}
	b.Status = models.BookingStatus(status)
	b.Contact.Phone = phone.String
	b.Contact.Notes = notes.String
	b.CreatedAt = createdAt.UTC().Format(time.RFC3339)
	b.UpdatedAt = updatedAt.UTC().Format(time.RFC3339)
	return &b, nil
}

// Create inserts a booking; the record's timestamps are filled from the database
func (r *BookingRepository) Create(ctx context.Context, booking *models.BookingRecord) error {
	log.Printf("📦 Create: Creating booking id=%s for %s (%s..%s)", booking.ID, booking.Contact.Email, booking.StartDate, booking.EndDate)

	quoteJSON, err := json.Marshal(booking.Quote)
	if err != nil {
		return fmt.Errorf("failed to encode quote snapshot: %w", err)
	}

	query := `
		INSERT INTO bookings (id, status, contact_name, contact_email, contact_phone, notes, project_type,
			price_net, price_gross, deposit, total_days, quote, start_date, end_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING ` + bookingColumns

	created, err := scanBooking(db.DB.QueryRowContext(ctx, query,
		booking.ID,
		string(booking.Status),
		booking.Contact.Name,
		booking.Contact.Email,
		sql.NullString{String: booking.Contact.Phone, Valid: booking.Contact.Phone != ""},
		sql.NullString{String: booking.Contact.Notes, Valid: booking.Contact.Notes != ""},
		booking.Quote.ProjectType,
		booking.Quote.PriceNet,
		booking.Quote.PriceGross,
		booking.Quote.Deposit,
		booking.Quote.TotalDays,
		quoteJSON,
		booking.StartDate,
		booking.EndDate,
	))
	if err != nil {
		log.Printf("❌ Create: Error creating booking: %v", err)
		return fmt.Errorf("failed to create booking: %w", err)
	}

	*booking = *created
	log.Printf("✅ Create: Successfully created booking id=%s", booking.ID)
	return nil
}

// GetByID retrieves a booking by id
func (r *BookingRepository) GetByID(ctx context.Context, id string) (*models.BookingRecord, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`

	booking, err := scanBooking(db.DB.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		log.Printf("❌ GetByID: Error fetching booking id=%s: %v", id, err)
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}
	return booking, nil
}

// List retrieves bookings filtered by status, newest first
func (r *BookingRepository) List(ctx context.Context, status *string) ([]models.BookingRecord, error) {
	log.Printf("📦 List: Fetching bookings with status=%v", status)

	query := `SELECT ` + bookingColumns + ` FROM bookings`
	var args []any
	if status != nil && *status != "" {
		query += ` WHERE status = $1`
		args = append(args, *status)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := db.DB.QueryContext(ctx, query, args...)
	if err != nil {
		log.Printf("❌ List: Error querying bookings: %v", err)
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	defer rows.Close()

	bookings := []models.BookingRecord{}
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan booking: %w", err)
		}
		bookings = append(bookings, *booking)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating bookings: %w", err)
	}

	log.Printf("✅ List: Found %d bookings", len(bookings))
	return bookings, nil
}

// UpdateStatus moves a booking from one status to another
func (r *BookingRepository) UpdateStatus(ctx context.Context, id string, from, to models.BookingStatus) (*models.BookingRecord, error) {
	log.Printf("📦 UpdateStatus: booking id=%s %s -> %s", id, from, to)

	query := `
		UPDATE bookings SET status = $1, updated_at = NOW()
		WHERE id = $2 AND status = $3
		RETURNING ` + bookingColumns

	booking, err := scanBooking(db.DB.QueryRowContext(ctx, query, string(to), id, string(from)))
	if errors.Is(err, sql.ErrNoRows) {
		var current string
		err := db.DB.QueryRowContext(ctx, `SELECT status FROM bookings WHERE id = $1`, id).Scan(&current)
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBookingNotFound
		}
		if err != nil {
			return nil, fmt.Errorf("failed to get booking status: %w", err)
		}
		log.Printf("❌ UpdateStatus: booking id=%s is %s, expected %s", id, current, from)
		return nil, fmt.Errorf("%w: booking is %s", ErrStatusConflict, current)
	}
	if err != nil {
		log.Printf("❌ UpdateStatus: Error updating booking id=%s: %v", id, err)
		return nil, fmt.Errorf("failed to update booking status: %w", err)
	}

	log.Printf("✅ UpdateStatus: booking id=%s is now %s", id, to)
	return booking, nil
}

// SaveContactMessage stores a contact form message
func (r *BookingRepository) SaveContactMessage(ctx context.Context, id string, msg models.ContactMessage) error {
	query := `INSERT INTO contact_messages (id, name, email, phone, message) VALUES ($1, $2, $3, $4, $5)`

	_, err := db.DB.ExecContext(ctx, query, id, msg.Name, msg.Email,
		sql.NullString{String: msg.Phone, Valid: msg.Phone != ""}, msg.Message)
	if err != nil {
		log.Printf("❌ SaveContactMessage: Error saving message from %s: %v", msg.Email, err)
		return fmt.Errorf("failed to save contact message: %w", err)
	}

	log.Printf("✅ SaveContactMessage: Saved message id=%s", id)
	return nil
}
