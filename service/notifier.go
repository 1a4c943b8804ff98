package service

import (
	"context"
	"fmt"
	"log"
	"net/smtp"
	"strings"
	"time"

	"quote-configurator/models"
	"quote-configurator/utils"
)

// Notifier tells the studio about new bookings and contact messages
type Notifier interface {
	NotifyBooking(ctx context.Context, booking models.BookingRecord) error
	NotifyContact(ctx context.Context, msg models.ContactMessage) error
}

// SMTPConfig holds the outgoing mail settings
type SMTPConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
	To       string
}

type sendMailFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// SMTPNotifier sends plain-text mails through an SMTP relay
type SMTPNotifier struct {
	cfg   SMTPConfig
	money *utils.MoneyFormatter
	send  sendMailFunc
}

var _ Notifier = (*SMTPNotifier)(nil)

// NewSMTPNotifier creates a new SMTPNotifier
func NewSMTPNotifier(cfg SMTPConfig, money *utils.MoneyFormatter) *SMTPNotifier {
	return &SMTPNotifier{cfg: cfg, money: money, send: smtp.SendMail}
}

// NotifyBooking mails the booking summary to the studio
func (n *SMTPNotifier) NotifyBooking(_ context.Context, b models.BookingRecord) error {
	q := b.Quote
	var body strings.Builder
	fmt.Fprintf(&body, "New booking %s (%s)\n\n", b.ID, b.Status)
	fmt.Fprintf(&body, "Client: %s <%s>\n", b.Contact.Name, b.Contact.Email)
	if b.Contact.Phone != "" {
		fmt.Fprintf(&body, "Phone: %s\n", b.Contact.Phone)
	}
	fmt.Fprintf(&body, "Dates: %s - %s (%d business days)\n", b.StartDate, b.EndDate, q.TotalDays)
	fmt.Fprintf(&body, "Project type: %s\n", q.ProjectType)
	fmt.Fprintf(&body, "Net: %s, gross: %s, deposit: %s\n", n.money.Format(q.PriceNet), n.money.Format(q.PriceGross), n.money.Format(q.Deposit))
	body.WriteString("\nItems:\n")
	for _, l := range q.Lines {
		fmt.Fprintf(&body, "- %s x%d\n", l.Name, l.Quantity)
	}
	if b.Contact.Notes != "" {
		fmt.Fprintf(&body, "\nNotes:\n%s\n", b.Contact.Notes)
	}

	subject := fmt.Sprintf("Booking request: %s, %s", b.Contact.Name, b.StartDate)
	return n.mail(subject, b.Contact.Email, body.String())
}

// NotifyContact mails a contact form message to the studio
func (n *SMTPNotifier) NotifyContact(_ context.Context, m models.ContactMessage) error {
	var body strings.Builder
	fmt.Fprintf(&body, "From: %s <%s>\n", m.Name, m.Email)
	if m.Phone != "" {
		fmt.Fprintf(&body, "Phone: %s\n", m.Phone)
	}
	fmt.Fprintf(&body, "\n%s\n", m.Message)

	return n.mail("Contact form: "+m.Name, m.Email, body.String())
}

func (n *SMTPNotifier) mail(subject, replyTo, body string) error {
	headers := []string{
		"From: " + n.cfg.From,
		"To: " + n.cfg.To,
		"Reply-To: " + sanitizeHeader(replyTo),
		"Subject: " + sanitizeHeader(subject),
		"Date: " + time.Now().Format(time.RFC1123Z),
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=UTF-8",
	}
	msg := strings.Join(headers, "\r\n") + "\r\n\r\n" + strings.ReplaceAll(body, "\n", "\r\n")

	var auth smtp.Auth
	if n.cfg.Username != "" {
		auth = smtp.PlainAuth("", n.cfg.Username, n.cfg.Password, n.cfg.Host)
	}
	addr := n.cfg.Host + ":" + n.cfg.Port
	if err := n.send(addr, auth, n.cfg.From, []string{n.cfg.To}, []byte(msg)); err != nil {
		return fmt.Errorf("failed to send mail: %w", err)
	}
	log.Printf("✅ mail: sent %q to %s", subject, n.cfg.To)
	return nil
}

func sanitizeHeader(v string) string {
	return strings.NewReplacer("\r", " ", "\n", " ").Replace(v)
}

// LogNotifier only logs, used when SMTP is not configured
type LogNotifier struct{}

var _ Notifier = LogNotifier{}

// NotifyBooking logs the booking
func (LogNotifier) NotifyBooking(_ context.Context, b models.BookingRecord) error {
	log.Printf("📥 NotifyBooking: id=%s client=%s dates=%s..%s net=%d", b.ID, b.Contact.Email, b.StartDate, b.EndDate, b.Quote.PriceNet)
	return nil
}

// NotifyContact logs the message
func (LogNotifier) NotifyContact(_ context.Context, m models.ContactMessage) error {
	log.Printf("📥 NotifyContact: from=%s chars=%d", m.Email, len(m.Message))
	return nil
}
