package booking

import (
	"net/mail"
	"strings"
	"unicode/utf8"

	"quote-configurator/models"
)

const (
	maxNameLength    = 200
	maxPhoneLength   = 40
	maxNotesLength   = 2000
	minMessageLength = 10
	maxMessageLength = 5000
)

// ValidEmail reports whether v looks like a bare e-mail address
func ValidEmail(v string) bool {
	addr, err := mail.ParseAddress(v)
	if err != nil || addr.Address != v {
		return false
	}
	at := strings.LastIndex(v, "@")
	return at > 0 && strings.Contains(v[at+1:], ".")
}

// ValidateContact checks the summary form. Name and e-mail are required, phone is optional.
func ValidateContact(c models.ContactInfo) error {
	fields := map[string]string{}
	checkPerson(fields, c.Name, c.Email, c.Phone)
	if utf8.RuneCountInString(c.Notes) > maxNotesLength {
		fields["notes"] = "is too long"
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

// ValidateMessage checks a contact form message
func ValidateMessage(m models.ContactMessage) error {
	fields := map[string]string{}
	checkPerson(fields, m.Name, m.Email, m.Phone)
	switch n := utf8.RuneCountInString(strings.TrimSpace(m.Message)); {
	case n < minMessageLength:
		fields["message"] = "is too short"
	case n > maxMessageLength:
		fields["message"] = "is too long"
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

func checkPerson(fields map[string]string, name, email, phone string) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	switch {
	case name == "":
		fields["name"] = "is required"
	case utf8.RuneCountInString(name) > maxNameLength:
		fields["name"] = "is too long"
	}
	switch {
	case email == "":
		fields["email"] = "is required"
	case !ValidEmail(email):
		fields["email"] = "is not a valid address"
	}
	if utf8.RuneCountInString(phone) > maxPhoneLength {
		fields["phone"] = "is too long"
	}
}

// normalizeContact trims the contact fields
func normalizeContact(c models.ContactInfo) models.ContactInfo {
	c.Name = strings.TrimSpace(c.Name)
	c.Email = strings.TrimSpace(c.Email)
	c.Phone = strings.TrimSpace(c.Phone)
	c.Notes = strings.TrimSpace(c.Notes)
	return c
}
