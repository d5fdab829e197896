package crm

import (
	"fmt"
	"net/mail"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// EventDateLayout is the textual day-month-year format accepted for
// event start and end dates.
const EventDateLayout = "02-01-2006"

var emailShape = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// NormalizeEmail validates the address shape and returns it lower-cased.
func NormalizeEmail(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("%w: email is required", ErrInvalidInput)
	}
	addr, err := mail.ParseAddress(raw)
	if err != nil || !emailShape.MatchString(addr.Address) {
		return "", fmt.Errorf("%w: invalid email address", ErrInvalidInput)
	}
	return strings.ToLower(addr.Address), nil
}

// ValidatePassword enforces the password strength rules applied before
// hashing: at least 8 characters with one upper, one lower and one
// digit.
func ValidatePassword(password string) error {
	if password == "" {
		return fmt.Errorf("%w: password is required", ErrInvalidInput)
	}
	if len(password) < 8 {
		return fmt.Errorf("%w: password must be at least 8 characters", ErrInvalidInput)
	}
	var upper, lower, digit bool
	for _, r := range password {
		switch {
		case 'A' <= r && r <= 'Z':
			upper = true
		case 'a' <= r && r <= 'z':
			lower = true
		case '0' <= r && r <= '9':
			digit = true
		}
	}
	if !upper {
		return fmt.Errorf("%w: password needs an upper-case letter", ErrInvalidInput)
	}
	if !lower {
		return fmt.Errorf("%w: password needs a lower-case letter", ErrInvalidInput)
	}
	if !digit {
		return fmt.Errorf("%w: password needs a digit", ErrInvalidInput)
	}
	return nil
}

// ParseAmount parses a non-negative monetary amount.
func ParseAmount(field, raw string) (float64, error) {
	raw = strings.TrimSpace(raw)
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be a valid number", ErrInvalidInput, field)
	}
	if v < 0 {
		return 0, fmt.Errorf("%w: %s must be non-negative", ErrInvalidInput, field)
	}
	return v, nil
}

// ValidateContractAmounts checks that both amounts are non-negative and
// that the outstanding amount never exceeds the total.
func ValidateContractAmounts(amount, outstanding float64) error {
	if amount < 0 || outstanding < 0 {
		return fmt.Errorf("%w: amounts must be non-negative", ErrInvalidInput)
	}
	if outstanding > amount {
		return fmt.Errorf("%w: outstanding amount cannot exceed total amount", ErrInvalidInput)
	}
	return nil
}

// ParseEventDate parses an optional dd-mm-yyyy date. Empty input means
// the date is absent.
func ParseEventDate(raw string) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(EventDateLayout, raw)
	if err != nil {
		return nil, fmt.Errorf("%w: date must use the dd-mm-yyyy format", ErrInvalidInput)
	}
	return &t, nil
}

// ValidateEventDates checks the ordering invariant: when both dates are
// present, end must be strictly after start. Either may be absent
// independently.
func ValidateEventDates(start, end *time.Time) error {
	if start == nil || end == nil {
		return nil
	}
	if !end.After(*start) {
		return fmt.Errorf("%w: end date must be after start date", ErrInvalidInput)
	}
	return nil
}

// ParseAttendees parses a non-negative attendee count.
func ParseAttendees(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: attendees must be a valid number", ErrInvalidInput)
	}
	if n < 0 {
		return 0, fmt.Errorf("%w: attendees must be non-negative", ErrInvalidInput)
	}
	return n, nil
}

// ValidateEmployee checks the cross-field rules applied before staging.
func ValidateEmployee(e *Employee) error {
	normalized, err := NormalizeEmail(e.Email)
	if err != nil {
		return err
	}
	e.Email = normalized
	if e.PasswordHash == "" {
		return fmt.Errorf("%w: password hash is required", ErrInvalidInput)
	}
	if e.RoleID <= 0 {
		return fmt.Errorf("%w: a role is required", ErrInvalidInput)
	}
	return nil
}

// ValidateCustomer checks the cross-field rules applied before staging.
func ValidateCustomer(c *Customer) error {
	normalized, err := NormalizeEmail(c.Email)
	if err != nil {
		return err
	}
	c.Email = normalized
	if c.CommercialID <= 0 {
		return fmt.Errorf("%w: an owning commercial is required", ErrInvalidInput)
	}
	return nil
}

// ValidateContract checks the cross-field rules applied before staging.
func ValidateContract(c *Contract) error {
	if strings.TrimSpace(c.Title) == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	if c.CustomerID <= 0 {
		return fmt.Errorf("%w: a customer is required", ErrInvalidInput)
	}
	return ValidateContractAmounts(c.Amount, c.Outstanding)
}

// ValidateEvent checks the cross-field rules applied before staging.
func ValidateEvent(e *Event) error {
	if strings.TrimSpace(e.Title) == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	if e.ContractID <= 0 {
		return fmt.Errorf("%w: a signed contract is required", ErrInvalidInput)
	}
	if e.Attendees < 0 {
		return fmt.Errorf("%w: attendees must be non-negative", ErrInvalidInput)
	}
	return ValidateEventDates(e.Start, e.End)
}

// ValidateRole requires a unique-able, non-empty role name.
func ValidateRole(r *Role) error {
	if strings.TrimSpace(r.Name) == "" {
		return fmt.Errorf("%w: role name is required", ErrInvalidInput)
	}
	return nil
}
