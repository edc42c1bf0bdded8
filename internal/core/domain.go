package core

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// DateLayout is the wire format of a transaction date (HTML date input).
const DateLayout = "2006-01-02"

// MaxDescriptionLen bounds the free-text description.
const MaxDescriptionLen = 200

type (
	Date struct {
		time.Time
	}

	Transaction struct {
		Date        Date
		Description string
		Category    Category
		Amount      Amount
	}
)

var (
	ErrInvalidDate        = errors.New("invalid date")
	ErrEmptyDescription   = errors.New("empty description")
	ErrDescriptionTooLong = fmt.Errorf("description too long (max %d characters)", MaxDescriptionLen)
	ErrInvalidCategory    = errors.New("invalid category")
	ErrInvalidAmount      = errors.New("invalid amount")
)

// ValidationError reports which field of a transaction was rejected.
type ValidationError struct {
	Field string
	Err   error
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Err.Error()
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

func invalid(field string, err error) *ValidationError {
	return &ValidationError{Field: field, Err: err}
}

// NewDate creates a new Date from year, month, day
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a date in YYYY-MM-DD format.
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Date{}, invalid("date", ErrInvalidDate)
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, invalid("date", fmt.Errorf("%w: %q", ErrInvalidDate, s))
	}
	return Date{Time: t}, nil
}

func (d Date) Validate() error {
	if d.IsZero() {
		return invalid("date", ErrInvalidDate)
	}
	return nil
}

// String renders the date in its wire format.
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(DateLayout)
}

// Validate checks every field invariant and returns a *ValidationError
// for the first one violated.
func (t Transaction) Validate() error {
	if err := t.Date.Validate(); err != nil {
		return err
	}
	desc := strings.TrimSpace(t.Description)
	if desc == "" {
		return invalid("description", ErrEmptyDescription)
	}
	if len([]rune(desc)) > MaxDescriptionLen {
		return invalid("description", ErrDescriptionTooLong)
	}
	if !t.Category.Valid() {
		return invalid("category", ErrInvalidCategory)
	}
	if err := t.Amount.Validate(); err != nil {
		return invalid("amount", err)
	}
	return nil
}

// NewTransaction builds a transaction from raw form values and validates it.
func NewTransaction(date, description, category, amount string) (Transaction, error) {
	d, err := ParseDate(date)
	if err != nil {
		return Transaction{}, err
	}
	cat, err := ParseCategory(category)
	if err != nil {
		return Transaction{}, invalid("category", err)
	}
	amt, err := ParseAmount(amount)
	if err != nil {
		return Transaction{}, invalid("amount", err)
	}
	t := Transaction{
		Date:        d,
		Description: strings.TrimSpace(description),
		Category:    cat,
		Amount:      amt,
	}
	if err := t.Validate(); err != nil {
		return Transaction{}, err
	}
	return t, nil
}
