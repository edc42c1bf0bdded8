// Package http provides HTTP server and handler implementations.
//
// This file implements utilities for parsing and validating HTTP request data.

package http

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"bilancio/internal/core"
)

// ErrInvalidIndex is returned when the removal index is missing or not a number.
var ErrInvalidIndex = errors.New("invalid transaction index")

// TransactionForm holds the raw, sanitized values of the entry form.
type TransactionForm struct {
	Date        string
	Description string
	Category    string
	Amount      string
}

// ReadTransactionForm extracts the entry form fields from a parsed request.
func ReadTransactionForm(r *http.Request) TransactionForm {
	return TransactionForm{
		Date:        strings.TrimSpace(r.FormValue("date")),
		Description: sanitizeInput(r.FormValue("description")),
		Category:    strings.TrimSpace(r.FormValue("category")),
		Amount:      strings.TrimSpace(r.FormValue("amount")),
	}
}

// Transaction validates the form and builds the ledger entry.
func (f TransactionForm) Transaction() (core.Transaction, error) {
	return core.NewTransaction(f.Date, f.Description, f.Category, f.Amount)
}

// ParseIndex reads the 0-based ledger position from the form or query string.
// Range checking is left to the ledger.
func ParseIndex(r *http.Request) (int, error) {
	raw := strings.TrimSpace(r.FormValue("index"))
	if raw == "" {
		return 0, ErrInvalidIndex
	}
	i, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidIndex, raw)
	}
	return i, nil
}

// validationMessage turns a transaction validation error into the text shown
// under the form.
func validationMessage(err error) string {
	switch {
	case errors.Is(err, core.ErrInvalidDate):
		return "Please enter a valid date."
	case errors.Is(err, core.ErrEmptyDescription):
		return "Please enter a description."
	case errors.Is(err, core.ErrDescriptionTooLong):
		return fmt.Sprintf("Description must be at most %d characters.", core.MaxDescriptionLen)
	case errors.Is(err, core.ErrInvalidCategory):
		return "Please choose a category."
	case errors.Is(err, core.ErrInvalidAmount):
		return "Amount must be a number greater than zero, like 1234.50, without thousands separators."
	}
	return "Please fill out all fields with valid data."
}

// RequireMethod checks if the request method matches the expected method(s).
// Returns an error response builder if the method doesn't match.
func RequireMethod(r *http.Request, methods ...string) *HTMXResponseBuilder {
	for _, m := range methods {
		if r.Method == m {
			return nil
		}
	}
	return MethodNotAllowedError(strings.Join(methods, ", "))
}

// RequireGET is a convenience function for read-only handlers.
func RequireGET(r *http.Request) *HTMXResponseBuilder {
	return RequireMethod(r, http.MethodGet, http.MethodHead)
}

// RequirePOST is a convenience function for POST-only handlers.
func RequirePOST(r *http.Request) *HTMXResponseBuilder {
	return RequireMethod(r, http.MethodPost)
}

// RequireDeleteOrPOST is a convenience function for DELETE/POST handlers.
func RequireDeleteOrPOST(r *http.Request) *HTMXResponseBuilder {
	return RequireMethod(r, http.MethodDelete, http.MethodPost)
}

// ParseFormOrFail parses the request form and returns an error response on failure.
// Returns nil on success.
func ParseFormOrFail(r *http.Request) *HTMXResponseBuilder {
	if err := r.ParseForm(); err != nil {
		return BadRequestError("Invalid request format")
	}
	return nil
}
