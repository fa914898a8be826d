package core

import (
	"fmt"
	"strings"
)

// ValidationError reports which rule a candidate field set failed. It is
// recoverable: callers surface it to the user and apply no mutation.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func invalid(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

// Validate checks a candidate field set. The same rules apply to create and
// update: every required field present and non-empty, quantity and amount
// strictly positive, date set, due date either a date or the N/A sentinel.
func (f RecordFields) Validate() error {
	required := []struct {
		name  string
		value string
	}{
		{"product", f.Product},
		{"responsible", f.Responsible},
		{"category", f.Category},
		{"supplier", f.Supplier},
		{"payment_method", f.PaymentMethod},
	}
	for _, field := range required {
		if strings.TrimSpace(field.value) == "" {
			return invalid(field.name, "required field is missing")
		}
	}
	if f.Quantity <= 0 {
		return invalid("quantity", "must be a positive number")
	}
	if f.Amount.Cents <= 0 {
		return invalid("amount", "must be a positive number")
	}
	if f.Date.IsZero() {
		return invalid("date", "required field is missing")
	}
	if f.DueDate.IsEmpty() {
		return invalid("due_date", "required field is missing")
	}
	return nil
}
