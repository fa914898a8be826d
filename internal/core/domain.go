package core

import (
	"errors"
	"strings"
	"time"
)

// DueDateNA is the sentinel stored when a purchase has no due date.
const DueDateNA = "N/A"

// Closed choice sets backing the form comboboxes. The store does not enforce
// membership; the presentation layer renders and restricts against these and
// zero-fills category breakdowns from Categories.
var (
	Categories = []string{
		"Maintenance", "Taxes", "Services", "Market", "Cleaning", "School", "Others",
	}
	PaymentMethods = []string{
		"Cash", "Virtual Wallet", "Cheque", "Credit Card", "Debit Card", "Transfer", "Other",
	}
	Responsibles = []string{"Gonzalo", "Matías", "Juan"}
)

var (
	ErrNotFound      = errors.New("record not found")
	ErrInvalidMonth  = errors.New("month must be between 1 and 12")
	ErrInvalidAmount = errors.New("invalid amount")
	ErrInvalidDate   = errors.New("invalid date")
)

type (
	// Date is a calendar day, stored as ISO-8601 (YYYY-MM-DD) text.
	Date struct {
		time.Time
	}

	// Money is an amount in integer cents.
	Money struct {
		Cents int64
	}

	// RecordFields is the candidate field set for create and update: every
	// persisted column except the id and the derived subtotal.
	RecordFields struct {
		Product       string
		Quantity      int64
		Amount        Money
		Responsible   string
		Category      string
		Supplier      string
		PaymentMethod string
		Date          Date
		DueDate       DueDate
	}

	// ExpenseRecord is one persisted expense. ID is assigned by the store on
	// creation and never changes; Subtotal is recomputed from quantity and
	// amount on every write.
	ExpenseRecord struct {
		ID            int64
		Product       string
		Quantity      int64
		Amount        Money
		Responsible   string
		Subtotal      Money
		Category      string
		Supplier      string
		PaymentMethod string
		Date          Date
		DueDate       DueDate
	}
)

// NewDate creates a Date from year, month, day.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses an ISO-8601 calendar date.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", strings.TrimSpace(s))
	if err != nil {
		return Date{}, ErrInvalidDate
	}
	return Date{Time: t}, nil
}

func (d Date) String() string {
	return d.Format("2006-01-02")
}

// Month returns the 1-12 month component.
func (d Date) Month() int {
	return int(d.Time.Month())
}

// Day returns the day of the month.
func (d Date) Day() int {
	return d.Time.Day()
}

// Year returns the year.
func (d Date) Year() int {
	return d.Time.Year()
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

// DueDate is either a calendar date or the N/A sentinel, never empty.
type DueDate struct {
	date Date
	na   bool
}

// NoDueDate returns the N/A due date.
func NoDueDate() DueDate {
	return DueDate{na: true}
}

// DueDateOn returns a due date on the given day.
func DueDateOn(d Date) DueDate {
	return DueDate{date: d}
}

// ParseDueDate accepts an ISO-8601 date or the literal "N/A".
func ParseDueDate(s string) (DueDate, error) {
	if strings.TrimSpace(s) == DueDateNA {
		return NoDueDate(), nil
	}
	d, err := ParseDate(s)
	if err != nil {
		return DueDate{}, err
	}
	return DueDateOn(d), nil
}

// IsNA reports whether the due date is the N/A sentinel.
func (d DueDate) IsNA() bool {
	return d.na
}

// IsEmpty reports whether the due date carries neither a date nor the
// sentinel, which is never valid for a persisted record.
func (d DueDate) IsEmpty() bool {
	return !d.na && d.date.IsZero()
}

// Date returns the underlying calendar date; zero when N/A.
func (d DueDate) Date() Date {
	return d.date
}

func (d DueDate) String() string {
	if d.na {
		return DueDateNA
	}
	return d.date.String()
}

func (m Money) Validate() error {
	if m.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

// Subtotal derives the stored subtotal from quantity and amount. With integer
// cents the product is exact, so the rounded quantity*amount invariant holds
// by construction.
func (f RecordFields) Subtotal() Money {
	return Money{Cents: f.Quantity * f.Amount.Cents}
}

// Fields returns the mutable field set of a record, used to stage a
// modification.
func (r ExpenseRecord) Fields() RecordFields {
	return RecordFields{
		Product:       r.Product,
		Quantity:      r.Quantity,
		Amount:        r.Amount,
		Responsible:   r.Responsible,
		Category:      r.Category,
		Supplier:      r.Supplier,
		PaymentMethod: r.PaymentMethod,
		Date:          r.Date,
		DueDate:       r.DueDate,
	}
}

// Record combines an id, a field set and the derived subtotal.
func (f RecordFields) Record(id int64) ExpenseRecord {
	return ExpenseRecord{
		ID:            id,
		Product:       f.Product,
		Quantity:      f.Quantity,
		Amount:        f.Amount,
		Responsible:   f.Responsible,
		Subtotal:      f.Subtotal(),
		Category:      f.Category,
		Supplier:      f.Supplier,
		PaymentMethod: f.PaymentMethod,
		Date:          f.Date,
		DueDate:       f.DueDate,
	}
}
