// Package services orchestrates the record store, the edit session and the
// derived aggregates behind the single facade the presentation layer consumes.
package services

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/matiasfalconaro/Tkinter-expense-manager/internal/core"
	"github.com/matiasfalconaro/Tkinter-expense-manager/internal/session"
	"github.com/matiasfalconaro/Tkinter-expense-manager/internal/storage"
)

// Manager is the core-to-collaborator interface: the UI drives the edit
// session through it and reads records and aggregates back for display.
type Manager struct {
	store   *storage.Store
	session *session.Session
}

func NewManager(store *storage.Store) *Manager {
	return &Manager{
		store:   store,
		session: session.New(store),
	}
}

// Session exposes the staged-edit state machine.
func (m *Manager) Session() *session.Session {
	return m.session
}

// BeginAdd stages a new empty record.
func (m *Manager) BeginAdd() error {
	return m.session.BeginAdd()
}

// BeginDelete stages deletion of the selected record.
func (m *Manager) BeginDelete(selection string) error {
	return m.session.BeginDelete(selection)
}

// BeginModify stages modification of the selected record.
func (m *Manager) BeginModify(ctx context.Context, selection string) error {
	return m.session.BeginModify(ctx, selection)
}

// Stage replaces the staged field values of the pending add or modify.
func (m *Manager) Stage(f core.RecordFields) error {
	return m.session.Stage(f)
}

// Confirm commits the pending action.
func (m *Manager) Confirm(ctx context.Context) error {
	return m.session.Confirm(ctx)
}

// Cancel discards the pending action.
func (m *Manager) Cancel() {
	m.session.Cancel()
}

// Status returns the last user-facing session message.
func (m *Manager) Status() string {
	return m.session.Status()
}

// AllRecords returns every record in insertion order.
func (m *Manager) AllRecords(ctx context.Context) ([]core.ExpenseRecord, error) {
	return m.store.All(ctx)
}

// SearchRecords filters records with a case-insensitive regular expression
// matched against all displayed field values. An empty pattern, or one
// containing "*", shows everything.
func (m *Manager) SearchRecords(ctx context.Context, pattern string) ([]core.ExpenseRecord, error) {
	records, err := m.store.All(ctx)
	if err != nil {
		return nil, err
	}
	if pattern == "" || strings.Contains(pattern, "*") {
		return records, nil
	}

	re, err := regexp.Compile("(?i)" + pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid search pattern %q: %w", pattern, err)
	}

	var matched []core.ExpenseRecord
	for _, rec := range records {
		if re.MatchString(displayValues(rec)) {
			matched = append(matched, rec)
		}
	}
	return matched, nil
}

// displayValues joins a record's fields the way the table shows them, so a
// search hits ids, texts, formatted amounts and dates alike.
func displayValues(r core.ExpenseRecord) string {
	return strings.Join([]string{
		strconv.FormatInt(r.ID, 10),
		r.Product,
		strconv.FormatInt(r.Quantity, 10),
		core.FormatCents(r.Amount.Cents),
		r.Responsible,
		core.FormatCents(r.Subtotal.Cents),
		r.Category,
		r.Supplier,
		r.PaymentMethod,
		r.Date.String(),
		r.DueDate.String(),
	}, " ")
}
