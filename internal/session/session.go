// Package session implements the staged-edit state machine that governs how
// the single in-flight form edit interacts with the persisted record store.
// An action is begun (add, delete, modify), optionally restaged as the user
// types, and then either confirmed against the store or cancelled. Validation
// and store errors are converted to user-facing status messages here; nothing
// escapes to terminate the process.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"github.com/matiasfalconaro/Tkinter-expense-manager/internal/core"
	"github.com/matiasfalconaro/Tkinter-expense-manager/internal/storage"
)

// Action is the pending operation of an edit session.
type Action int

const (
	ActionNone Action = iota
	ActionAdd
	ActionDelete
	ActionModify
)

func (a Action) String() string {
	switch a {
	case ActionAdd:
		return "add"
	case ActionDelete:
		return "delete"
	case ActionModify:
		return "modify"
	default:
		return "none"
	}
}

// Store is the mutation surface the session commits against.
type Store interface {
	Create(ctx context.Context, f core.RecordFields) (int64, error)
	Update(ctx context.Context, id int64, f core.RecordFields) error
	Delete(ctx context.Context, id int64) (bool, error)
	Get(ctx context.Context, id int64) (core.ExpenseRecord, error)
}

var idPattern = regexp.MustCompile(`^\d+$`)

// Session holds the one in-flight edit: which action is pending, its target
// record, and the staged field values. At most one action is pending at a
// time; beginning another while one is pending is rejected with a message
// rather than silently overwriting it.
type Session struct {
	mu       sync.Mutex
	store    Store
	action   Action
	targetID int64
	staged   core.RecordFields
	status   string
}

func New(store Store) *Session {
	return &Session{store: store}
}

// Pending returns the action currently awaiting confirm/cancel.
func (s *Session) Pending() Action {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.action
}

// TargetID returns the record id a pending delete or modify targets.
func (s *Session) TargetID() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.targetID
}

// Staged returns the candidate field values held until commit.
func (s *Session) Staged() core.RecordFields {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.staged
}

// Status returns the last user-facing message shown in the status bar.
func (s *Session) Status() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// BeginAdd moves Idle -> PendingAdd with empty staged fields.
func (s *Session) BeginAdd() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.requireIdle(); err != nil {
		return err
	}
	s.action = ActionAdd
	s.targetID = 0
	s.staged = core.RecordFields{}
	s.status = "Adding a new record."
	return nil
}

// BeginDelete moves Idle -> PendingDelete(id). The selection must resolve to
// a positive integer id; otherwise the session stays Idle and the failure is
// surfaced as a message.
func (s *Session) BeginDelete(selection string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.requireIdle(); err != nil {
		return err
	}
	id, err := s.resolveSelection(selection, "delete")
	if err != nil {
		return err
	}
	s.action = ActionDelete
	s.targetID = id
	s.status = "Deleting record ID: " + strconv.FormatInt(id, 10)
	return nil
}

// BeginModify moves Idle -> PendingModify(id, staged), loading the record's
// current values into the staged fields so the form can prefill.
func (s *Session) BeginModify(ctx context.Context, selection string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.requireIdle(); err != nil {
		return err
	}
	id, err := s.resolveSelection(selection, "modify")
	if err != nil {
		return err
	}

	rec, err := s.store.Get(ctx, id)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			s.status = fmt.Sprintf("No record found with ID: %d", id)
		} else {
			s.status = "Data error: " + err.Error()
		}
		return err
	}

	s.action = ActionModify
	s.targetID = id
	s.staged = rec.Fields()
	s.status = "Modifying record ID: " + strconv.FormatInt(id, 10)
	return nil
}

// Stage replaces the staged field values while an add or modify is pending.
func (s *Session) Stage(f core.RecordFields) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.action != ActionAdd && s.action != ActionModify {
		s.status = "No add or modify in progress."
		return errors.New("no add or modify in progress")
	}
	s.staged = f
	return nil
}

// Confirm executes the pending action against the store and returns the
// session to Idle in every case. Validation and store errors are reported in
// the status message; the returned error lets callers style the response.
// Confirming with nothing pending is a safe no-op, so a stray double confirm
// never mutates twice.
func (s *Session) Confirm(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	action, id, fields := s.action, s.targetID, s.staged
	s.reset()

	switch action {
	case ActionAdd:
		newID, err := s.store.Create(ctx, fields)
		if err != nil {
			return s.reportError(ctx, "add", err)
		}
		s.status = "Record added with ID: " + strconv.FormatInt(newID, 10)
		return nil

	case ActionDelete:
		deleted, err := s.store.Delete(ctx, id)
		if err != nil {
			return s.reportError(ctx, "delete", err)
		}
		if !deleted {
			s.status = fmt.Sprintf("No record found with ID: %d", id)
			return nil
		}
		s.status = "Record deleted with ID: " + strconv.FormatInt(id, 10)
		return nil

	case ActionModify:
		if err := s.store.Update(ctx, id, fields); err != nil {
			return s.reportError(ctx, "modify", err)
		}
		s.status = "Record modified with ID: " + strconv.FormatInt(id, 10)
		return nil

	default:
		s.status = "Nothing to confirm."
		return nil
	}
}

// Cancel discards the staged edit without touching the store.
func (s *Session) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reset()
	s.status = "Operation cancelled."
}

func (s *Session) requireIdle() error {
	if s.action == ActionNone {
		return nil
	}
	s.status = fmt.Sprintf("A %s is already pending; confirm or cancel it first.", s.action)
	return fmt.Errorf("%s already pending", s.action)
}

func (s *Session) resolveSelection(selection, verb string) (int64, error) {
	selection = strings.TrimSpace(selection)
	if selection == "" {
		s.status = fmt.Sprintf("You must select a record to %s.", verb)
		return 0, errors.New(s.status)
	}
	if !idPattern.MatchString(selection) {
		s.status = "The ID is not a valid number."
		return 0, errors.New(s.status)
	}
	id, err := strconv.ParseInt(selection, 10, 64)
	if err != nil || id <= 0 {
		s.status = "The ID is not a valid number."
		return 0, errors.New(s.status)
	}
	return id, nil
}

func (s *Session) reset() {
	s.action = ActionNone
	s.targetID = 0
	s.staged = core.RecordFields{}
}

// reportError maps the error taxonomy onto status-bar messages. Storage
// failures abandon the mutation; nothing is retried.
func (s *Session) reportError(ctx context.Context, verb string, err error) error {
	var verr *core.ValidationError
	var serr *storage.StorageError
	switch {
	case errors.As(err, &verr):
		s.status = verr.Error()
	case errors.Is(err, core.ErrNotFound):
		s.status = "No record found to " + verb + "."
	case errors.As(err, &serr):
		slog.ErrorContext(ctx, "Store mutation failed", "action", verb, "error", err)
		s.status = "Storage error: the " + verb + " was not applied."
	default:
		s.status = fmt.Sprintf("Error: %v", err)
	}
	return err
}
