package services

import (
	"time"

	"github.com/matiasfalconaro/Tkinter-expense-manager/internal/core"
)

// DueStatus classifies a record's due date relative to a reference day, so
// the table can flag payments that need attention.
type DueStatus int

const (
	DueNone DueStatus = iota // N/A, nothing owed
	DueScheduled
	DueSoon // within the next week
	DueOverdue
)

func (s DueStatus) String() string {
	switch s {
	case DueScheduled:
		return "scheduled"
	case DueSoon:
		return "due soon"
	case DueOverdue:
		return "overdue"
	default:
		return "n/a"
	}
}

// CheckDueDate classifies a due date against now. Comparison is at day
// granularity: a payment due today is "due soon", not overdue.
func CheckDueDate(d core.DueDate, now time.Time) DueStatus {
	if d.IsNA() || d.IsEmpty() {
		return DueNone
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	due := d.Date().Time
	switch {
	case due.Before(today):
		return DueOverdue
	case due.Before(today.AddDate(0, 0, 7)):
		return DueSoon
	default:
		return DueScheduled
	}
}
