// Package storage persists expense records in a single-table SQLite store.
// Every mutating call commits before returning; there is no deferred-write
// buffering.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/matiasfalconaro/Tkinter-expense-manager/internal/core"

	_ "modernc.org/sqlite"
)

// StorageError wraps a persistence failure. The in-progress mutation is
// abandoned and not retried; callers report it and carry on.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

func storageErr(op string, err error) error {
	return &StorageError{Op: op, Err: err}
}

// Store is the durable keyed collection of expense records, queryable by id,
// by month, and aggregated by category.
type Store struct {
	db *sql.DB
}

// Open opens (creating if necessary) the SQLite database at dbPath and runs
// migrations. The returned store holds one connection pool for the process
// lifetime.
func Open(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Store{db: db}, nil
}

// NewWithDB wraps an existing database handle. The caller is responsible for
// the schema; used by tests to inject failing connections.
func NewWithDB(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

const recordColumns = `id, product_service, quantity, amount_cents, responsible,
	subtotal_cents, category, supplier, payment_method, date, due_date`

// Create validates the field set, computes the subtotal and inserts a new
// record. Ids come from the AUTOINCREMENT counter, so they are monotonically
// increasing and never reused after deletes.
func (s *Store) Create(ctx context.Context, f core.RecordFields) (int64, error) {
	if err := f.Validate(); err != nil {
		return 0, err
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO expenses (
			product_service, quantity, amount_cents, responsible,
			subtotal_cents, category, supplier, payment_method, date, due_date
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		f.Product, f.Quantity, f.Amount.Cents, f.Responsible,
		f.Subtotal().Cents, f.Category, f.Supplier, f.PaymentMethod,
		f.Date.String(), f.DueDate.String())
	if err != nil {
		return 0, storageErr("create expense", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, storageErr("create expense id", err)
	}

	slog.InfoContext(ctx, "Expense record created",
		"id", id,
		"product", f.Product,
		"subtotal_cents", f.Subtotal().Cents,
		"date", f.Date.String())

	return id, nil
}

// Get retrieves a single record by id; core.ErrNotFound when absent.
func (s *Store) Get(ctx context.Context, id int64) (core.ExpenseRecord, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+recordColumns+` FROM expenses WHERE id = ?`, id)
	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.ExpenseRecord{}, core.ErrNotFound
	}
	if err != nil {
		return core.ExpenseRecord{}, storageErr("get expense", err)
	}
	return rec, nil
}

// All returns every record in insertion (id) order for UI stability.
func (s *Store) All(ctx context.Context) ([]core.ExpenseRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+recordColumns+` FROM expenses ORDER BY id`)
	if err != nil {
		return nil, storageErr("list expenses", err)
	}
	defer rows.Close()
	return collectRecords(rows)
}

// ByMonth returns records whose date's month component equals month,
// regardless of year.
func (s *Store) ByMonth(ctx context.Context, month int) ([]core.ExpenseRecord, error) {
	if month < 1 || month > 12 {
		return nil, core.ErrInvalidMonth
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+recordColumns+` FROM expenses WHERE strftime('%m', date) = ? ORDER BY id`,
		fmt.Sprintf("%02d", month))
	if err != nil {
		return nil, storageErr("list expenses by month", err)
	}
	defer rows.Close()
	return collectRecords(rows)
}

// Update replaces every field except the id and recomputes the subtotal.
// core.ErrNotFound when the id does not exist.
func (s *Store) Update(ctx context.Context, id int64, f core.RecordFields) error {
	if err := f.Validate(); err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE expenses SET
			product_service = ?, quantity = ?, amount_cents = ?, responsible = ?,
			subtotal_cents = ?, category = ?, supplier = ?, payment_method = ?,
			date = ?, due_date = ?
		WHERE id = ?`,
		f.Product, f.Quantity, f.Amount.Cents, f.Responsible,
		f.Subtotal().Cents, f.Category, f.Supplier, f.PaymentMethod,
		f.Date.String(), f.DueDate.String(), id)
	if err != nil {
		return storageErr("update expense", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return storageErr("update expense result", err)
	}
	if affected == 0 {
		return core.ErrNotFound
	}

	slog.InfoContext(ctx, "Expense record updated",
		"id", id,
		"subtotal_cents", f.Subtotal().Cents)

	return nil
}

// Delete hard-deletes a record. Deleting an absent id is not an error; it
// returns false so the caller can report that nothing happened.
func (s *Store) Delete(ctx context.Context, id int64) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM expenses WHERE id = ?`, id)
	if err != nil {
		return false, storageErr("delete expense", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, storageErr("delete expense result", err)
	}
	if affected == 0 {
		slog.WarnContext(ctx, "No expense record to delete", "id", id)
		return false, nil
	}

	slog.InfoContext(ctx, "Expense record deleted", "id", id)
	return true, nil
}

// CategorySums aggregates subtotals per category for the given month.
// Categories with no records that month are absent; zero-filling against the
// known category list is the presentation layer's job.
func (s *Store) CategorySums(ctx context.Context, month int) ([]core.CategoryAmount, error) {
	if month < 1 || month > 12 {
		return nil, core.ErrInvalidMonth
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT category, SUM(subtotal_cents)
		FROM expenses
		WHERE strftime('%m', date) = ?
		GROUP BY category
		ORDER BY category`,
		fmt.Sprintf("%02d", month))
	if err != nil {
		return nil, storageErr("category sums", err)
	}
	defer rows.Close()

	var sums []core.CategoryAmount
	for rows.Next() {
		var name string
		var cents int64
		if err := rows.Scan(&name, &cents); err != nil {
			return nil, storageErr("scan category sum", err)
		}
		sums = append(sums, core.CategoryAmount{Name: name, Amount: core.Money{Cents: cents}})
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("iterate category sums", err)
	}
	return sums, nil
}

// MonthTotal sums every subtotal for the given month.
func (s *Store) MonthTotal(ctx context.Context, month int) (core.Money, error) {
	if month < 1 || month > 12 {
		return core.Money{}, core.ErrInvalidMonth
	}
	var cents int64
	err := s.db.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(subtotal_cents), 0)
		FROM expenses
		WHERE strftime('%m', date) = ?`,
		fmt.Sprintf("%02d", month)).Scan(&cents)
	if err != nil {
		return core.Money{}, storageErr("month total", err)
	}
	return core.Money{Cents: cents}, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (core.ExpenseRecord, error) {
	var rec core.ExpenseRecord
	var amountCents, subtotalCents int64
	var dateStr, dueStr string
	err := row.Scan(&rec.ID, &rec.Product, &rec.Quantity, &amountCents,
		&rec.Responsible, &subtotalCents, &rec.Category, &rec.Supplier,
		&rec.PaymentMethod, &dateStr, &dueStr)
	if err != nil {
		return core.ExpenseRecord{}, err
	}

	rec.Amount = core.Money{Cents: amountCents}
	rec.Subtotal = core.Money{Cents: subtotalCents}

	rec.Date, err = core.ParseDate(dateStr)
	if err != nil {
		return core.ExpenseRecord{}, fmt.Errorf("record %d date %q: %w", rec.ID, dateStr, err)
	}
	rec.DueDate, err = core.ParseDueDate(dueStr)
	if err != nil {
		return core.ExpenseRecord{}, fmt.Errorf("record %d due date %q: %w", rec.ID, dueStr, err)
	}
	return rec, nil
}

func collectRecords(rows *sql.Rows) ([]core.ExpenseRecord, error) {
	var records []core.ExpenseRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, storageErr("scan expense", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("iterate expenses", err)
	}
	return records, nil
}
