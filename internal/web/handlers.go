package web

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/matiasfalconaro/Tkinter-expense-manager/internal/core"
	applog "github.com/matiasfalconaro/Tkinter-expense-manager/internal/log"
	"github.com/matiasfalconaro/Tkinter-expense-manager/internal/services"
	"github.com/matiasfalconaro/Tkinter-expense-manager/internal/session"
)

// recordRow is an ExpenseRecord formatted for the table.
type recordRow struct {
	ID            int64
	Product       string
	Quantity      int64
	Amount        string
	Responsible   string
	Subtotal      string
	Category      string
	Supplier      string
	PaymentMethod string
	Date          string
	DueDate       string
	DueStatus     string
	DueClass      string
}

type categoryRow struct {
	Name   string
	Amount string
	Width  int
}

type overviewData struct {
	Month     int
	MonthName string
	Total     string
	Rows      []categoryRow
}

type indexData struct {
	Status         string
	Pending        string
	TargetID       int64
	Staged         core.RecordFields
	StagedAmount   string
	StagedDueNA    bool
	StagedDate     string
	StagedDueDate  string
	Query          string
	Records        []recordRow
	Overview       overviewData
	Categories     []string
	PaymentMethods []string
	Responsibles   []string
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	query := strings.TrimSpace(r.URL.Query().Get("q"))
	records, err := s.manager.SearchRecords(r.Context(), query)
	if err != nil {
		s.logger.ErrorContext(r.Context(), "Search failed",
			applog.FieldOperation, applog.OpSearch,
			applog.FieldSearchPattern, query,
			applog.FieldError, err)
		records = nil
	}

	month := int(s.now().Month())
	overview, oerr := s.buildOverview(r, month)
	if oerr != nil {
		s.logger.ErrorContext(r.Context(), "Month overview failed",
			applog.FieldMonth, month, applog.FieldError, oerr)
	}

	sess := s.manager.Session()
	staged := sess.Staged()
	data := indexData{
		Status:         sess.Status(),
		Pending:        sess.Pending().String(),
		TargetID:       sess.TargetID(),
		Staged:         staged,
		Query:          query,
		Records:        s.recordRows(records),
		Overview:       overview,
		Categories:     core.Categories,
		PaymentMethods: core.PaymentMethods,
		Responsibles:   core.Responsibles,
	}
	if err != nil {
		data.Status = "Invalid search pattern."
	}
	if staged.Amount.Cents > 0 {
		data.StagedAmount = core.FormatCents(staged.Amount.Cents)
	}
	if !staged.Date.IsZero() {
		data.StagedDate = staged.Date.String()
	}
	data.StagedDueNA = staged.DueDate.IsNA()
	if !staged.DueDate.IsNA() && !staged.DueDate.IsEmpty() {
		data.StagedDueDate = staged.DueDate.String()
	}

	s.render(w, r, "index.html", data)
}

func (s *Server) handleBeginAdd(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}
	_ = s.manager.BeginAdd()
	redirectHome(w, r)
}

func (s *Server) handleBeginDelete(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}
	_ = r.ParseForm()
	_ = s.manager.BeginDelete(r.Form.Get("id"))
	redirectHome(w, r)
}

func (s *Server) handleBeginModify(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}
	_ = r.ParseForm()
	_ = s.manager.BeginModify(r.Context(), r.Form.Get("id"))
	redirectHome(w, r)
}

// handleConfirm stages the submitted form values (for add and modify) and
// commits the pending action. Failures surface in the status bar; the
// session is Idle again either way.
func (s *Server) handleConfirm(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}

	pending := s.manager.Session().Pending()
	if pending == session.ActionAdd || pending == session.ActionModify {
		_ = s.manager.Stage(parseRecordFields(r.Form))
	}
	if err := s.manager.Confirm(r.Context()); err != nil {
		s.logger.WarnContext(r.Context(), "Confirm rejected",
			applog.FieldOperation, applog.OpConfirm,
			applog.FieldError, err)
	}
	redirectHome(w, r)
}

func (s *Server) handleCancel(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}
	s.manager.Cancel()
	redirectHome(w, r)
}

// handleRecords renders the records table partial, filtered by ?q=.
func (s *Server) handleRecords(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	records, err := s.manager.SearchRecords(r.Context(), query)
	if err != nil {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`<div class="error">Invalid search pattern</div>`))
		return
	}
	data := struct {
		Query   string
		Records []recordRow
	}{Query: query, Records: s.recordRows(records)}
	s.render(w, r, "records.html", data)
}

// handleMonthOverview renders the monthly total and the zero-filled category
// breakdown for ?month= (default: the current month).
func (s *Server) handleMonthOverview(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	month := int(s.now().Month())
	if v := strings.TrimSpace(r.URL.Query().Get("month")); v != "" {
		if m, err := strconv.Atoi(v); err == nil {
			month = m
		}
	}
	if month < 1 || month > 12 {
		s.logger.WarnContext(r.Context(), "Invalid month parameter",
			applog.FieldMonth, month, "corrected_to", int(s.now().Month()))
		month = int(s.now().Month())
	}

	overview, err := s.buildOverview(r, month)
	if err != nil {
		s.logger.ErrorContext(r.Context(), "Month overview failed",
			applog.FieldMonth, month, applog.FieldError, err)
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`<div class="error">Error loading month overview</div>`))
		return
	}
	s.render(w, r, "month_overview.html", overview)
}

// buildOverview merges the recomputed breakdown with the static category
// list, so categories without records display as zero.
func (s *Server) buildOverview(r *http.Request, month int) (overviewData, error) {
	ov, err := s.manager.MonthOverview(r.Context(), month)
	if err != nil {
		return overviewData{Month: month, MonthName: monthName(month), Total: core.FormatCents(0)}, err
	}

	sums := make(map[string]int64, len(ov.ByCategory))
	var maxCents int64
	for _, ca := range ov.ByCategory {
		sums[ca.Name] = ca.Amount.Cents
		if ca.Amount.Cents > maxCents {
			maxCents = ca.Amount.Cents
		}
	}

	data := overviewData{
		Month:     month,
		MonthName: monthName(month),
		Total:     core.FormatCents(ov.Total.Cents),
	}
	for _, name := range core.Categories {
		cents := sums[name]
		width := 0
		if maxCents > 0 && cents > 0 {
			// rounded percent of the largest category, floor 2 so tiny
			// bars stay visible
			width = int((cents*100 + maxCents/2) / maxCents)
			if width < 2 {
				width = 2
			}
			if width > 100 {
				width = 100
			}
		}
		data.Rows = append(data.Rows, categoryRow{
			Name:   name,
			Amount: core.FormatCents(cents),
			Width:  width,
		})
	}
	return data, nil
}

func (s *Server) recordRows(records []core.ExpenseRecord) []recordRow {
	rows := make([]recordRow, 0, len(records))
	now := s.now()
	for _, rec := range records {
		status := services.CheckDueDate(rec.DueDate, now)
		rows = append(rows, recordRow{
			ID:            rec.ID,
			Product:       rec.Product,
			Quantity:      rec.Quantity,
			Amount:        core.FormatCents(rec.Amount.Cents),
			Responsible:   rec.Responsible,
			Subtotal:      core.FormatCents(rec.Subtotal.Cents),
			Category:      rec.Category,
			Supplier:      rec.Supplier,
			PaymentMethod: rec.PaymentMethod,
			Date:          rec.Date.String(),
			DueDate:       rec.DueDate.String(),
			DueStatus:     status.String(),
			DueClass:      dueClass(status),
		})
	}
	return rows
}

// dueClass maps a due status to a CSS class suffix.
func dueClass(status services.DueStatus) string {
	switch status {
	case services.DueSoon:
		return "soon"
	case services.DueOverdue:
		return "overdue"
	default:
		return "none"
	}
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, name string, data any) {
	if err := s.templates.ExecuteTemplate(w, name, data); err != nil {
		s.logger.ErrorContext(r.Context(), "Template execution failed",
			applog.FieldOperation, applog.OpRender,
			"template", name,
			applog.FieldError, err)
		http.Error(w, "template error", http.StatusInternalServerError)
	}
}

// parseRecordFields builds the candidate field set from the form. Parsing is
// lenient: unparseable numbers and dates become zero values so validation in
// core reports them with a single message path.
func parseRecordFields(form url.Values) core.RecordFields {
	f := core.RecordFields{
		Product:       sanitizeInput(form.Get("product")),
		Responsible:   sanitizeInput(form.Get("responsible")),
		Category:      sanitizeInput(form.Get("category")),
		Supplier:      sanitizeInput(form.Get("supplier")),
		PaymentMethod: sanitizeInput(form.Get("payment_method")),
	}
	if q, err := strconv.ParseInt(strings.TrimSpace(form.Get("quantity")), 10, 64); err == nil {
		f.Quantity = q
	}
	if cents, err := core.ParseDecimalToCents(form.Get("amount")); err == nil {
		f.Amount = core.Money{Cents: cents}
	}
	if d, err := core.ParseDate(form.Get("date")); err == nil {
		f.Date = d
	}
	if form.Get("due_na") != "" {
		f.DueDate = core.NoDueDate()
	} else if dd, err := core.ParseDueDate(form.Get("due_date")); err == nil {
		f.DueDate = dd
	}
	return f
}

// sanitizeInput trims whitespace and strips control characters.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}

func requirePost(w http.ResponseWriter, r *http.Request) bool {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return false
	}
	return true
}

func redirectHome(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
