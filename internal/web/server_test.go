package web

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	applog "github.com/matiasfalconaro/Tkinter-expense-manager/internal/log"
	"github.com/matiasfalconaro/Tkinter-expense-manager/internal/services"
	"github.com/matiasfalconaro/Tkinter-expense-manager/internal/storage"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()

	store, err := storage.Open(filepath.Join(t.TempDir(), "expenses.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	logger := applog.New(applog.Config{
		Handler: slog.NewTextHandler(io.Discard, nil),
	})
	srv, err := NewServer(":0", services.NewManager(store), logger)
	require.NoError(t, err)
	srv.now = func() time.Time {
		return time.Date(2024, time.March, 15, 10, 0, 0, 0, time.UTC)
	}
	return srv
}

func postForm(t *testing.T, srv *Server, path string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	srv.Server.Handler.ServeHTTP(rec, req)
	return rec
}

func get(t *testing.T, srv *Server, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	srv.Server.Handler.ServeHTTP(rec, req)
	return rec
}

func milkForm() url.Values {
	return url.Values{
		"product":        {"Milk"},
		"quantity":       {"2"},
		"amount":         {"1.50"},
		"responsible":    {"Gonzalo"},
		"category":       {"Market"},
		"supplier":       {"SuperMart"},
		"payment_method": {"Cash"},
		"date":           {"2024-03-05"},
		"due_na":         {"1"},
	}
}

func TestHealthEndpoints(t *testing.T) {
	srv := newTestServer(t)

	assert.Equal(t, http.StatusOK, get(t, srv, "/healthz").Code)
	assert.Equal(t, http.StatusOK, get(t, srv, "/readyz").Code)
}

func TestIndexRendersFormAndOverview(t *testing.T) {
	srv := newTestServer(t)

	rec := get(t, srv, "/")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Data Entry")
	assert.Contains(t, body, "March")
	// every category shows, zero-filled
	assert.Contains(t, body, "Maintenance")
	assert.Contains(t, body, "School")
	assert.Contains(t, body, "No records")
}

func TestUnknownPathIsNotFound(t *testing.T) {
	srv := newTestServer(t)

	assert.Equal(t, http.StatusNotFound, get(t, srv, "/nope").Code)
}

func TestActionsRequirePost(t *testing.T) {
	srv := newTestServer(t)

	for _, path := range []string{
		"/actions/add", "/actions/delete", "/actions/modify",
		"/actions/confirm", "/actions/cancel",
	} {
		rec := get(t, srv, path)
		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code, path)
	}
}

func TestAddFlowThroughForms(t *testing.T) {
	srv := newTestServer(t)

	rec := postForm(t, srv, "/actions/add", nil)
	require.Equal(t, http.StatusSeeOther, rec.Code)

	rec = postForm(t, srv, "/actions/confirm", milkForm())
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))

	body := get(t, srv, "/").Body.String()
	assert.Contains(t, body, "Record added with ID: 1")
	assert.Contains(t, body, "Milk")
	assert.Contains(t, body, "3.00") // subtotal 2 x 1.50
	assert.Contains(t, body, "N/A")
}

func TestAddValidationFailureShowsStatus(t *testing.T) {
	srv := newTestServer(t)

	postForm(t, srv, "/actions/add", nil)
	form := milkForm()
	form.Set("quantity", "not-a-number")
	postForm(t, srv, "/actions/confirm", form)

	body := get(t, srv, "/").Body.String()
	assert.Contains(t, body, "invalid quantity")
	assert.Contains(t, body, "No records")
}

func TestModifyPrefillsStagedValues(t *testing.T) {
	srv := newTestServer(t)

	postForm(t, srv, "/actions/add", nil)
	postForm(t, srv, "/actions/confirm", milkForm())

	rec := postForm(t, srv, "/actions/modify", url.Values{"id": {"1"}})
	require.Equal(t, http.StatusSeeOther, rec.Code)

	body := get(t, srv, "/").Body.String()
	assert.Contains(t, body, `value="Milk"`)
	assert.Contains(t, body, `value="2024-03-05"`)
	assert.Contains(t, body, "Pending: modify")

	form := milkForm()
	form.Set("quantity", "4")
	postForm(t, srv, "/actions/confirm", form)

	body = get(t, srv, "/").Body.String()
	assert.Contains(t, body, "Record modified with ID: 1")
	assert.Contains(t, body, "6.00")
}

func TestDeleteFlowThroughForms(t *testing.T) {
	srv := newTestServer(t)

	postForm(t, srv, "/actions/add", nil)
	postForm(t, srv, "/actions/confirm", milkForm())

	postForm(t, srv, "/actions/delete", url.Values{"id": {"1"}})
	postForm(t, srv, "/actions/confirm", nil)

	body := get(t, srv, "/").Body.String()
	assert.Contains(t, body, "Record deleted with ID: 1")
	assert.Contains(t, body, "No records")
}

func TestCancelDiscardsPendingAdd(t *testing.T) {
	srv := newTestServer(t)

	postForm(t, srv, "/actions/add", nil)
	postForm(t, srv, "/actions/cancel", nil)

	body := get(t, srv, "/").Body.String()
	assert.Contains(t, body, "Operation cancelled.")
	assert.NotContains(t, body, "Pending:")
}

func TestSearchFiltersRecordsPartial(t *testing.T) {
	srv := newTestServer(t)

	postForm(t, srv, "/actions/add", nil)
	postForm(t, srv, "/actions/confirm", milkForm())

	bread := milkForm()
	bread.Set("product", "Bread")
	postForm(t, srv, "/actions/add", nil)
	postForm(t, srv, "/actions/confirm", bread)

	body := get(t, srv, "/records?q=bread").Body.String()
	assert.Contains(t, body, "Bread")
	assert.NotContains(t, body, "Milk")

	body = get(t, srv, "/records?q=*").Body.String()
	assert.Contains(t, body, "Bread")
	assert.Contains(t, body, "Milk")
}

func TestSearchInvalidPatternIsRejected(t *testing.T) {
	srv := newTestServer(t)

	rec := get(t, srv, "/records?q=%5B") // unclosed character class
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid search pattern")
}

func TestMonthOverviewZeroFills(t *testing.T) {
	srv := newTestServer(t)

	postForm(t, srv, "/actions/add", nil)
	postForm(t, srv, "/actions/confirm", milkForm())

	body := get(t, srv, "/ui/month-overview?month=3").Body.String()
	assert.Contains(t, body, "March")
	assert.Contains(t, body, "3.00")
	// categories without records still listed
	assert.Contains(t, body, "Taxes")
	assert.Contains(t, body, "0.00")

	// out of range month falls back to the server clock's month
	body = get(t, srv, "/ui/month-overview?month=13").Body.String()
	assert.Contains(t, body, "March")
}

func TestSecurityHeadersAndRequestLogWrapping(t *testing.T) {
	srv := newTestServer(t)

	rec := get(t, srv, "/")
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
	assert.NotEmpty(t, rec.Header().Get("Content-Security-Policy"))
}
