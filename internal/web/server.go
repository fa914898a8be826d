// Package web is the presentation layer: a server-rendered form UI that
// drives the edit session and reads records and aggregates back for display.
// It holds no domain logic; everything flows through the services facade.
package web

import (
	"html/template"
	"io/fs"
	"net/http"
	"time"

	applog "github.com/matiasfalconaro/Tkinter-expense-manager/internal/log"
	"github.com/matiasfalconaro/Tkinter-expense-manager/internal/services"
	appweb "github.com/matiasfalconaro/Tkinter-expense-manager/web"
)

type Server struct {
	http.Server
	templates *template.Template
	manager   *services.Manager
	logger    *applog.Logger
	now       func() time.Time
}

// NewServer configures routes and templates, returning a ready-to-run server.
func NewServer(addr string, manager *services.Manager, logger *applog.Logger) (*Server, error) {
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:    addr,
			Handler: mux,
		},
		manager: manager,
		logger:  logger.WithComponent(applog.ComponentHTTP),
		now:     time.Now,
	}

	t, err := template.ParseFS(appweb.TemplatesFS, "templates/*.html")
	if err != nil {
		return nil, err
	}
	s.templates = t

	// Static assets (served from embedded FS)
	if sub, err := fs.Sub(appweb.StaticFS, "static"); err == nil {
		static := http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
		mux.Handle("/static/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Cache-Control", "public, max-age=3600, immutable")
			static.ServeHTTP(w, r)
		}))
	}

	mux.HandleFunc("/", s.withRequestLog(s.handleIndex))
	mux.HandleFunc("/healthz", handleHealth)
	mux.HandleFunc("/readyz", handleReady)
	mux.HandleFunc("/actions/add", s.withRequestLog(s.handleBeginAdd))
	mux.HandleFunc("/actions/delete", s.withRequestLog(s.handleBeginDelete))
	mux.HandleFunc("/actions/modify", s.withRequestLog(s.handleBeginModify))
	mux.HandleFunc("/actions/confirm", s.withRequestLog(s.handleConfirm))
	mux.HandleFunc("/actions/cancel", s.withRequestLog(s.handleCancel))
	mux.HandleFunc("/records", s.withRequestLog(s.handleRecords))
	mux.HandleFunc("/ui/month-overview", s.withRequestLog(s.handleMonthOverview))

	return s, nil
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

// monthName renders a 1-12 month as its English name.
func monthName(month int) string {
	if month < 1 || month > 12 {
		return "Unknown Month"
	}
	return time.Month(month).String()
}
