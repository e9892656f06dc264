// Package server wires the HTTP routes to their handlers and carries
// the shared application state.
package server

import (
	"log"
	"net/http"

	"github.com/nuriajuanca/casamiento/internal/auth"
	"github.com/nuriajuanca/casamiento/internal/config"
	"github.com/nuriajuanca/casamiento/internal/database"
	"github.com/nuriajuanca/casamiento/internal/server/handlers"
)

type Server struct {
	config   *config.Config
	store    *database.Store
	sessions *auth.Manager
	router   *http.ServeMux
}

func New(cfg *config.Config, store *database.Store, sessions *auth.Manager) *Server {
	s := &Server{
		config:   cfg,
		store:    store,
		sessions: sessions,
		router:   http.NewServeMux(),
	}
	s.setupRoutes()
	return s
}

func (s *Server) Store() *database.Store  { return s.store }
func (s *Server) Config() *config.Config  { return s.config }
func (s *Server) Sessions() *auth.Manager { return s.sessions }
func (s *Server) Router() http.Handler    { return s.router }

func (s *Server) setupRoutes() {
	s.router.HandleFunc("/", handlers.HandleHome(s))
	s.router.HandleFunc("/rsvp/submit", handlers.HandleRSVPSubmit(s))
	s.router.HandleFunc("/calendar.ics", handlers.HandleCalendarICS(s))

	s.router.HandleFunc("/admin/login", handlers.HandleAdminLogin(s))
	s.router.HandleFunc("/admin/logout", handlers.HandleAdminLogout(s))
	s.router.HandleFunc("/admin", s.requireSession(handlers.HandleAdminDashboard(s)))
	s.router.HandleFunc("/admin/rsvps/delete", s.requireSession(handlers.HandleAdminDeleteRSVP(s)))
	s.router.HandleFunc("/admin/links/create", s.requireSession(handlers.HandleAdminCreateLink(s)))
	s.router.HandleFunc("/admin/links/update", s.requireSession(handlers.HandleAdminUpdateLink(s)))
	s.router.HandleFunc("/admin/links/delete", s.requireSession(handlers.HandleAdminDeleteLink(s)))
	s.router.HandleFunc("/admin/confirmaciones.csv", s.requireSession(handlers.HandleExportCSV(s)))

	fs := http.FileServer(http.Dir("static"))
	s.router.Handle("/static/", http.StripPrefix("/static/", fs))
}

// requireSession is a cheap gate: it only checks that the session
// cookie exists. Handlers behind it still run the full decrypt-and-
// expiry check before touching data.
func (s *Server) requireSession(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, err := r.Cookie(auth.CookieName); err != nil {
			http.Redirect(w, r, "/admin/login", http.StatusSeeOther)
			return
		}
		next(w, r)
	}
}

func (s *Server) Start(addr string) error {
	log.Printf("Server starting on %s", addr)
	return http.ListenAndServe(addr, s.router)
}
