// Package fakeapi is an in-memory implementation of the events backend, used to
// exercise the REST client end to end.
package fakeapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

const sessionCookie = "sessionid"

type User struct {
	ID        uint   `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Location  string `json:"location"`
}

type event struct {
	id              uint
	title           string
	description     string
	eventType       string
	location        string
	latitude        *float64
	longitude       *float64
	start           time.Time
	end             time.Time
	maxParticipants *int
	createdBy       uint
	participants    []uint
}

type account struct {
	user     User
	password string
}

// Request is a recorded inbound request.
type Request struct {
	Method        string
	Path          string
	RequestID     string
	Authorization string
}

// Server holds the backend state. The zero value is not usable; call New.
type Server struct {
	// Paginate wraps GET /events in a {"count", "results"} envelope.
	Paginate bool

	mu         sync.Mutex
	accounts   map[uint]*account
	events     map[uint]*event
	sessions   map[string]uint
	nextUserID uint
	nextID     uint
	requests   []Request
}

func New() *Server {
	return &Server{
		accounts:   make(map[uint]*account),
		events:     make(map[uint]*event),
		sessions:   make(map[string]uint),
		nextUserID: 1,
		nextID:     1,
	}
}

// Handler returns the router. Paths are served with or without a trailing slash.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.StripSlashes)
	r.Use(s.record)

	r.Route("/events", func(r chi.Router) {
		r.Get("/", s.listEvents)
		r.With(s.requireAuth).Post("/", s.createEvent)
		r.Route("/{id}", func(r chi.Router) {
			r.Use(s.requireAuth)
			r.Patch("/", s.updateEvent)
			r.Delete("/", s.deleteEvent)
			r.Post("/participate", s.participate)
			r.Post("/leave", s.leave)
			r.Delete("/participants/{userID}", s.removeParticipant)
		})
	})
	r.Route("/auth", func(r chi.Router) {
		r.Get("/me", s.me)
		r.Post("/login", s.login)
		r.Post("/signup", s.signup)
		r.Post("/google", s.google)
		r.Post("/logout", s.logout)
	})
	r.With(s.requireAuth).Patch("/users/me", s.updateMe)
	return r
}

// AddUser registers an account and returns it with its assigned ID.
func (s *Server) AddUser(u User, password string) User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addUserLocked(u, password)
}

func (s *Server) addUserLocked(u User, password string) User {
	u.ID = s.nextUserID
	s.nextUserID++
	s.accounts[u.ID] = &account{user: u, password: password}
	return u
}

// Join adds userID to the event behind the client's back, as another client would.
func (s *Server) Join(eventID, userID uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.events[eventID]
	if !ok {
		return fmt.Errorf("event %d not found", eventID)
	}
	if !contains(e.participants, userID) {
		e.participants = append(e.participants, userID)
	}
	return nil
}

// Participants returns the participant IDs of an event in join order.
func (s *Server) Participants(eventID uint) []uint {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.events[eventID]
	if !ok {
		return nil
	}
	return append([]uint(nil), e.participants...)
}

// Requests returns the recorded requests in arrival order.
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Request(nil), s.requests...)
}

// Count returns how many recorded requests match method and path.
func (s *Server) Count(method, path string) int {
	n := 0
	for _, r := range s.Requests() {
		if r.Method == method && r.Path == path {
			n++
		}
	}
	return n
}

func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.requests = append(s.requests, Request{
			Method:        r.Method,
			Path:          r.URL.Path,
			RequestID:     r.Header.Get("X-Request-ID"),
			Authorization: r.Header.Get("Authorization"),
		})
		s.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

// ============================================================================
// Sessions
// ============================================================================

type ctxKey struct{}

func (s *Server) sessionUser(r *http.Request) (uint, bool) {
	token := strings.TrimPrefix(r.Header.Get("Authorization"), "Token ")
	if token == "" {
		if c, err := r.Cookie(sessionCookie); err == nil {
			token = c.Value
		}
	}
	if token == "" {
		return 0, false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.sessions[token]
	return id, ok
}

func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := s.sessionUser(r)
		if !ok {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Authentication credentials were not provided."})
			return
		}
		next.ServeHTTP(w, r.WithContext(withUser(r.Context(), id)))
	})
}

func (s *Server) startSession(w http.ResponseWriter, userID uint) string {
	s.mu.Lock()
	token := fmt.Sprintf("tok-%d-%d", userID, len(s.sessions)+1)
	s.sessions[token] = userID
	s.mu.Unlock()
	http.SetCookie(w, &http.Cookie{Name: sessionCookie, Value: token, Path: "/"})
	return token
}

// ============================================================================
// Helpers
// ============================================================================

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func writeFieldError(w http.ResponseWriter, field, msg string) {
	writeJSON(w, http.StatusBadRequest, map[string][]string{field: {msg}})
}

func contains(ids []uint, id uint) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

func urlID(r *http.Request, name string) (uint, bool) {
	n, err := strconv.ParseUint(chi.URLParam(r, name), 10, 64)
	if err != nil || n == 0 {
		return 0, false
	}
	return uint(n), true
}

func decimal(v *float64) any {
	if v == nil {
		return nil
	}
	return strconv.FormatFloat(*v, 'f', 6, 64)
}

// render must be called with s.mu held.
func (s *Server) render(e *event) map[string]any {
	participants := make([]User, 0, len(e.participants))
	for _, id := range e.participants {
		if a, ok := s.accounts[id]; ok {
			participants = append(participants, a.user)
		}
	}
	out := map[string]any{
		"id":               e.id,
		"title":            e.title,
		"description":      e.description,
		"event_type":       e.eventType,
		"location":         e.location,
		"latitude":         decimal(e.latitude),
		"longitude":        decimal(e.longitude),
		"start_date":       e.start.Format(time.RFC3339),
		"date":             e.start.Format("2006-01-02"),
		"time":             e.start.Format("15:04:05"),
		"max_participants": e.maxParticipants,
		"created_by":       s.accounts[e.createdBy].user,
		"participants":     participants,
	}
	if !e.end.IsZero() {
		out["end_date"] = e.end.Format(time.RFC3339)
	}
	return out
}

func (s *Server) sortedEvents() []*event {
	list := make([]*event, 0, len(s.events))
	for _, e := range s.events {
		list = append(list, e)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].id < list[j].id })
	return list
}
