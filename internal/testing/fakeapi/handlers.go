package fakeapi

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"
)

func withUser(ctx context.Context, id uint) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

func userFrom(r *http.Request) uint {
	id, _ := r.Context().Value(ctxKey{}).(uint)
	return id
}

type eventInput struct {
	Title           *string         `json:"title"`
	Description     *string         `json:"description"`
	EventType       *string         `json:"event_type"`
	Location        *string         `json:"location"`
	Latitude        *float64        `json:"latitude"`
	Longitude       *float64        `json:"longitude"`
	StartDate       *string         `json:"start_date"`
	EndDate         *string         `json:"end_date"`
	MaxParticipants json.RawMessage `json:"max_participants"`
}

// apply copies the present fields onto e and returns the first field error.
func (in eventInput) apply(e *event) (field, msg string) {
	if in.Title != nil {
		e.title = strings.TrimSpace(*in.Title)
	}
	if in.Description != nil {
		e.description = *in.Description
	}
	if in.EventType != nil {
		e.eventType = *in.EventType
	}
	if in.Location != nil {
		e.location = *in.Location
	}
	if in.Latitude != nil || in.Longitude != nil {
		e.latitude, e.longitude = in.Latitude, in.Longitude
	}
	if in.StartDate != nil {
		t, err := time.Parse(time.RFC3339, *in.StartDate)
		if err != nil {
			return "start_date", "Datetime has wrong format."
		}
		e.start = t
	}
	if in.EndDate != nil {
		t, err := time.Parse(time.RFC3339, *in.EndDate)
		if err != nil {
			return "end_date", "Datetime has wrong format."
		}
		e.end = t
	}
	if len(in.MaxParticipants) > 0 {
		var n *int
		if err := json.Unmarshal(in.MaxParticipants, &n); err != nil {
			return "max_participants", "A valid integer is required."
		}
		e.maxParticipants = n
	}
	switch {
	case e.title == "":
		return "title", "This field is required."
	case e.start.IsZero():
		return "start_date", "This field is required."
	case e.maxParticipants != nil && *e.maxParticipants < 1:
		return "max_participants", "Ensure this value is greater than or equal to 1."
	}
	if e.eventType == "" {
		e.eventType = "match"
	}
	return "", ""
}

func (s *Server) listEvents(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	list := make([]map[string]any, 0, len(s.events))
	for _, e := range s.sortedEvents() {
		list = append(list, s.render(e))
	}
	s.mu.Unlock()

	if s.Paginate {
		writeJSON(w, http.StatusOK, map[string]any{"count": len(list), "results": list})
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) createEvent(w http.ResponseWriter, r *http.Request) {
	var in eventInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	e := &event{createdBy: userFrom(r)}
	if field, msg := in.apply(e); field != "" {
		writeFieldError(w, field, msg)
		return
	}

	s.mu.Lock()
	e.id = s.nextID
	s.nextID++
	s.events[e.id] = e
	body := s.render(e)
	s.mu.Unlock()
	writeJSON(w, http.StatusCreated, body)
}

// ownedEvent loads the event named in the URL and checks the caller created it.
// It writes the error response itself and returns nil on failure. s.mu must be held.
func (s *Server) ownedEvent(w http.ResponseWriter, r *http.Request) *event {
	e := s.eventLocked(w, r)
	if e == nil {
		return nil
	}
	if e.createdBy != userFrom(r) {
		writeError(w, http.StatusForbidden, "Only the creator can modify this event")
		return nil
	}
	return e
}

func (s *Server) eventLocked(w http.ResponseWriter, r *http.Request) *event {
	id, ok := urlID(r, "id")
	if !ok {
		writeError(w, http.StatusNotFound, "Event not found")
		return nil
	}
	e, ok := s.events[id]
	if !ok {
		writeError(w, http.StatusNotFound, "Event not found")
		return nil
	}
	return e
}

func (s *Server) updateEvent(w http.ResponseWriter, r *http.Request) {
	var in eventInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	e := s.ownedEvent(w, r)
	if e == nil {
		return
	}
	updated := *e
	if field, msg := in.apply(&updated); field != "" {
		writeFieldError(w, field, msg)
		return
	}
	*e = updated
	writeJSON(w, http.StatusOK, s.render(e))
}

func (s *Server) deleteEvent(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e := s.ownedEvent(w, r)
	if e == nil {
		return
	}
	delete(s.events, e.id)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) participate(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e := s.eventLocked(w, r)
	if e == nil {
		return
	}
	me := userFrom(r)
	switch {
	case contains(e.participants, me):
		writeError(w, http.StatusBadRequest, "You are already participating in this event")
	case e.maxParticipants != nil && len(e.participants) >= *e.maxParticipants:
		writeError(w, http.StatusBadRequest, "Event is full")
	default:
		e.participants = append(e.participants, me)
		writeJSON(w, http.StatusOK, map[string]string{"status": "joined"})
	}
}

func (s *Server) leave(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e := s.eventLocked(w, r)
	if e == nil {
		return
	}
	e.participants = without(e.participants, userFrom(r))
	writeJSON(w, http.StatusOK, map[string]string{"status": "left"})
}

func (s *Server) removeParticipant(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e := s.ownedEvent(w, r)
	if e == nil {
		return
	}
	userID, ok := urlID(r, "userID")
	if !ok || !contains(e.participants, userID) {
		writeError(w, http.StatusNotFound, "User is not a participant of this event")
		return
	}
	e.participants = without(e.participants, userID)
	w.WriteHeader(http.StatusNoContent)
}

func without(ids []uint, id uint) []uint {
	out := ids[:0]
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

// ============================================================================
// Auth
// ============================================================================

func (s *Server) me(w http.ResponseWriter, r *http.Request) {
	id, ok := s.sessionUser(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Authentication credentials were not provided."})
		return
	}
	s.mu.Lock()
	u := s.accounts[id].user
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, u)
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	s.mu.Lock()
	var found *account
	for _, a := range s.accounts {
		if a.user.Username == in.Username && a.password == in.Password {
			found = a
			break
		}
	}
	s.mu.Unlock()
	if found == nil {
		writeError(w, http.StatusBadRequest, "Invalid credentials")
		return
	}
	token := s.startSession(w, found.user.ID)
	writeJSON(w, http.StatusOK, map[string]any{"token": token, "user": found.user})
}

func (s *Server) signup(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Username        string `json:"username"`
		Email           string `json:"email"`
		Password        string `json:"password"`
		PasswordConfirm string `json:"password_confirm"`
		FirstName       string `json:"first_name"`
		LastName        string `json:"last_name"`
		Location        string `json:"location"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if in.PasswordConfirm != "" && in.PasswordConfirm != in.Password {
		writeFieldError(w, "password_confirm", "Passwords do not match.")
		return
	}

	s.mu.Lock()
	for _, a := range s.accounts {
		if a.user.Username == in.Username {
			s.mu.Unlock()
			writeFieldError(w, "username", "A user with that username already exists.")
			return
		}
	}
	u := s.addUserLocked(User{
		Username:  in.Username,
		Email:     in.Email,
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Location:  in.Location,
	}, in.Password)
	s.mu.Unlock()

	token := s.startSession(w, u.ID)
	writeJSON(w, http.StatusCreated, map[string]any{"token": token, "user": u})
}

// google accepts "google-<username>" access tokens. It answers with the bare user and
// relies on the session cookie.
func (s *Server) google(w http.ResponseWriter, r *http.Request) {
	var in struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	username, ok := strings.CutPrefix(in.AccessToken, "google-")
	if !ok || username == "" {
		writeError(w, http.StatusBadRequest, "Invalid Google token")
		return
	}

	s.mu.Lock()
	var u User
	found := false
	for _, a := range s.accounts {
		if a.user.Username == username {
			u, found = a.user, true
			break
		}
	}
	if !found {
		u = s.addUserLocked(User{Username: username, Email: username + "@gmail.com"}, "")
	}
	s.mu.Unlock()

	s.startSession(w, u.ID)
	writeJSON(w, http.StatusOK, u)
}

func (s *Server) logout(w http.ResponseWriter, r *http.Request) {
	token := strings.TrimPrefix(r.Header.Get("Authorization"), "Token ")
	if token == "" {
		if c, err := r.Cookie(sessionCookie); err == nil {
			token = c.Value
		}
	}
	s.mu.Lock()
	delete(s.sessions, token)
	s.mu.Unlock()
	http.SetCookie(w, &http.Cookie{Name: sessionCookie, Value: "", Path: "/", MaxAge: -1})
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) updateMe(w http.ResponseWriter, r *http.Request) {
	var in struct {
		FirstName *string `json:"first_name"`
		LastName  *string `json:"last_name"`
		Email     *string `json:"email"`
		Location  *string `json:"location"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if in.Email != nil && !strings.Contains(*in.Email, "@") {
		writeFieldError(w, "email", "Enter a valid email address.")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	a := s.accounts[userFrom(r)]
	if in.FirstName != nil {
		a.user.FirstName = *in.FirstName
	}
	if in.LastName != nil {
		a.user.LastName = *in.LastName
	}
	if in.Email != nil {
		a.user.Email = *in.Email
	}
	if in.Location != nil {
		a.user.Location = *in.Location
	}
	writeJSON(w, http.StatusOK, a.user)
}
