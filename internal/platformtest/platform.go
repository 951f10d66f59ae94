// Package platformtest provides an in-memory events platform speaking the same
// HTTP contract as the real one. It backs gateway, service and CLI tests.
package platformtest

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/Shivanand-hulikatti/eventdesk/internal/model"
)

// Reservation error messages, matching the production platform wording.
const (
	DetailAlreadyBooked = "You have already booked a ticket for this event"
	DetailNoTickets     = "No tickets available for this event"
)

// Structured codes emitted when Platform.EmitCodes is set.
const (
	CodeAlreadyBooked = "already_booked"
	CodeNoTickets     = "no_tickets_available"
)

// Failure is an injected response for the next call of an operation.
type Failure struct {
	Status int
	Detail string
	Code   string
}

// Platform is the in-memory state of the fake service.
type Platform struct {
	// EmitCodes makes reservation errors carry structured codes in addition
	// to the detail text.
	EmitCodes bool

	mu           sync.Mutex
	users        map[string]user // by token
	events       map[model.ID]*model.Event
	eventOrder   []model.ID
	comments     map[model.ID][]model.Comment // by event, oldest first
	reservations map[model.ID]map[model.ID]bool
	failures     map[string][]Failure
	calls        map[string]int
	requestIDs   []string
	nextID       int
	now          func() time.Time
}

type user struct {
	id       model.ID
	fullName string
}

// New returns an empty platform.
func New() *Platform {
	return &Platform{
		users:        make(map[string]user),
		events:       make(map[model.ID]*model.Event),
		comments:     make(map[model.ID][]model.Comment),
		reservations: make(map[model.ID]map[model.ID]bool),
		failures:     make(map[string][]Failure),
		calls:        make(map[string]int),
		nextID:       1,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// Serve starts an httptest server for p and closes it when the test ends.
func Serve(t testing.TB, p *Platform) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(p.Handler())
	t.Cleanup(srv.Close)
	return srv
}

// AddUser registers a bearer token for a user.
func (p *Platform) AddUser(token string, id model.ID, fullName string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.users[token] = user{id: id, fullName: fullName}
}

// AddEvent stores an event. A nil TicketsLimit means unlimited capacity.
// Availability fields are derived from the limit and booked count.
func (p *Platform) AddEvent(e model.Event) model.ID {
	p.mu.Lock()
	defer p.mu.Unlock()
	if e.ID.IsZero() {
		e.ID = p.allocID()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = p.now()
	}
	ev := e
	p.refreshAvailability(&ev)
	if _, ok := p.events[ev.ID]; !ok {
		p.eventOrder = append(p.eventOrder, ev.ID)
	}
	p.events[ev.ID] = &ev
	return ev.ID
}

// AddComment stores a comment authored by the user with the given id.
func (p *Platform) AddComment(eventID, authorID model.ID, body string) model.Comment {
	p.mu.Lock()
	defer p.mu.Unlock()
	c := model.Comment{
		ID:        p.allocID(),
		EventID:   eventID,
		AuthorID:  authorID,
		Author:    &model.Author{FullName: p.nameOf(authorID)},
		Body:      body,
		CreatedAt: p.now(),
	}
	p.comments[eventID] = append(p.comments[eventID], c)
	return c
}

// Book reserves a ticket directly, bypassing HTTP.
func (p *Platform) Book(eventID, userID model.ID) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.book(eventID, userID)
}

// FailNext queues f as the response to the next call of op. Ops are the
// route names: list_comments, create_comment, update_comment, delete_comment,
// reserve, cancel_reservation, get_event, list_events, list_events_by_tag,
// my_tickets, availability.
func (p *Platform) FailNext(op string, f Failure) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.failures[op] = append(p.failures[op], f)
}

// Calls returns how many requests reached op.
func (p *Platform) Calls(op string) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls[op]
}

// RequestIDs returns the X-Request-Id headers seen so far.
func (p *Platform) RequestIDs() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.requestIDs...)
}

// Event returns a copy of the stored event.
func (p *Platform) Event(id model.ID) (model.Event, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	e, ok := p.events[id]
	if !ok {
		return model.Event{}, false
	}
	return *e, true
}

// Comments returns the stored comments of an event, newest first.
func (p *Platform) Comments(eventID model.ID) []model.Comment {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.commentsNewestFirst(eventID)
}

// Handler returns the chi router serving the platform contract.
func (p *Platform) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)
	r.Use(p.recordRequestID)

	r.Route("/comments", func(r chi.Router) {
		r.Get("/post/{eventID}", p.op("list_comments", p.listComments))
		r.Post("/", p.op("create_comment", p.authed(p.createComment)))
		r.Put("/{id}", p.op("update_comment", p.authed(p.updateComment)))
		r.Delete("/{id}", p.op("delete_comment", p.authed(p.deleteComment)))
	})

	r.Route("/posts", func(r chi.Router) {
		r.Post("/", p.op("reserve", p.authed(p.reserve)))
		r.Delete("/", p.op("cancel_reservation", p.authed(p.cancel)))
		r.Get("/", p.op("list_events", p.listEvents))
		r.Get("/my-tickets/", p.op("my_tickets", p.authed(p.myTickets)))
		r.Get("/tags/{name}", p.op("list_events_by_tag", p.listEventsByTag))
		r.Get("/{id}", p.op("get_event", p.getEvent))
		r.Get("/{id}/availability/", p.op("availability", p.availability))
	})

	return r
}

// ─── Middleware ──────────────────────────────────────────────────────────────

func (p *Platform) recordRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id := r.Header.Get("X-Request-Id"); id != "" {
			p.mu.Lock()
			p.requestIDs = append(p.requestIDs, id)
			p.mu.Unlock()
		}
		next.ServeHTTP(w, r)
	})
}

// op counts the call and serves any queued failure instead of the handler.
func (p *Platform) op(name string, h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p.mu.Lock()
		p.calls[name]++
		var failure *Failure
		if queue := p.failures[name]; len(queue) > 0 {
			f := queue[0]
			p.failures[name] = queue[1:]
			failure = &f
		}
		p.mu.Unlock()

		if failure != nil {
			writeJSON(w, failure.Status, model.ErrorResponse{Detail: failure.Detail, Code: failure.Code})
			return
		}
		h(w, r)
	}
}

type authedHandler func(w http.ResponseWriter, r *http.Request, u user)

func (p *Platform) authed(h authedHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		u, ok := p.viewer(r)
		if !ok {
			writeError(w, http.StatusUnauthorized, "Not authenticated")
			return
		}
		h(w, r, u)
	}
}

func (p *Platform) viewer(r *http.Request) (user, bool) {
	const prefix = "Bearer "
	h := r.Header.Get("Authorization")
	if len(h) <= len(prefix) || h[:len(prefix)] != prefix {
		return user{}, false
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	u, ok := p.users[h[len(prefix):]]
	return u, ok
}

// ─── Comment handlers ────────────────────────────────────────────────────────

func (p *Platform) listComments(w http.ResponseWriter, r *http.Request) {
	eventID := model.ID(chi.URLParam(r, "eventID"))
	u, _ := p.viewer(r)

	p.mu.Lock()
	comments := p.commentsNewestFirst(eventID)
	p.mu.Unlock()

	for i := range comments {
		comments[i].EditableByViewer = !u.id.IsZero() && comments[i].AuthorID == u.id
	}
	writeJSON(w, http.StatusOK, comments)
}

func (p *Platform) createComment(w http.ResponseWriter, r *http.Request, u user) {
	var req model.CreateCommentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusUnprocessableEntity, "invalid request body: "+err.Error())
		return
	}
	if req.Body == "" {
		writeError(w, http.StatusUnprocessableEntity, "text must not be empty")
		return
	}

	p.mu.Lock()
	if _, ok := p.events[req.EventID]; !ok {
		p.mu.Unlock()
		writeError(w, http.StatusNotFound, "Post not found")
		return
	}
	c := model.Comment{
		ID:        p.allocID(),
		EventID:   req.EventID,
		AuthorID:  u.id,
		Author:    &model.Author{FullName: u.fullName},
		Body:      req.Body,
		CreatedAt: p.now(),
	}
	p.comments[req.EventID] = append(p.comments[req.EventID], c)
	p.mu.Unlock()

	c.EditableByViewer = true
	writeJSON(w, http.StatusCreated, c)
}

func (p *Platform) updateComment(w http.ResponseWriter, r *http.Request, u user) {
	id := model.ID(chi.URLParam(r, "id"))
	var req model.UpdateCommentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusUnprocessableEntity, "invalid request body: "+err.Error())
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	c, ok := p.findComment(id)
	if !ok {
		writeError(w, http.StatusNotFound, "Comment not found")
		return
	}
	if c.AuthorID != u.id {
		writeError(w, http.StatusForbidden, "Not the author of this comment")
		return
	}
	c.Body = req.Body
	out := *c
	out.EditableByViewer = true
	writeJSON(w, http.StatusOK, out)
}

func (p *Platform) deleteComment(w http.ResponseWriter, r *http.Request, u user) {
	id := model.ID(chi.URLParam(r, "id"))

	p.mu.Lock()
	defer p.mu.Unlock()
	c, ok := p.findComment(id)
	if !ok {
		writeError(w, http.StatusNotFound, "Comment not found")
		return
	}
	if c.AuthorID != u.id {
		writeError(w, http.StatusForbidden, "Not the author of this comment")
		return
	}
	list := p.comments[c.EventID]
	for i := range list {
		if list[i].ID == id {
			p.comments[c.EventID] = append(list[:i:i], list[i+1:]...)
			break
		}
	}
	w.WriteHeader(http.StatusNoContent)
}

// ─── Event & ticket handlers ─────────────────────────────────────────────────

func (p *Platform) listEvents(w http.ResponseWriter, r *http.Request) {
	p.mu.Lock()
	defer p.mu.Unlock()
	writeJSON(w, http.StatusOK, p.filterEvents(func(*model.Event) bool { return true }))
}

func (p *Platform) listEventsByTag(w http.ResponseWriter, r *http.Request) {
	tag := chi.URLParam(r, "name")
	p.mu.Lock()
	defer p.mu.Unlock()
	writeJSON(w, http.StatusOK, p.filterEvents(func(e *model.Event) bool {
		for _, t := range e.Tags {
			if t == tag {
				return true
			}
		}
		return false
	}))
}

func (p *Platform) myTickets(w http.ResponseWriter, r *http.Request, u user) {
	p.mu.Lock()
	defer p.mu.Unlock()
	writeJSON(w, http.StatusOK, p.filterEvents(func(e *model.Event) bool {
		return p.reservations[e.ID][u.id]
	}))
}

func (p *Platform) getEvent(w http.ResponseWriter, r *http.Request) {
	id := model.ID(chi.URLParam(r, "id"))
	p.mu.Lock()
	defer p.mu.Unlock()
	e, ok := p.events[id]
	if !ok {
		writeError(w, http.StatusNotFound, "Post not found")
		return
	}
	e.ViewsCount++
	writeJSON(w, http.StatusOK, e)
}

func (p *Platform) availability(w http.ResponseWriter, r *http.Request) {
	id := model.ID(chi.URLParam(r, "id"))
	p.mu.Lock()
	defer p.mu.Unlock()
	e, ok := p.events[id]
	if !ok {
		writeError(w, http.StatusNotFound, "Post not found")
		return
	}
	writeJSON(w, http.StatusOK, model.Availability{
		Available:   e.TicketsAvailable,
		Booked:      e.TicketsBooked,
		Limit:       e.TicketsLimit,
		IsAvailable: e.IsAvailable,
	})
}

func (p *Platform) reserve(w http.ResponseWriter, r *http.Request, u user) {
	var req model.ReserveRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusUnprocessableEntity, "invalid request body: "+err.Error())
		return
	}

	p.mu.Lock()
	err := p.book(req.EventID, u.id)
	codes := p.EmitCodes
	p.mu.Unlock()

	switch {
	case err == nil:
		writeJSON(w, http.StatusCreated, map[string]string{"message": "Ticket booked"})
	case errors.Is(err, errNotFound):
		writeError(w, http.StatusNotFound, "Post not found")
	case errors.Is(err, errAlreadyBooked):
		writeReservationError(w, codes, DetailAlreadyBooked, CodeAlreadyBooked)
	case errors.Is(err, errNoTickets):
		writeReservationError(w, codes, DetailNoTickets, CodeNoTickets)
	}
}

func (p *Platform) cancel(w http.ResponseWriter, r *http.Request, u user) {
	eventID := model.ID(r.URL.Query().Get("post_id"))

	p.mu.Lock()
	defer p.mu.Unlock()
	e, ok := p.events[eventID]
	if !ok || !p.reservations[eventID][u.id] {
		writeError(w, http.StatusNotFound, "Booking not found")
		return
	}
	delete(p.reservations[eventID], u.id)
	e.TicketsBooked--
	p.refreshAvailability(e)
	w.WriteHeader(http.StatusNoContent)
}

// ─── State helpers (callers hold p.mu) ───────────────────────────────────────

var (
	errNotFound      = errors.New("not found")
	errAlreadyBooked = errors.New("already booked")
	errNoTickets     = errors.New("no tickets")
)

// book checks for a duplicate reservation before checking capacity, so a
// viewer holding a ticket on a sold-out event is told about the duplicate.
func (p *Platform) book(eventID, userID model.ID) error {
	e, ok := p.events[eventID]
	if !ok {
		return errNotFound
	}
	if p.reservations[eventID][userID] {
		return errAlreadyBooked
	}
	if !e.Unlimited() && e.TicketsBooked >= *e.TicketsLimit {
		return errNoTickets
	}
	if p.reservations[eventID] == nil {
		p.reservations[eventID] = make(map[model.ID]bool)
	}
	p.reservations[eventID][userID] = true
	e.TicketsBooked++
	p.refreshAvailability(e)
	return nil
}

func (p *Platform) refreshAvailability(e *model.Event) {
	if e.Unlimited() {
		e.TicketsAvailable = 0
		e.IsAvailable = true
		return
	}
	e.TicketsAvailable = *e.TicketsLimit - e.TicketsBooked
	if e.TicketsAvailable < 0 {
		e.TicketsAvailable = 0
	}
	e.IsAvailable = e.TicketsAvailable > 0
}

func (p *Platform) allocID() model.ID {
	id := model.ID(strconv.Itoa(p.nextID))
	p.nextID++
	return id
}

func (p *Platform) nameOf(id model.ID) string {
	for _, u := range p.users {
		if u.id == id {
			return u.fullName
		}
	}
	return ""
}

func (p *Platform) findComment(id model.ID) (*model.Comment, bool) {
	for eventID, list := range p.comments {
		for i := range list {
			if list[i].ID == id {
				return &p.comments[eventID][i], true
			}
		}
	}
	return nil, false
}

func (p *Platform) commentsNewestFirst(eventID model.ID) []model.Comment {
	list := p.comments[eventID]
	out := make([]model.Comment, len(list))
	for i := range list {
		out[len(list)-1-i] = list[i]
	}
	return out
}

func (p *Platform) filterEvents(keep func(*model.Event) bool) []model.Event {
	out := []model.Event{}
	for _, id := range p.eventOrder {
		if e := p.events[id]; keep(e) {
			out = append(out, *e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

// NewToken returns a random bearer token.
func NewToken() string {
	return uuid.NewString()
}
