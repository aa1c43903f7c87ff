package handler

import (
	"context"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/techfix-solutions/desk-service/internal/compose"
	"github.com/techfix-solutions/desk-service/internal/errs"
	"github.com/techfix-solutions/desk-service/internal/model"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeProducer struct {
	mu     sync.Mutex
	events []string
}

func (f *fakeProducer) Produce(_ context.Context, event string, _ map[string]interface{}) {
	f.mu.Lock()
	f.events = append(f.events, event)
	f.mu.Unlock()
}

func (f *fakeProducer) ProduceAsync(event string, _ map[string]interface{}) {
	f.mu.Lock()
	f.events = append(f.events, event)
	f.mu.Unlock()
}

func (f *fakeProducer) produced() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.events))
	copy(out, f.events)
	return out
}

type fakeUsers struct {
	admins map[string]bool
}

func (f *fakeUsers) Get(_ context.Context, id string) (*model.UserProfile, error) {
	return &model.UserProfile{ID: id, IsAdmin: f.admins[id]}, nil
}

func (f *fakeUsers) EnsureProfile(_ context.Context, id, email string) (*model.UserProfile, error) {
	name := email
	if at := strings.Index(email, "@"); at > 0 {
		name = email[:at]
	}
	return &model.UserProfile{ID: id, Email: email, Name: name, IsAdmin: f.admins[id]}, nil
}

func (f *fakeUsers) IsAdmin(_ context.Context, id string) (bool, error) {
	return f.admins[id], nil
}

type appendRecord struct {
	author compose.Author
	body   string
}

type fakeTickets struct {
	mu       sync.Mutex
	tickets  map[string]*model.Ticket
	messages map[string][]model.TicketMessage
	appends  []appendRecord
	deleted  []string
	created  []*model.Ticket
	statuses map[string]model.TicketStatus
}

func newFakeTickets() *fakeTickets {
	return &fakeTickets{
		tickets:  make(map[string]*model.Ticket),
		messages: make(map[string][]model.TicketMessage),
		statuses: make(map[string]model.TicketStatus),
	}
}

func (f *fakeTickets) Create(_ context.Context, userID, userName, title, description string, priority model.TicketPriority) (*model.Ticket, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t := &model.Ticket{
		ID:          "t-new",
		UserID:      userID,
		UserName:    userName,
		Title:       title,
		Description: description,
		Status:      model.TicketStatusOpen,
		Priority:    priority,
	}
	f.tickets[t.ID] = t
	f.created = append(f.created, t)
	return t, nil
}

func (f *fakeTickets) GetByID(_ context.Context, id string) (*model.Ticket, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.tickets[id]
	if !ok {
		return nil, errs.ErrTicketNotFound
	}
	return t, nil
}

func (f *fakeTickets) ListByUser(_ context.Context, userID string) ([]model.Ticket, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.Ticket
	for _, t := range f.tickets {
		if t.UserID == userID {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (f *fakeTickets) ListAll(_ context.Context, _ int) ([]model.Ticket, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.Ticket
	for _, t := range f.tickets {
		out = append(out, *t)
	}
	return out, nil
}

func (f *fakeTickets) Messages(_ context.Context, ticketID string) ([]model.TicketMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.messages[ticketID], nil
}

func (f *fakeTickets) UpdateStatus(_ context.Context, id string, status model.TicketStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.tickets[id]
	if !ok {
		return errs.ErrTicketNotFound
	}
	t.Status = status
	f.statuses[id] = status
	return nil
}

func (f *fakeTickets) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.tickets[id]; !ok {
		return errs.ErrTicketNotFound
	}
	delete(f.tickets, id)
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeTickets) CountOpen(context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.tickets)), nil
}

func (f *fakeTickets) Thread(ticketID string) compose.Thread {
	return &fakeThread{svc: f, ticketID: ticketID}
}

type fakeThread struct {
	svc      *fakeTickets
	ticketID string
}

func (t *fakeThread) Append(_ context.Context, author compose.Author, body string) error {
	t.svc.mu.Lock()
	defer t.svc.mu.Unlock()
	if _, ok := t.svc.tickets[t.ticketID]; !ok {
		return errs.ErrTicketNotFound
	}
	t.svc.appends = append(t.svc.appends, appendRecord{author: author, body: body})
	t.svc.messages[t.ticketID] = append(t.svc.messages[t.ticketID], model.TicketMessage{
		TicketID: t.ticketID,
		UserID:   author.ID,
		UserName: author.Name,
		Body:     body,
		IsAdmin:  author.IsAdmin,
	})
	return nil
}
