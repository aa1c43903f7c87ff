package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/techfix-solutions/desk-service/internal/auth"
	"github.com/techfix-solutions/desk-service/internal/model"
	"github.com/techfix-solutions/desk-service/internal/store"
)

func newStreamRouter(hub *store.Hub, tickets *fakeTickets, chat *fakeChat, users *fakeUsers) *gin.Engine {
	r := gin.New()
	h := NewStreamHandler(hub, tickets, chat, users)
	v1 := r.Group("/api/v1", RequireIdentity())
	{
		v1.GET("/streams/tickets", h.Tickets)
		v1.GET("/streams/tickets/:id/messages", h.TicketMessages)
	}
	return r
}

// serveStream runs the SSE handler until stop is called, then returns
// the recorded body.
func serveStream(t *testing.T, r http.Handler, path, userID string, during func()) string {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	req := httptest.NewRequest(http.MethodGet, path, nil).WithContext(ctx)
	req.Header.Set(auth.HeaderUserID, userID)
	req.Header.Set(auth.HeaderUserEmail, userID+"@example.com")
	w := httptest.NewRecorder()

	done := make(chan struct{})
	go func() {
		r.ServeHTTP(w, req)
		close(done)
	}()

	during()

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("stream handler did not stop after cancel")
	}
	return w.Body.String()
}

func TestTicketStreamEmitsInitialList(t *testing.T) {
	hub := store.NewHub()
	tickets := newFakeTickets()
	tickets.tickets["t1"] = &model.Ticket{ID: "t1", UserID: "u1", Title: "Premier ticket"}
	r := newStreamRouter(hub, tickets, newFakeChat(), &fakeUsers{})

	body := serveStream(t, r, "/api/v1/streams/tickets", "u1", func() {
		time.Sleep(100 * time.Millisecond)
	})
	if !strings.Contains(body, "data: ") {
		t.Fatalf("no SSE frames in: %q", body)
	}
	if !strings.Contains(body, "Premier ticket") {
		t.Fatalf("initial snapshot missing ticket: %q", body)
	}
}

func TestTicketStreamReactsToChanges(t *testing.T) {
	hub := store.NewHub()
	tickets := newFakeTickets()
	tickets.tickets["t1"] = &model.Ticket{ID: "t1", UserID: "u1", Title: "Premier"}
	r := newStreamRouter(hub, tickets, newFakeChat(), &fakeUsers{})

	body := serveStream(t, r, "/api/v1/streams/tickets", "u1", func() {
		time.Sleep(100 * time.Millisecond)
		tickets.mu.Lock()
		tickets.tickets["t2"] = &model.Ticket{ID: "t2", UserID: "u1", Title: "Deuxième"}
		tickets.mu.Unlock()
		hub.Notify(model.CollectionTickets)
		time.Sleep(200 * time.Millisecond)
	})
	if !strings.Contains(body, "Deuxième") {
		t.Fatalf("change notification never re-rendered the list: %q", body)
	}
}

func TestTicketMessagesStreamScopedToTicket(t *testing.T) {
	hub := store.NewHub()
	tickets := newFakeTickets()
	tickets.tickets["t1"] = &model.Ticket{ID: "t1", UserID: "u1"}
	tickets.messages["t1"] = []model.TicketMessage{{TicketID: "t1", UserName: "Lea", Body: "Bonjour support"}}
	tickets.messages["t2"] = []model.TicketMessage{{TicketID: "t2", UserName: "Max", Body: "Autre fil"}}
	r := newStreamRouter(hub, tickets, newFakeChat(), &fakeUsers{})

	body := serveStream(t, r, "/api/v1/streams/tickets/t1/messages", "u1", func() {
		time.Sleep(100 * time.Millisecond)
	})
	if !strings.Contains(body, "Bonjour support") {
		t.Fatalf("thread snapshot missing its message: %q", body)
	}
	if strings.Contains(body, "Autre fil") {
		t.Fatalf("thread stream leaked another ticket's messages")
	}
}
