package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/techfix-solutions/desk-service/internal/live"
	"github.com/techfix-solutions/desk-service/internal/model"
	"github.com/techfix-solutions/desk-service/internal/render"
	"github.com/techfix-solutions/desk-service/internal/service"
	"github.com/techfix-solutions/desk-service/internal/store"
)

// StreamHandler serves the live views over SSE. Each connection owns a
// live.Manager; the rendered fragments flow through a latest-wins frame
// channel so a slow client never backs up a renderer.
type StreamHandler struct {
	hub     *store.Hub
	tickets service.TicketServicer
	chats   service.ChatServicer
	users   service.UserServicer
}

func NewStreamHandler(hub *store.Hub, tickets service.TicketServicer, chats service.ChatServicer, users service.UserServicer) *StreamHandler {
	return &StreamHandler{hub: hub, tickets: tickets, chats: chats, users: users}
}

// Tickets streams the caller's ticket list, or every ticket for an
// admin, re-rendered on each change.
func (h *StreamHandler) Tickets(c *gin.Context) {
	ident := identityFrom(c)
	isAdmin, err := h.users.IsAdmin(c.Request.Context(), ident.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "role check failed"})
		return
	}
	fetch := func(ctx context.Context) ([]model.Ticket, error) {
		if isAdmin {
			return h.tickets.ListAll(ctx, 50)
		}
		return h.tickets.ListByUser(ctx, ident.ID)
	}
	streamSSE(c, func(m *live.Manager, sink live.Sink) {
		m.Subscribe("tickets", renderSource(h.hub, model.CollectionTickets, fetch, func(docs []model.Ticket) string {
			return render.List(docs, render.TicketCard, render.EmptyTickets)
		}), sink)
	})
}

func (h *StreamHandler) TicketMessages(c *gin.Context) {
	id := c.Param("id")
	fetch := func(ctx context.Context) ([]model.TicketMessage, error) {
		return h.tickets.Messages(ctx, id)
	}
	streamSSE(c, func(m *live.Manager, sink live.Sink) {
		m.Subscribe("ticket-messages:"+id, renderSource(h.hub, model.CollectionTicketMessages, fetch, func(docs []model.TicketMessage) string {
			return render.List(docs, render.TicketMessageBubble, render.EmptyMessages)
		}), sink)
	})
}

// ChatSessions streams the back-office list of online sessions.
func (h *StreamHandler) ChatSessions(c *gin.Context) {
	streamSSE(c, func(m *live.Manager, sink live.Sink) {
		m.Subscribe("chat-sessions", renderSource(h.hub, model.CollectionChatSessions, h.chats.OnlineSessions, func(docs []model.ChatSession) string {
			return render.List(docs, render.ChatSessionRow, render.EmptySessions)
		}), sink)
	})
}

func (h *StreamHandler) ChatMessages(c *gin.Context) {
	id := c.Param("id")
	fetch := func(ctx context.Context) ([]model.ChatMessage, error) {
		return h.chats.Messages(ctx, id)
	}
	streamSSE(c, func(m *live.Manager, sink live.Sink) {
		m.Subscribe("chat-messages:"+id, renderSource(h.hub, model.CollectionChatMessages, fetch, func(docs []model.ChatMessage) string {
			now := time.Now().UTC()
			return render.List(docs, func(msg model.ChatMessage) string {
				return render.ChatMessageBubble(msg, now)
			}, render.EmptyMessages)
		}), sink)
	})
}

// renderSource bridges a changefeed subscription to a live.Source: every
// snapshot is rendered to one HTML fragment, a query failure renders the
// error placeholder.
func renderSource[T any](h *store.Hub, collection string, fetch func(context.Context) ([]T, error), renderFn func([]T) string) live.Source {
	return func(ctx context.Context) <-chan string {
		out := make(chan string, 1)
		go func() {
			defer close(out)
			for snap := range store.Subscribe(ctx, h, collection, fetch) {
				html := render.PlaceholderLoadFailed
				if snap.Err == nil {
					html = renderFn(snap.Docs)
				}
				select {
				case out <- html:
				case <-ctx.Done():
					return
				}
			}
		}()
		return out
	}
}

// streamSSE runs one SSE connection. attach wires the connection's
// subscriptions into the per-connection manager; the sink hands frames
// to the writer loop without ever blocking a renderer.
func streamSSE(c *gin.Context, attach func(m *live.Manager, sink live.Sink)) {
	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	c.Writer.WriteHeader(http.StatusOK)
	c.Writer.Flush()

	frames := make(chan string, 1)
	sink := func(html string) {
		for {
			select {
			case frames <- html:
				return
			default:
			}
			select {
			case <-frames:
			default:
			}
		}
	}

	m := live.NewManager()
	defer m.Close()
	attach(m, sink)

	ctx := c.Request.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case html := <-frames:
			writeSSE(c.Writer, html)
		}
	}
}

// writeSSE emits one event. Multi-line fragments become one data: line
// per line, per the SSE wire format.
func writeSSE(w gin.ResponseWriter, html string) {
	for _, line := range strings.Split(html, "\n") {
		w.WriteString("data: ")
		w.WriteString(line)
		w.WriteString("\n")
	}
	w.WriteString("\n")
	w.Flush()
}
