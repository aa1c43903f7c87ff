package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/techfix-solutions/desk-service/internal/carousel"
	"github.com/techfix-solutions/desk-service/internal/compose"
	"github.com/techfix-solutions/desk-service/internal/errs"
	"github.com/techfix-solutions/desk-service/internal/events"
	"github.com/techfix-solutions/desk-service/internal/live"
	"github.com/techfix-solutions/desk-service/internal/model"
	"github.com/techfix-solutions/desk-service/internal/presence"
	"github.com/techfix-solutions/desk-service/internal/render"
	"github.com/techfix-solutions/desk-service/internal/service"
	"github.com/techfix-solutions/desk-service/internal/store"
)

// WidgetHandler serves the embeddable site surfaces: the visitor side
// of the chat widget and the public reviews carousel.
type WidgetHandler struct {
	tracker  *presence.Tracker
	chats    service.ChatServicer
	reviews  service.ReviewServicer
	users    service.UserServicer
	hub      *store.Hub
	producer events.DeskEventProducer
}

func NewWidgetHandler(tracker *presence.Tracker, chats service.ChatServicer, reviews service.ReviewServicer, users service.UserServicer, hub *store.Hub, producer events.DeskEventProducer) *WidgetHandler {
	return &WidgetHandler{tracker: tracker, chats: chats, reviews: reviews, users: users, hub: hub, producer: producer}
}

// ChatEnter opens (or reopens) the visitor's chat session and marks it
// online. First contact creates the session with a welcome message.
func (h *WidgetHandler) ChatEnter(c *gin.Context) {
	ident := identityFrom(c)
	profile, err := h.users.EnsureProfile(c.Request.Context(), ident.ID, ident.Email)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to resolve profile"})
		return
	}
	sess, err := h.tracker.Enter(c.Request.Context(), presence.Participant{
		ID:    ident.ID,
		Name:  profile.Name,
		Email: ident.Email,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to open session"})
		return
	}
	c.JSON(http.StatusOK, sess)
}

// ChatLeave is the unload beacon: mark the session offline, best-effort,
// and always answer 204.
func (h *WidgetHandler) ChatLeave(c *gin.Context) {
	ident := identityFrom(c)
	h.tracker.Leave(c.Request.Context(), ident.ID)
	c.Status(http.StatusNoContent)
}

// ChatFocus resets the visitor's unread counter.
func (h *WidgetHandler) ChatFocus(c *gin.Context) {
	ident := identityFrom(c)
	if err := h.tracker.Focus(c.Request.Context(), ident.ID); err != nil {
		if errors.Is(err, errs.ErrSessionNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to reset unread"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "focused"})
}

// ChatSend posts a visitor message into their own session.
func (h *WidgetHandler) ChatSend(c *gin.Context) {
	var req chatMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}
	ident := identityFrom(c)
	profile, err := h.users.EnsureProfile(c.Request.Context(), ident.ID, ident.Email)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to resolve profile"})
		return
	}
	composer := compose.NewChatComposer(h.chats.Thread(ident.ID))
	composer.SetInput(req.Body)
	author := compose.Author{ID: ident.ID, Name: profile.Name}
	if err := composer.Submit(c.Request.Context(), author); err != nil {
		var verr *compose.ValidationError
		if errors.As(err, &verr) {
			c.JSON(http.StatusBadRequest, gin.H{"error": verr.Reason})
			return
		}
		if errors.Is(err, errs.ErrSessionNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lors de l'envoi du message"})
		return
	}
	h.producer.Produce(c.Request.Context(), events.ChatMessage, map[string]interface{}{
		"session_id": ident.ID,
		"user_id":    ident.ID,
		"is_admin":   false,
	})
	c.JSON(http.StatusCreated, gin.H{"status": "sent"})
}

// Reviews renders one carousel page statelessly, for clients that poll
// instead of holding a stream.
func (h *WidgetHandler) Reviews(c *gin.Context) {
	width := queryInt(c, "width", 1024)
	page := queryInt(c, "page", 0)

	items, err := h.reviews.ListApproved(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list reviews"})
		return
	}
	perPage := carousel.ItemsPerPage(width)
	total := (len(items) + perPage - 1) / perPage
	if total == 0 {
		c.JSON(http.StatusOK, gin.H{"html": render.ReviewSlide(nil), "page": 0, "total_pages": 0})
		return
	}
	page = ((page % total) + total) % total
	start := page * perPage
	end := start + perPage
	if end > len(items) {
		end = len(items)
	}
	c.JSON(http.StatusOK, gin.H{
		"html":        render.ReviewSlide(items[start:end]),
		"page":        page,
		"total_pages": total,
	})
}

// ReviewsStream drives the carousel server-side over SSE: auto-advance,
// page resets on data reload, and re-partitions when the client reports
// a resize through the width parameter on reconnect.
func (h *WidgetHandler) ReviewsStream(c *gin.Context) {
	width := queryInt(c, "width", 1024)
	streamSSE(c, func(m *live.Manager, sink live.Sink) {
		sink(render.PlaceholderLoading)
		ctrl := carousel.New(nil, width, func(page int, items []model.Review) {
			sink(render.ReviewSlide(items))
		})
		m.Subscribe("widget-reviews", func(ctx context.Context) <-chan string {
			out := make(chan string)
			go func() {
				defer close(out)
				defer ctrl.Stop()
				for snap := range store.Subscribe(ctx, h.hub, model.CollectionReviews, h.reviews.ListApproved) {
					if snap.Err != nil {
						sink(render.PlaceholderLoadFailed)
						continue
					}
					ctrl.SetItems(snap.Docs)
				}
			}()
			return out
		}, sink)
	})
}

func queryInt(c *gin.Context, name string, def int) int {
	v := c.Query(name)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}
