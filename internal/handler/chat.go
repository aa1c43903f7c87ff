package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/techfix-solutions/desk-service/internal/compose"
	"github.com/techfix-solutions/desk-service/internal/errs"
	"github.com/techfix-solutions/desk-service/internal/events"
	"github.com/techfix-solutions/desk-service/internal/service"
)

// ChatHandler is the back-office side of the live chat: the session
// list and the admin reply path. The customer side lives on the widget.
type ChatHandler struct {
	svc      service.ChatServicer
	users    service.UserServicer
	producer events.DeskEventProducer
}

func NewChatHandler(svc service.ChatServicer, users service.UserServicer, producer events.DeskEventProducer) *ChatHandler {
	return &ChatHandler{svc: svc, users: users, producer: producer}
}

func (h *ChatHandler) OnlineSessions(c *gin.Context) {
	items, err := h.svc.OnlineSessions(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list sessions"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"sessions": items, "total": len(items)})
}

func (h *ChatHandler) Messages(c *gin.Context) {
	if _, err := h.svc.GetSession(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, errs.ErrSessionNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	items, err := h.svc.Messages(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list messages"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"messages": items, "total": len(items)})
}

type chatMessageRequest struct {
	Body string `json:"body" binding:"required"`
}

// Send posts an admin reply into the session through the chat composer.
func (h *ChatHandler) Send(c *gin.Context) {
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
	composer := compose.NewChatComposer(h.svc.Thread(c.Param("id")))
	composer.SetInput(req.Body)
	author := compose.Author{ID: ident.ID, Name: profile.Name, IsAdmin: true}
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
		"session_id": c.Param("id"),
		"user_id":    ident.ID,
		"is_admin":   true,
	})
	c.JSON(http.StatusCreated, gin.H{"status": "sent"})
}
