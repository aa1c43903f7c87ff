package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/techfix-solutions/desk-service/internal/compose"
	"github.com/techfix-solutions/desk-service/internal/errs"
	"github.com/techfix-solutions/desk-service/internal/events"
	"github.com/techfix-solutions/desk-service/internal/guard"
	"github.com/techfix-solutions/desk-service/internal/model"
	"github.com/techfix-solutions/desk-service/internal/service"
)

type TicketHandler struct {
	svc      service.TicketServicer
	users    service.UserServicer
	producer events.DeskEventProducer
}

func NewTicketHandler(svc service.TicketServicer, users service.UserServicer, producer events.DeskEventProducer) *TicketHandler {
	return &TicketHandler{svc: svc, users: users, producer: producer}
}

type createTicketRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description" binding:"required"`
	Priority    string `json:"priority"`
}

func (h *TicketHandler) Create(c *gin.Context) {
	var req createTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}
	if len([]rune(req.Title)) < 5 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Le titre doit contenir au moins 5 caractères"})
		return
	}
	if len([]rune(req.Description)) < 10 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "La description doit contenir au moins 10 caractères"})
		return
	}
	ident := identityFrom(c)
	profile, err := h.users.EnsureProfile(c.Request.Context(), ident.ID, ident.Email)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to resolve profile"})
		return
	}
	t, err := h.svc.Create(c.Request.Context(), ident.ID, profile.Name, req.Title, req.Description, model.TicketPriority(req.Priority))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create ticket"})
		return
	}
	h.producer.Produce(c.Request.Context(), events.TicketCreated, ticketEventPayload(t))
	c.JSON(http.StatusCreated, t)
}

func (h *TicketHandler) Get(c *gin.Context) {
	t, err := h.svc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, errs.ErrTicketNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "ticket not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, t)
}

// List returns the caller's tickets, or every ticket for an admin.
func (h *TicketHandler) List(c *gin.Context) {
	ident := identityFrom(c)
	isAdmin, err := h.users.IsAdmin(c.Request.Context(), ident.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "role check failed"})
		return
	}
	var items []model.Ticket
	if isAdmin {
		items, err = h.svc.ListAll(c.Request.Context(), 50)
	} else {
		items, err = h.svc.ListByUser(c.Request.Context(), ident.ID)
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list tickets"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"tickets": items, "total": len(items)})
}

func (h *TicketHandler) Messages(c *gin.Context) {
	if _, err := h.svc.GetByID(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, errs.ErrTicketNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "ticket not found"})
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

type replyRequest struct {
	Body string `json:"body" binding:"required"`
}

// Reply posts a new message into the ticket thread through the composer.
// The author's role decides the side effects: an admin reply moves the
// ticket to en_cours.
func (h *TicketHandler) Reply(c *gin.Context) {
	var req replyRequest
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
	isAdmin, err := h.users.IsAdmin(c.Request.Context(), ident.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "role check failed"})
		return
	}
	composer := compose.NewTicketComposer(h.svc.Thread(c.Param("id")))
	composer.SetInput(req.Body)
	author := compose.Author{ID: ident.ID, Name: profile.Name, IsAdmin: isAdmin}
	if err := composer.Submit(c.Request.Context(), author); err != nil {
		var verr *compose.ValidationError
		if errors.As(err, &verr) {
			c.JSON(http.StatusBadRequest, gin.H{"error": verr.Reason})
			return
		}
		if errors.Is(err, errs.ErrTicketNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "ticket not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lors de l'envoi du message"})
		return
	}
	if t, err := h.svc.GetByID(c.Request.Context(), c.Param("id")); err == nil {
		h.producer.Produce(c.Request.Context(), events.TicketUpdated, ticketEventPayload(t))
	}
	c.JSON(http.StatusCreated, gin.H{"status": "sent"})
}

type updateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

func (h *TicketHandler) UpdateStatus(c *gin.Context) {
	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}
	status := model.TicketStatus(req.Status)
	if !status.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status: must be 'ouvert', 'en_cours', or 'resolu'"})
		return
	}
	if err := h.svc.UpdateStatus(c.Request.Context(), c.Param("id"), status); err != nil {
		if errors.Is(err, errs.ErrTicketNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "ticket not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update ticket"})
		return
	}
	if t, err := h.svc.GetByID(c.Request.Context(), c.Param("id")); err == nil {
		h.producer.Produce(c.Request.Context(), events.TicketUpdated, ticketEventPayload(t))
	}
	c.JSON(http.StatusOK, gin.H{"status": "updated"})
}

// Delete cascades: messages first, then the ticket, after two
// confirmations carried as query parameters.
func (h *TicketHandler) Delete(c *gin.Context) {
	id := c.Param("id")
	err := guard.Delete(queryConfirmer(c), "ce ticket et tous ses messages", func() error {
		return h.svc.Delete(c.Request.Context(), id)
	})
	if err != nil {
		if errors.Is(err, guard.ErrAborted) {
			c.JSON(http.StatusPreconditionRequired, gin.H{"error": "confirmation required", "confirmed": false})
			return
		}
		if errors.Is(err, errs.ErrTicketNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "ticket not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lors de la suppression"})
		return
	}
	h.producer.Produce(c.Request.Context(), events.TicketDeleted, map[string]interface{}{"ticket_id": id})
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

// queryConfirmer answers the guard's two prompts from the confirm and
// confirm_final query parameters, in that order.
func queryConfirmer(c *gin.Context) guard.Confirmer {
	answers := []bool{c.Query("confirm") == "yes", c.Query("confirm_final") == "yes"}
	i := 0
	return guard.ConfirmerFunc(func(string) bool {
		if i >= len(answers) {
			return false
		}
		ok := answers[i]
		i++
		return ok
	})
}

func ticketEventPayload(t *model.Ticket) map[string]interface{} {
	if t == nil {
		return nil
	}
	return map[string]interface{}{
		"ticket_id": t.ID,
		"user_id":   t.UserID,
		"title":     t.Title,
		"status":    string(t.Status),
		"priority":  string(t.Priority),
	}
}
