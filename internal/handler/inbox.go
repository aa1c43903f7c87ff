package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/techfix-solutions/desk-service/internal/errs"
	"github.com/techfix-solutions/desk-service/internal/events"
	"github.com/techfix-solutions/desk-service/internal/guard"
	"github.com/techfix-solutions/desk-service/internal/model"
	"github.com/techfix-solutions/desk-service/internal/notify"
	"github.com/techfix-solutions/desk-service/internal/service"
)

// InboxHandler covers the two public forms and their back-office views.
type InboxHandler struct {
	svc      service.InboxServicer
	notifier *notify.Client
	producer events.DeskEventProducer
}

func NewInboxHandler(svc service.InboxServicer, notifier *notify.Client, producer events.DeskEventProducer) *InboxHandler {
	return &InboxHandler{svc: svc, notifier: notifier, producer: producer}
}

type quoteRequest struct {
	Name        string `json:"name" binding:"required"`
	Email       string `json:"email" binding:"required"`
	Phone       string `json:"phone" binding:"required"`
	City        string `json:"city"`
	Service     string `json:"service" binding:"required"`
	Urgency     string `json:"urgency"`
	Budget      string `json:"budget"`
	Description string `json:"description" binding:"required"`
}

// CreateQuote is the public quote form endpoint. The new item is
// forwarded to the inbox webhook, best-effort.
func (h *InboxHandler) CreateQuote(c *gin.Context) {
	var req quoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}
	q := &model.QuoteRequest{
		Name:        req.Name,
		Email:       req.Email,
		Phone:       req.Phone,
		City:        req.City,
		Service:     req.Service,
		Urgency:     req.Urgency,
		Budget:      req.Budget,
		Description: req.Description,
	}
	if err := h.svc.CreateQuote(c.Request.Context(), q); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lors de l'envoi de la demande"})
		return
	}
	h.notifier.NotifyInboxAsync(notify.InboxPayload{
		Kind:   "quote",
		ID:     q.ID,
		Name:   q.Name,
		Email:  q.Email,
		Body:   q.Description,
		Status: string(q.Status),
	})
	h.producer.ProduceAsync(events.InboxCreated, map[string]interface{}{"kind": "quote", "id": q.ID})
	c.JSON(http.StatusCreated, gin.H{"id": q.ID, "status": q.Status})
}

type contactRequest struct {
	Name    string `json:"name" binding:"required"`
	Email   string `json:"email" binding:"required"`
	Phone   string `json:"phone"`
	Subject string `json:"subject" binding:"required"`
	Body    string `json:"body" binding:"required"`
}

// CreateContact is the public contact form endpoint.
func (h *InboxHandler) CreateContact(c *gin.Context) {
	var req contactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}
	m := &model.ContactMessage{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Subject: req.Subject,
		Body:    req.Body,
	}
	if err := h.svc.CreateContact(c.Request.Context(), m); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lors de l'envoi du message"})
		return
	}
	h.notifier.NotifyInboxAsync(notify.InboxPayload{
		Kind:    "contact",
		ID:      m.ID,
		Name:    m.Name,
		Email:   m.Email,
		Subject: m.Subject,
		Body:    m.Body,
		Status:  string(m.Status),
	})
	h.producer.ProduceAsync(events.InboxCreated, map[string]interface{}{"kind": "contact", "id": m.ID})
	c.JSON(http.StatusCreated, gin.H{"id": m.ID, "status": m.Status})
}

func (h *InboxHandler) ListQuotes(c *gin.Context) {
	items, err := h.svc.ListQuotes(c.Request.Context(), queryInt(c, "limit", 0))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list quotes"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"quotes": items, "total": len(items)})
}

func (h *InboxHandler) ListContacts(c *gin.Context) {
	items, err := h.svc.ListContacts(c.Request.Context(), queryInt(c, "limit", 0))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list contacts"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"contacts": items, "total": len(items)})
}

type inboxStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

func (h *InboxHandler) UpdateQuoteStatus(c *gin.Context) {
	var req inboxStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}
	status := model.InboxStatus(req.Status)
	if !status.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status: must be 'nouveau', 'en_cours', or 'traite'"})
		return
	}
	if err := h.svc.UpdateQuoteStatus(c.Request.Context(), c.Param("id"), status); err != nil {
		if errors.Is(err, errs.ErrQuoteNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "quote not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update quote"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "updated"})
}

func (h *InboxHandler) UpdateContactStatus(c *gin.Context) {
	var req inboxStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}
	status := model.InboxStatus(req.Status)
	if !status.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status: must be 'nouveau', 'en_cours', or 'traite'"})
		return
	}
	if err := h.svc.UpdateContactStatus(c.Request.Context(), c.Param("id"), status); err != nil {
		if errors.Is(err, errs.ErrContactNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "contact not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update contact"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "updated"})
}

func (h *InboxHandler) DeleteQuote(c *gin.Context) {
	id := c.Param("id")
	err := guard.Delete(queryConfirmer(c), "cette demande de devis", func() error {
		return h.svc.DeleteQuote(c.Request.Context(), id)
	})
	h.finishDelete(c, err, errs.ErrQuoteNotFound, "quote not found")
}

func (h *InboxHandler) DeleteContact(c *gin.Context) {
	id := c.Param("id")
	err := guard.Delete(queryConfirmer(c), "ce message de contact", func() error {
		return h.svc.DeleteContact(c.Request.Context(), id)
	})
	h.finishDelete(c, err, errs.ErrContactNotFound, "contact not found")
}

func (h *InboxHandler) finishDelete(c *gin.Context, err error, notFound error, notFoundMsg string) {
	if err != nil {
		if errors.Is(err, guard.ErrAborted) {
			c.JSON(http.StatusPreconditionRequired, gin.H{"error": "confirmation required", "confirmed": false})
			return
		}
		if errors.Is(err, notFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": notFoundMsg})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lors de la suppression"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

// ExportQuote returns the plain-text clipboard rendition.
func (h *InboxHandler) ExportQuote(c *gin.Context) {
	text, err := h.svc.ExportQuote(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, errs.ErrQuoteNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "quote not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to export quote"})
		return
	}
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(text))
}

func (h *InboxHandler) ExportContact(c *gin.Context) {
	text, err := h.svc.ExportContact(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, errs.ErrContactNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "contact not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to export contact"})
		return
	}
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(text))
}
