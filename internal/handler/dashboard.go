package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/techfix-solutions/desk-service/internal/render"
	"github.com/techfix-solutions/desk-service/internal/service"
)

// DashboardHandler aggregates the back-office home view: counters and
// the recent activity feed.
type DashboardHandler struct {
	inbox   service.InboxServicer
	tickets service.TicketServicer
	chats   service.ChatServicer
}

func NewDashboardHandler(inbox service.InboxServicer, tickets service.TicketServicer, chats service.ChatServicer) *DashboardHandler {
	return &DashboardHandler{inbox: inbox, tickets: tickets, chats: chats}
}

// Stats returns the four dashboard counters.
func (h *DashboardHandler) Stats(c *gin.Context) {
	ctx := c.Request.Context()
	quotes, contacts, err := h.inbox.CountNew(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to count inbox"})
		return
	}
	openTickets, err := h.tickets.CountOpen(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to count tickets"})
		return
	}
	online, err := h.chats.CountOnline(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to count sessions"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"new_quotes":      quotes,
		"new_contacts":    contacts,
		"open_tickets":    openTickets,
		"online_sessions": online,
	})
}

// Activity returns the merged recent-activity feed as an HTML fragment.
func (h *DashboardHandler) Activity(c *gin.Context) {
	items, err := h.inbox.RecentActivity(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load activity"})
		return
	}
	html := render.List(items, render.ActivityRow, render.EmptyActivity)
	c.JSON(http.StatusOK, gin.H{"html": html, "total": len(items)})
}
