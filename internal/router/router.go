package router

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/techfix-solutions/desk-service/api"
	"github.com/techfix-solutions/desk-service/internal/auth"
	"github.com/techfix-solutions/desk-service/internal/handler"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

const (
	pathHealth  = "/health"
	pathReady   = "/ready"
	pathSwagger = "/swagger"
)

type Handlers struct {
	Tickets   *handler.TicketHandler
	Chat      *handler.ChatHandler
	Widget    *handler.WidgetHandler
	Inbox     *handler.InboxHandler
	Dashboard *handler.DashboardHandler
	Reviews   *handler.ReviewHandler
	Streams   *handler.StreamHandler
	Roles     auth.RoleChecker
}

func New(h Handlers) http.Handler {
	r := gin.New()
	r.Use(gin.Recovery())
	r.GET(pathHealth, gin.WrapF(handler.Health))
	r.GET(pathReady, gin.WrapF(handler.Ready))
	r.GET(pathSwagger, func(c *gin.Context) { c.Redirect(http.StatusFound, pathSwagger+"/") })
	r.GET(pathSwagger+"/*any", func(c *gin.Context) {
		if strings.TrimPrefix(c.Param("any"), "/") == "openapi.json" {
			c.Data(http.StatusOK, "application/json", api.OpenAPISpec)
			return
		}
		if strings.TrimPrefix(c.Param("any"), "/") == "" {
			c.Request.URL.Path = pathSwagger + "/index.html"
			c.Request.RequestURI = pathSwagger + "/index.html"
		}
		ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/openapi.json"))(c)
	})

	// Public site surfaces: forms and the embeddable widget.
	widget := r.Group("/widget")
	{
		widget.GET("/reviews", h.Widget.Reviews)
		widget.GET("/reviews/stream", h.Widget.ReviewsStream)

		chat := widget.Group("/chat", handler.RequireIdentity())
		{
			chat.POST("/enter", h.Widget.ChatEnter)
			chat.POST("/leave", h.Widget.ChatLeave)
			chat.POST("/focus", h.Widget.ChatFocus)
			chat.POST("/messages", h.Widget.ChatSend)
		}
	}
	r.POST("/forms/quote", h.Inbox.CreateQuote)
	r.POST("/forms/contact", h.Inbox.CreateContact)
	r.GET("/api/v1/reviews", h.Reviews.List)

	v1 := r.Group("/api/v1", handler.RequireIdentity())
	{
		v1.POST("/tickets", h.Tickets.Create)
		v1.GET("/tickets", h.Tickets.List)
		v1.GET("/tickets/:id", h.Tickets.Get)
		v1.GET("/tickets/:id/messages", h.Tickets.Messages)
		v1.POST("/tickets/:id/messages", h.Tickets.Reply)

		v1.GET("/streams/tickets", h.Streams.Tickets)
		v1.GET("/streams/tickets/:id/messages", h.Streams.TicketMessages)
	}

	admin := r.Group("/api/v1/admin", handler.RequireAdmin(h.Roles))
	{
		admin.PUT("/tickets/:id/status", h.Tickets.UpdateStatus)
		admin.DELETE("/tickets/:id", h.Tickets.Delete)

		admin.GET("/chat/sessions", h.Chat.OnlineSessions)
		admin.GET("/chat/sessions/:id/messages", h.Chat.Messages)
		admin.POST("/chat/sessions/:id/messages", h.Chat.Send)

		admin.GET("/quotes", h.Inbox.ListQuotes)
		admin.PUT("/quotes/:id/status", h.Inbox.UpdateQuoteStatus)
		admin.DELETE("/quotes/:id", h.Inbox.DeleteQuote)
		admin.GET("/quotes/:id/export", h.Inbox.ExportQuote)
		admin.GET("/contacts", h.Inbox.ListContacts)
		admin.PUT("/contacts/:id/status", h.Inbox.UpdateContactStatus)
		admin.DELETE("/contacts/:id", h.Inbox.DeleteContact)
		admin.GET("/contacts/:id/export", h.Inbox.ExportContact)

		admin.GET("/dashboard/stats", h.Dashboard.Stats)
		admin.GET("/dashboard/activity", h.Dashboard.Activity)

		admin.GET("/streams/chat/sessions", h.Streams.ChatSessions)
		admin.GET("/streams/chat/sessions/:id/messages", h.Streams.ChatMessages)
	}

	return r
}
