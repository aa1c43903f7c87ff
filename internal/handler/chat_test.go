package handler

import (
	"net/http"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/techfix-solutions/desk-service/internal/model"
)

func newChatRouter(chat *fakeChat, users *fakeUsers) *gin.Engine {
	r := gin.New()
	h := NewChatHandler(chat, users, &fakeProducer{})
	admin := r.Group("/api/v1/admin", RequireAdmin(users))
	{
		admin.GET("/chat/sessions", h.OnlineSessions)
		admin.GET("/chat/sessions/:id/messages", h.Messages)
		admin.POST("/chat/sessions/:id/messages", h.Send)
	}
	return r
}

func TestOnlineSessionsListsOnlyOnline(t *testing.T) {
	chat := newFakeChat()
	chat.sessions["s1"] = &model.ChatSession{ID: "s1", IsOnline: true}
	chat.sessions["s2"] = &model.ChatSession{ID: "s2", IsOnline: false}
	users := &fakeUsers{admins: map[string]bool{"boss": true}}
	r := newChatRouter(chat, users)

	w := doJSON(r, http.MethodGet, "/api/v1/admin/chat/sessions", "boss", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	body := w.Body.String()
	if !strings.Contains(body, `"total":1`) || !strings.Contains(body, "s1") {
		t.Fatalf("session list = %s", body)
	}
}

func TestAdminChatSendIsAdminMessage(t *testing.T) {
	chat := newFakeChat()
	chat.sessions["s1"] = &model.ChatSession{ID: "s1"}
	users := &fakeUsers{admins: map[string]bool{"boss": true}}
	r := newChatRouter(chat, users)

	w := doJSON(r, http.MethodPost, "/api/v1/admin/chat/sessions/s1/messages", "boss", `{"body":"Bonjour, comment puis-je aider?"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	if len(chat.appends) != 1 || !chat.appends[0].author.IsAdmin {
		t.Fatalf("admin reply not recorded as admin: %+v", chat.appends)
	}
}

func TestAdminChatSendUnknownSession(t *testing.T) {
	users := &fakeUsers{admins: map[string]bool{"boss": true}}
	r := newChatRouter(newFakeChat(), users)

	w := doJSON(r, http.MethodPost, "/api/v1/admin/chat/sessions/ghost/messages", "boss", `{"body":"bonjour"}`)
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
}
