package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/techfix-solutions/desk-service/internal/errs"
	"github.com/techfix-solutions/desk-service/internal/model"
	"github.com/techfix-solutions/desk-service/internal/notify"
	"github.com/techfix-solutions/desk-service/internal/render"
)

type fakeInbox struct {
	quotes   map[string]*model.QuoteRequest
	contacts map[string]*model.ContactMessage
	deleted  []string
}

func newFakeInbox() *fakeInbox {
	return &fakeInbox{
		quotes:   make(map[string]*model.QuoteRequest),
		contacts: make(map[string]*model.ContactMessage),
	}
}

func (f *fakeInbox) CreateQuote(_ context.Context, q *model.QuoteRequest) error {
	q.ID = "q-new"
	q.Status = model.InboxStatusNew
	f.quotes[q.ID] = q
	return nil
}

func (f *fakeInbox) CreateContact(_ context.Context, c *model.ContactMessage) error {
	c.ID = "c-new"
	c.Status = model.InboxStatusNew
	f.contacts[c.ID] = c
	return nil
}

func (f *fakeInbox) ListQuotes(_ context.Context, _ int) ([]model.QuoteRequest, error) {
	var out []model.QuoteRequest
	for _, q := range f.quotes {
		out = append(out, *q)
	}
	return out, nil
}

func (f *fakeInbox) ListContacts(_ context.Context, _ int) ([]model.ContactMessage, error) {
	var out []model.ContactMessage
	for _, c := range f.contacts {
		out = append(out, *c)
	}
	return out, nil
}

func (f *fakeInbox) GetQuote(_ context.Context, id string) (*model.QuoteRequest, error) {
	q, ok := f.quotes[id]
	if !ok {
		return nil, errs.ErrQuoteNotFound
	}
	return q, nil
}

func (f *fakeInbox) GetContact(_ context.Context, id string) (*model.ContactMessage, error) {
	c, ok := f.contacts[id]
	if !ok {
		return nil, errs.ErrContactNotFound
	}
	return c, nil
}

func (f *fakeInbox) UpdateQuoteStatus(_ context.Context, id string, status model.InboxStatus) error {
	q, ok := f.quotes[id]
	if !ok {
		return errs.ErrQuoteNotFound
	}
	q.Status = status
	return nil
}

func (f *fakeInbox) UpdateContactStatus(_ context.Context, id string, status model.InboxStatus) error {
	c, ok := f.contacts[id]
	if !ok {
		return errs.ErrContactNotFound
	}
	c.Status = status
	return nil
}

func (f *fakeInbox) DeleteQuote(_ context.Context, id string) error {
	if _, ok := f.quotes[id]; !ok {
		return errs.ErrQuoteNotFound
	}
	delete(f.quotes, id)
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeInbox) DeleteContact(_ context.Context, id string) error {
	if _, ok := f.contacts[id]; !ok {
		return errs.ErrContactNotFound
	}
	delete(f.contacts, id)
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeInbox) ExportQuote(ctx context.Context, id string) (string, error) {
	q, err := f.GetQuote(ctx, id)
	if err != nil {
		return "", err
	}
	return "DEMANDE DE DEVIS\n" + q.Name, nil
}

func (f *fakeInbox) ExportContact(ctx context.Context, id string) (string, error) {
	c, err := f.GetContact(ctx, id)
	if err != nil {
		return "", err
	}
	return "MESSAGE DE CONTACT\n" + c.Name, nil
}

func (f *fakeInbox) CountNew(context.Context) (int64, int64, error) {
	return int64(len(f.quotes)), int64(len(f.contacts)), nil
}

func (f *fakeInbox) RecentActivity(context.Context) ([]render.ActivityItem, error) {
	return nil, nil
}

func newInboxRouter(inbox *fakeInbox, notifier *notify.Client, prod *fakeProducer, users *fakeUsers) *gin.Engine {
	r := gin.New()
	h := NewInboxHandler(inbox, notifier, prod)
	r.POST("/forms/quote", h.CreateQuote)
	r.POST("/forms/contact", h.CreateContact)
	admin := r.Group("/api/v1/admin", RequireAdmin(users))
	{
		admin.GET("/quotes", h.ListQuotes)
		admin.PUT("/quotes/:id/status", h.UpdateQuoteStatus)
		admin.DELETE("/quotes/:id", h.DeleteQuote)
		admin.GET("/quotes/:id/export", h.ExportQuote)
		admin.GET("/contacts", h.ListContacts)
		admin.PUT("/contacts/:id/status", h.UpdateContactStatus)
		admin.DELETE("/contacts/:id", h.DeleteContact)
		admin.GET("/contacts/:id/export", h.ExportContact)
	}
	return r
}

func TestCreateQuotePublicForm(t *testing.T) {
	inbox := newFakeInbox()
	r := newInboxRouter(inbox, notify.NewClient(""), &fakeProducer{}, &fakeUsers{})

	body := `{"name":"Marie","email":"m@example.com","phone":"0601020304","service":"Réparation écran","description":"Écran fissuré"}`
	w := doJSON(r, http.MethodPost, "/forms/quote", "", body)
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	q := inbox.quotes["q-new"]
	if q == nil || q.Status != model.InboxStatusNew {
		t.Fatalf("quote not stored as nouveau: %+v", q)
	}
}

func TestCreateQuoteMissingFields(t *testing.T) {
	inbox := newFakeInbox()
	r := newInboxRouter(inbox, notify.NewClient(""), &fakeProducer{}, &fakeUsers{})

	w := doJSON(r, http.MethodPost, "/forms/quote", "", `{"name":"Marie"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	if len(inbox.quotes) != 0 {
		t.Fatalf("incomplete form stored a quote")
	}
}

func TestCreateContactNotifiesWebhook(t *testing.T) {
	received := make(chan notify.InboxPayload, 1)
	hook := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var p notify.InboxPayload
		_ = json.NewDecoder(r.Body).Decode(&p)
		received <- p
		w.WriteHeader(http.StatusNoContent)
	}))
	defer hook.Close()

	inbox := newFakeInbox()
	r := newInboxRouter(inbox, notify.NewClient(hook.URL), &fakeProducer{}, &fakeUsers{})

	body := `{"name":"Paul","email":"p@example.com","subject":"Question","body":"Bonjour, êtes-vous ouverts samedi?"}`
	w := doJSON(r, http.MethodPost, "/forms/contact", "", body)
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}

	select {
	case p := <-received:
		if p.Kind != "contact" || p.Name != "Paul" {
			t.Fatalf("webhook payload = %+v", p)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("webhook never called")
	}
}

func TestUpdateQuoteStatus(t *testing.T) {
	inbox := newFakeInbox()
	inbox.quotes["q1"] = &model.QuoteRequest{ID: "q1", Status: model.InboxStatusNew}
	users := &fakeUsers{admins: map[string]bool{"boss": true}}
	r := newInboxRouter(inbox, notify.NewClient(""), &fakeProducer{}, users)

	w := doJSON(r, http.MethodPut, "/api/v1/admin/quotes/q1/status", "boss", `{"status":"traite"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	if inbox.quotes["q1"].Status != model.InboxStatusHandled {
		t.Fatalf("quote status = %q", inbox.quotes["q1"].Status)
	}

	w = doJSON(r, http.MethodPut, "/api/v1/admin/quotes/q1/status", "boss", `{"status":"archive"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("invalid status accepted: %d", w.Code)
	}
}

func TestDeleteQuoteGuarded(t *testing.T) {
	inbox := newFakeInbox()
	inbox.quotes["q1"] = &model.QuoteRequest{ID: "q1"}
	users := &fakeUsers{admins: map[string]bool{"boss": true}}
	r := newInboxRouter(inbox, notify.NewClient(""), &fakeProducer{}, users)

	w := doJSON(r, http.MethodDelete, "/api/v1/admin/quotes/q1?confirm=yes", "boss", "")
	if w.Code != http.StatusPreconditionRequired {
		t.Fatalf("partial confirmation: status = %d, want 428", w.Code)
	}
	if len(inbox.deleted) != 0 {
		t.Fatalf("delete ran on partial confirmation")
	}

	w = doJSON(r, http.MethodDelete, "/api/v1/admin/quotes/q1?confirm=yes&confirm_final=yes", "boss", "")
	if w.Code != http.StatusOK {
		t.Fatalf("full confirmation: status = %d", w.Code)
	}
	if len(inbox.deleted) != 1 {
		t.Fatalf("deleted = %v", inbox.deleted)
	}
}

func TestExportQuotePlainText(t *testing.T) {
	inbox := newFakeInbox()
	inbox.quotes["q1"] = &model.QuoteRequest{ID: "q1", Name: "Marie"}
	users := &fakeUsers{admins: map[string]bool{"boss": true}}
	r := newInboxRouter(inbox, notify.NewClient(""), &fakeProducer{}, users)

	w := doJSON(r, http.MethodGet, "/api/v1/admin/quotes/q1/export", "boss", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/plain") {
		t.Fatalf("content type = %q", ct)
	}
	if !strings.Contains(w.Body.String(), "DEMANDE DE DEVIS") {
		t.Fatalf("export body = %s", w.Body.String())
	}
}
