package presence

import (
	"context"
	"errors"
	"testing"

	"github.com/techfix-solutions/desk-service/internal/errs"
	"github.com/techfix-solutions/desk-service/internal/model"
)

type fakeSessions struct {
	sessions  map[string]*model.ChatSession
	messages  []*model.ChatMessage
	onlineErr error
}

func newFakeSessions() *fakeSessions {
	return &fakeSessions{sessions: make(map[string]*model.ChatSession)}
}

func (f *fakeSessions) GetSession(_ context.Context, id string) (*model.ChatSession, error) {
	s, ok := f.sessions[id]
	if !ok {
		return nil, errs.ErrSessionNotFound
	}
	cp := *s
	return &cp, nil
}

func (f *fakeSessions) CreateSession(_ context.Context, s *model.ChatSession) error {
	f.sessions[s.ID] = s
	return nil
}

func (f *fakeSessions) SetOnline(_ context.Context, id string, online bool) error {
	if f.onlineErr != nil {
		return f.onlineErr
	}
	s, ok := f.sessions[id]
	if !ok {
		return errs.ErrSessionNotFound
	}
	s.IsOnline = online
	return nil
}

func (f *fakeSessions) ResetUnread(_ context.Context, id string) error {
	s, ok := f.sessions[id]
	if !ok {
		return errs.ErrSessionNotFound
	}
	s.UnreadCount = 0
	return nil
}

func (f *fakeSessions) AppendMessage(_ context.Context, m *model.ChatMessage) error {
	f.messages = append(f.messages, m)
	return nil
}

func TestEnterCreatesSessionWithWelcome(t *testing.T) {
	store := newFakeSessions()
	tr := NewTracker(store)

	s, err := tr.Enter(context.Background(), Participant{ID: "u1", Name: "Lea", Email: "lea@example.com"})
	if err != nil {
		t.Fatalf("enter: %v", err)
	}
	if !s.IsOnline {
		t.Fatalf("new session not online")
	}
	if s.UnreadCount != 0 {
		t.Fatalf("new session unread = %d, want 0", s.UnreadCount)
	}
	if len(store.messages) != 1 {
		t.Fatalf("expected one welcome message, got %d", len(store.messages))
	}
	w := store.messages[0]
	if w.UserID != "system" || !w.IsAdmin || w.Body != WelcomeMessage {
		t.Fatalf("unexpected welcome message: %+v", w)
	}
}

func TestEnterExistingSessionGoesOnlineWithoutWelcome(t *testing.T) {
	store := newFakeSessions()
	store.sessions["u1"] = &model.ChatSession{ID: "u1", UserName: "Lea", IsOnline: false, UnreadCount: 3}
	tr := NewTracker(store)

	s, err := tr.Enter(context.Background(), Participant{ID: "u1", Name: "Lea"})
	if err != nil {
		t.Fatalf("enter: %v", err)
	}
	if !s.IsOnline {
		t.Fatalf("re-entered session not marked online")
	}
	if len(store.messages) != 0 {
		t.Fatalf("re-entry produced %d welcome messages", len(store.messages))
	}
	if store.sessions["u1"].UnreadCount != 3 {
		t.Fatalf("re-entry changed the unread counter")
	}
}

func TestLeaveSwallowsFailures(t *testing.T) {
	store := newFakeSessions()
	store.onlineErr = errors.New("connection reset")
	tr := NewTracker(store)
	// Must not panic or propagate: the page is already unloading.
	tr.Leave(context.Background(), "u1")
}

func TestFocusResetsUnread(t *testing.T) {
	store := newFakeSessions()
	store.sessions["u1"] = &model.ChatSession{ID: "u1", UnreadCount: 7}
	tr := NewTracker(store)

	if err := tr.Focus(context.Background(), "u1"); err != nil {
		t.Fatalf("focus: %v", err)
	}
	if store.sessions["u1"].UnreadCount != 0 {
		t.Fatalf("unread not reset: %d", store.sessions["u1"].UnreadCount)
	}
}

func TestFocusUnknownSession(t *testing.T) {
	tr := NewTracker(newFakeSessions())
	if err := tr.Focus(context.Background(), "ghost"); !errors.Is(err, errs.ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}
