// Package presence tracks chat participants: online on entry, offline
// best-effort on page unload, unread reset on window focus.
package presence

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/techfix-solutions/desk-service/internal/errs"
	"github.com/techfix-solutions/desk-service/internal/model"
)

// WelcomeMessage is the one system-authored message emitted when a
// session is first created.
const WelcomeMessage = "Bonjour! Un membre de notre équipe vous répondra dans quelques instants."

// SessionStore is the slice of the chat service the tracker needs.
type SessionStore interface {
	GetSession(ctx context.Context, id string) (*model.ChatSession, error)
	CreateSession(ctx context.Context, s *model.ChatSession) error
	SetOnline(ctx context.Context, id string, online bool) error
	ResetUnread(ctx context.Context, id string) error
	AppendMessage(ctx context.Context, m *model.ChatMessage) error
}

type Participant struct {
	ID    string
	Name  string
	Email string
}

type Tracker struct {
	sessions SessionStore
}

func NewTracker(sessions SessionStore) *Tracker {
	return &Tracker{sessions: sessions}
}

// Enter marks the participant's session online, creating it on first
// contact with a system welcome message and a zero unread counter.
func (t *Tracker) Enter(ctx context.Context, p Participant) (*model.ChatSession, error) {
	s, err := t.sessions.GetSession(ctx, p.ID)
	if err == nil {
		if err := t.sessions.SetOnline(ctx, p.ID, true); err != nil {
			return nil, err
		}
		s.IsOnline = true
		s.LastSeen = time.Now().UTC()
		return s, nil
	}
	if !errors.Is(err, errs.ErrSessionNotFound) {
		return nil, err
	}

	now := time.Now().UTC()
	s = &model.ChatSession{
		ID:          p.ID,
		UserName:    p.Name,
		UserEmail:   p.Email,
		IsOnline:    true,
		LastSeen:    now,
		UnreadCount: 0,
		CreatedAt:   now,
	}
	if err := t.sessions.CreateSession(ctx, s); err != nil {
		return nil, err
	}
	welcome := &model.ChatMessage{
		ID:        uuid.NewString(),
		SessionID: p.ID,
		UserID:    "system",
		UserName:  "TechFix",
		Body:      WelcomeMessage,
		IsAdmin:   true,
		CreatedAt: now,
	}
	if err := t.sessions.AppendMessage(ctx, welcome); err != nil {
		return nil, err
	}
	return s, nil
}

// Leave is the best-effort unload write: the page is closing, so a
// failure is logged and swallowed.
func (t *Tracker) Leave(ctx context.Context, id string) {
	if err := t.sessions.SetOnline(ctx, id, false); err != nil {
		log.Printf("presence: offline write for %s: %v", id, err)
	}
}

// Focus resets the unread counter while the thread is open and focused.
func (t *Tracker) Focus(ctx context.Context, id string) error {
	return t.sessions.ResetUnread(ctx, id)
}
