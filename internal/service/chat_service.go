package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/techfix-solutions/desk-service/internal/compose"
	"github.com/techfix-solutions/desk-service/internal/errs"
	"github.com/techfix-solutions/desk-service/internal/model"
	"github.com/techfix-solutions/desk-service/internal/store"
	"gorm.io/gorm"
)

// ChatServicer is the interface handlers depend on. It also satisfies
// presence.SessionStore.
type ChatServicer interface {
	GetSession(ctx context.Context, id string) (*model.ChatSession, error)
	CreateSession(ctx context.Context, s *model.ChatSession) error
	SetOnline(ctx context.Context, id string, online bool) error
	ResetUnread(ctx context.Context, id string) error
	AppendMessage(ctx context.Context, m *model.ChatMessage) error
	OnlineSessions(ctx context.Context) ([]model.ChatSession, error)
	Messages(ctx context.Context, sessionID string) ([]model.ChatMessage, error)
	CountOnline(ctx context.Context) (int64, error)
	Thread(sessionID string) compose.Thread
}

type ChatService struct {
	db  *gorm.DB
	hub *store.Hub
}

func NewChatService(db *gorm.DB, hub *store.Hub) *ChatService {
	return &ChatService{db: db, hub: hub}
}

func (s *ChatService) GetSession(ctx context.Context, id string) (*model.ChatSession, error) {
	var sess model.ChatSession
	if err := s.db.WithContext(ctx).First(&sess, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.ErrSessionNotFound
		}
		return nil, err
	}
	return &sess, nil
}

func (s *ChatService) CreateSession(ctx context.Context, sess *model.ChatSession) error {
	if err := s.db.WithContext(ctx).Create(sess).Error; err != nil {
		return err
	}
	s.hub.Notify(model.CollectionChatSessions)
	return nil
}

// SetOnline flips the online flag and refreshes last_seen.
func (s *ChatService) SetOnline(ctx context.Context, id string, online bool) error {
	res := s.db.WithContext(ctx).Model(&model.ChatSession{}).Where("id = ?", id).Updates(map[string]interface{}{
		"is_online": online,
		"last_seen": time.Now().UTC(),
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return errs.ErrSessionNotFound
	}
	s.hub.Notify(model.CollectionChatSessions)
	return nil
}

func (s *ChatService) ResetUnread(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Model(&model.ChatSession{}).Where("id = ?", id).Update("unread_count", 0)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return errs.ErrSessionNotFound
	}
	s.hub.Notify(model.CollectionChatSessions)
	return nil
}

// AppendMessage persists one chat message and bumps the session's
// last_seen. A customer message also increments the session's unread
// counter for the back-office list.
func (s *ChatService) AppendMessage(ctx context.Context, m *model.ChatMessage) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now().UTC()
	}
	if err := s.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	changes := map[string]interface{}{"last_seen": time.Now().UTC()}
	if err := s.db.WithContext(ctx).Model(&model.ChatSession{}).Where("id = ?", m.SessionID).Updates(changes).Error; err != nil {
		return err
	}
	if !m.IsAdmin && m.UserID != "system" {
		err := s.db.WithContext(ctx).Model(&model.ChatSession{}).Where("id = ?", m.SessionID).
			Update("unread_count", gorm.Expr("unread_count + 1")).Error
		if err != nil {
			return err
		}
	}
	s.hub.Notify(model.CollectionChatMessages)
	s.hub.Notify(model.CollectionChatSessions)
	return nil
}

func (s *ChatService) OnlineSessions(ctx context.Context) ([]model.ChatSession, error) {
	var items []model.ChatSession
	err := s.db.WithContext(ctx).
		Where("is_online = ?", true).
		Order("last_seen DESC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (s *ChatService) Messages(ctx context.Context, sessionID string) ([]model.ChatMessage, error) {
	var items []model.ChatMessage
	err := s.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("created_at ASC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (s *ChatService) CountOnline(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&model.ChatSession{}).Where("is_online = ?", true).Count(&n).Error
	return n, err
}

// Thread adapts one session to the composer contract.
func (s *ChatService) Thread(sessionID string) compose.Thread {
	return &chatThread{svc: s, sessionID: sessionID}
}

type chatThread struct {
	svc       *ChatService
	sessionID string
}

func (t *chatThread) Append(ctx context.Context, author compose.Author, body string) error {
	if _, err := t.svc.GetSession(ctx, t.sessionID); err != nil {
		return err
	}
	return t.svc.AppendMessage(ctx, &model.ChatMessage{
		SessionID: t.sessionID,
		UserID:    author.ID,
		UserName:  author.Name,
		Body:      body,
		IsAdmin:   author.IsAdmin,
	})
}
