package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/techfix-solutions/desk-service/internal/compose"
	"github.com/techfix-solutions/desk-service/internal/errs"
	"github.com/techfix-solutions/desk-service/internal/model"
	"github.com/techfix-solutions/desk-service/internal/store"
	"gorm.io/gorm"
)

// First system reply posted into every new ticket.
const ticketWelcome = "Bonjour! Merci pour votre message. Un membre de notre équipe vous répondra dans les plus brefs délais."

// TicketServicer is the interface handlers depend on.
type TicketServicer interface {
	Create(ctx context.Context, userID, userName, title, description string, priority model.TicketPriority) (*model.Ticket, error)
	GetByID(ctx context.Context, id string) (*model.Ticket, error)
	ListByUser(ctx context.Context, userID string) ([]model.Ticket, error)
	ListAll(ctx context.Context, limit int) ([]model.Ticket, error)
	Messages(ctx context.Context, ticketID string) ([]model.TicketMessage, error)
	UpdateStatus(ctx context.Context, id string, status model.TicketStatus) error
	Delete(ctx context.Context, id string) error
	CountOpen(ctx context.Context) (int64, error)
	Thread(ticketID string) compose.Thread
}

type TicketService struct {
	db  *gorm.DB
	hub *store.Hub
}

func NewTicketService(db *gorm.DB, hub *store.Hub) *TicketService {
	return &TicketService{db: db, hub: hub}
}

// Create opens a ticket with its first message (the description, by the
// customer) and a system welcome reply.
func (s *TicketService) Create(ctx context.Context, userID, userName, title, description string, priority model.TicketPriority) (*model.Ticket, error) {
	if !priority.Valid() {
		priority = model.PriorityNormal
	}
	now := time.Now().UTC()
	t := &model.Ticket{
		ID:          uuid.NewString(),
		UserID:      userID,
		UserName:    userName,
		Title:       title,
		Description: description,
		Status:      model.TicketStatusOpen,
		Priority:    priority,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.db.WithContext(ctx).Create(t).Error; err != nil {
		return nil, err
	}
	first := &model.TicketMessage{
		ID:        uuid.NewString(),
		TicketID:  t.ID,
		UserID:    userID,
		UserName:  userName,
		Body:      description,
		IsAdmin:   false,
		CreatedAt: now,
	}
	welcome := &model.TicketMessage{
		ID:        uuid.NewString(),
		TicketID:  t.ID,
		UserID:    "system",
		UserName:  "TechFix Support",
		Body:      ticketWelcome,
		IsAdmin:   true,
		CreatedAt: now,
	}
	if err := s.db.WithContext(ctx).Create(first).Error; err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Create(welcome).Error; err != nil {
		return nil, err
	}
	s.hub.Notify(model.CollectionTickets)
	s.hub.Notify(model.CollectionTicketMessages)
	return t, nil
}

func (s *TicketService) GetByID(ctx context.Context, id string) (*model.Ticket, error) {
	var t model.Ticket
	if err := s.db.WithContext(ctx).First(&t, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.ErrTicketNotFound
		}
		return nil, err
	}
	return &t, nil
}

// ListByUser returns the owner's tickets sorted client-side by
// updated_at descending; the owner-filtered query itself carries no
// order guarantee.
func (s *TicketService) ListByUser(ctx context.Context, userID string) ([]model.Ticket, error) {
	var items []model.Ticket
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).Find(&items).Error; err != nil {
		return nil, err
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].UpdatedAt.After(items[j].UpdatedAt)
	})
	return items, nil
}

func (s *TicketService) ListAll(ctx context.Context, limit int) ([]model.Ticket, error) {
	var items []model.Ticket
	tx := s.db.WithContext(ctx).Order("updated_at DESC")
	if limit > 0 {
		tx = tx.Limit(limit)
	}
	if err := tx.Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *TicketService) Messages(ctx context.Context, ticketID string) ([]model.TicketMessage, error) {
	var items []model.TicketMessage
	err := s.db.WithContext(ctx).
		Where("ticket_id = ?", ticketID).
		Order("created_at ASC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

// UpdateStatus sets the status and bumps updated_at.
func (s *TicketService) UpdateStatus(ctx context.Context, id string, status model.TicketStatus) error {
	res := s.db.WithContext(ctx).Model(&model.Ticket{}).Where("id = ?", id).Updates(map[string]interface{}{
		"status":     status,
		"updated_at": time.Now().UTC(),
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return errs.ErrTicketNotFound
	}
	s.hub.Notify(model.CollectionTickets)
	return nil
}

// Delete removes the ticket's messages first, then the ticket. The two
// deletes are not atomic; a partial failure is reported as-is and not
// rolled back.
func (s *TicketService) Delete(ctx context.Context, id string) error {
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Where("ticket_id = ?", id).Delete(&model.TicketMessage{}).Error; err != nil {
		return fmt.Errorf("delete ticket messages: %w", err)
	}
	s.hub.Notify(model.CollectionTicketMessages)
	if err := s.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Ticket{}).Error; err != nil {
		return fmt.Errorf("delete ticket: %w", err)
	}
	s.hub.Notify(model.CollectionTickets)
	return nil
}

func (s *TicketService) CountOpen(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&model.Ticket{}).
		Where("status IN ?", []model.TicketStatus{model.TicketStatusOpen, model.TicketStatusInProgress}).
		Count(&n).Error
	return n, err
}

// Thread adapts one ticket to the composer contract: a reply appends a
// message and bumps updated_at; an admin reply additionally moves the
// ticket to en_cours.
func (s *TicketService) Thread(ticketID string) compose.Thread {
	return &ticketThread{svc: s, ticketID: ticketID}
}

type ticketThread struct {
	svc      *TicketService
	ticketID string
}

func (t *ticketThread) Append(ctx context.Context, author compose.Author, body string) error {
	if _, err := t.svc.GetByID(ctx, t.ticketID); err != nil {
		return err
	}
	now := time.Now().UTC()
	msg := &model.TicketMessage{
		ID:        uuid.NewString(),
		TicketID:  t.ticketID,
		UserID:    author.ID,
		UserName:  author.Name,
		Body:      body,
		IsAdmin:   author.IsAdmin,
		CreatedAt: now,
	}
	if err := t.svc.db.WithContext(ctx).Create(msg).Error; err != nil {
		return err
	}
	changes := map[string]interface{}{"updated_at": now}
	if author.IsAdmin {
		changes["status"] = model.TicketStatusInProgress
	}
	if err := t.svc.db.WithContext(ctx).Model(&model.Ticket{}).Where("id = ?", t.ticketID).Updates(changes).Error; err != nil {
		return err
	}
	t.svc.hub.Notify(model.CollectionTicketMessages)
	t.svc.hub.Notify(model.CollectionTickets)
	return nil
}
