package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/techfix-solutions/desk-service/internal/errs"
	"github.com/techfix-solutions/desk-service/internal/model"
	"github.com/techfix-solutions/desk-service/internal/render"
	"github.com/techfix-solutions/desk-service/internal/store"
	"gorm.io/gorm"
)

// InboxServicer covers the two public-form collections: quote requests
// and contact messages.
type InboxServicer interface {
	CreateQuote(ctx context.Context, q *model.QuoteRequest) error
	CreateContact(ctx context.Context, c *model.ContactMessage) error
	ListQuotes(ctx context.Context, limit int) ([]model.QuoteRequest, error)
	ListContacts(ctx context.Context, limit int) ([]model.ContactMessage, error)
	GetQuote(ctx context.Context, id string) (*model.QuoteRequest, error)
	GetContact(ctx context.Context, id string) (*model.ContactMessage, error)
	UpdateQuoteStatus(ctx context.Context, id string, status model.InboxStatus) error
	UpdateContactStatus(ctx context.Context, id string, status model.InboxStatus) error
	DeleteQuote(ctx context.Context, id string) error
	DeleteContact(ctx context.Context, id string) error
	ExportQuote(ctx context.Context, id string) (string, error)
	ExportContact(ctx context.Context, id string) (string, error)
	CountNew(ctx context.Context) (quotes int64, contacts int64, err error)
	RecentActivity(ctx context.Context) ([]render.ActivityItem, error)
}

type InboxService struct {
	db  *gorm.DB
	hub *store.Hub
}

func NewInboxService(db *gorm.DB, hub *store.Hub) *InboxService {
	return &InboxService{db: db, hub: hub}
}

func (s *InboxService) CreateQuote(ctx context.Context, q *model.QuoteRequest) error {
	now := time.Now().UTC()
	if q.ID == "" {
		q.ID = uuid.NewString()
	}
	q.Status = model.InboxStatusNew
	q.CreatedAt = now
	q.UpdatedAt = now
	if err := s.db.WithContext(ctx).Create(q).Error; err != nil {
		return err
	}
	s.hub.Notify(model.CollectionQuotes)
	return nil
}

func (s *InboxService) CreateContact(ctx context.Context, c *model.ContactMessage) error {
	now := time.Now().UTC()
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	c.Status = model.InboxStatusNew
	c.CreatedAt = now
	c.UpdatedAt = now
	if err := s.db.WithContext(ctx).Create(c).Error; err != nil {
		return err
	}
	s.hub.Notify(model.CollectionContacts)
	return nil
}

func (s *InboxService) ListQuotes(ctx context.Context, limit int) ([]model.QuoteRequest, error) {
	var items []model.QuoteRequest
	tx := s.db.WithContext(ctx).Order("created_at DESC")
	if limit > 0 {
		tx = tx.Limit(limit)
	}
	if err := tx.Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *InboxService) ListContacts(ctx context.Context, limit int) ([]model.ContactMessage, error) {
	var items []model.ContactMessage
	tx := s.db.WithContext(ctx).Order("created_at DESC")
	if limit > 0 {
		tx = tx.Limit(limit)
	}
	if err := tx.Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *InboxService) GetQuote(ctx context.Context, id string) (*model.QuoteRequest, error) {
	var q model.QuoteRequest
	if err := s.db.WithContext(ctx).First(&q, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.ErrQuoteNotFound
		}
		return nil, err
	}
	return &q, nil
}

func (s *InboxService) GetContact(ctx context.Context, id string) (*model.ContactMessage, error) {
	var c model.ContactMessage
	if err := s.db.WithContext(ctx).First(&c, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.ErrContactNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (s *InboxService) UpdateQuoteStatus(ctx context.Context, id string, status model.InboxStatus) error {
	res := s.db.WithContext(ctx).Model(&model.QuoteRequest{}).Where("id = ?", id).Updates(map[string]interface{}{
		"status":     status,
		"updated_at": time.Now().UTC(),
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return errs.ErrQuoteNotFound
	}
	s.hub.Notify(model.CollectionQuotes)
	return nil
}

func (s *InboxService) UpdateContactStatus(ctx context.Context, id string, status model.InboxStatus) error {
	res := s.db.WithContext(ctx).Model(&model.ContactMessage{}).Where("id = ?", id).Updates(map[string]interface{}{
		"status":     status,
		"updated_at": time.Now().UTC(),
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return errs.ErrContactNotFound
	}
	s.hub.Notify(model.CollectionContacts)
	return nil
}

func (s *InboxService) DeleteQuote(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Where("id = ?", id).Delete(&model.QuoteRequest{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return errs.ErrQuoteNotFound
	}
	s.hub.Notify(model.CollectionQuotes)
	return nil
}

func (s *InboxService) DeleteContact(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Where("id = ?", id).Delete(&model.ContactMessage{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return errs.ErrContactNotFound
	}
	s.hub.Notify(model.CollectionContacts)
	return nil
}

// ExportQuote renders a quote request as plain text for the clipboard.
func (s *InboxService) ExportQuote(ctx context.Context, id string) (string, error) {
	q, err := s.GetQuote(ctx, id)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	b.WriteString("DEMANDE DE DEVIS\n================\n")
	fmt.Fprintf(&b, "Nom: %s\nEmail: %s\nTéléphone: %s\n", q.Name, q.Email, q.Phone)
	if q.City != "" {
		fmt.Fprintf(&b, "Ville: %s\n", q.City)
	}
	fmt.Fprintf(&b, "\nService: %s\n", q.Service)
	if q.Urgency != "" {
		fmt.Fprintf(&b, "Urgence: %s\n", q.Urgency)
	}
	if q.Budget != "" {
		fmt.Fprintf(&b, "Budget: %s\n", q.Budget)
	}
	fmt.Fprintf(&b, "\nDescription:\n%s\n\nReçu le: %s", q.Description, render.FormatDate(q.CreatedAt))
	return b.String(), nil
}

func (s *InboxService) ExportContact(ctx context.Context, id string) (string, error) {
	c, err := s.GetContact(ctx, id)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	b.WriteString("MESSAGE DE CONTACT\n==================\n")
	fmt.Fprintf(&b, "Nom: %s\nEmail: %s\nTéléphone: %s\n", c.Name, c.Email, c.Phone)
	fmt.Fprintf(&b, "\nSujet: %s\n\nMessage:\n%s\n\nReçu le: %s", c.Subject, c.Body, render.FormatDate(c.CreatedAt))
	return b.String(), nil
}

func (s *InboxService) CountNew(ctx context.Context) (int64, int64, error) {
	var quotes, contacts int64
	if err := s.db.WithContext(ctx).Model(&model.QuoteRequest{}).Where("status = ?", model.InboxStatusNew).Count(&quotes).Error; err != nil {
		return 0, 0, err
	}
	if err := s.db.WithContext(ctx).Model(&model.ContactMessage{}).Where("status = ?", model.InboxStatusNew).Count(&contacts).Error; err != nil {
		return 0, 0, err
	}
	return quotes, contacts, nil
}

// RecentActivity merges the five newest quotes and contacts into one
// feed, newest first, capped at ten entries.
func (s *InboxService) RecentActivity(ctx context.Context) ([]render.ActivityItem, error) {
	quotes, err := s.ListQuotes(ctx, 5)
	if err != nil {
		return nil, err
	}
	contacts, err := s.ListContacts(ctx, 5)
	if err != nil {
		return nil, err
	}
	items := make([]render.ActivityItem, 0, len(quotes)+len(contacts))
	for _, q := range quotes {
		items = append(items, render.ActivityItem{
			Icon:   "📧",
			Text:   fmt.Sprintf("Nouveau devis de %s - %s", render.Escape(q.Name), render.Escape(q.Service)),
			Status: q.Status,
			Time:   q.CreatedAt,
		})
	}
	for _, c := range contacts {
		items = append(items, render.ActivityItem{
			Icon:   "💬",
			Text:   fmt.Sprintf("Message de %s - %s", render.Escape(c.Name), render.Escape(c.Subject)),
			Status: c.Status,
			Time:   c.CreatedAt,
		})
	}
	sort.SliceStable(items, func(i, j int) bool { return items[i].Time.After(items[j].Time) })
	if len(items) > 10 {
		items = items[:10]
	}
	return items, nil
}
