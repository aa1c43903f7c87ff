package service

import (
	"context"

	"github.com/techfix-solutions/desk-service/internal/model"
	"github.com/techfix-solutions/desk-service/internal/store"
	"gorm.io/gorm"
)

type ReviewServicer interface {
	ListApproved(ctx context.Context) ([]model.Review, error)
}

type ReviewService struct {
	db  *gorm.DB
	hub *store.Hub
}

func NewReviewService(db *gorm.DB, hub *store.Hub) *ReviewService {
	return &ReviewService{db: db, hub: hub}
}

// ListApproved returns only approved reviews, newest first. Unapproved
// reviews never reach a render.
func (s *ReviewService) ListApproved(ctx context.Context) ([]model.Review, error) {
	var items []model.Review
	err := s.db.WithContext(ctx).
		Where("approved = ?", true).
		Order("created_at DESC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}
