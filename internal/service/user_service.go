package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/techfix-solutions/desk-service/internal/errs"
	"github.com/techfix-solutions/desk-service/internal/model"
	"github.com/techfix-solutions/desk-service/internal/store"
	"gorm.io/gorm"
)

type UserServicer interface {
	Get(ctx context.Context, id string) (*model.UserProfile, error)
	EnsureProfile(ctx context.Context, id, email string) (*model.UserProfile, error)
	IsAdmin(ctx context.Context, id string) (bool, error)
}

type UserService struct {
	db  *gorm.DB
	hub *store.Hub
}

func NewUserService(db *gorm.DB, hub *store.Hub) *UserService {
	return &UserService{db: db, hub: hub}
}

func (s *UserService) Get(ctx context.Context, id string) (*model.UserProfile, error) {
	var u model.UserProfile
	if err := s.db.WithContext(ctx).First(&u, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

// EnsureProfile creates a profile lazily on first sign-in. The display
// name defaults to the local part of the email. New profiles are never
// admins.
func (s *UserService) EnsureProfile(ctx context.Context, id, email string) (*model.UserProfile, error) {
	u, err := s.Get(ctx, id)
	if err == nil {
		return u, nil
	}
	if !errors.Is(err, errs.ErrUserNotFound) {
		return nil, err
	}
	name := email
	if at := strings.Index(email, "@"); at > 0 {
		name = email[:at]
	}
	u = &model.UserProfile{
		ID:        id,
		Email:     email,
		Name:      name,
		IsAdmin:   false,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.db.WithContext(ctx).Create(u).Error; err != nil {
		return nil, err
	}
	s.hub.Notify(model.CollectionUsers)
	return u, nil
}

// IsAdmin is the role check: a lookup of the profile's is_admin flag.
// Unknown users are not admins.
func (s *UserService) IsAdmin(ctx context.Context, id string) (bool, error) {
	u, err := s.Get(ctx, id)
	if err != nil {
		if errors.Is(err, errs.ErrUserNotFound) {
			return false, nil
		}
		return false, err
	}
	return u.IsAdmin, nil
}
