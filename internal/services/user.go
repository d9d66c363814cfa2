package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/facesocial/facesocial-backend/internal/platform/logger"
	"github.com/facesocial/facesocial-backend/internal/repos"
	"github.com/facesocial/facesocial-backend/internal/requestdata"
	"github.com/facesocial/facesocial-backend/internal/types"
)

type UserService interface {
	GetMe(ctx context.Context) (*types.User, error)
	UpdatePreferredTheme(ctx context.Context, theme string) (*types.User, error)
}

type userService struct {
	db       *gorm.DB
	log      *logger.Logger
	userRepo repos.UserRepo
}

var validThemePreferences = map[string]struct{}{
	"light":  {},
	"dark":   {},
	"system": {},
}

func NewUserService(db *gorm.DB, log *logger.Logger, userRepo repos.UserRepo) UserService {
	serviceLog := log.With("service", "UserService")
	return &userService{db: db, log: serviceLog, userRepo: userRepo}
}

func (us *userService) GetMe(ctx context.Context) (*types.User, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return nil, fmt.Errorf("request data not set in context")
	}
	found, err := us.userRepo.GetByIDs(ctx, nil, []uuid.UUID{rd.UserID})
	if err != nil {
		return nil, fmt.Errorf("error fetching user: %w", err)
	}
	if len(found) == 0 || found[0] == nil {
		return nil, fmt.Errorf("user does not exist")
	}
	return found[0], nil
}

func (us *userService) UpdatePreferredTheme(ctx context.Context, theme string) (*types.User, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return nil, fmt.Errorf("request data not set in context")
	}

	normalized := strings.ToLower(strings.TrimSpace(theme))
	if _, ok := validThemePreferences[normalized]; !ok {
		vErr := newValidationError()
		vErr.Fields["preferredTheme"] = "must be light, dark or system"
		return nil, vErr
	}

	var out *types.User
	if err := us.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := us.userRepo.UpdatePreferredTheme(ctx, tx, rd.UserID, normalized); err != nil {
			return err
		}
		found, err := us.userRepo.GetByIDs(ctx, tx, []uuid.UUID{rd.UserID})
		if err != nil || len(found) == 0 {
			return fmt.Errorf("failed to reload user")
		}
		out = found[0]
		return nil
	}); err != nil {
		return nil, err
	}
	return out, nil
}
