package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/facesocial/facesocial-backend/internal/platform/logger"
	"github.com/facesocial/facesocial-backend/internal/types"
)

type UserRepo interface {
	Create(ctx context.Context, tx *gorm.DB, users []*types.User) ([]*types.User, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, userIDs []uuid.UUID) ([]*types.User, error)
	GetByUsernames(ctx context.Context, tx *gorm.DB, usernames []string) ([]*types.User, error)
	UsernameExists(ctx context.Context, tx *gorm.DB, username string) (bool, error)
	EmailExists(ctx context.Context, tx *gorm.DB, email string) (bool, error)
	GetWithFaceEmbeddings(ctx context.Context, tx *gorm.DB) ([]*types.User, error)
	UpdatePreferredTheme(ctx context.Context, tx *gorm.DB, userID uuid.UUID, theme string) error
	UpdateAvatarPath(ctx context.Context, tx *gorm.DB, userID uuid.UUID, avatarPath string) error
}

type userRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUserRepo(db *gorm.DB, baseLog *logger.Logger) UserRepo {
	repoLog := baseLog.With("repo", "UserRepo")
	return &userRepo{db: db, log: repoLog}
}

func (ur *userRepo) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return ur.db
}

func (ur *userRepo) Create(ctx context.Context, tx *gorm.DB, users []*types.User) ([]*types.User, error) {
	if len(users) == 0 {
		return []*types.User{}, nil
	}
	if err := ur.conn(tx).WithContext(ctx).Create(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (ur *userRepo) GetByIDs(ctx context.Context, tx *gorm.DB, userIDs []uuid.UUID) ([]*types.User, error) {
	var results []*types.User
	if len(userIDs) == 0 {
		return results, nil
	}
	if err := ur.conn(tx).WithContext(ctx).
		Where("id IN ?", userIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (ur *userRepo) GetByUsernames(ctx context.Context, tx *gorm.DB, usernames []string) ([]*types.User, error) {
	var results []*types.User
	if len(usernames) == 0 {
		return results, nil
	}
	if err := ur.conn(tx).WithContext(ctx).
		Where("username IN ?", usernames).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (ur *userRepo) UsernameExists(ctx context.Context, tx *gorm.DB, username string) (bool, error) {
	var count int64
	if err := ur.conn(tx).WithContext(ctx).
		Model(&types.User{}).
		Where("username = ?", username).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (ur *userRepo) EmailExists(ctx context.Context, tx *gorm.DB, email string) (bool, error) {
	var count int64
	if err := ur.conn(tx).WithContext(ctx).
		Model(&types.User{}).
		Where("email = ?", email).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// GetWithFaceEmbeddings returns every user with at least one stored face
// embedding. The matching scan iterates this full set; the column itself is
// never filtered beyond null-ness.
func (ur *userRepo) GetWithFaceEmbeddings(ctx context.Context, tx *gorm.DB) ([]*types.User, error) {
	var results []*types.User
	if err := ur.conn(tx).WithContext(ctx).
		Where("face_embeddings IS NOT NULL").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (ur *userRepo) UpdatePreferredTheme(ctx context.Context, tx *gorm.DB, userID uuid.UUID, theme string) error {
	return ur.conn(tx).WithContext(ctx).
		Model(&types.User{}).
		Where("id = ?", userID).
		Update("preferred_theme", theme).Error
}

func (ur *userRepo) UpdateAvatarPath(ctx context.Context, tx *gorm.DB, userID uuid.UUID, avatarPath string) error {
	return ur.conn(tx).WithContext(ctx).
		Model(&types.User{}).
		Where("id = ?", userID).
		Update("avatar_path", avatarPath).Error
}
