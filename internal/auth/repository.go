package auth

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

type Repository interface {
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByID(ctx context.Context, id uint) (*User, error)
	Save(ctx context.Context, u *User) error
	CountUsers(ctx context.Context) (int64, error)

	CreateRefreshToken(ctx context.Context, rt *RefreshToken) error
	FindRefreshToken(ctx context.Context, hash string) (*RefreshToken, error)
	RevokeRefreshToken(ctx context.Context, hash string, at time.Time) error
	RevokeFamily(ctx context.Context, familyID string, at time.Time) error
}

// ErrTokenRevoked is returned when a refresh token was already revoked,
// possibly by a concurrent rotation.
var ErrTokenRevoked = errors.New("refresh token already revoked")

type repositoryImpl struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{db: db}
}

func (r *repositoryImpl) FindByEmail(ctx context.Context, email string) (*User, error) {
	var u User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *repositoryImpl) FindByID(ctx context.Context, id uint) (*User, error) {
	var u User
	if err := r.db.WithContext(ctx).First(&u, id).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *repositoryImpl) Save(ctx context.Context, u *User) error {
	return r.db.WithContext(ctx).Create(u).Error
}

func (r *repositoryImpl) CountUsers(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&User{}).Count(&n).Error
	return n, err
}

func (r *repositoryImpl) CreateRefreshToken(ctx context.Context, rt *RefreshToken) error {
	return r.db.WithContext(ctx).Create(rt).Error
}

func (r *repositoryImpl) FindRefreshToken(ctx context.Context, hash string) (*RefreshToken, error) {
	var rt RefreshToken
	if err := r.db.WithContext(ctx).Where("hash = ?", hash).First(&rt).Error; err != nil {
		return nil, err
	}
	return &rt, nil
}

func (r *repositoryImpl) RevokeRefreshToken(ctx context.Context, hash string, at time.Time) error {
	res := r.db.WithContext(ctx).Model(&RefreshToken{}).
		Where("hash = ? AND revoked_at IS NULL", hash).
		Update("revoked_at", &at)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrTokenRevoked
	}
	return nil
}

// RevokeFamily revokes every live token descended from the same login.
func (r *repositoryImpl) RevokeFamily(ctx context.Context, familyID string, at time.Time) error {
	return r.db.WithContext(ctx).Model(&RefreshToken{}).
		Where("family_id = ? AND revoked_at IS NULL", familyID).
		Update("revoked_at", &at).Error
}
