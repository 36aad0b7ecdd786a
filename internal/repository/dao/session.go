package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

var (
	ErrSessionNotFound = errors.New("session not found")
)

type Session struct {
	ID          string    `gorm:"primaryKey;type:uuid"`
	Kind        string    `gorm:"not null"`
	PrincipalID uint      `gorm:"not null;index"`
	ExpiresAt   time.Time `gorm:"not null;index"`
	CreatedAt   time.Time `gorm:"not null"`
}

type SessionDAO struct {
	db *gorm.DB
}

func NewSessionDAO(db *gorm.DB) *SessionDAO {
	return &SessionDAO{
		db: db,
	}
}

func (d *SessionDAO) Insert(ctx context.Context, session Session) (Session, error) {
	if err := d.db.WithContext(ctx).Create(&session).Error; err != nil {
		return Session{}, err
	}

	return session, nil
}

func (d *SessionDAO) FindByID(ctx context.Context, id string) (Session, error) {
	var session Session

	result := d.db.WithContext(ctx).First(&session, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Session{}, ErrSessionNotFound
		}

		return Session{}, result.Error
	}

	return session, nil
}

func (d *SessionDAO) Delete(ctx context.Context, id string) error {
	return d.db.WithContext(ctx).Where("id = ?", id).Delete(&Session{}).Error
}

func (d *SessionDAO) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	result := d.db.WithContext(ctx).Where("expires_at <= ?", now).Delete(&Session{})
	return result.RowsAffected, result.Error
}
