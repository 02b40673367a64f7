package repository

import (
	"errors"
	"time"

	authdomain "cpsheet-backend/internal/auth/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type EmailChangeRepository interface {
	Upsert(change *authdomain.EmailChange) error
	FindByUserID(userID string) (*authdomain.EmailChange, error)
	DeleteByUserID(userID string) error
	DeleteExpired(before time.Time) (int64, error)
}

type emailChangeRepository struct {
	db *gorm.DB
}

func NewEmailChangeRepository(db *gorm.DB) EmailChangeRepository {
	return &emailChangeRepository{
		db: db,
	}
}

// Upsert stores the pending change, replacing any prior request for the same
// user. The primary key on user_id makes concurrent requests resolve
// last-writer-wins.
func (r *emailChangeRepository) Upsert(change *authdomain.EmailChange) error {
	now := time.Now()
	if change.CreatedAt.IsZero() {
		change.CreatedAt = now
	}
	change.UpdatedAt = now
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		UpdateAll: true,
	}).Create(change).Error
}

func (r *emailChangeRepository) FindByUserID(userID string) (*authdomain.EmailChange, error) {
	var change authdomain.EmailChange
	err := r.db.Where("user_id = ?", userID).First(&change).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &change, nil
}

func (r *emailChangeRepository) DeleteByUserID(userID string) error {
	return r.db.Where("user_id = ?", userID).Delete(&authdomain.EmailChange{}).Error
}

func (r *emailChangeRepository) DeleteExpired(before time.Time) (int64, error) {
	result := r.db.Where("expires_at < ?", before).Delete(&authdomain.EmailChange{})
	return result.RowsAffected, result.Error
}
