package repository

import (
	"errors"
	"time"

	problemdomain "cpsheet-backend/internal/problem/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProblemRepository interface {
	Create(problem *problemdomain.Problem) error
	FindByID(userID, id string) (*problemdomain.Problem, error)
	FindByUser(userID string, favouritesOnly bool) ([]*problemdomain.Problem, error)
	Update(problem *problemdomain.Problem) error
	Delete(userID, id string) (bool, error)
}

type problemRepository struct {
	db *gorm.DB
}

func NewProblemRepository(db *gorm.DB) ProblemRepository {
	return &problemRepository{
		db: db,
	}
}

func (r *problemRepository) Create(problem *problemdomain.Problem) error {
	problem.ID = uuid.New().String()
	problem.CreatedAt = time.Now()
	problem.UpdatedAt = time.Now()
	return r.db.Create(problem).Error
}

// FindByID scopes by owner, so another user's problem is indistinguishable
// from a missing one.
func (r *problemRepository) FindByID(userID, id string) (*problemdomain.Problem, error) {
	var problem problemdomain.Problem
	err := r.db.Where("id = ? AND user_id = ?", id, userID).First(&problem).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &problem, nil
}

func (r *problemRepository) FindByUser(userID string, favouritesOnly bool) ([]*problemdomain.Problem, error) {
	query := r.db.Where("user_id = ?", userID)
	if favouritesOnly {
		query = query.Where("is_favourite = ?", true)
	}

	var problems []*problemdomain.Problem
	if err := query.Order("created_at DESC").Find(&problems).Error; err != nil {
		return nil, err
	}
	return problems, nil
}

func (r *problemRepository) Update(problem *problemdomain.Problem) error {
	problem.UpdatedAt = time.Now()
	return r.db.Save(problem).Error
}

func (r *problemRepository) Delete(userID, id string) (bool, error) {
	result := r.db.Where("id = ? AND user_id = ?", id, userID).Delete(&problemdomain.Problem{})
	return result.RowsAffected > 0, result.Error
}
