package domain

import "time"

type Problem struct {
	ID          string    `json:"id" gorm:"primaryKey"`
	UserID      string    `json:"user_id" gorm:"index"`
	Name        string    `json:"name"`
	Link        string    `json:"link"`
	Tags        []string  `json:"tags" gorm:"serializer:json"`
	IsFavourite bool      `json:"is_favourite"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
