package model

import "time"

const (
	MinRating = 1
	MaxRating = 5
)

type Review struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Rating    int       `gorm:"not null" json:"rating"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	CafeID    uint      `gorm:"not null;index" json:"cafe_id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

func (Review) TableName() string {
	return "reviews"
}

// ReviewView is a review joined with its author's username for display.
type ReviewView struct {
	Review
	Username string `json:"username"`
}
