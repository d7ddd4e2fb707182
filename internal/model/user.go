package model

import "time"

type User struct {
	ID             uint       `gorm:"primaryKey" json:"id"`
	Username       string     `gorm:"size:64;not null;uniqueIndex" json:"username"`
	Email          string     `gorm:"size:128;not null;uniqueIndex" json:"email"`
	PasswordHash   string     `gorm:"size:255;not null" json:"-"`
	ResetToken     *string    `gorm:"size:36;uniqueIndex" json:"-"`
	ResetCode      *string    `gorm:"size:6" json:"-"`
	ResetExpiresAt *time.Time `json:"-"`
	ResetAttempts  int        `gorm:"not null;default:0" json:"-"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

// HasPendingReset reports whether a reset code is stored and still valid at now.
func (u *User) HasPendingReset(now time.Time) bool {
	return u.ResetCode != nil && u.ResetExpiresAt != nil && !now.After(*u.ResetExpiresAt)
}

func (u *User) ClearReset() {
	u.ResetToken = nil
	u.ResetCode = nil
	u.ResetExpiresAt = nil
	u.ResetAttempts = 0
}
