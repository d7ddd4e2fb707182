package model

import "time"

type Cafe struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Name         string    `gorm:"size:100;not null" json:"name"`
	MapURL       string    `gorm:"size:1024;not null;default:''" json:"map_url"`
	ImgURL       string    `gorm:"size:500;not null;default:''" json:"img_url"`
	Location     string    `gorm:"size:250;not null" json:"location"`
	HasSockets   bool      `gorm:"not null;default:false" json:"has_sockets"`
	HasToilet    bool      `gorm:"not null;default:false" json:"has_toilet"`
	HasWifi      bool      `gorm:"not null;default:false" json:"has_wifi"`
	CanTakeCalls bool      `gorm:"not null;default:false" json:"can_take_calls"`
	Seats        string    `gorm:"size:10" json:"seats"`
	CoffeePrice  string    `gorm:"size:16;not null" json:"coffee_price"`
	CreatedBy    uint      `gorm:"not null;index" json:"created_by"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (Cafe) TableName() string {
	return "cafes"
}

func (c *Cafe) OwnedBy(userID uint) bool {
	return userID != 0 && c.CreatedBy == userID
}
