package model

// UserCafe is reserved schema: the table is created but no feature reads or
// writes it yet.
type UserCafe struct {
	ID     uint `gorm:"primaryKey"`
	UserID uint `gorm:"index"`
	CafeID uint `gorm:"index"`
}

func (UserCafe) TableName() string {
	return "user_cafes"
}

// All lists every persisted model in migration order.
func All() []any {
	return []any{&User{}, &Cafe{}, &Review{}, &UserCafe{}}
}
