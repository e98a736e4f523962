package domain

import "github.com/google/uuid"

// User is read here only to show who placed an order; accounts are managed elsewhere.
type User struct {
	UserID   uuid.UUID `gorm:"column:user_id;type:uuid;primaryKey" json:"user_id"`
	FullName string    `gorm:"column:full_name" json:"full_name"`
	Email    string    `gorm:"column:email;uniqueIndex" json:"email"`
}

func (User) TableName() string {
	return "users"
}
