package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Business is a seller profile; each user owns at most one.
type Business struct {
	BusinessID       uuid.UUID `gorm:"column:business_id;type:uuid;primaryKey" json:"business_id"`
	UserID           uuid.UUID `gorm:"column:user_id;type:uuid;not null;uniqueIndex" json:"user_id"`
	BusinessName     string    `gorm:"column:business_name;not null" json:"business_name"`
	VATNumber        *string   `gorm:"column:vat_number" json:"vat_number"`
	SubscriptionPlan *string   `gorm:"column:subscription_plan" json:"subscription_plan"`
	IsPaid           bool      `gorm:"column:is_paid;not null;default:false" json:"is_paid"`
	Website          *string   `gorm:"column:website" json:"website"`
	ContactEmail     *string   `gorm:"column:contact_email" json:"contact_email"`
	CreatedAt        time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt        time.Time `gorm:"column:updated_at" json:"updated_at"`
}

func (Business) TableName() string {
	return "businesses"
}

func (b *Business) BeforeCreate(tx *gorm.DB) error {
	if b.BusinessID == uuid.Nil {
		b.BusinessID = uuid.New()
	}
	return nil
}
