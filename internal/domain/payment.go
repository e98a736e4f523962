package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Payment recipient kinds.
const (
	RecipientBusiness = "business"
	RecipientUser     = "user"
)

// Payment is a provider transaction credited to a business or a user.
type Payment struct {
	PaymentID         uuid.UUID       `gorm:"column:payment_id;type:uuid;primaryKey" json:"payment_id"`
	OrderID           *uuid.UUID      `gorm:"column:order_id;type:uuid;index" json:"order_id"`
	Provider          string          `gorm:"column:provider;not null" json:"provider"`
	ProviderPaymentID *string         `gorm:"column:provider_payment_id" json:"provider_payment_id"`
	Amount            decimal.Decimal `gorm:"column:amount;type:numeric(12,2);not null" json:"amount"`
	Currency          string          `gorm:"column:currency;type:varchar(3);not null" json:"currency"`
	Status            string          `gorm:"column:status;not null" json:"status"`
	RecipientType     string          `gorm:"column:recipient_type;type:varchar(20);not null" json:"recipient_type"`
	RecipientID       uuid.UUID       `gorm:"column:recipient_id;type:uuid;not null;index" json:"recipient_id"`
	CreatedAt         time.Time       `gorm:"column:created_at" json:"created_at"`
}

func (Payment) TableName() string {
	return "payments"
}

func (p *Payment) BeforeCreate(tx *gorm.DB) error {
	if p.PaymentID == uuid.Nil {
		p.PaymentID = uuid.New()
	}
	return nil
}
