package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Order statuses. Delivered and cancelled are terminal.
const (
	OrderPending    = "pending"
	OrderPaid       = "paid"
	OrderProcessing = "processing"
	OrderShipped    = "shipped"
	OrderDelivered  = "delivered"
	OrderCancelled  = "cancelled"
)

// TerminalOrderStatuses no longer hold a claim on the listings they reference.
var TerminalOrderStatuses = []string{OrderDelivered, OrderCancelled}

// IsTerminalOrderStatus reports whether status releases the order's listings.
func IsTerminalOrderStatus(status string) bool {
	for _, s := range TerminalOrderStatuses {
		if s == status {
			return true
		}
	}
	return false
}

type Order struct {
	OrderID     uuid.UUID       `gorm:"column:order_id;type:uuid;primaryKey" json:"order_id"`
	UserID      uuid.UUID       `gorm:"column:user_id;type:uuid;not null;index" json:"user_id"`
	Status      string          `gorm:"column:status;type:varchar(20);not null;default:'pending'" json:"status"`
	TotalAmount decimal.Decimal `gorm:"column:total_amount;type:numeric(12,2);not null;default:0" json:"total_amount"`
	Currency    string          `gorm:"column:currency;type:varchar(3)" json:"currency"`
	CreatedAt   time.Time       `gorm:"column:created_at" json:"created_at"`
	UpdatedAt   time.Time       `gorm:"column:updated_at" json:"updated_at"`
}

func (Order) TableName() string {
	return "orders"
}

func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.OrderID == uuid.Nil {
		o.OrderID = uuid.New()
	}
	return nil
}

type OrderItem struct {
	OrderItemID uuid.UUID       `gorm:"column:order_item_id;type:uuid;primaryKey" json:"order_item_id"`
	OrderID     uuid.UUID       `gorm:"column:order_id;type:uuid;not null;index" json:"order_id"`
	ListingID   uuid.UUID       `gorm:"column:listing_id;type:uuid;not null;index" json:"listing_id"`
	Quantity    int             `gorm:"column:quantity;not null;default:1" json:"quantity"`
	UnitPrice   decimal.Decimal `gorm:"column:unit_price;type:numeric(12,2);not null" json:"unit_price"`
}

func (OrderItem) TableName() string {
	return "order_items"
}

func (i *OrderItem) BeforeCreate(tx *gorm.DB) error {
	if i.OrderItemID == uuid.Nil {
		i.OrderItemID = uuid.New()
	}
	return nil
}
