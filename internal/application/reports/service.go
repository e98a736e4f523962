// Package reports serves the read-only business views (orders, payouts, locations)
// with hand-written SQL over sqlx.
package reports

import (
	"context"
	"time"

	"akaguriroo-backend/internal/domain"
	"akaguriroo-backend/internal/pkg/apperr"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

type Service struct {
	DB *sqlx.DB
}

// OrderLine is one order item for a listing of the business.
type OrderLine struct {
	OrderID     uuid.UUID       `db:"order_id" json:"order_id"`
	UserID      uuid.UUID       `db:"user_id" json:"user_id"`
	Status      string          `db:"status" json:"status"`
	TotalAmount decimal.Decimal `db:"total_amount" json:"total_amount"`
	Currency    *string         `db:"currency" json:"currency"`
	CreatedAt   time.Time       `db:"created_at" json:"created_at"`
	ProductID   uuid.UUID       `db:"product_id" json:"product_id"`
	Title       string          `db:"title" json:"title"`
	Quantity    int             `db:"quantity" json:"quantity"`
	UnitPrice   decimal.Decimal `db:"unit_price" json:"unit_price"`
}

// Customer is the buyer behind an order.
type Customer struct {
	OrderID  uuid.UUID `db:"order_id" json:"order_id"`
	UserID   uuid.UUID `db:"user_id" json:"user_id"`
	FullName *string   `db:"full_name" json:"full_name"`
	Email    *string   `db:"email" json:"email"`
}

type BusinessOrders struct {
	Orders []OrderLine `json:"orders"`
	Users  []Customer  `json:"users"`
}

// Transaction is a payment credited to the business.
type Transaction struct {
	PaymentID         uuid.UUID       `db:"payment_id" json:"payment_id"`
	OrderID           *uuid.UUID      `db:"order_id" json:"order_id"`
	Provider          string          `db:"provider" json:"provider"`
	ProviderPaymentID *string         `db:"provider_payment_id" json:"provider_payment_id"`
	Amount            decimal.Decimal `db:"amount" json:"amount"`
	Currency          string          `db:"currency" json:"currency"`
	Status            string          `db:"status" json:"status"`
	CreatedAt         time.Time       `db:"created_at" json:"created_at"`
}

type Location struct {
	ID   uuid.UUID `db:"id" json:"id"`
	Name string    `db:"name" json:"name"`
}

const businessOrdersSQL = `
SELECT o.order_id, o.user_id, o.status, o.total_amount, o.currency, o.created_at,
       l.listings_id AS product_id, l.title, oi.quantity, oi.unit_price
FROM orders o
JOIN order_items oi ON oi.order_id = o.order_id
JOIN listings l ON l.listings_id = oi.listing_id
WHERE l.business_id = ?
ORDER BY o.created_at DESC, l.title`

const orderCustomersSQL = `
SELECT DISTINCT o.order_id, u.user_id, u.full_name, u.email
FROM orders o
JOIN users u ON u.user_id = o.user_id
WHERE o.order_id IN (?)`

// BusinessOrders lists order lines touching the business's listings and the buyers behind them.
func (s *Service) BusinessOrders(ctx context.Context, businessID uuid.UUID) (*BusinessOrders, error) {
	out := &BusinessOrders{Orders: []OrderLine{}, Users: []Customer{}}
	if err := s.DB.SelectContext(ctx, &out.Orders, s.DB.Rebind(businessOrdersSQL), businessID); err != nil {
		return nil, apperr.Internal(err)
	}
	if len(out.Orders) == 0 {
		return out, nil
	}

	seen := map[uuid.UUID]bool{}
	ids := make([]uuid.UUID, 0, len(out.Orders))
	for _, o := range out.Orders {
		if !seen[o.OrderID] {
			seen[o.OrderID] = true
			ids = append(ids, o.OrderID)
		}
	}
	q, args, err := sqlx.In(orderCustomersSQL, ids)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if err := s.DB.SelectContext(ctx, &out.Users, s.DB.Rebind(q), args...); err != nil {
		return nil, apperr.Internal(err)
	}
	return out, nil
}

const businessTransactionsSQL = `
SELECT payment_id, order_id, provider, provider_payment_id, amount, currency, status, created_at
FROM payments
WHERE recipient_type = ? AND recipient_id = ?
ORDER BY created_at DESC`

// BusinessTransactions lists payments to the business, newest first.
func (s *Service) BusinessTransactions(ctx context.Context, businessID uuid.UUID) ([]Transaction, error) {
	txs := []Transaction{}
	err := s.DB.SelectContext(ctx, &txs, s.DB.Rebind(businessTransactionsSQL), domain.RecipientBusiness, businessID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return txs, nil
}

// Locations lists every location by name.
func (s *Service) Locations(ctx context.Context) ([]Location, error) {
	locs := []Location{}
	if err := s.DB.SelectContext(ctx, &locs, `SELECT location_id AS id, name FROM locations ORDER BY name`); err != nil {
		return nil, apperr.Internal(err)
	}
	return locs, nil
}
