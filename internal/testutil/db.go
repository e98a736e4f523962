// Package testutil holds fixtures shared by package tests.
package testutil

import (
	"fmt"
	"testing"

	"akaguriroo-backend/internal/domain"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDB opens a private in-memory SQLite database with every table migrated.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:"+uuid.NewString()+"?mode=memory&cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&domain.User{},
		&domain.Business{},
		&domain.Location{},
		&domain.Listing{},
		&domain.ListingMedia{},
		&domain.Order{},
		&domain.OrderItem{},
		&domain.Payment{},
	))
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

// SeedListing inserts a listing owned by sellerID with the given media count.
func SeedListing(t *testing.T, db *gorm.DB, sellerID uuid.UUID, images int) domain.Listing {
	t.Helper()
	l := domain.Listing{SellerID: sellerID, Title: "Seeded", Price: decimal.NewFromInt(10), Stock: 1}
	require.NoError(t, db.Create(&l).Error)
	for i := 0; i < images; i++ {
		path := fmt.Sprintf("listings/%s/seed-%d.png", l.ListingID, i)
		m := domain.ListingMedia{
			ListingID: l.ListingID,
			MediaType: domain.MediaImage,
			URL:       "https://cdn.example.com/" + path,
			SortOrder: i,
			Metadata:  datatypes.JSON(`{"public_id":"` + path + `"}`),
		}
		require.NoError(t, db.Create(&m).Error)
	}
	return l
}

// SeedOrder inserts an order in the given status holding one unit of listingID.
func SeedOrder(t *testing.T, db *gorm.DB, buyerID, listingID uuid.UUID, status string) domain.Order {
	t.Helper()
	o := domain.Order{UserID: buyerID, Status: status, TotalAmount: decimal.NewFromInt(10), Currency: "NGN"}
	require.NoError(t, db.Create(&o).Error)
	item := domain.OrderItem{OrderID: o.OrderID, ListingID: listingID, Quantity: 1, UnitPrice: decimal.NewFromInt(10)}
	require.NoError(t, db.Create(&item).Error)
	return o
}
