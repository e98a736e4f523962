package listings

import (
	"context"
	"errors"
	"time"

	"akaguriroo-backend/internal/application/media"
	"akaguriroo-backend/internal/domain"
	"akaguriroo-backend/internal/pkg/apperr"
	"akaguriroo-backend/internal/pkg/metrics"
	"akaguriroo-backend/internal/pkg/patch"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrListingNotFound  = apperr.NotFound("Product not found")
	ErrNotOwner         = apperr.Forbidden("You are not the owner of the product")
	ErrActiveOrders     = apperr.Locked("Cannot change product. It has active or pending orders.")
	ErrTitleRequired    = apperr.Validation("title is required")
	ErrBusinessNotOwned = apperr.Forbidden("Business does not belong to you")
)

// Service manages a seller's listings and their media.
type Service struct {
	DB      *gorm.DB
	Media   *media.Manager
	Metrics *metrics.Metrics
}

type CreateListingInput struct {
	SellerID   uuid.UUID
	BusinessID *uuid.UUID
	Fields     Fields
	Files      []media.File
}

type UpdateListingInput struct {
	SellerID  uuid.UUID
	ListingID uuid.UUID
	Fields    Fields
	Files     []media.File
}

func withOrderedMedia(db *gorm.DB) *gorm.DB {
	return db.Preload("Media", func(db *gorm.DB) *gorm.DB {
		return db.Order("sort_order ASC")
	})
}

// ListSellerListings returns the seller's listings, newest first, each with its media.
func (s *Service) ListSellerListings(ctx context.Context, sellerID uuid.UUID) ([]domain.Listing, error) {
	listings := []domain.Listing{}
	err := withOrderedMedia(s.DB.WithContext(ctx)).
		Where("seller_id = ?", sellerID).
		Order("created_at DESC").
		Find(&listings).Error
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return listings, nil
}

// GetListing loads one listing with its media in sort order.
func (s *Service) GetListing(ctx context.Context, listingID uuid.UUID) (*domain.Listing, error) {
	var l domain.Listing
	err := withOrderedMedia(s.DB.WithContext(ctx)).Where("listings_id = ?", listingID).First(&l).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrListingNotFound
		}
		return nil, apperr.Internal(err)
	}
	return &l, nil
}

// CreateListing validates the uploads, stores them, then writes the listing and
// its media rows in one transaction.
func (s *Service) CreateListing(ctx context.Context, in CreateListingInput) (*domain.Listing, error) {
	f := in.Fields
	if f.Title == nil {
		return nil, ErrTitleRequired
	}
	batch, err := s.Media.Classify(in.Files, true)
	if err != nil {
		return nil, err
	}

	l := domain.Listing{
		ListingID:     uuid.New(),
		SellerID:      in.SellerID,
		CategoryID:    f.CategoryID,
		SubcategoryID: f.SubcategoryID,
		LocationID:    f.LocationID,
		Title:         *f.Title,
		Description:   f.Description,
		Price:         decimal.Zero,
		Currency:      f.Currency,
		Condition:     f.Condition,
		IsNegotiable:  f.IsNegotiable != nil && *f.IsNegotiable,
		CanDeliver:    f.CanDeliver != nil && *f.CanDeliver,
		Attributes:    f.Attributes,
	}
	if f.Price != nil {
		l.Price = *f.Price
	}
	if f.Stock != nil {
		l.Stock = *f.Stock
	}

	rows, err := s.Media.Store(ctx, l.ListingID, batch)
	if err != nil {
		return nil, err
	}

	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		businessID, err := resolveBusiness(tx, in.SellerID, in.BusinessID)
		if err != nil {
			return err
		}
		l.BusinessID = businessID
		if err := tx.Omit(clause.Associations).Create(&l).Error; err != nil {
			return err
		}
		return media.Replace(tx, l.ListingID, rows)
	})
	if err != nil {
		s.Media.Discard(ctx, rows)
		return nil, apperr.From(err)
	}

	s.Metrics.IncListing("create")
	log.Info().Str("listing_id", l.ListingID.String()).Int("media", len(rows)).Msg("listing created")
	return s.GetListing(ctx, l.ListingID)
}

// resolveBusiness checks an explicit business belongs to the seller, or falls
// back to the seller's own business. Individual sellers get nil.
func resolveBusiness(tx *gorm.DB, sellerID uuid.UUID, requested *uuid.UUID) (*uuid.UUID, error) {
	var b domain.Business
	q := tx.Select("business_id", "user_id")
	if requested != nil {
		q = q.Where("business_id = ?", *requested)
	} else {
		q = q.Where("user_id = ?", sellerID)
	}
	err := q.Take(&b).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		if requested != nil {
			return nil, apperr.NotFound("Business not found")
		}
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if b.UserID != sellerID {
		return nil, ErrBusinessNotOwned
	}
	return &b.BusinessID, nil
}

// UpdateListing applies a partial update and, when files are supplied, replaces
// all media. A replacement set needs at least one image, as on create. Ownership and open orders are checked again under a row lock
// inside the transaction that writes.
func (s *Service) UpdateListing(ctx context.Context, in UpdateListingInput) (*domain.Listing, error) {
	set := in.Fields.columns()
	if set.Len() == 0 && len(in.Files) == 0 {
		return nil, patch.ErrNoFieldsProvided
	}
	if err := checkMutable(s.DB.WithContext(ctx), in.ListingID, in.SellerID, false); err != nil {
		return nil, err
	}

	var rows []domain.ListingMedia
	if len(in.Files) > 0 {
		batch, err := s.Media.Classify(in.Files, true)
		if err != nil {
			return nil, err
		}
		if rows, err = s.Media.Store(ctx, in.ListingID, batch); err != nil {
			return nil, err
		}
	}

	var replaced []domain.ListingMedia
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := checkMutable(tx, in.ListingID, in.SellerID, true); err != nil {
			return err
		}
		q := tx.Model(&domain.Listing{}).Where("listings_id = ?", in.ListingID)
		if set.Len() > 0 {
			cols, _ := set.Columns()
			if err := q.Updates(cols).Error; err != nil {
				return err
			}
		} else if err := q.Update("updated_at", time.Now()).Error; err != nil {
			return err
		}
		if rows == nil {
			return nil
		}
		if err := tx.Where("listing_id = ?", in.ListingID).Find(&replaced).Error; err != nil {
			return err
		}
		return media.Replace(tx, in.ListingID, rows)
	})
	if err != nil {
		s.Media.Discard(ctx, rows)
		return nil, apperr.From(err)
	}
	s.Media.Discard(ctx, replaced)

	s.Metrics.IncListing("update")
	log.Info().Str("listing_id", in.ListingID.String()).Strs("fields", set.Names()).Int("media", len(rows)).Msg("listing updated")
	return s.GetListing(ctx, in.ListingID)
}

// DeleteListing removes the listing and its media rows, then its stored objects.
func (s *Service) DeleteListing(ctx context.Context, sellerID, listingID uuid.UUID) error {
	var removed []domain.ListingMedia
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := checkMutable(tx, listingID, sellerID, true); err != nil {
			return err
		}
		if err := tx.Where("listing_id = ?", listingID).Find(&removed).Error; err != nil {
			return err
		}
		if err := tx.Where("listing_id = ?", listingID).Delete(&domain.ListingMedia{}).Error; err != nil {
			return err
		}
		return tx.Where("listings_id = ?", listingID).Delete(&domain.Listing{}).Error
	})
	if err != nil {
		return apperr.From(err)
	}
	s.Media.Discard(ctx, removed)

	s.Metrics.IncListing("delete")
	log.Info().Str("listing_id", listingID.String()).Msg("listing deleted")
	return nil
}

// checkMutable is the ownership guard followed by the active-order gate.
func checkMutable(db *gorm.DB, listingID, sellerID uuid.UUID, lock bool) error {
	q := db.Select("listings_id", "seller_id").Where("listings_id = ?", listingID)
	if lock && db.Dialector.Name() == "postgres" {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var l domain.Listing
	if err := q.Take(&l).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrListingNotFound
		}
		return err
	}
	if l.SellerID != sellerID {
		return ErrNotOwner
	}

	var open int64
	err := db.Model(&domain.Order{}).
		Joins("JOIN order_items ON order_items.order_id = orders.order_id").
		Where("order_items.listing_id = ? AND orders.status NOT IN ?", listingID, domain.TerminalOrderStatuses).
		Count(&open).Error
	if err != nil {
		return err
	}
	if open > 0 {
		return ErrActiveOrders
	}
	return nil
}
