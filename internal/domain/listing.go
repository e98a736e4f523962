package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

func init() {
	// Prices go out as JSON numbers (19.99), not strings.
	decimal.MarshalJSONWithoutQuotes = true
}

// Listing is a sellable item owned by a seller and optionally attached to their business.
type Listing struct {
	ListingID     uuid.UUID       `gorm:"column:listings_id;type:uuid;primaryKey" json:"listings_id"`
	SellerID      uuid.UUID       `gorm:"column:seller_id;type:uuid;not null;index" json:"seller_id"`
	BusinessID    *uuid.UUID      `gorm:"column:business_id;type:uuid;index" json:"business_id"`
	CategoryID    *uuid.UUID      `gorm:"column:category_id;type:uuid" json:"category_id"`
	SubcategoryID *uuid.UUID      `gorm:"column:subcategory_id;type:uuid" json:"subcategory_id"`
	LocationID    *uuid.UUID      `gorm:"column:location_id;type:uuid" json:"location_id"`
	Title         string          `gorm:"column:title;not null" json:"title"`
	Description   *string         `gorm:"column:description" json:"description"`
	Price         decimal.Decimal `gorm:"column:price;type:numeric(12,2);not null;default:0" json:"price"`
	Currency      *string         `gorm:"column:currency;type:varchar(3)" json:"currency"`
	Condition     *string         `gorm:"column:condition" json:"condition"`
	IsNegotiable  bool            `gorm:"column:is_negotiable;not null;default:false" json:"is_negotiable"`
	CanDeliver    bool            `gorm:"column:can_deliver;not null;default:false" json:"can_deliver"`
	Stock         int             `gorm:"column:stock;not null;default:0" json:"stock"`
	Attributes    datatypes.JSON  `gorm:"column:attributes;type:jsonb" json:"attributes"`
	CreatedAt     time.Time       `gorm:"column:created_at" json:"created_at"`
	UpdatedAt     time.Time       `gorm:"column:updated_at" json:"updated_at"`

	Media []ListingMedia `gorm:"foreignKey:ListingID;references:ListingID" json:"media"`
}

func (Listing) TableName() string {
	return "listings"
}

// BeforeCreate sets listings_id if not already set (DBs without default uuid).
func (l *Listing) BeforeCreate(tx *gorm.DB) error {
	if l.ListingID == uuid.Nil {
		l.ListingID = uuid.New()
	}
	if len(l.Attributes) == 0 {
		l.Attributes = datatypes.JSON("{}")
	}
	return nil
}

// AfterFind keeps media an empty list rather than null in responses.
func (l *Listing) AfterFind(tx *gorm.DB) error {
	if l.Media == nil {
		l.Media = []ListingMedia{}
	}
	return nil
}

// Media kinds stored in listing_media.media_type.
const (
	MediaImage = "image"
	MediaVideo = "video"
)

// ListingMedia is one ordered attachment of a listing.
type ListingMedia struct {
	MediaID   uuid.UUID      `gorm:"column:listing_media_id;type:uuid;primaryKey" json:"media_id"`
	ListingID uuid.UUID      `gorm:"column:listing_id;type:uuid;not null;index" json:"-"`
	MediaType string         `gorm:"column:media_type;type:varchar(10);not null" json:"type"`
	URL       string         `gorm:"column:url;not null" json:"url"`
	SortOrder int            `gorm:"column:sort_order;not null" json:"order"`
	Metadata  datatypes.JSON `gorm:"column:metadata;type:jsonb" json:"-"`
	CreatedAt time.Time      `gorm:"column:created_at" json:"-"`
}

func (ListingMedia) TableName() string {
	return "listing_media"
}

func (m *ListingMedia) BeforeCreate(tx *gorm.DB) error {
	if m.MediaID == uuid.Nil {
		m.MediaID = uuid.New()
	}
	return nil
}

// MediaMetadata is the JSON kept in listing_media.metadata.
type MediaMetadata struct {
	PublicID string `json:"public_id"`
	MimeType string `json:"mime_type"`
	Size     int    `json:"size"`
}
