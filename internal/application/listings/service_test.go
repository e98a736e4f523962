package listings

import (
	"context"
	"testing"
	"time"

	"akaguriroo-backend/internal/application/media"
	"akaguriroo-backend/internal/domain"
	"akaguriroo-backend/internal/pkg/apperr"
	"akaguriroo-backend/internal/pkg/patch"
	"akaguriroo-backend/internal/pkg/validation"
	"akaguriroo-backend/internal/testutil"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fixture struct {
	db      *gorm.DB
	store   *testutil.Storage
	service *Service
}

func setup(t *testing.T) fixture {
	db := testutil.NewDB(t)
	store := testutil.NewStorage()
	return fixture{
		db:    db,
		store: store,
		service: &Service{
			DB: db,
			Media: &media.Manager{
				Storage:          store,
				Inspector:        testutil.Inspector{D: 20 * time.Second},
				MaxVideoDuration: 60 * time.Second,
			},
		},
	}
}

func pngs(n int) []media.File {
	files := make([]media.File, n)
	for i := range files {
		files[i] = media.File{Field: "images", Name: "photo.png", Data: testutil.PNG()}
	}
	return files
}

func mustFields(t *testing.T, raw validation.Fields) Fields {
	t.Helper()
	f, err := ParseFields(raw)
	require.NoError(t, err)
	return f
}

func countRows(t *testing.T, db *gorm.DB, model interface{}) int64 {
	var n int64
	require.NoError(t, db.Model(model).Count(&n).Error)
	return n
}

func TestCreateListing_ChairExample(t *testing.T) {
	fx := setup(t)
	seller := uuid.New()

	l, err := fx.service.CreateListing(context.Background(), CreateListingInput{
		SellerID: seller,
		Fields:   mustFields(t, validation.Fields{"title": "Chair", "price": "19.99", "stock": "5", "isNegotiable": "true"}),
		Files:    pngs(2),
	})
	require.NoError(t, err)

	assert.Equal(t, "Chair", l.Title)
	assert.Equal(t, "19.99", l.Price.String())
	assert.Equal(t, 5, l.Stock)
	assert.True(t, l.IsNegotiable)
	assert.False(t, l.CanDeliver)
	assert.Nil(t, l.BusinessID)
	assert.JSONEq(t, `{}`, string(l.Attributes))
	require.Len(t, l.Media, 2)
	for i, m := range l.Media {
		assert.Equal(t, i, m.SortOrder)
		assert.Equal(t, domain.MediaImage, m.MediaType)
	}
}

func TestCreateListing_ImageCounts(t *testing.T) {
	fx := setup(t)
	seller := uuid.New()
	fields := mustFields(t, validation.Fields{"title": "Lamp"})

	_, err := fx.service.CreateListing(context.Background(), CreateListingInput{SellerID: seller, Fields: fields})
	assert.ErrorIs(t, err, media.ErrImageRequired)

	_, err = fx.service.CreateListing(context.Background(), CreateListingInput{SellerID: seller, Fields: fields, Files: pngs(5)})
	assert.ErrorIs(t, err, media.ErrTooManyImages)

	assert.Zero(t, countRows(t, fx.db, &domain.Listing{}))
	assert.Empty(t, fx.store.Objects)

	for n := 1; n <= 4; n++ {
		files := pngs(n)
		if n%2 == 0 {
			files = append(files, media.File{Field: "video", Name: "clip.mp4", Data: testutil.MP4(15)})
		}
		l, err := fx.service.CreateListing(context.Background(), CreateListingInput{SellerID: seller, Fields: fields, Files: files})
		require.NoError(t, err)
		require.Len(t, l.Media, len(files))
		for i, m := range l.Media {
			assert.Equal(t, i, m.SortOrder)
		}
		if n%2 == 0 {
			assert.Equal(t, domain.MediaVideo, l.Media[n].MediaType)
		}
	}
}

func TestCreateListing_RoundTrip(t *testing.T) {
	fx := setup(t)
	seller := uuid.New()
	created, err := fx.service.CreateListing(context.Background(), CreateListingInput{
		SellerID: seller,
		Fields:   mustFields(t, validation.Fields{"title": "Desk"}),
		Files:    pngs(3),
	})
	require.NoError(t, err)

	fetched, err := fx.service.GetListing(context.Background(), created.ListingID)
	require.NoError(t, err)
	require.Len(t, fetched.Media, 3)
	for i := range fetched.Media {
		assert.Equal(t, created.Media[i].MediaID, fetched.Media[i].MediaID)
		assert.Equal(t, i, fetched.Media[i].SortOrder)
	}

	bare := testutil.SeedListing(t, fx.db, seller, 0)
	got, err := fx.service.GetListing(context.Background(), bare.ListingID)
	require.NoError(t, err)
	assert.NotNil(t, got.Media)
	assert.Empty(t, got.Media)
}

func TestCreateListing_TitleRequired(t *testing.T) {
	fx := setup(t)
	_, err := fx.service.CreateListing(context.Background(), CreateListingInput{SellerID: uuid.New(), Files: pngs(1)})
	assert.ErrorIs(t, err, ErrTitleRequired)
}

func TestCreateListing_Business(t *testing.T) {
	fx := setup(t)
	seller := uuid.New()
	other := domain.Business{UserID: uuid.New(), BusinessName: "Other"}
	own := domain.Business{UserID: seller, BusinessName: "Mine"}
	require.NoError(t, fx.db.Create(&other).Error)
	require.NoError(t, fx.db.Create(&own).Error)
	fields := mustFields(t, validation.Fields{"title": "Rug"})

	_, err := fx.service.CreateListing(context.Background(), CreateListingInput{SellerID: seller, BusinessID: &other.BusinessID, Fields: fields, Files: pngs(1)})
	assert.ErrorIs(t, err, ErrBusinessNotOwned)
	assert.Empty(t, fx.store.Objects, "uploaded objects are removed when the insert fails")

	l, err := fx.service.CreateListing(context.Background(), CreateListingInput{SellerID: seller, Fields: fields, Files: pngs(1)})
	require.NoError(t, err)
	require.NotNil(t, l.BusinessID)
	assert.Equal(t, own.BusinessID, *l.BusinessID)
}

func TestUpdateListing_NoFields(t *testing.T) {
	fx := setup(t)
	seller := uuid.New()
	l := testutil.SeedListing(t, fx.db, seller, 1)

	_, err := fx.service.UpdateListing(context.Background(), UpdateListingInput{
		SellerID:  seller,
		ListingID: l.ListingID,
		Fields:    mustFields(t, validation.Fields{"title": "  ", "price": ""}),
	})
	assert.ErrorIs(t, err, patch.ErrNoFieldsProvided)

	var after domain.Listing
	require.NoError(t, fx.db.First(&after, "listings_id = ?", l.ListingID).Error)
	assert.Equal(t, "Seeded", after.Title)
}

func TestUpdateListing_PartialFields(t *testing.T) {
	fx := setup(t)
	seller := uuid.New()
	l := testutil.SeedListing(t, fx.db, seller, 2)

	updated, err := fx.service.UpdateListing(context.Background(), UpdateListingInput{
		SellerID:  seller,
		ListingID: l.ListingID,
		Fields:    mustFields(t, validation.Fields{"stock": "0", "canDeliver": "true", "attributes": `{"size":"L"}`}),
	})
	require.NoError(t, err)
	assert.Equal(t, 0, updated.Stock)
	assert.True(t, updated.CanDeliver)
	assert.Equal(t, "Seeded", updated.Title)
	assert.Equal(t, "10", updated.Price.String())
	assert.JSONEq(t, `{"size":"L"}`, string(updated.Attributes))
	assert.Len(t, updated.Media, 2, "media untouched without files")
}

func TestUpdateListing_ReplacesMedia(t *testing.T) {
	fx := setup(t)
	seller := uuid.New()
	created, err := fx.service.CreateListing(context.Background(), CreateListingInput{
		SellerID: seller,
		Fields:   mustFields(t, validation.Fields{"title": "Sofa"}),
		Files:    pngs(3),
	})
	require.NoError(t, err)
	oldPaths := media.PublicIDs(created.Media)
	require.Len(t, oldPaths, 3)

	files := []media.File{
		{Name: "front.jpg", Data: testutil.JPEG()},
		{Name: "tour.mp4", Data: testutil.MP4(40)},
	}
	updated, err := fx.service.UpdateListing(context.Background(), UpdateListingInput{SellerID: seller, ListingID: created.ListingID, Files: files})
	require.NoError(t, err)
	require.Len(t, updated.Media, 2)
	assert.Equal(t, domain.MediaImage, updated.Media[0].MediaType)
	assert.Equal(t, 0, updated.Media[0].SortOrder)
	assert.Equal(t, domain.MediaVideo, updated.Media[1].MediaType)
	assert.Equal(t, 1, updated.Media[1].SortOrder)

	assert.Equal(t, int64(2), countRows(t, fx.db, &domain.ListingMedia{}))
	assert.ElementsMatch(t, oldPaths, fx.store.Removed)
	assert.Len(t, fx.store.Objects, 2)
}

func TestUpdateListing_VideoOnlyKeepsImages(t *testing.T) {
	fx := setup(t)
	seller := uuid.New()
	l := testutil.SeedListing(t, fx.db, seller, 2)

	_, err := fx.service.UpdateListing(context.Background(), UpdateListingInput{
		SellerID:  seller,
		ListingID: l.ListingID,
		Files:     []media.File{{Field: "video", Name: "tour.mp4", Data: testutil.MP4(10)}},
	})
	assert.ErrorIs(t, err, media.ErrImageRequired)

	var rows []domain.ListingMedia
	require.NoError(t, fx.db.Where("listing_id = ?", l.ListingID).Find(&rows).Error)
	assert.Len(t, rows, 2)
	for _, r := range rows {
		assert.Equal(t, domain.MediaImage, r.MediaType)
	}
	assert.Empty(t, fx.store.Objects)
	assert.Empty(t, fx.store.Removed)
}

func TestMutations_NotOwner(t *testing.T) {
	fx := setup(t)
	owner := uuid.New()
	l := testutil.SeedListing(t, fx.db, owner, 1)
	intruder := uuid.New()

	_, err := fx.service.UpdateListing(context.Background(), UpdateListingInput{
		SellerID:  intruder,
		ListingID: l.ListingID,
		Fields:    mustFields(t, validation.Fields{"title": "Mine now"}),
		Files:     pngs(1),
	})
	assert.ErrorIs(t, err, ErrNotOwner)
	assert.True(t, apperr.Is(err, apperr.CodeForbidden))
	assert.Empty(t, fx.store.Objects)

	err = fx.service.DeleteListing(context.Background(), intruder, l.ListingID)
	assert.ErrorIs(t, err, ErrNotOwner)

	var after domain.Listing
	require.NoError(t, fx.db.First(&after, "listings_id = ?", l.ListingID).Error)
	assert.Equal(t, "Seeded", after.Title)
	assert.Equal(t, int64(1), countRows(t, fx.db, &domain.ListingMedia{}))
}

func TestMutations_MissingListing(t *testing.T) {
	fx := setup(t)
	err := fx.service.DeleteListing(context.Background(), uuid.New(), uuid.New())
	assert.ErrorIs(t, err, ErrListingNotFound)
}

func TestMutations_ActiveOrdersLock(t *testing.T) {
	for _, status := range []string{domain.OrderPending, domain.OrderPaid, domain.OrderProcessing, domain.OrderShipped} {
		t.Run(status, func(t *testing.T) {
			fx := setup(t)
			seller := uuid.New()
			l := testutil.SeedListing(t, fx.db, seller, 1)
			testutil.SeedOrder(t, fx.db, uuid.New(), l.ListingID, domain.OrderDelivered)
			testutil.SeedOrder(t, fx.db, uuid.New(), l.ListingID, status)

			_, err := fx.service.UpdateListing(context.Background(), UpdateListingInput{
				SellerID:  seller,
				ListingID: l.ListingID,
				Fields:    mustFields(t, validation.Fields{"title": "Changed"}),
			})
			assert.ErrorIs(t, err, ErrActiveOrders)
			assert.True(t, apperr.Is(err, apperr.CodeLocked))

			err = fx.service.DeleteListing(context.Background(), seller, l.ListingID)
			assert.ErrorIs(t, err, ErrActiveOrders)

			var after domain.Listing
			require.NoError(t, fx.db.First(&after, "listings_id = ?", l.ListingID).Error)
			assert.Equal(t, "Seeded", after.Title)
		})
	}
}

func TestMutations_TerminalOrdersAllowed(t *testing.T) {
	fx := setup(t)
	seller := uuid.New()
	l := testutil.SeedListing(t, fx.db, seller, 2)
	testutil.SeedOrder(t, fx.db, uuid.New(), l.ListingID, domain.OrderDelivered)
	testutil.SeedOrder(t, fx.db, uuid.New(), l.ListingID, domain.OrderCancelled)

	updated, err := fx.service.UpdateListing(context.Background(), UpdateListingInput{
		SellerID:  seller,
		ListingID: l.ListingID,
		Fields:    mustFields(t, validation.Fields{"title": "Changed"}),
	})
	require.NoError(t, err)
	assert.Equal(t, "Changed", updated.Title)

	require.NoError(t, fx.service.DeleteListing(context.Background(), seller, l.ListingID))
	assert.Zero(t, countRows(t, fx.db, &domain.Listing{}))
	assert.Zero(t, countRows(t, fx.db, &domain.ListingMedia{}))
}

func TestListSellerListings(t *testing.T) {
	fx := setup(t)
	seller := uuid.New()

	empty, err := fx.service.ListSellerListings(context.Background(), seller)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	testutil.SeedListing(t, fx.db, seller, 2)
	testutil.SeedListing(t, fx.db, seller, 0)
	testutil.SeedListing(t, fx.db, uuid.New(), 1)

	got, err := fx.service.ListSellerListings(context.Background(), seller)
	require.NoError(t, err)
	require.Len(t, got, 2)
	total := 0
	for _, l := range got {
		assert.NotNil(t, l.Media)
		total += len(l.Media)
	}
	assert.Equal(t, 2, total)
}
