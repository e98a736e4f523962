package media

import (
	"context"
	"errors"
	"testing"
	"time"

	"akaguriroo-backend/internal/domain"
	"akaguriroo-backend/internal/pkg/apperr"
	"akaguriroo-backend/internal/testutil"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func images(n int) []File {
	files := make([]File, n)
	for i := range files {
		files[i] = File{Field: "images", Name: "img.png", Data: testutil.PNG()}
	}
	return files
}

func newManager(store *testutil.Storage) *Manager {
	return &Manager{
		Storage:          store,
		Inspector:        testutil.Inspector{D: 30 * time.Second},
		MaxVideoDuration: 60 * time.Second,
	}
}

func TestClassify_ImageCountRules(t *testing.T) {
	m := newManager(testutil.NewStorage())

	_, err := m.Classify(nil, true)
	assert.ErrorIs(t, err, ErrImageRequired)

	_, err = m.Classify(images(5), true)
	assert.ErrorIs(t, err, ErrTooManyImages)

	for n := 1; n <= MaxImages; n++ {
		b, err := m.Classify(images(n), true)
		require.NoError(t, err)
		assert.Len(t, b.Images, n)
	}

	// updates may carry only a video
	b, err := m.Classify([]File{{Name: "clip.mp4", Data: testutil.MP4(10)}}, false)
	require.NoError(t, err)
	assert.Empty(t, b.Images)
	require.NotNil(t, b.Video)
}

func TestClassify_VideoRules(t *testing.T) {
	m := newManager(testutil.NewStorage())
	video := File{Field: "video", Name: "clip.mp4", Data: testutil.MP4(30)}

	_, err := m.Classify(append(images(1), video, video), true)
	assert.ErrorIs(t, err, ErrTooManyVideos)

	b, err := m.Classify(append(images(2), video), true)
	require.NoError(t, err)
	require.NotNil(t, b.Video)
	assert.Equal(t, "video/mp4", b.Video.MimeType)

	m.Inspector = testutil.Inspector{D: 61 * time.Second}
	_, err = m.Classify(append(images(1), video), true)
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.CodeValidation))
	assert.Contains(t, err.Error(), "60 seconds")

	m.Inspector = testutil.Inspector{Err: errors.New("no moov box")}
	_, err = m.Classify(append(images(1), video), true)
	assert.ErrorIs(t, err, ErrVideoUnreadable)

	for _, d := range []time.Duration{0, -351909 * time.Hour} {
		m.Inspector = testutil.Inspector{D: d}
		_, err = m.Classify(append(images(1), video), true)
		assert.ErrorIs(t, err, ErrVideoUnreadable, "duration %s", d)
	}
}

func TestClassify_RejectsOtherContent(t *testing.T) {
	m := newManager(testutil.NewStorage())

	_, err := m.Classify([]File{{Name: "notes.txt", Data: []byte("hello world")}}, true)
	assert.True(t, apperr.Is(err, apperr.CodeValidation))

	_, err = m.Classify([]File{{Name: "empty.png"}}, true)
	assert.True(t, apperr.Is(err, apperr.CodeValidation))
}

func TestStore_OrdinalsImagesThenVideo(t *testing.T) {
	store := testutil.NewStorage()
	m := newManager(store)
	files := []File{
		{Name: "a.png", Data: testutil.PNG()},
		{Name: "clip.mp4", Data: testutil.MP4(5)},
		{Name: "b.jpg", Data: testutil.JPEG()},
	}
	b, err := m.Classify(files, true)
	require.NoError(t, err)

	listingID := uuid.New()
	rows, err := m.Store(context.Background(), listingID, b)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, []string{domain.MediaImage, domain.MediaImage, domain.MediaVideo},
		[]string{rows[0].MediaType, rows[1].MediaType, rows[2].MediaType})
	for i, r := range rows {
		assert.Equal(t, i, r.SortOrder)
		assert.Equal(t, listingID, r.ListingID)
	}
	assert.Len(t, store.Objects, 3)
	assert.Len(t, PublicIDs(rows), 3)
}

func TestStore_FailureRemovesUploaded(t *testing.T) {
	store := testutil.NewStorage()
	store.FailOn = 3
	m := newManager(store)
	b, err := m.Classify(images(3), true)
	require.NoError(t, err)

	_, err = m.Store(context.Background(), uuid.New(), b)
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.CodeInternal))
	assert.Empty(t, store.Objects)
	assert.Len(t, store.Removed, 2)
}

func TestReplace_DeletesThenInserts(t *testing.T) {
	db := testutil.NewDB(t)
	l := testutil.SeedListing(t, db, uuid.New(), 3)

	store := testutil.NewStorage()
	m := newManager(store)
	b, err := m.Classify(images(1), false)
	require.NoError(t, err)
	rows, err := m.Store(context.Background(), l.ListingID, b)
	require.NoError(t, err)

	require.NoError(t, Replace(db, l.ListingID, rows))

	var stored []domain.ListingMedia
	require.NoError(t, db.Where("listing_id = ?", l.ListingID).Find(&stored).Error)
	require.Len(t, stored, 1)
	assert.Equal(t, 0, stored[0].SortOrder)
	assert.Equal(t, rows[0].URL, stored[0].URL)
}
