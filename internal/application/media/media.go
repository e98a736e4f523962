// Package media validates, stores and replaces the image and video attachments of a listing.
package media

import (
	"context"
	"encoding/json"
	"fmt"
	"mime"
	"strings"
	"time"

	"akaguriroo-backend/internal/domain"
	"akaguriroo-backend/internal/pkg/apperr"
	"akaguriroo-backend/internal/pkg/metrics"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	MaxImages = 4
	MaxVideos = 1
)

var (
	ErrImageRequired   = apperr.Validation("At least one image is required")
	ErrTooManyImages   = apperr.Validation("Maximum of 4 images is allowed")
	ErrTooManyVideos   = apperr.Validation("Only one video is allowed")
	ErrVideoUnreadable = apperr.Validation("Could not read video duration")
)

var imageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
	"image/gif":  true,
	"image/heic": true,
}

// Only ISO-BMFF containers, the inspector reads their mvhd box.
var videoTypes = map[string]bool{
	"video/mp4":       true,
	"video/quicktime": true,
	"video/x-m4v":     true,
}

// File is one uploaded file, already read into memory.
type File struct {
	Field string
	Name  string
	Data  []byte
}

// Storage writes media objects and returns their public URL.
type Storage interface {
	Upload(ctx context.Context, path, contentType string, data []byte) (string, error)
	Remove(ctx context.Context, paths ...string) error
}

// VideoInspector reports a video's playing time.
type VideoInspector interface {
	Duration(data []byte) (time.Duration, error)
}

// Item is a classified upload.
type Item struct {
	File
	Kind     string
	MimeType string
	Ext      string
}

// Batch is a validated set of uploads in storage order: images first, then the video.
type Batch struct {
	Images []Item
	Video  *Item
}

// Items returns the batch in sort order.
func (b *Batch) Items() []Item {
	out := append([]Item{}, b.Images...)
	if b.Video != nil {
		out = append(out, *b.Video)
	}
	return out
}

// Manager applies the attachment rules and talks to storage.
type Manager struct {
	Storage          Storage
	Inspector        VideoInspector
	MaxVideoDuration time.Duration
	Metrics          *metrics.Metrics
}

// Classify sniffs each file's content type and enforces the per-listing limits.
// requireImage is set whenever the batch becomes the listing's whole media set.
func (m *Manager) Classify(files []File, requireImage bool) (*Batch, error) {
	b := &Batch{}
	videos := 0
	for _, f := range files {
		item, err := sniff(f)
		if err != nil {
			return nil, err
		}
		switch item.Kind {
		case domain.MediaImage:
			b.Images = append(b.Images, item)
		case domain.MediaVideo:
			videos++
			v := item
			b.Video = &v
		}
	}

	if requireImage && len(b.Images) == 0 {
		return nil, ErrImageRequired
	}
	if len(b.Images) > MaxImages {
		return nil, ErrTooManyImages
	}
	if videos > MaxVideos {
		return nil, ErrTooManyVideos
	}
	if b.Video != nil {
		if err := m.checkVideo(b.Video.Data); err != nil {
			return nil, err
		}
	}
	return b, nil
}

func sniff(f File) (Item, error) {
	if len(f.Data) == 0 {
		return Item{}, apperr.Validation(fmt.Sprintf("File %q is empty", f.Name))
	}
	detected := mimetype.Detect(f.Data)
	mt, _, err := mime.ParseMediaType(detected.String())
	if err != nil {
		mt = detected.String()
	}
	item := Item{File: f, MimeType: mt, Ext: detected.Extension()}
	switch {
	case imageTypes[mt]:
		item.Kind = domain.MediaImage
	case videoTypes[mt]:
		item.Kind = domain.MediaVideo
	default:
		return Item{}, apperr.Validation(fmt.Sprintf("Unsupported file type %s for %q", mt, f.Name))
	}
	return item, nil
}

func (m *Manager) checkVideo(data []byte) error {
	if m.Inspector == nil || m.MaxVideoDuration <= 0 {
		return nil
	}
	d, err := m.Inspector.Duration(data)
	if err != nil {
		log.Warn().Err(err).Msg("video duration probe failed")
		return ErrVideoUnreadable
	}
	if d <= 0 {
		return ErrVideoUnreadable
	}
	if d > m.MaxVideoDuration {
		return apperr.Validation(fmt.Sprintf("Video must be at most %d seconds long", int(m.MaxVideoDuration.Seconds())))
	}
	return nil
}

// Store uploads the batch under the listing's prefix and returns unsaved rows
// with sort_order 0..n-1. A failed upload removes the objects already written.
func (m *Manager) Store(ctx context.Context, listingID uuid.UUID, b *Batch) ([]domain.ListingMedia, error) {
	items := b.Items()
	rows := make([]domain.ListingMedia, 0, len(items))
	for i, it := range items {
		path := fmt.Sprintf("listings/%s/%s%s", listingID, uuid.NewString(), it.Ext)
		url, err := m.Storage.Upload(ctx, path, it.MimeType, it.Data)
		if err != nil {
			m.Discard(ctx, rows)
			return nil, apperr.Wrap(apperr.CodeInternal, err, apperr.InternalMessage)
		}
		meta, _ := json.Marshal(domain.MediaMetadata{PublicID: path, MimeType: it.MimeType, Size: len(it.Data)})
		rows = append(rows, domain.ListingMedia{
			MediaID:   uuid.New(),
			ListingID: listingID,
			MediaType: it.Kind,
			URL:       url,
			SortOrder: i,
			Metadata:  datatypes.JSON(meta),
		})
	}
	m.Metrics.AddMedia(domain.MediaImage, len(b.Images))
	if b.Video != nil {
		m.Metrics.AddMedia(domain.MediaVideo, 1)
	}
	return rows, nil
}

// Discard removes stored objects for rows that were never committed or were replaced.
// Failures are logged only.
func (m *Manager) Discard(ctx context.Context, rows []domain.ListingMedia) {
	paths := PublicIDs(rows)
	if len(paths) == 0 || m.Storage == nil {
		return
	}
	if err := m.Storage.Remove(ctx, paths...); err != nil {
		log.Warn().Err(err).Strs("paths", paths).Msg("media cleanup failed")
	}
}

// Replace swaps the listing's media for rows inside tx.
func Replace(tx *gorm.DB, listingID uuid.UUID, rows []domain.ListingMedia) error {
	if err := tx.Where("listing_id = ?", listingID).Delete(&domain.ListingMedia{}).Error; err != nil {
		return err
	}
	if len(rows) == 0 {
		return nil
	}
	return tx.Create(&rows).Error
}

// PublicIDs extracts storage paths from rows' metadata.
func PublicIDs(rows []domain.ListingMedia) []string {
	var paths []string
	for _, r := range rows {
		var meta domain.MediaMetadata
		if err := json.Unmarshal(r.Metadata, &meta); err != nil {
			continue
		}
		if p := strings.TrimSpace(meta.PublicID); p != "" {
			paths = append(paths, p)
		}
	}
	return paths
}
