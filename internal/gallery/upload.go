package gallery

import (
	"encoding/base64"
	"strings"
	"time"

	"photo-gallery/internal/models"
)

const bytesPerMB = 1024 * 1024

// Blob is a file as handed over by a picker or a multipart form
type Blob struct {
	Name string
	Size int64
	Type string
	Data []byte
}

// ClassifyMIME treats image/* as a photo and anything else as a video
func ClassifyMIME(mimeType string) models.MediaType {
	if strings.HasPrefix(strings.ToLower(mimeType), "image/") {
		return models.MediaPhoto
	}
	return models.MediaVideo
}

func SizeMB(bytes int64) float64 {
	return float64(bytes) / bytesPerMB
}

// SizeBytes is the inverse of SizeMB, rounded down. Negative sizes give 0.
func SizeBytes(mb float64) int64 {
	if !(mb > 0) {
		return 0
	}
	return int64(mb * bytesPerMB)
}

// DefaultPrice is the folder's per-item price for photos and twice that for videos
func DefaultPrice(folder models.Folder, t models.MediaType) float64 {
	if t == models.MediaPhoto {
		return folder.PhotoPrice
	}
	return folder.PhotoPrice * 2
}

// DataURL embeds the blob contents so the item can be rendered without a
// separate content endpoint.
func DataURL(mimeType string, data []byte) string {
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}
	return "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// PlaceholderThumbnail is the still shown for an uploaded video
func PlaceholderThumbnail(seed string) string {
	return "https://picsum.photos/seed/" + seed + "/800/600"
}

// Ingest builds the media item for an uploaded blob. It does not check quota or
// touch any store.
func Ingest(folder models.Folder, blob Blob, id string, now time.Time) models.MediaItem {
	t := ClassifyMIME(blob.Type)
	size := blob.Size
	if size == 0 {
		size = int64(len(blob.Data))
	}

	item := models.MediaItem{
		ID:     id,
		URL:    DataURL(blob.Type, blob.Data),
		Title:  blob.Name,
		Date:   now.Format("2006-01-02"),
		SizeMB: SizeMB(size),
		Price:  DefaultPrice(folder, t),
		Type:   t,
	}
	if t == models.MediaVideo {
		item.ThumbnailURL = PlaceholderThumbnail(id)
	}
	return item
}

// AttachMedia puts the id at the front of the folder so newest shows first
func AttachMedia(folder models.Folder, mediaID string) models.Folder {
	next := folder.Clone()
	next.MediaIDs = append([]string{mediaID}, next.MediaIDs...)
	return next
}

// DetachMedia removes the id from the folder. The media record itself stays in
// the media store and keeps counting toward storage.
func DetachMedia(folder models.Folder, mediaID string) (models.Folder, error) {
	if !folder.Contains(mediaID) {
		return folder, ErrMediaNotFound
	}
	next := folder.Clone()
	kept := next.MediaIDs[:0]
	for _, id := range next.MediaIDs {
		if id != mediaID {
			kept = append(kept, id)
		}
	}
	next.MediaIDs = kept
	return next, nil
}
