// Package seed holds the demo gallery loaded on a fresh start.
package seed

import (
	"fmt"
	"math/rand/v2"
	"time"

	"photo-gallery/internal/gallery"
	"photo-gallery/internal/models"
)

const (
	DemoFolderID   = "folder-1"
	DemoAccessCode = "JUNE-WEDDING-2024"

	demoPhotoPrice = 1.99
	demoVideoPrice = 4.99
	demoPhotoCount = 14
)

const day = 24 * time.Hour

// randomSizeMB draws 2-8 MB for photos and 10-50 MB for videos
func randomSizeMB(r *rand.Rand, t models.MediaType) float64 {
	if t == models.MediaPhoto {
		return r.Float64()*6 + 2
	}
	return r.Float64()*40 + 10
}

// Demo builds the sample storefront: one wedding gallery with 14 photos and 2
// videos. Sizes come from r so tests can pin them.
func Demo(r *rand.Rand, now time.Time, totalGB float64) gallery.Snapshot {
	date := func(daysAgo int) string {
		return now.Add(-time.Duration(daysAgo) * day).Format("2006-01-02")
	}

	media := make([]models.MediaItem, 0, demoPhotoCount+2)
	for i := 1; i <= demoPhotoCount; i++ {
		media = append(media, models.MediaItem{
			ID:     fmt.Sprintf("media-%d", i),
			URL:    fmt.Sprintf("https://picsum.photos/seed/%d/800/600", i),
			Title:  fmt.Sprintf("Nature Scene %d", i),
			Date:   date(i + 3),
			SizeMB: randomSizeMB(r, models.MediaPhoto),
			Price:  demoPhotoPrice,
			Type:   models.MediaPhoto,
		})
	}
	media = append(media,
		models.MediaItem{
			ID:           "media-15",
			URL:          "https://storage.googleapis.com/gtv-videos-bucket/sample/BigBuckBunny.mp4",
			ThumbnailURL: "https://storage.googleapis.com/gtv-videos-bucket/sample/images/BigBuckBunny.jpg",
			Title:        "Big Buck Bunny",
			Date:         date(3),
			SizeMB:       randomSizeMB(r, models.MediaVideo),
			Price:        demoVideoPrice,
			Type:         models.MediaVideo,
		},
		models.MediaItem{
			ID:           "media-16",
			URL:          "https://storage.googleapis.com/gtv-videos-bucket/sample/ElephantsDream.mp4",
			ThumbnailURL: "https://storage.googleapis.com/gtv-videos-bucket/sample/images/ElephantsDream.jpg",
			Title:        "Elephants Dream",
			Date:         date(2),
			SizeMB:       randomSizeMB(r, models.MediaVideo),
			Price:        demoVideoPrice,
			Type:         models.MediaVideo,
		},
	)

	ids := make([]string, len(media))
	for i, m := range media {
		ids[i] = m.ID
	}

	return gallery.Snapshot{
		Folders: []models.Folder{{
			ID:           DemoFolderID,
			Name:         "Wedding Photoshoot - June 2024",
			AccessCode:   DemoAccessCode,
			MediaIDs:     ids,
			GalleryPrice: 24.99,
			PhotoPrice:   demoPhotoPrice,
			Analytics:    models.Analytics{Purchases: 1, Downloads: 7},
			TotalRevenue: 24.99,
		}},
		Media:   media,
		TotalGB: totalGB,
	}
}
