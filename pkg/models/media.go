package models

import (
	"photo-gallery/internal/gallery"
	"photo-gallery/internal/models"
)

// UploadResponse reports the stored item and the storage left after it
type UploadResponse struct {
	Item    models.MediaItem `json:"item"`
	Storage gallery.Usage    `json:"storage"`
}

// PurchaseResponse is returned to a buyer after a committed purchase
type PurchaseResponse struct {
	Status           string   `json:"status"`
	GalleryPurchased bool     `json:"gallery_purchased"`
	PurchasedMedia   []string `json:"purchased_media"`
}

func NewPurchaseResponse(state gallery.PurchaseState) PurchaseResponse {
	return PurchaseResponse{
		Status:           "Purchase complete",
		GalleryPurchased: state.GalleryPurchased,
		PurchasedMedia:   state.IDs(),
	}
}

// DownloadResponse hands out the full-resolution location of an item
type DownloadResponse struct {
	MediaID  string `json:"media_id"`
	URL      string `json:"url"`
	Filename string `json:"filename"`
}
