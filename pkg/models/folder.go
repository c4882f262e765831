package models

import (
	"photo-gallery/internal/gallery"
	"photo-gallery/internal/models"
)

// BuyerFolder is the folder as a client sees it: pricing only, no ledger
type BuyerFolder struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	GalleryPrice float64 `json:"gallery_price"`
	PhotoPrice   float64 `json:"photo_price"`
	IsFreeAccess bool    `json:"is_free_access"`
	MediaCount   int     `json:"media_count"`
}

func NewBuyerFolder(f models.Folder) BuyerFolder {
	return BuyerFolder{
		ID:           f.ID,
		Name:         f.Name,
		GalleryPrice: f.GalleryPrice,
		PhotoPrice:   f.PhotoPrice,
		IsFreeAccess: f.IsFreeAccess,
		MediaCount:   len(f.MediaIDs),
	}
}

// GalleryResponse is a rendered gallery. Folder holds a models.Folder for the
// photographer and a BuyerFolder for clients.
type GalleryResponse struct {
	Folder           interface{}         `json:"folder"`
	Media            []gallery.MediaView `json:"media"`
	GalleryPurchased bool                `json:"gallery_purchased"`
	AvailableBalance *float64            `json:"available_balance,omitempty"`
}

// NewGalleryResponse redacts the view for buyers
func NewGalleryResponse(view gallery.GalleryView, role models.Role) GalleryResponse {
	resp := GalleryResponse{
		Media:            view.Media,
		GalleryPurchased: view.GalleryPurchased,
	}
	if resp.Media == nil {
		resp.Media = []gallery.MediaView{}
	}
	if role == models.RolePhotographer {
		balance := view.AvailableBalance
		resp.Folder = view.Folder
		resp.AvailableBalance = &balance
	} else {
		resp.Folder = NewBuyerFolder(view.Folder)
	}
	return resp
}

type PriceRequest struct {
	Target string   `json:"target" binding:"required"`
	Value  *float64 `json:"value" binding:"required"`
}

type FreeAccessRequest struct {
	Enabled *bool `json:"enabled" binding:"required"`
}

type RenameRequest struct {
	Name string `json:"name"`
}
