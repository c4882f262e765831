package models

import "photo-gallery/internal/gallery"

type PayoutRequest struct {
	Method        string `json:"method" binding:"required"`
	AccountNumber string `json:"account_number"`
	RoutingNumber string `json:"routing_number"`
	Provider      string `json:"provider"`
	Email         string `json:"email"`
}

func (r PayoutRequest) Details() gallery.PayoutDetails {
	return gallery.PayoutDetails{
		Method:        gallery.PayoutMethod(r.Method),
		AccountNumber: r.AccountNumber,
		RoutingNumber: r.RoutingNumber,
		Provider:      r.Provider,
		Email:         r.Email,
	}
}

type StorageUpgradeRequest struct {
	SizeGB float64 `json:"size_gb" binding:"required"`
}
