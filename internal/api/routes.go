package api

import (
	"photo-gallery/internal/gallery"
	"photo-gallery/internal/models"
	"photo-gallery/internal/session"
	"photo-gallery/internal/simulate"

	"github.com/gin-gonic/gin"
)

// Handlers bundles every API handler over one service and session table
type Handlers struct {
	Sessions *session.Manager
	Auth     *AuthHandler
	Gallery  *GalleryHandler
	Settings *SettingsHandler
	Storage  *StorageHandler
}

func NewHandlers(svc *gallery.Service, sessions *session.Manager, p *simulate.Processor) *Handlers {
	return &Handlers{
		Sessions: sessions,
		Auth:     NewAuthHandler(svc, sessions, p),
		Gallery:  NewGalleryHandler(svc, sessions, p),
		Settings: NewSettingsHandler(svc, p),
		Storage:  NewStorageHandler(svc, p),
	}
}

// Register mounts the API on apiGroup. loginGuards run in front of the login
// route only, e.g. a rate limiter.
func (h *Handlers) Register(apiGroup *gin.RouterGroup, loginGuards ...gin.HandlerFunc) {
	apiGroup.POST("/login", append(loginGuards, h.Auth.Login)...)

	authed := apiGroup.Group("", RequireSession(h.Sessions))
	{
		authed.POST("/logout", h.Auth.Logout)

		// Viewer routes, open to buyers for their own folder
		authed.GET("/folders/:id", h.Gallery.GetFolder)
		authed.POST("/folders/:id/media/:mediaId/download", h.Gallery.Download)

		buyer := authed.Group("", RequireRole(models.RoleBuyer))
		{
			buyer.POST("/folders/:id/purchase", h.Gallery.PurchaseGallery)
			buyer.POST("/folders/:id/media/:mediaId/purchase", h.Gallery.PurchaseItem)
		}

		owner := authed.Group("", RequireRole(models.RolePhotographer))
		{
			owner.PUT("/session/folder", h.Auth.SelectFolder)
			owner.DELETE("/session/folder", h.Auth.ClearFolder)

			owner.GET("/folders", h.Gallery.Dashboard)
			owner.POST("/folders", h.Gallery.CreateFolder)
			owner.POST("/folders/:id/media", h.Gallery.Upload)
			owner.DELETE("/folders/:id/media/:mediaId", h.Gallery.DetachMedia)
			owner.GET("/folders/:id/share", h.Gallery.Share)
			owner.GET("/folders/:id/activity", h.Gallery.Activity)

			owner.PUT("/folders/:id/prices", h.Settings.SetPrice)
			owner.PUT("/folders/:id/free-access", h.Settings.SetFreeAccess)
			owner.PUT("/folders/:id/name", h.Settings.Rename)
			owner.POST("/folders/:id/payout", h.Settings.RequestPayout)

			owner.GET("/storage", h.Storage.Usage)
			owner.GET("/storage/plans", h.Storage.Plans)
			owner.POST("/storage/upgrade", h.Storage.Upgrade)
		}
	}
}
