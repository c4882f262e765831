package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"photo-gallery/internal/gallery"
	"photo-gallery/internal/session"
	"photo-gallery/internal/simulate"
	dto "photo-gallery/pkg/models"

	"github.com/gin-gonic/gin"
)

const (
	defaultActivityLimit = 50
	multipartOverhead    = 1 << 20
)

type GalleryHandler struct {
	Service   *gallery.Service
	Sessions  *session.Manager
	Processor *simulate.Processor
}

func NewGalleryHandler(svc *gallery.Service, sessions *session.Manager, p *simulate.Processor) *GalleryHandler {
	return &GalleryHandler{Service: svc, Sessions: sessions, Processor: p}
}

func (h *GalleryHandler) Dashboard(c *gin.Context) {
	c.JSON(http.StatusOK, h.Service.Dashboard())
}

func (h *GalleryHandler) CreateFolder(c *gin.Context) {
	folder, err := h.Service.CreateFolder(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, folder)
}

func (h *GalleryHandler) GetFolder(c *gin.Context) {
	folderID := c.Param("id")
	if !canOpenFolder(c, folderID) {
		return
	}
	s := currentSession(c)

	view, err := h.Service.View(s.Role, folderID, s.Purchases)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewGalleryResponse(view, s.Role))
}

// Upload accepts a multipart "file" field. The body is capped at the free
// space plus multipartOverhead, and the declared size is checked against the
// quota before the file is read. The quota is checked again when the item is
// stored.
func (h *GalleryHandler) Upload(c *gin.Context) {
	free := h.Service.Usage().RemainingMB
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, gallery.SizeBytes(free)+multipartOverhead)

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondError(c, fmt.Errorf("upload exceeds %.2f MB free: %w", free, gallery.ErrInsufficientStorage))
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "File is required"})
		return
	}
	defer file.Close()

	if err := h.Service.Quota.Admit(gallery.SizeMB(header.Size)); err != nil {
		respondError(c, err)
		return
	}

	fileBytes, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read file"})
		return
	}

	blob := gallery.Blob{
		Name: header.Filename,
		Size: header.Size,
		Type: header.Header.Get("Content-Type"),
		Data: fileBytes,
	}
	item, _, err := h.Service.Upload(c.Request.Context(), c.Param("id"), blob)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.UploadResponse{Item: item, Storage: h.Service.Usage()})
}

func (h *GalleryHandler) DetachMedia(c *gin.Context) {
	folder, err := h.Service.DetachMedia(c.Request.Context(), c.Param("id"), c.Param("mediaId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, folder)
}

// PurchaseGallery charges the gallery price after the simulated payment delay.
// Both purchase endpoints share one in-flight key per session, and the
// session's purchase state is read after the delay, so two purchases from one
// buyer can never overwrite each other's unlocks.
func (h *GalleryHandler) PurchaseGallery(c *gin.Context) {
	folderID := c.Param("id")
	if !canOpenFolder(c, folderID) {
		return
	}
	ctx := c.Request.Context()
	h.purchase(c, simulate.ActionGalleryPayment, func(state gallery.PurchaseState) (gallery.PurchaseState, error) {
		_, next, err := h.Service.PurchaseGallery(ctx, folderID, state)
		return next, err
	})
}

func (h *GalleryHandler) PurchaseItem(c *gin.Context) {
	folderID := c.Param("id")
	if !canOpenFolder(c, folderID) {
		return
	}
	mediaID := c.Param("mediaId")
	ctx := c.Request.Context()
	h.purchase(c, simulate.ActionItemPayment, func(state gallery.PurchaseState) (gallery.PurchaseState, error) {
		_, next, err := h.Service.PurchaseItem(ctx, folderID, mediaID, state)
		return next, err
	})
}

func (h *GalleryHandler) purchase(c *gin.Context, action simulate.Action, buy func(gallery.PurchaseState) (gallery.PurchaseState, error)) {
	token := currentSession(c).Token

	res := simulate.Run(h.Processor, simulate.Key(token, "purchase"), action, func() (gallery.PurchaseState, error) {
		s, err := h.Sessions.Get(token)
		if err != nil {
			return gallery.PurchaseState{}, err
		}
		next, err := buy(s.Purchases)
		if err != nil {
			return s.Purchases, err
		}
		if _, err := h.Sessions.SetPurchases(token, next); err != nil {
			return s.Purchases, err
		}
		return next, nil
	})
	if !res.OK() {
		respondError(c, res.Err)
		return
	}
	c.JSON(http.StatusOK, dto.NewPurchaseResponse(res.Value))
}

func (h *GalleryHandler) Download(c *gin.Context) {
	folderID := c.Param("id")
	if !canOpenFolder(c, folderID) {
		return
	}
	s := currentSession(c)

	item, _, err := h.Service.Download(c.Request.Context(), s.Role, folderID, c.Param("mediaId"), s.Purchases)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.DownloadResponse{MediaID: item.ID, URL: item.URL, Filename: item.Title})
}

func (h *GalleryHandler) Share(c *gin.Context) {
	share, err := h.Service.Share(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, share)
}

func (h *GalleryHandler) Activity(c *gin.Context) {
	limit := defaultActivityLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a non-negative integer"})
			return
		}
		limit = n
	}

	activity, err := h.Service.Activity(c.Request.Context(), c.Param("id"), limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, activity)
}
