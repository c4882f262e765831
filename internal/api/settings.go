package api

import (
	"net/http"

	"photo-gallery/internal/gallery"
	"photo-gallery/internal/simulate"
	dto "photo-gallery/pkg/models"

	"github.com/gin-gonic/gin"
)

// SettingsHandler covers the photographer's folder settings and payouts
type SettingsHandler struct {
	Service   *gallery.Service
	Processor *simulate.Processor
}

func NewSettingsHandler(svc *gallery.Service, p *simulate.Processor) *SettingsHandler {
	return &SettingsHandler{Service: svc, Processor: p}
}

func (h *SettingsHandler) SetPrice(c *gin.Context) {
	var req dto.PriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	folder, err := h.Service.SetPrice(c.Request.Context(), c.Param("id"), gallery.PriceTarget(req.Target), *req.Value)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, folder)
}

func (h *SettingsHandler) SetFreeAccess(c *gin.Context) {
	var req dto.FreeAccessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	folder, err := h.Service.SetFreeAccess(c.Request.Context(), c.Param("id"), *req.Enabled)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, folder)
}

func (h *SettingsHandler) Rename(c *gin.Context) {
	var req dto.RenameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	folder, err := h.Service.Rename(c.Request.Context(), c.Param("id"), req.Name)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, folder)
}

// RequestPayout withdraws the folder's whole available balance after the
// simulated transfer delay.
func (h *SettingsHandler) RequestPayout(c *gin.Context) {
	var req dto.PayoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	details := req.Details()
	if err := details.Validate(); err != nil {
		respondError(c, err)
		return
	}

	folderID := c.Param("id")
	ctx := c.Request.Context()
	key := simulate.Key(currentSession(c).Token, string(simulate.ActionPayout), folderID)
	res := simulate.Run(h.Processor, key, simulate.ActionPayout, func() (gallery.Payout, error) {
		_, payout, err := h.Service.RequestPayout(ctx, folderID, details)
		return payout, err
	})
	if !res.OK() {
		respondError(c, res.Err)
		return
	}
	c.JSON(http.StatusOK, res.Value)
}
