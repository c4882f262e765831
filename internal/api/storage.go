package api

import (
	"net/http"

	"photo-gallery/internal/gallery"
	"photo-gallery/internal/simulate"
	dto "photo-gallery/pkg/models"

	"github.com/gin-gonic/gin"
)

type StorageHandler struct {
	Service   *gallery.Service
	Processor *simulate.Processor
}

func NewStorageHandler(svc *gallery.Service, p *simulate.Processor) *StorageHandler {
	return &StorageHandler{Service: svc, Processor: p}
}

func (h *StorageHandler) Usage(c *gin.Context) {
	c.JSON(http.StatusOK, h.Service.Usage())
}

func (h *StorageHandler) Plans(c *gin.Context) {
	c.JSON(http.StatusOK, gallery.Plans)
}

func (h *StorageHandler) Upgrade(c *gin.Context) {
	var req dto.StorageUpgradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()
	key := simulate.Key(currentSession(c).Token, string(simulate.ActionStorageUpgrade))
	res := simulate.Run(h.Processor, key, simulate.ActionStorageUpgrade, func() (gallery.Usage, error) {
		return h.Service.UpgradeStorage(ctx, req.SizeGB)
	})
	if !res.OK() {
		respondError(c, res.Err)
		return
	}
	c.JSON(http.StatusOK, res.Value)
}
