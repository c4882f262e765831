package api

import (
	"errors"
	"net/http"

	"photo-gallery/internal/gallery"
	"photo-gallery/internal/session"
	"photo-gallery/internal/simulate"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

func statusFor(err error) int {
	switch {
	case errors.Is(err, gallery.ErrInvalidAccessCode),
		errors.Is(err, session.ErrNotFound):
		return http.StatusUnauthorized
	case errors.Is(err, gallery.ErrInvalidPrice),
		errors.Is(err, gallery.ErrInvalidPayoutDetails),
		errors.Is(err, gallery.ErrEmptyOrUnchangedName),
		errors.Is(err, gallery.ErrMissingCredentials),
		errors.Is(err, gallery.ErrInvalidPlan):
		return http.StatusBadRequest
	case errors.Is(err, gallery.ErrInsufficientStorage):
		return http.StatusInsufficientStorage
	case errors.Is(err, gallery.ErrAlreadyPurchased),
		errors.Is(err, gallery.ErrNothingToPurchase),
		errors.Is(err, gallery.ErrNothingToPayOut),
		errors.Is(err, gallery.ErrDuplicateCode):
		return http.StatusConflict
	case errors.Is(err, simulate.ErrInFlight):
		return http.StatusTooManyRequests
	case errors.Is(err, gallery.ErrFolderNotFound),
		errors.Is(err, gallery.ErrMediaNotFound):
		return http.StatusNotFound
	case errors.Is(err, gallery.ErrAccessDenied),
		errors.Is(err, session.ErrNotBuyer):
		return http.StatusForbidden
	}
	return http.StatusInternalServerError
}

func respondError(c *gin.Context, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		log.Printf("Error handling %s %s: %v", c.Request.Method, c.FullPath(), err)
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
