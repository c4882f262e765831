package api

import (
	"photo-gallery/internal/ws"

	"github.com/gin-gonic/gin"
)

// LiveUpdates opens the event stream for the caller's session. It must run
// after RequireSession.
func LiveUpdates(hub *ws.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		s := currentSession(c)
		hub.Serve(c, ws.Audience{Role: s.Role, FolderID: s.ActiveFolderID})
	}
}
