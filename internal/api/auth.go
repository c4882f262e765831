package api

import (
	"net/http"
	"strings"

	"photo-gallery/internal/gallery"
	"photo-gallery/internal/models"
	"photo-gallery/internal/session"
	"photo-gallery/internal/simulate"
	dto "photo-gallery/pkg/models"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

const sessionContextKey = "session"

type AuthHandler struct {
	Service   *gallery.Service
	Sessions  *session.Manager
	Processor *simulate.Processor
}

func NewAuthHandler(svc *gallery.Service, sessions *session.Manager, p *simulate.Processor) *AuthHandler {
	return &AuthHandler{Service: svc, Sessions: sessions, Processor: p}
}

// Login signs a photographer in to the dashboard or a buyer in to the gallery
// matching their access code.
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	role := models.Role(req.Role)
	if !role.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "role must be photographer or buyer"})
		return
	}
	if role == models.RolePhotographer && (req.Email == "" || req.Password == "") {
		respondError(c, gallery.ErrMissingCredentials)
		return
	}

	res := simulate.Run(h.Processor, loginKey(role, req), simulate.ActionLogin,
		func() (session.Session, error) {
			access, err := h.Service.Login(role, req.AccessCode)
			if err != nil {
				return session.Session{}, err
			}
			return h.Sessions.Create(access)
		})
	if !res.OK() {
		respondError(c, res.Err)
		return
	}

	log.WithFields(log.Fields{"role": role, "folder_id": res.Value.ActiveFolderID}).Info("Signed in")
	c.JSON(http.StatusOK, sessionResponse(res.Value))
}

// loginKey scopes the in-flight flag to the identity being signed in, so
// callers sharing an address do not block each other.
func loginKey(role models.Role, req dto.LoginRequest) string {
	identity := req.AccessCode
	if role == models.RolePhotographer {
		identity = req.Email
	}
	return simulate.Key(string(simulate.ActionLogin), string(role), strings.ToLower(identity))
}

func (h *AuthHandler) Logout(c *gin.Context) {
	h.Sessions.Delete(currentSession(c).Token)
	c.JSON(http.StatusOK, gin.H{"status": "Signed out"})
}

// SelectFolder opens a gallery from the photographer's dashboard
func (h *AuthHandler) SelectFolder(c *gin.Context) {
	var req dto.SelectFolderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if _, err := h.Service.Folders.Get(req.FolderID); err != nil {
		respondError(c, err)
		return
	}

	s, err := h.Sessions.SelectFolder(currentSession(c).Token, req.FolderID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, sessionResponse(s))
}

// ClearFolder goes back to the dashboard
func (h *AuthHandler) ClearFolder(c *gin.Context) {
	s, err := h.Sessions.ClearFolder(currentSession(c).Token)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, sessionResponse(s))
}

func sessionResponse(s session.Session) dto.SessionResponse {
	return dto.SessionResponse{
		Token:          s.Token,
		Role:           string(s.Role),
		ActiveFolderID: s.ActiveFolderID,
	}
}

// RequireSession resolves the bearer token to a session. Browsers cannot set
// headers on a websocket handshake, so a "token" query parameter is accepted
// when the header is absent.
func RequireSession(sessions *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
		if token == "" {
			token = c.Query("token")
		}
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			return
		}
		s, err := sessions.Get(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}
		c.Set(sessionContextKey, s)
		c.Next()
	}
}

// RequireRole must run after RequireSession
func RequireRole(role models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		if currentSession(c).Role != role {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "only a " + string(role) + " can do this"})
			return
		}
		c.Next()
	}
}

func currentSession(c *gin.Context) session.Session {
	v, _ := c.Get(sessionContextKey)
	s, _ := v.(session.Session)
	return s
}

// canOpenFolder reports whether the session may look at folderID. Buyers are
// confined to the folder their code unlocked.
func canOpenFolder(c *gin.Context, folderID string) bool {
	s := currentSession(c)
	if s.Role == models.RoleBuyer && s.ActiveFolderID != folderID {
		c.JSON(http.StatusForbidden, gin.H{"error": "this gallery is not available to your session"})
		return false
	}
	return true
}
