package ws

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"photo-gallery/internal/gallery"
	"photo-gallery/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleFolder(id, code string) *models.Folder {
	return &models.Folder{
		ID:             id,
		Name:           "Wedding",
		AccessCode:     code,
		MediaIDs:       []string{"m1"},
		GalleryPrice:   24.99,
		TotalRevenue:   100,
		PaidOutBalance: 40,
	}
}

func TestFrame_PhotographerGetsFullEvent(t *testing.T) {
	f := sampleFolder("folder-1", "ABC")
	frame, ok := Frame(Audience{Role: models.RolePhotographer}, gallery.Event{Type: gallery.EventFolderUpdated, Folder: f, Data: *f})
	require.True(t, ok)
	assert.Contains(t, string(frame), `"access_code":"ABC"`)
	assert.Contains(t, string(frame), `"total_revenue":100`)
}

func TestFrame_BuyerGetsOwnFolderRedacted(t *testing.T) {
	f := sampleFolder("folder-1", "ABC")
	ev := gallery.Event{Type: gallery.EventMediaAdded, Folder: f, Data: map[string]interface{}{"folder": *f}}

	frame, ok := Frame(Audience{Role: models.RoleBuyer, FolderID: "folder-1"}, ev)
	require.True(t, ok)

	var msg struct {
		Type string                 `json:"type"`
		Data map[string]interface{} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(frame, &msg))
	assert.Equal(t, gallery.EventMediaAdded, msg.Type)
	assert.Equal(t, "folder-1", msg.Data["id"])
	assert.NotContains(t, msg.Data, "access_code")
	assert.NotContains(t, msg.Data, "total_revenue")
	assert.NotContains(t, msg.Data, "paid_out_balance")
}

func TestFrame_Withheld(t *testing.T) {
	f := sampleFolder("folder-2", "XYZ")
	cases := []struct {
		name string
		aud  Audience
		ev   gallery.Event
	}{
		{"buyer of another folder", Audience{Role: models.RoleBuyer, FolderID: "folder-1"}, gallery.Event{Type: gallery.EventFolderUpdated, Folder: f, Data: *f}},
		{"buyer and storage", Audience{Role: models.RoleBuyer, FolderID: "folder-1"}, gallery.Event{Type: gallery.EventStorageUpdated, Data: 1}},
		{"no role", Audience{}, gallery.Event{Type: gallery.EventFolderUpdated, Folder: f, Data: *f}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, ok := Frame(tc.aud, tc.ev)
			assert.False(t, ok)
		})
	}
}

func dial(t *testing.T, hub *Hub, aud Audience) *websocket.Conn {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/ws", func(c *gin.Context) { hub.Serve(c, aud) })
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/ws", nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestHub_DeliversPerAudience(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	owner := dial(t, hub, Audience{Role: models.RolePhotographer})
	buyer := dial(t, hub, Audience{Role: models.RoleBuyer, FolderID: "folder-1"})
	require.Eventually(t, func() bool { return hub.ClientCount() == 2 }, time.Second, 10*time.Millisecond)

	other := sampleFolder("folder-2", "XYZ")
	own := sampleFolder("folder-1", "ABC")
	hub.Publish(gallery.Event{Type: gallery.EventFolderUpdated, Folder: other, Data: *other})
	hub.Publish(gallery.Event{Type: gallery.EventFolderUpdated, Folder: own, Data: *own})

	require.NoError(t, owner.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, first, err := owner.ReadMessage()
	require.NoError(t, err)
	assert.Contains(t, string(first), `"access_code":"XYZ"`)

	require.NoError(t, buyer.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, msg, err := buyer.ReadMessage()
	require.NoError(t, err)
	assert.Contains(t, string(msg), `"id":"folder-1"`)
	assert.NotContains(t, string(msg), "XYZ")
	assert.NotContains(t, string(msg), "access_code")
}

func TestHub_PublishDoesNotBlockWithoutRun(t *testing.T) {
	hub := NewHub()

	done := make(chan struct{})
	go func() {
		for i := 0; i < 200; i++ {
			hub.Publish(gallery.Event{Type: gallery.EventStorageUpdated, Data: i})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Publish blocked")
	}
}
