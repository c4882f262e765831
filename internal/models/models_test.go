package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFolder_CloneDoesNotShareMediaIDs(t *testing.T) {
	f := Folder{ID: "f1", MediaIDs: []string{"a", "b"}}
	c := f.Clone()
	c.MediaIDs[0] = "z"

	assert.Equal(t, "a", f.MediaIDs[0])
	assert.True(t, f.Contains("b"))
	assert.False(t, f.Contains("z"))
}

func TestFolder_AvailableBalance(t *testing.T) {
	f := Folder{TotalRevenue: 30, PaidOutBalance: 10}
	assert.InDelta(t, 20, f.AvailableBalance(), 1e-9)
}

func TestMediaItem_DisplayURL(t *testing.T) {
	photo := MediaItem{URL: "https://x/p.jpg"}
	video := MediaItem{URL: "https://x/v.mp4", ThumbnailURL: "https://x/v.jpg"}

	assert.Equal(t, "https://x/p.jpg", photo.DisplayURL())
	assert.Equal(t, "https://x/v.jpg", video.DisplayURL())
}

func TestRole_Valid(t *testing.T) {
	assert.True(t, RoleBuyer.Valid())
	assert.True(t, RolePhotographer.Valid())
	assert.False(t, Role("user").Valid())
}
