package session

import (
	"testing"

	"photo-gallery/internal/gallery"
	"photo-gallery/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManager_CreateAndGet(t *testing.T) {
	m := NewManager()

	s, err := m.Create(gallery.Access{Role: models.RoleBuyer, FolderID: "folder-1"})
	require.NoError(t, err)
	assert.NotEmpty(t, s.Token)
	assert.Equal(t, "folder-1", s.ActiveFolderID)

	got, err := m.Get(s.Token)
	require.NoError(t, err)
	assert.Equal(t, s.Token, got.Token)
	assert.False(t, got.Purchases.GalleryPurchased)
}

func TestManager_BuyerRequiresFolder(t *testing.T) {
	m := NewManager()
	_, err := m.Create(gallery.Access{Role: models.RoleBuyer})
	assert.ErrorIs(t, err, ErrBuyerNeedsFolder)
	assert.Equal(t, 0, m.Len())
}

func TestManager_PhotographerFolderNavigation(t *testing.T) {
	m := NewManager()
	s, err := m.Create(gallery.Access{Role: models.RolePhotographer})
	require.NoError(t, err)
	assert.Empty(t, s.ActiveFolderID)

	s, err = m.SelectFolder(s.Token, "folder-2")
	require.NoError(t, err)
	assert.Equal(t, "folder-2", s.ActiveFolderID)

	s, err = m.ClearFolder(s.Token)
	require.NoError(t, err)
	assert.Empty(t, s.ActiveFolderID)
}

func TestManager_BuyerCannotSwitchFolder(t *testing.T) {
	m := NewManager()
	s, err := m.Create(gallery.Access{Role: models.RoleBuyer, FolderID: "folder-1"})
	require.NoError(t, err)

	_, err = m.SelectFolder(s.Token, "folder-2")
	assert.Error(t, err)

	got, _ := m.Get(s.Token)
	assert.Equal(t, "folder-1", got.ActiveFolderID)
}

func TestManager_SetPurchases(t *testing.T) {
	m := NewManager()
	buyer, _ := m.Create(gallery.Access{Role: models.RoleBuyer, FolderID: "folder-1"})
	owner, _ := m.Create(gallery.Access{Role: models.RolePhotographer})

	state := gallery.PurchaseState{}.WithItem("media-1")
	updated, err := m.SetPurchases(buyer.Token, state)
	require.NoError(t, err)
	assert.True(t, updated.Purchases.Has("media-1"))

	_, err = m.SetPurchases(owner.Token, state)
	assert.ErrorIs(t, err, ErrNotBuyer)
}

func TestManager_Delete(t *testing.T) {
	m := NewManager()
	s, _ := m.Create(gallery.Access{Role: models.RolePhotographer})
	m.Delete(s.Token)

	_, err := m.Get(s.Token)
	assert.ErrorIs(t, err, ErrNotFound)
}
