package database

import (
	"context"
	"testing"

	"photo-gallery/internal/config"
	"photo-gallery/internal/gallery"
	"photo-gallery/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshotStore_SaveLoad(t *testing.T) {
	store, err := OpenSQLiteSnapshots(":memory:")
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()
	empty, err := store.Load(ctx)
	require.NoError(t, err)
	assert.True(t, empty.Empty())
	assert.Equal(t, 0.0, empty.TotalGB)

	snap := gallery.Snapshot{
		Folders: []models.Folder{
			{ID: "folder-b", Name: "Second created first", AccessCode: "BBB", MediaIDs: []string{"m2", "m1"}, GalleryPrice: 10, PhotoPrice: 1,
				Analytics: models.Analytics{Purchases: 2, Downloads: 5}, TotalRevenue: 20, PaidOutBalance: 5},
			{ID: "folder-a", Name: "Empty", AccessCode: "AAA", MediaIDs: []string{}, IsFreeAccess: true},
		},
		Media: []models.MediaItem{
			{ID: "m1", Title: "One", SizeMB: 2.5, Price: 1, Type: models.MediaPhoto, URL: "u1", Date: "2024-06-01"},
			{ID: "m2", Title: "Two", SizeMB: 12, Price: 2, Type: models.MediaVideo, URL: "u2", ThumbnailURL: "t2"},
		},
		TotalGB: 50,
	}
	require.NoError(t, store.Save(ctx, snap))

	got, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, snap, got)

	// saving again replaces instead of appending
	snap.Folders = snap.Folders[:1]
	snap.TotalGB = 100
	require.NoError(t, store.Save(ctx, snap))

	got, err = store.Load(ctx)
	require.NoError(t, err)
	require.Len(t, got.Folders, 1)
	assert.Equal(t, "folder-b", got.Folders[0].ID)
	assert.Equal(t, 100.0, got.TotalGB)
}

func TestOpenSnapshotStore_UnknownDriver(t *testing.T) {
	_, err := OpenSnapshotStore(&config.Config{SnapshotDriver: "mongo"})
	assert.Error(t, err)
}
