package gallery

import (
	"sync"
	"testing"

	"photo-gallery/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanAdmit(t *testing.T) {
	// 1000 MB used on a 1 GB plan leaves 24 MB
	assert.True(t, CanAdmit(24, 1000, 1))
	assert.False(t, CanAdmit(30, 1000, 1))
	assert.True(t, CanAdmit(30, 994, 1))
	assert.False(t, CanAdmit(50, 1000, 1))
	assert.True(t, CanAdmit(0, 1024, 1))
}

func TestQuota_StoreAdmitsAndRejects(t *testing.T) {
	media := NewMediaStore(models.MediaItem{ID: "existing", SizeMB: 1000})
	q := NewQuota(media, 1)

	require.NoError(t, q.Store(models.MediaItem{ID: "small", SizeMB: 20}))
	assert.Equal(t, 2, media.Len())

	err := q.Store(models.MediaItem{ID: "big", SizeMB: 50})
	assert.ErrorIs(t, err, ErrInsufficientStorage)
	_, ok := media.Get("big")
	assert.False(t, ok)
	assert.Equal(t, 1020.0, media.UsedMB())
}

func TestQuota_ConcurrentStoreNeverOverfills(t *testing.T) {
	media := NewMediaStore()
	q := NewQuota(media, 1)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = q.Store(models.MediaItem{ID: string(rune('a' + i)), SizeMB: 100})
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 10, media.Len())
	assert.LessOrEqual(t, media.UsedMB(), 1024.0)
}

func TestQuota_Usage(t *testing.T) {
	media := NewMediaStore(models.MediaItem{ID: "a", SizeMB: 256})
	q := NewQuota(media, 1)

	u := q.Usage()
	assert.Equal(t, 256.0, u.UsedMB)
	assert.Equal(t, 1.0, u.TotalGB)
	assert.Equal(t, 768.0, u.RemainingMB)
	assert.InDelta(t, 25.0, u.Percent, 1e-9)
}

func TestQuota_DefaultsAndUpgrade(t *testing.T) {
	q := NewQuota(NewMediaStore(), 0)
	assert.Equal(t, float64(DefaultTotalGB), q.TotalGB())

	require.NoError(t, q.Upgrade(100))
	assert.Equal(t, 100.0, q.TotalGB())

	// downgrades are allowed even below current usage
	require.NoError(t, q.Upgrade(0.5))
	assert.Equal(t, 0.5, q.TotalGB())

	assert.ErrorIs(t, q.Upgrade(0), ErrInvalidPlan)
	assert.ErrorIs(t, q.Upgrade(-5), ErrInvalidPlan)
	assert.Equal(t, 0.5, q.TotalGB())
}

func TestQuota_UsageSpansFolders(t *testing.T) {
	media := NewMediaStore(
		models.MediaItem{ID: "in-a", SizeMB: 10},
		models.MediaItem{ID: "in-b", SizeMB: 15},
		models.MediaItem{ID: "detached", SizeMB: 5},
	)
	q := NewQuota(media, 1)
	assert.Equal(t, 30.0, q.Usage().UsedMB)
}
