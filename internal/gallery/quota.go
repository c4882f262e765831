package gallery

import (
	"fmt"
	"sync"

	"photo-gallery/internal/models"
)

const mbPerGB = 1024

// CanAdmit reports whether an item of newMB fits under a totalGB ceiling when
// usedMB is already taken.
func CanAdmit(newMB, usedMB, totalGB float64) bool {
	return newMB <= totalGB*mbPerGB-usedMB
}

// Plan is a purchasable storage tier
type Plan struct {
	SizeGB float64 `json:"size_gb"`
	Price  float64 `json:"price"`
}

// Plans lists the storage tiers offered on the upgrade screen
var Plans = []Plan{
	{SizeGB: 25, Price: 0.50},
	{SizeGB: 50, Price: 1.00},
	{SizeGB: 100, Price: 1.22},
}

const DefaultTotalGB = 25

// Usage is a point-in-time view of storage consumption
type Usage struct {
	UsedMB      float64 `json:"used_mb"`
	TotalGB     float64 `json:"total_gb"`
	RemainingMB float64 `json:"remaining_mb"`
	Percent     float64 `json:"percent"`
}

// Quota enforces the storage ceiling. Used space is always recomputed from the
// whole media store, across every folder.
type Quota struct {
	mu      sync.RWMutex
	totalGB float64
	media   *MediaStore
}

func NewQuota(media *MediaStore, totalGB float64) *Quota {
	if totalGB <= 0 {
		totalGB = DefaultTotalGB
	}
	return &Quota{media: media, totalGB: totalGB}
}

func (q *Quota) TotalGB() float64 {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.totalGB
}

// Admit fails with ErrInsufficientStorage when newMB does not fit
func (q *Quota) Admit(newMB float64) error {
	q.mu.RLock()
	defer q.mu.RUnlock()

	used := q.media.UsedMB()
	if !CanAdmit(newMB, used, q.totalGB) {
		return fmt.Errorf("%.2f MB requested, %.2f MB free: %w", newMB, q.totalGB*mbPerGB-used, ErrInsufficientStorage)
	}
	return nil
}

// Store admits item and puts it in the media store as one step, so two
// concurrent uploads cannot both squeeze into the same free space. A rejected
// item is not stored.
func (q *Quota) Store(item models.MediaItem) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	used := q.media.UsedMB()
	if !CanAdmit(item.SizeMB, used, q.totalGB) {
		return fmt.Errorf("%.2f MB requested, %.2f MB free: %w", item.SizeMB, q.totalGB*mbPerGB-used, ErrInsufficientStorage)
	}
	q.media.Put(item)
	return nil
}

func (q *Quota) Usage() Usage {
	q.mu.RLock()
	defer q.mu.RUnlock()

	used := q.media.UsedMB()
	total := q.totalGB * mbPerGB
	u := Usage{UsedMB: used, TotalGB: q.totalGB, RemainingMB: total - used}
	if total > 0 {
		u.Percent = used / total * 100
	}
	return u
}

// Upgrade replaces the ceiling. There is no payment gate here; the caller
// decides whether the plan change was paid for.
func (q *Quota) Upgrade(newTotalGB float64) error {
	if !(newTotalGB > 0) {
		return fmt.Errorf("%v GB: %w", newTotalGB, ErrInvalidPlan)
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	q.totalGB = newTotalGB
	return nil
}
