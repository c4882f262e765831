package gallery

import "photo-gallery/internal/models"

// Snapshot is the whole persistent state at one instant. Session purchase
// state is deliberately not part of it.
type Snapshot struct {
	Folders []models.Folder
	Media   []models.MediaItem
	TotalGB float64
}

func (s *Service) Snapshot() Snapshot {
	return Snapshot{
		Folders: s.Folders.List(),
		Media:   s.Media.All(),
		TotalGB: s.Quota.TotalGB(),
	}
}

// Empty reports whether there is nothing worth restoring
func (s Snapshot) Empty() bool {
	return len(s.Folders) == 0 && len(s.Media) == 0
}

// FromSnapshot builds a fresh service over the snapshot's contents
func FromSnapshot(snap Snapshot) *Service {
	media := NewMediaStore(snap.Media...)
	folders := NewFolderStore(snap.Folders...)
	return NewService(media, folders, NewQuota(media, snap.TotalGB))
}
