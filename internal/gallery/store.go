package gallery

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"photo-gallery/internal/models"
)

// MediaStore maps media ids to media records. Items are only ever added or
// replaced; removing media from a gallery detaches the id from the folder.
type MediaStore struct {
	mu    sync.RWMutex
	items map[string]models.MediaItem
}

func NewMediaStore(items ...models.MediaItem) *MediaStore {
	s := &MediaStore{items: make(map[string]models.MediaItem, len(items))}
	for _, item := range items {
		s.items[item.ID] = item
	}
	return s
}

func (s *MediaStore) Put(item models.MediaItem) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[item.ID] = item
}

func (s *MediaStore) Get(id string) (models.MediaItem, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	item, ok := s.items[id]
	return item, ok
}

// Resolve returns the items for ids in order, skipping unknown ids
func (s *MediaStore) Resolve(ids []string) []models.MediaItem {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.MediaItem, 0, len(ids))
	for _, id := range ids {
		if item, ok := s.items[id]; ok {
			out = append(out, item)
		}
	}
	return out
}

// All returns every item sorted by id
func (s *MediaStore) All() []models.MediaItem {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.MediaItem, 0, len(s.items))
	for _, item := range s.items {
		out = append(out, item)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// UsedMB sums SizeMB across the whole store, attached to a folder or not
func (s *MediaStore) UsedMB() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var total float64
	for _, item := range s.items {
		total += item.SizeMB
	}
	return total
}

func (s *MediaStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// FolderStore keeps galleries in creation order
type FolderStore struct {
	mu      sync.RWMutex
	folders []models.Folder
}

func NewFolderStore(folders ...models.Folder) *FolderStore {
	s := &FolderStore{}
	for _, f := range folders {
		s.folders = append(s.folders, f.Clone())
	}
	return s
}

func (s *FolderStore) List() []models.Folder {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Folder, len(s.folders))
	for i, f := range s.folders {
		out[i] = f.Clone()
	}
	return out
}

func (s *FolderStore) Get(id string) (models.Folder, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.indexLocked(id)
	if i < 0 {
		return models.Folder{}, fmt.Errorf("folder %s: %w", id, ErrFolderNotFound)
	}
	return s.folders[i].Clone(), nil
}

// FindByAccessCode matches case-insensitively against every folder's code
func (s *FolderStore) FindByAccessCode(code string) (models.Folder, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, f := range s.folders {
		if strings.EqualFold(f.AccessCode, code) {
			return f.Clone(), true
		}
	}
	return models.Folder{}, false
}

func (s *FolderStore) Create(f models.Folder) (models.Folder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.indexLocked(f.ID) >= 0 {
		return models.Folder{}, fmt.Errorf("folder %s already exists", f.ID)
	}
	if s.codeTakenLocked(f.AccessCode, "") {
		return models.Folder{}, fmt.Errorf("folder %s: %w", f.ID, ErrDuplicateCode)
	}
	s.folders = append(s.folders, f.Clone())
	return f.Clone(), nil
}

// Update applies fn to a copy of the folder and stores the result only when fn
// succeeds. The write lock is held across fn so precondition checks and the
// replacement happen as one step.
func (s *FolderStore) Update(id string, fn func(models.Folder) (models.Folder, error)) (models.Folder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexLocked(id)
	if i < 0 {
		return models.Folder{}, fmt.Errorf("folder %s: %w", id, ErrFolderNotFound)
	}

	next, err := fn(s.folders[i].Clone())
	if err != nil {
		return models.Folder{}, err
	}
	next.ID = id
	if s.codeTakenLocked(next.AccessCode, id) {
		return models.Folder{}, fmt.Errorf("folder %s: %w", id, ErrDuplicateCode)
	}
	s.folders[i] = next.Clone()
	return next, nil
}

// Replace swaps in a full folder record
func (s *FolderStore) Replace(f models.Folder) (models.Folder, error) {
	return s.Update(f.ID, func(models.Folder) (models.Folder, error) {
		return f, nil
	})
}

func (s *FolderStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.folders)
}

func (s *FolderStore) indexLocked(id string) int {
	for i, f := range s.folders {
		if f.ID == id {
			return i
		}
	}
	return -1
}

func (s *FolderStore) codeTakenLocked(code, exceptID string) bool {
	for _, f := range s.folders {
		if f.ID != exceptID && strings.EqualFold(f.AccessCode, code) {
			return true
		}
	}
	return false
}
