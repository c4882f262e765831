package session

import (
	"errors"
	"sync"
	"time"

	"photo-gallery/internal/gallery"
	"photo-gallery/internal/models"

	"github.com/google/uuid"
)

var (
	ErrNotFound         = errors.New("session not found")
	ErrNotBuyer         = errors.New("only buyer sessions hold purchases")
	ErrBuyerNeedsFolder = errors.New("buyer session requires a folder")
)

// Session is one login. Buyers are pinned to a single folder and carry their
// purchases for that folder; nothing here outlives the process.
type Session struct {
	Token          string
	Role           models.Role
	ActiveFolderID string
	Purchases      gallery.PurchaseState
	CreatedAt      time.Time
}

// Manager is the in-memory session table
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]Session
}

func NewManager() *Manager {
	return &Manager{sessions: make(map[string]Session)}
}

func (m *Manager) Create(access gallery.Access) (Session, error) {
	if access.Role == models.RoleBuyer && access.FolderID == "" {
		return Session{}, ErrBuyerNeedsFolder
	}

	s := Session{
		Token:          uuid.NewString(),
		Role:           access.Role,
		ActiveFolderID: access.FolderID,
		CreatedAt:      time.Now().UTC(),
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.Token] = s
	return s, nil
}

func (m *Manager) Get(token string) (Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[token]
	if !ok {
		return Session{}, ErrNotFound
	}
	return s, nil
}

func (m *Manager) Delete(token string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, token)
}

// SelectFolder moves a photographer session into a gallery
func (m *Manager) SelectFolder(token, folderID string) (Session, error) {
	return m.update(token, func(s *Session) error {
		if s.Role != models.RolePhotographer {
			return errors.New("only photographers can switch folders")
		}
		s.ActiveFolderID = folderID
		return nil
	})
}

// ClearFolder returns a photographer session to the dashboard
func (m *Manager) ClearFolder(token string) (Session, error) {
	return m.update(token, func(s *Session) error {
		if s.Role != models.RolePhotographer {
			return errors.New("only photographers can leave a folder")
		}
		s.ActiveFolderID = ""
		return nil
	})
}

// SetPurchases stores the buyer's new purchase state after a committed purchase
func (m *Manager) SetPurchases(token string, p gallery.PurchaseState) (Session, error) {
	return m.update(token, func(s *Session) error {
		if s.Role != models.RoleBuyer {
			return ErrNotBuyer
		}
		s.Purchases = p
		return nil
	})
}

func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

func (m *Manager) update(token string, fn func(*Session) error) (Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[token]
	if !ok {
		return Session{}, ErrNotFound
	}
	if err := fn(&s); err != nil {
		return Session{}, err
	}
	m.sessions[token] = s
	return s, nil
}
