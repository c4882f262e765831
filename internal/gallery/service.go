package gallery

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"net/url"
	"time"

	"photo-gallery/internal/metrics"
	"photo-gallery/internal/models"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// Activity kinds written to the Recorder
const (
	ActivityFolderCreated   = "folder_created"
	ActivityUpload          = "upload"
	ActivityMediaRemoved    = "media_removed"
	ActivityGalleryPurchase = "gallery_purchase"
	ActivityItemPurchase    = "item_purchase"
	ActivityDownload        = "download"
	ActivityPriceChange     = "price_change"
	ActivityFreeAccess      = "free_access"
	ActivityRename          = "rename"
	ActivityPayout          = "payout"
	ActivityStorageUpgrade  = "storage_upgrade"
)

// Push event types sent to the Notifier
const (
	EventFolderUpdated  = "folder_updated"
	EventMediaAdded     = "media_added"
	EventMediaRemoved   = "media_removed"
	EventStorageUpdated = "storage_updated"
)

// Activity is one committed state change, kept for the photographer's history
type Activity struct {
	ID        int64     `json:"id"`
	FolderID  string    `json:"folder_id"`
	Kind      string    `json:"kind"`
	MediaID   string    `json:"media_id,omitempty"`
	Amount    float64   `json:"amount"`
	Detail    string    `json:"detail,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type Recorder interface {
	Record(ctx context.Context, a Activity) error
	List(ctx context.Context, folderID string, limit int) ([]Activity, error)
}

// Event is a committed change pushed to live viewers. Folder is set on
// folder-scoped events so the transport can redact them per viewer; an event
// without a Folder is for photographers only.
type Event struct {
	Type   string
	Folder *models.Folder
	Data   interface{}
}

type Notifier interface {
	Publish(e Event)
}

// FolderSummary is a dashboard card
type FolderSummary struct {
	Folder       models.Folder `json:"folder"`
	MediaCount   int           `json:"media_count"`
	ThumbnailURL string        `json:"thumbnail_url,omitempty"`
}

// MediaView is a grid cell as seen by one session
type MediaView struct {
	Item      models.MediaItem `json:"item"`
	Locked    bool             `json:"locked"`
	Purchased bool             `json:"purchased"`
}

// GalleryView is a folder rendered for one session
type GalleryView struct {
	Folder           models.Folder `json:"folder"`
	Media            []MediaView   `json:"media"`
	GalleryPurchased bool          `json:"gallery_purchased"`
	AvailableBalance float64       `json:"available_balance"`
}

// ShareInfo is what a photographer hands to a client
type ShareInfo struct {
	AccessCode string `json:"access_code"`
	Link       string `json:"link"`
	QRCodeURL  string `json:"qr_code_url"`
}

// Service ties the stores, quota and commerce transitions together. Every
// mutation goes through FolderStore.Update or Quota.Store, so a failed
// precondition leaves all state as it was.
type Service struct {
	Media    *MediaStore
	Folders  *FolderStore
	Quota    *Quota
	Resolver *Resolver

	Recorder Recorder
	Notifier Notifier

	ShareBaseURL string
	QRBaseURL    string

	Now   func() time.Time
	NewID func(prefix string) string
	// NewCode generates access codes for new folders
	NewCode func() string
}

func NewService(media *MediaStore, folders *FolderStore, quota *Quota) *Service {
	return &Service{
		Media:        media,
		Folders:      folders,
		Quota:        quota,
		Resolver:     NewResolver(folders),
		ShareBaseURL: "https://cloud.photo/gallery/",
		QRBaseURL:    "https://api.qrserver.com/v1/create-qr-code/?size=200x200&data=",
		Now:          time.Now,
		NewID: func(prefix string) string {
			return prefix + "-" + uuid.NewString()
		},
		NewCode: RandomAccessCode,
	}
}

const accessCodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// RandomAccessCode returns a 6 character upper-case alphanumeric code
func RandomAccessCode() string {
	b := make([]byte, 6)
	for i := range b {
		b[i] = accessCodeAlphabet[rand.IntN(len(accessCodeAlphabet))]
	}
	return string(b)
}

func (s *Service) Login(role models.Role, accessCode string) (Access, error) {
	return s.Resolver.Resolve(role, accessCode)
}

func (s *Service) Dashboard() []FolderSummary {
	folders := s.Folders.List()
	out := make([]FolderSummary, 0, len(folders))
	for _, f := range folders {
		summary := FolderSummary{Folder: f, MediaCount: len(f.MediaIDs)}
		if len(f.MediaIDs) > 0 {
			if cover, ok := s.Media.Get(f.MediaIDs[0]); ok {
				summary.ThumbnailURL = cover.DisplayURL()
			}
		}
		out = append(out, summary)
	}
	return out
}

// View renders a folder for a session. Photographers see every item unlocked.
func (s *Service) View(role models.Role, folderID string, state PurchaseState) (GalleryView, error) {
	folder, err := s.Folders.Get(folderID)
	if err != nil {
		return GalleryView{}, err
	}

	items := s.Media.Resolve(folder.MediaIDs)
	view := GalleryView{
		Folder:           folder,
		Media:            make([]MediaView, 0, len(items)),
		GalleryPurchased: role == models.RolePhotographer || state.GalleryPurchased,
		AvailableBalance: folder.AvailableBalance(),
	}
	for _, item := range items {
		view.Media = append(view.Media, MediaView{
			Item:      item,
			Locked:    !CanView(role, folder, state, item.ID),
			Purchased: state.Has(item.ID),
		})
	}
	return view, nil
}

func (s *Service) CreateFolder(ctx context.Context) (models.Folder, error) {
	const attempts = 10
	for i := 0; i < attempts; i++ {
		folder := models.Folder{
			ID:           s.NewID("folder"),
			Name:         "New Untitled Gallery",
			AccessCode:   s.NewCode(),
			MediaIDs:     []string{},
			GalleryPrice: 29.99,
			PhotoPrice:   2.99,
		}
		created, err := s.Folders.Create(folder)
		if errors.Is(err, ErrDuplicateCode) {
			continue
		}
		if err != nil {
			return models.Folder{}, err
		}

		log.WithFields(log.Fields{"folder_id": created.ID}).Info("Gallery created")
		s.record(ctx, Activity{FolderID: created.ID, Kind: ActivityFolderCreated, Detail: created.Name})
		s.notifyFolder(EventFolderUpdated, created, created)
		return created, nil
	}
	return models.Folder{}, fmt.Errorf("could not generate a unique access code after %d attempts", attempts)
}

// Upload ingests a blob into a folder. The quota check runs before anything is
// stored; a rejected blob changes nothing.
func (s *Service) Upload(ctx context.Context, folderID string, blob Blob) (models.MediaItem, models.Folder, error) {
	folder, err := s.Folders.Get(folderID)
	if err != nil {
		return models.MediaItem{}, models.Folder{}, err
	}

	item := Ingest(folder, blob, s.NewID("media"), s.Now())
	if err := s.Quota.Store(item); err != nil {
		metrics.ObserveUpload(string(item.Type), false)
		log.WithFields(log.Fields{"folder_id": folderID, "size_mb": item.SizeMB}).Warn("Upload rejected: storage full")
		return models.MediaItem{}, models.Folder{}, err
	}

	updated, err := s.Folders.Update(folderID, func(f models.Folder) (models.Folder, error) {
		return AttachMedia(f, item.ID), nil
	})
	if err != nil {
		return models.MediaItem{}, models.Folder{}, err
	}

	metrics.ObserveUpload(string(item.Type), true)
	s.observeStorage()
	s.record(ctx, Activity{FolderID: folderID, Kind: ActivityUpload, MediaID: item.ID, Detail: item.Title})
	s.notifyFolder(EventMediaAdded, updated, payload{"folder": updated, "item": item})
	return item, updated, nil
}

func (s *Service) DetachMedia(ctx context.Context, folderID, mediaID string) (models.Folder, error) {
	updated, err := s.Folders.Update(folderID, func(f models.Folder) (models.Folder, error) {
		return DetachMedia(f, mediaID)
	})
	if err != nil {
		return models.Folder{}, err
	}

	s.record(ctx, Activity{FolderID: folderID, Kind: ActivityMediaRemoved, MediaID: mediaID})
	s.notifyFolder(EventMediaRemoved, updated, payload{"folder": updated, "media_id": mediaID})
	return updated, nil
}

func (s *Service) PurchaseGallery(ctx context.Context, folderID string, state PurchaseState) (models.Folder, PurchaseState, error) {
	next := state
	updated, err := s.Folders.Update(folderID, func(f models.Folder) (models.Folder, error) {
		folder, purchased, err := PurchaseGallery(f, state)
		next = purchased
		return folder, err
	})
	if err != nil {
		return models.Folder{}, state, err
	}

	metrics.ObservePurchase("gallery", updated.GalleryPrice)
	log.WithFields(log.Fields{"folder_id": folderID, "amount": updated.GalleryPrice}).Info("Gallery purchased")
	s.record(ctx, Activity{FolderID: folderID, Kind: ActivityGalleryPurchase, Amount: updated.GalleryPrice})
	s.notifyFolder(EventFolderUpdated, updated, updated)
	return updated, next, nil
}

func (s *Service) PurchaseItem(ctx context.Context, folderID, mediaID string, state PurchaseState) (models.Folder, PurchaseState, error) {
	item, ok := s.Media.Get(mediaID)
	if !ok {
		return models.Folder{}, state, fmt.Errorf("media %s: %w", mediaID, ErrMediaNotFound)
	}

	next := state
	updated, err := s.Folders.Update(folderID, func(f models.Folder) (models.Folder, error) {
		folder, purchased, err := PurchaseItem(f, state, item)
		next = purchased
		return folder, err
	})
	if err != nil {
		return models.Folder{}, state, err
	}

	metrics.ObservePurchase("item", item.Price)
	log.WithFields(log.Fields{"folder_id": folderID, "media_id": mediaID, "amount": item.Price}).Info("Item purchased")
	s.record(ctx, Activity{FolderID: folderID, Kind: ActivityItemPurchase, MediaID: mediaID, Amount: item.Price})
	s.notifyFolder(EventFolderUpdated, updated, updated)
	return updated, next, nil
}

// Download authorizes the viewer and counts the download
func (s *Service) Download(ctx context.Context, role models.Role, folderID, mediaID string, state PurchaseState) (models.MediaItem, models.Folder, error) {
	item, ok := s.Media.Get(mediaID)
	if !ok {
		return models.MediaItem{}, models.Folder{}, fmt.Errorf("media %s: %w", mediaID, ErrMediaNotFound)
	}

	updated, err := s.Folders.Update(folderID, func(f models.Folder) (models.Folder, error) {
		if !f.Contains(mediaID) {
			return f, fmt.Errorf("media %s in folder %s: %w", mediaID, folderID, ErrMediaNotFound)
		}
		if !CanView(role, f, state, mediaID) {
			return f, ErrAccessDenied
		}
		return RecordDownload(f), nil
	})
	if err != nil {
		return models.MediaItem{}, models.Folder{}, err
	}

	metrics.ObserveDownload()
	s.record(ctx, Activity{FolderID: folderID, Kind: ActivityDownload, MediaID: mediaID})
	s.notifyFolder(EventFolderUpdated, updated, updated)
	return item, updated, nil
}

func (s *Service) SetPrice(ctx context.Context, folderID string, target PriceTarget, value float64) (models.Folder, error) {
	updated, err := s.Folders.Update(folderID, func(f models.Folder) (models.Folder, error) {
		return SetPrice(f, target, value)
	})
	if err != nil {
		return models.Folder{}, err
	}

	s.record(ctx, Activity{FolderID: folderID, Kind: ActivityPriceChange, Amount: value, Detail: string(target)})
	s.notifyFolder(EventFolderUpdated, updated, updated)
	return updated, nil
}

func (s *Service) SetFreeAccess(ctx context.Context, folderID string, enabled bool) (models.Folder, error) {
	updated, err := s.Folders.Update(folderID, func(f models.Folder) (models.Folder, error) {
		return SetFreeAccess(f, enabled), nil
	})
	if err != nil {
		return models.Folder{}, err
	}

	s.record(ctx, Activity{FolderID: folderID, Kind: ActivityFreeAccess, Detail: fmt.Sprintf("%t", enabled)})
	s.notifyFolder(EventFolderUpdated, updated, updated)
	return updated, nil
}

func (s *Service) Rename(ctx context.Context, folderID, name string) (models.Folder, error) {
	updated, err := s.Folders.Update(folderID, func(f models.Folder) (models.Folder, error) {
		return Rename(f, name)
	})
	if err != nil {
		return models.Folder{}, err
	}

	s.record(ctx, Activity{FolderID: folderID, Kind: ActivityRename, Detail: updated.Name})
	s.notifyFolder(EventFolderUpdated, updated, updated)
	return updated, nil
}

func (s *Service) RequestPayout(ctx context.Context, folderID string, details PayoutDetails) (models.Folder, Payout, error) {
	var payout Payout
	updated, err := s.Folders.Update(folderID, func(f models.Folder) (models.Folder, error) {
		folder, p, err := RequestPayout(f, details)
		payout = p
		return folder, err
	})
	if err != nil {
		return models.Folder{}, Payout{}, err
	}

	payout.ID = s.NewID("payout")
	payout.RequestedAt = s.Now().UTC().Format(time.RFC3339)

	metrics.ObservePayout(payout.Amount)
	log.WithFields(log.Fields{
		"folder_id":   folderID,
		"amount":      payout.Amount,
		"destination": payout.Destination,
	}).Info("Payout requested")
	s.record(ctx, Activity{FolderID: folderID, Kind: ActivityPayout, Amount: payout.Amount, Detail: payout.Destination})
	s.notifyFolder(EventFolderUpdated, updated, updated)
	return updated, payout, nil
}

func (s *Service) Usage() Usage {
	return s.Quota.Usage()
}

func (s *Service) UpgradeStorage(ctx context.Context, totalGB float64) (Usage, error) {
	if err := s.Quota.Upgrade(totalGB); err != nil {
		return Usage{}, err
	}

	usage := s.Quota.Usage()
	log.WithFields(log.Fields{"total_gb": totalGB}).Info("Storage plan changed")
	s.observeStorage()
	s.record(ctx, Activity{Kind: ActivityStorageUpgrade, Amount: totalGB})
	s.notify(Event{Type: EventStorageUpdated, Data: usage})
	return usage, nil
}

func (s *Service) Share(folderID string) (ShareInfo, error) {
	folder, err := s.Folders.Get(folderID)
	if err != nil {
		return ShareInfo{}, err
	}
	link := s.ShareBaseURL + folder.AccessCode
	return ShareInfo{
		AccessCode: folder.AccessCode,
		Link:       link,
		QRCodeURL:  s.QRBaseURL + url.QueryEscape(link),
	}, nil
}

func (s *Service) Activity(ctx context.Context, folderID string, limit int) ([]Activity, error) {
	if _, err := s.Folders.Get(folderID); err != nil {
		return nil, err
	}
	if s.Recorder == nil {
		return []Activity{}, nil
	}
	return s.Recorder.List(ctx, folderID, limit)
}

func (s *Service) record(ctx context.Context, a Activity) {
	if s.Recorder == nil {
		return
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = s.Now().UTC()
	}
	if err := s.Recorder.Record(ctx, a); err != nil {
		log.Printf("Error recording %s activity for folder %s: %v", a.Kind, a.FolderID, err)
	}
}

func (s *Service) notify(e Event) {
	if s.Notifier == nil {
		return
	}
	s.Notifier.Publish(e)
}

func (s *Service) notifyFolder(eventType string, folder models.Folder, data interface{}) {
	s.notify(Event{Type: eventType, Folder: &folder, Data: data})
}

func (s *Service) observeStorage() {
	usage := s.Quota.Usage()
	metrics.SetStorage(usage.UsedMB, usage.TotalGB)
}

type payload map[string]interface{}
