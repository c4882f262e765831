package models

// MediaType distinguishes photos from videos
type MediaType string

const (
	MediaPhoto MediaType = "photo"
	MediaVideo MediaType = "video"
)

// Role is the kind of session a login produces
type Role string

const (
	RolePhotographer Role = "photographer"
	RoleBuyer        Role = "buyer"
)

func (r Role) Valid() bool {
	return r == RolePhotographer || r == RoleBuyer
}

// MediaItem represents an uploaded photo or video
type MediaItem struct {
	ID           string    `gorm:"primaryKey;type:varchar(64)" json:"id"`
	URL          string    `gorm:"type:text" json:"url"`
	ThumbnailURL string    `gorm:"type:text" json:"thumbnail_url,omitempty"`
	Title        string    `gorm:"type:varchar(255)" json:"title"`
	Date         string    `gorm:"type:varchar(32)" json:"date"`
	SizeMB       float64   `json:"size_mb"`
	Price        float64   `json:"price"`
	Type         MediaType `gorm:"type:varchar(10)" json:"type"`
}

func (MediaItem) TableName() string {
	return "media_items"
}

// DisplayURL is what a grid or dashboard card should render
func (m MediaItem) DisplayURL() string {
	if m.ThumbnailURL != "" {
		return m.ThumbnailURL
	}
	return m.URL
}

// Analytics holds the per-folder counters. Both only ever grow.
type Analytics struct {
	Purchases int `json:"purchases"`
	Downloads int `json:"downloads"`
}

// Folder represents a gallery: media references, pricing and a revenue ledger
type Folder struct {
	ID             string    `gorm:"primaryKey;type:varchar(64)" json:"id"`
	Name           string    `gorm:"type:varchar(255)" json:"name"`
	AccessCode     string    `gorm:"type:varchar(64);uniqueIndex" json:"access_code"`
	MediaIDs       []string  `gorm:"serializer:json;type:text" json:"media_ids"`
	GalleryPrice   float64   `json:"gallery_price"`
	PhotoPrice     float64   `json:"photo_price"`
	IsFreeAccess   bool      `json:"is_free_access"`
	Analytics      Analytics `gorm:"embedded;embeddedPrefix:analytics_" json:"analytics"`
	TotalRevenue   float64   `json:"total_revenue"`
	PaidOutBalance float64   `json:"paid_out_balance"`
}

func (Folder) TableName() string {
	return "folders"
}

// AvailableBalance is the revenue not yet withdrawn
func (f Folder) AvailableBalance() float64 {
	return f.TotalRevenue - f.PaidOutBalance
}

// Clone returns a copy that shares no slices with f
func (f Folder) Clone() Folder {
	out := f
	if f.MediaIDs != nil {
		out.MediaIDs = make([]string, len(f.MediaIDs))
		copy(out.MediaIDs, f.MediaIDs)
	}
	return out
}

// Contains reports whether the media id is attached to the folder
func (f Folder) Contains(mediaID string) bool {
	for _, id := range f.MediaIDs {
		if id == mediaID {
			return true
		}
	}
	return false
}

// SystemSetting is a key/value row for process-wide settings
type SystemSetting struct {
	Key   string `gorm:"primaryKey;type:varchar(100)" json:"key"`
	Value string `gorm:"type:text" json:"value"`
}

func (SystemSetting) TableName() string {
	return "system_settings"
}
