package gallery

import (
	"fmt"

	"photo-gallery/internal/models"
)

// Access is the outcome of a login: the role and, for buyers, the one folder
// the session may view.
type Access struct {
	Role     models.Role
	FolderID string
}

// Resolver decides which folder a login lands on
type Resolver struct {
	Folders *FolderStore
}

func NewResolver(folders *FolderStore) *Resolver {
	return &Resolver{Folders: folders}
}

// Resolve maps a role and optional access code to an Access. Buyers must match
// a folder's code case-insensitively; photographers always land on the
// dashboard with no folder.
func (r *Resolver) Resolve(role models.Role, accessCode string) (Access, error) {
	switch role {
	case models.RolePhotographer:
		return Access{Role: role}, nil
	case models.RoleBuyer:
		// codes match exactly apart from case; surrounding blanks are not stripped
		if accessCode == "" {
			return Access{}, ErrInvalidAccessCode
		}
		folder, ok := r.Folders.FindByAccessCode(accessCode)
		if !ok {
			return Access{}, ErrInvalidAccessCode
		}
		return Access{Role: role, FolderID: folder.ID}, nil
	default:
		return Access{}, fmt.Errorf("unknown role %q", role)
	}
}

// HasAccess reports whether a buyer may view or download the item
func HasAccess(folder models.Folder, purchases PurchaseState, mediaID string) bool {
	return folder.IsFreeAccess || purchases.GalleryPurchased || purchases.Has(mediaID)
}

// CanView extends HasAccess with the photographer's unconditional access
func CanView(role models.Role, folder models.Folder, purchases PurchaseState, mediaID string) bool {
	if role == models.RolePhotographer {
		return true
	}
	return HasAccess(folder, purchases, mediaID)
}
