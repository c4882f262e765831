package gallery

import "sort"

// PurchaseState is a buyer session's unlock cache for the folder it is viewing.
// It is kept on the session, not the folder, and has value semantics: the
// With* methods return a modified copy.
type PurchaseState struct {
	GalleryPurchased bool
	mediaIDs         map[string]struct{}
}

func (p PurchaseState) Has(mediaID string) bool {
	_, ok := p.mediaIDs[mediaID]
	return ok
}

func (p PurchaseState) WithGallery() PurchaseState {
	out := p.clone()
	out.GalleryPurchased = true
	return out
}

func (p PurchaseState) WithItem(mediaID string) PurchaseState {
	out := p.clone()
	out.mediaIDs[mediaID] = struct{}{}
	return out
}

// IDs returns the individually purchased media ids, sorted
func (p PurchaseState) IDs() []string {
	ids := make([]string, 0, len(p.mediaIDs))
	for id := range p.mediaIDs {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (p PurchaseState) clone() PurchaseState {
	out := PurchaseState{
		GalleryPurchased: p.GalleryPurchased,
		mediaIDs:         make(map[string]struct{}, len(p.mediaIDs)+1),
	}
	for id := range p.mediaIDs {
		out.mediaIDs[id] = struct{}{}
	}
	return out
}
