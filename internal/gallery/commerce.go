package gallery

import (
	"fmt"
	"math"
	"strings"

	"photo-gallery/internal/models"
)

// The functions below are the folder's state transitions. Each takes a snapshot
// and returns the next one; inputs are never modified, and a returned error
// means nothing changed.

// PurchaseGallery unlocks the whole folder for one buyer session. It is a
// one-shot transition: a session that already bought the gallery is rejected
// instead of being charged again.
func PurchaseGallery(folder models.Folder, state PurchaseState) (models.Folder, PurchaseState, error) {
	if state.GalleryPurchased {
		return folder, state, fmt.Errorf("gallery %s: %w", folder.ID, ErrAlreadyPurchased)
	}
	if folder.IsFreeAccess {
		return folder, state, fmt.Errorf("gallery %s: %w", folder.ID, ErrNothingToPurchase)
	}

	next := folder.Clone()
	next.Analytics.Purchases++
	next.TotalRevenue += folder.GalleryPrice
	return next, state.WithGallery(), nil
}

// PurchaseItem unlocks a single item. Buying an item counts as its download.
func PurchaseItem(folder models.Folder, state PurchaseState, item models.MediaItem) (models.Folder, PurchaseState, error) {
	if !folder.Contains(item.ID) {
		return folder, state, fmt.Errorf("media %s in folder %s: %w", item.ID, folder.ID, ErrMediaNotFound)
	}
	if state.Has(item.ID) {
		return folder, state, fmt.Errorf("media %s: %w", item.ID, ErrAlreadyPurchased)
	}
	if folder.IsFreeAccess || state.GalleryPurchased {
		return folder, state, fmt.Errorf("media %s: %w", item.ID, ErrNothingToPurchase)
	}

	next := folder.Clone()
	next.Analytics.Downloads++
	next.TotalRevenue += item.Price
	return next, state.WithItem(item.ID), nil
}

// RecordDownload counts one download. Authorization is the caller's job; the
// counter does not track which item was fetched.
func RecordDownload(folder models.Folder) models.Folder {
	next := folder.Clone()
	next.Analytics.Downloads++
	return next
}

// PriceTarget selects which folder price SetPrice replaces
type PriceTarget string

const (
	PriceGallery PriceTarget = "gallery"
	PricePerItem PriceTarget = "item"
)

// ValidPrice reports whether v can be used as a price
func ValidPrice(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v >= 0
}

// SetPrice replaces the gallery price or the default per-item price. Items
// already uploaded keep their stored price.
func SetPrice(folder models.Folder, target PriceTarget, value float64) (models.Folder, error) {
	if !ValidPrice(value) {
		return folder, fmt.Errorf("%s price %v: %w", target, value, ErrInvalidPrice)
	}

	next := folder.Clone()
	switch target {
	case PriceGallery:
		next.GalleryPrice = value
	case PricePerItem:
		next.PhotoPrice = value
	default:
		return folder, fmt.Errorf("unknown price target %q: %w", target, ErrInvalidPrice)
	}
	return next, nil
}

// SetFreeAccess toggles free access. Recorded revenue and analytics stay as they are.
func SetFreeAccess(folder models.Folder, enabled bool) models.Folder {
	next := folder.Clone()
	next.IsFreeAccess = enabled
	return next
}

func Rename(folder models.Folder, name string) (models.Folder, error) {
	name = strings.TrimSpace(name)
	if name == "" || name == folder.Name {
		return folder, ErrEmptyOrUnchangedName
	}

	next := folder.Clone()
	next.Name = name
	return next, nil
}

// PayoutMethod is where a withdrawal is sent
type PayoutMethod string

const (
	PayoutBank    PayoutMethod = "bank"
	PayoutEWallet PayoutMethod = "ewallet"
)

// PayoutDetails is the destination form of a withdrawal request
type PayoutDetails struct {
	Method        PayoutMethod
	AccountNumber string
	RoutingNumber string
	Provider      string
	Email         string
}

func (d PayoutDetails) Validate() error {
	switch d.Method {
	case PayoutBank:
		if len(d.AccountNumber) <= 5 || len(d.RoutingNumber) <= 5 {
			return fmt.Errorf("bank account and routing number must be longer than 5 characters: %w", ErrInvalidPayoutDetails)
		}
	case PayoutEWallet:
		if len(d.Provider) <= 2 || !strings.Contains(d.Email, "@") {
			return fmt.Errorf("e-wallet provider must be longer than 2 characters and email must contain @: %w", ErrInvalidPayoutDetails)
		}
	default:
		return fmt.Errorf("unknown payout method %q: %w", d.Method, ErrInvalidPayoutDetails)
	}
	return nil
}

// Destination is a masked description of where the money goes, safe to log
func (d PayoutDetails) Destination() string {
	switch d.Method {
	case PayoutBank:
		return "bank ****" + lastN(d.AccountNumber, 4)
	case PayoutEWallet:
		return d.Provider + " " + d.Email
	}
	return string(d.Method)
}

// Payout is the receipt of a withdrawal
type Payout struct {
	ID          string       `json:"id"`
	FolderID    string       `json:"folder_id"`
	Amount      float64      `json:"amount"`
	Method      PayoutMethod `json:"method"`
	Destination string       `json:"destination"`
	RequestedAt string       `json:"requested_at"`
}

// RequestPayout withdraws the entire available balance. Partial payouts are
// not supported.
func RequestPayout(folder models.Folder, details PayoutDetails) (models.Folder, Payout, error) {
	if err := details.Validate(); err != nil {
		return folder, Payout{}, err
	}
	available := folder.AvailableBalance()
	if available <= 0 {
		return folder, Payout{}, fmt.Errorf("folder %s: %w", folder.ID, ErrNothingToPayOut)
	}

	next := folder.Clone()
	next.PaidOutBalance = folder.TotalRevenue
	return next, Payout{
		FolderID:    folder.ID,
		Amount:      available,
		Method:      details.Method,
		Destination: details.Destination(),
	}, nil
}

func lastN(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}
