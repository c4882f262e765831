package gallery

import (
	"math"
	"testing"

	"photo-gallery/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testFolder() models.Folder {
	return models.Folder{
		ID:           "folder-1",
		Name:         "Wedding",
		AccessCode:   "ABC",
		MediaIDs:     []string{"m1", "m2"},
		GalleryPrice: 24.99,
		PhotoPrice:   1.99,
		Analytics:    models.Analytics{Purchases: 1, Downloads: 7},
		TotalRevenue: 24.99,
	}
}

func TestPurchaseGallery(t *testing.T) {
	f := testFolder()

	next, state, err := PurchaseGallery(f, PurchaseState{})
	require.NoError(t, err)
	assert.True(t, state.GalleryPurchased)
	assert.Equal(t, 2, next.Analytics.Purchases)
	assert.InDelta(t, 49.98, next.TotalRevenue, 1e-9)

	// input snapshot untouched
	assert.Equal(t, 1, f.Analytics.Purchases)
	assert.InDelta(t, 24.99, f.TotalRevenue, 1e-9)
}

func TestPurchaseGallery_RejectsSecondPurchase(t *testing.T) {
	f := testFolder()
	next, state, err := PurchaseGallery(f, PurchaseState{})
	require.NoError(t, err)

	again, _, err := PurchaseGallery(next, state)
	assert.ErrorIs(t, err, ErrAlreadyPurchased)
	assert.Equal(t, next.TotalRevenue, again.TotalRevenue)
	assert.Equal(t, next.Analytics.Purchases, again.Analytics.Purchases)
}

func TestPurchaseGallery_FreeAccess(t *testing.T) {
	f := testFolder()
	f.IsFreeAccess = true

	_, state, err := PurchaseGallery(f, PurchaseState{})
	assert.ErrorIs(t, err, ErrNothingToPurchase)
	assert.False(t, state.GalleryPurchased)
}

func TestPurchaseItem(t *testing.T) {
	f := testFolder()
	item := models.MediaItem{ID: "m1", Price: 1.99}

	next, state, err := PurchaseItem(f, PurchaseState{}, item)
	require.NoError(t, err)
	assert.True(t, state.Has("m1"))
	assert.Equal(t, 8, next.Analytics.Downloads)
	assert.Equal(t, 1, next.Analytics.Purchases)
	assert.InDelta(t, 26.98, next.TotalRevenue, 1e-9)

	_, _, err = PurchaseItem(next, state, item)
	assert.ErrorIs(t, err, ErrAlreadyPurchased)
}

func TestPurchaseItem_Preconditions(t *testing.T) {
	f := testFolder()

	_, _, err := PurchaseItem(f, PurchaseState{}, models.MediaItem{ID: "elsewhere"})
	assert.ErrorIs(t, err, ErrMediaNotFound)

	_, _, err = PurchaseItem(f, PurchaseState{}.WithGallery(), models.MediaItem{ID: "m1"})
	assert.ErrorIs(t, err, ErrNothingToPurchase)

	f.IsFreeAccess = true
	_, _, err = PurchaseItem(f, PurchaseState{}, models.MediaItem{ID: "m1"})
	assert.ErrorIs(t, err, ErrNothingToPurchase)
}

func TestRecordDownload(t *testing.T) {
	f := testFolder()
	next := RecordDownload(f)
	assert.Equal(t, 8, next.Analytics.Downloads)
	assert.Equal(t, f.TotalRevenue, next.TotalRevenue)
}

func TestSetPrice(t *testing.T) {
	f := testFolder()

	next, err := SetPrice(f, PriceGallery, 30)
	require.NoError(t, err)
	assert.Equal(t, 30.0, next.GalleryPrice)

	next, err = SetPrice(next, PricePerItem, 0)
	require.NoError(t, err)
	assert.Equal(t, 0.0, next.PhotoPrice)
	assert.Equal(t, 30.0, next.GalleryPrice)
}

func TestSetPrice_Invalid(t *testing.T) {
	f := testFolder()
	for _, v := range []float64{-1, math.NaN(), math.Inf(1), math.Inf(-1)} {
		got, err := SetPrice(f, PriceGallery, v)
		assert.ErrorIs(t, err, ErrInvalidPrice, "value %v", v)
		assert.Equal(t, 24.99, got.GalleryPrice)
	}

	_, err := SetPrice(f, PriceTarget("bundle"), 5)
	assert.ErrorIs(t, err, ErrInvalidPrice)
}

func TestSetFreeAccess_KeepsLedger(t *testing.T) {
	f := testFolder()
	next := SetFreeAccess(f, true)
	assert.True(t, next.IsFreeAccess)
	assert.Equal(t, f.TotalRevenue, next.TotalRevenue)
	assert.Equal(t, f.Analytics, next.Analytics)
}

func TestRename(t *testing.T) {
	f := testFolder()

	next, err := Rename(f, "  Beach Day  ")
	require.NoError(t, err)
	assert.Equal(t, "Beach Day", next.Name)

	_, err = Rename(f, "   ")
	assert.ErrorIs(t, err, ErrEmptyOrUnchangedName)

	_, err = Rename(f, " Wedding ")
	assert.ErrorIs(t, err, ErrEmptyOrUnchangedName)
}

func TestPayoutDetails_Validate(t *testing.T) {
	cases := []struct {
		name    string
		details PayoutDetails
		valid   bool
	}{
		{"bank ok", PayoutDetails{Method: PayoutBank, AccountNumber: "123456", RoutingNumber: "654321"}, true},
		{"bank short account", PayoutDetails{Method: PayoutBank, AccountNumber: "12345", RoutingNumber: "654321"}, false},
		{"bank short routing", PayoutDetails{Method: PayoutBank, AccountNumber: "123456", RoutingNumber: "54321"}, false},
		{"ewallet ok", PayoutDetails{Method: PayoutEWallet, Provider: "PayPal", Email: "a@b.c"}, true},
		{"ewallet short provider", PayoutDetails{Method: PayoutEWallet, Provider: "PP", Email: "a@b.c"}, false},
		{"ewallet bad email", PayoutDetails{Method: PayoutEWallet, Provider: "PayPal", Email: "ab.c"}, false},
		{"no method", PayoutDetails{AccountNumber: "123456", RoutingNumber: "654321"}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.details.Validate()
			if tc.valid {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrInvalidPayoutDetails)
			}
		})
	}
}

func TestRequestPayout(t *testing.T) {
	f := testFolder()
	f.TotalRevenue = 50
	f.PaidOutBalance = 20
	bank := PayoutDetails{Method: PayoutBank, AccountNumber: "1234567890", RoutingNumber: "021000021"}

	next, payout, err := RequestPayout(f, bank)
	require.NoError(t, err)
	assert.Equal(t, 50.0, next.PaidOutBalance)
	assert.Equal(t, 0.0, next.AvailableBalance())
	assert.Equal(t, 30.0, payout.Amount)
	assert.Equal(t, "bank ****7890", payout.Destination)

	_, _, err = RequestPayout(next, bank)
	assert.ErrorIs(t, err, ErrNothingToPayOut)
}

func TestRequestPayout_InvalidDetailsLeaveBalance(t *testing.T) {
	f := testFolder()

	got, _, err := RequestPayout(f, PayoutDetails{Method: PayoutEWallet, Provider: "x", Email: "nope"})
	assert.ErrorIs(t, err, ErrInvalidPayoutDetails)
	assert.Equal(t, 0.0, got.PaidOutBalance)
}

func TestLedgerInvariant_AnySequence(t *testing.T) {
	f := testFolder()
	state := PurchaseState{}
	bank := PayoutDetails{Method: PayoutBank, AccountNumber: "1234567890", RoutingNumber: "021000021"}
	item := models.MediaItem{ID: "m2", Price: 3.5}

	steps := []func(){
		func() { f, _, _ = RequestPayout(f, bank) },
		func() { f, state, _ = PurchaseItem(f, state, item) },
		func() { f, _, _ = RequestPayout(f, bank) },
		func() { f, _ = SetPrice(f, PriceGallery, 10) },
		func() { f, state, _ = PurchaseGallery(f, state) },
		func() { f, state, _ = PurchaseGallery(f, state) },
		func() { f = RecordDownload(f) },
		func() { f, _, _ = RequestPayout(f, bank) },
		func() { f, _, _ = RequestPayout(f, bank) },
	}
	for i, step := range steps {
		step()
		assert.LessOrEqual(t, f.PaidOutBalance, f.TotalRevenue, "step %d", i)
	}
	assert.InDelta(t, 24.99+3.5+10, f.TotalRevenue, 1e-9)
}
