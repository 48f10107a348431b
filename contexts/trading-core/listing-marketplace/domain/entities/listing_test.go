package entities

import (
	"errors"
	"testing"
	"time"

	domainerrors "bazaar/contexts/trading-core/listing-marketplace/domain/errors"
)

func TestNewListingRejectsNonPositivePrice(t *testing.T) {
	for _, price := range []int64{0, -1, -100} {
		_, err := NewListing("token-registry", 1, price, "seller-1", time.Now())
		if !errors.Is(err, domainerrors.ErrInvalidPrice) {
			t.Fatalf("price %d: expected ErrInvalidPrice, got %v", price, err)
		}
	}
}

func TestNewListingPriceCheckedBeforeOtherFields(t *testing.T) {
	// A request that is wrong in every way still reports the price problem.
	_, err := NewListing("", 0, 0, "", time.Now())
	if !errors.Is(err, domainerrors.ErrInvalidPrice) {
		t.Fatalf("expected ErrInvalidPrice, got %v", err)
	}
}

func TestNewListingValidatesFields(t *testing.T) {
	cases := []struct {
		name        string
		registryRef string
		tokenID     int64
		seller      string
	}{
		{"empty registry ref", "", 1, "seller-1"},
		{"zero token id", "token-registry", 0, "seller-1"},
		{"empty seller", "token-registry", 1, "  "},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewListing(tc.registryRef, tc.tokenID, 100, tc.seller, time.Now())
			if !errors.Is(err, domainerrors.ErrInvalidListingRequest) {
				t.Fatalf("expected ErrInvalidListingRequest, got %v", err)
			}
		})
	}
}

func TestNewListingTrimsAndDefaults(t *testing.T) {
	createdAt := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	listing, err := NewListing(" token-registry ", 7, 100, " seller-1 ", createdAt)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if listing.RegistryRef != "token-registry" {
		t.Fatalf("registry ref = %q", listing.RegistryRef)
	}
	if listing.Seller != "seller-1" {
		t.Fatalf("seller = %q", listing.Seller)
	}
	if listing.ListingID != 0 {
		t.Fatalf("listing id should be unassigned, got %d", listing.ListingID)
	}
	if listing.Sold {
		t.Fatalf("new listing must not be sold")
	}
	if !listing.CreatedAt.Equal(createdAt) {
		t.Fatalf("created at = %v, want %v", listing.CreatedAt, createdAt)
	}
}
