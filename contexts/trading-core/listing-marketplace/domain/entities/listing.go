package entities

import (
	"strings"
	"time"

	domainerrors "bazaar/contexts/trading-core/listing-marketplace/domain/errors"
)

// Listing offers one registry token at a fixed price. ListingID is assigned
// by the repository at creation as the next value of a dense sequence; the
// count of listings ever created equals the highest assigned id.
//
// Sold transitions false -> true exactly once and never reverts. A sold
// listing is immutable: it is the permanent sale record, with Buyer and
// SoldAt set in the same transition.
type Listing struct {
	ListingID   int64
	RegistryRef string
	TokenID     int64
	Price       int64
	Seller      string
	Sold        bool
	Buyer       string
	CreatedAt   time.Time
	SoldAt      *time.Time
}

// NewListing validates the creation invariants. Price is checked first so a
// non-positive price always surfaces as ErrInvalidPrice regardless of other
// field problems.
func NewListing(
	registryRef string,
	tokenID int64,
	price int64,
	seller string,
	createdAt time.Time,
) (Listing, error) {
	if price <= 0 {
		return Listing{}, domainerrors.ErrInvalidPrice
	}
	if strings.TrimSpace(registryRef) == "" ||
		strings.TrimSpace(seller) == "" ||
		tokenID <= 0 {
		return Listing{}, domainerrors.ErrInvalidListingRequest
	}
	return Listing{
		RegistryRef: strings.TrimSpace(registryRef),
		TokenID:     tokenID,
		Price:       price,
		Seller:      strings.TrimSpace(seller),
		CreatedAt:   createdAt.UTC(),
	}, nil
}
