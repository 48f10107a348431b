package queries

import (
	"context"
	"log/slog"

	"bazaar/contexts/trading-core/listing-marketplace/domain/entities"
	domainerrors "bazaar/contexts/trading-core/listing-marketplace/domain/errors"
	"bazaar/contexts/trading-core/listing-marketplace/ports"
)

type GetListingQuery struct {
	ListingID int64
}

type GetListingResult struct {
	Listing entities.Listing
}

type GetListingUseCase struct {
	Listings ports.ListingRepository
	Logger   *slog.Logger
}

func (u GetListingUseCase) Execute(ctx context.Context, query GetListingQuery) (GetListingResult, error) {
	if query.ListingID <= 0 {
		return GetListingResult{}, domainerrors.ErrListingNotFound
	}
	listing, err := u.Listings.GetListing(ctx, query.ListingID)
	if err != nil {
		return GetListingResult{}, err
	}
	return GetListingResult{Listing: listing}, nil
}
