package queries

import (
	"context"
	"log/slog"

	domainerrors "bazaar/contexts/trading-core/listing-marketplace/domain/errors"
	"bazaar/contexts/trading-core/listing-marketplace/domain/services"
	"bazaar/contexts/trading-core/listing-marketplace/ports"
)

type TotalPriceQuery struct {
	ListingID int64
}

type TotalPriceResult struct {
	ListingID  int64
	Price      int64
	FeePercent int64
	TotalPrice int64
}

// TotalPriceUseCase computes the amount a buyer must pay for a listing:
// base price plus the marketplace-wide percentage fee in floor arithmetic.
type TotalPriceUseCase struct {
	Listings   ports.ListingRepository
	FeePercent int64
	Logger     *slog.Logger
}

func (u TotalPriceUseCase) Execute(ctx context.Context, query TotalPriceQuery) (TotalPriceResult, error) {
	if query.ListingID <= 0 {
		return TotalPriceResult{}, domainerrors.ErrListingNotFound
	}
	listing, err := u.Listings.GetListing(ctx, query.ListingID)
	if err != nil {
		return TotalPriceResult{}, err
	}
	return TotalPriceResult{
		ListingID:  listing.ListingID,
		Price:      listing.Price,
		FeePercent: u.FeePercent,
		TotalPrice: services.TotalPrice(listing.Price, u.FeePercent),
	}, nil
}
