package queries

import (
	"context"
	"log/slog"

	application "bazaar/contexts/trading-core/listing-marketplace/application"
	"bazaar/contexts/trading-core/listing-marketplace/domain/entities"
	"bazaar/contexts/trading-core/listing-marketplace/ports"
)

type ListListingsQuery struct {
	Seller string
	Sold   *bool
	Limit  int
	Offset int
}

type ListListingsResult struct {
	Listings []entities.Listing
	Count    int64
}

type ListListingsUseCase struct {
	Listings ports.ListingRepository
	Logger   *slog.Logger
}

func (u ListListingsUseCase) Execute(ctx context.Context, query ListListingsQuery) (ListListingsResult, error) {
	logger := application.ResolveLogger(u.Logger)

	limit := query.Limit
	if limit <= 0 {
		limit = 50
	}
	offset := query.Offset
	if offset < 0 {
		offset = 0
	}

	items, err := u.Listings.ListListings(ctx, ports.ListingFilter{
		Seller: query.Seller,
		Sold:   query.Sold,
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		logger.Error("list listings failed",
			"event", "list_listings_failed",
			"module", "trading-core/listing-marketplace",
			"layer", "application",
			"error", err.Error(),
		)
		return ListListingsResult{}, err
	}

	count, err := u.Listings.CountListings(ctx)
	if err != nil {
		return ListListingsResult{}, err
	}
	return ListListingsResult{Listings: items, Count: count}, nil
}
