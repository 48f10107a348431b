package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	application "bazaar/contexts/trading-core/listing-marketplace/application"
	"bazaar/contexts/trading-core/listing-marketplace/domain/entities"
	"bazaar/contexts/trading-core/listing-marketplace/ports"
)

const offeredEventType = "marketplace.offered"

type CreateListingCommand struct {
	RegistryRef string
	TokenID     int64
	Price       int64
	Seller      string
}

type CreateListingResult struct {
	Listing entities.Listing
}

type CreateListingUseCase struct {
	Listings      ports.ListingRepository
	Registries    ports.RegistryDirectory
	Guard         ports.ReentrancyGuard
	Clock         ports.Clock
	IDGen         ports.IDGenerator
	EscrowAccount string
	Logger        *slog.Logger
}

// Execute runs the listing workflow in this order:
// 1) reentrancy guard entry
// 2) domain validation (price first)
// 3) registry resolution
// 4) atomic listing + outbox + escrow custody transfer.
// A custody failure aborts the whole operation: no listing row persists and
// no id is consumed.
func (u CreateListingUseCase) Execute(ctx context.Context, cmd CreateListingCommand) (CreateListingResult, error) {
	logger := application.ResolveLogger(u.Logger)
	if err := u.Guard.Enter(ctx); err != nil {
		return CreateListingResult{}, err
	}
	defer u.Guard.Exit(ctx)

	listing, err := entities.NewListing(cmd.RegistryRef, cmd.TokenID, cmd.Price, cmd.Seller, u.now())
	if err != nil {
		logger.Warn("create listing rejected",
			"event", "create_listing_rejected",
			"module", "trading-core/listing-marketplace",
			"layer", "application",
			"registry_ref", cmd.RegistryRef,
			"token_id", cmd.TokenID,
			"seller", cmd.Seller,
			"error", err.Error(),
		)
		return CreateListingResult{}, err
	}

	registry, err := u.Registries.Resolve(listing.RegistryRef)
	if err != nil {
		return CreateListingResult{}, err
	}

	created, err := u.Listings.CreateListingWithOutbox(ctx, listing,
		func(assigned entities.Listing) (ports.EventEnvelope, error) {
			return u.buildOfferedEnvelope(ctx, assigned)
		},
		func(txCtx context.Context) error {
			// Seller must currently hold the token and must have approved the
			// marketplace as operator; the registry enforces both.
			if err := registry.Transfer(txCtx, u.EscrowAccount, listing.Seller, u.EscrowAccount, listing.TokenID); err != nil {
				return fmt.Errorf("take escrow custody: %w", err)
			}
			return nil
		},
	)
	if err != nil {
		logger.Error("create listing failed",
			"event", "create_listing_failed",
			"module", "trading-core/listing-marketplace",
			"layer", "application",
			"registry_ref", listing.RegistryRef,
			"token_id", listing.TokenID,
			"seller", listing.Seller,
			"error", err.Error(),
		)
		return CreateListingResult{}, err
	}

	logger.Info("listing created",
		"event", "listing_created",
		"module", "trading-core/listing-marketplace",
		"layer", "application",
		"listing_id", created.ListingID,
		"registry_ref", created.RegistryRef,
		"token_id", created.TokenID,
		"price", created.Price,
		"seller", created.Seller,
	)
	return CreateListingResult{Listing: created}, nil
}

func (u CreateListingUseCase) buildOfferedEnvelope(
	ctx context.Context,
	listing entities.Listing,
) (ports.EventEnvelope, error) {
	eventID, err := u.IDGen.NewID(ctx)
	if err != nil {
		return ports.EventEnvelope{}, err
	}
	data, err := json.Marshal(map[string]any{
		"listing_id":   listing.ListingID,
		"registry_ref": listing.RegistryRef,
		"token_id":     listing.TokenID,
		"price":        listing.Price,
		"seller":       listing.Seller,
	})
	if err != nil {
		return ports.EventEnvelope{}, err
	}
	return ports.EventEnvelope{
		EventID:          strings.TrimSpace(eventID),
		EventType:        offeredEventType,
		OccurredAt:       listing.CreatedAt.UTC(),
		SourceService:    "listing-marketplace",
		TraceID:          strings.TrimSpace(eventID),
		SchemaVersion:    1,
		PartitionKeyPath: "listing_id",
		PartitionKey:     strconv.FormatInt(listing.ListingID, 10),
		Data:             data,
	}, nil
}

func (u CreateListingUseCase) now() time.Time {
	if u.Clock == nil {
		return time.Now().UTC()
	}
	return u.Clock.Now().UTC()
}
