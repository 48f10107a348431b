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
	domainerrors "bazaar/contexts/trading-core/listing-marketplace/domain/errors"
	"bazaar/contexts/trading-core/listing-marketplace/domain/services"
	"bazaar/contexts/trading-core/listing-marketplace/ports"
)

const boughtEventType = "marketplace.bought"

type PurchaseListingCommand struct {
	ListingID     int64
	Buyer         string
	PaymentAmount int64
}

type PurchaseListingResult struct {
	Listing        entities.Listing
	TotalPrice     int64
	SellerProceeds int64
	FeeProceeds    int64
	BuyerRefund    int64
}

type PurchaseListingUseCase struct {
	Listings          ports.ListingRepository
	Registries        ports.RegistryDirectory
	Guard             ports.ReentrancyGuard
	Clock             ports.Clock
	IDGen             ports.IDGenerator
	EscrowAccount     string
	FeeAccount        string
	FeePercent        int64
	RefundOverpayment bool
	Logger            *slog.Logger
}

// Execute runs the purchase protocol. Preconditions are checked in a fixed,
// observable order: listing exists, payment covers the total, listing not
// yet sold. The repository then commits the sold transition, ledger credits,
// outbox row and custody release as one transaction, so two racing purchases
// can never both pass the sold check and a custody failure leaves no partial
// state.
func (u PurchaseListingUseCase) Execute(ctx context.Context, cmd PurchaseListingCommand) (PurchaseListingResult, error) {
	logger := application.ResolveLogger(u.Logger)
	if strings.TrimSpace(cmd.Buyer) == "" {
		return PurchaseListingResult{}, domainerrors.ErrInvalidPurchase
	}
	if err := u.Guard.Enter(ctx); err != nil {
		return PurchaseListingResult{}, err
	}
	defer u.Guard.Exit(ctx)

	if cmd.ListingID <= 0 {
		return PurchaseListingResult{}, domainerrors.ErrListingNotFound
	}
	listing, err := u.Listings.GetListing(ctx, cmd.ListingID)
	if err != nil {
		return PurchaseListingResult{}, err
	}

	total := services.TotalPrice(listing.Price, u.FeePercent)
	if cmd.PaymentAmount < total {
		logger.Warn("purchase rejected on payment",
			"event", "purchase_insufficient_payment",
			"module", "trading-core/listing-marketplace",
			"layer", "application",
			"listing_id", listing.ListingID,
			"buyer", cmd.Buyer,
			"payment", cmd.PaymentAmount,
			"total_price", total,
		)
		return PurchaseListingResult{}, domainerrors.ErrInsufficientPayment
	}
	if listing.Sold {
		return PurchaseListingResult{}, domainerrors.ErrAlreadySold
	}

	registry, err := u.Registries.Resolve(listing.RegistryRef)
	if err != nil {
		return PurchaseListingResult{}, err
	}

	sellerProceeds, feeProceeds, buyerRefund := services.SplitProceeds(
		listing.Price,
		u.FeePercent,
		cmd.PaymentAmount,
		u.RefundOverpayment,
	)
	settlement := ports.Settlement{
		ListingID:      listing.ListingID,
		Buyer:          strings.TrimSpace(cmd.Buyer),
		Seller:         listing.Seller,
		FeeAccount:     u.FeeAccount,
		PaymentAmount:  cmd.PaymentAmount,
		SellerProceeds: sellerProceeds,
		FeeProceeds:    feeProceeds,
		BuyerRefund:    buyerRefund,
		SoldAt:         u.now(),
	}

	sold, err := u.Listings.SettlePurchaseWithOutbox(ctx, settlement,
		func(record entities.Listing) (ports.EventEnvelope, error) {
			return u.buildBoughtEnvelope(ctx, record, settlement)
		},
		func(txCtx context.Context) error {
			if err := registry.Transfer(txCtx, u.EscrowAccount, u.EscrowAccount, settlement.Buyer, listing.TokenID); err != nil {
				return fmt.Errorf("release escrow custody: %w", err)
			}
			return nil
		},
	)
	if err != nil {
		logger.Error("purchase failed",
			"event", "purchase_failed",
			"module", "trading-core/listing-marketplace",
			"layer", "application",
			"listing_id", listing.ListingID,
			"buyer", cmd.Buyer,
			"error", err.Error(),
		)
		return PurchaseListingResult{}, err
	}

	logger.Info("listing purchased",
		"event", "listing_purchased",
		"module", "trading-core/listing-marketplace",
		"layer", "application",
		"listing_id", sold.ListingID,
		"registry_ref", sold.RegistryRef,
		"token_id", sold.TokenID,
		"price", sold.Price,
		"seller", sold.Seller,
		"buyer", sold.Buyer,
		"fee_proceeds", feeProceeds,
	)
	return PurchaseListingResult{
		Listing:        sold,
		TotalPrice:     total,
		SellerProceeds: sellerProceeds,
		FeeProceeds:    feeProceeds,
		BuyerRefund:    buyerRefund,
	}, nil
}

func (u PurchaseListingUseCase) buildBoughtEnvelope(
	ctx context.Context,
	listing entities.Listing,
	settlement ports.Settlement,
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
		"buyer":        listing.Buyer,
		"total_price":  services.TotalPrice(listing.Price, u.FeePercent),
	})
	if err != nil {
		return ports.EventEnvelope{}, err
	}
	return ports.EventEnvelope{
		EventID:          strings.TrimSpace(eventID),
		EventType:        boughtEventType,
		OccurredAt:       settlement.SoldAt.UTC(),
		SourceService:    "listing-marketplace",
		TraceID:          strings.TrimSpace(eventID),
		SchemaVersion:    1,
		PartitionKeyPath: "listing_id",
		PartitionKey:     strconv.FormatInt(listing.ListingID, 10),
		Data:             data,
	}, nil
}

func (u PurchaseListingUseCase) now() time.Time {
	if u.Clock == nil {
		return time.Now().UTC()
	}
	return u.Clock.Now().UTC()
}
