package ports

import (
	"context"
	"time"

	"bazaar/contexts/trading-core/listing-marketplace/domain/entities"
	contractsv1 "bazaar/contracts/gen/events/v1"
)

type EventEnvelope = contractsv1.Envelope

// Settlement is the full effect set of one purchase: sold-flag transition,
// ledger credits, and optional buyer refund. The repository commits all of
// it, the outbox row, and the custody release in a single transaction.
type Settlement struct {
	ListingID      int64
	Buyer          string
	Seller         string
	FeeAccount     string
	PaymentAmount  int64
	SellerProceeds int64
	FeeProceeds    int64
	BuyerRefund    int64
	SoldAt         time.Time
}

type ListingFilter struct {
	Seller string
	Sold   *bool
	Limit  int
	Offset int
}

// ListingRepository owns listing state and the settlement ledger writes.
// Write methods run makeEvent once final listing state is known (id
// assignment, buyer) and invoke the custody callback inside the same
// transaction, so a registry failure discards every staged effect.
type ListingRepository interface {
	CreateListingWithOutbox(
		ctx context.Context,
		listing entities.Listing,
		makeEvent func(entities.Listing) (EventEnvelope, error),
		takeCustody func(context.Context) error,
	) (entities.Listing, error)
	GetListing(ctx context.Context, listingID int64) (entities.Listing, error)
	ListListings(ctx context.Context, filter ListingFilter) ([]entities.Listing, error)
	CountListings(ctx context.Context) (int64, error)
	SettlePurchaseWithOutbox(
		ctx context.Context,
		settlement Settlement,
		makeEvent func(entities.Listing) (EventEnvelope, error),
		releaseCustody func(context.Context) error,
	) (entities.Listing, error)
}

type LedgerRepository interface {
	GetBalance(ctx context.Context, account string) (int64, error)
}

// ReentrancyGuard is the store-held in-progress marker around the core
// commands. Enter fails when a marketplace operation is already in flight,
// which rejects registry callbacks that re-enter the marketplace.
type ReentrancyGuard interface {
	Enter(ctx context.Context) error
	Exit(ctx context.Context)
}

// AssetRegistry is the consumed custody collaborator. Transfer fails when
// `from` is not the current holder or the caller lacks authority.
type AssetRegistry interface {
	OwnerOf(ctx context.Context, tokenID int64) (string, error)
	Transfer(ctx context.Context, caller string, from string, to string, tokenID int64) error
}

// RegistryDirectory resolves a listing's registry reference to its
// collaborator, supporting listings across multiple registries.
type RegistryDirectory interface {
	Resolve(registryRef string) (AssetRegistry, error)
}

type OutboxMessage struct {
	OutboxID     string
	EventType    string
	PartitionKey string
	Payload      []byte
	CreatedAt    time.Time
}

type OutboxRepository interface {
	ListPendingOutbox(ctx context.Context, limit int) ([]OutboxMessage, error)
	MarkOutboxPublished(ctx context.Context, outboxID string, publishedAt time.Time) error
}

type EventPublisher interface {
	Publish(ctx context.Context, topic string, event EventEnvelope) error
}

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}
