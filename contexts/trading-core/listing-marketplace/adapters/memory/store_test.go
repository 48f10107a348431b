package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"bazaar/contexts/trading-core/listing-marketplace/domain/entities"
	domainerrors "bazaar/contexts/trading-core/listing-marketplace/domain/errors"
	"bazaar/contexts/trading-core/listing-marketplace/ports"
)

func testEnvelope(eventID string, eventType string) ports.EventEnvelope {
	return ports.EventEnvelope{
		EventID:          eventID,
		EventType:        eventType,
		OccurredAt:       time.Now().UTC(),
		SourceService:    "listing-marketplace",
		TraceID:          eventID,
		SchemaVersion:    1,
		PartitionKeyPath: "listing_id",
		PartitionKey:     "1",
		Data:             []byte(`{}`),
	}
}

func mustCreateListing(t *testing.T, store *Store, seller string, price int64) entities.Listing {
	t.Helper()
	listing, err := entities.NewListing("token-registry", 1, price, seller, time.Now())
	if err != nil {
		t.Fatalf("new listing: %v", err)
	}
	created, err := store.CreateListingWithOutbox(context.Background(), listing,
		func(assigned entities.Listing) (ports.EventEnvelope, error) {
			id, _ := store.NewID(context.Background())
			return testEnvelope(id, "marketplace.offered"), nil
		},
		nil,
	)
	if err != nil {
		t.Fatalf("create listing: %v", err)
	}
	return created
}

func TestCreateListingAssignsDenseIDs(t *testing.T) {
	store := NewStore()
	for i := int64(1); i <= 3; i++ {
		created := mustCreateListing(t, store, "seller-1", 100)
		if created.ListingID != i {
			t.Fatalf("listing id = %d, want %d", created.ListingID, i)
		}
	}
	count, err := store.CountListings(context.Background())
	if err != nil {
		t.Fatalf("count listings: %v", err)
	}
	if count != 3 {
		t.Fatalf("count = %d, want 3", count)
	}
}

func TestCreateListingCustodyFailureConsumesNoID(t *testing.T) {
	store := NewStore()
	custodyErr := errors.New("registry refused custody")

	listing, err := entities.NewListing("token-registry", 1, 100, "seller-1", time.Now())
	if err != nil {
		t.Fatalf("new listing: %v", err)
	}
	_, err = store.CreateListingWithOutbox(context.Background(), listing,
		func(entities.Listing) (ports.EventEnvelope, error) {
			return testEnvelope("evt-1", "marketplace.offered"), nil
		},
		func(context.Context) error { return custodyErr },
	)
	if !errors.Is(err, custodyErr) {
		t.Fatalf("expected custody error, got %v", err)
	}

	count, _ := store.CountListings(context.Background())
	if count != 0 {
		t.Fatalf("aborted create must not consume an id, count = %d", count)
	}
	pending, _ := store.ListPendingOutbox(context.Background(), 10)
	if len(pending) != 0 {
		t.Fatalf("aborted create must not leave outbox rows, got %d", len(pending))
	}

	created := mustCreateListing(t, store, "seller-1", 100)
	if created.ListingID != 1 {
		t.Fatalf("next successful create should take id 1, got %d", created.ListingID)
	}
}

func TestSettlePurchaseCreditsBalancesAndMarksSold(t *testing.T) {
	store := NewStore()
	created := mustCreateListing(t, store, "seller-1", 200)

	settlement := ports.Settlement{
		ListingID:      created.ListingID,
		Buyer:          "buyer-1",
		Seller:         "seller-1",
		FeeAccount:     "fee-account",
		PaymentAmount:  202,
		SellerProceeds: 200,
		FeeProceeds:    2,
		SoldAt:         time.Now(),
	}
	sold, err := store.SettlePurchaseWithOutbox(context.Background(), settlement,
		func(record entities.Listing) (ports.EventEnvelope, error) {
			return testEnvelope("evt-bought", "marketplace.bought"), nil
		},
		nil,
	)
	if err != nil {
		t.Fatalf("settle purchase: %v", err)
	}
	if !sold.Sold || sold.Buyer != "buyer-1" || sold.SoldAt == nil {
		t.Fatalf("settled listing not marked sold: %+v", sold)
	}

	sellerBalance, _ := store.GetBalance(context.Background(), "seller-1")
	if sellerBalance != 200 {
		t.Fatalf("seller balance = %d, want 200", sellerBalance)
	}
	feeBalance, _ := store.GetBalance(context.Background(), "fee-account")
	if feeBalance != 2 {
		t.Fatalf("fee balance = %d, want 2", feeBalance)
	}
}

func TestSettlePurchaseRejectsSecondSale(t *testing.T) {
	store := NewStore()
	created := mustCreateListing(t, store, "seller-1", 200)

	settlement := ports.Settlement{
		ListingID:      created.ListingID,
		Buyer:          "buyer-1",
		Seller:         "seller-1",
		FeeAccount:     "fee-account",
		SellerProceeds: 200,
		FeeProceeds:    2,
		SoldAt:         time.Now(),
	}
	makeEvent := func(entities.Listing) (ports.EventEnvelope, error) {
		id, _ := store.NewID(context.Background())
		return testEnvelope(id, "marketplace.bought"), nil
	}
	if _, err := store.SettlePurchaseWithOutbox(context.Background(), settlement, makeEvent, nil); err != nil {
		t.Fatalf("first settlement: %v", err)
	}

	settlement.Buyer = "buyer-2"
	_, err := store.SettlePurchaseWithOutbox(context.Background(), settlement, makeEvent, nil)
	if !errors.Is(err, domainerrors.ErrAlreadySold) {
		t.Fatalf("expected ErrAlreadySold, got %v", err)
	}

	sellerBalance, _ := store.GetBalance(context.Background(), "seller-1")
	if sellerBalance != 200 {
		t.Fatalf("second settlement must not credit again, balance = %d", sellerBalance)
	}
}

func TestSettlePurchaseCustodyFailureLeavesNoPartialState(t *testing.T) {
	store := NewStore()
	created := mustCreateListing(t, store, "seller-1", 200)
	custodyErr := errors.New("registry refused custody")

	settlement := ports.Settlement{
		ListingID:      created.ListingID,
		Buyer:          "buyer-1",
		Seller:         "seller-1",
		FeeAccount:     "fee-account",
		SellerProceeds: 200,
		FeeProceeds:    2,
		SoldAt:         time.Now(),
	}
	_, err := store.SettlePurchaseWithOutbox(context.Background(), settlement,
		func(entities.Listing) (ports.EventEnvelope, error) {
			return testEnvelope("evt-bought", "marketplace.bought"), nil
		},
		func(context.Context) error { return custodyErr },
	)
	if !errors.Is(err, custodyErr) {
		t.Fatalf("expected custody error, got %v", err)
	}

	current, err := store.GetListing(context.Background(), created.ListingID)
	if err != nil {
		t.Fatalf("get listing: %v", err)
	}
	if current.Sold {
		t.Fatalf("listing must stay unsold after custody failure")
	}
	sellerBalance, _ := store.GetBalance(context.Background(), "seller-1")
	if sellerBalance != 0 {
		t.Fatalf("no credits may survive an aborted settlement, balance = %d", sellerBalance)
	}
}

func TestReentrancyGuard(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	if err := store.Enter(ctx); err != nil {
		t.Fatalf("first enter: %v", err)
	}
	if err := store.Enter(ctx); !errors.Is(err, domainerrors.ErrReentrantCall) {
		t.Fatalf("expected ErrReentrantCall, got %v", err)
	}
	store.Exit(ctx)
	if err := store.Enter(ctx); err != nil {
		t.Fatalf("enter after exit: %v", err)
	}
}

func TestOutboxLifecycle(t *testing.T) {
	store := NewStore()
	mustCreateListing(t, store, "seller-1", 100)

	pending, err := store.ListPendingOutbox(context.Background(), 10)
	if err != nil {
		t.Fatalf("list pending: %v", err)
	}
	if len(pending) != 1 {
		t.Fatalf("pending = %d, want 1", len(pending))
	}
	if pending[0].EventType != "marketplace.offered" {
		t.Fatalf("event type = %q", pending[0].EventType)
	}

	if err := store.MarkOutboxPublished(context.Background(), pending[0].OutboxID, time.Now()); err != nil {
		t.Fatalf("mark published: %v", err)
	}
	pending, _ = store.ListPendingOutbox(context.Background(), 10)
	if len(pending) != 0 {
		t.Fatalf("published rows must not stay pending, got %d", len(pending))
	}
}
