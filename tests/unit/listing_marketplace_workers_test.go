package unit

import (
	"context"
	"sync"
	"testing"

	tokenregistry "bazaar/contexts/asset-core/token-registry"
	registryworkers "bazaar/contexts/asset-core/token-registry/application/workers"
	registryhttp "bazaar/contexts/asset-core/token-registry/transport/http"
	marketworkers "bazaar/contexts/trading-core/listing-marketplace/application/workers"
	marketports "bazaar/contexts/trading-core/listing-marketplace/ports"
	markethttp "bazaar/contexts/trading-core/listing-marketplace/transport/http"
)

type recordingPublisher struct {
	mu     sync.Mutex
	topics []string
	events []marketports.EventEnvelope
}

func (p *recordingPublisher) Publish(_ context.Context, topic string, event marketports.EventEnvelope) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.topics = append(p.topics, topic)
	p.events = append(p.events, event)
	return nil
}

func TestMarketplaceOutboxRelayPublishesPendingEvents(t *testing.T) {
	registry, market := newTradingStack(t, 1)
	tokenID := mintAndApprove(t, registry, market, "seller-a")

	if _, err := market.Handler.CreateListingHandler(
		context.Background(),
		"seller-a",
		markethttp.CreateListingRequest{RegistryRef: testRegistryRef, TokenID: tokenID, Price: 200},
	); err != nil {
		t.Fatalf("create listing should succeed: %v", err)
	}
	if _, err := market.Handler.PurchaseListingHandler(
		context.Background(),
		"buyer-a",
		1,
		markethttp.PurchaseListingRequest{PaymentAmount: 202},
	); err != nil {
		t.Fatalf("purchase should succeed: %v", err)
	}

	publisher := &recordingPublisher{}
	relay := marketworkers.OutboxRelay{
		Outbox:    market.Store,
		Publisher: publisher,
		Clock:     market.Store,
	}
	if err := relay.RunOnce(context.Background()); err != nil {
		t.Fatalf("relay run: %v", err)
	}

	if len(publisher.events) != 2 {
		t.Fatalf("expected 2 published events, got %d", len(publisher.events))
	}
	if publisher.events[0].EventType != "marketplace.offered" {
		t.Fatalf("first event type = %q, want marketplace.offered", publisher.events[0].EventType)
	}
	if publisher.events[1].EventType != "marketplace.bought" {
		t.Fatalf("second event type = %q, want marketplace.bought", publisher.events[1].EventType)
	}
	for _, topic := range publisher.topics {
		if topic != "marketplace.events" {
			t.Fatalf("unexpected topic %q", topic)
		}
	}

	// A second cycle finds nothing pending.
	publisher.events = nil
	if err := relay.RunOnce(context.Background()); err != nil {
		t.Fatalf("second relay run: %v", err)
	}
	if len(publisher.events) != 0 {
		t.Fatalf("published rows must not be re-delivered, got %d", len(publisher.events))
	}
}

func TestRegistryOutboxRelayPublishesMintEvents(t *testing.T) {
	registry := tokenregistry.NewInMemoryModule(nil)

	if _, err := registry.Handler.MintTokenHandler(
		context.Background(),
		"owner-a",
		registryhttp.MintTokenRequest{TokenURI: "https://cdn.example/meta.json"},
	); err != nil {
		t.Fatalf("mint should succeed: %v", err)
	}

	publisher := &recordingPublisher{}
	relay := registryworkers.OutboxRelay{
		Outbox:    registry.Store,
		Publisher: publisher,
		Clock:     registry.Store,
	}
	if err := relay.RunOnce(context.Background()); err != nil {
		t.Fatalf("relay run: %v", err)
	}

	if len(publisher.events) != 1 {
		t.Fatalf("expected 1 published event, got %d", len(publisher.events))
	}
	if publisher.events[0].EventType != "token.minted" {
		t.Fatalf("event type = %q, want token.minted", publisher.events[0].EventType)
	}
	if publisher.topics[0] != "registry.events" {
		t.Fatalf("topic = %q, want registry.events", publisher.topics[0])
	}
}
