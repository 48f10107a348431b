package memory

import (
	"bytes"
	"context"
	"encoding/json"
	"sort"
	"strings"
	"sync"
	"time"

	"bazaar/contexts/trading-core/listing-marketplace/domain/entities"
	domainerrors "bazaar/contexts/trading-core/listing-marketplace/domain/errors"
	"bazaar/contexts/trading-core/listing-marketplace/ports"

	"github.com/google/uuid"
)

const (
	outboxStatusPending   = "pending"
	outboxStatusPublished = "published"
)

// Store is the in-memory marketplace ledger: listings, settlement balances,
// outbox, and the reentrancy marker. Every write method stages its full
// effect set and commits only after the event builder and custody callback
// both succeed, so a failed custody transfer leaves no partial state and
// consumes no listing id.
type Store struct {
	mu sync.RWMutex

	listings      map[int64]entities.Listing
	nextListingID int64
	balances      map[string]int64
	outbox        map[string]outboxRecord

	guardMu    sync.Mutex
	inProgress bool
}

type outboxRecord struct {
	Message     ports.OutboxMessage
	Status      string
	PublishedAt *time.Time
}

func NewStore() *Store {
	return &Store{
		listings: make(map[int64]entities.Listing),
		balances: make(map[string]int64),
		outbox:   make(map[string]outboxRecord),
	}
}

func (s *Store) CreateListingWithOutbox(
	ctx context.Context,
	listing entities.Listing,
	makeEvent func(entities.Listing) (ports.EventEnvelope, error),
	takeCustody func(context.Context) error,
) (entities.Listing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	assigned := listing
	assigned.ListingID = s.nextListingID + 1

	envelope, err := makeEvent(assigned)
	if err != nil {
		return entities.Listing{}, err
	}
	if takeCustody != nil {
		if err := takeCustody(ctx); err != nil {
			return entities.Listing{}, err
		}
	}
	if err := s.appendOutboxLocked(envelope); err != nil {
		return entities.Listing{}, err
	}

	s.nextListingID = assigned.ListingID
	s.listings[assigned.ListingID] = assigned
	return assigned, nil
}

func (s *Store) GetListing(_ context.Context, listingID int64) (entities.Listing, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	listing, ok := s.listings[listingID]
	if !ok {
		return entities.Listing{}, domainerrors.ErrListingNotFound
	}
	return listing, nil
}

func (s *Store) ListListings(_ context.Context, filter ports.ListingFilter) ([]entities.Listing, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	items := make([]entities.Listing, 0)
	for _, listing := range s.listings {
		if filter.Seller != "" && listing.Seller != filter.Seller {
			continue
		}
		if filter.Sold != nil && listing.Sold != *filter.Sold {
			continue
		}
		items = append(items, listing)
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].ListingID < items[j].ListingID
	})
	if offset >= len(items) {
		return []entities.Listing{}, nil
	}
	end := offset + limit
	if end > len(items) {
		end = len(items)
	}
	return append([]entities.Listing(nil), items[offset:end]...), nil
}

func (s *Store) CountListings(_ context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.nextListingID, nil
}

func (s *Store) SettlePurchaseWithOutbox(
	ctx context.Context,
	settlement ports.Settlement,
	makeEvent func(entities.Listing) (ports.EventEnvelope, error),
	releaseCustody func(context.Context) error,
) (entities.Listing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	listing, ok := s.listings[settlement.ListingID]
	if !ok {
		return entities.Listing{}, domainerrors.ErrListingNotFound
	}
	// Re-checked under the store lock: the sold transition happens at most
	// once even if two purchase attempts raced past the command's check.
	if listing.Sold {
		return entities.Listing{}, domainerrors.ErrAlreadySold
	}

	soldAt := settlement.SoldAt.UTC()
	record := listing
	record.Sold = true
	record.Buyer = settlement.Buyer
	record.SoldAt = &soldAt

	envelope, err := makeEvent(record)
	if err != nil {
		return entities.Listing{}, err
	}
	if releaseCustody != nil {
		if err := releaseCustody(ctx); err != nil {
			return entities.Listing{}, err
		}
	}
	if err := s.appendOutboxLocked(envelope); err != nil {
		return entities.Listing{}, err
	}

	s.listings[record.ListingID] = record
	s.balances[settlement.Seller] += settlement.SellerProceeds
	s.balances[settlement.FeeAccount] += settlement.FeeProceeds
	if settlement.BuyerRefund > 0 {
		s.balances[settlement.Buyer] += settlement.BuyerRefund
	}
	return record, nil
}

func (s *Store) GetBalance(_ context.Context, account string) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.balances[account], nil
}

// Enter sets the in-progress marker. A nested call into a core command while
// one is in flight observes the marker and fails fast instead of interleaving
// with the open transaction.
func (s *Store) Enter(_ context.Context) error {
	s.guardMu.Lock()
	defer s.guardMu.Unlock()

	if s.inProgress {
		return domainerrors.ErrReentrantCall
	}
	s.inProgress = true
	return nil
}

func (s *Store) Exit(_ context.Context) {
	s.guardMu.Lock()
	defer s.guardMu.Unlock()

	s.inProgress = false
}

func (s *Store) ListPendingOutbox(_ context.Context, limit int) ([]ports.OutboxMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = 100
	}
	items := make([]ports.OutboxMessage, 0)
	for _, row := range s.outbox {
		if row.Status == outboxStatusPending {
			items = append(items, row.Message)
		}
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].CreatedAt.Before(items[j].CreatedAt)
	})
	if len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

func (s *Store) MarkOutboxPublished(_ context.Context, outboxID string, publishedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	row, ok := s.outbox[strings.TrimSpace(outboxID)]
	if !ok {
		return domainerrors.ErrListingNotFound
	}
	ts := publishedAt.UTC()
	row.Status = outboxStatusPublished
	row.PublishedAt = &ts
	s.outbox[strings.TrimSpace(outboxID)] = row
	return nil
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}

func (s *Store) appendOutboxLocked(envelope ports.EventEnvelope) error {
	payload, err := json.Marshal(envelope)
	if err != nil {
		return err
	}
	outboxID := strings.TrimSpace(envelope.EventID)
	if outboxID == "" {
		return domainerrors.ErrInvalidListingRequest
	}
	if existing, ok := s.outbox[outboxID]; ok {
		if !bytes.Equal(existing.Message.Payload, payload) {
			return domainerrors.ErrInvalidListingRequest
		}
		return nil
	}
	s.outbox[outboxID] = outboxRecord{
		Message: ports.OutboxMessage{
			OutboxID:     outboxID,
			EventType:    envelope.EventType,
			PartitionKey: envelope.PartitionKey,
			Payload:      payload,
			CreatedAt:    envelope.OccurredAt.UTC(),
		},
		Status: outboxStatusPending,
	}
	return nil
}
