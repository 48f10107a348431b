package memory

import (
	"bytes"
	"context"
	"encoding/json"
	"sort"
	"strings"
	"sync"
	"time"

	"bazaar/contexts/asset-core/token-registry/domain/entities"
	domainerrors "bazaar/contexts/asset-core/token-registry/domain/errors"
	"bazaar/contexts/asset-core/token-registry/ports"

	"github.com/google/uuid"
)

const (
	outboxStatusPending   = "pending"
	outboxStatusPublished = "published"
)

type Store struct {
	mu sync.RWMutex

	tokens      map[int64]entities.Token
	nextTokenID int64
	approvals   map[string]map[string]bool
	outbox      map[string]outboxRecord
}

type outboxRecord struct {
	Message     ports.OutboxMessage
	Status      string
	PublishedAt *time.Time
}

func NewStore() *Store {
	return &Store{
		tokens:    make(map[int64]entities.Token),
		approvals: make(map[string]map[string]bool),
		outbox:    make(map[string]outboxRecord),
	}
}

func (s *Store) CreateTokenWithOutbox(
	_ context.Context,
	token entities.Token,
	makeEvent func(entities.Token) (ports.EventEnvelope, error),
) (entities.Token, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	assigned := token
	assigned.TokenID = s.nextTokenID + 1

	envelope, err := makeEvent(assigned)
	if err != nil {
		return entities.Token{}, err
	}
	if err := s.appendOutboxLocked(envelope); err != nil {
		return entities.Token{}, err
	}

	s.nextTokenID = assigned.TokenID
	s.tokens[assigned.TokenID] = assigned
	return assigned, nil
}

func (s *Store) GetToken(_ context.Context, tokenID int64) (entities.Token, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	token, ok := s.tokens[tokenID]
	if !ok {
		return entities.Token{}, domainerrors.ErrTokenNotFound
	}
	return token, nil
}

func (s *Store) CountTokens(_ context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.nextTokenID, nil
}

func (s *Store) CountTokensByOwner(_ context.Context, owner string) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var count int64
	for _, token := range s.tokens {
		if token.Owner == owner {
			count++
		}
	}
	return count, nil
}

func (s *Store) TransferTokenWithOutbox(
	_ context.Context,
	tokenID int64,
	from string,
	to string,
	at time.Time,
	makeEvent func(entities.Token) (ports.EventEnvelope, error),
) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	token, ok := s.tokens[tokenID]
	if !ok {
		return domainerrors.ErrTokenNotFound
	}
	if token.Owner != from {
		return domainerrors.ErrTransferUnauthorized
	}

	moved := token
	moved.Owner = to
	moved.UpdatedAt = at.UTC()

	envelope, err := makeEvent(moved)
	if err != nil {
		return err
	}
	if err := s.appendOutboxLocked(envelope); err != nil {
		return err
	}

	s.tokens[tokenID] = moved
	return nil
}

func (s *Store) SetApproval(_ context.Context, owner string, operator string, approved bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if strings.TrimSpace(owner) == "" || strings.TrimSpace(operator) == "" {
		return domainerrors.ErrInvalidApprovalRequest
	}
	operators, ok := s.approvals[owner]
	if !ok {
		operators = make(map[string]bool)
		s.approvals[owner] = operators
	}
	if approved {
		operators[operator] = true
		return nil
	}
	delete(operators, operator)
	return nil
}

func (s *Store) IsApprovedForAll(_ context.Context, owner string, operator string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.approvals[owner][operator], nil
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
		return domainerrors.ErrTokenNotFound
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
		return domainerrors.ErrInvalidMintRequest
	}
	if existing, ok := s.outbox[outboxID]; ok {
		if !bytes.Equal(existing.Message.Payload, payload) {
			return domainerrors.ErrInvalidMintRequest
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
