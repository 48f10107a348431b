package ports

import (
	"context"
	"time"

	"bazaar/contexts/asset-core/token-registry/domain/entities"
	contractsv1 "bazaar/contracts/gen/events/v1"
)

type EventEnvelope = contractsv1.Envelope

// TokenRepository owns the token ledger. Write methods commit the ledger
// change and the outbox row in one transaction; makeEvent runs after the
// repository has resolved the final token state (id assignment, new owner).
type TokenRepository interface {
	CreateTokenWithOutbox(
		ctx context.Context,
		token entities.Token,
		makeEvent func(entities.Token) (EventEnvelope, error),
	) (entities.Token, error)
	GetToken(ctx context.Context, tokenID int64) (entities.Token, error)
	CountTokens(ctx context.Context) (int64, error)
	CountTokensByOwner(ctx context.Context, owner string) (int64, error)
	TransferTokenWithOutbox(
		ctx context.Context,
		tokenID int64,
		from string,
		to string,
		at time.Time,
		makeEvent func(entities.Token) (EventEnvelope, error),
	) error
}

type ApprovalRepository interface {
	SetApproval(ctx context.Context, owner string, operator string, approved bool) error
	IsApprovedForAll(ctx context.Context, owner string, operator string) (bool, error)
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
