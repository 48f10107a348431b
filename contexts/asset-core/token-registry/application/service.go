package application

import (
	"context"
	"encoding/json"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"bazaar/contexts/asset-core/token-registry/domain/entities"
	domainerrors "bazaar/contexts/asset-core/token-registry/domain/errors"
	"bazaar/contexts/asset-core/token-registry/ports"
)

const (
	mintedEventType      = "token.minted"
	transferredEventType = "token.transferred"
)

type Service struct {
	Tokens    ports.TokenRepository
	Approvals ports.ApprovalRepository
	Clock     ports.Clock
	IDGen     ports.IDGenerator
	Logger    *slog.Logger
}

// Mint records a new token owned by owner and returns it with its assigned
// sequential id. The ledger write and the token.minted outbox row commit
// together.
func (s Service) Mint(ctx context.Context, owner string, uri string) (entities.Token, error) {
	token, err := entities.NewToken(owner, uri, s.now())
	if err != nil {
		return entities.Token{}, err
	}

	created, err := s.Tokens.CreateTokenWithOutbox(ctx, token, func(assigned entities.Token) (ports.EventEnvelope, error) {
		return s.buildEnvelope(ctx, mintedEventType, assigned, map[string]any{
			"token_id":  assigned.TokenID,
			"owner":     assigned.Owner,
			"token_uri": assigned.URI,
			"minted_at": assigned.MintedAt.UTC().Format(time.RFC3339),
		})
	})
	if err != nil {
		return entities.Token{}, err
	}

	s.logger().Info("token minted",
		"event", "token_minted",
		"module", "asset-core/token-registry",
		"layer", "application",
		"token_id", created.TokenID,
		"owner", created.Owner,
	)
	return created, nil
}

func (s Service) OwnerOf(ctx context.Context, tokenID int64) (string, error) {
	token, err := s.Tokens.GetToken(ctx, tokenID)
	if err != nil {
		return "", err
	}
	return token.Owner, nil
}

func (s Service) TokenURI(ctx context.Context, tokenID int64) (string, error) {
	token, err := s.Tokens.GetToken(ctx, tokenID)
	if err != nil {
		return "", err
	}
	return token.URI, nil
}

func (s Service) GetToken(ctx context.Context, tokenID int64) (entities.Token, error) {
	return s.Tokens.GetToken(ctx, tokenID)
}

func (s Service) BalanceOf(ctx context.Context, owner string) (int64, error) {
	if strings.TrimSpace(owner) == "" {
		return 0, domainerrors.ErrInvalidApprovalRequest
	}
	return s.Tokens.CountTokensByOwner(ctx, strings.TrimSpace(owner))
}

func (s Service) TokenCount(ctx context.Context) (int64, error) {
	return s.Tokens.CountTokens(ctx)
}

func (s Service) SetApprovalForAll(ctx context.Context, owner string, operator string, approved bool) error {
	owner = strings.TrimSpace(owner)
	operator = strings.TrimSpace(operator)
	if owner == "" || operator == "" || owner == operator {
		return domainerrors.ErrInvalidApprovalRequest
	}
	if err := s.Approvals.SetApproval(ctx, owner, operator, approved); err != nil {
		return err
	}

	s.logger().Info("operator approval set",
		"event", "token_approval_set",
		"module", "asset-core/token-registry",
		"layer", "application",
		"owner", owner,
		"operator", operator,
		"approved", approved,
	)
	return nil
}

func (s Service) IsApprovedForAll(ctx context.Context, owner string, operator string) (bool, error) {
	return s.Approvals.IsApprovedForAll(ctx, strings.TrimSpace(owner), strings.TrimSpace(operator))
}

// Transfer moves custody of tokenID from `from` to `to`. The caller must be
// the current holder or an operator the holder approved; `from` must match
// the current holder. The ownership write re-checks the holder inside the
// repository transaction, so a stale `from` always aborts.
func (s Service) Transfer(ctx context.Context, caller string, from string, to string, tokenID int64) error {
	caller = strings.TrimSpace(caller)
	from = strings.TrimSpace(from)
	to = strings.TrimSpace(to)
	if caller == "" || from == "" || to == "" {
		return domainerrors.ErrInvalidTransferRequest
	}

	token, err := s.Tokens.GetToken(ctx, tokenID)
	if err != nil {
		return err
	}
	if token.Owner != from {
		return domainerrors.ErrTransferUnauthorized
	}
	if caller != from {
		approved, err := s.Approvals.IsApprovedForAll(ctx, from, caller)
		if err != nil {
			return err
		}
		if !approved {
			return domainerrors.ErrTransferUnauthorized
		}
	}

	err = s.Tokens.TransferTokenWithOutbox(ctx, tokenID, from, to, s.now(), func(moved entities.Token) (ports.EventEnvelope, error) {
		return s.buildEnvelope(ctx, transferredEventType, moved, map[string]any{
			"token_id": moved.TokenID,
			"from":     from,
			"to":       moved.Owner,
		})
	})
	if err != nil {
		s.logger().Warn("token transfer rejected",
			"event", "token_transfer_rejected",
			"module", "asset-core/token-registry",
			"layer", "application",
			"token_id", tokenID,
			"caller", caller,
			"error", err.Error(),
		)
		return err
	}

	s.logger().Info("token transferred",
		"event", "token_transferred",
		"module", "asset-core/token-registry",
		"layer", "application",
		"token_id", tokenID,
		"from", from,
		"to", to,
	)
	return nil
}

func (s Service) buildEnvelope(
	ctx context.Context,
	eventType string,
	token entities.Token,
	payload map[string]any,
) (ports.EventEnvelope, error) {
	eventID, err := s.IDGen.NewID(ctx)
	if err != nil {
		return ports.EventEnvelope{}, err
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return ports.EventEnvelope{}, err
	}
	return ports.EventEnvelope{
		EventID:          strings.TrimSpace(eventID),
		EventType:        eventType,
		OccurredAt:       token.UpdatedAt.UTC(),
		SourceService:    "token-registry",
		TraceID:          strings.TrimSpace(eventID),
		SchemaVersion:    1,
		PartitionKeyPath: "token_id",
		PartitionKey:     formatTokenID(token.TokenID),
		Data:             data,
	}, nil
}

func (s Service) now() time.Time {
	if s.Clock == nil {
		return time.Now().UTC()
	}
	return s.Clock.Now().UTC()
}

func (s Service) logger() *slog.Logger {
	if s.Logger == nil {
		return slog.Default()
	}
	return s.Logger
}

func formatTokenID(tokenID int64) string {
	return strconv.FormatInt(tokenID, 10)
}
