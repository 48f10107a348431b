package postgresadapter

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"bazaar/contexts/asset-core/token-registry/domain/entities"
	domainerrors "bazaar/contexts/asset-core/token-registry/domain/errors"
	"bazaar/contexts/asset-core/token-registry/ports"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	outboxStatusPending   = "pending"
	outboxStatusPublished = "published"
)

type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewRepository(db *gorm.DB, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{
		db:     db,
		logger: logger,
	}
}

func (r *Repository) CreateTokenWithOutbox(
	ctx context.Context,
	token entities.Token,
	makeEvent func(entities.Token) (ports.EventEnvelope, error),
) (entities.Token, error) {
	var created entities.Token

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var maxID int64
		if err := tx.Model(&tokenModel{}).
			Select("COALESCE(MAX(token_id), 0)").
			Scan(&maxID).
			Error; err != nil {
			return err
		}

		assigned := token
		assigned.TokenID = maxID + 1

		row := tokenModelFromEntity(assigned)
		if err := tx.Create(&row).Error; err != nil {
			if isUniqueViolation(err) {
				return domainerrors.ErrInvalidMintRequest
			}
			return err
		}

		envelope, err := makeEvent(assigned)
		if err != nil {
			return err
		}
		if err := appendOutbox(tx, envelope); err != nil {
			return err
		}

		created = assigned
		return nil
	})
	if err != nil {
		return entities.Token{}, err
	}
	return created, nil
}

func (r *Repository) GetToken(ctx context.Context, tokenID int64) (entities.Token, error) {
	var row tokenModel
	err := r.db.WithContext(ctx).
		Where("token_id = ?", tokenID).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Token{}, domainerrors.ErrTokenNotFound
		}
		return entities.Token{}, err
	}
	return row.toEntity(), nil
}

func (r *Repository) CountTokens(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&tokenModel{}).
		Count(&count).
		Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *Repository) CountTokensByOwner(ctx context.Context, owner string) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&tokenModel{}).
		Where("owner = ?", owner).
		Count(&count).
		Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *Repository) TransferTokenWithOutbox(
	ctx context.Context,
	tokenID int64,
	from string,
	to string,
	at time.Time,
	makeEvent func(entities.Token) (ports.EventEnvelope, error),
) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row tokenModel
		if err := tx.
			Where("token_id = ?", tokenID).
			First(&row).
			Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domainerrors.ErrTokenNotFound
			}
			return err
		}
		if row.Owner != from {
			return domainerrors.ErrTransferUnauthorized
		}

		result := tx.Model(&tokenModel{}).
			Where("token_id = ? AND owner = ?", tokenID, from).
			Updates(map[string]any{
				"owner":      to,
				"updated_at": at.UTC(),
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return domainerrors.ErrTransferUnauthorized
		}

		moved := row.toEntity()
		moved.Owner = to
		moved.UpdatedAt = at.UTC()

		envelope, err := makeEvent(moved)
		if err != nil {
			return err
		}
		return appendOutbox(tx, envelope)
	})
}

func (r *Repository) SetApproval(ctx context.Context, owner string, operator string, approved bool) error {
	if !approved {
		return r.db.WithContext(ctx).
			Where("owner = ? AND operator = ?", owner, operator).
			Delete(&approvalModel{}).
			Error
	}

	row := approvalModel{
		Owner:     owner,
		Operator:  operator,
		GrantedAt: time.Now().UTC(),
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "owner"}, {Name: "operator"}},
			DoNothing: true,
		}).
		Create(&row).
		Error
}

func (r *Repository) IsApprovedForAll(ctx context.Context, owner string, operator string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&approvalModel{}).
		Where("owner = ? AND operator = ?", owner, operator).
		Count(&count).
		Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *Repository) ListPendingOutbox(ctx context.Context, limit int) ([]ports.OutboxMessage, error) {
	if limit <= 0 {
		limit = 100
	}

	var rows []outboxModel
	if err := r.db.WithContext(ctx).
		Where("status = ?", outboxStatusPending).
		Order("created_at ASC").
		Limit(limit).
		Find(&rows).
		Error; err != nil {
		return nil, err
	}

	items := make([]ports.OutboxMessage, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toPort())
	}
	return items, nil
}

func (r *Repository) MarkOutboxPublished(ctx context.Context, outboxID string, publishedAt time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&outboxModel{}).
		Where("outbox_id = ?", outboxID).
		Updates(map[string]any{
			"status":       outboxStatusPublished,
			"published_at": publishedAt.UTC(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrTokenNotFound
	}
	return nil
}

func appendOutbox(tx *gorm.DB, envelope ports.EventEnvelope) error {
	payload, err := json.Marshal(envelope)
	if err != nil {
		return err
	}
	row := outboxModel{
		OutboxID:     envelope.EventID,
		EventType:    envelope.EventType,
		PartitionKey: envelope.PartitionKey,
		Payload:      payload,
		Status:       outboxStatusPending,
		CreatedAt:    envelope.OccurredAt.UTC(),
	}
	return tx.Create(&row).Error
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}

type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}

type UUIDGenerator struct{}

func (UUIDGenerator) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}

type tokenModel struct {
	TokenID   int64     `gorm:"column:token_id;primaryKey"`
	Owner     string    `gorm:"column:owner"`
	URI       string    `gorm:"column:uri"`
	MintedAt  time.Time `gorm:"column:minted_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (tokenModel) TableName() string {
	return "registry_tokens"
}

func (m tokenModel) toEntity() entities.Token {
	return entities.Token{
		TokenID:   m.TokenID,
		Owner:     m.Owner,
		URI:       m.URI,
		MintedAt:  m.MintedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

func tokenModelFromEntity(token entities.Token) tokenModel {
	return tokenModel{
		TokenID:   token.TokenID,
		Owner:     token.Owner,
		URI:       token.URI,
		MintedAt:  token.MintedAt.UTC(),
		UpdatedAt: token.UpdatedAt.UTC(),
	}
}

type approvalModel struct {
	Owner     string    `gorm:"column:owner;primaryKey"`
	Operator  string    `gorm:"column:operator;primaryKey"`
	GrantedAt time.Time `gorm:"column:granted_at"`
}

func (approvalModel) TableName() string {
	return "registry_operator_approvals"
}

type outboxModel struct {
	OutboxID     string     `gorm:"column:outbox_id;primaryKey"`
	EventType    string     `gorm:"column:event_type"`
	PartitionKey string     `gorm:"column:partition_key"`
	Payload      []byte     `gorm:"column:payload"`
	Status       string     `gorm:"column:status"`
	CreatedAt    time.Time  `gorm:"column:created_at"`
	PublishedAt  *time.Time `gorm:"column:published_at"`
}

func (outboxModel) TableName() string {
	return "registry_outbox"
}

func (m outboxModel) toPort() ports.OutboxMessage {
	return ports.OutboxMessage{
		OutboxID:     m.OutboxID,
		EventType:    m.EventType,
		PartitionKey: m.PartitionKey,
		Payload:      m.Payload,
		CreatedAt:    m.CreatedAt,
	}
}
