package postgresadapter

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"bazaar/contexts/trading-core/listing-marketplace/domain/entities"
	domainerrors "bazaar/contexts/trading-core/listing-marketplace/domain/errors"
	"bazaar/contexts/trading-core/listing-marketplace/ports"

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

	guard chan struct{}
}

func NewRepository(db *gorm.DB, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{
		db:     db,
		logger: logger,
		guard:  make(chan struct{}, 1),
	}
}

// CreateListingWithOutbox assigns the next dense listing id, persists the
// listing and its outbox row, and runs the custody callback inside the same
// transaction. A custody failure rolls back the insert, so an aborted create
// consumes no id.
func (r *Repository) CreateListingWithOutbox(
	ctx context.Context,
	listing entities.Listing,
	makeEvent func(entities.Listing) (ports.EventEnvelope, error),
	takeCustody func(context.Context) error,
) (entities.Listing, error) {
	var created entities.Listing

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var maxID int64
		if err := tx.Model(&listingModel{}).
			Select("COALESCE(MAX(listing_id), 0)").
			Scan(&maxID).
			Error; err != nil {
			return err
		}

		assigned := listing
		assigned.ListingID = maxID + 1

		row := listingModelFromEntity(assigned)
		if err := tx.Create(&row).Error; err != nil {
			if isUniqueViolation(err) {
				return domainerrors.ErrInvalidListingRequest
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
		if takeCustody != nil {
			if err := takeCustody(ctx); err != nil {
				return err
			}
		}

		created = assigned
		return nil
	})
	if err != nil {
		return entities.Listing{}, err
	}
	return created, nil
}

func (r *Repository) GetListing(ctx context.Context, listingID int64) (entities.Listing, error) {
	var row listingModel
	err := r.db.WithContext(ctx).
		Where("listing_id = ?", listingID).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Listing{}, domainerrors.ErrListingNotFound
		}
		return entities.Listing{}, err
	}
	return row.toEntity(), nil
}

func (r *Repository) ListListings(ctx context.Context, filter ports.ListingFilter) ([]entities.Listing, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	tx := r.db.WithContext(ctx).Model(&listingModel{})
	if filter.Seller != "" {
		tx = tx.Where("seller = ?", filter.Seller)
	}
	if filter.Sold != nil {
		tx = tx.Where("sold = ?", *filter.Sold)
	}

	var rows []listingModel
	if err := tx.Order("listing_id ASC").Offset(offset).Limit(limit).Find(&rows).Error; err != nil {
		return nil, err
	}

	items := make([]entities.Listing, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

func (r *Repository) CountListings(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&listingModel{}).
		Count(&count).
		Error; err != nil {
		return 0, err
	}
	return count, nil
}

// SettlePurchaseWithOutbox commits the sold transition, ledger credits,
// outbox row and custody release in one transaction. The sold flag is
// flipped with a compare-and-set so a raced second purchase fails with
// ErrAlreadySold instead of double-settling.
func (r *Repository) SettlePurchaseWithOutbox(
	ctx context.Context,
	settlement ports.Settlement,
	makeEvent func(entities.Listing) (ports.EventEnvelope, error),
	releaseCustody func(context.Context) error,
) (entities.Listing, error) {
	var sold entities.Listing

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row listingModel
		if err := tx.
			Where("listing_id = ?", settlement.ListingID).
			First(&row).
			Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domainerrors.ErrListingNotFound
			}
			return err
		}
		if row.Sold {
			return domainerrors.ErrAlreadySold
		}

		soldAt := settlement.SoldAt.UTC()
		result := tx.Model(&listingModel{}).
			Where("listing_id = ? AND sold = ?", settlement.ListingID, false).
			Updates(map[string]any{
				"sold":    true,
				"buyer":   settlement.Buyer,
				"sold_at": soldAt,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return domainerrors.ErrAlreadySold
		}

		if err := creditBalance(tx, settlement.Seller, settlement.SellerProceeds); err != nil {
			return err
		}
		if err := creditBalance(tx, settlement.FeeAccount, settlement.FeeProceeds); err != nil {
			return err
		}
		if settlement.BuyerRefund > 0 {
			if err := creditBalance(tx, settlement.Buyer, settlement.BuyerRefund); err != nil {
				return err
			}
		}

		record := row.toEntity()
		record.Sold = true
		record.Buyer = settlement.Buyer
		record.SoldAt = &soldAt

		envelope, err := makeEvent(record)
		if err != nil {
			return err
		}
		if err := appendOutbox(tx, envelope); err != nil {
			return err
		}
		if releaseCustody != nil {
			if err := releaseCustody(ctx); err != nil {
				return err
			}
		}

		sold = record
		return nil
	})
	if err != nil {
		return entities.Listing{}, err
	}
	return sold, nil
}

func (r *Repository) GetBalance(ctx context.Context, account string) (int64, error) {
	var row balanceModel
	err := r.db.WithContext(ctx).
		Where("account = ?", account).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil
		}
		return 0, err
	}
	return row.Balance, nil
}

// Enter/Exit hold the process-local in-progress marker. The marker guards
// against registry callbacks re-entering the core commands mid-transaction;
// cross-process serialization belongs to the hosting environment.
func (r *Repository) Enter(_ context.Context) error {
	select {
	case r.guard <- struct{}{}:
		return nil
	default:
		return domainerrors.ErrReentrantCall
	}
}

func (r *Repository) Exit(_ context.Context) {
	select {
	case <-r.guard:
	default:
	}
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
		return domainerrors.ErrListingNotFound
	}
	return nil
}

func creditBalance(tx *gorm.DB, account string, amount int64) error {
	if amount == 0 {
		return nil
	}
	row := balanceModel{
		Account: account,
		Balance: amount,
	}
	return tx.
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "account"}},
			DoUpdates: clause.Assignments(map[string]any{
				"balance": gorm.Expr("market_balances.balance + ?", amount),
			}),
		}).
		Create(&row).
		Error
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

type listingModel struct {
	ListingID   int64      `gorm:"column:listing_id;primaryKey"`
	RegistryRef string     `gorm:"column:registry_ref"`
	TokenID     int64      `gorm:"column:token_id"`
	Price       int64      `gorm:"column:price"`
	Seller      string     `gorm:"column:seller"`
	Sold        bool       `gorm:"column:sold"`
	Buyer       string     `gorm:"column:buyer"`
	CreatedAt   time.Time  `gorm:"column:created_at"`
	SoldAt      *time.Time `gorm:"column:sold_at"`
}

func (listingModel) TableName() string {
	return "market_listings"
}

func (m listingModel) toEntity() entities.Listing {
	return entities.Listing{
		ListingID:   m.ListingID,
		RegistryRef: m.RegistryRef,
		TokenID:     m.TokenID,
		Price:       m.Price,
		Seller:      m.Seller,
		Sold:        m.Sold,
		Buyer:       m.Buyer,
		CreatedAt:   m.CreatedAt,
		SoldAt:      m.SoldAt,
	}
}

func listingModelFromEntity(listing entities.Listing) listingModel {
	return listingModel{
		ListingID:   listing.ListingID,
		RegistryRef: listing.RegistryRef,
		TokenID:     listing.TokenID,
		Price:       listing.Price,
		Seller:      listing.Seller,
		Sold:        listing.Sold,
		Buyer:       listing.Buyer,
		CreatedAt:   listing.CreatedAt.UTC(),
		SoldAt:      listing.SoldAt,
	}
}

type balanceModel struct {
	Account string `gorm:"column:account;primaryKey"`
	Balance int64  `gorm:"column:balance"`
}

func (balanceModel) TableName() string {
	return "market_balances"
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
	return "market_outbox"
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
