package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/plugin/dbresolver"

	"github.com/feral-file/nft-valuation/internal/store/schema"
)

type pgStore struct {
	db *gorm.DB
}

func hasDBResolver(db *gorm.DB) bool {
	return db != nil && db.Callback().Query().Get("gorm:db_resolver") != nil
}

// NewPGStore creates a new PostgreSQL store instance
func NewPGStore(db *gorm.DB) Store {
	return &pgStore{db: db}
}

// ConfigureConnectionPool configures the connection pool settings for a GORM database connection.
// Zero values fall back to the defaults of NormalizeConnectionPoolSettings.
func ConfigureConnectionPool(db *gorm.DB, maxOpenConns, maxIdleConns int, connMaxLifetime, connMaxIdleTime time.Duration) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	maxOpenConns, maxIdleConns, connMaxLifetime, connMaxIdleTime =
		NormalizeConnectionPoolSettings(maxOpenConns, maxIdleConns, connMaxLifetime, connMaxIdleTime)

	sqlDB.SetMaxOpenConns(maxOpenConns)
	sqlDB.SetMaxIdleConns(maxIdleConns)
	sqlDB.SetConnMaxLifetime(connMaxLifetime)
	sqlDB.SetConnMaxIdleTime(connMaxIdleTime)

	return nil
}

// RegisterReadReplica routes read queries to the replica at readDSN. An empty DSN is a no-op.
func RegisterReadReplica(db *gorm.DB, readDSN string) error {
	if readDSN == "" {
		return nil
	}
	err := db.Use(dbresolver.Register(dbresolver.Config{
		Replicas: []gorm.Dialector{postgres.Open(readDSN)},
		Policy:   dbresolver.RandomPolicy{},
	}))
	if err != nil {
		return fmt.Errorf("failed to register read replica: %w", err)
	}
	return nil
}

// NormalizeConnectionPoolSettings applies defaults and clamps pool settings into safe values.
//
// Defaults (when zero):
//   - MaxOpenConns: 20
//   - MaxIdleConns: 5
//   - ConnMaxLifetime: 5 minutes
//   - ConnMaxIdleTime: 10 minutes
func NormalizeConnectionPoolSettings(maxOpenConns, maxIdleConns int, connMaxLifetime, connMaxIdleTime time.Duration) (int, int, time.Duration, time.Duration) {
	if maxOpenConns == 0 {
		maxOpenConns = 20
	}
	if maxIdleConns == 0 {
		maxIdleConns = 5
	}
	if connMaxLifetime == 0 {
		connMaxLifetime = 5 * time.Minute
	}
	if connMaxIdleTime == 0 {
		connMaxIdleTime = 10 * time.Minute
	}
	if maxIdleConns > maxOpenConns {
		maxIdleConns = maxOpenConns
	}

	return maxOpenConns, maxIdleConns, connMaxLifetime, connMaxIdleTime
}

// calculateSafeBatchSize computes the batch size for bulk inserts that stays under
// PostgreSQL's limit of 65535 parameters per statement, keeping 1000 parameters
// of headroom for ON CONFLICT clauses and GORM bookkeeping.
func calculateSafeBatchSize(totalRecords int, fieldsPerRecord int) int {
	const maxParams = 65535
	const totalHeadroom = 1000

	safeBatchSize := max((maxParams-totalHeadroom)/fieldsPerRecord, 1)
	if safeBatchSize > totalRecords {
		return totalRecords
	}
	return safeBatchSize
}

// =============================================================================
// Collections
// =============================================================================

// GetCollection retrieves a collection by slug
func (s *pgStore) GetCollection(ctx context.Context, slug string) (*schema.Collection, error) {
	var collection schema.Collection
	query := func(db *gorm.DB) error {
		return db.WithContext(ctx).Where("slug = ?", slug).First(&collection).Error
	}

	err := query(s.db)
	if err == nil {
		return &collection, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to get collection: %w", err)
	}
	if !hasDBResolver(s.db) {
		return nil, nil
	}

	// Replica can lag behind primary right after an ingestion; retry on primary.
	err = query(s.db.Clauses(dbresolver.Write))
	if err == nil {
		return &collection, nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return nil, fmt.Errorf("failed to get collection from primary: %w", err)
}

// ListCollections returns every ingested collection ordered by slug
func (s *pgStore) ListCollections(ctx context.Context) ([]schema.Collection, error) {
	var collections []schema.Collection
	if err := s.db.WithContext(ctx).Order("slug ASC").Find(&collections).Error; err != nil {
		return nil, fmt.Errorf("failed to list collections: %w", err)
	}
	return collections, nil
}

// UpdateCollectionFloor stores the latest collection-wide floor price
func (s *pgStore) UpdateCollectionFloor(ctx context.Context, slug string, floor float64) error {
	err := s.db.WithContext(ctx).
		Model(&schema.Collection{}).
		Where("slug = ?", slug).
		Updates(map[string]interface{}{
			"floor_price": floor,
			"updated_at":  gorm.Expr("now()"),
		}).Error
	if err != nil {
		return fmt.Errorf("failed to update collection floor: %w", err)
	}
	return nil
}

// ReplaceCollectionSnapshot upserts the collection and swaps its traits and tokens.
// Readers never observe a partially written snapshot.
func (s *pgStore) ReplaceCollectionSnapshot(ctx context.Context, snapshot CollectionSnapshot) error {
	slug := snapshot.Collection.Slug
	if snapshot.Collection.IgnoredTraitTypesRarity == nil {
		snapshot.Collection.IgnoredTraitTypesRarity = pq.StringArray{}
	}
	if snapshot.Collection.IgnoredTraitTypesOverlap == nil {
		snapshot.Collection.IgnoredTraitTypesOverlap = pq.StringArray{}
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "slug"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"contract_address",
				"total_supply",
				"floor_price",
				"avg_trait_rarity",
				"rarity_multiplier",
				"rarity_cutoff",
				"ignored_trait_types_rarity",
				"ignored_trait_types_overlap",
				"trait_histogram",
				"updated_at",
			}),
		}).Create(&snapshot.Collection).Error; err != nil {
			return fmt.Errorf("failed to upsert collection: %w", err)
		}

		if err := tx.Where("collection_slug = ?", slug).Delete(&schema.Trait{}).Error; err != nil {
			return fmt.Errorf("failed to delete previous traits: %w", err)
		}
		if err := tx.Where("collection_slug = ?", slug).Delete(&schema.Token{}).Error; err != nil {
			return fmt.Errorf("failed to delete previous tokens: %w", err)
		}

		if len(snapshot.Traits) > 0 {
			for i := range snapshot.Traits {
				snapshot.Traits[i].ID = 0
				snapshot.Traits[i].CollectionSlug = slug
			}
			// Trait has 5 inserted fields
			batchSize := calculateSafeBatchSize(len(snapshot.Traits), 5)
			if err := tx.CreateInBatches(&snapshot.Traits, batchSize).Error; err != nil {
				return fmt.Errorf("failed to create traits: %w", err)
			}
		}

		if len(snapshot.Tokens) > 0 {
			for i := range snapshot.Tokens {
				snapshot.Tokens[i].ID = 0
				snapshot.Tokens[i].CollectionSlug = slug
				normalizeTokenArrays(&snapshot.Tokens[i])
			}
			// Token has 16 inserted fields
			batchSize := calculateSafeBatchSize(len(snapshot.Tokens), 16)
			if err := tx.CreateInBatches(&snapshot.Tokens, batchSize).Error; err != nil {
				return fmt.Errorf("failed to create tokens: %w", err)
			}
		}

		return nil
	})
}

// normalizeTokenArrays replaces nil arrays so batched inserts never mix NULL
// with values in NOT NULL array columns
func normalizeTokenArrays(token *schema.Token) {
	if token.Traits == nil {
		token.Traits = pq.StringArray{}
	}
	for _, ids := range []*pq.Int64Array{&token.OverlapIDs3, &token.OverlapIDs4, &token.OverlapIDs5} {
		if *ids == nil {
			*ids = pq.Int64Array{}
		}
	}
}

// PurgeCollection deletes the collection and every row that belongs to it
func (s *pgStore) PurgeCollection(ctx context.Context, slug string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, model := range []interface{}{&schema.Listing{}, &schema.Sale{}, &schema.Token{}, &schema.Trait{}} {
			if err := tx.Where("collection_slug = ?", slug).Delete(model).Error; err != nil {
				return fmt.Errorf("failed to purge %T: %w", model, err)
			}
		}
		if err := tx.Where(`key LIKE ? ESCAPE '\'`, escapeLike(syncCursorKey(slug+":"))+"%").Delete(&schema.KeyValueStore{}).Error; err != nil {
			return fmt.Errorf("failed to purge sync cursors: %w", err)
		}
		if err := tx.Where("slug = ?", slug).Delete(&schema.Collection{}).Error; err != nil {
			return fmt.Errorf("failed to purge collection: %w", err)
		}
		return nil
	})
}

// =============================================================================
// Traits
// =============================================================================

// GetTraits retrieves the given traits of a collection
func (s *pgStore) GetTraits(ctx context.Context, slug string, traitIDs []string) ([]schema.Trait, error) {
	if len(traitIDs) == 0 {
		return []schema.Trait{}, nil
	}

	var traits []schema.Trait
	err := s.db.WithContext(ctx).
		Where("collection_slug = ? AND trait_id IN ?", slug, traitIDs).
		Find(&traits).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get traits: %w", err)
	}
	return traits, nil
}

// GetAllTraits retrieves every trait of a collection
func (s *pgStore) GetAllTraits(ctx context.Context, slug string) ([]schema.Trait, error) {
	var traits []schema.Trait
	err := s.db.WithContext(ctx).
		Where("collection_slug = ?", slug).
		Order("trait_id ASC").
		Find(&traits).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get collection traits: %w", err)
	}
	return traits, nil
}

// =============================================================================
// Tokens
// =============================================================================

// GetToken retrieves a token
func (s *pgStore) GetToken(ctx context.Context, slug string, tokenID int64) (*schema.Token, error) {
	var token schema.Token
	err := s.db.WithContext(ctx).
		Where("collection_slug = ? AND token_id = ?", slug, tokenID).
		First(&token).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get token: %w", err)
	}
	return &token, nil
}

// CountTokensByOwner counts the tokens of a collection held by owner
func (s *pgStore) CountTokensByOwner(ctx context.Context, slug string, owner string) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&schema.Token{}).
		Where("collection_slug = ? AND owner = ?", slug, owner).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count tokens by owner: %w", err)
	}
	return count, nil
}

// UpdateTokenOwner records a new owner for a token
func (s *pgStore) UpdateTokenOwner(ctx context.Context, slug string, tokenID int64, owner string) error {
	err := s.db.WithContext(ctx).
		Model(&schema.Token{}).
		Where("collection_slug = ? AND token_id = ?", slug, tokenID).
		Updates(map[string]interface{}{
			"owner":      owner,
			"updated_at": gorm.Expr("now()"),
		}).Error
	if err != nil {
		return fmt.Errorf("failed to update token owner: %w", err)
	}
	return nil
}

// =============================================================================
// Listings
// =============================================================================

// GetLatestListingsForTrait returns the most recent listing at or before asOf
// of every token holding the trait
func (s *pgStore) GetLatestListingsForTrait(ctx context.Context, slug string, traitID string, asOf time.Time) ([]schema.Listing, error) {
	var listings []schema.Listing
	err := s.db.WithContext(ctx).Raw(`
		SELECT DISTINCT ON (l.token_id) l.*
		FROM listings l
		JOIN tokens t ON t.collection_slug = l.collection_slug AND t.token_id = l.token_id
		WHERE l.collection_slug = ?
		  AND t.traits @> ARRAY[?]::text[]
		  AND l.timestamp <= ?
		ORDER BY l.token_id, l.timestamp DESC, l.id DESC`,
		slug, traitID, asOf,
	).Scan(&listings).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get latest listings for trait: %w", err)
	}
	return listings, nil
}

// GetLatestListing returns the most recent listing of a token
func (s *pgStore) GetLatestListing(ctx context.Context, slug string, tokenID int64) (*schema.Listing, error) {
	db := s.db
	if hasDBResolver(db) {
		// Called right after a listing refresh wrote to the primary
		db = db.Clauses(dbresolver.Write)
	}

	var listing schema.Listing
	err := db.WithContext(ctx).
		Where("collection_slug = ? AND token_id = ?", slug, tokenID).
		Order("timestamp DESC, id DESC").
		First(&listing).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get latest listing: %w", err)
	}
	return &listing, nil
}

// GetListingsForToken returns the listing events of a token since the given time
func (s *pgStore) GetListingsForToken(ctx context.Context, slug string, tokenID int64, since time.Time) ([]schema.Listing, error) {
	var listings []schema.Listing
	err := s.db.WithContext(ctx).
		Where("collection_slug = ? AND token_id = ? AND timestamp >= ?", slug, tokenID, since).
		Order("timestamp ASC, id ASC").
		Find(&listings).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get listings for token: %w", err)
	}
	return listings, nil
}

// CountListedTokens counts tokens whose most recent listing carries a price
func (s *pgStore) CountListedTokens(ctx context.Context, slug string) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Raw(`
		SELECT COUNT(*) FROM (
			SELECT DISTINCT ON (token_id) price
			FROM listings
			WHERE collection_slug = ?
			ORDER BY token_id, timestamp DESC, id DESC
		) latest
		WHERE latest.price IS NOT NULL`,
		slug,
	).Scan(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count listed tokens: %w", err)
	}
	return count, nil
}

// CountListingEvents counts listing events of a given type since the given time
func (s *pgStore) CountListingEvents(ctx context.Context, slug string, updateType schema.ListingUpdateType, since time.Time) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&schema.Listing{}).
		Where("collection_slug = ? AND update_type = ? AND timestamp >= ?", slug, updateType, since).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count listing events: %w", err)
	}
	return count, nil
}

// GetLatestListingTime returns the timestamp of the newest listing event
func (s *pgStore) GetLatestListingTime(ctx context.Context, slug string) (*time.Time, error) {
	return s.latestTime(ctx, &schema.Listing{}, slug)
}

// CreateListings appends listing events, skipping ones already stored
func (s *pgStore) CreateListings(ctx context.Context, listings []schema.Listing) error {
	if len(listings) == 0 {
		return nil
	}

	// Listing has 5 inserted fields
	batchSize := calculateSafeBatchSize(len(listings), 5)
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "collection_slug"}, {Name: "token_id"}, {Name: "update_type"}, {Name: "timestamp"}},
			DoNothing: true,
		}).
		CreateInBatches(&listings, batchSize).Error
	if err != nil {
		return fmt.Errorf("failed to create listings: %w", err)
	}
	return nil
}

// =============================================================================
// Sales
// =============================================================================

// GetSalesForToken returns every sale of a token, oldest first
func (s *pgStore) GetSalesForToken(ctx context.Context, slug string, tokenID int64) ([]schema.Sale, error) {
	var sales []schema.Sale
	err := s.db.WithContext(ctx).
		Where("collection_slug = ? AND token_id = ?", slug, tokenID).
		Order("timestamp ASC, id ASC").
		Find(&sales).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get sales for token: %w", err)
	}
	return sales, nil
}

// GetSalesForTrait returns the sales of tokens holding the trait since the given time, oldest first
func (s *pgStore) GetSalesForTrait(ctx context.Context, slug string, traitID string, since time.Time) ([]schema.Sale, error) {
	var sales []schema.Sale
	err := s.db.WithContext(ctx).
		Where("collection_slug = ? AND timestamp >= ?", slug, since).
		Where("token_id IN (?)", s.db.Model(&schema.Token{}).
			Select("token_id").
			Where("collection_slug = ? AND traits @> ARRAY[?]::text[]", slug, traitID)).
		Order("timestamp ASC, id ASC").
		Find(&sales).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get sales for trait: %w", err)
	}
	return sales, nil
}

// GetCollectionSales returns the collection sales since the given time, oldest first
func (s *pgStore) GetCollectionSales(ctx context.Context, slug string, since time.Time) ([]schema.Sale, error) {
	var sales []schema.Sale
	err := s.db.WithContext(ctx).
		Where("collection_slug = ? AND timestamp >= ?", slug, since).
		Order("timestamp ASC, id ASC").
		Find(&sales).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get collection sales: %w", err)
	}
	return sales, nil
}

// GetAvgSalePrice averages sales strictly before the given time
func (s *pgStore) GetAvgSalePrice(ctx context.Context, slug string, traitID *string, before time.Time) (*float64, error) {
	query := s.db.WithContext(ctx).
		Model(&schema.Sale{}).
		Select("AVG(price)").
		Where("collection_slug = ? AND timestamp < ?", slug, before)
	if traitID != nil {
		query = query.Where("token_id IN (?)", s.db.Model(&schema.Token{}).
			Select("token_id").
			Where("collection_slug = ? AND traits @> ARRAY[?]::text[]", slug, *traitID))
	}

	var avg sql.NullFloat64
	if err := query.Row().Scan(&avg); err != nil {
		return nil, fmt.Errorf("failed to get average sale price: %w", err)
	}
	if !avg.Valid {
		return nil, nil
	}
	return &avg.Float64, nil
}

// CountSalesAbove counts collection sales above price since the given time
func (s *pgStore) CountSalesAbove(ctx context.Context, slug string, price float64, since time.Time) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&schema.Sale{}).
		Where("collection_slug = ? AND price > ? AND timestamp >= ?", slug, price, since).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count sales above price: %w", err)
	}
	return count, nil
}

// GetLatestSaleTime returns the timestamp of the newest sale
func (s *pgStore) GetLatestSaleTime(ctx context.Context, slug string) (*time.Time, error) {
	return s.latestTime(ctx, &schema.Sale{}, slug)
}

// CreateSales appends sales, skipping ones already stored
func (s *pgStore) CreateSales(ctx context.Context, sales []schema.Sale) error {
	if len(sales) == 0 {
		return nil
	}

	// Sale has 4 inserted fields
	batchSize := calculateSafeBatchSize(len(sales), 4)
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "collection_slug"}, {Name: "token_id"}, {Name: "timestamp"}},
			DoNothing: true,
		}).
		CreateInBatches(&sales, batchSize).Error
	if err != nil {
		return fmt.Errorf("failed to create sales: %w", err)
	}
	return nil
}

func (s *pgStore) latestTime(ctx context.Context, model interface{}, slug string) (*time.Time, error) {
	var latest sql.NullTime
	err := s.db.WithContext(ctx).
		Model(model).
		Select("MAX(timestamp)").
		Where("collection_slug = ?", slug).
		Row().Scan(&latest)
	if err != nil {
		return nil, fmt.Errorf("failed to get latest timestamp: %w", err)
	}
	if !latest.Valid {
		return nil, nil
	}
	return &latest.Time, nil
}

// =============================================================================
// Sync cursors
// =============================================================================

func syncCursorKey(name string) string {
	return "sync_cursor:" + name
}

// escapeLike escapes the LIKE wildcards of a literal prefix
func escapeLike(value string) string {
	return strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`).Replace(value)
}

// GetSyncCursor retrieves a named sync checkpoint
func (s *pgStore) GetSyncCursor(ctx context.Context, name string) (*time.Time, error) {
	var kv schema.KeyValueStore
	err := s.db.WithContext(ctx).Where("key = ?", syncCursorKey(name)).First(&kv).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get sync cursor: %w", err)
	}

	at, err := time.Parse(time.RFC3339Nano, kv.Value)
	if err != nil {
		return nil, fmt.Errorf("failed to parse sync cursor: %w", err)
	}
	return &at, nil
}

// SetSyncCursor stores a named sync checkpoint
func (s *pgStore) SetSyncCursor(ctx context.Context, name string, at time.Time) error {
	kv := schema.KeyValueStore{
		Key:   syncCursorKey(name),
		Value: at.UTC().Format(time.RFC3339Nano),
	}
	if err := s.db.WithContext(ctx).Save(&kv).Error; err != nil {
		return fmt.Errorf("failed to set sync cursor: %w", err)
	}
	return nil
}
