package results

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"grantnet/internal/network/models"
	"grantnet/internal/platform/postgres"
	"grantnet/pkg/platform/sentinel"
)

// Clock returns the current time.
type Clock func() time.Time

// PostgresCache persists results in the analysis_cache table.
type PostgresCache struct {
	db    *sql.DB
	clock Clock
}

// PostgresOption configures a PostgresCache.
type PostgresOption func(*PostgresCache)

// WithClock sets the clock function for testability.
func WithClock(clock Clock) PostgresOption {
	return func(c *PostgresCache) {
		if clock != nil {
			c.clock = clock
		}
	}
}

// NewPostgres constructs a PostgreSQL-backed result cache.
func NewPostgres(db *sql.DB, opts ...PostgresOption) *PostgresCache {
	c := &PostgresCache{db: db, clock: time.Now}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get returns the entry for key unless it has expired.
func (c *PostgresCache) Get(ctx context.Context, key string) (*models.AnalysisResult, error) {
	var payload []byte
	err := c.db.QueryRowContext(ctx,
		`SELECT payload FROM analysis_cache WHERE cache_key = $1 AND expires_at > $2`,
		key, c.clock(),
	).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, postgres.ClassifyError(fmt.Errorf("find cached analysis: %w", err))
	}
	return decode(payload)
}

// Set upserts the entry; the newest write wins.
func (c *PostgresCache) Set(ctx context.Context, key string, result *models.AnalysisResult, ttl time.Duration) error {
	payload, err := encode(result)
	if err != nil {
		return err
	}
	now := c.clock()
	query := `
		INSERT INTO analysis_cache (cache_key, payload, created_at, expires_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (cache_key) DO UPDATE SET
			payload = EXCLUDED.payload,
			created_at = EXCLUDED.created_at,
			expires_at = EXCLUDED.expires_at
	`
	if _, err := c.db.ExecContext(ctx, query, key, payload, now, now.Add(ttl)); err != nil {
		return postgres.ClassifyError(fmt.Errorf("save cached analysis: %w", err))
	}
	return nil
}

// PurgeExpired deletes expired entries and reports how many were removed.
func (c *PostgresCache) PurgeExpired(ctx context.Context) (int64, error) {
	res, err := c.db.ExecContext(ctx, `DELETE FROM analysis_cache WHERE expires_at <= $1`, c.clock())
	if err != nil {
		return 0, postgres.ClassifyError(fmt.Errorf("purge cached analyses: %w", err))
	}
	return res.RowsAffected()
}
