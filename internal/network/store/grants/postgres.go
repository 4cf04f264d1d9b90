// Package grants provides GrantStore implementations backed by Postgres, by
// memory, and by YAML fixture files.
package grants

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"grantnet/internal/network/models"
	"grantnet/internal/platform/postgres"
)

// PostgresStore reads grants from the grants table.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed grant store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// GrantsByFunder returns every grant from funderID in the given fiscal years,
// in a single query. Geography matches case-insensitively; empty means any.
func (s *PostgresStore) GrantsByFunder(ctx context.Context, funderID string, years []int, geography string) ([]models.GrantRecord, error) {
	query := `
		SELECT funder_id, recipient_tax_id, recipient_name, amount, fiscal_year, purpose, geography
		FROM grants
		WHERE funder_id = $1
		  AND fiscal_year = ANY($2)
		  AND ($3 = '' OR lower(geography) = lower($3))
		ORDER BY fiscal_year, id
	`
	rows, err := s.db.QueryContext(ctx, query, funderID, pq.Array(toInt64s(years)), geography)
	if err != nil {
		return nil, postgres.ClassifyError(fmt.Errorf("query grants for funder %s: %w", funderID, err))
	}
	defer rows.Close()

	records := make([]models.GrantRecord, 0)
	for rows.Next() {
		var rec models.GrantRecord
		if err := rows.Scan(
			&rec.FunderID,
			&rec.RecipientTaxID,
			&rec.RecipientName,
			&rec.Amount,
			&rec.FiscalYear,
			&rec.Purpose,
			&rec.Geography,
		); err != nil {
			return nil, fmt.Errorf("scan grant: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, postgres.ClassifyError(fmt.Errorf("iterate grants: %w", err))
	}
	return records, nil
}

// Insert stores grant records in one batch using unnest.
func (s *PostgresStore) Insert(ctx context.Context, records []models.GrantRecord) error {
	if len(records) == 0 {
		return nil
	}
	var (
		funders   = make([]string, len(records))
		taxIDs    = make([]string, len(records))
		names     = make([]string, len(records))
		amounts   = make([]float64, len(records))
		years     = make([]int64, len(records))
		purposes  = make([]string, len(records))
		geography = make([]string, len(records))
	)
	for i, r := range records {
		funders[i] = r.FunderID
		taxIDs[i] = r.RecipientTaxID
		names[i] = r.RecipientName
		amounts[i] = r.Amount
		years[i] = int64(r.FiscalYear)
		purposes[i] = r.Purpose
		geography[i] = r.Geography
	}
	query := `
		INSERT INTO grants (funder_id, recipient_tax_id, recipient_name, amount, fiscal_year, purpose, geography)
		SELECT * FROM unnest($1::text[], $2::text[], $3::text[], $4::numeric[], $5::int[], $6::text[], $7::text[])
	`
	_, err := s.db.ExecContext(ctx, query,
		pq.Array(funders),
		pq.Array(taxIDs),
		pq.Array(names),
		pq.Array(amounts),
		pq.Array(years),
		pq.Array(purposes),
		pq.Array(geography),
	)
	if err != nil {
		return postgres.ClassifyError(fmt.Errorf("insert grants: %w", err))
	}
	return nil
}

func toInt64s(values []int) []int64 {
	out := make([]int64, len(values))
	for i, v := range values {
		out[i] = int64(v)
	}
	return out
}
