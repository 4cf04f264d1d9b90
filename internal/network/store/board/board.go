// Package board provides BoardStore implementations backed by Postgres and
// by memory.
package board

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	"github.com/lib/pq"

	"grantnet/internal/network/models"
	"grantnet/internal/network/normalize"
	"grantnet/internal/platform/postgres"
)

// OrganizationKey canonicalizes an organization reference the same way
// recipient keys are built: a valid tax id becomes its digits, anything else
// its normalized name. A recipient's key value and a funder id both pass
// through unchanged when already canonical.
func OrganizationKey(raw string) string {
	if id, ok := normalize.TaxID(raw); ok {
		return id
	}
	return normalize.Name(raw)
}

// PostgresStore reads affiliations from the board_memberships table.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed board store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) AffiliationsByOrganization(ctx context.Context, organizationID string) ([]models.BoardAffiliation, error) {
	query := `
		SELECT person_id, person_name, organization_id, role, start_year, end_year
		FROM board_memberships
		WHERE organization_id = $1
		ORDER BY person_name, id
	`
	rows, err := s.db.QueryContext(ctx, query, OrganizationKey(organizationID))
	if err != nil {
		return nil, postgres.ClassifyError(fmt.Errorf("query board memberships: %w", err))
	}
	defer rows.Close()

	out := make([]models.BoardAffiliation, 0)
	for rows.Next() {
		var a models.BoardAffiliation
		if err := rows.Scan(&a.PersonID, &a.PersonName, &a.OrganizationID, &a.Role, &a.StartYear, &a.EndYear); err != nil {
			return nil, fmt.Errorf("scan board membership: %w", err)
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, postgres.ClassifyError(fmt.Errorf("iterate board memberships: %w", err))
	}
	return out, nil
}

// Insert stores affiliations in one batch, canonicalizing organization ids.
func (s *PostgresStore) Insert(ctx context.Context, affiliations []models.BoardAffiliation) error {
	if len(affiliations) == 0 {
		return nil
	}
	var (
		personIDs = make([]string, len(affiliations))
		names     = make([]string, len(affiliations))
		orgs      = make([]string, len(affiliations))
		roles     = make([]string, len(affiliations))
		starts    = make([]int64, len(affiliations))
		ends      = make([]int64, len(affiliations))
	)
	for i, a := range affiliations {
		personIDs[i] = a.PersonID
		names[i] = a.PersonName
		orgs[i] = OrganizationKey(a.OrganizationID)
		roles[i] = a.Role
		starts[i] = int64(a.StartYear)
		ends[i] = int64(a.EndYear)
	}
	query := `
		INSERT INTO board_memberships (person_id, person_name, organization_id, role, start_year, end_year)
		SELECT * FROM unnest($1::text[], $2::text[], $3::text[], $4::text[], $5::int[], $6::int[])
	`
	_, err := s.db.ExecContext(ctx, query,
		pq.Array(personIDs), pq.Array(names), pq.Array(orgs), pq.Array(roles), pq.Array(starts), pq.Array(ends))
	if err != nil {
		return postgres.ClassifyError(fmt.Errorf("insert board memberships: %w", err))
	}
	return nil
}

// InMemoryStore holds affiliations in process.
type InMemoryStore struct {
	mu    sync.RWMutex
	byOrg map[string][]models.BoardAffiliation
}

// NewInMemory constructs a store preloaded with affiliations.
func NewInMemory(affiliations ...models.BoardAffiliation) *InMemoryStore {
	s := &InMemoryStore{byOrg: make(map[string][]models.BoardAffiliation)}
	s.Add(affiliations...)
	return s
}

// Add indexes affiliations by canonical organization id.
func (s *InMemoryStore) Add(affiliations ...models.BoardAffiliation) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range affiliations {
		a.OrganizationID = OrganizationKey(a.OrganizationID)
		s.byOrg[a.OrganizationID] = append(s.byOrg[a.OrganizationID], a)
	}
}

func (s *InMemoryStore) AffiliationsByOrganization(ctx context.Context, organizationID string) ([]models.BoardAffiliation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.BoardAffiliation{}, s.byOrg[OrganizationKey(organizationID)]...), nil
}
