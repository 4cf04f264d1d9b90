package board

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"grantnet/internal/network/models"
)

func TestOrganizationKey(t *testing.T) {
	assert.Equal(t, "123456789", OrganizationKey("12-3456789"))
	assert.Equal(t, "acme food bank", OrganizationKey("The Acme Food Bank, Inc."))
	assert.Equal(t, "f1", OrganizationKey("f1"))
}

func TestInMemoryStore(t *testing.T) {
	store := NewInMemory(
		models.BoardAffiliation{PersonName: "Jane Doe", OrganizationID: "Acme Food Bank, Inc."},
		models.BoardAffiliation{PersonName: "Sam Roe", OrganizationID: "12-3456789"},
	)
	ctx := context.Background()

	t.Run("name references match the normalized key", func(t *testing.T) {
		got, err := store.AffiliationsByOrganization(ctx, "acme food bank")
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "Jane Doe", got[0].PersonName)
	})

	t.Run("tax id references match digits", func(t *testing.T) {
		got, err := store.AffiliationsByOrganization(ctx, "123456789")
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "Sam Roe", got[0].PersonName)
	})

	t.Run("unknown organization", func(t *testing.T) {
		got, err := store.AffiliationsByOrganization(ctx, "nobody")
		require.NoError(t, err)
		assert.Empty(t, got)
	})
}
