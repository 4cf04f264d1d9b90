package grants

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"grantnet/internal/network/models"
)

func TestInMemoryStore(t *testing.T) {
	store := NewInMemory(
		models.GrantRecord{FunderID: "12-3456789", RecipientName: "A", Amount: 1, FiscalYear: 2021, Geography: "WA"},
		models.GrantRecord{FunderID: "123456789", RecipientName: "B", Amount: 2, FiscalYear: 2022, Geography: "OR"},
		models.GrantRecord{FunderID: "other", RecipientName: "C", Amount: 3, FiscalYear: 2022},
	)
	ctx := context.Background()

	t.Run("funder ids are canonicalized", func(t *testing.T) {
		assert.Equal(t, []string{"123456789", "other"}, store.FunderIDs())
	})

	t.Run("filters by year", func(t *testing.T) {
		got, err := store.GrantsByFunder(ctx, "123456789", []int{2022}, "")
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "B", got[0].RecipientName)
	})

	t.Run("filters by geography case-insensitively", func(t *testing.T) {
		got, err := store.GrantsByFunder(ctx, "123456789", []int{2021, 2022}, "wa")
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "A", got[0].RecipientName)
	})

	t.Run("unknown funder has no grants", func(t *testing.T) {
		got, err := store.GrantsByFunder(ctx, "missing", []int{2022}, "")
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("cancelled context", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		_, err := store.GrantsByFunder(cctx, "other", []int{2022}, "")
		assert.ErrorIs(t, err, context.Canceled)
	})
}
