package postgres

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"grantnet/pkg/platform/sentinel"
)

func TestClassifyError(t *testing.T) {
	t.Run("nil stays nil", func(t *testing.T) {
		assert.NoError(t, ClassifyError(nil))
	})

	t.Run("deadline is a timeout", func(t *testing.T) {
		err := ClassifyError(fmt.Errorf("query grants: %w", context.DeadlineExceeded))
		assert.ErrorIs(t, err, sentinel.ErrTimeout)
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})

	t.Run("bad connection is unavailable", func(t *testing.T) {
		assert.ErrorIs(t, ClassifyError(driver.ErrBadConn), sentinel.ErrUnavailable)
	})

	t.Run("connection exception code is unavailable", func(t *testing.T) {
		err := ClassifyError(&pgconn.PgError{Code: "08006", Message: "connection failure"})
		assert.ErrorIs(t, err, sentinel.ErrUnavailable)
	})

	t.Run("admin shutdown is unavailable", func(t *testing.T) {
		assert.ErrorIs(t, ClassifyError(&pgconn.PgError{Code: "57P01"}), sentinel.ErrUnavailable)
	})

	t.Run("query errors pass through", func(t *testing.T) {
		orig := &pgconn.PgError{Code: "42P01", Message: "relation does not exist"}
		err := ClassifyError(orig)
		assert.Same(t, orig, err)
		assert.False(t, errors.Is(err, sentinel.ErrUnavailable))
	})
}
