package postgres

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"grantnet/pkg/platform/sentinel"
)

// ClassifyError tags driver failures with sentinel.ErrTimeout or
// sentinel.ErrUnavailable so callers can tell a slow or unreachable database
// from a bad query. Other errors are returned unchanged.
func ClassifyError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) || pgconn.Timeout(err) {
		return fmt.Errorf("%w: %w", sentinel.ErrTimeout, err)
	}
	var connectErr *pgconn.ConnectError
	if errors.Is(err, driver.ErrBadConn) || errors.As(err, &connectErr) {
		return fmt.Errorf("%w: %w", sentinel.ErrUnavailable, err)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && isUnavailableCode(pgErr.Code) {
		return fmt.Errorf("%w: %w", sentinel.ErrUnavailable, err)
	}
	return err
}

// Class 08 is connection exception; 57P01-57P03 are shutdown and
// cannot-connect-now.
func isUnavailableCode(code string) bool {
	return strings.HasPrefix(code, "08") || strings.HasPrefix(code, "57P")
}
