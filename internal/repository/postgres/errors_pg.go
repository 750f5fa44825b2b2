// internal/repository/postgres/errors_pg.go
package postgres

import (
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"

	"github.com/lib/pq"

	"github.com/Phermidex/zenithCrypto/internal/util"
)

// translateError maps driver failures onto the application's error taxonomy.
// The original error stays in the chain for logging.
func translateError(err error) error {
	if err == nil {
		return nil
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch {
		case pqErr.Code == "40001", pqErr.Code == "40P01": // serialization_failure, deadlock_detected
			return fmt.Errorf("%w: %w", util.ErrStoreConflict, err)
		case pqErr.Code == "23505": // unique_violation
			return fmt.Errorf("%w: %w", util.ErrDuplicateEntry, err)
		case pqErr.Code == "23P01": // exclusion_violation
			return fmt.Errorf("%w: %w", util.ErrStoreConflict, err)
		case pqErr.Code == "23503": // foreign_key_violation
			return fmt.Errorf("%w: %w", util.ErrNotFound, err)
		case pqErr.Code == "23514": // check_violation
			switch pqErr.Constraint {
			case "wallets_balance_check":
				return fmt.Errorf("%w: %w", util.ErrInsufficientBalance, err)
			case "transactions_crypto_amount_check", "transactions_fiat_amount_check":
				return fmt.Errorf("%w: %w", util.ErrInvalidAmount, err)
			}
		case pqErr.Code.Class() == "08", pqErr.Code.Class() == "57": // connection_exception, operator_intervention
			return fmt.Errorf("%w: %w", util.ErrStoreUnavailable, err)
		}
		return err
	}

	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, sql.ErrConnDone) {
		return fmt.Errorf("%w: %w", util.ErrStoreUnavailable, err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return fmt.Errorf("%w: %w", util.ErrStoreUnavailable, err)
	}
	return err
}
