package repository

import (
	"context"
	"time"

	"github.com/finsight-app/finsight/constants"
	"github.com/finsight-app/finsight/internal/entity"
)

// TransactionRepository stores parsed transactions and serves them back for
// listing and export.
type TransactionRepository interface {
	InsertBatch(ctx context.Context, txs []entity.Transaction) error
	List(ctx context.Context, fromDate, toDate *time.Time) ([]entity.Transaction, error)
}

// toTxType trusts stored values but tolerates casing drift from older rows.
func toTxType(raw string) constants.TxType {
	if t, ok := constants.ParseTxType(raw); ok {
		return t
	}
	return constants.TxType(raw)
}
