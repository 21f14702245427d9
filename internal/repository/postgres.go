package repository

import (
	"context"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/finsight-app/finsight/internal/common"
	"github.com/finsight-app/finsight/internal/entity"
)

const pgSchema = `
CREATE TABLE IF NOT EXISTS transactions (
	id          BIGSERIAL PRIMARY KEY,
	tx_date     DATE NOT NULL,
	tx_type     TEXT NOT NULL,
	category    TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	amount      NUMERIC(14,2) NOT NULL,
	source      TEXT NOT NULL,
	created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS transactions_tx_date_idx ON transactions (tx_date);
`

type pgTransactionRepository struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

func NewPostgresTransactionRepository(pool *pgxpool.Pool, logger *slog.Logger) TransactionRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &pgTransactionRepository{pool: pool, logger: logger}
}

// Migrate creates the transactions table when missing.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, pgSchema)
	return err
}

// InsertBatch bulk-loads rows with COPY inside a transaction so a partial
// import never persists.
func (r *pgTransactionRepository) InsertBatch(ctx context.Context, txs []entity.Transaction) error {
	if len(txs) == 0 {
		return nil
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	rows := make([][]any, len(txs))
	for i, t := range txs {
		rows[i] = []any{t.Date, string(t.Type), t.Category, t.Description, t.Amount, t.Source}
	}

	n, err := tx.CopyFrom(ctx,
		pgx.Identifier{"transactions"},
		[]string{"tx_date", "tx_type", "category", "description", "amount", "source"},
		pgx.CopyFromRows(rows),
	)
	if err != nil {
		r.logger.Error("copy transactions failed", "run_id", common.RunIDFromContext(ctx), "error", err)
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return err
	}

	r.logger.Debug("inserted transactions", "count", n, "run_id", common.RunIDFromContext(ctx))
	return nil
}

func (r *pgTransactionRepository) List(ctx context.Context, fromDate, toDate *time.Time) ([]entity.Transaction, error) {
	q := `SELECT tx_date, tx_type, category, description, amount, source
	        FROM transactions WHERE 1=1`
	args := []any{}
	if fromDate != nil {
		args = append(args, *fromDate)
		q += " AND tx_date >= $1"
	}
	if toDate != nil {
		args = append(args, *toDate)
		if len(args) == 2 {
			q += " AND tx_date <= $2"
		} else {
			q += " AND tx_date <= $1"
		}
	}
	q += " ORDER BY tx_date, id"

	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		r.logger.Error("list transactions failed", "error", err)
		return nil, err
	}
	defer rows.Close()

	var out []entity.Transaction
	for rows.Next() {
		var t entity.Transaction
		var typ string
		if err := rows.Scan(&t.Date, &typ, &t.Category, &t.Description, &t.Amount, &t.Source); err != nil {
			return nil, err
		}
		t.Type = toTxType(typ)
		out = append(out, t)
	}
	return out, rows.Err()
}
