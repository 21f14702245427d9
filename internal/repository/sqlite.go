package repository

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	_ "modernc.org/sqlite"

	"github.com/finsight-app/finsight/internal/common"
	"github.com/finsight-app/finsight/internal/entity"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS transactions (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	tx_date     TEXT NOT NULL,
	tx_type     TEXT NOT NULL,
	category    TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	amount      REAL NOT NULL,
	source      TEXT NOT NULL,
	created_at  TEXT NOT NULL DEFAULT (datetime('now'))
);
CREATE INDEX IF NOT EXISTS transactions_tx_date_idx ON transactions (tx_date);
`

const sqliteDateLayout = "2006-01-02"

type sqliteTransactionRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

// OpenSQLite opens (or creates) the database at path and ensures the schema.
// Use ":memory:" for an ephemeral store.
func OpenSQLite(ctx context.Context, path string, logger *slog.Logger) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		_ = db.Close()
		return nil, err
	}
	logger.Info("sqlite database ready", "path", path)
	return db, nil
}

func NewSQLiteTransactionRepository(db *sql.DB, logger *slog.Logger) TransactionRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &sqliteTransactionRepository{db: db, logger: logger}
}

func (r *sqliteTransactionRepository) InsertBatch(ctx context.Context, txs []entity.Transaction) error {
	if len(txs) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO transactions (tx_date, tx_type, category, description, amount, source)
		 VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer func() { _ = stmt.Close() }()

	for _, t := range txs {
		if _, err := stmt.ExecContext(ctx,
			t.Date.Format(sqliteDateLayout), string(t.Type), t.Category, t.Description, t.Amount, t.Source,
		); err != nil {
			r.logger.Error("insert transaction failed", "run_id", common.RunIDFromContext(ctx), "error", err)
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	r.logger.Debug("inserted transactions", "count", len(txs), "run_id", common.RunIDFromContext(ctx))
	return nil
}

func (r *sqliteTransactionRepository) List(ctx context.Context, fromDate, toDate *time.Time) ([]entity.Transaction, error) {
	q := `SELECT tx_date, tx_type, category, description, amount, source
	        FROM transactions WHERE 1=1`
	args := []any{}
	if fromDate != nil {
		q += " AND tx_date >= ?"
		args = append(args, fromDate.Format(sqliteDateLayout))
	}
	if toDate != nil {
		q += " AND tx_date <= ?"
		args = append(args, toDate.Format(sqliteDateLayout))
	}
	q += " ORDER BY tx_date, id"

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		r.logger.Error("list transactions failed", "error", err)
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []entity.Transaction
	for rows.Next() {
		var t entity.Transaction
		var date, typ string
		if err := rows.Scan(&date, &typ, &t.Category, &t.Description, &t.Amount, &t.Source); err != nil {
			return nil, err
		}
		d, err := time.ParseInLocation(sqliteDateLayout, date, time.UTC)
		if err != nil {
			return nil, err
		}
		t.Date = d
		t.Type = toTxType(typ)
		out = append(out, t)
	}
	return out, rows.Err()
}
