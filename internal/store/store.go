// Package store persists batches and invoices over database/sql. SQLite is
// the default for local runs; a postgres DSN switches to pgx. All SQL is
// written with ? placeholders and rebound for postgres at call time, and all
// timestamps are stored as RFC 3339 text so both dialects scan identically.
package store

import (
	"context"
	"database/sql"
	"log/slog"
	"strconv"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"

	"github.com/AlellaGreenTech/Invoice-app/internal/common"
)

const (
	dialectSQLite   = "sqlite"
	dialectPostgres = "postgres"
)

const schemaDDL = `
CREATE TABLE IF NOT EXISTS batches (
	id                 TEXT PRIMARY KEY,
	source_locator     TEXT NOT NULL,
	status             TEXT NOT NULL,
	total_invoices     INTEGER NOT NULL DEFAULT 0,
	processed_invoices INTEGER NOT NULL DEFAULT 0,
	failed_invoices    INTEGER NOT NULL DEFAULT 0,
	total_amount       TEXT NOT NULL DEFAULT '0',
	currency           TEXT,
	date_range_start   TEXT,
	date_range_end     TEXT,
	error_message      TEXT,
	created_at         TEXT NOT NULL,
	completed_at       TEXT
);

CREATE TABLE IF NOT EXISTS invoices (
	id                  TEXT PRIMARY KEY,
	batch_id            TEXT NOT NULL REFERENCES batches(id) ON DELETE CASCADE,
	source_file_id      TEXT NOT NULL,
	filename            TEXT NOT NULL,
	vendor_name         TEXT,
	invoice_number      TEXT,
	invoice_date        TEXT,
	total_amount        TEXT,
	currency            TEXT,
	currency_confidence REAL NOT NULL DEFAULT 0,
	converted_amount    TEXT,
	category            TEXT,
	category_confidence REAL NOT NULL DEFAULT 0,
	category_reasoning  TEXT,
	raw_text            TEXT NOT NULL DEFAULT '',
	extraction_method   TEXT,
	status              TEXT NOT NULL,
	manually_reviewed   INTEGER NOT NULL DEFAULT 0,
	error_message       TEXT,
	created_at          TEXT NOT NULL,
	updated_at          TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_invoices_batch_id ON invoices(batch_id);
CREATE INDEX IF NOT EXISTS idx_batches_created_at ON batches(created_at);
`

// DB wraps *sql.DB with the dialect needed to rebind placeholders.
type DB struct {
	*sql.DB
	dialect string
}

// Open connects, verifies the connection, and bootstraps the schema.
func Open(ctx context.Context, cfg common.DatabaseConfig, logger *slog.Logger) (*DB, error) {
	if logger == nil {
		logger = slog.Default()
	}

	dialect := dialectSQLite
	driver := "sqlite"
	dsn := cfg.DSN
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		dialect = dialectPostgres
		driver = "pgx"
	} else if !strings.Contains(dsn, "?") {
		dsn += "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)"
	}

	logger.Info("store.open", "dialect", dialect)
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, common.WrapError(err, "open database")
	}
	if cfg.MaxConns > 0 {
		db.SetMaxOpenConns(cfg.MaxConns)
	}

	pingCtx := ctx
	if cfg.DialTimeout > 0 {
		var cancel context.CancelFunc
		pingCtx, cancel = context.WithTimeout(ctx, cfg.DialTimeout)
		defer cancel()
	}
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, common.WrapError(err, "ping database")
	}

	s := &DB{DB: db, dialect: dialect}
	if err := s.bootstrap(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *DB) bootstrap(ctx context.Context) error {
	for _, stmt := range strings.Split(schemaDDL, ";") {
		if strings.TrimSpace(stmt) == "" {
			continue
		}
		if _, err := s.ExecContext(ctx, stmt); err != nil {
			return common.WrapError(err, "bootstrap schema")
		}
	}
	return nil
}

// rebind rewrites ? placeholders to $1..$n for postgres.
func (s *DB) rebind(query string) string {
	if s.dialect != dialectPostgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Time columns are TEXT in both dialects.

func formatTime(t time.Time) string { return t.UTC().Format(time.RFC3339Nano) }

func formatTimePtr(t *time.Time) any {
	if t == nil {
		return nil
	}
	return formatTime(*t)
}

func parseTime(s string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, s)
}

func parseTimePtr(ns sql.NullString) (*time.Time, error) {
	if !ns.Valid {
		return nil, nil
	}
	t, err := parseTime(ns.String)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func nullStr(p *string) any {
	if p == nil {
		return nil
	}
	return *p
}

func strPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
