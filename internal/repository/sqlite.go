package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/joseph-ayodele/licitaciones/constants"
	"github.com/joseph-ayodele/licitaciones/internal/common"
	"github.com/joseph-ayodele/licitaciones/internal/entity"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS licitaciones (
	id                 TEXT PRIMARY KEY,
	email_id           TEXT NOT NULL UNIQUE,
	email_date         TEXT,
	subject            TEXT NOT NULL DEFAULT '',
	pdf_filename       TEXT NOT NULL DEFAULT '',
	pdf_link           TEXT NOT NULL DEFAULT '',
	location           TEXT NOT NULL,
	description        TEXT NOT NULL,
	summary            TEXT NOT NULL,
	category           TEXT NOT NULL,
	priority           TEXT NOT NULL,
	site_visit_date    TEXT NOT NULL,
	site_visit_time    TEXT NOT NULL,
	visit_location     TEXT NOT NULL,
	contact_name       TEXT NOT NULL,
	contact_phone      TEXT NOT NULL,
	bidding_close_date TEXT NOT NULL,
	bidding_close_time TEXT NOT NULL,
	extraction_method  TEXT NOT NULL,
	confidence         INTEGER NOT NULL DEFAULT 0,
	approval_status    TEXT NOT NULL DEFAULT 'pending'
		CHECK (approval_status IN ('pending', 'approved', 'rejected')),
	approval_notes     TEXT,
	approved_at        TEXT,
	created_at         TEXT NOT NULL,
	updated_at         TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_licitaciones_category ON licitaciones (category);
CREATE INDEX IF NOT EXISTS idx_licitaciones_approval ON licitaciones (approval_status);
`

// sqliteTimeLayout is fixed width so stored timestamps sort as text.
const sqliteTimeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// SQLiteStore is the embedded Store used for local batches and tests.
type SQLiteStore struct {
	db   *sql.DB
	log  *slog.Logger
	opts options
}

var _ Store = (*SQLiteStore)(nil)

// OpenSQLite opens (creating if needed) the database at path and migrates it.
// Pass ":memory:" for a throwaway database.
func OpenSQLite(ctx context.Context, path string, logger *slog.Logger, opts ...Option) (*SQLiteStore, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("creating db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, dbError("open sqlite", err)
	}
	if path == ":memory:" {
		// every pooled connection would get its own empty database
		db.SetMaxOpenConns(1)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, dbError("ping sqlite", err)
	}
	for _, p := range []string{"PRAGMA journal_mode=WAL", "PRAGMA busy_timeout=5000"} {
		if _, err := db.ExecContext(ctx, p); err != nil {
			_ = db.Close()
			return nil, dbError(fmt.Sprintf("pragma %q", p), err)
		}
	}

	s := &SQLiteStore{db: db, log: logger, opts: buildOptions(opts)}
	if err := s.Migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	logger.Info("repository.connected", "driver", "sqlite", "path", path)
	return s, nil
}

func sqlitePlaceholder(int) string { return "?" }

func sqliteTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t.UTC().Format(sqliteTimeLayout)
}

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, sqliteSchema); err != nil {
		s.log.Error("repository.migrate.failed", "driver", "sqlite", "error", err)
		return dbError("migrate", err)
	}
	return nil
}

func (s *SQLiteStore) Upsert(ctx context.Context, l *entity.Licitacion) (*entity.Licitacion, error) {
	if err := prepare(l); err != nil {
		return nil, err
	}
	row := s.db.QueryRowContext(ctx, upsertSQL(sqlitePlaceholder), upsertArgs(l, s.opts.now(), sqliteTime)...)
	out, err := scanLicitacion(row.Scan)
	if err != nil {
		s.log.Error("repository.upsert.failed", "email_id", l.Source.EmailID, "error", err)
		return nil, dbError("upsert", err)
	}
	return out, nil
}

func (s *SQLiteStore) IsProcessed(ctx context.Context, emailID string) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(1) FROM licitaciones WHERE email_id = ?", emailID).Scan(&n)
	if err != nil {
		return false, dbError("is processed", err)
	}
	return n > 0, nil
}

func (s *SQLiteStore) Get(ctx context.Context, emailID string) (*entity.Licitacion, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+selectColumns+" FROM licitaciones WHERE email_id = ?", emailID)
	l, err := scanLicitacion(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound(emailID)
	}
	if err != nil {
		return nil, dbError("get", err)
	}
	return l, nil
}

func (s *SQLiteStore) List(ctx context.Context, f entity.ListFilter) ([]*entity.Licitacion, error) {
	q, args := listSQL(f, sqlitePlaceholder)
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, dbError("list", err)
	}
	defer rows.Close()

	var out []*entity.Licitacion
	for rows.Next() {
		l, err := scanLicitacion(rows.Scan)
		if err != nil {
			return nil, dbError("list scan", err)
		}
		out = append(out, l)
	}
	if err := rows.Err(); err != nil {
		return nil, dbError("list", err)
	}
	return finishList(out, f, s.opts.evaluator()), nil
}

func (s *SQLiteStore) UpdateApproval(ctx context.Context, emailID string, status constants.ApprovalStatus, notes string) (*entity.Licitacion, error) {
	if _, ok := constants.ParseApprovalStatus(string(status)); !ok {
		return nil, common.NewAppError("INVALID_INPUT", fmt.Sprintf("approval status %q", status), common.ErrInvalidInput)
	}
	now := s.opts.now()
	var approved any
	if at := approvedAt(status, now); at != nil {
		approved = sqliteTime(*at)
	}
	row := s.db.QueryRowContext(ctx,
		"UPDATE licitaciones SET approval_status = ?, approval_notes = ?, approved_at = ?, updated_at = ? WHERE email_id = ? RETURNING "+selectColumns,
		string(status), notes, approved, sqliteTime(now), emailID)
	l, err := scanLicitacion(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound(emailID)
	}
	if err != nil {
		return nil, dbError("update approval", err)
	}
	s.log.Info("repository.approval.updated", "email_id", emailID, "status", status)
	return l, nil
}

func (s *SQLiteStore) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := s.db.PingContext(ctx); err != nil {
		return dbError("ping", err)
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
