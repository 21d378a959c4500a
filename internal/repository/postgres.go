package repository

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/joseph-ayodele/licitaciones/constants"
	"github.com/joseph-ayodele/licitaciones/internal/common"
	"github.com/joseph-ayodele/licitaciones/internal/entity"
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS licitaciones (
	id                 UUID PRIMARY KEY,
	email_id           TEXT NOT NULL UNIQUE,
	email_date         TIMESTAMPTZ,
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
	approved_at        TIMESTAMPTZ,
	created_at         TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at         TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS idx_licitaciones_category ON licitaciones (category);
CREATE INDEX IF NOT EXISTS idx_licitaciones_approval ON licitaciones (approval_status);
`

// PostgresStore is the Store backed by a pgx pool.
type PostgresStore struct {
	pool *pgxpool.Pool
	log  *slog.Logger
	opts options
}

var _ Store = (*PostgresStore)(nil)

func NewPostgresStore(pool *pgxpool.Pool, logger *slog.Logger, opts ...Option) *PostgresStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresStore{pool: pool, log: logger, opts: buildOptions(opts)}
}

func pgPlaceholder(n int) string { return fmt.Sprintf("$%d", n) }

func pgTime(t time.Time) any { return t }

func (s *PostgresStore) Migrate(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, postgresSchema); err != nil {
		s.log.Error("repository.migrate.failed", "driver", "postgres", "error", err)
		return dbError("migrate", err)
	}
	return nil
}

func (s *PostgresStore) Upsert(ctx context.Context, l *entity.Licitacion) (*entity.Licitacion, error) {
	if err := prepare(l); err != nil {
		return nil, err
	}
	row := s.pool.QueryRow(ctx, upsertSQL(pgPlaceholder), upsertArgs(l, s.opts.now(), pgTime)...)
	out, err := scanLicitacion(row.Scan)
	if err != nil {
		s.log.Error("repository.upsert.failed", "email_id", l.Source.EmailID, "error", err)
		return nil, dbError("upsert", err)
	}
	return out, nil
}

func (s *PostgresStore) IsProcessed(ctx context.Context, emailID string) (bool, error) {
	var exists bool
	err := s.pool.QueryRow(ctx, "SELECT EXISTS (SELECT 1 FROM licitaciones WHERE email_id = $1)", emailID).Scan(&exists)
	if err != nil {
		return false, dbError("is processed", err)
	}
	return exists, nil
}

func (s *PostgresStore) Get(ctx context.Context, emailID string) (*entity.Licitacion, error) {
	row := s.pool.QueryRow(ctx, "SELECT "+selectColumns+" FROM licitaciones WHERE email_id = $1", emailID)
	l, err := scanLicitacion(row.Scan)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, notFound(emailID)
	}
	if err != nil {
		return nil, dbError("get", err)
	}
	return l, nil
}

func (s *PostgresStore) List(ctx context.Context, f entity.ListFilter) ([]*entity.Licitacion, error) {
	q, args := listSQL(f, pgPlaceholder)
	rows, err := s.pool.Query(ctx, q, args...)
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

func (s *PostgresStore) UpdateApproval(ctx context.Context, emailID string, status constants.ApprovalStatus, notes string) (*entity.Licitacion, error) {
	if _, ok := constants.ParseApprovalStatus(string(status)); !ok {
		return nil, common.NewAppError("INVALID_INPUT", fmt.Sprintf("approval status %q", status), common.ErrInvalidInput)
	}
	now := s.opts.now()
	row := s.pool.QueryRow(ctx,
		"UPDATE licitaciones SET approval_status = $1, approval_notes = $2, approved_at = $3, updated_at = $4 WHERE email_id = $5 RETURNING "+selectColumns,
		string(status), notes, approvedAt(status, now), now, emailID)
	l, err := scanLicitacion(row.Scan)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, notFound(emailID)
	}
	if err != nil {
		return nil, dbError("update approval", err)
	}
	s.log.Info("repository.approval.updated", "email_id", emailID, "status", status)
	return l, nil
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	if err := HealthCheck(ctx, s.pool, pingTimeout, s.log); err != nil {
		return dbError("ping", err)
	}
	return nil
}

// Close releases the pool.
func (s *PostgresStore) Close() error {
	Close(s.pool, s.log)
	return nil
}
