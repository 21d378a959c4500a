package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/licitaciones/constants"
	"github.com/joseph-ayodele/licitaciones/internal/common"
	"github.com/joseph-ayodele/licitaciones/internal/eligibility"
	"github.com/joseph-ayodele/licitaciones/internal/entity"
)

// Store persists licitaciones keyed on the source email id.
type Store interface {
	Migrate(ctx context.Context) error
	// Upsert inserts l or refreshes the extracted fields of an existing row.
	// Review state and creation time of an existing row are kept.
	Upsert(ctx context.Context, l *entity.Licitacion) (*entity.Licitacion, error)
	IsProcessed(ctx context.Context, emailID string) (bool, error)
	Get(ctx context.Context, emailID string) (*entity.Licitacion, error)
	List(ctx context.Context, f entity.ListFilter) ([]*entity.Licitacion, error)
	UpdateApproval(ctx context.Context, emailID string, status constants.ApprovalStatus, notes string) (*entity.Licitacion, error)
	// Ping reports whether the database answers; failures wrap ErrDatabase.
	Ping(ctx context.Context) error
	Close() error
}

const table = "licitaciones"

const pingTimeout = 2 * time.Second

// recordColumns are the columns written by Upsert, in recordArgs order.
var recordColumns = []string{
	"email_date", "subject", "pdf_filename", "pdf_link",
	"location", "description", "summary", "category", "priority",
	"site_visit_date", "site_visit_time", "visit_location",
	"contact_name", "contact_phone",
	"bidding_close_date", "bidding_close_time",
	"extraction_method", "confidence",
}

var selectColumns = "id, email_id, " + strings.Join(recordColumns, ", ") +
	", approval_status, approval_notes, approved_at, created_at, updated_at"

func recordArgs(l *entity.Licitacion, ts func(time.Time) any) []any {
	r := l.Record
	return []any{
		ts(l.Source.EmailDate), l.Source.Subject, l.Source.PDFFilename, l.Source.PDFLink,
		r.Location, r.Description, r.Summary, string(r.Category), string(r.Priority),
		r.SiteVisitDate, r.SiteVisitTime, r.VisitLocation,
		r.ContactName, r.ContactPhone,
		r.BiddingCloseDate, r.BiddingCloseTime,
		string(r.ExtractionMethod), r.Confidence,
	}
}

// upsertSQL builds the dialect-specific upsert; ph returns the n-th (1-based)
// placeholder.
func upsertSQL(ph func(n int) string) string {
	cols := append([]string{"id", "email_id"}, recordColumns...)
	cols = append(cols, "approval_status", "approval_notes", "created_at", "updated_at")
	marks := make([]string, len(cols))
	for i := range cols {
		marks[i] = ph(i + 1)
	}
	sets := make([]string, 0, len(recordColumns)+1)
	for _, c := range recordColumns {
		sets = append(sets, c+" = excluded."+c)
	}
	sets = append(sets, "updated_at = excluded.updated_at")
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) ON CONFLICT (email_id) DO UPDATE SET %s RETURNING %s",
		table, strings.Join(cols, ", "), strings.Join(marks, ", "), strings.Join(sets, ", "), selectColumns)
}

// upsertArgs matches upsertSQL's column order.
func upsertArgs(l *entity.Licitacion, now time.Time, ts func(time.Time) any) []any {
	args := []any{l.ID.String(), l.Source.EmailID}
	args = append(args, recordArgs(l, ts)...)
	return append(args, string(l.ApprovalStatus), l.ApprovalNotes, ts(now), ts(now))
}

// prepare fills defaults and rejects rows that cannot be keyed.
func prepare(l *entity.Licitacion) error {
	if l == nil || strings.TrimSpace(l.Source.EmailID) == "" {
		return common.NewAppError("INVALID_INPUT", "email id is required", common.ErrInvalidInput)
	}
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	if l.ApprovalStatus == "" {
		l.ApprovalStatus = constants.ApprovalPending
	}
	l.Record.Fill()
	return nil
}

// scanLicitacion reads one selectColumns row.
func scanLicitacion(scan func(dest ...any) error) (*entity.Licitacion, error) {
	var (
		l                              entity.Licitacion
		id, category, priority, method string
		approval                       string
		emailDate, approvedAt, created nullTime
		updated                        nullTime
		notes                          sql.NullString
		r                              = &l.Record
	)
	err := scan(&id, &l.Source.EmailID,
		&emailDate, &l.Source.Subject, &l.Source.PDFFilename, &l.Source.PDFLink,
		&r.Location, &r.Description, &r.Summary, &category, &priority,
		&r.SiteVisitDate, &r.SiteVisitTime, &r.VisitLocation,
		&r.ContactName, &r.ContactPhone,
		&r.BiddingCloseDate, &r.BiddingCloseTime,
		&method, &r.Confidence,
		&approval, &notes, &approvedAt, &created, &updated)
	if err != nil {
		return nil, err
	}
	if l.ID, err = uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("parse id %q: %w", id, err)
	}
	r.Category = constants.Category(category)
	r.Priority = constants.Priority(priority)
	r.ExtractionMethod = constants.ExtractionMethod(method)
	l.ApprovalStatus = constants.ApprovalStatus(approval)
	l.ApprovalNotes = notes.String
	l.Source.EmailDate = emailDate.Time
	l.CreatedAt = created.Time
	l.UpdatedAt = updated.Time
	if approvedAt.Valid {
		t := approvedAt.Time
		l.ApprovedAt = &t
	}
	return &l, nil
}

// listSQL returns the WHERE/LIMIT tail of a List query and its args.
func listSQL(f entity.ListFilter, ph func(n int) string) (string, []any) {
	var (
		where []string
		args  []any
	)
	if f.Category != "" {
		args = append(args, string(f.Category))
		where = append(where, "category = "+ph(len(args)))
	}
	if f.ApprovalStatus != "" {
		args = append(args, string(f.ApprovalStatus))
		where = append(where, "approval_status = "+ph(len(args)))
	}
	q := "SELECT " + selectColumns + " FROM " + table
	if len(where) > 0 {
		q += " WHERE " + strings.Join(where, " AND ")
	}
	q += " ORDER BY created_at DESC, email_id"
	// close dates are free text, so open-only is applied after the query
	if f.Limit > 0 && !f.OpenOnly {
		q += fmt.Sprintf(" LIMIT %d", f.Limit)
	}
	return q, args
}

// finishList applies the filters that cannot run in SQL.
func finishList(out []*entity.Licitacion, f entity.ListFilter, eval eligibility.Evaluator) []*entity.Licitacion {
	if !f.OpenOnly {
		return out
	}
	open := out[:0]
	for _, l := range out {
		if eval.IsOpen(l.Record.BiddingCloseDate) {
			open = append(open, l)
		}
	}
	if f.Limit > 0 && len(open) > f.Limit {
		open = open[:f.Limit]
	}
	return open
}

func approvedAt(status constants.ApprovalStatus, now time.Time) *time.Time {
	if status != constants.ApprovalApproved {
		return nil
	}
	return &now
}

func notFound(emailID string) error {
	return common.NewAppError("NOT_FOUND", fmt.Sprintf("licitacion %q", emailID), common.ErrNotFound)
}

func dbError(op string, err error) error {
	return common.NewAppError("DATABASE", op, fmt.Errorf("%w: %w", common.ErrDatabase, err))
}

// nullTime scans timestamps from pgx (time.Time) and SQLite (RFC 3339 text).
type nullTime struct {
	Time  time.Time
	Valid bool
}

func (n *nullTime) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		n.Time, n.Valid = time.Time{}, false
		return nil
	case time.Time:
		n.Time, n.Valid = v, true
		return nil
	case string:
		return n.parse(v)
	case []byte:
		return n.parse(string(v))
	}
	return fmt.Errorf("unsupported timestamp type %T", src)
}

func (n *nullTime) parse(s string) error {
	if s == "" {
		n.Time, n.Valid = time.Time{}, false
		return nil
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return err
	}
	n.Time, n.Valid = t, true
	return nil
}
