package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/licitaciones/constants"
	"github.com/joseph-ayodele/licitaciones/internal/common"
	"github.com/joseph-ayodele/licitaciones/internal/entity"
)

type testClock struct{ t time.Time }

func (c *testClock) now() time.Time { return c.t }

func newTestStore(t *testing.T) (*SQLiteStore, *testClock) {
	t.Helper()
	clock := &testClock{t: time.Date(2025, time.November, 10, 12, 0, 0, 0, time.UTC)}
	s, err := OpenSQLite(context.Background(), ":memory:", nil, WithClock(clock.now))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s, clock
}

func licitacion(emailID, closeDate string, cat constants.Category) *entity.Licitacion {
	rec := entity.EmptyRecord()
	rec.Location = "Bayamón"
	rec.Description = "Suministro de materiales de oficina"
	rec.Category = cat
	rec.BiddingCloseDate = closeDate
	rec.Confidence = 70
	return &entity.Licitacion{
		Source: entity.Source{
			EmailID:     emailID,
			EmailDate:   time.Date(2025, time.November, 3, 9, 15, 0, 0, time.UTC),
			Subject:     "Licitación " + emailID,
			PDFFilename: emailID + ".pdf",
		},
		Record: rec,
	}
}

func TestSQLiteUpsertAndGet(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	processed, err := s.IsProcessed(ctx, "m-1")
	require.NoError(t, err)
	assert.False(t, processed)

	in := licitacion("m-1", "11/20/2025", constants.Suministros)
	in.Record.ContactPhone = ""
	saved, err := s.Upsert(ctx, in)
	require.NoError(t, err)
	assert.NotEqual(t, "", saved.ID.String())
	assert.Equal(t, constants.ApprovalPending, saved.ApprovalStatus)
	assert.Equal(t, constants.Unavailable, saved.Record.ContactPhone)
	assert.Equal(t, in.Source.EmailDate, saved.Source.EmailDate)
	assert.Nil(t, saved.ApprovedAt)

	processed, err = s.IsProcessed(ctx, "m-1")
	require.NoError(t, err)
	assert.True(t, processed)

	got, err := s.Get(ctx, "m-1")
	require.NoError(t, err)
	assert.Equal(t, saved.ID, got.ID)
	assert.Equal(t, "Bayamón", got.Record.Location)
	assert.Equal(t, 70, got.Record.Confidence)
	assert.Equal(t, constants.PatternBased, got.Record.ExtractionMethod)
}

func TestSQLiteUpsertKeepsReviewState(t *testing.T) {
	ctx := context.Background()
	s, clock := newTestStore(t)

	first, err := s.Upsert(ctx, licitacion("m-1", "11/20/2025", constants.Suministros))
	require.NoError(t, err)
	_, err = s.UpdateApproval(ctx, "m-1", constants.ApprovalApproved, "ok")
	require.NoError(t, err)

	clock.t = clock.t.Add(time.Hour)
	again := licitacion("m-1", "11/21/2025", constants.Suministros)
	second, err := s.Upsert(ctx, again)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, first.CreatedAt, second.CreatedAt)
	assert.True(t, second.UpdatedAt.After(first.UpdatedAt))
	assert.Equal(t, "11/21/2025", second.Record.BiddingCloseDate)
	assert.Equal(t, constants.ApprovalApproved, second.ApprovalStatus)
	assert.Equal(t, "ok", second.ApprovalNotes)
}

func TestSQLiteList(t *testing.T) {
	ctx := context.Background()
	s, clock := newTestStore(t)

	for _, l := range []*entity.Licitacion{
		licitacion("m-1", "11/01/2025", constants.Suministros),
		licitacion("m-2", "11/20/2025", constants.Construccion),
		licitacion("m-3", constants.Unavailable, constants.Suministros),
		licitacion("m-4", "12/15/2025", constants.Suministros),
	} {
		_, err := s.Upsert(ctx, l)
		require.NoError(t, err)
		clock.t = clock.t.Add(time.Minute)
	}

	all, err := s.List(ctx, entity.ListFilter{})
	require.NoError(t, err)
	assert.Equal(t, []string{"m-4", "m-3", "m-2", "m-1"}, emailIDs(all))

	supplies, err := s.List(ctx, entity.ListFilter{Category: constants.Suministros})
	require.NoError(t, err)
	assert.Equal(t, []string{"m-4", "m-3", "m-1"}, emailIDs(supplies))

	open, err := s.List(ctx, entity.ListFilter{OpenOnly: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"m-4", "m-3", "m-2"}, emailIDs(open))

	limited, err := s.List(ctx, entity.ListFilter{OpenOnly: true, Category: constants.Suministros, Limit: 1})
	require.NoError(t, err)
	assert.Equal(t, []string{"m-4"}, emailIDs(limited))

	_, err = s.UpdateApproval(ctx, "m-2", constants.ApprovalRejected, "fuera de zona")
	require.NoError(t, err)
	rejected, err := s.List(ctx, entity.ListFilter{ApprovalStatus: constants.ApprovalRejected})
	require.NoError(t, err)
	assert.Equal(t, []string{"m-2"}, emailIDs(rejected))
}

func TestSQLiteUpdateApproval(t *testing.T) {
	ctx := context.Background()
	s, clock := newTestStore(t)
	_, err := s.Upsert(ctx, licitacion("m-1", "11/20/2025", constants.Servicios))
	require.NoError(t, err)

	got, err := s.UpdateApproval(ctx, "m-1", constants.ApprovalApproved, "")
	require.NoError(t, err)
	require.NotNil(t, got.ApprovedAt)
	assert.True(t, got.ApprovedAt.Equal(clock.t))

	got, err = s.UpdateApproval(ctx, "m-1", constants.ApprovalPending, "revisar")
	require.NoError(t, err)
	assert.Nil(t, got.ApprovedAt)
	assert.Equal(t, "revisar", got.ApprovalNotes)

	_, err = s.UpdateApproval(ctx, "missing", constants.ApprovalApproved, "")
	assert.True(t, errors.Is(err, common.ErrNotFound))

	_, err = s.UpdateApproval(ctx, "m-1", "maybe", "")
	assert.True(t, errors.Is(err, common.ErrInvalidInput))
}

func TestSQLiteErrors(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	_, err := s.Get(ctx, "missing")
	assert.True(t, errors.Is(err, common.ErrNotFound))

	_, err = s.Upsert(ctx, licitacion(" ", "", constants.Servicios))
	assert.True(t, errors.Is(err, common.ErrInvalidInput))
}

func TestSQLitePing(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)
	require.NoError(t, s.Ping(ctx))

	require.NoError(t, s.Close())
	assert.True(t, errors.Is(s.Ping(ctx), common.ErrDatabase))
}

func TestUpsertSQLPlaceholders(t *testing.T) {
	pg := upsertSQL(pgPlaceholder)
	assert.Contains(t, pg, "$1, $2, $3")
	assert.Contains(t, pg, "ON CONFLICT (email_id) DO UPDATE SET email_date = excluded.email_date")
	assert.NotContains(t, pg, "approval_status = excluded")

	lite := upsertSQL(sqlitePlaceholder)
	assert.Contains(t, lite, "?, ?, ?")
}

func emailIDs(ls []*entity.Licitacion) []string {
	out := make([]string, len(ls))
	for i, l := range ls {
		out[i] = l.Source.EmailID
	}
	return out
}
