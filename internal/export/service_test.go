package export

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/licitaciones/constants"
	"github.com/joseph-ayodele/licitaciones/internal/entity"
	"github.com/joseph-ayodele/licitaciones/internal/repository"
)

func sample(emailID, closeDate string) *entity.Licitacion {
	rec := entity.EmptyRecord()
	rec.Location = "Caguas"
	rec.Description = "Mantenimiento de filtros de agua"
	rec.Category = constants.Servicios
	rec.SiteVisitTime = "14:30"
	rec.BiddingCloseDate = closeDate
	rec.BiddingCloseTime = "10:00"
	rec.VisitLocation = "n/a"
	rec.Confidence = 70
	return &entity.Licitacion{
		Source: entity.Source{
			EmailID:     emailID,
			EmailDate:   time.Date(2025, time.November, 3, 9, 15, 0, 0, time.UTC),
			Subject:     "Licitación 2025-17",
			PDFFilename: "aviso.pdf",
		},
		Record:         rec,
		ApprovalStatus: constants.ApprovalPending,
	}
}

func readBack(t *testing.T, data []byte) [][]string {
	t.Helper()
	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer func() { _ = f.Close() }()
	assert.Equal(t, []string{SheetName}, f.GetSheetList())
	rows, err := f.GetRows(SheetName)
	require.NoError(t, err)
	return rows
}

func TestRender(t *testing.T) {
	withLink := sample("m-2", "11/20/2025")
	withLink.Source.PDFLink = "https://example.org/aviso.pdf"

	data, err := Render([]*entity.Licitacion{sample("m-1", "11/20/2025"), withLink})
	require.NoError(t, err)

	rows := readBack(t, data)
	require.Len(t, rows, 3)
	assert.Equal(t, Headers, rows[0])

	row := rows[1]
	assert.Equal(t, "N/A", row[0])
	assert.Equal(t, "2025-11-03 09:15", row[1])
	assert.Equal(t, "Caguas", row[3])
	assert.Equal(t, "Servicios", row[6])
	assert.Equal(t, "Medium", row[7])
	assert.Equal(t, "N/A", row[9])
	assert.Equal(t, "2:30 PM (14:30)", row[11])
	assert.Equal(t, constants.Unavailable, row[12])
	assert.Equal(t, "11/20/2025", row[15])
	assert.Equal(t, "10:00 AM (10:00)", row[16])
	assert.Equal(t, "PatternBased", row[17])
	assert.Equal(t, "70", row[18])
	assert.Equal(t, "pending", row[19])

	assert.Equal(t, "Ver PDF", rows[2][9])
}

func TestRenderHyperlink(t *testing.T) {
	l := sample("m-1", "11/20/2025")
	l.Source.PDFLink = "https://example.org/aviso.pdf"
	data, err := Render([]*entity.Licitacion{l})
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer func() { _ = f.Close() }()
	ok, target, err := f.GetCellHyperLink(SheetName, "J2")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "https://example.org/aviso.pdf", target)
}

func TestExportXLSXOpenOnly(t *testing.T) {
	ctx := context.Background()
	now := func() time.Time { return time.Date(2025, time.November, 10, 8, 0, 0, 0, time.UTC) }
	store, err := repository.OpenSQLite(ctx, ":memory:", nil, repository.WithClock(now))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	for _, l := range []*entity.Licitacion{sample("closed", "11/01/2025"), sample("open", "11/20/2025")} {
		_, err := store.Upsert(ctx, l)
		require.NoError(t, err)
	}

	data, err := NewService(store, nil).ExportXLSX(ctx, entity.ListFilter{OpenOnly: true})
	require.NoError(t, err)
	rows := readBack(t, data)
	require.Len(t, rows, 2)
	assert.Equal(t, "11/20/2025", rows[1][15])
	assert.Equal(t, "2025-11-10 08:00", rows[1][0])
}
