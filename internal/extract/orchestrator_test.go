package extract

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/licitaciones/constants"
	"github.com/joseph-ayodele/licitaciones/internal/entity"
	"github.com/joseph-ayodele/licitaciones/internal/llm"
	"github.com/joseph-ayodele/licitaciones/internal/scoring"
)

const notice = `AVISO DE SUBASTA
Objeto: Reparación de techos en la Escuela José Martí. Incluye sellado.
Ciudad: Caguas Cod. Postal 00725
SE REALIZARÁ VISITA EL DÍA 4 DE NOVIEMBRE DE 2025 A LAS 10:00 AM
#LUGAR DE ENCUENTRO: Oficina Regional#
CON EL SUP. LUIS RODRÍGUEZ, 787-406-9420
Validez de su oferta hasta: 11/29/2025 Hora: 04:00:00 PM
`

type fakeModel struct {
	fields  llm.BiddingFields
	err     error
	block   bool
	enabled *bool
	calls   int
}

func (f *fakeModel) ExtractFields(ctx context.Context, _ llm.ExtractRequest) (llm.BiddingFields, []byte, error) {
	f.calls++
	if f.block {
		<-ctx.Done()
		return llm.BiddingFields{}, nil, ctx.Err()
	}
	return f.fields, nil, f.err
}

type toggledModel struct {
	fakeModel
	on bool
}

func (t *toggledModel) Enabled() bool { return t.on }

func modelFields() llm.BiddingFields {
	return llm.BiddingFields{
		Location:         "Ponce",
		Description:      "Suministro de cloro para plantas de filtración",
		Summary:          "Suministro de cloro",
		SiteVisitDate:    "No disponible",
		SiteVisitTime:    "No disponible",
		VisitLocation:    "No disponible",
		ContactName:      "Ana Díaz",
		ContactPhone:     "939-555-1234",
		BiddingCloseDate: "12/15/2025",
		BiddingCloseTime: "02:00 PM",
		Category:         "Suministros - Químicos",
		Priority:         "Low",
	}
}

func newTestOrchestrator(model llm.FieldExtractor) *Orchestrator {
	return NewOrchestrator(model, Config{
		ModelTimeout: 50 * time.Millisecond,
		Now:          func() time.Time { return time.Date(2025, time.November, 1, 9, 0, 0, 0, time.UTC) },
	}, nil, nil)
}

func assertPatternRecord(t *testing.T, rec entity.ExtractedRecord) {
	t.Helper()
	assert.Equal(t, constants.PatternBased, rec.ExtractionMethod)
	assert.Equal(t, 70, rec.Confidence)
	assert.Equal(t, "Caguas", rec.Location)
	assert.Equal(t, "11/04/2025", rec.SiteVisitDate)
	assert.Equal(t, "10:00", rec.SiteVisitTime)
	assert.Equal(t, "787-406-9420", rec.ContactPhone)
	assert.Equal(t, "11/29/2025", rec.BiddingCloseDate)
	assert.Equal(t, "16:00", rec.BiddingCloseTime)
	assert.Equal(t, constants.Mantenimiento, rec.Category)
	assert.Equal(t, constants.PriorityMedium, rec.Priority)
}

func TestExtractWithoutModelUsesPatterns(t *testing.T) {
	rec := newTestOrchestrator(nil).Extract(context.Background(), Input{Text: notice})
	assertPatternRecord(t, rec)
}

func TestExtractModelErrorFallsBack(t *testing.T) {
	m := &fakeModel{err: errors.New("upstream 500")}
	rec := newTestOrchestrator(m).Extract(context.Background(), Input{Text: notice})
	assert.Equal(t, 1, m.calls)
	assertPatternRecord(t, rec)
}

func TestExtractModelTimeoutFallsBack(t *testing.T) {
	m := &fakeModel{block: true}
	rec := newTestOrchestrator(m).Extract(context.Background(), Input{Text: notice})
	assertPatternRecord(t, rec)
}

func TestExtractAcceptsModel(t *testing.T) {
	m := &fakeModel{fields: modelFields()}
	rec := newTestOrchestrator(m).Extract(context.Background(), Input{Text: notice, Filename: "aviso.pdf"})

	assert.Equal(t, constants.ModelAssisted, rec.ExtractionMethod)
	assert.Equal(t, 100, rec.Confidence) // purchase: site visit not expected
	assert.Equal(t, "Ponce", rec.Location)
	assert.Equal(t, "12/15/2025", rec.BiddingCloseDate)
	assert.Equal(t, "14:00", rec.BiddingCloseTime)
	assert.Equal(t, constants.Unavailable, rec.SiteVisitTime)
	assert.Equal(t, constants.Suministros, rec.Category)
	assert.Equal(t, constants.PriorityLow, rec.Priority)
}

func TestExtractModelUnknownCategoryAndPriority(t *testing.T) {
	f := modelFields()
	f.Category = "Otro"
	f.Priority = "???"
	rec := newTestOrchestrator(&fakeModel{fields: f}).Extract(context.Background(), Input{Text: notice})
	assert.Equal(t, constants.ModelAssisted, rec.ExtractionMethod)
	assert.Equal(t, constants.Suministros, rec.Category)
	// 44 days to close
	assert.Equal(t, constants.PriorityLow, rec.Priority)
	// the resolved category is a purchase, so missing site-visit fields do not count
	assert.Equal(t, 100, rec.Confidence)
}

func TestExtractPurchaseExceptionFollowsResolvedCategory(t *testing.T) {
	f := modelFields()
	f.Category = "Servicios - Suministro de equipos"
	rec := newTestOrchestrator(&fakeModel{fields: f}).Extract(context.Background(), Input{Text: notice})
	assert.Equal(t, constants.ModelAssisted, rec.ExtractionMethod)
	assert.Equal(t, constants.Servicios, rec.Category)
	assert.Equal(t, scoring.Confidence(rec, false), rec.Confidence)
	assert.Equal(t, 80, rec.Confidence)
}

func TestExtractRejectsModelWithoutDescription(t *testing.T) {
	f := modelFields()
	f.Description = constants.DescriptionNotExtracted
	rec := newTestOrchestrator(&fakeModel{fields: f}).Extract(context.Background(), Input{Text: notice})
	assertPatternRecord(t, rec)
}

func TestExtractLowConfidenceFallsBack(t *testing.T) {
	f := llm.BiddingFields{Description: "Reparación de techos", Category: "Servicios"}
	rec := newTestOrchestrator(&fakeModel{fields: f}).Extract(context.Background(), Input{Text: notice})
	assertPatternRecord(t, rec)
}

func TestExtractEmptyTextSkipsModel(t *testing.T) {
	m := &fakeModel{fields: modelFields()}
	rec := newTestOrchestrator(m).Extract(context.Background(), Input{Text: "  \n "})
	assert.Zero(t, m.calls)
	assert.Equal(t, constants.PatternBased, rec.ExtractionMethod)
	assert.Equal(t, constants.LocationNotExtracted, rec.Location)
	assert.Equal(t, constants.DescriptionNotExtracted, rec.Description)
	assert.Equal(t, constants.Unavailable, rec.BiddingCloseDate)
	assert.Equal(t, constants.Unclassified, rec.Category)
}

func TestExtractDisabledModelIsSkipped(t *testing.T) {
	m := &toggledModel{fakeModel: fakeModel{fields: modelFields()}, on: false}
	rec := newTestOrchestrator(m).Extract(context.Background(), Input{Text: notice})
	assert.Zero(t, m.calls)
	assertPatternRecord(t, rec)
}

func TestValidateModelRecord(t *testing.T) {
	rec := entity.EmptyRecord()
	_, err := ValidateModelRecord(rec)
	require.ErrorIs(t, err, ErrNoDescription)

	rec.Description = "Construcción de verja"
	rec.ContactPhone = "305-555-1234"
	rec.BiddingCloseDate = "por determinar"
	rec.SiteVisitTime = "mañana"
	warnings, err := ValidateModelRecord(rec)
	require.NoError(t, err)
	assert.Len(t, warnings, 3)

	rec.ContactPhone = "787-555-1234"
	rec.BiddingCloseDate = "12/01/2025"
	rec.SiteVisitTime = "09:30"
	warnings, err = ValidateModelRecord(rec)
	require.NoError(t, err)
	assert.Empty(t, warnings)
}
