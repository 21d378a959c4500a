package export

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/licitaciones/internal/entity"
	"github.com/joseph-ayodele/licitaciones/internal/normalize"
	"github.com/joseph-ayodele/licitaciones/internal/repository"
)

// SheetName is the worksheet holding one row per licitación.
const SheetName = "Licitaciones"

// Headers is the column layout reviewers already know from the shared sheet.
var Headers = []string{
	"Fecha de Procesamiento",
	"Fecha del Email",
	"Asunto",
	"Ubicación",
	"Descripción",
	"Resumen",
	"Categoría",
	"Prioridad",
	"Archivo PDF",
	"Ver PDF",
	"Fecha Site Visit",
	"Hora Site Visit",
	"Lugar de Visita",
	"Nombre Contacto",
	"Teléfono Contacto",
	"Fecha Cierre Licitación",
	"Hora Cierre Licitación",
	"Método Extracción",
	"Confianza",
	"Decision Status",
}

// Service is a tiny façade over the store that produces XLSX bytes for exports.
type Service struct {
	store  repository.Store
	logger *slog.Logger
}

func NewService(store repository.Store, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{store: store, logger: logger}
}

// ExportXLSX returns a workbook (as bytes) with the stored rows matching f.
func (s *Service) ExportXLSX(ctx context.Context, f entity.ListFilter) ([]byte, error) {
	start := time.Now()
	rows, err := s.store.List(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("query licitaciones: %w", err)
	}
	out, err := Render(rows)
	if err != nil {
		return nil, err
	}
	s.logger.Info("export.xlsx.ok",
		"rows", len(rows),
		"open_only", f.OpenOnly,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return out, nil
}

// Render builds the workbook for rows without touching the store.
func Render(rows []*entity.Licitacion) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	// rename the default sheet so the workbook has exactly one
	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		return nil, err
	}
	for i, h := range Headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(SheetName, cell, h)
	}

	for i, l := range rows {
		row := i + 2
		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = f.SetCellValue(SheetName, cell, v)
		}
		r := l.Record

		write(1, stamp(l.UpdatedAt))
		write(2, stamp(l.Source.EmailDate))
		write(3, orNA(l.Source.Subject))
		write(4, r.Location)
		write(5, r.Description)
		write(6, r.Summary)
		write(7, string(r.Category))
		write(8, string(r.Priority))
		write(9, orNA(l.Source.PDFFilename))
		if l.Source.PDFLink != "" {
			cell, _ := excelize.CoordinatesToCellName(10, row)
			_ = f.SetCellValue(SheetName, cell, "Ver PDF")
			if err := f.SetCellHyperLink(SheetName, cell, l.Source.PDFLink, "External"); err != nil {
				return nil, fmt.Errorf("pdf link row %d: %w", row, err)
			}
		} else {
			write(10, "N/A")
		}
		write(11, r.SiteVisitDate)
		write(12, normalize.TimeLabel(r.SiteVisitTime))
		write(13, normalize.OrUnavailable(normalize.VisitLocationLabel(r.VisitLocation)))
		write(14, r.ContactName)
		write(15, r.ContactPhone)
		write(16, r.BiddingCloseDate)
		write(17, normalize.TimeLabel(r.BiddingCloseTime))
		write(18, string(r.ExtractionMethod))
		write(19, r.Confidence)
		write(20, string(l.ApprovalStatus))
	}

	// Widen a few columns
	_ = f.SetColWidth(SheetName, "A", "B", 20) // timestamps
	_ = f.SetColWidth(SheetName, "C", "C", 40) // subject
	_ = f.SetColWidth(SheetName, "D", "D", 18) // location
	_ = f.SetColWidth(SheetName, "E", "F", 60) // description, summary
	_ = f.SetColWidth(SheetName, "K", "Q", 18)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}
	return buf.Bytes(), nil
}

func stamp(t time.Time) string {
	if t.IsZero() {
		return "N/A"
	}
	return t.Format("2006-01-02 15:04")
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
