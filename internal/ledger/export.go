package ledger

import (
	"context"
	"strconv"
	"time"

	"github.com/minkhant-dev/piecerate-api/internal/models"
	"github.com/minkhant-dev/piecerate-api/internal/reports"
	"github.com/minkhant-dev/piecerate-api/pkg/export"
)

// ExportFormat selects the rendered file type.
type ExportFormat string

const (
	ExportCSV ExportFormat = "csv"
	ExportPDF ExportFormat = "pdf"
)

var exportHeaders = []string{"ID", "Date", "Shift", "WorkerName", "TaskName", "CompletedQty", "DefectQty", "PieceRate", "BasePay", "Deduction"}

// ExportService renders the production ledger into downloadable files.
type ExportService struct {
	production *ProductionService
	csv        *export.CSVExporter
	pdf        *export.PDFExporter
}

// NewExportService constructs an export service.
func NewExportService(production *ProductionService) *ExportService {
	return &ExportService{
		production: production,
		csv:        export.NewCSVExporter(),
		pdf:        export.NewPDFExporter(),
	}
}

// Export fetches the full ledger, applies the optional inclusive date
// range, and renders it in the requested format. It returns the file
// bytes and the content type to serve them with.
func (s *ExportService) Export(ctx context.Context, session models.Session, format ExportFormat, start, end *time.Time) ([]byte, string, error) {
	entries, err := s.production.FetchAll(ctx, session)
	if err != nil {
		return nil, "", err
	}
	entries = reports.FilterByDateRange(entries, start, end)

	dataset := export.Dataset{
		Headers: exportHeaders,
		Rows:    make([][]string, 0, len(entries)),
	}
	for _, entry := range entries {
		dataset.Rows = append(dataset.Rows, []string{
			entry.ID,
			entry.Date,
			string(entry.Shift),
			entry.WorkerName,
			entry.TaskName,
			strconv.Itoa(entry.CompletedQuantity),
			strconv.Itoa(entry.DefectQuantity),
			formatMoney(entry.PieceRate),
			formatMoney(entry.BasePay),
			formatMoney(entry.DeductionAmount),
		})
	}

	switch format {
	case ExportPDF:
		payload, err := s.pdf.Render(dataset, "Production Ledger")
		if err != nil {
			return nil, "", err
		}
		return payload, "application/pdf", nil
	default:
		payload, err := s.csv.Render(dataset)
		if err != nil {
			return nil, "", err
		}
		return payload, "text/csv", nil
	}
}

func formatMoney(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
