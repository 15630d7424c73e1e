package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/edudocs-api/internal/models"
	"github.com/noah-isme/edudocs-api/internal/workflow"
	appErrors "github.com/noah-isme/edudocs-api/pkg/errors"
	"github.com/noah-isme/edudocs-api/pkg/export"
)

// ExportFormat selects the rendered output of a request export.
type ExportFormat string

const (
	ExportFormatCSV ExportFormat = "csv"
	ExportFormatPDF ExportFormat = "pdf"
)

var exportHeaders = []string{"Request ID", "Student", "Admission No", "Document Type", "Status", "Assigned To", "Expected Completion", "Created At"}

type requestLister interface {
	List(ctx context.Context, actor models.IdentityFacts, query models.RequestListQuery) ([]*models.RequestRecord, error)
}

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset, title string) ([]byte, error)
}

// ExportFile is a rendered export ready to stream to the client.
type ExportFile struct {
	Filename    string
	ContentType string
	Data        []byte
	Rows        int
}

// ExportService renders the viewer's filtered request list.
type ExportService struct {
	requests requestLister
	csv      csvRenderer
	pdf      pdfRenderer
	logger   *zap.Logger
	now      Clock
}

// NewExportService constructs an ExportService.
func NewExportService(requests requestLister, logger *zap.Logger, csv csvRenderer, pdf pdfRenderer) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	return &ExportService{
		requests: requests,
		csv:      csv,
		pdf:      pdf,
		logger:   logger,
		now:      systemClock,
	}
}

// ExportRequests lists what actor can see under query and renders it in format.
func (s *ExportService) ExportRequests(ctx context.Context, actor models.IdentityFacts, query models.RequestListQuery, format ExportFormat) (*ExportFile, error) {
	format = ExportFormat(strings.ToLower(string(format)))
	if format == "" {
		format = ExportFormatCSV
	}
	if format != ExportFormatCSV && format != ExportFormatPDF {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported export format %q", format))
	}

	records, err := s.requests.List(ctx, actor, query)
	if err != nil {
		return nil, err
	}
	dataset := buildRequestDataset(records)

	var (
		payload     []byte
		contentType string
	)
	switch format {
	case ExportFormatPDF:
		payload, err = s.pdf.Render(dataset, exportTitle(query))
		contentType = "application/pdf"
	default:
		payload, err = s.csv.Render(dataset)
		contentType = "text/csv"
	}
	if err != nil {
		s.logger.Error("failed to render request export", zap.String("format", string(format)), zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render export")
	}

	return &ExportFile{
		Filename:    fmt.Sprintf("requests_%s.%s", s.now().Format("20060102_150405"), format),
		ContentType: contentType,
		Data:        payload,
		Rows:        len(dataset.Rows),
	}, nil
}

func buildRequestDataset(records []*models.RequestRecord) export.Dataset {
	dataset := export.Dataset{Headers: exportHeaders}
	for _, rec := range records {
		expected := ""
		if rec.ExpectedCompletionDate != nil {
			expected = rec.ExpectedCompletionDate.Format(workflow.DateLayout)
		}
		dataset.Append(map[string]string{
			"Request ID":          rec.ID,
			"Student":             rec.StudentName,
			"Admission No":        rec.AdmissionNo,
			"Document Type":       rec.DocumentType,
			"Status":              string(rec.Status),
			"Assigned To":         derefString(rec.AssignedToName),
			"Expected Completion": expected,
			"Created At":          rec.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	return dataset
}

func exportTitle(query models.RequestListQuery) string {
	switch query.Tab {
	case workflow.TabHistory:
		return "Request History"
	case workflow.TabNew:
		return "Open Requests"
	default:
		return "Document Requests"
	}
}
