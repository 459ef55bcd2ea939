package export

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"html/template"
	"time"

	"github.com/google/uuid"
	"github.com/pulsetronic/backend/internal/domain/catalog"
	"github.com/pulsetronic/backend/internal/domain/partner"
	"github.com/pulsetronic/backend/internal/domain/sales"
	"github.com/pulsetronic/backend/internal/domain/shared"
	infra "github.com/pulsetronic/backend/internal/infrastructure/export"
	"go.uber.org/zap"
)

// ReportStorage archives generated report files in object storage
type ReportStorage interface {
	// Store uploads a report file under the given filename
	Store(ctx context.Context, filename string, data []byte, contentType string) error
}

// exportPageSize is the batch size used when walking the quote table
const exportPageSize = 500

// statusLabels maps quote statuses to their Portuguese display names
var statusLabels = map[sales.QuoteStatus]string{
	sales.QuoteStatusNew:       "Novo",
	sales.QuoteStatusAnalyzing: "Em Análise",
	sales.QuoteStatusQuoteSent: "Orçamento Enviado",
	sales.QuoteStatusApproved:  "Aprovado",
	sales.QuoteStatusRejected:  "Rejeitado",
	sales.QuoteStatusCompleted: "Concluído",
}

// ExportService generates quote reports in CSV and PDF formats
type ExportService struct {
	quoteRepo    sales.QuoteRepository
	customerRepo partner.CustomerRepository
	serviceRepo  catalog.ServiceRepository
	renderer     infra.PDFRenderer
	storage      ReportStorage
	logger       *zap.Logger

	now func() time.Time
}

// NewExportService creates a new ExportService. The storage argument may be
// nil, in which case generated reports are not archived.
func NewExportService(
	quoteRepo sales.QuoteRepository,
	customerRepo partner.CustomerRepository,
	serviceRepo catalog.ServiceRepository,
	renderer infra.PDFRenderer,
	storage ReportStorage,
	logger *zap.Logger,
) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{
		quoteRepo:    quoteRepo,
		customerRepo: customerRepo,
		serviceRepo:  serviceRepo,
		renderer:     renderer,
		storage:      storage,
		logger:       logger,
		now:          time.Now,
	}
}

// ExportQuotes generates a quote report in the requested format
func (s *ExportService) ExportQuotes(ctx context.Context, req ExportQuotesRequest) (*ExportResult, error) {
	rows, err := s.collectRows(ctx, sales.QuoteStatus(req.Status))
	if err != nil {
		return nil, err
	}

	var result *ExportResult
	switch req.Format {
	case "csv":
		result, err = s.buildCSV(rows)
	case "pdf":
		result, err = s.buildPDF(ctx, rows)
	default:
		return nil, shared.NewDomainError("INVALID_FORMAT", "Unsupported export format: "+req.Format)
	}
	if err != nil {
		return nil, err
	}

	s.archive(ctx, result)

	s.logger.Info("quotes exported",
		zap.String("format", req.Format),
		zap.String("filename", result.Filename),
		zap.Int("quotes", len(rows)))

	return result, nil
}

// quoteRow is a quote with its customer and service names resolved,
// pre-formatted for report output
type quoteRow struct {
	ID             string
	CustomerName   string
	CustomerEmail  string
	CustomerPhone  string
	ServiceTitle   string
	Status         string
	Equipment      string
	Vehicle        string
	EstimatedValue string
	Notes          string
	CreatedAt      string
	UpdatedAt      string
}

func (s *ExportService) collectRows(ctx context.Context, status sales.QuoteStatus) ([]quoteRow, error) {
	customers := map[uuid.UUID]*partner.Customer{}
	services := map[uuid.UUID]string{}

	var rows []quoteRow
	filter := sales.QuoteFilter{Filter: shared.DefaultFilter(), Status: status}
	filter.PageSize = exportPageSize

	for page := 1; ; page++ {
		filter.Page = page
		quotes, total, err := s.quoteRepo.FindAll(ctx, filter)
		if err != nil {
			return nil, fmt.Errorf("failed to list quotes: %w", err)
		}

		for i := range quotes {
			row, err := s.buildRow(ctx, &quotes[i], customers, services)
			if err != nil {
				return nil, err
			}
			rows = append(rows, row)
		}

		if int64(len(rows)) >= total || len(quotes) == 0 {
			break
		}
	}

	return rows, nil
}

func (s *ExportService) buildRow(
	ctx context.Context,
	quote *sales.Quote,
	customers map[uuid.UUID]*partner.Customer,
	services map[uuid.UUID]string,
) (quoteRow, error) {
	customer, ok := customers[quote.CustomerID]
	if !ok {
		found, err := s.customerRepo.FindByID(ctx, quote.CustomerID)
		if err != nil {
			return quoteRow{}, fmt.Errorf("failed to load customer %s: %w", quote.CustomerID, err)
		}
		customer = found
		customers[quote.CustomerID] = customer
	}

	serviceTitle := "-"
	if quote.ServiceID != nil {
		title, ok := services[*quote.ServiceID]
		if !ok {
			svc, err := s.serviceRepo.FindByID(ctx, *quote.ServiceID)
			if err != nil {
				// Service may have been removed after the quote was filed
				title = "-"
			} else {
				title = svc.Title
			}
			services[*quote.ServiceID] = title
		}
		serviceTitle = title
	}

	value := "-"
	if quote.EstimatedValue != nil {
		value = "R$ " + quote.EstimatedValue.StringFixed(2)
	}

	return quoteRow{
		ID:             quote.ID.String(),
		CustomerName:   customer.Name,
		CustomerEmail:  orDash(customer.Email),
		CustomerPhone:  customer.Phone,
		ServiceTitle:   serviceTitle,
		Status:         translateStatus(quote.Status),
		Equipment:      orDash(quote.Equipment),
		Vehicle:        orDash(quote.Vehicle),
		EstimatedValue: value,
		Notes:          orDash(quote.Notes),
		CreatedAt:      formatDateTime(quote.CreatedAt),
		UpdatedAt:      formatDateTime(quote.UpdatedAt),
	}, nil
}

func (s *ExportService) buildCSV(rows []quoteRow) (*ExportResult, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := []string{
		"ID", "Cliente", "Email", "Telefone", "Serviço", "Status",
		"Equipamento", "Veículo", "Valor Estimado", "Observações",
		"Criado Em", "Atualizado Em",
	}
	if err := w.Write(header); err != nil {
		return nil, fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, row := range rows {
		record := []string{
			row.ID, row.CustomerName, row.CustomerEmail, row.CustomerPhone,
			row.ServiceTitle, row.Status, row.Equipment, row.Vehicle,
			row.EstimatedValue, row.Notes, row.CreatedAt, row.UpdatedAt,
		}
		if err := w.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush CSV: %w", err)
	}

	return &ExportResult{
		Filename:    s.reportFilename("csv"),
		ContentType: ContentTypeCSV,
		Data:        buf.Bytes(),
	}, nil
}

func (s *ExportService) buildPDF(ctx context.Context, rows []quoteRow) (*ExportResult, error) {
	html, err := s.buildReportHTML(rows)
	if err != nil {
		return nil, err
	}

	rendered, err := s.renderer.Render(ctx, &infra.RenderRequest{
		HTML:  html,
		Title: "Relatório de Orçamentos",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to render PDF: %w", err)
	}

	return &ExportResult{
		Filename:    s.reportFilename("pdf"),
		ContentType: ContentTypePDF,
		Data:        rendered.PDFData,
	}, nil
}

// quotesReportTemplate lays out one block per quote with a report header
// and footer. All values arrive pre-formatted.
var quotesReportTemplate = template.Must(template.New("quotes-report").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="UTF-8">
<title>Relatório de Orçamentos</title>
<style>
body { font-family: Helvetica, Arial, sans-serif; font-size: 12px; color: #222; }
h1 { font-size: 20px; margin-bottom: 4px; }
.meta { color: #666; margin-bottom: 16px; }
.quote { border: 1px solid #ddd; border-radius: 4px; padding: 12px; margin-bottom: 12px; page-break-inside: avoid; }
.quote h2 { font-size: 14px; margin: 0 0 8px 0; }
.quote .status { float: right; font-weight: bold; }
.section { margin-bottom: 6px; }
.section .label { font-weight: bold; }
.footer { margin-top: 24px; text-align: center; color: #999; font-size: 10px; }
</style>
</head>
<body>
<h1>Relatório de Orçamentos</h1>
<div class="meta">Gerado em: {{.GeneratedAt}}<br>Total de Orçamentos: {{.Total}}</div>
{{range .Rows}}
<div class="quote">
<span class="status">{{.Status}}</span>
<h2>{{.CustomerName}}</h2>
<div class="section"><span class="label">Cliente:</span> {{.CustomerName}} &middot; {{.CustomerEmail}} &middot; {{.CustomerPhone}}</div>
<div class="section"><span class="label">Serviço:</span> {{.ServiceTitle}}</div>
<div class="section"><span class="label">Detalhes:</span> Veículo: {{.Vehicle}} &middot; Equipamento: {{.Equipment}}</div>
<div class="section"><span class="label">Valor Estimado:</span> {{.EstimatedValue}}</div>
<div class="section"><span class="label">Observações:</span> {{.Notes}}</div>
<div class="section"><span class="label">Criado em:</span> {{.CreatedAt}}</div>
</div>
{{end}}
<div class="footer">Pulse Tronic Install Pro - Sistema de Gerenciamento</div>
</body>
</html>`))

func (s *ExportService) buildReportHTML(rows []quoteRow) (string, error) {
	data := struct {
		GeneratedAt string
		Total       int
		Rows        []quoteRow
	}{
		GeneratedAt: formatDateTime(s.now()),
		Total:       len(rows),
		Rows:        rows,
	}

	var buf bytes.Buffer
	if err := quotesReportTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to build report HTML: %w", err)
	}
	return buf.String(), nil
}

// archive uploads the report to object storage when configured. A storage
// failure does not fail the export; the client still gets the file.
func (s *ExportService) archive(ctx context.Context, result *ExportResult) {
	if s.storage == nil {
		return
	}
	if err := s.storage.Store(ctx, result.Filename, result.Data, result.ContentType); err != nil {
		s.logger.Warn("failed to archive report",
			zap.String("filename", result.Filename),
			zap.Error(err))
	}
}

func (s *ExportService) reportFilename(ext string) string {
	return fmt.Sprintf("orcamentos_%s.%s", s.now().Format("20060102_150405"), ext)
}

// translateStatus returns the Portuguese label for a quote status
func translateStatus(status sales.QuoteStatus) string {
	if label, ok := statusLabels[status]; ok {
		return label
	}
	return string(status)
}

func formatDateTime(t time.Time) string {
	return t.Format("02/01/2006 15:04")
}

func orDash(value string) string {
	if value == "" {
		return "-"
	}
	return value
}
