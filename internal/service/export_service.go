package service

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"fin-dashboard/internal/models"

	"github.com/go-pdf/fpdf"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

var ErrUnsupportedFormat = errors.New("unsupported export format")

type ExportFormat string

const (
	FormatPDF  ExportFormat = "pdf"
	FormatXLSX ExportFormat = "xlsx"
)

func ParseExportFormat(s string) (ExportFormat, error) {
	switch f := ExportFormat(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatPDF, FormatXLSX:
		return f, nil
	case "excel":
		return FormatXLSX, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
}

// Export is a rendered report ready to be sent as a download.
type Export struct {
	FileName    string
	ContentType string
	Body        []byte
}

var reportTitles = map[models.Table]string{
	models.TableBudgetItems:   "Budget Report",
	models.TableCashFlowItems: "Cash Flow Report",
	models.TableInvoices:      "Invoices Report",
	models.TableInvestments:   "Investment Portfolio Report",
	models.TableFinancialData: "Financial Statements",
}

type ExportService struct {
	logger *zap.Logger
}

func NewExportService(logger *zap.Logger) *ExportService {
	return &ExportService{logger: logger}
}

func (s *ExportService) Export(table models.Table, rows []models.Record, format ExportFormat) (*Export, error) {
	title := reportTitles[table]
	headers := table.ExportHeaders()
	cells := exportCells(table, rows)
	base := strings.ReplaceAll(strings.ToLower(title), " ", "_")

	var (
		body []byte
		err  error
		out  = &Export{}
	)
	switch format {
	case FormatPDF:
		body, err = renderPDF(title, headers, cells)
		out.FileName = base + ".pdf"
		out.ContentType = "application/pdf"
	case FormatXLSX:
		body, err = renderXLSX(headers, cells)
		out.FileName = base + ".xlsx"
		out.ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	if err != nil {
		return nil, err
	}
	out.Body = body

	s.logger.Info("Report exported",
		zap.String("table", string(table)),
		zap.String("format", string(format)),
		zap.Int("rows", len(cells)),
		zap.Int("bytes", len(body)),
	)
	return out, nil
}

// exportCells renders rows in the column order of the table's export headers.
func exportCells(table models.Table, rows []models.Record) [][]string {
	cells := make([][]string, 0, len(rows))
	for _, row := range rows {
		switch v := models.Convert(table, row).(type) {
		case models.BudgetItem:
			cells = append(cells, []string{v.Category, string(v.Type), money(v.Budgeted), money(v.Actual), money(v.Variance())})
		case models.CashFlowItem:
			cells = append(cells, []string{v.Description, money(v.Amount), v.DateLabel, string(v.Type), yesNo(v.Recurring)})
		case models.Invoice:
			cells = append(cells, []string{v.InvoiceNumber, v.ClientName, money(v.Amount), v.DueDate, string(v.Status), v.Description})
		case models.Investment:
			cells = append(cells, []string{v.Symbol, v.Name, v.Quantity.String(), money(v.PurchasePrice), money(v.CurrentPrice), string(v.Type), money(v.Gain())})
		case models.FinancialData:
			cells = append(cells, []string{v.Period, money(v.Revenue), money(v.Expenses), money(v.NetIncome), money(v.Assets), money(v.Liabilities), money(v.Equity)})
		}
	}
	return cells
}

func renderPDF(title string, headers []string, rows [][]string) ([]byte, error) {
	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetTitle(title, true)
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont("Helvetica", "B", 20)
	pdf.CellFormat(0, 12, tr(title), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	width := 270.0 / float64(len(headers))
	pdf.SetFont("Helvetica", "B", 11)
	pdf.SetFillColor(230, 230, 230)
	for _, h := range headers {
		pdf.CellFormat(width, 8, tr(h), "1", 0, "L", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 10)
	for _, row := range rows {
		for _, cell := range row {
			pdf.CellFormat(width, 7, tr(cell), "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render PDF: %w", err)
	}
	return buf.Bytes(), nil
}

func renderXLSX(headers []string, rows [][]string) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Data"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	for r, row := range append([][]string{headers}, rows...) {
		for c, value := range row {
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return nil, fmt.Errorf("failed to write cell %s: %w", cell, err)
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to render workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}
