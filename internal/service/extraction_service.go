package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"fin-dashboard/internal/models"

	"github.com/gen2brain/go-fitz"
	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

var ErrUnsupportedFile = errors.New("unsupported file type")

// SupportedUploadTypes are the extensions Extract understands, without the dot.
var SupportedUploadTypes = []string{"csv", "xlsx", "xls", "pdf"}

// ExtractionService turns uploaded files into normalized extracts. A file
// that cannot be parsed still yields an extract: a one-row "Error" table.
type ExtractionService struct {
	logger *zap.Logger
	now    func() time.Time
}

func NewExtractionService(logger *zap.Logger) *ExtractionService {
	return &ExtractionService{
		logger: logger,
		now:    time.Now,
	}
}

// Extract reads the whole file and normalizes it by extension. Only an
// unsupported extension or a failing reader is returned as an error.
func (s *ExtractionService) Extract(ctx context.Context, fileName string, r io.Reader) (*models.ExtractedData, error) {
	fileType := fileExtension(fileName)
	if !isSupportedUpload(fileType) {
		return nil, fmt.Errorf("%w: %q (supported: %s)", ErrUnsupportedFile, fileType, strings.Join(SupportedUploadTypes, ", "))
	}

	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data := &models.ExtractedData{
		FileName:        fileName,
		FileType:        fileType,
		UploadTimestamp: s.now(),
		FileID:          uuid.New().String(),
	}

	switch fileType {
	case "csv":
		data.Content = s.extractCSV(raw)
	case "xlsx", "xls":
		data.Content = s.extractWorkbook(raw)
	case "pdf":
		data.Content = s.extractPDF(raw)
	}

	s.logger.Info("File extracted",
		zap.String("file", fileName),
		zap.String("type", fileType),
		zap.String("file_id", data.FileID),
		zap.Int("bytes", len(raw)),
	)
	return data, nil
}

func (s *ExtractionService) extractCSV(raw []byte) *models.TabularExtract {
	reader := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(raw, []byte("\xef\xbb\xbf"))))
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		s.logger.Warn("Failed to parse CSV file", zap.Error(err))
		return models.NewErrorExtract("Failed to parse CSV file")
	}
	return tabularFromRows(rows)
}

func (s *ExtractionService) extractWorkbook(raw []byte) any {
	f, err := excelize.OpenReader(bytes.NewReader(raw))
	if err != nil {
		s.logger.Warn("Failed to open Excel file", zap.Error(err))
		return models.NewErrorExtract("Failed to parse Excel file")
	}
	defer f.Close()

	workbook := &models.WorkbookExtract{}
	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			s.logger.Warn("Failed to read sheet",
				zap.String("sheet", sheet),
				zap.Error(err),
			)
			workbook.Add(sheet, models.NewErrorExtract("Failed to read sheet "+sheet))
			continue
		}
		workbook.Add(sheet, tabularFromRows(rows))
	}

	if len(workbook.Order) == 0 {
		return models.NewErrorExtract("Excel file has no sheets")
	}
	return workbook
}

func (s *ExtractionService) extractPDF(raw []byte) any {
	doc, err := fitz.NewFromMemory(raw)
	if err != nil {
		s.logger.Warn("Failed to open PDF", zap.Error(err))
		return models.NewErrorExtract("Failed to parse PDF file")
	}
	defer doc.Close()

	var text strings.Builder
	for i := 0; i < doc.NumPage(); i++ {
		pageText, err := doc.Text(i)
		if err != nil {
			s.logger.Warn("Failed to extract text from page",
				zap.Int("page", i+1),
				zap.Error(err),
			)
			continue
		}
		if pageText != "" {
			text.WriteString(pageText)
			text.WriteString("\n")
		}
	}

	return models.NewTextExtract(sanitizeUTF8(strings.TrimSpace(text.String())))
}

// tabularFromRows treats the first row as the header. Short rows are padded
// and blank rows dropped.
func tabularFromRows(rows [][]string) *models.TabularExtract {
	rows = sanitizeRows(rows)
	if len(rows) == 0 {
		return models.NewTabularExtract([]string{}, nil)
	}

	columns := make([]string, len(rows[0]))
	for i, name := range rows[0] {
		if name == "" {
			name = "Unnamed: " + strconv.Itoa(i)
		}
		columns[i] = name
	}

	data := make([][]string, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if isBlankRow(row) {
			continue
		}
		normalized := make([]string, len(columns))
		copy(normalized, row)
		data = append(data, normalized)
	}

	extract := models.NewTabularExtract(columns, data)
	for i, name := range columns {
		extract.Summary.ColumnTypes[name] = inferColumnType(data, i)
	}
	return extract
}

// inferColumnType reports int64, float64, bool or object, the way a
// dataframe library would label the column.
func inferColumnType(rows [][]string, col int) string {
	kind := ""
	for _, row := range rows {
		cell := row[col]
		if cell == "" {
			continue
		}
		var cellKind string
		switch {
		case isInt(cell):
			cellKind = "int64"
		case isFloat(cell):
			cellKind = "float64"
		case isBool(cell):
			cellKind = "bool"
		default:
			return "object"
		}
		switch {
		case kind == "" || kind == cellKind:
			kind = cellKind
		case (kind == "int64" && cellKind == "float64") || (kind == "float64" && cellKind == "int64"):
			kind = "float64"
		default:
			return "object"
		}
	}
	if kind == "" {
		return "object"
	}
	return kind
}

func isInt(s string) bool {
	_, err := strconv.ParseInt(s, 10, 64)
	return err == nil
}

func isFloat(s string) bool {
	_, err := strconv.ParseFloat(s, 64)
	return err == nil
}

func isBool(s string) bool {
	switch strings.ToLower(s) {
	case "true", "false":
		return true
	}
	return false
}

func isBlankRow(row []string) bool {
	for _, cell := range row {
		if cell != "" {
			return false
		}
	}
	return true
}

func fileExtension(name string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
}

func isSupportedUpload(ext string) bool {
	for _, t := range SupportedUploadTypes {
		if t == ext {
			return true
		}
	}
	return false
}
