package models

import (
	"encoding/json"
	"strings"
	"time"
)

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is a chat transcript entry. Transcripts live in session memory only.
type Message struct {
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

func NewMessage(role Role, content string) Message {
	return Message{Role: role, Content: content, Timestamp: time.Now()}
}

// ExtractedData is the normalized content of the last uploaded file.
// Content holds a *TabularExtract, *WorkbookExtract or *TextExtract.
type ExtractedData struct {
	FileName        string    `json:"filename"`
	FileType        string    `json:"file_type"`
	UploadTimestamp time.Time `json:"upload_timestamp"`
	FileID          string    `json:"file_id"`
	Content         any       `json:"content"`
}

// Tabular returns the first table of a spreadsheet or CSV extract.
func (e *ExtractedData) Tabular() (*TabularExtract, bool) {
	if e == nil {
		return nil, false
	}
	switch c := e.Content.(type) {
	case *TabularExtract:
		return c, c != nil
	case *WorkbookExtract:
		return c.First()
	default:
		return nil, false
	}
}

type ColumnSummary struct {
	TotalRows    int               `json:"total_rows"`
	TotalColumns int               `json:"total_columns"`
	ColumnTypes  map[string]string `json:"column_types"`
}

type TabularExtract struct {
	Error   string        `json:"error,omitempty"`
	Columns []string      `json:"columns"`
	Data    [][]string    `json:"data"`
	Shape   [2]int        `json:"shape"`
	Summary ColumnSummary `json:"summary"`
}

// NewTabularExtract builds an extract and its summary from a header and rows.
func NewTabularExtract(columns []string, rows [][]string) *TabularExtract {
	if rows == nil {
		rows = [][]string{}
	}
	types := make(map[string]string, len(columns))
	for _, c := range columns {
		types[c] = "string"
	}
	return &TabularExtract{
		Columns: columns,
		Data:    rows,
		Shape:   [2]int{len(rows), len(columns)},
		Summary: ColumnSummary{
			TotalRows:    len(rows),
			TotalColumns: len(columns),
			ColumnTypes:  types,
		},
	}
}

// NewErrorExtract is the placeholder for a file that could not be parsed: a
// one-row "Error" table, so display code never special-cases failures.
func NewErrorExtract(message string) *TabularExtract {
	t := NewTabularExtract([]string{"Error"}, [][]string{{message}})
	t.Error = message
	return t
}

// WorkbookExtract keeps spreadsheet sheets in workbook order and serializes
// as an object keyed by sheet name.
type WorkbookExtract struct {
	Order  []string
	Sheets map[string]*TabularExtract
}

func (w *WorkbookExtract) Add(name string, t *TabularExtract) {
	if w.Sheets == nil {
		w.Sheets = make(map[string]*TabularExtract)
	}
	if _, exists := w.Sheets[name]; !exists {
		w.Order = append(w.Order, name)
	}
	w.Sheets[name] = t
}

func (w *WorkbookExtract) First() (*TabularExtract, bool) {
	if w == nil || len(w.Order) == 0 {
		return nil, false
	}
	t := w.Sheets[w.Order[0]]
	return t, t != nil
}

func (w *WorkbookExtract) MarshalJSON() ([]byte, error) {
	return json.Marshal(w.Sheets)
}

type TextExtract struct {
	Text           string `json:"text"`
	WordCount      int    `json:"word_count"`
	CharacterCount int    `json:"character_count"`
}

func NewTextExtract(text string) *TextExtract {
	return &TextExtract{
		Text:           text,
		WordCount:      len(strings.Fields(text)),
		CharacterCount: len([]rune(text)),
	}
}
