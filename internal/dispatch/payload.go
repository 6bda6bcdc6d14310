package dispatch

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"fin-dashboard/internal/models"

	"github.com/shopspring/decimal"
)

// Payload is the record set an operation acts on. Batch is true when the
// records came from a JSON array, even a one-element one.
type Payload struct {
	Records []models.Record
	Batch   bool
}

func SingleRecord(r models.Record) *Payload {
	return &Payload{Records: []models.Record{r}}
}

// ParseDocument reads the working document. An object is one record, an
// array of objects is a batch.
func ParseDocument(document string) (*Payload, error) {
	if strings.TrimSpace(document) == "" {
		return nil, ErrNoDocument
	}

	var raw any
	if err := json.Unmarshal([]byte(document), &raw); err != nil {
		return nil, &PayloadError{Detail: err.Error()}
	}
	return payloadFromValue(raw)
}

// ParsePayload is ParseDocument for an already decoded JSON body.
func ParsePayload(data json.RawMessage) (*Payload, error) {
	return ParseDocument(string(data))
}

func payloadFromValue(raw any) (*Payload, error) {
	switch v := raw.(type) {
	case map[string]any:
		return SingleRecord(models.Record(v)), nil
	case []any:
		if len(v) == 0 {
			return nil, &PayloadError{Detail: "the array holds no records"}
		}
		records := make([]models.Record, 0, len(v))
		for i, item := range v {
			obj, ok := item.(map[string]any)
			if !ok {
				return nil, &PayloadError{Detail: fmt.Sprintf("element %d is not an object", i)}
			}
			records = append(records, models.Record(obj))
		}
		return &Payload{Records: records, Batch: true}, nil
	default:
		return nil, &PayloadError{Detail: "expected an object or an array of objects"}
	}
}

// FromUpload maps the first data row of a tabular upload to a budget item.
// It returns false when the header does not identify a category column and
// a separate amount column.
func FromUpload(upload *models.ExtractedData) (models.Record, bool) {
	table, ok := upload.Tabular()
	if !ok || len(table.Data) == 0 {
		return nil, false
	}

	categoryIdx := headerIndex(table.Columns, "category", "description", "name")
	amountIdx := headerIndex(table.Columns, "amount", "budget", "value")
	typeIdx := headerIndex(table.Columns, "type", "category")
	if categoryIdx < 0 || amountIdx < 0 || categoryIdx == amountIdx {
		return nil, false
	}

	row := table.Data[0]
	cell := func(i int) string {
		if i < 0 || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	name := cell(categoryIdx)
	if name == "" {
		name = "Imported Item"
	}
	budgeted, err := decimal.NewFromString(strings.ReplaceAll(strings.TrimPrefix(cell(amountIdx), "$"), ",", ""))
	if err != nil {
		budgeted = decimal.Zero
	}
	flow := models.FlowExpense
	if strings.Contains(strings.ToLower(cell(typeIdx)), "income") {
		flow = models.FlowIncome
	}

	return models.Record{
		"category": name,
		"budgeted": budgeted.InexactFloat64(),
		"actual":   0.0,
		"type":     string(flow),
	}, true
}

func headerIndex(headers []string, needles ...string) int {
	for i, h := range headers {
		lower := strings.ToLower(h)
		for _, n := range needles {
			if strings.Contains(lower, n) {
				return i
			}
		}
	}
	return -1
}

// amountColumn is the field a free-text update changes in each table.
var amountColumn = map[models.Table]string{
	models.TableBudgetItems:   "budgeted",
	models.TableCashFlowItems: "amount",
	models.TableInvoices:      "amount",
	models.TableInvestments:   "current_price",
}

// FromText derives a payload from the message itself. A nil payload with a
// nil error means the text held nothing usable.
func FromText(op Operation, table models.Table, text string, now time.Time) (*Payload, error) {
	switch op {
	case OpInsert:
		if table == models.TableInvoices {
			rec, missing := extractInvoice(text, now)
			if len(missing) > 0 {
				return nil, &MissingFieldsError{Table: string(table), Fields: missing}
			}
			return SingleRecord(rec), nil
		}
		rec, ok := budgetFromText(text)
		if !ok {
			return nil, nil
		}
		rec, ok = reshape(table, rec, now)
		if !ok {
			return nil, nil
		}
		return SingleRecord(rec), nil

	case OpUpdate, OpDelete:
		id, rest, ok := extractID(text)
		if !ok {
			return nil, fmt.Errorf("%w: nothing in the message names the record to %s", ErrMissingIdentifier, op)
		}
		rec := models.Record{"id": id}
		if op == OpUpdate {
			if col, ok := amountColumn[table]; ok {
				if amount, found := extractAmount(rest); found && amount.IsPositive() {
					rec[col] = amount.InexactFloat64()
				}
			}
		}
		return SingleRecord(rec), nil
	}
	return nil, nil
}

func budgetFromText(text string) (models.Record, bool) {
	lower := strings.ToLower(text)
	c, ok := matchCategory(lower)
	if !ok {
		return nil, false
	}
	amount, _ := extractAmount(lower)
	return models.Record{
		"category": c.label,
		"budgeted": amount.InexactFloat64(),
		"actual":   0.0,
		"type":     string(c.flow),
	}, true
}

// reshape turns a budget-shaped record into the target table's shape.
// Tables with no sensible mapping report false.
func reshape(table models.Table, rec models.Record, now time.Time) (models.Record, bool) {
	switch table {
	case models.TableBudgetItems:
		return rec, true
	case models.TableCashFlowItems:
		return models.Record{
			"description": rec["category"],
			"amount":      rec["budgeted"],
			"type":        rec["type"],
			"date":        models.FormatDate(now),
		}, true
	case models.TableInvestments:
		name := rec.String("category")
		return models.Record{
			"symbol":         strings.ToUpper(name),
			"name":           name,
			"quantity":       1.0,
			"purchase_price": rec["budgeted"],
			"current_price":  rec["budgeted"],
			"type":           string(models.InvestmentStock),
		}, true
	default:
		return nil, false
	}
}
