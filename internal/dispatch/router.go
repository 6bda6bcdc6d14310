package dispatch

import (
	"regexp"
	"strings"

	"fin-dashboard/internal/models"
)

var (
	// Phrases that point at the working document rather than at a table.
	documentReference = regexp.MustCompile(`\b(?:(?:the|this|json|from|using)\s+)+data\b|\bjson\b`)

	invoiceKeyword    = regexp.MustCompile(`invoice|\bbills?\b`)
	cashFlowKeyword   = regexp.MustCompile(`cash\s*flow|transaction`)
	investmentKeyword = regexp.MustCompile(`investment|portfolio`)
	financialKeyword  = regexp.MustCompile(`financial|\bdata\b`)
)

var keywordRoutes = []struct {
	pattern *regexp.Regexp
	table   models.Table
}{
	{invoiceKeyword, models.TableInvoices},
	{cashFlowKeyword, models.TableCashFlowItems},
	{investmentKeyword, models.TableInvestments},
	{financialKeyword, models.TableFinancialData},
}

// Route picks the table for a message. Keywords in the text win, then the
// field names of the first payload record, then budget_items. Phrases that
// point at the working document are ignored only for document operations.
func Route(text string, source Source, payload *Payload) models.Table {
	if t, ok := routeByKeyword(text, source == SourceDocument); ok {
		return t
	}
	if payload != nil && len(payload.Records) > 0 {
		if t, ok := routeByShape(payload.Records[0]); ok {
			return t
		}
	}
	return models.TableBudgetItems
}

func routeByKeyword(text string, stripDocument bool) (models.Table, bool) {
	lower := strings.ToLower(text)
	if stripDocument {
		lower = documentReference.ReplaceAllString(lower, " ")
	}
	for _, r := range keywordRoutes {
		if r.pattern.MatchString(lower) {
			return r.table, true
		}
	}
	return "", false
}

func routeByShape(r models.Record) (models.Table, bool) {
	switch {
	case r.Has("category") && (r.Has("budgeted") || r.Has("actual")):
		return models.TableBudgetItems, true
	case r.Has("description") && r.Has("amount") && r.Has("type"):
		return models.TableCashFlowItems, true
	case r.Has("invoice_number") || r.Has("client_name"):
		return models.TableInvoices, true
	case r.Has("symbol") || r.Has("name"):
		return models.TableInvestments, true
	case r.Has("period") || r.Has("revenue"):
		return models.TableFinancialData, true
	}
	return "", false
}
