package dispatch

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"fin-dashboard/internal/models"

	"github.com/shopspring/decimal"
)

type category struct {
	pattern *regexp.Regexp
	label   string
	flow    models.FlowType
}

var categories = []category{
	{regexp.MustCompile(`\b(?:groceries|food)\b`), "Groceries", models.FlowExpense},
	{regexp.MustCompile(`\b(?:rent|housing)\b`), "Rent", models.FlowExpense},
	{regexp.MustCompile(`\b(?:salary|income)\b`), "Salary", models.FlowIncome},
	{regexp.MustCompile(`\b(?:utilities|electricity)\b`), "Utilities", models.FlowExpense},
	{regexp.MustCompile(`\b(?:transport|transportation|gas)\b`), "Transportation", models.FlowExpense},
}

func matchCategory(lower string) (category, bool) {
	for _, c := range categories {
		if c.pattern.MatchString(lower) {
			return c, true
		}
	}
	return category{}, false
}

var (
	dollarAmount   = regexp.MustCompile(`\$\s*(\d[\d,]*(?:\.\d{1,2})?)`)
	labelledAmount = regexp.MustCompile(`(?i)\bamount\s*:?\s*\$?\s*(\d[\d,]*(?:\.\d{1,2})?)`)
	bareAmount     = regexp.MustCompile(`(\d+(?:\.\d{1,2})?)`)
)

// extractAmount returns the amount a message mentions. A "$" prefix or an
// "amount" label beats the first bare number, so "due in 14 days, $300"
// yields 300.
func extractAmount(text string) (decimal.Decimal, bool) {
	for _, re := range []*regexp.Regexp{dollarAmount, labelledAmount, bareAmount} {
		if m := re.FindStringSubmatch(text); m != nil {
			d, err := decimal.NewFromString(strings.ReplaceAll(m[1], ",", ""))
			if err == nil {
				return d, true
			}
		}
	}
	return decimal.Zero, false
}

var (
	uuidPattern     = regexp.MustCompile(`(?i)\b[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}\b`)
	labelledID      = regexp.MustCompile(`(?i)(?:\b(?:id|record|item)\s*:?\s*#?|#)(\d+)\b`)
	numberWithMoney = regexp.MustCompile(`(\$\s*)?\d+(?:\.\d+)?`)
)

// extractID finds the record id in a free-text update or delete request and
// returns the text with the id removed.
func extractID(text string) (string, string, bool) {
	if loc := uuidPattern.FindStringIndex(text); loc != nil {
		return strings.ToLower(text[loc[0]:loc[1]]), cut(text, loc[0], loc[1]), true
	}
	if m := labelledID.FindStringSubmatchIndex(text); m != nil {
		return text[m[2]:m[3]], cut(text, m[2], m[3]), true
	}
	for _, loc := range numberWithMoney.FindAllStringSubmatchIndex(text, -1) {
		if loc[2] >= 0 {
			continue
		}
		token := text[loc[0]:loc[1]]
		if strings.Contains(token, ".") {
			continue
		}
		return token, cut(text, loc[0], loc[1]), true
	}
	return "", text, false
}

func cut(s string, from, to int) string {
	return s[:from] + " " + s[to:]
}

// Invoice fields a chat-created invoice cannot do without.
const (
	fieldClientName  = "client_name"
	fieldDescription = "description"
	fieldAmount      = "amount"
)

var (
	invoiceNumberPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\binv-?(\d+)`),
		regexp.MustCompile(`(?i)invoice\s*#?(\d+)`),
	}
	clientPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)client\s+([^,\n]+)`),
		regexp.MustCompile(`(?i)for\s+client\s+([^,\n]+)`),
		regexp.MustCompile(`(?i)client:\s*([^\n,]+)`),
	}
	descriptionPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)description:\s*([^\n,]+)`),
		regexp.MustCompile(`(?i)desc:\s*([^\n,]+)`),
		regexp.MustCompile(`(?i)description\s+([^,\n]+)`),
	}
	clauseBoundary = regexp.MustCompile(`(?i)\s+(?:amount|description|desc:|due|created|status)\b`)

	dueDatePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)due:\s*([^\n]+)`),
		regexp.MustCompile(`(?i)due date:\s*([^\n]+)`),
	}
	dueInDays      = regexp.MustCompile(`(?i)due in (\d+) days?`)
	createdPattern = []*regexp.Regexp{
		regexp.MustCompile(`(?i)created:\s*([^\n]+)`),
		regexp.MustCompile(`(?i)created date:\s*([^\n]+)`),
	}

	overdueWord = regexp.MustCompile(`\boverdue\b`)
	paidWord    = regexp.MustCompile(`\bpaid\b`)
	sentWord    = regexp.MustCompile(`\bsent\b`)
)

// extractInvoice builds an invoice record from free text. The second return
// lists the required fields the text did not supply.
func extractInvoice(text string, now time.Time) (models.Record, []string) {
	lower := strings.ToLower(text)
	rest := text
	var missing []string

	number := fmt.Sprintf("INV-%d", now.UnixMilli())
	for _, re := range invoiceNumberPatterns {
		if m := re.FindStringSubmatchIndex(rest); m != nil {
			number = "INV" + rest[m[2]:m[3]]
			rest = cut(rest, m[0], m[1])
			break
		}
	}

	client, ok := firstClause(text, clientPatterns)
	if !ok {
		client = "Unknown Client"
		missing = append(missing, fieldClientName)
	}

	description, ok := firstClause(text, descriptionPatterns)
	if !ok {
		description = "Invoice"
		missing = append(missing, fieldDescription)
	}

	dueDate := now.AddDate(0, 0, 30)
	if m := dueInDays.FindStringSubmatchIndex(rest); m != nil {
		if days, err := strconv.Atoi(rest[m[2]:m[3]]); err == nil {
			dueDate = now.AddDate(0, 0, days)
		}
		rest = cut(rest, m[0], m[1])
	} else if d, loc, ok := findDate(rest, dueDatePatterns); ok {
		dueDate = d
		rest = cut(rest, loc[0], loc[1])
	}

	createdDate := now
	if d, loc, ok := findDate(rest, createdPattern); ok {
		createdDate = d
		rest = cut(rest, loc[0], loc[1])
	}

	amount, ok := extractAmount(rest)
	if !ok || !amount.IsPositive() {
		missing = append(missing, fieldAmount)
	}

	status := models.InvoiceDraft
	switch {
	case overdueWord.MatchString(lower):
		status = models.InvoiceOverdue
	case paidWord.MatchString(lower):
		status = models.InvoicePaid
	case sentWord.MatchString(lower):
		status = models.InvoiceSent
	}

	return models.Record{
		"invoice_number": number,
		"client_name":    client,
		"description":    description,
		"amount":         amount.InexactFloat64(),
		"status":         string(status),
		"due_date":       models.FormatDate(dueDate),
		"created_date":   models.FormatDate(createdDate),
	}, missing
}

func firstClause(text string, patterns []*regexp.Regexp) (string, bool) {
	for _, re := range patterns {
		m := re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		v := m[1]
		if loc := clauseBoundary.FindStringIndex(v); loc != nil {
			v = v[:loc[0]]
		}
		if v = strings.TrimSpace(v); v != "" {
			return v, true
		}
	}
	return "", false
}

// findDate tries each pattern and parses the longest comma-separated prefix
// that reads as a date, so "due: March 5, 2026, amount $10" works.
func findDate(text string, patterns []*regexp.Regexp) (time.Time, [2]int, bool) {
	for _, re := range patterns {
		m := re.FindStringSubmatchIndex(text)
		if m == nil {
			continue
		}
		parts := strings.Split(text[m[2]:m[3]], ",")
		consumed := m[2]
		for i := range parts {
			candidate := strings.Join(parts[:i+1], ",")
			if d, ok := models.ParseDate(candidate); ok {
				return d, [2]int{m[0], consumed + len(candidate)}, true
			}
		}
	}
	return time.Time{}, [2]int{}, false
}
