package dispatch

import (
	"encoding/json"
	"fmt"
	"strings"

	"fin-dashboard/internal/models"
)

const assistantInstruction = `You are a helpful AI financial assistant that can work with the user's database and JSON data.

IMPORTANT INSTRUCTIONS:
- Provide clear, structured responses in plain English
- Do NOT use markdown formatting (no **, *, +, or other markdown symbols)
- Do NOT show SQL queries or technical database commands
- Give actionable insights and recommendations
- Use clear headings and bullet points with plain text
- If you need to perform database operations, explain what you would do in simple terms
- You can read and use JSON data from the JSON editor to perform database operations

CAPABILITIES:
1. Analyze financial data and provide insights
2. Help with budget planning and tracking
3. Process uploaded files (PDF, Excel, CSV)
4. Suggest financial improvements
5. Answer questions about spending patterns
6. Read JSON data from the JSON editor and perform database operations

DATABASE TABLES AVAILABLE:
- Budget Items: track income and expenses
- Cash Flow: monitor money flow
- Invoices: manage billing
- Investments: track the investment portfolio
- Financial Data: period financial statements

RESPONSE FORMAT:
- Use clear headings without special symbols
- Use simple bullet points with dashes (-) or numbers
- Keep responses clean and readable

EXAMPLE FORMAT:
"Here's what I found in your budget:

Budget Summary:
- Total budgeted: $X
- Total actual: $Y
- Variance: $Z

Recommendations:
- Consider reducing grocery spending"`

// groundingColumns are the budget fields shown to the model.
var groundingColumns = []string{"category", "budgeted", "actual", "type", "created_at"}

// Grounding is the session context attached to a free-form question.
type Grounding struct {
	RecentBudget []models.Record
	Upload       *models.ExtractedData
	Document     string
}

// SystemInstruction renders the assistant instruction with whatever context
// the session has.
func (g Grounding) SystemInstruction() string {
	var b strings.Builder
	b.WriteString(assistantInstruction)

	if g.Upload != nil {
		content, err := json.MarshalIndent(g.Upload.Content, "", "  ")
		if err != nil {
			content = []byte(fmt.Sprintf("%q", err.Error()))
		}
		fmt.Fprintf(&b, "\n\nCURRENT FILE CONTEXT:\n- Filename: %s\n- File Type: %s\n- Upload Time: %s\n- File Content: %s",
			g.Upload.FileName, g.Upload.FileType, g.Upload.UploadTimestamp.Format("2006-01-02T15:04:05Z07:00"), content)
	}

	if strings.TrimSpace(g.Document) != "" {
		var parsed any
		if err := json.Unmarshal([]byte(g.Document), &parsed); err != nil {
			b.WriteString("\n\nJSON EDITOR DATA:\n- JSON data is present but may be invalid or malformed\n" +
				"- Please inform the user if JSON needs to be corrected before database operations")
		} else {
			pretty, _ := json.MarshalIndent(parsed, "", "  ")
			fmt.Fprintf(&b, "\n\nJSON EDITOR DATA AVAILABLE:\n%s\n\nYou can use this JSON data to perform database operations when requested.", pretty)
		}
	}

	if len(g.RecentBudget) > 0 {
		rows := make([]map[string]any, 0, len(g.RecentBudget))
		for _, r := range g.RecentBudget {
			row := make(map[string]any, len(groundingColumns))
			for _, c := range groundingColumns {
				row[c] = r[c]
			}
			rows = append(rows, row)
		}
		recent, err := json.MarshalIndent(rows, "", "  ")
		if err == nil {
			fmt.Fprintf(&b, "\n\nRECENT BUDGET DATA (last %d items):\n%s", len(rows), recent)
		}
	}

	return b.String()
}
