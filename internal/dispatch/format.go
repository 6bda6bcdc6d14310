package dispatch

import (
	"errors"
	"fmt"
	"strings"

	"fin-dashboard/internal/models"
)

var invoiceFieldLabels = map[string]string{
	fieldClientName:  "Client name",
	fieldDescription: "Description of services",
	fieldAmount:      "Amount",
}

// FormatResult turns an executed operation into the assistant's reply.
func FormatResult(r *Result) string {
	name := r.Table.DisplayName()
	count := len(r.Rows)

	switch r.Operation {
	case OpInsert:
		if r.Table == models.TableInvoices && count > 0 {
			inv := models.ConvertToInvoice(r.Rows[0])
			return fmt.Sprintf("Invoice created successfully!\n\nInvoice Details:\n"+
				"- Invoice Number: %s\n- Client: %s\n- Description: %s\n- Amount: $%s\n- Status: %s\n- Due Date: %s",
				inv.InvoiceNumber, inv.ClientName, inv.Description, inv.Amount.StringFixed(2), inv.Status, inv.DueDate)
		}
		if r.Batch {
			return fmt.Sprintf("Successfully inserted %d records from JSON data into your %s.", count, name)
		}
		return fmt.Sprintf("Successfully stored the record in your %s.", name)

	case OpSelect:
		return fmt.Sprintf("Retrieved %d records from your %s. Check the JSON editor to see the data.", count, name)

	case OpDelete:
		return mutationReply("deleted", "from", r, name)

	case OpUpdate:
		return mutationReply("updated", "in", r, name)
	}
	return fmt.Sprintf("Completed %s on your %s.", r.Operation, name)
}

func mutationReply(verb, prep string, r *Result, name string) string {
	switch {
	case len(r.Rows) == 0:
		return fmt.Sprintf("No matching record was found in your %s, nothing was %s.", name, verb)
	case r.Batch:
		return fmt.Sprintf("Successfully %s %d records %s your %s using JSON data.", verb, len(r.Rows), prep, name)
	default:
		return fmt.Sprintf("Successfully %s the record %s your %s.", verb, prep, name)
	}
}

// FormatError turns a failed dispatch into the assistant's reply. It never
// loses the underlying message.
func FormatError(op Operation, err error) string {
	var (
		payloadErr *PayloadError
		missingErr *MissingFieldsError
		storeErr   *StoreError
	)

	switch {
	case errors.Is(err, ErrNoDocument):
		return "No JSON data available in the JSON editor. Please upload a file or add data to the JSON editor first."

	case errors.As(err, &payloadErr):
		return fmt.Sprintf("Invalid JSON data in the JSON editor. Please fix the JSON before performing database operations.\n\nError: %s", payloadErr.Detail)

	case errors.As(err, &missingErr):
		if missingErr.Table == string(models.TableInvoices) && op == OpInsert {
			return invoicePrompt(missingErr.Fields)
		}
		return fmt.Sprintf("I need more information to save this record. Missing fields: %s.", strings.Join(missingErr.Fields, ", "))

	case errors.Is(err, ErrMissingIdentifier):
		verb := string(op)
		if verb == "" || op == OpSelect || op == OpInsert {
			verb = "change"
		}
		return fmt.Sprintf("I need the ID of the record you want to %s. Please provide the record ID or use the Database Operations panel to %s records.", verb, verb)

	case errors.Is(err, ErrMissingRequiredField):
		return fmt.Sprintf("I need more information to complete this operation: %v.", err)

	case errors.As(err, &storeErr):
		return fmt.Sprintf("I couldn't complete the database operation: %v. Please use the Database Operations panel to manually perform this operation.", storeErr.Err)

	case errors.Is(err, ErrUpstreamService):
		return fmt.Sprintf("Error communicating with AI: %v. Please check your API key and try again.", err)
	}
	return fmt.Sprintf("Error: %v", err)
}

func invoicePrompt(fields []string) string {
	var b strings.Builder
	b.WriteString("I need more information to create the invoice. Please provide:\n")
	for _, f := range fields {
		label, ok := invoiceFieldLabels[f]
		if !ok {
			label = f
		}
		b.WriteString("- " + label + "\n")
	}
	b.WriteString("\nExample: Create invoice for client ABC Corp, description: Web development services, amount: $2500")
	return b.String()
}
