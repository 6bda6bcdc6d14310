package handlers

import (
	"fin-dashboard/internal/dispatch"
	"fin-dashboard/internal/dto"
	"fin-dashboard/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type RecordHandler struct {
	recordService *service.RecordService
	chatService   *service.ChatService
	logger        *zap.Logger
}

func NewRecordHandler(recordService *service.RecordService, chatService *service.ChatService, logger *zap.Logger) *RecordHandler {
	return &RecordHandler{
		recordService: recordService,
		chatService:   chatService,
		logger:        logger,
	}
}

// List godoc
// @Summary List records of a table
// @Description Newest first. Stored enum values outside the allowed set are shown as the table default.
// @Tags records
// @Produce json
// @Param table path string true "budget_items, cash_flow_items, invoices, investments or financial_data"
// @Security Bearer
// @Success 200 {object} dto.RecordListResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 502 {object} dto.ErrorResponse
// @Router /api/v1/records/{table} [get]
func (h *RecordHandler) List(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	table, err := tableParam(c)
	if err != nil {
		return respondError(c, err)
	}

	items, err := h.recordService.List(c.UserContext(), userID, table)
	if err != nil {
		h.logger.Error("Failed to list records", zap.String("table", string(table)), zap.Error(err))
		return respondError(c, err)
	}

	return c.JSON(dto.RecordListResponse{
		Table:   string(table),
		Count:   len(items),
		Records: items,
	})
}

// RunOperation godoc
// @Summary Run a database operation directly
// @Description Manual operation panel: runs the operation on the table without classification or routing. The affected rows also replace the chat session's working document.
// @Tags records
// @Accept json
// @Produce json
// @Param table path string true "Table name"
// @Param request body dto.OperationRequest true "Operation and data"
// @Security Bearer
// @Success 200 {object} dto.OperationResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 502 {object} dto.ErrorResponse
// @Router /api/v1/records/{table}/operations [post]
func (h *RecordHandler) RunOperation(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	table, err := tableParam(c)
	if err != nil {
		return respondError(c, err)
	}

	var req dto.OperationRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	op, err := dispatch.ParseOperation(req.Operation)
	if err != nil {
		return respondError(c, err)
	}

	result, err := h.chatService.RunOperation(c.UserContext(), userID, op, table, req.Data)
	if err != nil {
		return respondError(c, err)
	}

	records := make([]map[string]any, 0, len(result.Rows))
	for _, r := range result.Rows {
		records = append(records, r)
	}
	return c.JSON(dto.OperationResponse{
		Operation: string(result.Operation),
		Table:     string(result.Table),
		Records:   records,
		Message:   dispatch.FormatResult(result),
	})
}

// Export godoc
// @Summary Export a table as PDF or Excel
// @Tags records
// @Produce application/pdf
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param table path string true "Table name"
// @Param format query string false "pdf or xlsx" default(pdf)
// @Security Bearer
// @Success 200 {file} file
// @Failure 400 {object} dto.ErrorResponse
// @Router /api/v1/records/{table}/export [get]
func (h *RecordHandler) Export(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	table, err := tableParam(c)
	if err != nil {
		return respondError(c, err)
	}
	format, err := service.ParseExportFormat(c.Query("format", string(service.FormatPDF)))
	if err != nil {
		return respondError(c, err)
	}

	out, err := h.recordService.Export(c.UserContext(), userID, table, format)
	if err != nil {
		h.logger.Error("Export failed", zap.String("table", string(table)), zap.Error(err))
		return respondError(c, err)
	}

	c.Attachment(out.FileName)
	c.Set(fiber.HeaderContentType, out.ContentType)
	return c.Send(out.Body)
}
