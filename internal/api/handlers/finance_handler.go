package handlers

import (
	"fin-dashboard/internal/dto"
	"fin-dashboard/internal/finance"
	"fin-dashboard/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const defaultForecastMonths = 6

type FinanceHandler struct {
	recordService *service.RecordService
	logger        *zap.Logger
}

func NewFinanceHandler(recordService *service.RecordService, logger *zap.Logger) *FinanceHandler {
	return &FinanceHandler{
		recordService: recordService,
		logger:        logger,
	}
}

// Budget godoc
// @Summary Budget summary
// @Description Budgeted and actual totals by type, net figures and per-category variance
// @Tags finance
// @Produce json
// @Security Bearer
// @Success 200 {object} finance.BudgetSummary
// @Router /api/v1/finance/budget [get]
func (h *FinanceHandler) Budget(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	summary, err := h.recordService.BudgetSummary(c.UserContext(), userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(summary)
}

// Portfolio godoc
// @Summary Investment portfolio summary
// @Tags finance
// @Produce json
// @Security Bearer
// @Success 200 {object} finance.PortfolioSummary
// @Router /api/v1/finance/portfolio [get]
func (h *FinanceHandler) Portfolio(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	summary, err := h.recordService.PortfolioSummary(c.UserContext(), userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(summary)
}

// Forecast godoc
// @Summary Cash flow forecast
// @Description Running balance over the coming months. Recurring items count every month.
// @Tags finance
// @Produce json
// @Param months query int false "Months to project" default(6)
// @Param starting_balance query string false "Overrides the configured starting balance"
// @Security Bearer
// @Success 200 {object} finance.Forecast
// @Failure 400 {object} dto.ErrorResponse
// @Router /api/v1/finance/forecast [get]
func (h *FinanceHandler) Forecast(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	months := c.QueryInt("months", defaultForecastMonths)
	if months < 1 || months > finance.MaxForecastMonths {
		return badRequest(c, "months must be between 1 and 60")
	}

	var start *decimal.Decimal
	if raw := c.Query("starting_balance"); raw != "" {
		d, err := decimal.NewFromString(raw)
		if err != nil {
			return badRequest(c, "starting_balance must be a number")
		}
		start = &d
	}

	forecast, err := h.recordService.Forecast(c.UserContext(), userID, months, start)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(forecast)
}

// Loan godoc
// @Summary Loan calculator
// @Description Monthly payment, totals and the amortization schedule
// @Tags finance
// @Accept json
// @Produce json
// @Param request body dto.LoanRequest true "Loan terms"
// @Security Bearer
// @Success 200 {object} finance.Loan
// @Failure 400 {object} dto.ErrorResponse
// @Router /api/v1/finance/loan [post]
func (h *FinanceHandler) Loan(c *fiber.Ctx) error {
	var req dto.LoanRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	principal, err := decimal.NewFromString(req.Principal)
	if err != nil {
		return badRequest(c, "principal must be a number")
	}
	rate, err := decimal.NewFromString(req.AnnualRate)
	if err != nil {
		return badRequest(c, "annual_rate must be a number")
	}

	loan, err := finance.Amortize(principal, rate, req.Years*12)
	if err != nil {
		return badRequest(c, err.Error())
	}
	return c.JSON(loan)
}
