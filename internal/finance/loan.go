package finance

import (
	"errors"

	"github.com/shopspring/decimal"
)

var ErrInvalidLoan = errors.New("principal and term must be positive and the rate must not be negative")

const workingPrecision = 20

var twelve = decimal.NewFromInt(12)

type LoanPeriod struct {
	Month     int             `json:"month"`
	Payment   decimal.Decimal `json:"payment"`
	Principal decimal.Decimal `json:"principal"`
	Interest  decimal.Decimal `json:"interest"`
	Balance   decimal.Decimal `json:"balance"`
}

type Loan struct {
	MonthlyPayment decimal.Decimal `json:"monthly_payment"`
	TotalPayment   decimal.Decimal `json:"total_payment"`
	TotalInterest  decimal.Decimal `json:"total_interest"`
	Schedule       []LoanPeriod    `json:"schedule"`
}

// MonthlyPayment is the fixed annuity payment for a loan with an annual rate
// in percent and a term in months. A zero rate splits the principal evenly.
func MonthlyPayment(principal, annualRatePercent decimal.Decimal, months int) (decimal.Decimal, error) {
	if !principal.IsPositive() || months <= 0 || annualRatePercent.IsNegative() {
		return decimal.Zero, ErrInvalidLoan
	}
	n := decimal.NewFromInt(int64(months))
	rate := monthlyRate(annualRatePercent)
	if rate.IsZero() {
		return principal.Div(n), nil
	}

	growth := compound(decimal.NewFromInt(1).Add(rate), months)
	return principal.Mul(rate).Mul(growth).Div(growth.Sub(decimal.NewFromInt(1))), nil
}

// Amortize builds the full schedule. Figures are rounded to cents for
// display; the running balance is kept unrounded and floored at zero.
func Amortize(principal, annualRatePercent decimal.Decimal, months int) (Loan, error) {
	payment, err := MonthlyPayment(principal, annualRatePercent, months)
	if err != nil {
		return Loan{}, err
	}

	rate := monthlyRate(annualRatePercent)
	balance := principal
	schedule := make([]LoanPeriod, 0, months)

	for m := 1; m <= months; m++ {
		interest := balance.Mul(rate).Round(workingPrecision)
		principalPart := payment.Sub(interest)
		balance = decimal.Max(decimal.Zero, balance.Sub(principalPart))

		schedule = append(schedule, LoanPeriod{
			Month:     m,
			Payment:   payment.Round(2),
			Principal: principalPart.Round(2),
			Interest:  interest.Round(2),
			Balance:   balance.Round(2),
		})
	}

	total := payment.Mul(decimal.NewFromInt(int64(months)))
	return Loan{
		MonthlyPayment: payment.Round(2),
		TotalPayment:   total.Round(2),
		TotalInterest:  total.Sub(principal).Round(2),
		Schedule:       schedule,
	}, nil
}

func monthlyRate(annualRatePercent decimal.Decimal) decimal.Decimal {
	return annualRatePercent.Div(hundred).Div(twelve)
}

// compound raises base to n, rounding each step so the digit count stays bounded.
func compound(base decimal.Decimal, n int) decimal.Decimal {
	result := decimal.NewFromInt(1)
	for i := 0; i < n; i++ {
		result = result.Mul(base).Round(workingPrecision)
	}
	return result
}
