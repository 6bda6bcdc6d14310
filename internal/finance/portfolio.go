package finance

import (
	"fin-dashboard/internal/models"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

type Holding struct {
	CostBasis   decimal.Decimal `json:"cost_basis"`
	MarketValue decimal.Decimal `json:"market_value"`
	Gain        decimal.Decimal `json:"gain"`
	GainPercent decimal.Decimal `json:"gain_percent"`
}

func (h *Holding) add(inv models.Investment) {
	h.CostBasis = h.CostBasis.Add(inv.CostBasis())
	h.MarketValue = h.MarketValue.Add(inv.MarketValue())
	h.Gain = h.MarketValue.Sub(h.CostBasis)
	h.GainPercent = gainPercent(h.Gain, h.CostBasis)
}

type PortfolioSummary struct {
	Holding
	Positions int                                `json:"positions"`
	ByType    map[models.InvestmentType]*Holding `json:"by_type"`
}

func SummarizePortfolio(investments []models.Investment) PortfolioSummary {
	s := PortfolioSummary{ByType: make(map[models.InvestmentType]*Holding)}
	for _, inv := range investments {
		s.add(inv)
		h, ok := s.ByType[inv.Type]
		if !ok {
			h = &Holding{}
			s.ByType[inv.Type] = h
		}
		h.add(inv)
	}
	s.Positions = len(investments)
	return s
}

// gainPercent is zero for an empty cost basis.
func gainPercent(gain, cost decimal.Decimal) decimal.Decimal {
	if cost.IsZero() {
		return decimal.Zero
	}
	return gain.Div(cost).Mul(hundred).Round(2)
}
