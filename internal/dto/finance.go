package dto

type LoanRequest struct {
	Principal  string `json:"principal" example:"100000"`
	AnnualRate string `json:"annual_rate" example:"5.5"`
	Years      int    `json:"years" example:"30"`
}
