package tools

// APRCost projects the cost of carrying a balance at a given annual
// percentage rate over a number of months (simple interest, no compounding,
// matching how card statements quote it for teaching purposes).
type APRCost struct {
	Balance         float64 `json:"balance"`
	APR             float64 `json:"apr"`
	MonthlyInterest float64 `json:"monthly_interest"`
	YearlyInterest  float64 `json:"yearly_interest"`
	TotalCost       float64 `json:"total_cost"`
}

// CalculateAPRCost computes the interest cost of carrying balance at apr
// (e.g. 24.99 for 24.99%) for the given number of months.
func CalculateAPRCost(balance, apr float64, months int) APRCost {
	monthlyRate := apr / 12 / 100
	totalInterest := balance * monthlyRate * float64(months)
	return APRCost{
		Balance:         balance,
		APR:             apr,
		MonthlyInterest: balance * monthlyRate,
		YearlyInterest:  totalInterest,
		TotalCost:       balance + totalInterest,
	}
}
