package signal

// DefaultRiskFraction commits 10% of the cash balance per buy.
const DefaultRiskFraction = 0.10

// Sizer converts signals into order quantities. Buys risk a fixed fraction
// of the cash balance; sells always liquidate the full held position.
// Partial sells are intentionally unsupported (confirmed policy, not a
// simplification to revisit silently).
type Sizer struct {
	RiskFraction float64
}

// NewSizer returns a sizer with the default risk fraction.
func NewSizer() Sizer {
	return Sizer{RiskFraction: DefaultRiskFraction}
}

// BuyQuantity returns the whole number of shares to buy with the risk
// budget at the given price. Zero when the budget cannot afford one share
// or the price is not positive.
func (z Sizer) BuyQuantity(balance, price float64) int {
	if price <= 0 || balance <= 0 {
		return 0
	}
	return int(balance * z.RiskFraction / price)
}

// SellQuantity returns the number of shares to sell given the held
// position: all of them.
func (z Sizer) SellQuantity(held int) int {
	if held < 0 {
		return 0
	}
	return held
}
