// README: Money value object; amounts stay raw until displayed.
package types

import (
	"fmt"
	"math"
)

const DefaultCurrency = "INR"

type Money struct {
	Amount   float64
	Currency string
}

func NewMoney(amount float64) Money {
	return Money{Amount: amount, Currency: DefaultCurrency}
}

// Rounded returns the amount rounded to the nearest whole currency unit.
func (m Money) Rounded() int64 {
	return int64(math.Round(m.Amount))
}

func (m Money) Display() string {
	switch m.Currency {
	case "", DefaultCurrency:
		return fmt.Sprintf("₹%d", m.Rounded())
	default:
		return fmt.Sprintf("%s %d", m.Currency, m.Rounded())
	}
}
