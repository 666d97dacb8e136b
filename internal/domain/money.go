package domain

import "github.com/shopspring/decimal"

// Money is a decimal amount that encodes as a bare JSON number, both on the
// wire and in persisted snapshots. Quoted strings are still accepted on decode.
type Money struct {
	decimal.Decimal
}

// NewMoney wraps d
func NewMoney(d decimal.Decimal) Money {
	return Money{Decimal: d}
}

func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.Decimal.String()), nil
}

func (m *Money) UnmarshalJSON(data []byte) error {
	return m.Decimal.UnmarshalJSON(data)
}
