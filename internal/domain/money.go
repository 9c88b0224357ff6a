package domain

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// Money is a non-negative fixed-point amount with two fraction digits.
// It is stored as decimal(10,2) and serialized as a string such as "49.99".
type Money struct {
	decimal.Decimal
}

func ParseMoney(s string) (Money, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, err
	}
	return Money{d.Round(2)}, nil
}

func MustMoney(s string) Money {
	m, err := ParseMoney(s)
	if err != nil {
		panic(err)
	}
	return m
}

func (m Money) String() string { return m.StringFixed(2) }

// MinorUnits returns the amount in cents.
func (m Money) MinorUnits() int64 { return m.Shift(2).Round(0).IntPart() }

func (m Money) MarshalJSON() ([]byte, error) { return json.Marshal(m.StringFixed(2)) }

func (m *Money) UnmarshalJSON(b []byte) error {
	b = bytes.Trim(b, `"`)
	if len(b) == 0 || string(b) == "null" {
		*m = Money{}
		return nil
	}
	parsed, err := ParseMoney(string(b))
	if err != nil {
		return fmt.Errorf("money: %w", err)
	}
	*m = parsed
	return nil
}

func (m Money) Value() (driver.Value, error) { return m.StringFixed(2), nil }

func (m *Money) Scan(v any) error {
	var d decimal.Decimal
	if err := d.Scan(v); err != nil {
		return err
	}
	m.Decimal = d.Round(2)
	return nil
}
