// Package types provides common value types for quantities and money.
package types

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Money represents a monetary value with full precision.
// Uses decimal.Decimal to avoid floating-point errors.
type Money = decimal.Decimal

// NewMoney creates a Money value from a float.
// WARNING: Use NewMoneyFromString for precise values.
func NewMoney(f float64) Money {
	return decimal.NewFromFloat(f)
}

// NewMoneyFromString creates a Money value from a string.
// This is the preferred method for monetary values.
func NewMoneyFromString(s string) (Money, error) {
	return decimal.NewFromString(s)
}

// MustMoney creates a Money value from a string, panics on error.
// Use only for constants and tests.
func MustMoney(s string) Money {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

// Zero returns zero Money value.
func Zero() Money {
	return decimal.Zero
}

// Quantity is a fixed-point quantity with 4 decimal places (scale = 1e4).
//
// Matches Postgres NUMERIC(15,4) semantics without floating point errors,
// is stored as BIGINT (scaled integer) and stays a JSON number.
type Quantity int64

const QuantityScale int64 = 10_000

func NewQuantityFromFloat64(v float64) Quantity {
	return Quantity(math.Round(v * float64(QuantityScale)))
}

// NewQuantityFromInt creates a whole-unit quantity.
func NewQuantityFromInt(v int64) Quantity { return Quantity(v * QuantityScale) }

func NewQuantityFromInt64Scaled(v int64) Quantity { return Quantity(v) }

func (q Quantity) Int64Scaled() int64 { return int64(q) }

func (q Quantity) Float64() float64 { return float64(q) / float64(QuantityScale) }

// Decimal converts the quantity into a decimal for money arithmetic.
func (q Quantity) Decimal() decimal.Decimal {
	return decimal.New(int64(q), -4)
}

func (q Quantity) IsZero() bool { return q == 0 }

func (q Quantity) IsPositive() bool { return q > 0 }

func (q Quantity) IsNegative() bool { return q < 0 }

func (q Quantity) Neg() Quantity { return -q }

func (q Quantity) Abs() Quantity {
	if q < 0 {
		return -q
	}
	return q
}

// String returns a decimal string with 4 fractional digits.
func (q Quantity) String() string {
	neg := q < 0
	v := q
	if neg {
		v = -v
	}
	intPart := int64(v) / QuantityScale
	frac := int64(v) % QuantityScale
	if neg {
		return fmt.Sprintf("-%d.%04d", intPart, frac)
	}
	return fmt.Sprintf("%d.%04d", intPart, frac)
}

// MarshalJSON encodes Quantity as JSON number (not string), preserving 4 digits.
func (q Quantity) MarshalJSON() ([]byte, error) {
	return []byte(q.String()), nil
}

// UnmarshalJSON accepts either a JSON number or string and parses to fixed-point (4 digits).
func (q *Quantity) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*q = 0
		return nil
	}

	if len(data) >= 2 && data[0] == '"' && data[len(data)-1] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		parsed, err := ParseQuantity(s)
		if err != nil {
			return err
		}
		*q = parsed
		return nil
	}

	parsed, err := ParseQuantity(string(data))
	if err != nil {
		return err
	}
	*q = parsed
	return nil
}

// MaxQuantity is the largest magnitude a Quantity may hold. Parsing rejects
// anything beyond it and checked arithmetic saturates at it.
const MaxQuantity = Quantity(maxQuantityUnits*QuantityScale + QuantityScale - 1)

const maxQuantityUnits = (math.MaxInt64 - (QuantityScale - 1)) / QuantityScale

// ParseQuantity parses a decimal string into a fixed-point quantity.
// Digits beyond the 4th fractional place are truncated. Values whose
// magnitude exceeds MaxQuantity are rejected.
func ParseQuantity(s string) (Quantity, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty quantity")
	}

	if strings.ContainsAny(s, "eE") {
		return parseQuantityExp(s)
	}

	sign := int64(1)
	if strings.HasPrefix(s, "-") {
		sign = -1
		s = s[1:]
	} else if strings.HasPrefix(s, "+") {
		s = s[1:]
	}

	intPartStr, fracStr, _ := strings.Cut(s, ".")
	if intPartStr == "" && fracStr == "" {
		return 0, fmt.Errorf("parse quantity %q: no digits", s)
	}
	if !isDigits(intPartStr) || !isDigits(fracStr) {
		return 0, fmt.Errorf("parse quantity %q: invalid syntax", s)
	}

	if intPartStr == "" {
		intPartStr = "0"
	}
	intPart, err := strconv.ParseInt(intPartStr, 10, 64)
	if err != nil || intPart > maxQuantityUnits {
		return 0, fmt.Errorf("parse quantity %q: out of range", s)
	}

	if len(fracStr) > 4 {
		fracStr = fracStr[:4]
	}
	for len(fracStr) < 4 {
		fracStr += "0"
	}
	frac, err := strconv.ParseInt(fracStr, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse quantity fractional part: %w", err)
	}

	return Quantity(sign * (intPart*QuantityScale + frac)), nil
}

// parseQuantityExp handles exponent notation such as "1.5e3".
func parseQuantityExp(s string) (Quantity, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("parse quantity: %w", err)
	}
	// Magnitude is below 10^(digits+exponent); bound it before rescaling so
	// extreme exponents never build huge intermediates.
	magnitude := int64(len(d.Coefficient().String())) + int64(d.Exponent())
	if d.IsNegative() {
		magnitude--
	}
	switch {
	case d.IsZero() || magnitude < -4:
		return 0, nil
	case magnitude > 15:
		return 0, fmt.Errorf("parse quantity %q: out of range", s)
	}
	scaled := d.Shift(4).Truncate(0)
	if scaled.Abs().GreaterThan(decimal.NewFromInt(int64(MaxQuantity))) {
		return 0, fmt.Errorf("parse quantity %q: out of range", s)
	}
	return Quantity(scaled.IntPart()), nil
}

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// CheckedAdd returns q+o. On overflow past MaxQuantity the sum saturates and
// ok is false.
func (q Quantity) CheckedAdd(o Quantity) (sum Quantity, ok bool) {
	switch {
	case o > 0 && q > MaxQuantity-o:
		return MaxQuantity, false
	case o < 0 && q < -MaxQuantity-o:
		return -MaxQuantity, false
	}
	return q + o, true
}

// CheckedSub returns q-o, saturating like CheckedAdd.
func (q Quantity) CheckedSub(o Quantity) (diff Quantity, ok bool) {
	switch {
	case o < 0 && q > MaxQuantity+o:
		return MaxQuantity, false
	case o > 0 && q < -MaxQuantity+o:
		return -MaxQuantity, false
	}
	return q - o, true
}

// MulMoney returns quantity × price, rounded to 2 decimal places.
func MulMoney(q Quantity, price Money) Money {
	return q.Decimal().Mul(price).Round(2)
}
