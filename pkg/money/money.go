package money

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"
)

// Amount is a currency amount backed by an exact decimal value.
//
// Its JSON decoding is deliberately forgiving: plain numbers, numeric
// strings and user-formatted strings ("1,234.50", "MVR 500") all parse,
// and anything unparseable coerces to zero instead of failing the whole
// request body.
type Amount struct {
	d decimal.Decimal
}

// Zero returns a zero amount.
func Zero() Amount {
	return Amount{}
}

// FromInt creates an amount from an integer value.
func FromInt(i int64) Amount {
	return Amount{d: decimal.NewFromInt(i)}
}

// FromFloat creates an amount from a float value.
func FromFloat(f float64) Amount {
	return Amount{d: decimal.NewFromFloat(f)}
}

// Parse converts a user-entered string into an amount. Grouping commas
// and currency prefixes are stripped; a string with no usable digits
// yields zero.
func Parse(s string) Amount {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, ",", "")
	neg := strings.HasPrefix(s, "-")

	// Keep digits and the decimal point only.
	var b strings.Builder
	b.Grow(len(s) + 1)
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == '.' {
			b.WriteRune(r)
		}
	}
	clean := b.String()
	if clean == "" {
		return Amount{}
	}
	if neg {
		clean = "-" + clean
	}

	d, err := decimal.NewFromString(clean)
	if err != nil {
		return Amount{}
	}
	return Amount{d: d}
}

func (a Amount) Add(b Amount) Amount {
	return Amount{d: a.d.Add(b.d)}
}

func (a Amount) Sub(b Amount) Amount {
	return Amount{d: a.d.Sub(b.d)}
}

func (a Amount) Mul(b Amount) Amount {
	return Amount{d: a.d.Mul(b.d)}
}

func (a Amount) IsZero() bool {
	return a.d.IsZero()
}

func (a Amount) IsNegative() bool {
	return a.d.IsNegative()
}

func (a Amount) Equal(b Amount) bool {
	return a.d.Equal(b.d)
}

// String returns the bare decimal value, e.g. "1234.5".
func (a Amount) String() string {
	return a.d.String()
}

// StringFixed returns the value rounded to two decimal places.
func (a Amount) StringFixed() string {
	return a.d.StringFixed(2)
}

// Format renders the amount with thousands grouping and two decimal
// places, e.g. "1,234.50".
func (a Amount) Format() string {
	s := a.d.StringFixed(2)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	dot := strings.Index(s, ".")
	intPart, frac := s[:dot], s[dot:]
	for i := len(intPart) - 3; i > 0; i -= 3 {
		intPart = intPart[:i] + "," + intPart[i:]
	}
	if neg {
		intPart = "-" + intPart
	}
	return intPart + frac
}

// MarshalJSON encodes the amount as a bare JSON number.
func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(a.d.String()), nil
}

// UnmarshalJSON accepts numbers, numeric strings and formatted strings.
// Unparseable input becomes zero rather than an error.
func (a *Amount) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*a = Amount{}
		return nil
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			*a = Amount{}
			return nil
		}
		*a = Parse(s)
		return nil
	}

	d, err := decimal.NewFromString(string(data))
	if err != nil {
		*a = Amount{}
		return nil
	}
	*a = Amount{d: d}
	return nil
}

// Value implements driver.Valuer for database storage.
func (a Amount) Value() (driver.Value, error) {
	return a.d.Value()
}

// Scan implements sql.Scanner.
func (a *Amount) Scan(value interface{}) error {
	return a.d.Scan(value)
}
