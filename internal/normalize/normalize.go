// Package normalize coerces raw extracted strings into typed values.
// Failures are soft: callers null the affected field and keep the line.
package normalize

import (
	"strconv"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/text/currency"
)

// Error marks a value that could not be coerced to its expected type.
// The affected field is set to nil and the line item proceeds.
type Error struct {
	Field string
	Value string
	Cause error
}

func (e *Error) Error() string {
	return "normalize: " + e.Field + ": cannot parse " + strconv.Quote(e.Value)
}

func (e *Error) Unwrap() error { return e.Cause }

// Config holds normalization behavior. It is passed explicitly at call
// time; there is no shared mutable normalizer state.
type Config struct {
	// ExtraDateLayouts are tried after the built-in layouts.
	ExtraDateLayouts []string `yaml:"extra_date_layouts" mapstructure:"extra_date_layouts"`
	// CurrencySymbols are stripped from monetary strings before parsing.
	// Empty means the default set.
	CurrencySymbols []string `yaml:"currency_symbols" mapstructure:"currency_symbols"`
}

var defaultDateLayouts = []string{
	"2006-01-02",
	"01/02/2006",
	"02/01/2006",
	"2006/01/02",
	"Jan 2, 2006",
	"January 2, 2006",
	"2 Jan 2006",
}

var defaultCurrencySymbols = []string{"$", "€", "£", "¥", "US$", "USD", "EUR", "GBP"}

// Date parses a date string at calendar-day precision in UTC.
func Date(cfg Config, s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	layouts := append(append([]string{}, defaultDateLayouts...), cfg.ExtraDateLayouts...)
	for _, layout := range layouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
			return &day, nil
		}
	}
	return nil, &Error{Field: "date", Value: s, Cause: eris.New("no layout matched")}
}

// Money parses a monetary amount, stripping currency symbols and
// thousands separators.
func Money(cfg Config, s string) (*float64, error) {
	raw := s
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	symbols := cfg.CurrencySymbols
	if len(symbols) == 0 {
		symbols = defaultCurrencySymbols
	}
	for _, sym := range symbols {
		s = strings.ReplaceAll(s, sym, "")
	}
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimSpace(s)

	neg := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		neg = true
		s = strings.TrimSuffix(strings.TrimPrefix(s, "("), ")")
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, &Error{Field: "money", Value: raw, Cause: err}
	}
	if neg {
		v = -v
	}
	return &v, nil
}

// Quantity parses a quantity, tolerating thousands separators and a
// trailing unit word ("10 each", "2,500 pcs").
func Quantity(cfg Config, s string) (*float64, error) {
	raw := s
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	if fields := strings.Fields(s); len(fields) > 1 {
		s = fields[0]
	}
	s = strings.ReplaceAll(s, ",", "")

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, &Error{Field: "quantity", Value: raw, Cause: err}
	}
	return &v, nil
}

// Currency validates and canonicalizes an ISO 4217 currency code.
func Currency(s string) (string, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "" {
		return "", nil
	}
	unit, err := currency.ParseISO(s)
	if err != nil {
		return "", &Error{Field: "currency", Value: s, Cause: err}
	}
	return unit.String(), nil
}
