// Package format renders amounts, dates and billing periods for exports and dashboards.
package format

import (
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const dateLayout = "Jan 02, 2006"

// Formatter renders currency amounts for a single ISO 4217 currency.
type Formatter struct {
	printer *message.Printer
	unit    currency.Unit
}

// NewFormatter builds a Formatter for the given currency code, falling back to USD when the code is unknown.
func NewFormatter(code string) *Formatter {
	unit, err := currency.ParseISO(strings.ToUpper(strings.TrimSpace(code)))
	if err != nil {
		unit = currency.USD
	}
	return &Formatter{
		printer: message.NewPrinter(language.AmericanEnglish),
		unit:    unit,
	}
}

// Currency formats amount with the currency symbol, e.g. "$ 150.00".
func (f *Formatter) Currency(amount float64) string {
	return f.printer.Sprint(currency.Symbol(f.unit.Amount(amount)))
}

// Code returns the ISO code of the configured currency.
func (f *Formatter) Code() string {
	return f.unit.String()
}

// Date formats t as "Mar 05, 2024". A nil time renders as "-".
func Date(t *time.Time) string {
	if t == nil || t.IsZero() {
		return "-"
	}
	return t.Format(dateLayout)
}

// MonthName returns the English month name for 1-12 and an empty string otherwise.
func MonthName(month int) string {
	if month < 1 || month > 12 {
		return ""
	}
	return time.Month(month).String()
}

// PeriodLabel renders a billing period as "March 2024".
func PeriodLabel(month, year int) string {
	name := MonthName(month)
	if name == "" {
		return fmt.Sprintf("%d-%d", year, month)
	}
	return fmt.Sprintf("%s %d", name, year)
}
