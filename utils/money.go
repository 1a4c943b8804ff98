package utils

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// MoneyFormatter renders whole-unit amounts with locale grouping followed by the currency code,
// e.g. "1,600 PLN" for en-US or "1.600 EUR" for de-DE.
type MoneyFormatter struct {
	tag      language.Tag
	printer  *message.Printer
	currency string
}

// NewMoneyFormatter accepts a POSIX locale ("pl_PL.UTF-8") or BCP 47 tag ("pl-PL").
// Empty or unparseable input falls back to en-US.
func NewMoneyFormatter(locale, currency string) *MoneyFormatter {
	if idx := strings.IndexByte(locale, '.'); idx != -1 {
		locale = locale[:idx]
	}
	locale = strings.ReplaceAll(locale, "_", "-")

	tag, _ := language.Parse(locale)
	if tag == language.Und {
		tag = language.AmericanEnglish
	}
	return &MoneyFormatter{tag: tag, printer: message.NewPrinter(tag), currency: strings.ToUpper(currency)}
}

// Tag returns the resolved language tag
func (f *MoneyFormatter) Tag() language.Tag { return f.tag }

// Currency returns the ISO currency code
func (f *MoneyFormatter) Currency() string { return f.currency }

// Format renders an amount with the currency code
func (f *MoneyFormatter) Format(amount int64) string {
	s := f.printer.Sprint(number.Decimal(amount))
	if f.currency == "" {
		return s
	}
	return s + " " + f.currency
}

// FormatNumber renders a number with at most two fraction digits
func (f *MoneyFormatter) FormatNumber(v float64) string {
	if v == float64(int64(v)) {
		return f.printer.Sprint(number.Decimal(int64(v)))
	}
	return f.printer.Sprint(number.Decimal(v, number.MaxFractionDigits(2)))
}

// FormatPercent renders a percentage value such as 23 as "23%"
func (f *MoneyFormatter) FormatPercent(v float64) string {
	return f.FormatNumber(v) + "%"
}
