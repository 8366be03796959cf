package views

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var moneyPrinter = message.NewPrinter(language.English)

// FormatMoney renders amount with the symbol of the ISO currency code,
// falling back to USD for unknown codes.
func FormatMoney(code string, amount decimal.Decimal) string {
	unit, err := currency.ParseISO(code)
	if err != nil {
		unit = currency.USD
	}
	return moneyPrinter.Sprint(currency.Symbol(unit.Amount(amount.Round(2).InexactFloat64())))
}
