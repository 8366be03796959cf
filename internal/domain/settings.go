package domain

// Theme is the UI colour scheme.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// SupportedCurrencies lists the selectable display currencies.
var SupportedCurrencies = []string{"USD", "EUR", "GBP", "INR"}

// Settings are the scalar preferences stored beside the collections.
type Settings struct {
	Currency          string `json:"currency"`
	Theme             Theme  `json:"theme"`
	LowStockThreshold int    `json:"lowStockThreshold"`
}
