package settlement

import (
	"github.com/shopspring/decimal"
)

// TaxRates resolves the tax fraction applied to an invoice for an employer
// jurisdiction
type TaxRates interface {
	RateFor(jurisdiction string) decimal.Decimal
}

// StaticTaxRates looks rates up in a configured table. An unknown or empty
// jurisdiction is taxed at zero; that is a documented approximation for
// jurisdictions not yet configured, not a silent error.
type StaticTaxRates struct {
	rates map[string]decimal.Decimal
}

// NewStaticTaxRates builds the lookup from config fractions
func NewStaticTaxRates(rates map[string]float64) *StaticTaxRates {
	table := make(map[string]decimal.Decimal, len(rates))
	for jurisdiction, rate := range rates {
		table[jurisdiction] = decimal.NewFromFloat(rate)
	}
	return &StaticTaxRates{rates: table}
}

// RateFor returns the configured fraction, or zero when unknown
func (t *StaticTaxRates) RateFor(jurisdiction string) decimal.Decimal {
	if rate, ok := t.rates[jurisdiction]; ok {
		return rate
	}
	return decimal.Zero
}
