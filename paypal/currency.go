package paypal

import "sort"

// supportedCurrencies is the fixed set of currency codes the payment API
// accepts. Membership is case sensitive; "usd" is not "USD".
var supportedCurrencies = map[string]struct{}{
	"AUD": {}, "BRL": {}, "CAD": {}, "CHF": {}, "CNY": {}, "CZK": {},
	"DKK": {}, "EUR": {}, "GBP": {}, "HKD": {}, "HUF": {}, "ILS": {},
	"INR": {}, "JPY": {}, "MXN": {}, "MYR": {}, "NOK": {}, "NZD": {},
	"PHP": {}, "PLN": {}, "RUB": {}, "SEK": {}, "SGD": {}, "THB": {},
	"TWD": {}, "USD": {},
}

// SetCurrency stores code as the currency applied to subsequent requests.
// The code must match one of the supported currency codes exactly.
func (c *Client) SetCurrency(code string) error {
	if _, ok := supportedCurrencies[code]; !ok {
		return errUnsupportedCurrency(code)
	}
	c.currency = code
	return nil
}

// GetCurrency returns the active currency code. It is empty until the
// client has been configured; after a successful SetAPICredentials it is
// never empty since USD is applied as the default.
func (c *Client) GetCurrency() string {
	return c.currency
}

// SupportedCurrencies returns the accepted currency codes in sorted order.
func SupportedCurrencies() []string {
	codes := make([]string, 0, len(supportedCurrencies))
	for code := range supportedCurrencies {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}
