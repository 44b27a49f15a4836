// Package paypal implements the configuration and credential layer for the
// PayPal REST API: it validates merchant-supplied settings, normalizes the
// derived fields (mode, currency, request headers) and builds an HTTP
// transport that applies them to outbound requests.
//
// # Basic Usage
//
// Configure a client from an explicit mapping:
//
//	client := paypal.New()
//	err := client.SetAPICredentials(map[string]any{
//	    "mode": "sandbox",
//	    "sandbox": map[string]string{
//	        "client_id":     "your-client-id",
//	        "client_secret": "your-client-secret",
//	    },
//	    "currency":       "EUR",
//	    "locale":         "en_US",
//	    "payment_action": "Sale",
//	    "validate_ssl":   true,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Or let a configuration source supply the mapping:
//
//	client, err := paypal.NewFromSource(config.NewEnvSource())
//
// # Modes
//
// The mode key selects the environment and its credential block. A missing
// or empty mode fails validation; any value other than "sandbox" or "live"
// silently degrades to "live", and the credential lookup then happens under
// that resolved mode. The credential block must carry non-empty client_id
// and client_secret values; any extra keys pass through untouched and are
// readable from GetConfiguration.
//
// # Currencies
//
// The currency defaults to USD and must be one of the codes returned by
// SupportedCurrencies. Matching is exact and case sensitive.
//
// # Request Headers
//
// Headers live in an upsert map where the last write for a name wins. A
// successful SetAPICredentials always sets Accept-Language from the
// configured locale. Header mutations after configuration are applied to
// subsequent requests sent through the transport:
//
//	client.SetRequestHeader("PayPal-Partner-Attribution-Id", "my-bn-code").
//	    SetAccessToken("Bearer", token)
//
// # Errors
//
// Every validation failure is a *ConfigurationError carrying the violated
// rule and, when identifiable, the offending field:
//
//	var cfgErr *paypal.ConfigurationError
//	if errors.As(err, &cfgErr) {
//	    log.Printf("rejected field %q: %v", cfgErr.Field, cfgErr)
//	}
//
// # Thread Safety
//
// A Client belongs to the goroutine that configured it. Mutating headers or
// pagination fields concurrently requires external synchronization; the
// built HTTPClient itself is safe for concurrent sends.
package paypal
