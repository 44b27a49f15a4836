package paypal

import "strings"

// ConfigField describes one field of a per-mode credential block.
type ConfigField struct {
	Key         string
	Required    bool
	Description string
	Example     string
}

// RequiredCredentialFields returns the fields expected inside the
// credential block for the given mode. Callers can use it to render
// configuration forms or to explain a validation failure.
func RequiredCredentialFields(mode string) []ConfigField {
	return []ConfigField{
		{
			Key:         "client_id",
			Required:    true,
			Description: "REST application client ID for the " + mode + " environment",
			Example:     "AYSq3RDGsmBLJE-otTkBtM-jBRd1TCQwFf9RGfwddNXWz0uFU9ztymylOhRS",
		},
		{
			Key:         "client_secret",
			Required:    true,
			Description: "REST application secret for the " + mode + " environment",
			Example:     "EGnHDxD_qRPdaLdZz8iCr8N7_MzF-YHPTkjs6NKYqvQSBngp4PTTVWkPZRbL",
		},
		{
			Key:         "app_id",
			Required:    false,
			Description: "Application ID issued for live accounts",
			Example:     "APP-80W284485P519543T",
		},
	}
}

// validateCredentialBlock checks block against the field definitions and
// reports the first missing or empty required field.
func validateCredentialBlock(block map[string]string, fields []ConfigField) error {
	for _, field := range fields {
		if !field.Required {
			continue
		}
		if strings.TrimSpace(block[field.Key]) == "" {
			return errMissingField(field.Key)
		}
	}
	return nil
}
