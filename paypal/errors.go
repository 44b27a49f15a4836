package paypal

import "fmt"

// ConfigurationError reports a violation of the credential configuration
// rules. Field names the offending key when one is identifiable.
type ConfigurationError struct {
	Field   string
	Message string
}

func (e *ConfigurationError) Error() string {
	return "paypal: " + e.Message
}

func errInvalidConfig() *ConfigurationError {
	return &ConfigurationError{Message: "invalid configuration provided"}
}

func errMissingField(field string) *ConfigurationError {
	return &ConfigurationError{
		Field:   field,
		Message: fmt.Sprintf("%s missing from the provided configuration", field),
	}
}

func errMissingCredentials(mode string) *ConfigurationError {
	return &ConfigurationError{
		Field:   mode,
		Message: fmt.Sprintf("%s credentials missing from the provided configuration", mode),
	}
}

func errUnsupportedCurrency(code string) *ConfigurationError {
	return &ConfigurationError{
		Field:   "currency",
		Message: fmt.Sprintf("currency %s is not supported", code),
	}
}

func errHeaderNotSet(key string) *ConfigurationError {
	return &ConfigurationError{
		Field:   key,
		Message: fmt.Sprintf("options header %s is not set", key),
	}
}
