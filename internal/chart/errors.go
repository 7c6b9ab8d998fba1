package chart

import "fmt"

// InvalidInputError reports data a chart cannot be drawn from, such as an
// empty category list or a percentage outside [0,100].
type InvalidInputError struct {
	Kind   Kind
	Reason string
}

func (e *InvalidInputError) Error() string {
	if e.Kind == "" {
		return "invalid chart input: " + e.Reason
	}
	return fmt.Sprintf("invalid %s chart input: %s", e.Kind, e.Reason)
}

// ConfigurationError reports a malformed chart configuration: mismatched
// label and value counts, unknown subset names, unusable dimensions.
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("chart configuration: %s: %s", e.Field, e.Reason)
}

func invalidInput(kind Kind, format string, args ...any) error {
	return &InvalidInputError{Kind: kind, Reason: fmt.Sprintf(format, args...)}
}

func misconfigured(field, format string, args ...any) error {
	return &ConfigurationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}
