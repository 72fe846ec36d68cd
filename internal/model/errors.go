package model

import "fmt"

// ValidationError represents invalid caller input. Validation failures are
// deterministic, so callers should not retry them.
type ValidationError struct {
	Field   string
	Value   interface{}
	Rule    string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Value != nil {
		return fmt.Sprintf("validation failed on %s: %s (value=%v, rule=%s)", e.Field, e.Message, e.Value, e.Rule)
	}
	return fmt.Sprintf("validation failed on %s: %s (rule=%s)", e.Field, e.Message, e.Rule)
}

// NewValidationError creates a new validation error
func NewValidationError(field string, value interface{}, rule, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Value:   value,
		Rule:    rule,
		Message: message,
	}
}

// RuleError represents a malformed tax rule in a loaded rule set.
type RuleError struct {
	Index   int
	Field   string
	Message string
}

func (e *RuleError) Error() string {
	return fmt.Sprintf("invalid tax rule at index %d: %s: %s", e.Index, e.Field, e.Message)
}

// NewRuleError creates a new rule error
func NewRuleError(index int, field, message string) *RuleError {
	return &RuleError{
		Index:   index,
		Field:   field,
		Message: message,
	}
}
