package cms

import "fmt"

// ConfigError reports a reference to something never declared: an unknown
// collection, an unknown relation field, or a relation target that names no
// collection in this instance.
type ConfigError struct {
	Message string
}

func (e *ConfigError) Error() string { return e.Message }

func configErrorf(format string, args ...any) *ConfigError {
	return &ConfigError{Message: fmt.Sprintf(format, args...)}
}

// RelationError reports a dangling reference found while resolving a
// relation in strict mode.
type RelationError struct {
	Source string
	Field  string
	Target string
	ID     string
}

func (e *RelationError) Error() string {
	return fmt.Sprintf("dangling reference: %s#%s (relation %q on %q)", e.Target, e.ID, e.Field, e.Source)
}

// TransformationError wraps a failure from a user-supplied transform
// function, keeping it distinguishable from loading and validation failures.
type TransformationError struct {
	Message string
	Err     error
}

func (e *TransformationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("transform failed: %s: %v", e.Message, e.Err)
	}
	return fmt.Sprintf("transform failed: %s", e.Message)
}

func (e *TransformationError) Unwrap() error { return e.Err }
