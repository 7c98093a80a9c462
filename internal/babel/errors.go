package babel

import (
	"errors"
	"fmt"
)

// RefKind says whether a configuration entry names a preset or a plugin.
type RefKind string

const (
	KindPreset RefKind = "preset"
	KindPlugin RefKind = "plugin"
)

// ResolveError reports a preset or plugin name that is neither builtin nor
// registered. The message matches Babel's so existing patterns keep working.
type ResolveError struct {
	Kind RefKind
	Name string
}

func (e *ResolveError) Error() string {
	return fmt.Sprintf("Invalid %s specified in Babel options: \"%s\"", e.Kind, e.Name)
}

// IsResolveError reports whether err stems from an unresolvable name.
func IsResolveError(err error) bool {
	var re *ResolveError
	return errors.As(err, &re)
}

// OptionError reports a malformed option value.
type OptionError struct {
	// Field locates the value, e.g. "plugins[1]".
	Field   string
	Message string
	Err     error
}

func (e *OptionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid option %s: %s: %v", e.Field, e.Message, e.Err)
	}
	return fmt.Sprintf("invalid option %s: %s", e.Field, e.Message)
}

func (e *OptionError) Unwrap() error {
	return e.Err
}
