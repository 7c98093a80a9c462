package traverse

import (
	"errors"
	"fmt"

	"github.com/roach88/babelgo/internal/ast"
)

// ErrorCode categorizes traversal failures.
type ErrorCode string

const (
	// ErrCodeVisitor indicates a visitor handler returned an error or panicked.
	ErrCodeVisitor ErrorCode = "VISITOR_FAILED"

	// ErrCodeRequeueExceeded indicates a node kept being replaced past the limit.
	ErrCodeRequeueExceeded ErrorCode = "REQUEUE_EXCEEDED"

	// ErrCodeInvalidMutation indicates a path operation that the tree cannot hold.
	ErrCodeInvalidMutation ErrorCode = "INVALID_MUTATION"
)

// PluginError reports a failure raised while a plugin's visitor ran.
type PluginError struct {
	Code   ErrorCode
	Plugin string
	Kind   ast.Kind
	Err    error
}

func (e *PluginError) Error() string {
	if e.Kind != "" {
		return fmt.Sprintf("%s: %s (plugin=%s, node=%s)", e.Code, e.Err, e.Plugin, e.Kind)
	}
	return fmt.Sprintf("%s: %s (plugin=%s)", e.Code, e.Err, e.Plugin)
}

func (e *PluginError) Unwrap() error {
	return e.Err
}

// IsRequeueError reports whether err stems from a replacement loop.
func IsRequeueError(err error) bool {
	var pe *PluginError
	if errors.As(err, &pe) {
		return pe.Code == ErrCodeRequeueExceeded
	}
	return false
}

// MutationError reports a path operation that cannot be applied where the
// path sits in the tree.
type MutationError struct {
	Op      string
	Message string
}

func (e *MutationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Message)
}
