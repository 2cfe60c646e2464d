package errors

import (
	stderrors "errors"
	"fmt"
)

// Kind classifies a pipeline failure. Every error produced by this module
// carries exactly one kind so callers can branch on failure class without
// string matching.
type Kind int

const (
	KindParse Kind = iota + 1
	KindVerify
	KindRange
	KindNoTarget
	KindUnsupportedArtifact
	KindLink
	KindDestroyed
)

func (k Kind) String() string {
	switch k {
	case KindParse:
		return "parse"
	case KindVerify:
		return "verify"
	case KindRange:
		return "range"
	case KindNoTarget:
		return "no-target"
	case KindUnsupportedArtifact:
		return "unsupported-artifact"
	case KindLink:
		return "link"
	case KindDestroyed:
		return "destroyed"
	default:
		return "unknown"
	}
}

// PipelineError is a structured error with a stable code and kind.
type PipelineError struct {
	Kind    Kind
	Code    string // Error code like E0100
	Message string // Primary error message
	Err     error  // Underlying cause, if any
}

func (e *PipelineError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *PipelineError) Unwrap() error {
	return e.Err
}

// New creates a PipelineError with a formatted message.
func New(kind Kind, code, format string, args ...interface{}) *PipelineError {
	return &PipelineError{
		Kind:    kind,
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a PipelineError around an underlying cause.
func Wrap(kind Kind, code string, err error, format string, args ...interface{}) *PipelineError {
	return &PipelineError{
		Kind:    kind,
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Err:     err,
	}
}

// IsKind reports whether err (or anything it wraps) is a PipelineError of
// the given kind.
func IsKind(err error, kind Kind) bool {
	var pe *PipelineError
	if stderrors.As(err, &pe) {
		return pe.Kind == kind
	}
	return false
}
