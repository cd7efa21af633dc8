// File: internal/services/ai/errors.go
package ai

import (
	"errors"
	"fmt"
)

type ErrorType string

const (
	ErrTypeConfig   ErrorType = "CONFIG"
	ErrTypeNetwork  ErrorType = "NETWORK"
	ErrTypeProvider ErrorType = "PROVIDER"
	ErrTypeModel    ErrorType = "MODEL"
)

// AIError is returned by providers.
type AIError struct {
	Type      ErrorType
	Code      int
	Message   string
	Model     string
	Operation string
	Cause     error
}

func (e *AIError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("AI %s error in %s: %s (caused by: %v)",
			e.Type, e.Operation, e.Message, e.Cause)
	}
	return fmt.Sprintf("AI %s error in %s: %s", e.Type, e.Operation, e.Message)
}

func (e *AIError) Unwrap() error { return e.Cause }

func NewConfigError(msg string) *AIError {
	return &AIError{Type: ErrTypeConfig, Message: msg, Operation: "config"}
}

func NewProviderError(operation, msg string, cause error) *AIError {
	return &AIError{Type: ErrTypeProvider, Operation: operation, Message: msg, Cause: cause}
}

// CauseKind classifies why an inference call failed.
type CauseKind string

const (
	CauseTimeout    CauseKind = "TIMEOUT"
	CauseCanceled   CauseKind = "CANCELED"
	CauseProvider   CauseKind = "PROVIDER"
	CauseEmptyReply CauseKind = "EMPTY_REPLY"
)

// InferenceError is the only error kind the Gateway returns.
type InferenceError struct {
	Kind  CauseKind
	Model string
	Cause error
}

func (e *InferenceError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("inference %s on model %s: %v", e.Kind, e.Model, e.Cause)
	}
	return fmt.Sprintf("inference %s on model %s", e.Kind, e.Model)
}

func (e *InferenceError) Unwrap() error { return e.Cause }

// IsInferenceFailure reports whether err came out of the Gateway.
func IsInferenceFailure(err error) bool {
	var ie *InferenceError
	return errors.As(err, &ie)
}
