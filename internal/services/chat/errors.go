// File: internal/services/chat/errors.go
package chat

import (
	"errors"
	"fmt"
)

type ErrorType string

const (
	ErrTypeUnauthorized ErrorType = "UNAUTHORIZED"
	ErrTypeNotFound     ErrorType = "NOT_FOUND"
	ErrTypeValidation   ErrorType = "VALIDATION"
	ErrTypeQuota        ErrorType = "QUOTA"
	ErrTypeInference    ErrorType = "INFERENCE"
	ErrTypeStorage      ErrorType = "STORAGE"
)

type ChatError struct {
	Type      ErrorType
	Operation string
	Message   string
	ChatID    uint
	UserID    uint
	Cause     error
}

func (e *ChatError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("Chat %s error in %s: %s (caused by: %v)",
			e.Type, e.Operation, e.Message, e.Cause)
	}
	return fmt.Sprintf("Chat %s error in %s: %s", e.Type, e.Operation, e.Message)
}

func (e *ChatError) Unwrap() error { return e.Cause }

func NewValidationError(operation, msg string) *ChatError {
	return &ChatError{Type: ErrTypeValidation, Operation: operation, Message: msg}
}

func NewNotFoundError(operation string, userID, chatID uint) *ChatError {
	return &ChatError{
		Type:      ErrTypeNotFound,
		Operation: operation,
		Message:   "chat not found",
		UserID:    userID,
		ChatID:    chatID,
	}
}

func NewQuotaError(userID uint, limit int) *ChatError {
	return &ChatError{
		Type:      ErrTypeQuota,
		Operation: "create_chat",
		Message:   fmt.Sprintf("chat limit of %d reached", limit),
		UserID:    userID,
	}
}

func NewInferenceError(chatID, userID uint, cause error) *ChatError {
	return &ChatError{
		Type:      ErrTypeInference,
		Operation: "post_message",
		Message:   "the assistant could not answer",
		ChatID:    chatID,
		UserID:    userID,
		Cause:     cause,
	}
}

func NewStorageError(operation string, cause error) *ChatError {
	return &ChatError{Type: ErrTypeStorage, Operation: operation, Message: "storage failure", Cause: cause}
}

// KindOf returns the ErrorType carried by err, or "" if err is not a ChatError.
func KindOf(err error) ErrorType {
	var ce *ChatError
	if errors.As(err, &ce) {
		return ce.Type
	}
	return ""
}

func IsNotFound(err error) bool   { return KindOf(err) == ErrTypeNotFound }
func IsValidation(err error) bool { return KindOf(err) == ErrTypeValidation }
func IsQuota(err error) bool      { return KindOf(err) == ErrTypeQuota }
func IsInference(err error) bool  { return KindOf(err) == ErrTypeInference }
