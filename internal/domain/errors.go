package domain

import (
	"errors"
	"fmt"
)

// Error types for domain-specific errors
type ErrorType string

const (
	ErrorTypeBadRequest     ErrorType = "bad_request"
	ErrorTypeDocumentFormat ErrorType = "document_format"
	ErrorTypeExtraction     ErrorType = "extraction"
	ErrorTypeNotFound       ErrorType = "not_found"
	ErrorTypeLLM            ErrorType = "llm"
	ErrorTypeConfig         ErrorType = "config"
	ErrorTypeIO             ErrorType = "io"
)

// DomainError represents a domain-specific error with context
type DomainError struct {
	Type    ErrorType
	Message string
	Err     error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewError creates a new domain error
func NewError(errType ErrorType, message string, err error) *DomainError {
	return &DomainError{
		Type:    errType,
		Message: message,
		Err:     err,
	}
}

// Common error constructors
func BadRequestError(message string, err error) *DomainError {
	return NewError(ErrorTypeBadRequest, message, err)
}

func DocumentFormatError(message string, err error) *DomainError {
	return NewError(ErrorTypeDocumentFormat, message, err)
}

func ExtractionError(message string, err error) *DomainError {
	return NewError(ErrorTypeExtraction, message, err)
}

func NotFoundError(message string, err error) *DomainError {
	return NewError(ErrorTypeNotFound, message, err)
}

func LLMError(message string, err error) *DomainError {
	return NewError(ErrorTypeLLM, message, err)
}

func ConfigError(message string, err error) *DomainError {
	return NewError(ErrorTypeConfig, message, err)
}

func IOError(message string, err error) *DomainError {
	return NewError(ErrorTypeIO, message, err)
}

// ErrorTypeOf returns the type of the outermost DomainError in err's chain,
// or "" when err carries none.
func ErrorTypeOf(err error) ErrorType {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Type
	}
	return ""
}

// IsType reports whether err's chain contains a DomainError of type t.
func IsType(err error, t ErrorType) bool {
	for err != nil {
		var de *DomainError
		if !errors.As(err, &de) {
			return false
		}
		if de.Type == t {
			return true
		}
		err = de.Err
	}
	return false
}

// UserMessage returns the message of the outermost DomainError, falling back
// to err.Error() for foreign errors.
func UserMessage(err error) string {
	var de *DomainError
	if errors.As(err, &de) {
		if de.Err != nil && de.Type == ErrorTypeLLM {
			return fmt.Sprintf("%s: %v", de.Message, de.Err)
		}
		return de.Message
	}
	return err.Error()
}
