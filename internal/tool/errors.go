package tool

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a failed tool invocation.
type ErrorKind string

const (
	KindValidation   ErrorKind = "validation"
	KindNotFound     ErrorKind = "not_found"
	KindEvaluation   ErrorKind = "evaluation"
	KindUnknownTool  ErrorKind = "unknown_tool"
	KindDenied       ErrorKind = "denied"
	KindCollaborator ErrorKind = "collaborator"
)

// Error is a failure a tool reports on purpose, as opposed to an error
// escaping from a collaborator.
type Error struct {
	Kind    ErrorKind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// Errorf builds an *Error of the given kind.
func Errorf(kind ErrorKind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// ErrValidation builds a validation *Error.
func ErrValidation(message string) *Error {
	return &Error{Kind: KindValidation, Message: message}
}

// failureFromError converts err into a failure envelope. Errors that are not
// a *Error are collaborator failures.
func failureFromError(err error) *Result {
	var te *Error
	if errors.As(err, &te) {
		return Failure(te.Kind, te.Message)
	}
	return Failure(KindCollaborator, "tool execution error: "+err.Error())
}
