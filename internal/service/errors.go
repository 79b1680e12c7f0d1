package service

import (
	"fmt"
	"strings"
)

// ErrorKind classifies errors that are the caller's fault
type ErrorKind int

const (
	// KindValidation means the request shape or parameters are invalid
	KindValidation ErrorKind = iota + 1
	// KindNotFound means the addressed product does not exist
	KindNotFound
)

// Error is returned for validation and not-found outcomes.
// Any other error from the service is a storage failure.
type Error struct {
	Kind    ErrorKind
	Message string
	// Issues lists one message per invalid field for KindValidation
	Issues []string
}

func (e *Error) Error() string {
	if len(e.Issues) > 0 {
		return fmt.Sprintf("%s: %s", e.Message, strings.Join(e.Issues, "; "))
	}
	return e.Message
}

// ValidationError builds a KindValidation error from field issues
func ValidationError(issues ...string) *Error {
	return &Error{Kind: KindValidation, Message: "validation failed", Issues: issues}
}

// NotFoundError builds a KindNotFound error naming the product ID
func NotFoundError(id int64) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf("Product %d not found", id)}
}
