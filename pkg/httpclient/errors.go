package httpclient

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMethodNotAllowed is the sentinel wrapped by MethodNotAllowedError.
var ErrMethodNotAllowed = errors.New("method not allowed")

// MethodNotAllowedError signals a client used with a verb it was not configured for.
// It is a configuration error: no request is dispatched when it is returned.
type MethodNotAllowedError struct {
	Service string
	Method  string
	Allowed []string
}

func (e *MethodNotAllowedError) Error() string {
	return fmt.Sprintf("%s: method %s not allowed, the %s only accepts the following methods: %s",
		e.Service, e.Method, e.Service, strings.Join(e.Allowed, ", "))
}

func (e *MethodNotAllowedError) Unwrap() error { return ErrMethodNotAllowed }
