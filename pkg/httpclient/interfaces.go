package httpclient

import "context"

// Doer executes a single request against a configured backend.
// *Client implements it; callers depend on Doer so fakes can record calls.
type Doer interface {
	Do(ctx context.Context, req Request) (Response, error)
}

// Request describes one call relative to the client's base URL.
type Request struct {
	Path          string
	Search        string
	Method        string
	Payload       any
	Authorization string
}

// Response is the outcome of a dispatched request. Exactly one of Body or
// Failure is meaningful: Failure is set when no JSON body could be obtained.
type Response struct {
	Status  int
	Body    []byte
	Failure string
}

// Failed reports whether the exchange failed at the transport level.
func (r Response) Failed() bool { return r.Failure != "" }

// Logger defines the logging surface the client relies on.
type Logger interface {
	InfoObj(msg, key string, obj interface{})
	DebugObj(msg, key string, obj interface{})
	WarnObj(msg, key string, obj interface{})
	ErrorObj(msg, key string, obj interface{})
}

type noopLogger struct{}

func (noopLogger) InfoObj(string, string, interface{})  {}
func (noopLogger) DebugObj(string, string, interface{}) {}
func (noopLogger) WarnObj(string, string, interface{})  {}
func (noopLogger) ErrorObj(string, string, interface{}) {}
