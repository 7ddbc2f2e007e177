package strapi

import (
	"bytes"
	"net/http"
	"strings"

	"github.com/goccy/go-json"

	"github.com/devcorner/devcorner-blog/pkg/cms"
	"github.com/devcorner/devcorner-blog/pkg/httpclient"
)

// genericBackendMessage is used when the backend error envelope carries no message.
const genericBackendMessage = "The content could not be retrieved"

type outcomeKind int

const (
	outcomeOK outcomeKind = iota
	outcomeBackendError
	outcomeTransportFailure
)

// outcome is a decoded response: exactly one of data, backend error or failure
// string applies depending on kind. It is built once per response by decode.
type outcome[T any] struct {
	kind    outcomeKind
	status  int
	data    T
	meta    responseMeta
	err     *apiError
	failure string
}

// decode classifies a transport response into an outcome.
func decode[T any](resp httpclient.Response) outcome[T] {
	if resp.Failed() {
		return outcome[T]{kind: outcomeTransportFailure, status: resp.Status, failure: resp.Failure}
	}

	body := bytes.TrimSpace(resp.Body)
	if len(body) > 0 && body[0] == '"' {
		var msg string
		if err := json.Unmarshal(body, &msg); err == nil && strings.TrimSpace(msg) != "" {
			return outcome[T]{kind: outcomeTransportFailure, status: resp.Status, failure: msg}
		}
		return outcome[T]{kind: outcomeTransportFailure, status: resp.Status, failure: httpclient.ServerErrorMessage}
	}
	if len(body) == 0 || body[0] != '{' {
		return outcome[T]{kind: outcomeTransportFailure, status: http.StatusInternalServerError, failure: httpclient.ServerErrorMessage}
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return outcome[T]{kind: outcomeTransportFailure, status: http.StatusInternalServerError, failure: httpclient.ServerErrorMessage}
	}

	apiErr := decodeAPIError(env.Error)
	if isNull(env.Data) || apiErr != nil || resp.Status < 200 || resp.Status > 299 {
		return outcome[T]{kind: outcomeBackendError, status: resp.Status, err: apiErr}
	}

	// Data that is present but oddly shaped still counts as data.
	var data T
	if err := json.Unmarshal(env.Data, &data); err != nil {
		var zero T
		data = zero
	}
	var meta responseMeta
	if !isObject(env.Meta) || json.Unmarshal(env.Meta, &meta) != nil {
		meta = responseMeta{}
	}
	return outcome[T]{kind: outcomeOK, status: resp.Status, data: data, meta: meta}
}

// normalizeError turns a non-OK outcome into a failed result. The HTTP status of
// the exchange is kept, with one exception: a 2xx exchange that carried no data
// reports 404, since a failed result never carries a success status. This is the
// only place a backend status is rewritten; cms.Fail only guards against a 2xx
// reaching it from elsewhere.
func normalizeError[T, D any](o outcome[D]) cms.Result[T] {
	switch o.kind {
	case outcomeTransportFailure:
		return cms.Fail[T](firstNonEmpty(o.failure, httpclient.ServerErrorMessage), o.status)
	case outcomeBackendError:
		msg := genericBackendMessage
		if o.err != nil && strings.TrimSpace(string(o.err.Message)) != "" {
			msg = strings.TrimSpace(string(o.err.Message))
		}
		status := o.status
		if status >= 200 && status <= 299 {
			status = http.StatusNotFound
		}
		return cms.Fail[T](msg, status)
	default:
		return cms.ServerError[T]()
	}
}
