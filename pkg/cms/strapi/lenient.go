package strapi

import (
	"bytes"
	"math"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
)

// The decoders below never return an error. A value of the wrong shape
// falls back to its zero value and leaves the surrounding fields intact.

// text accepts any JSON scalar. Numbers and booleans keep their literal
// spelling; objects, arrays and null decode to "".
type text string

func (t *text) UnmarshalJSON(b []byte) error {
	*t = ""
	b = bytes.TrimSpace(b)
	if len(b) == 0 {
		return nil
	}
	switch b[0] {
	case '"':
		var s string
		if json.Unmarshal(b, &s) == nil {
			*t = text(s)
		}
	case '{', '[', 'n':
	default:
		*t = text(b)
	}
	return nil
}

// number accepts JSON numbers and numeric strings. Fractions are truncated.
type number int

func (n *number) UnmarshalJSON(b []byte) error {
	*n = 0
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if json.Unmarshal(b, &s) != nil {
			return nil
		}
		b = []byte(strings.TrimSpace(s))
	}
	f, err := strconv.ParseFloat(string(b), 64)
	if err != nil || math.IsNaN(f) || math.Abs(f) > math.MaxInt32 {
		return nil
	}
	*n = number(f)
	return nil
}

func (e *entity[T]) UnmarshalJSON(b []byte) error {
	*e = entity[T]{}
	var raw struct {
		ID         number          `json:"id"`
		Attributes json.RawMessage `json:"attributes"`
	}
	if json.Unmarshal(b, &raw) != nil {
		return nil
	}
	e.ID = int(raw.ID)
	if isObject(raw.Attributes) && json.Unmarshal(raw.Attributes, &e.Attributes) != nil {
		var zero T
		e.Attributes = zero
	}
	return nil
}

// A single relation that is not an object is treated as absent.
func (r *relation[T]) UnmarshalJSON(b []byte) error {
	r.Data = nil
	var raw struct {
		Data json.RawMessage `json:"data"`
	}
	if json.Unmarshal(b, &raw) != nil || !isObject(raw.Data) {
		return nil
	}
	var e entity[T]
	_ = json.Unmarshal(raw.Data, &e)
	r.Data = &e
	return nil
}

// A list relation also accepts a lone object; non-object items are dropped.
func (r *relationList[T]) UnmarshalJSON(b []byte) error {
	r.Data = nil
	var raw struct {
		Data json.RawMessage `json:"data"`
	}
	if json.Unmarshal(b, &raw) != nil {
		return nil
	}
	switch firstByte(raw.Data) {
	case '{':
		var e entity[T]
		_ = json.Unmarshal(raw.Data, &e)
		r.Data = []entity[T]{e}
	case '[':
		var items []json.RawMessage
		if json.Unmarshal(raw.Data, &items) != nil {
			return nil
		}
		for _, item := range items {
			if !isObject(item) {
				continue
			}
			var e entity[T]
			_ = json.Unmarshal(item, &e)
			r.Data = append(r.Data, e)
		}
	}
	return nil
}

func (m *mediaFormats) UnmarshalJSON(b []byte) error {
	*m = nil
	var raw map[string]json.RawMessage
	if json.Unmarshal(b, &raw) != nil {
		return nil
	}
	out := make(mediaFormats, len(raw))
	for name, v := range raw {
		var f mediaFormat
		if isObject(v) && json.Unmarshal(v, &f) == nil {
			out[name] = f
		}
	}
	*m = out
	return nil
}

// decodeAPIError returns nil when the envelope has no error. A bare string
// error becomes the message.
func decodeAPIError(raw json.RawMessage) *apiError {
	if isNull(raw) {
		return nil
	}
	var e apiError
	if firstByte(raw) == '"' {
		_ = json.Unmarshal(raw, &e.Message)
		return &e
	}
	if json.Unmarshal(raw, &e) != nil {
		return &apiError{}
	}
	return &e
}

func firstByte(b []byte) byte {
	b = bytes.TrimSpace(b)
	if len(b) == 0 {
		return 0
	}
	return b[0]
}

func isObject(b []byte) bool { return firstByte(b) == '{' }

func isNull(b []byte) bool {
	b = bytes.TrimSpace(b)
	return len(b) == 0 || bytes.Equal(b, []byte("null"))
}
