package httpclient

import (
	"encoding/json"
	"errors"
	"mime"
	"net/http"
	"strings"
)

// Kind tells which field of a Result carries the body.
type Kind int

const (
	KindText Kind = iota
	KindJSON
)

func (k Kind) String() string {
	if k == KindJSON {
		return "json"
	}
	return "text"
}

// Result is a successful response. The body is exposed as JSON when the
// declared Content-Type is JSON and as text otherwise.
type Result struct {
	Kind       Kind
	JSON       json.RawMessage
	Text       string
	StatusCode int
	Header     http.Header
}

// Decode unmarshals a JSON result into v.
func (r *Result) Decode(v any) error {
	if r.Kind != KindJSON {
		return errors.New("response is not JSON")
	}
	if len(r.JSON) == 0 {
		return errors.New("response body is empty")
	}
	return json.Unmarshal(r.JSON, v)
}

// isJSON reports whether a Content-Type header declares a JSON body.
func isJSON(contentType string) bool {
	if contentType == "" {
		return false
	}
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return strings.Contains(contentType, "application/json")
	}
	return mt == "application/json" || strings.HasSuffix(mt, "+json")
}
