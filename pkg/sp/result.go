package sp

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/mitchellh/mapstructure"
)

// Result is the decoded payload of one operation. It is never mutated after
// construction.
type Result struct {
	StatusCode int
	Headers    http.Header
	// Data holds the payload when it is a JSON object.
	Data map[string]interface{}
	// Items holds the payload when it is a collection.
	Items []map[string]interface{}
	// Value holds a scalar payload.
	Value interface{}
	// Raw is the undecoded body.
	Raw []byte
}

// newResult decodes body following the OData JSON conventions: a verbose
// {"d": ...} wrapper and a "results" or "value" collection are unwrapped.
// Bodies that are not JSON are kept in Raw only.
func newResult(statusCode int, headers http.Header, body []byte) *Result {
	result := &Result{StatusCode: statusCode, Headers: headers, Raw: body}

	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return result
	}

	decoder := json.NewDecoder(bytes.NewReader(trimmed))
	decoder.UseNumber()

	var payload interface{}
	if err := decoder.Decode(&payload); err != nil {
		return result
	}

	payload = unwrapOData(payload)

	switch typed := payload.(type) {
	case map[string]interface{}:
		result.Data = typed
	case []interface{}:
		result.Items = make([]map[string]interface{}, 0, len(typed))

		for _, entry := range typed {
			if object, ok := entry.(map[string]interface{}); ok {
				result.Items = append(result.Items, object)
			}
		}
	default:
		result.Value = typed
	}

	return result
}

func unwrapOData(payload interface{}) interface{} {
	object, ok := payload.(map[string]interface{})
	if !ok {
		return payload
	}

	if inner, ok := object["d"]; ok {
		if innerObject, ok := inner.(map[string]interface{}); ok {
			if results, ok := innerObject["results"]; ok {
				return results
			}
		}

		return inner
	}

	if value, ok := object["value"]; ok && len(object) <= 2 {
		if _, hasContext := object["odata.metadata"]; hasContext || len(object) == 1 {
			return value
		}
	}

	return payload
}

// Text returns the raw body as a string.
func (r *Result) Text() string {
	return string(r.Raw)
}

// String returns the named property as a string, or the scalar payload when
// name is empty.
func (r *Result) String(name string) string {
	var value interface{}

	switch {
	case name == "":
		value = r.Value
	case r.Data != nil:
		value = r.Data[name]
	}

	if value == nil {
		return ""
	}

	return fmt.Sprint(value)
}

// ETag returns the entity tag from the payload metadata or the response header.
func (r *Result) ETag() string {
	if metadata, ok := r.Data["__metadata"].(map[string]interface{}); ok {
		if etag, ok := metadata["etag"].(string); ok {
			return etag
		}
	}

	if etag, ok := r.Data["odata.etag"].(string); ok {
		return etag
	}

	if r.Headers != nil {
		return r.Headers.Get("ETag")
	}

	return ""
}

// Decode maps the payload onto target using its json tags. A collection
// payload decodes into a slice target.
func (r *Result) Decode(target interface{}) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		WeaklyTypedInput: true,
		Result:           target,
	})
	if err != nil {
		return fmt.Errorf("creating decoder: %w", err)
	}

	var input interface{} = r.Data
	if r.Items != nil {
		input = r.Items
	}

	err = decoder.Decode(input)
	if err != nil {
		return fmt.Errorf("decoding result: %w", err)
	}

	return nil
}

// ODataURL returns the canonical URL of the entity described by the payload.
func (r *Result) ODataURL() (string, error) {
	return ODataURLFrom(r.Data)
}

// ODataURLFrom extracts the canonical entity URL from an OData payload.
func ODataURLFrom(data map[string]interface{}) (string, error) {
	if metadata, ok := data["__metadata"].(map[string]interface{}); ok {
		if uri, ok := metadata["uri"].(string); ok && uri != "" {
			return uri, nil
		}
	}

	for _, key := range []string{"odata.editLink", "odata.id"} {
		link, ok := data[key].(string)
		if !ok || link == "" {
			continue
		}

		if key == "odata.editLink" && !IsURLAbsolute(link) {
			if id, ok := data["odata.id"].(string); ok && IsURLAbsolute(id) {
				return combineURL(extractWebURL(id), "_api", link), nil
			}

			continue
		}

		return link, nil
	}

	return "", ErrNoODataURL
}

// scalarResult returns the single string a function import responded with.
func scalarResult(result *Result, name string) (string, error) {
	if result.Value != nil {
		return fmt.Sprint(result.Value), nil
	}

	if value := result.String(name); value != "" {
		return value, nil
	}

	if len(result.Raw) == 0 {
		return "", nil
	}

	return "", fmt.Errorf("%w: expected a %s value, got %s", ErrUnexpectedResult, name, strings.TrimSpace(string(result.Raw)))
}
