package sp

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/fivetwenty-io/sprest/internal/constants"
)

type queryParam struct {
	name  string
	value string
}

// Queryable is a handle to one addressable remote resource: a URL under
// construction plus the transport and optional batch its operations use.
//
// A Queryable is a value and is immutable by convention. Every derivation
// returns a new value, so a Queryable may be shared between goroutines.
type Queryable struct {
	transport Transport
	path      PathBuilder
	query     []queryParam
	batch     *Batch
}

// NewQueryable creates a handle rooted at baseURL with optional path segments.
func NewQueryable(transport Transport, baseURL string, segments ...string) Queryable {
	path := NewPathBuilder(baseURL)
	for _, segment := range segments {
		path = path.Append(segment)
	}

	return Queryable{transport: transport, path: path}
}

// DeriveChild returns a handle for path below q. Query parameters are not
// inherited; transport and batch binding are.
func (q Queryable) DeriveChild(path string) Queryable {
	return Queryable{transport: q.transport, path: q.path.Append(path), batch: q.batch}
}

// Concat returns a handle whose URL is q's URL followed by suffix.
func (q Queryable) Concat(suffix string) Queryable {
	return Queryable{transport: q.transport, path: q.path.Concat(suffix), batch: q.batch}
}

// WithQuery sets a query parameter. Setting an existing name replaces its
// value in place.
func (q Queryable) WithQuery(name, value string) Queryable {
	query := make([]queryParam, len(q.query), len(q.query)+1)
	copy(query, q.query)

	replaced := false

	for i := range query {
		if query[i].name == name {
			query[i].value = value
			replaced = true
		}
	}

	if !replaced {
		query = append(query, queryParam{name: name, value: value})
	}

	q.query = query

	return q
}

// QueryValue returns the value of a query parameter.
func (q Queryable) QueryValue(name string) (string, bool) {
	for _, param := range q.query {
		if param.name == name {
			return param.value, true
		}
	}

	return "", false
}

// Select restricts the returned properties.
func (q Queryable) Select(fields ...string) Queryable {
	if len(fields) == 0 {
		return q
	}

	return q.WithQuery("$select", strings.Join(fields, ","))
}

// Expand requests related entities inline.
func (q Queryable) Expand(fields ...string) Queryable {
	if len(fields) == 0 {
		return q
	}

	return q.WithQuery("$expand", strings.Join(fields, ","))
}

// Filter sets an OData filter expression.
func (q Queryable) Filter(expression string) Queryable {
	return q.WithQuery("$filter", expression)
}

// Top limits the number of returned entries.
func (q Queryable) Top(n int) Queryable {
	return q.WithQuery("$top", strconv.Itoa(n))
}

// OrderBy sorts a collection.
func (q Queryable) OrderBy(field string, ascending bool) Queryable {
	direction := "asc"
	if !ascending {
		direction = "desc"
	}

	if existing, ok := q.QueryValue("$orderby"); ok && existing != "" {
		return q.WithQuery("$orderby", existing+","+field+" "+direction)
	}

	return q.WithQuery("$orderby", field+" "+direction)
}

// InBatch binds the handle to b; operations then enqueue instead of being
// sent. Handles derived from the result inherit the binding. A nil b unbinds.
func (q Queryable) InBatch(b *Batch) Queryable {
	q.batch = b

	return q
}

// Batch returns the bound batch, if any.
func (q Queryable) Batch() *Batch {
	return q.batch
}

// HasBatch reports whether the handle is bound to a batch.
func (q Queryable) HasBatch() bool {
	return q.batch != nil
}

// Transport returns the transport operations are sent with.
func (q Queryable) Transport() Transport {
	return q.transport
}

// Path returns the URL builder of the handle.
func (q Queryable) Path() PathBuilder {
	return q.path
}

// ToURL returns the request URL including query parameters.
func (q Queryable) ToURL() string {
	url := q.path.ToURL()
	if len(q.query) == 0 {
		return url
	}

	pairs := make([]string, 0, len(q.query))
	for _, param := range q.query {
		pairs = append(pairs, param.name+"="+escapeComponent(param.value))
	}

	return url + "?" + strings.Join(pairs, "&")
}

// WebURL returns the URL of the web the handle belongs to. Derived pieces
// never leave the web of the base URL, so only the base is inspected.
func (q Queryable) WebURL() string {
	return extractWebURL(q.path.Base())
}

// Get reads the resource.
func (q Queryable) Get(ctx context.Context) *Pending[*Result] {
	return q.send(ctx, &PendingOperation{Verb: VerbGet, Target: q, Name: OpGet})
}

// unbatched returns q without its batch binding.
func (q Queryable) unbatched() Queryable {
	q.batch = nil

	return q
}

// send dispatches op immediately or enqueues it into the bound batch.
func (q Queryable) send(ctx context.Context, op *PendingOperation) *Pending[*Result] {
	if q.batch != nil {
		pending, err := q.batch.enqueue(op)
		if err != nil {
			return rejectedPending[*Result](err)
		}

		return pending
	}

	return resolvedPending(dispatch(ctx, q.transport, op))
}

// PendingOperation is one request waiting to be sent, alone or in a batch.
type PendingOperation struct {
	Verb    Verb
	Target  Queryable
	Body    interface{}
	Headers map[string]string
	Name    string
}

// request serializes the operation. A []byte body is sent verbatim, any other
// non-nil body is encoded as verbose JSON.
func (op *PendingOperation) request() (*Request, error) {
	headers := make(http.Header)
	headers.Set("Accept", constants.ODataVerbose)

	var body []byte

	switch typed := op.Body.(type) {
	case nil:
	case []byte:
		body = typed
	default:
		encoded, err := json.Marshal(typed)
		if err != nil {
			return nil, fmt.Errorf("encoding %s body: %w", op.Name, err)
		}

		body = encoded

		headers.Set("Content-Type", constants.ODataVerboseUTF8)
	}

	for key, value := range op.Headers {
		headers.Set(key, value)
	}

	return &Request{
		Method:   string(op.Verb),
		URL:      op.Target.ToURL(),
		Headers:  headers,
		Body:     body,
		Metadata: map[string]interface{}{MetadataOperation: op.Name},
	}, nil
}

// dispatch sends op directly. Transport errors are returned as they are.
func dispatch(ctx context.Context, transport Transport, op *PendingOperation) (*Result, error) {
	req, err := op.request()
	if err != nil {
		return nil, err
	}

	resp, err := transport.Do(ctx, req)
	if err != nil {
		return nil, err //nolint:wrapcheck // transport errors reach the caller unchanged
	}

	return newResult(resp.StatusCode, resp.Headers, resp.Body), nil
}

// ResourcePath is the structured path object taken by the *ByPath methods.
type ResourcePath struct {
	DecodedURL string                 `json:"DecodedUrl"`
	Metadata   map[string]interface{} `json:"__metadata,omitempty"`
}

// ToResourcePath wraps url in a typed resource path.
func ToResourcePath(url string) ResourcePath {
	return ResourcePath{
		DecodedURL: url,
		Metadata:   map[string]interface{}{"type": "SP.ResourcePath"},
	}
}

func typedBody(entityType string, props map[string]interface{}) map[string]interface{} {
	body := make(map[string]interface{}, len(props)+1)
	for key, value := range props {
		body[key] = value
	}

	body["__metadata"] = map[string]interface{}{"type": entityType}

	return body
}

func ifMatch(etag string) map[string]string {
	if etag == "" {
		etag = constants.MatchAny
	}

	return map[string]string{constants.HeaderIfMatch: etag}
}
