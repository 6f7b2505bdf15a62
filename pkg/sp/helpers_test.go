package sp_test

import (
	"context"
	"net/http"
	"strings"
	"sync"

	"github.com/fivetwenty-io/sprest/pkg/sp"
)

const siteURL = "https://contoso.example.com/sites/dev"

// fakeTransport records requests and answers them with respond. Non-2xx
// responses are returned together with an *sp.APIError, like the HTTP
// transport does.
type fakeTransport struct {
	mu       sync.Mutex
	requests []*sp.Request
	respond  func(req *sp.Request) *sp.Response
}

func (f *fakeTransport) Do(ctx context.Context, req *sp.Request) (*sp.Response, error) {
	f.mu.Lock()
	f.requests = append(f.requests, req)
	f.mu.Unlock()

	resp := jsonResponse(http.StatusOK, `{"d":{}}`)
	if f.respond != nil {
		resp = f.respond(req)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return resp, sp.ParseAPIError(resp.StatusCode, resp.Body)
	}

	return resp, nil
}

func (f *fakeTransport) calls() []*sp.Request {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]*sp.Request, len(f.requests))
	copy(out, f.requests)

	return out
}

func jsonResponse(status int, body string) *sp.Response {
	headers := make(http.Header)
	headers.Set("Content-Type", "application/json;odata=verbose;charset=utf-8")

	return &sp.Response{StatusCode: status, Headers: headers, Body: []byte(body)}
}

func batchResponse(parts ...string) *sp.Response {
	var b strings.Builder

	for _, part := range parts {
		b.WriteString("--batchresponse_1\r\n")
		b.WriteString(part)
	}

	b.WriteString("--batchresponse_1--\r\n")

	headers := make(http.Header)
	headers.Set("Content-Type", "multipart/mixed; boundary=batchresponse_1")

	return &sp.Response{StatusCode: http.StatusOK, Headers: headers, Body: []byte(b.String())}
}

func httpPart(status, body string) string {
	return "Content-Type: application/http\r\n" +
		"Content-Transfer-Encoding: binary\r\n" +
		"\r\n" +
		"HTTP/1.1 " + status + "\r\n" +
		"Content-Type: application/json;odata=verbose;charset=utf-8\r\n" +
		"\r\n" +
		body + "\r\n"
}

func changesetPart(parts ...string) string {
	var b strings.Builder

	b.WriteString("Content-Type: multipart/mixed; boundary=changesetresponse_1\r\n\r\n")

	for _, part := range parts {
		b.WriteString("--changesetresponse_1\r\n")
		b.WriteString(part)
	}

	b.WriteString("--changesetresponse_1--\r\n")

	return b.String()
}

func newWeb(transport sp.Transport) sp.Web {
	return sp.NewWeb(transport, siteURL)
}
