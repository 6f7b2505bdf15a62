package sp

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/fivetwenty-io/sprest/internal/constants"
)

const crlf = "\r\n"

func batchHeaders(boundary string) http.Header {
	headers := make(http.Header)
	headers.Set("Accept", constants.ODataVerbose)
	headers.Set("Content-Type", constants.ContentTypeMultipartMixed+"; boundary="+boundary)

	return headers
}

// encodeBatch writes reqs as a multipart/mixed $batch body. Reads are written
// directly under the batch boundary, every write in its own changeset. PATCH
// and DELETE are tunnelled through POST with X-HTTP-Method.
func encodeBatch(boundary string, reqs []*Request) []byte {
	var buf bytes.Buffer

	for _, req := range reqs {
		buf.WriteString("--" + boundary + crlf)

		if Verb(req.Method) == VerbGet {
			writeHTTPPart(&buf, req)

			continue
		}

		changeset := "changeset_" + uuid.NewString()

		buf.WriteString("Content-Type: " + constants.ContentTypeMultipartMixed + "; boundary=\"" + changeset + "\"" + crlf)
		buf.WriteString(crlf)
		buf.WriteString("--" + changeset + crlf)
		writeHTTPPart(&buf, tunnel(req))
		buf.WriteString("--" + changeset + "--" + crlf)
	}

	buf.WriteString("--" + boundary + "--" + crlf)

	return buf.Bytes()
}

func tunnel(req *Request) *Request {
	switch Verb(req.Method) {
	case VerbPatch:
		req.Headers.Set("X-HTTP-Method", "MERGE")
		req.Method = string(VerbPost)
	case VerbDelete:
		req.Headers.Set("X-HTTP-Method", "DELETE")
		req.Method = string(VerbPost)
	case VerbGet, VerbPost:
	}

	return req
}

func writeHTTPPart(buf *bytes.Buffer, req *Request) {
	buf.WriteString("Content-Type: " + constants.ContentTypeHTTP + crlf)
	buf.WriteString("Content-Transfer-Encoding: binary" + crlf)
	buf.WriteString(crlf)
	buf.WriteString(req.Method + " " + req.URL + " HTTP/1.1" + crlf)

	keys := make([]string, 0, len(req.Headers))
	for key := range req.Headers {
		keys = append(keys, key)
	}

	sort.Strings(keys)

	for _, key := range keys {
		for _, value := range req.Headers[key] {
			buf.WriteString(key + ": " + value + crlf)
		}
	}

	buf.WriteString(crlf)

	if len(req.Body) > 0 {
		buf.Write(req.Body)
		buf.WriteString(crlf)
	}
}

// decodeBatch splits a $batch response into its sub-responses in order.
// Changeset parts are flattened.
func decodeBatch(contentType string, body []byte) ([]*Response, error) {
	boundary := boundaryFrom(contentType, body)
	if boundary == "" {
		return nil, fmt.Errorf("%w: no multipart boundary", ErrMalformedBatchResponse)
	}

	return readParts(bytes.NewReader(body), boundary)
}

func boundaryFrom(contentType string, body []byte) string {
	if _, params, err := mime.ParseMediaType(contentType); err == nil && params["boundary"] != "" {
		return params["boundary"]
	}

	line, _, _ := strings.Cut(strings.TrimLeft(string(body), crlf), "\n")
	line = strings.TrimSpace(line)

	if strings.HasPrefix(line, "--") {
		return strings.TrimPrefix(line, "--")
	}

	return ""
}

func readParts(r io.Reader, boundary string) ([]*Response, error) {
	reader := multipart.NewReader(r, boundary)

	var responses []*Response

	for {
		part, err := reader.NextPart()
		if errors.Is(err, io.EOF) {
			return responses, nil
		}

		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrMalformedBatchResponse, err)
		}

		mediaType, params, _ := mime.ParseMediaType(part.Header.Get("Content-Type"))

		if strings.HasPrefix(mediaType, "multipart/") {
			nested, err := readParts(part, params["boundary"])
			if err != nil {
				return nil, err
			}

			responses = append(responses, nested...)

			continue
		}

		resp, err := readHTTPPart(part)
		if err != nil {
			return nil, err
		}

		responses = append(responses, resp)
	}
}

func readHTTPPart(part io.Reader) (*Response, error) {
	httpResp, err := http.ReadResponse(bufio.NewReader(part), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedBatchResponse, err)
	}
	defer httpResp.Body.Close()

	body, err := io.ReadAll(httpResp.Body)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) {
		return nil, fmt.Errorf("%w: %w", ErrMalformedBatchResponse, err)
	}

	return &Response{
		StatusCode: httpResp.StatusCode,
		Headers:    httpResp.Header,
		Body:       body,
	}, nil
}
