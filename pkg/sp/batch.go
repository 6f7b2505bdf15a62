package sp

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"

	"github.com/fivetwenty-io/sprest/internal/constants"
)

type batchEntry struct {
	op      *PendingOperation
	pending *Pending[*Result]
	req     *Request
}

// Batch groups operations into a single $batch request.
//
// A Batch is owned by one flow: operations are enqueued by handles bound
// with InBatch and Execute is called once by that same owner. The queue is
// guarded by a mutex, but concurrent Execute calls from several owners are
// not a supported use.
type Batch struct {
	transport Transport
	webURL    string
	boundary  string

	mu       sync.Mutex
	entries  []batchEntry
	executed bool
	failures *multierror.Error
}

// NewBatch creates an empty batch posting to the $batch endpoint of webURL.
func NewBatch(transport Transport, webURL string) *Batch {
	return &Batch{
		transport: transport,
		webURL:    extractWebURL(webURL),
		boundary:  "batch_" + uuid.NewString(),
	}
}

// Len returns the number of queued operations.
func (b *Batch) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()

	return len(b.entries)
}

// Executed reports whether Execute has been called.
func (b *Batch) Executed() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.executed
}

// Failures returns the errors of the operations that failed, nil when every
// operation succeeded or the batch has not run.
func (b *Batch) Failures() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.failures.ErrorOrNil()
}

func (b *Batch) enqueue(op *PendingOperation) (*Pending[*Result], error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.executed {
		return nil, fmt.Errorf("%w: cannot enqueue %s", ErrBatchClosed, op.Name)
	}

	pending := newPending[*Result]()
	b.entries = append(b.entries, batchEntry{op: op, pending: pending})

	return pending, nil
}

// Execute sends every queued operation as one request and resolves their
// futures in enqueue order. A failed sub-operation rejects only its own
// future, including one whose request cannot be encoded. Transport failures
// and malformed responses reject every sent future and are returned.
func (b *Batch) Execute(ctx context.Context) error {
	b.mu.Lock()
	if b.executed {
		b.mu.Unlock()

		return ErrBatchAlreadyExecuted
	}

	b.executed = true
	entries := b.entries
	b.mu.Unlock()

	if len(entries) == 0 {
		return nil
	}

	sent, failures := prepareEntries(entries)
	if len(sent) == 0 {
		b.setFailures(failures)

		return nil
	}

	responses, err := b.send(ctx, sent)
	if err != nil {
		b.rejectAll(failures, sent, err)

		return err
	}

	if len(responses) != len(sent) {
		err = fmt.Errorf("%w: sent %d operations, received %d responses",
			ErrBatchProtocolViolation, len(sent), len(responses))
		b.rejectAll(failures, sent, err)

		return err
	}

	for i, entry := range sent {
		resp := responses[i]

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			apiErr := ParseAPIError(resp.StatusCode, resp.Body)
			failures = multierror.Append(failures, fmt.Errorf("%s: %w", entry.op.Name, apiErr))
			entry.pending.resolve(nil, apiErr)

			continue
		}

		entry.pending.resolve(newResult(resp.StatusCode, resp.Headers, resp.Body), nil)
	}

	b.setFailures(failures)

	return nil
}

// prepareEntries builds the request of every entry. Entries that cannot be
// encoded are rejected on their own and left out of the batch.
func prepareEntries(entries []batchEntry) ([]batchEntry, *multierror.Error) {
	var failures *multierror.Error

	sent := make([]batchEntry, 0, len(entries))

	for _, entry := range entries {
		req, err := entry.op.request()
		if err != nil {
			failures = multierror.Append(failures, err)
			entry.pending.resolve(nil, err)

			continue
		}

		entry.req = req
		sent = append(sent, entry)
	}

	return sent, failures
}

func (b *Batch) send(ctx context.Context, entries []batchEntry) ([]*Response, error) {
	parts := make([]*Request, len(entries))
	for i, entry := range entries {
		parts[i] = entry.req
	}

	req := &Request{
		Method:  string(VerbPost),
		URL:     combineURL(b.webURL, constants.BatchEndpoint),
		Headers: batchHeaders(b.boundary),
		Body:    encodeBatch(b.boundary, parts),
		Metadata: map[string]interface{}{
			MetadataOperation: OpBatch,
			MetadataBatchSize: len(entries),
		},
	}

	resp, err := b.transport.Do(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("sending batch: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, ParseAPIError(resp.StatusCode, resp.Body)
	}

	responses, err := decodeBatch(resp.Headers.Get("Content-Type"), resp.Body)
	if err != nil {
		return nil, err
	}

	return responses, nil
}

func (b *Batch) rejectAll(failures *multierror.Error, entries []batchEntry, err error) {
	for _, entry := range entries {
		failures = multierror.Append(failures, fmt.Errorf("%s: %w", entry.op.Name, err))
		entry.pending.resolve(nil, err)
	}

	b.setFailures(failures)
}

func (b *Batch) setFailures(failures *multierror.Error) {
	b.mu.Lock()
	b.failures = failures
	b.mu.Unlock()
}
