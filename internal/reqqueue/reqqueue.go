// Package reqqueue implements the bidirectional request correlation
// tables described in §3/§4.4/§9: incoming(id -> CancellationTokenSource)
// for requests the client sent us, and outgoing(id -> response sink) for
// requests we sent the client. Grounded on the teacher's middleware
// wrapper (lsp/middleware.go), which establishes the per-request
// panic-recovery/response-once convention this package's cancellation
// token plumbing slots into.
package reqqueue

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/cockroachdb/errors"
)

// CancellationToken is a cheap, clone-on-register read handle on a
// cancellation flag (§9: "a shared flag with a clone-on-register
// pattern; handlers check via a cheap atomic load").
type CancellationToken struct {
	flag *atomic.Bool
}

// IsCancelled reports whether the owning request has been cancelled.
func (t CancellationToken) IsCancelled() bool {
	if t.flag == nil {
		return false
	}
	return t.flag.Load()
}

// CancellationTokenSource owns a cancellation flag; Token() produces
// clones for handlers to poll.
type CancellationTokenSource struct {
	flag atomic.Bool
}

// NewCancellationTokenSource creates a fresh, uncancelled source.
func NewCancellationTokenSource() *CancellationTokenSource {
	return &CancellationTokenSource{}
}

// Token returns a clone of the source's cancellation flag.
func (s *CancellationTokenSource) Token() CancellationToken {
	return CancellationToken{flag: &s.flag}
}

// Cancel flips the flag; every clone observes it on its next poll.
func (s *CancellationTokenSource) Cancel() {
	s.flag.Store(true)
}

// RequestID identifies an in-flight JSON-RPC request by its (possibly
// string or numeric) id, stored as the string the wire layer already
// normalizes it to.
type RequestID = string

// Queue is the dispatcher's correlation state (§3 ReqQueue). A single
// mutex guards both tables; critical sections are O(1) map operations
// (§5: "ReqQueue: single mutex; critical sections are O(1)").
type Queue struct {
	mu       sync.Mutex
	incoming map[RequestID]*CancellationTokenSource
	outgoing map[RequestID]chan outgoingResult
}

type outgoingResult struct {
	result interface{}
	err    error
}

// New creates an empty request queue.
func New() *Queue {
	return &Queue{
		incoming: make(map[RequestID]*CancellationTokenSource),
		outgoing: make(map[RequestID]chan outgoingResult),
	}
}

// RegisterIncoming creates and tracks a CancellationTokenSource for an
// incoming request id, to be dropped once the request completes.
func (q *Queue) RegisterIncoming(id RequestID) *CancellationTokenSource {
	src := NewCancellationTokenSource()
	q.mu.Lock()
	q.incoming[id] = src
	q.mu.Unlock()
	return src
}

// Cancel marks an incoming request's token cancelled, per $/cancelRequest.
// A cancel for an unknown (already-completed) id is a silent no-op.
func (q *Queue) Cancel(id RequestID) {
	q.mu.Lock()
	src, ok := q.incoming[id]
	q.mu.Unlock()
	if ok {
		src.Cancel()
	}
}

// CompleteIncoming drops the tracked cancellation source for id; called
// once the dispatcher has sent exactly one response for the request.
func (q *Queue) CompleteIncoming(id RequestID) {
	q.mu.Lock()
	delete(q.incoming, id)
	q.mu.Unlock()
}

// RegisterOutgoing tracks a one-shot result channel for a server-initiated
// request. Resolve or Fail must eventually be called for every registered
// id (§3 invariant).
func (q *Queue) RegisterOutgoing(id RequestID) {
	q.mu.Lock()
	q.outgoing[id] = make(chan outgoingResult, 1)
	q.mu.Unlock()
}

// Resolve forwards a successful response to the waiting sink.
func (q *Queue) Resolve(id RequestID, result interface{}) {
	q.deliver(id, outgoingResult{result: result})
}

// Fail forwards an error response to the waiting sink.
func (q *Queue) Fail(id RequestID, err error) {
	q.deliver(id, outgoingResult{err: err})
}

func (q *Queue) deliver(id RequestID, res outgoingResult) {
	q.mu.Lock()
	ch, ok := q.outgoing[id]
	if ok {
		delete(q.outgoing, id)
	}
	q.mu.Unlock()
	if ok {
		ch <- res
	}
}

// Await blocks until id's outgoing request resolves, fails, or timeout
// elapses, whichever comes first (§5: "on expiry the outgoing entry is
// completed with a timeout error").
func (q *Queue) Await(id RequestID, timeout time.Duration) (interface{}, error) {
	q.mu.Lock()
	ch, ok := q.outgoing[id]
	q.mu.Unlock()
	if !ok {
		return nil, errors.Newf("reqqueue: no outgoing request registered for id %q", id)
	}

	var timer *time.Timer
	var timeoutCh <-chan time.Time
	if timeout > 0 {
		timer = time.NewTimer(timeout)
		defer timer.Stop()
		timeoutCh = timer.C
	}

	select {
	case res := <-ch:
		return res.result, res.err
	case <-timeoutCh:
		q.mu.Lock()
		delete(q.outgoing, id)
		q.mu.Unlock()
		return nil, ErrTimeout
	}
}

// ErrTimeout is returned by Await when an outgoing request expires.
var ErrTimeout = errors.New("reqqueue: outgoing request timed out")
