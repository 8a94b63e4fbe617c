// Purpose: Correlates requests and responses by id into aggregated transactions.
// aggregator.go — the Transaction Aggregator (spec §4.2). Keyed by request id,
// holds one open transaction per id until its response (or terminal error)
// arrives. Never panics; a response with no matching request is dropped as a
// late or duplicate delivery.
package aggregator

import (
	"net/url"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/brennhill/netcapture/internal/ttl"
	"github.com/brennhill/netcapture/internal/types"
)

// rpcOperationPattern matches a JSON-over-HTTP RPC body's operation-name
// field: {"operationName": "GetUser", ...} or {"query": "...", "operationName": "..."}.
var rpcOperationPattern = regexp.MustCompile(`"operationName"\s*:\s*"([^"]+)"`)
var rpcPersistedQueryPattern = regexp.MustCompile(`"sha256Hash"\s*:\s*"([0-9a-fA-F]{8})`)

// Aggregator is the in-memory correlator. Safe for concurrent use.
type Aggregator struct {
	mu      sync.Mutex
	index   map[string]*types.CapturedTransaction
	ordered []*types.CapturedTransaction
	ttl     time.Duration
}

// New returns an empty Aggregator.
func New() *Aggregator {
	return &Aggregator{index: make(map[string]*types.CapturedTransaction)}
}

// OnRequest registers req's transaction, computing its route key, and
// returns the new transaction. Transactions are inserted in request-creation
// order; Ordered() never reorders them.
func (a *Aggregator) OnRequest(req types.CapturedRequest) *types.CapturedTransaction {
	host := req.Host
	path := req.Path
	routeKey := host + ComputeRouteKey(path)
	if op, ok := extractRPCOperation(req.Headers["content-type"], req.Body); ok {
		routeKey += "#" + op
	}

	reqCopy := req
	txn := &types.CapturedTransaction{
		ID:       req.ID,
		Method:   req.Method,
		Host:     host,
		Path:     path,
		RouteKey: routeKey,
		Request:  &reqCopy,
	}
	if u, err := url.Parse(req.URL); err == nil {
		txn.RawQuery = u.RawQuery
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	a.index[req.ID] = txn
	a.ordered = append(a.ordered, txn)
	return txn
}

// extractRPCOperation scans a JSON-over-HTTP RPC body for an operation name
// or persisted-query hash, returning the suffix to append to a route key.
func extractRPCOperation(contentType string, body []byte) (string, bool) {
	if len(body) == 0 || !strings.Contains(strings.ToLower(contentType), "json") {
		return "", false
	}
	if m := rpcOperationPattern.FindSubmatch(body); m != nil {
		return string(m[1]), true
	}
	if m := rpcPersistedQueryPattern.FindSubmatch(body); m != nil {
		return "persisted:" + string(m[1]), true
	}
	return "", false
}

// PatchRequestToken attaches tokenInfo to the request field of the
// transaction keyed by id, if one exists. Idempotent.
func (a *Aggregator) PatchRequestToken(id string, tokenInfo *types.JWTInfo) {
	a.mu.Lock()
	defer a.mu.Unlock()
	txn, ok := a.index[id]
	if !ok || txn.Request == nil {
		return
	}
	txn.Request.JWT = tokenInfo
}

// OnResponse attaches resp to the transaction keyed by resp.ID, computes
// duration/ttfb/receive from the request and response timing, and returns
// the transaction. If no transaction is registered for the id, it returns
// (nil, false) — a late or duplicate response is silently dropped.
func (a *Aggregator) OnResponse(resp types.CapturedResponse) (*types.CapturedTransaction, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	txn, ok := a.index[resp.ID]
	if !ok {
		return nil, false
	}
	respCopy := resp
	txn.Response = &respCopy

	start := txn.Request.Timing.StartTs
	end := respCopy.Timing.EndTs
	if end != nil {
		duration := *end - start
		if duration < 0 {
			duration = 0
		}
		txn.DurationMs = duration
		if fb := respCopy.Timing.FirstByteTs; fb != nil {
			ttfb := *fb - start
			if ttfb < 0 {
				ttfb = 0
			}
			receive := duration - ttfb
			if receive < 0 {
				receive = 0
			}
			txn.TTFBMs = ttfb
			txn.ReceiveMs = receive
		}
	}
	return txn, true
}

// Ordered returns all transactions in request-creation order. The returned
// slice is a snapshot; mutating it does not affect the aggregator.
func (a *Aggregator) Ordered() []*types.CapturedTransaction {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]*types.CapturedTransaction, len(a.ordered))
	copy(out, a.ordered)
	return out
}

// Get returns the transaction for id, if any.
func (a *Aggregator) Get(id string) (*types.CapturedTransaction, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	txn, ok := a.index[id]
	return txn, ok
}

// Reset clears both the index and the ordered list, called at session
// boundaries.
func (a *Aggregator) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.index = make(map[string]*types.CapturedTransaction)
	a.ordered = nil
}

// SetTTL sets the retention window swept by Sweep. A zero duration (the
// default) disables sweeping: Reset is then the only way to bound memory.
func (a *Aggregator) SetTTL(d time.Duration) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.ttl = d
}

// Sweep drops transactions whose request started more than the configured
// TTL before now, from both the index and the ordered list. A no-op when no
// TTL is configured (spec.md's §3/§4.2 invariants are unchanged by this;
// it only bounds an otherwise-unbounded long-running session's memory, per
// SPEC_FULL.md §10).
func (a *Aggregator) Sweep(now time.Time) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.ttl <= 0 {
		return
	}

	kept := a.ordered[:0:0]
	for _, txn := range a.ordered {
		addedAt := time.UnixMilli(txn.Request.Timing.StartTs)
		if ttl.Expired(addedAt, now, a.ttl) {
			delete(a.index, txn.ID)
			continue
		}
		kept = append(kept, txn)
	}
	a.ordered = kept
}
