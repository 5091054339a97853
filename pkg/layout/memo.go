package layout

// memoEntry is one view's remembered run: the signature of the last input
// and the solver output it produced.
type memoEntry struct {
	signature string
	output    *Output
}

// Memo is the per-view, single-entry layout memo. Each view holds at most
// one record; storing a new signature for a view discards the previous one.
// Staleness is detected purely by signature mismatch - there is no explicit
// invalidation and no TTL.
//
// The memo is plain mutable state passed into the engine by reference; one
// view's pipeline never runs concurrently with itself, so no locking is
// needed.
type Memo struct {
	entries map[string]memoEntry
}

// NewMemo creates an empty memo.
func NewMemo() *Memo {
	return &Memo{entries: make(map[string]memoEntry)}
}

// Get returns the stored output for the view if the signature matches the
// last run. A hit returns the output byte-for-byte as stored; callers still
// post-process it, since locked-node positions can change without changing
// the signature-relevant graph.
func (m *Memo) Get(viewID, signature string) (*Output, bool) {
	e, ok := m.entries[viewID]
	if !ok || e.signature != signature {
		return nil, false
	}
	return e.output, true
}

// Set records the view's latest run, replacing any previous entry.
func (m *Memo) Set(viewID, signature string, out *Output) {
	m.entries[viewID] = memoEntry{signature: signature, output: out}
}

// Forget drops the view's entry, used when a view is deleted.
func (m *Memo) Forget(viewID string) {
	delete(m.entries, viewID)
}

// Len returns the number of views with a stored entry.
func (m *Memo) Len() int { return len(m.entries) }
