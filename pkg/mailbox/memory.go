package mailbox

import "sync"

// frame is a queued (rank, payload) pair awaiting delivery.
type frame struct {
	rank int
	data []byte
}

// MemoryTransport is a single-process, in-memory Transport. It exists for
// tests and for embedding a master and its workers in one binary; it is
// not a production transport (§1 treats the transport as an external
// collaborator out of scope for this module).
type MemoryTransport struct {
	mu    sync.Mutex
	inbox []frame
	sent  []frame
}

var _ Transport = (*MemoryTransport)(nil)

// NewMemoryTransport returns an empty transport.
func NewMemoryTransport() *MemoryTransport {
	return &MemoryTransport{}
}

// Send records frame as sent to rank, for test assertions via Sent. It
// does not place the frame in this transport's own inbox — a real
// transport delivers to the destination process, not back to the sender;
// tests that want to simulate delivery call Deliver explicitly.
func (t *MemoryTransport) Send(rank int, data []byte) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.sent = append(t.sent, frame{rank: rank, data: append([]byte(nil), data...)})
	return nil
}

// Poll pops the oldest queued frame, if any.
func (t *MemoryTransport) Poll() ([]byte, int, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if len(t.inbox) == 0 {
		return nil, 0, false
	}
	f := t.inbox[0]
	t.inbox = t.inbox[1:]
	return f.data, f.rank, true
}

// Probe reports whether Poll would currently return a frame.
func (t *MemoryTransport) Probe() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.inbox) > 0
}

// Sent returns every frame ever passed to Send, in send order.
func (t *MemoryTransport) Sent() []frame {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]frame(nil), t.sent...)
}

// Deliver injects a frame directly into the inbox, as if sent by rank.
// Useful for tests that simulate a peer sending to us.
func (t *MemoryTransport) Deliver(rank int, data []byte) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.inbox = append(t.inbox, frame{rank: rank, data: append([]byte(nil), data...)})
}
