package mailbox

// Transport is the rank-addressed delivery primitive the mailbox is built
// on. It is treated as an external collaborator: this package defines
// only the interface it needs, not a production implementation. Probe
// must be non-blocking; Poll returns immediately with ok=false when
// nothing is waiting.
type Transport interface {
	// Send hands frame to the peer addressed by rank.
	Send(rank int, frame []byte) error
	// Poll returns the next waiting frame and the rank it came from,
	// or ok=false if nothing is available right now.
	Poll() (frame []byte, rank int, ok bool)
	// Probe reports whether a frame is currently waiting, without
	// consuming it.
	Probe() bool
}
