package mailbox

import (
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// counters holds the two monotonic byte totals of one Mailbox; each
// Mailbox built by New has its own pair, so the totals are not shared
// across Mailboxes. They are advisory metrics: safe for concurrent increment, not required
// to be instantaneously consistent with each other, and never decrease.
type counters struct {
	bytesSent  atomic.Uint64
	bytesRecvd atomic.Uint64

	promSent  prometheus.Counter
	promRecvd prometheus.Counter
}

func newCounters(reg prometheus.Registerer) *counters {
	factory := promauto.With(reg)
	return &counters{
		promSent: factory.NewCounter(prometheus.CounterOpts{
			Name: "mailbox_bytes_sent_total",
			Help: "Total bytes sent over the mailbox, including envelope.",
		}),
		promRecvd: factory.NewCounter(prometheus.CounterOpts{
			Name: "mailbox_bytes_recvd_total",
			Help: "Total bytes received over the mailbox, including envelope.",
		}),
	}
}

func (c *counters) addSent(n int) {
	c.bytesSent.Add(uint64(n))
	c.promSent.Add(float64(n))
}

func (c *counters) addRecvd(n int) {
	c.bytesRecvd.Add(uint64(n))
	c.promRecvd.Add(float64(n))
}

// BytesSent returns the total bytes sent so far.
func (c *counters) BytesSent() uint64 { return c.bytesSent.Load() }

// BytesRecvd returns the total bytes received so far.
func (c *counters) BytesRecvd() uint64 { return c.bytesRecvd.Load() }
