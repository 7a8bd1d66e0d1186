package mailbox

import (
	"encoding/binary"
	"fmt"
	"time"

	"github.com/kubescape/go-logger"
	"github.com/kubescape/go-logger/helpers"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/jobgraph/taskproto/pkg/protocol"
)

// pollInterval is the sole throttle recv() applies while waiting for the
// transport to have something available. It trades worst-case receive
// latency against idle CPU and is policy, not mechanism — per §4.2 it is
// tunable at compile time only, never per call, so it is a constant, not
// a config field.
const pollInterval = 50 * time.Millisecond

const headerSize = 8 // 4 bytes type + 4 bytes payload length, both native-endian

// Mailbox sends and receives protocol.Message values over a Transport,
// maintaining its own pair of byte counters (bytes sent, bytes received).
type Mailbox struct {
	transport Transport
	counters  *counters
}

// New wraps transport in a Mailbox. If reg is nil, a private Prometheus
// registry is created so that multiple Mailboxes (e.g. in tests) don't
// collide on metric names; production callers that want the counters on
// their global registry should pass prometheus.DefaultRegisterer.
func New(transport Transport, reg prometheus.Registerer) *Mailbox {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	return &Mailbox{
		transport: transport,
		counters:  newCounters(reg),
	}
}

// BytesSent is the total bytes this Mailbox has sent so far, envelope included.
func (m *Mailbox) BytesSent() uint64 { return m.counters.BytesSent() }

// BytesRecvd is the total bytes this Mailbox has received so far, envelope included.
func (m *Mailbox) BytesRecvd() uint64 { return m.counters.BytesRecvd() }

// Send encodes message and hands the framed payload — discriminator,
// length, then body — to the transport addressed to rank. On success it
// increments BytesSent by the total frame length including the envelope.
func (m *Mailbox) Send(message protocol.Message, rank int) error {
	body := protocol.Encode(message)

	frame := make([]byte, headerSize+len(body))
	binary.NativeEndian.PutUint32(frame[0:4], uint32(message.Type))
	binary.NativeEndian.PutUint32(frame[4:8], uint32(len(body)))
	copy(frame[headerSize:], body)

	if err := m.transport.Send(rank, frame); err != nil {
		return fmt.Errorf("mailbox: send to rank %d: %w", rank, err)
	}
	m.counters.addSent(len(frame))
	return nil
}

// Recv blocks until a frame is available, decodes it, and returns the
// message populated with the sending peer's rank as Source. While no
// frame is waiting it polls the transport every pollInterval.
func (m *Mailbox) Recv() (protocol.Message, error) {
	for {
		raw, rank, ok := m.transport.Poll()
		if ok {
			msg, err := m.decodeFrame(raw, rank)
			if err != nil {
				return protocol.Message{}, err
			}
			m.counters.addRecvd(len(raw))
			return msg, nil
		}
		time.Sleep(pollInterval)
	}
}

func (m *Mailbox) decodeFrame(raw []byte, rank int) (protocol.Message, error) {
	if len(raw) < headerSize {
		return protocol.Message{}, fmt.Errorf("mailbox: frame shorter than header: %w", protocol.ErrMalformedFrame)
	}
	rawType := binary.NativeEndian.Uint32(raw[0:4])
	if rawType > 0xFF {
		return protocol.Message{}, fmt.Errorf("mailbox: type %d: %w", rawType, protocol.ErrUnknownType)
	}
	typ := protocol.Type(rawType)
	size := binary.NativeEndian.Uint32(raw[4:8])
	body := raw[headerSize:]
	if uint32(len(body)) != size {
		return protocol.Message{}, fmt.Errorf("mailbox: declared size %d != body %d: %w", size, len(body), protocol.ErrMalformedFrame)
	}

	msg, err := protocol.Decode(typ, body, rank)
	if err != nil {
		logger.L().Debug("mailbox: failed to decode frame", helpers.Error(err), helpers.Int("rank", rank))
		return protocol.Message{}, err
	}
	return msg, nil
}

// MessageWaiting is a non-blocking predicate passed through to the
// transport.
func (m *Mailbox) MessageWaiting() bool {
	return m.transport.Probe()
}
