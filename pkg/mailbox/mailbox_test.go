package mailbox

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jobgraph/taskproto/pkg/protocol"
)

func Test_SendIncrementsBytesSentByFrameLength(t *testing.T) {
	transport := NewMemoryTransport()
	mb := New(transport, nil)

	msg := protocol.NewHostrank(3)
	require.NoError(t, mb.Send(msg, 5))

	sent := transport.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, len(sent[0].data), int(mb.BytesSent()))
	assert.Equal(t, 5, sent[0].rank)
}

func Test_RecvDecodesAndSetsSource(t *testing.T) {
	transport := NewMemoryTransport()
	mb := New(transport, nil)

	// Simulate rank 9 having sent us a Result message.
	require.NoError(t, mb.Send(protocol.NewResult("job", 0, 1.5), 9))
	frame := transport.Sent()[0].data
	transport.Deliver(9, frame)

	msg, err := mb.Recv()
	require.NoError(t, err)
	assert.Equal(t, 9, msg.Source)

	result, ok := msg.Payload.(protocol.ResultPayload)
	require.True(t, ok)
	assert.Equal(t, "job", result.Name)
}

func Test_CountersMonotonicAcrossInterleaving(t *testing.T) {
	transport := NewMemoryTransport()
	mb := New(transport, nil)

	var lastSent, lastRecvd uint64
	for i := 0; i < 5; i++ {
		require.NoError(t, mb.Send(protocol.NewHostrank(int32(i)), 0))
		assert.GreaterOrEqual(t, mb.BytesSent(), lastSent)
		lastSent = mb.BytesSent()

		frame := transport.Sent()[len(transport.Sent())-1].data
		transport.Deliver(0, frame)
		_, err := mb.Recv()
		require.NoError(t, err)
		assert.GreaterOrEqual(t, mb.BytesRecvd(), lastRecvd)
		lastRecvd = mb.BytesRecvd()
	}
}

func Test_MessageWaitingPassesThroughToTransport(t *testing.T) {
	transport := NewMemoryTransport()
	mb := New(transport, nil)

	assert.False(t, mb.MessageWaiting())
	transport.Deliver(1, []byte{0, 0, 0, 0, 0, 0, 0, 0})
	assert.True(t, mb.MessageWaiting())
}

func Test_RecvRejectsShortFrame(t *testing.T) {
	transport := NewMemoryTransport()
	mb := New(transport, nil)

	transport.Deliver(0, []byte{1, 2, 3})
	_, err := mb.Recv()
	assert.ErrorIs(t, err, protocol.ErrMalformedFrame)
}
