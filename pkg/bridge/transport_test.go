package bridge

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"adstream/pkg/event"
)

func TestSocketTransportEmitWhileDisconnectedIsDropped(t *testing.T) {
	transport := NewSocketTransport("ws://localhost:0/ws")

	// Never connected: the emit is dropped silently, nothing panics.
	transport.Emit(event.SendMessage, event.SendMessageData{ChatID: "c1", Content: "hi"})
}

func TestSocketTransportOnOffPairing(t *testing.T) {
	transport := NewSocketTransport("ws://localhost:0/ws")

	var first, second int
	off1 := transport.On(event.NewMessage, func(env *event.Envelope) { first++ })
	off2 := transport.On(event.NewMessage, func(env *event.Envelope) { second++ })

	transport.dispatch(&event.Envelope{Event: event.NewMessage})
	assert.Equal(t, 1, first)
	assert.Equal(t, 1, second)

	off1()
	transport.dispatch(&event.Envelope{Event: event.NewMessage})
	assert.Equal(t, 1, first)
	assert.Equal(t, 2, second)

	off2()
	transport.dispatch(&event.Envelope{Event: event.NewMessage})
	assert.Equal(t, 2, second)
}

func TestSocketTransportOffIsIdempotent(t *testing.T) {
	transport := NewSocketTransport("ws://localhost:0/ws")

	var calls int
	off := transport.On(event.Error, func(env *event.Envelope) { calls++ })
	off()
	off()

	transport.dispatch(&event.Envelope{Event: event.Error})
	assert.Zero(t, calls)
}
