package gate

import (
	"context"
	"errors"
	"sync"

	"github.com/starlane-io/starlane/lane"
)

// ErrTransportClosed is returned by Send/Recv once Close has run.
var ErrTransportClosed = errors.New("gate: transport closed")

// InProcTransport is a bidirectional in-memory pipe implementing
// lane.Transport. Real TCP/TLS gateways live outside this module behind
// the same interface; this is the concrete carrier the hop/transport
// encapsulation logic is exercised over in tests and single-process
// constellations.
type InProcTransport struct {
	out chan lane.Frame
	in  chan lane.Frame

	closeOnce sync.Once
	closed    chan struct{}
}

// NewInProcPair builds two InProcTransports wired to each other: frames
// sent on a arrive on b and vice versa.
func NewInProcPair(bufSize int) (a, b *InProcTransport) {
	ab := make(chan lane.Frame, bufSize)
	ba := make(chan lane.Frame, bufSize)
	a = &InProcTransport{out: ab, in: ba, closed: make(chan struct{})}
	b = &InProcTransport{out: ba, in: ab, closed: make(chan struct{})}
	return a, b
}

func (t *InProcTransport) Send(ctx context.Context, f lane.Frame) error {
	select {
	case <-t.closed:
		return ErrTransportClosed
	default:
	}
	select {
	case t.out <- f:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-t.closed:
		return ErrTransportClosed
	}
}

func (t *InProcTransport) Recv(ctx context.Context) (lane.Frame, error) {
	select {
	case f, ok := <-t.in:
		if !ok {
			return lane.Frame{}, ErrTransportClosed
		}
		return f, nil
	case <-ctx.Done():
		return lane.Frame{}, ctx.Err()
	case <-t.closed:
		return lane.Frame{}, ErrTransportClosed
	}
}

func (t *InProcTransport) Close() error {
	t.closeOnce.Do(func() { close(t.closed) })
	return nil
}

var _ lane.Transport = (*InProcTransport)(nil)
