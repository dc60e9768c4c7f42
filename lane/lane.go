package lane

import (
	"context"
	"fmt"
)

// Transport is the byte-pipe a Lane is built on: something that can send
// and receive Frames. Concrete transports (in-process, network) live in
// package gate; Lane only depends on this narrow interface so it can be
// tested against a fake.
type Transport interface {
	Send(ctx context.Context, f Frame) error
	Recv(ctx context.Context) (Frame, error)
	Close() error
}

// Lane is a confirmed, identified link to a neighboring star: frames sent
// on it are received by that star and vice versa.
type Lane struct {
	Remote    StarKey
	Transport Transport
	Paths     *PathTable

	// seq is this lane's insertion order among a star's lanes, used as
	// the stable tie-break when two lanes report equal hop counts to the
	// same destination.
	seq int
}

// NewLane wraps transport as a Lane to Remote, with an empty path table.
func NewLane(remote StarKey, transport Transport, seq int) *Lane {
	return &Lane{Remote: remote, Transport: transport, Paths: NewPathTable(), seq: seq}
}

func (l *Lane) Send(ctx context.Context, f Frame) error {
	return l.Transport.Send(ctx, f)
}

func (l *Lane) Close() error {
	return l.Transport.Close()
}

func (l *Lane) String() string {
	return fmt.Sprintf("lane[%s]", l.Remote)
}

// ProtoLane is a lane that has completed the transport handshake but
// whose remote star identity is not yet confirmed (knock/greet pending).
type ProtoLane struct {
	Transport Transport
}

// Promote confirms a ProtoLane's remote identity, producing a full Lane
// with the given insertion sequence number.
func (p *ProtoLane) Promote(remote StarKey, seq int) *Lane {
	return NewLane(remote, p.Transport, seq)
}
