package star

import (
	"context"
	"sync"

	"github.com/starlane-io/starlane/api/metrics"
	"github.com/starlane-io/starlane/config"
	"github.com/starlane-io/starlane/exchanger"
	"github.com/starlane-io/starlane/hold"
	"github.com/starlane-io/starlane/kind"
	"github.com/starlane-io/starlane/lane"
	"github.com/starlane-io/starlane/logging"
	"github.com/starlane-io/starlane/registry"
	"github.com/starlane-io/starlane/tracker"
	"github.com/starlane-io/starlane/utils"
	"github.com/starlane-io/starlane/windfinder"
)

// Star is the per-star actor: an event loop (Run) plus the collaborators
// (registry, drivers) it consults. Only frame arrival and the lifecycle
// commands are posted to Run's command channel and serialized on its
// goroutine. Every other method calls the lane registry, hold, windfinder
// manager, tracker and exchanger directly, including reentrantly from the
// loop goroutine; that is safe because each of them guards its own state
// with a mutex.
type Star struct {
	Key    lane.StarKey
	Config config.Parameters
	Logger logging.Logger

	// Relaying reports whether this star forwards searches it doesn't
	// itself match, vs. an edge star that only ever answers for itself.
	Relaying bool

	// HostedKinds is the static "which kinds does a star of my role
	// host" table the resolver consults before asking Central or a
	// parent's host star.
	HostedKinds map[kind.BaseKind]bool

	Lanes     *lane.Registry
	Hold      *hold.Hold
	Winds     *windfinder.Manager
	Trackers  *tracker.Manager
	Exchange  *exchanger.Table
	Registry  registry.Registry
	Drivers   registry.DriverTable

	// Metrics is nil-safe: a Star built without SetMetrics records no
	// counters at all.
	Metrics metrics.Metrics

	// AskCentral/AskStar are the mesh-level callbacks the resource
	// record resolver uses to consult another star when local knowledge
	// is exhausted. They are collaborator seams: a real
	// deployment implements them as a Cmd<Read> wave round-trip over the
	// mesh; tests supply fakes.
	AskCentral func(ctx context.Context, p pointString) (lane.StarKey, error)
	AskStar    func(ctx context.Context, at lane.StarKey, p pointString) (lane.StarKey, error)

	// deliveredCount/failedCount back HealthCheck's drop-rate
	// evaluation; unlike Metrics (optional, prometheus) these are always
	// maintained.
	deliveredCount utils.AtomicInt
	failedCount    utils.AtomicInt

	cmds chan Command
	done chan struct{}

	statusMu sync.RWMutex
	status   Status
	watchers []chan Status

	resolver *resolver
}

// pointString is a type alias purely for readability in the AskCentral/
// AskStar signatures above; see resolve.go for the real point.Point-based
// surface these wrap.
type pointString = string

// New constructs a Star with the given identity and collaborators. The
// caller is responsible for calling Run in its own goroutine.
func New(key lane.StarKey, cfg config.Parameters, logger logging.Logger, reg registry.Registry, drivers registry.DriverTable) *Star {
	if logger == nil {
		logger = logging.NewNoOp()
	}
	s := &Star{
		Key:         key,
		Config:      cfg,
		Logger:      logger,
		Relaying:    true,
		HostedKinds: map[kind.BaseKind]bool{},
		Lanes:       lane.NewRegistry(),
		Hold:        hold.NewWithCap(cfg.FrameHoldMaxPerDestination),
		Winds:       windfinder.NewManager(key),
		Trackers:    tracker.NewManager(),
		Exchange:    exchanger.NewTable(),
		Registry:    reg,
		Drivers:     drivers,
		cmds:        make(chan Command, 64),
		done:        make(chan struct{}),
		status:      StatusUnknown,
	}
	s.Winds.Timeout = cfg.PathSearchTimeout
	s.resolver = newResolver(s)
	return s
}

// SetMetrics attaches a metrics sink; call before Run.
func (s *Star) SetMetrics(m metrics.Metrics) { s.Metrics = m }

func (s *Star) countDelivered() {
	s.deliveredCount.Inc()
	if s.Metrics != nil {
		s.Metrics.Delivered().Inc()
	}
}

func (s *Star) countReflected() {
	if s.Metrics != nil {
		s.Metrics.Reflected().Inc()
	}
}

func (s *Star) countFailed() {
	s.failedCount.Inc()
	if s.Metrics != nil {
		s.Metrics.Failed().Inc()
	}
}

// LaneCount implements windfinder.Relay.
func (s *Star) LaneCount() int { return s.Lanes.Len() }

// IsRelaying implements windfinder.Relay.
func (s *Star) IsRelaying() bool { return s.Relaying }

// Enqueue posts cmd to the star loop, blocking until it is accepted or
// the star has shut down.
func (s *Star) Enqueue(cmd Command) {
	select {
	case s.cmds <- cmd:
	case <-s.done:
		cmd.reply(Result{Err: ErrShutdown})
	}
}

// call is the synchronous convenience wrapper: enqueue cmd and block for
// its reply.
func (s *Star) call(cmd Command) Result {
	cmd.Reply = make(chan Result, 1)
	s.Enqueue(cmd)
	return <-cmd.Reply
}

// Status returns the star's current lifecycle status.
func (s *Star) Status() Status {
	s.statusMu.RLock()
	defer s.statusMu.RUnlock()
	return s.status
}

// Watch returns a channel that receives every status change from now on.
// The channel is buffered by 1; a watcher that falls behind only sees
// the most recent status, never blocks the star loop.
func (s *Star) Watch() <-chan Status {
	ch := make(chan Status, 1)
	s.statusMu.Lock()
	s.watchers = append(s.watchers, ch)
	s.statusMu.Unlock()
	return ch
}

func (s *Star) setStatus(next Status) {
	s.statusMu.Lock()
	cur := s.status
	if !cur.CanTransitionTo(next) {
		s.statusMu.Unlock()
		s.Logger.Debug("star: rejected status transition", "from", cur.String(), "to", next.String())
		return
	}
	s.status = next
	watchers := s.watchers
	s.statusMu.Unlock()

	for _, w := range watchers {
		select {
		case w <- next:
		default:
			select {
			case <-w:
			default:
			}
			w <- next
		}
	}
}
