package machine

import (
	"context"
	"sync"

	"github.com/starlane-io/starlane/lane"
	"github.com/starlane-io/starlane/logging"
	"github.com/starlane-io/starlane/star"
)

// Machine owns a constellation of stars running in this process: it polls
// their individual statuses, rolls them up per Aggregate, and publishes
// the result to watchers. It does not own a star's lanes or registry;
// those are per-star collaborators wired before the star is added here.
type Machine struct {
	Logger logging.Logger

	mu       sync.RWMutex
	stars    map[lane.StarKey]*star.Star
	status   Status
	watchers []chan Status

	cancel context.CancelFunc
	done   chan struct{}
}

// New constructs an empty Machine. Add stars with Add before calling Run.
func New(logger logging.Logger) *Machine {
	if logger == nil {
		logger = logging.NewNoOp()
	}
	return &Machine{
		Logger: logger,
		stars:  map[lane.StarKey]*star.Star{},
		status: StatusPending,
		done:   make(chan struct{}),
	}
}

// Add registers s with the machine; it does not start s's Run loop, the
// caller does that (typically from cmd/starlane's boot sequence) so the
// star's context lifetime is the caller's to own.
func (m *Machine) Add(s *star.Star) {
	m.mu.Lock()
	m.stars[s.Key] = s
	m.mu.Unlock()
}

// Stars returns the keys of every registered star.
func (m *Machine) Stars() []lane.StarKey {
	m.mu.RLock()
	defer m.mu.RUnlock()
	keys := make([]lane.StarKey, 0, len(m.stars))
	for k := range m.stars {
		keys = append(keys, k)
	}
	return keys
}

// Status returns the machine's current aggregate status.
func (m *Machine) Status() Status {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.status
}

// Watch returns a channel that receives every aggregate status change.
// Buffered by 1; a slow watcher only ever sees the latest value.
func (m *Machine) Watch() <-chan Status {
	ch := make(chan Status, 1)
	m.mu.Lock()
	m.watchers = append(m.watchers, ch)
	m.mu.Unlock()
	return ch
}

// Run polls every registered star's Watch channel and republishes the
// rolled-up machine status whenever any of them changes, until ctx is
// canceled or Terminate is called. Run is meant to be started in its own
// goroutine by the process that also starts each star's own Run loop.
func (m *Machine) Run(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	m.mu.Lock()
	m.cancel = cancel
	m.mu.Unlock()

	m.mu.RLock()
	stars := make([]*star.Star, 0, len(m.stars))
	for _, s := range m.stars {
		stars = append(stars, s)
	}
	m.mu.RUnlock()

	changed := make(chan struct{}, 1)
	notify := func() {
		select {
		case changed <- struct{}{}:
		default:
		}
	}

	var wg sync.WaitGroup
	for _, s := range stars {
		wg.Add(1)
		go func(s *star.Star) {
			defer wg.Done()
			watch := s.Watch()
			for {
				select {
				case <-ctx.Done():
					return
				case <-watch:
					notify()
				}
			}
		}(s)
	}

	m.publish(stars)

	for {
		select {
		case <-ctx.Done():
			close(m.done)
			return
		case <-changed:
			m.publish(stars)
		}
	}
}

func (m *Machine) publish(stars []*star.Star) {
	statuses := make([]star.Status, len(stars))
	for i, s := range stars {
		statuses[i] = s.Status()
	}
	next := Aggregate(statuses)

	m.mu.Lock()
	if m.status == next {
		m.mu.Unlock()
		return
	}
	m.status = next
	watchers := m.watchers
	m.mu.Unlock()

	m.Logger.Debug("machine: status changed", "status", next.String())
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

// Terminate stops every registered star in turn (closing their lanes per
// star.Stop) and then cancels Run's polling loop. It returns once every
// star has acknowledged shutdown; AwaitTermination additionally waits for
// Run's loop to exit.
func (m *Machine) Terminate() {
	m.mu.RLock()
	stars := make([]*star.Star, 0, len(m.stars))
	for _, s := range m.stars {
		stars = append(stars, s)
	}
	cancel := m.cancel
	m.mu.RUnlock()

	for _, s := range stars {
		s.Stop()
	}
	if cancel != nil {
		cancel()
	}
}

// AwaitTermination blocks until Run's polling loop has exited, or ctx is
// done first.
func (m *Machine) AwaitTermination(ctx context.Context) error {
	select {
	case <-m.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
