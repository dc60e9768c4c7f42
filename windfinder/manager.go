package windfinder

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/starlane-io/starlane/lane"
)

// DefaultTimeout is the hard timeout a StarSearchTransaction resolves
// after if it has not yet heard back from every participating lane.
const DefaultTimeout = 5 * time.Second

// Relay is the star loop's narrow surface the Manager needs: how many
// lanes it has, whether it relays searches at all, and how to actually
// move WindUp/WindDown frames across lanes. Kept separate from lane.Lane
// so the manager can be exercised without a live transport.
type Relay interface {
	// LaneCount reports how many confirmed lanes this star has.
	LaneCount() int
	// IsRelaying reports whether this star forwards searches it doesn't
	// match, as opposed to edge stars that only ever answer for
	// themselves.
	IsRelaying() bool
	// Broadcast sends wu to every confirmed lane except arrivalLane (the
	// zero value if the search originated locally), returning the set of
	// lanes it was actually sent to.
	Broadcast(ctx context.Context, arrivalLane lane.StarKey, wu WindUp) ([]lane.StarKey, error)
	// SendDown sends wd back along a single lane.
	SendDown(ctx context.Context, toLane lane.StarKey, wd WindDown) error
}

// transaction is a StarSearchTransaction: it collects one WindDown per
// participating lane and resolves once all have reported or the timeout
// fires, delivering the collapsed hits to onResolve exactly once.
type transaction struct {
	mu            sync.Mutex
	participating map[lane.StarKey]bool
	reported      map[lane.StarKey]bool
	hits          map[lane.StarKey]int // star -> min hops seen across all lane reports
	resolved      bool
	timer         *time.Timer
	onResolve     func([]Hit)
}

func newTransaction(onResolve func([]Hit)) *transaction {
	return &transaction{
		participating: map[lane.StarKey]bool{},
		reported:      map[lane.StarKey]bool{},
		hits:          map[lane.StarKey]int{},
		onResolve:     onResolve,
	}
}

func (tx *transaction) arm(participants []lane.StarKey, timeout time.Duration, onTimeout func()) {
	tx.mu.Lock()
	defer tx.mu.Unlock()
	for _, p := range participants {
		tx.participating[p] = true
	}
	tx.timer = time.AfterFunc(timeout, onTimeout)
}

// isParticipant reports whether fromLane was one of the lanes this
// transaction broadcast to, so a stray or unrelated report/close can't
// be mistaken for progress on it.
func (tx *transaction) isParticipant(fromLane lane.StarKey) bool {
	tx.mu.Lock()
	defer tx.mu.Unlock()
	return tx.participating[fromLane]
}

func (tx *transaction) report(fromLane lane.StarKey, wd WindDown) (allReported bool) {
	tx.mu.Lock()
	defer tx.mu.Unlock()
	tx.reported[fromLane] = true
	for _, h := range wd.Hits {
		if existing, seen := tx.hits[h.Star]; !seen || h.Hops < existing {
			tx.hits[h.Star] = h.Hops
		}
	}
	return len(tx.reported) >= len(tx.participating)
}

func (tx *transaction) resolve() {
	tx.mu.Lock()
	if tx.resolved {
		tx.mu.Unlock()
		return
	}
	tx.resolved = true
	if tx.timer != nil {
		tx.timer.Stop()
	}
	hits := make([]Hit, 0, len(tx.hits))
	for star, hops := range tx.hits {
		hits = append(hits, Hit{Star: star, Hops: hops})
	}
	onResolve := tx.onResolve
	tx.mu.Unlock()

	onResolve(hits)
}

// Manager tracks in-flight StarSearchTransactions for a single star.
type Manager struct {
	self lane.StarKey

	// Timeout overrides DefaultTimeout for every transaction this
	// manager opens. Set once at construction time (the star loop wires
	// it from config.Parameters.PathSearchTimeout), never after.
	Timeout time.Duration

	mu  sync.Mutex
	txs map[string]*transaction
}

func NewManager(self lane.StarKey) *Manager {
	return &Manager{self: self, txs: make(map[string]*transaction)}
}

func (m *Manager) timeout() time.Duration {
	if m.Timeout > 0 {
		return m.Timeout
	}
	return DefaultTimeout
}

func (m *Manager) put(tid string, tx *transaction) {
	m.mu.Lock()
	m.txs[tid] = tx
	m.mu.Unlock()
}

func (m *Manager) take(tid string) (*transaction, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	tx, ok := m.txs[tid]
	if ok {
		delete(m.txs, tid)
	}
	return tx, ok
}

func (m *Manager) peek(tid string) (*transaction, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	tx, ok := m.txs[tid]
	return tx, ok
}

// Search starts a new search as the originator, returning a channel that
// receives exactly one []Hit when the transaction resolves (either by
// full collection or by timeout).
func (m *Manager) Search(ctx context.Context, relay Relay, pattern Pattern, maxHops int) <-chan []Hit {
	tid := uuid.New().String()
	wu := WindUp{From: m.self, Pattern: pattern, Transactions: []string{tid}, MaxHops: maxHops}

	result := make(chan []Hit, 1)
	tx := newTransaction(func(hits []Hit) {
		m.take(tid)
		result <- hits
	})
	m.put(tid, tx)

	participants, err := relay.Broadcast(ctx, "", wu)
	if err != nil || len(participants) == 0 {
		tx.resolve()
		return result
	}

	tx.arm(participants, m.timeout(), tx.resolve)
	return result
}

// OnWindUp implements the per-star receipt algorithm for an inbound wind-up.
// It returns an immediate WindDown when this star can answer synchronously
// (a single-match hit, or a leaf/over-limit/non-relaying star); otherwise
// it opens a child transaction, forwards the search, and later delivers
// the collapsed WindDown asynchronously via relay.SendDown, in which
// case it returns (nil, nil).
func (m *Manager) OnWindUp(ctx context.Context, relay Relay, arrivalLane lane.StarKey, wu WindUp) (*WindDown, error) {
	tid := ""
	if len(wu.Transactions) > 0 {
		tid = wu.Transactions[len(wu.Transactions)-1]
	}

	if wu.Pattern.Matches(m.self) && wu.Pattern.SingleMatch {
		return &WindDown{Tid: tid, Hits: []Hit{{Star: m.self, Hops: len(wu.Hops) + 1}}}, nil
	}

	nextHops := len(wu.Hops) + 1
	leaf := nextHops > wu.EffectiveMaxHops() || relay.LaneCount() <= 1 || !relay.IsRelaying()
	if leaf {
		if wu.Pattern.Matches(m.self) {
			return &WindDown{Tid: tid, Hits: []Hit{{Star: m.self, Hops: nextHops}}}, nil
		}
		return &WindDown{Tid: tid, Hits: nil}, nil
	}

	childTid := uuid.New().String()
	forward := WindUp{
		From:         wu.From,
		Pattern:      wu.Pattern,
		Hops:         append(append([]lane.StarKey{}, wu.Hops...), m.self),
		Transactions: append(append([]string{}, wu.Transactions...), childTid),
		MaxHops:      wu.MaxHops,
	}

	localHit := func() []Hit {
		if wu.Pattern.Matches(m.self) {
			return []Hit{{Star: m.self, Hops: nextHops}}
		}
		return nil
	}

	tx := newTransaction(func(hits []Hit) {
		m.take(childTid)
		merged := append(hits, localHit()...)
		_ = relay.SendDown(context.Background(), arrivalLane, WindDown{Tid: tid, Hits: merged})
	})

	participants, err := relay.Broadcast(ctx, arrivalLane, forward)
	if err != nil {
		return nil, err
	}
	if len(participants) == 0 {
		tx.resolve()
		return nil, nil
	}

	m.put(childTid, tx)
	tx.arm(participants, m.timeout(), tx.resolve)
	return nil, nil
}

// OnWindDown feeds a WindDown report from lane fromLane into the
// transaction it names, resolving it once every participating lane has
// reported.
func (m *Manager) OnWindDown(ctx context.Context, relay Relay, fromLane lane.StarKey, wd WindDown) {
	tx, ok := m.peek(wd.Tid)
	if !ok {
		return
	}
	if tx.report(fromLane, wd) {
		tx.resolve()
	}
}

// Len reports how many transactions are currently open, for status/metrics.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.txs)
}

// OnLaneClosed notifies every open transaction that closedLane has gone
// away. A transaction still waiting on that lane's report treats it as
// reported (with no hits), so it resolves with whatever it already has
// rather than hanging forever.
func (m *Manager) OnLaneClosed(closedLane lane.StarKey) {
	m.mu.Lock()
	txs := make([]*transaction, 0, len(m.txs))
	for _, tx := range m.txs {
		txs = append(txs, tx)
	}
	m.mu.Unlock()

	for _, tx := range txs {
		if !tx.isParticipant(closedLane) {
			continue
		}
		if tx.report(closedLane, WindDown{}) {
			tx.resolve()
		}
	}
}
