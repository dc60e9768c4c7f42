package registry

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/starlane-io/starlane/point"
)

// Memory is an in-process Registry, suitable for local development and
// tests rather than a production deployment (a real deployment supplies
// its own Registry, e.g. Postgres-backed). cmd/starlane's `star run`
// uses this as its default when no external registry is configured.
type Memory struct {
	mu      sync.RWMutex
	records map[string]ParticleRecord
	props   map[string]map[string]Property
	seq     map[string]int
}

// NewMemory returns an empty in-memory registry.
func NewMemory() *Memory {
	return &Memory{
		records: map[string]ParticleRecord{},
		props:   map[string]map[string]Property{},
		seq:     map[string]int{},
	}
}

func (m *Memory) Record(ctx context.Context, p point.Point) (ParticleRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rec, ok := m.records[p.String()]
	if !ok {
		return ParticleRecord{}, fmt.Errorf("registry: no record for %s", p.String())
	}
	return rec, nil
}

func (m *Memory) GetProperties(ctx context.Context, p point.Point) (map[string]Property, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.props[p.String()], nil
}

func (m *Memory) Register(ctx context.Context, reg Registration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := reg.Point.String()
	m.records[key] = ParticleRecord{Stub: Stub{Point: reg.Point, Kind: reg.Kind, Status: StatusPending}}
	if reg.Properties != nil {
		m.props[key] = reg.Properties
	}
	return nil
}

func (m *Memory) SetLocation(ctx context.Context, rec ParticleRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[rec.Stub.Point.String()] = rec
	return nil
}

func (m *Memory) Select(ctx context.Context, sel Selector) ([]ParticleRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []ParticleRecord
	for key, rec := range m.records {
		if sel.PointPrefix != "" && !strings.HasPrefix(key, sel.PointPrefix) {
			continue
		}
		if sel.Kind != nil && rec.Stub.Kind.Base != *sel.Kind {
			continue
		}
		out = append(out, rec)
	}
	return out, nil
}

func (m *Memory) UniqueSrc(ctx context.Context, parent point.Point) (UniqueSrc, error) {
	return &memoryUniqueSrc{m: m, parent: parent.String()}, nil
}

type memoryUniqueSrc struct {
	m      *Memory
	parent string
}

func (u *memoryUniqueSrc) Next(ctx context.Context) (string, error) {
	u.m.mu.Lock()
	defer u.m.mu.Unlock()
	u.m.seq[u.parent]++
	return strconv.Itoa(u.m.seq[u.parent]), nil
}
