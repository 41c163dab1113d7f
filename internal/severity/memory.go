package severity

import (
	"context"
	"sort"
	"sync"

	"github.com/RevCBH/revwatch/internal/aging"
)

// MemoryStore is an in-process Store. It backs dry runs and tests.
type MemoryStore struct {
	mu     sync.Mutex
	labels map[int]map[string]struct{}

	// failures makes the named label operation fail, keyed by "op:label"
	failures map[string]error
}

// NewMemoryStore creates an empty store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		labels:   make(map[int]map[string]struct{}),
		failures: make(map[string]error),
	}
}

// FailOn makes every future op on label return err. A nil err clears it.
func (m *MemoryStore) FailOn(op Op, label string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failures[string(op)+":"+label] = err
}

// Labels returns the sorted labels attached to pr
func (m *MemoryStore) Labels(pr int) []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.labels[pr]))
	for l := range m.labels[pr] {
		out = append(out, l)
	}
	sort.Strings(out)
	return out
}

// CurrentMarkers returns every severity label on pr, least severe first
func (m *MemoryStore) CurrentMarkers(ctx context.Context, pr int) ([]aging.Severity, error) {
	return aging.Severities(m.Labels(pr)), nil
}

// Marked lists the pull requests carrying a severity label, in ascending order
func (m *MemoryStore) Marked(ctx context.Context) ([]int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []int
	for pr, labels := range m.labels {
		for l := range labels {
			if _, ok := aging.ParseLabel(l); ok {
				out = append(out, pr)
				break
			}
		}
	}
	sort.Ints(out)
	return out, nil
}

// AddLabel attaches label to pr
func (m *MemoryStore) AddLabel(ctx context.Context, pr int, label string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failures[string(OpAdd)+":"+label]; err != nil {
		return err
	}
	if m.labels[pr] == nil {
		m.labels[pr] = make(map[string]struct{})
	}
	m.labels[pr][label] = struct{}{}
	return nil
}

// RemoveLabel detaches label from pr; absent labels are not an error
func (m *MemoryStore) RemoveLabel(ctx context.Context, pr int, label string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failures[string(OpRemove)+":"+label]; err != nil {
		return err
	}
	delete(m.labels[pr], label)
	return nil
}
