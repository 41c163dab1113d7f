package escalate

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// Multi wraps multiple escalators and fans out to all of them
type Multi struct {
	escalators []Escalator
}

// NewMulti creates a Multi escalator that sends to all provided backends
func NewMulti(escalators ...Escalator) *Multi {
	return &Multi{escalators: escalators}
}

// Escalate sends the escalation to all backends concurrently. Every backend
// is attempted; failures are joined and prefixed with the backend name.
func (m *Multi) Escalate(ctx context.Context, e Escalation) error {
	if len(m.escalators) == 0 {
		return nil
	}

	errs := make([]error, len(m.escalators))
	var wg sync.WaitGroup
	for i, esc := range m.escalators {
		wg.Add(1)
		go func(i int, esc Escalator) {
			defer wg.Done()
			if err := esc.Escalate(ctx, e); err != nil {
				errs[i] = fmt.Errorf("%s: %w", esc.Name(), err)
			}
		}(i, esc)
	}

	wg.Wait()
	return errors.Join(errs...)
}

// Name returns "multi"
func (m *Multi) Name() string {
	return "multi"
}
