package addoncart

import (
	"context"
	"sync"

	"go.uber.org/multierr"
)

// journal records the inverse of every applied mutation so a failed request
// can be rolled back in reverse order. Safe for concurrent recording.
type journal struct {
	mu    sync.Mutex
	steps []journalStep
}

type journalStep struct {
	description string
	undo        func(ctx context.Context) error
}

// record registers the inverse action for a mutation that just succeeded.
func (j *journal) record(description string, undo func(ctx context.Context) error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.steps = append(j.steps, journalStep{description: description, undo: undo})
}

// rollback undoes every recorded step in reverse order. It always attempts
// all steps; failures are aggregated rather than short-circuited, since every
// step skipped is state left behind for manual reconciliation.
func (j *journal) rollback(ctx context.Context) ([]string, error) {
	j.mu.Lock()
	steps := make([]journalStep, len(j.steps))
	copy(steps, j.steps)
	j.mu.Unlock()

	var err error
	var failed []string
	for i := len(steps) - 1; i >= 0; i-- {
		if undoErr := steps[i].undo(ctx); undoErr != nil {
			failed = append(failed, steps[i].description)
			err = multierr.Append(err, undoErr)
		}
	}
	return failed, err
}
