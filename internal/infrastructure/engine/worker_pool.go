package engine

import (
	"context"
	"fmt"

	"github.com/reglet-dev/classlist/internal/domain/checking"
	"github.com/reglet-dev/classlist/internal/domain/entities"
	"golang.org/x/sync/errgroup"
)

// workerPoolState holds one parallel resolution run. Entries have no
// dependencies on each other here: id references were settled in phase 1.
type workerPoolState struct {
	// Immutable after initialization
	entries []*entities.ClassListEntry

	// Each worker writes only the slot of the index it received.
	results []checking.Resolution

	workChan chan int

	ctx      context.Context
	cancel   context.CancelFunc
	errGroup *errgroup.Group

	engine *Engine
}

func (e *Engine) initializeWorkerPoolState(ctx context.Context, entries []*entities.ClassListEntry) *workerPoolState {
	groupCtx, cancel := context.WithCancel(ctx)
	g, gCtx := errgroup.WithContext(groupCtx)

	return &workerPoolState{
		entries:  entries,
		results:  make([]checking.Resolution, len(entries)),
		workChan: make(chan int, e.config.MaxConcurrency),
		ctx:      gCtx,
		cancel:   cancel,
		errGroup: g,
		engine:   e,
	}
}

// dispatch feeds entry indexes to the workers in file order.
func (state *workerPoolState) dispatch() error {
	defer close(state.workChan)

	for i := range state.entries {
		select {
		case state.workChan <- i:
		case <-state.ctx.Done():
			return state.ctx.Err()
		}
	}
	return nil
}

// executeWorker resolves entries until workChan is closed.
func (state *workerPoolState) executeWorker() error {
	for i := range state.workChan {
		if err := state.ctx.Err(); err != nil {
			return err
		}
		state.results[i] = state.engine.resolveEntry(state.ctx, i, state.entries[i])
	}
	return nil
}

func (e *Engine) resolveWithWorkerPool(ctx context.Context, entries []*entities.ClassListEntry) ([]checking.Resolution, error) {
	state := e.initializeWorkerPoolState(ctx, entries)
	defer state.cancel()

	numWorkers := e.config.MaxConcurrency
	if numWorkers > len(entries) {
		numWorkers = len(entries)
	}

	for i := 0; i < numWorkers; i++ {
		state.errGroup.Go(state.executeWorker)
	}
	state.errGroup.Go(state.dispatch)

	if err := state.errGroup.Wait(); err != nil {
		return nil, fmt.Errorf("worker pool resolution failed: %w", err)
	}
	return state.results, nil
}
