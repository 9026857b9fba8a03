// Package jobmgr runs named background jobs tied to a parent context, with
// lifecycle reporting and a way to wait for all of them on shutdown.
//
// Typical usage:
//
//	jm := jobmgr.NewManager(func(ev jobmgr.Event) {
//	    log.Println("JOB:", ev.State, ev.Name, ev.Err)
//	})
//
//	_ = jm.Start(ctx, "sweeper", func(ctx context.Context) error {
//	    <-ctx.Done()
//	    return nil
//	})
//
//	for _, name := range jm.List() {
//	    _ = jm.Stop(name)
//	}
//	jm.Wait()
package jobmgr

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
)

var (
	ErrAlreadyRunning = errors.New("job is already running")
	ErrNotRunning     = errors.New("job is not running")
)

// State is a job lifecycle step.
type State string

const (
	StateRunning State = "running"
	StateDone    State = "done"
	StateFailed  State = "failed"
)

// Event is delivered to the reporter on every lifecycle change.
type Event struct {
	Name  string
	State State
	Err   error
}

// Reporter receives job lifecycle events. It may be called from any goroutine.
type Reporter func(Event)

// Manager starts, stops and tracks jobs. It is safe for concurrent use.
type Manager struct {
	mu       sync.Mutex
	jobs     map[string]*job
	nextID   uint64
	wg       sync.WaitGroup
	reporter Reporter
}

// job is one start of a named job; id tells restarts under the same name apart.
type job struct {
	id     uint64
	cancel context.CancelFunc
}

// NewManager creates a new Manager. The reporter may be nil.
func NewManager(reporter Reporter) *Manager {
	return &Manager{
		jobs:     make(map[string]*job),
		reporter: reporter,
	}
}

// Start runs fn in its own goroutine with a context derived from parent.
// Jobs are removed automatically when fn returns. A stopped job's name can be
// reused right away, even while the old goroutine is still winding down.
func (m *Manager) Start(parent context.Context, name string, fn func(ctx context.Context) error) error {
	m.mu.Lock()
	if _, exists := m.jobs[name]; exists {
		m.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrAlreadyRunning, name)
	}
	ctx, cancel := context.WithCancel(parent)
	m.nextID++
	self := &job{id: m.nextID, cancel: cancel}
	m.jobs[name] = self
	m.wg.Add(1)
	m.mu.Unlock()

	go func() {
		defer m.wg.Done()
		defer cancel()

		m.report(Event{Name: name, State: StateRunning})
		err := fn(ctx)
		if err != nil && !errors.Is(err, context.Canceled) {
			m.report(Event{Name: name, State: StateFailed, Err: err})
		} else {
			m.report(Event{Name: name, State: StateDone})
		}

		m.mu.Lock()
		if cur, ok := m.jobs[name]; ok && cur.id == self.id {
			delete(m.jobs, name)
		}
		m.mu.Unlock()
	}()

	return nil
}

// Stop cancels a running job by name and forgets it.
func (m *Manager) Stop(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	j, ok := m.jobs[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotRunning, name)
	}
	j.cancel()
	delete(m.jobs, name)
	return nil
}

// Wait blocks until every started job has returned.
func (m *Manager) Wait() {
	m.wg.Wait()
}

// List returns the names of active jobs, sorted.
func (m *Manager) List() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]string, 0, len(m.jobs))
	for k := range m.jobs {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func (m *Manager) report(ev Event) {
	if m.reporter != nil {
		m.reporter(ev)
	}
}
