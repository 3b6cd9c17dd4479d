// Package syncerr runs groups of tasks and collects their errors.
//
// Task errors carrying a trackable history are tracked at the place the
// task was started, so the report of an error coming out of a group
// shows which Go call launched the failing task. Tasks must return
// error values of their own for this.
package syncerr

import (
	"context"
	"fmt"
	"runtime"
	"strings"
	"sync"

	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"

	"github.com/secureworks/trackable"
)

// CoordinatedGroup runs tasks that succeed or fail together: the first
// task error is the group's error, and it cancels the context shared by
// the group when there is one.
//
// A zero CoordinatedGroup is valid, has no shared context, and does not
// cancel on error.
type CoordinatedGroup struct {
	once sync.Once
	eg   *errgroup.Group
}

// NewCoordinatedGroup returns a new CoordinatedGroup and an associated
// context derived from ctx.
//
// The derived context is cancelled the first time a task returns an
// error or the first time Wait returns, whichever occurs first.
func NewCoordinatedGroup(ctx context.Context) (*CoordinatedGroup, context.Context) {
	eg, ctx := errgroup.WithContext(ctx)
	g := &CoordinatedGroup{eg: eg}
	g.once.Do(func() {})
	return g, ctx
}

func (g *CoordinatedGroup) group() *errgroup.Group {
	g.once.Do(func() { g.eg = new(errgroup.Group) })
	return g.eg
}

// SetLimit limits the number of active tasks in the group to at most
// n. A negative value indicates no limit. It must not be called while
// tasks are active.
func (g *CoordinatedGroup) SetLimit(n int) { g.group().SetLimit(n) }

// Go calls the given task in a new goroutine. When the task fails, the
// error is tracked at the caller of Go with the name as a note, or
// prefixed with the name when it cannot be tracked.
//
// Tracking appends to the history of the returned error, so tasks must
// return errors of their own. Tasks returning one shared TrackableError
// race on its history.
func (g *CoordinatedGroup) Go(task func() error, name ...string) {
	run := launch(task, name)
	g.group().Go(run)
}

// Wait blocks until all tasks have returned, then returns the first
// error (if any) from them.
func (g *CoordinatedGroup) Wait() error { return g.group().Wait() }

// ParallelGroup runs tasks independently of each other, and collects
// every task error.
//
// A zero ParallelGroup is valid.
type ParallelGroup struct {
	eg errgroup.Group

	mu  sync.Mutex
	err error
}

// Go calls the given task in a new goroutine. Task errors are named and
// tracked as with CoordinatedGroup.Go, and the same rule applies: each
// task returns its own error value.
func (g *ParallelGroup) Go(task func() error, name ...string) {
	run := launch(task, name)
	g.eg.Go(func() error {
		if err := run(); err != nil {
			g.mu.Lock()
			multierr.AppendInto(&g.err, err)
			g.mu.Unlock()
		}
		return nil
	})
}

// Wait blocks until all tasks have returned, then returns the combined
// errors of all of them, or nil when every task succeeded.
func (g *ParallelGroup) Wait() error {
	_ = g.eg.Wait()
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.err
}

// WaitForErrors is Wait with the errors split apart.
func (g *ParallelGroup) WaitForErrors() []error {
	return multierr.Errors(g.Wait())
}

// launch wraps the task to name and track its error. It must be called
// directly from the Go methods: the recorded location is their caller.
//
//go:noinline
func launch(task func() error, names []string) func() error {
	var pcs [1]uintptr
	runtime.Callers(3, pcs[:])
	name := strings.Join(names, " ")

	return func() error {
		err := task()
		if err == nil {
			return nil
		}
		if trackable.InTracking[trackable.Location](trackerOf(err)) {
			return trackable.TrackFunc(err, func() trackable.Location {
				return trackable.LocationFromPC(pcs[0], name)
			})
		}
		if name != "" {
			return fmt.Errorf("%s: %w", name, err)
		}
		return err
	}
}

func trackerOf(err error) trackable.Trackable[trackable.Location] {
	var t trackable.Trackable[trackable.Location]
	if trackable.As(err, &t) {
		return t
	}
	return nil
}
