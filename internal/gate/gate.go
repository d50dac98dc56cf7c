// Package gate decides whether a task may be completed given its dependencies,
// fetching unknown dependency tasks lazily and concurrently.
package gate

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/alexanderramin/daywise/internal/domain"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

// BlockReason classifies why a task is blocked.
type BlockReason string

const (
	ReasonNone BlockReason = ""
	// ReasonIncomplete means at least one named dependency is not DONE.
	ReasonIncomplete BlockReason = "incomplete_dependencies"
	// ReasonUnresolved means some dependency could not be found or fetched,
	// and no named dependency is known to be incomplete.
	ReasonUnresolved BlockReason = "unresolved_dependencies"
)

// MessageUnverified is shown when the gate cannot tell what blocks a task.
const MessageUnverified = "Cannot verify dependencies; try again once they are reachable"

// FetchFunc loads a task by id. A nil task with a nil error means not found.
type FetchFunc func(ctx context.Context, id string) (*domain.Task, error)

// Dependency is the resolution of one dependency id.
type Dependency struct {
	ID       string
	Title    string
	Status   domain.TaskStatus
	Resolved bool
}

// Result explains a gate decision.
type Result struct {
	TaskID         string
	Blocked        bool
	Reason         BlockReason
	Message        string
	BlockingTitles []string
	UnresolvedIDs  []string
	Dependencies   []Dependency
}

// Gate checks dependency completion. The zero value is not usable; use New.
type Gate struct {
	fetch  FetchFunc
	cache  *Cache
	flight singleflight.Group
	logger *slog.Logger
}

// New creates a Gate. A nil fetch disables the lazy fallback (unknown ids stay
// unresolved); a nil cache gets a fresh one; a nil logger discards output.
func New(fetch FetchFunc, cache *Cache, logger *slog.Logger) *Gate {
	if cache == nil {
		cache = NewCache()
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Gate{fetch: fetch, cache: cache, logger: logger}
}

// Cache exposes the session cache shared by every check on this Gate.
func (g *Gate) Cache() *Cache {
	return g.cache
}

// Check resolves task's dependencies (known first, then the cache, then a
// concurrent fetch of everything still missing) and evaluates them.
func (g *Gate) Check(ctx context.Context, task domain.Task, known map[string]domain.Task) Result {
	return g.CheckAll(ctx, []domain.Task{task}, known)[task.ID]
}

// CheckAll checks several tasks with a single fetch round for the union of
// their missing dependency ids. Results are keyed by task id.
func (g *Gate) CheckAll(ctx context.Context, tasks []domain.Task, known map[string]domain.Task) map[string]Result {
	var missing []string
	seen := make(map[string]bool)
	for _, t := range tasks {
		for _, id := range dependencyIDs(t) {
			if seen[id] {
				continue
			}
			seen[id] = true
			if _, ok := known[id]; ok {
				continue
			}
			if _, ok := g.cache.Get(id); ok {
				continue
			}
			missing = append(missing, id)
		}
	}

	g.cache.Merge(g.fetchAll(ctx, missing))

	lookup := func(id string) (domain.Task, bool) {
		if t, ok := known[id]; ok {
			return t, true
		}
		return g.cache.Get(id)
	}
	results := make(map[string]Result, len(tasks))
	for _, t := range tasks {
		results[t.ID] = Evaluate(t, lookup)
	}
	return results
}

// fetchAll fetches ids concurrently and returns the tasks that resolved.
// Failures are logged and left unresolved; all fetches settle before return.
func (g *Gate) fetchAll(ctx context.Context, ids []string) map[string]domain.Task {
	if g.fetch == nil || len(ids) == 0 {
		return nil
	}

	found := make([]*domain.Task, len(ids))
	var eg errgroup.Group
	for i, id := range ids {
		eg.Go(func() error {
			v, err, _ := g.flight.Do(id, func() (interface{}, error) {
				return g.fetch(ctx, id)
			})
			if err != nil {
				g.logger.Debug("dependency fetch failed", "task_id", id, "error", err)
				return nil
			}
			if t, ok := v.(*domain.Task); ok && t != nil {
				found[i] = t
			}
			return nil
		})
	}
	_ = eg.Wait()

	fetched := make(map[string]domain.Task, len(ids))
	for i, t := range found {
		if t != nil {
			fetched[ids[i]] = *t
		}
	}
	return fetched
}

// Evaluate is the pure decision over already-resolved dependencies.
func Evaluate(task domain.Task, lookup func(id string) (domain.Task, bool)) Result {
	res := Result{TaskID: task.ID}
	for _, id := range dependencyIDs(task) {
		dep, ok := lookup(id)
		if !ok {
			res.UnresolvedIDs = append(res.UnresolvedIDs, id)
			res.Dependencies = append(res.Dependencies, Dependency{ID: id})
			continue
		}
		res.Dependencies = append(res.Dependencies, Dependency{
			ID: id, Title: dep.Title, Status: dep.Status, Resolved: true,
		})
		if !dep.IsDone() {
			res.BlockingTitles = append(res.BlockingTitles, domain.CoalesceStr(dep.Title, id))
		}
	}

	switch {
	case len(res.BlockingTitles) > 0:
		res.Blocked = true
		res.Reason = ReasonIncomplete
		res.Message = "Complete dependencies first: " + strings.Join(res.BlockingTitles, ", ")
		if n := len(res.UnresolvedIDs); n > 0 {
			res.Message += fmt.Sprintf(" (%d more could not be verified)", n)
		}
	case len(res.UnresolvedIDs) > 0:
		res.Blocked = true
		res.Reason = ReasonUnresolved
		res.Message = MessageUnverified
	}
	return res
}

// dependencyIDs returns task's dependency ids in order, without duplicates,
// blanks or self-references.
func dependencyIDs(task domain.Task) []string {
	if len(task.DependencyIDs) == 0 {
		return nil
	}
	out := make([]string, 0, len(task.DependencyIDs))
	seen := make(map[string]bool, len(task.DependencyIDs))
	for _, id := range task.DependencyIDs {
		if id == "" || id == task.ID || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
