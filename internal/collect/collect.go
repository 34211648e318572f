// Package collect fetches the raw artifacts each command needs from a
// ClusterClient, fanning calls out with a bounded worker pool and turning
// individual failures into partial errors instead of aborting the run.
package collect

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	smarterrors "github.com/kubectl-smart/kubectl-smart/internal/errors"
	"github.com/kubectl-smart/kubectl-smart/internal/kubeclient"
)

// PartialError is a non-fatal collection failure surfaced to the render
// layer's notes[] channel instead of aborting the run.
type PartialError struct {
	Source  string
	Kind    smarterrors.Kind
	Message string
}

// Options bounds a collection run's concurrency and deadlines.
type Options struct {
	MaxConcurrent    int
	CollectorTimeout time.Duration
	RunTimeout       time.Duration
}

// DefaultOptions matches spec defaults: cap 5, 1s per call, 3s per run.
func DefaultOptions() Options {
	return Options{MaxConcurrent: 5, CollectorTimeout: time.Second, RunTimeout: 3 * time.Second}
}

// Result aggregates everything a set of collectors fetched for one run.
type Result struct {
	Objects       []kubeclient.RawObject
	Events        []kubeclient.RawObject
	LogTails      map[string]string // key "namespace/pod/container[|previous]"
	TopPods       []kubeclient.TopEntry
	TopNodes      []kubeclient.TopEntry
	VolumeMetrics [][]byte // raw kubelet Prometheus exposition, one per node reached
	Partial       []PartialError
}

func newResult() *Result {
	return &Result{LogTails: map[string]string{}}
}

// runner fans work out over a bounded goroutine pool under a run deadline,
// collecting partial errors under a mutex instead of failing the group.
type runner struct {
	mu     sync.Mutex
	result *Result
	group  *errgroup.Group
}

func newRunner(ctx context.Context, opts Options) (*runner, context.Context) {
	runCtx, cancel := context.WithTimeout(ctx, opts.RunTimeout)
	g, gctx := errgroup.WithContext(runCtx)
	g.SetLimit(opts.MaxConcurrent)
	r := &runner{result: newResult(), group: g}
	// cancel is invoked when the caller's Wait unwinds; wrapping gctx keeps
	// call sites from having to thread cancel() through separately.
	go func() {
		<-gctx.Done()
		cancel()
	}()
	return r, gctx
}

func (r *runner) go_(fn func() error) {
	r.group.Go(fn)
}

func (r *runner) noteError(source string, err error) {
	if err == nil {
		return
	}
	kind := smarterrors.KindOf(err)
	r.mu.Lock()
	defer r.mu.Unlock()
	r.result.Partial = append(r.result.Partial, PartialError{
		Source:  source,
		Kind:    kind,
		Message: err.Error(),
	})
}

func (r *runner) addObjects(objs ...kubeclient.RawObject) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.result.Objects = append(r.result.Objects, objs...)
}

func (r *runner) addEvents(evs ...kubeclient.RawObject) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.result.Events = append(r.result.Events, evs...)
}

func (r *runner) setLog(key, text string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.result.LogTails[key] = text
}

func (r *runner) setTopPods(entries []kubeclient.TopEntry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.result.TopPods = entries
}

func (r *runner) setTopNodes(entries []kubeclient.TopEntry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.result.TopNodes = entries
}

func (r *runner) addVolumeMetrics(b []byte) {
	if len(b) == 0 {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.result.VolumeMetrics = append(r.result.VolumeMetrics, b)
}

func (r *runner) finish() *Result {
	_ = r.group.Wait()
	return r.result
}

func withCallTimeout(ctx context.Context, opts Options) (context.Context, context.CancelFunc) {
	d := opts.CollectorTimeout
	if d <= 0 {
		d = kubeclient.DefaultCallTimeout
	}
	return context.WithTimeout(ctx, d)
}

func logKey(namespace, pod, container string, previous bool) string {
	if previous {
		return fmt.Sprintf("%s/%s/%s|previous", namespace, pod, container)
	}
	return fmt.Sprintf("%s/%s/%s", namespace, pod, container)
}
