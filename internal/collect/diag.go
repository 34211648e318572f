package collect

import (
	"context"

	"github.com/kubectl-smart/kubectl-smart/internal/kubeclient"
	"github.com/kubectl-smart/kubectl-smart/internal/model"
)

// Diag gathers everything a diag run needs for one subject: the subject
// itself, its child pods when it is a controller, events for the whole
// family, and per-container log tails (plus previous-container logs when a
// container has restarted). Only the subject's own NotFound is fatal;
// every other failure becomes a PartialError.
func Diag(ctx context.Context, cc kubeclient.ClusterClient, kind, namespace, name string, opts Options) (*Result, error) {
	callCtx, cancel := withCallTimeout(ctx, opts)
	subject, err := cc.Get(callCtx, kind, namespace, name)
	cancel()
	if err != nil {
		return nil, err
	}

	r, gctx := newRunner(ctx, opts)
	r.addObjects(subject)

	r.go_(func() error {
		c, cancel := withCallTimeout(gctx, opts)
		defer cancel()
		evs, err := cc.Events(c, kubeclient.EventFilter{Kind: kind, Namespace: namespace, Name: name})
		if err != nil {
			r.noteError("Events", err)
			return nil
		}
		r.addEvents(evs...)
		return nil
	})

	resolvedKind := model.ParseKind(kind)
	if resolvedKind.IsController() {
		r.go_(func() error {
			collectChildPods(gctx, r, cc, subject, namespace, opts)
			return nil
		})
	} else if resolvedKind == model.KindPod {
		r.go_(func() error {
			collectPodLogsAndEvents(gctx, r, cc, subject, opts)
			return nil
		})
	}

	res := r.finish()
	return res, nil
}

// collectChildPods lists namespace pods and keeps the ones whose labels are
// a superset of the controller's selector (spec.selector.matchLabels),
// then fans out events and logs for each. Falls back to nothing found if
// the controller carries no selector, which the graph/scoring layers treat
// as "no children observed" rather than an error.
func collectChildPods(ctx context.Context, r *runner, cc kubeclient.ClusterClient, subject kubeclient.RawObject, namespace string, opts Options) {
	selector := selectorLabels(subject)
	if len(selector) == 0 {
		return
	}

	c, cancel := withCallTimeout(ctx, opts)
	pods, err := cc.ListNamespaced(c, "Pod", namespace)
	cancel()
	if err != nil {
		r.noteError("ListNamespaced/Pod", err)
		return
	}

	var children []kubeclient.RawObject
	for _, p := range pods {
		if labelsSubset(podLabels(p), selector) {
			children = append(children, p)
		}
	}
	r.addObjects(children...)

	for _, pod := range children {
		pod := pod
		r.go_(func() error {
			collectPodLogsAndEvents(ctx, r, cc, pod, opts)
			return nil
		})
	}
}

// collectPodLogsAndEvents fetches events plus per-container log tails
// (tail=100) for one pod, adding previous-container logs whenever a
// container's observed restartCount > 0.
func collectPodLogsAndEvents(ctx context.Context, r *runner, cc kubeclient.ClusterClient, pod kubeclient.RawObject, opts Options) {
	c, cancel := withCallTimeout(ctx, opts)
	evs, err := cc.Events(c, kubeclient.EventFilter{Kind: "Pod", Namespace: pod.Namespace, Name: pod.Name})
	cancel()
	if err != nil {
		r.noteError("Events/"+pod.Name, err)
	} else {
		r.addEvents(evs...)
	}

	for _, cs := range containerStatuses(pod) {
		cs := cs
		r.go_(func() error {
			fetchLogTail(ctx, r, cc, pod, cs.name, false, opts)
			return nil
		})
		if cs.restartCount > 0 {
			r.go_(func() error {
				fetchLogTail(ctx, r, cc, pod, cs.name, true, opts)
				return nil
			})
		}
	}
}

func fetchLogTail(ctx context.Context, r *runner, cc kubeclient.ClusterClient, pod kubeclient.RawObject, container string, previous bool, opts Options) {
	c, cancel := withCallTimeout(ctx, opts)
	defer cancel()
	text, err := cc.Logs(c, pod.Namespace, pod.Name, container, 100, previous)
	if err != nil {
		// Forbidden and every other failure kind land in Partial the same
		// way; the render layer decides how to phrase each Kind.
		r.noteError("Logs/"+pod.Name+"/"+container, err)
		return
	}
	r.setLog(logKey(pod.Namespace, pod.Name, container, previous), text)
}

func selectorLabels(obj kubeclient.RawObject) map[string]string {
	spec, _ := obj.Object["spec"].(map[string]any)
	if spec == nil {
		return nil
	}
	sel, _ := spec["selector"].(map[string]any)
	if sel == nil {
		return nil
	}
	if match, ok := sel["matchLabels"].(map[string]any); ok {
		return toStringMap(match)
	}
	// Job/ReplicationController style: selector *is* the label map.
	return toStringMap(sel)
}

func toStringMap(m map[string]any) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		if s, ok := v.(string); ok {
			out[k] = s
		}
	}
	return out
}

func podLabels(obj kubeclient.RawObject) map[string]string {
	meta, _ := obj.Object["metadata"].(map[string]any)
	labels, _ := meta["labels"].(map[string]any)
	return toStringMap(labels)
}

func labelsSubset(labels, selector map[string]string) bool {
	if len(selector) == 0 {
		return false
	}
	for k, v := range selector {
		if labels[k] != v {
			return false
		}
	}
	return true
}

type containerStatus struct {
	name         string
	restartCount int
}

func containerStatuses(pod kubeclient.RawObject) []containerStatus {
	status, _ := pod.Object["status"].(map[string]any)
	items, _ := status["containerStatuses"].([]any)
	var out []containerStatus
	for _, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		cs := containerStatus{}
		cs.name, _ = m["name"].(string)
		if rc, ok := m["restartCount"].(float64); ok {
			cs.restartCount = int(rc)
		}
		if cs.name != "" {
			out = append(out, cs)
		}
	}
	return out
}
