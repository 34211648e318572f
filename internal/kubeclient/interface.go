package kubeclient

import (
	"context"
	"time"
)

// EventFilter narrows an Events() call to a single involved object family
// (kind + namespace + name), matching how the Kubernetes events API is
// actually queried via a field selector.
type EventFilter struct {
	Kind      string
	Namespace string
	Name      string
}

// TopEntry is one row of a `kubectl top` style tabular snapshot.
type TopEntry struct {
	Namespace       string
	Name            string
	CPUMillicores   int64
	MemoryBytes     int64
	Available       bool // false when metrics-server has no data yet for this object
}

// ClusterClient is the sole boundary between the diagnostic pipeline and a
// live cluster. Every method is non-mutating; the set below is exhaustive
// on purpose so a reviewer can audit read-only-ness at a glance.
type ClusterClient interface {
	// ListNamespaced returns raw unstructured items for kind in namespace
	// ("" lists across all namespaces the caller can see).
	ListNamespaced(ctx context.Context, kind, namespace string) ([]RawObject, error)

	// Get returns a single raw object, or a NotFound classified error.
	Get(ctx context.Context, kind, namespace, name string) (RawObject, error)

	// Describe renders a `kubectl describe`-equivalent text block,
	// including recent events, for verbose status display.
	Describe(ctx context.Context, kind, namespace, name string) (string, error)

	// Events lists events matching filter in API-server order, capped at
	// 200; parse.Events does the newest-first sort.
	Events(ctx context.Context, filter EventFilter) ([]RawObject, error)

	// Logs returns up to tail lines from container's log stream.
	// previous requests the previous terminated container's logs.
	Logs(ctx context.Context, namespace, pod, container string, tail int64, previous bool) (string, error)

	// TopPods returns the latest CPU/memory snapshot for pods in
	// namespace ("" for all namespaces).
	TopPods(ctx context.Context, namespace string) ([]TopEntry, error)

	// TopNodes returns the latest CPU/memory snapshot for every node.
	TopNodes(ctx context.Context) ([]TopEntry, error)

	// RawGet performs an authenticated GET against an API server relative
	// path (used for node-proxy kubelet endpoints such as
	// /api/v1/nodes/<node>/proxy/metrics).
	RawGet(ctx context.Context, path string) ([]byte, error)

	// CurrentContext returns the kubeconfig context name in use.
	CurrentContext() string

	// CanI reports whether the current identity may perform verb on
	// resource in namespace, using SelfSubjectAccessReview.
	CanI(ctx context.Context, verb, resource, namespace string) (bool, error)
}

// RawObject is a decoded-to-map representation of one API object, kept
// generic so Parsers stay decoupled from client-go's typed API structs and
// tolerate unknown/CRD fields per spec.
type RawObject struct {
	Kind      string
	Namespace string
	Name      string
	Object    map[string]any
}

// DefaultCallTimeout is the per-call deadline applied when a caller does
// not already carry a shorter one.
const DefaultCallTimeout = 1 * time.Second
