package collect

import (
	"context"

	"github.com/kubectl-smart/kubectl-smart/internal/kubeclient"
)

// graphNeighborKinds is every kind the GraphBuilder's edge ruleset can
// connect a subject to, regardless of the subject's own kind — pulling all
// of them keeps the graph collector simple at the cost of a few
// short-lived unused lists when a subject has no edges of that type.
var graphNeighborKinds = []string{
	"Pod", "ReplicaSet", "Deployment", "StatefulSet", "DaemonSet", "Job",
	"Node", "Service", "Ingress", "ConfigMap", "Secret",
	"PersistentVolumeClaim", "PersistentVolume", "ServiceAccount",
	"HorizontalPodAutoscaler", "NetworkPolicy", "Endpoints",
}

// Graph gathers the subject plus every candidate neighbor in its namespace
// (and every Node and PersistentVolume, since those are cluster-scoped)
// sufficient for GraphBuilder to resolve edges without a second round trip.
func Graph(ctx context.Context, cc kubeclient.ClusterClient, kind, namespace, name string, opts Options) (*Result, error) {
	callCtx, cancel := withCallTimeout(ctx, opts)
	subject, err := cc.Get(callCtx, kind, namespace, name)
	cancel()
	if err != nil {
		return nil, err
	}

	r, gctx := newRunner(ctx, opts)
	r.addObjects(subject)

	for _, k := range graphNeighborKinds {
		k := k
		ns := namespace
		if k == "Node" || k == "PersistentVolume" {
			ns = ""
		}
		r.go_(func() error {
			c, cancel := withCallTimeout(gctx, opts)
			defer cancel()
			items, err := cc.ListNamespaced(c, k, ns)
			if err != nil {
				r.noteError("ListNamespaced/"+k, err)
				return nil
			}
			r.addObjects(items...)
			return nil
		})
	}

	return r.finish(), nil
}
