package collect

import (
	"context"
	"fmt"

	"github.com/kubectl-smart/kubectl-smart/internal/kubeclient"
)

// topResourceKinds are the namespaced kinds the top command lists. Secrets
// feed the certificate scan and Ingresses its referenced-by lists; the Pod,
// PersistentVolumeClaim and Service lists are collected but not read by
// the top orchestrator.
var topResourceKinds = []string{
	"Pod", "PersistentVolumeClaim", "Service", "Ingress", "Secret",
}

// Top gathers every resource, node, and metrics snapshot a namespace-wide
// capacity/certificate forecast needs. Node status is cluster-scoped so it
// is always fetched in full regardless of namespace.
func Top(ctx context.Context, cc kubeclient.ClusterClient, namespace string, opts Options) (*Result, error) {
	r, gctx := newRunner(ctx, opts)

	for _, k := range topResourceKinds {
		k := k
		r.go_(func() error {
			c, cancel := withCallTimeout(gctx, opts)
			defer cancel()
			items, err := cc.ListNamespaced(c, k, namespace)
			if err != nil {
				r.noteError("ListNamespaced/"+k, err)
				return nil
			}
			r.addObjects(items...)
			return nil
		})
	}

	var nodes []kubeclient.RawObject
	r.go_(func() error {
		c, cancel := withCallTimeout(gctx, opts)
		defer cancel()
		items, err := cc.ListNamespaced(c, "Node", "")
		if err != nil {
			r.noteError("ListNamespaced/Node", err)
			return nil
		}
		r.addObjects(items...)
		nodes = items
		return nil
	})

	r.go_(func() error {
		c, cancel := withCallTimeout(gctx, opts)
		defer cancel()
		entries, err := cc.TopPods(c, namespace)
		if err != nil {
			r.noteError("TopPods", err)
			return nil
		}
		r.setTopPods(entries)
		return nil
	})

	r.go_(func() error {
		c, cancel := withCallTimeout(gctx, opts)
		defer cancel()
		entries, err := cc.TopNodes(c)
		if err != nil {
			r.noteError("TopNodes", err)
			return nil
		}
		r.setTopNodes(entries)
		return nil
	})

	res := r.finish()

	// Kubelet volume metrics require node names, which only became
	// available once the Node list above landed; fan these out in a
	// second, short wave rather than blocking the first on node discovery.
	if len(nodes) > 0 {
		r2, gctx2 := newRunner(ctx, opts)
		r2.result = res
		for _, node := range nodes {
			node := node
			r2.go_(func() error {
				c, cancel := withCallTimeout(gctx2, opts)
				defer cancel()
				path := fmt.Sprintf("/api/v1/nodes/%s/proxy/metrics", node.Name)
				b, err := cc.RawGet(c, path)
				if err != nil {
					r2.noteError("RawGet/"+node.Name, err)
					return nil
				}
				r2.addVolumeMetrics(b)
				return nil
			})
		}
		res = r2.finish()
	}

	return res, nil
}
