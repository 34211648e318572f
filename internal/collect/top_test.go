package collect

import (
	"context"
	"testing"

	"github.com/kubectl-smart/kubectl-smart/internal/kubeclient"
)

func TestTop_GathersNamespaceResourcesNodesAndMetrics(t *testing.T) {
	fc := kubeclient.NewFakeClient()
	fc.Objects["Pod"] = []kubeclient.RawObject{{Kind: "Pod", Namespace: "prod", Name: "web-1"}}
	fc.Objects["PersistentVolumeClaim"] = []kubeclient.RawObject{{Kind: "PersistentVolumeClaim", Namespace: "prod", Name: "data"}}
	fc.Objects["Secret"] = []kubeclient.RawObject{{Kind: "Secret", Namespace: "prod", Name: "web-tls"}}
	fc.Objects["Node"] = []kubeclient.RawObject{{Kind: "Node", Name: "node-1"}}
	fc.RawByPath["/api/v1/nodes/node-1/proxy/metrics"] = []byte("kubelet_volume_stats_used_bytes 1")
	fc.TopPodEntries = []kubeclient.TopEntry{{Namespace: "prod", Name: "web-1", CPUMillicores: 100}}
	fc.TopNodeEntries = []kubeclient.TopEntry{{Name: "node-1", CPUMillicores: 500}}

	res, err := Top(context.Background(), fc, "prod", testOptions())
	if err != nil {
		t.Fatalf("Top returned error: %v", err)
	}
	if len(res.TopPods) != 1 || len(res.TopNodes) != 1 {
		t.Fatalf("expected metrics snapshots, got pods=%d nodes=%d", len(res.TopPods), len(res.TopNodes))
	}
	if len(res.VolumeMetrics) != 1 {
		t.Fatalf("expected one node's kubelet metrics fetched, got %d", len(res.VolumeMetrics))
	}
	foundPod, foundPVC, foundSecret, foundNode := false, false, false, false
	for _, o := range res.Objects {
		switch o.Kind {
		case "Pod":
			foundPod = true
		case "PersistentVolumeClaim":
			foundPVC = true
		case "Secret":
			foundSecret = true
		case "Node":
			foundNode = true
		}
	}
	if !foundPod || !foundPVC || !foundSecret || !foundNode {
		t.Errorf("expected all resource kinds collected, got %+v", res.Objects)
	}
}

func TestTop_ForbiddenKindBecomesPartialNotFatal(t *testing.T) {
	fc := kubeclient.NewFakeClient()
	fc.Forbidden["Ingress"] = true

	res, err := Top(context.Background(), fc, "prod", testOptions())
	if err != nil {
		t.Fatalf("Top should not fail when only one kind is forbidden, got %v", err)
	}
	found := false
	for _, p := range res.Partial {
		if p.Source == "ListNamespaced/Ingress" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a partial error for the forbidden Ingress list, got %+v", res.Partial)
	}
}
