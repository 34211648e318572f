package graph

import (
	"testing"

	"github.com/kubectl-smart/kubectl-smart/internal/model"
	"github.com/kubectl-smart/kubectl-smart/internal/parse"
)

func newRecord(kind model.ResourceKind, ns, name string) *model.ResourceRecord {
	return model.NewResourceRecord(kind, ns, name)
}

func TestBuilder_OwnerEdge(t *testing.T) {
	rs := newRecord(model.KindReplicaSet, "default", "web-abc123")
	pod := newRecord(model.KindPod, "default", "web-abc123-xyz")
	pod.Properties["ownerReferences"] = []parse.OwnerRef{
		{Kind: "ReplicaSet", Name: "web-abc123", Controller: true},
	}

	b := NewBuilder()
	b.Add(rs)
	b.Add(pod)
	g := b.Build()

	out := g.Out(rs.UID)
	if len(out) != 1 || out[0].Label != model.EdgeOwns || out[0].To != pod.UID {
		t.Fatalf("expected one owns edge rs->pod, got %+v", out)
	}
}

func TestBuilder_PodScheduledOnNode(t *testing.T) {
	node := newRecord(model.KindNode, "", "node-1")
	pod := newRecord(model.KindPod, "default", "web-1")
	pod.Properties["nodeName"] = "node-1"

	b := NewBuilder()
	b.Add(node)
	b.Add(pod)
	g := b.Build()

	out := g.Out(pod.UID)
	if len(out) != 1 || out[0].Label != model.EdgeScheduledOn || out[0].To != node.UID {
		t.Fatalf("expected pod->node scheduled-on edge, got %+v", out)
	}
}

func TestBuilder_PodMountsConfigMapAndSecret(t *testing.T) {
	cm := newRecord(model.KindConfigMap, "default", "app-config")
	sec := newRecord(model.KindSecret, "default", "app-secret")
	pod := newRecord(model.KindPod, "default", "web-1")
	pod.Properties["volumeMounts"] = []parse.VolumeMount{
		{Name: "cfg", ConfigMapName: "app-config"},
		{Name: "sec", SecretName: "app-secret"},
	}

	b := NewBuilder()
	b.Add(cm)
	b.Add(sec)
	b.Add(pod)
	g := b.Build()

	out := g.Out(pod.UID)
	if len(out) != 2 {
		t.Fatalf("expected 2 mounts edges, got %d: %+v", len(out), out)
	}
	for _, e := range out {
		if e.Label != model.EdgeMounts {
			t.Errorf("expected mounts edge, got %s", e.Label)
		}
	}
}

func TestBuilder_ServiceSelectsPodBySubsetLabels(t *testing.T) {
	svc := newRecord(model.KindService, "default", "web")
	svc.Properties["selector"] = map[string]string{"app": "web"}

	matching := newRecord(model.KindPod, "default", "web-1")
	matching.Labels = map[string]string{"app": "web", "pod-template-hash": "abc"}

	notMatching := newRecord(model.KindPod, "default", "other-1")
	notMatching.Labels = map[string]string{"app": "other"}

	b := NewBuilder()
	b.Add(svc)
	b.Add(matching)
	b.Add(notMatching)
	g := b.Build()

	out := g.Out(svc.UID)
	if len(out) != 1 || out[0].To != matching.UID || out[0].Label != model.EdgeSelects {
		t.Fatalf("expected service to select only the matching pod, got %+v", out)
	}
}

func TestBuilder_ServiceWithEmptySelectorSelectsNothing(t *testing.T) {
	svc := newRecord(model.KindService, "default", "headless")
	pod := newRecord(model.KindPod, "default", "web-1")
	pod.Labels = map[string]string{"app": "web"}

	b := NewBuilder()
	b.Add(svc)
	b.Add(pod)
	g := b.Build()

	if got := len(g.Out(svc.UID)); got != 0 {
		t.Fatalf("expected 0 edges from a Service with no selector, got %d", got)
	}
}

func TestBuilder_PVCBindsToPV(t *testing.T) {
	pv := newRecord(model.KindPersistentVolume, "", "pv-1")
	pvc := newRecord(model.KindPersistentVolumeClaim, "default", "data")
	pvc.Properties["boundVolume"] = "pv-1"

	b := NewBuilder()
	b.Add(pv)
	b.Add(pvc)
	g := b.Build()

	out := g.Out(pvc.UID)
	if len(out) != 1 || out[0].Label != model.EdgeBindsTo || out[0].To != pv.UID {
		t.Fatalf("expected pvc->pv binds-to edge, got %+v", out)
	}
}

func TestBuilder_IngressReferencesServiceAndTLSSecret(t *testing.T) {
	svc := newRecord(model.KindService, "default", "web")
	sec := newRecord(model.KindSecret, "default", "web-tls")
	ing := newRecord(model.KindIngress, "default", "web")
	ing.Properties["backendServices"] = []string{"web"}
	ing.Properties["tlsSecrets"] = []string{"web-tls"}

	b := NewBuilder()
	b.Add(svc)
	b.Add(sec)
	b.Add(ing)
	g := b.Build()

	out := g.Out(ing.UID)
	if len(out) != 2 {
		t.Fatalf("expected 2 references edges from ingress, got %d: %+v", len(out), out)
	}
}

func TestBuilder_HPAReferencesScaleTarget(t *testing.T) {
	dep := newRecord(model.KindDeployment, "default", "web")
	hpa := newRecord(model.KindHorizontalPodAutoscaler, "default", "web")
	hpa.Properties["scaleTargetKind"] = "Deployment"
	hpa.Properties["scaleTargetName"] = "web"

	b := NewBuilder()
	b.Add(dep)
	b.Add(hpa)
	g := b.Build()

	out := g.Out(hpa.UID)
	if len(out) != 1 || out[0].To != dep.UID || out[0].Label != model.EdgeReferences {
		t.Fatalf("expected hpa->deployment references edge, got %+v", out)
	}
}

func TestBuilder_NetworkPolicyEmptySelectorTargetsAllPods(t *testing.T) {
	np := newRecord(model.KindNetworkPolicy, "default", "deny-all")
	np.Properties["podSelector"] = map[string]string{}
	pod1 := newRecord(model.KindPod, "default", "a")
	pod2 := newRecord(model.KindPod, "default", "b")

	b := NewBuilder()
	b.Add(np)
	b.Add(pod1)
	b.Add(pod2)
	g := b.Build()

	if got := len(g.Out(np.UID)); got != 2 {
		t.Fatalf("expected NetworkPolicy with empty podSelector to select all pods, got %d", got)
	}
}

func TestBuilder_EndpointsEdgesOnlyWhenEnabled(t *testing.T) {
	svc := newRecord(model.KindService, "default", "web")
	pod := newRecord(model.KindPod, "default", "web-1")
	ep := newRecord(model.KindEndpoints, "default", "web")
	ep.Properties["endpointPodNames"] = []string{"web-1"}

	without := NewBuilder()
	without.Add(svc)
	without.Add(pod)
	without.Add(ep)
	g1 := without.Build()
	if got := len(g1.Out(svc.UID)); got != 0 {
		t.Fatalf("expected no edges without WithEndpoints, got %d", got)
	}

	with := NewBuilder(WithEndpoints(true))
	with.Add(svc)
	with.Add(pod)
	with.Add(ep)
	g2 := with.Build()
	out := g2.Out(svc.UID)
	if len(out) != 1 || out[0].To != pod.UID || out[0].Label != model.EdgeSelects {
		t.Fatalf("expected service->pod selects edge via endpoints, got %+v", out)
	}
}
