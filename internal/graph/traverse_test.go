package graph

import (
	"testing"

	"github.com/kubectl-smart/kubectl-smart/internal/model"
)

func chainGraph(t *testing.T) (*model.Graph, *model.ResourceRecord, *model.ResourceRecord, *model.ResourceRecord) {
	t.Helper()
	dep := newRecord(model.KindDeployment, "default", "web")
	rs := newRecord(model.KindReplicaSet, "default", "web-abc")
	pod := newRecord(model.KindPod, "default", "web-abc-xyz")

	g := model.NewGraph()
	g.AddVertex(dep)
	g.AddVertex(rs)
	g.AddVertex(pod)
	g.AddEdge(dep.UID, rs.UID, model.EdgeOwns)
	g.AddEdge(rs.UID, pod.UID, model.EdgeOwns)
	return g, dep, rs, pod
}

func TestWalk_DownstreamUnbounded(t *testing.T) {
	g, dep, rs, pod := chainGraph(t)
	got := Walk(g, dep.UID, Downstream, 0)
	if len(got) != 2 || got[0].UID != rs.UID || got[1].UID != pod.UID {
		t.Fatalf("expected [rs, pod] in BFS order, got %+v", got)
	}
}

func TestWalk_DownstreamDepthLimited(t *testing.T) {
	g, dep, rs, _ := chainGraph(t)
	got := Walk(g, dep.UID, Downstream, 1)
	if len(got) != 1 || got[0].UID != rs.UID {
		t.Fatalf("expected depth-1 walk to stop at rs, got %+v", got)
	}
}

func TestWalk_UpstreamFromPod(t *testing.T) {
	g, dep, rs, pod := chainGraph(t)
	got := Walk(g, pod.UID, Upstream, 0)
	if len(got) != 2 || got[0].UID != rs.UID || got[1].UID != dep.UID {
		t.Fatalf("expected [rs, dep] walking upstream from pod, got %+v", got)
	}
}

func TestWalk_NoOutgoingEdgesReturnsEmpty(t *testing.T) {
	g, _, _, pod := chainGraph(t)
	got := Walk(g, pod.UID, Downstream, 0)
	if len(got) != 0 {
		t.Fatalf("expected no downstream nodes from a leaf pod, got %+v", got)
	}
}

func TestHealthOf(t *testing.T) {
	issues := []model.Issue{
		{ResourceFullName: "Pod/default/a", Severity: model.SeverityWarning},
		{ResourceFullName: "Pod/default/b", Severity: model.SeverityCritical},
	}
	if got := HealthOf(issues, "Pod/default/a"); got != GlyphWarning {
		t.Errorf("HealthOf(a) = %s, want %s", got, GlyphWarning)
	}
	if got := HealthOf(issues, "Pod/default/b"); got != GlyphCritical {
		t.Errorf("HealthOf(b) = %s, want %s", got, GlyphCritical)
	}
	if got := HealthOf(issues, "Pod/default/c"); got != GlyphHealthy {
		t.Errorf("HealthOf(c) = %s, want %s", got, GlyphHealthy)
	}
}

func TestHealthIndex_CriticalWinsOverWarning(t *testing.T) {
	issues := []model.Issue{
		{ResourceFullName: "Pod/default/a", Severity: model.SeverityWarning},
		{ResourceFullName: "Pod/default/a", Severity: model.SeverityCritical},
	}
	idx := HealthIndex(issues)
	if idx["Pod/default/a"] != GlyphCritical {
		t.Errorf("HealthIndex should keep the worst severity, got %s", idx["Pod/default/a"])
	}
}
