package scoring

import (
	"strings"
	"testing"
	"time"

	"github.com/kubectl-smart/kubectl-smart/internal/model"
	"github.com/kubectl-smart/kubectl-smart/internal/parse"
)

func TestScore_CrashLoopBackOffIsRootCause(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	pod := model.NewResourceRecord(model.KindPod, "production", "failing-app-xyz")
	pod.Properties["containers"] = []parse.ContainerStatus{
		{Name: "app", RestartCount: 15, WaitingReason: "CrashLoopBackOff"},
	}

	events := []model.EventRecord{
		{
			Reason: "BackOff", Count: 20, LastTimestamp: now.Add(-2 * time.Minute),
			InvolvedObject: model.InvolvedObject{Kind: "Pod", Namespace: "production", Name: "failing-app-xyz"},
		},
	}

	weights, err := LoadWeights("")
	if err != nil {
		t.Fatalf("LoadWeights: %v", err)
	}
	eng := NewEngine(weights)
	res := eng.Score(Input{Subject: pod, Events: events, Now: now})

	if res.RootCause == nil {
		t.Fatal("expected a root cause")
	}
	if res.RootCause.Reason != "CrashLoopBackOff" {
		t.Errorf("root cause reason = %q, want CrashLoopBackOff", res.RootCause.Reason)
	}
	if res.RootCause.Score < 90 {
		t.Errorf("root cause score = %d, want >= 90", res.RootCause.Score)
	}

	foundBackOff := false
	for _, f := range res.ContributingFactors {
		if f.Reason == "BackOff" {
			foundBackOff = true
		}
	}
	if !foundBackOff {
		t.Errorf("expected BackOff as a contributing factor, got %+v", res.ContributingFactors)
	}

	foundAction := false
	for _, a := range res.RootCause.SuggestedActions {
		if strings.Contains(a, "previous-container logs") {
			foundAction = true
		}
	}
	if !foundAction {
		t.Errorf("expected a previous-container-logs suggested action, got %+v", res.RootCause.SuggestedActions)
	}
}

func TestScore_ScopeModifierForMajorityUnhealthyController(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	dep := model.NewResourceRecord(model.KindDeployment, "default", "web")

	ready := model.NewResourceRecord(model.KindPod, "default", "web-1")
	ready.Status.Ready = true

	crash1 := model.NewResourceRecord(model.KindPod, "default", "web-2")
	crash1.Properties["containers"] = []parse.ContainerStatus{{Name: "app", WaitingReason: "CrashLoopBackOff"}}

	crash2 := model.NewResourceRecord(model.KindPod, "default", "web-3")
	crash2.Properties["containers"] = []parse.ContainerStatus{{Name: "app", WaitingReason: "CrashLoopBackOff"}}

	weights, _ := LoadWeights("")
	eng := NewEngine(weights)
	res := eng.Score(Input{
		Subject:  dep,
		Children: []*model.ResourceRecord{ready, crash1, crash2},
		Now:      now,
	})

	if res.RootCause == nil || res.RootCause.Reason != "CrashLoopBackOff" {
		t.Fatalf("expected CrashLoopBackOff root cause, got %+v", res.RootCause)
	}
	// base 90 + scope modifier (2/3 unhealthy >= 50%) +5 = 95, clamps under 100.
	if res.RootCause.Score < 95 {
		t.Errorf("expected scope modifier to raise score to >= 95, got %d", res.RootCause.Score)
	}
}

func TestScore_NoIssuesBelowThresholdYieldsNoRootCause(t *testing.T) {
	pod := model.NewResourceRecord(model.KindPod, "default", "healthy-pod")
	pod.Status.Ready = true

	weights, _ := LoadWeights("")
	eng := NewEngine(weights)
	res := eng.Score(Input{Subject: pod, Now: time.Now()})

	if res.RootCause != nil {
		t.Errorf("expected no root cause for a healthy pod, got %+v", res.RootCause)
	}
	if len(res.AllIssues) != 0 {
		t.Errorf("expected zero issues for a healthy pod, got %+v", res.AllIssues)
	}
}

func TestScore_GenericCRDFallback(t *testing.T) {
	cr := model.NewResourceRecord(model.KindGeneric, "default", "my-custom-resource")
	cr.Properties["kind"] = "MyCustomResource"
	cr.Status.Conditions = []model.Condition{
		{Type: "Ready", Status: "False", Reason: "BackendUnavailable", Message: "backend did not respond"},
	}

	weights, _ := LoadWeights("")
	eng := NewEngine(weights)
	res := eng.Score(Input{Subject: cr, Now: time.Now()})

	if res.RootCause == nil {
		t.Fatal("expected the generic CRD fallback to produce a root cause")
	}
	if res.RootCause.Score < 90 {
		t.Errorf("generic Ready=False issue score = %d, want >= 90", res.RootCause.Score)
	}
}

func TestScore_GenericProgressingStalledFifteenMinutesIsWarning(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	cr := model.NewResourceRecord(model.KindGeneric, "default", "my-rollout")
	cr.Properties["kind"] = "Rollout"
	cr.Status.Conditions = []model.Condition{
		{Type: "Progressing", Status: "True", Reason: "ReplicaSetUpdated", LastTransitionTime: now.Add(-20 * time.Minute)},
	}

	weights, _ := LoadWeights("")
	eng := NewEngine(weights)
	res := eng.Score(Input{Subject: cr, Now: now})

	if res.RootCause == nil {
		t.Fatal("expected stalled Progressing=True to produce a root cause")
	}
	if res.RootCause.Reason != "Progressing:ReplicaSetUpdated" {
		t.Errorf("root cause reason = %q, want Progressing:ReplicaSetUpdated", res.RootCause.Reason)
	}
	if res.RootCause.Score < 60 {
		t.Errorf("Progressing stall base score = %d, want >= 60", res.RootCause.Score)
	}
}

func TestScore_GenericProgressingUnderFifteenMinutesIsIgnored(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	cr := model.NewResourceRecord(model.KindGeneric, "default", "my-rollout")
	cr.Properties["kind"] = "Rollout"
	cr.Status.Conditions = []model.Condition{
		{Type: "Progressing", Status: "True", Reason: "ReplicaSetUpdated", LastTransitionTime: now.Add(-5 * time.Minute)},
	}

	weights, _ := LoadWeights("")
	eng := NewEngine(weights)
	res := eng.Score(Input{Subject: cr, Now: now})

	if res.RootCause != nil {
		t.Errorf("expected no issue for a Progressing condition under 15 minutes, got %+v", res.RootCause)
	}
}
