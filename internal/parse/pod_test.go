package parse

import (
	"testing"

	"github.com/kubectl-smart/kubectl-smart/internal/model"
)

func TestQuantityMillis(t *testing.T) {
	cases := []struct {
		in   any
		want int64
	}{
		{"500m", 500},
		{"2", 2000},
		{"1.5", 1500},
		{nil, 0},
		{"", 0},
	}
	for _, c := range cases {
		if got := quantityMillis(c.in); got != c.want {
			t.Errorf("quantityMillis(%v) = %d, want %d", c.in, got, c.want)
		}
	}
}

func TestQuantityBytes(t *testing.T) {
	cases := []struct {
		in   any
		want int64
	}{
		{"128Mi", 128 * (1 << 20)},
		{"1Gi", 1 << 30},
		{"512000000", 512000000},
		{nil, 0},
	}
	for _, c := range cases {
		if got := quantityBytes(c.in); got != c.want {
			t.Errorf("quantityBytes(%v) = %d, want %d", c.in, got, c.want)
		}
	}
}

func TestFillPod_RestartCountAndOOMKilled(t *testing.T) {
	obj := map[string]any{
		"spec": map[string]any{
			"nodeName": "node-1",
			"containers": []any{
				map[string]any{"name": "app", "image": "app:v1"},
			},
		},
		"status": map[string]any{
			"containerStatuses": []any{
				map[string]any{
					"name":         "app",
					"ready":        false,
					"restartCount": float64(3),
					"state": map[string]any{
						"waiting": map[string]any{"reason": "CrashLoopBackOff"},
					},
					"lastState": map[string]any{
						"terminated": map[string]any{"reason": "OOMKilled"},
					},
				},
			},
		},
	}

	rec := model.NewResourceRecord(model.KindPod, "default", "web-1")
	fillPod(rec, obj)

	containers, ok := rec.Properties["containers"].([]ContainerStatus)
	if !ok || len(containers) != 1 {
		t.Fatalf("expected 1 container status, got %+v", rec.Properties["containers"])
	}
	cs := containers[0]
	if cs.RestartCount != 3 {
		t.Errorf("RestartCount = %d, want 3", cs.RestartCount)
	}
	if cs.WaitingReason != "CrashLoopBackOff" {
		t.Errorf("WaitingReason = %q, want CrashLoopBackOff", cs.WaitingReason)
	}
	if !cs.OOMKilled {
		t.Error("expected OOMKilled true from lastState.terminated.reason")
	}
	if rec.Properties["restartCount"] != 3 {
		t.Errorf("total restartCount = %v, want 3", rec.Properties["restartCount"])
	}
}

func TestFillPod_EnvFromCountsAsMount(t *testing.T) {
	obj := map[string]any{
		"spec": map[string]any{
			"containers": []any{
				map[string]any{
					"name": "app",
					"envFrom": []any{
						map[string]any{"configMapRef": map[string]any{"name": "app-config"}},
					},
				},
			},
		},
	}
	rec := model.NewResourceRecord(model.KindPod, "default", "web-1")
	fillPod(rec, obj)

	mounts, ok := rec.Properties["volumeMounts"].([]VolumeMount)
	if !ok || len(mounts) != 1 || mounts[0].ConfigMapName != "app-config" {
		t.Fatalf("expected one envFrom configMap mount, got %+v", rec.Properties["volumeMounts"])
	}
}
