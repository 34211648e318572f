// Package parse converts raw cluster artifacts into typed model records.
// Every function here is a deterministic, pure transformation: no I/O, no
// clock reads beyond an explicit `now` parameter, tolerant of missing
// optional fields exactly as spec.md §4.3 requires.
package parse

import (
	"time"

	"github.com/kubectl-smart/kubectl-smart/internal/kubeclient"
	"github.com/kubectl-smart/kubectl-smart/internal/model"
)

// Resource converts one RawObject into a model.ResourceRecord, dispatching
// to kind-specific extraction. Unknown kinds fall back to Generic with the
// original kind string preserved in Properties["kind"].
func Resource(raw kubeclient.RawObject) *model.ResourceRecord {
	kind := model.ParseKind(raw.Kind)
	r := model.NewResourceRecord(kind, raw.Namespace, raw.Name)
	if kind == model.KindGeneric {
		r.Properties["kind"] = raw.Kind
	}

	meta := mapAt(raw.Object, "metadata")
	r.Labels = stringMap(meta["labels"])
	r.Annotations = stringMap(meta["annotations"])
	if owners, ok := meta["ownerReferences"].([]any); ok {
		r.Properties["ownerReferences"] = ownerRefs(owners)
	}

	status := mapAt(raw.Object, "status")
	r.Status.Conditions = conditions(status["conditions"])
	r.Status.Phase, _ = status["phase"].(string)

	switch kind {
	case model.KindPod:
		fillPod(r, raw.Object)
	case model.KindDeployment, model.KindStatefulSet, model.KindDaemonSet, model.KindReplicaSet:
		fillControllerStatus(r, raw.Object)
	case model.KindService:
		fillService(r, raw.Object)
	case model.KindIngress:
		fillIngress(r, raw.Object)
	case model.KindPersistentVolumeClaim:
		fillPVC(r, raw.Object)
	case model.KindPersistentVolume:
		fillPV(r, raw.Object)
	case model.KindNode:
		fillNode(r, raw.Object)
	case model.KindHorizontalPodAutoscaler:
		fillHPA(r, raw.Object)
	case model.KindNetworkPolicy:
		fillNetworkPolicy(r, raw.Object)
	case model.KindJob:
		fillJob(r, raw.Object)
	case model.KindEndpoints:
		fillEndpoints(r, raw.Object)
	default:
		// Generic/CRD: only the conditions-based fallback applies.
	}

	r.Status.Ready = deriveReady(r)
	return r
}

func deriveReady(r *model.ResourceRecord) bool {
	for _, c := range r.Status.Conditions {
		if c.Type == "Ready" {
			return c.Status == "True"
		}
	}
	// No explicit Ready condition: fall back to the phase (Running or
	// Succeeded counts as ready); records without a phase report not ready.
	return r.Status.Phase == "Running" || r.Status.Phase == "Succeeded"
}

func mapAt(obj map[string]any, key string) map[string]any {
	if obj == nil {
		return map[string]any{}
	}
	if m, ok := obj[key].(map[string]any); ok {
		return m
	}
	return map[string]any{}
}

func sliceAt(obj map[string]any, key string) []any {
	if obj == nil {
		return nil
	}
	if s, ok := obj[key].([]any); ok {
		return s
	}
	return nil
}

func stringMap(v any) map[string]string {
	m, ok := v.(map[string]any)
	if !ok {
		return map[string]string{}
	}
	out := make(map[string]string, len(m))
	for k, val := range m {
		if s, ok := val.(string); ok {
			out[k] = s
		}
	}
	return out
}

type OwnerRef struct {
	Kind       string `json:"kind"`
	Name       string `json:"name"`
	Controller bool   `json:"controller"`
}

func ownerRefs(raw []any) []OwnerRef {
	var out []OwnerRef
	for _, item := range raw {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		or := OwnerRef{}
		or.Kind, _ = m["kind"].(string)
		or.Name, _ = m["name"].(string)
		if c, ok := m["controller"].(bool); ok {
			or.Controller = c
		}
		out = append(out, or)
	}
	return out
}

func conditions(v any) []model.Condition {
	items, ok := v.([]any)
	if !ok {
		return nil
	}
	var out []model.Condition
	for _, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		c := model.Condition{}
		c.Type, _ = m["type"].(string)
		c.Status, _ = m["status"].(string)
		c.Reason, _ = m["reason"].(string)
		c.Message, _ = m["message"].(string)
		if ts, ok := m["lastTransitionTime"].(string); ok {
			if t, err := time.Parse(time.RFC3339, ts); err == nil {
				c.LastTransitionTime = t
			}
		}
		out = append(out, c)
	}
	return out
}
