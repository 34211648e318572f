package parse

import "github.com/kubectl-smart/kubectl-smart/internal/model"

func fillControllerStatus(r *model.ResourceRecord, obj map[string]any) {
	spec := mapAt(obj, "spec")
	status := mapAt(obj, "status")

	if sel, ok := mapAt(spec, "selector")["matchLabels"].(map[string]any); ok {
		r.Properties["selector"] = stringMap(sel)
	}

	desired := intAt(spec, "replicas", 1)
	ready := intAt(status, "readyReplicas", 0)
	updated := intAt(status, "updatedReplicas", 0)
	available := intAt(status, "availableReplicas", 0)

	if r.Kind == model.KindDaemonSet {
		desired = intAt(status, "desiredNumberScheduled", 0)
		ready = intAt(status, "numberReady", 0)
	}

	r.Properties["desiredReplicas"] = desired
	r.Properties["readyReplicas"] = ready
	r.Properties["updatedReplicas"] = updated
	r.Properties["availableReplicas"] = available
	if desired > 0 {
		r.Properties["unhealthyFraction"] = float64(desired-ready) / float64(desired)
	}

	if r.Kind == model.KindStatefulSet {
		_, hasVCT := spec["volumeClaimTemplates"]
		r.Properties["hasVolumeClaimTemplate"] = hasVCT
	}
}

func fillJob(r *model.ResourceRecord, obj map[string]any) {
	status := mapAt(obj, "status")
	completed := intAt(status, "succeeded", 0) > 0
	r.Properties["completed"] = completed
	r.Properties["active"] = intAt(status, "active", 0)
	r.Properties["failed"] = intAt(status, "failed", 0)
}

func intAt(m map[string]any, key string, def int) int {
	if v, ok := m[key].(float64); ok {
		return int(v)
	}
	return def
}
