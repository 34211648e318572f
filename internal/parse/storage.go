package parse

import "github.com/kubectl-smart/kubectl-smart/internal/model"

func fillPVC(r *model.ResourceRecord, obj map[string]any) {
	spec := mapAt(obj, "spec")
	status := mapAt(obj, "status")

	r.Properties["storageClassName"], _ = spec["storageClassName"].(string)
	r.Properties["boundVolume"], _ = spec["volumeName"].(string)
	if r.Properties["boundVolume"] == "" {
		r.Properties["boundVolume"], _ = status["boundVolume"].(string)
	}
	if cap, ok := mapAt(status, "capacity")["storage"].(string); ok {
		r.Properties["capacityBytes"] = quantityBytes(cap)
	}

	var modes []string
	for _, m := range sliceAt(spec, "accessModes") {
		if s, ok := m.(string); ok {
			modes = append(modes, s)
		}
	}
	r.Properties["accessModes"] = modes
}

func fillPV(r *model.ResourceRecord, obj map[string]any) {
	spec := mapAt(obj, "spec")
	claimRef, _ := spec["claimRef"].(map[string]any)
	r.Properties["claimNamespace"], _ = claimRef["namespace"].(string)
	r.Properties["claimName"], _ = claimRef["name"].(string)
	r.Properties["reclaimPolicy"], _ = spec["persistentVolumeReclaimPolicy"].(string)

	if _, ok := spec["hostPath"]; ok {
		r.Properties["backend"] = "hostPath"
	}
}
