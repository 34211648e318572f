package parse

import "github.com/kubectl-smart/kubectl-smart/internal/model"

// NodePressure records the boolean pressure conditions the forecaster
// treats as immediate Critical capacity signals.
type NodePressure struct {
	DiskPressure   bool
	MemoryPressure bool
	PIDPressure    bool
	NetworkNotReady bool
}

func fillNode(r *model.ResourceRecord, obj map[string]any) {
	status := mapAt(obj, "status")
	pressure := NodePressure{}
	for _, c := range r.Status.Conditions {
		switch c.Type {
		case "DiskPressure":
			pressure.DiskPressure = c.Status == "True"
		case "MemoryPressure":
			pressure.MemoryPressure = c.Status == "True"
		case "PIDPressure":
			pressure.PIDPressure = c.Status == "True"
		case "NetworkUnavailable":
			pressure.NetworkNotReady = c.Status == "True"
		}
	}
	r.Properties["pressure"] = pressure

	if cap, ok := mapAt(status, "capacity")["cpu"].(string); ok {
		r.Properties["capacityCPUMillis"] = quantityMillis(cap)
	}
	if cap, ok := mapAt(status, "capacity")["memory"].(string); ok {
		r.Properties["capacityMemoryBytes"] = quantityBytes(cap)
	}
	if alloc, ok := mapAt(status, "allocatable")["cpu"].(string); ok {
		r.Properties["allocatableCPUMillis"] = quantityMillis(alloc)
	}
	if alloc, ok := mapAt(status, "allocatable")["memory"].(string); ok {
		r.Properties["allocatableMemoryBytes"] = quantityBytes(alloc)
	}
}
