package forecast

import (
	"fmt"
	"time"

	"github.com/kubectl-smart/kubectl-smart/internal/cache"
	"github.com/kubectl-smart/kubectl-smart/internal/kubeclient"
	"github.com/kubectl-smart/kubectl-smart/internal/model"
	"github.com/kubectl-smart/kubectl-smart/internal/parse"
)

const capacityThreshold = 90.0

// CapacityWarning is one over-threshold (current or projected) resource
// utilization finding.
type CapacityWarning struct {
	Resource          string         `json:"resource"`
	Metric            string         `json:"metric"` // "cpu", "memory", "storage"
	CurrentPercent    float64        `json:"current_percent"`
	ProjectedPercent  float64        `json:"projected_percent"`
	Method            Method         `json:"method"`
	HoursToThreshold  float64        `json:"hours_to_threshold"`
	Severity          model.Severity `json:"severity"`
	RecommendedAction string         `json:"recommended_action"`
}

// CapacityInput bundles one run's pod/node top snapshots, node capacity
// records, and PVC usage samples.
type CapacityInput struct {
	ClusterContext  string
	NodeTop         []kubeclient.TopEntry
	Nodes           []*model.ResourceRecord // parsed Node records, for capacity + pressure
	PVCUsage        map[string]PVCUsage     // "namespace/name" -> current usage
	HorizonHours    float64
	Now             time.Time
	MetricsUnavail  bool
}

// PVCUsage is one PersistentVolumeClaim's current usage sample, as reported
// by a node's kubelet volume metrics.
type PVCUsage struct {
	UsedBytes     float64
	CapacityBytes float64
}

// Capacity emits a warning for every node or PVC whose current or
// projected utilization crosses capacityThreshold, plus an immediate
// Critical warning for any node reporting Disk/Memory/PID pressure. It
// stores each observation into store before returning so later runs have
// more samples to trend from.
func Capacity(in CapacityInput, store *cache.Store) ([]CapacityWarning, []string) {
	var warnings []CapacityWarning
	var notes []string

	if in.MetricsUnavail {
		notes = append(notes, "capacity forecast limited: metrics-server unavailable")
	}

	nodeCapacity := map[string]*model.ResourceRecord{}
	for _, n := range in.Nodes {
		nodeCapacity[n.Name] = n
		if pressureWarning, ok := pressureCritical(n); ok {
			warnings = append(warnings, pressureWarning)
		}
	}

	for _, entry := range in.NodeTop {
		node, ok := nodeCapacity[entry.Name]
		if !ok || !entry.Available {
			continue
		}
		if w, note := evaluateMetric(store, in.ClusterContext, "node/"+entry.Name, "cpu",
			float64(entry.CPUMillicores), allocatableCPU(node), in.HorizonHours, in.Now); w != nil {
			warnings = append(warnings, *w)
		} else if note != "" {
			notes = append(notes, note)
		}
		if w, note := evaluateMetric(store, in.ClusterContext, "node/"+entry.Name, "memory",
			float64(entry.MemoryBytes), allocatableMemory(node), in.HorizonHours, in.Now); w != nil {
			warnings = append(warnings, *w)
		} else if note != "" {
			notes = append(notes, note)
		}
	}

	for key, usage := range in.PVCUsage {
		if usage.CapacityBytes <= 0 {
			continue
		}
		if w, note := evaluateMetric(store, in.ClusterContext, "pvc/"+key, "storage",
			usage.UsedBytes, usage.CapacityBytes, in.HorizonHours, in.Now); w != nil {
			warnings = append(warnings, *w)
		} else if note != "" {
			notes = append(notes, note)
		}
	}

	return warnings, notes
}

// evaluateMetric records the current sample, loads history, and decides
// whether current or projected utilization crosses threshold. Returns a
// nil warning and empty note when there is nothing to report, and a note
// (not a warning) when the projection was skipped for insufficient data.
func evaluateMetric(store *cache.Store, clusterContext, resource, metric string, used, capacity float64, horizonHours float64, now time.Time) (*CapacityWarning, string) {
	if capacity <= 0 {
		return nil, ""
	}
	current := used / capacity * 100

	metricKey := resource + "/" + metric
	if store != nil {
		_ = store.Append(clusterContext, metricKey, cache.Sample{Timestamp: now, Value: current})
	}

	var samples []cache.Sample
	if store != nil {
		samples, _ = store.Load(clusterContext, metricKey)
	}

	projected, method, ok := Project(samples, horizonHours)
	if !ok {
		if current >= capacityThreshold {
			return &CapacityWarning{
				Resource: resource, Metric: metric, CurrentPercent: current,
				ProjectedPercent: current, Method: method, Severity: severityFor(current),
				RecommendedAction: recommendedAction(metric),
			}, ""
		}
		return nil, fmt.Sprintf("%s: insufficient history for a trend projection", resource)
	}

	if current < capacityThreshold && projected < capacityThreshold {
		return nil, ""
	}

	hoursTo := hoursToThreshold(samples, horizonHours, current, projected)
	worst := current
	if projected > worst {
		worst = projected
	}
	return &CapacityWarning{
		Resource: resource, Metric: metric,
		CurrentPercent: current, ProjectedPercent: projected, Method: method,
		HoursToThreshold: hoursTo, Severity: severityFor(worst),
		RecommendedAction: recommendedAction(metric),
	}, ""
}

func hoursToThreshold(samples []cache.Sample, horizonHours, current, projected float64) float64 {
	if current >= capacityThreshold {
		return 0
	}
	if projected <= current {
		return horizonHours
	}
	frac := (capacityThreshold - current) / (projected - current)
	return frac * horizonHours
}

func severityFor(pct float64) model.Severity {
	if pct >= capacityThreshold {
		return model.SeverityCritical
	}
	return model.SeverityWarning
}

func recommendedAction(metric string) string {
	switch metric {
	case "storage":
		return "expand the PersistentVolumeClaim or its underlying StorageClass"
	case "cpu":
		return "add node capacity or reschedule pods away from this node"
	case "memory":
		return "add node capacity or lower pod memory requests on this node"
	default:
		return "investigate capacity headroom for this resource"
	}
}

// pressureCritical reports an immediate Critical capacity warning for any
// node whose parsed status carries Disk/Memory/PID pressure, independent
// of any utilization trend.
func pressureCritical(n *model.ResourceRecord) (CapacityWarning, bool) {
	raw, ok := n.Prop("pressure")
	if !ok {
		return CapacityWarning{}, false
	}
	pressure, ok := raw.(parse.NodePressure)
	if !ok {
		return CapacityWarning{}, false
	}
	var reason string
	switch {
	case pressure.DiskPressure:
		reason = "DiskPressure"
	case pressure.MemoryPressure:
		reason = "MemoryPressure"
	case pressure.PIDPressure:
		reason = "PIDPressure"
	default:
		return CapacityWarning{}, false
	}
	return CapacityWarning{
		Resource: "node/" + n.Name, Metric: reason,
		CurrentPercent: 100, ProjectedPercent: 100, Method: MethodInsufficient,
		Severity:          model.SeverityCritical,
		RecommendedAction: "drain or investigate node " + n.Name + " (" + reason + ")",
	}, true
}

func allocatableCPU(n *model.ResourceRecord) float64 {
	v, _ := n.Prop("allocatableCPUMillis")
	if f, ok := v.(int64); ok {
		return float64(f)
	}
	return 0
}

func allocatableMemory(n *model.ResourceRecord) float64 {
	v, _ := n.Prop("allocatableMemoryBytes")
	if f, ok := v.(int64); ok {
		return float64(f)
	}
	return 0
}
