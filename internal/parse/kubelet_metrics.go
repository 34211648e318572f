package parse

import (
	"bufio"
	"strconv"
	"strings"
)

// VolumeMetric is one PVC's kubelet-reported usage sample.
type VolumeMetric struct {
	Namespace string
	PVCName   string
	UsedBytes float64
	CapacityBytes float64
}

// KubeletVolumeMetrics parses a Prometheus text exposition (as served by
// the kubelet's /metrics endpoint through the node proxy) and extracts
// kubelet_volume_stats_used_bytes and kubelet_volume_stats_capacity_bytes,
// keyed by (namespace, persistentvolumeclaim). No Prometheus client
// library appears anywhere in the reference corpus, so this hand-rolled
// line scanner is the grounded choice — see DESIGN.md.
func KubeletVolumeMetrics(text string) map[string]*VolumeMetric {
	out := map[string]*VolumeMetric{}
	scanner := bufio.NewScanner(strings.NewReader(text))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		var metric string
		if strings.HasPrefix(line, "kubelet_volume_stats_used_bytes{") {
			metric = "used"
		} else if strings.HasPrefix(line, "kubelet_volume_stats_capacity_bytes{") {
			metric = "capacity"
		} else {
			continue
		}

		labelStart := strings.Index(line, "{")
		labelEnd := strings.Index(line, "}")
		if labelStart < 0 || labelEnd < 0 || labelEnd < labelStart {
			continue
		}
		labels := parsePromLabels(line[labelStart+1 : labelEnd])
		valueStr := strings.TrimSpace(line[labelEnd+1:])
		value, err := strconv.ParseFloat(valueStr, 64)
		if err != nil {
			continue
		}

		ns := labels["namespace"]
		pvc := labels["persistentvolumeclaim"]
		if ns == "" || pvc == "" {
			continue
		}
		key := ns + "/" + pvc
		vm, ok := out[key]
		if !ok {
			vm = &VolumeMetric{Namespace: ns, PVCName: pvc}
			out[key] = vm
		}
		if metric == "used" {
			vm.UsedBytes = value
		} else {
			vm.CapacityBytes = value
		}
	}
	return out
}

func parsePromLabels(s string) map[string]string {
	out := map[string]string{}
	// naive comma split tolerant of quoted values without embedded commas,
	// which is the shape kubelet actually emits for these two metrics.
	for _, part := range strings.Split(s, ",") {
		kv := strings.SplitN(part, "=", 2)
		if len(kv) != 2 {
			continue
		}
		k := strings.TrimSpace(kv[0])
		v := strings.Trim(strings.TrimSpace(kv[1]), `"`)
		out[k] = v
	}
	return out
}
