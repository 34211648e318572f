package parse

import (
	"strings"

	"github.com/kubectl-smart/kubectl-smart/internal/model"
)

// ContainerStatus is the normalized per-container status the scorer reads
// from ResourceRecord.Properties["containers"].
type ContainerStatus struct {
	Name              string
	Ready             bool
	RestartCount      int
	Image             string
	WaitingReason     string
	WaitingMessage    string
	TerminatedReason  string
	ExitCode          int
	OOMKilled         bool
}

// VolumeMount describes one pod-level volume source the graph builder
// turns into a `mounts` edge.
type VolumeMount struct {
	Name          string
	ConfigMapName string
	SecretName    string
	PVCName       string
	IsHostPath    bool
}

// ResourceRequirements captures the CPU/memory requests and limits summed
// across a pod's containers, in millicores and bytes.
type ResourceRequirements struct {
	RequestCPUMillis   int64
	RequestMemoryBytes int64
	LimitCPUMillis     int64
	LimitMemoryBytes   int64
}

func fillPod(r *model.ResourceRecord, obj map[string]any) {
	spec := mapAt(obj, "spec")
	status := mapAt(obj, "status")

	r.Properties["nodeName"], _ = spec["nodeName"].(string)
	r.Properties["serviceAccountName"], _ = spec["serviceAccountName"].(string)
	if v, ok := spec["automountServiceAccountToken"].(bool); ok {
		r.Properties["automountServiceAccountToken"] = v
	}

	var containers []ContainerStatus
	specContainerImages := map[string]string{}
	for _, item := range sliceAt(spec, "containers") {
		if m, ok := item.(map[string]any); ok {
			name, _ := m["name"].(string)
			img, _ := m["image"].(string)
			specContainerImages[name] = img
		}
	}

	restartTotal := 0
	readyCount := 0
	for _, item := range sliceAt(status, "containerStatuses") {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		cs := ContainerStatus{}
		cs.Name, _ = m["name"].(string)
		cs.Image = specContainerImages[cs.Name]
		if ready, ok := m["ready"].(bool); ok {
			cs.Ready = ready
			if ready {
				readyCount++
			}
		}
		if rc, ok := m["restartCount"].(float64); ok {
			cs.RestartCount = int(rc)
			restartTotal += cs.RestartCount
		}
		state, _ := m["state"].(map[string]any)
		if waiting, ok := state["waiting"].(map[string]any); ok {
			cs.WaitingReason, _ = waiting["reason"].(string)
			cs.WaitingMessage, _ = waiting["message"].(string)
		}
		if terminated, ok := state["terminated"].(map[string]any); ok {
			cs.TerminatedReason, _ = terminated["reason"].(string)
			if code, ok := terminated["exitCode"].(float64); ok {
				cs.ExitCode = int(code)
			}
			cs.OOMKilled = cs.TerminatedReason == "OOMKilled"
		}
		// A container can also carry its last terminated state while
		// currently waiting to restart (CrashLoopBackOff).
		if lastState, ok := m["lastState"].(map[string]any); ok {
			if terminated, ok := lastState["terminated"].(map[string]any); ok {
				if reason, _ := terminated["reason"].(string); reason == "OOMKilled" {
					cs.OOMKilled = true
				}
			}
		}
		containers = append(containers, cs)
	}
	r.Properties["containers"] = containers
	r.Properties["restartCount"] = restartTotal
	r.Properties["containerCount"] = len(containers)
	r.Properties["readyContainerCount"] = readyCount

	var mounts []VolumeMount
	volNameToSource := map[string]VolumeMount{}
	for _, item := range sliceAt(spec, "volumes") {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		name, _ := m["name"].(string)
		vm := VolumeMount{Name: name}
		if cm, ok := m["configMap"].(map[string]any); ok {
			vm.ConfigMapName, _ = cm["name"].(string)
		}
		if sec, ok := m["secret"].(map[string]any); ok {
			vm.SecretName, _ = sec["secretName"].(string)
		}
		if pvc, ok := m["persistentVolumeClaim"].(map[string]any); ok {
			vm.PVCName, _ = pvc["claimName"].(string)
		}
		if _, ok := m["hostPath"]; ok {
			vm.IsHostPath = true
		}
		mounts = append(mounts, vm)
		volNameToSource[name] = vm
	}

	// envFrom / valueFrom references also count as `mounts` edges per
	// spec.md §4.4, even without an explicit volume.
	for _, item := range sliceAt(spec, "containers") {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		for _, ef := range sliceAt(m, "envFrom") {
			efm, ok := ef.(map[string]any)
			if !ok {
				continue
			}
			if cmRef, ok := efm["configMapRef"].(map[string]any); ok {
				if name, _ := cmRef["name"].(string); name != "" {
					mounts = append(mounts, VolumeMount{ConfigMapName: name})
				}
			}
			if secRef, ok := efm["secretRef"].(map[string]any); ok {
				if name, _ := secRef["name"].(string); name != "" {
					mounts = append(mounts, VolumeMount{SecretName: name})
				}
			}
		}
		for _, envItem := range sliceAt(m, "env") {
			envM, ok := envItem.(map[string]any)
			if !ok {
				continue
			}
			valueFrom, ok := envM["valueFrom"].(map[string]any)
			if !ok {
				continue
			}
			if ref, ok := valueFrom["configMapKeyRef"].(map[string]any); ok {
				if name, _ := ref["name"].(string); name != "" {
					mounts = append(mounts, VolumeMount{ConfigMapName: name})
				}
			}
			if ref, ok := valueFrom["secretKeyRef"].(map[string]any); ok {
				if name, _ := ref["name"].(string); name != "" {
					mounts = append(mounts, VolumeMount{SecretName: name})
				}
			}
		}
	}
	r.Properties["volumeMounts"] = mounts

	rr := ResourceRequirements{}
	for _, item := range sliceAt(spec, "containers") {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		res, ok := m["resources"].(map[string]any)
		if !ok {
			continue
		}
		rr.RequestCPUMillis += quantityMillis(mapAt(res, "requests")["cpu"])
		rr.RequestMemoryBytes += quantityBytes(mapAt(res, "requests")["memory"])
		rr.LimitCPUMillis += quantityMillis(mapAt(res, "limits")["cpu"])
		rr.LimitMemoryBytes += quantityBytes(mapAt(res, "limits")["memory"])
	}
	r.Properties["resources"] = rr
}

// quantityMillis parses a Kubernetes CPU quantity string ("500m", "2") into
// millicores. Unparseable or absent values return 0.
func quantityMillis(v any) int64 {
	s, ok := v.(string)
	if !ok || s == "" {
		return 0
	}
	if strings.HasSuffix(s, "m") {
		n := parseInt(strings.TrimSuffix(s, "m"))
		return n
	}
	n := parseFloat(s)
	return int64(n * 1000)
}

// quantityBytes parses a Kubernetes memory quantity string ("128Mi",
// "1Gi", "512000000") into bytes.
func quantityBytes(v any) int64 {
	s, ok := v.(string)
	if !ok || s == "" {
		return 0
	}
	units := map[string]int64{
		"Ki": 1 << 10, "Mi": 1 << 20, "Gi": 1 << 30, "Ti": 1 << 40,
		"K": 1000, "M": 1000 * 1000, "G": 1000 * 1000 * 1000,
	}
	for suffix, mult := range units {
		if strings.HasSuffix(s, suffix) {
			n := parseFloat(strings.TrimSuffix(s, suffix))
			return int64(n * float64(mult))
		}
	}
	return int64(parseFloat(s))
}

func parseInt(s string) int64 {
	var n int64
	for _, c := range s {
		if c < '0' || c > '9' {
			return n
		}
		n = n*10 + int64(c-'0')
	}
	return n
}

func parseFloat(s string) float64 {
	var intPart, fracPart int64
	var fracDiv float64 = 1
	neg := false
	seenDot := false
	for _, c := range s {
		switch {
		case c == '-':
			neg = true
		case c == '.':
			seenDot = true
		case c >= '0' && c <= '9':
			if seenDot {
				fracPart = fracPart*10 + int64(c-'0')
				fracDiv *= 10
			} else {
				intPart = intPart*10 + int64(c-'0')
			}
		}
	}
	v := float64(intPart) + float64(fracPart)/fracDiv
	if neg {
		v = -v
	}
	return v
}
