package scoring

import "strings"

// playbook maps a known reason to a fixed, short action list. Entries use
// ${name}, ${namespace}, ${container} placeholders only — the engine never
// fabricates a resource-specific command beyond substituting these.
var playbook = map[string][]string{
	"CrashLoopBackOff": {
		"inspect previous-container logs: kubectl logs ${name} -n ${namespace} -c ${container} --previous",
		"check the container's entrypoint and readiness of its dependencies",
		"check the last exit code with kubectl describe pod ${name} -n ${namespace}",
	},
	"ImagePullBackOff": {
		"verify the image reference and tag exist in the registry",
		"check imagePullSecrets on ${name} -n ${namespace}",
	},
	"ErrImagePull": {
		"verify the image reference and tag exist in the registry",
		"check imagePullSecrets on ${name} -n ${namespace}",
	},
	"OOMKilled": {
		"raise the memory limit for ${container} or reduce its working set",
		"check for a memory leak with kubectl top pod ${name} -n ${namespace} over time",
	},
	"FailedScheduling": {
		"check node capacity with kubectl describe nodes",
		"lower requested cpu/memory on ${name} -n ${namespace} or add capacity",
	},
	"FailedMount": {
		"check the referenced ConfigMap/Secret/PVC exists in ${namespace}",
		"kubectl describe pod ${name} -n ${namespace} for the mount error detail",
	},
	"Unhealthy": {
		"check the readiness/liveness probe configuration on ${container}",
		"inspect application logs for the probe endpoint",
	},
	"BackOff": {
		"kubectl describe pod ${name} -n ${namespace} for the underlying reason",
	},
	"Evicted": {
		"check node pressure conditions at the time of eviction",
		"consider setting resource requests to reduce eviction risk",
	},
	"NodeNotReady": {
		"kubectl describe node ${name} for the failing condition",
		"check kubelet health and network connectivity on the node",
	},
	"NetworkNotReady": {
		"check the CNI plugin status on the node",
	},
}

// ActionsFor returns the playbook for reason with placeholders substituted,
// or nil when no entry exists (the generic CRD fallback path).
func ActionsFor(reason, namespace, name, container string) []string {
	tmpl, ok := playbook[reason]
	if !ok {
		return nil
	}
	out := make([]string, len(tmpl))
	r := strings.NewReplacer("${namespace}", namespace, "${name}", name, "${container}", container)
	for i, a := range tmpl {
		out[i] = r.Replace(a)
	}
	return out
}
