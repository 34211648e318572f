package parse

import "github.com/kubectl-smart/kubectl-smart/internal/model"

// IngressBackend names a Service an Ingress routes to, extracted from
// spec.rules[*].http.paths[*].backend.service.name and spec.defaultBackend.
type IngressBackend struct {
	ServiceName string
	TLSSecrets  []string
}

func fillService(r *model.ResourceRecord, obj map[string]any) {
	spec := mapAt(obj, "spec")
	r.Properties["selector"] = stringMap(spec["selector"])
	r.Properties["type"], _ = spec["type"].(string)
}

func fillIngress(r *model.ResourceRecord, obj map[string]any) {
	spec := mapAt(obj, "spec")
	var backends []string
	for _, ruleItem := range sliceAt(spec, "rules") {
		rule, ok := ruleItem.(map[string]any)
		if !ok {
			continue
		}
		http, ok := rule["http"].(map[string]any)
		if !ok {
			continue
		}
		for _, pathItem := range sliceAt(http, "paths") {
			path, ok := pathItem.(map[string]any)
			if !ok {
				continue
			}
			backend, ok := path["backend"].(map[string]any)
			if !ok {
				continue
			}
			if svc, ok := backend["service"].(map[string]any); ok {
				if name, _ := svc["name"].(string); name != "" {
					backends = append(backends, name)
				}
			}
		}
	}
	if def, ok := spec["defaultBackend"].(map[string]any); ok {
		if svc, ok := def["service"].(map[string]any); ok {
			if name, _ := svc["name"].(string); name != "" {
				backends = append(backends, name)
			}
		}
	}
	r.Properties["backendServices"] = backends

	var tlsSecrets []string
	for _, tlsItem := range sliceAt(spec, "tls") {
		tls, ok := tlsItem.(map[string]any)
		if !ok {
			continue
		}
		if name, _ := tls["secretName"].(string); name != "" {
			tlsSecrets = append(tlsSecrets, name)
		}
	}
	r.Properties["tlsSecrets"] = tlsSecrets
}

func fillHPA(r *model.ResourceRecord, obj map[string]any) {
	spec := mapAt(obj, "spec")
	target, ok := spec["scaleTargetRef"].(map[string]any)
	if !ok {
		return
	}
	r.Properties["scaleTargetKind"], _ = target["kind"].(string)
	r.Properties["scaleTargetName"], _ = target["name"].(string)
}

// fillEndpoints extracts the (namespace, pod name) pairs an Endpoints
// object's subsets currently reference, via targetRef.kind=="Pod". Used
// only when the graph builder is run with --endpoints, to draw
// Service -> Pod `selects` edges through the Endpoints object instead of
// (or in addition to) direct selector matching.
func fillEndpoints(r *model.ResourceRecord, obj map[string]any) {
	var podNames []string
	for _, subsetItem := range sliceAt(obj, "subsets") {
		subset, ok := subsetItem.(map[string]any)
		if !ok {
			continue
		}
		for _, addrItem := range sliceAt(subset, "addresses") {
			addr, ok := addrItem.(map[string]any)
			if !ok {
				continue
			}
			targetRef, ok := addr["targetRef"].(map[string]any)
			if !ok {
				continue
			}
			if kind, _ := targetRef["kind"].(string); kind != "Pod" {
				continue
			}
			if name, _ := targetRef["name"].(string); name != "" {
				podNames = append(podNames, name)
			}
		}
	}
	r.Properties["endpointPodNames"] = podNames
}

func fillNetworkPolicy(r *model.ResourceRecord, obj map[string]any) {
	spec := mapAt(obj, "spec")
	podSel, _ := spec["podSelector"].(map[string]any)
	r.Properties["podSelector"] = stringMap(mapAt(podSel, "matchLabels"))
	var types []string
	for _, t := range sliceAt(spec, "policyTypes") {
		if s, ok := t.(string); ok {
			types = append(types, s)
		}
	}
	r.Properties["policyTypes"] = types
}
