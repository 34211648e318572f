// Package model holds the resource, event, issue and graph types shared by
// every stage of the diagnostic pipeline.
package model

import "strings"

// ResourceKind is a closed enumeration of the resource kinds the pipeline
// understands natively. Anything else is carried as Generic with the
// original kind string preserved.
type ResourceKind string

const (
	KindPod                     ResourceKind = "Pod"
	KindReplicaSet              ResourceKind = "ReplicaSet"
	KindDeployment              ResourceKind = "Deployment"
	KindStatefulSet             ResourceKind = "StatefulSet"
	KindDaemonSet               ResourceKind = "DaemonSet"
	KindJob                     ResourceKind = "Job"
	KindService                 ResourceKind = "Service"
	KindIngress                 ResourceKind = "Ingress"
	KindConfigMap               ResourceKind = "ConfigMap"
	KindSecret                  ResourceKind = "Secret"
	KindPersistentVolumeClaim   ResourceKind = "PersistentVolumeClaim"
	KindPersistentVolume        ResourceKind = "PersistentVolume"
	KindNode                    ResourceKind = "Node"
	KindHorizontalPodAutoscaler ResourceKind = "HorizontalPodAutoscaler"
	KindNetworkPolicy           ResourceKind = "NetworkPolicy"
	KindEndpoints               ResourceKind = "Endpoints"
	KindServiceAccount          ResourceKind = "ServiceAccount"
	KindGeneric                 ResourceKind = "Generic"
)

// knownKinds maps every accepted spelling (including plural/lowercase CLI
// forms) to its canonical ResourceKind.
var knownKinds = map[string]ResourceKind{
	"pod": KindPod, "pods": KindPod, "po": KindPod,
	"replicaset": KindReplicaSet, "replicasets": KindReplicaSet, "rs": KindReplicaSet,
	"deployment": KindDeployment, "deployments": KindDeployment, "deploy": KindDeployment,
	"statefulset": KindStatefulSet, "statefulsets": KindStatefulSet, "sts": KindStatefulSet,
	"daemonset": KindDaemonSet, "daemonsets": KindDaemonSet, "ds": KindDaemonSet,
	"job": KindJob, "jobs": KindJob,
	"service": KindService, "services": KindService, "svc": KindService,
	"ingress": KindIngress, "ingresses": KindIngress, "ing": KindIngress,
	"configmap": KindConfigMap, "configmaps": KindConfigMap, "cm": KindConfigMap,
	"secret": KindSecret, "secrets": KindSecret,
	"persistentvolumeclaim": KindPersistentVolumeClaim, "persistentvolumeclaims": KindPersistentVolumeClaim, "pvc": KindPersistentVolumeClaim,
	"persistentvolume": KindPersistentVolume, "persistentvolumes": KindPersistentVolume, "pv": KindPersistentVolume,
	"node": KindNode, "nodes": KindNode, "no": KindNode,
	"horizontalpodautoscaler": KindHorizontalPodAutoscaler, "horizontalpodautoscalers": KindHorizontalPodAutoscaler, "hpa": KindHorizontalPodAutoscaler,
	"networkpolicy": KindNetworkPolicy, "networkpolicies": KindNetworkPolicy, "netpol": KindNetworkPolicy,
	"endpoints": KindEndpoints, "ep": KindEndpoints,
	"serviceaccount": KindServiceAccount, "serviceaccounts": KindServiceAccount, "sa": KindServiceAccount,
}

// ParseKind normalizes a CLI or API kind string to a ResourceKind. Unknown
// strings map to KindGeneric; callers that need the original spelling
// should keep it separately (see ResourceRecord.Properties["kind"]).
func ParseKind(s string) ResourceKind {
	k, ok := knownKinds[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return KindGeneric
	}
	return k
}

// IsController reports whether the kind owns Pods directly or indirectly.
func (k ResourceKind) IsController() bool {
	switch k {
	case KindDeployment, KindStatefulSet, KindDaemonSet, KindJob, KindReplicaSet:
		return true
	default:
		return false
	}
}

func (k ResourceKind) String() string { return string(k) }
