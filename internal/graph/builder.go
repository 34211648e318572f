// Package graph builds the directed resource dependency graph the diag and
// graph commands render and traverse. Edge emission follows a fixed
// ruleset over parsed ResourceRecords; there is no discovery beyond what a
// Collector run already fetched.
package graph

import (
	"github.com/kubectl-smart/kubectl-smart/internal/model"
	"github.com/kubectl-smart/kubectl-smart/internal/parse"
)

// Builder accumulates records and produces a model.Graph in one pass.
type Builder struct {
	includeEndpoints bool
	g                *model.Graph

	byUID       map[string]*model.ResourceRecord
	byNamespace map[string][]*model.ResourceRecord
	byNodeName  map[string]*model.ResourceRecord
}

// Option configures a Builder.
type Option func(*Builder)

// WithEndpoints additionally emits Service -> Pod `selects` edges resolved
// through each Service's Endpoints object; label-selector edges are emitted
// either way. EndpointSlice objects are not read.
func WithEndpoints(v bool) Option {
	return func(b *Builder) { b.includeEndpoints = v }
}

// NewBuilder returns a Builder ready to accept records.
func NewBuilder(opts ...Option) *Builder {
	b := &Builder{
		g:           model.NewGraph(),
		byUID:       map[string]*model.ResourceRecord{},
		byNamespace: map[string][]*model.ResourceRecord{},
		byNodeName:  map[string]*model.ResourceRecord{},
	}
	for _, o := range opts {
		o(b)
	}
	return b
}

// Add registers a record as a vertex. Call Add for every record before
// Build, since edge emission depends on cross-record lookups (owner
// references, selectors) that need the full vertex set populated first.
func (b *Builder) Add(r *model.ResourceRecord) {
	if r == nil {
		return
	}
	b.g.AddVertex(r)
	b.byUID[r.UID] = r
	b.byNamespace[r.Namespace] = append(b.byNamespace[r.Namespace], r)
	if r.Kind == model.KindNode {
		b.byNodeName[r.Name] = r
	}
}

// Build emits every edge the ruleset defines and returns the finished
// graph. Idempotent to call once; re-adding vertices and re-building
// duplicates edges, so Builder is single-use per run.
func (b *Builder) Build() *model.Graph {
	for _, r := range b.byUID {
		b.emitOwnerEdges(r)
		b.emitPodEdges(r)
		b.emitServiceEdges(r)
		b.emitIngressEdges(r)
		b.emitPVCEdges(r)
		b.emitHPAEdges(r)
		b.emitNetworkPolicyEdges(r)
		if b.includeEndpoints {
			b.emitEndpointsEdges(r)
		}
	}
	return b.g
}

// emitEndpointsEdges adds Service -> Pod `selects` edges by resolving an
// Endpoints object (sharing its Service's namespace and name, per
// Kubernetes convention) to the Pods its subsets currently reference. Only
// active under WithEndpoints(true); direct selector matching in
// emitServiceEdges already covers the common case.
func (b *Builder) emitEndpointsEdges(r *model.ResourceRecord) {
	if r.Kind != model.KindEndpoints {
		return
	}
	svc := b.findByKindName(r.Namespace, "Service", r.Name)
	if svc == nil {
		return
	}
	names, _ := r.Prop("endpointPodNames")
	podNames, ok := names.([]string)
	if !ok {
		return
	}
	for _, name := range podNames {
		if pod := b.findByKindName(r.Namespace, "Pod", name); pod != nil {
			b.g.AddEdge(svc.UID, pod.UID, model.EdgeSelects)
		}
	}
}

// emitOwnerEdges adds an `owns` edge from a record's controller to the
// record itself, using ownerReferences.controller==true. This covers
// ReplicaSet->Pod, Deployment->ReplicaSet, StatefulSet->Pod, Job->Pod, etc.
func (b *Builder) emitOwnerEdges(r *model.ResourceRecord) {
	owners, _ := r.Prop("ownerReferences")
	refs, ok := owners.([]parse.OwnerRef)
	if !ok {
		return
	}
	for _, ref := range refs {
		if !ref.Controller {
			continue
		}
		owner := b.findByKindName(r.Namespace, ref.Kind, ref.Name)
		if owner == nil {
			continue
		}
		b.g.AddEdge(owner.UID, r.UID, model.EdgeOwns)
	}
}

// emitPodEdges adds Pod -> Node (`scheduled-on`), Pod -> {ConfigMap,
// Secret, PVC} (`mounts`), and Pod -> ServiceAccount (`references`).
func (b *Builder) emitPodEdges(r *model.ResourceRecord) {
	if r.Kind != model.KindPod {
		return
	}
	if nodeName, ok := r.Prop("nodeName"); ok {
		if name, _ := nodeName.(string); name != "" {
			if node, ok := b.byNodeName[name]; ok {
				b.g.AddEdge(r.UID, node.UID, model.EdgeScheduledOn)
			}
		}
	}
	if saName, ok := r.Prop("serviceAccountName"); ok {
		if name, _ := saName.(string); name != "" {
			if sa := b.findByKindName(r.Namespace, "ServiceAccount", name); sa != nil {
				b.g.AddEdge(r.UID, sa.UID, model.EdgeReferences)
			}
		}
	}
	mounts, _ := r.Prop("volumeMounts")
	vms, ok := mounts.([]parse.VolumeMount)
	if !ok {
		return
	}
	for _, vm := range vms {
		if vm.ConfigMapName != "" {
			if cm := b.findByKindName(r.Namespace, "ConfigMap", vm.ConfigMapName); cm != nil {
				b.g.AddEdge(r.UID, cm.UID, model.EdgeMounts)
			}
		}
		if vm.SecretName != "" {
			if sec := b.findByKindName(r.Namespace, "Secret", vm.SecretName); sec != nil {
				b.g.AddEdge(r.UID, sec.UID, model.EdgeMounts)
			}
		}
		if vm.PVCName != "" {
			if pvc := b.findByKindName(r.Namespace, "PersistentVolumeClaim", vm.PVCName); pvc != nil {
				b.g.AddEdge(r.UID, pvc.UID, model.EdgeMounts)
			}
		}
	}
}

// emitServiceEdges adds Service -> Pod `selects` edges via label-selector
// containment: a Pod is selected when every selector key/value pair is
// present in the Pod's labels. Empty selectors select nothing (matches
// kubectl's own semantics for a headless Service with no selector).
func (b *Builder) emitServiceEdges(r *model.ResourceRecord) {
	if r.Kind != model.KindService {
		return
	}
	selProp, _ := r.Prop("selector")
	selector, ok := selProp.(map[string]string)
	if !ok || len(selector) == 0 {
		return
	}
	for _, cand := range b.byNamespace[r.Namespace] {
		if cand.Kind != model.KindPod {
			continue
		}
		if labelsContain(cand.Labels, selector) {
			b.g.AddEdge(r.UID, cand.UID, model.EdgeSelects)
		}
	}
}

// emitIngressEdges adds Ingress -> Service `references` edges for every
// backend named in spec.rules and spec.defaultBackend, plus Ingress ->
// Secret `references` edges for spec.tls entries.
func (b *Builder) emitIngressEdges(r *model.ResourceRecord) {
	if r.Kind != model.KindIngress {
		return
	}
	if backends, ok := r.Prop("backendServices"); ok {
		if names, ok := backends.([]string); ok {
			for _, name := range names {
				if svc := b.findByKindName(r.Namespace, "Service", name); svc != nil {
					b.g.AddEdge(r.UID, svc.UID, model.EdgeReferences)
				}
			}
		}
	}
	if secrets, ok := r.Prop("tlsSecrets"); ok {
		if names, ok := secrets.([]string); ok {
			for _, name := range names {
				if sec := b.findByKindName(r.Namespace, "Secret", name); sec != nil {
					b.g.AddEdge(r.UID, sec.UID, model.EdgeReferences)
				}
			}
		}
	}
}

// emitPVCEdges adds PersistentVolumeClaim -> PersistentVolume `binds-to`
// edges from spec.volumeName / status.boundVolume.
func (b *Builder) emitPVCEdges(r *model.ResourceRecord) {
	if r.Kind != model.KindPersistentVolumeClaim {
		return
	}
	bound, ok := r.Prop("boundVolume")
	if !ok {
		return
	}
	name, _ := bound.(string)
	if name == "" {
		return
	}
	if pv := b.findByKindName("", "PersistentVolume", name); pv != nil {
		b.g.AddEdge(r.UID, pv.UID, model.EdgeBindsTo)
	}
}

// emitHPAEdges adds HorizontalPodAutoscaler -> {Deployment, StatefulSet,
// ReplicaSet} `references` edges from spec.scaleTargetRef.
func (b *Builder) emitHPAEdges(r *model.ResourceRecord) {
	if r.Kind != model.KindHorizontalPodAutoscaler {
		return
	}
	kindProp, _ := r.Prop("scaleTargetKind")
	nameProp, _ := r.Prop("scaleTargetName")
	kind, _ := kindProp.(string)
	name, _ := nameProp.(string)
	if kind == "" || name == "" {
		return
	}
	if target := b.findByKindName(r.Namespace, kind, name); target != nil {
		b.g.AddEdge(r.UID, target.UID, model.EdgeReferences)
	}
}

// emitNetworkPolicyEdges adds NetworkPolicy -> Pod `selects` edges via the
// same label-subset containment rule as Services.
func (b *Builder) emitNetworkPolicyEdges(r *model.ResourceRecord) {
	if r.Kind != model.KindNetworkPolicy {
		return
	}
	selProp, _ := r.Prop("podSelector")
	selector, ok := selProp.(map[string]string)
	if !ok {
		return
	}
	if len(selector) == 0 {
		// An empty podSelector targets every Pod in the namespace.
		for _, cand := range b.byNamespace[r.Namespace] {
			if cand.Kind == model.KindPod {
				b.g.AddEdge(r.UID, cand.UID, model.EdgeSelects)
			}
		}
		return
	}
	for _, cand := range b.byNamespace[r.Namespace] {
		if cand.Kind != model.KindPod {
			continue
		}
		if labelsContain(cand.Labels, selector) {
			b.g.AddEdge(r.UID, cand.UID, model.EdgeSelects)
		}
	}
}

// findByKindName resolves a (namespace, kind, name) triple to a vertex.
// Cluster-scoped kinds (PersistentVolume, Node) ignore namespace and pass
// "" for it.
func (b *Builder) findByKindName(namespace, kind, name string) *model.ResourceRecord {
	want := model.ParseKind(kind)
	pool := b.byUID
	if namespace != "" {
		var out *model.ResourceRecord
		for _, r := range b.byNamespace[namespace] {
			if r.Kind == want && r.Name == name {
				out = r
				break
			}
		}
		if out != nil {
			return out
		}
	}
	for _, r := range pool {
		if r.Kind == want && r.Name == name && (namespace == "" || r.Namespace == namespace) {
			return r
		}
	}
	return nil
}

func labelsContain(labels, selector map[string]string) bool {
	if len(selector) == 0 {
		return false
	}
	for k, v := range selector {
		if labels[k] != v {
			return false
		}
	}
	return true
}
