package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Condition mirrors the subset of status.conditions the pipeline reads
// from any resource kind, including CRDs handled by the Generic fallback.
type Condition struct {
	Type               string    `json:"type"`
	Status             string    `json:"status"` // "True" | "False" | "Unknown"
	Reason             string    `json:"reason,omitempty"`
	Message            string    `json:"message,omitempty"`
	LastTransitionTime time.Time `json:"lastTransitionTime,omitempty"`
}

// Status is the normalized status summary attached to every ResourceRecord.
type Status struct {
	Phase      string      `json:"phase,omitempty"`
	Ready      bool        `json:"ready"`
	Conditions []Condition `json:"conditions,omitempty"`
}

// ResourceRecord is the typed, parsed representation of one cluster object.
// Identity is (Kind, Namespace, Name); UID is unique per process and is not
// the Kubernetes UID — it exists purely to key graph vertices for a run.
type ResourceRecord struct {
	Kind      ResourceKind `json:"kind"`
	Namespace string       `json:"namespace"`
	Name      string       `json:"name"`
	UID       string       `json:"uid"`

	Status      Status            `json:"status"`
	Labels      map[string]string `json:"labels,omitempty"`
	Annotations map[string]string `json:"annotations,omitempty"`

	// Properties carries kind-specific fragments the parsers extract:
	// container statuses, owner references, selectors, volumes, resource
	// requests/limits, a metrics snapshot, and (for Generic) the original
	// "kind" string under Properties["kind"].
	Properties map[string]any `json:"properties,omitempty"`

	Events []EventRecord `json:"events,omitempty"`
}

// NewResourceRecord constructs a record with a fresh process-unique UID.
func NewResourceRecord(kind ResourceKind, namespace, name string) *ResourceRecord {
	return &ResourceRecord{
		Kind:        kind,
		Namespace:   namespace,
		Name:        name,
		UID:         uuid.NewString(),
		Labels:      map[string]string{},
		Annotations: map[string]string{},
		Properties:  map[string]any{},
	}
}

// FullName returns "Kind/namespace/name", the identifier used throughout
// rendering and evidence strings.
func (r *ResourceRecord) FullName() string {
	if r == nil {
		return ""
	}
	return fmt.Sprintf("%s/%s/%s", r.Kind, r.Namespace, r.Name)
}

// OriginalKind returns the original API kind string for Generic records,
// falling back to the enum value for known kinds.
func (r *ResourceRecord) OriginalKind() string {
	if r.Kind == KindGeneric {
		if v, ok := r.Properties["kind"].(string); ok && v != "" {
			return v
		}
	}
	return string(r.Kind)
}

// Prop reads a Properties entry with a typed fallback.
func (r *ResourceRecord) Prop(key string) (any, bool) {
	if r.Properties == nil {
		return nil, false
	}
	v, ok := r.Properties[key]
	return v, ok
}
