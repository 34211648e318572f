// Package render turns pipeline results into the two documented output
// modes: sectioned human-readable text and a versioned JSON envelope.
package render

import (
	"time"

	"github.com/kubectl-smart/kubectl-smart/internal/forecast"
	"github.com/kubectl-smart/kubectl-smart/internal/model"
)

// SchemaVersion is the current structured output schema version. Field
// additions are non-breaking; removals bump this.
const SchemaVersion = "1"

// Envelope is the top-level structured output for every command.
type Envelope struct {
	SchemaVersion string    `json:"schema_version"`
	Command       string    `json:"command"`
	GeneratedAt   time.Time `json:"generated_at"`
	Subject       string    `json:"subject"`
	Result        any       `json:"result"`
	Notes         []string  `json:"notes,omitempty"`
}

// Summary buckets an issue set by severity.
type Summary struct {
	TotalIssues int `json:"total_issues"`
	Critical    int `json:"critical"`
	Warning     int `json:"warning"`
	Info        int `json:"info"`
}

// SummarizeIssues counts issues into a Summary.
func SummarizeIssues(issues []model.Issue) Summary {
	s := Summary{TotalIssues: len(issues)}
	for _, i := range issues {
		switch i.Severity {
		case model.SeverityCritical:
			s.Critical++
		case model.SeverityWarning:
			s.Warning++
		default:
			s.Info++
		}
	}
	return s
}

// DiagResult is the `result` payload for the diag command.
type DiagResult struct {
	RootCause           *model.Issue  `json:"root_cause,omitempty"`
	ContributingFactors []model.Issue `json:"contributing_factors"`
	AllIssues           []model.Issue `json:"all_issues"`
	SuggestedActions    []string      `json:"suggested_actions"`
	Summary             Summary       `json:"summary"`
}

// GraphNode is one rendered graph vertex.
type GraphNode struct {
	UID       string `json:"uid"`
	Kind      string `json:"kind"`
	Namespace string `json:"namespace"`
	Name      string `json:"name"`
	Health    string `json:"health"`
}

// GraphEdge is one rendered graph edge.
type GraphEdge struct {
	From  string `json:"from"`
	To    string `json:"to"`
	Label string `json:"label"`
}

// GraphStats summarizes a rendered graph.
type GraphStats struct {
	Resources    int `json:"resources"`
	Dependencies int `json:"dependencies"`
	Upstream     int `json:"upstream"`
	Downstream   int `json:"downstream"`
}

// GraphResult is the `result` payload for the graph command. SubjectUID
// is not part of the documented schema (it is omitted from JSON) but
// tells the text renderer where to root the ASCII tree.
type GraphResult struct {
	SubjectUID string      `json:"-"`
	Nodes      []GraphNode `json:"nodes"`
	Edges      []GraphEdge `json:"edges"`
	Stats      GraphStats  `json:"stats"`
}

// TopResult is the `result` payload for the top command.
type TopResult struct {
	HorizonHours        float64                       `json:"horizon_hours"`
	CapacityWarnings    []forecast.CapacityWarning    `json:"capacity_warnings"`
	CertificateWarnings []forecast.CertificateWarning `json:"certificate_warnings"`
	Notes               []string                      `json:"notes"`
}
