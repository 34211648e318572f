package model

// Severity buckets an Issue's score. The boundaries are load-bearing:
// tests assert score>=90 <=> Critical and 50<=score<90 <=> Warning.
type Severity string

const (
	SeverityInfo     Severity = "Info"
	SeverityWarning  Severity = "Warning"
	SeverityCritical Severity = "Critical"
	SeverityHealthy  Severity = "Healthy" // never assigned by the scorer; graph glyphs use graph.HealthGlyph
)

// SeverityFromScore buckets a clamped [0,100] score into a Severity.
func SeverityFromScore(score int) Severity {
	switch {
	case score >= 90:
		return SeverityCritical
	case score >= 50:
		return SeverityWarning
	default:
		return SeverityInfo
	}
}

// IssueSource records which signal produced an Issue.
type IssueSource string

const (
	SourceEvent    IssueSource = "event"
	SourceStatus   IssueSource = "status"
	SourceLog      IssueSource = "log"
	SourceForecast IssueSource = "forecast"
	SourceNode     IssueSource = "node"
)

// Issue is one diagnostic finding produced by the scoring engine or the
// forecaster.
type Issue struct {
	Title            string          `json:"title"`
	Reason           string          `json:"reason"`
	Severity         Severity        `json:"severity"`
	Score            int             `json:"score"`
	Source           IssueSource     `json:"source"`
	Resource         *ResourceRecord `json:"-"`
	ResourceFullName string          `json:"resource"`
	Evidence         []string        `json:"evidence,omitempty"`
	SuggestedActions []string        `json:"suggested_actions,omitempty"`
	IsRootCause      bool            `json:"is_root_cause,omitempty"`
}

// Clamp keeps score within [0,100] and refreshes the derived Severity.
func (i *Issue) Clamp() {
	if i.Score < 0 {
		i.Score = 0
	}
	if i.Score > 100 {
		i.Score = 100
	}
	i.Severity = SeverityFromScore(i.Score)
}

// Key identifies an issue for deduplication by (reason, resource).
func (i *Issue) Key() string {
	return i.Reason + "|" + i.ResourceFullName
}
