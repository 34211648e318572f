package render

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/kubectl-smart/kubectl-smart/internal/forecast"
)

// TextOptions controls the human-readable renderer.
type TextOptions struct {
	LineWidth      int
	ForceASCII     bool
	Color          bool // output.colors_enabled
	MaxDisplay     int  // output.max_display_issues; 0 means no cap
	ElapsedSeconds float64
}

func (o TextOptions) width() int {
	if o.LineWidth <= 0 {
		return DefaultLineWidth
	}
	return o.LineWidth
}

// Text renders env as sectioned plain text, dispatching on the shape of
// env.Result.
func Text(env Envelope, opts TextOptions) string {
	var buf bytes.Buffer
	w := func(s string) { buf.WriteString(s) }
	wf := func(f string, a ...any) { fmt.Fprintf(&buf, f, a...) }

	wf("kubectl-smart %s\n", env.Command)
	wf("subject:   %s\n", env.Subject)
	wf("generated: %s\n", env.GeneratedAt.Format("2006-01-02T15:04:05Z07:00"))
	w(strings.Repeat("-", opts.width()) + "\n")

	switch result := env.Result.(type) {
	case DiagResult:
		buildDiagText(&buf, result, opts)
	case GraphResult:
		buildGraphText(&buf, result, opts)
	case TopResult:
		buildTopText(&buf, result, opts)
	default:
		wf("(unrecognized result type %T)\n", result)
	}

	for _, n := range env.Notes {
		for _, line := range wrapText("note: "+n, opts.width()) {
			w(line + "\n")
		}
	}
	if opts.ElapsedSeconds > 0 {
		wf("elapsed: %.2fs\n", opts.ElapsedSeconds)
	}
	return buf.String()
}

func buildDiagText(buf *bytes.Buffer, r DiagResult, opts TextOptions) {
	w := func(s string) { buf.WriteString(s) }
	wf := func(f string, a ...any) { fmt.Fprintf(buf, f, a...) }

	if r.RootCause == nil {
		w("root cause: none (no issue reached the reporting threshold)\n\n")
	} else {
		wf("root cause: [%s] %s\n", colorSeverity(opts.Color, string(r.RootCause.Severity)), r.RootCause.Title)
		wf("  resource: %s\n", r.RootCause.ResourceFullName)
		wf("  reason:   %s\n", r.RootCause.Reason)
		wf("  score:    %d\n", r.RootCause.Score)
		for _, ev := range r.RootCause.Evidence {
			for _, line := range indent(wrapText("evidence: "+ev, opts.width()-2), "  ") {
				wf("%s\n", line)
			}
		}
		w("\n")
	}

	if len(r.ContributingFactors) > 0 {
		w("contributing factors:\n")
		for i, f := range r.ContributingFactors {
			if i >= 3 {
				break
			}
			wf("  %d. [%s] %s (%s, score %d)\n", i+1, colorSeverity(opts.Color, string(f.Severity)), f.Title, f.ResourceFullName, f.Score)
		}
		w("\n")
	}

	if len(r.SuggestedActions) > 0 {
		w("suggested actions:\n")
		for _, a := range r.SuggestedActions {
			for _, line := range indent(wrapText("- "+a, opts.width()-2), "  ") {
				wf("%s\n", line)
			}
		}
		w("\n")
	}

	displayed := r.AllIssues
	truncated := 0
	if opts.MaxDisplay > 0 && len(displayed) > opts.MaxDisplay {
		truncated = len(displayed) - opts.MaxDisplay
		displayed = displayed[:opts.MaxDisplay]
	}
	wf("all issues (%d total):\n", len(r.AllIssues))
	for _, iss := range displayed {
		wf("  [%s] %-24s %s\n", colorSeverity(opts.Color, string(iss.Severity)), iss.Reason, iss.ResourceFullName)
	}
	if truncated > 0 {
		wf("  ... %d more (raise output.max_display_issues to see all)\n", truncated)
	}

	wf("\nsummary: %d total, %d critical, %d warning, %d info\n",
		r.Summary.TotalIssues, r.Summary.Critical, r.Summary.Warning, r.Summary.Info)
}

func buildGraphText(buf *bytes.Buffer, r GraphResult, opts TextOptions) {
	w := func(s string) { buf.WriteString(s) }
	wf := func(f string, a ...any) { fmt.Fprintf(buf, f, a...) }

	if len(r.Nodes) == 0 {
		w("(empty graph)\n")
		return
	}

	g := pickGlyphs(opts.ForceASCII)
	byUID := map[string]GraphNode{}
	children := map[string][]GraphEdge{}
	for _, n := range r.Nodes {
		byUID[n.UID] = n
	}
	for _, e := range r.Edges {
		children[e.From] = append(children[e.From], e)
	}

	root := r.SubjectUID
	if _, ok := byUID[root]; !ok && len(r.Nodes) > 0 {
		root = r.Nodes[0].UID
	}
	wf("%s (%s)\n", nodeLabel(byUID[root]), colorHealth(opts.Color, byUID[root].Health))
	visited := map[string]bool{root: true}
	writeTree(buf, g, byUID, children, root, "", visited, opts.Color)

	w("\nlegend: OK healthy, WARN degraded, CRIT failing\n\n")
	wf("stats: %d resources, %d dependencies, %d upstream, %d downstream\n",
		r.Stats.Resources, r.Stats.Dependencies, r.Stats.Upstream, r.Stats.Downstream)
}

func nodeLabel(n GraphNode) string {
	if n.Namespace == "" {
		return fmt.Sprintf("%s/%s", n.Kind, n.Name)
	}
	return fmt.Sprintf("%s/%s/%s", n.Kind, n.Namespace, n.Name)
}

// maxEdgesPerNodeDisplay caps how many outgoing edges of a single node the
// tree renderer expands before collapsing the remainder into a summary line.
const maxEdgesPerNodeDisplay = 50

func writeTree(buf *bytes.Buffer, g glyphs, byUID map[string]GraphNode, children map[string][]GraphEdge, uid, prefix string, visited map[string]bool, color bool) {
	edges := children[uid]
	shown := edges
	hidden := 0
	if len(edges) > maxEdgesPerNodeDisplay {
		shown = edges[:maxEdgesPerNodeDisplay]
		hidden = len(edges) - maxEdgesPerNodeDisplay
	}

	for i, e := range shown {
		last := i == len(shown)-1 && hidden == 0
		branch := g.branch
		nextPrefix := prefix + g.pipe
		if last {
			branch = g.lastBranch
			nextPrefix = prefix + "    "
		}
		child, ok := byUID[e.To]
		if !ok {
			continue
		}
		if visited[e.To] {
			fmt.Fprintf(buf, "%s%s%s [%s] (see above)\n", prefix, branch, nodeLabel(child), e.Label)
			continue
		}
		fmt.Fprintf(buf, "%s%s%s [%s] (%s)\n", prefix, branch, nodeLabel(child), e.Label, colorHealth(color, child.Health))
		visited[e.To] = true
		writeTree(buf, g, byUID, children, e.To, nextPrefix, visited, color)
	}

	if hidden > 0 {
		fmt.Fprintf(buf, "%s%s(+%d more)\n", prefix, g.lastBranch, hidden)
	}
}

func buildTopText(buf *bytes.Buffer, r TopResult, opts TextOptions) {
	w := func(s string) { buf.WriteString(s) }
	wf := func(f string, a ...any) { fmt.Fprintf(buf, f, a...) }

	wf("horizon: %.0fh\n\n", r.HorizonHours)

	w("capacity warnings:\n")
	if len(r.CapacityWarnings) == 0 {
		w("  no predictions\n")
	} else {
		for _, cw := range r.CapacityWarnings {
			writeCapacityWarning(buf, cw, opts.Color)
		}
	}

	w("\ncertificate warnings:\n")
	if len(r.CertificateWarnings) == 0 {
		w("  no predictions\n")
	} else {
		for _, cw := range r.CertificateWarnings {
			writeCertificateWarning(buf, cw, opts.Color)
		}
	}

	if len(r.Notes) > 0 {
		w("\nlimited signals:\n")
		for _, n := range r.Notes {
			wf("  - %s\n", n)
		}
	}
}

func writeCapacityWarning(buf *bytes.Buffer, cw forecast.CapacityWarning, color bool) {
	fmt.Fprintf(buf, "  [%s] %-12s %-6s current=%.1f%% projected=%.1f%% (%s)\n",
		colorSeverity(color, string(cw.Severity)), cw.Resource, cw.Metric, cw.CurrentPercent, cw.ProjectedPercent, cw.Method)
	fmt.Fprintf(buf, "      %s\n", cw.RecommendedAction)
}

func writeCertificateWarning(buf *bytes.Buffer, cw forecast.CertificateWarning, color bool) {
	fmt.Fprintf(buf, "  [%s] %s/%s expires %s (%d days left)\n",
		colorSeverity(color, string(cw.Severity)), cw.Namespace, cw.Secret, cw.ExpiresAt.Format("2006-01-02"), cw.DaysLeft)
	if len(cw.ReferencedBy) > 0 {
		fmt.Fprintf(buf, "      referenced by: %s\n", strings.Join(cw.ReferencedBy, ", "))
	}
	fmt.Fprintf(buf, "      %s\n", cw.RecommendedAction)
}
