package scoring

import (
	"sort"
	"time"

	"github.com/kubectl-smart/kubectl-smart/internal/model"
	"github.com/kubectl-smart/kubectl-smart/internal/parse"
)

// Engine scores a record set into Issues using a fixed weights table.
type Engine struct {
	weights WeightsTable
}

// NewEngine builds an Engine over an already-loaded weights table.
func NewEngine(weights WeightsTable) *Engine {
	return &Engine{weights: weights}
}

// Input bundles everything one diag run's scoring pass needs.
type Input struct {
	Subject       *model.ResourceRecord
	Children      []*model.ResourceRecord // child pods, populated for controllers
	Events        []model.EventRecord
	LogTails      map[string]string // "namespace/pod/container[|previous]" -> tail text; read only when CorrelateLogs
	CorrelateLogs bool
	Now           time.Time
}

// Result is the scored output of one diag run.
type Result struct {
	AllIssues           []model.Issue
	RootCause           *model.Issue
	ContributingFactors []model.Issue
}

type candidate struct {
	reason    string
	title     string
	message   string
	resource  *model.ResourceRecord
	container string
	source    model.IssueSource
	baseScore int
	count     int
	lastSeen  time.Time
	isWaiting bool // Waiting container state beats a derived BackOff on tie-break (a)
}

// Score produces the deduplicated, modifier-applied, root-cause-tagged
// issue set for one subject (and its children, for controllers).
func (e *Engine) Score(in Input) Result {
	subjects := append([]*model.ResourceRecord{in.Subject}, in.Children...)

	var candidates []candidate
	for _, r := range subjects {
		candidates = append(candidates, e.containerCandidates(r)...)
		candidates = append(candidates, e.genericConditionCandidates(r, in.Now)...)
	}
	candidates = append(candidates, e.eventCandidates(in.Events, subjects)...)

	issues := map[string]model.Issue{}
	for _, c := range candidates {
		iss := e.toIssue(c, in)
		key := iss.Key()
		if existing, ok := issues[key]; ok && existing.Score >= iss.Score {
			continue
		}
		issues[key] = iss
	}

	all := make([]model.Issue, 0, len(issues))
	for _, iss := range issues {
		all = append(all, iss)
	}
	sortIssues(all)

	res := Result{AllIssues: all}
	root, factors := selectRootCause(all, candidates)
	res.RootCause = root
	res.ContributingFactors = factors
	return res
}

// containerCandidates reads Waiting/Terminated container states out of a
// record's Properties["containers"] (populated by internal/parse for Pods).
func (e *Engine) containerCandidates(r *model.ResourceRecord) []candidate {
	if r.Kind != model.KindPod {
		return nil
	}
	raw, ok := r.Prop("containers")
	if !ok {
		return nil
	}
	statuses, ok := raw.([]parse.ContainerStatus)
	if !ok {
		return nil
	}
	var out []candidate
	for _, cs := range statuses {
		switch {
		case cs.OOMKilled:
			out = append(out, candidate{
				reason: "OOMKilled", title: "Container OOMKilled",
				message:   "container " + cs.Name + " was OOM-killed",
				resource:  r, container: cs.Name, source: model.SourceStatus,
				baseScore: e.weights["OOMKilled"], count: cs.RestartCount, isWaiting: false,
			})
		case cs.WaitingReason != "":
			out = append(out, candidate{
				reason: cs.WaitingReason, title: "Container waiting: " + cs.WaitingReason,
				message:   cs.WaitingMessage,
				resource:  r, container: cs.Name, source: model.SourceStatus,
				baseScore: e.weights[cs.WaitingReason], count: cs.RestartCount, isWaiting: true,
			})
		}
	}
	return out
}

// genericConditionCandidates implements the Generic CRD fallback: scans
// status.conditions for Ready=False, Healthy=False, or a long-running
// Progressing=True, independent of whether a known reason already fired.
func (e *Engine) genericConditionCandidates(r *model.ResourceRecord, now time.Time) []candidate {
	var out []candidate
	for _, c := range r.Status.Conditions {
		switch {
		case c.Type == "Ready" && c.Status == "False":
			out = append(out, candidate{
				reason: "NotReady:" + c.Reason, title: "Not Ready: " + c.Reason,
				message: c.Message, resource: r, source: model.SourceStatus,
				baseScore: 95,
			})
		case c.Type == "Healthy" && c.Status == "False":
			out = append(out, candidate{
				reason: "Unhealthy:" + c.Reason, title: "Not Ready: " + c.Reason,
				message: c.Message, resource: r, source: model.SourceStatus,
				baseScore: 90,
			})
		case c.Type == "Progressing" && c.Status == "True":
			// only counts once stalled for >=15 minutes
			if !c.LastTransitionTime.IsZero() && now.Sub(c.LastTransitionTime) >= 15*time.Minute {
				out = append(out, candidate{
					reason: "Progressing:" + c.Reason, title: "Stalled Progressing: " + c.Reason,
					message: c.Message, resource: r, source: model.SourceStatus,
					baseScore: 60,
				})
			}
		}
	}
	return out
}

// eventCandidates converts coalesced events whose Reason matches the
// weights table into candidates, resolved back to the subject/children by
// InvolvedObject identity.
func (e *Engine) eventCandidates(events []model.EventRecord, subjects []*model.ResourceRecord) []candidate {
	byIdentity := map[string]*model.ResourceRecord{}
	for _, r := range subjects {
		byIdentity[r.Kind.String()+"/"+r.Namespace+"/"+r.Name] = r
	}

	var out []candidate
	for _, ev := range events {
		base, ok := e.weights[ev.Reason]
		if !ok {
			continue
		}
		r, ok := byIdentity[ev.InvolvedObject.Kind+"/"+ev.InvolvedObject.Namespace+"/"+ev.InvolvedObject.Name]
		if !ok {
			continue
		}
		out = append(out, candidate{
			reason: ev.Reason, title: ev.Reason, message: ev.Message,
			resource: r, source: model.SourceEvent,
			baseScore: base, count: ev.Count, lastSeen: ev.LastTimestamp, isWaiting: false,
		})
	}
	return out
}

func (e *Engine) toIssue(c candidate, in Input) model.Issue {
	score := c.baseScore

	if !c.lastSeen.IsZero() {
		age := in.Now.Sub(c.lastSeen)
		switch {
		case age <= 5*time.Minute:
			score += 10
		case age <= 30*time.Minute:
			score += 5
		}
	}

	if c.count > 1 {
		bonus := c.count - 1
		if bonus > 15 {
			bonus = 15
		}
		score += bonus
	}

	if pct, ok := unhealthyFraction(in.Subject, in.Children); ok {
		if pct >= 1.0 {
			score += 10
		} else if pct >= 0.5 {
			score += 5
		}
	}

	if in.CorrelateLogs {
		for key, tail := range in.LogTails {
			_ = key
			if correlatesWithLogs(c.reason, tail) {
				score += 5
				break
			}
		}
	}

	iss := model.Issue{
		Title:            c.title,
		Reason:           c.reason,
		Score:            score,
		Source:           c.source,
		Resource:         c.resource,
		ResourceFullName: c.resource.FullName(),
		SuggestedActions: ActionsFor(c.reason, c.resource.Namespace, c.resource.Name, c.container),
	}
	if c.message != "" {
		iss.Evidence = []string{c.message}
	}
	iss.Clamp()
	return iss
}

// unhealthyFraction computes the Scope modifier's input: the fraction of
// child pods (or the subject itself, if it is a bare Pod) that are not
// Ready. Returns ok=false when the subject isn't a controller with
// observed children.
func unhealthyFraction(subject *model.ResourceRecord, children []*model.ResourceRecord) (float64, bool) {
	if !subject.Kind.IsController() || len(children) == 0 {
		return 0, false
	}
	unhealthy := 0
	for _, c := range children {
		if !c.Status.Ready {
			unhealthy++
		}
	}
	return float64(unhealthy) / float64(len(children)), true
}

func sortIssues(issues []model.Issue) {
	sort.SliceStable(issues, func(i, j int) bool {
		if issues[i].Score != issues[j].Score {
			return issues[i].Score > issues[j].Score
		}
		return issues[i].Reason < issues[j].Reason
	})
}

// selectRootCause picks the single highest-scoring issue with score>=50,
// tie-broken by (a) Waiting origin over derived BackOff, (b) higher
// recurrence, (c) lexicographic reason. The next up to three issues with
// score>=50 (after the root cause, already deduplicated by construction)
// become contributing factors.
func selectRootCause(all []model.Issue, candidates []candidate) (*model.Issue, []model.Issue) {
	eligible := make([]model.Issue, 0, len(all))
	for _, iss := range all {
		if iss.Score >= 50 {
			eligible = append(eligible, iss)
		}
	}
	if len(eligible) == 0 {
		return nil, nil
	}

	waitingByKey := map[string]bool{}
	countByKey := map[string]int{}
	for _, c := range candidates {
		key := c.reason + "|" + c.resource.FullName()
		if c.isWaiting {
			waitingByKey[key] = true
		}
		if c.count > countByKey[key] {
			countByKey[key] = c.count
		}
	}

	sort.SliceStable(eligible, func(i, j int) bool {
		a, b := eligible[i], eligible[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		aw, bw := waitingByKey[a.Key()], waitingByKey[b.Key()]
		if aw != bw {
			return aw
		}
		ac, bc := countByKey[a.Key()], countByKey[b.Key()]
		if ac != bc {
			return ac > bc
		}
		return a.Reason < b.Reason
	})

	root := eligible[0]
	root.IsRootCause = true

	var factors []model.Issue
	for _, iss := range eligible[1:] {
		if len(factors) >= 3 {
			break
		}
		factors = append(factors, iss)
	}

	for i := range all {
		if all[i].Key() == root.Key() {
			all[i].IsRootCause = true
		}
	}

	return &root, factors
}
