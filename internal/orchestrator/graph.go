package orchestrator

import (
	"context"
	"fmt"

	smarterrors "github.com/kubectl-smart/kubectl-smart/internal/errors"
	"github.com/kubectl-smart/kubectl-smart/internal/collect"
	internalgraph "github.com/kubectl-smart/kubectl-smart/internal/graph"
	"github.com/kubectl-smart/kubectl-smart/internal/model"
	"github.com/kubectl-smart/kubectl-smart/internal/parse"
	"github.com/kubectl-smart/kubectl-smart/internal/render"
	"github.com/kubectl-smart/kubectl-smart/internal/scoring"
)

// GraphRequest names the subject and traversal direction for a graph run.
// Upstream and Downstream both false (the CLI default) renders the full
// two-way blast radius; setting one alone restricts the walk to that
// direction.
type GraphRequest struct {
	Kind             string
	Namespace        string
	Name             string
	Upstream         bool
	Downstream       bool
	IncludeEndpoints bool
}

// Graph runs the collect -> parse -> build pipeline for one subject and
// renders its dependency neighborhood. graph never fails on issue severity;
// only a fatal collection or lookup error yields a non-OK exit code.
func (o *Orchestrator) Graph(ctx context.Context, req GraphRequest) (*render.Envelope, ExitCode, error) {
	if err := validateSubject("orchestrator.Graph", req.Kind, req.Namespace, req.Name); err != nil {
		return nil, ExitCritical, err
	}

	res, err := collect.Graph(ctx, o.Client, req.Kind, req.Namespace, req.Name, o.Collect)
	if err != nil {
		return nil, ExitCritical, err
	}
	notes := notesFromPartial(res.Partial)

	b := internalgraph.NewBuilder(internalgraph.WithEndpoints(req.IncludeEndpoints))
	wantKind := model.ParseKind(req.Kind)
	var subject *model.ResourceRecord
	seen := map[string]bool{}
	for _, raw := range res.Objects {
		rec := parse.Resource(raw)
		// The subject arrives twice (its own Get and the list of its kind);
		// keep one record per identity so edges and subject share a vertex.
		if seen[rec.FullName()] {
			continue
		}
		seen[rec.FullName()] = true
		b.Add(rec)
		if rec.Kind == wantKind && rec.Namespace == req.Namespace && rec.Name == req.Name {
			subject = rec
		}
	}
	g := b.Build()
	if subject == nil {
		return nil, ExitCritical, smarterrors.New(smarterrors.NotFound, "orchestrator.Graph",
			fmt.Errorf("%s/%s/%s not found", req.Kind, req.Namespace, req.Name))
	}

	var upstream, downstream []*model.ResourceRecord
	switch {
	case req.Upstream && !req.Downstream:
		upstream = internalgraph.Walk(g, subject.UID, internalgraph.Upstream, 0)
	case req.Downstream && !req.Upstream:
		downstream = internalgraph.Walk(g, subject.UID, internalgraph.Downstream, 0)
	default:
		upstream = internalgraph.Walk(g, subject.UID, internalgraph.Upstream, 0)
		downstream = internalgraph.Walk(g, subject.UID, internalgraph.Downstream, 0)
	}

	included := map[string]bool{subject.UID: true}
	for _, r := range upstream {
		included[r.UID] = true
	}
	for _, r := range downstream {
		included[r.UID] = true
	}

	now := nowFunc()
	var allIssues []model.Issue
	for uid := range included {
		v, ok := g.Vertex(uid)
		if !ok {
			continue
		}
		scored := o.Scoring.Score(scoring.Input{Subject: v, Now: now})
		allIssues = append(allIssues, scored.AllIssues...)
	}
	healthIdx := internalgraph.HealthIndex(allIssues)

	var nodes []render.GraphNode
	for _, v := range g.Vertices() {
		if !included[v.UID] {
			continue
		}
		nodes = append(nodes, render.GraphNode{
			UID: v.UID, Kind: v.Kind.String(), Namespace: v.Namespace, Name: v.Name,
			Health: healthGlyphFor(healthIdx, v),
		})
	}

	var edges []render.GraphEdge
	for uid := range included {
		for _, e := range g.Out(uid) {
			if !included[e.To] {
				continue
			}
			edges = append(edges, render.GraphEdge{From: e.From, To: e.To, Label: string(e.Label)})
		}
	}

	envelope := &render.Envelope{
		SchemaVersion: render.SchemaVersion,
		Command:       "graph",
		GeneratedAt:   now,
		Subject:       subject.FullName(),
		Result: render.GraphResult{
			SubjectUID: subject.UID,
			Nodes:      nodes,
			Edges:      edges,
			Stats: render.GraphStats{
				Resources:    len(nodes),
				Dependencies: len(edges),
				Upstream:     len(upstream),
				Downstream:   len(downstream),
			},
		},
		Notes: notes,
	}

	return envelope, ExitOK, nil
}

func healthGlyphFor(idx map[string]internalgraph.HealthGlyph, r *model.ResourceRecord) string {
	if g, ok := idx[r.FullName()]; ok {
		return string(g)
	}
	return string(internalgraph.GlyphHealthy)
}
