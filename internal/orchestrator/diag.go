package orchestrator

import (
	"context"
	"fmt"

	smarterrors "github.com/kubectl-smart/kubectl-smart/internal/errors"
	"github.com/kubectl-smart/kubectl-smart/internal/collect"
	"github.com/kubectl-smart/kubectl-smart/internal/model"
	"github.com/kubectl-smart/kubectl-smart/internal/parse"
	"github.com/kubectl-smart/kubectl-smart/internal/render"
	"github.com/kubectl-smart/kubectl-smart/internal/scoring"
)

// DiagRequest names the subject a diag run diagnoses.
type DiagRequest struct {
	Kind          string
	Namespace     string
	Name          string
	CorrelateLogs bool // --correlate-logs: fold log-tail correlation into scoring
}

// Diag runs the collect -> parse -> score pipeline for one subject and
// returns its rendered envelope plus the exit code the caller should use.
func (o *Orchestrator) Diag(ctx context.Context, req DiagRequest) (*render.Envelope, ExitCode, error) {
	if err := validateSubject("orchestrator.Diag", req.Kind, req.Namespace, req.Name); err != nil {
		return nil, ExitCritical, err
	}

	res, err := collect.Diag(ctx, o.Client, req.Kind, req.Namespace, req.Name, o.Collect)
	if err != nil {
		return nil, ExitCritical, err
	}
	notes := notesFromPartial(res.Partial)

	wantKind := model.ParseKind(req.Kind)
	var subject *model.ResourceRecord
	var children []*model.ResourceRecord
	for _, raw := range res.Objects {
		rec := parse.Resource(raw)
		if rec.Kind == wantKind && rec.Namespace == req.Namespace && rec.Name == req.Name {
			subject = rec
			continue
		}
		if rec.Kind == model.KindPod {
			children = append(children, rec)
		}
	}
	if subject == nil {
		return nil, ExitCritical, smarterrors.New(smarterrors.NotFound, "orchestrator.Diag",
			fmt.Errorf("%s/%s/%s not found", req.Kind, req.Namespace, req.Name))
	}

	now := nowFunc()
	events := parse.Events(res.Events)

	scored := o.Scoring.Score(scoring.Input{
		Subject:       subject,
		Children:      children,
		Events:        events,
		LogTails:      res.LogTails,
		CorrelateLogs: req.CorrelateLogs,
		Now:           now,
	})

	var suggested []string
	if scored.RootCause != nil {
		suggested = scored.RootCause.SuggestedActions
	}

	envelope := &render.Envelope{
		SchemaVersion: render.SchemaVersion,
		Command:       "diag",
		GeneratedAt:   now,
		Subject:       subject.FullName(),
		Result: render.DiagResult{
			RootCause:           scored.RootCause,
			ContributingFactors: scored.ContributingFactors,
			AllIssues:           scored.AllIssues,
			SuggestedActions:    suggested,
			Summary:             render.SummarizeIssues(scored.AllIssues),
		},
		Notes: notes,
	}

	return envelope, diagExitCode(scored.RootCause), nil
}

func diagExitCode(root *model.Issue) ExitCode {
	if root == nil {
		return ExitOK
	}
	if root.Severity == model.SeverityCritical {
		return ExitCritical
	}
	return ExitWarning
}
