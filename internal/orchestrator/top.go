package orchestrator

import (
	"context"

	"github.com/kubectl-smart/kubectl-smart/internal/collect"
	"github.com/kubectl-smart/kubectl-smart/internal/forecast"
	"github.com/kubectl-smart/kubectl-smart/internal/kubeclient"
	"github.com/kubectl-smart/kubectl-smart/internal/model"
	"github.com/kubectl-smart/kubectl-smart/internal/parse"
	"github.com/kubectl-smart/kubectl-smart/internal/render"
)

// TopRequest names the namespace a capacity/certificate forecast run scans.
type TopRequest struct {
	Namespace    string
	HorizonHours float64 // must be in (0,168]; the CLI substitutes the config default before an unset flag ever reaches here
}

// Top runs the collect -> parse -> forecast pipeline for one namespace. Like
// graph, top never fails on finding severity; it exits non-OK only on a
// fatal collection error.
func (o *Orchestrator) Top(ctx context.Context, req TopRequest) (*render.Envelope, ExitCode, error) {
	if err := validateNamespace("orchestrator.Top", req.Namespace); err != nil {
		return nil, ExitCritical, err
	}
	if err := validateHorizon("orchestrator.Top", req.HorizonHours); err != nil {
		return nil, ExitCritical, err
	}
	horizon := req.HorizonHours

	res, err := collect.Top(ctx, o.Client, req.Namespace, o.Collect)
	if err != nil {
		return nil, ExitCritical, err
	}
	notes := notesFromPartial(res.Partial)
	metricsUnavail := len(res.TopPods) == 0 && len(res.TopNodes) == 0

	var nodes []*model.ResourceRecord
	var ingresses []*model.ResourceRecord
	var tlsSecrets []forecast.TLSSecret
	for _, raw := range res.Objects {
		switch model.ParseKind(raw.Kind) {
		case model.KindNode:
			nodes = append(nodes, parse.Resource(raw))
		case model.KindIngress:
			ingresses = append(ingresses, parse.Resource(raw))
		case model.KindSecret:
			if s := tlsSecretFrom(raw); s != nil {
				tlsSecrets = append(tlsSecrets, *s)
			}
		}
	}

	referencedBy := map[string][]string{}
	for _, ing := range ingresses {
		names, _ := ing.Prop("tlsSecrets")
		secretNames, _ := names.([]string)
		for _, name := range secretNames {
			key := ing.Namespace + "/" + name
			referencedBy[key] = append(referencedBy[key], ing.FullName())
		}
	}

	now := nowFunc()
	certWarnings, certNotes := forecast.Certificates(tlsSecrets, referencedBy, now)

	volumeMetrics := map[string]*parse.VolumeMetric{}
	for _, raw := range res.VolumeMetrics {
		for key, vm := range parse.KubeletVolumeMetrics(string(raw)) {
			volumeMetrics[key] = vm
		}
	}
	pvcUsage := map[string]forecast.PVCUsage{}
	for key, vm := range volumeMetrics {
		pvcUsage[key] = forecast.PVCUsage{UsedBytes: vm.UsedBytes, CapacityBytes: vm.CapacityBytes}
	}

	capacityWarnings, capNotes := forecast.Capacity(forecast.CapacityInput{
		ClusterContext: o.ClusterContext,
		NodeTop:        res.TopNodes,
		Nodes:          nodes,
		PVCUsage:       pvcUsage,
		HorizonHours:   horizon,
		Now:            now,
		MetricsUnavail: metricsUnavail,
	}, o.Cache)

	forecastNotes := append(certNotes, capNotes...)

	envelope := &render.Envelope{
		SchemaVersion: render.SchemaVersion,
		Command:       "top",
		GeneratedAt:   now,
		Subject:       req.Namespace,
		Result: render.TopResult{
			HorizonHours:        horizon,
			CapacityWarnings:    capacityWarnings,
			CertificateWarnings: certWarnings,
			Notes:               forecastNotes,
		},
		Notes: notes,
	}

	return envelope, ExitOK, nil
}

// tlsSecretFrom reads type and data["tls.crt"] directly off the raw object,
// since kubernetes.io/tls Secrets have no dedicated parser: the pipeline
// otherwise never needs a Secret's payload, only its identity for `mounts`
// edges.
func tlsSecretFrom(raw kubeclient.RawObject) *forecast.TLSSecret {
	typ, _ := raw.Object["type"].(string)
	data, _ := raw.Object["data"].(map[string]any)
	crt, _ := data["tls.crt"].(string)
	if crt == "" {
		return nil
	}
	return &forecast.TLSSecret{Namespace: raw.Namespace, Name: raw.Name, Type: typ, TLSCrtB64: crt}
}
