package orchestrator

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/base64"
	"encoding/pem"
	"math/big"
	"testing"
	"time"

	"github.com/kubectl-smart/kubectl-smart/internal/kubeclient"
	"github.com/kubectl-smart/kubectl-smart/internal/render"
)

func selfSignedCertB64(t *testing.T, notAfter time.Time) string {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("GenerateKey: %v", err)
	}
	tmpl := &x509.Certificate{
		SerialNumber: big.NewInt(1),
		Subject:      pkix.Name{CommonName: "example.internal"},
		NotBefore:    notAfter.Add(-30 * 24 * time.Hour),
		NotAfter:     notAfter,
	}
	der, err := x509.CreateCertificate(rand.Reader, tmpl, tmpl, &key.PublicKey, key)
	if err != nil {
		t.Fatalf("CreateCertificate: %v", err)
	}
	pemBytes := pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: der})
	return base64.StdEncoding.EncodeToString(pemBytes)
}

func TestTop_ExpiringCertificateSurfacesAsWarning(t *testing.T) {
	fc := kubeclient.NewFakeClient()
	fc.Objects["Secret"] = []kubeclient.RawObject{{
		Kind: "Secret", Namespace: "prod", Name: "web-tls",
		Object: map[string]any{
			"type": "kubernetes.io/tls",
			"data": map[string]any{"tls.crt": selfSignedCertB64(t, time.Now().Add(2*24*time.Hour))},
		},
	}}
	fc.Objects["Ingress"] = []kubeclient.RawObject{{
		Kind: "Ingress", Namespace: "prod", Name: "web",
		Object: map[string]any{
			"spec": map[string]any{"tls": []any{map[string]any{"secretName": "web-tls"}}},
		},
	}}

	o := newTestOrchestrator(t, fc)
	env, exit, err := o.Top(context.Background(), TopRequest{Namespace: "prod", HorizonHours: 48})
	if err != nil {
		t.Fatalf("Top: %v", err)
	}
	if exit != ExitOK {
		t.Errorf("exit = %v, want ExitOK", exit)
	}
	result := env.Result.(render.TopResult)
	if len(result.CertificateWarnings) != 1 {
		t.Fatalf("certificate warnings = %d, want 1", len(result.CertificateWarnings))
	}
	w := result.CertificateWarnings[0]
	if w.Severity != "Critical" {
		t.Errorf("severity = %q, want Critical", w.Severity)
	}
	if len(w.ReferencedBy) != 1 || w.ReferencedBy[0] != "Ingress/prod/web" {
		t.Errorf("referenced_by = %v, want [Ingress/prod/web]", w.ReferencedBy)
	}
}

func TestTop_PVCNearFullSurfacesAsCapacityWarning(t *testing.T) {
	fc := kubeclient.NewFakeClient()
	fc.Objects["Node"] = []kubeclient.RawObject{{
		Kind: "Node", Name: "node-1",
		Object: map[string]any{
			"status": map[string]any{
				"allocatable": map[string]any{"cpu": "4", "memory": "8Gi"},
			},
		},
	}}
	fc.RawByPath["/api/v1/nodes/node-1/proxy/metrics"] = []byte(
		"kubelet_volume_stats_used_bytes{namespace=\"prod\",persistentvolumeclaim=\"data\"} 9.5e+08\n" +
			"kubelet_volume_stats_capacity_bytes{namespace=\"prod\",persistentvolumeclaim=\"data\"} 1e+09\n")

	o := newTestOrchestrator(t, fc)
	env, _, err := o.Top(context.Background(), TopRequest{Namespace: "prod", HorizonHours: 48})
	if err != nil {
		t.Fatalf("Top: %v", err)
	}
	result := env.Result.(render.TopResult)
	var found bool
	for _, w := range result.CapacityWarnings {
		if w.Resource == "pvc/prod/data" {
			found = true
			if w.Metric != "storage" {
				t.Errorf("metric = %q, want storage", w.Metric)
			}
		}
	}
	if !found {
		t.Error("expected a storage capacity warning for prod/data")
	}
}

func TestTop_NoSignalsProducesEmptyWarningSets(t *testing.T) {
	o := newTestOrchestrator(t, kubeclient.NewFakeClient())
	env, exit, err := o.Top(context.Background(), TopRequest{Namespace: "prod", HorizonHours: 48})
	if err != nil {
		t.Fatalf("Top: %v", err)
	}
	if exit != ExitOK {
		t.Errorf("exit = %v, want ExitOK", exit)
	}
	result := env.Result.(render.TopResult)
	if len(result.CapacityWarnings) != 0 || len(result.CertificateWarnings) != 0 {
		t.Errorf("expected no warnings, got %+v", result)
	}
}

func TestTop_MissingNamespaceIsInputError(t *testing.T) {
	o := newTestOrchestrator(t, kubeclient.NewFakeClient())
	_, exit, err := o.Top(context.Background(), TopRequest{Namespace: ""})
	if err == nil {
		t.Fatal("expected an input validation error")
	}
	if exit != ExitCritical {
		t.Errorf("exit = %v, want ExitCritical", exit)
	}
}

func TestTop_HorizonOutOfRangeIsInputError(t *testing.T) {
	for _, hours := range []float64{0, -1, 169, 10000} {
		o := newTestOrchestrator(t, kubeclient.NewFakeClient())
		_, exit, err := o.Top(context.Background(), TopRequest{Namespace: "prod", HorizonHours: hours})
		if err == nil {
			t.Fatalf("horizon %v: expected an input validation error", hours)
		}
		if exit != ExitCritical {
			t.Errorf("horizon %v: exit = %v, want ExitCritical", hours, exit)
		}
	}
}

func TestTop_HorizonWithinRangeIsAccepted(t *testing.T) {
	for _, hours := range []float64{1, 48, 168} {
		o := newTestOrchestrator(t, kubeclient.NewFakeClient())
		env, _, err := o.Top(context.Background(), TopRequest{Namespace: "prod", HorizonHours: hours})
		if err != nil {
			t.Fatalf("horizon %v: Top: %v", hours, err)
		}
		result := env.Result.(render.TopResult)
		if result.HorizonHours != hours {
			t.Errorf("horizon %v: got %v", hours, result.HorizonHours)
		}
	}
}

func TestTop_NamespaceWithShellMetacharacterIsInputError(t *testing.T) {
	o := newTestOrchestrator(t, kubeclient.NewFakeClient())
	_, exit, err := o.Top(context.Background(), TopRequest{Namespace: "prod;rm -rf", HorizonHours: 48})
	if err == nil {
		t.Fatal("expected an input validation error")
	}
	if exit != ExitCritical {
		t.Errorf("exit = %v, want ExitCritical", exit)
	}
}

func TestTop_NamespaceFailingRFC1123IsInputError(t *testing.T) {
	o := newTestOrchestrator(t, kubeclient.NewFakeClient())
	_, exit, err := o.Top(context.Background(), TopRequest{Namespace: "Prod_NS", HorizonHours: 48})
	if err == nil {
		t.Fatal("expected an input validation error")
	}
	if exit != ExitCritical {
		t.Errorf("exit = %v, want ExitCritical", exit)
	}
}
