// Package kubeclient is the boundary to the cluster API. Every method the
// core pipeline uses lives on the ClusterClient interface so collectors can
// be tested against a fake without touching a real cluster, and so that no
// mutating verb is ever reachable from this package (see spec invariant:
// the core is read-only).
package kubeclient

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"k8s.io/client-go/kubernetes"
	metricsclientset "k8s.io/metrics/pkg/client/clientset/versioned"

	"k8s.io/client-go/rest"
	"k8s.io/client-go/tools/clientcmd"
)

// pickKubeconfigPath resolves the kubeconfig file to load: an explicit
// path first, then KUBECONFIG (which may list several paths), else empty
// so the caller falls through to in-cluster/default-rules discovery.
func pickKubeconfigPath(explicitPath string) string {
	if strings.TrimSpace(explicitPath) != "" {
		return explicitPath
	}

	env := strings.TrimSpace(os.Getenv("KUBECONFIG"))
	if env == "" {
		return ""
	}

	sep := ";"
	if strings.Contains(env, ":") && !strings.Contains(env, ";") {
		sep = ":"
	}

	for _, p := range strings.Split(env, sep) {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	return env
}

// LoadConfig returns a Kubernetes rest.Config, loading kubeconfig
// explicitly when a path is available so failures produce real parse
// errors instead of "no configuration provided".
func LoadConfig(kubeconfigPath, contextName string) (*rest.Config, string, error) {
	chosen := pickKubeconfigPath(kubeconfigPath)

	if strings.TrimSpace(chosen) != "" {
		abs := chosen
		if a, err := filepath.Abs(chosen); err == nil {
			abs = a
		}

		rawCfg, err := clientcmd.LoadFromFile(abs)
		if err != nil {
			return nil, "", fmt.Errorf("load kube config: read kubeconfig file (path=%q): %w", abs, err)
		}

		overrides := &clientcmd.ConfigOverrides{}
		if contextName != "" {
			overrides.CurrentContext = contextName
		}

		clientCfg := clientcmd.NewDefaultClientConfig(*rawCfg, overrides)
		cfg, err := clientCfg.ClientConfig()
		if err != nil {
			return nil, "", fmt.Errorf("load kube config: kubeconfig (path=%q currentContext=%q): %w",
				abs, rawCfg.CurrentContext, err)
		}
		curCtx := rawCfg.CurrentContext
		if contextName != "" {
			curCtx = contextName
		}
		return cfg, curCtx, nil
	}

	if cfg, err := rest.InClusterConfig(); err == nil {
		return cfg, "in-cluster", nil
	}

	rules := clientcmd.NewDefaultClientConfigLoadingRules()
	overrides := &clientcmd.ConfigOverrides{}
	if contextName != "" {
		overrides.CurrentContext = contextName
	}
	clientCfg := clientcmd.NewNonInteractiveDeferredLoadingClientConfig(rules, overrides)
	cfg, err := clientCfg.ClientConfig()
	if err != nil {
		return nil, "", fmt.Errorf("load kube config: default rules: %w", err)
	}
	raw, _ := clientCfg.RawConfig()
	curCtx := raw.CurrentContext
	if contextName != "" {
		curCtx = contextName
	}
	return cfg, curCtx, nil
}

// New builds a real ClusterClient from a kubeconfig path (may be empty)
// and an optional context override.
func New(kubeconfigPath, contextName string) (ClusterClient, error) {
	cfg, curCtx, err := LoadConfig(kubeconfigPath, contextName)
	if err != nil {
		return nil, fmt.Errorf("create cluster client: %w", err)
	}

	cs, err := kubernetes.NewForConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("create cluster client: kubernetes clientset: %w", err)
	}

	rc := &realClient{
		cs:      cs,
		restCfg: cfg,
		context: curCtx,
	}

	// Metrics API is optional: metrics-server may not be installed. We
	// still build the clientset eagerly; TopPods/TopNodes classify the
	// resulting call errors as Unavailable rather than failing here. If
	// the clientset itself cannot be built, metrics stays a nil interface
	// so TopPods/TopNodes report Unavailable.
	if mc, err := metricsclientset.NewForConfig(cfg); err == nil {
		rc.metrics = mc
	}

	return rc, nil
}
