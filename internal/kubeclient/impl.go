package kubeclient

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	authv1 "k8s.io/api/authorization/v1"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	k8serrors "k8s.io/apimachinery/pkg/api/errors"
	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/rest"
	metricsclientset "k8s.io/metrics/pkg/client/clientset/versioned"

	smarterrors "github.com/kubectl-smart/kubectl-smart/internal/errors"
)

type realClient struct {
	cs      kubernetes.Interface
	metrics metricsclientset.Interface
	restCfg *rest.Config
	context string
}

// classify maps a client-go error into the pipeline's error taxonomy.
func classify(component string, err error) *smarterrors.SmartError {
	if err == nil {
		return nil
	}
	switch {
	case k8serrors.IsNotFound(err):
		return smarterrors.New(smarterrors.NotFound, component, err)
	case k8serrors.IsForbidden(err):
		return smarterrors.New(smarterrors.Forbidden, component, err).
			WithHint("run `kubectl auth can-i` to confirm RBAC permissions")
	case k8serrors.IsTimeout(err) || k8serrors.IsServerTimeout(err):
		return smarterrors.New(smarterrors.Timeout, component, err)
	case k8serrors.IsServiceUnavailable(err) || k8serrors.IsTooManyRequests(err):
		return smarterrors.New(smarterrors.Unavailable, component, err)
	default:
		return smarterrors.New(smarterrors.Fatal, component, err)
	}
}

func toRawObject(kind, namespace, name string, obj any) (RawObject, error) {
	b, err := json.Marshal(obj)
	if err != nil {
		return RawObject{}, err
	}
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		return RawObject{}, err
	}
	return RawObject{Kind: kind, Namespace: namespace, Name: name, Object: m}, nil
}

func (c *realClient) ListNamespaced(ctx context.Context, kind, namespace string) ([]RawObject, error) {
	opts := metav1.ListOptions{}
	var items []RawObject

	switch strings.ToLower(kind) {
	case "pod", "pods":
		l, err := c.cs.CoreV1().Pods(namespace).List(ctx, opts)
		if err != nil {
			return nil, classify("ListNamespaced/Pod", err)
		}
		for i := range l.Items {
			ro, _ := toRawObject("Pod", l.Items[i].Namespace, l.Items[i].Name, &l.Items[i])
			items = append(items, ro)
		}
	case "replicaset", "replicasets":
		l, err := c.cs.AppsV1().ReplicaSets(namespace).List(ctx, opts)
		if err != nil {
			return nil, classify("ListNamespaced/ReplicaSet", err)
		}
		for i := range l.Items {
			ro, _ := toRawObject("ReplicaSet", l.Items[i].Namespace, l.Items[i].Name, &l.Items[i])
			items = append(items, ro)
		}
	case "deployment", "deployments":
		l, err := c.cs.AppsV1().Deployments(namespace).List(ctx, opts)
		if err != nil {
			return nil, classify("ListNamespaced/Deployment", err)
		}
		for i := range l.Items {
			ro, _ := toRawObject("Deployment", l.Items[i].Namespace, l.Items[i].Name, &l.Items[i])
			items = append(items, ro)
		}
	case "statefulset", "statefulsets":
		l, err := c.cs.AppsV1().StatefulSets(namespace).List(ctx, opts)
		if err != nil {
			return nil, classify("ListNamespaced/StatefulSet", err)
		}
		for i := range l.Items {
			ro, _ := toRawObject("StatefulSet", l.Items[i].Namespace, l.Items[i].Name, &l.Items[i])
			items = append(items, ro)
		}
	case "daemonset", "daemonsets":
		l, err := c.cs.AppsV1().DaemonSets(namespace).List(ctx, opts)
		if err != nil {
			return nil, classify("ListNamespaced/DaemonSet", err)
		}
		for i := range l.Items {
			ro, _ := toRawObject("DaemonSet", l.Items[i].Namespace, l.Items[i].Name, &l.Items[i])
			items = append(items, ro)
		}
	case "job", "jobs":
		l, err := c.cs.BatchV1().Jobs(namespace).List(ctx, opts)
		if err != nil {
			return nil, classify("ListNamespaced/Job", err)
		}
		for i := range l.Items {
			ro, _ := toRawObject("Job", l.Items[i].Namespace, l.Items[i].Name, &l.Items[i])
			items = append(items, ro)
		}
	case "service", "services":
		l, err := c.cs.CoreV1().Services(namespace).List(ctx, opts)
		if err != nil {
			return nil, classify("ListNamespaced/Service", err)
		}
		for i := range l.Items {
			ro, _ := toRawObject("Service", l.Items[i].Namespace, l.Items[i].Name, &l.Items[i])
			items = append(items, ro)
		}
	case "ingress", "ingresses":
		l, err := c.cs.NetworkingV1().Ingresses(namespace).List(ctx, opts)
		if err != nil {
			return nil, classify("ListNamespaced/Ingress", err)
		}
		for i := range l.Items {
			ro, _ := toRawObject("Ingress", l.Items[i].Namespace, l.Items[i].Name, &l.Items[i])
			items = append(items, ro)
		}
	case "configmap", "configmaps":
		l, err := c.cs.CoreV1().ConfigMaps(namespace).List(ctx, opts)
		if err != nil {
			return nil, classify("ListNamespaced/ConfigMap", err)
		}
		for i := range l.Items {
			ro, _ := toRawObject("ConfigMap", l.Items[i].Namespace, l.Items[i].Name, &l.Items[i])
			items = append(items, ro)
		}
	case "secret", "secrets":
		l, err := c.cs.CoreV1().Secrets(namespace).List(ctx, opts)
		if err != nil {
			return nil, classify("ListNamespaced/Secret", err)
		}
		for i := range l.Items {
			ro, _ := toRawObject("Secret", l.Items[i].Namespace, l.Items[i].Name, &l.Items[i])
			items = append(items, ro)
		}
	case "persistentvolumeclaim", "persistentvolumeclaims", "pvc":
		l, err := c.cs.CoreV1().PersistentVolumeClaims(namespace).List(ctx, opts)
		if err != nil {
			return nil, classify("ListNamespaced/PVC", err)
		}
		for i := range l.Items {
			ro, _ := toRawObject("PersistentVolumeClaim", l.Items[i].Namespace, l.Items[i].Name, &l.Items[i])
			items = append(items, ro)
		}
	case "persistentvolume", "persistentvolumes", "pv":
		l, err := c.cs.CoreV1().PersistentVolumes().List(ctx, opts)
		if err != nil {
			return nil, classify("ListNamespaced/PV", err)
		}
		for i := range l.Items {
			ro, _ := toRawObject("PersistentVolume", "", l.Items[i].Name, &l.Items[i])
			items = append(items, ro)
		}
	case "node", "nodes":
		l, err := c.cs.CoreV1().Nodes().List(ctx, opts)
		if err != nil {
			return nil, classify("ListNamespaced/Node", err)
		}
		for i := range l.Items {
			ro, _ := toRawObject("Node", "", l.Items[i].Name, &l.Items[i])
			items = append(items, ro)
		}
	case "horizontalpodautoscaler", "horizontalpodautoscalers", "hpa":
		l, err := c.cs.AutoscalingV2().HorizontalPodAutoscalers(namespace).List(ctx, opts)
		if err != nil {
			return nil, classify("ListNamespaced/HPA", err)
		}
		for i := range l.Items {
			ro, _ := toRawObject("HorizontalPodAutoscaler", l.Items[i].Namespace, l.Items[i].Name, &l.Items[i])
			items = append(items, ro)
		}
	case "networkpolicy", "networkpolicies":
		l, err := c.cs.NetworkingV1().NetworkPolicies(namespace).List(ctx, opts)
		if err != nil {
			return nil, classify("ListNamespaced/NetworkPolicy", err)
		}
		for i := range l.Items {
			ro, _ := toRawObject("NetworkPolicy", l.Items[i].Namespace, l.Items[i].Name, &l.Items[i])
			items = append(items, ro)
		}
	case "endpoints", "ep":
		l, err := c.cs.CoreV1().Endpoints(namespace).List(ctx, opts)
		if err != nil {
			return nil, classify("ListNamespaced/Endpoints", err)
		}
		for i := range l.Items {
			ro, _ := toRawObject("Endpoints", l.Items[i].Namespace, l.Items[i].Name, &l.Items[i])
			items = append(items, ro)
		}
	default:
		// Unknown/CRD kind: nothing to fetch without a dynamic client and
		// a resolved GVR; callers fall back to Generic handling upstream.
		return nil, smarterrors.New(smarterrors.Unavailable, "ListNamespaced",
			fmt.Errorf("unsupported kind %q for typed listing", kind))
	}
	return items, nil
}

func (c *realClient) Get(ctx context.Context, kind, namespace, name string) (RawObject, error) {
	opts := metav1.GetOptions{}
	switch strings.ToLower(kind) {
	case "pod", "pods":
		o, err := c.cs.CoreV1().Pods(namespace).Get(ctx, name, opts)
		if err != nil {
			return RawObject{}, classify("Get/Pod", err)
		}
		return toRawObject("Pod", namespace, name, o)
	case "deployment", "deployments":
		o, err := c.cs.AppsV1().Deployments(namespace).Get(ctx, name, opts)
		if err != nil {
			return RawObject{}, classify("Get/Deployment", err)
		}
		return toRawObject("Deployment", namespace, name, o)
	case "statefulset", "statefulsets":
		o, err := c.cs.AppsV1().StatefulSets(namespace).Get(ctx, name, opts)
		if err != nil {
			return RawObject{}, classify("Get/StatefulSet", err)
		}
		return toRawObject("StatefulSet", namespace, name, o)
	case "daemonset", "daemonsets":
		o, err := c.cs.AppsV1().DaemonSets(namespace).Get(ctx, name, opts)
		if err != nil {
			return RawObject{}, classify("Get/DaemonSet", err)
		}
		return toRawObject("DaemonSet", namespace, name, o)
	case "replicaset", "replicasets":
		o, err := c.cs.AppsV1().ReplicaSets(namespace).Get(ctx, name, opts)
		if err != nil {
			return RawObject{}, classify("Get/ReplicaSet", err)
		}
		return toRawObject("ReplicaSet", namespace, name, o)
	case "job", "jobs":
		o, err := c.cs.BatchV1().Jobs(namespace).Get(ctx, name, opts)
		if err != nil {
			return RawObject{}, classify("Get/Job", err)
		}
		return toRawObject("Job", namespace, name, o)
	case "service", "services":
		o, err := c.cs.CoreV1().Services(namespace).Get(ctx, name, opts)
		if err != nil {
			return RawObject{}, classify("Get/Service", err)
		}
		return toRawObject("Service", namespace, name, o)
	case "ingress", "ingresses":
		o, err := c.cs.NetworkingV1().Ingresses(namespace).Get(ctx, name, opts)
		if err != nil {
			return RawObject{}, classify("Get/Ingress", err)
		}
		return toRawObject("Ingress", namespace, name, o)
	case "persistentvolumeclaim", "persistentvolumeclaims", "pvc":
		o, err := c.cs.CoreV1().PersistentVolumeClaims(namespace).Get(ctx, name, opts)
		if err != nil {
			return RawObject{}, classify("Get/PVC", err)
		}
		return toRawObject("PersistentVolumeClaim", namespace, name, o)
	case "node", "nodes":
		o, err := c.cs.CoreV1().Nodes().Get(ctx, name, opts)
		if err != nil {
			return RawObject{}, classify("Get/Node", err)
		}
		return toRawObject("Node", "", name, o)
	case "horizontalpodautoscaler", "horizontalpodautoscalers", "hpa":
		o, err := c.cs.AutoscalingV2().HorizontalPodAutoscalers(namespace).Get(ctx, name, opts)
		if err != nil {
			return RawObject{}, classify("Get/HPA", err)
		}
		return toRawObject("HorizontalPodAutoscaler", namespace, name, o)
	default:
		return RawObject{}, smarterrors.New(smarterrors.Unavailable, "Get",
			fmt.Errorf("unsupported kind %q for typed get", kind))
	}
}

func (c *realClient) Describe(ctx context.Context, kind, namespace, name string) (string, error) {
	obj, err := c.Get(ctx, kind, namespace, name)
	if err != nil {
		return "", err
	}
	events, _ := c.Events(ctx, EventFilter{Kind: kind, Namespace: namespace, Name: name})
	var b strings.Builder
	fmt.Fprintf(&b, "Name:      %s\n", name)
	fmt.Fprintf(&b, "Namespace: %s\n", namespace)
	fmt.Fprintf(&b, "Kind:      %s\n", kind)
	if raw, err := json.MarshalIndent(obj.Object["status"], "", "  "); err == nil {
		fmt.Fprintf(&b, "Status:\n%s\n", raw)
	}
	fmt.Fprintf(&b, "Events (%d):\n", len(events))
	for _, e := range events {
		fmt.Fprintf(&b, "  %v\n", e.Object["message"])
	}
	return b.String(), nil
}

func (c *realClient) Events(ctx context.Context, filter EventFilter) ([]RawObject, error) {
	opts := metav1.ListOptions{Limit: 200}
	if filter.Name != "" {
		opts.FieldSelector = fmt.Sprintf("involvedObject.name=%s,involvedObject.kind=%s", filter.Name, filter.Kind)
	}
	l, err := c.cs.CoreV1().Events(filter.Namespace).List(ctx, opts)
	if err != nil {
		return nil, classify("Events", err)
	}
	out := make([]RawObject, 0, len(l.Items))
	for i := range l.Items {
		ro, _ := toRawObject("Event", l.Items[i].Namespace, l.Items[i].Name, &l.Items[i])
		out = append(out, ro)
	}
	if len(out) > 200 {
		out = out[:200]
	}
	return out, nil
}

func (c *realClient) Logs(ctx context.Context, namespace, pod, container string, tail int64, previous bool) (string, error) {
	opts := &corev1.PodLogOptions{Container: container, TailLines: &tail, Previous: previous}
	req := c.cs.CoreV1().Pods(namespace).GetLogs(pod, opts)
	stream, err := req.Stream(ctx)
	if err != nil {
		return "", classify("Logs", err)
	}
	defer stream.Close()
	b, err := io.ReadAll(stream)
	if err != nil {
		return "", smarterrors.New(smarterrors.Timeout, "Logs", err)
	}
	return string(b), nil
}

func (c *realClient) TopPods(ctx context.Context, namespace string) ([]TopEntry, error) {
	if c.metrics == nil {
		return nil, smarterrors.New(smarterrors.Unavailable, "TopPods", fmt.Errorf("metrics-server client unavailable"))
	}
	l, err := c.metrics.MetricsV1beta1().PodMetricses(namespace).List(ctx, metav1.ListOptions{})
	if err != nil {
		return nil, smarterrors.New(smarterrors.Unavailable, "TopPods", err)
	}
	var out []TopEntry
	for _, pm := range l.Items {
		var cpu, mem int64
		for _, c := range pm.Containers {
			cpu += c.Usage.Cpu().MilliValue()
			mem += c.Usage.Memory().Value()
		}
		out = append(out, TopEntry{Namespace: pm.Namespace, Name: pm.Name, CPUMillicores: cpu, MemoryBytes: mem, Available: true})
	}
	return out, nil
}

func (c *realClient) TopNodes(ctx context.Context) ([]TopEntry, error) {
	if c.metrics == nil {
		return nil, smarterrors.New(smarterrors.Unavailable, "TopNodes", fmt.Errorf("metrics-server client unavailable"))
	}
	l, err := c.metrics.MetricsV1beta1().NodeMetricses().List(ctx, metav1.ListOptions{})
	if err != nil {
		return nil, smarterrors.New(smarterrors.Unavailable, "TopNodes", err)
	}
	var out []TopEntry
	for _, nm := range l.Items {
		out = append(out, TopEntry{
			Name:          nm.Name,
			CPUMillicores: nm.Usage.Cpu().MilliValue(),
			MemoryBytes:   nm.Usage.Memory().Value(),
			Available:     true,
		})
	}
	return out, nil
}

func (c *realClient) RawGet(ctx context.Context, path string) ([]byte, error) {
	b, err := c.cs.CoreV1().RESTClient().Get().AbsPath(path).DoRaw(ctx)
	if err != nil {
		return nil, classify("RawGet", err)
	}
	return b, nil
}

func (c *realClient) CurrentContext() string { return c.context }

func (c *realClient) CanI(ctx context.Context, verb, resource, namespace string) (bool, error) {
	review := &authv1.SelfSubjectAccessReview{
		Spec: authv1.SelfSubjectAccessReviewSpec{
			ResourceAttributes: &authv1.ResourceAttributes{
				Namespace: namespace,
				Verb:      verb,
				Resource:  resource,
			},
		},
	}
	result, err := c.cs.AuthorizationV1().SelfSubjectAccessReviews().Create(ctx, review, metav1.CreateOptions{})
	if err != nil {
		return false, classify("CanI", err)
	}
	return result.Status.Allowed, nil
}
