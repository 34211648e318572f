package kubeclient

import (
	"context"

	smarterrors "github.com/kubectl-smart/kubectl-smart/internal/errors"
	"github.com/kubectl-smart/kubectl-smart/internal/model"
)

// FakeClient is a scriptable in-memory ClusterClient used by collector and
// orchestrator tests, mirroring the fixture-driven style the corpus favors
// for cluster-adjacent tests without standing up a real API server.
type FakeClient struct {
	Objects map[string][]RawObject // key: kind
	EventsByObj map[string][]RawObject // key: kind/namespace/name
	LogsByPod   map[string]string       // key: namespace/pod/container[/previous]
	TopPodEntries  []TopEntry
	TopNodeEntries []TopEntry
	RawByPath      map[string][]byte
	Forbidden      map[string]bool // kind -> forbidden
	Context        string
	CanIAllowed    bool
}

// NewFakeClient returns an empty fake ready for population by a test.
func NewFakeClient() *FakeClient {
	return &FakeClient{
		Objects:     map[string][]RawObject{},
		EventsByObj: map[string][]RawObject{},
		LogsByPod:   map[string]string{},
		RawByPath:   map[string][]byte{},
		Forbidden:   map[string]bool{},
		Context:     "fake-context",
		CanIAllowed: true,
	}
}

// canonicalKind normalizes any accepted spelling of kind (lowercase, plural,
// short form) to the capitalized form realClient uses as a RawObject.Kind,
// so the fake honors the same "any spelling in, canonical Kind out" contract
// the real client does. Kinds ParseKind doesn't recognize (CRDs, "Event")
// are passed through unchanged.
func canonicalKind(kind string) string {
	if k := model.ParseKind(kind); k != model.KindGeneric {
		return k.String()
	}
	return kind
}

func (f *FakeClient) ListNamespaced(ctx context.Context, kind, namespace string) ([]RawObject, error) {
	kind = canonicalKind(kind)
	if f.Forbidden[kind] {
		return nil, smarterrors.New(smarterrors.Forbidden, "ListNamespaced", errForbidden(kind))
	}
	var out []RawObject
	for _, o := range f.Objects[kind] {
		if namespace == "" || o.Namespace == namespace {
			out = append(out, o)
		}
	}
	return out, nil
}

func (f *FakeClient) Get(ctx context.Context, kind, namespace, name string) (RawObject, error) {
	kind = canonicalKind(kind)
	if f.Forbidden[kind] {
		return RawObject{}, smarterrors.New(smarterrors.Forbidden, "Get", errForbidden(kind))
	}
	for _, o := range f.Objects[kind] {
		if o.Namespace == namespace && o.Name == name {
			return o, nil
		}
	}
	return RawObject{}, smarterrors.New(smarterrors.NotFound, "Get", errNotFound(kind, namespace, name))
}

func (f *FakeClient) Describe(ctx context.Context, kind, namespace, name string) (string, error) {
	_, err := f.Get(ctx, kind, namespace, name)
	if err != nil {
		return "", err
	}
	return "Name: " + name, nil
}

func (f *FakeClient) Events(ctx context.Context, filter EventFilter) ([]RawObject, error) {
	key := filter.Kind + "/" + filter.Namespace + "/" + filter.Name
	return f.EventsByObj[key], nil
}

func (f *FakeClient) Logs(ctx context.Context, namespace, pod, container string, tail int64, previous bool) (string, error) {
	key := namespace + "/" + pod + "/" + container
	if previous {
		key += "/previous"
	}
	return f.LogsByPod[key], nil
}

func (f *FakeClient) TopPods(ctx context.Context, namespace string) ([]TopEntry, error) {
	var out []TopEntry
	for _, e := range f.TopPodEntries {
		if namespace == "" || e.Namespace == namespace {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *FakeClient) TopNodes(ctx context.Context) ([]TopEntry, error) {
	return f.TopNodeEntries, nil
}

func (f *FakeClient) RawGet(ctx context.Context, path string) ([]byte, error) {
	b, ok := f.RawByPath[path]
	if !ok {
		return nil, smarterrors.New(smarterrors.NotFound, "RawGet", errNotFoundPath(path))
	}
	return b, nil
}

func (f *FakeClient) CurrentContext() string { return f.Context }

func (f *FakeClient) CanI(ctx context.Context, verb, resource, namespace string) (bool, error) {
	return f.CanIAllowed, nil
}

func errForbidden(kind string) error       { return &simpleErr{"forbidden: " + kind} }
func errNotFound(kind, ns, name string) error { return &simpleErr{"not found: " + kind + "/" + ns + "/" + name} }
func errNotFoundPath(p string) error       { return &simpleErr{"not found: " + p} }

type simpleErr struct{ msg string }

func (e *simpleErr) Error() string { return e.msg }
