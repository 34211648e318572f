package parse

import (
	"sort"
	"time"

	"github.com/kubectl-smart/kubectl-smart/internal/kubeclient"
	"github.com/kubectl-smart/kubectl-smart/internal/model"
)

// Events converts raw Event objects into coalesced model.EventRecords:
// events sharing the same (reason, involvedObject) are merged, keeping the
// latest timestamp and summing count, per spec.md §4.3.
func Events(raw []kubeclient.RawObject) []model.EventRecord {
	type key struct{ reason, kind, ns, name string }
	merged := map[key]*model.EventRecord{}
	var order []key

	for _, ro := range raw {
		reason, _ := ro.Object["reason"].(string)
		typ, _ := ro.Object["type"].(string)
		message, _ := ro.Object["message"].(string)
		count := 1
		if c, ok := ro.Object["count"].(float64); ok && c > 0 {
			count = int(c)
		}
		first := parseEventTime(ro.Object["firstTimestamp"])
		last := parseEventTime(ro.Object["lastTimestamp"])
		if last.IsZero() {
			last = first
		}

		involved, _ := ro.Object["involvedObject"].(map[string]any)
		iKind, _ := involved["kind"].(string)
		iNS, _ := involved["namespace"].(string)
		iName, _ := involved["name"].(string)
		iUID, _ := involved["uid"].(string)

		k := key{reason: reason, kind: iKind, ns: iNS, name: iName}
		if existing, ok := merged[k]; ok {
			existing.Count += count
			if last.After(existing.LastTimestamp) {
				existing.LastTimestamp = last
				existing.Message = message
			}
			if first.Before(existing.FirstTimestamp) && !first.IsZero() {
				existing.FirstTimestamp = first
			}
			continue
		}

		er := &model.EventRecord{
			Type:           model.EventType(typ),
			Reason:         reason,
			Message:        message,
			Count:          count,
			FirstTimestamp: first,
			LastTimestamp:  last,
			InvolvedObject: model.InvolvedObject{Kind: iKind, Namespace: iNS, Name: iName, UID: iUID},
		}
		merged[k] = er
		order = append(order, k)
	}

	out := make([]model.EventRecord, 0, len(order))
	for _, k := range order {
		out = append(out, *merged[k])
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].LastTimestamp.After(out[j].LastTimestamp)
	})
	if len(out) > 200 {
		out = out[:200]
	}
	return out
}

func parseEventTime(v any) time.Time {
	s, ok := v.(string)
	if !ok || s == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
