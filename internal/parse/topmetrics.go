package parse

import (
	"strconv"
	"strings"
)

// TopSample is one row of a parsed `kubectl top` snapshot.
type TopSample struct {
	Namespace     string
	Name          string
	CPUMillicores int64
	MemoryBytes   int64
}

// TopText parses the plain-text tabular output of `kubectl top pods` (with
// -A, so a NAMESPACE column is present) or `kubectl top nodes`. No
// collector in this module calls it; pod and node usage come from the
// metrics API through ClusterClient.TopPods/TopNodes. Tolerant of
// extra/missing columns beyond NAME/CPU/MEMORY.
func TopText(text string, hasNamespace bool) []TopSample {
	lines := strings.Split(strings.TrimSpace(text), "\n")
	if len(lines) < 2 {
		return nil
	}
	header := strings.Fields(lines[0])
	idx := map[string]int{}
	for i, h := range header {
		idx[strings.ToUpper(h)] = i
	}

	var out []TopSample
	for _, line := range lines[1:] {
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		s := TopSample{}
		if hasNamespace {
			if i, ok := idx["NAMESPACE"]; ok && i < len(fields) {
				s.Namespace = fields[i]
			}
		}
		if i, ok := idx["NAME"]; ok && i < len(fields) {
			s.Name = fields[i]
		}
		if i, ok := idx["CPU(CORES)"]; ok && i < len(fields) {
			s.CPUMillicores = parseCPUField(fields[i])
		}
		if i, ok := idx["MEMORY(BYTES)"]; ok && i < len(fields) {
			s.MemoryBytes = int64(quantityBytes(fields[i]))
		}
		if s.Name != "" {
			out = append(out, s)
		}
	}
	return out
}

func parseCPUField(s string) int64 {
	s = strings.TrimSpace(s)
	if strings.HasSuffix(s, "m") {
		n, _ := strconv.ParseInt(strings.TrimSuffix(s, "m"), 10, 64)
		return n
	}
	f, _ := strconv.ParseFloat(s, 64)
	return int64(f * 1000)
}
