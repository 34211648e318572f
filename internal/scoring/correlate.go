package scoring

import "strings"

// logSynonyms maps a reason to additional substrings that count as a log
// correlation hit beyond the reason string itself. Kept small and fixed —
// the engine never infers a correlation the operator didn't ask for
// (--correlate-logs is opt-in).
var logSynonyms = map[string][]string{
	"OOMKilled":        {"out of memory", "oom", "killed"},
	"CrashLoopBackOff": {"panic", "fatal", "exit status"},
	"Unhealthy":        {"connection refused", "timeout", "unhealthy"},
	"FailedMount":      {"no such file or directory", "permission denied"},
}

// correlatesWithLogs reports whether reason (case-insensitively) or one of
// its synonyms appears in tail.
func correlatesWithLogs(reason, tail string) bool {
	if tail == "" {
		return false
	}
	lower := strings.ToLower(tail)
	if strings.Contains(lower, strings.ToLower(reason)) {
		return true
	}
	for _, syn := range logSynonyms[reason] {
		if strings.Contains(lower, syn) {
			return true
		}
	}
	return false
}
