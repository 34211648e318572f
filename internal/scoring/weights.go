// Package scoring turns parsed records, events and log tails into a
// deterministic set of Issues: base scores from a reason weights table,
// additive modifiers, root-cause selection, and a fixed suggested-action
// playbook per reason.
package scoring

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// WeightsTable maps a known reason string to its base score in [0,100].
type WeightsTable map[string]int

// defaultWeights are the illustrative scores; an override file replaces
// individual keys, it does not require restating every key.
func defaultWeights() WeightsTable {
	return WeightsTable{
		"CrashLoopBackOff": 90,
		"ImagePullBackOff": 85,
		"ErrImagePull":     85,
		"OOMKilled":        90,
		"FailedScheduling": 80,
		"FailedMount":      75,
		"Unhealthy":        60,
		"BackOff":          55,
		"Evicted":          85,
		"NodeNotReady":     85,
		"NetworkNotReady":  85,
	}
}

// rawWeightsFile is the on-disk shape of an override file: a flat mapping
// with duplicate-key detection performed manually, since yaml.v3's default
// map decoding silently keeps the last occurrence of a duplicate key.
type rawWeightsFile struct {
	entries map[string]int
}

func (r *rawWeightsFile) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("weights file: expected a mapping at the top level")
	}
	seen := map[string]bool{}
	out := map[string]int{}
	for i := 0; i+1 < len(node.Content); i += 2 {
		keyNode, valNode := node.Content[i], node.Content[i+1]
		var key string
		if err := keyNode.Decode(&key); err != nil {
			return fmt.Errorf("weights file: non-string key at line %d: %w", keyNode.Line, err)
		}
		if seen[key] {
			return fmt.Errorf("weights file: duplicate key %q at line %d", key, keyNode.Line)
		}
		seen[key] = true
		var val int
		if err := valNode.Decode(&val); err != nil {
			return fmt.Errorf("weights file: value for %q must be an integer: %w", key, err)
		}
		if val < 0 || val > 100 {
			return fmt.Errorf("weights file: value for %q must be in [0,100], got %d", key, val)
		}
		out[key] = val
	}
	r.entries = out
	return nil
}

// LoadWeights returns the default table, optionally overridden by the
// entries in path. An empty path returns the defaults unchanged. A
// malformed file (bad YAML, duplicate key, out-of-range value) is a fatal
// configuration error, never a silently-ignored one.
func LoadWeights(path string) (WeightsTable, error) {
	table := defaultWeights()
	if path == "" {
		return table, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read weights file %s: %w", path, err)
	}
	var raw rawWeightsFile
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse weights file %s: %w", path, err)
	}
	for k, v := range raw.entries {
		table[k] = v
	}
	return table, nil
}
