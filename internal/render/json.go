package render

import (
	"bytes"
	"encoding/json"
)

// JSON marshals an Envelope with two-space indentation, matching the
// stable machine-readable schema documented for every command.
func JSON(env Envelope) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(env); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
