package store

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/roach88/rtikit/internal/fom"
)

// marshalDeclarations converts exported declarations to JSON TEXT. Struct
// fields marshal in declaration order, so equal declarations produce equal
// documents.
func marshalDeclarations(d *fom.Declarations) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(d); err != nil {
		return "", fmt.Errorf("marshal declarations: %w", err)
	}
	// Encoder adds a trailing newline, remove it
	return strings.TrimSpace(buf.String()), nil
}

func unmarshalDeclarations(data string) (*fom.Declarations, error) {
	var d fom.Declarations
	if err := json.Unmarshal([]byte(data), &d); err != nil {
		return nil, fmt.Errorf("unmarshal declarations: %w", err)
	}
	return &d, nil
}
