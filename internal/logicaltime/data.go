package logicaltime

import (
	"bytes"
	"encoding/hex"
)

// VariableLengthData is an opaque, immutable byte container used for
// encoded times and intervals.
type VariableLengthData struct {
	data []byte
}

// NewVariableLengthData copies b into a new container.
func NewVariableLengthData(b []byte) VariableLengthData {
	return VariableLengthData{data: bytes.Clone(b)}
}

// Size returns the number of bytes held.
func (v VariableLengthData) Size() int { return len(v.data) }

// Bytes returns a copy of the contents.
func (v VariableLengthData) Bytes() []byte { return bytes.Clone(v.data) }

// Equal compares contents.
func (v VariableLengthData) Equal(other VariableLengthData) bool {
	return bytes.Equal(v.data, other.data)
}

// String renders the contents as lower-case hex.
func (v VariableLengthData) String() string { return hex.EncodeToString(v.data) }

// ParseVariableLengthData decodes a hex string.
func ParseVariableLengthData(s string) (VariableLengthData, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return VariableLengthData{}, err
	}
	return VariableLengthData{data: b}, nil
}
