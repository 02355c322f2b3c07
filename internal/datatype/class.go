package datatype

import (
	"fmt"
	"strings"
)

// Class is the closed classification tag carried by every Datatype.
type Class uint8

const (
	classInvalid Class = iota
	ClassBasic
	ClassSimple
	ClassEnumerated
	ClassArray
	ClassFixedRecord
	ClassVariantRecord
	ClassNA
)

var classNames = map[Class]string{
	ClassBasic:         "BASIC",
	ClassSimple:        "SIMPLE",
	ClassEnumerated:    "ENUMERATED",
	ClassArray:         "ARRAY",
	ClassFixedRecord:   "FIXEDRECORD",
	ClassVariantRecord: "VARIANTRECORD",
	ClassNA:            "NA",
}

func (c Class) String() string {
	if name, ok := classNames[c]; ok {
		return name
	}
	return fmt.Sprintf("Class(%d)", uint8(c))
}

// Valid reports whether c is one of the seven defined classes.
func (c Class) Valid() bool {
	_, ok := classNames[c]
	return ok
}

// ParseClass accepts the upper-case tag names produced by String, ignoring case.
func ParseClass(s string) (Class, error) {
	upper := strings.ToUpper(strings.TrimSpace(s))
	for c, name := range classNames {
		if name == upper {
			return c, nil
		}
	}
	return classInvalid, fmt.Errorf("unknown datatype class %q", s)
}

// Endianness is the byte order of a BasicType.
type Endianness uint8

const (
	Big Endianness = iota
	Little
)

func (e Endianness) String() string {
	switch e {
	case Big:
		return "Big"
	case Little:
		return "Little"
	default:
		return fmt.Sprintf("Endianness(%d)", uint8(e))
	}
}

// ParseEndianness accepts "Big" or "Little" in any case.
func ParseEndianness(s string) (Endianness, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "big":
		return Big, nil
	case "little":
		return Little, nil
	default:
		return Big, fmt.Errorf("unknown endianness %q: must be Big or Little", s)
	}
}
