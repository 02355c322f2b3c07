package datatype

import (
	"fmt"
	"slices"
)

// Resolver is satisfied by both Builder and Model.
type Resolver interface {
	Get(r Ref) (Datatype, error)
}

// As dereferences r and asserts its variant.
func As[T Datatype](res Resolver, r Ref) (T, error) {
	var zero T
	dt, err := res.Get(r)
	if err != nil {
		return zero, err
	}
	t, ok := dt.(T)
	if !ok {
		return zero, fmt.Errorf("datatype %q is %s, not %T", dt.Name(), dt.Class(), zero)
	}
	return t, nil
}

// Equivalent checks that two same-named datatypes from different FOM modules
// describe the same thing. Referenced datatypes are compared by name, so a
// merge only needs to check each name once. A nil error means equivalent.
func Equivalent(base, ext Datatype) error {
	name := base.Name()
	if base.Class() != ext.Class() {
		return &InconsistentError{Datatype: name, Reason: fmt.Sprintf("class %s differs from %s", base.Class(), ext.Class())}
	}
	inconsistent := func(format string, args ...any) error {
		return &InconsistentError{Datatype: name, Reason: fmt.Sprintf(format, args...)}
	}

	switch b := base.(type) {
	case *BasicType:
		e := ext.(*BasicType)
		if b.size != e.size {
			return inconsistent("size %d differs from %d", b.size, e.size)
		}
		if b.endianness != e.endianness {
			return inconsistent("endianness %s differs from %s", b.endianness, e.endianness)
		}
	case *SimpleType:
		e := ext.(*SimpleType)
		if !sameName(b.representation, e.representation) {
			return inconsistent("representation %q differs from %q", b.representation.name, e.representation.name)
		}
	case *EnumeratedType:
		e := ext.(*EnumeratedType)
		if !sameName(b.representation, e.representation) {
			return inconsistent("representation %q differs from %q", b.representation.name, e.representation.name)
		}
		if len(b.enumerators) != len(e.enumerators) {
			return inconsistent("%d enumerators differ from %d", len(b.enumerators), len(e.enumerators))
		}
		for i := range b.enumerators {
			if !b.enumerators[i].Equal(e.enumerators[i]) {
				return inconsistent("enumerator %d (%s=%s) differs from (%s=%s)", i,
					b.enumerators[i].name, b.enumerators[i].value, e.enumerators[i].name, e.enumerators[i].value)
			}
		}
	case *ArrayType:
		e := ext.(*ArrayType)
		if !sameName(b.element, e.element) {
			return inconsistent("element type %q differs from %q", b.element.name, e.element.name)
		}
		if !slices.EqualFunc(b.dimensions, e.dimensions, Dimension.Equal) {
			return inconsistent("cardinality %s differs from %s", FormatCardinality(b.dimensions), FormatCardinality(e.dimensions))
		}
	case *FixedRecordType:
		e := ext.(*FixedRecordType)
		if len(b.fields) != len(e.fields) {
			return inconsistent("%d fields differ from %d", len(b.fields), len(e.fields))
		}
		for i := range b.fields {
			bf, ef := b.fields[i], e.fields[i]
			if bf.name != ef.name || !sameName(bf.datatype, ef.datatype) {
				return inconsistent("field %d (%s %s) differs from (%s %s)", i, bf.name, bf.datatype.name, ef.name, ef.datatype.name)
			}
		}
	case *VariantRecordType:
		e := ext.(*VariantRecordType)
		if b.discriminantName != e.discriminantName {
			return inconsistent("discriminant %q differs from %q", b.discriminantName, e.discriminantName)
		}
		if !sameName(b.discriminant, e.discriminant) {
			return inconsistent("discriminant type %q differs from %q", b.discriminant.name, e.discriminant.name)
		}
		if len(b.alternatives) != len(e.alternatives) {
			return inconsistent("%d alternatives differ from %d", len(b.alternatives), len(e.alternatives))
		}
		for _, ba := range b.alternatives {
			i := slices.IndexFunc(e.alternatives, func(a Alternative) bool { return FoldName(a.name) == FoldName(ba.name) })
			if i < 0 {
				return inconsistent("alternative %q is missing", ba.name)
			}
			ea := e.alternatives[i]
			if !sameName(ba.datatype, ea.datatype) {
				return inconsistent("alternative %q type %q differs from %q", ba.name, ba.datatype.name, ea.datatype.name)
			}
			if !slices.Equal(enumeratorSet(ba.enumerators), enumeratorSet(ea.enumerators)) {
				return inconsistent("alternative %q selects different enumerators", ba.name)
			}
		}
	}
	return nil
}

// enumeratorSet returns the sorted, de-duplicated enumerator names.
func enumeratorSet(enums []Enumerator) []string {
	names := make([]string, len(enums))
	for i, e := range enums {
		names[i] = e.name
	}
	slices.Sort(names)
	return slices.Compact(names)
}

func sameName(a, b Ref) bool {
	return FoldName(a.name) == FoldName(b.name)
}
