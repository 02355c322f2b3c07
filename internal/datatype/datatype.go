package datatype

import (
	"slices"
	"strings"

	"github.com/google/uuid"
)

// Datatype is a sealed interface over the seven FOM datatype variants.
// Only types in this package implement it.
type Datatype interface {
	// Name returns the declared FOM name. Names are not guaranteed unique
	// across unrelated models.
	Name() string

	// Class returns the classification tag of the variant.
	Class() Class

	datatype() // sealed
}

// Handle is the index of a datatype inside its owning arena.
type Handle uint32

// Ref is a non-owning reference to a datatype held by a Builder or Model.
// It carries a snapshot of the referenced name and class so that shallow
// comparisons do not need the arena.
type Ref struct {
	model  uuid.UUID
	handle Handle
	name   string
	class  Class
}

// Name returns the name of the referenced datatype.
func (r Ref) Name() string { return r.name }

// Class returns the class of the referenced datatype.
func (r Ref) Class() Class { return r.class }

// Handle returns the arena index of the referenced datatype.
func (r Ref) Handle() Handle { return r.handle }

// Model returns the identity of the arena that issued the reference.
func (r Ref) Model() uuid.UUID { return r.model }

// IsValid reports whether r was issued by an arena. The zero Ref is invalid.
func (r Ref) IsValid() bool {
	return r.model != uuid.Nil && r.class.Valid()
}

// Same reports whether r and other point to the same arena slot.
func (r Ref) Same(other Ref) bool {
	return r.model == other.model && r.handle == other.handle
}

func (r Ref) String() string {
	if !r.IsValid() {
		return "<invalid>"
	}
	return r.name
}

func checkName(typ, name string) error {
	if strings.TrimSpace(name) == "" {
		return malformed(typ, "name", "must not be empty")
	}
	return nil
}

func checkRef(typ, field string, r Ref) error {
	if !r.IsValid() {
		return malformed(typ, field, "reference is not set")
	}
	return nil
}

// BasicType is a leaf datatype: a size in bits and a byte order.
type BasicType struct {
	name       string
	size       int
	endianness Endianness
}

// NewBasicType creates a BasicType. Size is in bits and must be positive.
func NewBasicType(name string, size int, endianness Endianness) (*BasicType, error) {
	if err := checkName(name, name); err != nil {
		return nil, err
	}
	if size <= 0 {
		return nil, malformed(name, "size", "must be positive, got %d", size)
	}
	if endianness != Big && endianness != Little {
		return nil, malformed(name, "endianness", "unknown value %d", endianness)
	}
	return &BasicType{name: name, size: size, endianness: endianness}, nil
}

func (t *BasicType) Name() string           { return t.name }
func (t *BasicType) Class() Class           { return ClassBasic }
func (t *BasicType) Size() int              { return t.size }
func (t *BasicType) Endianness() Endianness { return t.endianness }
func (t *BasicType) datatype()              {}

// SimpleType gives a new name to a basic representation.
type SimpleType struct {
	name           string
	representation Ref
}

// NewSimpleType creates a SimpleType. The representation must be a BasicType.
func NewSimpleType(name string, representation Ref) (*SimpleType, error) {
	if err := checkName(name, name); err != nil {
		return nil, err
	}
	if err := checkRef(name, "representation", representation); err != nil {
		return nil, err
	}
	if representation.class != ClassBasic {
		return nil, malformed(name, "representation", "%q is %s, want BASIC", representation.name, representation.class)
	}
	return &SimpleType{name: name, representation: representation}, nil
}

func (t *SimpleType) Name() string        { return t.name }
func (t *SimpleType) Class() Class        { return ClassSimple }
func (t *SimpleType) Representation() Ref { return t.representation }
func (t *SimpleType) datatype()           {}

// OtherEnumerator is the enumerator name that selects a variant alternative
// for every discriminant value not claimed by another alternative.
const OtherEnumerator = "HLAother"

// Enumerator is a (name, value) pair of an EnumeratedType.
type Enumerator struct {
	name  string
	value string
}

// NewEnumerator creates an Enumerator. The value is kept as declared.
func NewEnumerator(name, value string) Enumerator {
	return Enumerator{name: name, value: value}
}

// EnumeratorOther returns the HLAother wildcard.
func EnumeratorOther() Enumerator {
	return Enumerator{name: OtherEnumerator}
}

func (e Enumerator) Name() string  { return e.name }
func (e Enumerator) Value() string { return e.value }

// IsOther reports whether e is the HLAother wildcard.
func (e Enumerator) IsOther() bool { return e.name == OtherEnumerator }

// Equal compares both name and value.
func (e Enumerator) Equal(other Enumerator) bool {
	return e.name == other.name && e.value == other.value
}

// EnumeratedType is an ordered set of enumerators over a basic representation.
type EnumeratedType struct {
	name           string
	representation Ref
	enumerators    []Enumerator
}

// NewEnumeratedType creates an EnumeratedType. The representation must be a
// BasicType and enumerator names must be unique.
func NewEnumeratedType(name string, representation Ref, enumerators ...Enumerator) (*EnumeratedType, error) {
	if err := checkName(name, name); err != nil {
		return nil, err
	}
	if err := checkRef(name, "representation", representation); err != nil {
		return nil, err
	}
	if representation.class != ClassBasic {
		return nil, malformed(name, "representation", "%q is %s, want BASIC", representation.name, representation.class)
	}
	seen := make(map[string]bool, len(enumerators))
	for _, e := range enumerators {
		if strings.TrimSpace(e.name) == "" {
			return nil, malformed(name, "enumerator", "name must not be empty")
		}
		if seen[e.name] {
			return nil, malformed(name, "enumerator", "duplicate enumerator %q", e.name)
		}
		seen[e.name] = true
	}
	return &EnumeratedType{name: name, representation: representation, enumerators: slices.Clone(enumerators)}, nil
}

func (t *EnumeratedType) Name() string        { return t.name }
func (t *EnumeratedType) Class() Class        { return ClassEnumerated }
func (t *EnumeratedType) Representation() Ref { return t.representation }
func (t *EnumeratedType) datatype()           {}

// Enumerators returns a copy of the enumerators in declaration order.
func (t *EnumeratedType) Enumerators() []Enumerator {
	return slices.Clone(t.enumerators)
}

// Enumerator looks up an enumerator by exact name.
func (t *EnumeratedType) Enumerator(name string) (Enumerator, bool) {
	for _, e := range t.enumerators {
		if e.name == name {
			return e, true
		}
	}
	return Enumerator{}, false
}

// Equal compares the name and the identity of the representation only.
// Enumerators do not take part in the comparison.
func (t *EnumeratedType) Equal(other *EnumeratedType) bool {
	if t == nil || other == nil {
		return t == other
	}
	return t.name == other.name && t.representation.Same(other.representation)
}

// ArrayType is a sequence of elements with one or more dimensions.
type ArrayType struct {
	name       string
	element    Ref
	dimensions []Dimension
}

// NewArrayType creates an ArrayType. With no dimensions the array has a single
// dynamic dimension.
func NewArrayType(name string, element Ref, dimensions ...Dimension) (*ArrayType, error) {
	if err := checkName(name, name); err != nil {
		return nil, err
	}
	if err := checkRef(name, "dataType", element); err != nil {
		return nil, err
	}
	if element.class == ClassNA {
		return nil, malformed(name, "dataType", "array element cannot be NA")
	}
	if len(dimensions) == 0 {
		dimensions = []Dimension{DynamicDimension()}
	}
	return &ArrayType{name: name, element: element, dimensions: slices.Clone(dimensions)}, nil
}

func (t *ArrayType) Name() string     { return t.name }
func (t *ArrayType) Class() Class     { return ClassArray }
func (t *ArrayType) ElementType() Ref { return t.element }
func (t *ArrayType) datatype()        {}

// Dimensions returns a copy of the array dimensions.
func (t *ArrayType) Dimensions() []Dimension {
	return slices.Clone(t.dimensions)
}

// IsDynamic reports whether the first dimension is dynamic.
func (t *ArrayType) IsDynamic() bool { return t.dimensions[0].IsDynamic() }

// LowerBound is the lower cardinality bound of the first dimension.
func (t *ArrayType) LowerBound() int { return t.dimensions[0].Lower() }

// UpperBound is the upper cardinality bound of the first dimension.
func (t *ArrayType) UpperBound() int { return t.dimensions[0].Upper() }

// Field is a named member of a FixedRecordType.
type Field struct {
	name     string
	datatype Ref
}

// NewField creates a Field.
func NewField(name string, datatype Ref) (Field, error) {
	if strings.TrimSpace(name) == "" {
		return Field{}, malformed(name, "field", "name must not be empty")
	}
	if err := checkRef(name, "dataType", datatype); err != nil {
		return Field{}, err
	}
	return Field{name: name, datatype: datatype}, nil
}

func (f Field) Name() string  { return f.name }
func (f Field) Datatype() Ref { return f.datatype }

// Equal compares the field name and the class of the field datatype. Two
// fields of different datatypes with the same class are equal.
func (f Field) Equal(other Field) bool {
	return f.name == other.name && f.datatype.class == other.datatype.class
}

// FixedRecordType is an ordered sequence of fields. Order is the wire order.
type FixedRecordType struct {
	name   string
	fields []Field
}

// NewFixedRecordType creates a FixedRecordType. Field names must be unique.
func NewFixedRecordType(name string, fields ...Field) (*FixedRecordType, error) {
	if err := checkName(name, name); err != nil {
		return nil, err
	}
	seen := make(map[string]bool, len(fields))
	for _, f := range fields {
		if !f.datatype.IsValid() {
			return nil, malformed(name, "field", "field %q has no datatype", f.name)
		}
		if seen[f.name] {
			return nil, malformed(name, "field", "duplicate field %q", f.name)
		}
		seen[f.name] = true
	}
	return &FixedRecordType{name: name, fields: slices.Clone(fields)}, nil
}

func (t *FixedRecordType) Name() string { return t.name }
func (t *FixedRecordType) Class() Class { return ClassFixedRecord }
func (t *FixedRecordType) datatype()    {}

// Fields returns a copy of the fields in wire order.
func (t *FixedRecordType) Fields() []Field {
	return slices.Clone(t.fields)
}

// Equal requires equal names and pairwise equal fields in the same order.
func (t *FixedRecordType) Equal(other *FixedRecordType) bool {
	if t == nil || other == nil {
		return t == other
	}
	return t.name == other.name && slices.EqualFunc(t.fields, other.fields, Field.Equal)
}

// Alternative is one branch of a VariantRecordType, selected by a set of
// discriminant enumerators.
type Alternative struct {
	name        string
	datatype    Ref
	enumerators []Enumerator
}

// NewAlternative creates an Alternative. At least one enumerator is required.
func NewAlternative(name string, datatype Ref, enumerators ...Enumerator) (Alternative, error) {
	if strings.TrimSpace(name) == "" {
		return Alternative{}, malformed(name, "alternative", "name must not be empty")
	}
	if err := checkRef(name, "dataType", datatype); err != nil {
		return Alternative{}, err
	}
	if len(enumerators) == 0 {
		return Alternative{}, malformed(name, "enumerator", "alternative selects no enumerators")
	}
	return Alternative{name: name, datatype: datatype, enumerators: slices.Clone(enumerators)}, nil
}

func (a Alternative) Name() string  { return a.name }
func (a Alternative) Datatype() Ref { return a.datatype }

// Enumerators returns a copy of the selecting enumerators.
func (a Alternative) Enumerators() []Enumerator {
	return slices.Clone(a.enumerators)
}

// Selects reports whether the alternative is chosen by the named enumerator.
// HLAother is not expanded here.
func (a Alternative) Selects(enumerator string) bool {
	for _, e := range a.enumerators {
		if e.name == enumerator {
			return true
		}
	}
	return false
}

// VariantRecordType is a discriminated union over an enumerated discriminant.
type VariantRecordType struct {
	name             string
	discriminantName string
	discriminant     Ref
	alternatives     []Alternative
}

// NewVariantRecordType creates a VariantRecordType. The discriminant must be
// an EnumeratedType. Overlapping alternatives are accepted here and reported
// by validation.
func NewVariantRecordType(name, discriminantName string, discriminant Ref, alternatives ...Alternative) (*VariantRecordType, error) {
	if err := checkName(name, name); err != nil {
		return nil, err
	}
	if strings.TrimSpace(discriminantName) == "" {
		return nil, malformed(name, "discriminant", "name must not be empty")
	}
	if err := checkRef(name, "dataType", discriminant); err != nil {
		return nil, err
	}
	if discriminant.class != ClassEnumerated {
		return nil, malformed(name, "dataType", "discriminant %q is %s, want ENUMERATED", discriminant.name, discriminant.class)
	}
	return &VariantRecordType{
		name:             name,
		discriminantName: discriminantName,
		discriminant:     discriminant,
		alternatives:     slices.Clone(alternatives),
	}, nil
}

func (t *VariantRecordType) Name() string             { return t.name }
func (t *VariantRecordType) Class() Class             { return ClassVariantRecord }
func (t *VariantRecordType) DiscriminantName() string { return t.discriminantName }
func (t *VariantRecordType) Discriminant() Ref        { return t.discriminant }
func (t *VariantRecordType) datatype()                {}

// Alternatives returns a copy of the alternatives in declaration order.
func (t *VariantRecordType) Alternatives() []Alternative {
	return slices.Clone(t.alternatives)
}

// AlternativeFor returns the alternative selected by an enumerator name,
// falling back to an HLAother alternative when no other one claims it.
func (t *VariantRecordType) AlternativeFor(enumerator string) (Alternative, bool) {
	var other *Alternative
	for i := range t.alternatives {
		a := &t.alternatives[i]
		if a.Selects(enumerator) {
			return *a, true
		}
		if other == nil && a.Selects(OtherEnumerator) {
			other = a
		}
	}
	if other != nil {
		return *other, true
	}
	return Alternative{}, false
}

// NAType marks the absence of a datatype.
type NAType struct{}

// NAName is the fixed name of the NA datatype.
const NAName = "NA"

// NA is the single NAType value.
var NA = &NAType{}

func (*NAType) Name() string { return NAName }
func (*NAType) Class() Class { return ClassNA }
func (*NAType) datatype()    {}
