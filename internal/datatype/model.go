package datatype

import (
	"fmt"
	"slices"

	"github.com/google/uuid"
	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// FoldName returns the lookup key for a datatype name: NFC normalised and
// case folded, so "HLAfloat64BE" and "hlafloat64be" collide.
func FoldName(name string) string {
	return cases.Fold().String(norm.NFC.String(name))
}

// Builder accumulates datatypes bottom-up. It is not safe for concurrent use.
// Children must be added before the composites that reference them.
type Builder struct {
	id     uuid.UUID
	types  []Datatype
	byName map[string]Handle
}

// NewBuilder returns a builder that already holds the NA datatype.
func NewBuilder() *Builder {
	b := &Builder{
		id:     uuid.New(),
		byName: make(map[string]Handle),
	}
	b.MustAdd(NA, nil)
	return b
}

// Add stores dt and returns a reference to it.
func (b *Builder) Add(dt Datatype) (Ref, error) {
	if dt == nil {
		return Ref{}, fmt.Errorf("%w: nil datatype", ErrMalformedDatatype)
	}
	key := FoldName(dt.Name())
	if _, exists := b.byName[key]; exists {
		return Ref{}, fmt.Errorf("%w: %q", ErrDuplicateName, dt.Name())
	}
	for _, r := range references(dt) {
		if r.model != b.id || int(r.handle) >= len(b.types) {
			return Ref{}, fmt.Errorf("%w: %q references %q", ErrForeignReference, dt.Name(), r.name)
		}
	}
	h := Handle(len(b.types))
	b.types = append(b.types, dt)
	b.byName[key] = h
	return b.ref(h), nil
}

// MustAdd is Add for built-in tables. It accepts a constructor's results
// directly and panics on any error.
func (b *Builder) MustAdd(dt Datatype, err error) Ref {
	if err != nil {
		panic(err)
	}
	r, err := b.Add(dt)
	if err != nil {
		panic(err)
	}
	return r
}

// Lookup finds a datatype by name, ignoring case.
func (b *Builder) Lookup(name string) (Ref, bool) {
	h, ok := b.byName[FoldName(name)]
	if !ok {
		return Ref{}, false
	}
	return b.ref(h), true
}

// Get returns the datatype behind a reference issued by this builder.
func (b *Builder) Get(r Ref) (Datatype, error) {
	return get(b.id, b.types, r)
}

// Len returns the number of datatypes held, NA included.
func (b *Builder) Len() int { return len(b.types) }

func (b *Builder) ref(h Handle) Ref {
	dt := b.types[h]
	return Ref{model: b.id, handle: h, name: dt.Name(), class: dt.Class()}
}

// Build publishes the current contents as an immutable Model. Refs issued by
// the builder remain valid against the model. The builder may keep growing;
// later additions are not visible to models already built.
func (b *Builder) Build() *Model {
	byName := make(map[string]Handle, len(b.byName))
	for k, v := range b.byName {
		byName[k] = v
	}
	return &Model{id: b.id, types: slices.Clone(b.types), byName: byName}
}

// Model is an immutable datatype arena. It is safe for concurrent readers.
type Model struct {
	id     uuid.UUID
	types  []Datatype
	byName map[string]Handle
}

// ID returns the arena identity shared by every Ref the model accepts.
func (m *Model) ID() uuid.UUID { return m.id }

// Len returns the number of datatypes, NA included.
func (m *Model) Len() int { return len(m.types) }

// Get returns the datatype behind r.
func (m *Model) Get(r Ref) (Datatype, error) {
	return get(m.id, m.types, r)
}

// Lookup finds a datatype by name, ignoring case.
func (m *Model) Lookup(name string) (Ref, bool) {
	h, ok := m.byName[FoldName(name)]
	if !ok {
		return Ref{}, false
	}
	return m.ref(h), true
}

// LookupType is Lookup followed by Get.
func (m *Model) LookupType(name string) (Datatype, bool) {
	h, ok := m.byName[FoldName(name)]
	if !ok {
		return nil, false
	}
	return m.types[h], true
}

// Refs returns a reference to every datatype in insertion order.
func (m *Model) Refs() []Ref {
	refs := make([]Ref, len(m.types))
	for i := range m.types {
		refs[i] = m.ref(Handle(i))
	}
	return refs
}

func (m *Model) ref(h Handle) Ref {
	dt := m.types[h]
	return Ref{model: m.id, handle: h, name: dt.Name(), class: dt.Class()}
}

func get(id uuid.UUID, types []Datatype, r Ref) (Datatype, error) {
	if r.model != id {
		return nil, fmt.Errorf("%w: %q", ErrForeignReference, r.name)
	}
	if int(r.handle) >= len(types) {
		return nil, fmt.Errorf("%w: %q is not published in this model", ErrForeignReference, r.name)
	}
	return types[r.handle], nil
}

// references lists the refs a datatype holds, in declaration order.
func references(dt Datatype) []Ref {
	switch t := dt.(type) {
	case *SimpleType:
		return []Ref{t.representation}
	case *EnumeratedType:
		return []Ref{t.representation}
	case *ArrayType:
		return []Ref{t.element}
	case *FixedRecordType:
		refs := make([]Ref, len(t.fields))
		for i, f := range t.fields {
			refs[i] = f.datatype
		}
		return refs
	case *VariantRecordType:
		refs := []Ref{t.discriminant}
		for _, a := range t.alternatives {
			refs = append(refs, a.datatype)
		}
		return refs
	default:
		return nil
	}
}

// Children returns the datatypes directly referenced by r, in declaration order.
func (m *Model) Children(r Ref) ([]Ref, error) {
	dt, err := m.Get(r)
	if err != nil {
		return nil, err
	}
	return references(dt), nil
}
