package fom

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/roach88/rtikit/internal/datatype"
)

// Resolve links one or more FOM modules into a datatype model. The standard
// MIM datatypes are always present. Modules are merged in order: a datatype
// declared again by a later module (or redeclaring a standard one) must be
// equivalent to the first definition, otherwise the merge fails with
// datatype.ErrInconsistentFDD.
func Resolve(modules ...*Declarations) (*ObjectModel, error) {
	b := datatype.NewBuilder()
	datatype.Standard(b)

	om := newObjectModel()
	for _, m := range modules {
		l := &linker{
			b:        b,
			module:   m.Module,
			pending:  make(map[string]*entry),
			visiting: make(map[string]bool),
		}
		if err := l.link(m); err != nil {
			return nil, err
		}
		if err := om.addClasses(b, m); err != nil {
			return nil, err
		}
	}
	om.Datatypes = b.Build()
	return om, nil
}

type entry struct {
	decl
	done bool
}

// linker builds one module's declarations into a shared builder, resolving
// references depth-first so that every datatype is built exactly once.
type linker struct {
	b        *datatype.Builder
	module   string
	pending  map[string]*entry
	visiting map[string]bool
	stack    []string
}

func (l *linker) link(m *Declarations) error {
	decls := m.datatypes()
	for _, d := range decls {
		key := datatype.FoldName(d.name)
		if prev, dup := l.pending[key]; dup {
			return l.fail(d, fmt.Errorf("%w: already declared as %s in this module", datatype.ErrDuplicateName, prev.class))
		}
		l.pending[key] = &entry{decl: d}
	}
	for _, d := range decls {
		if err := l.build(l.pending[datatype.FoldName(d.name)]); err != nil {
			return err
		}
	}
	return nil
}

func (l *linker) fail(d decl, err error) error {
	return &ResolveError{Module: l.module, Datatype: d.name, Pos: d.pos, Err: err}
}

// ref resolves a referenced name, building it first when it is declared in
// the current module and not yet built.
func (l *linker) ref(name string) (datatype.Ref, error) {
	name = strings.TrimSpace(name)
	if e, ok := l.pending[datatype.FoldName(name)]; ok && !e.done {
		if err := l.build(e); err != nil {
			return datatype.Ref{}, err
		}
	}
	if r, ok := l.b.Lookup(name); ok {
		return r, nil
	}
	return datatype.Ref{}, fmt.Errorf("%w %q", ErrUndefinedDatatype, name)
}

func (l *linker) build(e *entry) error {
	if e.done {
		return nil
	}
	key := datatype.FoldName(e.name)
	if l.visiting[key] {
		path := append(append([]string{}, l.stack...), e.name)
		return l.fail(e.decl, fmt.Errorf("%w: %s", ErrDatatypeCycle, strings.Join(path, " -> ")))
	}
	l.visiting[key] = true
	l.stack = append(l.stack, e.name)
	defer func() {
		delete(l.visiting, key)
		l.stack = l.stack[:len(l.stack)-1]
	}()

	dt, err := l.construct(e.decl)
	if err != nil {
		var rerr *ResolveError
		if errors.As(err, &rerr) {
			return err
		}
		return l.fail(e.decl, err)
	}
	e.done = true

	if existing, ok := l.b.Lookup(e.name); ok {
		prev, err := l.b.Get(existing)
		if err != nil {
			return l.fail(e.decl, err)
		}
		if err := datatype.Equivalent(prev, dt); err != nil {
			return l.fail(e.decl, err)
		}
		return nil
	}
	if _, err := l.b.Add(dt); err != nil {
		return l.fail(e.decl, err)
	}
	return nil
}

func (l *linker) construct(d decl) (datatype.Datatype, error) {
	switch b := d.body.(type) {
	case *BasicDecl:
		endian := datatype.Big
		if strings.TrimSpace(b.Endian) != "" {
			e, err := datatype.ParseEndianness(b.Endian)
			if err != nil {
				return nil, err
			}
			endian = e
		}
		return datatype.NewBasicType(b.Name, b.Size, endian)

	case *SimpleDecl:
		rep, err := l.ref(b.Representation)
		if err != nil {
			return nil, err
		}
		return datatype.NewSimpleType(b.Name, rep)

	case *EnumeratedDecl:
		rep, err := l.ref(b.Representation)
		if err != nil {
			return nil, err
		}
		enums := make([]datatype.Enumerator, len(b.Enumerators))
		for i, e := range b.Enumerators {
			value := strings.TrimSpace(e.Value)
			if value == "" {
				value = strconv.Itoa(i)
			}
			enums[i] = datatype.NewEnumerator(strings.TrimSpace(e.Name), value)
		}
		return datatype.NewEnumeratedType(b.Name, rep, enums...)

	case *ArrayDecl:
		elem, err := l.ref(b.DataType)
		if err != nil {
			return nil, err
		}
		var dims []datatype.Dimension
		if strings.TrimSpace(b.Cardinality) != "" {
			dims, err = datatype.ParseCardinality(b.Cardinality)
			if err != nil {
				return nil, err
			}
		}
		return datatype.NewArrayType(b.Name, elem, dims...)

	case *FixedRecordDecl:
		fields := make([]datatype.Field, 0, len(b.Fields))
		for _, f := range b.Fields {
			r, err := l.ref(f.DataType)
			if err != nil {
				return nil, err
			}
			field, err := datatype.NewField(strings.TrimSpace(f.Name), r)
			if err != nil {
				return nil, err
			}
			fields = append(fields, field)
		}
		return datatype.NewFixedRecordType(b.Name, fields...)

	case *VariantRecordDecl:
		disc, err := l.ref(b.DataType)
		if err != nil {
			return nil, err
		}
		enumType, err := datatype.As[*datatype.EnumeratedType](l.b, disc)
		if err != nil {
			return nil, fmt.Errorf("%w: discriminant %q is %s, want ENUMERATED", datatype.ErrMalformedDatatype, disc.Name(), disc.Class())
		}
		alts := make([]datatype.Alternative, 0, len(b.Alternatives))
		for _, a := range b.Alternatives {
			r, err := l.ref(a.DataType)
			if err != nil {
				return nil, err
			}
			enums, err := expandEnumerators(enumType, a.Enumerators)
			if err != nil {
				return nil, fmt.Errorf("alternative %q: %w", a.Name, err)
			}
			alt, err := datatype.NewAlternative(strings.TrimSpace(a.Name), r, enums...)
			if err != nil {
				return nil, err
			}
			alts = append(alts, alt)
		}
		return datatype.NewVariantRecordType(b.Name, strings.TrimSpace(b.Discriminant), disc, alts...)
	}
	return nil, fmt.Errorf("unsupported declaration %T", d.body)
}

// expandEnumerators turns alternative selectors into enumerators of the
// discriminant. Each selector is HLAother, an enumerator name, or a range
// "[First..Last]" over declaration order. Selectors may also be
// comma-separated inside one string.
func expandEnumerators(discriminant *datatype.EnumeratedType, selectors []string) ([]datatype.Enumerator, error) {
	declared := discriminant.Enumerators()
	index := func(name string) (int, error) {
		for i, e := range declared {
			if e.Name() == name {
				return i, nil
			}
		}
		return 0, fmt.Errorf("%w: %q is not an enumerator of %q", datatype.ErrMalformedDatatype, name, discriminant.Name())
	}

	var out []datatype.Enumerator
	for _, selector := range splitSelectors(selectors) {
		switch {
		case selector == datatype.OtherEnumerator:
			out = append(out, datatype.EnumeratorOther())
		case strings.HasPrefix(selector, "["):
			if !strings.HasSuffix(selector, "]") {
				return nil, fmt.Errorf("%w: unterminated enumerator range %q", datatype.ErrMalformedDatatype, selector)
			}
			bounds := strings.SplitN(selector[1:len(selector)-1], "..", 2)
			if len(bounds) != 2 {
				return nil, fmt.Errorf("%w: enumerator range %q needs two ends", datatype.ErrMalformedDatatype, selector)
			}
			first, err := index(strings.TrimSpace(bounds[0]))
			if err != nil {
				return nil, err
			}
			last, err := index(strings.TrimSpace(bounds[1]))
			if err != nil {
				return nil, err
			}
			if first > last {
				return nil, fmt.Errorf("%w: enumerator range %q is reversed", datatype.ErrMalformedDatatype, selector)
			}
			out = append(out, declared[first:last+1]...)
		default:
			i, err := index(selector)
			if err != nil {
				return nil, err
			}
			out = append(out, declared[i])
		}
	}
	return out, nil
}

func splitSelectors(selectors []string) []string {
	var out []string
	for _, s := range selectors {
		for _, part := range strings.Split(s, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
