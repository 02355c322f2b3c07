package fom

import (
	"fmt"
	"slices"
	"strings"

	"github.com/roach88/rtikit/internal/datatype"
)

// Validation error codes (E200-E299)
const (
	ErrCodeLoad                = "E200" // module could not be read or parsed
	ErrCodeDuplicateName       = "E201" // datatype declared twice in one module
	ErrCodeBadSize             = "E202" // basic size must be positive
	ErrCodeBadEndian           = "E203" // endian must be Big or Little
	ErrCodeBadCardinality      = "E204" // unparseable array cardinality
	ErrCodeUndefinedRef        = "E205" // reference to an undeclared datatype
	ErrCodeNotBasic            = "E206" // representation is not a basic datatype
	ErrCodeNotEnumerated       = "E207" // discriminant is not an enumerated datatype
	ErrCodeUnknownEnumerator   = "E208" // alternative selects an unknown enumerator
	ErrCodeOverlap             = "E209" // two alternatives select the same enumerator
	ErrCodeDuplicateField      = "E210" // record field or enumerator declared twice
	ErrCodeEmptyEnumerated     = "E211" // enumerated datatype without enumerators
	ErrCodeDuplicateEnumerator = "E212" // enumerator name repeated
	ErrCodeCycle               = "E213" // datatypes contain each other
)

// ValidationError represents a semantic error in a FOM module.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
	Line    int    `json:"line,omitempty"`
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("[%s] line %d: %s: %s", e.Code, e.Line, e.Field, e.Message)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Field, e.Message)
}

// Validate checks modules as they would be merged, in order, and returns
// every problem found rather than stopping at the first. A nil result means
// Resolve will not fail for a structural reason; merge conflicts between
// modules are only detected by Resolve.
func Validate(modules ...*Declarations) []ValidationError {
	v := &validator{classes: make(map[string]datatype.Class), enums: make(map[string][]string)}
	std := datatype.StandardModel()
	for _, r := range std.Refs() {
		v.classes[datatype.FoldName(r.Name())] = r.Class()
		if et, err := datatype.As[*datatype.EnumeratedType](std, r); err == nil {
			for _, e := range et.Enumerators() {
				v.enums[datatype.FoldName(r.Name())] = append(v.enums[datatype.FoldName(r.Name())], e.Name())
			}
		}
	}

	// Names first so that forward references inside a module resolve.
	for _, m := range modules {
		seen := make(map[string]bool)
		for _, d := range m.datatypes() {
			key := datatype.FoldName(d.name)
			if seen[key] {
				v.add(d, "name", ErrCodeDuplicateName, "datatype %q is declared more than once", d.name)
				continue
			}
			seen[key] = true
			if _, known := v.classes[key]; !known {
				v.classes[key] = d.class
			}
			if e, ok := d.body.(*EnumeratedDecl); ok {
				names := make([]string, len(e.Enumerators))
				for i, en := range e.Enumerators {
					names[i] = strings.TrimSpace(en.Name)
				}
				v.enums[key] = names
			}
		}
	}

	for _, m := range modules {
		for _, d := range m.datatypes() {
			v.check(d)
		}
		v.checkClasses(m.ObjectClasses)
		v.checkClasses(m.InteractionClasses)
	}
	v.checkCycles(modules)
	return v.errs
}

type validator struct {
	classes map[string]datatype.Class
	enums   map[string][]string
	errs    []ValidationError
}

func (v *validator) add(d decl, field, code, format string, args ...any) {
	v.errs = append(v.errs, ValidationError{
		Field:   d.name + "." + field,
		Message: fmt.Sprintf(format, args...),
		Code:    code,
		Line:    d.pos.Line,
	})
}

// ref reports an undefined reference and returns the referenced class.
func (v *validator) ref(d decl, field, name string) (datatype.Class, bool) {
	c, ok := v.classes[datatype.FoldName(strings.TrimSpace(name))]
	if !ok {
		v.add(d, field, ErrCodeUndefinedRef, "datatype %q is not defined", name)
	}
	return c, ok
}

func (v *validator) check(d decl) {
	switch b := d.body.(type) {
	case *BasicDecl:
		if b.Size <= 0 {
			v.add(d, "size", ErrCodeBadSize, "size must be positive, got %d", b.Size)
		}
		if strings.TrimSpace(b.Endian) != "" {
			if _, err := datatype.ParseEndianness(b.Endian); err != nil {
				v.add(d, "endian", ErrCodeBadEndian, "endian must be Big or Little, got %q", b.Endian)
			}
		}

	case *SimpleDecl:
		if c, ok := v.ref(d, "representation", b.Representation); ok && c != datatype.ClassBasic {
			v.add(d, "representation", ErrCodeNotBasic, "representation %q is %s, want BASIC", b.Representation, c)
		}

	case *EnumeratedDecl:
		if c, ok := v.ref(d, "representation", b.Representation); ok && c != datatype.ClassBasic {
			v.add(d, "representation", ErrCodeNotBasic, "representation %q is %s, want BASIC", b.Representation, c)
		}
		if len(b.Enumerators) == 0 {
			v.add(d, "enumerators", ErrCodeEmptyEnumerated, "at least one enumerator is required")
		}
		seen := make(map[string]bool)
		for _, e := range b.Enumerators {
			name := strings.TrimSpace(e.Name)
			if seen[name] {
				v.add(d, "enumerators", ErrCodeDuplicateEnumerator, "enumerator %q is declared more than once", name)
			}
			seen[name] = true
		}

	case *ArrayDecl:
		v.ref(d, "dataType", b.DataType)
		if strings.TrimSpace(b.Cardinality) != "" {
			if _, err := datatype.ParseCardinality(b.Cardinality); err != nil {
				v.add(d, "cardinality", ErrCodeBadCardinality, "%v", err)
			}
		}

	case *FixedRecordDecl:
		seen := make(map[string]bool)
		for _, f := range b.Fields {
			v.ref(d, "fields."+f.Name, f.DataType)
			name := strings.TrimSpace(f.Name)
			if seen[name] {
				v.add(d, "fields", ErrCodeDuplicateField, "field %q is declared more than once", name)
			}
			seen[name] = true
		}

	case *VariantRecordDecl:
		c, ok := v.ref(d, "dataType", b.DataType)
		enumerated := ok && c == datatype.ClassEnumerated
		if ok && !enumerated {
			v.add(d, "dataType", ErrCodeNotEnumerated, "discriminant %q is %s, want ENUMERATED", b.DataType, c)
		}
		declared := v.enums[datatype.FoldName(strings.TrimSpace(b.DataType))]
		selectedBy := make(map[string]string)
		for _, a := range b.Alternatives {
			v.ref(d, "alternatives."+a.Name, a.DataType)
			if !enumerated {
				continue
			}
			for _, name := range v.selected(d, a, declared) {
				if prev, dup := selectedBy[name]; dup {
					v.add(d, "alternatives."+a.Name, ErrCodeOverlap, "enumerator %q is already selected by %q", name, prev)
					continue
				}
				selectedBy[name] = a.Name
			}
		}
	}
}

// selected expands an alternative's selectors against the discriminant's
// enumerators, reporting the ones it cannot match.
func (v *validator) selected(d decl, a AlternativeDecl, declared []string) []string {
	var out []string
	for _, s := range splitSelectors(a.Enumerators) {
		switch {
		case s == datatype.OtherEnumerator:
			out = append(out, s)
		case strings.HasPrefix(s, "["):
			bounds := strings.SplitN(strings.Trim(s, "[]"), "..", 2)
			if len(bounds) != 2 {
				v.add(d, "alternatives."+a.Name, ErrCodeUnknownEnumerator, "enumerator range %q needs two ends", s)
				continue
			}
			first := slices.Index(declared, strings.TrimSpace(bounds[0]))
			last := slices.Index(declared, strings.TrimSpace(bounds[1]))
			if first < 0 || last < 0 || first > last {
				v.add(d, "alternatives."+a.Name, ErrCodeUnknownEnumerator, "enumerator range %q does not match the discriminant", s)
				continue
			}
			out = append(out, declared[first:last+1]...)
		default:
			if !slices.Contains(declared, s) {
				v.add(d, "alternatives."+a.Name, ErrCodeUnknownEnumerator, "%q is not an enumerator of the discriminant", s)
				continue
			}
			out = append(out, s)
		}
	}
	return out
}

func (v *validator) checkClasses(classes []ClassDecl) {
	for _, c := range classes {
		for _, m := range c.Members {
			if _, ok := v.classes[datatype.FoldName(strings.TrimSpace(m.DataType))]; !ok {
				v.errs = append(v.errs, ValidationError{
					Field:   c.Name + "." + m.Name,
					Message: fmt.Sprintf("datatype %q is not defined", m.DataType),
					Code:    ErrCodeUndefinedRef,
					Line:    c.Pos.Line,
				})
			}
		}
	}
}

// checkCycles finds datatypes that contain themselves, directly or through
// other datatypes, using Tarjan's strongly connected components.
func (v *validator) checkCycles(modules []*Declarations) {
	var nodes []string
	graph := make(map[string][]string)
	display := make(map[string]decl)
	for _, m := range modules {
		for _, d := range m.datatypes() {
			key := datatype.FoldName(d.name)
			if _, dup := display[key]; dup {
				continue
			}
			display[key] = d
			nodes = append(nodes, key)
			for _, r := range d.references() {
				graph[key] = append(graph[key], datatype.FoldName(strings.TrimSpace(r)))
			}
		}
	}

	for _, scc := range tarjanSCC(nodes, graph) {
		if len(scc) == 1 && !slices.Contains(graph[scc[0]], scc[0]) {
			continue
		}
		names := make([]string, len(scc))
		for i, key := range scc {
			names[i] = display[key].name
		}
		slices.Sort(names)
		first := display[datatype.FoldName(names[0])]
		v.add(first, "dataType", ErrCodeCycle, "datatypes contain each other: %s", strings.Join(names, ", "))
	}
}

// tarjanSCC returns the strongly connected components of graph, visiting
// nodes in the given order so results are deterministic.
func tarjanSCC(nodes []string, graph map[string][]string) [][]string {
	var (
		index   = 0
		stack   []string
		indices = make(map[string]int)
		lowlink = make(map[string]int)
		onStack = make(map[string]bool)
		sccs    [][]string
	)

	var strongConnect func(string)
	strongConnect = func(n string) {
		indices[n] = index
		lowlink[n] = index
		index++
		stack = append(stack, n)
		onStack[n] = true

		for _, w := range graph[n] {
			if _, visited := indices[w]; !visited {
				strongConnect(w)
				lowlink[n] = min(lowlink[n], lowlink[w])
			} else if onStack[w] {
				lowlink[n] = min(lowlink[n], indices[w])
			}
		}

		if lowlink[n] == indices[n] {
			var scc []string
			for {
				w := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				onStack[w] = false
				scc = append(scc, w)
				if w == n {
					break
				}
			}
			sccs = append(sccs, scc)
		}
	}

	for _, n := range nodes {
		if _, visited := indices[n]; !visited {
			strongConnect(n)
		}
	}
	return sccs
}
