package fom

import (
	"fmt"
	"slices"
	"strings"

	"github.com/roach88/rtikit/internal/datatype"
)

const (
	ObjectRoot      = "HLAobjectRoot"
	InteractionRoot = "HLAinteractionRoot"

	// PrivilegeToDelete is the attribute every object class inherits from
	// HLAobjectRoot. It carries no data.
	PrivilegeToDelete = "HLAprivilegeToDeleteObject"
)

// ObjectModel is a resolved FOM: the datatype arena plus the datatypes of
// every class attribute and interaction parameter. It is immutable once
// returned by Resolve.
type ObjectModel struct {
	Datatypes *datatype.Model

	modules      []*Declarations
	attributes   map[string]map[string]member
	parameters   map[string]map[string]member
	classOrder   []string
	interactions []string
}

type member struct {
	name string
	ref  datatype.Ref
}

func newObjectModel() *ObjectModel {
	return &ObjectModel{
		attributes: make(map[string]map[string]member),
		parameters: make(map[string]map[string]member),
	}
}

// Merge resolves extension modules on top of base. Datatypes the extensions
// redeclare must be equivalent to those already in base.
func Merge(base *ObjectModel, extensions ...*Declarations) (*ObjectModel, error) {
	modules := slices.Clone(base.modules)
	modules = append(modules, extensions...)
	return Resolve(modules...)
}

// Modules returns the declarations the model was resolved from, in merge
// order.
func (om *ObjectModel) Modules() []*Declarations {
	return slices.Clone(om.modules)
}

func (om *ObjectModel) addClasses(b *datatype.Builder, m *Declarations) error {
	om.modules = append(om.modules, m)

	if len(m.ObjectClasses) > 0 {
		om.declareClass(&om.classOrder, om.attributes, ObjectRoot)
		root := om.attributes[datatype.FoldName(ObjectRoot)]
		if _, ok := root[datatype.FoldName(PrivilegeToDelete)]; !ok {
			na, _ := b.Lookup(datatype.NAName)
			root[datatype.FoldName(PrivilegeToDelete)] = member{name: PrivilegeToDelete, ref: na}
		}
	}
	for _, c := range m.ObjectClasses {
		if err := om.addMembers(b, m.Module, c, &om.classOrder, om.attributes); err != nil {
			return err
		}
	}
	for _, c := range m.InteractionClasses {
		if err := om.addMembers(b, m.Module, c, &om.interactions, om.parameters); err != nil {
			return err
		}
	}
	return nil
}

func (om *ObjectModel) declareClass(order *[]string, classes map[string]map[string]member, name string) map[string]member {
	key := datatype.FoldName(name)
	if members, ok := classes[key]; ok {
		return members
	}
	members := make(map[string]member)
	classes[key] = members
	*order = append(*order, name)
	return members
}

func (om *ObjectModel) addMembers(b *datatype.Builder, module string, c ClassDecl, order *[]string, classes map[string]map[string]member) error {
	name := strings.TrimSpace(c.Name)
	// Every ancestor on the dotted path exists, even when undeclared.
	parts := strings.Split(name, ".")
	for i := 1; i < len(parts); i++ {
		om.declareClass(order, classes, strings.Join(parts[:i], "."))
	}
	members := om.declareClass(order, classes, name)

	for _, md := range c.Members {
		ref, ok := b.Lookup(strings.TrimSpace(md.DataType))
		if !ok {
			return &ResolveError{Module: module, Datatype: md.DataType, Pos: c.Pos,
				Err: fmt.Errorf("%w %q for %s.%s", ErrUndefinedDatatype, md.DataType, name, md.Name)}
		}
		key := datatype.FoldName(md.Name)
		if prev, dup := members[key]; dup {
			if !prev.ref.Same(ref) {
				return &ResolveError{Module: module, Datatype: md.DataType, Pos: c.Pos,
					Err: &datatype.InconsistentError{Datatype: name + "." + md.Name,
						Reason: fmt.Sprintf("type %s differs from %s", ref.Name(), prev.ref.Name())}}
			}
			continue
		}
		members[key] = member{name: strings.TrimSpace(md.Name), ref: ref}
	}
	return nil
}

// AttributeDatatype returns the datatype of an attribute of an object class,
// searching the class and then its ancestors.
func (om *ObjectModel) AttributeDatatype(class, attribute string) (datatype.Ref, error) {
	return lookupMember(om.attributes, class, attribute)
}

// ParameterDatatype returns the datatype of a parameter of an interaction
// class, searching the class and then its ancestors.
func (om *ObjectModel) ParameterDatatype(interaction, parameter string) (datatype.Ref, error) {
	return lookupMember(om.parameters, interaction, parameter)
}

func lookupMember(classes map[string]map[string]member, class, name string) (datatype.Ref, error) {
	class = strings.TrimSpace(class)
	if _, ok := classes[datatype.FoldName(class)]; !ok {
		return datatype.Ref{}, fmt.Errorf("%w %q", ErrUnknownClass, class)
	}
	key := datatype.FoldName(strings.TrimSpace(name))
	for path := class; path != ""; path = parent(path) {
		if m, ok := classes[datatype.FoldName(path)][key]; ok {
			return m.ref, nil
		}
	}
	return datatype.Ref{}, fmt.Errorf("%w: %q has no member %q", ErrUnknownClass, class, name)
}

func parent(path string) string {
	if i := strings.LastIndex(path, "."); i >= 0 {
		return path[:i]
	}
	return ""
}

// ObjectClasses lists object class paths in declaration order.
func (om *ObjectModel) ObjectClasses() []string { return slices.Clone(om.classOrder) }

// InteractionClasses lists interaction class paths in declaration order.
func (om *ObjectModel) InteractionClasses() []string { return slices.Clone(om.interactions) }

// Members lists the attributes (or parameters) declared directly on class,
// sorted by name.
func (om *ObjectModel) Members(class string) []string {
	members, ok := om.attributes[datatype.FoldName(class)]
	if !ok {
		members = om.parameters[datatype.FoldName(class)]
	}
	out := make([]string, 0, len(members))
	for _, m := range members {
		out = append(out, m.name)
	}
	slices.Sort(out)
	return out
}
