package fom

import (
	"maps"
	"slices"
	"strings"

	"github.com/roach88/rtikit/internal/datatype"
)

// Export converts a resolved model back into a single module of
// declarations. Standard MIM datatypes are omitted since Resolve always
// provides them. Resolve(Export(om)) yields a model with the same
// fingerprint as om.
func Export(om *ObjectModel) *Declarations {
	m := om.Datatypes
	std := datatype.StandardModel()
	d := &Declarations{Module: exportName(om)}

	for _, r := range m.Refs() {
		if _, standard := std.Lookup(r.Name()); standard {
			continue
		}
		dt, err := m.Get(r)
		if err != nil {
			continue
		}
		switch t := dt.(type) {
		case *datatype.BasicType:
			d.Basic = append(d.Basic, BasicDecl{Name: t.Name(), Size: t.Size(), Endian: t.Endianness().String()})
		case *datatype.SimpleType:
			d.Simple = append(d.Simple, SimpleDecl{Name: t.Name(), Representation: t.Representation().Name()})
		case *datatype.EnumeratedType:
			ed := EnumeratedDecl{Name: t.Name(), Representation: t.Representation().Name()}
			for _, e := range t.Enumerators() {
				ed.Enumerators = append(ed.Enumerators, EnumeratorDecl{Name: e.Name(), Value: e.Value()})
			}
			d.Enumerated = append(d.Enumerated, ed)
		case *datatype.ArrayType:
			d.Arrays = append(d.Arrays, ArrayDecl{
				Name:        t.Name(),
				DataType:    t.ElementType().Name(),
				Cardinality: datatype.FormatCardinality(t.Dimensions()),
			})
		case *datatype.FixedRecordType:
			rd := FixedRecordDecl{Name: t.Name()}
			for _, f := range t.Fields() {
				rd.Fields = append(rd.Fields, FieldDecl{Name: f.Name(), DataType: f.Datatype().Name()})
			}
			d.FixedRecords = append(d.FixedRecords, rd)
		case *datatype.VariantRecordType:
			vd := VariantRecordDecl{Name: t.Name(), Discriminant: t.DiscriminantName(), DataType: t.Discriminant().Name()}
			for _, a := range t.Alternatives() {
				ad := AlternativeDecl{Name: a.Name(), DataType: a.Datatype().Name()}
				for _, e := range a.Enumerators() {
					ad.Enumerators = append(ad.Enumerators, e.Name())
				}
				vd.Alternatives = append(vd.Alternatives, ad)
			}
			d.VariantRecords = append(d.VariantRecords, vd)
		}
	}

	d.ObjectClasses = exportClasses(om.classOrder, om.attributes)
	d.InteractionClasses = exportClasses(om.interactions, om.parameters)
	return d
}

func exportClasses(order []string, classes map[string]map[string]member) []ClassDecl {
	var out []ClassDecl
	for _, name := range order {
		cd := ClassDecl{Name: name}
		members := classes[datatype.FoldName(name)]
		for _, key := range slices.Sorted(maps.Keys(members)) {
			mb := members[key]
			if strings.EqualFold(name, ObjectRoot) && mb.name == PrivilegeToDelete {
				continue
			}
			cd.Members = append(cd.Members, MemberDecl{Name: mb.name, DataType: mb.ref.Name()})
		}
		out = append(out, cd)
	}
	return out
}

func exportName(om *ObjectModel) string {
	names := make([]string, 0, len(om.modules))
	for _, m := range om.modules {
		if m.Module != "" {
			names = append(names, m.Module)
		}
	}
	return strings.Join(names, "+")
}
