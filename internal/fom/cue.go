package fom

import (
	"strconv"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/errors"
)

// CompileCUE reads a FOM module authored in CUE:
//
//	module: "RestaurantFOM"
//	datatypes: {
//		basic: Int16: {size: 16, endian: "Big"}
//		enumerated: Meal: {representation: "HLAinteger32BE", enumerators: [{name: "Soup"}, {name: "Fish"}]}
//		array: Menu: {dataType: "Meal", cardinality: "Dynamic"}
//		fixedRecord: Order: {fields: [{name: "meal", dataType: "Meal"}]}
//		variantRecord: Course: {discriminant: "kind", dataType: "Meal", alternatives: [...]}
//	}
//	objects: "HLAobjectRoot.Table": attributes: {seats: "HLAinteger32BE"}
//	interactions: "HLAinteractionRoot.Serve": parameters: {order: "Order"}
func CompileCUE(file string, data []byte) (*Declarations, error) {
	ctx := cuecontext.New()
	v := ctx.CompileBytes(data, cue.Filename(file))
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	d := &Declarations{Module: file}
	if mv := v.LookupPath(cue.ParsePath("module")); mv.Exists() {
		name, err := mv.String()
		if err != nil {
			return nil, formatCUEError(err)
		}
		d.Module = name
	}

	dts := v.LookupPath(cue.ParsePath("datatypes"))
	if dts.Exists() {
		if err := compileDatatypes(d, dts); err != nil {
			return nil, err
		}
	}

	var err error
	if d.ObjectClasses, err = compileClasses(v.LookupPath(cue.ParsePath("objects")), "attributes"); err != nil {
		return nil, err
	}
	if d.InteractionClasses, err = compileClasses(v.LookupPath(cue.ParsePath("interactions")), "parameters"); err != nil {
		return nil, err
	}
	return d, nil
}

func compileDatatypes(d *Declarations, v cue.Value) error {
	err := eachField(v.LookupPath(cue.ParsePath("basic")), func(name string, t cue.Value) error {
		size, err := requiredInt(t, "size")
		if err != nil {
			return err
		}
		endian, err := optionalString(t, "endian")
		if err != nil {
			return err
		}
		d.Basic = append(d.Basic, BasicDecl{Name: name, Size: size, Endian: endian, Pos: position(t)})
		return nil
	})
	if err != nil {
		return err
	}

	err = eachField(v.LookupPath(cue.ParsePath("simple")), func(name string, t cue.Value) error {
		rep, err := requiredString(t, "representation")
		if err != nil {
			return err
		}
		d.Simple = append(d.Simple, SimpleDecl{Name: name, Representation: rep, Pos: position(t)})
		return nil
	})
	if err != nil {
		return err
	}

	err = eachField(v.LookupPath(cue.ParsePath("enumerated")), func(name string, t cue.Value) error {
		rep, err := requiredString(t, "representation")
		if err != nil {
			return err
		}
		ed := EnumeratedDecl{Name: name, Representation: rep, Pos: position(t)}
		err = eachElem(t, "enumerators", func(e cue.Value) error {
			n, err := requiredString(e, "name")
			if err != nil {
				return err
			}
			value, err := optionalScalar(e, "value")
			if err != nil {
				return err
			}
			ed.Enumerators = append(ed.Enumerators, EnumeratorDecl{Name: n, Value: value})
			return nil
		})
		if err != nil {
			return err
		}
		d.Enumerated = append(d.Enumerated, ed)
		return nil
	})
	if err != nil {
		return err
	}

	err = eachField(v.LookupPath(cue.ParsePath("array")), func(name string, t cue.Value) error {
		elem, err := requiredString(t, "dataType")
		if err != nil {
			return err
		}
		card, err := optionalScalar(t, "cardinality")
		if err != nil {
			return err
		}
		d.Arrays = append(d.Arrays, ArrayDecl{Name: name, DataType: elem, Cardinality: card, Pos: position(t)})
		return nil
	})
	if err != nil {
		return err
	}

	err = eachField(v.LookupPath(cue.ParsePath("fixedRecord")), func(name string, t cue.Value) error {
		rd := FixedRecordDecl{Name: name, Pos: position(t)}
		err := eachElem(t, "fields", func(f cue.Value) error {
			fn, err := requiredString(f, "name")
			if err != nil {
				return err
			}
			ft, err := requiredString(f, "dataType")
			if err != nil {
				return err
			}
			rd.Fields = append(rd.Fields, FieldDecl{Name: fn, DataType: ft})
			return nil
		})
		if err != nil {
			return err
		}
		d.FixedRecords = append(d.FixedRecords, rd)
		return nil
	})
	if err != nil {
		return err
	}

	return eachField(v.LookupPath(cue.ParsePath("variantRecord")), func(name string, t cue.Value) error {
		disc, err := requiredString(t, "discriminant")
		if err != nil {
			return err
		}
		dt, err := requiredString(t, "dataType")
		if err != nil {
			return err
		}
		vd := VariantRecordDecl{Name: name, Discriminant: disc, DataType: dt, Pos: position(t)}
		err = eachElem(t, "alternatives", func(a cue.Value) error {
			an, err := requiredString(a, "name")
			if err != nil {
				return err
			}
			at, err := requiredString(a, "dataType")
			if err != nil {
				return err
			}
			alt := AlternativeDecl{Name: an, DataType: at}
			err = eachElem(a, "enumerators", func(e cue.Value) error {
				s, err := e.String()
				if err != nil {
					return formatCUEError(err)
				}
				alt.Enumerators = append(alt.Enumerators, s)
				return nil
			})
			if err != nil {
				return err
			}
			vd.Alternatives = append(vd.Alternatives, alt)
			return nil
		})
		if err != nil {
			return err
		}
		d.VariantRecords = append(d.VariantRecords, vd)
		return nil
	})
}

func compileClasses(v cue.Value, membersLabel string) ([]ClassDecl, error) {
	var out []ClassDecl
	err := eachField(v, func(name string, c cue.Value) error {
		cd := ClassDecl{Name: name, Pos: position(c)}
		err := eachField(c.LookupPath(cue.ParsePath(membersLabel)), func(member string, t cue.Value) error {
			dt, err := t.String()
			if err != nil {
				return &CompileError{Field: membersLabel, Message: name + "." + member + ": datatype must be a string", Pos: t.Pos()}
			}
			cd.Members = append(cd.Members, MemberDecl{Name: member, DataType: dt})
			return nil
		})
		if err != nil {
			return err
		}
		out = append(out, cd)
		return nil
	})
	return out, err
}

// eachField calls fn for every regular field of a struct, in source order.
// A missing value has no fields.
func eachField(v cue.Value, fn func(label string, v cue.Value) error) error {
	if !v.Exists() {
		return nil
	}
	iter, err := v.Fields()
	if err != nil {
		return formatCUEError(err)
	}
	for iter.Next() {
		if err := fn(iter.Label(), iter.Value()); err != nil {
			return err
		}
	}
	return nil
}

func eachElem(v cue.Value, label string, fn func(v cue.Value) error) error {
	lv := v.LookupPath(cue.ParsePath(label))
	if !lv.Exists() {
		return nil
	}
	iter, err := lv.List()
	if err != nil {
		return &CompileError{Field: label, Message: label + " must be a list", Pos: lv.Pos()}
	}
	for iter.Next() {
		if err := fn(iter.Value()); err != nil {
			return err
		}
	}
	return nil
}

func requiredString(v cue.Value, label string) (string, error) {
	fv := v.LookupPath(cue.ParsePath(label))
	if !fv.Exists() {
		return "", &CompileError{Field: label, Message: label + " is required", Pos: v.Pos()}
	}
	s, err := fv.String()
	if err != nil {
		return "", formatCUEError(err)
	}
	return s, nil
}

func optionalString(v cue.Value, label string) (string, error) {
	fv := v.LookupPath(cue.ParsePath(label))
	if !fv.Exists() {
		return "", nil
	}
	s, err := fv.String()
	if err != nil {
		return "", formatCUEError(err)
	}
	return s, nil
}

// optionalScalar accepts a string or an integer, so cardinality: 3 and
// value: 1 read naturally.
func optionalScalar(v cue.Value, label string) (string, error) {
	fv := v.LookupPath(cue.ParsePath(label))
	if !fv.Exists() {
		return "", nil
	}
	if n, err := fv.Int64(); err == nil {
		return strconv.FormatInt(n, 10), nil
	}
	s, err := fv.String()
	if err != nil {
		return "", &CompileError{Field: label, Message: label + " must be a string or integer", Pos: fv.Pos()}
	}
	return s, nil
}

func requiredInt(v cue.Value, label string) (int, error) {
	fv := v.LookupPath(cue.ParsePath(label))
	if !fv.Exists() {
		return 0, &CompileError{Field: label, Message: label + " is required", Pos: v.Pos()}
	}
	n, err := fv.Int64()
	if err != nil {
		return 0, formatCUEError(err)
	}
	return int(n), nil
}

func position(v cue.Value) Pos {
	p := v.Pos()
	if !p.IsValid() {
		return Pos{}
	}
	return Pos{File: p.Filename(), Line: p.Line()}
}

// formatCUEError converts CUE errors to CompileError with position info.
func formatCUEError(err error) error {
	if err == nil {
		return nil
	}
	errs := errors.Errors(err)
	if len(errs) == 0 {
		return err
	}
	first := errs[0]
	if positions := errors.Positions(first); len(positions) > 0 {
		return &CompileError{
			Field:   "cue",
			Message: first.Error(),
			Pos:     positions[0],
		}
	}
	return err
}
