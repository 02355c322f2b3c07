package fom

import (
	"fmt"

	"github.com/roach88/rtikit/internal/datatype"
)

// Pos locates a declaration in its source file. XML sources carry only the
// file name.
type Pos struct {
	File string
	Line int
}

func (p Pos) String() string {
	switch {
	case p.File == "":
		return ""
	case p.Line > 0:
		return fmt.Sprintf("%s:%d", p.File, p.Line)
	default:
		return p.File
	}
}

// Declarations is the source-neutral form of one FOM module. Datatypes
// refer to each other by name; Resolve turns them into a datatype.Model.
type Declarations struct {
	Module             string              `json:"module,omitempty" yaml:"module,omitempty"`
	Basic              []BasicDecl         `json:"basic,omitempty" yaml:"basic,omitempty"`
	Simple             []SimpleDecl        `json:"simple,omitempty" yaml:"simple,omitempty"`
	Enumerated         []EnumeratedDecl    `json:"enumerated,omitempty" yaml:"enumerated,omitempty"`
	Arrays             []ArrayDecl         `json:"arrays,omitempty" yaml:"arrays,omitempty"`
	FixedRecords       []FixedRecordDecl   `json:"fixed_records,omitempty" yaml:"fixed_records,omitempty"`
	VariantRecords     []VariantRecordDecl `json:"variant_records,omitempty" yaml:"variant_records,omitempty"`
	ObjectClasses      []ClassDecl         `json:"object_classes,omitempty" yaml:"object_classes,omitempty"`
	InteractionClasses []ClassDecl         `json:"interaction_classes,omitempty" yaml:"interaction_classes,omitempty"`
}

type BasicDecl struct {
	Name   string `json:"name" yaml:"name"`
	Size   int    `json:"size" yaml:"size"`
	Endian string `json:"endian,omitempty" yaml:"endian,omitempty"`
	Pos    Pos    `json:"-" yaml:"-"`
}

type SimpleDecl struct {
	Name           string `json:"name" yaml:"name"`
	Representation string `json:"representation" yaml:"representation"`
	Pos            Pos    `json:"-" yaml:"-"`
}

type EnumeratorDecl struct {
	Name  string `json:"name" yaml:"name"`
	Value string `json:"value,omitempty" yaml:"value,omitempty"`
}

type EnumeratedDecl struct {
	Name           string           `json:"name" yaml:"name"`
	Representation string           `json:"representation" yaml:"representation"`
	Enumerators    []EnumeratorDecl `json:"enumerators" yaml:"enumerators"`
	Pos            Pos              `json:"-" yaml:"-"`
}

type ArrayDecl struct {
	Name        string `json:"name" yaml:"name"`
	DataType    string `json:"data_type" yaml:"data_type"`
	Cardinality string `json:"cardinality,omitempty" yaml:"cardinality,omitempty"`
	Pos         Pos    `json:"-" yaml:"-"`
}

type FieldDecl struct {
	Name     string `json:"name" yaml:"name"`
	DataType string `json:"data_type" yaml:"data_type"`
}

type FixedRecordDecl struct {
	Name   string      `json:"name" yaml:"name"`
	Fields []FieldDecl `json:"fields" yaml:"fields"`
	Pos    Pos         `json:"-" yaml:"-"`
}

// AlternativeDecl selects its branch with enumerator names, "[A..C]" ranges
// over the discriminant's declaration order, or HLAother.
type AlternativeDecl struct {
	Name        string   `json:"name" yaml:"name"`
	DataType    string   `json:"data_type" yaml:"data_type"`
	Enumerators []string `json:"enumerators" yaml:"enumerators"`
}

type VariantRecordDecl struct {
	Name         string            `json:"name" yaml:"name"`
	Discriminant string            `json:"discriminant" yaml:"discriminant"`
	DataType     string            `json:"data_type" yaml:"data_type"`
	Alternatives []AlternativeDecl `json:"alternatives" yaml:"alternatives"`
	Pos          Pos               `json:"-" yaml:"-"`
}

// ClassDecl is an object or interaction class with the datatypes of its
// attributes or parameters. Name is the dotted path from the root class.
type ClassDecl struct {
	Name    string       `json:"name" yaml:"name"`
	Members []MemberDecl `json:"members,omitempty" yaml:"members,omitempty"`
	Pos     Pos          `json:"-" yaml:"-"`
}

type MemberDecl struct {
	Name     string `json:"name" yaml:"name"`
	DataType string `json:"data_type" yaml:"data_type"`
}

// decl is one datatype declaration of any class.
type decl struct {
	name  string
	class datatype.Class
	pos   Pos
	body  any // *BasicDecl, *SimpleDecl, ...
}

// datatypes lists every datatype declaration in declaration order, grouped
// by class.
func (d *Declarations) datatypes() []decl {
	var out []decl
	for i := range d.Basic {
		out = append(out, decl{d.Basic[i].Name, datatype.ClassBasic, d.Basic[i].Pos, &d.Basic[i]})
	}
	for i := range d.Simple {
		out = append(out, decl{d.Simple[i].Name, datatype.ClassSimple, d.Simple[i].Pos, &d.Simple[i]})
	}
	for i := range d.Enumerated {
		out = append(out, decl{d.Enumerated[i].Name, datatype.ClassEnumerated, d.Enumerated[i].Pos, &d.Enumerated[i]})
	}
	for i := range d.Arrays {
		out = append(out, decl{d.Arrays[i].Name, datatype.ClassArray, d.Arrays[i].Pos, &d.Arrays[i]})
	}
	for i := range d.FixedRecords {
		out = append(out, decl{d.FixedRecords[i].Name, datatype.ClassFixedRecord, d.FixedRecords[i].Pos, &d.FixedRecords[i]})
	}
	for i := range d.VariantRecords {
		out = append(out, decl{d.VariantRecords[i].Name, datatype.ClassVariantRecord, d.VariantRecords[i].Pos, &d.VariantRecords[i]})
	}
	return out
}

// references lists the datatype names a declaration depends on.
func (d decl) references() []string {
	switch b := d.body.(type) {
	case *SimpleDecl:
		return []string{b.Representation}
	case *EnumeratedDecl:
		return []string{b.Representation}
	case *ArrayDecl:
		return []string{b.DataType}
	case *FixedRecordDecl:
		refs := make([]string, len(b.Fields))
		for i, f := range b.Fields {
			refs[i] = f.DataType
		}
		return refs
	case *VariantRecordDecl:
		refs := []string{b.DataType}
		for _, a := range b.Alternatives {
			refs = append(refs, a.DataType)
		}
		return refs
	default:
		return nil
	}
}

// Len returns the number of datatype declarations.
func (d *Declarations) Len() int {
	return len(d.Basic) + len(d.Simple) + len(d.Enumerated) + len(d.Arrays) + len(d.FixedRecords) + len(d.VariantRecords)
}
