package fom

import (
	"bytes"
	"encoding/xml"
	"slices"
	"strconv"
	"strings"
)

// OMT 1516-2010 document shape. Only the parts rtikit consumes are mapped;
// element names are matched without regard to namespace.
type omtDocument struct {
	XMLName        xml.Name          `xml:"objectModel"`
	Identification omtIdentification `xml:"modelIdentification"`
	Objects        []omtClass        `xml:"objects>objectClass"`
	Interactions   []omtClass        `xml:"interactions>interactionClass"`
	DataTypes      omtDataTypes      `xml:"dataTypes"`
}

type omtIdentification struct {
	Name string `xml:"name"`
}

type omtClass struct {
	Name         string      `xml:"name"`
	Attributes   []omtMember `xml:"attribute"`
	Parameters   []omtMember `xml:"parameter"`
	Objects      []omtClass  `xml:"objectClass"`
	Interactions []omtClass  `xml:"interactionClass"`
}

type omtMember struct {
	Name     string `xml:"name"`
	DataType string `xml:"dataType"`
}

type omtDataTypes struct {
	Basic         []omtBasic         `xml:"basicDataRepresentations>basicData"`
	Simple        []omtSimple        `xml:"simpleDataTypes>simpleData"`
	Enumerated    []omtEnumerated    `xml:"enumeratedDataTypes>enumeratedData"`
	Arrays        []omtArray         `xml:"arrayDataTypes>arrayData"`
	FixedRecords  []omtFixedRecord   `xml:"fixedRecordDataTypes>fixedRecordData"`
	VariantRecord []omtVariantRecord `xml:"variantRecordDataTypes>variantRecordData"`
}

type omtBasic struct {
	Name   string `xml:"name"`
	Size   string `xml:"size"`
	Endian string `xml:"endian"`
}

type omtSimple struct {
	Name           string `xml:"name"`
	Representation string `xml:"representation"`
}

type omtEnumerated struct {
	Name           string          `xml:"name"`
	Representation string          `xml:"representation"`
	Enumerators    []omtEnumerator `xml:"enumerator"`
}

type omtEnumerator struct {
	Name  string `xml:"name"`
	Value string `xml:"value"`
}

type omtArray struct {
	Name        string `xml:"name"`
	DataType    string `xml:"dataType"`
	Cardinality string `xml:"cardinality"`
}

type omtFixedRecord struct {
	Name   string      `xml:"name"`
	Fields []omtMember `xml:"field"`
}

type omtVariantRecord struct {
	Name         string           `xml:"name"`
	Discriminant string           `xml:"discriminant"`
	DataType     string           `xml:"dataType"`
	Alternatives []omtAlternative `xml:"alternative"`
}

type omtAlternative struct {
	Enumerator string `xml:"enumerator"`
	Name       string `xml:"name"`
	DataType   string `xml:"dataType"`
}

// ParseXML reads an OMT XML module. file is used for positions and as the
// module name when the document has no modelIdentification.
func ParseXML(file string, data []byte) (*Declarations, error) {
	var doc omtDocument
	dec := xml.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&doc); err != nil {
		return nil, &ParseError{File: file, Message: "invalid OMT document", Err: err}
	}

	pos := Pos{File: file}
	d := &Declarations{Module: strings.TrimSpace(doc.Identification.Name)}
	if d.Module == "" {
		d.Module = file
	}

	dt := doc.DataTypes
	for _, b := range dt.Basic {
		size, err := strconv.Atoi(strings.TrimSpace(b.Size))
		if err != nil {
			return nil, &ParseError{File: file, Message: "basicData " + strings.TrimSpace(b.Name) + ": size is not numeric", Err: err}
		}
		d.Basic = append(d.Basic, BasicDecl{Name: strings.TrimSpace(b.Name), Size: size, Endian: strings.TrimSpace(b.Endian), Pos: pos})
	}
	for _, s := range dt.Simple {
		d.Simple = append(d.Simple, SimpleDecl{Name: strings.TrimSpace(s.Name), Representation: strings.TrimSpace(s.Representation), Pos: pos})
	}
	for _, e := range dt.Enumerated {
		ed := EnumeratedDecl{Name: strings.TrimSpace(e.Name), Representation: strings.TrimSpace(e.Representation), Pos: pos}
		for _, en := range e.Enumerators {
			ed.Enumerators = append(ed.Enumerators, EnumeratorDecl{Name: strings.TrimSpace(en.Name), Value: strings.TrimSpace(en.Value)})
		}
		d.Enumerated = append(d.Enumerated, ed)
	}
	for _, a := range dt.Arrays {
		d.Arrays = append(d.Arrays, ArrayDecl{Name: strings.TrimSpace(a.Name), DataType: strings.TrimSpace(a.DataType), Cardinality: strings.TrimSpace(a.Cardinality), Pos: pos})
	}
	for _, r := range dt.FixedRecords {
		rd := FixedRecordDecl{Name: strings.TrimSpace(r.Name), Pos: pos}
		for _, f := range r.Fields {
			rd.Fields = append(rd.Fields, FieldDecl{Name: strings.TrimSpace(f.Name), DataType: strings.TrimSpace(f.DataType)})
		}
		d.FixedRecords = append(d.FixedRecords, rd)
	}
	for _, v := range dt.VariantRecord {
		vd := VariantRecordDecl{Name: strings.TrimSpace(v.Name), Discriminant: strings.TrimSpace(v.Discriminant), DataType: strings.TrimSpace(v.DataType), Pos: pos}
		for _, a := range v.Alternatives {
			vd.Alternatives = append(vd.Alternatives, AlternativeDecl{
				Name:        strings.TrimSpace(a.Name),
				DataType:    strings.TrimSpace(a.DataType),
				Enumerators: []string{strings.TrimSpace(a.Enumerator)},
			})
		}
		d.VariantRecords = append(d.VariantRecords, vd)
	}

	for _, c := range doc.Objects {
		d.ObjectClasses = flattenClasses(d.ObjectClasses, "", c, pos)
	}
	for _, c := range doc.Interactions {
		d.InteractionClasses = flattenClasses(d.InteractionClasses, "", c, pos)
	}
	return d, nil
}

func flattenClasses(out []ClassDecl, prefix string, c omtClass, pos Pos) []ClassDecl {
	name := strings.TrimSpace(c.Name)
	if prefix != "" {
		name = prefix + "." + name
	}
	cd := ClassDecl{Name: name, Pos: pos}
	for _, m := range slices.Concat(c.Attributes, c.Parameters) {
		dt := strings.TrimSpace(m.DataType)
		if dt == "" {
			// Scaffolding attributes such as HLAprivilegeToDeleteObject
			// usually carry no dataType.
			continue
		}
		cd.Members = append(cd.Members, MemberDecl{Name: strings.TrimSpace(m.Name), DataType: dt})
	}
	out = append(out, cd)
	for _, sub := range c.Objects {
		out = flattenClasses(out, name, sub, pos)
	}
	for _, sub := range c.Interactions {
		out = flattenClasses(out, name, sub, pos)
	}
	return out
}
