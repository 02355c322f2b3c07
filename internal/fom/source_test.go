package fom

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseXMLDeclarations(t *testing.T) {
	d := loadXML(t, "restaurant.xml")

	assert.Equal(t, "RestaurantFOM", d.Module)
	assert.Equal(t, 8, d.Len())
	require.Len(t, d.Basic, 1)
	assert.Equal(t, BasicDecl{Name: "RestaurantInt16", Size: 16, Endian: "Little", Pos: Pos{File: filepath.Join("testdata", "restaurant.xml")}}, d.Basic[0])

	require.Len(t, d.VariantRecords, 1)
	alts := d.VariantRecords[0].Alternatives
	require.Len(t, alts, 3)
	assert.Equal(t, []string{"[Fish..Steak]"}, alts[1].Enumerators)

	names := make([]string, len(d.ObjectClasses))
	for i, c := range d.ObjectClasses {
		names[i] = c.Name
	}
	assert.Equal(t, []string{"HLAobjectRoot", "HLAobjectRoot.Table", "HLAobjectRoot.Table.Booth"}, names)
	assert.Empty(t, d.ObjectClasses[0].Members, "privilege attribute has no dataType")
	assert.Equal(t, []MemberDecl{{Name: "seats", DataType: "HLAinteger32BE"}}, d.ObjectClasses[1].Members)

	require.Len(t, d.InteractionClasses, 2)
	assert.Len(t, d.InteractionClasses[1].Members, 2)
}

func TestParseXMLErrors(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		wantMsg string
	}{
		{"not xml", "this is not xml", "invalid OMT document"},
		{"wrong root", "<fom></fom>", "invalid OMT document"},
		{
			"non-numeric size",
			`<objectModel><dataTypes><basicDataRepresentations><basicData><name>X</name><size>big</size></basicData></basicDataRepresentations></dataTypes></objectModel>`,
			"size is not numeric",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseXML("bad.xml", []byte(tt.doc))
			require.Error(t, err)
			var perr *ParseError
			require.ErrorAs(t, err, &perr)
			assert.Equal(t, "bad.xml", perr.File)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestParseXMLWithoutIdentification(t *testing.T) {
	d, err := ParseXML("anon.xml", []byte(`<objectModel/>`))
	require.NoError(t, err)
	assert.Equal(t, "anon.xml", d.Module)
	assert.Zero(t, d.Len())
}

func TestCompileCUEDeclarations(t *testing.T) {
	d := loadCUE(t, "restaurant.cue")

	assert.Equal(t, "RestaurantFOM", d.Module)
	assert.Equal(t, 8, d.Len())
	require.Len(t, d.Enumerated, 1)
	assert.Equal(t, EnumeratorDecl{Name: "Fish", Value: "1"}, d.Enumerated[0].Enumerators[1])

	require.Len(t, d.Arrays, 3)
	assert.Equal(t, "10", d.Arrays[1].Cardinality, "integer cardinality")
	assert.Equal(t, "[1..8]", d.Arrays[2].Cardinality)

	require.Len(t, d.Basic, 1)
	assert.Greater(t, d.Basic[0].Pos.Line, 0)
	assert.Contains(t, d.Basic[0].Pos.File, "restaurant.cue")
}

func TestCompileCUEErrors(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		wantMsg string
	}{
		{"syntax", "datatypes: {", ""},
		{"missing size", `datatypes: basic: X: {endian: "Big"}`, "size is required"},
		{"missing representation", `datatypes: simple: X: {}`, "representation is required"},
		{"enumerators not a list", `datatypes: enumerated: X: {representation: "HLAoctet", enumerators: "Soup"}`, "must be a list"},
		{"member not a string", `objects: "HLAobjectRoot.A": attributes: a: 3`, "datatype must be a string"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := CompileCUE("bad.cue", []byte(tt.src))
			require.Error(t, err)
			if tt.wantMsg != "" {
				var cerr *CompileError
				require.ErrorAs(t, err, &cerr)
				assert.Contains(t, cerr.Message, tt.wantMsg)
			}
		})
	}
}

func TestCompileCUEWrongSizeType(t *testing.T) {
	data, err := os.ReadFile(filepath.Join("testdata", "broken.cue"))
	require.NoError(t, err)
	_, err = CompileCUE("broken.cue", data)
	require.Error(t, err)
}

func TestCompileErrorFormat(t *testing.T) {
	e := &CompileError{Field: "size", Message: "size is required"}
	assert.Equal(t, "size: size is required", e.Error())
}
