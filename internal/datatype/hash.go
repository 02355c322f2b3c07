package datatype

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Domain prefixes for content fingerprints. The version suffix allows the
// layout to change without colliding with older fingerprints.
const (
	DomainDatatype = "rtikit/datatype/v1"
	DomainModel    = "rtikit/model/v1"
)

// hashWithDomain computes SHA256(domain + 0x00 + data).
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// Describe renders a datatype and everything it references as a tree of
// canonical-JSON-ready values. Referenced types are inlined by structure, so
// the result does not depend on arena identity or insertion order.
func Describe(res Resolver, r Ref) (map[string]any, error) {
	dt, err := res.Get(r)
	if err != nil {
		return nil, err
	}
	out := map[string]any{
		"name":  dt.Name(),
		"class": dt.Class().String(),
	}
	child := func(r Ref) (map[string]any, error) {
		d, err := Describe(res, r)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", dt.Name(), err)
		}
		return d, nil
	}

	switch t := dt.(type) {
	case *BasicType:
		out["size"] = t.size
		out["endianness"] = t.endianness.String()
	case *SimpleType:
		rep, err := child(t.representation)
		if err != nil {
			return nil, err
		}
		out["representation"] = rep
	case *EnumeratedType:
		rep, err := child(t.representation)
		if err != nil {
			return nil, err
		}
		out["representation"] = rep
		enums := make([]any, len(t.enumerators))
		for i, e := range t.enumerators {
			enums[i] = map[string]any{"name": e.name, "value": e.value}
		}
		out["enumerators"] = enums
	case *ArrayType:
		elem, err := child(t.element)
		if err != nil {
			return nil, err
		}
		out["element"] = elem
		out["cardinality"] = FormatCardinality(t.dimensions)
	case *FixedRecordType:
		fields := make([]any, len(t.fields))
		for i, f := range t.fields {
			d, err := child(f.datatype)
			if err != nil {
				return nil, err
			}
			fields[i] = map[string]any{"name": f.name, "datatype": d}
		}
		out["fields"] = fields
	case *VariantRecordType:
		disc, err := child(t.discriminant)
		if err != nil {
			return nil, err
		}
		out["discriminant"] = t.discriminantName
		out["discriminant_type"] = disc
		alts := make([]any, len(t.alternatives))
		for i, a := range t.alternatives {
			d, err := child(a.datatype)
			if err != nil {
				return nil, err
			}
			enums := make([]any, len(a.enumerators))
			for j, e := range a.enumerators {
				enums[j] = e.name
			}
			alts[i] = map[string]any{"name": a.name, "datatype": d, "enumerators": enums}
		}
		out["alternatives"] = alts
	}
	return out, nil
}

// Fingerprint returns a content hash of a datatype and everything it
// references. Two federates hold the same version of a type when their
// fingerprints match.
func Fingerprint(res Resolver, r Ref) (string, error) {
	desc, err := Describe(res, r)
	if err != nil {
		return "", fmt.Errorf("Fingerprint: %w", err)
	}
	canonical, err := MarshalCanonical(desc)
	if err != nil {
		return "", fmt.Errorf("Fingerprint: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainDatatype, canonical), nil
}

// ModelFingerprint hashes the fingerprints of every datatype in m keyed by
// folded name. Insertion order does not matter.
func ModelFingerprint(m *Model) (string, error) {
	entries := make(map[string]any, m.Len())
	for _, r := range m.Refs() {
		fp, err := Fingerprint(m, r)
		if err != nil {
			return "", err
		}
		entries[FoldName(r.Name())] = fp
	}
	canonical, err := MarshalCanonical(entries)
	if err != nil {
		return "", fmt.Errorf("ModelFingerprint: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainModel, canonical), nil
}

// MustFingerprint is like Fingerprint but panics on error.
// Use only in tests or with refs known to belong to res.
func MustFingerprint(res Resolver, r Ref) string {
	fp, err := Fingerprint(res, r)
	if err != nil {
		panic(err)
	}
	return fp
}
