// Package logicaltime defines federation logical time and its two reference
// families, HLAfloat64Time and HLAinteger64Time.
//
// A federation uses exactly one family. Times and intervals from different
// families never mix: every comparison or arithmetic call checks the family
// of its argument and fails with ErrInvalidLogicalTime or
// ErrInvalidLogicalTimeInterval instead of coercing.
//
// Families register a Factory constructor under one or more names from
// their init functions; Resolve maps an implementation name to a Factory.
package logicaltime
