// Package harness runs logical time conformance scenarios.
//
// # Scenario Format
//
// Scenarios are YAML files. Steps operate on named time variables, all
// minted by one time implementation:
//
//	name: integer_arithmetic
//	description: "Integer times add, subtract and refuse to go negative"
//	implementation: HLAinteger64Time
//	steps:
//	  - op: initial
//	    var: t
//	  - op: add
//	    var: t
//	    value: "5"
//	  - op: expect
//	    var: t
//	    value: "5"
//	  - op: subtract
//	    var: t
//	    value: "6"
//	    error: illegal_time_arithmetic
//
// Operations: initial, final, set, decode and join assign var; add,
// subtract, distance, compare, expect, encode and roundtrip read it.
// A join step admits var as a federate into a federation named after the
// scenario (created from the scenario's modules on first use) and assigns
// the federate's initial time.
//
// # Error Kinds
//
// A step may name the error it must fail with: invalid_logical_time,
// invalid_logical_time_interval, illegal_time_arithmetic, could_not_encode,
// could_not_decode or federate_already_joined.
//
// # Deterministic Testing
//
// Trace seq values come from a clock that restarts for every run, and
// federations use name-based IDs, so a scenario always produces the same
// trace. RunWithGolden compares that trace with testdata/golden.
package harness
