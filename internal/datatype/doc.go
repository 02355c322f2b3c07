// Package datatype describes FOM datatypes as an immutable, arena-backed model.
//
// Every descriptor (Basic, Simple, Enumerated, Array, FixedRecord,
// VariantRecord, NA) implements the sealed Datatype interface. Descriptors
// never hold pointers to each other: a composite refers to its children by
// Ref, a handle into the Model that owns them.
//
// Key constraints:
//   - Descriptors are validated at construction and never mutated afterwards
//   - A Ref is only meaningful inside the Builder/Model that issued it
//   - Names are looked up case-insensitively (NFC + case folding)
//   - A published Model is safe for concurrent readers
//
// This package imports nothing internal. The FOM loaders in internal/fom
// build models on top of it.
package datatype
