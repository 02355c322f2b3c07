// Package store provides SQLite-backed durable storage for federations.
//
// The store keeps:
//   - Datatype models: exported FOM declarations keyed by model fingerprint
//   - Federations: name, time implementation and model fingerprint
//   - Joins: the encoded initial time and zero interval minted for each
//     federate when it joined
//
// # Ordering
//
// All ordering uses seq INTEGER (logical clock), never timestamps. Queries
// that return lists order by seq ASC with a binary tiebreak, so results are
// identical across runs.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
package store
