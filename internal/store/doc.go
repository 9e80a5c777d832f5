// Package store provides SQLite-backed storage for fact relations.
//
// A fact is one row of ground terms under a relation name. Rows are stored
// as canonical JSON arrays so equal rows always have equal text, and the
// table enforces UNIQUE(relation, args): adding a row twice is a no-op.
//
// # Ordering
//
// Every row gets a logical sequence number when it is first inserted.
// Relation reads use ORDER BY seq ASC, so a program that reads a relation
// enumerates its rows in insertion order on every run.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
package store
