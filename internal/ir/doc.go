// Package ir provides the program file model and the constrained value
// types that cross the engine's outer boundary: program terms, fact rows,
// and query answers.
//
// This package imports nothing internal. Every other host package builds on
// it, so it stays the foundational layer with no circular dependencies.
//
// Key design constraints:
//   - No float or null values anywhere; numbers are int64
//   - Canonical JSON (RFC 8785 key order, NFC strings) for every persisted
//     or hashed value
//   - All JSON and YAML tags use snake_case
package ir
