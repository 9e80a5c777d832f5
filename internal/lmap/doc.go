// Package lmap provides LMap, a relational key/value container whose keys
// and values may be logic variables, and the Subset and Superset goals that
// match one map against another.
//
// Keys are not required to be distinct or concrete. Whether two keys are
// equal is only known once they are unified, so matching is existential per
// entry rather than a bijection between entries.
package lmap
