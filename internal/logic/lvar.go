package logic

import (
	"fmt"
	"sync/atomic"
)

// lvarSeq is the process-wide source of LVar identities.
// Safe for concurrent use so variables can be created from any goroutine.
var lvarSeq atomic.Uint64

// LVar is an opaque identifier standing for an as-yet-unknown value.
//
// Equality is by identity: two LVars are equal only if they were returned by
// the same call to NewLVar. An LVar carries no type information; the type is
// implied by the binding table the LVar is stored in.
type LVar struct {
	id uint64
}

// NewLVar returns a fresh, globally unique logic variable.
func NewLVar() LVar {
	return LVar{id: lvarSeq.Add(1)}
}

// ID returns the numeric identity of the variable.
func (v LVar) ID() uint64 {
	return v.id
}

// IsZero reports whether v is the zero LVar, which NewLVar never returns.
func (v LVar) IsZero() bool {
	return v.id == 0
}

// String renders the variable as "_.N".
func (v LVar) String() string {
	return fmt.Sprintf("_.%d", v.id)
}

// lvarHasher hashes LVars for the persistent binding tables.
type lvarHasher struct{}

func (lvarHasher) Hash(v LVar) uint32 {
	return uint32(v.id ^ (v.id >> 32))
}

func (lvarHasher) Equal(a, b LVar) bool {
	return a.id == b.id
}
