package harness

import (
	"fmt"

	"github.com/roach88/kanren/internal/ir"
)

// CheckAnswers compares answers with the expected rows, in order.
// Values are compared as canonical JSON, so equivalent Unicode spellings
// match. Returns one message per mismatch; nil means equal.
func CheckAnswers(got []ir.IRArray, expect [][]any) []string {
	var errs []string

	if len(got) != len(expect) {
		errs = append(errs, fmt.Sprintf("answer count: expected %d, got %d", len(expect), len(got)))
	}

	for i := range max(len(got), len(expect)) {
		var want, have string
		if i < len(expect) {
			row, err := ir.FromAny(expect[i])
			if err != nil {
				errs = append(errs, fmt.Sprintf("expect[%d]: %v", i, err))
				continue
			}
			want = string(ir.MustMarshalCanonical(row))
		}
		if i < len(got) {
			have = string(ir.MustMarshalCanonical(got[i]))
		}

		switch {
		case want == "":
			errs = append(errs, fmt.Sprintf("answer %d: unexpected %s", i, have))
		case have == "":
			errs = append(errs, fmt.Sprintf("answer %d: missing %s", i, want))
		case want != have:
			errs = append(errs, fmt.Sprintf("answer %d: expected %s, got %s", i, want, have))
		}
	}

	return errs
}
