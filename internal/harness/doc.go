// Package harness runs program files as conformance scenarios.
//
// A scenario is a program file (YAML or CUE) with an expect list:
//
//	name: grandparents
//	query: ["?x", "?y"]
//	facts:
//	  parent: [[alice, bob], [bob, carol]]
//	rules:
//	  - name: grandparent
//	    params: ["?a", "?c"]
//	    body:
//	      all:
//	        - {fact: {relation: parent, args: ["?a", "?b"]}}
//	        - {fact: {relation: parent, args: ["?b", "?c"]}}
//	goal: {call: {rule: grandparent, args: ["?x", "?y"]}}
//	expect: [[alice, carol]]
//
// # Checks
//
// Run compiles the program and solves it twice:
//
//   - expect: the answers must equal the expect rows, in order, compared
//     as canonical JSON. An empty list expects no answers.
//   - determinism: both runs must produce the same answers hash.
//
// A recursive program without a limit is reported as a warning; it is not
// a failure.
//
// # Golden Files
//
// RunWithGolden compares a canonical snapshot of the answers against
// testdata/golden/{name}.golden. To regenerate golden files, run:
//
//	go test ./internal/harness -update
package harness
