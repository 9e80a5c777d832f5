// Package compiler turns program files into goals.
//
// A program is loaded from YAML or CUE (LoadFile), checked statically
// (Validate, AnalyzeRecursion), and compiled against its facts (Compile).
// Compiled.Solve runs the search and returns the answers as canonical IR
// rows, one value per query variable.
package compiler
