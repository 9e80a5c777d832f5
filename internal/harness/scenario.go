package harness

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/roach88/kanren/internal/compiler"
	"github.com/roach88/kanren/internal/ir"
)

// Scenario is a program file loaded for conformance testing.
type Scenario struct {
	// Path is the program file. Relative database paths resolve against
	// its directory.
	Path string

	// Program is the decoded program.
	Program *ir.Program
}

// Name returns the program name.
func (s *Scenario) Name() string {
	return s.Program.Name
}

// HasExpect reports whether the program lists expected answers.
func (s *Scenario) HasExpect() bool {
	return s.Program.Expect != nil
}

// LoadScenario reads a program file and validates it.
// Returns an error if the file is malformed or fails validation.
func LoadScenario(path string) (*Scenario, error) {
	p, err := compiler.LoadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load scenario: %w", err)
	}

	if errs := compiler.Validate(p); len(errs) > 0 {
		return nil, fmt.Errorf("invalid scenario: %w", compiler.ValidationErrors(errs))
	}

	return &Scenario{Path: path, Program: p}, nil
}

// scenarioExts are the program file extensions FindScenarios picks up.
var scenarioExts = []string{".yaml", ".yml", ".cue"}

// FindScenarios walks dir and returns program files in lexical order.
// filter is a glob matched against the file name without extension; empty
// matches everything.
func FindScenarios(dir, filter string) ([]string, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("not a directory: %s", dir)
	}
	if filter != "" {
		if _, err := filepath.Match(filter, ""); err != nil {
			return nil, fmt.Errorf("invalid filter pattern: %w", err)
		}
	}

	var files []string
	err = filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		ext := filepath.Ext(path)
		if !isScenarioExt(ext) {
			return nil
		}

		if filter != "" {
			name := strings.TrimSuffix(filepath.Base(path), ext)
			if matched, _ := filepath.Match(filter, name); !matched {
				return nil
			}
		}

		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}

func isScenarioExt(ext string) bool {
	for _, e := range scenarioExts {
		if strings.EqualFold(ext, e) {
			return true
		}
	}
	return false
}
