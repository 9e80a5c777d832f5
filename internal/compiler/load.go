package compiler

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"
	"gopkg.in/yaml.v3"

	"github.com/roach88/kanren/internal/ir"
)

// Load error codes (E101-E109)
const (
	ErrCodeReadFailed    = "E101" // file could not be read
	ErrCodeUnknownFormat = "E102" // extension is not .yaml, .yml, or .cue
	ErrCodeYAML          = "E103" // YAML decode failed or unknown field
	ErrCodeCUE           = "E104" // CUE compile failed
	ErrCodeNotConcrete   = "E105" // CUE value is incomplete
	ErrCodeEmpty         = "E106" // no document in file
)

// LoadError is returned when a program file cannot be read or decoded.
type LoadError struct {
	Code    string
	Message string
	Path    string
	Pos     token.Pos // CUE position if available
}

func (e *LoadError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Code, e.Message)
	}
	if e.Path != "" {
		return fmt.Sprintf("%s: %s: %s", e.Path, e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// LoadFile reads a program file. The format is chosen by extension.
func LoadFile(path string) (*ir.Program, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeReadFailed, Message: err.Error(), Path: path}
	}

	var p *ir.Program
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		p, err = ParseYAML(data)
	case ".cue":
		p, err = ParseCUE(data, path)
	default:
		return nil, &LoadError{
			Code:    ErrCodeUnknownFormat,
			Message: fmt.Sprintf("unsupported extension %q (want .yaml, .yml, or .cue)", filepath.Ext(path)),
			Path:    path,
		}
	}
	if err != nil {
		var loadErr *LoadError
		if errors.As(err, &loadErr) && loadErr.Path == "" && !loadErr.Pos.IsValid() {
			loadErr.Path = path
		}
		return nil, err
	}
	return p, nil
}

// ParseYAML decodes a program. Unknown fields are an error.
func ParseYAML(data []byte) (*ir.Program, error) {
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)

	var p ir.Program
	if err := decoder.Decode(&p); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, &LoadError{Code: ErrCodeEmpty, Message: "empty program file"}
		}
		return nil, &LoadError{Code: ErrCodeYAML, Message: err.Error()}
	}
	return &p, nil
}

// ParseCUE evaluates a CUE program. The value must be concrete; it is
// exported as JSON and decoded with ParseYAML, so both formats share one
// field set.
func ParseCUE(data []byte, filename string) (*ir.Program, error) {
	ctx := cuecontext.New()
	v := ctx.CompileBytes(data, cue.Filename(filename))
	if err := v.Err(); err != nil {
		return nil, cueLoadError(ErrCodeCUE, err)
	}
	if err := v.Validate(cue.Concrete(true)); err != nil {
		return nil, cueLoadError(ErrCodeNotConcrete, err)
	}

	js, err := v.MarshalJSON()
	if err != nil {
		return nil, cueLoadError(ErrCodeNotConcrete, err)
	}
	return ParseYAML(js)
}

// cueLoadError keeps the position of the first CUE error.
func cueLoadError(code string, err error) *LoadError {
	loadErr := &LoadError{Code: code, Message: err.Error()}
	errs := cueerrors.Errors(err)
	if len(errs) == 0 {
		return loadErr
	}
	loadErr.Message = errs[0].Error()
	if positions := cueerrors.Positions(errs[0]); len(positions) > 0 {
		loadErr.Pos = positions[0]
	}
	return loadErr
}
