// Package plan loads YAML batch plans of volume requests.
//
// A plan lists the same parameters a single `wpvol set` call takes:
//
//	file: ./stream-properties   # optional, relative to the plan
//	tasks:
//	  - app_name: Firefox
//	    volume: 0.6
//	    description: browser a bit quieter
//	  - app_name: Music Player
//	    volume: 1.0
//
// Plans are decoded strictly (unknown keys are errors) and then checked
// against the CUE schema embedded from schema.cue.
package plan

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"gopkg.in/yaml.v3"

	"github.com/roach88/wpvol/internal/engine"
)

//go:embed schema.cue
var schemaSource string

// ErrInvalidPlan matches every *ValidationError.
var ErrInvalidPlan = errors.New("invalid plan")

// Plan is a batch of volume tasks for one state file.
type Plan struct {
	// File optionally names the state file. Relative paths are resolved
	// against the plan's directory by Load.
	File  string `yaml:"file,omitempty" json:"file,omitempty"`
	Tasks []Task `yaml:"tasks" json:"tasks"`
}

// Task mirrors engine.Request.
type Task struct {
	AppName string `yaml:"app_name" json:"app_name"`
	// Volume is a pointer so a missing key is distinguishable from 0.
	Volume      *float64 `yaml:"volume" json:"volume,omitempty"`
	Description string   `yaml:"description,omitempty" json:"description,omitempty"`
}

// ValidationError reports a plan that fails decoding or the schema.
type ValidationError struct {
	Path    string // plan file
	Details []string
	Err     error
}

func (e *ValidationError) Error() string {
	if len(e.Details) > 0 {
		return fmt.Sprintf("%s: %s: %s", ErrInvalidPlan, e.Path, e.Details[0])
	}
	return fmt.Sprintf("%s: %s: %v", ErrInvalidPlan, e.Path, e.Err)
}

// Unwrap returns the underlying error.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// Is matches ErrInvalidPlan.
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidPlan
}

// Load reads, decodes and validates the plan at path.
func Load(path string) (*Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read plan file: %w", err)
	}

	p, err := Parse(path, data)
	if err != nil {
		return nil, err
	}

	if p.File != "" && !filepath.IsAbs(p.File) {
		p.File = filepath.Join(filepath.Dir(path), p.File)
	}
	return p, nil
}

// Parse decodes and validates plan YAML. name is used in error messages.
func Parse(name string, data []byte) (*Plan, error) {
	var p Plan
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&p); err != nil {
		return nil, &ValidationError{Path: name, Err: fmt.Errorf("failed to parse YAML: %w", err)}
	}

	if err := p.Validate(name); err != nil {
		return nil, err
	}
	return &p, nil
}

// Validate checks p against the #Plan schema.
func (p *Plan) Validate(name string) error {
	ctx := cuecontext.New()

	schema := ctx.CompileString(schemaSource, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return fmt.Errorf("compile plan schema: %w", err)
	}
	def := schema.LookupPath(cue.ParsePath("#Plan"))

	data, err := json.Marshal(p)
	if err != nil {
		return &ValidationError{Path: name, Err: err}
	}
	value := ctx.CompileBytes(data, cue.Filename(name))
	if err := value.Err(); err != nil {
		return &ValidationError{Path: name, Err: err}
	}

	if err := def.Unify(value).Validate(cue.Concrete(true)); err != nil {
		var details []string
		for _, e := range cueerrors.Errors(err) {
			details = append(details, e.Error())
		}
		return &ValidationError{Path: name, Details: details, Err: err}
	}
	return nil
}

// Requests converts the tasks into engine requests, in order.
func (p *Plan) Requests() []engine.Request {
	reqs := make([]engine.Request, len(p.Tasks))
	for i, t := range p.Tasks {
		var v float64
		if t.Volume != nil {
			v = *t.Volume
		}
		reqs[i] = engine.Request{
			AppName:     t.AppName,
			Volume:      v,
			Description: t.Description,
		}
	}
	return reqs
}
