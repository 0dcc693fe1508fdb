package scenario

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed schema.json
var schemaJSON []byte

const schemaURL = "input.schema.json"

var (
	schemaOnce sync.Once
	schema     *jsonschema.Schema
	schemaErr  error
)

// Schema returns the compiled input schema.
func Schema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		c := jsonschema.NewCompiler()
		c.Draft = jsonschema.Draft7
		if err := c.AddResource(schemaURL, bytes.NewReader(schemaJSON)); err != nil {
			schemaErr = fmt.Errorf("add input schema: %w", err)
			return
		}
		schema, schemaErr = c.Compile(schemaURL)
		if schemaErr != nil {
			schemaErr = fmt.Errorf("compile input schema: %w", schemaErr)
		}
	})
	return schema, schemaErr
}

// Load reads, validates and decodes an input file.
func Load(path string) (*Input, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	in, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return in, nil
}

// Decode validates raw JSON against the input schema, decodes it and checks
// the semantic rules the schema cannot express.
func Decode(data []byte) (*Input, error) {
	s, err := Schema()
	if err != nil {
		return nil, err
	}

	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse input: %w", err)
	}
	if err := s.Validate(doc); err != nil {
		return nil, fmt.Errorf("validate input: %w", err)
	}

	var in Input
	if err := json.Unmarshal(data, &in); err != nil {
		return nil, fmt.Errorf("decode input: %w", err)
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}
	return &in, nil
}

// Validate checks every simulation and that non-zero command timestamps
// never decrease.
func (in *Input) Validate() error {
	for i, sim := range in.Simulations {
		if err := sim.Validate(); err != nil {
			return fmt.Errorf("simulation %d: %w", i, err)
		}
	}
	prev := 0
	for i, c := range in.Commands {
		if c.Timestamp == 0 {
			continue
		}
		if c.Timestamp < prev {
			return fmt.Errorf("command %d (%s): timestamp %d before %d", i, c.Command, c.Timestamp, prev)
		}
		prev = c.Timestamp
	}
	return nil
}

// Write encodes the input as indented JSON.
func Write(path string, in *Input) error {
	data, err := json.MarshalIndent(in, "", "  ")
	if err != nil {
		return fmt.Errorf("encode input: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create input dir: %w", err)
		}
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write input: %w", err)
	}
	return nil
}
