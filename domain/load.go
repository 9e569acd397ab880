package domain

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Load reads a checklist document from a YAML or JSON file.
func Load(path string) (*Checklist, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	c, err := Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}

	return c, nil
}

// Decode parses a checklist document. JSON input is accepted as YAML.
func Decode(r io.Reader) (*Checklist, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var c Checklist
	if err := dec.Decode(&c); err != nil {
		if err == io.EOF {
			return &c, nil
		}
		return nil, err
	}

	return &c, nil
}
