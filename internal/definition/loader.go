package definition

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"remixin/object"
)

// LoadFile loads and parses a YAML definition file from the given path.
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read definition file %s: %w", path, err)
	}

	return Parse(data)
}

// Parse parses YAML data into a File.
func Parse(data []byte) (*File, error) {
	var f File

	err := yaml.Unmarshal(data, &f)
	if err != nil {
		return nil, fmt.Errorf("failed to parse definition YAML: %w", err)
	}

	applyDefaults(&f)

	return &f, nil
}

// applyDefaults fills in default values for optional fields.
func applyDefaults(f *File) {
	if f.Version == "" {
		f.Version = Version
	}

	for i := range f.Functions {
		fn := &f.Functions[i]
		if fn.Lang == "" {
			fn.Lang = "js"
		}
	}
}

// Marshal serializes a File to YAML.
func Marshal(f *File) ([]byte, error) {
	return yaml.Marshal(f)
}

// WriteFile writes a File to the given path.
func WriteFile(f *File, path string) error {
	data, err := Marshal(f)
	if err != nil {
		return fmt.Errorf("failed to marshal definitions: %w", err)
	}

	err = os.WriteFile(path, data, 0o600)
	if err != nil {
		return fmt.Errorf("failed to write definition file %s: %w", path, err)
	}

	return nil
}

// ParseValue decodes a YAML document into engine values. An empty document
// yields nil.
func ParseValue(data []byte) (any, error) {
	var node yaml.Node

	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if node.Kind == 0 {
		return nil, nil
	}

	return DecodeValue(&node)
}

// ParseObject decodes a YAML mapping into a target object. An empty document
// yields an empty object.
func ParseObject(data []byte) (*object.Object, error) {
	v, err := ParseValue(data)
	if err != nil {
		return nil, err
	}

	switch x := v.(type) {
	case nil:
		return object.New(nil), nil
	case *object.Object:
		return x, nil
	default:
		return nil, errors.New("document must be a mapping")
	}
}

// LoadObject reads a target object from a YAML file.
func LoadObject(path string) (*object.Object, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read object file %s: %w", path, err)
	}

	o, err := ParseObject(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return o, nil
}

// MarshalObject serializes the own properties of o to YAML.
func MarshalObject(o *object.Object) ([]byte, error) {
	node, err := EncodeValue(o)
	if err != nil {
		return nil, err
	}

	return yaml.Marshal(node)
}
