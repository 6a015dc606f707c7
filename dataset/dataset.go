// Package dataset loads labeled examples from JSON or YAML files.
package dataset

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"golang.org/x/exp/maps"
	"gopkg.in/yaml.v2"
)

// Example is one labeled record. Inputs names the keys fed to a module;
// every other key is a label.
type Example struct {
	Fields map[string]string
	Inputs []string
}

// NewExample copies fields and marks inputs.
func NewExample(fields map[string]string, inputs ...string) Example {
	f := make(map[string]string, len(fields))
	for k, v := range fields {
		f[k] = v
	}
	return Example{Fields: f, Inputs: append([]string(nil), inputs...)}
}

func (e Example) Get(name string) string {
	return e.Fields[name]
}

// InputValues returns only the input fields.
func (e Example) InputValues() map[string]string {
	out := make(map[string]string, len(e.Inputs))
	for _, name := range e.Inputs {
		out[name] = e.Fields[name]
	}
	return out
}

// Labels returns the sorted names of the non-input fields.
func (e Example) Labels() []string {
	keys := maps.Keys(e.Fields)
	slices.Sort(keys)
	out := keys[:0]
	for _, k := range keys {
		if !slices.Contains(e.Inputs, k) {
			out = append(out, k)
		}
	}
	return out
}

// Load reads an array of objects. Files ending in .json are decoded as JSON,
// anything else as YAML.
func Load(path string, inputs ...string) ([]Example, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("data file not found: %s", path)
		}
		return nil, err
	}

	items, err := decode(path, data)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	examples := make([]Example, 0, len(items))
	for i, item := range items {
		fields := make(map[string]string, len(item))
		for k, v := range item {
			if v == nil {
				continue
			}
			fields[k] = strings.TrimSpace(fmt.Sprint(v))
		}
		for _, in := range inputs {
			if _, ok := fields[in]; !ok {
				return nil, fmt.Errorf("%s: example %d: missing input field %q", path, i, in)
			}
		}
		examples = append(examples, NewExample(fields, inputs...))
	}
	return examples, nil
}

func decode(path string, data []byte) ([]map[string]interface{}, error) {
	var items []map[string]interface{}
	if strings.EqualFold(filepath.Ext(path), ".json") {
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.UseNumber()
		err := dec.Decode(&items)
		return items, err
	}
	err := yaml.Unmarshal(data, &items)
	return items, err
}
