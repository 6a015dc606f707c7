// Package demos stores labeled examples and retrieves the ones closest to
// a new input, to be shown to a module as demonstrations.
package demos

import (
	"context"
	"fmt"
	"strings"

	"structuredqa/dataset"
)

// Store holds labeled examples indexed by their input text.
type Store interface {
	Add(ctx context.Context, examples []dataset.Example) error
	Nearest(ctx context.Context, text string, k int) ([]dataset.Example, error)
}

// Content is the text that gets embedded for an example: its input values
// in declaration order.
func Content(e dataset.Example) string {
	parts := make([]string, 0, len(e.Inputs))
	for _, name := range e.Inputs {
		parts = append(parts, e.Get(name))
	}
	return strings.Join(parts, "\n")
}

// AsDemos converts examples into the field maps predict.Predict expects.
func AsDemos(examples []dataset.Example) []map[string]string {
	out := make([]map[string]string, 0, len(examples))
	for _, e := range examples {
		demo := make(map[string]string, len(e.Fields))
		for k, v := range e.Fields {
			demo[k] = v
		}
		out = append(out, demo)
	}
	return out
}

// Retrieve returns the k nearest examples as demos. A nil store or k <= 0
// yields no demos.
func Retrieve(ctx context.Context, store Store, text string, k int) ([]map[string]string, error) {
	if store == nil || k <= 0 {
		return nil, nil
	}
	nearest, err := store.Nearest(ctx, text, k)
	if err != nil {
		return nil, fmt.Errorf("retrieve demos: %w", err)
	}
	return AsDemos(nearest), nil
}
