// Package predict binds a signature to a model call strategy.
package predict

import (
	"context"
	"errors"
	"fmt"

	"structuredqa/adapter"
	"structuredqa/lm"
	"structuredqa/signature"
)

var ErrNoLM = errors.New("no language model configured")

var Reasoning = signature.Field{
	Name:   "reasoning",
	Desc:   "Think step by step in order to produce the output fields.",
	Prefix: "Reasoning",
}

// Module is a reusable model call over a signature.
type Module interface {
	Forward(ctx context.Context, inputs map[string]string) (Prediction, error)
}

// Prediction holds the output fields of one call in signature order.
type Prediction struct {
	fields []string
	values map[string]string
}

// NewPrediction is mostly useful for fakes in tests.
func NewPrediction(fields []string, values map[string]string) Prediction {
	v := make(map[string]string, len(values))
	for k, val := range values {
		v[k] = val
	}
	return Prediction{fields: append([]string(nil), fields...), values: v}
}

func (p Prediction) Get(name string) string {
	return p.values[name]
}

func (p Prediction) Fields() []string {
	return append([]string(nil), p.fields...)
}

// Predict formats the inputs, calls the model once and parses the reply.
type Predict struct {
	Signature signature.Signature
	LM        lm.LM
	Demos     []map[string]string
}

func New(sig signature.Signature, model lm.LM) *Predict {
	return &Predict{Signature: sig, LM: model}
}

func (p *Predict) Forward(ctx context.Context, inputs map[string]string) (Prediction, error) {
	if p.LM == nil {
		return Prediction{}, ErrNoLM
	}
	messages, err := adapter.Format(p.Signature, p.Demos, inputs)
	if err != nil {
		return Prediction{}, err
	}
	completion, err := p.LM.Call(ctx, messages)
	if err != nil {
		return Prediction{}, err
	}
	values, err := adapter.Parse(p.Signature, completion)
	if err != nil {
		return Prediction{}, fmt.Errorf("%s: %w", p.LM.Model(), err)
	}
	return NewPrediction(p.Signature.OutputNames(), values), nil
}

// WithDemos returns a shallow copy using demos, leaving p untouched.
func (p *Predict) WithDemos(demos []map[string]string) *Predict {
	out := *p
	out.Demos = demos
	return &out
}

// NewChainOfThought is Predict with a reasoning field ahead of the outputs.
func NewChainOfThought(sig signature.Signature, model lm.LM) (*Predict, error) {
	cot, err := sig.Prepend(Reasoning)
	if err != nil {
		return nil, err
	}
	return New(cot, model), nil
}
