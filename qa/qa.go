// Package qa answers a question with a chain-of-thought call to a hosted model.
package qa

import (
	"context"
	"errors"
	"strings"

	"structuredqa"
	"structuredqa/lm"
	"structuredqa/predict"
	"structuredqa/signature"
)

// DemoQuestion is the question asked by the demo entry point.
const DemoQuestion = "What is the capital of France?"

var ErrEmptyQuestion = errors.New("question required")

// Invoker runs the question-answering module.
type Invoker struct {
	module predict.Module
}

// New wraps model in a chain-of-thought module over signature.QuestionAnswer.
func New(model lm.LM) (*Invoker, error) {
	cot, err := predict.NewChainOfThought(signature.QuestionAnswer, model)
	if err != nil {
		return nil, err
	}
	return &Invoker{module: cot}, nil
}

// Ask performs one synchronous model call. Failures are returned unchanged.
func (i *Invoker) Ask(ctx context.Context, question string) (structuredqa.Response, error) {
	log := structuredqa.Logger

	question = strings.TrimSpace(question)
	if question == "" {
		return structuredqa.Response{}, ErrEmptyQuestion
	}
	log.Info("Question received", "question", question)

	pred, err := i.module.Forward(ctx, map[string]string{"question": question})
	if err != nil {
		return structuredqa.Response{}, err
	}
	log.Info("Answer received", "answer", pred.Get("answer"))
	return structuredqa.Response{
		Answer:    pred.Get("answer"),
		Reasoning: pred.Get("reasoning"),
	}, nil
}
