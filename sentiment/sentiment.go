// Package sentiment classifies movie reviews and scores the classifier
// against a labeled test set.
package sentiment

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"structuredqa"
	"structuredqa/dataset"
	"structuredqa/demos"
	"structuredqa/evaluate"
	"structuredqa/lm"
	"structuredqa/predict"
	"structuredqa/signature"
)

const (
	InputField  = "review"
	LabelField  = "sentiment"
	SmokePrompt = "What is 2+2?"
)

// Pipeline runs a Predict over signature.SentimentAnalysis, optionally
// showing the K nearest labeled reviews from Store as demos.
type Pipeline struct {
	LM         lm.LM
	Classifier *predict.Predict
	Store      demos.Store
	K          int
}

func New(model lm.LM, store demos.Store, k int) *Pipeline {
	return &Pipeline{
		LM:         model,
		Classifier: predict.New(signature.SentimentAnalysis, model),
		Store:      store,
		K:          k,
	}
}

// Smoke sends a bare prompt to the model, bypassing the signature.
func (p *Pipeline) Smoke(ctx context.Context) (string, error) {
	return p.LM.Call(ctx, []lm.Message{{Role: lm.RoleUser, Content: SmokePrompt}})
}

// Forward implements predict.Module so the pipeline can be evaluated.
func (p *Pipeline) Forward(ctx context.Context, inputs map[string]string) (predict.Prediction, error) {
	shots, err := demos.Retrieve(ctx, p.Store, inputs[InputField], p.K)
	if err != nil {
		return predict.Prediction{}, err
	}
	return p.Classifier.WithDemos(shots).Forward(ctx, inputs)
}

// Classify labels a single review.
func (p *Pipeline) Classify(ctx context.Context, review string) (string, error) {
	pred, err := p.Forward(ctx, map[string]string{InputField: review})
	if err != nil {
		return "", err
	}
	return pred.Get(LabelField), nil
}

// Evaluate predicts every test example, prints the results table to w and
// returns the accuracy.
func (p *Pipeline) Evaluate(ctx context.Context, w io.Writer, test []dataset.Example) float64 {
	results := evaluate.Run(ctx, p, test, evaluate.Match(LabelField))
	return evaluate.PrintTable(w, results, InputField, LabelField)
}

// Interactive reads one review per line from in until "quit" or EOF.
func (p *Pipeline) Interactive(ctx context.Context, in io.Reader, out io.Writer) error {
	log := structuredqa.Logger
	fmt.Fprintln(out, "\nInteractive Demo Mode")
	fmt.Fprintln(out, "Enter 'quit' to exit")

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "\nEnter a movie review: ")
		if !scanner.Scan() {
			return scanner.Err()
		}
		review := strings.TrimSpace(scanner.Text())
		if strings.EqualFold(review, "quit") {
			return nil
		}
		if review == "" {
			continue
		}
		log.Info("Processing user input", "review", review)
		label, err := p.Classify(ctx, review)
		if err != nil {
			return err
		}
		log.Info("Prediction result", "sentiment", label)
		fmt.Fprintf(out, "Predicted Sentiment: %s\n", label)
	}
}
