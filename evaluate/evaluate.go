// Package evaluate scores module predictions against labeled examples.
package evaluate

import (
	"context"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"structuredqa"
	"structuredqa/dataset"
	"structuredqa/predict"
	"structuredqa/signature"
)

const (
	inputWidth = 50
	labelWidth = 10
	ruleWidth  = 80
)

// Metric reports whether a prediction is correct for an example.
type Metric func(example dataset.Example, pred predict.Prediction) bool

// Match compares field on both sides, ignoring case and surrounding space.
func Match(field string) Metric {
	return func(example dataset.Example, pred predict.Prediction) bool {
		want := strings.TrimSpace(example.Get(field))
		got := strings.TrimSpace(pred.Get(field))
		return want != "" && strings.EqualFold(want, got)
	}
}

// Result is the outcome for one example. Err is set when the prediction
// itself failed.
type Result struct {
	Example    dataset.Example
	Prediction predict.Prediction
	Correct    bool
	Err        error
}

// Run predicts every example in order. A failed prediction is logged and
// counted as incorrect.
func Run(ctx context.Context, module predict.Module, examples []dataset.Example, metric Metric) []Result {
	log := structuredqa.Logger
	results := make([]Result, 0, len(examples))
	for i, example := range examples {
		if err := ctx.Err(); err != nil {
			results = append(results, Result{Example: example, Err: err})
			continue
		}
		pred, err := module.Forward(ctx, example.InputValues())
		if err != nil {
			log.Error("Prediction failed", "example", i, "error", err)
			results = append(results, Result{Example: example, Err: err})
			continue
		}
		results = append(results, Result{
			Example:    example,
			Prediction: pred,
			Correct:    metric(example, pred),
		})
	}
	return results
}

// Accuracy is correct/total, or 0 without results.
func Accuracy(results []Result) float64 {
	if len(results) == 0 {
		return 0
	}
	correct := 0
	for _, r := range results {
		if r.Correct {
			correct++
		}
	}
	return float64(correct) / float64(len(results))
}

// Percent formats a ratio as "85.00%".
func Percent(ratio float64) string {
	return fmt.Sprintf("%.2f%%", ratio*100)
}

// PrintTable writes one row per result and returns the accuracy.
func PrintTable(w io.Writer, results []Result, inputField, labelField string) float64 {
	rule := strings.Repeat("-", ruleWidth)
	correct := 0

	fmt.Fprintln(w, "\nEvaluation Results:")
	fmt.Fprintln(w, rule)
	fmt.Fprintf(w, "%-*s | %-*s | %-*s\n",
		inputWidth, signature.Label(inputField), labelWidth, "Expected", labelWidth, "Predicted")
	fmt.Fprintln(w, rule)

	for _, r := range results {
		mark := "✗"
		if r.Correct {
			correct++
			mark = "✓"
		}
		// unstructured replies may span lines
		predicted := strings.Join(strings.Fields(r.Prediction.Get(labelField)), " ")
		if r.Err != nil {
			predicted = "<error>"
		}
		fmt.Fprintf(w, "%s | %s | %s %s\n",
			pad(truncate(r.Example.Get(inputField), inputWidth-3), inputWidth),
			pad(r.Example.Get(labelField), labelWidth),
			pad(predicted, labelWidth),
			mark)
	}

	accuracy := Accuracy(results)
	fmt.Fprintln(w, rule)
	fmt.Fprintf(w, "Accuracy: %d/%d (%s)\n", correct, len(results), Percent(accuracy))
	return accuracy
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n]) + "..."
}

// pad counts runes so the check marks and accents keep columns aligned.
func pad(s string, width int) string {
	if n := utf8.RuneCountInString(s); n < width {
		return s + strings.Repeat(" ", width-n)
	}
	return s
}
