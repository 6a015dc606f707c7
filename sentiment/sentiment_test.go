package sentiment

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"gotest.tools/v3/assert"

	"structuredqa/dataset"
	"structuredqa/lm"
)

// keywordLM answers like a model that has learned a few keywords.
type keywordLM struct {
	calls    int
	lastSeen []lm.Message
}

func (k *keywordLM) Call(ctx context.Context, messages []lm.Message) (string, error) {
	k.calls++
	k.lastSeen = messages
	last := messages[len(messages)-1].Content
	if last == SmokePrompt {
		return "4", nil
	}
	label := "Mixed"
	switch {
	case strings.Contains(last, "loved"):
		label = "Positive"
	case strings.Contains(last, "hated"):
		label = "Negative"
	case strings.Contains(last, "offline"):
		return "", errors.New("connection reset")
	}
	return "[[ ## sentiment ## ]]\n" + label + "\n\n[[ ## completed ## ]]", nil
}

func (k *keywordLM) Model() string { return "fake/keywords" }

type staticStore []dataset.Example

func (s staticStore) Add(ctx context.Context, examples []dataset.Example) error { return nil }

func (s staticStore) Nearest(ctx context.Context, text string, k int) ([]dataset.Example, error) {
	return s[:min(k, len(s))], nil
}

func TestSmoke(t *testing.T) {
	p := New(&keywordLM{}, nil, 0)
	out, err := p.Smoke(context.Background())
	assert.NilError(t, err)
	assert.Equal(t, out, "4")
}

func TestEvaluate(t *testing.T) {
	test := []dataset.Example{
		dataset.NewExample(map[string]string{"review": "I loved it.", "sentiment": "Positive"}, "review"),
		dataset.NewExample(map[string]string{"review": "I hated it.", "sentiment": "Negative"}, "review"),
		dataset.NewExample(map[string]string{"review": "I loved parts.", "sentiment": "Mixed"}, "review"),
		dataset.NewExample(map[string]string{"review": "offline", "sentiment": "Mixed"}, "review"),
	}
	model := &keywordLM{}
	var buf bytes.Buffer
	acc := New(model, nil, 0).Evaluate(context.Background(), &buf, test)
	assert.Equal(t, acc, 0.5)
	assert.Equal(t, model.calls, 4)
	assert.Assert(t, strings.Contains(buf.String(), "Accuracy: 2/4 (50.00%)"))
}

func TestForwardWithDemos(t *testing.T) {
	store := staticStore{
		dataset.NewExample(map[string]string{"review": "Pure joy.", "sentiment": "Positive"}, "review"),
		dataset.NewExample(map[string]string{"review": "A chore.", "sentiment": "Negative"}, "review"),
	}
	model := &keywordLM{}
	p := New(model, store, 1)

	label, err := p.Classify(context.Background(), "I loved the score.")
	assert.NilError(t, err)
	assert.Equal(t, label, "Positive")
	// system, one demo pair, the review
	assert.Equal(t, len(model.lastSeen), 4)
	assert.Assert(t, strings.Contains(model.lastSeen[1].Content, "Pure joy."))
	assert.Equal(t, len(p.Classifier.Demos), 0)
}

func TestInteractive(t *testing.T) {
	in := strings.NewReader("I loved it\n\nI hated it\nquit\nnever read\n")
	var out bytes.Buffer
	model := &keywordLM{}

	err := New(model, nil, 0).Interactive(context.Background(), in, &out)
	assert.NilError(t, err)
	assert.Equal(t, model.calls, 2)
	assert.Assert(t, strings.Contains(out.String(), "Predicted Sentiment: Positive"))
	assert.Assert(t, strings.Contains(out.String(), "Predicted Sentiment: Negative"))
}
