package lm

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"gotest.tools/v3/assert"
)

type fakeInvoker struct {
	input *bedrockruntime.InvokeModelInput
	body  string
	err   error
}

func (f *fakeInvoker) InvokeModel(ctx context.Context, params *bedrockruntime.InvokeModelInput, optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.InvokeModelOutput, error) {
	f.input = params
	if f.err != nil {
		return nil, f.err
	}
	return &bedrockruntime.InvokeModelOutput{Body: []byte(f.body)}, nil
}

func TestBedrockCall(t *testing.T) {
	fake := &fakeInvoker{body: `{"content":[{"type":"text","text":"Paris"}]}`}
	client := newBedrock(fake, Config{Model: "anthropic.claude-3-haiku-20240307-v1:0"})

	out, err := client.Call(context.Background(), []Message{
		{Role: RoleSystem, Content: "Answer briefly."},
		{Role: RoleUser, Content: "Capital of France?"},
	})
	assert.NilError(t, err)
	assert.Equal(t, out, "Paris")
	assert.Equal(t, aws.ToString(fake.input.ModelId), "anthropic.claude-3-haiku-20240307-v1:0")

	var sent anthropicRequest
	assert.NilError(t, json.Unmarshal(fake.input.Body, &sent))
	assert.Equal(t, sent.AnthropicVersion, anthropicVersion)
	assert.Equal(t, sent.System, "Answer briefly.")
	assert.Equal(t, sent.MaxTokens, DefaultMaxTokens)
	assert.DeepEqual(t, sent.Messages, []anthropicMessage{{Role: RoleUser, Content: "Capital of France?"}})
}

func TestBedrockFailures(t *testing.T) {
	tests := []struct {
		name string
		fake *fakeInvoker
	}{
		{name: "sdk error", fake: &fakeInvoker{err: errors.New("AccessDeniedException")}},
		{name: "malformed body", fake: &fakeInvoker{body: `not json`}},
		{name: "no text", fake: &fakeInvoker{body: `{"content":[]}`}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newBedrock(tt.fake, Config{Model: "m"})
			_, err := client.Call(context.Background(), []Message{{Role: RoleUser, Content: "hi"}})
			var perr *ProviderError
			assert.Assert(t, errors.As(err, &perr))
			assert.Equal(t, perr.Provider, "bedrock")
		})
	}
}
