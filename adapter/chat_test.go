package adapter

import (
	"errors"
	"strings"
	"testing"

	"gotest.tools/v3/assert"

	"structuredqa/lm"
	"structuredqa/signature"
)

func TestFormat(t *testing.T) {
	sig, err := signature.QuestionAnswer.Prepend(signature.Field{Name: "reasoning"})
	assert.NilError(t, err)

	msgs, err := Format(sig, nil, map[string]string{"question": "What is the capital of France?"})
	assert.NilError(t, err)
	assert.Equal(t, len(msgs), 2)

	system := msgs[0]
	assert.Equal(t, system.Role, lm.RoleSystem)
	assert.Assert(t, strings.Contains(system.Content, "1. `question`"))
	assert.Assert(t, strings.Contains(system.Content, "2. `answer`: often between 1 and 5 words"))
	assert.Assert(t, strings.Contains(system.Content, "[[ ## reasoning ## ]]\n{reasoning}"))
	assert.Assert(t, strings.HasSuffix(system.Content, "Answer questions with short factoid answers."))

	user := msgs[1]
	assert.Equal(t, user.Role, lm.RoleUser)
	assert.Assert(t, strings.HasPrefix(user.Content, "[[ ## question ## ]]\nWhat is the capital of France?"))
	assert.Assert(t, strings.Contains(user.Content,
		"starting with the field `[[ ## reasoning ## ]]`, then `[[ ## answer ## ]]`, and then ending"))
}

func TestFormatDemos(t *testing.T) {
	demos := []map[string]string{
		{"review": "Loved it.", "sentiment": "Positive"},
		{"review": "no label"},
	}
	msgs, err := Format(signature.SentimentAnalysis, demos, map[string]string{"review": "Dull."})
	assert.NilError(t, err)
	assert.Equal(t, len(msgs), 4)
	assert.Equal(t, msgs[1].Role, lm.RoleUser)
	assert.Equal(t, msgs[1].Content, "[[ ## review ## ]]\nLoved it.")
	assert.Equal(t, msgs[2].Role, lm.RoleAssistant)
	assert.Equal(t, msgs[2].Content, "[[ ## sentiment ## ]]\nPositive\n\n[[ ## completed ## ]]")
}

func TestFormatMissingInput(t *testing.T) {
	_, err := Format(signature.SentimentAnalysis, nil, map[string]string{"text": "x"})
	assert.ErrorContains(t, err, "missing input fields")
}

func TestParse(t *testing.T) {
	sig, err := signature.QuestionAnswer.Prepend(signature.Field{Name: "reasoning"})
	assert.NilError(t, err)

	tests := []struct {
		name       string
		sig        signature.Signature
		completion string
		want       map[string]string
		wantErr    error
	}{
		{
			name:       "all fields",
			sig:        sig,
			completion: "[[ ## reasoning ## ]]\nFrance's capital city is Paris.\n\n[[ ## answer ## ]]\nParis\n\n[[ ## completed ## ]]",
			want:       map[string]string{"reasoning": "France's capital city is Paris.", "answer": "Paris"},
		},
		{
			name:       "unknown section ignored",
			sig:        signature.QuestionAnswer,
			completion: "[[ ## notes ## ]]\nscratch\n[[ ## answer ## ]]\nParis",
			want:       map[string]string{"answer": "Paris"},
		},
		{
			name:       "missing field",
			sig:        sig,
			completion: "[[ ## answer ## ]]\nParis",
			wantErr:    ErrMissingField,
		},
		{
			name:       "empty field",
			sig:        signature.QuestionAnswer,
			completion: "[[ ## answer ## ]]\n\n[[ ## completed ## ]]",
			wantErr:    ErrMissingField,
		},
		{
			name:       "plain text for single output",
			sig:        signature.QuestionAnswer,
			completion: "  Paris\n",
			want:       map[string]string{"answer": "Paris"},
		},
		{
			name:       "plain text for two outputs",
			sig:        sig,
			completion: "Paris",
			wantErr:    ErrMissingField,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.sig, tt.completion)
			if tt.wantErr != nil {
				assert.Assert(t, errors.Is(err, tt.wantErr))
				return
			}
			assert.NilError(t, err)
			assert.DeepEqual(t, got, tt.want)
		})
	}
}
