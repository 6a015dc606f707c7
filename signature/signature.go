// Package signature describes the named input and output fields of a
// model call.
package signature

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var ErrInvalidSignature = errors.New("invalid signature")

var fieldName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Field is one named slot of a signature.
type Field struct {
	Name   string
	Desc   string
	Prefix string
}

// Signature is an immutable description of a model call.
type Signature struct {
	Name         string
	Instructions string
	Inputs       []Field
	Outputs      []Field
}

var QuestionAnswer = MustNew(
	"QuestionAnswer",
	"Answer questions with short factoid answers.",
	[]Field{{Name: "question"}},
	[]Field{{Name: "answer", Desc: "often between 1 and 5 words"}},
)

var SentimentAnalysis = MustNew(
	"SentimentAnalysis",
	"Classify the sentiment of a movie review.",
	[]Field{{Name: "review", Desc: "A movie review text"}},
	[]Field{{Name: "sentiment", Desc: "Positive, Negative, or Mixed"}},
)

// New validates the fields and returns a Signature. Empty instructions
// are replaced by a sentence naming the fields.
func New(name, instructions string, inputs, outputs []Field) (Signature, error) {
	if len(inputs) == 0 {
		return Signature{}, fmt.Errorf("%w: no input fields", ErrInvalidSignature)
	}
	if len(outputs) == 0 {
		return Signature{}, fmt.Errorf("%w: no output fields", ErrInvalidSignature)
	}
	sig := Signature{
		Name:    name,
		Inputs:  normalize(inputs),
		Outputs: normalize(outputs),
	}
	if err := sig.check(); err != nil {
		return Signature{}, err
	}
	if strings.TrimSpace(instructions) == "" {
		instructions = fmt.Sprintf("Given the fields %s, produce the fields %s.",
			quoted(sig.InputNames()), quoted(sig.OutputNames()))
	}
	sig.Instructions = instructions
	if sig.Name == "" {
		sig.Name = "StringSignature"
	}
	return sig, nil
}

// MustNew is New for package-level signatures; it panics on error.
func MustNew(name, instructions string, inputs, outputs []Field) Signature {
	sig, err := New(name, instructions, inputs, outputs)
	if err != nil {
		panic(err)
	}
	return sig
}

// Parse builds a signature from the shorthand "question, context -> answer".
func Parse(spec string) (Signature, error) {
	left, right, ok := strings.Cut(spec, "->")
	if !ok {
		return Signature{}, fmt.Errorf("%w: %q has no \"->\"", ErrInvalidSignature, spec)
	}
	return New("", "", splitFields(left), splitFields(right))
}

func splitFields(s string) []Field {
	var fields []Field
	for _, part := range strings.Split(s, ",") {
		if name := strings.TrimSpace(part); name != "" {
			fields = append(fields, Field{Name: name})
		}
	}
	return fields
}

// WithInstructions returns a copy with new instructions.
func (s Signature) WithInstructions(instructions string) Signature {
	out := s.clone()
	out.Instructions = instructions
	return out
}

// Prepend returns a copy with f placed before the existing outputs.
func (s Signature) Prepend(f Field) (Signature, error) {
	out := s.clone()
	out.Outputs = append(normalize([]Field{f}), out.Outputs...)
	if err := out.check(); err != nil {
		return Signature{}, err
	}
	return out, nil
}

// Append returns a copy with f placed after the existing outputs.
func (s Signature) Append(f Field) (Signature, error) {
	out := s.clone()
	out.Outputs = append(out.Outputs, normalize([]Field{f})...)
	if err := out.check(); err != nil {
		return Signature{}, err
	}
	return out, nil
}

func (s Signature) InputNames() []string {
	return names(s.Inputs)
}

func (s Signature) OutputNames() []string {
	return names(s.Outputs)
}

// Output looks up an output field by name.
func (s Signature) Output(name string) (Field, bool) {
	for _, f := range s.Outputs {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

func (s Signature) String() string {
	return strings.Join(s.InputNames(), ", ") + " -> " + strings.Join(s.OutputNames(), ", ")
}

func (s Signature) clone() Signature {
	out := s
	out.Inputs = append([]Field(nil), s.Inputs...)
	out.Outputs = append([]Field(nil), s.Outputs...)
	return out
}

func (s Signature) check() error {
	seen := map[string]bool{}
	for _, f := range append(append([]Field(nil), s.Inputs...), s.Outputs...) {
		if !fieldName.MatchString(f.Name) {
			return fmt.Errorf("%w: bad field name %q", ErrInvalidSignature, f.Name)
		}
		if seen[f.Name] {
			return fmt.Errorf("%w: duplicate field %q", ErrInvalidSignature, f.Name)
		}
		seen[f.Name] = true
	}
	return nil
}

// Label turns a field name such as "movie_review" into "Movie Review".
func Label(name string) string {
	words := strings.Fields(strings.ReplaceAll(name, "_", " "))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

func normalize(fields []Field) []Field {
	out := make([]Field, len(fields))
	for i, f := range fields {
		f.Name = strings.TrimSpace(f.Name)
		if f.Prefix == "" && f.Name != "" {
			f.Prefix = Label(f.Name)
		}
		out[i] = f
	}
	return out
}

func names(fields []Field) []string {
	out := make([]string, len(fields))
	for i, f := range fields {
		out[i] = f.Name
	}
	return out
}

func quoted(names []string) string {
	q := make([]string, len(names))
	for i, n := range names {
		q[i] = "`" + n + "`"
	}
	return strings.Join(q, ", ")
}
