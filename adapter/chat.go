// Package adapter renders a signature and its values into chat messages and
// parses model completions back into output fields.
package adapter

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"text/template"

	"structuredqa/lm"
	"structuredqa/signature"
)

var ErrMissingField = errors.New("missing output field")

//go:embed templates/*.tmpl
var templateFS embed.FS

var templates = template.Must(template.New("adapter").
	Funcs(template.FuncMap{"inc": func(i int) int { return i + 1 }}).
	ParseFS(templateFS, "templates/*.tmpl"))

var header = regexp.MustCompile(`\[\[ ## (\w+) ## \]\]`)

type fieldValue struct {
	Name  string
	Value string
}

type fieldsData struct {
	Fields    []fieldValue
	Completed bool
	Outputs   string
}

// Format builds the system message, one user/assistant pair per demo and
// the final user message carrying inputs.
func Format(sig signature.Signature, demos []map[string]string, inputs map[string]string) ([]lm.Message, error) {
	system, err := render("system.tmpl", sig)
	if err != nil {
		return nil, err
	}
	messages := []lm.Message{{Role: lm.RoleSystem, Content: system}}

	for _, demo := range demos {
		in, complete := values(sig.Inputs, demo)
		out, outComplete := values(sig.Outputs, demo)
		if !complete || !outComplete {
			continue
		}
		user, err := render("fields.tmpl", fieldsData{Fields: in})
		if err != nil {
			return nil, err
		}
		assistant, err := render("fields.tmpl", fieldsData{Fields: out, Completed: true})
		if err != nil {
			return nil, err
		}
		messages = append(messages,
			lm.Message{Role: lm.RoleUser, Content: user},
			lm.Message{Role: lm.RoleAssistant, Content: assistant})
	}

	in, complete := values(sig.Inputs, inputs)
	if !complete {
		return nil, fmt.Errorf("missing input fields: want %s, got %d values", strings.Join(sig.InputNames(), ", "), len(inputs))
	}
	user, err := render("fields.tmpl", fieldsData{Fields: in, Outputs: outputList(sig)})
	if err != nil {
		return nil, err
	}
	return append(messages, lm.Message{Role: lm.RoleUser, Content: user}), nil
}

// Parse extracts the signature's output fields from a completion. Sections
// not declared as outputs are ignored; the first occurrence of a field wins.
func Parse(sig signature.Signature, completion string) (map[string]string, error) {
	out := map[string]string{}
	locs := header.FindAllStringSubmatchIndex(completion, -1)

	if len(locs) == 0 && len(sig.Outputs) == 1 {
		// unstructured reply to a single-output signature
		if text := strings.TrimSpace(completion); text != "" {
			out[sig.Outputs[0].Name] = text
		}
	}
	for i, loc := range locs {
		name := completion[loc[2]:loc[3]]
		end := len(completion)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}
		if _, ok := sig.Output(name); !ok {
			continue
		}
		if _, seen := out[name]; seen {
			continue
		}
		out[name] = strings.TrimSpace(completion[loc[1]:end])
	}

	var missing []string
	for _, f := range sig.Outputs {
		if out[f.Name] == "" {
			missing = append(missing, f.Name)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingField, strings.Join(missing, ", "))
	}
	return out, nil
}

func values(fields []signature.Field, from map[string]string) ([]fieldValue, bool) {
	out := make([]fieldValue, 0, len(fields))
	for _, f := range fields {
		v, ok := from[f.Name]
		if !ok {
			return nil, false
		}
		out = append(out, fieldValue{Name: f.Name, Value: v})
	}
	return out, true
}

func outputList(sig signature.Signature) string {
	names := make([]string, len(sig.Outputs))
	for i, f := range sig.Outputs {
		names[i] = "`[[ ## " + f.Name + " ## ]]`"
	}
	return strings.Join(names, ", then ")
}

func render(name string, data any) (string, error) {
	var buffer bytes.Buffer
	if err := templates.ExecuteTemplate(&buffer, name, data); err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	return strings.TrimSpace(buffer.String()), nil
}
