// Package render prints predictions for a terminal.
package render

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"structuredqa"
	"structuredqa/predict"
	"structuredqa/signature"
)

var md = goldmark.New()

// Flattened names the fields whose values are markdown prose. Every other
// field is printed as the model wrote it, trimmed.
var Flattened = map[string]bool{"reasoning": true}

// PlainText flattens markdown: emphasis and code markers are dropped,
// soft line breaks become spaces and blocks end with a newline. Raw HTML,
// list markers and emphasis inside a word or number are kept.
func PlainText(source string) string {
	src := []byte(source)
	doc := md.Parser().Parse(text.NewReader(src))

	var buf bytes.Buffer
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if e, ok := n.(*ast.Emphasis); ok {
			if marker, inWord := intraword(e, src); inWord {
				buf.WriteString(marker)
			}
			return ast.WalkContinue, nil
		}
		if !entering {
			if n.Type() == ast.TypeBlock && buf.Len() > 0 && !bytes.HasSuffix(buf.Bytes(), []byte("\n")) {
				buf.Truncate(len(bytes.TrimRight(buf.Bytes(), " ")))
				buf.WriteByte('\n')
			}
			return ast.WalkContinue, nil
		}
		switch n := n.(type) {
		case *ast.Text:
			buf.Write(n.Segment.Value(src))
			if n.HardLineBreak() {
				buf.WriteByte('\n')
			} else if n.SoftLineBreak() {
				buf.WriteByte(' ')
			}
		case *ast.String:
			buf.Write(n.Value)
		case *ast.AutoLink:
			buf.Write(n.Label(src))
		case *ast.RawHTML:
			for i := 0; i < n.Segments.Len(); i++ {
				segment := n.Segments.At(i)
				buf.Write(segment.Value(src))
			}
		case *ast.ListItem:
			buf.WriteString(listMarker(n))
		case *ast.HTMLBlock:
			writeLines(&buf, n, src)
			if n.HasClosure() {
				buf.Write(n.ClosureLine.Value(src))
			}
			return ast.WalkSkipChildren, nil
		case *ast.FencedCodeBlock, *ast.CodeBlock:
			writeLines(&buf, n, src)
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	return strings.TrimSpace(buf.String())
}

func writeLines(buf *bytes.Buffer, n ast.Node, src []byte) {
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		line := lines.At(i)
		buf.Write(line.Value(src))
	}
}

// intraword reports the delimiter run of e when it touches a letter or
// digit on either side, as in 2*3*4 or snake_case_name.
func intraword(e *ast.Emphasis, src []byte) (string, bool) {
	first, ok := e.FirstChild().(*ast.Text)
	if !ok {
		return "", false
	}
	last, ok := e.LastChild().(*ast.Text)
	if !ok {
		return "", false
	}
	open := first.Segment.Start - e.Level
	closing := last.Segment.Stop + e.Level
	if open < 0 || closing > len(src) {
		return "", false
	}
	marker := string(src[open:first.Segment.Start])
	if strings.Trim(marker, "*_") != "" || string(src[last.Segment.Stop:closing]) != marker {
		return "", false
	}
	before := open > 0 && isWordByte(src[open-1])
	after := closing < len(src) && isWordByte(src[closing])
	return marker, before || after
}

func isWordByte(b byte) bool {
	return b >= '0' && b <= '9' || b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z'
}

func listMarker(item *ast.ListItem) string {
	list, ok := item.Parent().(*ast.List)
	if !ok {
		return ""
	}
	if !list.IsOrdered() {
		return string(list.Marker) + " "
	}
	index := 0
	for sib := item.PreviousSibling(); sib != nil; sib = sib.PreviousSibling() {
		index++
	}
	return fmt.Sprintf("%d%c ", list.Start+index, list.Marker)
}

// Prediction writes "Label: value" for each field, in the given order or
// in the prediction's own order when none are given.
func Prediction(w io.Writer, pred predict.Prediction, fields ...string) error {
	if len(fields) == 0 {
		fields = pred.Fields()
	}
	for _, name := range fields {
		value := strings.TrimSpace(pred.Get(name))
		if value == "" {
			continue
		}
		if Flattened[name] {
			value = PlainText(value)
		}
		if _, err := fmt.Fprintf(w, "%s: %s\n", signature.Label(name), value); err != nil {
			return err
		}
	}
	return nil
}

// Response writes the question, the reasoning when present and the answer.
func Response(w io.Writer, question string, resp structuredqa.Response) error {
	fields := []string{"question"}
	values := map[string]string{"question": question, "answer": resp.Answer}
	if resp.Reasoning != "" {
		fields = append(fields, "reasoning")
		values["reasoning"] = resp.Reasoning
	}
	fields = append(fields, "answer")
	return Prediction(w, predict.NewPrediction(fields, values))
}
