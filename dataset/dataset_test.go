package dataset

import (
	"testing"

	"gotest.tools/v3/assert"
)

func TestLoadJSON(t *testing.T) {
	examples, err := Load("testdata/reviews.json", "review")
	assert.NilError(t, err)
	assert.Equal(t, len(examples), 3)

	e := examples[2]
	assert.Equal(t, e.Get("review"), `Great cast, "forgettable" plot.`)
	assert.Equal(t, e.Get("sentiment"), "Mixed")
	assert.DeepEqual(t, e.InputValues(), map[string]string{"review": `Great cast, "forgettable" plot.`})
	assert.DeepEqual(t, e.Labels(), []string{"sentiment"})
}

func TestLoadJSONEscapes(t *testing.T) {
	examples, err := Load("testdata/escapes.json", "review")
	assert.NilError(t, err)
	assert.Equal(t, len(examples), 1)

	e := examples[0]
	assert.Equal(t, e.Get("review"), "Worth it 10/10, café scene included 🎬")
	assert.Equal(t, e.Get("stars"), "5")
	assert.DeepEqual(t, e.Labels(), []string{"sentiment", "stars"})
}

func TestLoadYAML(t *testing.T) {
	examples, err := Load("testdata/reviews.yaml", "review")
	assert.NilError(t, err)
	assert.Equal(t, len(examples), 2)
	assert.Equal(t, examples[1].Get("stars"), "1")
	assert.DeepEqual(t, examples[1].Labels(), []string{"sentiment", "stars"})
}

func TestLoadErrors(t *testing.T) {
	_, err := Load("testdata/missing.json", "review")
	assert.ErrorContains(t, err, "data file not found: testdata/missing.json")

	_, err = Load("testdata/unlabeled.json", "review")
	assert.ErrorContains(t, err, `missing input field "review"`)
}

func TestNewExampleCopies(t *testing.T) {
	fields := map[string]string{"review": "Fine."}
	e := NewExample(fields, "review")
	fields["review"] = "changed"
	assert.Equal(t, e.Get("review"), "Fine.")
}
