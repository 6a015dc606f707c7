package demos

import (
	"context"
	"fmt"
	"runtime"
	"strconv"
	"strings"

	"github.com/philippgille/chromem-go"

	"structuredqa"
	"structuredqa/dataset"
)

const (
	CollectionName = "demos"
	inputsKey      = "inputs"
	fieldPrefix    = "field:"
)

// ChromemStore keeps examples in an in-memory chromem-go database that can
// be exported to and imported from a gob file.
type ChromemStore struct {
	db         *chromem.DB
	collection *chromem.Collection
}

// NewChromemStore creates an empty store.
func NewChromemStore(embed EmbeddingFunc) (*ChromemStore, error) {
	log := structuredqa.Logger
	db := chromem.NewDB()
	collection, err := db.CreateCollection(CollectionName, nil, embed)
	if err != nil {
		log.Error("Error creating collection", "error", err)
		return nil, err
	}
	return &ChromemStore{db: db, collection: collection}, nil
}

// LoadChromemStore imports a store written by Export.
func LoadChromemStore(path string, embed EmbeddingFunc) (*ChromemStore, error) {
	log := structuredqa.Logger
	db := chromem.NewDB()
	if err := db.Import(path, ""); err != nil {
		log.Error("Error loading collection", "error", err, "path", path)
		return nil, err
	}
	collection := db.GetCollection(CollectionName, embed)
	if collection == nil {
		return nil, fmt.Errorf("%s: no %q collection", path, CollectionName)
	}
	return &ChromemStore{db: db, collection: collection}, nil
}

// Export writes the database to path.
func (s *ChromemStore) Export(path string) error {
	structuredqa.Logger.Info("Storing Database", "path", path)
	return s.db.Export(path, false, "")
}

func (s *ChromemStore) Count() int {
	return s.collection.Count()
}

// Add embeds and stores examples. IDs continue from the current count so
// earlier documents are not overwritten.
func (s *ChromemStore) Add(ctx context.Context, examples []dataset.Example) error {
	base := s.collection.Count()
	docs := make([]chromem.Document, 0, len(examples))
	for i, e := range examples {
		metadata := map[string]string{inputsKey: strings.Join(e.Inputs, ",")}
		for k, v := range e.Fields {
			metadata[fieldPrefix+k] = v
		}
		docs = append(docs, chromem.Document{
			ID:       strconv.Itoa(base + i),
			Content:  Content(e),
			Metadata: metadata,
		})
	}
	if len(docs) == 0 {
		return nil
	}
	structuredqa.Logger.Info("Adding documents into chromem", "count", len(docs))
	return s.collection.AddDocuments(ctx, docs, runtime.NumCPU())
}

// Nearest returns up to k examples ordered by similarity.
func (s *ChromemStore) Nearest(ctx context.Context, text string, k int) ([]dataset.Example, error) {
	n := min(k, s.collection.Count())
	if n <= 0 {
		return nil, nil
	}
	res, err := s.collection.Query(ctx, text, n, nil, nil)
	if err != nil {
		return nil, err
	}
	out := make([]dataset.Example, 0, len(res))
	for _, r := range res {
		structuredqa.Logger.Debug("Found", "id", r.ID, "similarity", r.Similarity)
		out = append(out, fromMetadata(r.Metadata))
	}
	return out, nil
}

func fromMetadata(metadata map[string]string) dataset.Example {
	fields := map[string]string{}
	for k, v := range metadata {
		if name, ok := strings.CutPrefix(k, fieldPrefix); ok {
			fields[name] = v
		}
	}
	var inputs []string
	if raw := metadata[inputsKey]; raw != "" {
		inputs = strings.Split(raw, ",")
	}
	return dataset.NewExample(fields, inputs...)
}
