package main

import (
	"context"
	"flag"
	"os"
	"path/filepath"

	"github.com/jackc/pgx/v5"

	"structuredqa"
	"structuredqa/config"
	"structuredqa/dataset"
	"structuredqa/demos"
)

func main() {
	trainPath := flag.String("train", "data/train_reviews.json", "Labeled examples to index")
	input := flag.String("input", "review", "Input field of the examples")
	out := flag.String("out", "db-data/demos.gob", "chromem export path")
	postgres := flag.Bool("postgres", false, "Write to the demos table at DATABASE_URL instead")
	dropTable := flag.Bool("drop", false, "Recreate the demos table")
	flag.Parse()

	log := structuredqa.Logger
	cfg, err := config.Load()
	if err != nil {
		log.Error("unable to load config", "error", err)
		os.Exit(1)
	}
	embed, err := demos.NewEmbeddingFunc(cfg.Embedding, cfg.APIKey)
	if err != nil {
		log.Error("unable to select embeddings", "error", err)
		os.Exit(1)
	}
	examples, err := dataset.Load(*trainPath, *input)
	if err != nil {
		log.Error("unable to load examples", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()
	if *postgres {
		if err := indexPostgres(ctx, cfg.DatabaseURL, embed, examples, *dropTable); err != nil {
			log.Error("postgres import failed", "error", err)
			os.Exit(1)
		}
		log.Info("Indexed examples", "count", len(examples), "target", "postgres")
		return
	}

	store, err := demos.NewChromemStore(embed)
	if err != nil {
		log.Error("unable to create store", "error", err)
		os.Exit(1)
	}
	if err := store.Add(ctx, examples); err != nil {
		log.Error("unable to add examples", "error", err)
		os.Exit(1)
	}
	if err := os.MkdirAll(filepath.Dir(*out), 0o755); err != nil {
		log.Error("unable to create output directory", "error", err)
		os.Exit(1)
	}
	if err := store.Export(*out); err != nil {
		log.Error("unable to export", "error", err)
		os.Exit(1)
	}
	log.Info("Indexed examples", "count", store.Count(), "path", *out)
}

func indexPostgres(ctx context.Context, url string, embed demos.EmbeddingFunc, examples []dataset.Example, drop bool) error {
	conn, err := pgx.Connect(ctx, url)
	if err != nil {
		return err
	}
	defer conn.Close(ctx)
	store, err := demos.NewPostgresStore(ctx, conn, embed, drop)
	if err != nil {
		return err
	}
	return store.Add(ctx, examples)
}
