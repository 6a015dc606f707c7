package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"structuredqa"
	"structuredqa/config"
	"structuredqa/dataset"
	"structuredqa/demos"
	"structuredqa/evaluate"
	"structuredqa/lm"
	"structuredqa/sentiment"
)

func main() {
	dataDir := flag.String("data", "data", "Directory holding train_reviews.json and test_reviews.json")
	k := flag.Int("demos", 0, "Number of nearest training reviews shown to the model")
	index := flag.String("index", "", "chromem database exported by demos/main; built in memory when empty")
	interactive := flag.Bool("interactive", false, "Classify reviews typed on stdin after the evaluation")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("unable to load config, %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config, %v", err)
	}
	if cfg.LogFile == "" {
		cfg.LogFile = "prompts.log"
	}
	f, err := structuredqa.LogToFile(cfg.LogFile)
	if err != nil {
		log.Fatalf("unable to open log file, %v", err)
	}
	defer f.Close()
	fmt.Println("Prompt logging has been enabled - check logs for details")

	ctx := context.Background()
	fmt.Printf("Configuring %s model...\n", cfg.Model)
	model, err := lm.New(ctx, cfg.LM(lm.LogCallback{}))
	if err != nil {
		log.Fatalf("unable to configure model, %v", err)
	}

	train, err := dataset.Load(filepath.Join(*dataDir, "train_reviews.json"), sentiment.InputField)
	if err != nil {
		log.Fatalf("Error: %v", err)
	}
	test, err := dataset.Load(filepath.Join(*dataDir, "test_reviews.json"), sentiment.InputField)
	if err != nil {
		log.Fatalf("Error: %v", err)
	}
	fmt.Printf("Loaded %d training examples and %d test examples\n", len(train), len(test))

	var store demos.Store
	if *k > 0 {
		store, err = openStore(ctx, cfg, *index, train)
		if err != nil {
			log.Fatalf("unable to prepare demos, %v", err)
		}
	}
	pipeline := sentiment.New(model, store, *k)

	fmt.Println("Testing LM logging with a simple call...")
	smoke, err := pipeline.Smoke(ctx)
	if err != nil {
		log.Fatalf("Error: %v", err)
	}
	fmt.Printf("Test response: %s\n", smoke)

	fmt.Println("\nRunning predictions on test examples...")
	accuracy := pipeline.Evaluate(ctx, os.Stdout, test)
	fmt.Printf("Overall Accuracy: %s\n", evaluate.Percent(accuracy))

	if *interactive {
		if err := pipeline.Interactive(ctx, os.Stdin, os.Stdout); err != nil {
			log.Fatalf("Error: %v", err)
		}
	}
	fmt.Println("\nSentiment analysis demo completed successfully!")
}

func openStore(ctx context.Context, cfg config.Config, index string, train []dataset.Example) (demos.Store, error) {
	embed, err := demos.NewEmbeddingFunc(cfg.Embedding, cfg.APIKey)
	if err != nil {
		return nil, err
	}
	var store *demos.ChromemStore
	if index != "" {
		store, err = demos.LoadChromemStore(index, embed)
		if err != nil {
			return nil, err
		}
		return store, nil
	}
	store, err = demos.NewChromemStore(embed)
	if err != nil {
		return nil, err
	}
	if err := store.Add(ctx, train); err != nil {
		return nil, err
	}
	return store, nil
}
