package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"

	"structuredqa"
	"structuredqa/config"
	"structuredqa/lm"
	"structuredqa/qa"
	"structuredqa/render"
)

func main() {
	if err := run(context.Background(), os.Stdout); err != nil {
		log.Fatalf("%v", err)
	}
}

// run asks qa.DemoQuestion once. Nothing is written to stdout unless the
// answer arrives.
func run(ctx context.Context, stdout io.Writer) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("unable to load config, %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config, %w", err)
	}
	if cfg.LogFile != "" {
		f, err := structuredqa.LogToFile(cfg.LogFile)
		if err != nil {
			return fmt.Errorf("unable to open log file, %w", err)
		}
		defer f.Close()
	}

	model, err := lm.New(ctx, cfg.LM(lm.LogCallback{}))
	if err != nil {
		return fmt.Errorf("unable to configure model, %w", err)
	}
	invoker, err := qa.New(model)
	if err != nil {
		return fmt.Errorf("unable to build invoker, %w", err)
	}

	resp, err := invoker.Ask(ctx, qa.DemoQuestion)
	if err != nil {
		return fmt.Errorf("failed to answer question, %w", err)
	}
	if err := render.Response(stdout, qa.DemoQuestion, resp); err != nil {
		return fmt.Errorf("failed to print response, %w", err)
	}
	return nil
}
