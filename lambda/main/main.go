package main

import (
	"context"
	"log"

	"github.com/aws/aws-lambda-go/lambda"

	re "structuredqa"
	"structuredqa/config"
	"structuredqa/lm"
	"structuredqa/qa"
)

var invoker *qa.Invoker

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("unable to load config, %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config, %v", err)
	}
	model, err := lm.New(context.Background(), cfg.LM(lm.LogCallback{}))
	if err != nil {
		log.Fatalf("unable to configure model, %v", err)
	}
	invoker, err = qa.New(model)
	if err != nil {
		log.Fatalf("unable to build invoker, %v", err)
	}
	lambda.Start(Handler)
}

func Handler(ctx context.Context, event re.QueryRequest) (re.Response, error) {
	return invoker.Ask(ctx, event.Question)
}
