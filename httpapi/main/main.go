package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	ginadapter "github.com/awslabs/aws-lambda-go-api-proxy/gin"
	"github.com/gin-gonic/gin"

	"structuredqa"
	"structuredqa/config"
	"structuredqa/httpapi"
	"structuredqa/lm"
	"structuredqa/qa"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("unable to load config, %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config, %v", err)
	}

	ctx := context.Background()
	model, err := lm.New(ctx, cfg.LM(lm.LogCallback{}))
	if err != nil {
		log.Fatalf("unable to configure model, %v", err)
	}
	invoker, err := qa.New(model)
	if err != nil {
		log.Fatalf("unable to build invoker, %v", err)
	}

	gin.SetMode(gin.ReleaseMode)
	router := httpapi.NewRouter(invoker)

	// behind API Gateway the router is driven by lambda events
	if os.Getenv("AWS_LAMBDA_FUNCTION_NAME") != "" {
		ginLambda := ginadapter.New(router)
		lambda.Start(func(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
			return ginLambda.ProxyWithContext(ctx, req)
		})
		return
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	structuredqa.Logger.Info("Listening", "addr", addr, "model", model.Model())
	if err := router.Run(addr); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
