package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/lambda"

	"structuredqa"
)

func main() {
	questionPtr := flag.String("question", "", "The question to ask the Lambda function")
	function := flag.String("function", "structuredqa", "Name of the deployed Lambda function")
	verbose := flag.Bool("verbose", false, "Show reasoning also")
	flag.Parse()

	if *questionPtr == "" {
		log.Fatalf("question parameter is required")
	}

	cfg, err := config.LoadDefaultConfig(context.TODO())
	if err != nil {
		log.Fatalf("unable to load SDK config, %v", err)
	}
	client := lambda.NewFromConfig(cfg)

	payloadBytes, err := json.Marshal(structuredqa.QueryRequest{Question: *questionPtr})
	if err != nil {
		log.Fatalf("failed to marshal payload, %v", err)
	}

	result, err := client.Invoke(context.TODO(), &lambda.InvokeInput{
		FunctionName: aws.String(*function),
		Payload:      payloadBytes,
	})
	if err != nil {
		log.Fatalf("failed to invoke lambda function, %v", err)
	}
	if result.FunctionError != nil {
		log.Fatalf("lambda function returned an error: %s: %s", aws.ToString(result.FunctionError), string(result.Payload))
	}

	var response structuredqa.Response
	if err := json.Unmarshal(result.Payload, &response); err != nil {
		log.Fatalf("failed to unmarshal response payload, %v", err)
	}

	if *verbose && response.Reasoning != "" {
		fmt.Println("Reasoning:", response.Reasoning)
	}
	fmt.Println("Answer:", response.Answer)
}
