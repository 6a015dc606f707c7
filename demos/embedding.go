package demos

import (
	"context"
	"fmt"

	be "github.com/megaproaktiv/bedrockembedding/titan"
	"github.com/philippgille/chromem-go"
)

// Dimensions of both supported embedding models.
const Dimensions = 1536

// EmbeddingFunc turns text into a vector.
type EmbeddingFunc = chromem.EmbeddingFunc

// TitanEmbedding embeds through Amazon Titan on Bedrock.
func TitanEmbedding(ctx context.Context, text string) ([]float32, error) {
	return be.FetchEmbedding(text)
}

// NewEmbeddingFunc selects "titan" or "openai" (text-embedding-3-small).
func NewEmbeddingFunc(provider, openAIKey string) (EmbeddingFunc, error) {
	switch provider {
	case "", "titan":
		return TitanEmbedding, nil
	case "openai":
		if openAIKey == "" {
			return nil, fmt.Errorf("openai embeddings: API key not set")
		}
		return chromem.NewEmbeddingFuncOpenAI(openAIKey, chromem.EmbeddingModelOpenAI3Small), nil
	default:
		return nil, fmt.Errorf("unknown embedding provider %q", provider)
	}
}
