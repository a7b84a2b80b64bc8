package platforms

import (
	"context"
	"fmt"

	"github.com/ollama/ollama/api"
)

type OllamaPlatform struct {
	client *api.Client
	model  string
}

func NewOllamaPlatform(model string) (*OllamaPlatform, error) {
	if model == "" {
		return nil, fmt.Errorf("ollama platform: model is required")
	}

	client, err := api.ClientFromEnvironment()
	if err != nil {
		return nil, fmt.Errorf("failed to create ollama client: %w", err)
	}

	return &OllamaPlatform{
		client: client,
		model:  model,
	}, nil
}

func (o *OllamaPlatform) Client() *api.Client { return o.client }

func (o *OllamaPlatform) Generate(ctx context.Context, request *api.GenerateRequest, respFunc api.GenerateResponseFunc) error {
	request.Model = o.model
	return o.client.Generate(ctx, request, respFunc)
}
