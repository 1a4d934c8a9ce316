package video

import (
	"context"

	"github.com/sahilahmad48178-star/AI-image/internal/providers/genai"
)

// GenerateRequest describes a normalized request passed to any video provider.
type GenerateRequest struct {
	Prompt    string
	RequestID string
}

// Asset represents a generated video.
type Asset struct {
	StorageKey string
	URL        string
	Format     string
	Length     int
	Data       []byte
}

// Generator is the contract implemented by all video providers.
type Generator interface {
	Generate(ctx context.Context, req GenerateRequest) (*Asset, error)
}

// GeminiGenerator adapts the genai client to the Generator contract.
type GeminiGenerator struct {
	client *genai.Client
}

func NewGeminiGenerator(client *genai.Client) *GeminiGenerator {
	return &GeminiGenerator{client: client}
}

func (g *GeminiGenerator) Generate(ctx context.Context, req GenerateRequest) (*Asset, error) {
	asset, err := g.client.GenerateVideo(ctx, genai.VideoRequest{
		Prompt:    req.Prompt,
		RequestID: req.RequestID,
	})
	if err != nil {
		return nil, err
	}
	return &Asset{
		StorageKey: asset.StorageKey,
		URL:        asset.URL,
		Format:     asset.Format,
		Length:     asset.Length,
		Data:       asset.Data,
	}, nil
}

var _ Generator = (*GeminiGenerator)(nil)
