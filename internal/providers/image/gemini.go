package image

import (
	"context"

	"github.com/sahilahmad48178-star/AI-image/internal/editor"
	"github.com/sahilahmad48178-star/AI-image/internal/providers/genai"
)

// GeminiGenerator adapts the genai client to the Generator contract.
type GeminiGenerator struct {
	client *genai.Client
}

func NewGeminiGenerator(client *genai.Client) *GeminiGenerator {
	return &GeminiGenerator{client: client}
}

func (g *GeminiGenerator) Generate(ctx context.Context, req GenerateRequest) ([]Asset, error) {
	assets, err := g.client.GenerateImages(ctx, genai.ImageRequest{
		Prompt:      req.Prompt,
		Negative:    req.Negative,
		Quantity:    req.Quantity,
		AspectRatio: req.AspectRatio,
		RequestID:   req.RequestID,
	})
	if err != nil {
		return nil, err
	}
	out := make([]Asset, len(assets))
	for i, asset := range assets {
		out[i] = Asset{
			StorageKey: asset.StorageKey,
			URL:        asset.URL,
			Format:     asset.Format,
			Width:      asset.Width,
			Height:     asset.Height,
			Data:       asset.Data,
		}
	}
	return out, nil
}

var _ Generator = (*GeminiGenerator)(nil)

// GeminiEditor exposes the genai edit and upscale calls to the editor
// session bridge.
type GeminiEditor struct {
	client *genai.Client
}

func NewGeminiEditor(client *genai.Client) *GeminiEditor {
	return &GeminiEditor{client: client}
}

func (e *GeminiEditor) EditImage(ctx context.Context, data []byte, instruction string) ([]byte, error) {
	return e.client.EditImage(ctx, data, instruction)
}

func (e *GeminiEditor) UpscaleImage(ctx context.Context, data []byte, tier string) ([]byte, error) {
	return e.client.UpscaleImage(ctx, data, tier)
}

var _ editor.ImageEditor = (*GeminiEditor)(nil)
