package editor

import (
	"context"
	"fmt"
	"image"

	"github.com/sahilahmad48178-star/AI-image/internal/infra"
)

// ImageEditor is the generation collaborator contract consumed by the
// bridge: an encoded raster plus a natural-language instruction in, a new
// encoded raster out. Upscaling carries a resolution tier instead of free
// text. Implementations live behind this interface and are injected at
// construction, never looked up from ambient scope.
type ImageEditor interface {
	EditImage(ctx context.Context, data []byte, instruction string) ([]byte, error)
	UpscaleImage(ctx context.Context, data []byte, tier string) ([]byte, error)
}

// Bridge submits flattened session state to the generation collaborator and
// decodes the result into a replacement base image. Failures leave the
// caller's state untouched; they are logged and surfaced, never retried.
type Bridge struct {
	editor ImageEditor
	logger infra.Logger
}

// NewBridge wires the collaborator and a logger.
func NewBridge(editor ImageEditor, logger infra.Logger) *Bridge {
	return &Bridge{editor: editor, logger: logger}
}

// Apply sends the baked buffer and instruction to the collaborator and
// returns the decoded replacement base image.
func (b *Bridge) Apply(ctx context.Context, baked []byte, instruction string) (image.Image, error) {
	if b == nil || b.editor == nil {
		return nil, fmt.Errorf("editor: no image editor configured")
	}
	out, err := b.editor.EditImage(ctx, baked, instruction)
	if err != nil {
		b.logger.Error().Err(err).Msg("editor: collaborator edit failed")
		return nil, fmt.Errorf("editor: apply edit: %w", err)
	}
	img, err := Decode(out)
	if err != nil {
		b.logger.Error().Err(err).Msg("editor: collaborator returned undecodable image")
		return nil, err
	}
	return img, nil
}

// Upscale sends the baked buffer and target resolution tier to the
// collaborator.
func (b *Bridge) Upscale(ctx context.Context, baked []byte, tier string) (image.Image, error) {
	if b == nil || b.editor == nil {
		return nil, fmt.Errorf("editor: no image editor configured")
	}
	out, err := b.editor.UpscaleImage(ctx, baked, tier)
	if err != nil {
		b.logger.Error().Err(err).Str("tier", tier).Msg("editor: collaborator upscale failed")
		return nil, fmt.Errorf("editor: upscale: %w", err)
	}
	img, err := Decode(out)
	if err != nil {
		b.logger.Error().Err(err).Msg("editor: collaborator returned undecodable image")
		return nil, err
	}
	return img, nil
}
