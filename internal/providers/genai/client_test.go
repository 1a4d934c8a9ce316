package genai

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"image/color"
	"image/png"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/disintegration/imaging"
)

func testPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := imaging.New(w, h, color.NRGBA{R: 40, G: 80, B: 120, A: 255})
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode test png: %v", err)
	}
	return buf.Bytes()
}

func TestGenerateImagesSyntheticWithoutAPIKey(t *testing.T) {
	client, err := NewClient(Options{})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	req := ImageRequest{Prompt: "a lighthouse at dusk", Quantity: 2, AspectRatio: "16:9", RequestID: "req-1"}
	assets, err := client.GenerateImages(context.Background(), req)
	if err != nil {
		t.Fatalf("generate images: %v", err)
	}
	if len(assets) != 2 {
		t.Fatalf("assets = %d, want 2", len(assets))
	}
	for _, asset := range assets {
		if asset.Width != 1920 || asset.Height != 1080 {
			t.Fatalf("asset dims = %dx%d, want 1920x1080", asset.Width, asset.Height)
		}
		if len(asset.Data) == 0 {
			t.Fatalf("asset has no data")
		}
		if !strings.HasPrefix(asset.StorageKey, "synthetic/") {
			t.Fatalf("storage key = %q", asset.StorageKey)
		}
	}

	again, err := client.GenerateImages(context.Background(), req)
	if err != nil {
		t.Fatalf("regenerate: %v", err)
	}
	if !bytes.Equal(assets[0].Data, again[0].Data) {
		t.Fatalf("synthetic assets not deterministic for equal requests")
	}
}

func TestEditImagePayloadCarriesInlineImageAndInstruction(t *testing.T) {
	transport := &captureTransport{responses: map[string]responseStub{}}
	client, err := NewClient(Options{
		APIKey:     "test",
		Model:      "test-model",
		HTTPClient: &http.Client{Transport: transport},
	})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	edited := testPNG(t, 4, 4)
	transport.setJSONResponse("/v1beta/models/test-model:generateContent", map[string]any{
		"candidates": []any{
			map[string]any{
				"content": map[string]any{
					"parts": []any{
						map[string]any{"inlineData": map[string]any{
							"mimeType": "image/png",
							"data":     base64.StdEncoding.EncodeToString(edited),
						}},
					},
				},
			},
		},
	})

	input := testPNG(t, 2, 2)
	out, err := client.EditImage(context.Background(), input, "remove the background")
	if err != nil {
		t.Fatalf("edit image: %v", err)
	}
	if !bytes.Equal(out, edited) {
		t.Fatalf("edit result does not match inline response data")
	}

	var payload map[string]any
	if err := json.Unmarshal(transport.lastBody, &payload); err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	contents := payload["contents"].([]any)
	parts := contents[0].(map[string]any)["parts"].([]any)
	if len(parts) != 2 {
		t.Fatalf("parts len = %d, want image + instruction", len(parts))
	}
	inline := parts[0].(map[string]any)["inlineData"].(map[string]any)
	raw, err := base64.StdEncoding.DecodeString(inline["data"].(string))
	if err != nil {
		t.Fatalf("inline data not base64: %v", err)
	}
	if !bytes.Equal(raw, input) {
		t.Fatalf("payload image differs from input")
	}
	if text := parts[1].(map[string]any)["text"]; text != "remove the background" {
		t.Fatalf("instruction = %v", text)
	}
}

func TestEditImageRemoteFailurePropagates(t *testing.T) {
	transport := &captureTransport{responses: map[string]responseStub{}}
	client, err := NewClient(Options{
		APIKey:     "test",
		Model:      "test-model",
		HTTPClient: &http.Client{Transport: transport},
	})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	// No stubbed response registered, so the call 404s. With a key
	// configured the failure must reach the caller, not get masked by a
	// local transform.
	input := testPNG(t, 3, 3)
	if _, err := client.EditImage(context.Background(), input, "colorize"); err == nil {
		t.Fatalf("expected remote edit error to propagate")
	}
	if _, err := client.UpscaleImage(context.Background(), input, "1k"); err == nil {
		t.Fatalf("expected remote upscale error to propagate")
	}
}

func TestEditImageWithoutAPIKeyUsesLocalTransform(t *testing.T) {
	client, err := NewClient(Options{})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	input := testPNG(t, 3, 3)
	out, err := client.EditImage(context.Background(), input, "colorize")
	if err != nil {
		t.Fatalf("expected local transform, got error: %v", err)
	}
	if _, err := imaging.Decode(bytes.NewReader(out)); err != nil {
		t.Fatalf("local transform output not decodable: %v", err)
	}
}

func TestUpscaleImageLocalFallbackHitsTierSize(t *testing.T) {
	client, err := NewClient(Options{})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	out, err := client.UpscaleImage(context.Background(), testPNG(t, 8, 4), "1k")
	if err != nil {
		t.Fatalf("upscale: %v", err)
	}
	img, err := imaging.Decode(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("decode upscaled: %v", err)
	}
	b := img.Bounds()
	if b.Dx() != 1024 {
		t.Fatalf("long edge = %d, want 1024", b.Dx())
	}
	if b.Dy() != 512 {
		t.Fatalf("short edge = %d, want proportional 512", b.Dy())
	}

	if _, err := client.UpscaleImage(context.Background(), testPNG(t, 2, 2), "8k"); err == nil {
		t.Fatalf("expected error for unknown tier")
	}
}

type captureTransport struct {
	responses map[string]responseStub
	lastBody  []byte
}

type responseStub struct {
	status int
	header http.Header
	body   []byte
}

func (c *captureTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Method == http.MethodPost {
		body, err := io.ReadAll(req.Body)
		if err != nil {
			return nil, err
		}
		req.Body.Close()
		c.lastBody = body
		if stub, ok := c.responses[req.URL.Path]; ok {
			return stub.toResponse(), nil
		}
	}
	if req.Method == http.MethodGet {
		if stub, ok := c.responses[req.URL.String()]; ok {
			return stub.toResponse(), nil
		}
	}
	return &http.Response{
		StatusCode: http.StatusNotFound,
		Body:       io.NopCloser(strings.NewReader("not found")),
	}, nil
}

func (c *captureTransport) setJSONResponse(path string, payload any) {
	body, _ := json.Marshal(payload)
	c.responses[path] = responseStub{
		status: http.StatusOK,
		header: http.Header{"Content-Type": []string{"application/json"}},
		body:   body,
	}
}

func (s responseStub) toResponse() *http.Response {
	header := http.Header{}
	for k, values := range s.header {
		cloned := make([]string, len(values))
		copy(cloned, values)
		header[k] = cloned
	}
	return &http.Response{
		StatusCode: s.status,
		Header:     header,
		Body:       io.NopCloser(bytes.NewReader(s.body)),
	}
}
