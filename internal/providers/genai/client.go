package genai

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"github.com/rs/zerolog"

	"github.com/sahilahmad48178-star/AI-image/internal/imagegen"
	"github.com/sahilahmad48178-star/AI-image/internal/infra"
)

// Options controls how the Gemini client is configured.
type Options struct {
	APIKey     string
	BaseURL    string
	Model      string
	HTTPClient *http.Client
	Logger     *infra.Logger
}

// Client is a thin facade over the Gemini generateContent API. When no API
// key is configured every call is served by a deterministic local fallback,
// which keeps the editor, worker and tests fully operational offline while
// preserving the extension points for real calls.
type Client struct {
	apiKey     string
	baseURL    string
	model      string
	httpClient *http.Client
	logger     *infra.Logger
}

// ImageRequest carries the information required to generate images.
type ImageRequest struct {
	Prompt      string
	Negative    string
	Quantity    int
	AspectRatio string
	RequestID   string
}

// VideoRequest carries the information required to generate a video.
type VideoRequest struct {
	Prompt    string
	RequestID string
}

// ImageAsset is the normalized representation returned by the client.
type ImageAsset struct {
	StorageKey string
	URL        string
	Format     string
	Width      int
	Height     int
	Data       []byte
}

// VideoAsset is the normalized representation of a generated video.
type VideoAsset struct {
	StorageKey string
	URL        string
	Format     string
	Length     int
	Data       []byte
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts,omitempty"`
}

type geminiPart struct {
	Text       string            `json:"text,omitempty"`
	InlineData *geminiInlineData `json:"inlineData,omitempty"`
	FileData   *geminiFileData   `json:"fileData,omitempty"`
}

type geminiInlineData struct {
	MimeType string `json:"mimeType,omitempty"`
	Data     string `json:"data,omitempty"`
}

type geminiFileData struct {
	MimeType string `json:"mimeType,omitempty"`
	FileURI  string `json:"fileUri,omitempty"`
}

type geminiGenerationConfig struct {
	CandidateCount     int      `json:"candidateCount,omitempty"`
	ResponseModalities []string `json:"responseModalities,omitempty"`
}

type geminiGenerateContentRequest struct {
	Contents         []geminiContent         `json:"contents"`
	GenerationConfig *geminiGenerationConfig `json:"generationConfig,omitempty"`
}

type geminiCandidate struct {
	Content      geminiContent `json:"content"`
	FinishReason string        `json:"finishReason,omitempty"`
}

type geminiGenerateContentResponse struct {
	Candidates []geminiCandidate `json:"candidates"`
}

type geminiErrorResponse struct {
	Error struct {
		Code    int    `json:"code,omitempty"`
		Message string `json:"message,omitempty"`
	} `json:"error"`
}

// NewClient constructs a Gemini client with sane defaults. Callers may
// provide a nil HTTP client; one with a generation-sized timeout is created.
func NewClient(opts Options) (*Client, error) {
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 120 * time.Second}
	}

	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://generativelanguage.googleapis.com/v1beta"
	}

	model := opts.Model
	if model == "" {
		model = "gemini-2.5-flash-image"
	}

	var logger *infra.Logger
	if opts.Logger != nil {
		logger = opts.Logger
	} else {
		discard := zerolog.New(io.Discard)
		l := infra.Logger(discard)
		logger = &l
	}

	return &Client{
		apiKey:     strings.TrimSpace(opts.APIKey),
		baseURL:    baseURL,
		model:      model,
		httpClient: client,
		logger:     logger,
	}, nil
}

// Model returns the configured Gemini model identifier.
func (c *Client) Model() string {
	return c.model
}

// GenerateImages produces image assets for a text prompt. Without an API key,
// or when the remote call fails, it falls back to deterministic synthetic
// assets so the rest of the pipeline stays exercised.
func (c *Client) GenerateImages(ctx context.Context, req ImageRequest) ([]ImageAsset, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if c.apiKey == "" {
		return c.syntheticImages(req)
	}

	assets, err := c.remoteGenerateImages(ctx, req)
	if err != nil {
		c.logger.Warn().
			Err(err).
			Str("model", c.model).
			Msg("genai: remote image generation failed; falling back to synthetic assets")
		return c.syntheticImages(req)
	}
	if len(assets) == 0 {
		return c.syntheticImages(req)
	}
	return assets, nil
}

// GenerateVideo produces a video asset for a text prompt, with the same
// synthetic fallback behavior as GenerateImages.
func (c *Client) GenerateVideo(ctx context.Context, req VideoRequest) (*VideoAsset, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if c.apiKey == "" {
		return c.syntheticVideo(req), nil
	}

	asset, err := c.remoteGenerateVideo(ctx, req)
	if err != nil {
		c.logger.Warn().
			Err(err).
			Str("model", c.model).
			Msg("genai: remote video generation failed; falling back to synthetic asset")
		return c.syntheticVideo(req), nil
	}
	if asset == nil || len(asset.Data) == 0 {
		return c.syntheticVideo(req), nil
	}
	return asset, nil
}

// EditImage submits an image plus a text instruction and returns the edited
// image bytes. Without an API key a deterministic local transform stands in.
// With a key configured, a remote failure is returned to the caller rather
// than papered over: the editing session must see the edit fail and keep its
// state, not install a locally-tweaked base as if the collaborator answered.
func (c *Client) EditImage(ctx context.Context, data []byte, instruction string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("genai: edit image: empty input")
	}

	if c.apiKey == "" {
		return c.syntheticEdit(data, instruction)
	}

	out, err := c.remoteEditImage(ctx, data, instruction)
	if err != nil {
		return nil, fmt.Errorf("genai: edit image: %w", err)
	}
	return out, nil
}

// UpscaleImage resizes an image to the requested tier. Without an API key a
// local resampling pass stands in, producing the same dimensions the remote
// path would. With a key configured, remote failures propagate like
// EditImage's.
func (c *Client) UpscaleImage(ctx context.Context, data []byte, tier string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	instruction, err := imagegen.BuildUpscaleInstruction(tier)
	if err != nil {
		return nil, err
	}

	if c.apiKey == "" {
		return c.localUpscale(data, tier)
	}

	out, err := c.remoteEditImage(ctx, data, instruction)
	if err != nil {
		return nil, fmt.Errorf("genai: upscale image: %w", err)
	}
	return out, nil
}

func (c *Client) remoteEditImage(ctx context.Context, data []byte, instruction string) ([]byte, error) {
	payload := geminiGenerateContentRequest{
		Contents: []geminiContent{
			{
				Role: "user",
				Parts: []geminiPart{
					{InlineData: &geminiInlineData{
						MimeType: "image/png",
						Data:     base64.StdEncoding.EncodeToString(data),
					}},
					{Text: instruction},
				},
			},
		},
		GenerationConfig: &geminiGenerationConfig{ResponseModalities: []string{"IMAGE"}},
	}

	var response geminiGenerateContentResponse
	if err := c.invokeGemini(ctx, fmt.Sprintf("/models/%s:generateContent", url.PathEscape(c.model)), payload, &response); err != nil {
		return nil, err
	}

	for _, candidate := range response.Candidates {
		for _, part := range candidate.Content.Parts {
			asset, err := c.decodeInlineAsset(ctx, part)
			if err != nil || len(asset.Data) == 0 {
				continue
			}
			return asset.Data, nil
		}
	}
	return nil, fmt.Errorf("genai: no image content returned")
}

// syntheticEdit runs a deterministic local transform keyed off the
// instruction so repeated calls with the same inputs produce the same bytes.
func (c *Client) syntheticEdit(data []byte, instruction string) ([]byte, error) {
	src, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("genai: decode edit input: %w", err)
	}
	seed := deterministicSeed(instruction)
	shift := float64(int(seed[0])%61) - 30
	out := imaging.AdjustBrightness(src, shift/3)
	out = imaging.AdjustSaturation(out, shift)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, out, imaging.PNG); err != nil {
		return nil, fmt.Errorf("genai: encode edit result: %w", err)
	}
	c.logger.Debug().
		Str("model", c.model).
		Msg("genai: produced synthetic edit result")
	return buf.Bytes(), nil
}

func (c *Client) localUpscale(data []byte, tier string) ([]byte, error) {
	size := imagegen.TierSize(tier)
	if size == 0 {
		return nil, fmt.Errorf("genai: unknown upscale tier %q", tier)
	}
	src, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("genai: decode upscale input: %w", err)
	}

	b := src.Bounds()
	var out *image.NRGBA
	if b.Dx() >= b.Dy() {
		out = imaging.Resize(src, size, 0, imaging.Lanczos)
	} else {
		out = imaging.Resize(src, 0, size, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, out, imaging.PNG); err != nil {
		return nil, fmt.Errorf("genai: encode upscale result: %w", err)
	}
	c.logger.Debug().
		Str("model", c.model).
		Str("tier", tier).
		Msg("genai: produced local upscale result")
	return buf.Bytes(), nil
}

func (c *Client) syntheticImages(req ImageRequest) ([]ImageAsset, error) {
	quantity := clampQuantity(req.Quantity)

	width, height := normalizeAspect(req.AspectRatio)
	assets := make([]ImageAsset, quantity)
	for i := 0; i < quantity; i++ {
		seed := deterministicSeed(req.RequestID, req.Prompt, req.Negative, i)
		storageKey := syntheticStorageKey("image", c.model, seed, i+1, "png")
		img := renderSyntheticImage(width, height, seed)
		assets[i] = ImageAsset{
			StorageKey: storageKey,
			URL:        c.assetURL(storageKey),
			Format:     "image/png",
			Width:      width,
			Height:     height,
			Data:       img,
		}
	}

	c.logger.Debug().
		Str("request_id", req.RequestID).
		Str("model", c.model).
		Int("quantity", quantity).
		Msg("genai: generated synthetic image assets")

	return assets, nil
}

func (c *Client) syntheticVideo(req VideoRequest) *VideoAsset {
	seed := deterministicSeed(req.RequestID, req.Prompt, c.model)
	storageKey := syntheticStorageKey("video", c.model, seed, 1, "mp4")
	asset := &VideoAsset{
		StorageKey: storageKey,
		URL:        c.assetURL(storageKey),
		Format:     "video/mp4",
		Length:     estimateVideoLength(req.Prompt),
		Data:       renderSyntheticVideo(seed, req.Prompt),
	}

	c.logger.Debug().
		Str("request_id", req.RequestID).
		Str("model", c.model).
		Msg("genai: generated synthetic video asset")

	return asset
}

func (c *Client) remoteGenerateImages(ctx context.Context, req ImageRequest) ([]ImageAsset, error) {
	quantity := clampQuantity(req.Quantity)
	payload := geminiGenerateContentRequest{
		Contents: []geminiContent{
			{
				Role:  "user",
				Parts: []geminiPart{{Text: buildImagePrompt(req)}},
			},
		},
		GenerationConfig: &geminiGenerationConfig{
			CandidateCount:     quantity,
			ResponseModalities: []string{"IMAGE"},
		},
	}

	var response geminiGenerateContentResponse
	if err := c.invokeGemini(ctx, fmt.Sprintf("/models/%s:generateContent", url.PathEscape(c.model)), payload, &response); err != nil {
		return nil, err
	}

	width, height := normalizeAspect(req.AspectRatio)
	var assets []ImageAsset
	for _, candidate := range response.Candidates {
		for _, part := range candidate.Content.Parts {
			asset, err := c.decodeInlineAsset(ctx, part)
			if err != nil || len(asset.Data) == 0 {
				continue
			}
			format := asset.Format
			if format == "" {
				format = "image/png"
			}
			w, h := decodeImageDimensions(asset.Data)
			if w == 0 || h == 0 {
				w, h = width, height
			}
			assets = append(assets, ImageAsset{
				URL:    asset.URL,
				Format: format,
				Width:  w,
				Height: h,
				Data:   asset.Data,
			})
			if len(assets) >= quantity {
				break
			}
		}
		if len(assets) >= quantity {
			break
		}
	}

	c.logger.Debug().
		Str("request_id", req.RequestID).
		Str("model", c.model).
		Int("quantity", len(assets)).
		Msg("genai: generated remote image assets")

	return assets, nil
}

func (c *Client) remoteGenerateVideo(ctx context.Context, req VideoRequest) (*VideoAsset, error) {
	payload := geminiGenerateContentRequest{
		Contents: []geminiContent{
			{
				Role:  "user",
				Parts: []geminiPart{{Text: strings.TrimSpace(req.Prompt)}},
			},
		},
	}

	var response geminiGenerateContentResponse
	if err := c.invokeGemini(ctx, fmt.Sprintf("/models/%s:generateContent", url.PathEscape(c.model)), payload, &response); err != nil {
		return nil, err
	}

	for _, candidate := range response.Candidates {
		for _, part := range candidate.Content.Parts {
			asset, err := c.decodeInlineAsset(ctx, part)
			if err != nil || len(asset.Data) == 0 {
				continue
			}
			length := estimateVideoLength(req.Prompt)
			if asset.Length > 0 {
				length = asset.Length
			}
			result := &VideoAsset{
				URL:    asset.URL,
				Format: asset.Format,
				Length: length,
				Data:   asset.Data,
			}
			c.logger.Debug().
				Str("request_id", req.RequestID).
				Str("model", c.model).
				Msg("genai: generated remote video asset")

			return result, nil
		}
	}

	return nil, fmt.Errorf("genai: no video content returned")
}

type inlineAsset struct {
	Data   []byte
	Format string
	URL    string
	Length int
}

func (c *Client) invokeGemini(ctx context.Context, path string, payload any, out any) error {
	endpoint := strings.TrimRight(c.baseURL, "/") + path
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	q := req.URL.Query()
	if c.apiKey != "" {
		q.Set("key", c.apiKey)
	}
	req.URL.RawQuery = q.Encode()
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("invoke gemini: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		var apiErr geminiErrorResponse
		if err := json.NewDecoder(resp.Body).Decode(&apiErr); err == nil && apiErr.Error.Message != "" {
			return fmt.Errorf("gemini status %d: %s", resp.StatusCode, apiErr.Error.Message)
		}
		data, _ := io.ReadAll(resp.Body)
		if len(data) > 0 {
			return fmt.Errorf("gemini status %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
		}
		return fmt.Errorf("gemini status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode gemini response: %w", err)
	}
	return nil
}

func (c *Client) decodeInlineAsset(ctx context.Context, part geminiPart) (inlineAsset, error) {
	if part.InlineData != nil && part.InlineData.Data != "" {
		data, err := base64.StdEncoding.DecodeString(part.InlineData.Data)
		if err != nil {
			return inlineAsset{}, fmt.Errorf("decode inline data: %w", err)
		}
		return inlineAsset{Data: data, Format: part.InlineData.MimeType}, nil
	}

	if part.FileData != nil && part.FileData.FileURI != "" {
		data, mime, err := c.downloadFile(ctx, part.FileData.FileURI)
		if err != nil {
			return inlineAsset{}, err
		}
		return inlineAsset{Data: data, Format: firstNonEmpty(part.FileData.MimeType, mime), URL: part.FileData.FileURI}, nil
	}

	return inlineAsset{}, nil
}

func (c *Client) downloadFile(ctx context.Context, uri string) ([]byte, string, error) {
	target := uri
	if !strings.HasPrefix(uri, "http://") && !strings.HasPrefix(uri, "https://") {
		target = strings.TrimRight(c.baseURL, "/") + "/" + strings.TrimLeft(uri, "/")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, "", fmt.Errorf("create download request: %w", err)
	}
	if c.apiKey != "" {
		q := req.URL.Query()
		q.Set("key", c.apiKey)
		req.URL.RawQuery = q.Encode()
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("download file: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		data, _ := io.ReadAll(resp.Body)
		return nil, "", fmt.Errorf("download file status %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
	}

	blob, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("read file: %w", err)
	}
	return blob, resp.Header.Get("Content-Type"), nil
}

func buildImagePrompt(req ImageRequest) string {
	var b strings.Builder
	if prompt := strings.TrimSpace(req.Prompt); prompt != "" {
		b.WriteString(prompt)
	}
	if aspect := strings.TrimSpace(req.AspectRatio); aspect != "" {
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		b.WriteString("Aspect ratio: ")
		b.WriteString(aspect)
	}
	if negative := strings.TrimSpace(req.Negative); negative != "" {
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		b.WriteString("Avoid: ")
		b.WriteString(negative)
	}
	if b.Len() == 0 {
		b.WriteString("Create an image")
	}
	return b.String()
}

func clampQuantity(quantity int) int {
	if quantity <= 0 {
		return 1
	}
	if quantity > 4 {
		return 4
	}
	return quantity
}

func decodeImageDimensions(data []byte) (int, int) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return 0, 0
	}
	return cfg.Width, cfg.Height
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

func (c *Client) assetURL(storageKey string) string {
	if storageKey == "" {
		return ""
	}
	return fmt.Sprintf("%s/%s", strings.TrimRight(c.baseURL, "/"), strings.TrimLeft(storageKey, "/"))
}

func syntheticStorageKey(kind, model, seed string, index int, ext string) string {
	return fmt.Sprintf("synthetic/%s/%s-%s/%02d.%s", url.PathEscape(model), url.PathEscape(kind), seed, index, ext)
}

// renderSyntheticImage paints a two-tone checker keyed off the seed. The
// output is stable for a given seed, which the worker tests rely on.
func renderSyntheticImage(width, height int, seed string) []byte {
	if width <= 0 {
		width = 1024
	}
	if height <= 0 {
		height = 1024
	}
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	base := colorFromSeed(seed, 0)
	accent := colorFromSeed(seed, 1)
	draw.Draw(img, img.Bounds(), &image.Uniform{base}, image.Point{}, draw.Src)

	cell := max(32, min(width, height)/8)
	for y := 0; y < height; y += cell {
		for x := 0; x < width; x += cell {
			if (x/cell+y/cell)%2 == 0 {
				continue
			}
			tile := image.Rect(x, y, min(width, x+cell), min(height, y+cell))
			draw.Draw(img, tile, &image.Uniform{accent}, image.Point{}, draw.Over)
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil
	}
	return buf.Bytes()
}

func renderSyntheticVideo(seed, prompt string) []byte {
	lines := []string{
		"Synthetic video placeholder",
		fmt.Sprintf("Seed: %s", seed),
		fmt.Sprintf("Prompt: %s", strings.TrimSpace(prompt)),
		"",
		"These bytes stand in for rendered video output until the remote",
		"video integration is enabled.",
	}
	return []byte(strings.Join(lines, "\n"))
}

func colorFromSeed(seed string, shift int) color.RGBA {
	if len(seed) < 6 {
		seed = seed + "0f3c9a"
	}
	doubled := seed + seed
	start := (shift * 6) % len(seed)
	segment := doubled[start : start+6]
	r := parseHexByte(segment[0:2])
	g := parseHexByte(segment[2:4])
	b := parseHexByte(segment[4:6])
	return color.RGBA{R: r, G: g, B: b, A: 255}
}

func parseHexByte(s string) uint8 {
	v, err := strconv.ParseUint(s, 16, 8)
	if err != nil {
		return 0
	}
	return uint8(v)
}

func deterministicSeed(parts ...any) string {
	hasher := sha256.New()
	for _, part := range parts {
		hasher.Write([]byte(fmt.Sprintf("%v", part)))
		hasher.Write([]byte{'|'})
	}
	return hex.EncodeToString(hasher.Sum(nil))[:16]
}

func normalizeAspect(aspect string) (int, int) {
	switch strings.TrimSpace(strings.ToLower(aspect)) {
	case "16:9":
		return 1920, 1080
	case "9:16":
		return 1080, 1920
	case "4:3":
		return 1280, 960
	case "3:4":
		return 960, 1280
	case "21:9":
		return 2048, 878
	case "1:1", "square", "":
		return 1024, 1024
	default:
		parts := strings.Split(aspect, ":")
		if len(parts) == 2 {
			if a, errA := strconv.Atoi(strings.TrimSpace(parts[0])); errA == nil {
				if b, errB := strconv.Atoi(strings.TrimSpace(parts[1])); errB == nil && a > 0 && b > 0 {
					width := 1024
					height := int(float64(width) * float64(b) / float64(a))
					return width, height
				}
			}
		}
		return 1024, 1024
	}
}

func estimateVideoLength(prompt string) int {
	words := len(strings.Fields(prompt))
	if words == 0 {
		return 12
	}
	length := words / 3
	if length < 8 {
		return 8
	}
	if length > 45 {
		return 45
	}
	return length
}
