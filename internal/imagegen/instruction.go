package imagegen

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Magic edit actions supported by the editor bridge.
const (
	ActionRemoveBackground  = "remove-background"
	ActionColorize          = "colorize"
	ActionReplaceBackground = "replace-background"
	ActionCustom            = "custom"
)

// Upscale tiers map to the longest output edge in pixels.
const (
	Tier1K = "1k"
	Tier2K = "2k"
	Tier4K = "4k"
)

var tierSizes = map[string]int{
	Tier1K: 1024,
	Tier2K: 2048,
	Tier4K: 4096,
}

// TierSize returns the longest-edge pixel size for a tier, or 0 for an
// unknown tier.
func TierSize(tier string) int {
	return tierSizes[strings.ToLower(strings.TrimSpace(tier))]
}

var titleCaser = cases.Title(language.English)

// BuildInstruction renders a generation request into a single model prompt.
// Sections are appended in a fixed order so equal requests always produce the
// same prompt, which keeps job deduplication and test fixtures stable.
func BuildInstruction(req GenerateRequest) string {
	parts := []string{}
	if subject := strings.TrimSpace(req.Prompt.Subject); subject != "" {
		parts = append(parts, fmt.Sprintf("Generate a photorealistic image of %s.", subject))
	}
	if style := strings.TrimSpace(req.Prompt.Style); style != "" {
		parts = append(parts, "Visual style: "+titleCaser.String(style)+".")
	}
	if background := strings.TrimSpace(req.Prompt.Background); background != "" {
		parts = append(parts, "Background: "+background+".")
	}
	if instructions := strings.TrimSpace(req.Prompt.Instructions); instructions != "" {
		parts = append(parts, "Additional instructions: "+instructions+".")
	}
	parts = append(parts, "Keep natural proportions, sharp focus, no artifacts.")
	if aspect := strings.TrimSpace(req.AspectRatio); aspect != "" {
		parts = append(parts, "Compose for a "+aspect+" aspect ratio.")
	}
	if negative := strings.TrimSpace(req.Prompt.Negative); negative != "" {
		parts = append(parts, "Avoid: "+negative+".")
	}
	return strings.Join(parts, " ")
}

// BuildEditInstruction renders a magic edit action into the instruction sent
// alongside the flattened session image. The wording is fixed per action so
// the collaborator sees a stable contract.
func BuildEditInstruction(req EditRequest) (string, error) {
	text := strings.TrimSpace(req.Text)
	switch strings.ToLower(strings.TrimSpace(req.Action)) {
	case ActionRemoveBackground:
		return "Remove the background and place the subject on a clean neutral white background. Preserve the subject exactly.", nil
	case ActionColorize:
		return "Colorize this image with natural, realistic colors. Preserve all shapes and details.", nil
	case ActionReplaceBackground:
		if text == "" {
			return "", fmt.Errorf("imagegen: replace-background requires text")
		}
		return fmt.Sprintf("Replace the background with %s. Preserve the foreground subject exactly.", text), nil
	case ActionCustom:
		if text == "" {
			return "", fmt.Errorf("imagegen: custom edit requires text")
		}
		return text, nil
	default:
		return "", fmt.Errorf("imagegen: unknown edit action %q", req.Action)
	}
}

// BuildUpscaleInstruction renders a tier into the instruction for an upscale
// pass.
func BuildUpscaleInstruction(tier string) (string, error) {
	size := TierSize(tier)
	if size == 0 {
		return "", fmt.Errorf("imagegen: unknown upscale tier %q", tier)
	}
	return fmt.Sprintf("Upscale this image so its longest edge is %d pixels. Do not alter the content.", size), nil
}
