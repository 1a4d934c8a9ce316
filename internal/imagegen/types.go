package imagegen

// GenerateRequest is the transport payload for a generation job. Quantity is
// clamped by the handler; AspectRatio must name one of the editor presets.
type GenerateRequest struct {
	Quantity    int    `json:"quantity"`
	AspectRatio string `json:"aspect_ratio"`

	Prompt struct {
		Subject      string `json:"subject"`
		Style        string `json:"style"`
		Background   string `json:"background"`
		Instructions string `json:"instructions"`
		Negative     string `json:"negative"`
	} `json:"prompt"`
}

// GenerateResponse reports the queued job back to the client.
type GenerateResponse struct {
	JobID   string   `json:"job_id"`
	Status  string   `json:"status"`
	Assets  []string `json:"assets,omitempty"`
	Message string   `json:"message,omitempty"`
}

// EditRequest is the transport payload for a magic edit inside an editor
// session. Text is required for ActionReplaceBackground and ActionCustom and
// ignored otherwise.
type EditRequest struct {
	Action string `json:"action"`
	Text   string `json:"text,omitempty"`
}

// UpscaleRequest selects a target resolution tier for an upscale pass.
type UpscaleRequest struct {
	Tier string `json:"tier"`
}
