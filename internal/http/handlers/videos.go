package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/sahilahmad48178-star/AI-image/internal/domain"
	"github.com/sahilahmad48178-star/AI-image/internal/imagegen"
)

type videoGenerateRequest struct {
	Prompt string `json:"prompt"`
}

// VideosGenerate queues an asynchronous video generation job. Status and
// results are served by the shared job endpoints.
func (a *App) VideosGenerate(w http.ResponseWriter, r *http.Request) {
	var req videoGenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	if strings.TrimSpace(req.Prompt) == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "prompt is required")
		return
	}

	var gen imagegen.GenerateRequest
	gen.Quantity = 1
	gen.Prompt.Subject = req.Prompt

	jobID, err := a.enqueueJob(r, domain.JobTypeVideoGenerate, gen)
	if err != nil {
		a.Logger.Error().Err(err).Msg("handlers: enqueue video job")
		a.error(w, http.StatusInternalServerError, "internal", "failed to queue job")
		return
	}
	a.json(w, http.StatusAccepted, imagegen.GenerateResponse{
		JobID:  jobID.String(),
		Status: string(domain.JobStatusQueued),
	})
}
