package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/sahilahmad48178-star/AI-image/internal/db"
	"github.com/sahilahmad48178-star/AI-image/internal/domain"
	"github.com/sahilahmad48178-star/AI-image/internal/editor"
	"github.com/sahilahmad48178-star/AI-image/internal/imagegen"
	"github.com/sahilahmad48178-star/AI-image/internal/middleware"
	"github.com/sahilahmad48178-star/AI-image/pkg/zip"
)

// ImagesGenerate queues an asynchronous image generation job. The worker
// picks it up, renders the assets and stores them in the library.
func (a *App) ImagesGenerate(w http.ResponseWriter, r *http.Request) {
	var req imagegen.GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	if req.Quantity <= 0 {
		req.Quantity = 1
	}
	if req.Quantity > 4 {
		req.Quantity = 4
	}
	if req.AspectRatio != "" {
		if _, err := editor.AspectRatioByName(req.AspectRatio); err != nil {
			a.error(w, http.StatusBadRequest, "bad_request", "unknown aspect ratio")
			return
		}
	}
	if strings.TrimSpace(req.Prompt.Subject) == "" && strings.TrimSpace(req.Prompt.Instructions) == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "prompt is required")
		return
	}

	jobID, err := a.enqueueJob(r, domain.JobTypeImageGenerate, req)
	if err != nil {
		a.Logger.Error().Err(err).Msg("handlers: enqueue image job")
		a.error(w, http.StatusInternalServerError, "internal", "failed to queue job")
		return
	}
	a.json(w, http.StatusAccepted, imagegen.GenerateResponse{
		JobID:  jobID.String(),
		Status: string(domain.JobStatusQueued),
	})
}

func (a *App) enqueueJob(r *http.Request, jobType domain.JobType, req imagegen.GenerateRequest) (uuid.UUID, error) {
	promptBytes, err := json.Marshal(req)
	if err != nil {
		return uuid.Nil, fmt.Errorf("marshal prompt: %w", err)
	}
	params := db.CreateJobParams{
		Type:     string(jobType),
		Quantity: int32(req.Quantity),
		Prompt:   promptBytes,
	}
	if req.AspectRatio != "" {
		params.AspectRatio = &req.AspectRatio
	}
	if country := middleware.CountryFromContext(r.Context()); country != "" {
		params.Country = &country
	}
	return a.Q.CreateJob(r.Context(), params)
}

// JobStatus reports the lifecycle state of a generation job.
func (a *App) JobStatus(w http.ResponseWriter, r *http.Request) {
	job, ok := a.job(w, r)
	if !ok {
		return
	}
	a.json(w, http.StatusOK, jobItem(job))
}

// JobsList pages through jobs, newest first.
func (a *App) JobsList(w http.ResponseWriter, r *http.Request) {
	limit, offset := listLimits(r)
	jobs, err := a.Q.ListJobs(r.Context(), db.ListJobsParams{Limit: limit, Offset: offset})
	if err != nil {
		a.error(w, http.StatusInternalServerError, "internal", "failed to load jobs")
		return
	}
	items := make([]map[string]any, 0, len(jobs))
	for _, job := range jobs {
		items = append(items, jobItem(job))
	}
	a.json(w, http.StatusOK, map[string]any{"items": items})
}

func jobItem(job db.Job) map[string]any {
	body := map[string]any{
		"id":         job.ID,
		"type":       job.Type,
		"status":     job.Status,
		"quantity":   job.Quantity,
		"created_at": job.CreatedAt,
		"updated_at": job.UpdatedAt,
	}
	if job.AspectRatio.Valid {
		body["aspect_ratio"] = job.AspectRatio.String
	}
	if job.Error.Valid {
		body["error"] = job.Error.String
	}
	return body
}

// JobAssets lists the assets a finished job produced.
func (a *App) JobAssets(w http.ResponseWriter, r *http.Request) {
	job, ok := a.job(w, r)
	if !ok {
		return
	}
	assets, err := a.Q.ListAssetsByJob(r.Context(), job.ID)
	if err != nil {
		a.error(w, http.StatusInternalServerError, "internal", "failed to load assets")
		return
	}
	a.json(w, http.StatusOK, map[string]any{"items": a.assetItems(assets)})
}

// JobDownload streams a zip archive of every asset the job produced.
func (a *App) JobDownload(w http.ResponseWriter, r *http.Request) {
	job, ok := a.job(w, r)
	if !ok {
		return
	}
	records, err := a.Q.ListAssetsByJob(r.Context(), job.ID)
	if err != nil {
		a.error(w, http.StatusInternalServerError, "internal", "failed to load assets")
		return
	}
	var assets []zip.Asset
	for _, record := range records {
		data, err := a.Store.Read(r.Context(), record.StorageKey)
		if err != nil {
			a.Logger.Warn().Err(err).Str("storage_key", record.StorageKey).Msg("handlers: skip unreadable asset")
			continue
		}
		assets = append(assets, zip.Asset{
			Filename: fmt.Sprintf("%s-%s", job.ID, record.ID),
			MIME:     record.Format,
			Data:     data,
		})
	}
	archive := zip.ArchiveAssets(assets)
	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=job-%s.zip", job.ID))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(archive)
}

func (a *App) job(w http.ResponseWriter, r *http.Request) (db.Job, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "job_id"))
	if err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid job id")
		return db.Job{}, false
	}
	job, err := a.Q.GetJob(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			a.error(w, http.StatusNotFound, "not_found", "job not found")
		} else {
			a.error(w, http.StatusInternalServerError, "internal", "failed to load job")
		}
		return db.Job{}, false
	}
	return job, true
}

func (a *App) assetItems(assets []db.Asset) []map[string]any {
	items := make([]map[string]any, 0, len(assets))
	for _, asset := range assets {
		item := map[string]any{
			"id":          asset.ID,
			"kind":        asset.Kind,
			"source":      asset.Source,
			"storage_key": asset.StorageKey,
			"url":         a.assetURL(asset.StorageKey),
			"format":      asset.Format,
			"width":       asset.Width,
			"height":      asset.Height,
			"bytes":       asset.Bytes,
			"created_at":  asset.CreatedAt,
		}
		if asset.JobID.Valid {
			item["job_id"] = asset.JobID.UUID
		}
		items = append(items, item)
	}
	return items
}

func listLimits(r *http.Request) (int32, int32) {
	limit := int32(50)
	offset := int32(0)
	if v, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && v > 0 && v <= 200 {
		limit = int32(v)
	}
	if v, err := strconv.Atoi(r.URL.Query().Get("offset")); err == nil && v >= 0 {
		offset = int32(v)
	}
	return limit, offset
}
