package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/sahilahmad48178-star/AI-image/internal/db"
	"github.com/sahilahmad48178-star/AI-image/internal/domain"
	"github.com/sahilahmad48178-star/AI-image/internal/imagegen"
	"github.com/sahilahmad48178-star/AI-image/internal/infra"
	"github.com/sahilahmad48178-star/AI-image/internal/providers/genai"
	"github.com/sahilahmad48178-star/AI-image/internal/providers/image"
	videoprovider "github.com/sahilahmad48178-star/AI-image/internal/providers/video"
	"github.com/sahilahmad48178-star/AI-image/internal/storage"
)

type jobWorker struct {
	ctx          context.Context
	queries      *db.Queries
	logger       infra.Logger
	images       image.Generator
	videos       videoprovider.Generator
	store        *storage.FileStore
	pollInterval time.Duration
}

func main() {
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := infra.NewDBPool(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("worker: db connection failed")
	}
	defer pool.Close()

	storagePath := cfg.StoragePath
	if !filepath.IsAbs(storagePath) {
		if abs, err := filepath.Abs(storagePath); err == nil {
			storagePath = abs
		}
	}
	fileStore, err := storage.NewFileStore(storagePath)
	if err != nil {
		logger.Fatal().Err(err).Msg("worker: failed to configure storage")
	}

	geminiClient, err := genai.NewClient(genai.Options{
		APIKey:  cfg.GeminiAPIKey,
		BaseURL: cfg.GeminiBaseURL,
		Model:   cfg.GeminiModel,
		Logger:  &logger,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("worker: failed to configure gemini client")
	}
	if cfg.GeminiAPIKey == "" {
		logger.Warn().Str("model", geminiClient.Model()).Msg("worker: gemini api key missing, using synthetic asset generation")
	}

	worker := &jobWorker{
		ctx:          ctx,
		queries:      db.New(pool),
		logger:       logger,
		images:       image.NewGeminiGenerator(geminiClient),
		videos:       videoprovider.NewGeminiGenerator(geminiClient),
		store:        fileStore,
		pollInterval: cfg.WorkerPollInterval,
	}

	if err := worker.Run(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Fatal().Err(err).Msg("worker: stopped with error")
	}
	logger.Info().Msg("worker: stopped")
}

func (w *jobWorker) Run() error {
	w.logger.Info().Msg("worker: started")
	for {
		select {
		case <-w.ctx.Done():
			return w.ctx.Err()
		default:
		}

		job, err := w.queries.ClaimNextJob(w.ctx)
		if err != nil {
			if errors.Is(err, domain.ErrQueueEmpty) {
				w.sleep()
				continue
			}
			w.logger.Error().Err(err).Msg("worker: failed to claim job")
			w.sleep()
			continue
		}

		w.handleJob(job)
	}
}

func (w *jobWorker) sleep() {
	select {
	case <-w.ctx.Done():
	case <-time.After(w.pollInterval):
	}
}

func (w *jobWorker) handleJob(job db.Job) {
	w.logger.Info().Str("job_id", job.ID.String()).Str("type", job.Type).Msg("worker: picked job")
	if err := w.dispatch(job); err != nil {
		w.logger.Error().Err(err).Str("job_id", job.ID.String()).Msg("worker: job failed")
		if failErr := w.queries.FailJob(w.ctx, db.FailJobParams{ID: job.ID, Error: err.Error()}); failErr != nil {
			w.logger.Error().Err(failErr).Str("job_id", job.ID.String()).Msg("worker: mark failed")
		}
		return
	}
	if err := w.queries.CompleteJob(w.ctx, job.ID); err != nil {
		w.logger.Error().Err(err).Str("job_id", job.ID.String()).Msg("worker: mark succeeded")
	}
}

func (w *jobWorker) dispatch(job db.Job) error {
	switch domain.JobType(job.Type) {
	case domain.JobTypeImageGenerate:
		return w.processImageJob(job)
	case domain.JobTypeVideoGenerate:
		return w.processVideoJob(job)
	default:
		return fmt.Errorf("unsupported job type %q", job.Type)
	}
}

func (w *jobWorker) processImageJob(job db.Job) error {
	var req imagegen.GenerateRequest
	if err := json.Unmarshal(job.Prompt, &req); err != nil {
		return fmt.Errorf("decode image prompt: %w", err)
	}
	aspect := ""
	if job.AspectRatio.Valid {
		aspect = job.AspectRatio.String
	}
	assets, err := w.images.Generate(w.ctx, image.GenerateRequest{
		Prompt:      imagegen.BuildInstruction(req),
		Negative:    req.Prompt.Negative,
		Quantity:    int(job.Quantity),
		AspectRatio: aspect,
		RequestID:   job.ID.String(),
	})
	if err != nil {
		return fmt.Errorf("image generation: %w", err)
	}
	for idx, asset := range assets {
		if err := w.persistAsset(job.ID, domain.AssetKindImage, asset.Format, asset.Data, asset.Width, asset.Height, idx); err != nil {
			w.logger.Error().Err(err).Str("job_id", job.ID.String()).Msg("worker: persist image asset")
		}
	}
	return nil
}

func (w *jobWorker) processVideoJob(job db.Job) error {
	var req imagegen.GenerateRequest
	if err := json.Unmarshal(job.Prompt, &req); err != nil {
		return fmt.Errorf("decode video prompt: %w", err)
	}
	asset, err := w.videos.Generate(w.ctx, videoprovider.GenerateRequest{
		Prompt:    req.Prompt.Subject,
		RequestID: job.ID.String(),
	})
	if err != nil {
		return fmt.Errorf("video generation: %w", err)
	}
	return w.persistAsset(job.ID, domain.AssetKindVideo, asset.Format, asset.Data, 0, 0, 0)
}

func (w *jobWorker) persistAsset(jobID uuid.UUID, kind domain.AssetKind, mime string, data []byte, width, height, index int) error {
	if len(data) == 0 {
		return fmt.Errorf("asset has no data")
	}
	key := storageKeyFor(jobID, kind, mime, index)
	savedKey, err := w.store.Write(w.ctx, key, data)
	if err != nil {
		return fmt.Errorf("write asset: %w", err)
	}
	id := jobID
	_, err = w.queries.InsertAsset(w.ctx, db.InsertAssetParams{
		JobID:      &id,
		Kind:       string(kind),
		Source:     string(domain.AssetSourceGenerated),
		StorageKey: savedKey,
		Format:     mime,
		Width:      int32(width),
		Height:     int32(height),
		Bytes:      int64(len(data)),
	})
	if err != nil {
		return fmt.Errorf("insert asset: %w", err)
	}
	return nil
}

func storageKeyFor(jobID uuid.UUID, kind domain.AssetKind, mime string, index int) string {
	ext := extensionForMIME(mime)
	if kind == domain.AssetKindVideo {
		return fmt.Sprintf("generated/videos/%s/video%s", jobID, ext)
	}
	return fmt.Sprintf("generated/images/%s/image-%02d%s", jobID, index+1, ext)
}

func extensionForMIME(mime string) string {
	switch strings.ToLower(strings.TrimSpace(mime)) {
	case "image/jpeg", "image/jpg":
		return ".jpg"
	case "image/webp":
		return ".webp"
	case "video/mp4":
		return ".mp4"
	default:
		return ".png"
	}
}
