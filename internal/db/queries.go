package db

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/sahilahmad48178-star/AI-image/internal/domain"
)

type DBTX interface {
	Exec(context.Context, string, ...any) (pgconn.CommandTag, error)
	Query(context.Context, string, ...any) (pgx.Rows, error)
	QueryRow(context.Context, string, ...any) pgx.Row
}

type Queries struct {
	db DBTX
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

type CreateJobParams struct {
	Type        string
	Quantity    int32
	AspectRatio *string
	Prompt      []byte
	Country     *string
}

func (q *Queries) CreateJob(ctx context.Context, arg CreateJobParams) (uuid.UUID, error) {
	row := q.db.QueryRow(ctx, `
INSERT INTO generation_jobs (type, status, quantity, aspect_ratio, prompt, country)
VALUES ($1, 'queued', $2, $3, $4, $5)
RETURNING id
`, arg.Type, arg.Quantity, arg.AspectRatio, arg.Prompt, arg.Country)
	var id uuid.UUID
	err := row.Scan(&id)
	return id, err
}

type Job struct {
	ID          uuid.UUID
	Type        string
	Status      string
	Quantity    int32
	AspectRatio sql.NullString
	Prompt      []byte
	Country     sql.NullString
	Error       sql.NullString
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

const jobColumns = `id, type, status, quantity, aspect_ratio, prompt, country, error, created_at, updated_at`

func scanJob(row pgx.Row) (Job, error) {
	var job Job
	err := row.Scan(
		&job.ID,
		&job.Type,
		&job.Status,
		&job.Quantity,
		&job.AspectRatio,
		&job.Prompt,
		&job.Country,
		&job.Error,
		&job.CreatedAt,
		&job.UpdatedAt,
	)
	return job, err
}

// ClaimNextJob atomically moves the oldest queued job to running and returns
// it. SKIP LOCKED lets multiple workers poll the same table without
// contending. pgx.ErrNoRows means the queue is empty.
func (q *Queries) ClaimNextJob(ctx context.Context) (Job, error) {
	row := q.db.QueryRow(ctx, `
UPDATE generation_jobs
SET status = 'running', updated_at = now()
WHERE id = (
  SELECT id FROM generation_jobs
  WHERE status = 'queued'
  ORDER BY created_at
  FOR UPDATE SKIP LOCKED
  LIMIT 1
)
RETURNING `+jobColumns+`
`)
	job, err := scanJob(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Job{}, domain.ErrQueueEmpty
	}
	return job, err
}

func (q *Queries) CompleteJob(ctx context.Context, id uuid.UUID) error {
	_, err := q.db.Exec(ctx, `
UPDATE generation_jobs
SET status = 'succeeded', updated_at = now()
WHERE id = $1
`, id)
	return err
}

type FailJobParams struct {
	ID    uuid.UUID
	Error string
}

func (q *Queries) FailJob(ctx context.Context, arg FailJobParams) error {
	_, err := q.db.Exec(ctx, `
UPDATE generation_jobs
SET status = 'failed', error = $2, updated_at = now()
WHERE id = $1
`, arg.ID, arg.Error)
	return err
}

func (q *Queries) GetJob(ctx context.Context, id uuid.UUID) (Job, error) {
	row := q.db.QueryRow(ctx, `
SELECT `+jobColumns+`
FROM generation_jobs
WHERE id = $1
`, id)
	job, err := scanJob(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Job{}, domain.ErrNotFound
	}
	return job, err
}

type ListJobsParams struct {
	Limit  int32
	Offset int32
}

func (q *Queries) ListJobs(ctx context.Context, arg ListJobsParams) ([]Job, error) {
	rows, err := q.db.Query(ctx, `
SELECT `+jobColumns+`
FROM generation_jobs
ORDER BY created_at DESC
LIMIT $1 OFFSET $2
`, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var jobs []Job
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, job)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return jobs, nil
}

type InsertAssetParams struct {
	JobID      *uuid.UUID
	Kind       string
	Source     string
	StorageKey string
	Format     string
	Width      int32
	Height     int32
	Bytes      int64
}

func (q *Queries) InsertAsset(ctx context.Context, arg InsertAssetParams) (uuid.UUID, error) {
	row := q.db.QueryRow(ctx, `
INSERT INTO assets (job_id, kind, source, storage_key, format, width, height, bytes)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
RETURNING id
`, arg.JobID, arg.Kind, arg.Source, arg.StorageKey, arg.Format, arg.Width, arg.Height, arg.Bytes)
	var id uuid.UUID
	err := row.Scan(&id)
	return id, err
}

type Asset struct {
	ID         uuid.UUID
	JobID      uuid.NullUUID
	Kind       string
	Source     string
	StorageKey string
	Format     string
	Width      int32
	Height     int32
	Bytes      int64
	CreatedAt  time.Time
}

const assetColumns = `id, job_id, kind, source, storage_key, format, width, height, bytes, created_at`

func scanAsset(row pgx.Row) (Asset, error) {
	var asset Asset
	err := row.Scan(
		&asset.ID,
		&asset.JobID,
		&asset.Kind,
		&asset.Source,
		&asset.StorageKey,
		&asset.Format,
		&asset.Width,
		&asset.Height,
		&asset.Bytes,
		&asset.CreatedAt,
	)
	return asset, err
}

func (q *Queries) GetAsset(ctx context.Context, id uuid.UUID) (Asset, error) {
	row := q.db.QueryRow(ctx, `
SELECT `+assetColumns+`
FROM assets
WHERE id = $1
`, id)
	asset, err := scanAsset(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Asset{}, domain.ErrNotFound
	}
	return asset, err
}

func (q *Queries) ListAssetsByJob(ctx context.Context, jobID uuid.UUID) ([]Asset, error) {
	rows, err := q.db.Query(ctx, `
SELECT `+assetColumns+`
FROM assets
WHERE job_id = $1
ORDER BY created_at
`, jobID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectAssets(rows)
}

type ListAssetsParams struct {
	Limit  int32
	Offset int32
}

func (q *Queries) ListAssets(ctx context.Context, arg ListAssetsParams) ([]Asset, error) {
	rows, err := q.db.Query(ctx, `
SELECT `+assetColumns+`
FROM assets
ORDER BY created_at DESC
LIMIT $1 OFFSET $2
`, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectAssets(rows)
}

func collectAssets(rows pgx.Rows) ([]Asset, error) {
	var assets []Asset
	for rows.Next() {
		asset, err := scanAsset(rows)
		if err != nil {
			return nil, err
		}
		assets = append(assets, asset)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return assets, nil
}
