package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/sahilahmad48178-star/AI-image/internal/http/handlers"
	"github.com/sahilahmad48178-star/AI-image/internal/middleware"
)

// NewRouter wires every API route plus the static asset mount. lookup may be
// nil when no GeoIP database is configured.
func NewRouter(app *handlers.App, lookup middleware.CountryLookup) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.RequestID,
		chimiddleware.RealIP,
		chimiddleware.Recoverer,
		middleware.Logger(app.Logger),
		middleware.Country(lookup),
	)
	if app.Config != nil && len(app.Config.CORSOrigins) > 0 {
		r.Use(middleware.CORS(app.Config.CORSOrigins))
	}
	if app.Config != nil && app.Config.RateLimitPerMin > 0 {
		r.Use(middleware.RateLimit(app.Config.RateLimitPerMin, time.Minute))
	}

	r.Get("/v1/healthz", app.Health)

	r.Route("/v1/editor/sessions", func(r chi.Router) {
		r.Post("/", app.SessionOpen)
		r.Post("/from-asset/{asset_id}", app.SessionOpenFromAsset)
		r.Route("/{session_id}", func(r chi.Router) {
			r.Get("/", app.SessionInfo)
			r.Delete("/", app.SessionCancel)
			r.Post("/adjust", app.SessionAdjust)
			r.Post("/rotate", app.SessionRotate)
			r.Post("/flip", app.SessionFlip)
			r.Post("/crop", app.SessionCrop)
			r.Post("/magic", app.SessionMagic)
			r.Post("/upscale", app.SessionUpscale)
			r.Post("/undo", app.SessionUndo)
			r.Post("/redo", app.SessionRedo)
			r.Get("/preview", app.SessionPreview)
			r.Post("/save", app.SessionSave)
		})
	})

	r.Post("/v1/images/generate", app.ImagesGenerate)
	r.Post("/v1/videos/generate", app.VideosGenerate)

	r.Get("/v1/jobs", app.JobsList)
	r.Route("/v1/jobs/{job_id}", func(r chi.Router) {
		r.Get("/", app.JobStatus)
		r.Get("/assets", app.JobAssets)
		r.Get("/download", app.JobDownload)
	})

	r.Route("/v1/assets", func(r chi.Router) {
		r.Get("/", app.AssetsList)
		r.Get("/{asset_id}", app.AssetGet)
		r.Get("/{asset_id}/download", app.AssetDownload)
	})

	if app.Store != nil {
		fs := http.StripPrefix("/assets/", http.FileServer(http.Dir(app.Store.BasePath())))
		r.Get("/assets/*", fs.ServeHTTP)
	}

	return r
}
