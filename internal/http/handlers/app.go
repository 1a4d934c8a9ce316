package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/sahilahmad48178-star/AI-image/internal/db"
	"github.com/sahilahmad48178-star/AI-image/internal/editor"
	"github.com/sahilahmad48178-star/AI-image/internal/infra"
	"github.com/sahilahmad48178-star/AI-image/internal/storage"
)

// App bundles the dependencies handlers need. Fields are exported so tests
// can assemble a partial App with stubs.
type App struct {
	Config   *infra.Config
	Logger   infra.Logger
	Q        *db.Queries
	Store    *storage.FileStore
	Sessions *editor.Manager
}

func NewApp(cfg *infra.Config, logger infra.Logger, queries *db.Queries, store *storage.FileStore, sessions *editor.Manager) *App {
	return &App{
		Config:   cfg,
		Logger:   logger,
		Q:        queries,
		Store:    store,
		Sessions: sessions,
	}
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (a *App) error(w http.ResponseWriter, status int, code, message string) {
	a.json(w, status, map[string]errorBody{"error": {Code: code, Message: message}})
}

// assetURL joins the configured public base URL with a storage key.
func (a *App) assetURL(storageKey string) string {
	if a.Config == nil || storageKey == "" {
		return ""
	}
	base := a.Config.StorageBaseURL
	for len(base) > 0 && base[len(base)-1] == '/' {
		base = base[:len(base)-1]
	}
	for len(storageKey) > 0 && storageKey[0] == '/' {
		storageKey = storageKey[1:]
	}
	return base + "/" + storageKey
}
