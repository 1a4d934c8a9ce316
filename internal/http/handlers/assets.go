package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/sahilahmad48178-star/AI-image/internal/db"
	"github.com/sahilahmad48178-star/AI-image/internal/domain"
)

// AssetsList pages through the asset library, newest first.
func (a *App) AssetsList(w http.ResponseWriter, r *http.Request) {
	limit, offset := listLimits(r)
	assets, err := a.Q.ListAssets(r.Context(), db.ListAssetsParams{Limit: limit, Offset: offset})
	if err != nil {
		a.error(w, http.StatusInternalServerError, "internal", "failed to load assets")
		return
	}
	a.json(w, http.StatusOK, map[string]any{"items": a.assetItems(assets)})
}

// AssetGet returns one asset's metadata.
func (a *App) AssetGet(w http.ResponseWriter, r *http.Request) {
	asset, ok := a.asset(w, r)
	if !ok {
		return
	}
	a.json(w, http.StatusOK, a.assetItems([]db.Asset{asset})[0])
}

// AssetDownload streams the stored file with its original content type.
func (a *App) AssetDownload(w http.ResponseWriter, r *http.Request) {
	asset, ok := a.asset(w, r)
	if !ok {
		return
	}
	data, err := a.Store.Read(r.Context(), asset.StorageKey)
	if err != nil {
		a.error(w, http.StatusNotFound, "not_found", "asset file missing")
		return
	}
	contentType := asset.Format
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=asset-%s", asset.ID))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (a *App) asset(w http.ResponseWriter, r *http.Request) (db.Asset, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "asset_id"))
	if err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid asset id")
		return db.Asset{}, false
	}
	asset, err := a.Q.GetAsset(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			a.error(w, http.StatusNotFound, "not_found", "asset not found")
		} else {
			a.error(w, http.StatusInternalServerError, "internal", "failed to load asset")
		}
		return db.Asset{}, false
	}
	return asset, true
}
