package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/sahilahmad48178-star/AI-image/internal/db"
	"github.com/sahilahmad48178-star/AI-image/internal/domain"
	"github.com/sahilahmad48178-star/AI-image/internal/editor"
	"github.com/sahilahmad48178-star/AI-image/internal/imagegen"
)

// SessionOpen starts an editing session from an uploaded image. The image is
// accepted either as the multipart form field "image" or as a raw request
// body with an image content type.
func (a *App) SessionOpen(w http.ResponseWriter, r *http.Request) {
	data, err := a.readUpload(r)
	if err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", err.Error())
		return
	}
	session, err := a.Sessions.Open(data)
	if err != nil {
		a.error(w, http.StatusUnprocessableEntity, "undecodable_image", "image could not be decoded")
		return
	}
	a.json(w, http.StatusCreated, session.Info())
}

// SessionOpenFromAsset starts an editing session from a stored library asset.
func (a *App) SessionOpenFromAsset(w http.ResponseWriter, r *http.Request) {
	assetID, err := uuid.Parse(chi.URLParam(r, "asset_id"))
	if err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid asset id")
		return
	}
	asset, err := a.Q.GetAsset(r.Context(), assetID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			a.error(w, http.StatusNotFound, "not_found", "asset not found")
		} else {
			a.error(w, http.StatusInternalServerError, "internal", "failed to load asset")
		}
		return
	}
	data, err := a.Store.Read(r.Context(), asset.StorageKey)
	if err != nil {
		a.error(w, http.StatusNotFound, "not_found", "asset file missing")
		return
	}
	session, err := a.Sessions.Open(data)
	if err != nil {
		a.error(w, http.StatusUnprocessableEntity, "undecodable_image", "asset could not be decoded")
		return
	}
	a.json(w, http.StatusCreated, session.Info())
}

func (a *App) SessionInfo(w http.ResponseWriter, r *http.Request) {
	session, ok := a.session(w, r)
	if !ok {
		return
	}
	a.json(w, http.StatusOK, session.Info())
}

type adjustRequest struct {
	Brightness *int `json:"brightness"`
	Contrast   *int `json:"contrast"`
	Saturation *int `json:"saturation"`
	Grayscale  *int `json:"grayscale"`
}

// SessionAdjust sets the photometric parameters. Omitted fields keep their
// current value; supplied values are clamped to the parameter domain.
func (a *App) SessionAdjust(w http.ResponseWriter, r *http.Request) {
	session, ok := a.session(w, r)
	if !ok {
		return
	}
	var req adjustRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	current := session.Info().Params
	b := clampAdjust(req.Brightness, current.Brightness)
	c := clampAdjust(req.Contrast, current.Contrast)
	s := clampAdjust(req.Saturation, current.Saturation)
	g := clampGrayscale(req.Grayscale, current.Grayscale)
	if err := session.Adjust(b, c, s, g); err != nil {
		a.sessionError(w, err)
		return
	}
	a.json(w, http.StatusOK, session.Info())
}

func (a *App) SessionRotate(w http.ResponseWriter, r *http.Request) {
	session, ok := a.session(w, r)
	if !ok {
		return
	}
	if err := session.Rotate(); err != nil {
		a.sessionError(w, err)
		return
	}
	a.json(w, http.StatusOK, session.Info())
}

func (a *App) SessionFlip(w http.ResponseWriter, r *http.Request) {
	session, ok := a.session(w, r)
	if !ok {
		return
	}
	if err := session.Flip(); err != nil {
		a.sessionError(w, err)
		return
	}
	a.json(w, http.StatusOK, session.Info())
}

type cropRequest struct {
	AspectRatio string  `json:"aspect_ratio"`
	Ratio       float64 `json:"ratio"`
}

// SessionCrop cuts the centered region with the requested aspect ratio.
// Either a preset name ("1:1", "16:9", ...) or a raw ratio is accepted.
func (a *App) SessionCrop(w http.ResponseWriter, r *http.Request) {
	session, ok := a.session(w, r)
	if !ok {
		return
	}
	var req cropRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	ratio := req.Ratio
	if name := strings.TrimSpace(req.AspectRatio); name != "" {
		preset, err := editor.AspectRatioByName(name)
		if err != nil {
			a.error(w, http.StatusBadRequest, "bad_request", "unknown aspect ratio")
			return
		}
		ratio = preset.Value()
	}
	if ratio <= 0 {
		a.error(w, http.StatusBadRequest, "bad_request", "ratio must be positive")
		return
	}
	if err := session.Crop(ratio); err != nil {
		a.sessionError(w, err)
		return
	}
	a.json(w, http.StatusOK, session.Info())
}

// SessionMagic submits the flattened image with an edit instruction to the
// generation collaborator and installs the result as the new base image.
func (a *App) SessionMagic(w http.ResponseWriter, r *http.Request) {
	session, ok := a.session(w, r)
	if !ok {
		return
	}
	var req imagegen.EditRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	instruction, err := imagegen.BuildEditInstruction(req)
	if err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", err.Error())
		return
	}
	if err := session.Magic(r.Context(), instruction); err != nil {
		a.sessionError(w, err)
		return
	}
	a.json(w, http.StatusOK, session.Info())
}

func (a *App) SessionUpscale(w http.ResponseWriter, r *http.Request) {
	session, ok := a.session(w, r)
	if !ok {
		return
	}
	var req imagegen.UpscaleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	if imagegen.TierSize(req.Tier) == 0 {
		a.error(w, http.StatusBadRequest, "bad_request", "unknown upscale tier")
		return
	}
	if err := session.Upscale(r.Context(), req.Tier); err != nil {
		a.sessionError(w, err)
		return
	}
	a.json(w, http.StatusOK, session.Info())
}

func (a *App) SessionUndo(w http.ResponseWriter, r *http.Request) {
	session, ok := a.session(w, r)
	if !ok {
		return
	}
	session.Undo()
	a.json(w, http.StatusOK, session.Info())
}

func (a *App) SessionRedo(w http.ResponseWriter, r *http.Request) {
	session, ok := a.session(w, r)
	if !ok {
		return
	}
	session.Redo()
	a.json(w, http.StatusOK, session.Info())
}

// SessionPreview serves the baked current state as PNG without committing
// anything.
func (a *App) SessionPreview(w http.ResponseWriter, r *http.Request) {
	session, ok := a.session(w, r)
	if !ok {
		return
	}
	data, err := session.Preview()
	if err != nil {
		a.sessionError(w, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// SessionSave bakes the final image, persists it to the asset library, and
// tears the session down.
func (a *App) SessionSave(w http.ResponseWriter, r *http.Request) {
	session, ok := a.session(w, r)
	if !ok {
		return
	}

	var saved db.Asset
	session.OnSave = func(final []byte) error {
		key := "edited/" + session.ID() + ".png"
		storageKey, err := a.Store.Write(r.Context(), key, final)
		if err != nil {
			return err
		}
		info := session.Info()
		id, err := a.Q.InsertAsset(r.Context(), db.InsertAssetParams{
			Kind:       string(domain.AssetKindImage),
			Source:     string(domain.AssetSourceEdited),
			StorageKey: storageKey,
			Format:     "image/png",
			Width:      int32(info.Width),
			Height:     int32(info.Height),
			Bytes:      int64(len(final)),
		})
		if err != nil {
			return err
		}
		saved = db.Asset{
			ID:         id,
			Kind:       string(domain.AssetKindImage),
			Source:     string(domain.AssetSourceEdited),
			StorageKey: storageKey,
			Format:     "image/png",
			Width:      int32(info.Width),
			Height:     int32(info.Height),
			Bytes:      int64(len(final)),
		}
		return nil
	}

	if _, err := session.Save(); err != nil {
		if errors.Is(err, editor.ErrSessionClosed) || errors.Is(err, editor.ErrNoSession) || errors.Is(err, editor.ErrStaleResult) {
			a.sessionError(w, err)
			return
		}
		a.Logger.Error().Err(err).Str("session", session.ID()).Msg("handlers: save session")
		a.error(w, http.StatusInternalServerError, "internal", "failed to save session")
		return
	}
	a.Sessions.Remove(session.ID())
	a.json(w, http.StatusCreated, map[string]any{
		"asset_id":    saved.ID,
		"storage_key": saved.StorageKey,
		"url":         a.assetURL(saved.StorageKey),
		"format":      saved.Format,
		"width":       saved.Width,
		"height":      saved.Height,
		"bytes":       saved.Bytes,
	})
}

func (a *App) SessionCancel(w http.ResponseWriter, r *http.Request) {
	session, ok := a.session(w, r)
	if !ok {
		return
	}
	if err := session.Cancel(); err != nil {
		a.sessionError(w, err)
		return
	}
	a.Sessions.Remove(session.ID())
	w.WriteHeader(http.StatusNoContent)
}

func (a *App) session(w http.ResponseWriter, r *http.Request) (*editor.Session, bool) {
	id := chi.URLParam(r, "session_id")
	if id == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "session_id required")
		return nil, false
	}
	session, err := a.Sessions.Get(id)
	if err != nil {
		a.error(w, http.StatusNotFound, "not_found", "session not found")
		return nil, false
	}
	return session, true
}

func (a *App) sessionError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, editor.ErrSessionBusy):
		a.error(w, http.StatusConflict, "session_busy", "an edit is already in flight")
	case errors.Is(err, editor.ErrStaleResult):
		a.error(w, http.StatusConflict, "stale_result", "the result was superseded by a newer edit")
	case errors.Is(err, editor.ErrSessionClosed), errors.Is(err, editor.ErrNoSession):
		a.error(w, http.StatusGone, "session_closed", "session is no longer active")
	default:
		a.error(w, http.StatusBadGateway, "edit_failed", err.Error())
	}
}

func (a *App) readUpload(r *http.Request) ([]byte, error) {
	limit := int64(20 << 20)
	if a.Config != nil && a.Config.MaxUploadBytes > 0 {
		limit = a.Config.MaxUploadBytes
	}
	r.Body = http.MaxBytesReader(nil, r.Body, limit)

	contentType := r.Header.Get("Content-Type")
	if strings.HasPrefix(contentType, "multipart/form-data") {
		file, _, err := r.FormFile("image")
		if err != nil {
			return nil, errors.New("multipart field \"image\" is required")
		}
		defer file.Close()
		data, err := io.ReadAll(file)
		if err != nil {
			return nil, err
		}
		return data, nil
	}

	data, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, errors.New("request body is empty")
	}
	return data, nil
}

func clampAdjust(v *int, current int) int {
	if v == nil {
		return current
	}
	return min(max(*v, editor.AdjustMin), editor.AdjustMax)
}

func clampGrayscale(v *int, current int) int {
	if v == nil {
		return current
	}
	return min(max(*v, editor.GrayscaleMin), editor.GrayscaleMax)
}
