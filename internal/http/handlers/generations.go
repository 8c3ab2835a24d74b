package handlers

import (
	"errors"
	"net/http"
	"time"

	"stillmotion/internal/assets"
	"stillmotion/internal/middleware"
	"stillmotion/internal/service"
	"stillmotion/internal/videogen"
)

const maxUploadBytes = 32 << 20

type assetResponse struct {
	ID        string    `json:"id"`
	URL       string    `json:"url"`
	MIME      string    `json:"mime"`
	Prompt    string    `json:"prompt"`
	CreatedAt time.Time `json:"created_at"`
}

// GenerationsCreate accepts a multipart form with an image file plus
// optional prompt, aspect_ratio and resolution fields, runs the generation
// synchronously and returns the resulting asset reference. Only one
// generation runs at a time.
func (a *App) GenerationsCreate(w http.ResponseWriter, r *http.Request) {
	if !a.generating.CompareAndSwap(false, true) {
		a.error(w, http.StatusConflict, "busy", "a generation is already in progress")
		return
	}
	defer a.generating.Store(false)

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid multipart payload")
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		a.error(w, http.StatusBadRequest, "image_required", "an image file is required")
		return
	}
	defer file.Close()

	encoded, err := assets.EncodeImage(file, header.Header.Get("Content-Type"))
	if err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "could not read image upload")
		return
	}

	aspect := videogen.AspectRatio(r.FormValue("aspect_ratio"))
	if aspect != "" && !aspect.Valid() {
		a.error(w, http.StatusBadRequest, "bad_request", "aspect_ratio must be 16:9 or 9:16")
		return
	}
	resolution := videogen.Resolution(r.FormValue("resolution"))
	if resolution != "" && !resolution.Valid() {
		a.error(w, http.StatusBadRequest, "bad_request", "resolution must be 720p or 1080p")
		return
	}

	asset, err := a.Generator.Generate(r.Context(), service.Params{
		Prompt:      r.FormValue("prompt"),
		Image:       &videogen.SourceImage{Data: encoded.Data, MIMEType: encoded.MIMEType},
		AspectRatio: aspect,
		Resolution:  resolution,
	})
	if err != nil {
		a.generationError(w, r, err)
		return
	}

	a.json(w, http.StatusCreated, assetResponse{
		ID:        asset.ID,
		URL:       "/v1/assets/" + asset.ID,
		MIME:      asset.MIMEType,
		Prompt:    asset.Prompt,
		CreatedAt: asset.CreatedAt,
	})
}

func (a *App) generationError(w http.ResponseWriter, r *http.Request, err error) {
	locale := middleware.LocaleFromContext(r.Context())

	switch {
	case errors.Is(err, service.ErrImageRequired):
		a.error(w, http.StatusBadRequest, "image_required", "an image file is required")
	case errors.Is(err, videogen.ErrCredentialMissing):
		a.error(w, http.StatusUnauthorized, "credential_missing", keyMissing(locale))
	case videogen.IsCredentialError(err):
		a.Logger.Warn().Err(err).Msg("handlers: credential rejected by provider")
		a.error(w, http.StatusUnauthorized, "credential_rejected", keyRemediation(locale))
	default:
		// Provider messages pass through unmodified so the caller can render them.
		a.Logger.Error().Err(err).Msg("handlers: generation failed")
		a.error(w, http.StatusBadGateway, "generation_failed", err.Error())
	}
}
