package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

// AssetDownload streams the bytes behind a locally addressable reference.
func (a *App) AssetDownload(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	asset, ok := a.Registry.Get(id)
	if !ok {
		a.error(w, http.StatusNotFound, "not_found", "asset not found")
		return
	}
	w.Header().Set("Content-Type", asset.MIMEType)
	w.Header().Set("Content-Length", strconv.Itoa(len(asset.Data)))
	_, _ = w.Write(asset.Data)
}

// AssetRevoke releases a reference; subsequent downloads 404.
func (a *App) AssetRevoke(w http.ResponseWriter, r *http.Request) {
	a.Registry.Revoke(chi.URLParam(r, "id"))
	w.WriteHeader(http.StatusNoContent)
}
