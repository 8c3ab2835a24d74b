package handlers

import (
	"encoding/json"
	"net/http"
)

type keySelectRequest struct {
	APIKey string `json:"api_key"`
}

// KeyStatus reports whether a usable API key is configured.
func (a *App) KeyStatus(w http.ResponseWriter, r *http.Request) {
	a.json(w, http.StatusOK, map[string]bool{"configured": a.Generator.HasCredential()})
}

// KeySelect completes the key selection flow with the submitted key.
func (a *App) KeySelect(w http.ResponseWriter, r *http.Request) {
	var req keySelectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	if err := a.Generator.SelectCredential(req.APIKey); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "api_key is required")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// KeyClear drops the configured key, returning to the "no credential" state.
func (a *App) KeyClear(w http.ResponseWriter, r *http.Request) {
	a.Generator.ClearCredential()
	w.WriteHeader(http.StatusNoContent)
}
