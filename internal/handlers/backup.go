package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"montarreda/internal/httpx"
	"montarreda/internal/services"
)

type BackupHandler struct {
	Svc *services.BackupService
}

func NewBackupHandler(svc *services.BackupService) *BackupHandler {
	return &BackupHandler{Svc: svc}
}

// Export: GET /backup/export — the whole store as a downloadable JSON
// snapshot, named after today's date.
func (h *BackupHandler) Export(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		httpx.JSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
		return
	}
	doc, err := h.Svc.Export()
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_export", nil)
		return
	}
	body, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_export", nil)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="`+services.Filename(time.Now())+`"`)
	if _, err := w.Write(body); err != nil {
		_ = err
	}
}

// Import: POST /backup/import — restores an uploaded snapshot. The
// destructive overwrite only happens with confirm=true, which the UI
// sends after the user accepts the warning dialog; otherwise the request
// is answered with a non-error cancellation.
func (h *BackupHandler) Import(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		httpx.JSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
		return
	}
	raw, confirmed, err := readBackupUpload(r)
	if err != nil {
		httpx.JSONMessage(w, http.StatusBadRequest, "invalid_upload", "Errore nella lettura del file")
		return
	}
	doc, err := services.ParseBackup(raw)
	if err != nil {
		httpx.JSONMessage(w, http.StatusBadRequest, "invalid_backup", "File di backup non valido")
		return
	}
	res, err := h.Svc.Import(doc, confirmed)
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_import", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"success": res.Confirmed,
		"message": res.Message,
	})
}

// readBackupUpload accepts either a multipart upload (field "file",
// confirmation in the "confirm" form value) or a raw JSON body with the
// confirmation in the query string.
func readBackupUpload(r *http.Request) (raw []byte, confirmed bool, err error) {
	ct := r.Header.Get("Content-Type")
	if len(ct) >= 19 && ct[:19] == "multipart/form-data" {
		if err := r.ParseMultipartForm(16 << 20); err != nil {
			return nil, false, err
		}
		f, _, err := r.FormFile("file")
		if err != nil {
			return nil, false, err
		}
		defer f.Close()
		raw, err = io.ReadAll(f)
		if err != nil {
			return nil, false, err
		}
		confirmed, _ = strconv.ParseBool(r.FormValue("confirm"))
		return raw, confirmed, nil
	}
	raw, err = io.ReadAll(r.Body)
	if err != nil {
		return nil, false, err
	}
	if len(raw) == 0 {
		return nil, false, errors.New("empty body")
	}
	confirmed, _ = strconv.ParseBool(r.URL.Query().Get("confirm"))
	return raw, confirmed, nil
}
