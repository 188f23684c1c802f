package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"gorm.io/gorm"

	"montarreda/internal/httpx"
	"montarreda/internal/models"
	"montarreda/internal/report"
	"montarreda/internal/services"
)

type TimbraturaHandler struct {
	DB  *gorm.DB
	Svc *services.TimbraturaService
}

func NewTimbraturaHandler(db *gorm.DB, svc *services.TimbraturaService) *TimbraturaHandler {
	return &TimbraturaHandler{DB: db, Svc: svc}
}

// Handle routes GET (list) and POST (save) on /timbrature.
func (h *TimbraturaHandler) Handle(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.list(w, r)
	case http.MethodPost:
		h.save(w, r)
	default:
		w.Header().Set("Allow", "GET,POST")
		httpx.JSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
	}
}

// list: GET /timbrature?utente=&data=  (single day)
// or    GET /timbrature?utente=&mese=&anno=  (whole month)
func (h *TimbraturaHandler) list(w http.ResponseWriter, r *http.Request) {
	utente, err := queryUint(r, "utente")
	if err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_utente", nil)
		return
	}
	q := r.URL.Query()
	var out []models.Timbratura
	if q.Get("mese") != "" || q.Get("anno") != "" {
		mese, merr := strconv.Atoi(q.Get("mese"))
		anno, aerr := strconv.Atoi(q.Get("anno"))
		if merr != nil || aerr != nil {
			httpx.JSONError(w, http.StatusBadRequest, "invalid_mese_anno", nil)
			return
		}
		out, err = h.Svc.ListMese(utente, mese, anno)
	} else {
		data := q.Get("data")
		if data == "" {
			httpx.JSONError(w, http.StatusBadRequest, "missing_data", nil)
			return
		}
		out, err = h.Svc.List(utente, data)
	}
	if err != nil {
		if errors.Is(err, services.ErrDataNonValida) {
			httpx.JSONMessage(w, http.StatusBadRequest, "invalid_data", "Formato data non valido. Usa YYYY-MM-DD.")
			return
		}
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_list_timbrature", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, out)
}

// save: POST /timbrature. The replace flag is the explicit "overwrite the
// existing row" confirmation coming back from the UI.
func (h *TimbraturaHandler) save(w http.ResponseWriter, r *http.Request) {
	var req struct {
		services.TimbraturaInput
		Replace bool `json:"replace"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	res, err := h.Svc.Save(req.TimbraturaInput, req.Replace)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrDataNonValida):
			httpx.JSONMessage(w, http.StatusBadRequest, "invalid_data", "Formato data non valido. Usa YYYY-MM-DD.")
		case errors.Is(err, services.ErrOrarioNonValido):
			httpx.JSONMessage(w, http.StatusBadRequest, "invalid_orario", "Formato orario non valido. Usa HH:MM.")
		case errors.Is(err, services.ErrOrarioInvertito):
			httpx.JSONMessage(w, http.StatusBadRequest, "invalid_orario", "L'orario di ingresso deve essere minore di quello di uscita.")
		default:
			httpx.JSONError(w, http.StatusInternalServerError, "failed_to_save_timbratura", nil)
		}
		return
	}
	status := http.StatusOK
	if !res.NeedsConfirmation && !res.Updated {
		status = http.StatusCreated
	}
	httpx.JSON(w, status, map[string]any{
		"message":    res.Message,
		"timbratura": res.Timbratura,
		"modifica":   res.NeedsConfirmation,
	})
}

// Delete: /timbrature/delete?id=
func (h *TimbraturaHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost && r.Method != http.MethodDelete {
		w.Header().Set("Allow", "POST,DELETE")
		httpx.JSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
		return
	}
	id, err := queryUint(r, "id")
	if err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	if err := h.Svc.Delete(id); err != nil {
		if errors.Is(err, services.ErrTimbraturaNonTrovata) {
			httpx.JSONMessage(w, http.StatusNotFound, "not_found", "Timbratura non trovata.")
			return
		}
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_delete_timbratura", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"message": "Timbratura eliminata con successo."})
}

// PDF: GET /timbrature/pdf?utente=&mese=&anno= — the monthly attendance
// sheet as a download.
func (h *TimbraturaHandler) PDF(w http.ResponseWriter, r *http.Request) {
	utente, err := queryUint(r, "utente")
	if err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_utente", nil)
		return
	}
	mese, merr := strconv.Atoi(r.URL.Query().Get("mese"))
	anno, aerr := strconv.Atoi(r.URL.Query().Get("anno"))
	if merr != nil || aerr != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_mese_anno", nil)
		return
	}
	var user models.User
	if err := h.DB.First(&user, utente).Error; err != nil {
		httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
		return
	}
	timbrature, err := h.Svc.ListMese(utente, mese, anno)
	if err != nil {
		if errors.Is(err, services.ErrDataNonValida) {
			httpx.JSONError(w, http.StatusBadRequest, "invalid_mese_anno", nil)
			return
		}
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_list_timbrature", nil)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="timbrature.pdf"`)
	if err := report.Timbrature(w, user, mese, anno, timbrature); err != nil {
		// headers already gone; nothing better to do than log upstream
		_ = err
	}
}

func queryUint(r *http.Request, key string) (uint, error) {
	v, err := strconv.ParseUint(r.URL.Query().Get(key), 10, 32)
	if err != nil || v == 0 {
		if err == nil {
			err = strconv.ErrRange
		}
		return 0, err
	}
	return uint(v), nil
}
