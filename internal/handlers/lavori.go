package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"gorm.io/gorm"

	"montarreda/internal/httpx"
	"montarreda/internal/models"
)

type LavoroHandler struct{ DB *gorm.DB }

func NewLavoroHandler(db *gorm.DB) *LavoroHandler { return &LavoroHandler{DB: db} }

// Handle routes GET (list by day) and POST (insert) on /lavori.
func (h *LavoroHandler) Handle(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.list(w, r)
	case http.MethodPost:
		h.create(w, r)
	default:
		w.Header().Set("Allow", "GET,POST")
		httpx.JSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
	}
}

// list: GET /lavori?data=YYYY-MM-DD
func (h *LavoroHandler) list(w http.ResponseWriter, r *http.Request) {
	data := r.URL.Query().Get("data")
	if _, err := time.Parse("2006-01-02", data); err != nil {
		httpx.JSONMessage(w, http.StatusBadRequest, "invalid_data", "Formato data non valido. Usa YYYY-MM-DD.")
		return
	}
	var lavori []models.Lavoro
	if err := h.DB.Where("data = ?", data).Order("id asc").Find(&lavori).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_list_lavori", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, lavori)
}

// create: POST /lavori — unconditional insert, no dedup for jobs.
func (h *LavoroHandler) create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Data          string  `json:"data"`
		Cliente       string  `json:"cliente"`
		Contratto     float64 `json:"contratto"`
		Saldato       float64 `json:"saldato"`
		Commessa      string  `json:"commessa"`
		Saldo         string  `json:"saldo"`
		ExtraConsegna float64 `json:"extra_consegna"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	if _, err := time.Parse("2006-01-02", req.Data); err != nil {
		httpx.JSONMessage(w, http.StatusBadRequest, "invalid_data", "Formato data non valido. Usa YYYY-MM-DD.")
		return
	}
	details := map[string]string{}
	if req.Cliente == "" {
		details["cliente"] = "required"
	}
	if req.Contratto < 0 || req.Saldato < 0 || req.ExtraConsegna < 0 {
		details["importi"] = "must_be_non_negative"
	}
	if !models.SaldoRiconosciuto(req.Saldo) {
		details["saldo"] = "unknown_method"
	}
	if len(details) > 0 {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", details)
		return
	}
	lavoro := models.Lavoro{
		Data:          req.Data,
		Cliente:       req.Cliente,
		Contratto:     req.Contratto,
		Saldato:       req.Saldato,
		Commessa:      req.Commessa,
		Saldo:         req.Saldo,
		ExtraConsegna: req.ExtraConsegna,
	}
	if err := h.DB.Create(&lavoro).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_create_lavoro", nil)
		return
	}
	httpx.JSON(w, http.StatusCreated, map[string]any{
		"message": "Lavoro registrato con successo!",
		"lavoro":  lavoro,
	})
}

// Delete: /lavori/delete?id=
func (h *LavoroHandler) Delete(w http.ResponseWriter, r *http.Request) {
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
	res := h.DB.Delete(&models.Lavoro{}, id)
	if res.Error != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_delete_lavoro", nil)
		return
	}
	if res.RowsAffected == 0 {
		httpx.JSONMessage(w, http.StatusNotFound, "not_found", "Lavoro non trovato")
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"message": "Lavoro eliminato con successo!"})
}
