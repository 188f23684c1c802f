package handlers

import (
	"errors"
	"net/http"

	"montarreda/internal/httpx"
	"montarreda/internal/report"
	"montarreda/internal/services"
)

type AttivitaHandler struct {
	Svc *services.AttivitaService
}

func NewAttivitaHandler(svc *services.AttivitaService) *AttivitaHandler {
	return &AttivitaHandler{Svc: svc}
}

func filtersFrom(r *http.Request) services.AttivitaFilters {
	q := r.URL.Query()
	return services.AttivitaFilters{
		DataDa:   q.Get("data_da"),
		DataA:    q.Get("data_a"),
		Commessa: q.Get("commessa"),
	}
}

// Get: GET /attivita?data_da=&data_a=&commessa= — the filtered jobs with
// payment totals and the report summary figures.
func (h *AttivitaHandler) Get(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		httpx.JSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
		return
	}
	lavori, totali, err := h.Svc.Get(filtersFrom(r))
	if err != nil {
		if errors.Is(err, services.ErrDataNonValida) {
			httpx.JSONMessage(w, http.StatusBadRequest, "invalid_data", "Formato data non valido. Usa YYYY-MM-DD.")
			return
		}
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_load_attivita", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"lavori":    lavori,
		"totali":    totali,
		"riepilogo": services.CalcolaRiepilogo(lavori),
	})
}

// PDF: GET /attivita/pdf — same filters, rendered as the downloadable
// report. An empty result is reported to the user instead of producing a
// blank document.
func (h *AttivitaHandler) PDF(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		httpx.JSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
		return
	}
	f := filtersFrom(r)
	lavori, totali, err := h.Svc.Get(f)
	if err != nil {
		if errors.Is(err, services.ErrDataNonValida) {
			httpx.JSONMessage(w, http.StatusBadRequest, "invalid_data", "Formato data non valido. Usa YYYY-MM-DD.")
			return
		}
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_load_attivita", nil)
		return
	}
	if len(lavori) == 0 {
		httpx.JSONMessage(w, http.StatusNotFound, "no_activity", "Nessuna attività trovata per il periodo selezionato.")
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="attivita.pdf"`)
	if err := report.Attivita(w, f.DataDa, f.DataA, lavori, totali, services.CalcolaRiepilogo(lavori)); err != nil {
		// headers already written; the client sees a truncated download
		_ = err
	}
}
