package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"montarreda/internal/models"
	"montarreda/internal/services"
)

func setupTimbratureTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.Timbratura{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func postTimbratura(t *testing.T, h *TimbraturaHandler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/timbrature", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.Handle(w, req)
	return w
}

func TestTimbratureSaveFlow(t *testing.T) {
	db := setupTimbratureTestDB(t)
	h := NewTimbraturaHandler(db, services.NewTimbraturaService(db))

	// first submission: created
	w := postTimbratura(t, h, `{"id_utente":1,"data":"2025-02-10","orario_ingresso":"08:00","orario_uscita":"16:00"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d body=%s", w.Code, w.Body.String())
	}

	// same day again: blocked pending confirmation
	w2 := postTimbratura(t, h, `{"id_utente":1,"data":"2025-02-10","orario_ingresso":"09:00","orario_uscita":"17:00"}`)
	if w2.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d body=%s", w2.Code, w2.Body.String())
	}
	var resp struct {
		Message    string            `json:"message"`
		Timbratura models.Timbratura `json:"timbratura"`
		Modifica   bool              `json:"modifica"`
	}
	if err := json.Unmarshal(w2.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !resp.Modifica || !strings.Contains(resp.Message, "Esiste già una timbratura") {
		t.Fatalf("unexpected response %+v", resp)
	}

	// confirmed replace: updated in place
	w3 := postTimbratura(t, h, `{"id_utente":1,"data":"2025-02-10","orario_ingresso":"09:00","orario_uscita":"17:00","replace":true}`)
	if w3.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d body=%s", w3.Code, w3.Body.String())
	}
	if !strings.Contains(w3.Body.String(), "aggiornata") {
		t.Fatalf("expected update message: %s", w3.Body.String())
	}

	// list for the day
	listW := httptest.NewRecorder()
	h.Handle(listW, httptest.NewRequest(http.MethodGet, "/timbrature?utente=1&data=2025-02-10", nil))
	if listW.Code != http.StatusOK {
		t.Fatalf("list: expected 200 got %d", listW.Code)
	}
	var list []models.Timbratura
	if err := json.Unmarshal(listW.Body.Bytes(), &list); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(list) != 1 || list[0].OrarioIngresso != "09:00" {
		t.Fatalf("unexpected list %+v", list)
	}
}

func TestTimbratureSaveRejectsInvertedOrari(t *testing.T) {
	db := setupTimbratureTestDB(t)
	h := NewTimbraturaHandler(db, services.NewTimbraturaService(db))

	w := postTimbratura(t, h, `{"id_utente":1,"data":"2025-02-10","orario_ingresso":"16:00","orario_uscita":"08:00"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d body=%s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), "minore di quello di uscita") {
		t.Fatalf("missing validation message: %s", w.Body.String())
	}
}

func TestTimbratureDelete(t *testing.T) {
	db := setupTimbratureTestDB(t)
	h := NewTimbraturaHandler(db, services.NewTimbraturaService(db))

	postTimbratura(t, h, `{"id_utente":1,"data":"2025-02-10","orario_ingresso":"08:00","orario_uscita":"16:00"}`)

	w := httptest.NewRecorder()
	h.Delete(w, httptest.NewRequest(http.MethodDelete, "/timbrature/delete?id=1", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("delete: expected 200 got %d body=%s", w.Code, w.Body.String())
	}
	gone := httptest.NewRecorder()
	h.Delete(gone, httptest.NewRequest(http.MethodDelete, "/timbrature/delete?id=1", nil))
	if gone.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", gone.Code)
	}
}

func TestTimbraturePDFDownload(t *testing.T) {
	db := setupTimbratureTestDB(t)
	user := models.User{FullName: "Giovanni Tarantino", Code: "1111"}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("seed: %v", err)
	}
	h := NewTimbraturaHandler(db, services.NewTimbraturaService(db))
	postTimbratura(t, h, fmt.Sprintf(`{"id_utente":%d,"data":"2025-02-10","orario_ingresso":"08:00","orario_uscita":"16:00"}`, user.ID))

	w := httptest.NewRecorder()
	h.PDF(w, httptest.NewRequest(http.MethodGet, fmt.Sprintf("/timbrature/pdf?utente=%d&mese=2&anno=2025", user.ID), nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d body=%s", w.Code, w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/pdf" {
		t.Fatalf("unexpected content type %q", ct)
	}
	if !strings.HasPrefix(w.Body.String(), "%PDF-") {
		t.Fatalf("body is not a PDF document")
	}
}
