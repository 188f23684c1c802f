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
)

func setupLavoriTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(&models.Lavoro{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func TestLavoriCreateListDelete(t *testing.T) {
	db := setupLavoriTestDB(t)
	h := NewLavoroHandler(db)

	body := `{"data":"2025-03-10","cliente":"Rossi","contratto":1200,"saldato":800,"commessa":"MOV","saldo":"Contanti","extra_consegna":25}`
	req := httptest.NewRequest(http.MethodPost, "/lavori", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.Handle(w, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("create: expected 201 got %d body=%s", w.Code, w.Body.String())
	}
	var created struct {
		Message string        `json:"message"`
		Lavoro  models.Lavoro `json:"lavoro"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if created.Message != "Lavoro registrato con successo!" || created.Lavoro.ID == 0 {
		t.Fatalf("unexpected response %+v", created)
	}

	// list by day
	listW := httptest.NewRecorder()
	h.Handle(listW, httptest.NewRequest(http.MethodGet, "/lavori?data=2025-03-10", nil))
	if listW.Code != http.StatusOK {
		t.Fatalf("list: expected 200 got %d", listW.Code)
	}
	var lavori []models.Lavoro
	if err := json.Unmarshal(listW.Body.Bytes(), &lavori); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(lavori) != 1 || lavori[0].Cliente != "Rossi" {
		t.Fatalf("unexpected list %+v", lavori)
	}

	// another day is empty
	emptyW := httptest.NewRecorder()
	h.Handle(emptyW, httptest.NewRequest(http.MethodGet, "/lavori?data=2025-03-11", nil))
	if emptyW.Code != http.StatusOK || strings.TrimSpace(emptyW.Body.String()) != "[]" {
		t.Fatalf("expected empty list, got %d %s", emptyW.Code, emptyW.Body.String())
	}

	// delete, then delete again
	delW := httptest.NewRecorder()
	h.Delete(delW, httptest.NewRequest(http.MethodDelete, fmt.Sprintf("/lavori/delete?id=%d", created.Lavoro.ID), nil))
	if delW.Code != http.StatusOK {
		t.Fatalf("delete: expected 200 got %d body=%s", delW.Code, delW.Body.String())
	}
	goneW := httptest.NewRecorder()
	h.Delete(goneW, httptest.NewRequest(http.MethodDelete, fmt.Sprintf("/lavori/delete?id=%d", created.Lavoro.ID), nil))
	if goneW.Code != http.StatusNotFound {
		t.Fatalf("expected 404 on second delete, got %d", goneW.Code)
	}
	if !strings.Contains(goneW.Body.String(), "Lavoro non trovato") {
		t.Fatalf("missing message: %s", goneW.Body.String())
	}
}

func TestLavoriCreateValidation(t *testing.T) {
	db := setupLavoriTestDB(t)
	h := NewLavoroHandler(db)

	cases := map[string]string{
		"bad date":       `{"data":"10/03/2025","cliente":"Rossi","saldo":"Contanti"}`,
		"missing client": `{"data":"2025-03-10","cliente":"","saldo":"Contanti"}`,
		"unknown saldo":  `{"data":"2025-03-10","cliente":"Rossi","saldo":"Baratto"}`,
		"negative":       `{"data":"2025-03-10","cliente":"Rossi","saldo":"Contanti","contratto":-5}`,
	}
	for name, body := range cases {
		req := httptest.NewRequest(http.MethodPost, "/lavori", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		h.Handle(w, req)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400 got %d body=%s", name, w.Code, w.Body.String())
		}
	}

	var count int64
	db.Model(&models.Lavoro{}).Count(&count)
	if count != 0 {
		t.Fatalf("rejected payloads must not be stored, found %d rows", count)
	}
}
