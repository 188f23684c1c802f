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

	"montarreda/internal/auth"
	"montarreda/internal/models"
)

func setupAuthTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func TestLoginWrongCode(t *testing.T) {
	db := setupAuthTestDB(t)
	if err := db.Create(&models.User{FullName: "Giovanni Tarantino", Code: "1111"}).Error; err != nil {
		t.Fatalf("seed: %v", err)
	}
	h := NewAuthHandler(db)
	mux := http.NewServeMux()
	h.Register(mux)

	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(`{"code":"4321"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d body=%s", w.Code, w.Body.String())
	}
	var resp loginResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Success || resp.Message != "Codice errato" {
		t.Fatalf("unexpected response %+v", resp)
	}
	if len(w.Result().Cookies()) != 0 {
		t.Fatalf("no session must be persisted on failed login")
	}
}

func TestLoginSuccessSetsSession(t *testing.T) {
	db := setupAuthTestDB(t)
	user := models.User{FullName: "Giovanni Tarantino", Code: "1111"}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("seed: %v", err)
	}
	h := NewAuthHandler(db)
	mux := http.NewServeMux()
	h.Register(mux)

	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(`{"code":"1111"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d body=%s", w.Code, w.Body.String())
	}
	var resp loginResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !resp.Success || resp.User == nil || resp.User.ID != user.ID {
		t.Fatalf("unexpected response %+v", resp)
	}
	cookies := w.Result().Cookies()
	if len(cookies) == 0 {
		t.Fatalf("expected session cookie")
	}

	// the cookie resolves back to the user via /session
	sessReq := httptest.NewRequest(http.MethodGet, "/session", nil)
	sessReq.AddCookie(cookies[0])
	sessW := httptest.NewRecorder()
	auth.Middleware(mux).ServeHTTP(sessW, sessReq)
	if sessW.Code != http.StatusOK {
		t.Fatalf("session: expected 200 got %d body=%s", sessW.Code, sessW.Body.String())
	}
	var sess struct {
		User models.User `json:"user"`
	}
	if err := json.Unmarshal(sessW.Body.Bytes(), &sess); err != nil {
		t.Fatalf("decode session: %v", err)
	}
	if sess.User.ID != user.ID || sess.User.FullName != user.FullName {
		t.Fatalf("unexpected session user %+v", sess.User)
	}
}

func TestSessionWithoutCookie(t *testing.T) {
	db := setupAuthTestDB(t)
	h := NewAuthHandler(db)
	mux := http.NewServeMux()
	h.Register(mux)

	req := httptest.NewRequest(http.MethodGet, "/session", nil)
	w := httptest.NewRecorder()
	auth.Middleware(mux).ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", w.Code)
	}
}

func TestUsersListHidesCodes(t *testing.T) {
	db := setupAuthTestDB(t)
	for _, u := range []models.User{
		{FullName: "Carlo D'Elia", Code: "0000"},
		{FullName: "Giovanni Tarantino", Code: "1111"},
	} {
		if err := db.Create(&u).Error; err != nil {
			t.Fatalf("seed: %v", err)
		}
	}
	uh := NewUserHandler(db)

	req := httptest.NewRequest(http.MethodGet, "/users", nil)
	w := httptest.NewRecorder()
	uh.List(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", w.Code)
	}
	var out []UserSummary
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("expected 2 users got %d", len(out))
	}
	if strings.Contains(w.Body.String(), `"code"`) {
		t.Fatalf("login codes must not appear in the list: %s", w.Body.String())
	}
}
