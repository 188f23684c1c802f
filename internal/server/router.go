package server

import (
	"context"
	"net/http"

	"gorm.io/gorm"

	"montarreda/internal/auth"
	"montarreda/internal/handlers"
	"montarreda/internal/httpx"
	"montarreda/internal/models"
	"montarreda/internal/services"
)

// New constructs the root http.Handler with all routes and middlewares
// applied.
func New(db *gorm.DB) http.Handler {
	mux := http.NewServeMux()

	// Configure a user verifier so RequireAuth can ensure the user still exists.
	auth.SetUserVerifier(func(_ context.Context, uid uint) bool {
		var count int64
		if err := db.Model(&models.User{}).Where("id = ?", uid).Limit(1).Count(&count).Error; err != nil {
			return false
		}
		return count > 0
	})

	// --- Health endpoints ---
	//revive:disable:unused-parameter simple handlers intentionally ignore *http.Request
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		// Lightweight DB check; the body never carries error details.
		if err := db.Exec("SELECT 1").Error; err != nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			if _, werr := w.Write([]byte(`{"status":"degraded"}`)); werr != nil {
				_ = werr
			}
			return
		}
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// Session endpoints: login/logout stay open, /session resolves the cookie.
	authHandler := handlers.NewAuthHandler(db)
	authHandler.Register(mux)

	requireAuth := func(h http.HandlerFunc) http.Handler {
		return auth.RequireAuth(h)
	}

	uh := handlers.NewUserHandler(db)
	mux.Handle("/users", requireAuth(uh.List))

	tSvc := services.NewTimbraturaService(db)
	th := handlers.NewTimbraturaHandler(db, tSvc)
	mux.Handle("/timbrature", requireAuth(th.Handle))
	mux.Handle("/timbrature/delete", requireAuth(th.Delete))
	mux.Handle("/timbrature/pdf", requireAuth(th.PDF))

	lh := handlers.NewLavoroHandler(db)
	mux.Handle("/lavori", requireAuth(lh.Handle))
	mux.Handle("/lavori/delete", requireAuth(lh.Delete))

	aSvc := services.NewAttivitaService(db)
	ah := handlers.NewAttivitaHandler(aSvc)
	mux.Handle("/attivita", requireAuth(ah.Get))
	mux.Handle("/attivita/pdf", requireAuth(ah.PDF))

	bSvc := services.NewBackupService(db)
	bh := handlers.NewBackupHandler(bSvc)
	mux.Handle("/backup/export", requireAuth(bh.Export))
	mux.Handle("/backup/import", requireAuth(bh.Import))

	// Static assets for the PWA shell (manifest, service worker, icons).
	// Offline caching itself runs in the browser; this side only has to
	// host the files with sane cache headers.
	mux.Handle("/static/", staticHandler())

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
			return
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		if _, werr := w.Write([]byte("Montarreda API")); werr != nil {
			_ = werr
		}
	})
	//revive:enable:unused-parameter

	return auth.Middleware(withRecover(mux))
}

func withRecover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				httpx.JSONError(w, http.StatusInternalServerError, "internal_error", nil)
			}
		}()
		next.ServeHTTP(w, r)
	})
}
