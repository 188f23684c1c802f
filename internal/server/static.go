package server

import (
	"crypto/sha1"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
)

// staticHandler serves ./static with an ETag computed per file and long
// cache lifetimes outside DEV. The files are tiny (shell page, manifest,
// service worker, icons) so hashing on each miss is fine.
func staticHandler() http.Handler {
	fs := http.FileServer(http.Dir("static"))
	return http.StripPrefix("/static/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		name := r.URL.Path
		ext := filepath.Ext(name)
		f, err := os.Open(filepath.Join("static", name))
		if err == nil {
			h := sha1.New()
			if _, cerr := io.Copy(h, f); cerr == nil {
				etag := fmt.Sprintf("\"%x\"", h.Sum(nil)[:8])
				w.Header().Set("ETag", etag)
				if match := r.Header.Get("If-None-Match"); match == etag {
					f.Close()
					w.WriteHeader(http.StatusNotModified)
					return
				}
			}
			f.Close()
		}
		switch ext {
		case ".css":
			w.Header().Set("Content-Type", "text/css; charset=utf-8")
		case ".js":
			w.Header().Set("Content-Type", "application/javascript; charset=utf-8")
		}
		if os.Getenv("DEV") != "1" {
			w.Header().Set("Cache-Control", "public, max-age=86400")
		} else {
			w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
		}
		fs.ServeHTTP(w, r)
	}))
}
