package middleware

import (
	"net/http"
	"os"
	"path/filepath"
)

const placeholderSVG = `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 200 200"><rect width="200" height="200" fill="#f0f0f0"/><circle cx="100" cy="78" r="32" fill="#999"/><path d="M40 170c0-33 27-52 60-52s60 19 60 52" fill="#999"/><text x="100" y="192" text-anchor="middle" font-family="Arial" font-size="12" fill="#666">NO IMAGE</text></svg>`

// StaticFileServer serves uploaded files and avatars, answering with a
// placeholder avatar when the requested file is missing.
func StaticFileServer(dir string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := filepath.Join(dir, filepath.Clean(r.URL.Path))

		if _, err := os.Stat(path); err == nil {
			w.Header().Set("Cache-Control", "public, max-age=86400")
			http.ServeFile(w, r, path)
			return
		}

		w.Header().Set("Content-Type", "image/svg+xml")
		w.Header().Set("Cache-Control", "public, max-age=3600")
		w.Write([]byte(placeholderSVG))
	})
}
