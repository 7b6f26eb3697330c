package httpapi

import (
	"database/sql"
	"log/slog"
	"net/http"
	"os"
)

func NewMux(db *sql.DB, staticDir string) *http.ServeMux {
	mux := http.NewServeMux()
	registerHealthcheck(mux, db)
	registerStatic(mux, staticDir)
	return mux
}

// registerStatic mounts /static/ only when the directory exists; the app is
// fully functional without static assets.
func registerStatic(mux *http.ServeMux, dir string) {
	if dir == "" {
		return
	}
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		slog.Debug("static dir not found, skipping /static/", "dir", dir)
		return
	}
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.Dir(dir))))
}
