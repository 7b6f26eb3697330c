package controller

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"

	"gaugeboard/internal/modules/photos/service"
	"gaugeboard/internal/modules/photos/views"
	"gaugeboard/internal/utils"
)

const maxUploadBytes = 32 << 20 // 32 MiB

func (c *photosControllerImpl) handleDashboard(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	dash, err := c.service.Dashboard()
	if err != nil {
		slog.Error("dashboard: store queries failed", "error", err)
		utils.WriteError(w, http.StatusInternalServerError, "failed to load dashboard data")
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := views.RenderDashboard(w, views.BuildDashboardData(dash)); err != nil {
		slog.Error("dashboard template render failed", "error", err)
		utils.WriteError(w, http.StatusInternalServerError, "failed to render page")
		return
	}
}

func (c *photosControllerImpl) handleUploadForm(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := views.RenderUpload(w); err != nil {
		slog.Error("upload template render failed", "error", err)
		utils.WriteError(w, http.StatusInternalServerError, "failed to render page")
		return
	}
}

func (c *photosControllerImpl) handleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)

	file, header, err := r.FormFile("photo")
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, "missing 'photo' form file")
		return
	}
	defer func() {
		if err := file.Close(); err != nil {
			slog.Error("close upload file", "error", err)
		}
	}()

	// Declared-type check happens before any side effect.
	if ct := header.Header.Get("Content-Type"); !strings.HasPrefix(ct, "image/") {
		utils.WriteError(w, http.StatusBadRequest, "upload must be an image")
		return
	}

	raw, err := io.ReadAll(file)
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, "failed to read upload")
		return
	}

	photo, err := c.service.ProcessUpload(r.Context(), raw)
	if err != nil {
		if errors.Is(err, service.ErrNotAnImage) {
			utils.WriteError(w, http.StatusBadRequest, "upload must be a decodable image")
			return
		}
		slog.Error("upload processing failed", "error", err)
		utils.WriteError(w, http.StatusInternalServerError, "failed to process upload")
		return
	}

	slog.Debug("upload accepted", "id", photo.ID, "filename", photo.Filename)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (c *photosControllerImpl) handleImage(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("filename")
	path, ok := c.service.ImagePath(name)
	if !ok {
		utils.WriteError(w, http.StatusNotFound, "image not found")
		return
	}

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			utils.WriteError(w, http.StatusNotFound, "image not found")
			return
		}
		slog.Error("open stored image failed", "filename", name, "error", err)
		utils.WriteError(w, http.StatusInternalServerError, "failed to open image")
		return
	}
	defer func() {
		if err := f.Close(); err != nil {
			slog.Error("close stored image", "filename", name, "error", err)
		}
	}()

	w.Header().Set("Content-Type", "image/jpeg")
	if _, err := io.Copy(w, f); err != nil {
		slog.Error("write image response failed", "filename", name, "error", err)
	}
}
