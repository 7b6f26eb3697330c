package photos

import (
	"database/sql"
	"net/http"

	"gaugeboard/internal/imagestore"
	"gaugeboard/internal/modules/photos/controller"
	"gaugeboard/internal/modules/photos/repository"
	"gaugeboard/internal/modules/photos/service"
	"gaugeboard/internal/ocr"
)

// RegisterFeature wires the photos module onto the mux and returns the
// service so other ingest paths (MQTT) can reuse the same pipeline.
func RegisterFeature(mux *http.ServeMux, db *sql.DB, store *imagestore.Store, recognizer ocr.Recognizer) *service.Service {
	photoRepository := repository.NewRepository(db)
	photoService := service.New(photoRepository, store, recognizer)
	photosController := controller.NewPhotosController(photoService)
	photosController.RegisterRoutes(mux)
	return photoService
}
