package controller

import (
	"net/http"

	"gaugeboard/internal/modules/photos/service"
)

type PhotosController interface {
	RegisterRoutes(mux *http.ServeMux)
}

type photosControllerImpl struct {
	service *service.Service
}

func NewPhotosController(svc *service.Service) PhotosController {
	return &photosControllerImpl{service: svc}
}

func (c *photosControllerImpl) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /", c.handleDashboard)
	mux.HandleFunc("GET /upload", c.handleUploadForm)
	mux.HandleFunc("POST /upload", c.handleUpload)
	mux.HandleFunc("GET /img/{filename}", c.handleImage)
}
