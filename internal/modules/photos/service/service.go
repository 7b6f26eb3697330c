// Package service runs the upload pipeline: decode, hash, extract metadata,
// best-effort recognition, persist the file, insert the record.
package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"time"

	"github.com/disintegration/imaging"

	"gaugeboard/internal/exifmeta"
	"gaugeboard/internal/imagestore"
	"gaugeboard/internal/modules/photos/repository"
	"gaugeboard/internal/modules/photos/types"
	"gaugeboard/internal/ocr"
)

// ErrNotAnImage marks payloads that cannot be decoded as an image; the HTTP
// boundary reports these as client errors.
var ErrNotAnImage = errors.New("payload is not a decodable image")

const recentTableSize = 20

type Service struct {
	repo       repository.PhotoRepository
	store      *imagestore.Store
	recognizer ocr.Recognizer
}

func New(repo repository.PhotoRepository, store *imagestore.Store, recognizer ocr.Recognizer) *Service {
	return &Service{repo: repo, store: store, recognizer: recognizer}
}

// ProcessUpload turns one raw image payload into a stored file plus a photo
// record. Each call is a self-contained unit of work; the file is written
// before the row is inserted, and a crash between the two leaves an orphaned
// file with no record (accepted, no compensating cleanup).
func (s *Service) ProcessUpload(ctx context.Context, raw []byte) (types.Photo, error) {
	img, err := imaging.Decode(bytes.NewReader(raw))
	if err != nil {
		return types.Photo{}, fmt.Errorf("%w: %v", ErrNotAnImage, err)
	}

	hash := imagestore.HashBytes(raw)
	now := time.Now().UTC()

	meta := exifmeta.Tags(raw)
	deviceModel := exifmeta.DeviceModel(meta)

	temp, hum := s.readGauge(ctx, img)

	filename, err := s.store.Save(img, hash, now)
	if err != nil {
		return types.Photo{}, fmt.Errorf("store image: %w", err)
	}

	bounds := img.Bounds()
	photo := types.Photo{
		TakenAt:      now,
		Filename:     filename,
		ContentHash:  hash,
		Width:        bounds.Dx(),
		Height:       bounds.Dy(),
		CameraMeta:   meta,
		TemperatureC: temp,
		HumidityPct:  hum,
		DeviceModel:  deviceModel,
	}

	id, err := s.repo.InsertPhoto(photo)
	if err != nil {
		return types.Photo{}, fmt.Errorf("insert record: %w", err)
	}
	photo.ID = id

	slog.Info("photo processed",
		"id", id,
		"filename", filename,
		"width", photo.Width,
		"height", photo.Height,
		"has_temperature", temp != nil,
		"has_humidity", hum != nil,
	)
	return photo, nil
}

// readGauge runs recognition and parsing. Failures of the backend are fully
// absorbed here: the upload continues with no reading, never an error.
func (s *Service) readGauge(ctx context.Context, img image.Image) (temp, hum *float64) {
	text, err := s.recognizer.ReadText(ctx, img)
	if err != nil {
		slog.Warn("recognition failed (continuing without reading)", "error", err)
		return nil, nil
	}
	if text == "" {
		return nil, nil
	}
	return ocr.ParseReading(text)
}

// Dashboard composes the three record-store queries for the render boundary.
// An empty store yields a nil latest, empty series and empty table.
func (s *Service) Dashboard() (types.Dashboard, error) {
	latest, err := s.repo.LatestPhoto()
	if err != nil {
		return types.Dashboard{}, fmt.Errorf("latest photo: %w", err)
	}
	series, err := s.repo.ReadingSeries()
	if err != nil {
		return types.Dashboard{}, fmt.Errorf("reading series: %w", err)
	}
	recent, err := s.repo.RecentPhotos(recentTableSize)
	if err != nil {
		return types.Dashboard{}, fmt.Errorf("recent photos: %w", err)
	}
	return types.Dashboard{Latest: latest, Series: series, Recent: recent}, nil
}

// ImagePath resolves a stored filename for the retrieval boundary, rejecting
// names that do not match the generated shape.
func (s *Service) ImagePath(name string) (string, bool) {
	if !imagestore.ValidName(name) {
		return "", false
	}
	return s.store.Path(name), true
}
