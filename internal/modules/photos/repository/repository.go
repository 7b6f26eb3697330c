package repository

import (
	"database/sql"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"gaugeboard/internal/modules/photos/types"
)

//go:embed sql/insert-photo.sql
var insertPhotoSQL string

//go:embed sql/get-latest-photo.sql
var getLatestPhotoSQL string

//go:embed sql/get-reading-series.sql
var getReadingSeriesSQL string

//go:embed sql/get-recent-photos.sql
var getRecentPhotosSQL string

//go:embed sql/count-photos.sql
var countPhotosSQL string

// PhotoRepository is the append-only record store. The three read shapes are
// exactly what the dashboard needs; there is no update or delete.
type PhotoRepository interface {
	InsertPhoto(p types.Photo) (int64, error)
	LatestPhoto() (*types.Photo, error)
	ReadingSeries() ([]types.SeriesPoint, error)
	RecentPhotos(limit int) ([]types.Photo, error)
	CountPhotos() (int, error)
}

type repositoryImpl struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) PhotoRepository {
	return &repositoryImpl{db: db}
}

func (r *repositoryImpl) InsertPhoto(p types.Photo) (int64, error) {
	tsStr := p.TakenAt.UTC().Format(time.RFC3339Nano)

	var exifJSON any
	if len(p.CameraMeta) > 0 {
		b, err := json.Marshal(p.CameraMeta)
		if err != nil {
			return 0, fmt.Errorf("marshal camera metadata: %w", err)
		}
		exifJSON = string(b)
	}

	res, err := r.db.Exec(insertPhotoSQL,
		tsStr,
		p.Filename,
		p.ContentHash,
		p.Width,
		p.Height,
		exifJSON,
		nullableFloat(p.TemperatureC),
		nullableFloat(p.HumidityPct),
		p.DeviceModel,
	)
	if err != nil {
		return 0, fmt.Errorf("insert photo: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("insert photo id: %w", err)
	}
	return id, nil
}

func (r *repositoryImpl) LatestPhoto() (*types.Photo, error) {
	row := r.db.QueryRow(getLatestPhotoSQL)
	p, err := scanPhoto(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *repositoryImpl) ReadingSeries() ([]types.SeriesPoint, error) {
	rows, err := r.db.Query(getReadingSeriesSQL)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := rows.Close(); err != nil {
			slog.Error("close series rows", "error", err)
		}
	}()
	var out []types.SeriesPoint
	for rows.Next() {
		var pt types.SeriesPoint
		var ts string
		var temp, hum sql.NullFloat64
		if err := rows.Scan(&ts, &temp, &hum); err != nil {
			return nil, err
		}
		t, err := parseTimestamp(ts)
		if err != nil {
			return nil, err
		}
		pt.TakenAt = t
		pt.TemperatureC = floatPtr(temp)
		pt.HumidityPct = floatPtr(hum)
		out = append(out, pt)
	}
	return out, rows.Err()
}

func (r *repositoryImpl) RecentPhotos(limit int) ([]types.Photo, error) {
	rows, err := r.db.Query(getRecentPhotosSQL, limit)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := rows.Close(); err != nil {
			slog.Error("close recent rows", "error", err)
		}
	}()
	var out []types.Photo
	for rows.Next() {
		p, err := scanPhoto(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

func (r *repositoryImpl) CountPhotos() (int, error) {
	var n int
	err := r.db.QueryRow(countPhotosSQL).Scan(&n)
	return n, err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPhoto(row rowScanner) (*types.Photo, error) {
	var p types.Photo
	var ts string
	var width, height sql.NullInt64
	var exifJSON, deviceModel sql.NullString
	var temp, hum sql.NullFloat64

	if err := row.Scan(&p.ID, &ts, &p.Filename, &p.ContentHash, &width, &height, &exifJSON, &temp, &hum, &deviceModel); err != nil {
		return nil, err
	}

	t, err := parseTimestamp(ts)
	if err != nil {
		return nil, err
	}
	p.TakenAt = t
	p.Width = int(width.Int64)
	p.Height = int(height.Int64)
	p.TemperatureC = floatPtr(temp)
	p.HumidityPct = floatPtr(hum)
	p.DeviceModel = deviceModel.String

	if exifJSON.Valid && exifJSON.String != "" {
		meta := map[string]string{}
		if err := json.Unmarshal([]byte(exifJSON.String), &meta); err != nil {
			return nil, fmt.Errorf("unmarshal camera metadata for photo %d: %w", p.ID, err)
		}
		p.CameraMeta = meta
	}

	return &p, nil
}

func parseTimestamp(ts string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, ts)
	if err != nil {
		var err2 error
		t, err2 = time.Parse(time.RFC3339, ts)
		if err2 != nil {
			return time.Time{}, fmt.Errorf("parse timestamp %q: RFC3339Nano: %w; RFC3339: %w", ts, err, err2)
		}
	}
	return t, nil
}

func floatPtr(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}

func nullableFloat(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}
