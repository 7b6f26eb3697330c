// Package imagestore persists uploaded gauge photos under content-addressed
// names: <UTC timestamp>_<first 8 hex chars of the sha256 of the raw upload>.jpg.
// Images are always re-encoded to RGB JPEG at a fixed quality, so the stored
// copy is normalized regardless of the uploaded format.
package imagestore

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"github.com/disintegration/imaging"
)

const (
	jpegQuality     = 90
	timestampLayout = "20060102_150405"
)

// Stored names are the only thing /img/{filename} will serve; anything else
// (dotfiles, traversal attempts) is rejected up front.
var storedNameRe = regexp.MustCompile(`^\d{8}_\d{6}_[0-9a-f]{8}\.jpg$`)

type Store struct {
	dir string
}

func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("mkdir %s: %w", dir, err)
	}
	return &Store{dir: dir}, nil
}

// HashBytes returns the hex-encoded sha256 digest of the raw upload.
func HashBytes(raw []byte) string {
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:])
}

// Filename derives the stored name from the content hash and processing time.
// Two uploads collide only with an identical hash prefix within the same
// second; that residual risk is accepted and not guarded.
func Filename(hash string, now time.Time) string {
	return fmt.Sprintf("%s_%s.jpg", now.UTC().Format(timestampLayout), hash[:8])
}

// Save re-encodes img as JPEG under the derived name and returns that name.
func (s *Store) Save(img image.Image, hash string, now time.Time) (string, error) {
	name := Filename(hash, now)
	if err := imaging.Save(img, filepath.Join(s.dir, name), imaging.JPEGQuality(jpegQuality)); err != nil {
		return "", fmt.Errorf("save %s: %w", name, err)
	}
	return name, nil
}

// ValidName reports whether name has the shape of a stored photo name.
func ValidName(name string) bool {
	return storedNameRe.MatchString(name)
}

// Path returns the on-disk location of a stored name.
func (s *Store) Path(name string) string {
	return filepath.Join(s.dir, name)
}
