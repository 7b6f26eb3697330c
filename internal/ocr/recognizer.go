// Package ocr turns gauge photos into structured readings: an optional
// recognition backend produces a text transcription, and a layered parser
// pulls temperature and humidity values out of that text.
package ocr

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"log/slog"
	"os/exec"

	"github.com/disintegration/imaging"

	"gaugeboard/internal/config"
)

// Pixels brighter than this luminance become white, the rest black. Tuned
// for the segment-display fonts common on gauge panels.
const luminanceThreshold = 150

// Recognizer is the optional transcription capability. Both variants are
// used identically by the pipeline; the absent one just never produces text.
type Recognizer interface {
	ReadText(ctx context.Context, img image.Image) (string, error)
}

// Disabled is the absent variant of the capability.
type Disabled struct{}

func (Disabled) ReadText(context.Context, image.Image) (string, error) {
	return "", nil
}

// Tesseract shells out to the tesseract binary, feeding it the preprocessed
// image on stdin.
type Tesseract struct {
	binary string
}

func NewTesseract(path string) (*Tesseract, error) {
	bin, err := exec.LookPath(path)
	if err != nil {
		return nil, err
	}
	return &Tesseract{binary: bin}, nil
}

func (t *Tesseract) ReadText(ctx context.Context, img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, Preprocess(img), imaging.PNG); err != nil {
		return "", err
	}

	cmd := exec.CommandContext(ctx, t.binary, "stdin", "stdout")
	cmd.Stdin = &buf
	out, err := cmd.Output()
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// FromConfig picks the recognizer variant once at startup: disabled by
// config, disabled because the binary is missing, or live. Callers never
// branch on which one they got.
func FromConfig(cfg config.Config) Recognizer {
	if !cfg.OCREnabled {
		return Disabled{}
	}
	t, err := NewTesseract(cfg.TesseractPath)
	if err != nil {
		slog.Warn("ocr requested but tesseract not found (continuing without recognition)",
			"path", cfg.TesseractPath, "error", err)
		return Disabled{}
	}
	slog.Info("ocr recognition enabled", "binary", t.binary)
	return t
}

// Preprocess converts the photo to single-channel grayscale and binarizes it
// with a fixed luminance cutoff before recognition.
func Preprocess(img image.Image) *image.NRGBA {
	gray := imaging.Grayscale(img)
	return imaging.AdjustFunc(gray, func(c color.NRGBA) color.NRGBA {
		if c.R > luminanceThreshold {
			return color.NRGBA{R: 255, G: 255, B: 255, A: c.A}
		}
		return color.NRGBA{R: 0, G: 0, B: 0, A: c.A}
	})
}
