// Package exifmeta extracts camera metadata from raw image bytes.
package exifmeta

import (
	"bytes"
	"strings"

	"github.com/rwcarlsen/goexif/exif"
	"github.com/rwcarlsen/goexif/tiff"
)

// Tags returns a tag-name to string-value map for every EXIF field in raw.
// Images without EXIF data (or with undecodable EXIF) yield an empty map,
// never an error; byte-valued tags are coerced to strings with invalid
// UTF-8 sequences dropped.
func Tags(raw []byte) map[string]string {
	out := map[string]string{}
	x, err := exif.Decode(bytes.NewReader(raw))
	if err != nil {
		return out
	}
	w := &tagWalker{tags: out}
	_ = x.Walk(w)
	return out
}

type tagWalker struct {
	tags map[string]string
}

func (w *tagWalker) Walk(name exif.FieldName, tag *tiff.Tag) error {
	if v, err := tag.StringVal(); err == nil {
		w.tags[string(name)] = strings.ToValidUTF8(v, "")
		return nil
	}
	// Numeric and rational tags: the tiff string form, unquoted.
	w.tags[string(name)] = strings.Trim(tag.String(), `"`)
	return nil
}

// DeviceModel derives the capturing device from the tag map: the Model tag
// is preferred, Make is the fallback, absent both it is the empty string.
func DeviceModel(tags map[string]string) string {
	if m := tags["Model"]; m != "" {
		return strings.TrimSpace(m)
	}
	return strings.TrimSpace(tags["Make"])
}
