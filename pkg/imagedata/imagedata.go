// Package imagedata turns stored picture bytes into data URIs the browser can
// render inline.
package imagedata

import (
	"encoding/base64"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

var allowed = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

// Legacy rows were written base64-encoded into the bytea column.
func decodeLegacy(raw []byte) []byte {
	s := strings.TrimSpace(string(raw))
	if s == "" {
		return nil
	}
	decoded, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil
	}
	return decoded
}

// DetectImage returns the image MIME type of raw, or "" when raw is not an
// image format browsers render.
func DetectImage(raw []byte) string {
	if len(raw) == 0 {
		return ""
	}
	mt := mimetype.Detect(raw)
	for m := mt; m != nil; m = m.Parent() {
		if allowed[m.String()] {
			return m.String()
		}
	}
	return ""
}

// DataURI encodes raw as a data URI. Empty or unrecognized input yields nil so
// the view renders its placeholder.
func DataURI(raw []byte) *string {
	if len(raw) == 0 {
		return nil
	}
	mime := DetectImage(raw)
	if mime == "" {
		legacy := decodeLegacy(raw)
		if legacy == nil {
			return nil
		}
		if mime = DetectImage(legacy); mime == "" {
			return nil
		}
		raw = legacy
	}
	uri := "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(raw)
	return &uri
}
