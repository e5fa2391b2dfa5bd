package httpapi

import (
	"encoding/json"
	"mime"
	"net/http"

	"github.com/go-faster/errors"
	"github.com/go-playground/form"
)

const maxBodyBytes = 1 << 20

var formDecoder = form.NewDecoder()

var ErrUnsupportedMediaType = errors.New("unsupported media type")

// DecodeBody fills dst from a JSON or url-encoded form body. Form fields are
// matched through `form` struct tags.
func DecodeBody(r *http.Request, dst any) error {
	ct := r.Header.Get("Content-Type")
	mediaType := "application/json"
	if ct != "" {
		parsed, _, err := mime.ParseMediaType(ct)
		if err != nil {
			return errors.Wrap(ErrUnsupportedMediaType, ct)
		}
		mediaType = parsed
	}
	r.Body = http.MaxBytesReader(nil, r.Body, maxBodyBytes)

	switch mediaType {
	case "application/json":
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(dst); err != nil {
			return errors.Wrap(err, "decode json")
		}
		return nil
	case "application/x-www-form-urlencoded", "multipart/form-data":
		if err := r.ParseForm(); err != nil {
			return errors.Wrap(err, "parse form")
		}
		if err := formDecoder.Decode(dst, r.PostForm); err != nil {
			return errors.Wrap(err, "decode form")
		}
		return nil
	default:
		return errors.Wrap(ErrUnsupportedMediaType, mediaType)
	}
}
