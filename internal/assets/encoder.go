package assets

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// EncodedImage is a user upload in transport-ready form: raw bytes plus the
// media type declared to the provider.
type EncodedImage struct {
	Data     []byte
	MIMEType string
}

// EncodeImage reads a single uploaded image and resolves its media type.
// The declared type from the upload wins; when it is absent or generic the
// type is sniffed from the leading bytes. No further size or format
// validation happens here.
func EncodeImage(r io.Reader, declaredType string) (*EncodedImage, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("assets: read image: %w", err)
	}
	if len(data) == 0 {
		return nil, errors.New("assets: empty image upload")
	}

	mime := strings.TrimSpace(declaredType)
	if mime == "" || mime == "application/octet-stream" {
		mime = http.DetectContentType(data)
	}
	if idx := strings.Index(mime, ";"); idx > 0 {
		mime = strings.TrimSpace(mime[:idx])
	}

	return &EncodedImage{Data: data, MIMEType: mime}, nil
}
