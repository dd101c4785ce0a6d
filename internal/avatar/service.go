package avatar

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"io"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/chai2010/webp"
	"github.com/google/uuid"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"

	pkgerrors "github.com/akushnir/contactbook-backend/pkg/errors"
)

const (
	// Side is the edge length of the delivered avatar.
	Side = 250

	// maxUploadBytes caps how much image data a single request may carry.
	maxUploadBytes = 10 << 20

	webpQuality = 90
)

type uploader interface {
	Upload(ctx context.Context, key, contentType string, data []byte) (string, error)
}

// Service turns an uploaded image into a fixed-size avatar hosted on
// object storage.
type Service struct {
	storage uploader
}

// ServiceParams bundles the dependencies required to build an avatar service.
type ServiceParams struct {
	Storage uploader
}

// NewService constructs an avatar service with the provided dependencies.
func NewService(params ServiceParams) (*Service, error) {
	if params.Storage == nil {
		return nil, fmt.Errorf("storage uploader is required")
	}
	return &Service{storage: params.Storage}, nil
}

// Store decodes the uploaded image, applies the square crop and scale,
// encodes it as WebP, and uploads it under a per-user key. Returns the
// public delivery URL.
func (s *Service) Store(ctx context.Context, userID uint, file io.Reader) (string, error) {
	data, err := io.ReadAll(io.LimitReader(file, maxUploadBytes+1))
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "reading upload")
	}
	if len(data) > maxUploadBytes {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "image too large")
	}

	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeValidation, err, "unsupported image data")
	}

	normalized := Normalize(src)

	var encoded bytes.Buffer
	if err := webp.Encode(&encoded, normalized, &webp.Options{Quality: webpQuality}); err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encoding avatar")
	}

	// A fresh version segment per upload keeps cached copies of the old
	// avatar from being served after a change.
	key := fmt.Sprintf("avatars/%d/%s.webp", userID, uuid.NewString())
	url, err := s.storage.Upload(ctx, key, "image/webp", encoded.Bytes())
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "uploading avatar")
	}
	return url, nil
}

// Normalize center-crops the image to a square and scales it to Side×Side.
func Normalize(src image.Image) image.Image {
	bounds := src.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	side := w
	if h < side {
		side = h
	}
	x0 := bounds.Min.X + (w-side)/2
	y0 := bounds.Min.Y + (h-side)/2
	crop := image.Rect(x0, y0, x0+side, y0+side)

	dst := image.NewRGBA(image.Rect(0, 0, Side, Side))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, crop, draw.Over, nil)
	return dst
}
