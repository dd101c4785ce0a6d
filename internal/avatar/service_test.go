package avatar

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"github.com/chai2010/webp"
)

type fakeUploader struct {
	key         string
	contentType string
	data        []byte
	err         error
}

func (f *fakeUploader) Upload(ctx context.Context, key, contentType string, data []byte) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.key = key
	f.contentType = contentType
	f.data = data
	return "https://cdn.example.com/" + key, nil
}

func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func TestStoreCropsScalesAndUploadsWebP(t *testing.T) {
	uploader := &fakeUploader{}
	svc, err := NewService(ServiceParams{Storage: uploader})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	url, err := svc.Store(context.Background(), 42, bytes.NewReader(encodePNG(t, 600, 400)))
	if err != nil {
		t.Fatalf("store: %v", err)
	}
	if !strings.HasPrefix(url, "https://cdn.example.com/avatars/42/") {
		t.Fatalf("unexpected url %s", url)
	}
	if !strings.HasSuffix(uploader.key, ".webp") {
		t.Fatalf("expected webp key, got %s", uploader.key)
	}
	if uploader.contentType != "image/webp" {
		t.Fatalf("unexpected content type %s", uploader.contentType)
	}

	decoded, err := webp.Decode(bytes.NewReader(uploader.data))
	if err != nil {
		t.Fatalf("uploaded payload is not webp: %v", err)
	}
	if decoded.Bounds().Dx() != Side || decoded.Bounds().Dy() != Side {
		t.Fatalf("expected %dx%d avatar, got %dx%d", Side, Side, decoded.Bounds().Dx(), decoded.Bounds().Dy())
	}
}

func TestStoreRejectsNonImagePayload(t *testing.T) {
	svc, err := NewService(ServiceParams{Storage: &fakeUploader{}})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	if _, err := svc.Store(context.Background(), 1, strings.NewReader("definitely not an image")); err == nil {
		t.Fatal("expected validation error for non-image payload")
	}
}

func TestNormalizeSquareOutput(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 100, 300))
	out := Normalize(src)
	if out.Bounds().Dx() != Side || out.Bounds().Dy() != Side {
		t.Fatalf("expected %dx%d, got %v", Side, Side, out.Bounds())
	}
}
