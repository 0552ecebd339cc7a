package s3

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"io"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type uploaderSpy struct {
	keys []string
}

func (u *uploaderSpy) Upload(_ context.Context, key string, reader io.Reader, contentType string) (string, error) {
	if _, err := io.Copy(io.Discard, reader); err != nil {
		return "", err
	}
	u.keys = append(u.keys, key)
	return "http://cdn.local/" + key, nil
}

func testJPEG(t *testing.T, width, height int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 120, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, imaging.Encode(&buf, img, imaging.JPEG))
	return buf.Bytes()
}

func TestGalleryStoreCreatesAllVariants(t *testing.T) {
	spy := &uploaderSpy{}
	uploader := GalleryUploader{
		Uploader:    spy,
		IDGenerator: func() string { return "photo-1" },
	}

	photo, err := uploader.Store(context.Background(), CategoryExterior, testJPEG(t, 2000, 1200))
	require.NoError(t, err)
	assert.Equal(t, "exterior/photo-1", photo.Key)
	assert.Equal(t, []string{
		"exterior/photo-1/full.jpg",
		"exterior/photo-1/card.jpg",
		"exterior/photo-1/thumb.jpg",
	}, spy.keys)
	assert.Equal(t, "http://cdn.local/exterior/photo-1/thumb.jpg", photo.URLs["thumb"])
}

func TestGalleryStoreRejectsGarbage(t *testing.T) {
	uploader := GalleryUploader{Uploader: &uploaderSpy{}}
	_, err := uploader.Store(context.Background(), CategoryInterior, []byte("not an image"))
	assert.Error(t, err)
}

func TestParseCategory(t *testing.T) {
	cat, err := ParseCategory(" Exterior ")
	require.NoError(t, err)
	assert.Equal(t, CategoryExterior, cat)

	_, err = ParseCategory("garage")
	assert.ErrorIs(t, err, ErrUnknownCategory)
}
