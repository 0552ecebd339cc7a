package s3

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"path"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
)

// Category groups gallery photos by where they were taken.
type Category string

const (
	CategoryExterior     Category = "exterior"
	CategoryInterior     Category = "interior"
	CategoryApartment    Category = "apartment"
	CategorySurroundings Category = "surroundings"
)

var ErrUnknownCategory = errors.New("s3: unknown gallery category")

func ParseCategory(raw string) (Category, error) {
	switch Category(strings.ToLower(strings.TrimSpace(raw))) {
	case CategoryExterior:
		return CategoryExterior, nil
	case CategoryInterior:
		return CategoryInterior, nil
	case CategoryApartment:
		return CategoryApartment, nil
	case CategorySurroundings:
		return CategorySurroundings, nil
	default:
		return "", ErrUnknownCategory
	}
}

// Variant is a resized rendition of an uploaded photo.
type Variant struct {
	Name    string
	MaxSize int
	Quality int
}

// JPEG quality drops with size; thumbnails do not need much.
var galleryVariants = []Variant{
	{Name: "full", MaxSize: 1600, Quality: 85},
	{Name: "card", MaxSize: 800, Quality: 75},
	{Name: "thumb", MaxSize: 300, Quality: 60},
}

// GalleryPhoto describes one stored photo with its rendition URLs.
type GalleryPhoto struct {
	Category Category
	Key      string
	URLs     map[string]string
}

// GalleryUploader resizes an uploaded image into the standard renditions and
// stores each under <category>/<id>/<variant>.jpg.
type GalleryUploader struct {
	Uploader Uploader
	// IDGenerator overrides the object ID, mainly for tests.
	IDGenerator func() string
}

func (g GalleryUploader) Store(ctx context.Context, category Category, data []byte) (GalleryPhoto, error) {
	if g.Uploader == nil {
		return GalleryPhoto{}, errors.New("s3: uploader is required")
	}
	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return GalleryPhoto{}, fmt.Errorf("s3: decode image: %w", err)
	}

	id := uuid.NewString()
	if g.IDGenerator != nil {
		id = g.IDGenerator()
	}

	photo := GalleryPhoto{
		Category: category,
		Key:      path.Join(string(category), id),
		URLs:     make(map[string]string, len(galleryVariants)),
	}
	for _, variant := range galleryVariants {
		resized := imaging.Fit(src, variant.MaxSize, variant.MaxSize, imaging.Lanczos)
		var buf bytes.Buffer
		if err := imaging.Encode(&buf, resized, imaging.JPEG, imaging.JPEGQuality(variant.Quality)); err != nil {
			return GalleryPhoto{}, fmt.Errorf("s3: encode %s variant: %w", variant.Name, err)
		}
		key := path.Join(photo.Key, variant.Name+".jpg")
		url, err := g.Uploader.Upload(ctx, key, &buf, "image/jpeg")
		if err != nil {
			return GalleryPhoto{}, err
		}
		photo.URLs[variant.Name] = url
	}
	return photo, nil
}
