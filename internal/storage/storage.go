// Package storage keeps user-uploaded images in object storage.
package storage

import (
	"context"
	"errors"
	"io"
)

// MaxImageSize caps a single uploaded image.
const MaxImageSize = 5 << 20

var (
	ErrUnsupportedImage = errors.New("unsupported image type")
	ErrImageTooLarge    = errors.New("image too large")
)

// Service stores profile images and returns the URL they are served from.
type Service interface {
	UploadImage(ctx context.Context, userID int64, r io.Reader, size int64, contentType string) (string, error)
	// DeletePrefix removes every object under prefix.
	DeletePrefix(ctx context.Context, prefix string) error
	// UserPrefix is the key prefix holding userID's images.
	UserPrefix(userID int64) string
}

var imageExtensions = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// ValidateImage checks an upload against the accepted types and MaxImageSize
// and returns the key extension for it.
func ValidateImage(size int64, contentType string) (string, error) {
	ext, err := ImageExtension(contentType)
	if err != nil {
		return "", err
	}
	if size > MaxImageSize {
		return "", ErrImageTooLarge
	}
	return ext, nil
}

// ImageExtension maps an image content type to the extension used in keys.
func ImageExtension(contentType string) (string, error) {
	ext, ok := imageExtensions[contentType]
	if !ok {
		return "", ErrUnsupportedImage
	}
	return ext, nil
}
