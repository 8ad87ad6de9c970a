package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
)

var (
	ErrDisabled   = errors.New("plan storage is not configured")
	ErrNotAnImage = errors.New("file is not a supported image")
	ErrTooLarge   = errors.New("file exceeds the size limit")
	ErrForeignURL = errors.New("url does not belong to this store")
)

// PlanStore keeps floor-plan images and hands out their public URLs.
type PlanStore interface {
	Upload(ctx context.Context, key, contentType string, body io.Reader, size int64) (string, error)
	Delete(ctx context.Context, url string) error
}

var imageExtensions = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// Image is an uploaded image read fully into memory after sniffing.
type Image struct {
	Data        []byte
	ContentType string
	Ext         string
}

// ReadImage reads at most limit bytes from r and checks the content is an
// image. Returns ErrTooLarge past the limit.
func ReadImage(r io.Reader, limit int64) (*Image, error) {
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, fmt.Errorf("read image: %w", err)
	}
	if int64(len(data)) > limit {
		return nil, ErrTooLarge
	}
	ct := http.DetectContentType(data)
	ext, ok := imageExtensions[ct]
	if !ok {
		return nil, ErrNotAnImage
	}
	return &Image{Data: data, ContentType: ct, Ext: ext}, nil
}

func (img *Image) Reader() io.Reader { return bytes.NewReader(img.Data) }
func (img *Image) Size() int64       { return int64(len(img.Data)) }
