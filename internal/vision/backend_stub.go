//go:build !gocv
// +build !gocv

package vision

import (
	"context"
	"image"

	"skin-retoucher/internal/config"
	"skin-retoucher/internal/logger"
	"skin-retoucher/internal/models"
)

// Backend is a placeholder when OpenCV is not compiled in.
type Backend struct{}

// NewBackend always fails without the gocv build tag.
func NewBackend(params config.Params, log logger.Logger) (*Backend, error) {
	_ = params
	_ = log
	return nil, ErrUnavailable
}

func (b *Backend) Close() error { return nil }

func (b *Backend) DetectFaces(context.Context, *image.RGBA) ([]image.Rectangle, error) {
	return nil, ErrUnavailable
}

func (b *Backend) SkinMask(context.Context, *image.RGBA, image.Rectangle) (*image.Gray, error) {
	return nil, ErrUnavailable
}

func (b *Backend) Refine(context.Context, *image.RGBA, *image.Gray) (*image.Gray, error) {
	return nil, ErrUnavailable
}

func (b *Backend) DetectBlemishes(context.Context, *image.RGBA, *image.Gray) ([]models.Blemish, error) {
	return nil, ErrUnavailable
}

func (b *Backend) Smooth(context.Context, *image.RGBA) (*image.RGBA, error) {
	return nil, ErrUnavailable
}

func (b *Backend) Clone(*image.RGBA, *image.RGBA, *image.Gray, image.Point) error {
	return ErrUnavailable
}
