//go:build !gocv
// +build !gocv

package vision

import (
	"context"
	"image"
	"testing"

	"github.com/stretchr/testify/require"

	"skin-retoucher/internal/config"
	"skin-retoucher/internal/logger"
)

func TestNewBackend_Unavailable(t *testing.T) {
	b, err := NewBackend(config.Default().Params, logger.Nop())
	require.ErrorIs(t, err, ErrUnavailable)
	require.Nil(t, b)

	var stub Backend
	_, err = stub.DetectFaces(context.Background(), image.NewRGBA(image.Rect(0, 0, 1, 1)))
	require.ErrorIs(t, err, ErrUnavailable)
	require.ErrorIs(t, stub.Clone(nil, nil, nil, image.Point{}), ErrUnavailable)
	require.NoError(t, stub.Close())
}
