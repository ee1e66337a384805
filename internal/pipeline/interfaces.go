package pipeline

import (
	"context"
	"image"

	"skin-retoucher/internal/models"
)

// FaceDetector returns face boxes in frame coordinates, in detection order.
type FaceDetector interface {
	DetectFaces(ctx context.Context, frame *image.RGBA) ([]image.Rectangle, error)
}

// SkinSegmenter builds a binary skin mask over region from the colour
// statistics inside face. face is in region coordinates.
type SkinSegmenter interface {
	SkinMask(ctx context.Context, region *image.RGBA, face image.Rectangle) (*image.Gray, error)
}

// MaskRefiner turns a binary mask into a soft blending weight.
type MaskRefiner interface {
	Refine(ctx context.Context, region *image.RGBA, mask *image.Gray) (*image.Gray, error)
}

// BlemishDetector finds blemish centres inside mask.
type BlemishDetector interface {
	DetectBlemishes(ctx context.Context, region *image.RGBA, mask *image.Gray) ([]models.Blemish, error)
}

// Smoother applies an edge-preserving filter to the whole region.
type Smoother interface {
	Smooth(ctx context.Context, region *image.RGBA) (*image.RGBA, error)
}
