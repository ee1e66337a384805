//go:build gocv
// +build gocv

package vision

import (
	"context"
	"fmt"
	"image"

	"gocv.io/x/gocv"

	"skin-retoucher/internal/config"
	"skin-retoucher/internal/logger"
	"skin-retoucher/internal/models"
	"skin-retoucher/internal/opencv/conversion"
)

// Backend owns the OpenCV resources shared by all stages. Close releases
// them.
type Backend struct {
	params     config.Params
	log        logger.Logger
	classifier gocv.CascadeClassifier
	blobs      gocv.SimpleBlobDetector
}

func NewBackend(params config.Params, log logger.Logger) (*Backend, error) {
	if log == nil {
		log = logger.Nop()
	}

	classifier := gocv.NewCascadeClassifier()
	if !classifier.Load(params.CascadePath) {
		classifier.Close()
		return nil, fmt.Errorf("load cascade classifier %q", params.CascadePath)
	}

	bp := gocv.NewSimpleBlobDetectorParams()
	bp.SetFilterByColor(true)
	bp.SetBlobColor(255)
	bp.SetFilterByArea(true)
	bp.SetMinArea(params.BlobMinArea)
	bp.SetMaxArea(params.BlobMaxArea)
	bp.SetFilterByCircularity(false)
	bp.SetFilterByConvexity(false)
	bp.SetFilterByInertia(false)
	bp.SetMinThreshold(40)
	bp.SetMaxThreshold(255)

	log.Info("Vision", "opencv backend ready", map[string]interface{}{
		"cascade":        params.CascadePath,
		"opencv_version": gocv.Version(),
	})

	return &Backend{
		params:     params,
		log:        log,
		classifier: classifier,
		blobs:      gocv.NewSimpleBlobDetectorWithParams(bp),
	}, nil
}

func (b *Backend) Close() error {
	b.blobs.Close()
	return b.classifier.Close()
}

func (b *Backend) DetectFaces(ctx context.Context, frame *image.RGBA) ([]image.Rectangle, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	bgr, err := conversion.RGBAToMat(frame)
	if err != nil {
		return nil, err
	}
	defer bgr.Close()

	gray := gocv.NewMat()
	defer gray.Close()
	gocv.CvtColor(bgr, &gray, gocv.ColorBGRToGray)

	equalized := gocv.NewMat()
	defer equalized.Close()
	gocv.EqualizeHist(gray, &equalized)

	faces := b.classifier.DetectMultiScaleWithParams(
		equalized,
		1.1,
		5,
		0,
		minFaceSize(frame.Bounds()),
		image.Point{},
	)

	b.log.Debug("Vision", "faces detected", map[string]interface{}{
		"count": len(faces),
	})
	return faces, nil
}

func (b *Backend) SkinMask(ctx context.Context, region *image.RGBA, face image.Rectangle) (*image.Gray, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	face = models.ClampRect(face, region.Bounds())
	if face.Empty() {
		return nil, fmt.Errorf("face %v outside region %v", face, region.Bounds())
	}

	bgr, err := conversion.RGBAToMat(region)
	if err != nil {
		return nil, err
	}
	defer bgr.Close()

	hsv := gocv.NewMat()
	defer hsv.Close()
	gocv.CvtColor(bgr, &hsv, gocv.ColorBGRToHSV)

	roi := hsv.Region(face)
	defer roi.Close()

	mean := gocv.NewMat()
	defer mean.Close()
	stddev := gocv.NewMat()
	defer stddev.Close()
	gocv.MeanStdDev(roi, &mean, &stddev)

	var mu, sigma [3]float64
	for i := 0; i < 3; i++ {
		mu[i] = mean.GetDoubleAt(i, 0)
		sigma[i] = stddev.GetDoubleAt(i, 0)
	}
	lo, hi := SkinBounds(mu, sigma, b.params.SigmaMultiplier)

	thresholded := gocv.NewMat()
	defer thresholded.Close()
	gocv.InRangeWithScalar(hsv,
		gocv.NewScalar(lo[0], lo[1], lo[2], 0),
		gocv.NewScalar(hi[0], hi[1], hi[2], 0),
		&thresholded)

	kernel := gocv.GetStructuringElement(gocv.MorphEllipse, image.Pt(b.params.MorphKernel, b.params.MorphKernel))
	defer kernel.Close()

	opened := gocv.NewMat()
	defer opened.Close()
	gocv.MorphologyEx(thresholded, &opened, gocv.MorphOpen, kernel)

	b.log.Debug("Vision", "skin model", map[string]interface{}{
		"lower":  lo,
		"upper":  hi,
		"pixels": gocv.CountNonZero(opened),
	})
	return conversion.MatToGray(opened)
}

func (b *Backend) Refine(ctx context.Context, region *image.RGBA, mask *image.Gray) (*image.Gray, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if models.MaskEmpty(mask) {
		return image.NewGray(region.Bounds()), nil
	}

	maskMat, err := conversion.GrayToMat(Binarize(mask))
	if err != nil {
		return nil, err
	}
	defer maskMat.Close()

	refined := maskMat
	if b.params.GrabCutIterations > 0 {
		fg, err := b.grabCut(region, maskMat)
		if err != nil {
			return nil, err
		}
		defer fg.Close()
		refined = fg
	}

	if b.params.FeatherSize > 0 {
		soft := gocv.NewMat()
		defer soft.Close()
		gocv.GaussianBlur(refined, &soft, image.Pt(b.params.FeatherSize, b.params.FeatherSize), 0, 0, gocv.BorderDefault)
		return conversion.MatToGray(soft)
	}
	return conversion.MatToGray(refined)
}

// grabCut seeds GrabCut with the trimap of maskMat and returns the binary
// foreground. A trimap without both labels is returned unchanged.
func (b *Backend) grabCut(region *image.RGBA, maskMat gocv.Mat) (gocv.Mat, error) {
	bgr, err := conversion.RGBAToMat(region)
	if err != nil {
		return gocv.NewMat(), err
	}
	defer bgr.Close()
	if err := conversion.ValidateSameSize(bgr, maskMat, "GrabCut"); err != nil {
		return gocv.NewMat(), err
	}

	kernel := gocv.GetStructuringElement(gocv.MorphEllipse, image.Pt(b.params.MorphKernel, b.params.MorphKernel))
	defer kernel.Close()
	eroded := gocv.NewMat()
	defer eroded.Close()
	gocv.Erode(maskMat, &eroded, kernel)

	labels := Trimap(maskMat.ToBytes(), eroded.ToBytes())
	if !trimapUsable(labels) {
		b.log.Debug("Vision", "trimap lacks background or foreground, grabcut skipped", nil)
		return maskMat.Clone(), nil
	}

	gcMask, err := gocv.NewMatFromBytes(maskMat.Rows(), maskMat.Cols(), gocv.MatTypeCV8UC1, labels)
	if err != nil {
		return gocv.NewMat(), fmt.Errorf("wrap trimap: %w", err)
	}
	defer gcMask.Close()
	work := gcMask.Clone()
	defer work.Close()

	bgdModel := gocv.NewMat()
	defer bgdModel.Close()
	fgdModel := gocv.NewMat()
	defer fgdModel.Close()

	gocv.GrabCut(bgr, &work, image.Rectangle{}, &bgdModel, &fgdModel, b.params.GrabCutIterations, gocv.GCInitWithMask)

	fg, err := gocv.NewMatFromBytes(work.Rows(), work.Cols(), gocv.MatTypeCV8UC1, GrabCutForeground(work.ToBytes()))
	if err != nil {
		return gocv.NewMat(), fmt.Errorf("wrap grabcut result: %w", err)
	}
	defer fg.Close()
	return fg.Clone(), nil
}

func (b *Backend) DetectBlemishes(ctx context.Context, region *image.RGBA, mask *image.Gray) ([]models.Blemish, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	bgr, err := conversion.RGBAToMat(region)
	if err != nil {
		return nil, err
	}
	defer bgr.Close()

	hsv := gocv.NewMat()
	defer hsv.Close()
	gocv.CvtColor(bgr, &hsv, gocv.ColorBGRToHSV)

	channels := gocv.Split(hsv)
	defer func() {
		for _, c := range channels {
			c.Close()
		}
	}()
	hue := channels[0]

	dx := gocv.NewMat()
	defer dx.Close()
	dy := gocv.NewMat()
	defer dy.Close()
	gocv.Sobel(hue, &dx, gocv.MatTypeCV32F, 1, 0, 3, 1, 0, gocv.BorderDefault)
	gocv.Sobel(hue, &dy, gocv.MatTypeCV32F, 0, 1, 3, 1, 0, gocv.BorderDefault)

	magnitude := gocv.NewMat()
	defer magnitude.Close()
	gocv.Magnitude(dx, dy, &magnitude)

	normalized := gocv.NewMat()
	defer normalized.Close()
	gocv.Normalize(magnitude, &normalized, 0, 255, gocv.NormMinMax)

	gradient := gocv.NewMat()
	defer gradient.Close()
	normalized.ConvertTo(&gradient, gocv.MatTypeCV8U)

	maskMat, err := conversion.GrayToMat(Binarize(mask))
	if err != nil {
		return nil, err
	}
	defer maskMat.Close()
	if err := conversion.ValidateSameSize(gradient, maskMat, "DetectBlemishes"); err != nil {
		return nil, err
	}

	masked := gocv.NewMat()
	defer masked.Close()
	gocv.BitwiseAnd(gradient, maskMat, &masked)

	found := b.blobs.Detect(masked)
	kps := make([]Keypoint, len(found))
	for i, kp := range found {
		kps[i] = Keypoint{X: kp.X, Y: kp.Y, Size: kp.Size}
	}
	blemishes := KeypointsToBlemishes(kps, mask)

	b.log.Debug("Vision", "blobs detected", map[string]interface{}{
		"keypoints": len(found),
		"in_mask":   len(blemishes),
	})
	return blemishes, nil
}

func (b *Backend) Smooth(ctx context.Context, region *image.RGBA) (*image.RGBA, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	bgr, err := conversion.RGBAToMat(region)
	if err != nil {
		return nil, err
	}
	defer bgr.Close()

	filtered := gocv.NewMat()
	defer filtered.Close()
	gocv.BilateralFilter(bgr, &filtered, b.params.BilateralDiameter, b.params.BilateralSigmaColor, b.params.BilateralSigmaSpace)

	return conversion.MatToRGBA(filtered)
}

// Clone implements retouch.Cloner with cv::seamlessClone in normal mode.
// The patch must lie fully inside dst.
func (b *Backend) Clone(dst, src *image.RGBA, mask *image.Gray, center image.Point) error {
	size := src.Bounds().Size()
	target := image.Rectangle{Min: center.Sub(size.Div(2))}
	target.Max = target.Min.Add(size)
	if !target.In(dst.Bounds()) {
		return fmt.Errorf("seamless clone target %v leaves frame %v", target, dst.Bounds())
	}

	dstMat, err := conversion.RGBAToMat(dst)
	if err != nil {
		return err
	}
	defer dstMat.Close()
	srcMat, err := conversion.RGBAToMat(src)
	if err != nil {
		return err
	}
	defer srcMat.Close()
	maskMat, err := conversion.GrayToMat(mask)
	if err != nil {
		return err
	}
	defer maskMat.Close()

	blend := gocv.NewMat()
	defer blend.Close()
	gocv.SeamlessClone(srcMat, dstMat, maskMat, center.Sub(dst.Bounds().Min), &blend, gocv.NormalClone)

	out, err := conversion.MatToRGBA(blend)
	if err != nil {
		return err
	}
	models.PasteRGBA(dst, out, dst.Bounds().Min)
	return nil
}
