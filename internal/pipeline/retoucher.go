package pipeline

import (
	"context"
	"fmt"
	"image"
	"sort"
	"time"

	"skin-retoucher/internal/config"
	"skin-retoucher/internal/logger"
	"skin-retoucher/internal/models"
	"skin-retoucher/internal/retouch"
)

// Stages bundles the pluggable parts of the pipeline. Faces, Skin and
// Blemishes are required. A nil Refiner uses the threshold mask as the
// blending weight, a nil Smoother disables the final pass and a nil Cloner
// selects the Poisson cloner.
type Stages struct {
	Faces     FaceDetector
	Skin      SkinSegmenter
	Refiner   MaskRefiner
	Blemishes BlemishDetector
	Smoother  Smoother
	Cloner    retouch.Cloner
}

// Result describes one forward pass over a frame.
type Result struct {
	Faces     int
	Blemishes int
	Corrected int
	Skipped   int
	Failed    int
	Smoothed  int
	Duration  time.Duration
	Stages    map[string]time.Duration
}

// Retoucher runs the automatic pipeline on single frames.
type Retoucher struct {
	params    config.Params
	stages    Stages
	corrector *retouch.Corrector
	chain     *stepChain
	log       logger.Logger
}

func NewRetoucher(params config.Params, stages Stages, log logger.Logger) (*Retoucher, error) {
	if stages.Faces == nil || stages.Skin == nil || stages.Blemishes == nil {
		return nil, ErrMissingStage
	}
	if log == nil {
		log = logger.Nop()
	}

	r := &Retoucher{
		params:    params,
		stages:    stages,
		corrector: retouch.NewCorrector(params.PatchRadius, stages.Cloner, log),
		log:       log,
	}
	r.chain = newStepChain(log, r.steps()...)
	return r, nil
}

func (r *Retoucher) steps() []chainStep {
	return []chainStep{
		{
			name:      "skin_mask",
			shouldRun: func(j *regionJob) bool { return !j.face.Empty() },
			run: func(ctx context.Context, j *regionJob) error {
				mask, err := r.stages.Skin.SkinMask(ctx, j.frame, j.face)
				if err != nil {
					return err
				}
				if err := checkMask("skin", mask, j.frame); err != nil {
					return err
				}
				j.mask = mask
				return nil
			},
		},
		{
			name:      "refine_mask",
			shouldRun: func(j *regionJob) bool { return !models.MaskEmpty(j.mask) },
			run: func(ctx context.Context, j *regionJob) error {
				if r.stages.Refiner == nil {
					j.soft = j.mask
					return nil
				}
				soft, err := r.stages.Refiner.Refine(ctx, j.frame, j.mask)
				if err != nil {
					return err
				}
				if err := checkMask("refined", soft, j.frame); err != nil {
					return err
				}
				j.soft = soft
				return nil
			},
		},
		{
			name:      "detect_blemishes",
			shouldRun: func(j *regionJob) bool { return !models.MaskEmpty(j.soft) },
			run: func(ctx context.Context, j *regionJob) error {
				found, err := r.stages.Blemishes.DetectBlemishes(ctx, j.frame, j.soft)
				if err != nil {
					return err
				}
				j.blemishes = capBlemishes(found, r.params.MaxBlemishes)
				return nil
			},
		},
		{
			name:      "correct",
			shouldRun: func(j *regionJob) bool { return len(j.blemishes) > 0 },
			run: func(ctx context.Context, j *regionJob) error {
				j.report = r.corrector.Correct(j.frame, j.blemishes)
				return nil
			},
		},
		{
			name: "smooth",
			shouldRun: func(j *regionJob) bool {
				return r.stages.Smoother != nil && r.params.BlendStrength > 0 && !models.MaskEmpty(j.soft)
			},
			run: func(ctx context.Context, j *regionJob) error {
				smoothed, err := r.stages.Smoother.Smooth(ctx, j.frame)
				if err != nil {
					return err
				}
				out, err := retouch.BlendMasked(j.frame, smoothed, j.soft, r.params.BlendStrength)
				if err != nil {
					return err
				}
				j.frame = out
				j.smoothed = true
				return nil
			},
		},
	}
}

// Process runs one forward pass over frame, modifying it in place. Missing
// faces or failing stages are not errors; only cancellation is.
func (r *Retoucher) Process(ctx context.Context, frame *image.RGBA) (*Result, error) {
	start := time.Now()
	res := &Result{}

	faces, err := r.stages.Faces.DetectFaces(ctx, frame)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		r.log.Warning("Retoucher", "face detection failed", map[string]interface{}{
			"error": err.Error(),
		})
		faces = nil
	}

	for i, face := range faces {
		region := models.WorkRegion(face, frame.Bounds(), r.params.FaceMargin)
		if region.Empty() {
			continue
		}
		res.Faces++

		job := &regionJob{
			frame: models.CropRGBA(frame, region),
			face:  models.ClampRect(face, region).Sub(region.Min),
		}
		if err := r.chain.Execute(ctx, job); err != nil {
			return nil, fmt.Errorf("face %d: %w", i, err)
		}

		res.Blemishes += len(job.blemishes)
		res.Corrected += job.report.Applied
		res.Skipped += job.report.Skipped
		res.Failed += job.report.Failed
		if job.smoothed {
			res.Smoothed++
		}
		if job.modified() {
			models.PasteRGBA(frame, job.frame, region.Min)
		}
	}

	res.Duration = time.Since(start)
	res.Stages = r.chain.Timings()

	r.log.Debug("Retoucher", "frame processed", map[string]interface{}{
		"faces":       res.Faces,
		"blemishes":   res.Blemishes,
		"corrected":   res.Corrected,
		"skipped":     res.Skipped,
		"smoothed":    res.Smoothed,
		"duration_ms": res.Duration.Milliseconds(),
	})
	return res, nil
}

// capBlemishes keeps the n largest blemishes when n > 0, preserving
// detection order among equal sizes.
func capBlemishes(found []models.Blemish, n int) []models.Blemish {
	if n <= 0 || len(found) <= n {
		return found
	}
	out := make([]models.Blemish, len(found))
	copy(out, found)
	sort.SliceStable(out, func(a, b int) bool { return out[a].Radius > out[b].Radius })
	return out[:n]
}
