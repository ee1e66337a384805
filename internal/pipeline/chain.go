package pipeline

import (
	"context"
	"fmt"
	"image"
	"time"

	"skin-retoucher/internal/logger"
	"skin-retoucher/internal/models"
	"skin-retoucher/internal/retouch"
)

// regionJob carries one work region through the chain. Every field a step
// produces starts empty; a step that fails leaves it that way.
type regionJob struct {
	frame     *image.RGBA
	face      image.Rectangle
	mask      *image.Gray
	soft      *image.Gray
	blemishes []models.Blemish
	report    retouch.Report
	smoothed  bool
}

func (j *regionJob) modified() bool {
	return j.report.Applied > 0 || j.smoothed
}

// chainStep is one stage of the per-region chain.
type chainStep struct {
	name      string
	shouldRun func(j *regionJob) bool
	run       func(ctx context.Context, j *regionJob) error
}

// stepChain runs steps in order. Steps whose input is empty are skipped and a
// failing step only degrades its own output; cancellation aborts.
type stepChain struct {
	steps   []chainStep
	log     logger.Logger
	timings map[string]time.Duration
}

func newStepChain(log logger.Logger, steps ...chainStep) *stepChain {
	return &stepChain{
		steps:   steps,
		log:     log,
		timings: make(map[string]time.Duration),
	}
}

func (c *stepChain) Execute(ctx context.Context, j *regionJob) error {
	for _, step := range c.steps {
		if err := ctx.Err(); err != nil {
			return err
		}

		if step.shouldRun != nil && !step.shouldRun(j) {
			c.log.Debug("Chain", "step skipped, empty input", map[string]interface{}{
				"step": step.name,
			})
			continue
		}

		start := time.Now()
		err := step.run(ctx, j)
		c.timings[step.name] += time.Since(start)

		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			c.log.Warning("Chain", "step failed, output treated as empty", map[string]interface{}{
				"step":  step.name,
				"error": err.Error(),
			})
		}
	}
	return nil
}

// StepNames lists the configured steps in execution order.
func (c *stepChain) StepNames() []string {
	names := make([]string, len(c.steps))
	for i, step := range c.steps {
		names[i] = step.name
	}
	return names
}

// Timings returns the accumulated run time per step and resets it.
func (c *stepChain) Timings() map[string]time.Duration {
	out := c.timings
	c.timings = make(map[string]time.Duration)
	return out
}

func checkMask(name string, mask *image.Gray, region *image.RGBA) error {
	if mask == nil {
		return nil
	}
	if mask.Bounds() != region.Bounds() {
		return fmt.Errorf("%s mask %v does not match region %v", name, mask.Bounds(), region.Bounds())
	}
	return nil
}
