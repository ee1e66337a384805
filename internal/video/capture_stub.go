//go:build !gocv
// +build !gocv

package video

import "context"

// Run needs OpenCV for decoding and encoding.
func (r *Runner) Run(ctx context.Context, in, out string) (Stats, error) {
	_ = ctx
	_ = in
	_ = out
	return Stats{}, ErrUnavailable
}
