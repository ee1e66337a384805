// Package conversion moves frames and masks between Go images and OpenCV
// Mats. It is only built with the gocv tag; every Mat returned owns its
// memory and must be closed by the caller.
package conversion
