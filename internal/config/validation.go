package config

import (
	"errors"
	"fmt"
	"strings"

	"skin-retoucher/internal/logger"
)

// ParameterRange is the inclusive valid interval of a numeric parameter.
type ParameterRange struct {
	Min float64
	Max float64
}

// Contains reports whether v lies in the range.
func (r ParameterRange) Contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

// Ranges declares the valid interval of every numeric parameter.
var Ranges = map[string]ParameterRange{
	"patch_radius":          {1, 100},
	"sigma_multiplier":      {0, 10},
	"morph_kernel":          {1, 31},
	"blend_strength":        {0, 100},
	"bilateral_diameter":    {1, 25},
	"bilateral_sigma_color": {0, 200},
	"bilateral_sigma_space": {0, 200},
	"grabcut_iterations":    {0, 10},
	"feather_size":          {0, 51},
	"face_margin":           {0, 100},
	"blob_min_area":         {1, 10000},
	"blob_max_area":         {1, 10000},
	"max_blemishes":         {0, 1000},
}

// ValidationError reports a rejected parameter value.
type ValidationError struct {
	Parameter string
	Value     interface{}
	Message   string
}

// NewValidationError creates a new validation error
func NewValidationError(parameter string, value interface{}, message string) *ValidationError {
	return &ValidationError{
		Parameter: parameter,
		Value:     value,
		Message:   message,
	}
}

func (ve *ValidationError) Error() string {
	return fmt.Sprintf("validation failed for parameter '%s' with value '%v': %s",
		ve.Parameter, ve.Value, ve.Message)
}

// Validate checks every parameter against its range and the cross-field
// rules. All violations are returned joined.
func (c *Config) Validate() error {
	var errs []error

	for _, f := range c.Params.fields() {
		r, ok := Ranges[f.key]
		if !ok {
			continue
		}
		var v float64
		switch p := f.ptr.(type) {
		case *int:
			v = float64(*p)
		case *float64:
			v = *p
		default:
			continue
		}
		if v < r.Min {
			errs = append(errs, NewValidationError(f.key, v, "value below minimum"))
		} else if v > r.Max {
			errs = append(errs, NewValidationError(f.key, v, "value above maximum"))
		}
	}

	p := c.Params
	if p.MorphKernel%2 == 0 {
		errs = append(errs, NewValidationError("morph_kernel", p.MorphKernel, "must be odd"))
	}
	if p.FeatherSize != 0 && p.FeatherSize%2 == 0 {
		errs = append(errs, NewValidationError("feather_size", p.FeatherSize, "must be zero or odd"))
	}
	if p.BlobMinArea > p.BlobMaxArea {
		errs = append(errs, NewValidationError("blob_min_area", p.BlobMinArea, "exceeds blob_max_area"))
	}
	switch p.CloneMethod {
	case CloneMethodPoisson, CloneMethodOpenCV:
	default:
		errs = append(errs, NewValidationError("clone_method", p.CloneMethod, "expected poisson or opencv"))
	}
	if strings.TrimSpace(p.CascadePath) == "" {
		errs = append(errs, NewValidationError("cascade_path", p.CascadePath, "must not be empty"))
	}
	if _, err := logger.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, NewValidationError("log_level", c.Log.Level, err.Error()))
	}

	return errors.Join(errs...)
}
