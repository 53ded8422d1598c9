package renderer

import "errors"

var (
	ErrNoTracer          = errors.New("renderer: no tracer attached")
	ErrNoCompiler        = errors.New("renderer: no scene compiler attached")
	ErrInvalidFrameRange = errors.New("renderer: invalid frame range")
	ErrInterrupted       = errors.New("renderer: interrupted while rendering")
)
