package bsp

import "image/color"

// Default tessellation of curved primitives.
const (
	DefaultSegments = 32
	DefaultSlices   = 24
	DefaultStacks   = 12
)

// DefaultTolerance is the relative slack ToMesh allows between exported
// vertices and the declared bounding box.
const DefaultTolerance = 1e-5

// Option configures a Kernel.
type Option func(*options)

type options struct {
	segments  int
	slices    int
	stacks    int
	tolerance float64
	color     color.Color
}

func defaultOptions() options {
	return options{
		segments:  DefaultSegments,
		slices:    DefaultSlices,
		stacks:    DefaultStacks,
		tolerance: DefaultTolerance,
	}
}

// WithSegments sets the default number of sides used for cylinders.
// Values below 3 are ignored.
func WithSegments(n int) Option {
	return func(o *options) {
		if n >= 3 {
			o.segments = n
		}
	}
}

// WithSphereResolution sets the number of longitude slices and latitude
// stacks used for spheres.
func WithSphereResolution(slices, stacks int) Option {
	return func(o *options) {
		if slices >= 3 {
			o.slices = slices
		}
		if stacks >= 2 {
			o.stacks = stacks
		}
	}
}

// WithTolerance sets the bounds tolerance checked by ToMesh, relative to
// the size of the declared box.
func WithTolerance(tol float64) Option {
	return func(o *options) {
		if tol > 0 {
			o.tolerance = tol
		}
	}
}

// WithColor tags every primitive's polygons with c.
func WithColor(c color.Color) Option {
	return func(o *options) {
		o.color = c
	}
}
