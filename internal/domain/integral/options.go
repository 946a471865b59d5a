package integral

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithGridResolution sets the number of grid points used to discretize the
// integration window. The default is a calibration constant; changing it
// changes the absolute scale of the integral, so recalibrate thresholds
// after overriding.
func WithGridResolution(points int) Option {
	return func(e *Engine) {
		if points > 1 {
			e.resolution = points
		}
	}
}

// WithCacheSize caps the number of probability curves retained in the
// least-recently-used cache.
func WithCacheSize(size int) Option {
	return func(e *Engine) {
		if size > 0 {
			e.cacheSize = size
		}
	}
}
