package integral

import "errors"

// Sentinel kinds for integral-engine errors.
var (
	ErrInvalidWindow    = errors.New("tMin must be less than tMax")
	ErrInvalidCacheSize = errors.New("cache size must be positive")
)
