package loader

import (
	"github.com/Carmen-Shannon/oxy-pano/common"
)

// LoaderBuilderOption is a functional option for configuring a Loader via NewLoader.
type LoaderBuilderOption func(*loader)

// WithImageSource is an option builder that replaces the backend image source.
//
// Parameters:
//   - src: the image source to decode from
//
// Returns:
//   - LoaderBuilderOption: a function that applies the image source option to a loader
func WithImageSource(src ImageSource) LoaderBuilderOption {
	return func(l *loader) {
		l.source = src
	}
}

// WithWorkers is an option builder that sets the maximum number of concurrent decodes.
//
// Parameters:
//   - workers: the worker count, values below 1 are ignored
//
// Returns:
//   - LoaderBuilderOption: a function that applies the workers option to a loader
func WithWorkers(workers int) LoaderBuilderOption {
	return func(l *loader) {
		if workers > 0 {
			l.workers = workers
		}
	}
}

// WithMaxTextureSize is an option builder that sets the largest texture dimension produced.
// Larger images are downscaled to fit.
//
// Parameters:
//   - size: the maximum width or height in pixels, 0 disables downscaling
//
// Returns:
//   - LoaderBuilderOption: a function that applies the size option to a loader
func WithMaxTextureSize(size int) LoaderBuilderOption {
	return func(l *loader) {
		l.maxTextureSize = size
	}
}

// WithLogger is an option builder that sets the logger used for load diagnostics.
//
// Parameters:
//   - logger: the logger to use
//
// Returns:
//   - LoaderBuilderOption: a function that applies the logger option to a loader
func WithLogger(logger common.Logger) LoaderBuilderOption {
	return func(l *loader) {
		if logger != nil {
			l.logger = logger
		}
	}
}
