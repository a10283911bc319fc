package loader

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/oxy-pano/common"
)

// LoaderBackendType identifies the image source backend to use.
type LoaderBackendType int

const (
	// BackendTypeFile selects the local filesystem image source.
	BackendTypeFile LoaderBackendType = iota
)

// ErrEmptyPath is returned when an image is requested without a path.
var ErrEmptyPath = errors.New("loader: empty image path")

// Result is the outcome of an asynchronous load.
type Result struct {
	// RequestID is the value LoadAsync returned for the request.
	RequestID int
	// Path is the requested image path.
	Path string
	// Texture holds the decoded pixels when Err is nil.
	Texture common.TextureStagingData
	// Err is the load failure, if any.
	Err error
}

// loader is the implementation of the Loader interface.
type loader struct {
	mu sync.RWMutex

	source         ImageSource
	workers        int
	maxTextureSize int
	logger         common.Logger

	pool     worker.DynamicWorkerPool
	poolOnce sync.Once
	inflight sync.WaitGroup

	textureCache map[string]common.TextureStagingData
	nextID       int
	pending      int
	done         []Result
}

// Loader loads panorama images into texture staging data and caches them by path.
//
// Loads requested with LoadAsync are decoded on a worker pool. Their results are collected by
// Poll, which is meant to be called once per frame from the render loop so the GPU upload
// happens on the render thread.
type Loader interface {
	// Load decodes the image at path and caches the result. Cached paths return immediately.
	//
	// Parameters:
	//   - path: the image path
	//
	// Returns:
	//   - common.TextureStagingData: the decoded RGBA pixels
	//   - error: ErrEmptyPath, or an error if the image could not be read or decoded
	Load(path string) (common.TextureStagingData, error)

	// LoadAsync starts loading the image at path on the worker pool.
	//
	// Parameters:
	//   - path: the image path
	//
	// Returns:
	//   - int: the request ID reported in the matching Result
	LoadAsync(path string) int

	// Poll returns every result completed since the previous Poll, in completion order.
	//
	// Returns:
	//   - []Result: the completed results, nil when there are none
	Poll() []Result

	// Pending returns the number of asynchronous loads that have not been polled yet.
	Pending() int

	// Wait blocks until every asynchronous load has finished decoding.
	Wait()

	// Get retrieves a cached image by path.
	//
	// Parameters:
	//   - path: the image path
	//
	// Returns:
	//   - common.TextureStagingData: the cached pixels
	//   - bool: whether the path is cached
	Get(path string) (common.TextureStagingData, bool)
}

var _ Loader = &loader{}

// NewLoader creates a new Loader instance with the specified backend type and options applied.
//
// Parameters:
//   - backendType: the type of image source to use (e.g., BackendTypeFile)
//   - options: a variadic list of LoaderBuilderOption functions to configure the Loader
//
// Returns:
//   - Loader: a new instance of Loader configured with the provided backend and options
func NewLoader(backendType LoaderBackendType, options ...LoaderBuilderOption) Loader {
	l := &loader{
		workers:        2,
		maxTextureSize: DefaultMaxTextureSize,
		logger:         common.NewNopLogger(),
		textureCache:   make(map[string]common.TextureStagingData),
	}

	switch backendType {
	case BackendTypeFile:
		l.source = NewFileImageSource()
	}

	for _, option := range options {
		option(l)
	}
	return l
}

func (l *loader) Load(path string) (common.TextureStagingData, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return common.TextureStagingData{}, ErrEmptyPath
	}

	l.mu.RLock()
	if cached, ok := l.textureCache[path]; ok {
		l.mu.RUnlock()
		return cached, nil
	}
	l.mu.RUnlock()

	if l.source == nil {
		return common.TextureStagingData{}, errors.New("loader: no image source configured")
	}

	start := time.Now()
	img, err := l.source.Open(path)
	if err != nil {
		return common.TextureStagingData{}, fmt.Errorf("failed to load %s: %w", path, err)
	}
	b := img.Bounds()
	tex := toStagingData(img, l.maxTextureSize)
	if int(tex.Width) != b.Dx() {
		l.logger.Infof("downscaled %s from %dx%d to %dx%d", path, b.Dx(), b.Dy(), tex.Width, tex.Height)
	}
	l.logger.Debugf("loaded %s (%dx%d) in %s", path, tex.Width, tex.Height, time.Since(start).Round(time.Millisecond))

	l.mu.Lock()
	l.textureCache[path] = tex
	l.mu.Unlock()

	return tex, nil
}

func (l *loader) LoadAsync(path string) int {
	l.poolOnce.Do(func() {
		l.pool = worker.NewDynamicWorkerPool(l.workers, 16, 1*time.Second)
	})

	l.mu.Lock()
	id := l.nextID
	l.nextID++
	l.pending++
	l.mu.Unlock()

	l.inflight.Add(1)
	l.pool.SubmitTask(worker.Task{
		ID: id,
		Do: func() (any, error) {
			defer l.inflight.Done()

			tex, err := l.Load(path)
			if err != nil {
				l.logger.Warnf("panorama %q failed to load: %v", path, err)
			}

			l.mu.Lock()
			l.done = append(l.done, Result{RequestID: id, Path: path, Texture: tex, Err: err})
			l.mu.Unlock()
			return nil, err
		},
	})
	return id
}

func (l *loader) Poll() []Result {
	l.mu.Lock()
	defer l.mu.Unlock()

	if len(l.done) == 0 {
		return nil
	}
	results := l.done
	l.done = nil
	l.pending -= len(results)
	return results
}

func (l *loader) Pending() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.pending
}

func (l *loader) Wait() {
	l.inflight.Wait()
}

func (l *loader) Get(path string) (common.TextureStagingData, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	tex, ok := l.textureCache[path]
	return tex, ok
}
