package fom

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

// Loader reads FOM module files. Concurrent loads of the same path share one
// read and parse, and successful results are cached by absolute path.
type Loader struct {
	logger *zap.SugaredLogger
	flight singleflight.Group

	mu    sync.RWMutex
	cache map[string]*Declarations
}

// NewLoader returns a loader that logs through logger. A nil logger
// discards.
func NewLoader(logger *zap.SugaredLogger) *Loader {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Loader{logger: logger, cache: make(map[string]*Declarations)}
}

// Load reads one module. The format is chosen by extension: .xml for OMT
// XML, .cue for CUE.
func (l *Loader) Load(ctx context.Context, path string) (*Declarations, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, &ParseError{File: path, Message: "invalid path", Err: err}
	}

	l.mu.RLock()
	d, ok := l.cache[abs]
	l.mu.RUnlock()
	if ok {
		return d, nil
	}

	v, err, shared := l.flight.Do(abs, func() (any, error) {
		l.mu.RLock()
		d, ok := l.cache[abs]
		l.mu.RUnlock()
		if ok {
			return d, nil
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		d, err := l.read(path)
		if err != nil {
			return nil, err
		}
		l.mu.Lock()
		l.cache[abs] = d
		l.mu.Unlock()
		return d, nil
	})
	if err != nil {
		l.logger.Warnw("module load failed", "path", path, "error", err)
		return nil, err
	}
	l.logger.Debugw("module loaded", "path", path, "shared", shared)
	return v.(*Declarations), nil
}

func (l *Loader) read(path string) (*Declarations, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ParseError{File: path, Message: "cannot read module", Err: err}
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xml":
		return ParseXML(path, data)
	case ".cue":
		return CompileCUE(path, data)
	default:
		return nil, &ParseError{File: path, Message: fmt.Sprintf("unsupported module format %q, want .xml or .cue", filepath.Ext(path))}
	}
}

// LoadAll loads modules concurrently and returns them in argument order.
// The first failure cancels the remaining loads.
func (l *Loader) LoadAll(ctx context.Context, paths ...string) ([]*Declarations, error) {
	out := make([]*Declarations, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	for i, p := range paths {
		g.Go(func() error {
			d, err := l.Load(ctx, p)
			if err != nil {
				return err
			}
			out[i] = d
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// LoadModel loads and resolves modules in order.
func (l *Loader) LoadModel(ctx context.Context, paths ...string) (*ObjectModel, error) {
	modules, err := l.LoadAll(ctx, paths...)
	if err != nil {
		return nil, err
	}
	om, err := Resolve(modules...)
	if err != nil {
		return nil, err
	}
	l.logger.Infow("object model resolved", "modules", len(modules), "datatypes", om.Datatypes.Len())
	return om, nil
}
