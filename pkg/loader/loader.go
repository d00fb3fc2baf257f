// Package loader finds class files in directories and archives and decodes
// them, one at a time with caching or many at once in parallel.
package loader

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"

	"go.uber.org/zap"

	"github.com/daimatz/jclass/pkg/classfile"
	cferrors "github.com/daimatz/jclass/pkg/errors"
	"github.com/daimatz/jclass/pkg/resolve"
)

// Loader resolves classes by name from an ordered list of sources, the
// first source containing a class wins. Resolved classes are cached.
// A Loader is safe for concurrent use.
type Loader struct {
	sources []Source
	opts    []resolve.Option
	log     *zap.Logger

	mu    sync.Mutex
	cache map[string]*resolve.Class
}

// New creates a Loader searching sources in order.
func New(sources []Source, opts ...resolve.Option) *Loader {
	return &Loader{
		sources: sources,
		opts:    opts,
		log:     Logger(),
		cache:   make(map[string]*resolve.Class),
	}
}

// LoadClass returns the resolved class with the given internal name.
func (l *Loader) LoadClass(name string) (*resolve.Class, error) {
	l.mu.Lock()
	if c, ok := l.cache[name]; ok {
		l.mu.Unlock()
		return c, nil
	}
	l.mu.Unlock()

	for _, src := range l.sources {
		data, err := src.Load(name)
		if errors.Is(err, cferrors.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}

		c, err := resolve.Decode(data, l.opts...)
		if err != nil {
			return nil, fmt.Errorf("%s: decoding %s: %w", src, name, err)
		}
		l.log.Debug("loaded class", zap.String("class", name), zap.Stringer("source", src))

		l.mu.Lock()
		if cached, ok := l.cache[name]; ok {
			c = cached
		} else {
			l.cache[name] = c
		}
		l.mu.Unlock()
		return c, nil
	}

	return nil, cferrors.NotFound("class", name)
}

// Result is one decoded class from DecodeAll.
type Result struct {
	Source Source
	Name   string
	Class  *resolve.Class
}

// Parsed is one structurally decoded class file from ParseAll.
type Parsed struct {
	Source Source
	Name   string
	File   *classfile.ClassFile
}

type job struct {
	src  Source
	name string
	idx  int
}

// DecodeAll decodes every class of every source using up to workers
// goroutines (GOMAXPROCS when workers <= 0). Results are in source order,
// then name order. The first failure stops the batch and is returned.
func DecodeAll(ctx context.Context, sources []Source, workers int, opts ...resolve.Option) ([]Result, error) {
	jobs, classes, err := runAll(ctx, sources, workers, func(data []byte) (*resolve.Class, error) {
		return resolve.Decode(data, opts...)
	})
	if err != nil {
		return nil, err
	}
	results := make([]Result, len(jobs))
	for i, j := range jobs {
		results[i] = Result{Source: j.src, Name: j.name, Class: classes[i]}
	}
	return results, nil
}

// ParseAll is DecodeAll without name resolution. Constant pool indices are
// left as they are in the file.
func ParseAll(ctx context.Context, sources []Source, workers int) ([]Parsed, error) {
	jobs, files, err := runAll(ctx, sources, workers, classfile.Parse)
	if err != nil {
		return nil, err
	}
	results := make([]Parsed, len(jobs))
	for i, j := range jobs {
		results[i] = Parsed{Source: j.src, Name: j.name, File: files[i]}
	}
	return results, nil
}

func runAll[T any](ctx context.Context, sources []Source, workers int, decode func([]byte) (T, error)) ([]job, []T, error) {
	var jobs []job
	for _, src := range sources {
		names, err := src.Names()
		if err != nil {
			return nil, nil, err
		}
		for _, n := range names {
			jobs = append(jobs, job{src: src, name: n, idx: len(jobs)})
		}
	}

	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	workers = min(workers, max(len(jobs), 1))

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	out := make([]T, len(jobs))
	queue := make(chan job)

	var (
		wg       sync.WaitGroup
		errOnce  sync.Once
		firstErr error
	)
	fail := func(err error) {
		errOnce.Do(func() {
			firstErr = err
			cancel()
		})
	}

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range queue {
				data, err := j.src.Load(j.name)
				if err != nil {
					fail(fmt.Errorf("%s: loading %s: %w", j.src, j.name, err))
					continue
				}
				v, err := decode(data)
				if err != nil {
					fail(fmt.Errorf("%s: decoding %s: %w", j.src, j.name, err))
					continue
				}
				out[j.idx] = v
			}
		}()
	}

feed:
	for _, j := range jobs {
		select {
		case queue <- j:
		case <-ctx.Done():
			break feed
		}
	}
	close(queue)
	wg.Wait()

	if firstErr != nil {
		return nil, nil, firstErr
	}
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	Logger().Info("decoded classes",
		zap.Int("classes", len(jobs)),
		zap.Int("sources", len(sources)),
		zap.Int("workers", workers))
	return jobs, out, nil
}
