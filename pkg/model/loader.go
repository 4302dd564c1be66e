package model

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// ErrUnsupportedFormat is returned for assets that are not glTF binaries.
var ErrUnsupportedFormat = errors.New("unsupported model format")

// Progress reports how much of the asset has been read so far. Total may be
// zero if the size is unknown.
type Progress struct {
	Loaded int64
	Total  int64
}

// Result is the terminal outcome of an asynchronous load: either a decoded
// mesh (plus its embedded texture, if any) or an error. Exactly one of Mesh
// and Err is set.
type Result struct {
	Mesh    *Mesh
	Texture image.Image
	Err     error
}

// Loader reads and decodes one model asset off the caller's goroutine,
// reporting read progress along the way. A load failure is terminal: the
// loader does not retry.
type Loader struct {
	progress chan Progress
}

// NewLoader creates a loader.
func NewLoader() *Loader {
	return &Loader{
		// Buffered so slow consumers never stall the decode; stale
		// progress is dropped rather than queued.
		progress: make(chan Progress, 1),
	}
}

// Progress returns the channel on which (loaded, total) byte counts are
// emitted zero or more times before the result is delivered.
func (l *Loader) Progress() <-chan Progress {
	return l.progress
}

// Load starts decoding the asset at path on its own goroutine and returns a
// channel that delivers exactly one Result. Cancelling ctx aborts the read;
// the Result then carries the context error.
func (l *Loader) Load(ctx context.Context, path string) <-chan Result {
	out := make(chan Result, 1)
	go func() {
		defer close(out)
		mesh, tex, err := l.load(ctx, path)
		out <- Result{Mesh: mesh, Texture: tex, Err: err}
	}()
	return out
}

func (l *Loader) load(ctx context.Context, path string) (*Mesh, image.Image, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".glb", ".gltf":
	default:
		return nil, nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(path))
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open model: %w", err)
	}
	defer f.Close()

	var total int64
	if info, err := f.Stat(); err == nil {
		total = info.Size()
	}

	pr := &progressReader{
		ctx:    ctx,
		r:      f,
		total:  total,
		report: l.report,
	}

	mesh, tex, err := DecodeGLB(pr, filepath.Base(path))
	if err != nil {
		// Cancellation surfaces through the reader; prefer the
		// context error over the decoder's wrapping of it.
		if ctx.Err() != nil {
			return nil, nil, ctx.Err()
		}
		return nil, nil, fmt.Errorf("load %s: %w", filepath.Base(path), err)
	}
	return mesh, tex, nil
}

// report publishes a progress sample, replacing any unconsumed one.
func (l *Loader) report(loaded, total int64) {
	p := Progress{Loaded: loaded, Total: total}
	for {
		select {
		case l.progress <- p:
			return
		default:
			select {
			case <-l.progress:
			default:
			}
		}
	}
}

// progressReader counts bytes as the decoder pulls them and honors context
// cancellation between reads.
type progressReader struct {
	ctx    context.Context
	r      io.Reader
	loaded int64
	total  int64
	report func(loaded, total int64)
}

func (p *progressReader) Read(b []byte) (int, error) {
	if err := p.ctx.Err(); err != nil {
		return 0, err
	}
	n, err := p.r.Read(b)
	if n > 0 {
		p.loaded += int64(n)
		p.report(p.loaded, p.total)
	}
	return n, err
}
