// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package bundle runs one upload request end to end: it saves every source
// into a private workspace, converts each to PDF, and packages the results
// into a single archive. Either the whole archive is produced or nothing
// is; every failure removes the workspace before returning.
package bundle

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pdiddy/file-compressor/internal/archive"
	"github.com/pdiddy/file-compressor/internal/convert"
	"github.com/pdiddy/file-compressor/internal/workspace"
	"github.com/pdiddy/file-compressor/pkg/types"
)

var (
	// ErrMissingInput reports a request without any file.
	ErrMissingInput = errors.New("no file submitted")

	// ErrInvalidName reports a source whose name has no usable base name.
	ErrInvalidName = errors.New("invalid file name")
)

// Source is one submitted file.
type Source interface {
	// Name is the client-supplied file name; only its base name is used.
	Name() string
	// Open returns the file content.
	Open() (io.ReadCloser, error)
}

// FileSource is a Source backed by a local file path.
type FileSource string

func (f FileSource) Name() string                 { return filepath.Base(string(f)) }
func (f FileSource) Open() (io.ReadCloser, error) { return os.Open(string(f)) }

// Recorder receives the outcome of every request.
type Recorder interface {
	Record(ctx context.Context, o types.Outcome) error
}

// Options configure a Bundler.
type Options struct {
	// ArchiveName is the public name of the archive (default compressed.rar).
	ArchiveName string
	// TempDir is the parent of request workspaces; empty uses the OS default.
	TempDir string
	// Log receives one status line per file; nil discards them.
	Log io.Writer
	// Recorder optionally journals outcomes.
	Recorder Recorder
}

// Bundler converts and archives uploads. It keeps no state between
// requests and is safe for concurrent use.
type Bundler struct {
	converter   *convert.Converter
	archiveName string
	tempDir     string
	log         io.Writer
	recorder    Recorder
}

// New creates a Bundler around a converter.
func New(c *convert.Converter, opts Options) *Bundler {
	name := filepath.Base(opts.ArchiveName)
	if opts.ArchiveName == "" || name == "." || name == string(filepath.Separator) {
		name = types.DefaultArchiveName
	}
	log := opts.Log
	if log == nil {
		log = io.Discard
	}
	return &Bundler{
		converter:   c,
		archiveName: name,
		tempDir:     opts.TempDir,
		log:         log,
		recorder:    opts.Recorder,
	}
}

// ArchiveName returns the public archive name.
func (b *Bundler) ArchiveName() string { return b.archiveName }

// Result is a finished archive inside its request workspace. Close it once
// the archive has been delivered.
type Result struct {
	ArchivePath string
	ArchiveName string
	Outputs     []types.Output

	ws *workspace.Workspace
}

// Close removes the workspace holding the archive.
func (r *Result) Close() error {
	if r == nil || r.ws == nil {
		return nil
	}
	return r.ws.Close()
}

// Bundle converts sources in order and archives the outputs. Extensions are
// all checked before any work starts, so an unsupported file fails the
// request without touching the disk.
func (b *Bundler) Bundle(ctx context.Context, sources []Source) (res *Result, err error) {
	names := make([]string, len(sources))
	for i, src := range sources {
		names[i] = src.Name()
	}
	defer func() { b.record(ctx, names, res, err) }()

	if len(sources) == 0 {
		return nil, ErrMissingInput
	}
	for i, name := range names {
		base := filepath.Base(name)
		if strings.TrimSpace(name) == "" || base == "." || base == string(filepath.Separator) {
			return nil, fmt.Errorf("%w: %q", ErrInvalidName, name)
		}
		names[i] = base
		if err := convert.CheckName(base); err != nil {
			return nil, err
		}
	}

	ws, err := workspace.New(b.tempDir)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			ws.Close()
		}
	}()

	used := make(map[string]bool, len(sources))
	outputs := make([]types.Output, 0, len(sources))
	files := make([]archive.File, 0, len(sources))
	for i, src := range sources {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		name := names[i]
		out, err := b.convertOne(ws, i, name, src, uniqueName(convert.OutputName(name), used))
		if err != nil {
			fmt.Fprintf(b.log, "failed:  %s (%v)\n", name, err)
			return nil, err
		}
		fmt.Fprintf(b.log, "converted: %s -> %s (%s)\n", out.SourceName, out.OutputName, pagesLabel(out.Pages))

		outputs = append(outputs, out)
		files = append(files, archive.File{Name: out.OutputName, Path: out.Path})
	}

	archivePath, err := archive.Build(files, ws.Join(b.archiveName))
	if err != nil {
		return nil, err
	}

	return &Result{
		ArchivePath: archivePath,
		ArchiveName: b.archiveName,
		Outputs:     outputs,
		ws:          ws,
	}, nil
}

// convertOne saves src into its workspace slot and converts it to outName.
func (b *Bundler) convertOne(ws *workspace.Workspace, i int, name string, src Source, outName string) (types.Output, error) {
	inPath, err := ws.Slot(i, name)
	if err != nil {
		return types.Output{}, err
	}
	if err := save(src, inPath); err != nil {
		return types.Output{}, err
	}
	out, err := b.converter.Convert(inPath, ws.Output(outName))
	if err != nil {
		return types.Output{}, err
	}
	return out, nil
}

func save(src Source, path string) error {
	rc, err := src.Open()
	if err != nil {
		return fmt.Errorf("opening upload %s: %w", src.Name(), err)
	}
	defer rc.Close()

	dst, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("saving upload: %w", err)
	}
	if _, err := io.Copy(dst, rc); err != nil {
		dst.Close()
		return fmt.Errorf("saving upload %s: %w", src.Name(), err)
	}
	return dst.Close()
}

// uniqueName returns name, or name with a -2, -3, ... suffix when an
// earlier output already took it, and marks the result as used.
func uniqueName(name string, used map[string]bool) string {
	candidate := name
	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	for n := 2; used[candidate]; n++ {
		candidate = fmt.Sprintf("%s-%d%s", stem, n, ext)
	}
	used[candidate] = true
	return candidate
}

func pagesLabel(n int) string {
	switch n {
	case 0:
		return "pages unknown"
	case 1:
		return "1 page"
	default:
		return fmt.Sprintf("%d pages", n)
	}
}

func (b *Bundler) record(ctx context.Context, names []string, res *Result, err error) {
	if b.recorder == nil {
		return
	}
	o := types.Outcome{
		Time:        time.Now().UTC(),
		Status:      types.OutcomeOK,
		ArchiveName: b.archiveName,
		Sources:     names,
	}
	if err != nil {
		o.Status = types.OutcomeFailed
		o.Error = err.Error()
	} else if res != nil {
		o.Outputs = res.Outputs
	}
	if rerr := b.recorder.Record(context.WithoutCancel(ctx), o); rerr != nil {
		fmt.Fprintf(b.log, "journal: %v\n", rerr)
	}
}
