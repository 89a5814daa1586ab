// Package render stamps many stencil files at once and keeps them stamped
// while they change.
package render

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"golang.org/x/sync/errgroup"

	"github.com/getmockd/stencil/pkg/logging"
	"github.com/getmockd/stencil/pkg/stencil"
	"github.com/getmockd/stencil/pkg/util"
)

// TemplateSuffix is stripped from source names when writing output files.
const TemplateSuffix = ".tmpl"

// DefaultWorkers is used when Renderer.Workers is below 1.
const DefaultWorkers = 4

// ErrNoMatches is returned when a glob matches no files.
var ErrNoMatches = errors.New("no files match pattern")

// Renderer stamps files matched by a glob pattern.
type Renderer struct {
	Engine  *stencil.Engine
	Workers int
	// OutDir receives the stamped files, mirroring their path below the glob
	// base. When empty nothing is written and Output.Content holds the result.
	OutDir string
	Logger *slog.Logger
}

// Output describes one rendered file.
type Output struct {
	Source  string `json:"source"`
	Target  string `json:"target,omitempty"`
	Content string `json:"-"`
}

// FileError reports a file that could not be rendered.
type FileError struct {
	Path string
	Err  error
}

func (e *FileError) Error() string {
	return e.Path + ": " + e.Err.Error()
}

func (e *FileError) Unwrap() error {
	return e.Err
}

func (r *Renderer) logger() *slog.Logger {
	if r.Logger != nil {
		return r.Logger
	}
	return logging.Nop()
}

func (r *Renderer) workers() int {
	if r.Workers < 1 {
		return DefaultWorkers
	}
	return r.Workers
}

// Expand returns the files matching pattern in sorted order.
// Supports ** for recursive directory matching.
func Expand(pattern string) ([]string, error) {
	matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("expanding glob pattern: %w", err)
	}
	sort.Strings(matches)
	return matches, nil
}

// Base returns the directory part of pattern that contains no glob
// metacharacters. Output paths are relative to it.
func Base(pattern string) string {
	base, _ := doublestar.SplitPattern(filepath.ToSlash(pattern))
	return filepath.FromSlash(base)
}

// RenderGlob stamps every file matching pattern using at most Workers
// goroutines. The first failure cancels the remaining files and is returned
// as a *FileError.
func (r *Renderer) RenderGlob(ctx context.Context, pattern string) ([]Output, error) {
	files, err := Expand(pattern)
	if err != nil {
		return nil, err
	}
	files = slices.DeleteFunc(files, r.isOutput)
	if len(files) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoMatches, pattern)
	}
	base := Base(pattern)

	outputs := make([]Output, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers())
	for i, path := range files {
		g.Go(func() error {
			out, err := r.renderFile(gctx, base, path)
			if err != nil {
				return err
			}
			outputs[i] = out
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	r.logger().Info("rendered files", "pattern", pattern, "count", len(outputs))
	return outputs, nil
}

// isOutput reports whether path lies inside OutDir. Files there are never
// rendered, so an output directory below the glob base cannot feed itself.
func (r *Renderer) isOutput(path string) bool {
	if r.OutDir == "" {
		return false
	}
	out, err := filepath.Abs(r.OutDir)
	if err != nil {
		return false
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	rel, err := filepath.Rel(out, abs)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// RenderFile stamps a single file. base is the directory its output path is
// computed relative to.
func (r *Renderer) RenderFile(ctx context.Context, base, path string) (Output, error) {
	return r.renderFile(ctx, base, path)
}

func (r *Renderer) renderFile(ctx context.Context, base, path string) (Output, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Output{}, &FileError{Path: path, Err: err}
	}

	stamped, err := r.Engine.StampContext(ctx, string(data))
	if err != nil {
		return Output{}, &FileError{Path: path, Err: err}
	}

	out := Output{Source: path, Content: stamped}
	if r.OutDir == "" {
		return out, nil
	}

	target, err := r.targetPath(base, path)
	if err != nil {
		return Output{}, &FileError{Path: path, Err: err}
	}
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return Output{}, &FileError{Path: path, Err: err}
	}
	info, err := os.Stat(path)
	if err != nil {
		return Output{}, &FileError{Path: path, Err: err}
	}
	if err := os.WriteFile(target, []byte(stamped), info.Mode().Perm()); err != nil {
		return Output{}, &FileError{Path: path, Err: err}
	}
	out.Target = target

	r.logger().Debug("rendered file", "source", path, "target", target)
	return out, nil
}

func (r *Renderer) targetPath(base, path string) (string, error) {
	rel, err := filepath.Rel(base, path)
	if err != nil {
		return "", err
	}
	// Files outside the glob base land directly in OutDir.
	safe, ok := util.SafeFilePath(rel)
	if !ok {
		safe = filepath.Base(path)
	}
	return filepath.Join(r.OutDir, strings.TrimSuffix(safe, TemplateSuffix)), nil
}
