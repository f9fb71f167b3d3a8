package convert

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// BatchOptions carries the per-image parameters for a directory run.
type BatchOptions struct {
	Format    Format
	Quality   int
	Width     int
	Height    int
	Recursive bool
	Grayscale bool
}

// BatchResult is the outcome of one directory run. A run that found no
// files at all has Total == 0, which is distinct from a run where every
// file failed.
type BatchResult struct {
	Converted int
	Total     int
}

// FindImages returns the paths under root whose extension matches a
// supported format alias. Non-recursive mode lists only immediate
// children. Paths come back in lexical order, which callers should
// treat as a convenience rather than a contract.
func FindImages(root string, recursive bool) ([]string, error) {
	var files []string

	if recursive {
		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && MatchesFormat(path) {
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
		return files, nil
	}

	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, err
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if MatchesFormat(entry.Name()) {
			files = append(files, filepath.Join(root, entry.Name()))
		}
	}
	return files, nil
}

// ConvertDir enumerates the images under srcDir and converts each one
// into dstDir, mirroring relative subdirectories in recursive mode and
// placing everything flat otherwise. Per-file failures are logged and
// counted, never propagated. The context is checked between files, so
// cancellation stops the run cleanly at the next iteration boundary.
func (c *Converter) ConvertDir(ctx context.Context, srcDir, dstDir string, opts BatchOptions) (BatchResult, error) {
	files, err := FindImages(srcDir, opts.Recursive)
	if err != nil {
		return BatchResult{}, fmt.Errorf("failed to scan input directory: %w", err)
	}

	result := BatchResult{Total: len(files)}
	if result.Total == 0 {
		return result, nil
	}

	if err := os.MkdirAll(dstDir, 0o755); err != nil {
		return result, fmt.Errorf("failed to create output directory: %w", err)
	}

	c.logger.Info("processing images",
		zap.Int("count", result.Total),
		zap.String("format", opts.Format.String()),
	)

	for _, src := range files {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		dest, err := c.destPath(src, srcDir, dstDir, opts)
		if err != nil {
			c.logger.Error("failed to resolve output path",
				zap.String("path", src),
				zap.Error(err),
			)
			continue
		}

		req := Request{
			Source:    src,
			Dest:      dest,
			Format:    opts.Format,
			Quality:   opts.Quality,
			Width:     opts.Width,
			Height:    opts.Height,
			Grayscale: opts.Grayscale,
		}
		if err := c.Convert(req); err != nil {
			c.logger.Error("failed to convert image",
				zap.String("path", src),
				zap.Error(err),
			)
			continue
		}

		c.logger.Debug("converted image",
			zap.String("source", src),
			zap.String("dest", dest),
		)
		result.Converted++
	}

	return result, nil
}

func (c *Converter) destPath(src, srcDir, dstDir string, opts BatchOptions) (string, error) {
	base := filepath.Base(src)
	name := strings.TrimSuffix(base, filepath.Ext(base)) + "." + opts.Format.Extension()

	if !opts.Recursive {
		return filepath.Join(dstDir, name), nil
	}

	rel, err := filepath.Rel(srcDir, src)
	if err != nil {
		return "", err
	}
	return filepath.Join(dstDir, filepath.Dir(rel), name), nil
}
