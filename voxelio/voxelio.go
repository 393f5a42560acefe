package voxelio

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/goccy/go-json"
	"github.com/wkalt/dagtree/implementation"
	"github.com/wkalt/dagtree/util/log"
	"golang.org/x/sync/errgroup"
)

/*
voxelio loads voxel records into an index. Input files contain one JSON object
per line:

	{"x": 1, "y": 2, "z": 3, "type": 4}

Files are parsed in parallel, then applied to the index serially and in the
order the files were given, so that when two files write the same voxel the
later file wins.
*/

////////////////////////////////////////////////////////////////////////////////

// ErrNoInput is returned when input patterns match no files.
var ErrNoInput = errors.New("no input files matched")

// Voxel is a single voxel record.
type Voxel struct {
	X    int `json:"x"`
	Y    int `json:"y"`
	Z    int `json:"z"`
	Type int `json:"type"`
}

// Summary describes a completed load.
type Summary struct {
	Files  int
	Voxels int
}

// Decode reads voxel records from r until EOF.
func Decode(r io.Reader) ([]Voxel, error) {
	dec := json.NewDecoder(r)
	voxels := []Voxel{}
	for {
		var v Voxel
		if err := dec.Decode(&v); err != nil {
			if errors.Is(err, io.EOF) {
				return voxels, nil
			}
			return nil, fmt.Errorf("failed to decode record %d: %w", len(voxels)+1, err)
		}
		voxels = append(voxels, v)
	}
}

// Expand resolves glob patterns, which may include **, into a sorted list of
// distinct file paths.
func Expand(patterns []string) ([]string, error) {
	seen := make(map[string]bool)
	paths := []string{}
	for _, pattern := range patterns {
		matches, err := doublestar.FilepathGlob(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %s: %w", pattern, err)
		}
		sort.Strings(matches)
		for _, match := range matches {
			if !seen[match] {
				seen[match] = true
				paths = append(paths, match)
			}
		}
	}
	if len(paths) == 0 {
		return nil, ErrNoInput
	}
	return paths, nil
}

// LoadFiles parses each file concurrently. The result holds the records of
// paths[i] at index i.
func LoadFiles(ctx context.Context, paths []string) ([][]Voxel, error) {
	results := make([][]Voxel, len(paths))
	g := errgroup.Group{}
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			f, err := os.Open(path)
			if err != nil {
				return fmt.Errorf("failed to open %s: %w", path, err)
			}
			defer f.Close()
			voxels, err := Decode(f)
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", path, err)
			}
			results[i] = voxels
			log.Debugw(ctx, "parsed voxel file", "path", path, "voxels", len(voxels))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// Apply writes each voxel to impl in order.
func Apply(ctx context.Context, impl implementation.Implementation, voxels []Voxel) error {
	for i, v := range voxels {
		if err := impl.Set(ctx, v.Type, v.X, v.Y, v.Z); err != nil {
			return fmt.Errorf("failed to write voxel %d (%d, %d, %d): %w", i+1, v.X, v.Y, v.Z, err)
		}
	}
	return nil
}

// Load expands patterns, parses the matching files and applies them to impl.
func Load(ctx context.Context, impl implementation.Implementation, patterns []string) (Summary, error) {
	paths, err := Expand(patterns)
	if err != nil {
		return Summary{}, err
	}
	batches, err := LoadFiles(ctx, paths)
	if err != nil {
		return Summary{}, err
	}
	summary := Summary{Files: len(paths)}
	for i, batch := range batches {
		if err := Apply(ctx, impl, batch); err != nil {
			return summary, fmt.Errorf("%s: %w", paths[i], err)
		}
		summary.Voxels += len(batch)
	}
	log.Infow(ctx, "loaded voxels", "files", summary.Files, "voxels", summary.Voxels)
	return summary, nil
}
