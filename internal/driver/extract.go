package driver

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"unicode/utf8"

	"github.com/sourcegraph/conc/pool"

	"github.com/ZhiHanZ/forge/internal/extract"
	"github.com/ZhiHanZ/forge/internal/filemap"
	"github.com/ZhiHanZ/forge/internal/project"
	"github.com/ZhiHanZ/forge/internal/telemetry"
)

// SkipDirs are directory names never descended into when collecting sources.
var SkipDirs = map[string]bool{
	".git": true, ".forge": true, "node_modules": true, "target": true,
	"dist": true, "build": true, "__pycache__": true, ".venv": true,
	"venv": true, "references": true,
}

// SourceExts are the file extensions treated as source code.
var SourceExts = map[string]bool{
	".rs": true, ".py": true, ".ts": true, ".tsx": true, ".js": true,
	".jsx": true, ".go": true, ".java": true, ".c": true, ".cpp": true,
	".h": true, ".hpp": true, ".rb": true, ".swift": true, ".kt": true,
	".scala": true,
}

// CollectSources walks root and returns the slash-separated relative paths
// of source files, sorted.
func CollectSources(root string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			// Unreadable subtrees are skipped, not fatal.
			if entry != nil && entry.IsDir() && path != root {
				return filepath.SkipDir
			}
			return nil
		}
		if entry.IsDir() {
			if path != root && SkipDirs[entry.Name()] {
				return filepath.SkipDir
			}
			return nil
		}
		if !SourceExts[filepath.Ext(path)] {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return nil
		}
		files = append(files, filepath.ToSlash(rel))
		return nil
	})
	sort.Strings(files)
	return files, err
}

// ownedSources keeps the sources owned by any of the features' scopes.
func ownedSources(sources []string, scopes *project.ScopeTable, features []project.Feature) []string {
	owned := make(map[string]bool)
	for _, f := range features {
		for _, p := range scopes.Resolve(f) {
			owned[p] = true
		}
	}
	var out []string
	for _, p := range sources {
		if owned[p] {
			out = append(out, p)
		}
	}
	return out
}

// extractAll builds the run's snapshot. The returned map is not written to
// after the pool drains.
func (d *Driver) extractAll(ctx context.Context, scopes *project.ScopeTable, selected []project.Feature, res *Result) filemap.Snapshot {
	if d.Extractor == nil || !d.Extractor.Enabled() {
		d.Reporter.Info("  No LLM API key, skipping file extraction (packages will lack scope file maps)")
		return filemap.Snapshot{}
	}

	sources, err := CollectSources(d.Paths.Root)
	if err != nil {
		d.Reporter.Warn("collecting sources: " + err.Error())
	}
	targets := ownedSources(sources, scopes, selected)
	d.Reporter.Debug(fmt.Sprintf("extracting %d of %d source files", len(targets), len(sources)))

	var (
		mu       sync.Mutex
		snapshot = make(filemap.Snapshot, len(targets))
		failed   []string
		cached   int
	)

	workers := d.Workers
	if workers < 1 {
		workers = 1
	}
	p := pool.New().WithMaxGoroutines(workers)
	for _, rel := range targets {
		p.Go(func() {
			if ctx.Err() != nil {
				return
			}
			info, hit, err := d.extractOne(ctx, rel)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err != nil:
				failed = append(failed, rel)
			case info != nil:
				snapshot[rel] = info
				if hit {
					cached++
				}
			}
		})
	}
	p.Wait()

	sort.Strings(failed)
	res.Failed = failed
	res.Cached = cached
	res.Extracted = sortedKeys(snapshot)
	return snapshot
}

// extractOne returns the info for one file, consulting the cache first.
// A nil info with a nil error means the file was skipped.
func (d *Driver) extractOne(ctx context.Context, rel string) (*filemap.Info, bool, error) {
	data, err := os.ReadFile(filepath.Join(d.Paths.Root, filepath.FromSlash(rel)))
	if err != nil || !utf8.Valid(data) {
		d.Reporter.Debug("unreadable, skipped: " + rel)
		return nil, false, nil
	}
	hash := extract.Hash(data)

	info, hit, err := d.Cache.Get(ctx, rel, hash, d.Model)
	if err != nil {
		d.Reporter.Debug(err.Error())
	}
	if hit {
		d.emit(telemetry.Event{Kind: telemetry.KindExtractFile, Path: rel, Data: map[string]any{"cached": true}})
		return info, true, nil
	}

	info, err = d.Extractor.Extract(ctx, string(data), rel)
	if err != nil {
		d.Reporter.FileFailed(rel, err)
		d.emit(telemetry.Event{Kind: telemetry.KindExtractFailed, Path: rel, Data: map[string]string{"error": err.Error()}})
		return nil, false, err
	}
	if err := d.Cache.Put(ctx, rel, hash, d.Model, info); err != nil {
		d.Reporter.Debug(err.Error())
	}
	if err := d.Cache.Prune(ctx, rel, hash); err != nil {
		d.Reporter.Debug(err.Error())
	}
	d.emit(telemetry.Event{Kind: telemetry.KindExtractFile, Path: rel, Data: map[string]any{"cached": false}})
	return info, false, nil
}
