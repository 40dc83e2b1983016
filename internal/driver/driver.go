// Package driver runs one compile of a project's context packages: load
// features, extract file maps, then write completed packages before pending
// ones so that pending packages can point at them.
package driver

import (
	"context"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/ZhiHanZ/forge/internal/config"
	"github.com/ZhiHanZ/forge/internal/contextpkg"
	"github.com/ZhiHanZ/forge/internal/depgraph"
	"github.com/ZhiHanZ/forge/internal/extract"
	"github.com/ZhiHanZ/forge/internal/filemap"
	"github.com/ZhiHanZ/forge/internal/project"
	"github.com/ZhiHanZ/forge/internal/telemetry"
)

// Reporter receives human-facing progress. ui.Printer satisfies it.
type Reporter interface {
	Info(msg string)
	Debug(msg string)
	Warn(msg string)
	FileFailed(path string, err error)
	Wrote(rel string, size int, completed bool)
}

// Driver holds the collaborators for compile runs. Only Paths and Reporter
// are required.
type Driver struct {
	Paths     config.Paths
	Extractor extract.Extractor      // nil = extraction skipped
	Cache     *extract.SQLiteCache   // nil = every file goes to the extractor
	Model     string                 // part of the cache key
	Workers   int                    // < 1 = one worker
	Reporter  Reporter
	Telemetry *telemetry.Emitter // nil = no events
}

// Result summarizes a run.
type Result struct {
	Completed     []string // feature ids written in pass 1
	Pending       []string // feature ids written in pass 2
	Extracted     []string // paths in the snapshot, sorted
	Cached        int      // how many of Extracted came from the cache
	Failed        []string // paths whose extraction failed, sorted
	Written       []string // project-relative package paths
	WriteFailures []string // feature ids whose package could not be written
	Elapsed       time.Duration
}

// Select splits features into the done features some active feature depends
// on, and the active (pending or claimed) features. Both keep input order.
func Select(features []project.Feature) (done, active []project.Feature) {
	wanted := make(map[string]bool)
	for _, f := range features {
		if f.Status.Active() {
			active = append(active, f)
			for _, dep := range f.DependsOn {
				wanted[dep] = true
			}
		}
	}
	for _, f := range features {
		if f.Status == project.StatusDone && wanted[f.ID] {
			done = append(done, f)
		}
	}
	return done, active
}

// Run performs one compile. Only a failure to create the packages directory
// or a cancelled context is returned as an error; everything else is
// reported and skipped.
func (d *Driver) Run(ctx context.Context) (Result, error) {
	start := time.Now()
	var res Result

	d.Telemetry.StartRun()
	d.emit(telemetry.Event{Kind: telemetry.KindRunStart, Path: d.Paths.Root})

	features, err := project.LoadFeatures(d.Paths.FeaturesPath)
	if err != nil {
		d.Reporter.Warn(fmt.Sprintf("%s: %v", config.FeaturesFile, err))
		features = nil
	}
	if len(features) == 0 {
		d.Reporter.Info("No features.json found or empty, skipping.")
		return d.finish(res, start), nil
	}

	done, active := Select(features)
	done = d.dropInvalid(done, &res)
	active = d.dropInvalid(active, &res)
	if len(done) == 0 && len(active) == 0 {
		d.Reporter.Info("No features to package.")
		return d.finish(res, start), nil
	}

	if _, problems := depgraph.Build(features); len(problems) > 0 {
		for _, p := range problems {
			d.Reporter.Warn(p.Error())
		}
	}

	scopes, err := project.LoadScopes(d.Paths.ForgeTOMLPath)
	if err != nil {
		d.Reporter.Warn(fmt.Sprintf("%s: %v", config.ForgeTOMLFile, err))
		scopes = nil
	}

	if err := os.MkdirAll(d.Paths.PackagesDir, 0o755); err != nil {
		return res, fmt.Errorf("creating packages directory: %w", err)
	}
	if err := os.MkdirAll(d.Paths.ExecMemoryDir, 0o755); err != nil {
		d.Reporter.Warn(fmt.Sprintf("creating exec-memory directory: %v", err))
	}

	snapshot := d.extractAll(ctx, scopes, append(append([]project.Feature{}, done...), active...), &res)
	if err := ctx.Err(); err != nil {
		return res, err
	}

	compiler := contextpkg.New(d.Paths, scopes)
	for _, f := range done {
		if d.write(f.ID, compiler.CompileCompleted(f, snapshot), true, &res) {
			res.Completed = append(res.Completed, f.ID)
		}
	}
	for _, f := range active {
		if d.write(f.ID, compiler.CompilePending(f, snapshot, features), false, &res) {
			res.Pending = append(res.Pending, f.ID)
		}
	}

	return d.finish(res, start), nil
}

// dropInvalid removes features whose id cannot name a package file inside
// the packages directory. Each one is reported as a write failure.
func (d *Driver) dropInvalid(features []project.Feature, res *Result) []project.Feature {
	kept := features[:0:0]
	for _, f := range features {
		if !project.ValidID(f.ID) {
			d.Reporter.Warn(fmt.Sprintf("invalid feature id %q, skipping its package", f.ID))
			res.WriteFailures = append(res.WriteFailures, f.ID)
			continue
		}
		kept = append(kept, f)
	}
	return kept
}

func (d *Driver) write(featureID, content string, completed bool, res *Result) bool {
	path := d.Paths.PackagePath(featureID)
	rel := d.Paths.Rel(path)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		d.Reporter.Warn(fmt.Sprintf("writing %s: %v", rel, err))
		res.WriteFailures = append(res.WriteFailures, featureID)
		return false
	}
	d.Reporter.Wrote(rel, len(content), completed)
	res.Written = append(res.Written, rel)
	d.emit(telemetry.Event{
		Kind:      telemetry.KindPackageWritten,
		FeatureID: featureID,
		Path:      rel,
		Data:      map[string]any{"bytes": len(content), "completed": completed},
	})
	return true
}

func (d *Driver) finish(res Result, start time.Time) Result {
	res.Elapsed = time.Since(start)
	d.emit(telemetry.Event{
		Kind: telemetry.KindRunDone,
		Data: map[string]any{
			"completed":  len(res.Completed),
			"pending":    len(res.Pending),
			"extracted":  len(res.Extracted),
			"cached":     res.Cached,
			"failed":     len(res.Failed),
			"written":    len(res.Written),
			"elapsed_ms": res.Elapsed.Milliseconds(),
		},
	})
	return res
}

func (d *Driver) emit(evt telemetry.Event) {
	if err := d.Telemetry.Emit(evt); err != nil {
		d.Reporter.Debug(err.Error())
	}
}

func sortedKeys(m filemap.Snapshot) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
