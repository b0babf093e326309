package pipeline

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/kmonadfmt/pkg/cache"
	errs "github.com/matzehuels/kmonadfmt/pkg/errors"
	"github.com/matzehuels/kmonadfmt/pkg/format"
	"github.com/matzehuels/kmonadfmt/pkg/observability"
)

// Runner formats files with caching.
//
// The Runner keeps no per-run state. Multiple goroutines can safely call Run
// on the same Runner.
type Runner struct {
	Formatter *format.Formatter
	Cache     cache.Cache
	Keyer     cache.Keyer
	Logger    *log.Logger
	TTL       time.Duration
	Jobs      int // parallel files; <= 0 means GOMAXPROCS
}

// NewRunner creates a runner.
// If formatter is nil, a rune-column formatter is used.
// If cache is nil, a NullCache is used (caching disabled).
// If keyer is nil, a DefaultKeyer is used.
func NewRunner(f *format.Formatter, c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if f == nil {
		f = format.New(nil, "")
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Formatter: f,
		Cache:     c,
		Keyer:     keyer,
		Logger:    logger,
		TTL:       DefaultTTL,
	}
}

// Run formats paths in parallel and returns one result per path, in input
// order. File errors are recorded in the results. The returned error is only
// set when ctx is cancelled; results for unscheduled files are then empty.
func (r *Runner) Run(ctx context.Context, paths []string, mode Mode) ([]FileResult, error) {
	results := make([]FileResult, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.jobs())
	for i, path := range paths {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			results[i] = r.FormatFile(gctx, path, mode)
			return nil
		})
	}
	_ = g.Wait()
	return results, ctx.Err()
}

func (r *Runner) jobs() int {
	if r.Jobs > 0 {
		return r.Jobs
	}
	return runtime.GOMAXPROCS(0)
}

// FormatFile formats a single file. In ModeWrite a changed file is rewritten
// and Output is left empty.
func (r *Runner) FormatFile(ctx context.Context, path string, mode Mode) FileResult {
	data, err := os.ReadFile(path)
	if err != nil {
		code := errs.ErrCodeInvalidPath
		if errors.Is(err, fs.ErrNotExist) {
			code = errs.ErrCodeFileNotFound
		}
		return FileResult{Path: path, Err: errs.Wrap(code, err, "read %s", path)}
	}

	res := r.FormatSource(ctx, path, string(data), mode)
	if mode != ModeWrite {
		return res
	}
	out := res.Output
	res.Output = ""
	if res.Err != nil || !res.Changed {
		return res
	}

	if err := WriteFile(path, out); err != nil {
		res.Err = errs.Wrap(errs.ErrCodeInvalidPath, err, "write %s", path)
		return res
	}
	r.markClean(ctx, out)
	return res
}

// FormatSource formats src read from name. It never touches the file system;
// in ModeWrite and ModeStdout the formatted text is returned in Output.
func (r *Runner) FormatSource(ctx context.Context, name, src string, mode Mode) (res FileResult) {
	start := time.Now()
	hooks := observability.Format()
	hooks.OnFormatStart(ctx, name)
	res.Path = name
	defer func() {
		res.Duration = time.Since(start)
		hooks.OnFormatComplete(ctx, name, res.Changed, res.Duration, res.Err)
	}()

	key := r.key(src)
	if _, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
		observability.Cache().OnCacheHit(ctx, "fmt")
		r.Logger.Debug("clean marker hit", "path", name)
		res.Cached = true
		if mode != ModeCheck {
			res.Output = src
		}
		return res
	} else if err != nil {
		r.Logger.Warn("cache lookup failed", "path", name, "err", err)
	}
	observability.Cache().OnCacheMiss(ctx, "fmt")

	fr, err := r.Formatter.Format(src)
	if err != nil {
		res.Err = err
		return res
	}
	out, err := fr.Apply(src)
	if err != nil {
		res.Err = errs.Wrap(errs.ErrCodeInternal, err, "apply edits")
		return res
	}

	res.Info = fr.Info
	res.Skipped = fr.Skipped
	res.Changed = out != src
	if mode != ModeCheck {
		res.Output = out
	}
	if !res.Changed {
		r.markClean(ctx, src)
	}
	r.Logger.Debug("formatted", "path", name, "info", fr.Info, "changed", res.Changed)
	return res
}

func (r *Runner) key(src string) string {
	return r.Keyer.FormatKey(cache.Hash([]byte(src)), cache.FormatKeyOpts{
		Operation: "fmt",
		Columns:   string(r.Formatter.Unit()),
	})
}

func (r *Runner) markClean(ctx context.Context, src string) {
	if err := r.Cache.Set(ctx, r.key(src), Marker, r.TTL); err != nil {
		r.Logger.Warn("cache write failed", "err", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, "fmt", len(Marker))
}

// WriteFile atomically replaces path, keeping its permissions.
func WriteFile(path, content string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.WriteString(content); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Chmod(info.Mode().Perm()); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}
