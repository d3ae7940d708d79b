package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/treeml/pkg/cache"
	"github.com/matzehuels/treeml/pkg/errors"
	"github.com/matzehuels/treeml/pkg/observability"
)

// Runner encapsulates pipeline execution with caching.
// Both the CLI and the HTTP server use it.
//
// The Runner is stateless except for the cache and logger. Multiple
// goroutines can safely use the same Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// Result is the output of one conversion.
type Result struct {
	Output []byte `json:"output"`
	Stats  Stats  `json:"stats"`
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Dependency converts a document of dependency sentences.
func (r *Runner) Dependency(ctx context.Context, in io.Reader, opts Options) ([]byte, Stats, error) {
	opts.Kind = KindDependency
	return r.run(ctx, in, opts)
}

// Constituency converts a document of bracketed trees.
func (r *Runner) Constituency(ctx context.Context, in io.Reader, opts Options) ([]byte, Stats, error) {
	opts.Kind = KindConstituency
	return r.run(ctx, in, opts)
}

func (r *Runner) run(ctx context.Context, in io.Reader, opts Options) ([]byte, Stats, error) {
	input, err := io.ReadAll(in)
	if err != nil {
		return nil, Stats{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "read input")
	}
	res, err := r.Execute(ctx, input, opts)
	if err != nil {
		return nil, Stats{}, err
	}
	return res.Output, res.Stats, nil
}

// Execute converts input according to opts. On error no output is returned,
// so callers never see a partial document.
func (r *Runner) Execute(ctx context.Context, input []byte, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	key := r.Keyer.DocumentKey(cache.Hash(input), opts.DocumentKeyOpts())
	if res, ok := r.lookup(ctx, key, opts); ok {
		return res, nil
	}

	res, err := r.convert(ctx, input, &opts)
	if err != nil {
		return nil, err
	}

	r.store(ctx, key, res, opts)
	return res, nil
}

func (r *Runner) convert(ctx context.Context, input []byte, opts *Options) (*Result, error) {
	start := time.Now()
	var (
		res *Result
		err error
	)
	switch {
	case opts.Format == FormatSVG:
		res, err = preview(ctx, input, opts)
	case opts.Kind == KindDependency:
		res, err = convertDependency(ctx, input, opts)
	default:
		res, err = convertConstituency(ctx, input, opts)
	}
	if err != nil {
		return nil, err
	}

	st := res.Stats
	opts.Logger.Info("converted document",
		"kind", opts.Kind,
		"format", opts.Format,
		"sentences", st.Sentences,
		"tokens", st.Tokens,
		"max_tier", st.MaxTier,
		"duration", time.Since(start))
	if st.Skipped > 0 {
		opts.Logger.Warn("skipped malformed sentences", "skipped", st.Skipped)
	}
	return res, nil
}

func (r *Runner) lookup(ctx context.Context, key string, opts Options) (*Result, bool) {
	hooks := observability.Cache()
	if opts.Refresh {
		return nil, false
	}
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		opts.Logger.Warn("cache read failed", "error", err)
		return nil, false
	}
	if !hit {
		hooks.OnCacheMiss(ctx, opts.Kind)
		return nil, false
	}
	var res Result
	if err := json.Unmarshal(data, &res); err != nil {
		opts.Logger.Warn("discarding corrupt cache entry", "error", err)
		hooks.OnCacheMiss(ctx, opts.Kind)
		return nil, false
	}
	hooks.OnCacheHit(ctx, opts.Kind)
	res.Stats.CacheHit = true
	opts.Logger.Debug("cache hit", "kind", opts.Kind, "cache", true)
	return &res, true
}

func (r *Runner) store(ctx context.Context, key string, res *Result, opts Options) {
	data, err := json.Marshal(res)
	if err != nil {
		return
	}
	if err := r.Cache.Set(ctx, key, data, cache.TTLDocument); err != nil {
		opts.Logger.Warn("cache write failed", "error", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, opts.Kind, len(data))
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
